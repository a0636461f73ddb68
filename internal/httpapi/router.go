package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roach88/ponto/internal/audit"
	"github.com/roach88/ponto/internal/domain"
	"github.com/roach88/ponto/internal/engine"
	"github.com/roach88/ponto/internal/timesheet"
)

// ActorHeader names the request header carrying the acting user.
const ActorHeader = "X-Actor"

// TraceHeader is set on every response to the request's trace id.
const TraceHeader = "X-Trace-Id"

// Deps are the services a Handler translates to.
type Deps struct {
	Ledger    *engine.Ledger
	Audit     *audit.Log
	Timesheet *timesheet.Engine
	Clock     domain.Clock
	Location  *time.Location
	Logger    *slog.Logger
	Trace     engine.TraceGenerator

	// DefaultActor is used when a request has no X-Actor header.
	DefaultActor domain.Actor
	// RetentionDays is the purge window when a purge request names none.
	RetentionDays int
}

// Handler serves the JSON API.
type Handler struct {
	Deps
}

// NewRouter builds the chi router for the API.
func NewRouter(d Deps) http.Handler {
	if d.Clock == nil {
		d.Clock = domain.SystemClock{}
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Trace == nil {
		d.Trace = engine.UUIDv7Generator{}
	}
	h := &Handler{Deps: d}

	r := chi.NewRouter()
	r.Use(h.requestContext)

	r.Route("/api", func(api chi.Router) {
		api.Get("/employees", h.handleListEmployees)
		api.Post("/employees", h.handleAddEmployee)
		api.Route("/employees/{id}", func(emp chi.Router) {
			emp.Get("/", h.handleGetEmployee)
			emp.Delete("/", h.handleRemoveEmployee)
			emp.Get("/events", h.handleEmployeeEvents)
			emp.Get("/timesheet/{year}/{month}", h.handleTimesheet)
			emp.Get("/summary/{year}/{month}", h.handleSummary)
			emp.Get("/days-off", h.handleListDaysOff)
			emp.Post("/days-off", h.handleSetDayOff)
		})

		api.Post("/events", h.handleRecord)
		api.Put("/events", h.handleAdjust)
		api.Delete("/events/{id}", h.handleRemove)

		api.Get("/holidays", h.handleListHolidays)
		api.Post("/holidays", h.handleAddHoliday)

		api.Get("/logs", h.handleLogs)
		api.Get("/logs/summary", h.handleLogsSummary)
		api.Post("/logs/purge", h.handlePurge)

		api.Post("/checkpoint", h.handleCheckpoint)
	})

	return r
}

// requestContext stamps a trace id on the response and the request's
// logger, and attributes audit entries to the remote address.
func (h *Handler) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := h.Trace.Generate()
		w.Header().Set(TraceHeader, traceID)

		ctx := audit.WithSource(r.Context(), r.RemoteAddr)
		ctx = withLogger(ctx, h.Logger.With("trace_id", traceID))

		h.Logger.Debug("request",
			"trace_id", traceID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// actor returns the acting user of r.
func (h *Handler) actor(r *http.Request) domain.Actor {
	if a := r.Header.Get(ActorHeader); a != "" {
		return domain.Actor(a)
	}
	return h.DefaultActor
}
