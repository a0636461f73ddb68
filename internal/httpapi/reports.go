package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/roach88/ponto/internal/audit"
	"github.com/roach88/ponto/internal/domain"
	"github.com/roach88/ponto/internal/timesheet"
)

type timesheetResponse struct {
	EmployeeID int64                    `json:"employee_id"`
	Year       int                      `json:"year"`
	Month      time.Month               `json:"month"`
	Days       []timesheet.DayReport    `json:"days"`
	Summary    timesheet.MonthlySummary `json:"summary"`
}

type purgeRequest struct {
	Days *int `json:"days,omitempty"`
}

type purgeResponse struct {
	Removed int64 `json:"removed"`
	Days    int   `json:"days"`
}

func (h *Handler) handleTimesheet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	year, month, err := pathYearMonth(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	days, err := h.Timesheet.BuildMonth(r.Context(), id, year, month)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	summary := timesheet.Summarize(days)
	summary.EmployeeID, summary.Year, summary.Month = id, year, month

	writeJSON(w, http.StatusOK, timesheetResponse{
		EmployeeID: id,
		Year:       year,
		Month:      month,
		Days:       timesheet.Report(days),
		Summary:    summary,
	})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	year, month, err := pathYearMonth(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	summary, err := h.Timesheet.MonthlySummary(r.Context(), id, year, month)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.AuditFilter{Actor: domain.Actor(q.Get("actor"))}
	var err error
	if raw := q.Get("category"); raw != "" {
		if filter.Category, err = domain.ParseCategory(raw); err != nil {
			writeError(r.Context(), w, badRequest(err))
			return
		}
	}
	if raw := q.Get("limit"); raw != "" {
		if filter.Limit, err = strconv.Atoi(raw); err != nil {
			writeError(r.Context(), w, badRequest(fmt.Errorf("invalid limit %q", raw)))
			return
		}
	}
	if filter.From, err = queryDate(r, "from"); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if filter.To, err = queryDate(r, "to"); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	entries, err := h.Audit.Query(r.Context(), filter)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleLogsSummary(w http.ResponseWriter, r *http.Request) {
	from, err := queryDate(r, "from")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	summary, err := h.Audit.Summarize(r.Context(), from, to)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) handlePurge(w http.ResponseWriter, r *http.Request) {
	var req purgeRequest
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			writeError(r.Context(), w, err)
			return
		}
	}
	days := h.RetentionDays
	if req.Days != nil {
		days = *req.Days
	}

	removed, err := h.Audit.PurgeOlderThan(r.Context(), h.actor(r), days)
	if errors.Is(err, audit.ErrInvalidRetention) {
		err = badRequest(err)
	}
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, purgeResponse{Removed: removed, Days: days})
}

func (h *Handler) handleCheckpoint(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.Checkpoint(r.Context(), h.actor(r)); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "checkpoint complete"})
}
