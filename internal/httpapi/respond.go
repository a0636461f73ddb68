package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roach88/ponto/internal/domain"
	"github.com/roach88/ponto/internal/engine"
)

// errorBody is the JSON shape of every failed request.
type errorBody struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Codes for failures that never reached a ledger operation.
const (
	codeBadRequest = "BAD_REQUEST"
	codeInternal   = "INTERNAL_ERROR"
)

// requestError marks a malformed request rejected before reaching a service.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return &requestError{err: err}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps an error onto an HTTP status. Ledger errors keep their
// code and message; malformed requests are 400 and anything else is 500.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var rerr *requestError
	if errors.As(err, &rerr) {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: codeBadRequest, Message: err.Error()})
		return
	}
	code := engine.CodeOf(err)
	if code == "" {
		loggerFrom(ctx).Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Code: codeInternal, Message: "internal error"})
		return
	}

	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		loggerFrom(ctx).Error("request failed", "code", code, "error", err)
	}
	message := err.Error()
	var lerr *engine.LedgerError
	if errors.As(err, &lerr) {
		message = lerr.Message
	}
	writeJSON(w, status, errorBody{Code: string(code), Message: message})
}

func statusFor(code engine.ErrorCode) int {
	switch code {
	case engine.ErrCodeNotFound:
		return http.StatusNotFound
	case engine.ErrCodeSequenceViolation, engine.ErrCodeDuplicateEvent:
		return http.StatusConflict
	case engine.ErrCodeMismatch:
		return http.StatusUnprocessableEntity
	case engine.ErrCodeStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

// decode reads a JSON request body, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest(fmt.Errorf("invalid request body: %w", err))
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest(fmt.Errorf("invalid %s %q: must be a positive integer", name, raw))
	}
	return id, nil
}

func pathYearMonth(r *http.Request) (int, time.Month, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return 0, 0, badRequest(fmt.Errorf("invalid year %q", chi.URLParam(r, "year")))
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		return 0, 0, badRequest(fmt.Errorf("invalid month %q", chi.URLParam(r, "month")))
	}
	return year, time.Month(month), nil
}

func queryDate(r *http.Request, name string) (domain.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return domain.Date{}, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return domain.Date{}, badRequest(err)
	}
	return d, nil
}

type loggerKey struct{}

func withLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func loggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
