package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/roach88/ponto/internal/domain"
)

type recordRequest struct {
	EmployeeID int64  `json:"employee_id"`
	Kind       string `json:"kind"`
	Timestamp  string `json:"timestamp,omitempty"`
}

type adjustRequest struct {
	EmployeeID    int64  `json:"employee_id"`
	Kind          string `json:"kind"`
	Timestamp     string `json:"timestamp"`
	Justification string `json:"justification"`
}

type removeRequest struct {
	EmployeeID    int64  `json:"employee_id"`
	Justification string `json:"justification"`
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := decode(r, &req); err != nil {
		h.rejectInput(w, r, "record event", err)
		return
	}
	var ts *time.Time
	if req.Timestamp != "" {
		parsed, err := domain.ParseTimestamp(req.Timestamp, h.Location)
		if err != nil {
			h.rejectInput(w, r, fmt.Sprintf("record %s for employee %d", req.Kind, req.EmployeeID), err)
			return
		}
		ts = &parsed
	}

	res, err := h.Ledger.Record(r.Context(), h.actor(r), req.EmployeeID, req.Kind, ts)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) handleAdjust(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := decode(r, &req); err != nil {
		h.rejectInput(w, r, "adjust event", err)
		return
	}
	ts, err := domain.ParseTimestamp(req.Timestamp, h.Location)
	if err != nil {
		h.rejectInput(w, r, fmt.Sprintf("adjust %s for employee %d", req.Kind, req.EmployeeID), err)
		return
	}

	res, err := h.Ledger.Adjust(r.Context(), h.actor(r), req.EmployeeID, req.Kind, ts, req.Justification)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		h.rejectInput(w, r, "remove event", err)
		return
	}
	var req removeRequest
	if err := decode(r, &req); err != nil {
		h.rejectInput(w, r, fmt.Sprintf("remove event %d", eventID), err)
		return
	}

	res, err := h.Ledger.Remove(r.Context(), h.actor(r), eventID, req.EmployeeID, req.Justification)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleEmployeeEvents(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	day, err := queryDate(r, "date")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if day.IsZero() {
		day = domain.DateOf(h.Clock.Now().In(h.Location))
	}

	events, err := h.Ledger.EmployeeEvents(r.Context(), id, day)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// rejectInput answers an event mutation that could not be parsed. The
// attempt is audited as a failure before the 400 goes out.
func (h *Handler) rejectInput(w http.ResponseWriter, r *http.Request, action string, err error) {
	var rerr *requestError
	if errors.As(err, &rerr) {
		err = rerr.err
	}
	writeError(r.Context(), w, h.Ledger.RejectInput(r.Context(), h.actor(r), action, err))
}
