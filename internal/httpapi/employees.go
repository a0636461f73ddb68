package httpapi

import (
	"net/http"

	"github.com/roach88/ponto/internal/domain"
	"github.com/roach88/ponto/internal/store"
)

type addEmployeeRequest struct {
	Name string `json:"name"`
}

type dateRequest struct {
	Date domain.Date `json:"date"`
}

type removalResponse struct {
	ID int64 `json:"id"`
	store.CascadeCounts
}

type calendarResponse struct {
	Date  domain.Date `json:"date"`
	Added bool        `json:"added"`
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Ledger.ListEmployees(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *Handler) handleAddEmployee(w http.ResponseWriter, r *http.Request) {
	var req addEmployeeRequest
	if err := decode(r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	emp, err := h.Ledger.AddEmployee(r.Context(), h.actor(r), req.Name)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, emp)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	emp, err := h.Ledger.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, emp)
}

func (h *Handler) handleRemoveEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	counts, err := h.Ledger.RemoveEmployee(r.Context(), h.actor(r), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, removalResponse{ID: id, CascadeCounts: counts})
}

func (h *Handler) handleListDaysOff(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	days, err := h.Ledger.ListDaysOff(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (h *Handler) handleSetDayOff(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	var req dateRequest
	if err := decode(r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	added, err := h.Ledger.SetDayOff(r.Context(), h.actor(r), id, req.Date)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, calendarResponse{Date: req.Date, Added: added})
}

func (h *Handler) handleListHolidays(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Ledger.ListHolidays(r.Context()))
}

func (h *Handler) handleAddHoliday(w http.ResponseWriter, r *http.Request) {
	var req dateRequest
	if err := decode(r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	added, err := h.Ledger.AddHoliday(r.Context(), h.actor(r), req.Date)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, calendarResponse{Date: req.Date, Added: added})
}
