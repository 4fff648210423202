package handlers

import (
	"net/http"
	"time"

	"subtracker/internal/middleware"
	"subtracker/internal/validator"
)

// Dashboard classifies renewals against ?today=YYYY-MM-DD when the client
// sends its local date, otherwise against the server's UTC date.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	today := h.now().UTC()
	if raw := r.URL.Query().Get("today"); raw != "" {
		parsed, err := validator.ParseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		today = parsed
	}
	view, err := h.dashboard.Dashboard(r.Context(), userID, truncateDay(today))
	if err != nil {
		h.respondServiceError(w, err, "unable to load dashboard")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	view, err := h.dashboard.Archive(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err, "unable to load archive")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) ExchangeRates(w http.ResponseWriter, r *http.Request) {
	view, err := h.dashboard.Rates(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "unable to load exchange rates")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
	maxActivityPage      = 10000
)

func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	query := r.URL.Query()
	limit := min(parseInt(query.Get("limit"), defaultActivityLimit), maxActivityLimit)
	page := min(parseInt(query.Get("page"), 1), maxActivityPage)
	entries, err := h.audit.ListByActor(r.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load activity")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
