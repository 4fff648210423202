package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"subtracker/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service failures onto status codes. The archive
// phases are kept apart: archive_failed left nothing behind, partial_archive
// left a duplicate that needs attention.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	var validationErr *services.ValidationError
	var archiveErr *services.ArchiveError
	var writeErr *services.RemoteWriteError
	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "validation_failed",
			"field":   validationErr.Field,
			"message": validationErr.Message,
		})
	case errors.Is(err, services.ErrSubscriptionNotFound):
		respondError(w, http.StatusNotFound, "subscription_not_found")
	case errors.Is(err, services.ErrPartialArchive) && errors.As(err, &archiveErr):
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":       "partial_archive",
			"archived_id": archiveErr.ArchivedID,
		})
	case errors.Is(err, services.ErrArchiveFailed):
		respondError(w, http.StatusBadGateway, "archive_failed")
	case errors.As(err, &writeErr):
		h.logger.Error("record store write failed", "op", writeErr.Op, "error", writeErr.Err)
		respondError(w, http.StatusBadGateway, "write_failed")
	default:
		h.logger.Error(fallback, "error", err)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	decoder.UseNumber()
	return decoder.Decode(dest)
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
