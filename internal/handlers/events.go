package handlers

import (
	"net/http"

	"subtracker/internal/middleware"
	"subtracker/internal/websocket"
)

// Events streams change notifications for the session owner.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	websocket.ServeWS(w, r, h.hub, userID)
}
