package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"subtracker/internal/middleware"
	"subtracker/internal/services"

	"github.com/go-chi/chi/v5"
)

type subscriptionRequest struct {
	Name              *string      `json:"name"`
	Price             *json.Number `json:"price"`
	Currency          *string      `json:"currency"`
	RenewalDate       *string      `json:"renewal_date"`
	SubscriptionEmail *string      `json:"subscription_email"`
	SubscriptionType  *string      `json:"subscription_type"`
}

func (req subscriptionRequest) patch() services.SubscriptionPatch {
	patch := services.SubscriptionPatch{
		Name:              req.Name,
		Currency:          req.Currency,
		RenewalDate:       req.RenewalDate,
		SubscriptionEmail: req.SubscriptionEmail,
		SubscriptionType:  req.SubscriptionType,
	}
	if req.Price != nil {
		price := req.Price.String()
		patch.Price = &price
	}
	return patch
}

func (req subscriptionRequest) input() services.SubscriptionInput {
	patch := req.patch()
	return services.SubscriptionInput{
		Name:              deref(patch.Name),
		Price:             deref(patch.Price),
		Currency:          deref(patch.Currency),
		RenewalDate:       deref(patch.RenewalDate),
		SubscriptionEmail: deref(patch.SubscriptionEmail),
		SubscriptionType:  deref(patch.SubscriptionType),
	}
}

func (h *Handler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	subs, err := h.subscriptions.List(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err, "unable to load subscriptions")
		return
	}
	respondJSON(w, http.StatusOK, subs)
}

func (h *Handler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req subscriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	sub, err := h.subscriptions.Create(r.Context(), userID, req.input())
	if err != nil {
		h.respondServiceError(w, err, "unable to create subscription")
		return
	}
	respondJSON(w, http.StatusCreated, sub)
}

func (h *Handler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req subscriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	sub, err := h.subscriptions.Update(r.Context(), userID, chi.URLParam(r, "id"), req.patch())
	if err != nil {
		h.respondServiceError(w, err, "unable to update subscription")
		return
	}
	respondJSON(w, http.StatusOK, sub)
}

// DeleteSubscription archives the subscription; nothing is dropped without
// an archived copy.
func (h *Handler) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	subscriptionID := chi.URLParam(r, "id")
	record, err := h.archiver.Archive(r.Context(), userID, subscriptionID)
	if err != nil {
		if errors.Is(err, services.ErrPartialArchive) {
			h.logger.Error("partial archive needs cleanup", "user_id", userID, "subscription_id", subscriptionID, "archived_id", record.ID)
		}
		h.respondServiceError(w, err, "unable to archive subscription")
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
