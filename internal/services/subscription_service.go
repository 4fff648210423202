package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"subtracker/internal/db"
	"subtracker/internal/models"
	"subtracker/internal/money"
	"subtracker/internal/store"
	"subtracker/internal/validator"
	"subtracker/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var errNoChanges = errors.New("no fields to update")

type SubscriptionService struct {
	txRunner        db.TxRunner
	subscriptions   SubscriptionStore
	audit           AuditStore
	hub             EventHub
	defaultCurrency string
	logger          *slog.Logger
}

func NewSubscriptionService(txRunner db.TxRunner, subscriptions SubscriptionStore, audit AuditStore, hub EventHub, defaultCurrency string, logger *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		txRunner:        txRunner,
		subscriptions:   subscriptions,
		audit:           audit,
		hub:             hub,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// SubscriptionInput is a new subscription as submitted. Currency and
// SubscriptionType may be empty to take the defaults.
type SubscriptionInput struct {
	Name              string
	Price             string
	Currency          string
	RenewalDate       string
	SubscriptionEmail string
	SubscriptionType  string
}

// SubscriptionPatch changes only the non-nil fields.
type SubscriptionPatch struct {
	Name              *string
	Price             *string
	Currency          *string
	RenewalDate       *string
	SubscriptionEmail *string
	SubscriptionType  *string
}

func (s *SubscriptionService) Create(ctx context.Context, ownerID string, input SubscriptionInput) (models.Subscription, error) {
	if strings.TrimSpace(input.Currency) == "" {
		input.Currency = s.defaultCurrency
	}
	if strings.TrimSpace(input.SubscriptionType) == "" {
		input.SubscriptionType = models.SubscriptionTypeNormal
	}
	update, err := validatePatch(SubscriptionPatch{
		Name:              &input.Name,
		Price:             &input.Price,
		Currency:          &input.Currency,
		RenewalDate:       &input.RenewalDate,
		SubscriptionEmail: &input.SubscriptionEmail,
		SubscriptionType:  &input.SubscriptionType,
	})
	if err != nil {
		return models.Subscription{}, err
	}
	sub := models.Subscription{
		ID:                uuid.NewString(),
		UserID:            ownerID,
		Name:              *update.Name,
		Price:             *update.Price,
		Currency:          *update.Currency,
		RenewalDate:       models.NewDate(*update.RenewalDate),
		SubscriptionEmail: *update.SubscriptionEmail,
		SubscriptionType:  *update.SubscriptionType,
	}

	var created models.Subscription
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		created, err = s.subscriptions.Create(ctx, tx, sub)
		if err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, ownerID, "subscription.create", "subscription", created.ID, auditData(map[string]string{
			"name":     created.Name,
			"price":    created.Price,
			"currency": created.Currency,
		}))
	})
	if err != nil {
		return models.Subscription{}, &RemoteWriteError{Op: "create subscription", Err: err}
	}
	s.logger.Info("subscription created", "user_id", ownerID, "subscription_id", created.ID)
	s.hub.BroadcastEvent(ownerID, websocket.Event{Type: websocket.EventSubscriptionsChanged, SubscriptionID: created.ID})
	return created, nil
}

func (s *SubscriptionService) Update(ctx context.Context, ownerID, id string, patch SubscriptionPatch) (models.Subscription, error) {
	update, err := validatePatch(patch)
	if err != nil {
		return models.Subscription{}, err
	}
	if update.Empty() {
		return models.Subscription{}, invalid("body", errNoChanges)
	}

	var updated models.Subscription
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		updated, err = s.subscriptions.Update(ctx, tx, ownerID, id, update)
		if err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, ownerID, "subscription.update", "subscription", id, auditData(map[string]string{
			"name":  updated.Name,
			"price": updated.Price,
		}))
	})
	if errors.Is(err, store.ErrNotFound) {
		return models.Subscription{}, ErrSubscriptionNotFound
	}
	if err != nil {
		return models.Subscription{}, &RemoteWriteError{Op: "update subscription", Err: err}
	}
	s.hub.BroadcastEvent(ownerID, websocket.Event{Type: websocket.EventSubscriptionsChanged, SubscriptionID: id})
	return updated, nil
}

// List returns the owner's active subscriptions, soonest renewal first.
func (s *SubscriptionService) List(ctx context.Context, ownerID string) ([]models.Subscription, error) {
	return s.subscriptions.ListByUser(ctx, ownerID)
}

func validatePatch(patch SubscriptionPatch) (store.SubscriptionUpdate, error) {
	var update store.SubscriptionUpdate
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := validator.ValidateName(name); err != nil {
			return update, invalid("name", err)
		}
		update.Name = &name
	}
	if patch.Price != nil {
		price, err := money.ParseAmount(*patch.Price)
		if err != nil {
			return update, invalid("price", err)
		}
		formatted := money.Format(price)
		update.Price = &formatted
	}
	if patch.Currency != nil {
		code, err := validator.ParseCurrency(*patch.Currency)
		if err != nil {
			return update, invalid("currency", err)
		}
		update.Currency = &code
	}
	if patch.RenewalDate != nil {
		date, err := validator.ParseDate(*patch.RenewalDate)
		if err != nil {
			return update, invalid("renewal_date", err)
		}
		update.RenewalDate = &date
	}
	if patch.SubscriptionEmail != nil {
		email := strings.TrimSpace(*patch.SubscriptionEmail)
		if email != "" {
			if err := validator.ValidateEmail(email); err != nil {
				return update, invalid("subscription_email", err)
			}
		}
		update.SubscriptionEmail = &email
	}
	if patch.SubscriptionType != nil {
		kind := strings.ToLower(strings.TrimSpace(*patch.SubscriptionType))
		if err := validator.ValidateSubscriptionType(kind); err != nil {
			return update, invalid("subscription_type", err)
		}
		update.SubscriptionType = &kind
	}
	return update, nil
}

func auditData(fields map[string]string) string {
	data, _ := json.Marshal(fields)
	return string(data)
}
