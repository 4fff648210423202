package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"subtracker/internal/archive"
	"subtracker/internal/db"
	"subtracker/internal/models"
	"subtracker/internal/store"
	"subtracker/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ArchiveService moves a subscription into the archive in two writes:
// insert the archived copy, then delete the active row. The writes are not
// atomic; each failure is reported with its phase.
type ArchiveService struct {
	txRunner      db.TxRunner
	subscriptions SubscriptionStore
	archives      ArchiveStore
	audit         AuditStore
	hub           EventHub
	logger        *slog.Logger
	now           func() time.Time
}

func NewArchiveService(txRunner db.TxRunner, subscriptions SubscriptionStore, archives ArchiveStore, audit AuditStore, hub EventHub, logger *slog.Logger) *ArchiveService {
	return &ArchiveService{
		txRunner:      txRunner,
		subscriptions: subscriptions,
		archives:      archives,
		audit:         audit,
		hub:           hub,
		logger:        logger,
		now:           time.Now,
	}
}

// Archive removes the owner's subscription and returns its archived copy.
// On ErrPartialArchive the copy is returned together with the error.
func (s *ArchiveService) Archive(ctx context.Context, ownerID, subscriptionID string) (models.ArchivedSubscription, error) {
	sub, err := s.subscriptions.GetByID(ctx, ownerID, subscriptionID)
	if errors.Is(err, store.ErrNotFound) {
		return models.ArchivedSubscription{}, ErrSubscriptionNotFound
	}
	if err != nil {
		return models.ArchivedSubscription{}, fmt.Errorf("load subscription: %w", err)
	}

	record := archive.Compute(sub, s.now().UTC())
	record.ID = uuid.NewString()

	if err := s.archives.Insert(ctx, record); err != nil {
		s.logger.Error("archive insert failed", "user_id", ownerID, "subscription_id", subscriptionID, "error", err)
		return models.ArchivedSubscription{}, &ArchiveError{Phase: PhaseInsert, SubscriptionID: subscriptionID, Err: err}
	}

	removed, err := s.subscriptions.Delete(ctx, ownerID, subscriptionID)
	if err != nil {
		s.logger.Error("archived subscription still active",
			"user_id", ownerID, "subscription_id", subscriptionID, "archived_id", record.ID, "error", err)
		return record, &ArchiveError{Phase: PhaseDelete, SubscriptionID: subscriptionID, ArchivedID: record.ID, Err: err}
	}
	if removed == 0 {
		s.logger.Warn("subscription vanished before delete", "user_id", ownerID, "subscription_id", subscriptionID, "archived_id", record.ID)
	}

	s.recordAudit(ctx, ownerID, record, subscriptionID)
	s.hub.BroadcastEvent(ownerID, websocket.Event{Type: websocket.EventSubscriptionsChanged, SubscriptionID: subscriptionID})
	s.hub.BroadcastEvent(ownerID, websocket.Event{Type: websocket.EventArchiveChanged, SubscriptionID: subscriptionID})
	return record, nil
}

func (s *ArchiveService) recordAudit(ctx context.Context, ownerID string, record models.ArchivedSubscription, subscriptionID string) {
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.audit.Log(ctx, tx, ownerID, "subscription.archive", "subscription", subscriptionID, auditData(map[string]string{
			"archived_id":   record.ID,
			"total_spent":   record.TotalSpent,
			"currency":      record.Currency,
			"duration_days": strconv.Itoa(record.DurationDays),
		}))
	})
	if err != nil {
		s.logger.Warn("archive audit failed", "subscription_id", subscriptionID, "error", err)
	}
}
