package store

import (
	"context"
	"fmt"

	"subtracker/internal/models"
)

type ArchiveStore struct {
	db DB
}

func NewArchiveStore(db DB) *ArchiveStore {
	return &ArchiveStore{db: db}
}

// Insert writes an archived record. Archived rows are never updated.
func (s *ArchiveStore) Insert(ctx context.Context, rec models.ArchivedSubscription) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO archived_subscriptions
			(id, user_id, name, price, currency, subscription_email, subscription_type,
			 total_spent, started_at, ended_at, renewal_date, duration_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, rec.ID, rec.UserID, rec.Name, rec.Price, rec.Currency, rec.SubscriptionEmail, rec.SubscriptionType,
		rec.TotalSpent, rec.StartedAt, rec.EndedAt, rec.RenewalDate.Time, rec.DurationDays)
	if err != nil {
		return fmt.Errorf("insert archived subscription: %w", err)
	}
	return nil
}

func (s *ArchiveStore) ListByUser(ctx context.Context, userID string) ([]models.ArchivedSubscription, error) {
	records := []models.ArchivedSubscription{}
	err := s.db.SelectContext(ctx, &records, `
		SELECT id, user_id, name, price, currency, subscription_email, subscription_type,
		       total_spent, started_at, ended_at, renewal_date, duration_days
		FROM archived_subscriptions
		WHERE user_id = $1
		ORDER BY ended_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list archived subscriptions: %w", err)
	}
	return records, nil
}
