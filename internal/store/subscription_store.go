package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"subtracker/internal/models"
)

const subscriptionColumns = `id, user_id, name, price, currency, renewal_date, subscription_email, subscription_type, created_at, updated_at`

type SubscriptionStore struct {
	db DB
}

// SubscriptionUpdate carries the fields to change; nil means unchanged.
type SubscriptionUpdate struct {
	Name              *string
	Price             *string
	Currency          *string
	RenewalDate       *time.Time
	SubscriptionEmail *string
	SubscriptionType  *string
}

func (u SubscriptionUpdate) Empty() bool {
	return u.Name == nil && u.Price == nil && u.Currency == nil && u.RenewalDate == nil && u.SubscriptionEmail == nil && u.SubscriptionType == nil
}

func NewSubscriptionStore(db DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

func (s *SubscriptionStore) Create(ctx context.Context, tx Getter, sub models.Subscription) (models.Subscription, error) {
	var created models.Subscription
	err := tx.GetContext(ctx, &created, `
		INSERT INTO subscriptions (id, user_id, name, price, currency, renewal_date, subscription_email, subscription_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+subscriptionColumns,
		sub.ID, sub.UserID, sub.Name, sub.Price, sub.Currency, sub.RenewalDate.Time, sub.SubscriptionEmail, sub.SubscriptionType)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("insert subscription: %w", err)
	}
	return created, nil
}

func (s *SubscriptionStore) GetByID(ctx context.Context, userID, id string) (models.Subscription, error) {
	var sub models.Subscription
	err := s.db.GetContext(ctx, &sub, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return models.Subscription{}, mapNotFound(err)
	}
	return sub, nil
}

func (s *SubscriptionStore) ListByUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	subs := []models.Subscription{}
	err := s.db.SelectContext(ctx, &subs, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY renewal_date ASC, created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

func (s *SubscriptionStore) Update(ctx context.Context, tx Getter, userID, id string, update SubscriptionUpdate) (models.Subscription, error) {
	setParts := []string{}
	args := []any{}
	set := func(column string, value any) {
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if update.Name != nil {
		set("name", *update.Name)
	}
	if update.Price != nil {
		set("price", *update.Price)
	}
	if update.Currency != nil {
		set("currency", *update.Currency)
	}
	if update.RenewalDate != nil {
		set("renewal_date", *update.RenewalDate)
	}
	if update.SubscriptionEmail != nil {
		set("subscription_email", *update.SubscriptionEmail)
	}
	if update.SubscriptionType != nil {
		set("subscription_type", *update.SubscriptionType)
	}
	if len(setParts) == 0 {
		return s.GetByID(ctx, userID, id)
	}
	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, id, userID)
	query := fmt.Sprintf(`
		UPDATE subscriptions
		SET %s
		WHERE id = $%d AND user_id = $%d
		RETURNING %s`, strings.Join(setParts, ", "), len(args)-1, len(args), subscriptionColumns)

	var updated models.Subscription
	if err := tx.GetContext(ctx, &updated, query, args...); err != nil {
		return models.Subscription{}, mapNotFound(err)
	}
	return updated, nil
}

// Delete removes the active row and reports how many rows went away.
func (s *SubscriptionStore) Delete(ctx context.Context, userID, id string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return 0, fmt.Errorf("delete subscription: %w", err)
	}
	return result.RowsAffected()
}
