package store

import (
	"context"
	"fmt"

	"subtracker/internal/models"
)

type ExchangeStore struct {
	db DB
}

func NewExchangeStore(db DB) *ExchangeStore {
	return &ExchangeStore{db: db}
}

func (s *ExchangeStore) List(ctx context.Context) ([]models.ExchangeRate, error) {
	rates := []models.ExchangeRate{}
	err := s.db.SelectContext(ctx, &rates, `
		SELECT code, rate_to_reference, updated_at
		FROM exchange_rates
		ORDER BY code ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list exchange rates: %w", err)
	}
	return rates, nil
}

// Upsert replaces the stored rate for rate.Code.
func (s *ExchangeStore) Upsert(ctx context.Context, tx Execer, rate models.ExchangeRate) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO exchange_rates (code, rate_to_reference, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE
		SET rate_to_reference = EXCLUDED.rate_to_reference, updated_at = EXCLUDED.updated_at
	`, rate.Code, rate.RateToReference, rate.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert exchange rate %s: %w", rate.Code, err)
	}
	return nil
}
