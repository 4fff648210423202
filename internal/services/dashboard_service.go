package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"subtracker/internal/archive"
	"subtracker/internal/currency"
	"subtracker/internal/models"
	"subtracker/internal/money"
	"subtracker/internal/renewal"
	"subtracker/internal/stats"

	"github.com/shopspring/decimal"
)

type DashboardService struct {
	subscriptions SubscriptionStore
	archives      ArchiveStore
	rates         RateStore
	normalizer    currency.Normalizer
	logger        *slog.Logger
}

func NewDashboardService(subscriptions SubscriptionStore, archives ArchiveStore, rates RateStore, normalizer currency.Normalizer, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		subscriptions: subscriptions,
		archives:      archives,
		rates:         rates,
		normalizer:    normalizer,
		logger:        logger,
	}
}

type DashboardItem struct {
	models.Subscription
	Urgency         renewal.Urgency `json:"urgency"`
	NormalizedPrice decimal.Decimal `json:"normalized_price"`
	DisplayPrice    string          `json:"display_price"`
	NextReminder    *time.Time      `json:"next_reminder,omitempty"`
}

type Dashboard struct {
	Subscriptions []DashboardItem `json:"subscriptions"`
	Summary       stats.Summary   `json:"summary"`
}

type ArchiveItem struct {
	models.ArchivedSubscription
	Duration        string          `json:"duration"`
	NormalizedTotal decimal.Decimal `json:"normalized_total"`
	DisplayTotal    string          `json:"display_total"`
}

type ArchiveView struct {
	Records []ArchiveItem `json:"records"`
	Summary stats.Summary `json:"summary"`
}

type RatesView struct {
	Reference string                `json:"reference"`
	Rates     []models.ExchangeRate `json:"rates"`
}

// Dashboard lists active subscriptions with their urgency as of today.
func (s *DashboardService) Dashboard(ctx context.Context, ownerID string, today time.Time) (Dashboard, error) {
	subs, err := s.subscriptions.ListByUser(ctx, ownerID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load subscriptions: %w", err)
	}
	rates := s.rateTable(ctx)

	items := make([]DashboardItem, 0, len(subs))
	for _, sub := range subs {
		price := money.ParseAmountOrDefault(sub.Price, money.DefaultAmount)
		item := DashboardItem{
			Subscription:    sub,
			Urgency:         renewal.Classify(sub.RenewalDate.Time, today),
			NormalizedPrice: s.normalizer.Normalize(price, sub.Currency, rates).Round(2),
			DisplayPrice:    money.Display(price, sub.Currency),
		}
		if at, ok := renewal.NextReminder(sub.RenewalDate.Time, sub.SubscriptionType, today); ok {
			item.NextReminder = &at
		}
		items = append(items, item)
	}

	summary := stats.Active(subs, s.normalizer, rates, today)
	s.warnFallback(ownerID, summary)
	summary.Total = summary.Total.Round(2)
	return Dashboard{Subscriptions: items, Summary: summary}, nil
}

// Archive lists archived subscriptions, most recently ended first.
func (s *DashboardService) Archive(ctx context.Context, ownerID string) (ArchiveView, error) {
	records, err := s.archives.ListByUser(ctx, ownerID)
	if err != nil {
		return ArchiveView{}, fmt.Errorf("load archive: %w", err)
	}
	rates := s.rateTable(ctx)

	items := make([]ArchiveItem, 0, len(records))
	for _, record := range records {
		total := money.ParseAmountOrDefault(record.TotalSpent, money.DefaultAmount)
		items = append(items, ArchiveItem{
			ArchivedSubscription: record,
			Duration:             archive.FormatDuration(record.DurationDays),
			NormalizedTotal:      s.normalizer.Normalize(total, record.Currency, rates).Round(2),
			DisplayTotal:         money.Display(total, record.Currency),
		})
	}

	summary := stats.Archived(records, s.normalizer, rates)
	s.warnFallback(ownerID, summary)
	summary.Total = summary.Total.Round(2)
	return ArchiveView{Records: items, Summary: summary}, nil
}

func (s *DashboardService) Rates(ctx context.Context) (RatesView, error) {
	rows, err := s.rates.List(ctx)
	if err != nil {
		return RatesView{}, fmt.Errorf("load exchange rates: %w", err)
	}
	return RatesView{Reference: s.normalizer.Reference(), Rates: rows}, nil
}

// rateTable degrades to an empty table when the rates cannot be read, so
// totals are still produced from the fallback rates.
func (s *DashboardService) rateTable(ctx context.Context) currency.RateTable {
	rows, err := s.rates.List(ctx)
	if err != nil {
		s.logger.Warn("exchange rates unavailable, using fallback", "error", err)
		return currency.RateTable{}
	}
	return currency.NewRateTable(rows)
}

func (s *DashboardService) warnFallback(ownerID string, summary stats.Summary) {
	if len(summary.FallbackCurrencies) == 0 {
		return
	}
	s.logger.Warn("fallback exchange rate used", "user_id", ownerID, "currencies", summary.FallbackCurrencies)
}
