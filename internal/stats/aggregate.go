package stats

import (
	"sort"
	"time"

	"subtracker/internal/currency"
	"subtracker/internal/models"
	"subtracker/internal/money"
	"subtracker/internal/renewal"

	"github.com/shopspring/decimal"
)

// Summary is the headline block of the dashboard and the archive page. Total
// is in Currency, the reference currency of the normalizer.
type Summary struct {
	Count              int             `json:"count"`
	Total              decimal.Decimal `json:"total"`
	Temporary          int             `json:"temporary"`
	RenewingSoon       int             `json:"renewing_soon"`
	Currency           string          `json:"currency"`
	FallbackCurrencies []string        `json:"fallback_currencies,omitempty"`
}

// Active summarizes live subscriptions; Total is the normalized sum of prices.
func Active(subs []models.Subscription, normalizer currency.Normalizer, rates currency.RateTable, today time.Time) Summary {
	acc := newAccumulator(normalizer, rates)
	for _, sub := range subs {
		acc.add(sub.Price, sub.Currency, sub.IsTemporary())
		if renewal.RenewingSoon(renewal.DaysUntil(sub.RenewalDate.Time, today)) {
			acc.summary.RenewingSoon++
		}
	}
	return acc.result()
}

// Archived summarizes past subscriptions; Total is the normalized sum of
// total_spent. Archived records never count as renewing soon.
func Archived(records []models.ArchivedSubscription, normalizer currency.Normalizer, rates currency.RateTable) Summary {
	acc := newAccumulator(normalizer, rates)
	for _, record := range records {
		acc.add(record.TotalSpent, record.Currency, record.SubscriptionType == models.SubscriptionTypeTemporary)
	}
	return acc.result()
}

type accumulator struct {
	normalizer currency.Normalizer
	rates      currency.RateTable
	summary    Summary
	fallbacks  map[string]struct{}
}

func newAccumulator(normalizer currency.Normalizer, rates currency.RateTable) *accumulator {
	return &accumulator{
		normalizer: normalizer,
		rates:      rates,
		summary:    Summary{Total: decimal.Zero, Currency: normalizer.Reference()},
		fallbacks:  map[string]struct{}{},
	}
}

func (a *accumulator) add(rawAmount, code string, temporary bool) {
	a.summary.Count++
	if temporary {
		a.summary.Temporary++
	}
	amount := money.ParseAmountOrDefault(rawAmount, money.DefaultAmount)
	if _, err := a.normalizer.Rate(code, a.rates); err != nil {
		a.fallbacks[currency.Code(code)] = struct{}{}
	}
	a.summary.Total = a.summary.Total.Add(a.normalizer.Normalize(amount, code, a.rates))
}

func (a *accumulator) result() Summary {
	for code := range a.fallbacks {
		a.summary.FallbackCurrencies = append(a.summary.FallbackCurrencies, code)
	}
	sort.Strings(a.summary.FallbackCurrencies)
	return a.summary
}
