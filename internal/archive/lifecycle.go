package archive

import (
	"fmt"
	"math"
	"time"

	"subtracker/internal/models"
	"subtracker/internal/money"

	"github.com/shopspring/decimal"
)

// Billing periods are approximated as 30-day months.
const daysPerMonth = 30

// DurationDays is the number of started days between creation and archival,
// never less than one.
func DurationDays(createdAt, endedAt time.Time) int {
	days := int(math.Ceil(endedAt.Sub(createdAt).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// BilledMonths is the number of started 30-day periods, never less than one.
func BilledMonths(durationDays int) int {
	months := (durationDays + daysPerMonth - 1) / daysPerMonth
	if months < 1 {
		return 1
	}
	return months
}

// Compute builds the archived copy of sub as of now. Spend stays in the
// subscription's own currency.
func Compute(sub models.Subscription, now time.Time) models.ArchivedSubscription {
	durationDays := DurationDays(sub.CreatedAt, now)
	months := BilledMonths(durationDays)
	price := money.ParseAmountOrDefault(sub.Price, money.DefaultAmount)
	totalSpent := price.Mul(decimal.NewFromInt(int64(months)))
	return models.ArchivedSubscription{
		UserID:            sub.UserID,
		Name:              sub.Name,
		Price:             money.Format(price),
		Currency:          sub.Currency,
		SubscriptionEmail: sub.SubscriptionEmail,
		SubscriptionType:  sub.SubscriptionType,
		TotalSpent:        money.Format(totalSpent),
		StartedAt:         sub.CreatedAt,
		EndedAt:           now,
		RenewalDate:       sub.RenewalDate,
		DurationDays:      durationDays,
	}
}

// FormatDuration renders e.g. "12 days", "1 month" or "2 months, 5 days".
func FormatDuration(days int) string {
	if days < daysPerMonth {
		return plural(days, "day")
	}
	months := days / daysPerMonth
	remaining := days % daysPerMonth
	result := plural(months, "month")
	if remaining > 0 {
		result += ", " + plural(remaining, "day")
	}
	return result
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
