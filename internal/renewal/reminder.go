package renewal

import (
	"time"

	"subtracker/internal/models"
)

// ReminderOffsets lists how many days before renewal a reminder is due.
// Trials get an early and a last-minute nudge, ongoing subscriptions one.
func ReminderOffsets(subscriptionType string) []int {
	if subscriptionType == models.SubscriptionTypeTemporary {
		return []int{5, 1}
	}
	return []int{3}
}

// NextReminder returns the earliest reminder day on or after today. ok is
// false once every reminder for this renewal has passed.
func NextReminder(renewalDate time.Time, subscriptionType string, today time.Time) (time.Time, bool) {
	renewal := civilDay(renewalDate)
	start := civilDay(today)
	var next time.Time
	found := false
	for _, offset := range ReminderOffsets(subscriptionType) {
		at := renewal.AddDate(0, 0, -offset)
		if at.Before(start) {
			continue
		}
		if !found || at.Before(next) {
			next = at
			found = true
		}
	}
	return next, found
}
