package renewal

import (
	"fmt"
	"time"
)

type Level string

const (
	LevelPast    Level = "past"
	LevelUrgent  Level = "urgent"
	LevelWarning Level = "warning"
	LevelOK      Level = "ok"
)

const (
	urgentWithinDays  = 3
	warningWithinDays = 7
	// Headline "renewing soon" window. Wider than the urgent display level on purpose.
	soonWithinDays = 5
)

type Urgency struct {
	DaysUntil int    `json:"days_until"`
	Level     Level  `json:"level"`
	Label     string `json:"label"`
}

// DaysUntil counts calendar days from today to the renewal date. Both dates
// are reduced to their civil day first, so time of day and DST never matter.
func DaysUntil(renewalDate, today time.Time) int {
	diff := civilDay(renewalDate).Sub(civilDay(today))
	return int(diff / (24 * time.Hour))
}

func Classify(renewalDate, today time.Time) Urgency {
	days := DaysUntil(renewalDate, today)
	switch {
	case days < 0:
		return Urgency{DaysUntil: days, Level: LevelPast, Label: fmt.Sprintf("%d days overdue", -days)}
	case days == 0:
		return Urgency{DaysUntil: days, Level: LevelUrgent, Label: "Today!"}
	case days <= urgentWithinDays:
		return Urgency{DaysUntil: days, Level: LevelUrgent, Label: daysLabel(days)}
	case days <= warningWithinDays:
		return Urgency{DaysUntil: days, Level: LevelWarning, Label: daysLabel(days)}
	default:
		return Urgency{DaysUntil: days, Level: LevelOK, Label: daysLabel(days)}
	}
}

func RenewingSoon(daysUntil int) bool {
	return daysUntil >= 0 && daysUntil <= soonWithinDays
}

func daysLabel(days int) string {
	return fmt.Sprintf("%d days", days)
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
