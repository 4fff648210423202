package models

import (
	"strings"
	"time"
)

const (
	SubscriptionTypeNormal    = "normal"
	SubscriptionTypeTemporary = "temporary"
)

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// DisplayName is "First Last" when a profile name is set, the email otherwise.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// Subscription prices are kept as the decimal text the database returns;
// consumers parse them with money.ParseAmountOrDefault.
type Subscription struct {
	ID                string    `db:"id" json:"id"`
	UserID            string    `db:"user_id" json:"user_id"`
	Name              string    `db:"name" json:"name"`
	Price             string    `db:"price" json:"price"`
	Currency          string    `db:"currency" json:"currency"`
	RenewalDate       Date      `db:"renewal_date" json:"renewal_date"`
	SubscriptionEmail string    `db:"subscription_email" json:"subscription_email"`
	SubscriptionType  string    `db:"subscription_type" json:"subscription_type"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

func (s Subscription) IsTemporary() bool {
	return s.SubscriptionType == SubscriptionTypeTemporary
}

type ArchivedSubscription struct {
	ID                string    `db:"id" json:"id"`
	UserID            string    `db:"user_id" json:"user_id"`
	Name              string    `db:"name" json:"name"`
	Price             string    `db:"price" json:"price"`
	Currency          string    `db:"currency" json:"currency"`
	SubscriptionEmail string    `db:"subscription_email" json:"subscription_email"`
	SubscriptionType  string    `db:"subscription_type" json:"subscription_type"`
	TotalSpent        string    `db:"total_spent" json:"total_spent"`
	StartedAt         time.Time `db:"started_at" json:"started_at"`
	EndedAt           time.Time `db:"ended_at" json:"ended_at"`
	RenewalDate       Date      `db:"renewal_date" json:"renewal_date"`
	DurationDays      int       `db:"duration_days" json:"duration_days"`
}

type ExchangeRate struct {
	Code            string    `db:"code" json:"code"`
	RateToReference string    `db:"rate_to_reference" json:"rate_to_reference"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
