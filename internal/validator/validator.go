package validator

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"subtracker/internal/models"

	"golang.org/x/text/currency"
)

var (
	ErrInvalidEmail            = errors.New("invalid email")
	ErrInvalidPassword         = errors.New("password must be at least 8 characters")
	ErrNameRequired            = errors.New("name is required")
	ErrNameTooLong             = errors.New("name is too long")
	ErrInvalidCurrency         = errors.New("unknown currency code")
	ErrInvalidDate             = errors.New("date must be YYYY-MM-DD")
	ErrInvalidSubscriptionType = errors.New("subscription type must be normal or temporary")
)

const (
	DateLayout    = "2006-01-02"
	maxNameLength = 120
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// ParseCurrency returns the canonical ISO 4217 code.
func ParseCurrency(code string) (string, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", ErrInvalidCurrency
	}
	return unit.String(), nil
}

// ParseDate reads a calendar date; the result is midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return parsed, nil
}

func ValidateSubscriptionType(kind string) error {
	if kind != models.SubscriptionTypeNormal && kind != models.SubscriptionTypeTemporary {
		return ErrInvalidSubscriptionType
	}
	return nil
}
