package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
	ErrAmountTooLarge  = errors.New("amount exceeds 9999999999.99")
)

// MaxAmount is the largest price the subscriptions table can hold.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// DefaultAmount is what ParseAmountOrDefault callers use for a missing or
// malformed stored amount, so one bad record contributes nothing to a sum.
var DefaultAmount = decimal.Zero

// ParseAmount validates user input: a plain non-negative decimal with at most
// two fractional digits, no larger than MaxAmount.
func ParseAmount(input string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if trimmed[0] == '+' {
		trimmed = trimmed[1:]
	}
	negative := false
	if strings.HasPrefix(trimmed, "-") {
		negative = true
		trimmed = trimmed[1:]
	}
	wholePart, fracPart, _ := strings.Cut(trimmed, ".")
	if wholePart == "" && fracPart == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if !isDigits(wholePart) || !isDigits(fracPart) {
		return decimal.Zero, ErrInvalidAmount
	}
	if wholePart == "" {
		wholePart = "0"
	}
	if len(fracPart) > 2 {
		return decimal.Zero, ErrTooManyDecimals
	}
	amount, err := decimal.NewFromString(wholePart + "." + fracPart + "0")
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if negative && !amount.IsZero() {
		return decimal.Zero, ErrNegativeAmount
	}
	if amount.GreaterThan(MaxAmount) {
		return decimal.Zero, ErrAmountTooLarge
	}
	return amount, nil
}

// ParseAmountOrDefault coerces a stored or decoded amount to a decimal and
// returns fallback when the value is missing or not numeric.
func ParseAmountOrDefault(value any, fallback decimal.Decimal) decimal.Decimal {
	switch v := value.(type) {
	case nil:
		return fallback
	case decimal.Decimal:
		return v
	case *decimal.Decimal:
		if v == nil {
			return fallback
		}
		return *v
	case int64:
		return decimal.NewFromInt(v)
	case int32:
		return decimal.NewFromInt32(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fallback
		}
		return decimal.NewFromFloat(v)
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fallback
		}
		return decimal.NewFromFloat32(v)
	case []byte:
		return parseStringOrDefault(string(v), fallback)
	case string:
		return parseStringOrDefault(v, fallback)
	case *string:
		if v == nil {
			return fallback
		}
		return parseStringOrDefault(*v, fallback)
	default:
		return parseStringOrDefault(fmt.Sprint(v), fallback)
	}
}

// Format renders an amount with two decimals and no grouping.
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// Display renders an amount for people: two decimals, thousands grouping and
// the currency code, e.g. "1,234.50 NOK".
func Display(amount decimal.Decimal, currencyCode string) string {
	printer := message.NewPrinter(language.English)
	value, _ := amount.Round(2).Float64()
	formatted := printer.Sprintf("%.2f", value)
	if currencyCode == "" {
		return formatted
	}
	return formatted + " " + strings.ToUpper(currencyCode)
}

func parseStringOrDefault(raw string, fallback decimal.Decimal) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return fallback
	}
	return parsed
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
