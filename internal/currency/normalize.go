package currency

import (
	"errors"
	"strings"

	"subtracker/internal/models"
	"subtracker/internal/money"

	"github.com/shopspring/decimal"
)

// ErrRateUnavailable marks a lookup that was answered by the fallback policy.
// It is informational; Normalize never fails because of it.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// DefaultFallbackRate applies to codes missing from both the live table and
// the fallback table: the amount is counted at face value.
var DefaultFallbackRate = decimal.NewFromInt(1)

// RateTable maps a currency code to its rate into the reference currency.
type RateTable map[string]decimal.Decimal

// NewRateTable builds a table from stored rows. Rows with an unparsable or
// non-positive rate are left out so lookups fall back instead of zeroing.
func NewRateTable(rows []models.ExchangeRate) RateTable {
	table := make(RateTable, len(rows))
	for _, row := range rows {
		rate := money.ParseAmountOrDefault(row.RateToReference, decimal.Zero)
		if !rate.IsPositive() {
			continue
		}
		table[Code(row.Code)] = rate
	}
	return table
}

type Normalizer struct {
	reference string
	fallback  RateTable
}

// NewNormalizer binds the reference currency and the last-known fallback
// rates used when the live table has no usable entry.
func NewNormalizer(reference string, fallback RateTable) Normalizer {
	cleaned := make(RateTable, len(fallback))
	for code, rate := range fallback {
		if rate.IsPositive() {
			cleaned[Code(code)] = rate
		}
	}
	return Normalizer{reference: Code(reference), fallback: cleaned}
}

func (n Normalizer) Reference() string {
	return n.reference
}

// Rate resolves the rate for code. The error is ErrRateUnavailable when the
// returned rate came from the fallback policy.
func (n Normalizer) Rate(code string, rates RateTable) (decimal.Decimal, error) {
	code = Code(code)
	if code == n.reference {
		return decimal.NewFromInt(1), nil
	}
	if rate, ok := rates[code]; ok && rate.IsPositive() {
		return rate, nil
	}
	if rate, ok := n.fallback[code]; ok {
		return rate, ErrRateUnavailable
	}
	return DefaultFallbackRate, ErrRateUnavailable
}

func (n Normalizer) Normalize(amount decimal.Decimal, code string, rates RateTable) decimal.Decimal {
	if Code(code) == n.reference {
		return amount
	}
	rate, _ := n.Rate(code, rates)
	return amount.Mul(rate)
}

func Code(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
