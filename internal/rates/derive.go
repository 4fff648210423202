package rates

import (
	"fmt"
	"time"

	"subtracker/internal/currency"
	"subtracker/internal/models"

	"github.com/shopspring/decimal"
)

const ratePrecision = 8

// Derive turns a quote against quote.Base into rows against reference. Every
// non-reference currency in currencies gets a row; a single missing or
// non-positive input rate rejects the whole quote.
func Derive(quote Quote, reference string, currencies []string, now time.Time) ([]models.ExchangeRate, error) {
	base := currency.Code(quote.Base)
	reference = currency.Code(reference)

	baseToRef := decimal.NewFromInt(1)
	if reference != base {
		var err error
		if baseToRef, err = quoteRate(quote, reference); err != nil {
			return nil, err
		}
	}

	seen := map[string]struct{}{}
	rows := make([]models.ExchangeRate, 0, len(currencies))
	for _, raw := range currencies {
		code := currency.Code(raw)
		if code == reference {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		rate := baseToRef
		if code != base {
			baseToCode, err := quoteRate(quote, code)
			if err != nil {
				return nil, err
			}
			rate = baseToRef.Div(baseToCode)
		}
		rows = append(rows, models.ExchangeRate{
			Code:            code,
			RateToReference: rate.Round(ratePrecision).String(),
			UpdatedAt:       now,
		})
	}
	return rows, nil
}

func quoteRate(quote Quote, code string) (decimal.Decimal, error) {
	for key, rate := range quote.Rates {
		if currency.Code(key) != code {
			continue
		}
		if !rate.IsPositive() {
			return decimal.Zero, &FetchError{Op: "derive", Err: fmt.Errorf("%w: rate for %s is %s", ErrMalformedQuote, code, rate)}
		}
		return rate, nil
	}
	return decimal.Zero, &FetchError{Op: "derive", Err: fmt.Errorf("%w: missing rate for %s", ErrMalformedQuote, code)}
}

// Symbols lists the codes to request for base so that every supported
// currency can be expressed against reference.
func Symbols(base, reference string, currencies []string) []string {
	base = currency.Code(base)
	seen := map[string]struct{}{base: {}}
	symbols := []string{}
	for _, raw := range append([]string{reference}, currencies...) {
		code := currency.Code(raw)
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		symbols = append(symbols, code)
	}
	return symbols
}
