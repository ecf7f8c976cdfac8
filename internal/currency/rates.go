package currency

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrRateUnavailable is returned when no rate is known for a currency pair.
var ErrRateUnavailable = errors.New("conversion rate unavailable")

// RateSource supplies the rate used to freeze a conversion at invoice creation.
// A returned rate converts one unit of from into to.
type RateSource interface {
	Rate(ctx context.Context, from, to Code) (decimal.Decimal, error)
}

type pair struct {
	from Code
	to   Code
}

// StaticRates is a fixed rate table. Inverse pairs are derived when only one
// direction is configured.
type StaticRates struct {
	rates map[pair]decimal.Decimal
}

// NewStaticRates builds a table from entries of the form "USD:INR" -> "83.0".
func NewStaticRates(entries map[string]string) (*StaticRates, error) {
	s := &StaticRates{rates: make(map[pair]decimal.Decimal, len(entries))}

	for key, raw := range entries {
		fromRaw, toRaw, ok := strings.Cut(key, ":")
		if !ok {
			return nil, fmt.Errorf("rate key %q: expected FROM:TO", key)
		}

		from, err := ParseCode(fromRaw)
		if err != nil {
			return nil, fmt.Errorf("rate key %q: %w", key, err)
		}

		to, err := ParseCode(toRaw)
		if err != nil {
			return nil, fmt.Errorf("rate key %q: %w", key, err)
		}

		rate, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("rate %s: %w", key, err)
		}

		if err := s.Set(from, to, rate); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Set stores the rate for from->to.
func (s *StaticRates) Set(from, to Code, rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return &InvalidRateError{Rate: rate}
	}

	s.rates[pair{from: from, to: to}] = rate

	return nil
}

func (s *StaticRates) Rate(_ context.Context, from, to Code) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	if r, ok := s.rates[pair{from: from, to: to}]; ok {
		return r, nil
	}

	if r, ok := s.rates[pair{from: to, to: from}]; ok {
		return decimal.NewFromInt(1).DivRound(r, 10), nil
	}

	return decimal.Zero, fmt.Errorf("%s to %s: %w", from, to, ErrRateUnavailable)
}
