package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Code is an ISO 4217 currency code such as "INR" or "USD".
type Code string

func (c Code) String() string {
	return string(c)
}

// ParseCode normalises s to an upper-case three letter code.
func ParseCode(s string) (Code, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 3 {
		return "", fmt.Errorf("invalid currency code %q", s)
	}

	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("invalid currency code %q", s)
		}
	}

	return Code(s), nil
}

// DefaultZeroDecimal lists the currencies that have no minor unit in practice.
var DefaultZeroDecimal = []Code{"JPY", "KRW", "VND", "CLP", "ISK", "UGX"}

const defaultPrecision int32 = 2

// InvalidRateError is returned when a conversion rate is zero or negative.
type InvalidRateError struct {
	Rate decimal.Decimal
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("invalid conversion rate %s: rate must be greater than zero", e.Rate)
}

// Converter converts amounts with a frozen rate and rounds them to the target
// currency's precision.
type Converter struct {
	zeroDecimal map[Code]struct{}
}

// NewConverter returns a Converter treating the given codes as zero-decimal.
// With no codes, DefaultZeroDecimal is used.
func NewConverter(zeroDecimal ...Code) *Converter {
	if len(zeroDecimal) == 0 {
		zeroDecimal = DefaultZeroDecimal
	}

	set := make(map[Code]struct{}, len(zeroDecimal))
	for _, c := range zeroDecimal {
		set[c] = struct{}{}
	}

	return &Converter{zeroDecimal: set}
}

// Precision returns the number of decimal places amounts in c are kept at.
func (c *Converter) Precision(code Code) int32 {
	if _, ok := c.zeroDecimal[code]; ok {
		return 0
	}

	return defaultPrecision
}

// Round rounds amount half away from zero to the precision of code.
func (c *Converter) Round(amount decimal.Decimal, code Code) decimal.Decimal {
	return amount.Round(c.Precision(code))
}

// Fits reports whether amount carries no more decimals than code allows.
func (c *Converter) Fits(amount decimal.Decimal, code Code) bool {
	return amount.Equal(c.Round(amount, code))
}

// Convert multiplies amount by rate and rounds the result to the target currency.
func (c *Converter) Convert(amount, rate decimal.Decimal, target Code) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Zero, &InvalidRateError{Rate: rate}
	}

	return c.Round(amount.Mul(rate), target), nil
}

// Invert reverses Convert: it divides amount by rate and rounds to target.
func (c *Converter) Invert(amount, rate decimal.Decimal, target Code) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Zero, &InvalidRateError{Rate: rate}
	}

	// Keep enough intermediate digits so the final rounding is the only one.
	return c.Round(amount.DivRound(rate, 16), target), nil
}
