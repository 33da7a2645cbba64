// Package money converts between user-entered decimal amounts and the integer
// cents the ledger stores.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// ParseCents parses a decimal amount such as "12.5", "1,234.56" or "¥30" into cents.
// Half-up rounding is applied past the second decimal. Negative values are rejected.
func ParseCents(s string) (int64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimLeft(clean, "¥￥$€")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)

	if clean == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}

	return toCents(d, s)
}

// toCents scales d to whole cents, rejecting values int64 cannot hold.
func toCents(d decimal.Decimal, input any) (int64, error) {
	cents := d.Mul(hundred).Round(0)
	if cents.GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w: %v is too large", ErrInvalidAmount, input)
	}

	return cents.IntPart(), nil
}

// FromFloat converts a float amount to cents, rounding half away from zero.
func FromFloat(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, f)
	}

	if f < 0 {
		return 0, fmt.Errorf("%w: %v is negative", ErrInvalidAmount, f)
	}

	return toCents(decimal.NewFromFloat(f), f)
}

// Format renders cents as a two-decimal string. Negative values keep their sign.
func Format(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// Float returns the amount in major units, for JSON and spreadsheet output.
func Float(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}
