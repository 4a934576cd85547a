// Package money represents currency amounts as an integer number of minor
// units (cents). All arithmetic is exact integer arithmetic; floating point
// only appears at the input and display boundaries, where rounding happens
// exactly once.
package money

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a caller-supplied amount is NaN, infinite,
// or otherwise not representable as a currency value.
var ErrInvalidAmount = errors.New("invalid amount")

// Money is a currency amount in minor units (cents).
// The zero value is zero cents and ready to use.
type Money struct {
	Cents int64
}

// FromMinor builds a Money from an integer number of minor units.
func FromMinor(cents int64) Money {
	return Money{Cents: cents}
}

// FromMajor converts a major-unit value (e.g. 12.34) to Money, rounding half
// away from zero at two decimal places. It fails with ErrInvalidAmount if the
// value is not finite. Sign restrictions are the caller's concern.
func FromMajor(value float64) (Money, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: decimal.NewFromFloat(value).Round(2).Shift(2).IntPart()}, nil
}

// RoundToMinorUnit rounds a major-unit value half away from zero to two
// decimal places. Used only at input boundaries (user-entered custom split
// amounts), never on already-validated internal sums.
func RoundToMinorUnit(value float64) (Money, error) {
	return FromMajor(value)
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{Cents: -m.Cents}
}

// Sum adds a list of amounts exactly.
func Sum(amounts ...Money) Money {
	var total int64
	for _, a := range amounts {
		total += a.Cents
	}
	return Money{Cents: total}
}

// Equal reports exact minor-unit equality. This is the equality used for
// validation (e.g. custom-split total vs expense amount).
func (m Money) Equal(other Money) bool {
	return m.Cents == other.Cents
}

// IsPositive reports whether m is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.Cents > 0
}

// IsNegative reports whether m is strictly less than zero.
func (m Money) IsNegative() bool {
	return m.Cents < 0
}

// IsZero reports whether m is exactly zero.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

// Major returns the major-unit value as a float64 for display and JSON
// responses. Use Cents for any calculation.
func (m Money) Major() float64 {
	return float64(m.Cents) / 100.0
}

// String formats the amount with two decimal places, e.g. "12.34" or "-0.01".
func (m Money) String() string {
	sign := ""
	c := m.Cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}
