// Package money represents monetary values as integer minor currency units
// (cents) and centralizes every piece of currency arithmetic in the engine.
// Amounts never pass through binary floating point internally; conversions
// from caller-supplied decimals go through shopspring/decimal, and display
// formatting goes through go-money for ISO 4217 currency metadata.
package money

import (
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units (cents for USD).
type Money int64

// Zero is the zero amount.
const Zero Money = 0

// FromFloat converts a major-unit float (e.g. 12.95) into Money, rounding
// half away from zero at the cent. Use only at the boundary where caller
// input enters the engine.
func FromFloat(value float64) Money {
	d := decimal.NewFromFloat(value).Mul(decimal.NewFromInt(100))
	return Money(d.Round(0).IntPart())
}

// Parse converts a decimal string (e.g. "12.95") into Money.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money(d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()), nil
}

// MustParse is Parse for trusted literals; it panics on malformed input.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Float64 returns the major-unit value (e.g. 1295 -> 12.95).
// For display and ratio math only; never feed the result back into amounts.
func (m Money) Float64() float64 {
	f, _ := decimal.NewFromInt(int64(m)).Div(decimal.NewFromInt(100)).Float64()
	return f
}

// Cents returns the raw minor-unit count.
func (m Money) Cents() int64 {
	return int64(m)
}

// Abs returns the absolute value.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// Mul scales the amount by an integer factor.
func (m Money) Mul(n int) Money {
	return m * Money(n)
}

// PercentOf returns the percentage m represents of total, or 0 when total
// is zero. Result is a ratio for display/validation, not an amount.
func (m Money) PercentOf(total Money) float64 {
	if total == 0 {
		return 0
	}
	f, _ := decimal.NewFromInt(int64(m)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Float64()
	return f
}

// Format renders the amount in the given ISO 4217 currency (e.g. "USD").
// Empty or unknown codes fall back to USD.
func (m Money) Format(currency string) string {
	code := gomoney.USD
	if c := strings.ToUpper(strings.TrimSpace(currency)); c != "" && gomoney.GetCurrency(c) != nil {
		code = c
	}
	return gomoney.New(int64(m), code).Display()
}

// String renders the amount as a plain decimal, e.g. "12.95" or "-0.05".
func (m Money) String() string {
	return decimal.NewFromInt(int64(m)).Div(decimal.NewFromInt(100)).StringFixed(2)
}
