// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// RoundMoney rounds to 2 decimal places (minor currency units).
// Line subtotals and totals are stored rounded; intermediate math keeps
// full precision.
func RoundMoney(m Money) Money {
	return m.Round(2)
}

// Percent represents a percentage value (0..100) with decimal precision.
type Percent = decimal.Decimal

// ApplyDiscount returns amount reduced by discountPercent.
// amount * (1 - discount/100), not rounded.
func ApplyDiscount(amount Money, discountPercent Percent) Money {
	hundred := decimal.NewFromInt(100)
	factor := hundred.Sub(discountPercent).Div(hundred)
	return amount.Mul(factor)
}
