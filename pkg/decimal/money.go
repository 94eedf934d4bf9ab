// Package decimal provides a thin presentation-rounding wrapper around
// shopspring/decimal, used at the one boundary where a ModelResult's
// monetary fields are rounded to the cent before being returned.
package decimal

import (
	"github.com/shopspring/decimal"
)

// Money wraps a decimal.Decimal for presentation rounding.
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal wraps an existing decimal.Decimal as Money.
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// Round rounds the money amount to cents, with halves rounded away from zero.
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}
