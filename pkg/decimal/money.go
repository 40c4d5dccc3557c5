package decimal

import (
	"github.com/shopspring/decimal"
)

// Money is a GBP amount. The engines keep their arithmetic in raw
// decimal.Decimal; Money sits at the display boundary and renders at
// pence precision.
type Money struct {
	decimal.Decimal
}

// NewMoney creates a Money amount from a float64
func NewMoney(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// NewMoneyFromDecimal wraps a raw decimal as a GBP amount
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// Round rounds the amount to pence
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// String returns the amount at pence precision
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders the amount with the currency symbol, e.g. "£1234.50"
func (m Money) Format() string {
	return "£" + m.String()
}

// MinDecimal returns the smaller of two raw decimals
func MinDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// MaxDecimal returns the larger of two raw decimals
func MaxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// PercentToFraction converts a percent-domain value (e.g. 5.99) to a fraction (0.0599)
func PercentToFraction(pct decimal.Decimal) decimal.Decimal {
	return pct.Div(decimal.NewFromInt(100))
}

// FractionToPercent converts a fractional rate (0.0599) to the percent domain (5.99)
func FractionToPercent(frac decimal.Decimal) decimal.Decimal {
	return frac.Mul(decimal.NewFromInt(100))
}
