package calculation

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount normalizes heterogeneous numeric input (formatted currency
// strings, raw numbers, empty values) into a decimal. The boolean reports
// whether the input held a usable number; callers branch on it instead of
// propagating a not-a-number sentinel through the arithmetic.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer("£", "", "$", "", ",", "", " ", "", "%", "").Replace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// AmountOrZero parses like ParseAmount but collapses invalid input to zero.
func AmountOrZero(raw string) decimal.Decimal {
	d, ok := ParseAmount(raw)
	if !ok {
		return decimal.Zero
	}
	return d
}

// ParseOptionalAmount returns nil for empty/invalid input, a value otherwise.
func ParseOptionalAmount(raw string) *decimal.Decimal {
	d, ok := ParseAmount(raw)
	if !ok {
		return nil
	}
	return &d
}
