package output

import (
	"github.com/shopspring/decimal"

	pdecimal "github.com/quotedesk/loan-quoter/pkg/decimal"
)

// FormatCurrency formats a decimal as GBP currency with 2 decimals.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string {
	return pdecimal.NewMoneyFromDecimal(amount).Format()
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }
