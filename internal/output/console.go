package output

import (
	"bytes"
	"fmt"

	"github.com/quotedesk/loan-quoter/internal/domain"
	pdecimal "github.com/quotedesk/loan-quoter/pkg/decimal"
)

// ConsoleFormatter renders a readable quote summary for the terminal.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.QuoteReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "LOAN QUOTE SUMMARY")
	fmt.Fprintln(&buf, "==================")

	for _, q := range report.BTLQuotes {
		fmt.Fprintf(&buf, "\nBTL %s (ref %s)\n", q.ColKey, q.QuoteRef)
		if q.BelowMin {
			fmt.Fprintln(&buf, "  No eligible loan: computed gross is below the product minimum")
			continue
		}
		fmt.Fprintf(&buf, "  Gross Loan:       %s (LTV %s)\n", FormatCurrency(q.GrossLoan), FormatPercentage(q.LTV))
		fmt.Fprintf(&buf, "  Net Loan:         %s (net LTV %s)\n", FormatCurrency(q.NetLoan), FormatPercentage(q.NetLTV))
		fmt.Fprintf(&buf, "  Full Rate:        %s  Pay Rate: %s\n", q.FullRateText, q.PayRateText)
		fmt.Fprintf(&buf, "  Rolled:           %d months, %s interest\n", q.RolledMonths, FormatCurrency(q.RolledInterestAmount))
		fmt.Fprintf(&buf, "  Deferred:         %s%% cap, %s interest\n", q.DeferredCapPct.StringFixed(2), FormatCurrency(q.DeferredInterestAmount))
		fmt.Fprintf(&buf, "  Direct Debit:     %s from month %d\n", FormatCurrency(q.DirectDebit), q.DDStartMonth)
		fmt.Fprintf(&buf, "  Product Fee:      %s (%s)\n", FormatCurrency(q.ProductFeeAmount), FormatPercentage(q.ProductFeePercent))
		fmt.Fprintf(&buf, "  ICR:              %s (minimum %s)\n", FormatPercentage(pdecimal.FractionToPercent(q.ICR)), FormatPercentage(q.MinimumICR))
		fmt.Fprintf(&buf, "  APRC:             %s\n", FormatPercentage(q.APRC))
		fmt.Fprintf(&buf, "  ERC:              %s\n", q.ERCText)
		fmt.Fprintf(&buf, "  Reverts To:       %s\n", q.RevertRateText)
		if q.TitleInsuranceCost != nil {
			fmt.Fprintf(&buf, "  Title Insurance:  %s\n", FormatCurrency(*q.TitleInsuranceCost))
		}
		fmt.Fprintf(&buf, "  Total Cost:       %s\n", FormatCurrency(q.TotalCostToBorrower))
		if q.IsManual {
			fmt.Fprintln(&buf, "  (manual rolled/deferred override)")
		}
	}

	for _, q := range report.BridgeQuotes {
		fmt.Fprintf(&buf, "\n%s (ref %s)\n", bridgeTitle(q), q.QuoteRef)
		fmt.Fprintf(&buf, "  Gross Loan:       %s (LTV %s, bucket %d)\n", FormatCurrency(q.Gross), FormatPercentage(q.GrossLTV), q.LTVBucket)
		fmt.Fprintf(&buf, "  Net Advance:      %s (net LTV %s)\n", FormatCurrency(q.NetLoanGBP), FormatPercentage(q.NetLTV))
		fmt.Fprintf(&buf, "  Rate:             %s\n", q.FullRateText)
		fmt.Fprintf(&buf, "  Arrangement Fee:  %s\n", FormatCurrency(q.ArrangementFeeGBP))
		fmt.Fprintf(&buf, "  Rolled Interest:  %s  Deferred: %s\n", FormatCurrency(q.RolledInterestGBP), FormatCurrency(q.DeferredGBP))
		fmt.Fprintf(&buf, "  Monthly Payment:  %s for %d months\n", FormatCurrency(q.MonthlyPaymentGBP), q.ServicedMonths)
		fmt.Fprintf(&buf, "  Total Interest:   %s\n", FormatCurrency(q.TotalInterest))
		fmt.Fprintf(&buf, "  APRC:             %s\n", FormatPercentage(q.APRCAnnual))
		if q.ICR != nil {
			fmt.Fprintf(&buf, "  ICR:              %s\n", FormatPercentage(pdecimal.FractionToPercent(*q.ICR)))
		}
	}

	return buf.Bytes(), nil
}

func bridgeTitle(q domain.BridgeResult) string {
	switch q.Kind {
	case domain.KindBridgeFixed:
		return "Fixed Bridge"
	case domain.KindFusion:
		if q.Tier != "" {
			return q.Tier
		}
		return "Fusion"
	default:
		return "Variable Bridge"
	}
}
