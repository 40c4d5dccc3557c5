package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/quotedesk/loan-quoter/internal/domain"
)

// CSVSummarizer implements the summary CSV output (one row per quote).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.QuoteReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Kind", "Ref", "GrossLoan", "NetLoan", "LTV", "RateText", "ServicedMonths", "MonthlyPayment", "TotalInterestOrCost", "APRC", "BelowMin"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, q := range report.BTLQuotes {
		row := []string{
			"btl",
			q.QuoteRef,
			q.GrossLoan.StringFixed(2),
			q.NetLoan.StringFixed(2),
			q.LTV.StringFixed(2),
			q.FullRateText,
			strconv.Itoa(q.ServicedMonths),
			q.DirectDebit.StringFixed(2),
			q.TotalCostToBorrower.StringFixed(2),
			q.APRC.StringFixed(2),
			strconv.FormatBool(q.BelowMin),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	for _, q := range report.BridgeQuotes {
		row := []string{
			string(q.Kind),
			q.QuoteRef,
			q.Gross.StringFixed(2),
			q.NetLoanGBP.StringFixed(2),
			q.GrossLTV.StringFixed(2),
			q.FullRateText,
			strconv.Itoa(q.ServicedMonths),
			q.MonthlyPaymentGBP.StringFixed(2),
			q.TotalInterest.StringFixed(2),
			q.APRCAnnual.StringFixed(2),
			"false",
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
