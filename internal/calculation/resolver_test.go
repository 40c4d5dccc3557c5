package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/quotedesk/loan-quoter/internal/domain"
)

func ltvRow(code string, rate float64, minLTV, maxLTV int64) domain.RateRecord {
	return domain.RateRecord{
		ProductCode: code,
		Rate:        decimal.NewFromFloat(rate),
		MinLTV:      decimal.NewFromInt(minLTV),
		MaxLTV:      decimal.NewFromInt(maxLTV),
	}
}

func TestPickBestRate_ContainmentInclusive(t *testing.T) {
	table := []domain.RateRecord{
		ltvRow("A", 5.49, 0, 60),
		ltvRow("B", 5.99, 61, 75),
	}

	testCases := []struct {
		target   string
		expected string
		desc     string
	}{
		{"55", "A", "inside first bracket"},
		{"60", "A", "upper boundary is inclusive"},
		{"61", "B", "lower boundary is inclusive"},
		{"75", "B", "top boundary is inclusive"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got := PickBestRate(table, decimal.RequireFromString(tc.target), true, LTVBracket)
			if assert.NotNil(t, got) {
				assert.Equal(t, tc.expected, got.ProductCode)
			}
		})
	}
}

func TestPickBestRate_TightestBracketWins(t *testing.T) {
	// Both rows contain 65; the narrower bracket must win.
	table := []domain.RateRecord{
		ltvRow("wide", 5.49, 0, 75),
		ltvRow("tight", 5.99, 61, 70),
	}
	got := PickBestRate(table, decimal.NewFromInt(65), true, LTVBracket)
	if assert.NotNil(t, got) {
		assert.Equal(t, "tight", got.ProductCode)
	}
}

func TestPickBestRate_NearestMidpointFallback(t *testing.T) {
	// 80 is outside every bracket; the row with the nearest midpoint wins.
	table := []domain.RateRecord{
		ltvRow("low", 5.49, 0, 60),   // midpoint 30
		ltvRow("high", 5.99, 61, 75), // midpoint 68
	}
	got := PickBestRate(table, decimal.NewFromInt(80), true, LTVBracket)
	if assert.NotNil(t, got) {
		assert.Equal(t, "high", got.ProductCode)
	}
}

func TestPickBestRate_NoTargetPicksLowestRate(t *testing.T) {
	table := []domain.RateRecord{
		ltvRow("dearer", 6.49, 0, 75),
		ltvRow("cheaper", 5.49, 0, 75),
	}
	got := PickBestRate(table, decimal.Zero, false, LTVBracket)
	if assert.NotNil(t, got) {
		assert.Equal(t, "cheaper", got.ProductCode)
	}
}

func TestPickBestRate_Deterministic(t *testing.T) {
	table := []domain.RateRecord{
		ltvRow("A", 5.49, 0, 75),
		ltvRow("B", 5.99, 0, 75),
	}
	first := PickBestRate(table, decimal.NewFromInt(70), true, LTVBracket)
	for i := 0; i < 10; i++ {
		again := PickBestRate(table, decimal.NewFromInt(70), true, LTVBracket)
		assert.Equal(t, first.ProductCode, again.ProductCode)
	}
}

func TestPickBestRate_LoanBracket(t *testing.T) {
	table := []domain.RateRecord{
		{
			ProductCode: "small",
			Rate:        decimal.NewFromFloat(5.49),
			MinLoan:     decimal.NewFromInt(50000),
			MaxLoan:     decimal.NewFromInt(500000),
		},
		{
			ProductCode: "large",
			Rate:        decimal.NewFromFloat(5.99),
			MinLoan:     decimal.NewFromInt(500001),
			MaxLoan:     decimal.NewFromInt(2000000),
		},
	}
	got := PickBestRate(table, decimal.NewFromInt(750000), true, LoanBracket)
	if assert.NotNil(t, got) {
		assert.Equal(t, "large", got.ProductCode)
	}
}

func TestPickBestRate_Degenerate(t *testing.T) {
	assert.Nil(t, PickBestRate(nil, decimal.Zero, false, LTVBracket))

	// No well-formed brackets: first row with a positive rate wins.
	table := []domain.RateRecord{
		{ProductCode: "zero"},
		{ProductCode: "rated", Rate: decimal.NewFromFloat(4.99)},
	}
	got := PickBestRate(table, decimal.NewFromInt(50), true, LTVBracket)
	if assert.NotNil(t, got) {
		assert.Equal(t, "rated", got.ProductCode)
	}
}
