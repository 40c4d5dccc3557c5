package config

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRateTableCSV(t *testing.T) {
	csvData := `product_code,product_name,rate,min_loan,max_loan,min_ltv,max_ltv,min_icr,term_months,max_rolled_months,max_defer_int,admin_fee,revert_index,revert_margin,erc_1,erc_2
BTL-60,Standard 60,5.49,150000,2000000,0,60,125,24,9,1.5,150,BBR,4.59,4,3
BTL-75,Standard 75,"5.99","£150,000","£2,000,000",0,75,125,24,9,1.5,150,BBR,4.59,4,3
`
	records, err := LoadRateTableCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "BTL-60", first.ProductCode)
	assert.Equal(t, "Standard 60", first.ProductName)
	assert.True(t, first.Rate.Equal(decimal.NewFromFloat(5.49)))
	assert.True(t, first.MaxLTV.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, 24, first.TermMonths)
	assert.Equal(t, 9, first.MaxRolledMonths)
	assert.True(t, first.ERC1.Equal(decimal.NewFromInt(4)))

	// Formatted currency cells parse like any other amount input.
	second := records[1]
	assert.True(t, second.MinLoan.Equal(decimal.NewFromInt(150000)))
	assert.True(t, second.MaxLoan.Equal(decimal.NewFromInt(2000000)))
}

func TestLoadRateTableCSV_HeaderAliases(t *testing.T) {
	csvData := `Product Code,Interest Rate,Min Loan,Max Loan,LTV,ICR,Term,Max Rolled,Max Defer,Floor
CORE-01,4.99,150000,1500000,70,125,24,6,1.25,5.5
`
	records, err := LoadRateTableCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "CORE-01", r.ProductCode)
	assert.True(t, r.Rate.Equal(decimal.NewFromFloat(4.99)))
	assert.True(t, r.MaxLTV.Equal(decimal.NewFromInt(70)))
	assert.True(t, r.MinICR.Equal(decimal.NewFromInt(125)))
	assert.Equal(t, 6, r.MaxRolledMonths)
	if assert.NotNil(t, r.FloorRate) {
		assert.True(t, r.FloorRate.Equal(decimal.NewFromFloat(5.5)))
	}
}

func TestLoadRateTableCSV_Errors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := LoadRateTableCSV(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyCSV)
	})

	t.Run("missing required columns", func(t *testing.T) {
		_, err := LoadRateTableCSV(strings.NewReader("product_code,rate\nA,5.99\n"))
		assert.ErrorIs(t, err, ErrMissingColumns)
		assert.Contains(t, err.Error(), "min_loan")
	})

	t.Run("header only", func(t *testing.T) {
		_, err := LoadRateTableCSV(strings.NewReader("product_code,rate,min_loan,max_loan,max_ltv\n"))
		assert.ErrorIs(t, err, ErrNoDataRows)
	})

	t.Run("malformed number reports the row", func(t *testing.T) {
		csvData := "product_code,rate,min_loan,max_loan,max_ltv\nA,not-a-rate,150000,2000000,75\n"
		_, err := LoadRateTableCSV(strings.NewReader(csvData))
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "row 2")
			assert.Contains(t, err.Error(), "rate")
		}
	})

	t.Run("invalid record fails validation", func(t *testing.T) {
		// max below min loan
		csvData := "product_code,rate,min_loan,max_loan,max_ltv\nA,5.99,150000,1000,75\n"
		_, err := LoadRateTableCSV(strings.NewReader(csvData))
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "max_loan")
		}
	})
}
