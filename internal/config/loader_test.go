package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/loan-quoter/internal/domain"
)

func tableRow() domain.RateRecord {
	return domain.RateRecord{
		ProductCode:     "BTL-75",
		Rate:            decimal.NewFromFloat(5.99),
		MinLoan:         decimal.NewFromInt(150000),
		MaxLoan:         decimal.NewFromInt(2000000),
		MaxLTV:          decimal.NewFromInt(75),
		MinICR:          decimal.NewFromInt(125),
		TermMonths:      24,
		MaxRolledMonths: 9,
		MaxDeferInt:     decimal.NewFromFloat(1.5),
	}
}

func TestLoader_BuildParsesFormattedAmounts(t *testing.T) {
	cfg := &QuoteFileConfig{
		RateTable: []domain.RateRecord{tableRow()},
		BTLQuotes: []BTLQuoteConfig{{
			ColKey:            "col1",
			ProductCode:       "BTL-75",
			PropertyValue:     "£500,000",
			MonthlyRent:       "£3,000.50",
			LoanType:          "Max gross loan",
			MaxLTV:            "75%",
			ProductFeePercent: "2",
		}},
	}

	batch, err := NewLoader().Build(cfg)
	require.NoError(t, err)
	require.Len(t, batch.BTL, 1)

	req := batch.BTL[0]
	assert.True(t, req.PropertyValue.Equal(decimal.NewFromInt(500000)))
	assert.True(t, req.MonthlyRent.Equal(decimal.NewFromFloat(3000.5)))
	assert.Equal(t, domain.LoanTypeMaxLTV, req.LoanType)
	assert.True(t, req.MaxLTVInput.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, "BTL-75", req.SelectedRate.ProductCode)
}

func TestLoader_BuildDefaultsMarketRates(t *testing.T) {
	cfg := &QuoteFileConfig{
		RateTable: []domain.RateRecord{tableRow()},
		BTLQuotes: []BTLQuoteConfig{{
			ColKey:        "col1",
			ProductCode:   "BTL-75",
			PropertyValue: "500000",
			MonthlyRent:   "3000",
			LoanType:      "Max gross loan",
		}},
	}

	batch, err := NewLoader().Build(cfg)
	require.NoError(t, err)
	assert.True(t, batch.Market.StandardBBR.Equal(decimal.NewFromFloat(0.0425)))

	custom := domain.MarketRates{
		StandardBBR: decimal.NewFromFloat(0.05),
		StressBBR:   decimal.NewFromFloat(0.06),
		CurrentMVR:  decimal.NewFromFloat(0.09),
	}
	cfg.MarketRates = &custom
	batch, err = NewLoader().Build(cfg)
	require.NoError(t, err)
	assert.True(t, batch.Market.StandardBBR.Equal(decimal.NewFromFloat(0.05)))
}

func TestLoader_RateResolution(t *testing.T) {
	low := tableRow()
	low.ProductCode = "BTL-60"
	low.MaxLTV = decimal.NewFromInt(60)
	low.Rate = decimal.NewFromFloat(5.49)
	cfg := &QuoteFileConfig{
		RateTable: []domain.RateRecord{low, tableRow()},
	}

	t.Run("product code wins, case insensitive", func(t *testing.T) {
		req, err := NewLoader().buildBTLRequest(cfg, &BTLQuoteConfig{
			ProductCode:   "btl-75",
			PropertyValue: "500000",
			MonthlyRent:   "3000",
			LoanType:      "Max gross loan",
			MaxLTV:        "55",
		})
		require.NoError(t, err)
		assert.Equal(t, "BTL-75", req.SelectedRate.ProductCode)
	})

	t.Run("unknown product code fails", func(t *testing.T) {
		_, err := NewLoader().buildBTLRequest(cfg, &BTLQuoteConfig{
			ProductCode:   "NOPE",
			PropertyValue: "500000",
			MonthlyRent:   "3000",
			LoanType:      "Max gross loan",
		})
		assert.Error(t, err)
	})

	t.Run("ltv bracket picks the containing row", func(t *testing.T) {
		req, err := NewLoader().buildBTLRequest(cfg, &BTLQuoteConfig{
			PropertyValue: "500000",
			MonthlyRent:   "3000",
			LoanType:      "Max gross loan",
			MaxLTV:        "55",
		})
		require.NoError(t, err)
		assert.Equal(t, "BTL-60", req.SelectedRate.ProductCode)
	})
}

func TestLoader_ValidationErrors(t *testing.T) {
	testCases := []struct {
		cfg     QuoteFileConfig
		wantErr string
		desc    string
	}{
		{
			cfg:     QuoteFileConfig{},
			wantErr: "no quotes provided",
			desc:    "empty file",
		},
		{
			cfg: QuoteFileConfig{
				BTLQuotes: []BTLQuoteConfig{{PropertyValue: "500000", LoanType: "Max gross loan"}},
			},
			wantErr: "rate_table",
			desc:    "btl without rate table",
		},
		{
			cfg: QuoteFileConfig{
				RateTable: []domain.RateRecord{tableRow()},
				BTLQuotes: []BTLQuoteConfig{{PropertyValue: "", LoanType: "Max gross loan"}},
			},
			wantErr: "property_value",
			desc:    "missing property value",
		},
		{
			cfg: QuoteFileConfig{
				RateTable: []domain.RateRecord{tableRow()},
				BTLQuotes: []BTLQuoteConfig{{PropertyValue: "500000", LoanType: "Specific net loan"}},
			},
			wantErr: "specific_net_loan",
			desc:    "net request without target",
		},
		{
			cfg: QuoteFileConfig{
				RateTable: []domain.RateRecord{tableRow()},
				BTLQuotes: []BTLQuoteConfig{{
					PropertyValue:   "500000",
					LoanType:        "Max gross loan",
					RetentionChoice: "Yes",
				}},
			},
			wantErr: "retention_ltv",
			desc:    "retention without an LTV",
		},
		{
			cfg: QuoteFileConfig{
				BridgeQuotes: []BridgeQuoteConfig{{Kind: "btl", GrossLoan: "500000", PropertyValue: "1000000"}},
			},
			wantErr: "kind",
			desc:    "bad bridge kind",
		},
		{
			cfg: QuoteFileConfig{
				BridgeQuotes: []BridgeQuoteConfig{{Kind: "fusion", GrossLoan: "0", PropertyValue: "1000000"}},
			},
			wantErr: "gross_loan",
			desc:    "non-positive bridge gross",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			err := NewLoader().Validate(&tc.cfg)
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestLoader_RateRecordValidation(t *testing.T) {
	bad := tableRow()
	bad.MaxLoan = decimal.NewFromInt(1000) // below min loan
	cfg := &QuoteFileConfig{
		RateTable: []domain.RateRecord{bad},
		BTLQuotes: []BTLQuoteConfig{{PropertyValue: "500000", LoanType: "Max gross loan"}},
	}
	err := NewLoader().Validate(cfg)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "max_loan")
	}
}

func TestLoader_BuildBridgeRequestConvertsPercents(t *testing.T) {
	req, err := NewLoader().buildBridgeRequest(&BridgeQuoteConfig{
		Kind:           "fusion",
		GrossLoan:      "£1,000,000",
		PropertyValue:  "£2,000,000",
		DeferredPct:    "1%",
		ProcFeePct:     "1.5",
		ArrangementPct: "2",
		BBRPct:         "4.25",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.KindFusion, req.Kind)
	assert.True(t, req.DeferredPct.Equal(decimal.NewFromFloat(0.01)))
	assert.True(t, req.ProcFeePct.Equal(decimal.NewFromFloat(0.015)))
	if assert.NotNil(t, req.ArrangementPct) {
		assert.True(t, req.ArrangementPct.Equal(decimal.NewFromFloat(0.02)))
	}
	if assert.NotNil(t, req.BBR) {
		assert.True(t, req.BBR.Equal(decimal.NewFromFloat(0.0425)))
	}
}

func TestLoader_LoadQuoteFile(t *testing.T) {
	content := `
rate_table:
  - product_code: BTL-75
    rate: 5.99
    min_loan: 150000
    max_loan: 2000000
    max_ltv: 75
    min_icr: 125
    term_months: 24
    max_rolled_months: 9
    max_defer_int: 1.5

btl_quotes:
  - col_key: col1
    product_code: BTL-75
    property_value: "£500,000"
    monthly_rent: "£3,000"
    loan_type: Max gross loan
    max_ltv: "75"
    product_fee_percent: "2"

bridge_quotes:
  - kind: bridge-var
    gross_loan: "£500,000"
    property_value: "£1,000,000"
    sub_product: residential
`
	path := filepath.Join(t.TempDir(), "quotes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	batch, err := NewLoader().LoadQuoteFile(path)
	require.NoError(t, err)
	assert.Len(t, batch.BTL, 1)
	assert.Len(t, batch.Bridge, 1)
	assert.True(t, batch.BTL[0].PropertyValue.Equal(decimal.NewFromInt(500000)))
	assert.Equal(t, domain.KindBridgeVariable, batch.Bridge[0].Kind)
}

func TestLoader_LoadQuoteFileErrors(t *testing.T) {
	_, err := NewLoader().LoadQuoteFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rate_table: {not: [valid"), 0644))
	_, err = NewLoader().LoadQuoteFile(path)
	assert.Error(t, err)
}
