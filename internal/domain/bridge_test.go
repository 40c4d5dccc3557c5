package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseProductKind(t *testing.T) {
	testCases := []struct {
		label    string
		expected ProductKind
		ok       bool
	}{
		{"bridge-var", KindBridgeVariable, true},
		{"Bridge-Fix", KindBridgeFixed, true},
		{" fusion ", KindFusion, true},
		{"btl", "", false},
		{"", "", false},
	}

	for _, tc := range testCases {
		kind, ok := ParseProductKind(tc.label)
		assert.Equal(t, tc.ok, ok, "label %q", tc.label)
		assert.Equal(t, tc.expected, kind, "label %q", tc.label)
	}
}

func TestBridgeRequest_Term(t *testing.T) {
	req := &BridgeRequest{Kind: KindBridgeVariable}
	assert.Equal(t, DefaultBridgeTermMonths, req.Term())

	req = &BridgeRequest{Kind: KindFusion}
	assert.Equal(t, DefaultFusionTermMonths, req.Term())

	term := 18
	req = &BridgeRequest{Kind: KindBridgeFixed, TermMonths: &term}
	assert.Equal(t, 18, req.Term())
}

func TestBridgeMarginTable_Lookup(t *testing.T) {
	table := DefaultBridgeMargins()

	assert.True(t, table.VariableMargin("residential", 60).Equal(decimal.NewFromFloat(0.0065)))
	assert.True(t, table.VariableMargin("Commercial", 75).Equal(decimal.NewFromFloat(0.0085)))
	assert.True(t, table.FixedCoupon("semi-commercial", 70).Equal(decimal.NewFromFloat(0.0099)))

	// Unknown sub-products fall back to residential pricing.
	assert.True(t, table.VariableMargin("mixed use", 60).Equal(decimal.NewFromFloat(0.0065)))
	assert.True(t, table.FixedCoupon("", 75).Equal(decimal.NewFromFloat(0.0099)))
}

func TestFusionRateTable_TierFor(t *testing.T) {
	table := DefaultFusionTiers()

	testCases := []struct {
		gross    int64
		expected string
	}{
		{500_000, "Fusion 1"},
		{1_500_000, "Fusion 1"},
		{1_500_001, "Fusion 2"},
		{3_000_000, "Fusion 2"},
		{3_000_001, "Fusion 3"},
		{10_000_000, "Fusion 3"},
	}

	for _, tc := range testCases {
		tier, ok := table.TierFor(decimal.NewFromInt(tc.gross))
		assert.True(t, ok)
		assert.Equal(t, tc.expected, tier.Name, "gross %d", tc.gross)
	}

	var empty FusionRateTable
	_, ok := empty.TierFor(decimal.NewFromInt(1))
	assert.False(t, ok)
}

func TestFusionTier_Margin(t *testing.T) {
	tier := DefaultFusionTiers()[0]
	assert.True(t, tier.Margin(false).Equal(decimal.NewFromFloat(0.0425)))
	assert.True(t, tier.Margin(true).Equal(decimal.NewFromFloat(0.0475)))
}
