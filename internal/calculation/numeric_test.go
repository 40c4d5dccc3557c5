package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		raw      string
		expected string
		ok       bool
		desc     string
	}{
		{"250000", "250000", true, "plain integer"},
		{"£1,250,000.50", "1250000.5", true, "formatted sterling"},
		{"$3,000", "3000", true, "dollar formatted"},
		{"75%", "75", true, "percent suffix"},
		{" 5.99 ", "5.99", true, "surrounding whitespace"},
		{"-1500", "-1500", true, "negative amount"},
		{"", "0", false, "empty input"},
		{"   ", "0", false, "whitespace only"},
		{"n/a", "0", false, "non-numeric"},
		{"£", "0", false, "symbol only"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got, ok := ParseAmount(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.expected)),
				"got %s want %s", got, tc.expected)
		})
	}
}

func TestAmountOrZero(t *testing.T) {
	assert.True(t, AmountOrZero("£100").Equal(decimal.NewFromInt(100)))
	assert.True(t, AmountOrZero("junk").IsZero())
	assert.True(t, AmountOrZero("").IsZero())
}

func TestParseOptionalAmount(t *testing.T) {
	got := ParseOptionalAmount("£42.50")
	if assert.NotNil(t, got) {
		assert.True(t, got.Equal(decimal.NewFromFloat(42.5)))
	}
	assert.Nil(t, ParseOptionalAmount(""))
	assert.Nil(t, ParseOptionalAmount("junk"))
}
