package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRateRecord_Term(t *testing.T) {
	r := &RateRecord{TermMonths: 36}
	assert.Equal(t, 36, r.Term())

	r = &RateRecord{}
	assert.Equal(t, DefaultTermMonths, r.Term())
}

func TestRateRecord_ERCSchedule(t *testing.T) {
	r := &RateRecord{
		ERC1: decimal.NewFromInt(4),
		ERC2: decimal.NewFromInt(3),
		ERC3: decimal.NewFromInt(2),
	}
	schedule := r.ERCSchedule()
	assert.Len(t, schedule, 3)
	assert.True(t, schedule[0].Equal(decimal.NewFromInt(4)))
	assert.True(t, schedule[2].Equal(decimal.NewFromInt(2)))

	// Interior zero years are kept up to the last non-zero year.
	r = &RateRecord{ERC1: decimal.NewFromInt(4), ERC3: decimal.NewFromInt(2)}
	assert.Len(t, r.ERCSchedule(), 3)

	r = &RateRecord{}
	assert.Empty(t, r.ERCSchedule())
}

func TestRateRecord_Bounds(t *testing.T) {
	r := &RateRecord{
		MinLoan: decimal.NewFromInt(150000),
		MaxLoan: decimal.NewFromInt(2000000),
		MinLTV:  decimal.Zero,
		MaxLTV:  decimal.NewFromInt(75),
	}
	assert.True(t, r.HasLoanBounds())
	assert.True(t, r.HasLTVBounds())

	r = &RateRecord{MinLoan: decimal.NewFromInt(150000)}
	assert.False(t, r.HasLoanBounds())
	assert.False(t, r.HasLTVBounds())
}
