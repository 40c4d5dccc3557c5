package domain

import (
	"github.com/shopspring/decimal"
)

// MarketRates carries the reference rates the engines price against, as
// fractional annual rates (0.0425 = 4.25%). They are injected per
// calculation so tests and callers can substitute their own values.
type MarketRates struct {
	// StandardBBR is the Bank Base Rate added to a tracker margin for the
	// pay/display rate.
	StandardBBR decimal.Decimal `yaml:"standard_bbr" json:"standard_bbr"`
	// StressBBR is the higher assumed base rate used for ICR stress
	// testing of tracker products.
	StressBBR decimal.Decimal `yaml:"stress_bbr" json:"stress_bbr"`
	// CurrentMVR is the managed variable rate used for MVR reversion.
	CurrentMVR decimal.Decimal `yaml:"current_mvr" json:"current_mvr"`
}

// DefaultMarketRates returns the built-in reference rates used when the
// caller supplies none.
func DefaultMarketRates() MarketRates {
	return MarketRates{
		StandardBBR: decimal.NewFromFloat(0.0425),
		StressBBR:   decimal.NewFromFloat(0.0525),
		CurrentMVR:  decimal.NewFromFloat(0.0860),
	}
}
