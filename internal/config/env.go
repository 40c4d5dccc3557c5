package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/quotedesk/loan-quoter/internal/domain"
)

// Environment variable names for market rate overrides. Values are
// fractional annual rates, e.g. STANDARD_BBR=0.0425.
const (
	EnvStandardBBR = "STANDARD_BBR"
	EnvStressBBR   = "STRESS_BBR"
	EnvCurrentMVR  = "CURRENT_MVR"
)

// MarketRatesFromEnv returns the default market rates overlaid with any
// values set in the environment or a local .env file. A missing .env file
// is not an error.
func MarketRatesFromEnv() domain.MarketRates {
	_ = godotenv.Load()

	rates := domain.DefaultMarketRates()
	if v, ok := envRate(EnvStandardBBR); ok {
		rates.StandardBBR = v
	}
	if v, ok := envRate(EnvStressBBR); ok {
		rates.StressBBR = v
	}
	if v, ok := envRate(EnvCurrentMVR); ok {
		rates.CurrentMVR = v
	}
	return rates
}

func envRate(name string) (decimal.Decimal, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
