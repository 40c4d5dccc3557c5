package domain

import (
	"github.com/shopspring/decimal"
)

// DefaultTermMonths is assumed when a rate row carries no term.
const DefaultTermMonths = 24

// RevertIndex identifies the reference rate a product reverts to after the
// initial term. A numeric string is treated as a fixed reversion rate.
type RevertIndex string

const (
	RevertBBR RevertIndex = "BBR"
	RevertMVR RevertIndex = "MVR"
)

// RateRecord describes one product/fee-tier row of the rate table. Records
// are loaded once by the rate-table loader and never mutated by the engines.
//
// Rate, LTV, ICR, deferral and fee percentages are all percent-domain values
// (5.99 means 5.99%). Loan bounds and flat fees are currency amounts.
type RateRecord struct {
	ProductCode string `yaml:"product_code" json:"product_code"`
	ProductName string `yaml:"product_name" json:"product_name"`

	Rate    decimal.Decimal `yaml:"rate" json:"rate"`
	MinLoan decimal.Decimal `yaml:"min_loan" json:"min_loan"`
	MaxLoan decimal.Decimal `yaml:"max_loan" json:"max_loan"`
	MinLTV  decimal.Decimal `yaml:"min_ltv" json:"min_ltv"`
	MaxLTV  decimal.Decimal `yaml:"max_ltv" json:"max_ltv"`
	MinICR  decimal.Decimal `yaml:"min_icr" json:"min_icr"`

	TermMonths      int             `yaml:"term_months" json:"term_months"`
	MinRolledMonths int             `yaml:"min_rolled_months" json:"min_rolled_months"`
	MaxRolledMonths int             `yaml:"max_rolled_months" json:"max_rolled_months"`
	MinDeferInt     decimal.Decimal `yaml:"min_defer_int" json:"min_defer_int"`
	MaxDeferInt     decimal.Decimal `yaml:"max_defer_int" json:"max_defer_int"`

	AdminFee   decimal.Decimal  `yaml:"admin_fee" json:"admin_fee"`
	ExitFee    decimal.Decimal  `yaml:"exit_fee" json:"exit_fee"`
	ProductFee decimal.Decimal  `yaml:"product_fee" json:"product_fee"`
	FloorRate  *decimal.Decimal `yaml:"floor_rate,omitempty" json:"floor_rate,omitempty"`

	RevertIndex  RevertIndex     `yaml:"revert_index" json:"revert_index"`
	RevertMargin decimal.Decimal `yaml:"revert_margin" json:"revert_margin"`

	ERC1 decimal.Decimal `yaml:"erc_1" json:"erc_1"`
	ERC2 decimal.Decimal `yaml:"erc_2" json:"erc_2"`
	ERC3 decimal.Decimal `yaml:"erc_3" json:"erc_3"`
	ERC4 decimal.Decimal `yaml:"erc_4" json:"erc_4"`
	ERC5 decimal.Decimal `yaml:"erc_5" json:"erc_5"`
}

// Term returns the product term in months, defaulting when the row has none.
func (r *RateRecord) Term() int {
	if r.TermMonths > 0 {
		return r.TermMonths
	}
	return DefaultTermMonths
}

// ERCSchedule returns the yearly early-repayment charges up to the last
// non-zero year.
func (r *RateRecord) ERCSchedule() []decimal.Decimal {
	all := []decimal.Decimal{r.ERC1, r.ERC2, r.ERC3, r.ERC4, r.ERC5}
	last := -1
	for i, erc := range all {
		if !erc.IsZero() {
			last = i
		}
	}
	return all[:last+1]
}

// HasLoanBounds reports whether the record carries a usable min/max loan pair.
func (r *RateRecord) HasLoanBounds() bool {
	return r.MaxLoan.IsPositive() && r.MaxLoan.GreaterThanOrEqual(r.MinLoan)
}

// HasLTVBounds reports whether the record carries a usable min/max LTV pair.
func (r *RateRecord) HasLTVBounds() bool {
	return r.MaxLTV.IsPositive() && r.MaxLTV.GreaterThanOrEqual(r.MinLTV)
}
