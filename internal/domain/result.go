package domain

import (
	"github.com/shopspring/decimal"
)

// LoanResult is the output contract of the BTL engine: one quote snapshot as
// consumed by the UI, the persistence layer and the PDF generator. Money
// fields are rounded to pence; rates are percent-domain values. Fields that
// can be inapplicable (title insurance above the premium threshold) are
// pointers and nil when not applicable.
type LoanResult struct {
	QuoteRef string `json:"quote_ref"`
	ColKey   string `json:"col_key"`

	GrossLoan         decimal.Decimal `json:"gross_loan"`
	NetLoan           decimal.Decimal `json:"net_loan"`
	ProductFeeAmount  decimal.Decimal `json:"product_fee_amount"`
	ProductFeePercent decimal.Decimal `json:"product_fee_percent"`

	RolledInterestAmount   decimal.Decimal `json:"rolled_interest_amount"`
	DeferredInterestAmount decimal.Decimal `json:"deferred_interest_amount"`
	ServicedInterest       decimal.Decimal `json:"serviced_interest"`

	LTV    decimal.Decimal `json:"ltv"`
	NetLTV decimal.Decimal `json:"net_ltv"`
	ICR    decimal.Decimal `json:"icr"`

	DirectDebit  decimal.Decimal `json:"direct_debit"`
	DDStartMonth int             `json:"dd_start_month"`

	RolledMonths   int             `json:"rolled_months"`
	ServicedMonths int             `json:"serviced_months"`
	DeferredCapPct decimal.Decimal `json:"deferred_cap_pct"`

	TermMonths    int `json:"term_months"`
	InitialTerm   int `json:"initial_term"`
	FullTerm      int `json:"full_term"`
	TotalLoanTerm int `json:"total_loan_term"`

	FullRateText string          `json:"full_rate_text"`
	PayRateText  string          `json:"pay_rate_text"`
	PayRate      decimal.Decimal `json:"pay_rate"`

	ProcFeeValue    decimal.Decimal `json:"proc_fee_value"`
	BrokerFeeValue  decimal.Decimal `json:"broker_fee_value"`
	BrokerClientFee decimal.Decimal `json:"broker_client_fee"`
	AdminFee        decimal.Decimal `json:"admin_fee"`
	ExitFee         decimal.Decimal `json:"exit_fee"`

	BelowMin  bool `json:"below_min"`
	HitMaxCap bool `json:"hit_max_cap"`
	IsManual  bool `json:"is_manual"`

	APRC decimal.Decimal `json:"aprc"`

	ERCText string          `json:"erc_text"`
	ERC1    decimal.Decimal `json:"erc_1"`
	ERC2    decimal.Decimal `json:"erc_2"`
	ERC3    decimal.Decimal `json:"erc_3"`
	ERC4    decimal.Decimal `json:"erc_4"`
	ERC5    decimal.Decimal `json:"erc_5"`

	NBP    decimal.Decimal `json:"nbp"`
	NBPLTV decimal.Decimal `json:"nbp_ltv"`

	RevertRate     decimal.Decimal `json:"revert_rate"`
	RevertRateText string          `json:"revert_rate_text"`
	RevertRateDD   decimal.Decimal `json:"revert_rate_dd"`

	TitleInsuranceCost  *decimal.Decimal `json:"title_insurance_cost"`
	TotalCostToBorrower decimal.Decimal  `json:"total_cost_to_borrower"`

	MinimumICR decimal.Decimal `json:"minimum_icr"`
}

// QuoteReport bundles the results of one quoting run for the output layer.
type QuoteReport struct {
	BTLQuotes    []LoanResult   `json:"btl_quotes"`
	BridgeQuotes []BridgeResult `json:"bridge_quotes"`
}
