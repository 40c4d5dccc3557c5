package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LoanType is the closed enum of loan request types. UI labels are mapped to
// it once, at the boundary; the engine never sees label text.
type LoanType int

const (
	// LoanTypeMaxLTV maximises the gross loan subject to the LTV slider.
	LoanTypeMaxLTV LoanType = iota
	// LoanTypeSpecificGross targets a requested gross loan amount.
	LoanTypeSpecificGross
	// LoanTypeSpecificNet targets a requested net loan amount.
	LoanTypeSpecificNet
)

// String returns the canonical label for the loan type.
func (lt LoanType) String() string {
	switch lt {
	case LoanTypeSpecificGross:
		return "Specific gross loan"
	case LoanTypeSpecificNet:
		return "Specific net loan"
	default:
		return "Max gross loan"
	}
}

// ParseLoanType maps a UI label ("Max gross loan", "Specific net loan
// amount", ...) to the internal enum. Unrecognised labels fall back to the
// max-LTV request type, matching the engine's default selection behaviour.
func ParseLoanType(label string) LoanType {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "net"):
		return LoanTypeSpecificNet
	case strings.Contains(l, "gross") && !strings.Contains(l, "max"):
		return LoanTypeSpecificGross
	default:
		return LoanTypeMaxLTV
	}
}

// RetentionChoice is the yes/no retention policy answer.
type RetentionChoice string

const (
	RetentionYes RetentionChoice = "Yes"
	RetentionNo  RetentionChoice = "No"
)

// CriteriaAnswer is one answered criteria question.
type CriteriaAnswer struct {
	OptionLabel string `yaml:"option_label" json:"option_label"`
}

// BTLRequest is the full input bundle for one BTL calculation. Required
// fields: SelectedRate, PropertyValue, MonthlyRent, LoanType. Everything
// else is optional and defaulted here, at the boundary, rather than inside
// the algorithm body.
type BTLRequest struct {
	// ColKey identifies the fee column being calculated, and keys into
	// FeeOverrides.
	ColKey string

	SelectedRate   RateRecord
	OverriddenRate *decimal.Decimal // percent; wins over SelectedRate.Rate

	PropertyValue decimal.Decimal
	MonthlyRent   decimal.Decimal
	TopSlicing    decimal.Decimal

	LoanType          LoanType
	SpecificGrossLoan *decimal.Decimal
	SpecificNetLoan   *decimal.Decimal
	MaxLTVInput       decimal.Decimal // percent, user slider

	ProductType   string // "tracker" substring selects tracker pricing
	ProductScope  string // "Core" products apply the floor rate
	SelectedRange string // "Residential" combined with Core disables the search
	Tier          int

	Criteria map[string]CriteriaAnswer

	RetentionChoice RetentionChoice
	RetentionLTV    *decimal.Decimal // percent

	ProductFeePercent decimal.Decimal
	FeeOverrides      map[string]decimal.Decimal // ColKey -> fee percent

	// Manual overrides bypass the auto-search; values are clamped to the
	// rate row's bounds.
	ManualRolled   *int
	ManualDeferred *decimal.Decimal // percent

	ProcFeePct    decimal.Decimal
	BrokerFeePct  decimal.Decimal
	BrokerFeeFlat decimal.Decimal
}

// IsTracker reports whether the product tracks BBR.
func (r *BTLRequest) IsTracker() bool {
	return strings.Contains(strings.ToLower(r.ProductType), "tracker")
}

// IsCore reports whether the product sits in the Core scope.
func (r *BTLRequest) IsCore() bool {
	return strings.EqualFold(strings.TrimSpace(r.ProductScope), "core")
}

// IsResidential reports whether the selected range is Residential.
func (r *BTLRequest) IsResidential() bool {
	return strings.EqualFold(strings.TrimSpace(r.SelectedRange), "residential")
}

// FlatAboveCommercial reports whether any criteria answer flags the security
// as a flat above commercial premises.
func (r *BTLRequest) FlatAboveCommercial() bool {
	for question, answer := range r.Criteria {
		if strings.Contains(strings.ToLower(question), "flat above commercial") &&
			strings.EqualFold(strings.TrimSpace(answer.OptionLabel), "yes") {
			return true
		}
	}
	return false
}

// FeePercent resolves the product fee percent for this column, honouring a
// per-column override when present.
func (r *BTLRequest) FeePercent() decimal.Decimal {
	if pct, ok := r.FeeOverrides[r.ColKey]; ok {
		return pct
	}
	return r.ProductFeePercent
}

// HasManualOverride reports whether the caller pinned the rolled/deferred
// point instead of letting the engine search.
func (r *BTLRequest) HasManualOverride() bool {
	return r.ManualRolled != nil || r.ManualDeferred != nil
}
