package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductKind selects which bridge-family solver runs.
type ProductKind string

const (
	KindBridgeVariable ProductKind = "bridge-var"
	KindBridgeFixed    ProductKind = "bridge-fix"
	KindFusion         ProductKind = "fusion"
)

// ParseProductKind maps a label to a ProductKind.
func ParseProductKind(s string) (ProductKind, bool) {
	switch ProductKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindBridgeVariable:
		return KindBridgeVariable, true
	case KindBridgeFixed:
		return KindBridgeFixed, true
	case KindFusion:
		return KindFusion, true
	}
	return "", false
}

// Default terms for the bridge family when the caller supplies none.
const (
	DefaultBridgeTermMonths = 12
	DefaultFusionTermMonths = 120
)

// BridgeRequest is the input bundle for the Bridge/Fusion solver. Rates are
// fractions: OverrideMonthly is a monthly rate, OverrideAnnual and BBR are
// annual. DeferredPct is the fraction of gross deferred over the whole term
// (Fusion only).
type BridgeRequest struct {
	Kind ProductKind

	GrossLoanInput decimal.Decimal
	PropertyValue  decimal.Decimal

	SubProduct   string
	IsCommercial bool

	BBR             *decimal.Decimal // annual fraction; defaults to market StandardBBR
	OverrideMonthly *decimal.Decimal // bridge products: monthly coupon/margin override
	OverrideAnnual  *decimal.Decimal // fusion: annual margin override

	RentPM       decimal.Decimal
	TopSlicingPM decimal.Decimal

	TermMonths   *int
	RolledMonths int

	ArrangementPct *decimal.Decimal // fraction of gross; defaults to 2%
	DeferredPct    decimal.Decimal  // fraction of gross, fusion only
	ProcFeePct     decimal.Decimal  // fraction of gross
	BrokerFeeFlat  decimal.Decimal
}

// Term returns the request term, defaulted per product kind.
func (r *BridgeRequest) Term() int {
	if r.TermMonths != nil && *r.TermMonths > 0 {
		return *r.TermMonths
	}
	if r.Kind == KindFusion {
		return DefaultFusionTermMonths
	}
	return DefaultBridgeTermMonths
}

// BridgeResult is the output contract of the Bridge/Fusion solver. ICR is
// nil for bridge products.
type BridgeResult struct {
	QuoteRef string      `json:"quote_ref"`
	Kind     ProductKind `json:"kind"`

	Gross      decimal.Decimal `json:"gross"`
	NetLoanGBP decimal.Decimal `json:"net_loan_gbp"`

	GrossLTV  decimal.Decimal `json:"gross_ltv"`
	NetLTV    decimal.Decimal `json:"net_ltv"`
	LTVBucket int             `json:"ltv"`

	FullAnnualRate        decimal.Decimal `json:"full_annual_rate"`
	FullRateMonthly       decimal.Decimal `json:"full_rate_monthly"`
	FullCouponRateMonthly decimal.Decimal `json:"full_coupon_rate_monthly"`
	PayRateMonthly        decimal.Decimal `json:"pay_rate_monthly"`
	FullRateText          string          `json:"full_rate_text"`

	ArrangementFeeGBP decimal.Decimal `json:"arrangement_fee_gbp"`
	ProcFeeGBP        decimal.Decimal `json:"proc_fee_gbp"`
	BrokerFeeGBP      decimal.Decimal `json:"broker_fee_gbp"`

	ServicedMonths      int             `json:"serviced_months"`
	RolledInterestGBP   decimal.Decimal `json:"rolled_interest_gbp"`
	RolledIntCoupon     decimal.Decimal `json:"rolled_int_coupon"`
	RolledIntBBR        decimal.Decimal `json:"rolled_int_bbr"`
	DeferredGBP         decimal.Decimal `json:"deferred_gbp"`
	ServicedInterestGBP decimal.Decimal `json:"serviced_interest_gbp"`
	TotalInterest       decimal.Decimal `json:"total_interest"`
	MonthlyPaymentGBP   decimal.Decimal `json:"monthly_payment_gbp"`

	APRCAnnual  decimal.Decimal `json:"aprc_annual"`
	APRCMonthly decimal.Decimal `json:"aprc_monthly"`

	Tier string           `json:"tier"`
	ICR  *decimal.Decimal `json:"icr"`
}

// BridgeMarginTable holds the per-bucket monthly rates for the bridge
// products: margins over BBR for variable, full coupons for fixed. Keyed by
// sub-product, then by LTV bucket (60/70/75). The table is immutable
// configuration data injected into the engine, not hidden global state.
type BridgeMarginTable struct {
	Variable map[string]map[int]decimal.Decimal
	Fixed    map[string]map[int]decimal.Decimal
}

// lookupBucket resolves the monthly rate for a sub-product and bucket,
// falling back to the residential sub-product for unknown names.
func lookupBucket(table map[string]map[int]decimal.Decimal, sub string, bucket int) decimal.Decimal {
	key := strings.ToLower(strings.TrimSpace(sub))
	buckets, ok := table[key]
	if !ok {
		buckets = table["residential"]
	}
	return buckets[bucket]
}

// VariableMargin returns the monthly margin over BBR for a variable bridge.
func (t BridgeMarginTable) VariableMargin(subProduct string, bucket int) decimal.Decimal {
	return lookupBucket(t.Variable, subProduct, bucket)
}

// FixedCoupon returns the monthly coupon for a fixed bridge.
func (t BridgeMarginTable) FixedCoupon(subProduct string, bucket int) decimal.Decimal {
	return lookupBucket(t.Fixed, subProduct, bucket)
}

// DefaultBridgeMargins returns the production bridge margin table.
func DefaultBridgeMargins() BridgeMarginTable {
	return BridgeMarginTable{
		Variable: map[string]map[int]decimal.Decimal{
			"residential": {
				60: decimal.NewFromFloat(0.0065),
				70: decimal.NewFromFloat(0.0070),
				75: decimal.NewFromFloat(0.0075),
			},
			"semi-commercial": {
				60: decimal.NewFromFloat(0.0070),
				70: decimal.NewFromFloat(0.0075),
				75: decimal.NewFromFloat(0.0080),
			},
			"commercial": {
				60: decimal.NewFromFloat(0.0075),
				70: decimal.NewFromFloat(0.0080),
				75: decimal.NewFromFloat(0.0085),
			},
		},
		Fixed: map[string]map[int]decimal.Decimal{
			"residential": {
				60: decimal.NewFromFloat(0.0089),
				70: decimal.NewFromFloat(0.0094),
				75: decimal.NewFromFloat(0.0099),
			},
			"semi-commercial": {
				60: decimal.NewFromFloat(0.0094),
				70: decimal.NewFromFloat(0.0099),
				75: decimal.NewFromFloat(0.0104),
			},
			"commercial": {
				60: decimal.NewFromFloat(0.0099),
				70: decimal.NewFromFloat(0.0104),
				75: decimal.NewFromFloat(0.0109),
			},
		},
	}
}

// FusionTier is one gross-loan band of the Fusion rate table. MaxGross zero
// means the band is open-ended. Margins are annual fractions over BBR.
type FusionTier struct {
	Name              string
	MinGross          decimal.Decimal
	MaxGross          decimal.Decimal
	ResidentialMargin decimal.Decimal
	CommercialMargin  decimal.Decimal
}

// FusionRateTable is the ordered list of Fusion tiers.
type FusionRateTable []FusionTier

// TierFor picks the band containing the gross loan; the last band catches
// anything above the configured maxima.
func (t FusionRateTable) TierFor(gross decimal.Decimal) (FusionTier, bool) {
	for _, tier := range t {
		if gross.LessThan(tier.MinGross) {
			continue
		}
		if tier.MaxGross.IsPositive() && gross.GreaterThan(tier.MaxGross) {
			continue
		}
		return tier, true
	}
	if len(t) > 0 {
		return t[len(t)-1], true
	}
	return FusionTier{}, false
}

// Margin returns the annual margin for the residential/commercial split.
func (ft FusionTier) Margin(isCommercial bool) decimal.Decimal {
	if isCommercial {
		return ft.CommercialMargin
	}
	return ft.ResidentialMargin
}

// DefaultFusionTiers returns the production Fusion rate table.
func DefaultFusionTiers() FusionRateTable {
	return FusionRateTable{
		{
			Name:              "Fusion 1",
			MinGross:          decimal.Zero,
			MaxGross:          decimal.NewFromInt(1_500_000),
			ResidentialMargin: decimal.NewFromFloat(0.0425),
			CommercialMargin:  decimal.NewFromFloat(0.0475),
		},
		{
			Name:              "Fusion 2",
			MinGross:          decimal.NewFromInt(1_500_000),
			MaxGross:          decimal.NewFromInt(3_000_000),
			ResidentialMargin: decimal.NewFromFloat(0.0450),
			CommercialMargin:  decimal.NewFromFloat(0.0500),
		},
		{
			Name:              "Fusion 3",
			MinGross:          decimal.NewFromInt(3_000_000),
			MaxGross:          decimal.Zero,
			ResidentialMargin: decimal.NewFromFloat(0.0475),
			CommercialMargin:  decimal.NewFromFloat(0.0525),
		},
	}
}
