package calculation

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quotedesk/loan-quoter/internal/domain"
	pdecimal "github.com/quotedesk/loan-quoter/pkg/decimal"
)

// DefaultArrangementPct is the arrangement fee fraction applied when the
// caller supplies none.
var DefaultArrangementPct = decimal.NewFromFloat(0.02)

// BridgeEngine solves Bridge and Fusion quotes. Unlike the BTL engine it
// has no search step: rolled months and deferral come from the caller,
// already clamped to product bounds by the UI. Margin tables are injected
// configuration; tests substitute their own.
type BridgeEngine struct {
	Market      domain.MarketRates
	Margins     domain.BridgeMarginTable
	FusionTiers domain.FusionRateTable
	Logger      Logger
}

// NewBridgeEngine creates a bridge engine with the production margin tables.
func NewBridgeEngine(market domain.MarketRates) *BridgeEngine {
	return &BridgeEngine{
		Market:      market,
		Margins:     domain.DefaultBridgeMargins(),
		FusionTiers: domain.DefaultFusionTiers(),
		Logger:      NopLogger{},
	}
}

// SetLogger sets the engine logger. A nil logger restores the no-op default.
func (e *BridgeEngine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// LTVBucket maps a gross LTV percentage onto the three-step pricing bucket.
// Boundaries are inclusive: exactly 60 stays in the 60 bucket, exactly 70
// in the 70 bucket.
func LTVBucket(ltvPct decimal.Decimal) int {
	switch {
	case ltvPct.LessThanOrEqual(decimal.NewFromInt(60)):
		return 60
	case ltvPct.LessThanOrEqual(decimal.NewFromInt(70)):
		return 70
	default:
		return 75
	}
}

// Solve runs the closed-form bridge/fusion calculation. It returns nil only
// for a nil request; degenerate inputs produce zeroed fields, not errors.
func (e *BridgeEngine) Solve(req *domain.BridgeRequest) *domain.BridgeResult {
	if req == nil {
		return nil
	}

	gross := req.GrossLoanInput
	term := req.Term()
	rolled := clampInt(req.RolledMonths, 0, term)

	grossLTV := decimal.Zero
	if req.PropertyValue.IsPositive() {
		grossLTV = gross.Div(req.PropertyValue).Mul(hundred)
	}
	bucket := LTVBucket(grossLTV)

	bbrAnnual := e.Market.StandardBBR
	if req.BBR != nil {
		bbrAnnual = *req.BBR
	}
	bbrMonthly := bbrAnnual.Div(twelve)

	// Rate resolution per product kind. An explicit override always wins
	// over the table.
	var (
		couponMonthly decimal.Decimal // margin (var), coupon (fix), margin/12 (fusion)
		fullMonthly   decimal.Decimal
		fullAnnual    decimal.Decimal
		tierName      string
		fullRateText  string
		trackingBBR   bool
	)
	switch req.Kind {
	case domain.KindBridgeFixed:
		couponMonthly = e.Margins.FixedCoupon(req.SubProduct, bucket)
		if req.OverrideMonthly != nil {
			couponMonthly = *req.OverrideMonthly
		}
		fullMonthly = couponMonthly
		fullAnnual = couponMonthly.Mul(twelve)
		fullRateText = fmt.Sprintf("%s%% pm fixed", pdecimal.FractionToPercent(couponMonthly).StringFixed(2))
	case domain.KindFusion:
		marginAnnual := decimal.Zero
		if tier, ok := e.FusionTiers.TierFor(gross); ok {
			marginAnnual = tier.Margin(req.IsCommercial)
			tierName = tier.Name
		}
		if req.OverrideAnnual != nil {
			marginAnnual = *req.OverrideAnnual
		}
		fullAnnual = marginAnnual.Add(bbrAnnual)
		fullMonthly = fullAnnual.Div(twelve)
		couponMonthly = marginAnnual.Div(twelve)
		trackingBBR = true
		fullRateText = fmt.Sprintf("BBR + %s%%", pdecimal.FractionToPercent(marginAnnual).StringFixed(2))
	default: // variable bridge
		couponMonthly = e.Margins.VariableMargin(req.SubProduct, bucket)
		if req.OverrideMonthly != nil {
			couponMonthly = *req.OverrideMonthly
		}
		fullMonthly = couponMonthly.Add(bbrMonthly)
		fullAnnual = fullMonthly.Mul(twelve)
		trackingBBR = true
		fullRateText = fmt.Sprintf("BBR + %s%% pm", pdecimal.FractionToPercent(couponMonthly).StringFixed(2))
	}

	arrangementPct := DefaultArrangementPct
	if req.ArrangementPct != nil {
		arrangementPct = *req.ArrangementPct
	}
	arrangementFee := gross.Mul(arrangementPct)
	procFee := gross.Mul(req.ProcFeePct)
	brokerFee := req.BrokerFeeFlat

	rolledMonthsDec := decimal.NewFromInt(int64(rolled))
	rolledCoupon := gross.Mul(couponMonthly).Mul(rolledMonthsDec)
	rolledBBR := decimal.Zero
	if trackingBBR {
		rolledBBR = gross.Mul(bbrMonthly).Mul(rolledMonthsDec)
	}
	rolledInterest := rolledCoupon.Add(rolledBBR)

	// Fusion defers a fixed fraction of gross across the whole term; the
	// pay rate drops by the monthly share of that deferral.
	deferred := decimal.Zero
	payRateMonthly := fullMonthly
	if req.Kind == domain.KindFusion && req.DeferredPct.IsPositive() {
		deferred = gross.Mul(req.DeferredPct)
		payRateMonthly = fullMonthly.Sub(req.DeferredPct.Div(decimal.NewFromInt(int64(term))))
		if payRateMonthly.IsNegative() {
			payRateMonthly = decimal.Zero
		}
	}

	servicedMonths := term - rolled
	servicedInterest := gross.Mul(payRateMonthly).Mul(decimal.NewFromInt(int64(servicedMonths)))
	totalInterest := deferred.Add(rolledInterest).Add(servicedInterest)
	monthlyPayment := gross.Mul(payRateMonthly)

	net := gross.Sub(arrangementFee).Sub(rolledInterest).Sub(deferred).Sub(procFee).Sub(brokerFee)
	if net.IsNegative() {
		net = decimal.Zero
	}

	netLTV := decimal.Zero
	if req.PropertyValue.IsPositive() {
		netLTV = net.Div(req.PropertyValue).Mul(hundred)
	}

	aprcAnnual := decimal.Zero
	if net.IsPositive() && term > 0 {
		years := decimal.NewFromInt(int64(term)).Div(twelve)
		aprcAnnual = gross.Add(totalInterest).Div(net).
			Sub(decimal.NewFromInt(1)).
			Div(years).
			Mul(hundred)
	}

	var icr *decimal.Decimal
	if req.Kind == domain.KindFusion && monthlyPayment.IsPositive() {
		ratio := req.RentPM.Add(req.TopSlicingPM).Div(monthlyPayment).Round(4)
		icr = &ratio
	}

	e.Logger.Debugf("bridge %s: gross=%s bucket=%d net=%s", req.Kind, gross.StringFixed(2), bucket, net.StringFixed(2))

	return &domain.BridgeResult{
		QuoteRef: uuid.NewString(),
		Kind:     req.Kind,

		Gross:      gross.Round(2),
		NetLoanGBP: net.Round(2),

		GrossLTV:  grossLTV.Round(2),
		NetLTV:    netLTV.Round(2),
		LTVBucket: bucket,

		FullAnnualRate:        fullAnnual,
		FullRateMonthly:       fullMonthly,
		FullCouponRateMonthly: couponMonthly,
		PayRateMonthly:        payRateMonthly,
		FullRateText:          fullRateText,

		ArrangementFeeGBP: arrangementFee.Round(2),
		ProcFeeGBP:        procFee.Round(2),
		BrokerFeeGBP:      brokerFee.Round(2),

		ServicedMonths:      servicedMonths,
		RolledInterestGBP:   rolledInterest.Round(2),
		RolledIntCoupon:     rolledCoupon.Round(2),
		RolledIntBBR:        rolledBBR.Round(2),
		DeferredGBP:         deferred.Round(2),
		ServicedInterestGBP: servicedInterest.Round(2),
		TotalInterest:       totalInterest.Round(2),
		MonthlyPaymentGBP:   monthlyPayment.Round(2),

		APRCAnnual:  aprcAnnual.Round(2),
		APRCMonthly: aprcAnnual.Div(twelve).Round(2),

		Tier: tierName,
		ICR:  icr,
	}
}
