package calculation

import (
	"github.com/shopspring/decimal"

	pdecimal "github.com/quotedesk/loan-quoter/pkg/decimal"
)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)

	// minStressAdjRate stops the ICR denominator collapsing when the
	// deferral eats the whole stress rate.
	minStressAdjRate = decimal.NewFromFloat(0.0001)

	// Selection tolerances, in currency units.
	halfUnit = decimal.NewFromFloat(0.5)
	oneUnit  = decimal.NewFromInt(1)
)

// btlScenario is one evaluated point of the rolled-months x deferred-rate
// grid. Ephemeral: built and discarded within a single Compute call.
type btlScenario struct {
	rolled      int
	deferredPct decimal.Decimal // percent

	gross       decimal.Decimal
	net         decimal.Decimal
	productFee  decimal.Decimal
	rolledInt   decimal.Decimal
	deferredInt decimal.Decimal
	servicedInt decimal.Decimal
	directDebit decimal.Decimal
	procFee     decimal.Decimal
	brokerFee   decimal.Decimal
	payRate     decimal.Decimal // annual fraction
	icr         decimal.Decimal // ratio, e.g. 1.25

	cost decimal.Decimal // selection objective

	belowMin  bool
	hitMaxCap bool
}

// btlSolver carries the values fixed for the duration of one compute:
// resolved rates, caps and fee inputs.
type btlSolver struct {
	term        int
	displayRate decimal.Decimal // annual fraction, pay side
	stressRate  decimal.Decimal // annual fraction, ICR side
	feePct      decimal.Decimal // percent
	loanCap     decimal.Decimal
	minLoan     decimal.Decimal
	annualRent  decimal.Decimal
	minICR      decimal.Decimal // percent

	specificNet *decimal.Decimal

	procFeePct    decimal.Decimal
	brokerFeePct  decimal.Decimal
	brokerFeeFlat decimal.Decimal
}

// evaluate derives every dependent quantity for one (rolled, deferred)
// point. The eligible gross is the least of the LTV/table cap, the
// rent-derived ICR cap and, for specific-net requests, the gross that
// produces the requested net; a gross below the table minimum collapses
// to zero.
func (s *btlSolver) evaluate(rolled int, deferredPct decimal.Decimal) btlScenario {
	sc := btlScenario{rolled: rolled, deferredPct: deferredPct}

	deferredFrac := deferredPct.Div(hundred)
	payRate := s.displayRate.Sub(deferredFrac)
	if payRate.IsNegative() {
		payRate = decimal.Zero
	}
	stressAdj := pdecimal.MaxDecimal(s.stressRate.Sub(deferredFrac), minStressAdjRate)
	remaining := s.term - rolled

	gross := s.loanCap

	// ICR-derived cap on gross, stress-rate tested over the serviced months.
	// Zero rent means a zero cap, which collapses below the product minimum.
	if s.minICR.IsPositive() && remaining > 0 {
		denom := s.minICR.Div(hundred).
			Mul(stressAdj.Div(twelve)).
			Mul(decimal.NewFromInt(int64(remaining)))
		if denom.IsPositive() {
			gross = pdecimal.MinDecimal(gross, s.annualRent.Div(denom))
		}
	}

	// Specific-net requests invert the net-loan identity to find the gross
	// that yields the target net.
	if s.specificNet != nil {
		denom := decimal.NewFromInt(1).
			Sub(s.feePct.Div(hundred)).
			Sub(payRate.Div(twelve).Mul(decimal.NewFromInt(int64(rolled)))).
			Sub(deferredFrac.Div(twelve).Mul(decimal.NewFromInt(int64(s.term))))
		if denom.IsPositive() {
			gross = pdecimal.MinDecimal(gross, s.specificNet.Div(denom))
		}
	}

	if s.minLoan.IsPositive() && gross.LessThan(s.minLoan) {
		gross = decimal.Zero
		sc.belowMin = true
	}
	sc.hitMaxCap = !sc.belowMin && gross.Equal(s.loanCap)

	sc.gross = gross
	sc.payRate = payRate
	sc.productFee = gross.Mul(s.feePct).Div(hundred)
	sc.rolledInt = gross.Mul(payRate).Div(twelve).Mul(decimal.NewFromInt(int64(rolled)))
	sc.deferredInt = gross.Mul(deferredFrac).Div(twelve).Mul(decimal.NewFromInt(int64(s.term)))
	sc.net = gross.Sub(sc.productFee).Sub(sc.rolledInt).Sub(sc.deferredInt)
	sc.directDebit = gross.Mul(payRate).Div(twelve)
	sc.servicedInt = sc.directDebit.Mul(decimal.NewFromInt(int64(remaining)))
	sc.procFee = gross.Mul(s.procFeePct).Div(hundred)
	sc.brokerFee = gross.Mul(s.brokerFeePct).Div(hundred).Add(s.brokerFeeFlat)

	if gross.IsPositive() && remaining > 0 {
		interest := gross.Mul(stressAdj.Div(twelve)).Mul(decimal.NewFromInt(int64(remaining)))
		if interest.IsPositive() {
			sc.icr = s.annualRent.Div(interest)
		}
	}

	sc.cost = scenarioCost(sc)
	return sc
}

// scenarioCost is the search objective: the sum of the six cost components
// minimised during selection. Admin and exit fees are deliberately not part
// of the objective even though the final total cost includes them.
func scenarioCost(sc btlScenario) decimal.Decimal {
	return sc.productFee.
		Add(sc.rolledInt).
		Add(sc.deferredInt).
		Add(sc.servicedInt).
		Add(sc.procFee).
		Add(sc.brokerFee).
		Add(titleInsuranceOrZero(sc.gross))
}

// lessScenario is the selection comparator: lower cost wins, ties broken by
// lower deferred rate, then fewer rolled months.
func lessScenario(a, b btlScenario) bool {
	if !a.cost.Equal(b.cost) {
		return a.cost.LessThan(b.cost)
	}
	if !a.deferredPct.Equal(b.deferredPct) {
		return a.deferredPct.LessThan(b.deferredPct)
	}
	return a.rolled < b.rolled
}

// cheapest returns the comparator-minimal scenario among those passing keep.
func cheapest(candidates []btlScenario, keep func(btlScenario) bool) (btlScenario, bool) {
	var best btlScenario
	found := false
	for _, sc := range candidates {
		if !keep(sc) {
			continue
		}
		if !found || lessScenario(sc, best) {
			best = sc
			found = true
		}
	}
	return best, found
}

func maxGrossOf(candidates []btlScenario) decimal.Decimal {
	max := decimal.Zero
	for _, sc := range candidates {
		if sc.gross.GreaterThan(max) {
			max = sc.gross
		}
	}
	return max
}

func maxNetOf(candidates []btlScenario) decimal.Decimal {
	max := decimal.Zero
	for _, sc := range candidates {
		if sc.net.GreaterThan(max) {
			max = sc.net
		}
	}
	return max
}

// selectSpecificNet picks the cheapest scenario reaching the net target
// (within tolerance); when none reaches it, the cheapest among those within
// one currency unit of the best achievable net.
func selectSpecificNet(candidates []btlScenario, target decimal.Decimal) btlScenario {
	floor := target.Sub(halfUnit)
	if sc, ok := cheapest(candidates, func(s btlScenario) bool { return s.net.GreaterThanOrEqual(floor) }); ok {
		return sc
	}
	bestNet := maxNetOf(candidates).Sub(oneUnit)
	sc, _ := cheapest(candidates, func(s btlScenario) bool { return s.net.GreaterThanOrEqual(bestNet) })
	return sc
}

// selectSpecificGross picks the cheapest scenario at or above the gross
// target (within tolerance), falling back to the closest-below set.
func selectSpecificGross(candidates []btlScenario, target decimal.Decimal) btlScenario {
	floor := target.Sub(halfUnit)
	if sc, ok := cheapest(candidates, func(s btlScenario) bool { return s.gross.GreaterThanOrEqual(floor) }); ok {
		return sc
	}
	bestGross := maxGrossOf(candidates).Sub(oneUnit)
	sc, _ := cheapest(candidates, func(s btlScenario) bool { return s.gross.GreaterThanOrEqual(bestGross) })
	return sc
}

// selectMaxGross picks the cheapest scenario among those achieving the
// maximum gross loan (within one currency unit).
func selectMaxGross(candidates []btlScenario) btlScenario {
	bestGross := maxGrossOf(candidates).Sub(oneUnit)
	sc, _ := cheapest(candidates, func(s btlScenario) bool { return s.gross.GreaterThanOrEqual(bestGross) })
	return sc
}
