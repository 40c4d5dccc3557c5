package calculation

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quotedesk/loan-quoter/internal/domain"
	pdecimal "github.com/quotedesk/loan-quoter/pkg/decimal"
)

// FullLoanTermMonths is the overall loan term quoted on BTL illustrations;
// the product term covers only the initial fixed/tracker period.
const FullLoanTermMonths = 120

// Title insurance pricing: premium rate on gross, insurance premium tax
// multiplier, hard minimum premium and the gross loan ceiling above which
// title insurance is not offered.
var (
	titleInsuranceRate     = decimal.NewFromFloat(0.0013)
	titleInsuranceTax      = decimal.NewFromFloat(1.12)
	titleInsuranceMinimum  = decimal.NewFromInt(392)
	titleInsuranceMaxGross = decimal.NewFromInt(3_000_000)
)

// TitleInsurance returns the title insurance premium for a gross loan, or
// nil when no policy applies (non-positive gross, or gross above the
// ceiling).
func TitleInsurance(gross decimal.Decimal) *decimal.Decimal {
	if !gross.IsPositive() || gross.GreaterThan(titleInsuranceMaxGross) {
		return nil
	}
	premium := pdecimal.MaxDecimal(titleInsuranceMinimum, gross.Mul(titleInsuranceRate).Mul(titleInsuranceTax))
	return &premium
}

func titleInsuranceOrZero(gross decimal.Decimal) decimal.Decimal {
	if premium := TitleInsurance(gross); premium != nil {
		return *premium
	}
	return decimal.Zero
}

// BTLEngine computes buy-to-let quotes. It is pure and safe for concurrent
// use; each Compute call operates only on its own inputs.
type BTLEngine struct {
	Market domain.MarketRates
	Logger Logger
}

// NewBTLEngine creates a BTL engine priced against the given market rates.
func NewBTLEngine(market domain.MarketRates) *BTLEngine {
	return &BTLEngine{Market: market, Logger: NopLogger{}}
}

// SetLogger sets the engine logger. A nil logger restores the no-op default.
func (e *BTLEngine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Compute runs the full BTL calculation for one fee column. It returns nil
// only for a nil request; business-rule infeasibility (for example a gross
// below the table minimum) is reported through the result's BelowMin flag,
// never as an error.
func (e *BTLEngine) Compute(req *domain.BTLRequest) *domain.LoanResult {
	if req == nil {
		return nil
	}
	rate := req.SelectedRate
	term := rate.Term()

	// Rate resolution: override beats the table, trackers add BBR (and the
	// higher stress BBR on the ICR side), Core products apply the floor.
	actualPct := rate.Rate
	if req.OverriddenRate != nil {
		actualPct = *req.OverriddenRate
	}
	displayPct := actualPct
	stressPct := actualPct
	if req.IsTracker() {
		displayPct = displayPct.Add(pdecimal.FractionToPercent(e.Market.StandardBBR))
		stressPct = stressPct.Add(pdecimal.FractionToPercent(e.Market.StressBBR))
	}
	if req.IsCore() && rate.FloorRate != nil {
		displayPct = pdecimal.MaxDecimal(displayPct, *rate.FloorRate)
		stressPct = pdecimal.MaxDecimal(stressPct, *rate.FloorRate)
	}

	maxLTV := e.resolveMaxLTV(req)
	loanCap := maxLTV.Div(hundred).Mul(req.PropertyValue)
	if rate.MaxLoan.IsPositive() {
		loanCap = pdecimal.MinDecimal(loanCap, rate.MaxLoan)
	}
	if req.LoanType == domain.LoanTypeSpecificGross && req.SpecificGrossLoan != nil {
		loanCap = pdecimal.MinDecimal(loanCap, *req.SpecificGrossLoan)
	}

	solver := &btlSolver{
		term:          term,
		displayRate:   displayPct.Div(hundred),
		stressRate:    stressPct.Div(hundred),
		feePct:        req.FeePercent(),
		loanCap:       loanCap,
		minLoan:       rate.MinLoan,
		annualRent:    req.MonthlyRent.Add(req.TopSlicing).Mul(twelve),
		minICR:        rate.MinICR,
		procFeePct:    req.ProcFeePct,
		brokerFeePct:  req.BrokerFeePct,
		brokerFeeFlat: req.BrokerFeeFlat,
	}
	if req.LoanType == domain.LoanTypeSpecificNet {
		solver.specificNet = req.SpecificNetLoan
	}

	best, isManual := e.search(req, solver)
	e.Logger.Debugf("btl %s: gross=%s rolled=%d deferred=%s cost=%s",
		req.ColKey, best.gross.StringFixed(2), best.rolled, best.deferredPct.StringFixed(2), best.cost.StringFixed(2))

	return e.buildResult(req, solver, best, actualPct, displayPct, isManual)
}

// resolveMaxLTV layers the LTV constraints in precedence order: request
// basis, rate-table cap, retention cap, flat-above-commercial tier cap.
func (e *BTLEngine) resolveMaxLTV(req *domain.BTLRequest) decimal.Decimal {
	tableMax := req.SelectedRate.MaxLTV
	if !tableMax.IsPositive() {
		tableMax = hundred
	}

	base := tableMax
	switch req.LoanType {
	case domain.LoanTypeMaxLTV:
		if req.MaxLTVInput.IsPositive() {
			base = req.MaxLTVInput
		}
	case domain.LoanTypeSpecificGross:
		if req.PropertyValue.IsPositive() && req.SpecificGrossLoan != nil {
			base = req.SpecificGrossLoan.Div(req.PropertyValue).Mul(hundred)
		}
	}

	maxLTV := pdecimal.MinDecimal(base, tableMax)
	if req.RetentionChoice == domain.RetentionYes && req.RetentionLTV != nil {
		maxLTV = pdecimal.MinDecimal(maxLTV, *req.RetentionLTV)
	}
	if req.FlatAboveCommercial() {
		switch req.Tier {
		case 2:
			maxLTV = pdecimal.MinDecimal(maxLTV, decimal.NewFromInt(65))
		case 3:
			maxLTV = pdecimal.MinDecimal(maxLTV, decimal.NewFromInt(75))
		}
	}
	return maxLTV
}

// search runs the scenario selection: Core residential products pin (0,0),
// a manual override evaluates exactly the clamped manual point, and
// everything else brute-forces the grid.
func (e *BTLEngine) search(req *domain.BTLRequest, solver *btlSolver) (btlScenario, bool) {
	rate := req.SelectedRate
	if req.IsCore() && req.IsResidential() {
		return solver.evaluate(0, decimal.Zero), false
	}

	minRolled := rate.MinRolledMonths
	if minRolled < 0 {
		minRolled = 0
	}
	maxRolled := rate.MaxRolledMonths
	if maxRolled > solver.term {
		maxRolled = solver.term
	}
	if maxRolled < minRolled {
		maxRolled = minRolled
	}
	minDefer := pdecimal.MaxDecimal(rate.MinDeferInt, decimal.Zero)
	maxDefer := pdecimal.MaxDecimal(rate.MaxDeferInt, minDefer)

	if req.HasManualOverride() {
		rolled := minRolled
		if req.ManualRolled != nil {
			rolled = clampInt(*req.ManualRolled, minRolled, maxRolled)
		}
		deferred := minDefer
		if req.ManualDeferred != nil {
			deferred = clampDecimal(*req.ManualDeferred, minDefer, maxDefer)
		}
		return solver.evaluate(rolled, deferred), true
	}

	// Deferred rate advances in 0.01 percentage point steps, never stepping
	// outside the table's deferral window: the lower bound rounds up to a
	// whole step and the upper bound rounds down.
	minDeferBps := minDefer.Mul(hundred).Ceil().IntPart()
	maxDeferBps := maxDefer.Mul(hundred).Floor().IntPart()
	var deferSteps []decimal.Decimal
	for bps := minDeferBps; bps <= maxDeferBps; bps++ {
		deferSteps = append(deferSteps, decimal.New(bps, -2))
	}
	if len(deferSteps) == 0 {
		// No whole step fits between the bounds; evaluate the lower bound.
		deferSteps = append(deferSteps, minDefer)
	}
	candidates := make([]btlScenario, 0, (maxRolled-minRolled+1)*len(deferSteps))
	for rolled := minRolled; rolled <= maxRolled; rolled++ {
		for _, deferred := range deferSteps {
			candidates = append(candidates, solver.evaluate(rolled, deferred))
		}
	}

	switch req.LoanType {
	case domain.LoanTypeSpecificNet:
		if req.SpecificNetLoan != nil {
			return selectSpecificNet(candidates, *req.SpecificNetLoan), false
		}
	case domain.LoanTypeSpecificGross:
		if req.SpecificGrossLoan != nil {
			return selectSpecificGross(candidates, *req.SpecificGrossLoan), false
		}
	}
	return selectMaxGross(candidates), false
}

// buildResult maps the chosen scenario onto the ~40 field output contract.
func (e *BTLEngine) buildResult(req *domain.BTLRequest, solver *btlSolver, sc btlScenario, actualPct, displayPct decimal.Decimal, isManual bool) *domain.LoanResult {
	rate := req.SelectedRate
	term := solver.term
	gross := sc.gross

	ltv := decimal.Zero
	netLTV := decimal.Zero
	nbpLTV := decimal.Zero
	if req.PropertyValue.IsPositive() {
		ltv = gross.Div(req.PropertyValue).Mul(hundred)
		netLTV = sc.net.Div(req.PropertyValue).Mul(hundred)
	}

	totalInterest := sc.rolledInt.Add(sc.deferredInt).Add(sc.servicedInt)
	aprc := decimal.Zero
	if gross.IsPositive() {
		aprc = totalInterest.Div(gross).
			Mul(twelve.Div(decimal.NewFromInt(int64(term)))).
			Mul(hundred)
	}

	// NBP credits back no more than a flat 2% of gross against the fee.
	nbp := sc.net.Add(pdecimal.MinDecimal(gross.Mul(decimal.NewFromFloat(0.02)), sc.productFee))
	if req.PropertyValue.IsPositive() {
		nbpLTV = nbp.Div(req.PropertyValue).Mul(hundred)
	}

	title := TitleInsurance(gross)
	totalCost := sc.productFee.
		Add(sc.rolledInt).
		Add(sc.deferredInt).
		Add(sc.servicedInt).
		Add(rate.AdminFee).
		Add(rate.ExitFee).
		Add(sc.procFee).
		Add(sc.brokerFee).
		Add(titleInsuranceOrZero(gross))

	revertPct, revertText := e.resolveRevertRate(&rate)
	payRatePct := displayPct.Sub(sc.deferredPct)

	result := &domain.LoanResult{
		QuoteRef: uuid.NewString(),
		ColKey:   req.ColKey,

		GrossLoan:         gross.Round(2),
		NetLoan:           sc.net.Round(2),
		ProductFeeAmount:  sc.productFee.Round(2),
		ProductFeePercent: solver.feePct,

		RolledInterestAmount:   sc.rolledInt.Round(2),
		DeferredInterestAmount: sc.deferredInt.Round(2),
		ServicedInterest:       sc.servicedInt.Round(2),

		LTV:    ltv.Round(2),
		NetLTV: netLTV.Round(2),
		ICR:    sc.icr.Round(4),

		DirectDebit:  sc.directDebit.Round(2),
		DDStartMonth: sc.rolled + 1,

		RolledMonths:   sc.rolled,
		ServicedMonths: term - sc.rolled,
		DeferredCapPct: sc.deferredPct,

		TermMonths:    term,
		InitialTerm:   term,
		FullTerm:      FullLoanTermMonths,
		TotalLoanTerm: FullLoanTermMonths,

		FullRateText: rateText(req.IsTracker(), actualPct, displayPct),
		PayRateText:  rateText(req.IsTracker(), actualPct.Sub(sc.deferredPct), payRatePct),
		PayRate:      payRatePct.Round(2),

		ProcFeeValue:    sc.procFee.Round(2),
		BrokerFeeValue:  sc.brokerFee.Round(2),
		BrokerClientFee: req.BrokerFeeFlat,
		AdminFee:        rate.AdminFee,
		ExitFee:         rate.ExitFee,

		BelowMin:  sc.belowMin,
		HitMaxCap: sc.hitMaxCap,
		IsManual:  isManual,

		APRC: aprc.Round(2),

		ERCText: ercText(&rate),
		ERC1:    rate.ERC1,
		ERC2:    rate.ERC2,
		ERC3:    rate.ERC3,
		ERC4:    rate.ERC4,
		ERC5:    rate.ERC5,

		NBP:    nbp.Round(2),
		NBPLTV: nbpLTV.Round(2),

		RevertRate:     revertPct.Round(2),
		RevertRateText: revertText,
		RevertRateDD:   gross.Mul(revertPct).Div(hundred).Div(twelve).Round(2),

		TitleInsuranceCost:  title,
		TotalCostToBorrower: totalCost.Round(2),

		MinimumICR: rate.MinICR,
	}
	if title != nil {
		rounded := title.Round(2)
		result.TitleInsuranceCost = &rounded
	}
	return result
}

// resolveRevertRate resolves the reversion rate from the revert index plus
// margin. A numeric index is treated as a fixed reference rate.
func (e *BTLEngine) resolveRevertRate(rate *domain.RateRecord) (decimal.Decimal, string) {
	margin := rate.RevertMargin
	switch rate.RevertIndex {
	case domain.RevertBBR:
		pct := pdecimal.FractionToPercent(e.Market.StandardBBR).Add(margin)
		return pct, fmt.Sprintf("BBR + %s%%", margin.StringFixed(2))
	case domain.RevertMVR:
		pct := pdecimal.FractionToPercent(e.Market.CurrentMVR).Add(margin)
		return pct, fmt.Sprintf("MVR + %s%%", margin.StringFixed(2))
	}
	if fixed, err := decimal.NewFromString(string(rate.RevertIndex)); err == nil {
		pct := fixed.Add(margin)
		return pct, fmt.Sprintf("%s%%", pct.StringFixed(2))
	}
	return margin, fmt.Sprintf("%s%%", margin.StringFixed(2))
}

// rateText renders a display rate, spelling out the BBR component for
// tracker products.
func rateText(tracker bool, marginPct, fullPct decimal.Decimal) string {
	if tracker {
		return fmt.Sprintf("BBR + %s%%", marginPct.StringFixed(2))
	}
	return fmt.Sprintf("%s%%", fullPct.StringFixed(2))
}

// ercText renders the early repayment charge schedule, one entry per year.
func ercText(rate *domain.RateRecord) string {
	schedule := rate.ERCSchedule()
	if len(schedule) == 0 {
		return "None"
	}
	text := ""
	for i, erc := range schedule {
		if i > 0 {
			text += ", "
		}
		text += erc.StringFixed(2) + "%"
	}
	return text
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampDecimal(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
