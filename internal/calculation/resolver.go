package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/quotedesk/loan-quoter/internal/domain"
)

// RateBracket extracts a [min, max] bracket from a rate row. ok is false
// when the row has no well-formed pair for that dimension.
type RateBracket func(r *domain.RateRecord) (min, max decimal.Decimal, ok bool)

// LTVBracket brackets rows by their min/max LTV.
func LTVBracket(r *domain.RateRecord) (decimal.Decimal, decimal.Decimal, bool) {
	return r.MinLTV, r.MaxLTV, r.HasLTVBounds()
}

// LoanBracket brackets rows by their min/max loan size.
func LoanBracket(r *domain.RateRecord) (decimal.Decimal, decimal.Decimal, bool) {
	return r.MinLoan, r.MaxLoan, r.HasLoanBounds()
}

// PickBestRate selects the rate row whose bracket best matches the target
// value (an LTV or a loan size, per the bracket function):
//
//  1. without a usable target, the lowest-rate candidate wins;
//  2. among candidates whose bracket contains the target inclusively, the
//     tightest bracket wins (smallest max, then smallest min);
//  3. otherwise the bracket whose midpoint is nearest the target wins
//     (ties: smaller max, then smaller min);
//  4. failing all brackets, the first candidate with a rate, then the first
//     candidate outright.
//
// Selection is deterministic and stable for identical inputs.
func PickBestRate(candidates []domain.RateRecord, target decimal.Decimal, haveTarget bool, bracket RateBracket) *domain.RateRecord {
	if len(candidates) == 0 {
		return nil
	}
	if !haveTarget {
		return lowestRate(candidates)
	}

	// Containment pass: inclusive on both ends, prefer the tightest/lowest
	// bracket that still covers the value.
	var best *domain.RateRecord
	var bestMin, bestMax decimal.Decimal
	for i := range candidates {
		min, max, ok := bracket(&candidates[i])
		if !ok || target.LessThan(min) || target.GreaterThan(max) {
			continue
		}
		if best == nil || max.LessThan(bestMax) || (max.Equal(bestMax) && min.LessThan(bestMin)) {
			best = &candidates[i]
			bestMin, bestMax = min, max
		}
	}
	if best != nil {
		return best
	}

	// Nearest-midpoint fallback.
	var bestDist decimal.Decimal
	for i := range candidates {
		min, max, ok := bracket(&candidates[i])
		if !ok {
			continue
		}
		mid := min.Add(max).Div(decimal.NewFromInt(2))
		dist := mid.Sub(target).Abs()
		if best == nil || dist.LessThan(bestDist) ||
			(dist.Equal(bestDist) && (max.LessThan(bestMax) || (max.Equal(bestMax) && min.LessThan(bestMin)))) {
			best = &candidates[i]
			bestDist, bestMin, bestMax = dist, min, max
		}
	}
	if best != nil {
		return best
	}

	// No candidate has a well-formed bracket at all.
	for i := range candidates {
		if candidates[i].Rate.IsPositive() {
			return &candidates[i]
		}
	}
	return &candidates[0]
}

// lowestRate returns the candidate with the lowest rate, or the first
// candidate when none carries one.
func lowestRate(candidates []domain.RateRecord) *domain.RateRecord {
	var best *domain.RateRecord
	for i := range candidates {
		if !candidates[i].Rate.IsPositive() {
			continue
		}
		if best == nil || candidates[i].Rate.LessThan(best.Rate) {
			best = &candidates[i]
		}
	}
	if best == nil {
		return &candidates[0]
	}
	return best
}
