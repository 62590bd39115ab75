/*
priority.go - Strategy orderings

PURPOSE:
  Decides which debt receives extra budget first. Avalanche and snowball
  are single-key sorts; hybrid ranks debts by a weighted composite of
  four normalized factors.

HYBRID COMPOSITE:
  Per-debt factors, each normalized to [0,1] across the active set:
    rate:   annual interest rate          (higher -> higher priority)
    size:   current balance               (lower  -> higher priority)
    ratio:  balance / minimum payment     (lower  -> higher priority;
            a low ratio means the debt can be killed quickly)
    burden: monthly interest cost         (lower  -> higher priority)

  Weights adapt to the portfolio:
    interest_weight = 0.4 + (avg_rate / 30) * 0.2
    balance_weight  = 0.3 + small_debt_fraction * 0.2
    ratio_weight    = 0.15
    burden_weight   = 0.15

  When every active debt shares the same value for a factor, that
  factor's normalized score is 0.5 for all of them, which keeps the
  normalization well-defined.

TIE-BREAKS:
  All sorts are stable: ties fall back to original input order, so
  identical inputs always produce identical schedules.
*/
package payoff

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// smallDebtThreshold marks a balance as "small" for the hybrid balance
// weight. Heuristic carried over from the original scoring.
var smallDebtThreshold = 5000.0

// prioritize returns the active debts in the order extra budget should be
// applied for the given strategy. The returned slice is a new ordering of
// the same pointers; callers must not rely on the input order afterwards.
func prioritize(active []*debtState, strategy Strategy) []*debtState {
	ordered := make([]*debtState, len(active))
	copy(ordered, active)

	switch strategy {
	case StrategySnowball:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].balance.LessThan(ordered[j].balance)
		})
	case StrategyHybrid:
		scores := hybridScores(ordered)
		byPtr := make(map[*debtState]float64, len(ordered))
		for i, d := range ordered {
			byPtr[d] = scores[i]
		}
		sort.SliceStable(ordered, func(i, j int) bool {
			return byPtr[ordered[i]] > byPtr[ordered[j]]
		})
	default: // avalanche
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].debt.InterestRate.GreaterThan(ordered[j].debt.InterestRate)
		})
	}
	return ordered
}

// hybridScores computes the composite score for each active debt,
// parallel to the input slice.
func hybridScores(active []*debtState) []float64 {
	n := len(active)
	rates := make([]float64, n)
	sizes := make([]float64, n)
	ratios := make([]float64, n)
	burdens := make([]float64, n)

	for i, d := range active {
		rates[i] = d.debt.InterestRate.InexactFloat64()
		sizes[i] = d.balance.InexactFloat64()
		// Zero minimum payments happen (promotional cards); treat the
		// ratio denominator as at least one currency unit.
		minPay := d.debt.MinimumPayment.InexactFloat64()
		if minPay < 1 {
			minPay = 1
		}
		ratios[i] = sizes[i] / minPay
		burdens[i] = sizes[i] * rates[i] / 100 / 12
	}

	interestWeight := 0.4 + (stat.Mean(rates, nil)/30)*0.2
	balanceWeight := 0.3 + smallDebtFraction(sizes)*0.2
	const ratioWeight = 0.15
	const burdenWeight = 0.15

	rateScore := normalize(rates, false)   // higher rate -> higher score
	sizeScore := normalize(sizes, true)    // lower balance -> higher score
	ratioScore := normalize(ratios, true)  // lower ratio -> higher score
	burdenScore := normalize(burdens, true) // lower burden -> higher score

	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		scores[i] = rateScore[i]*interestWeight +
			sizeScore[i]*balanceWeight +
			ratioScore[i]*ratioWeight +
			burdenScore[i]*burdenWeight
	}
	return scores
}

// normalize maps values onto [0,1]. With invert, smaller values score
// higher. A flat factor (all values equal) scores 0.5 for every debt.
func normalize(values []float64, invert bool) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	lo, hi := floats.Min(values), floats.Max(values)
	span := hi - lo
	for i, v := range values {
		if span == 0 {
			out[i] = 0.5
			continue
		}
		s := (v - lo) / span
		if invert {
			s = 1 - s
		}
		out[i] = s
	}
	return out
}

func smallDebtFraction(sizes []float64) float64 {
	if len(sizes) == 0 {
		return 0
	}
	small := 0
	for _, s := range sizes {
		if s < smallDebtThreshold {
			small++
		}
	}
	return float64(small) / float64(len(sizes))
}
