/*
performance.go - Per-position return calculation

PURPOSE:
  Absolute return, percent return, and CAGR-based annualized return for
  one position, with guard rails for degenerate inputs:

    cost_basis <= 0        -> percent and annualized return are 0
    same-day purchase      -> years held floored at one day
    astronomical ratios    -> clamped to +/-1000%
    NaN / Inf              -> replaced by the signed clamp value
*/
package invest

import (
	"math"

	"github.com/warp/finance-engine/finance"
)

const (
	// ClampPercent bounds the annualized return. A yesterday purchase
	// that 1000x'd reports exactly +1000, not an astronomical number.
	ClampPercent = 1000.0

	daysPerYear = 365.25
)

// Performance computes the derived snapshot for one position. The clock
// supplies "now" for the holding period.
func Performance(inv Investment, clock finance.Clock) Snapshot {
	if clock == nil {
		clock = finance.SystemClock{}
	}

	snap := Snapshot{
		AbsoluteReturn: inv.CurrentValue.Sub(inv.CostBasis),
	}
	if !inv.CostBasis.IsPositive() {
		return snap
	}

	cost := inv.CostBasis.InexactFloat64()
	value := inv.CurrentValue.InexactFloat64()
	snap.PercentReturn = (value - cost) / cost * 100

	// Years held, floored at one day to avoid division blow-up.
	days := clock.Now().Sub(inv.PurchaseDate).Hours() / 24
	if days < 1 {
		days = 1
	}
	years := days / daysPerYear

	ratio := value / cost
	cagr := (math.Pow(ratio, 1/years) - 1) * 100
	snap.AnnualizedReturn = clampReturn(cagr, ratio)
	return snap
}

// clampReturn bounds r to +/-ClampPercent. Non-finite results (from
// degenerate ratios) collapse to the clamp value signed by whether the
// position gained or lost.
func clampReturn(r, ratio float64) float64 {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		if ratio >= 1 {
			return ClampPercent
		}
		return -ClampPercent
	}
	if r > ClampPercent {
		return ClampPercent
	}
	if r < -ClampPercent {
		return -ClampPercent
	}
	return r
}
