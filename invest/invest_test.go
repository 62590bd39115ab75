package invest_test

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/finance-engine/finance"
	"github.com/warp/finance-engine/invest"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func position(name string, class invest.AssetClass, cost, value float64, purchased time.Time) invest.Investment {
	return invest.Investment{
		ID:           "inv-" + name,
		UserID:       "user-1",
		Name:         name,
		AssetClass:   class,
		CostBasis:    d(cost),
		CurrentValue: d(value),
		PurchaseDate: purchased,
	}
}

var now = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

func clock() finance.Clock { return finance.FixedClock{At: now} }

// =============================================================================
// PER-POSITION PERFORMANCE
// =============================================================================

func TestPerformance_PercentReturn(t *testing.T) {
	snap := invest.Performance(position("VT", invest.AssetStocks, 1000, 1250, now.AddDate(-2, 0, 0)), clock())
	if math.Abs(snap.PercentReturn-25) > 0.001 {
		t.Errorf("percent return = %.4f, want 25", snap.PercentReturn)
	}
	if !snap.AbsoluteReturn.Equal(d(250)) {
		t.Errorf("absolute return = %s, want 250", snap.AbsoluteReturn)
	}
}

func TestPerformance_ZeroCostBasis(t *testing.T) {
	// GIVEN: a degenerate cost basis
	// WHEN: computing returns
	// THEN: percent and annualized return are 0, not a division blow-up

	snap := invest.Performance(position("Free", invest.AssetStocks, 0, 500, now.AddDate(-1, 0, 0)), clock())
	if snap.PercentReturn != 0 || snap.AnnualizedReturn != 0 {
		t.Errorf("expected zero returns, got %%=%.2f annual=%.2f",
			snap.PercentReturn, snap.AnnualizedReturn)
	}
	if !snap.AbsoluteReturn.Equal(d(500)) {
		t.Errorf("absolute return = %s, want 500", snap.AbsoluteReturn)
	}
}

func TestPerformance_CAGRTwoYearDouble(t *testing.T) {
	// Doubling over two years is ~41.42% annualized.
	snap := invest.Performance(position("2x", invest.AssetStocks, 1000, 2000, now.AddDate(-2, 0, 0)), clock())
	want := (math.Sqrt(2) - 1) * 100
	if math.Abs(snap.AnnualizedReturn-want) > 0.5 {
		t.Errorf("annualized = %.2f, want ~%.2f", snap.AnnualizedReturn, want)
	}
}

func TestPerformance_CAGRClamp(t *testing.T) {
	// GIVEN: cost 100, value 100000, purchased yesterday
	// WHEN: annualizing
	// THEN: exactly the +1000 clamp, not an astronomical number

	snap := invest.Performance(position("Moon", invest.AssetStocks, 100, 100000, now.AddDate(0, 0, -1)), clock())
	if snap.AnnualizedReturn != invest.ClampPercent {
		t.Errorf("annualized = %.2f, want exactly %.0f", snap.AnnualizedReturn, invest.ClampPercent)
	}
}

func TestPerformance_TotalLossIsMinus100(t *testing.T) {
	// A total same-day loss annualizes to -100%, never past it.
	snap := invest.Performance(position("Rug", invest.AssetAlternatives, 100000, 0, now), clock())
	if math.Abs(snap.AnnualizedReturn-(-100)) > 0.001 {
		t.Errorf("annualized = %.2f, want -100", snap.AnnualizedReturn)
	}
}

func TestPerformance_NonFiniteRatioUsesSignedClamp(t *testing.T) {
	// A negative current value makes the CAGR ratio non-finite; the
	// result collapses to the signed clamp rather than propagating NaN.
	snap := invest.Performance(position("Margin", invest.AssetAlternatives, 1000, -50, now), clock())
	if snap.AnnualizedReturn != -invest.ClampPercent {
		t.Errorf("annualized = %.2f, want exactly %.0f", snap.AnnualizedReturn, -invest.ClampPercent)
	}
}

func TestPerformance_SameDayPurchaseFloorsHoldingPeriod(t *testing.T) {
	// years_held floors at one day; a flat same-day position is 0%.
	snap := invest.Performance(position("Flat", invest.AssetCash, 1000, 1000, now), clock())
	if snap.AnnualizedReturn != 0 {
		t.Errorf("annualized = %.2f, want 0", snap.AnnualizedReturn)
	}
}

// =============================================================================
// PORTFOLIO AGGREGATION
// =============================================================================

func TestOverallPerformance_Empty(t *testing.T) {
	overall := invest.OverallPerformance(nil, clock())
	if overall.PercentReturn != 0 || overall.Volatility != 0 || overall.Beta != 0 {
		t.Errorf("expected zero overall, got %+v", overall)
	}
}

func TestOverallPerformance_Totals(t *testing.T) {
	overall := invest.OverallPerformance([]invest.Investment{
		position("VT", invest.AssetStocks, 6000, 7500, now.AddDate(-3, 0, 0)),
		position("BND", invest.AssetBonds, 4000, 4100, now.AddDate(-3, 0, 0)),
	}, clock())

	if !overall.TotalValue.Equal(d(11600)) {
		t.Errorf("total value = %s, want 11600", overall.TotalValue)
	}
	if !overall.AbsoluteReturn.Equal(d(1600)) {
		t.Errorf("absolute return = %s, want 1600", overall.AbsoluteReturn)
	}
	if math.Abs(overall.PercentReturn-16) > 0.001 {
		t.Errorf("percent return = %.3f, want 16", overall.PercentReturn)
	}
}

func TestOverallPerformance_ProxyRiskFromComposition(t *testing.T) {
	// GIVEN: a 50/50 stocks/cash portfolio by value
	// WHEN: aggregating
	// THEN: volatility and beta are the composition-weighted proxies

	overall := invest.OverallPerformance([]invest.Investment{
		position("VT", invest.AssetStocks, 5000, 5000, now.AddDate(-1, 0, 0)),
		position("HYSA", invest.AssetCash, 5000, 5000, now.AddDate(-1, 0, 0)),
	}, clock())

	if math.Abs(overall.Volatility-(0.5*15.0+0.5*0.5)) > 0.001 {
		t.Errorf("volatility = %.3f, want 7.75", overall.Volatility)
	}
	if math.Abs(overall.Beta-0.5) > 0.001 {
		t.Errorf("beta = %.3f, want 0.5", overall.Beta)
	}
	if math.Abs(overall.Allocation[invest.AssetStocks]-50) > 0.001 {
		t.Errorf("stocks allocation = %.1f, want 50", overall.Allocation[invest.AssetStocks])
	}
}

func TestOverallPerformance_RiskMetricsAreDeterministic(t *testing.T) {
	// All four classes held at once: the risk accumulation must come out
	// bit-identical on every run, not merely within a tolerance.

	portfolio := func() []invest.Investment {
		return []invest.Investment{
			position("VT", invest.AssetStocks, 6000, 7000, now.AddDate(-2, 0, 0)),
			position("BND", invest.AssetBonds, 3000, 3100, now.AddDate(-2, 0, 0)),
			position("HYSA", invest.AssetCash, 2000, 2050, now.AddDate(-1, 0, 0)),
			position("GOLD", invest.AssetAlternatives, 1000, 1150, now.AddDate(-1, 0, 0)),
		}
	}

	first := invest.OverallPerformance(portfolio(), clock())
	for run := 0; run < 10; run++ {
		again := invest.OverallPerformance(portfolio(), clock())
		if again.Volatility != first.Volatility || again.Beta != first.Beta || again.SharpeRatio != first.SharpeRatio {
			t.Fatalf("run %d: risk metrics drifted: vol %v vs %v, beta %v vs %v",
				run, again.Volatility, first.Volatility, again.Beta, first.Beta)
		}
		for class, share := range first.Allocation {
			if again.Allocation[class] != share {
				t.Fatalf("run %d: allocation for %s drifted", run, class)
			}
		}
	}
}

func TestOverallPerformance_AllCashHasNearZeroRisk(t *testing.T) {
	overall := invest.OverallPerformance([]invest.Investment{
		position("HYSA", invest.AssetCash, 10000, 10200, now.AddDate(-1, 0, 0)),
	}, clock())
	if overall.Beta != 0 {
		t.Errorf("cash beta = %.3f, want 0", overall.Beta)
	}
	if overall.Volatility != 0.5 {
		t.Errorf("cash volatility = %.3f, want 0.5", overall.Volatility)
	}
}
