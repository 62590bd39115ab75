/*
portfolio.go - Portfolio aggregation and proxy risk

PURPOSE:
  Aggregates per-position snapshots into one Overall result and derives
  the proxy risk metrics from asset-class composition weights.

PROXY CONSTANTS:
  Long-run ballpark figures per asset class (annualized volatility %,
  market beta). These stand in for a historical risk model that the
  system does not have; they are composition-weighted, nothing more.

    class          volatility  beta
    stocks             15.0     1.0
    alternatives       20.0     1.2
    bonds               5.0     0.2
    cash                0.5     0.0

  Sharpe uses a flat 2% risk-free rate against the portfolio's
  annualized return and proxy volatility.
*/
package invest

import (
	"github.com/shopspring/decimal"
	"github.com/warp/finance-engine/finance"
	"gonum.org/v1/gonum/stat"
)

const riskFreeRate = 2.0 // percent, annual

var classVolatility = map[AssetClass]float64{
	AssetStocks:       15.0,
	AssetAlternatives: 20.0,
	AssetBonds:        5.0,
	AssetCash:         0.5,
}

var classBeta = map[AssetClass]float64{
	AssetStocks:       1.0,
	AssetAlternatives: 1.2,
	AssetBonds:        0.2,
	AssetCash:         0.0,
}

// OverallPerformance aggregates all positions. An empty portfolio yields
// a well-formed zero result.
func OverallPerformance(investments []Investment, clock finance.Clock) Overall {
	overall := Overall{Allocation: map[AssetClass]float64{}}
	if len(investments) == 0 {
		return overall
	}
	if clock == nil {
		clock = finance.SystemClock{}
	}

	annualized := make([]float64, 0, len(investments))
	weights := make([]float64, 0, len(investments))
	classValue := map[AssetClass]decimal.Decimal{}

	for _, inv := range investments {
		snap := Performance(inv, clock)
		overall.TotalCostBasis = overall.TotalCostBasis.Add(inv.CostBasis)
		overall.TotalValue = overall.TotalValue.Add(inv.CurrentValue)
		classValue[inv.AssetClass] = classValue[inv.AssetClass].Add(inv.CurrentValue)

		if inv.CurrentValue.IsPositive() {
			annualized = append(annualized, snap.AnnualizedReturn)
			weights = append(weights, inv.CurrentValue.InexactFloat64())
		}
	}

	overall.AbsoluteReturn = overall.TotalValue.Sub(overall.TotalCostBasis)
	if overall.TotalCostBasis.IsPositive() {
		cost := overall.TotalCostBasis.InexactFloat64()
		overall.PercentReturn = (overall.TotalValue.InexactFloat64() - cost) / cost * 100
	}
	if len(annualized) > 0 {
		overall.AnnualizedReturn = stat.Mean(annualized, weights)
	}

	// Composition weights drive the proxy risk metrics. Classes are
	// visited in a fixed order so the float accumulation is
	// bit-identical across runs.
	total := overall.TotalValue.InexactFloat64()
	if total > 0 {
		for _, class := range []AssetClass{AssetStocks, AssetBonds, AssetCash, AssetAlternatives} {
			value, held := classValue[class]
			if !held {
				continue
			}
			w := value.InexactFloat64() / total
			overall.Allocation[class] = w * 100
			overall.Volatility += w * classVolatility[class]
			overall.Beta += w * classBeta[class]
		}
		if overall.Volatility > 0 {
			overall.SharpeRatio = (overall.AnnualizedReturn - riskFreeRate) / overall.Volatility
		}
	}
	return overall
}
