/*
Package invest implements investment performance metrics.

PURPOSE:
  Per-position return calculations (absolute, percent, CAGR-annualized
  with clamping) and a portfolio-level aggregate with proxy risk
  metrics.

PROXY RISK - KNOWN LIMITATION:
  Volatility, beta, and Sharpe are composition-weighted estimates
  derived from asset-class weights, NOT from historical return series.
  There is no time-series risk model here; upgrading to one would be a
  behavior change, not a bug fix.

SEE ALSO:
  - performance.go: per-position snapshot
  - portfolio.go: aggregate + proxy risk
*/
package invest

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ASSET CLASS
// =============================================================================

type AssetClass string

const (
	AssetStocks       AssetClass = "stocks"
	AssetBonds        AssetClass = "bonds"
	AssetCash         AssetClass = "cash"
	AssetAlternatives AssetClass = "alternatives"
)

// Valid reports whether a is a known asset class.
func (a AssetClass) Valid() bool {
	switch a {
	case AssetStocks, AssetBonds, AssetCash, AssetAlternatives:
		return true
	}
	return false
}

// =============================================================================
// INVESTMENT RECORD
// =============================================================================

// Investment is one position as loaded from the record source.
type Investment struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Name         string          `json:"name"`
	AssetClass   AssetClass      `json:"asset_class"`
	CostBasis    decimal.Decimal `json:"cost_basis"`
	CurrentValue decimal.Decimal `json:"current_value"`
	PurchaseDate time.Time       `json:"purchase_date"`
}

// =============================================================================
// OUTPUT
// =============================================================================

// Snapshot is the derived performance of a single position.
type Snapshot struct {
	AbsoluteReturn   decimal.Decimal `json:"absolute_return"`
	PercentReturn    float64         `json:"percent_return"`
	AnnualizedReturn float64         `json:"annualized_return"` // CAGR, percent, clamped
}

// Overall aggregates the whole portfolio. Risk fields are proxies (see
// package comment).
type Overall struct {
	TotalCostBasis   decimal.Decimal        `json:"total_cost_basis"`
	TotalValue       decimal.Decimal        `json:"total_value"`
	AbsoluteReturn   decimal.Decimal        `json:"absolute_return"`
	PercentReturn    float64                `json:"percent_return"`
	AnnualizedReturn float64                `json:"annualized_return"`
	Volatility       float64                `json:"volatility"`
	SharpeRatio      float64                `json:"sharpe_ratio"`
	Beta             float64                `json:"beta"`
	Allocation       map[AssetClass]float64 `json:"allocation"` // percent by class
}
