package invest

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistoryPoint is one persisted portfolio valuation, written by the
// nightly snapshot job. It powers the dashboard's history chart only; it
// feeds no risk metric.
type HistoryPoint struct {
	UserID           string          `json:"user_id"`
	Date             time.Time       `json:"date"`
	TotalValue       decimal.Decimal `json:"total_value"`
	AnnualizedReturn float64         `json:"annualized_return"`
}
