/*
Package payoff implements the debt amortization strategy simulator.

PURPOSE:
  Given a snapshot of debts (balance, annual rate, minimum payment) and an
  extra monthly budget, simulate month-by-month payoff under three
  prioritization strategies and return comparable schedules:

    avalanche: highest interest rate first (mathematically optimal)
    snowball:  smallest balance first (motivational quick wins)
    hybrid:    weighted composite of rate, balance, payment efficiency,
               and interest burden, with portfolio-dependent weights

KEY CONCEPTS IN THIS FILE (types.go):
  - Debt: the immutable input record
  - Result: one strategy's full schedule and totals
  - MonthlyPoint: one month of the aggregate payment series (chart-ready)
  - Progress: per-debt payoff summary

DESIGN PRINCIPLES:
  1. Purity: Simulate never mutates its inputs; it deep-copies debts into
     private working state and discards it after the run.
  2. Determinism: stable sorts everywhere, time only via finance.Clock.
  3. Bounded: hard 360-month (30-year) cap, so every run terminates.

SEE ALSO:
  - simulator.go: the month loop
  - priority.go: strategy orderings and the hybrid composite score
*/
package payoff

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STRATEGY
// =============================================================================

type Strategy string

const (
	StrategyAvalanche Strategy = "avalanche"
	StrategySnowball  Strategy = "snowball"
	StrategyHybrid    Strategy = "hybrid"
)

// Strategies returns all strategies in simulation order.
func Strategies() []Strategy {
	return []Strategy{StrategyAvalanche, StrategySnowball, StrategyHybrid}
}

// =============================================================================
// INPUT RECORD
// =============================================================================

// Debt is one liability as loaded from the record source. Balance must be
// non-negative; a zero balance means the debt is already retired and it is
// excluded from simulation.
type Debt struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	InterestRate   decimal.Decimal `json:"interest_rate"` // annual percent, >= 0
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
	CreatedAt      time.Time       `json:"created_at,omitempty"`
}

// =============================================================================
// OUTPUT
// =============================================================================

// MonthlyPoint is one month of the aggregate payment series. Chart
// renderers plot these directly.
type MonthlyPoint struct {
	Month            int             `json:"month"`
	Payment          decimal.Decimal `json:"payment"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	InterestPaid     decimal.Decimal `json:"interest_paid"`
	PrincipalPaid    decimal.Decimal `json:"principal_paid"`
}

// Progress summarizes one debt's journey through a strategy run.
// DaysToPayoff uses 30-day months; zero means the debt was still open
// when the simulation ended.
type Progress struct {
	DebtID       string          `json:"debt_id"`
	Name         string          `json:"name"`
	AmountPaid   decimal.Decimal `json:"amount_paid"`
	InterestPaid decimal.Decimal `json:"interest_paid"`
	DaysToPayoff int             `json:"days_to_payoff"`
}

// Result is the outcome of one strategy run. Immutable after creation.
type Result struct {
	Strategy        Strategy        `json:"strategy"`
	TotalInterest   decimal.Decimal `json:"total_interest"`
	TotalPayments   decimal.Decimal `json:"total_payments"`
	MonthsToPayoff  int             `json:"months_to_payoff"`
	DebtFreeDate    time.Time       `json:"debt_free_date"`
	PayoffOrder     []string        `json:"payoff_order"`
	MonthlyPayments []MonthlyPoint  `json:"monthly_payments"`
	DebtProgress    []Progress      `json:"debt_progress"`
}

// Best picks the winning result: minimum total interest. Ties keep the
// earlier result (avalanche, given the Strategies() order). Returns nil
// for an empty slice.
func Best(results []Result) *Result {
	var best *Result
	for i := range results {
		if best == nil || results[i].TotalInterest.LessThan(best.TotalInterest) {
			best = &results[i]
		}
	}
	return best
}

// =============================================================================
// WORKING STATE (private to a single run)
// =============================================================================

// debtState is the mutable working copy of one debt. It accumulates paid
// amounts as the simulation progresses and is discarded after the run.
type debtState struct {
	debt         Debt
	order        int // original input position, for stable tie-breaks
	balance      decimal.Decimal
	amountPaid   decimal.Decimal
	interestPaid decimal.Decimal
	paidOffMonth int // 0 while still open
}

func (d *debtState) retired() bool { return !d.balance.IsPositive() }
