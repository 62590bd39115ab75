/*
Package income implements income normalization and diversification scoring.

PURPOSE:
  Two concerns:
  1. Normalize any income stream to a monthly-equivalent amount given its
     recurrence (weekly paycheck, quarterly dividend, one-time bonus).
  2. Score how diversified a set of income streams is, using an inverted
     Herfindahl-Hirschman concentration index over category shares.

KEY CONCEPTS IN THIS FILE (types.go):
  - Recurrence: fixed-multiplier frequency enum
  - Record: one income stream with deductions and side hustles
  - Score: the diversification result structure

SCORING IS ADVISORY:
  The scorer never fails. Degenerate inputs get explicit fallbacks and an
  unexpected internal error degrades to a neutral score of 50.

SEE ALSO:
  - normalize.go: recurrence multipliers
  - diversification.go: the HHI scoring algorithm
*/
package income

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/finance-engine/finance"
)

// =============================================================================
// RECURRENCE
// =============================================================================

type Recurrence string

const (
	RecurrenceNone       Recurrence = "none" // one-time
	RecurrenceWeekly     Recurrence = "weekly"
	RecurrenceBiWeekly   Recurrence = "bi_weekly"
	RecurrenceMonthly    Recurrence = "monthly"
	RecurrenceQuarterly  Recurrence = "quarterly"
	RecurrenceSemiAnnual Recurrence = "semi_annual"
	RecurrenceAnnual     Recurrence = "annual"
)

// Valid reports whether r is a known recurrence.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceWeekly, RecurrenceBiWeekly, RecurrenceMonthly,
		RecurrenceQuarterly, RecurrenceSemiAnnual, RecurrenceAnnual:
		return true
	}
	return false
}

// =============================================================================
// INCOME RECORD
// =============================================================================

// Record is one income stream as loaded from the record source.
type Record struct {
	ID          string                `json:"id"`
	UserID      string                `json:"user_id"`
	Name        string                `json:"name"`
	Amount      decimal.Decimal       `json:"amount"`
	Recurrence  Recurrence            `json:"recurrence"`
	Category    string                `json:"category,omitempty"`
	Deductions  []finance.NamedAmount `json:"deductions,omitempty"`
	SideHustles []finance.NamedAmount `json:"side_hustles,omitempty"`
	CreatedAt   time.Time             `json:"created_at,omitempty"`
}

// NetAmount is the gross amount minus deductions plus side hustles,
// before recurrence normalization.
func (r Record) NetAmount() decimal.Decimal {
	return r.Amount.
		Sub(finance.SumNamed(r.Deductions)).
		Add(finance.SumNamed(r.SideHustles))
}

// MonthlyNet is the monthly-equivalent net amount.
func (r Record) MonthlyNet() decimal.Decimal {
	return MonthlyEquivalent(r.NetAmount(), r.Recurrence)
}

// =============================================================================
// DIVERSIFICATION SCORE
// =============================================================================

// CategoryShare is one category's slice of total monthly income.
type CategoryShare struct {
	Category     string  `json:"category"`
	Share        float64 `json:"share"`        // percent of total, 0-100
	Contribution float64 `json:"contribution"` // weighted contribution to the score
}

// Score is the diversification result. All components are bounded to
// [0, 100]. Not persisted; recomputed on demand.
type Score struct {
	OverallScore      int             `json:"overall_score"`
	SourceCount       int             `json:"source_count"`
	PrimaryDependency float64         `json:"primary_dependency"` // largest category share, percent
	StabilityScore    int             `json:"stability_score"`
	GrowthPotential   int             `json:"growth_potential"`
	Breakdown         []CategoryShare `json:"breakdown,omitempty"`
}
