/*
Package finance provides the shared core for the finance engine.

PURPOSE:
  This package contains the primitives every engine package builds on:
  exact monetary arithmetic, an injectable clock, and the error taxonomy.
  It has no dependencies on the engines themselves and no I/O.

KEY CONCEPTS:
  - Money helpers: thin conveniences over decimal.Decimal. All stored
    monetary amounts are decimals; only dimensionless ratios (HHI shares,
    CAGR, weights) are computed in float64.
  - Clock: injectable time source. Engines never call time.Now directly,
    which keeps every calculation deterministic under test.
  - Errors: sentinel errors plus structured validation errors. Engines
    validate at their boundary and return well-formed zero results for
    degenerate (non-error) inputs.

DESIGN PRINCIPLES:
  1. Purity: nothing in this package mutates shared state.
  2. Precision: decimal.Decimal for money, never float64.
  3. Determinism: all time reads go through Clock.

SEE ALSO:
  - payoff/: amortization strategy simulator
  - income/: income normalization and diversification scoring
  - invest/: investment performance metrics
*/
package finance

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY HELPERS
// =============================================================================

var (
	// Twelve is the months-per-year divisor used by normalization and
	// interest accrual.
	Twelve = decimal.NewFromInt(12)

	// Hundred converts between percentages and ratios.
	Hundred = decimal.NewFromInt(100)
)

// MustDecimal parses a decimal from a string, returning zero on failure.
// Intended for constants and test fixtures, not user input.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Round2 rounds a monetary amount to cents.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MinDecimal returns the smaller of two decimals.
func MinDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// NamedAmount is a labeled monetary amount (a deduction, a side hustle,
// a fee). The label is display-only.
type NamedAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// SumNamed totals a list of named amounts.
func SumNamed(amounts []NamedAmount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Amount)
	}
	return total
}
