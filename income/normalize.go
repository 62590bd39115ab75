/*
normalize.go - Recurrence normalization

PURPOSE:
  Maps any income amount to its monthly equivalent with fixed
  multipliers. No recurrence ever divides by zero.

MULTIPLIERS:
  weekly       x 52/12
  bi_weekly    x 26/12
  monthly      x 1
  quarterly    / 3
  semi_annual  / 6
  annual       / 12
  none         / 12   (one-time income amortized over a year)

ONE-TIME POLICY:
  A one-time amount is spread over twelve months rather than counted as
  a full recurring month. Recorded as an explicit policy decision in
  DESIGN.md, pending product confirmation.
*/
package income

import (
	"github.com/shopspring/decimal"
	"github.com/warp/finance-engine/finance"
)

var (
	weeksPerMonth    = decimal.NewFromInt(52).Div(finance.Twelve)
	biWeeksPerMonth  = decimal.NewFromInt(26).Div(finance.Twelve)
	monthsPerQuarter = decimal.NewFromInt(3)
	monthsPerHalf    = decimal.NewFromInt(6)
)

// MonthlyEquivalent converts an amount at the given recurrence to a
// per-month basis. Unknown recurrences are treated as one-time.
func MonthlyEquivalent(amount decimal.Decimal, r Recurrence) decimal.Decimal {
	switch r {
	case RecurrenceWeekly:
		return amount.Mul(weeksPerMonth)
	case RecurrenceBiWeekly:
		return amount.Mul(biWeeksPerMonth)
	case RecurrenceMonthly:
		return amount
	case RecurrenceQuarterly:
		return amount.Div(monthsPerQuarter)
	case RecurrenceSemiAnnual:
		return amount.Div(monthsPerHalf)
	default: // annual and one-time both amortize over twelve months
		return amount.Div(finance.Twelve)
	}
}

// TotalMonthly sums the monthly-equivalent net amounts of all records.
func TotalMonthly(records []Record) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.MonthlyNet())
	}
	return total
}
