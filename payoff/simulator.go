/*
simulator.go - Month-by-month amortization loop

PURPOSE:
  Runs all three payoff strategies over the same input snapshot and
  returns one Result per strategy. Each strategy runs independently on
  its own deep copy of the debts.

MONTHLY STEP (per strategy):
  1. Interest accrues on every active debt: balance * rate / 100 / 12.
  2. Minimum payments apply. The principal portion is
     min(minimum - interest, balance); when the minimum doesn't cover
     the interest the balance grows (negative amortization) and the
     shortfall still counts against the monthly budget.
  3. The unspent budget (all minimums + extra - minimums actually
     applied) goes to debts in strategy priority order, each payment
     capped at the remaining balance. Retired debts apply nothing, so
     their minimums keep feeding the pool.
  4. Debts that reached exactly zero are appended to the payoff order
     (once) and removed from the active set.

TERMINATION:
  The loop stops when the active set empties or at month 360, whichever
  comes first. At the cap, MonthsToPayoff reports 360 and unpaid debts
  are excluded from PayoffOrder.

FAILURE SEMANTICS:
  Empty input returns an empty result set, not an error. Invalid records
  are rejected up front. An unexpected panic is mapped to
  finance.ErrCalculationFailed - there is no safe default schedule.
*/
package payoff

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/finance-engine/finance"
)

// MaxMonths caps every simulation at 30 years.
const MaxMonths = 360

var monthlyRateDivisor = decimal.NewFromInt(1200) // rate/100/12

// Simulate runs all strategies over the same snapshot. The input slice is
// never mutated. An empty debt set yields a nil result slice and no error.
func Simulate(debts []Debt, extraMonthlyPayment decimal.Decimal, clock finance.Clock) (results []Result, err error) {
	if len(debts) == 0 {
		return nil, nil
	}
	if err := validate(debts, extraMonthlyPayment); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = finance.SystemClock{}
	}

	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("%w: %v", finance.ErrCalculationFailed, r)
		}
	}()

	for _, strategy := range Strategies() {
		results = append(results, runStrategy(debts, extraMonthlyPayment, strategy, clock))
	}
	return results, nil
}

func validate(debts []Debt, extra decimal.Decimal) error {
	if extra.IsNegative() {
		return &finance.InvalidInputError{Field: "extra_monthly_payment", Reason: "must be >= 0"}
	}
	for _, d := range debts {
		switch {
		case d.Balance.IsNegative():
			return &finance.InvalidInputError{Field: "balance", Record: d.Name, Reason: "must be >= 0"}
		case d.InterestRate.IsNegative():
			return &finance.InvalidInputError{Field: "interest_rate", Record: d.Name, Reason: "must be >= 0"}
		case d.MinimumPayment.IsNegative():
			return &finance.InvalidInputError{Field: "minimum_payment", Record: d.Name, Reason: "must be >= 0"}
		}
	}
	return nil
}

// runStrategy simulates one strategy on a private working copy.
func runStrategy(debts []Debt, extra decimal.Decimal, strategy Strategy, clock finance.Clock) Result {
	states := make([]*debtState, len(debts))
	var active []*debtState
	for i, d := range debts {
		s := &debtState{
			debt:         d,
			order:        i,
			balance:      d.Balance,
			amountPaid:   decimal.Zero,
			interestPaid: decimal.Zero,
		}
		states[i] = s
		// Already-retired debts never enter the simulation and never
		// appear in the payoff order.
		if s.balance.IsPositive() {
			active = append(active, s)
		}
	}

	// The monthly budget is fixed for the whole run: every minimum plus
	// the extra. A retired debt applies nothing, so its minimum flows
	// into the pool (the snowball rollover).
	totalMinimums := decimal.Zero
	for _, d := range active {
		totalMinimums = totalMinimums.Add(d.debt.MinimumPayment)
	}

	result := Result{Strategy: strategy}
	totalInterest := decimal.Zero
	totalPayments := decimal.Zero
	months := 0

	for month := 1; month <= MaxMonths; month++ {
		if len(active) == 0 {
			break
		}
		months = month

		monthInterest := decimal.Zero
		monthPayment := decimal.Zero
		appliedMinimums := decimal.Zero

		// Step 1+2: accrue interest, apply minimums.
		for _, d := range active {
			interest := d.balance.Mul(d.debt.InterestRate).Div(monthlyRateDivisor)
			principal := finance.MinDecimal(d.debt.MinimumPayment.Sub(interest), d.balance)
			applied := interest.Add(principal)

			d.balance = d.balance.Sub(principal)
			d.amountPaid = d.amountPaid.Add(applied)
			d.interestPaid = d.interestPaid.Add(interest)

			monthInterest = monthInterest.Add(interest)
			appliedMinimums = appliedMinimums.Add(applied)
		}
		monthPayment = appliedMinimums

		// Step 3: pooled budget to debts in priority order.
		pool := totalMinimums.Add(extra).Sub(appliedMinimums)
		if pool.IsPositive() {
			for _, d := range prioritize(active, strategy) {
				if !pool.IsPositive() {
					break
				}
				if d.retired() {
					continue
				}
				pay := finance.MinDecimal(pool, d.balance)
				d.balance = d.balance.Sub(pay)
				d.amountPaid = d.amountPaid.Add(pay)
				pool = pool.Sub(pay)
				monthPayment = monthPayment.Add(pay)
			}
		}

		// Step 4: retire zeroed debts, in input order.
		var stillActive []*debtState
		for _, d := range active {
			if d.retired() {
				d.balance = decimal.Zero
				d.paidOffMonth = month
				result.PayoffOrder = append(result.PayoffOrder, d.debt.Name)
				continue
			}
			stillActive = append(stillActive, d)
		}
		active = stillActive

		remaining := decimal.Zero
		for _, d := range states {
			remaining = remaining.Add(d.balance)
		}

		totalInterest = totalInterest.Add(monthInterest)
		totalPayments = totalPayments.Add(monthPayment)
		result.MonthlyPayments = append(result.MonthlyPayments, MonthlyPoint{
			Month:            month,
			Payment:          finance.Round2(monthPayment),
			RemainingBalance: finance.Round2(remaining),
			InterestPaid:     finance.Round2(monthInterest),
			PrincipalPaid:    finance.Round2(monthPayment.Sub(monthInterest)),
		})
	}

	result.MonthsToPayoff = months
	result.TotalInterest = finance.Round2(totalInterest)
	result.TotalPayments = finance.Round2(totalPayments)
	result.DebtFreeDate = clock.Now().AddDate(0, months, 0)

	for _, d := range states {
		result.DebtProgress = append(result.DebtProgress, Progress{
			DebtID:       d.debt.ID,
			Name:         d.debt.Name,
			AmountPaid:   finance.Round2(d.amountPaid),
			InterestPaid: finance.Round2(d.interestPaid),
			DaysToPayoff: d.paidOffMonth * 30,
		})
	}
	return result
}
