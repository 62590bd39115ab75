package payoff_test

import (
	"testing"

	"github.com/warp/finance-engine/payoff"
)

func TestSimulate_StableTieBreaks(t *testing.T) {
	// GIVEN: two debts identical in every factor
	// WHEN: simulating under each strategy
	// THEN: the extra budget targets the first debt in input order, so
	// it always retires first

	debts := []payoff.Debt{
		debt("First", 1000, 10, 30),
		debt("Second", 1000, 10, 30),
	}
	results, err := payoff.Simulate(debts, d(300), testClock())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range results {
		if len(r.PayoffOrder) == 0 || r.PayoffOrder[0] != "First" {
			t.Errorf("%s: payoff order %v, want First first", r.Strategy, r.PayoffOrder)
		}
	}
}

func TestSimulate_HybridFavorsHighRateSmallDebt(t *testing.T) {
	// A small, high-rate debt dominates every hybrid factor: highest
	// rate, lowest balance, best balance-to-minimum ratio, and a low
	// interest burden. It must be the hybrid target.

	debts := []payoff.Debt{
		debt("BigCheap", 20000, 4, 200),
		debt("SmallDear", 800, 24, 40),
	}
	results, err := payoff.Simulate(debts, d(150), testClock())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hybrid := resultFor(t, results, payoff.StrategyHybrid)
	if len(hybrid.PayoffOrder) == 0 || hybrid.PayoffOrder[0] != "SmallDear" {
		t.Errorf("hybrid payoff order %v, want SmallDear first", hybrid.PayoffOrder)
	}
}
