package goal_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/finance-engine/finance"
	"github.com/warp/finance-engine/goal"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func emergencyFund(target, saved float64, created, due time.Time) goal.Goal {
	return goal.Goal{
		ID:           "goal-1",
		UserID:       "user-1",
		Name:         "Emergency fund",
		TargetAmount: d(target),
		SavedAmount:  d(saved),
		TargetDate:   due,
		CreatedAt:    created,
	}
}

func TestCalculate_ProgressAndRequiredMonthly(t *testing.T) {
	// GIVEN: 2500 of 10000 saved with 10 months to go
	// WHEN: calculating
	// THEN: 25% progress, 750/month required

	clock := finance.ClockAt(2026, time.February, 1)
	g := emergencyFund(10000, 2500,
		time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC))

	p := goal.Calculate(g, clock)
	if p.Percent != 25 {
		t.Errorf("percent = %.1f, want 25", p.Percent)
	}
	if p.MonthsRemaining != 10 {
		t.Errorf("months remaining = %d, want 10", p.MonthsRemaining)
	}
	if !p.RequiredMonthly.Equal(d(750)) {
		t.Errorf("required monthly = %s, want 750", p.RequiredMonthly)
	}
}

func TestCalculate_OnTrack(t *testing.T) {
	created := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	clock := finance.ClockAt(2026, time.July, 1) // ~half the timeline elapsed

	ahead := goal.Calculate(emergencyFund(1000, 600, created, due), clock)
	if !ahead.OnTrack {
		t.Errorf("60%% saved at half time should be on track")
	}
	behind := goal.Calculate(emergencyFund(1000, 300, created, due), clock)
	if behind.OnTrack {
		t.Errorf("30%% saved at half time should be behind")
	}
}

func TestCalculate_PastDueGoal(t *testing.T) {
	created := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	clock := finance.ClockAt(2026, time.March, 1)

	p := goal.Calculate(emergencyFund(1000, 400, created, due), clock)
	if p.MonthsRemaining != 0 {
		t.Errorf("months remaining = %d, want 0", p.MonthsRemaining)
	}
	if p.OnTrack {
		t.Errorf("underfunded past-due goal cannot be on track")
	}
	// With no months left, the full shortfall is due now.
	if !p.RequiredMonthly.Equal(d(600)) {
		t.Errorf("required monthly = %s, want 600", p.RequiredMonthly)
	}
}

func TestCalculate_FullyFundedClampsTo100(t *testing.T) {
	created := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	p := goal.Calculate(emergencyFund(1000, 1500, created, due), finance.ClockAt(2026, time.June, 1))
	if p.Percent != 100 {
		t.Errorf("percent = %.1f, want clamped 100", p.Percent)
	}
	if !p.OnTrack {
		t.Errorf("fully funded goal is on track")
	}
	if !p.RequiredMonthly.IsZero() {
		t.Errorf("required monthly = %s, want 0", p.RequiredMonthly)
	}
}

func TestCalculate_ZeroTargetAmount(t *testing.T) {
	// Degenerate target: no division, zero progress.
	p := goal.Calculate(emergencyFund(0, 100,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)),
		finance.ClockAt(2026, time.June, 1))
	if p.Percent != 0 {
		t.Errorf("percent = %.1f, want 0", p.Percent)
	}
}
