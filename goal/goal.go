/*
Package goal implements savings-goal progress calculation.

PURPOSE:
  Given a target amount, the amount saved so far, and a target date,
  derive progress percent, months remaining, the monthly contribution
  required to land on time, and an on-track flag.

ON-TRACK HEURISTIC:
  Progress is compared against elapsed time: a goal is on track when the
  saved fraction is at least the elapsed fraction of its timeline. Goals
  past their date are on track only when fully funded.
*/
package goal

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/finance-engine/finance"
)

// Goal is one savings goal as loaded from the record source.
type Goal struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	SavedAmount  decimal.Decimal `json:"saved_amount"`
	TargetDate   time.Time       `json:"target_date"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Progress is the derived state of a goal.
type Progress struct {
	Percent         float64         `json:"percent"` // 0-100, clamped
	MonthsRemaining int             `json:"months_remaining"`
	RequiredMonthly decimal.Decimal `json:"required_monthly"`
	OnTrack         bool            `json:"on_track"`
}

// Calculate derives progress for a goal at the clock's current time.
func Calculate(g Goal, clock finance.Clock) Progress {
	if clock == nil {
		clock = finance.SystemClock{}
	}
	now := clock.Now()

	p := Progress{}
	if g.TargetAmount.IsPositive() {
		p.Percent = g.SavedAmount.Div(g.TargetAmount).InexactFloat64() * 100
		if p.Percent < 0 {
			p.Percent = 0
		}
		if p.Percent > 100 {
			p.Percent = 100
		}
	}

	p.MonthsRemaining = monthsBetween(now, g.TargetDate)

	remaining := g.TargetAmount.Sub(g.SavedAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	if p.MonthsRemaining > 0 {
		p.RequiredMonthly = finance.Round2(remaining.Div(decimal.NewFromInt(int64(p.MonthsRemaining))))
	} else {
		p.RequiredMonthly = finance.Round2(remaining)
	}

	p.OnTrack = onTrack(g, now, p.Percent)
	return p
}

// monthsBetween counts whole months from now until the target, floored
// at zero.
func monthsBetween(now, target time.Time) int {
	if !target.After(now) {
		return 0
	}
	months := (target.Year()-now.Year())*12 + int(target.Month()) - int(now.Month())
	if target.Day() < now.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}
	return months
}

func onTrack(g Goal, now time.Time, percent float64) bool {
	if percent >= 100 {
		return true
	}
	if !g.TargetDate.After(now) {
		return false
	}
	totalSpan := g.TargetDate.Sub(g.CreatedAt)
	if totalSpan <= 0 {
		return true // no timeline to be behind on
	}
	elapsed := now.Sub(g.CreatedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	expected := float64(elapsed) / float64(totalSpan) * 100
	return percent >= expected
}
