/*
Package expense implements expense logging, splitting, and settlement
suggestions.

PURPOSE:
  An expense is paid by one participant and shared equally across all of
  its participants. The package computes per-person shares and, across a
  set of expenses, the minimal-ish set of transfers that settles
  everyone up (greedy largest-debtor to largest-creditor matching).

ROUNDING:
  Shares are rounded to cents; any remainder cents from an uneven split
  land on the first participant so that shares always sum to the exact
  expense amount.
*/
package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is one logged expense.
type Expense struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Category     string          `json:"category,omitempty"`
	Date         time.Time       `json:"date"`
	PaidBy       string          `json:"paid_by"`
	Participants []string        `json:"participants"`
}

// Share is one participant's slice of an expense.
type Share struct {
	Participant string          `json:"participant"`
	Amount      decimal.Decimal `json:"amount"`
}

// Transfer is a suggested payment that settles part of a balance.
type Transfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}
