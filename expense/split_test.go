package expense_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/finance-engine/expense"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func dinner(amount float64, paidBy string, participants ...string) expense.Expense {
	return expense.Expense{
		ID:           "exp-1",
		UserID:       "user-1",
		Description:  "Dinner",
		Amount:       d(amount),
		Date:         time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC),
		PaidBy:       paidBy,
		Participants: participants,
	}
}

func TestSplit_Equal(t *testing.T) {
	shares := expense.Split(dinner(90, "ana", "ana", "ben", "cal"))
	require.Len(t, shares, 3)
	for _, s := range shares {
		assert.True(t, s.Amount.Equal(d(30)), "share %s = %s", s.Participant, s.Amount)
	}
}

func TestSplit_RemainderCentsOnFirstParticipant(t *testing.T) {
	shares := expense.Split(dinner(100, "ana", "ana", "ben", "cal"))
	require.Len(t, shares, 3)

	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s.Amount)
	}
	assert.True(t, total.Equal(d(100)), "shares must sum to the expense, got %s", total)
	assert.True(t, shares[0].Amount.GreaterThanOrEqual(shares[1].Amount))
}

func TestSplit_NoParticipants(t *testing.T) {
	assert.Nil(t, expense.Split(dinner(50, "ana")))
}

func TestSettlements_SimpleTriangle(t *testing.T) {
	// ana fronted 90 split three ways: ben and cal each owe ana 30.
	transfers := expense.Settlements([]expense.Expense{
		dinner(90, "ana", "ana", "ben", "cal"),
	})
	require.Len(t, transfers, 2)
	for _, tr := range transfers {
		assert.Equal(t, "ana", tr.To)
		assert.True(t, tr.Amount.Equal(d(30)))
	}
}

func TestSettlements_NetsAcrossExpenses(t *testing.T) {
	// ana fronts 60 (30 each), ben fronts 30 (15 each): ben owes
	// 30 - 15 = 15 net.
	transfers := expense.Settlements([]expense.Expense{
		dinner(60, "ana", "ana", "ben"),
		dinner(30, "ben", "ana", "ben"),
	})
	require.Len(t, transfers, 1)
	assert.Equal(t, "ben", transfers[0].From)
	assert.Equal(t, "ana", transfers[0].To)
	assert.True(t, transfers[0].Amount.Equal(d(15)), "got %s", transfers[0].Amount)
}

func TestSettlements_BalancedGroupNeedsNoTransfers(t *testing.T) {
	transfers := expense.Settlements([]expense.Expense{
		dinner(40, "ana", "ana", "ben"),
		dinner(40, "ben", "ana", "ben"),
	})
	assert.Empty(t, transfers)
}
