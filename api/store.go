/*
store.go - Persistence surface consumed by the HTTP layer

PURPOSE:
  The handlers depend on this interface, not on a concrete store.
  store/sqlite implements it for real runs, store/memory for tests.
  Defining the interface on the consumer side keeps the store packages
  free of api imports.

SEE ALSO:
  - store/sqlite/sqlite.go: production implementation
  - store/memory/memory.go: test implementation
*/
package api

import (
	"context"

	"github.com/warp/finance-engine/expense"
	"github.com/warp/finance-engine/goal"
	"github.com/warp/finance-engine/income"
	"github.com/warp/finance-engine/invest"
	"github.com/warp/finance-engine/payoff"
)

// Store is the persistence surface the handlers require.
type Store interface {
	SaveDebt(ctx context.Context, d payoff.Debt) error
	GetDebt(ctx context.Context, id string) (*payoff.Debt, error)
	ListDebts(ctx context.Context, userID string) ([]payoff.Debt, error)
	DeleteDebt(ctx context.Context, id string) error

	SaveIncome(ctx context.Context, r income.Record) error
	GetIncome(ctx context.Context, id string) (*income.Record, error)
	ListIncomes(ctx context.Context, userID string) ([]income.Record, error)
	DeleteIncome(ctx context.Context, id string) error

	SaveInvestment(ctx context.Context, inv invest.Investment) error
	GetInvestment(ctx context.Context, id string) (*invest.Investment, error)
	ListInvestments(ctx context.Context, userID string) ([]invest.Investment, error)
	DeleteInvestment(ctx context.Context, id string) error
	ListInvestmentUserIDs(ctx context.Context) ([]string, error)

	SaveExpense(ctx context.Context, e expense.Expense) error
	GetExpense(ctx context.Context, id string) (*expense.Expense, error)
	ListExpenses(ctx context.Context, userID string) ([]expense.Expense, error)
	DeleteExpense(ctx context.Context, id string) error

	SaveGoal(ctx context.Context, g goal.Goal) error
	GetGoal(ctx context.Context, id string) (*goal.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]goal.Goal, error)
	DeleteGoal(ctx context.Context, id string) error

	SavePortfolioSnapshot(ctx context.Context, p invest.HistoryPoint) error
	ListPortfolioSnapshots(ctx context.Context, userID string, limit int) ([]invest.HistoryPoint, error)

	Reset(ctx context.Context) error
}
