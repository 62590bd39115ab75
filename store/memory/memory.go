/*
Package memory provides an in-memory record store for testing.

PURPOSE:
  Implements the same surface as store/sqlite with plain maps. Handler
  tests run against this store; no database file, no driver.

ORDERING:
  SQLite lists are ordered by creation/date columns. This store keeps a
  per-table insertion sequence so list order matches what the SQLite
  store would return for records saved in the same order.
*/
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/finance-engine/expense"
	"github.com/warp/finance-engine/finance"
	"github.com/warp/finance-engine/goal"
	"github.com/warp/finance-engine/income"
	"github.com/warp/finance-engine/invest"
	"github.com/warp/finance-engine/payoff"
)

// Store implements the api.Store surface with in-memory maps.
type Store struct {
	mu sync.RWMutex

	debts       map[string]payoff.Debt
	incomes     map[string]income.Record
	investments map[string]invest.Investment
	expenses    map[string]expense.Expense
	goals       map[string]goal.Goal
	snapshots   map[string][]invest.HistoryPoint // by user, newest last

	seq    int
	seqFor map[string]int // record id -> insertion sequence
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		debts:       make(map[string]payoff.Debt),
		incomes:     make(map[string]income.Record),
		investments: make(map[string]invest.Investment),
		expenses:    make(map[string]expense.Expense),
		goals:       make(map[string]goal.Goal),
		snapshots:   make(map[string][]invest.HistoryPoint),
		seqFor:      make(map[string]int),
	}
}

// Close is a no-op; it exists to satisfy the same lifecycle as the
// SQLite store.
func (s *Store) Close() error { return nil }

func (s *Store) touch(id string) {
	if _, ok := s.seqFor[id]; !ok {
		s.seq++
		s.seqFor[id] = s.seq
	}
}

// =============================================================================
// DEBTS
// =============================================================================

func (s *Store) SaveDebt(_ context.Context, d payoff.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(d.ID)
	s.debts[d.ID] = d
	return nil
}

func (s *Store) GetDebt(_ context.Context, id string) (*payoff.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.debts[id]; ok {
		return &d, nil
	}
	return nil, nil
}

func (s *Store) ListDebts(_ context.Context, userID string) ([]payoff.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var debts []payoff.Debt
	for _, d := range s.debts {
		if d.UserID == userID {
			debts = append(debts, d)
		}
	}
	sort.SliceStable(debts, func(i, j int) bool {
		return s.seqFor[debts[i].ID] < s.seqFor[debts[j].ID]
	})
	return debts, nil
}

func (s *Store) DeleteDebt(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.debts[id]; !ok {
		return finance.ErrNotFound
	}
	delete(s.debts, id)
	return nil
}

// =============================================================================
// INCOMES
// =============================================================================

func (s *Store) SaveIncome(_ context.Context, r income.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(r.ID)
	s.incomes[r.ID] = r
	return nil
}

func (s *Store) GetIncome(_ context.Context, id string) (*income.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.incomes[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (s *Store) ListIncomes(_ context.Context, userID string) ([]income.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []income.Record
	for _, r := range s.incomes {
		if r.UserID == userID {
			records = append(records, r)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return s.seqFor[records[i].ID] < s.seqFor[records[j].ID]
	})
	return records, nil
}

func (s *Store) DeleteIncome(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.incomes[id]; !ok {
		return finance.ErrNotFound
	}
	delete(s.incomes, id)
	return nil
}

// =============================================================================
// INVESTMENTS
// =============================================================================

func (s *Store) SaveInvestment(_ context.Context, inv invest.Investment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(inv.ID)
	s.investments[inv.ID] = inv
	return nil
}

func (s *Store) GetInvestment(_ context.Context, id string) (*invest.Investment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if inv, ok := s.investments[id]; ok {
		return &inv, nil
	}
	return nil, nil
}

func (s *Store) ListInvestments(_ context.Context, userID string) ([]invest.Investment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var investments []invest.Investment
	for _, inv := range s.investments {
		if inv.UserID == userID {
			investments = append(investments, inv)
		}
	}
	sort.SliceStable(investments, func(i, j int) bool {
		return s.seqFor[investments[i].ID] < s.seqFor[investments[j].ID]
	})
	return investments, nil
}

func (s *Store) DeleteInvestment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.investments[id]; !ok {
		return finance.ErrNotFound
	}
	delete(s.investments, id)
	return nil
}

func (s *Store) ListInvestmentUserIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var userIDs []string
	for _, inv := range s.investments {
		if !seen[inv.UserID] {
			seen[inv.UserID] = true
			userIDs = append(userIDs, inv.UserID)
		}
	}
	sort.Strings(userIDs)
	return userIDs, nil
}

// =============================================================================
// EXPENSES
// =============================================================================

func (s *Store) SaveExpense(_ context.Context, e expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(e.ID)
	s.expenses[e.ID] = e
	return nil
}

func (s *Store) GetExpense(_ context.Context, id string) (*expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.expenses[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (s *Store) ListExpenses(_ context.Context, userID string) ([]expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var expenses []expense.Expense
	for _, e := range s.expenses {
		if e.UserID == userID {
			expenses = append(expenses, e)
		}
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		if !expenses[i].Date.Equal(expenses[j].Date) {
			return expenses[i].Date.Before(expenses[j].Date)
		}
		return s.seqFor[expenses[i].ID] < s.seqFor[expenses[j].ID]
	})
	return expenses, nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[id]; !ok {
		return finance.ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}

// =============================================================================
// GOALS
// =============================================================================

func (s *Store) SaveGoal(_ context.Context, g goal.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(g.ID)
	s.goals[g.ID] = g
	return nil
}

func (s *Store) GetGoal(_ context.Context, id string) (*goal.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if g, ok := s.goals[id]; ok {
		return &g, nil
	}
	return nil, nil
}

func (s *Store) ListGoals(_ context.Context, userID string) ([]goal.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var goals []goal.Goal
	for _, g := range s.goals {
		if g.UserID == userID {
			goals = append(goals, g)
		}
	}
	sort.SliceStable(goals, func(i, j int) bool {
		if !goals[i].TargetDate.Equal(goals[j].TargetDate) {
			return goals[i].TargetDate.Before(goals[j].TargetDate)
		}
		return s.seqFor[goals[i].ID] < s.seqFor[goals[j].ID]
	})
	return goals, nil
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[id]; !ok {
		return finance.ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

// =============================================================================
// PORTFOLIO SNAPSHOTS
// =============================================================================

func (s *Store) SavePortfolioSnapshot(_ context.Context, p invest.HistoryPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := p.Date.Format("2006-01-02")
	points := s.snapshots[p.UserID]
	for i, existing := range points {
		if existing.Date.Format("2006-01-02") == day {
			points[i] = p
			return nil
		}
	}
	s.snapshots[p.UserID] = append(points, p)
	return nil
}

func (s *Store) ListPortfolioSnapshots(_ context.Context, userID string, limit int) ([]invest.HistoryPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	points := append([]invest.HistoryPoint(nil), s.snapshots[userID]...)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.After(points[j].Date)
	})
	if limit > 0 && len(points) > limit {
		points = points[:limit]
	}
	return points, nil
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset wipes every table.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debts = make(map[string]payoff.Debt)
	s.incomes = make(map[string]income.Record)
	s.investments = make(map[string]invest.Investment)
	s.expenses = make(map[string]expense.Expense)
	s.goals = make(map[string]goal.Goal)
	s.snapshots = make(map[string][]invest.HistoryPoint)
	s.seq = 0
	s.seqFor = make(map[string]int)
	return nil
}
