/*
Package sqlite provides the SQLite-backed record store.

PURPOSE:
  Persists every record type the engines consume - debts, incomes,
  investments, expenses, goals - plus the nightly portfolio valuation
  snapshots. In production the same patterns apply to PostgreSQL; only
  minor SQL dialect differences.

SCOPING:
  Every list read is scoped by user_id. An empty result set is a valid,
  non-error state: the engines treat "no records" as "nothing to
  compute".

ENCODING:
  Monetary amounts are stored as decimal strings (never floats),
  timestamps as RFC3339 text, and nested sequences (deductions, side
  hustles, expense participants) as JSON columns.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better
  concurrency: multiple readers don't block and crash recovery is
  cleaner. A sync.RWMutex guards the connection; with PostgreSQL the
  database handles this instead.

USAGE:
  store, err := sqlite.New("./data/finance.db")   // ":memory:" for tests
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - api/store.go: the interface the handlers consume
  - store/memory: map-backed implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/finance-engine/expense"
	"github.com/warp/finance-engine/finance"
	"github.com/warp/finance-engine/goal"
	"github.com/warp/finance-engine/income"
	"github.com/warp/finance-engine/invest"
	"github.com/warp/finance-engine/payoff"
)

// Store implements the api.Store surface using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS debts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		balance TEXT NOT NULL,
		interest_rate TEXT NOT NULL,
		minimum_payment TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_debts_user ON debts(user_id);

	CREATE TABLE IF NOT EXISTS incomes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		amount TEXT NOT NULL,
		recurrence TEXT NOT NULL,
		category TEXT,
		deductions_json TEXT,
		side_hustles_json TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_incomes_user ON incomes(user_id);

	CREATE TABLE IF NOT EXISTS investments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		asset_class TEXT NOT NULL,
		cost_basis TEXT NOT NULL,
		current_value TEXT NOT NULL,
		purchase_date TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_investments_user ON investments(user_id);

	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		description TEXT NOT NULL,
		amount TEXT NOT NULL,
		category TEXT,
		date TEXT NOT NULL,
		paid_by TEXT NOT NULL,
		participants_json TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_expenses_user ON expenses(user_id);

	CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		target_amount TEXT NOT NULL,
		saved_amount TEXT NOT NULL,
		target_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(user_id);

	CREATE TABLE IF NOT EXISTS portfolio_snapshots (
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		total_value TEXT NOT NULL,
		annualized_return REAL NOT NULL,
		PRIMARY KEY (user_id, date)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// rowScanner lets scan helpers accept *sql.Row and *sql.Rows alike.
type rowScanner interface {
	Scan(dest ...any) error
}

// =============================================================================
// DEBTS
// =============================================================================

// SaveDebt inserts or replaces a debt record.
func (s *Store) SaveDebt(ctx context.Context, d payoff.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO debts (id, user_id, name, balance, interest_rate, minimum_payment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.UserID, d.Name, d.Balance.String(), d.InterestRate.String(),
		d.MinimumPayment.String(), d.CreatedAt.Format(time.RFC3339))
	return err
}

// GetDebt returns the debt with the given id, or nil if absent.
func (s *Store) GetDebt(ctx context.Context, id string) (*payoff.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, balance, interest_rate, minimum_payment, created_at
		FROM debts WHERE id = ?`, id)
	d, err := scanDebt(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDebts returns the user's debts in insertion order.
func (s *Store) ListDebts(ctx context.Context, userID string) ([]payoff.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, balance, interest_rate, minimum_payment, created_at
		FROM debts WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debts []payoff.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

// DeleteDebt removes a debt. Returns finance.ErrNotFound for unknown ids.
func (s *Store) DeleteDebt(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteByID(ctx, "debts", id)
}

func scanDebt(row rowScanner) (payoff.Debt, error) {
	var d payoff.Debt
	var balance, rate, minPayment, createdAt string
	if err := row.Scan(&d.ID, &d.UserID, &d.Name, &balance, &rate, &minPayment, &createdAt); err != nil {
		return d, err
	}
	d.Balance = finance.MustDecimal(balance)
	d.InterestRate = finance.MustDecimal(rate)
	d.MinimumPayment = finance.MustDecimal(minPayment)
	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return d, nil
}

// =============================================================================
// INCOMES
// =============================================================================

// SaveIncome inserts or replaces an income record.
func (s *Store) SaveIncome(ctx context.Context, r income.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	deductions, err := json.Marshal(r.Deductions)
	if err != nil {
		return err
	}
	sideHustles, err := json.Marshal(r.SideHustles)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO incomes (id, user_id, name, amount, recurrence, category, deductions_json, side_hustles_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.Name, r.Amount.String(), string(r.Recurrence), r.Category,
		string(deductions), string(sideHustles), r.CreatedAt.Format(time.RFC3339))
	return err
}

// GetIncome returns the income record with the given id, or nil if absent.
func (s *Store) GetIncome(ctx context.Context, id string) (*income.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, amount, recurrence, category, deductions_json, side_hustles_json, created_at
		FROM incomes WHERE id = ?`, id)
	r, err := scanIncome(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListIncomes returns the user's income records in insertion order.
func (s *Store) ListIncomes(ctx context.Context, userID string) ([]income.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, amount, recurrence, category, deductions_json, side_hustles_json, created_at
		FROM incomes WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []income.Record
	for rows.Next() {
		r, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteIncome removes an income record.
func (s *Store) DeleteIncome(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteByID(ctx, "incomes", id)
}

func scanIncome(row rowScanner) (income.Record, error) {
	var r income.Record
	var amount, recurrence, createdAt string
	var category, deductions, sideHustles sql.NullString
	if err := row.Scan(&r.ID, &r.UserID, &r.Name, &amount, &recurrence, &category, &deductions, &sideHustles, &createdAt); err != nil {
		return r, err
	}
	r.Amount = finance.MustDecimal(amount)
	r.Recurrence = income.Recurrence(recurrence)
	r.Category = category.String
	if deductions.Valid && deductions.String != "" {
		if err := json.Unmarshal([]byte(deductions.String), &r.Deductions); err != nil {
			return r, fmt.Errorf("corrupt deductions for income %s: %w", r.ID, err)
		}
	}
	if sideHustles.Valid && sideHustles.String != "" {
		if err := json.Unmarshal([]byte(sideHustles.String), &r.SideHustles); err != nil {
			return r, fmt.Errorf("corrupt side hustles for income %s: %w", r.ID, err)
		}
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return r, nil
}

// =============================================================================
// INVESTMENTS
// =============================================================================

// SaveInvestment inserts or replaces an investment position.
func (s *Store) SaveInvestment(ctx context.Context, inv invest.Investment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO investments (id, user_id, name, asset_class, cost_basis, current_value, purchase_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.UserID, inv.Name, string(inv.AssetClass),
		inv.CostBasis.String(), inv.CurrentValue.String(), inv.PurchaseDate.Format(time.RFC3339))
	return err
}

// GetInvestment returns the position with the given id, or nil if absent.
func (s *Store) GetInvestment(ctx context.Context, id string) (*invest.Investment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, asset_class, cost_basis, current_value, purchase_date
		FROM investments WHERE id = ?`, id)
	inv, err := scanInvestment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvestments returns the user's positions ordered by purchase date.
func (s *Store) ListInvestments(ctx context.Context, userID string) ([]invest.Investment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, asset_class, cost_basis, current_value, purchase_date
		FROM investments WHERE user_id = ? ORDER BY purchase_date, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var investments []invest.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

// DeleteInvestment removes a position.
func (s *Store) DeleteInvestment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteByID(ctx, "investments", id)
}

// ListInvestmentUserIDs returns every user holding at least one position.
// The nightly snapshot job iterates these.
func (s *Store) ListInvestmentUserIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM investments ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}

func scanInvestment(row rowScanner) (invest.Investment, error) {
	var inv invest.Investment
	var class, costBasis, currentValue, purchaseDate string
	if err := row.Scan(&inv.ID, &inv.UserID, &inv.Name, &class, &costBasis, &currentValue, &purchaseDate); err != nil {
		return inv, err
	}
	inv.AssetClass = invest.AssetClass(class)
	inv.CostBasis = finance.MustDecimal(costBasis)
	inv.CurrentValue = finance.MustDecimal(currentValue)
	inv.PurchaseDate, _ = time.Parse(time.RFC3339, purchaseDate)
	return inv, nil
}

// =============================================================================
// EXPENSES
// =============================================================================

// SaveExpense inserts or replaces a shared expense.
func (s *Store) SaveExpense(ctx context.Context, e expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants, err := json.Marshal(e.Participants)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO expenses (id, user_id, description, amount, category, date, paid_by, participants_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Description, e.Amount.String(), e.Category,
		e.Date.Format(time.RFC3339), e.PaidBy, string(participants))
	return err
}

// GetExpense returns the expense with the given id, or nil if absent.
func (s *Store) GetExpense(ctx context.Context, id string) (*expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, description, amount, category, date, paid_by, participants_json
		FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListExpenses returns the user's expenses ordered by date.
func (s *Store) ListExpenses(ctx context.Context, userID string) ([]expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, description, amount, category, date, paid_by, participants_json
		FROM expenses WHERE user_id = ? ORDER BY date, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []expense.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// DeleteExpense removes an expense.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteByID(ctx, "expenses", id)
}

func scanExpense(row rowScanner) (expense.Expense, error) {
	var e expense.Expense
	var amount, date string
	var category, participants sql.NullString
	if err := row.Scan(&e.ID, &e.UserID, &e.Description, &amount, &category, &date, &e.PaidBy, &participants); err != nil {
		return e, err
	}
	e.Amount = finance.MustDecimal(amount)
	e.Category = category.String
	e.Date, _ = time.Parse(time.RFC3339, date)
	if participants.Valid && participants.String != "" {
		if err := json.Unmarshal([]byte(participants.String), &e.Participants); err != nil {
			return e, fmt.Errorf("corrupt participants for expense %s: %w", e.ID, err)
		}
	}
	return e, nil
}

// =============================================================================
// GOALS
// =============================================================================

// SaveGoal inserts or replaces a savings goal.
func (s *Store) SaveGoal(ctx context.Context, g goal.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO goals (id, user_id, name, target_amount, saved_amount, target_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Name, g.TargetAmount.String(), g.SavedAmount.String(),
		g.TargetDate.Format(time.RFC3339), g.CreatedAt.Format(time.RFC3339))
	return err
}

// GetGoal returns the goal with the given id, or nil if absent.
func (s *Store) GetGoal(ctx context.Context, id string) (*goal.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, target_amount, saved_amount, target_date, created_at
		FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGoals returns the user's goals ordered by target date.
func (s *Store) ListGoals(ctx context.Context, userID string) ([]goal.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, target_amount, saved_amount, target_date, created_at
		FROM goals WHERE user_id = ? ORDER BY target_date, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []goal.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// DeleteGoal removes a goal.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteByID(ctx, "goals", id)
}

func scanGoal(row rowScanner) (goal.Goal, error) {
	var g goal.Goal
	var target, saved, targetDate, createdAt string
	if err := row.Scan(&g.ID, &g.UserID, &g.Name, &target, &saved, &targetDate, &createdAt); err != nil {
		return g, err
	}
	g.TargetAmount = finance.MustDecimal(target)
	g.SavedAmount = finance.MustDecimal(saved)
	g.TargetDate, _ = time.Parse(time.RFC3339, targetDate)
	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return g, nil
}

// =============================================================================
// PORTFOLIO SNAPSHOTS
// =============================================================================

// SavePortfolioSnapshot records a daily portfolio valuation. One row per
// user per day; re-running the job for the same day overwrites.
func (s *Store) SavePortfolioSnapshot(ctx context.Context, p invest.HistoryPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO portfolio_snapshots (user_id, date, total_value, annualized_return)
		VALUES (?, ?, ?, ?)`,
		p.UserID, p.Date.Format("2006-01-02"), p.TotalValue.String(), p.AnnualizedReturn)
	return err
}

// ListPortfolioSnapshots returns the user's most recent valuations,
// newest first.
func (s *Store) ListPortfolioSnapshots(ctx context.Context, userID string, limit int) ([]invest.HistoryPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, date, total_value, annualized_return
		FROM portfolio_snapshots WHERE user_id = ? ORDER BY date DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []invest.HistoryPoint
	for rows.Next() {
		var p invest.HistoryPoint
		var date, totalValue string
		if err := rows.Scan(&p.UserID, &date, &totalValue, &p.AnnualizedReturn); err != nil {
			return nil, err
		}
		p.Date, _ = time.Parse("2006-01-02", date)
		p.TotalValue = finance.MustDecimal(totalValue)
		points = append(points, p)
	}
	return points, rows.Err()
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset wipes every table. Scenario loading and development use only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"debts", "incomes", "investments", "expenses", "goals", "portfolio_snapshots"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) deleteByID(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return finance.ErrNotFound
	}
	return nil
}
