/*
handlers.go - HTTP API handlers for the personal finance engine

PURPOSE:
  Exposes the finance engines via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Debts:
    GET    /api/debts                    List debts
    POST   /api/debts                    Create debt
    GET    /api/debts/{id}               Get debt
    PUT    /api/debts/{id}               Update debt
    DELETE /api/debts/{id}               Delete debt
    POST   /api/debts/simulate           Run payoff strategy simulations

  Incomes:
    CRUD on /api/incomes, plus
    GET    /api/incomes/diversification  Diversification score

  Investments:
    CRUD on /api/investments, plus
    GET    /api/investments/performance  Portfolio aggregate + history

  Expenses:
    CRUD on /api/expenses, plus
    GET    /api/expenses/{id}/split      Equal-share breakdown
    GET    /api/expenses/settlements     Suggested settling transfers

  Goals:
    CRUD on /api/goals; list responses embed derived progress

  Scenarios:
    GET    /api/scenarios                List demo scenarios
    POST   /api/scenarios/load           Load a demo scenario
    POST   /api/scenarios/reset          Wipe the database

USER SCOPING:
  Records are scoped by the X-User-ID header. Absent header means the
  "demo" user. This is identification, not authentication; see the
  security note in server.go.

CACHING:
  Simulation and diversification results are cached under a key derived
  from a hash of their inputs, so a stale entry can never be served for
  changed records: different inputs, different key. TTL is a safety net.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/warp/finance-engine/cache"
	"github.com/warp/finance-engine/events"
	"github.com/warp/finance-engine/expense"
	"github.com/warp/finance-engine/finance"
	"github.com/warp/finance-engine/goal"
	"github.com/warp/finance-engine/income"
	"github.com/warp/finance-engine/invest"
	"github.com/warp/finance-engine/payoff"
)

// defaultUser is used when no X-User-ID header is present.
const defaultUser = "demo"

// computeCacheTTL bounds how long a computed result can be served; keys
// are input-hashed so TTL only limits cache growth, not staleness.
const computeCacheTTL = time.Hour

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store Store
	Cache cache.Repository
	Bus   *events.Bus
	Clock finance.Clock
	Log   zerolog.Logger

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler. A nil cache disables caching, a nil
// clock means system time.
func NewHandler(store Store, c cache.Repository, bus *events.Bus, clock finance.Clock, log zerolog.Logger) *Handler {
	if clock == nil {
		clock = finance.SystemClock{}
	}
	return &Handler{Store: store, Cache: c, Bus: bus, Clock: clock, Log: log}
}

// userID extracts the caller's user id from the X-User-ID header.
func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return defaultUser
}

func (h *Handler) publish(topic events.Topic, user string) {
	if h.Bus != nil {
		h.Bus.Publish(topic, user)
	}
}

// =============================================================================
// DEBT HANDLERS
// =============================================================================

// ListDebts returns the caller's debts.
func (h *Handler) ListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := h.Store.ListDebts(r.Context(), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list debts", err)
		return
	}

	dtos := make([]DebtDTO, len(debts))
	for i, d := range debts {
		dtos[i] = toDebtDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetDebt returns a single debt.
func (h *Handler) GetDebt(w http.ResponseWriter, r *http.Request) {
	d, err := h.Store.GetDebt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get debt", err)
		return
	}
	if d == nil || d.UserID != userID(r) {
		writeError(w, http.StatusNotFound, "Debt not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toDebtDTO(*d))
}

// CreateDebt creates a new debt.
func (h *Handler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	h.upsertDebt(w, r, uuid.NewString(), http.StatusCreated)
}

// UpdateDebt replaces an existing debt.
func (h *Handler) UpdateDebt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetDebt(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get debt", err)
		return
	}
	if existing == nil || existing.UserID != userID(r) {
		writeError(w, http.StatusNotFound, "Debt not found", nil)
		return
	}
	h.upsertDebt(w, r, id, http.StatusOK)
}

func (h *Handler) upsertDebt(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req UpsertDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.Balance < 0 || req.InterestRate < 0 || req.MinimumPayment < 0 {
		writeError(w, http.StatusBadRequest, "amounts must be non-negative", nil)
		return
	}

	d := payoff.Debt{
		ID:             id,
		UserID:         userID(r),
		Name:           req.Name,
		Balance:        decimal.NewFromFloat(req.Balance),
		InterestRate:   decimal.NewFromFloat(req.InterestRate),
		MinimumPayment: decimal.NewFromFloat(req.MinimumPayment),
	}
	if err := h.Store.SaveDebt(r.Context(), d); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save debt", err)
		return
	}
	h.publish(events.TopicDebtChanged, d.UserID)
	writeJSON(w, status, toDebtDTO(d))
}

// DeleteDebt removes a debt.
func (h *Handler) DeleteDebt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetDebt(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get debt", err)
		return
	}
	if existing == nil || existing.UserID != userID(r) {
		writeError(w, http.StatusNotFound, "Debt not found", nil)
		return
	}
	if err := h.Store.DeleteDebt(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete debt", err)
		return
	}
	h.publish(events.TopicDebtChanged, existing.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// Simulate runs the payoff strategies over the caller's debts.
// POST /api/debts/simulate
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ExtraPayment < 0 {
		writeError(w, http.StatusBadRequest, "extra_payment must be non-negative", nil)
		return
	}
	for _, s := range req.Strategies {
		if s != payoff.StrategyAvalanche && s != payoff.StrategySnowball && s != payoff.StrategyHybrid {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown strategy %q", s), nil)
			return
		}
	}

	ctx := r.Context()
	user := userID(r)
	debts, err := h.Store.ListDebts(ctx, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list debts", err)
		return
	}

	key := cache.Key("simulate", user, debtsFingerprint(debts), strconv.FormatFloat(req.ExtraPayment, 'f', -1, 64))
	if h.Cache != nil {
		if cached, ok := h.Cache.Get(ctx, key); ok {
			var resp SimulateResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				resp.Results = filterResults(resp.Results, req.Strategies)
				resp.Recommended = recommend(resp.Results)
				resp.Cached = true
				writeJSON(w, http.StatusOK, resp)
				return
			}
		}
	}

	results, err := payoff.Simulate(debts, decimal.NewFromFloat(req.ExtraPayment), h.Clock)
	if err != nil {
		status := http.StatusInternalServerError
		if finance.IsClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Simulation failed", err)
		return
	}

	full := SimulateResponse{Results: results, Recommended: recommend(results)}
	if h.Cache != nil {
		if payload, err := json.Marshal(full); err == nil {
			if err := h.Cache.Set(ctx, key, string(payload), computeCacheTTL); err != nil {
				h.Log.Warn().Err(err).Msg("cache write failed")
			}
		}
	}

	resp := SimulateResponse{Results: filterResults(results, req.Strategies)}
	resp.Recommended = recommend(resp.Results)
	writeJSON(w, http.StatusOK, resp)
}

func recommend(results []payoff.Result) payoff.Strategy {
	if best := payoff.Best(results); best != nil {
		return best.Strategy
	}
	return ""
}

func filterResults(results []payoff.Result, strategies []payoff.Strategy) []payoff.Result {
	if len(strategies) == 0 {
		return results
	}
	want := make(map[payoff.Strategy]bool, len(strategies))
	for _, s := range strategies {
		want[s] = true
	}
	var filtered []payoff.Result
	for _, res := range results {
		if want[res.Strategy] {
			filtered = append(filtered, res)
		}
	}
	return filtered
}

// debtsFingerprint folds every simulation-relevant debt field into the
// cache key.
func debtsFingerprint(debts []payoff.Debt) string {
	parts := make([]string, 0, len(debts))
	for _, d := range debts {
		parts = append(parts, d.ID+"|"+d.Balance.String()+"|"+d.InterestRate.String()+"|"+d.MinimumPayment.String())
	}
	payload, _ := json.Marshal(parts)
	return string(payload)
}

func toDebtDTO(d payoff.Debt) DebtDTO {
	dto := DebtDTO{
		ID:             d.ID,
		Name:           d.Name,
		Balance:        d.Balance.InexactFloat64(),
		InterestRate:   d.InterestRate.InexactFloat64(),
		MinimumPayment: d.MinimumPayment.InexactFloat64(),
	}
	if !d.CreatedAt.IsZero() {
		dto.CreatedAt = d.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// INCOME HANDLERS
// =============================================================================

// ListIncomes returns the caller's income sources.
func (h *Handler) ListIncomes(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListIncomes(r.Context(), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list incomes", err)
		return
	}
	if records == nil {
		records = []income.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

// GetIncome returns a single income source.
func (h *Handler) GetIncome(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetIncome(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get income", err)
		return
	}
	if rec == nil || rec.UserID != userID(r) {
		writeError(w, http.StatusNotFound, "Income not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// CreateIncome creates a new income source.
func (h *Handler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	h.upsertIncome(w, r, uuid.NewString(), http.StatusCreated)
}

// UpdateIncome replaces an existing income source.
func (h *Handler) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetIncome(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get income", err)
		return
	}
	if existing == nil || existing.UserID != userID(r) {
		writeError(w, http.StatusNotFound, "Income not found", nil)
		return
	}
	h.upsertIncome(w, r, id, http.StatusOK)
}

func (h *Handler) upsertIncome(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req UpsertIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	recurrence := income.Recurrence(req.Recurrence)
	if !recurrence.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown recurrence %q", req.Recurrence), nil)
		return
	}
	if req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "amount must be non-negative", nil)
		return
	}

	rec := income.Record{
		ID:          id,
		UserID:      userID(r),
		Name:        req.Name,
		Amount:      decimal.NewFromFloat(req.Amount),
		Recurrence:  recurrence,
		Category:    req.Category,
		Deductions:  toNamedAmounts(req.Deductions),
		SideHustles: toNamedAmounts(req.SideHustles),
	}
	if err := h.Store.SaveIncome(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save income", err)
		return
	}
	h.publish(events.TopicIncomeChanged, rec.UserID)
	writeJSON(w, status, rec)
}

// DeleteIncome removes an income source.
func (h *Handler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetIncome(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get income", err)
		return
	}
	if existing == nil || existing.UserID != userID(r) {
		writeError(w, http.StatusNotFound, "Income not found", nil)
		return
	}
	if err := h.Store.DeleteIncome(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete income", err)
		return
	}
	h.publish(events.TopicIncomeChanged, existing.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// Diversification returns the caller's income diversification score.
// GET /api/incomes/diversification
func (h *Handler) Diversification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userID(r)
	records, err := h.Store.ListIncomes(ctx, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list incomes", err)
		return
	}

	key := cache.Key("diversification", user, incomesFingerprint(records))
	if h.Cache != nil {
		if cached, ok := h.Cache.Get(ctx, key); ok {
			var resp DiversificationResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				resp.Cached = true
				writeJSON(w, http.StatusOK, resp)
				return
			}
		}
	}

	resp := DiversificationResponse{Score: income.ScoreDiversification(records)}
	if h.Cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := h.Cache.Set(ctx, key, string(payload), computeCacheTTL); err != nil {
				h.Log.Warn().Err(err).Msg("cache write failed")
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func incomesFingerprint(records []income.Record) string {
	parts := make([]string, 0, len(records))
	for _, rec := range records {
		parts = append(parts, rec.ID+"|"+rec.NetAmount().String()+"|"+string(rec.Recurrence)+"|"+rec.Category+"|"+strconv.Itoa(len(rec.SideHustles)))
	}
	payload, _ := json.Marshal(parts)
	return string(payload)
}

func toNamedAmounts(dtos []NamedAmountDTO) []finance.NamedAmount {
	if len(dtos) == 0 {
		return nil
	}
	amounts := make([]finance.NamedAmount, len(dtos))
	for i, dto := range dtos {
		amounts[i] = finance.NamedAmount{Name: dto.Name, Amount: decimal.NewFromFloat(dto.Amount)}
	}
	return amounts
}

// =============================================================================
// INVESTMENT HANDLERS
// =============================================================================

// ListInvestments returns the caller's positions with per-position
// performance attached.
func (h *Handler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	investments, err := h.Store.ListInvestments(r.Context(), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list investments", err)
		return
	}

	dtos := make([]InvestmentDTO, len(investments))
	for i, inv := range investments {
		dtos[i] = InvestmentDTO{Investment: inv, Performance: invest.Performance(inv, h.Clock)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetInvestment returns a single position with performance.
func (h *Handler) GetInvestment(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Store.GetInvestment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get investment", err)
		return
	}
	if inv == nil || inv.UserID != userID(r) {
		writeError(w, http.StatusNotFound, "Investment not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, InvestmentDTO{Investment: *inv, Performance: invest.Performance(*inv, h.Clock)})
}

// CreateInvestment creates a new position.
func (h *Handler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	h.upsertInvestment(w, r, uuid.NewString(), http.StatusCreated)
}

// UpdateInvestment replaces an existing position.
func (h *Handler) UpdateInvestment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetInvestment(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get investment", err)
		return
	}
	if existing == nil || existing.UserID != userID(r) {
		writeError(w, http.StatusNotFound, "Investment not found", nil)
		return
	}
	h.upsertInvestment(w, r, id, http.StatusOK)
}

func (h *Handler) upsertInvestment(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req UpsertInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	class := invest.AssetClass(req.AssetClass)
	if !class.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown asset_class %q", req.AssetClass), nil)
		return
	}
	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid purchase_date format (use YYYY-MM-DD)", err)
		return
	}
	if req.CostBasis < 0 || req.CurrentValue < 0 {
		writeError(w, http.StatusBadRequest, "amounts must be non-negative", nil)
		return
	}

	inv := invest.Investment{
		ID:           id,
		UserID:       userID(r),
		Name:         req.Name,
		AssetClass:   class,
		CostBasis:    decimal.NewFromFloat(req.CostBasis),
		CurrentValue: decimal.NewFromFloat(req.CurrentValue),
		PurchaseDate: purchaseDate,
	}
	if err := h.Store.SaveInvestment(r.Context(), inv); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save investment", err)
		return
	}
	h.publish(events.TopicInvestmentChanged, inv.UserID)
	writeJSON(w, status, InvestmentDTO{Investment: inv, Performance: invest.Performance(inv, h.Clock)})
}

// DeleteInvestment removes a position.
func (h *Handler) DeleteInvestment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetInvestment(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get investment", err)
		return
	}
	if existing == nil || existing.UserID != userID(r) {
		writeError(w, http.StatusNotFound, "Investment not found", nil)
		return
	}
	if err := h.Store.DeleteInvestment(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete investment", err)
		return
	}
	h.publish(events.TopicInvestmentChanged, existing.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// Performance returns the caller's portfolio aggregate with recent
// valuation history.
// GET /api/investments/performance
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userID(r)
	investments, err := h.Store.ListInvestments(ctx, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list investments", err)
		return
	}

	history, err := h.Store.ListPortfolioSnapshots(ctx, user, 90)
	if err != nil {
		h.Log.Warn().Err(err).Str("user", user).Msg("snapshot history unavailable")
		history = nil
	}

	writeJSON(w, http.StatusOK, PerformanceResponse{
		Overall: invest.OverallPerformance(investments, h.Clock),
		History: history,
	})
}

// =============================================================================
// EXPENSE HANDLERS
// =============================================================================

// ListExpenses returns the caller's expenses.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Store.ListExpenses(r.Context(), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list expenses", err)
		return
	}
	if expenses == nil {
		expenses = []expense.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

// CreateExpense logs a new expense.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	h.upsertExpense(w, r, uuid.NewString(), http.StatusCreated)
}

// UpdateExpense replaces an existing expense.
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get expense", err)
		return
	}
	if existing == nil || existing.UserID != userID(r) {
		writeError(w, http.StatusNotFound, "Expense not found", nil)
		return
	}
	h.upsertExpense(w, r, id, http.StatusOK)
}

func (h *Handler) upsertExpense(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req UpsertExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "description is required", nil)
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive", nil)
		return
	}
	if req.PaidBy == "" {
		writeError(w, http.StatusBadRequest, "paid_by is required", nil)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	e := expense.Expense{
		ID:           id,
		UserID:       userID(r),
		Description:  req.Description,
		Amount:       decimal.NewFromFloat(req.Amount),
		Category:     req.Category,
		Date:         date,
		PaidBy:       req.PaidBy,
		Participants: req.Participants,
	}
	if err := h.Store.SaveExpense(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save expense", err)
		return
	}
	h.publish(events.TopicExpenseChanged, e.UserID)
	writeJSON(w, status, e)
}

// DeleteExpense removes an expense.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get expense", err)
		return
	}
	if existing == nil || existing.UserID != userID(r) {
		writeError(w, http.StatusNotFound, "Expense not found", nil)
		return
	}
	if err := h.Store.DeleteExpense(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete expense", err)
		return
	}
	h.publish(events.TopicExpenseChanged, existing.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// SplitExpense returns the equal-share breakdown for one expense.
// GET /api/expenses/{id}/split
func (h *Handler) SplitExpense(w http.ResponseWriter, r *http.Request) {
	e, err := h.Store.GetExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get expense", err)
		return
	}
	if e == nil || e.UserID != userID(r) {
		writeError(w, http.StatusNotFound, "Expense not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, SplitResponse{ExpenseID: e.ID, Shares: expense.Split(*e)})
}

// Settlements returns the transfers that settle the caller's expenses.
// GET /api/expenses/settlements
func (h *Handler) Settlements(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Store.ListExpenses(r.Context(), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list expenses", err)
		return
	}
	transfers := expense.Settlements(expenses)
	if transfers == nil {
		transfers = []expense.Transfer{}
	}
	writeJSON(w, http.StatusOK, SettlementsResponse{Transfers: transfers})
}

// =============================================================================
// GOAL HANDLERS
// =============================================================================

// GoalWithProgress pairs a stored goal with its derived progress.
type GoalWithProgress struct {
	goal.Goal
	Progress goal.Progress `json:"progress"`
}

// ListGoals returns the caller's goals with progress attached.
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.Store.ListGoals(r.Context(), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list goals", err)
		return
	}

	dtos := make([]GoalWithProgress, len(goals))
	for i, g := range goals {
		dtos[i] = GoalWithProgress{Goal: g, Progress: goal.Calculate(g, h.Clock)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetGoal returns a single goal with progress.
func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := h.Store.GetGoal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get goal", err)
		return
	}
	if g == nil || g.UserID != userID(r) {
		writeError(w, http.StatusNotFound, "Goal not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, GoalWithProgress{Goal: *g, Progress: goal.Calculate(*g, h.Clock)})
}

// CreateGoal creates a new savings goal.
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	h.upsertGoal(w, r, uuid.NewString(), http.StatusCreated)
}

// UpdateGoal replaces an existing goal.
func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetGoal(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get goal", err)
		return
	}
	if existing == nil || existing.UserID != userID(r) {
		writeError(w, http.StatusNotFound, "Goal not found", nil)
		return
	}
	h.upsertGoal(w, r, id, http.StatusOK)
}

func (h *Handler) upsertGoal(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req UpsertGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.TargetAmount <= 0 {
		writeError(w, http.StatusBadRequest, "target_amount must be positive", nil)
		return
	}
	if req.SavedAmount < 0 {
		writeError(w, http.StatusBadRequest, "saved_amount must be non-negative", nil)
		return
	}
	targetDate, err := time.Parse("2006-01-02", req.TargetDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid target_date format (use YYYY-MM-DD)", err)
		return
	}

	g := goal.Goal{
		ID:           id,
		UserID:       userID(r),
		Name:         req.Name,
		TargetAmount: decimal.NewFromFloat(req.TargetAmount),
		SavedAmount:  decimal.NewFromFloat(req.SavedAmount),
		TargetDate:   targetDate,
	}
	if err := h.Store.SaveGoal(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save goal", err)
		return
	}
	h.publish(events.TopicGoalChanged, g.UserID)
	writeJSON(w, status, GoalWithProgress{Goal: g, Progress: goal.Calculate(g, h.Clock)})
}

// DeleteGoal removes a goal.
func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetGoal(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get goal", err)
		return
	}
	if existing == nil || existing.UserID != userID(r) {
		writeError(w, http.StatusNotFound, "Goal not found", nil)
		return
	}
	if err := h.Store.DeleteGoal(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete goal", err)
		return
	}
	h.publish(events.TopicGoalChanged, existing.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil && !errors.Is(err, finance.ErrNotFound) {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
