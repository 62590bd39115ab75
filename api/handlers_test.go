package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/finance-engine/cache"
	"github.com/warp/finance-engine/events"
	"github.com/warp/finance-engine/finance"
	"github.com/warp/finance-engine/payoff"
	"github.com/warp/finance-engine/store/memory"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

func newTestHandler(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	log := zerolog.Nop()
	h := NewHandler(memory.New(), cache.NewMemory(), events.NewBus(log), finance.ClockAt(2026, 3, 1), log)
	return h, NewRouter(h)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

// =============================================================================
// DEBTS
// =============================================================================

func TestDebtCRUD(t *testing.T) {
	_, router := newTestHandler(t)

	// GIVEN a created debt
	rec := doJSON(t, router, http.MethodPost, "/api/debts", UpsertDebtRequest{
		Name: "Credit Card", Balance: 4200, InterestRate: 22.9, MinimumPayment: 120,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[DebtDTO](t, rec)
	require.NotEmpty(t, created.ID)

	// WHEN listing
	rec = doJSON(t, router, http.MethodGet, "/api/debts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[[]DebtDTO](t, rec)
	require.Len(t, listed, 1)
	assert.Equal(t, "Credit Card", listed[0].Name)
	assert.InDelta(t, 4200, listed[0].Balance, 0.001)

	// WHEN updating
	rec = doJSON(t, router, http.MethodPut, "/api/debts/"+created.ID, UpsertDebtRequest{
		Name: "Credit Card", Balance: 3900, InterestRate: 22.9, MinimumPayment: 120,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[DebtDTO](t, rec)
	assert.InDelta(t, 3900, updated.Balance, 0.001)

	// WHEN deleting
	rec = doJSON(t, router, http.MethodDelete, "/api/debts/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/debts/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDebtUserScoping(t *testing.T) {
	_, router := newTestHandler(t)

	rec := doJSON(t, router, http.MethodPost, "/api/debts", UpsertDebtRequest{
		Name: "Car Loan", Balance: 9000, InterestRate: 7, MinimumPayment: 200,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[DebtDTO](t, rec)

	// WHEN another user asks for it
	req := httptest.NewRequest(http.MethodGet, "/api/debts/"+created.ID, nil)
	req.Header.Set("X-User-ID", "someone-else")
	other := httptest.NewRecorder()
	router.ServeHTTP(other, req)

	// THEN it is invisible to them
	assert.Equal(t, http.StatusNotFound, other.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/debts", nil)
	req.Header.Set("X-User-ID", "someone-else")
	list := httptest.NewRecorder()
	router.ServeHTTP(list, req)
	assert.Len(t, decode[[]DebtDTO](t, list), 0)
}

func TestDebtValidation(t *testing.T) {
	_, router := newTestHandler(t)

	rec := doJSON(t, router, http.MethodPost, "/api/debts", UpsertDebtRequest{
		Name: "", Balance: 100, InterestRate: 5, MinimumPayment: 10,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/debts", UpsertDebtRequest{
		Name: "Negative", Balance: -100, InterestRate: 5, MinimumPayment: 10,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulate(t *testing.T) {
	_, router := newTestHandler(t)

	for _, d := range []UpsertDebtRequest{
		{Name: "High Rate", Balance: 5000, InterestRate: 20, MinimumPayment: 100},
		{Name: "Small", Balance: 1000, InterestRate: 5, MinimumPayment: 30},
	} {
		rec := doJSON(t, router, http.MethodPost, "/api/debts", d)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	// WHEN simulating all strategies
	rec := doJSON(t, router, http.MethodPost, "/api/debts/simulate", SimulateRequest{ExtraPayment: 150})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[SimulateResponse](t, rec)

	// THEN all three strategies report and avalanche is recommended
	require.Len(t, resp.Results, 3)
	assert.Equal(t, payoff.StrategyAvalanche, resp.Recommended)
	assert.False(t, resp.Cached)
	for _, res := range resp.Results {
		assert.Greater(t, res.MonthsToPayoff, 0)
		assert.Len(t, res.PayoffOrder, 2)
	}

	// AND a repeat request is served from cache
	rec = doJSON(t, router, http.MethodPost, "/api/debts/simulate", SimulateRequest{ExtraPayment: 150})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[SimulateResponse](t, rec).Cached)
}

func TestSimulateCacheKeyTracksDebtChanges(t *testing.T) {
	_, router := newTestHandler(t)

	rec := doJSON(t, router, http.MethodPost, "/api/debts", UpsertDebtRequest{
		Name: "Loan", Balance: 2000, InterestRate: 10, MinimumPayment: 60,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[DebtDTO](t, rec)

	first := decode[SimulateResponse](t, doJSON(t, router, http.MethodPost, "/api/debts/simulate", SimulateRequest{}))
	require.False(t, first.Cached)

	// WHEN the debt changes
	rec = doJSON(t, router, http.MethodPut, "/api/debts/"+created.ID, UpsertDebtRequest{
		Name: "Loan", Balance: 1000, InterestRate: 10, MinimumPayment: 60,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// THEN the next simulation recomputes instead of serving stale data
	second := decode[SimulateResponse](t, doJSON(t, router, http.MethodPost, "/api/debts/simulate", SimulateRequest{}))
	assert.False(t, second.Cached)
	assert.Less(t, second.Results[0].MonthsToPayoff, first.Results[0].MonthsToPayoff)
}

func TestSimulateStrategyFilter(t *testing.T) {
	_, router := newTestHandler(t)

	rec := doJSON(t, router, http.MethodPost, "/api/debts", UpsertDebtRequest{
		Name: "Loan", Balance: 2000, InterestRate: 10, MinimumPayment: 60,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/debts/simulate", SimulateRequest{
		Strategies: []payoff.Strategy{payoff.StrategySnowball},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[SimulateResponse](t, rec)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, payoff.StrategySnowball, resp.Results[0].Strategy)
	assert.Equal(t, payoff.StrategySnowball, resp.Recommended)

	rec = doJSON(t, router, http.MethodPost, "/api/debts/simulate", SimulateRequest{
		Strategies: []payoff.Strategy{"doubler"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// INCOMES
// =============================================================================

func TestIncomeDiversificationEndpoint(t *testing.T) {
	_, router := newTestHandler(t)

	for _, r := range []UpsertIncomeRequest{
		{Name: "Salary", Amount: 5000, Recurrence: "monthly", Category: "Employment"},
		{Name: "Freelance", Amount: 1200, Recurrence: "monthly", Category: "Freelance"},
		{Name: "Dividends", Amount: 900, Recurrence: "quarterly", Category: "Investments"},
	} {
		rec := doJSON(t, router, http.MethodPost, "/api/incomes", r)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := doJSON(t, router, http.MethodGet, "/api/incomes/diversification", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[DiversificationResponse](t, rec)

	assert.Equal(t, 3, resp.Score.SourceCount)
	assert.Greater(t, resp.Score.OverallScore, 25)
	assert.LessOrEqual(t, resp.Score.OverallScore, 100)
	assert.Len(t, resp.Score.Breakdown, 3)
	assert.False(t, resp.Cached)

	// Second read comes from cache
	rec = doJSON(t, router, http.MethodGet, "/api/incomes/diversification", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[DiversificationResponse](t, rec).Cached)
}

func TestIncomeRejectsUnknownRecurrence(t *testing.T) {
	_, router := newTestHandler(t)

	rec := doJSON(t, router, http.MethodPost, "/api/incomes", UpsertIncomeRequest{
		Name: "Salary", Amount: 5000, Recurrence: "fortnightly",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// INVESTMENTS
// =============================================================================

func TestInvestmentPerformanceEndpoint(t *testing.T) {
	_, router := newTestHandler(t)

	for _, r := range []UpsertInvestmentRequest{
		{Name: "Index Fund", AssetClass: "stocks", CostBasis: 10000, CurrentValue: 12000, PurchaseDate: "2024-03-01"},
		{Name: "Savings", AssetClass: "cash", CostBasis: 5000, CurrentValue: 5100, PurchaseDate: "2025-03-01"},
	} {
		rec := doJSON(t, router, http.MethodPost, "/api/investments", r)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		dto := decode[InvestmentDTO](t, rec)
		assert.NotEmpty(t, dto.ID)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/investments/performance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[PerformanceResponse](t, rec)

	assert.Equal(t, "15000", resp.Overall.TotalCostBasis.String())
	assert.Equal(t, "17100", resp.Overall.TotalValue.String())
	assert.Greater(t, resp.Overall.PercentReturn, 0.0)
	assert.InDelta(t, 70.2, resp.Overall.Allocation["stocks"], 0.1)
}

func TestInvestmentRejectsUnknownAssetClass(t *testing.T) {
	_, router := newTestHandler(t)

	rec := doJSON(t, router, http.MethodPost, "/api/investments", UpsertInvestmentRequest{
		Name: "Beanie Babies", AssetClass: "collectibles", CostBasis: 100, CurrentValue: 5, PurchaseDate: "2020-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// EXPENSES
// =============================================================================

func TestExpenseSplitAndSettlements(t *testing.T) {
	_, router := newTestHandler(t)

	rec := doJSON(t, router, http.MethodPost, "/api/expenses", UpsertExpenseRequest{
		Description: "Rent", Amount: 90, Date: "2026-02-01", PaidBy: "ana",
		Participants: []string{"ana", "ben", "cho"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// WHEN splitting
	rec = doJSON(t, router, http.MethodGet, "/api/expenses/"+created.ID+"/split", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	split := decode[SplitResponse](t, rec)
	require.Len(t, split.Shares, 3)
	for _, share := range split.Shares {
		assert.Equal(t, "30", share.Amount.String())
	}

	// WHEN settling
	rec = doJSON(t, router, http.MethodGet, "/api/expenses/settlements", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	settle := decode[SettlementsResponse](t, rec)
	require.Len(t, settle.Transfers, 2)
	for _, tr := range settle.Transfers {
		assert.Equal(t, "ana", tr.To)
		assert.Equal(t, "30", tr.Amount.String())
	}
}

// =============================================================================
// GOALS
// =============================================================================

func TestGoalProgressEmbedded(t *testing.T) {
	_, router := newTestHandler(t)

	// Clock is fixed at 2026-03-01; goal due in 10 months.
	rec := doJSON(t, router, http.MethodPost, "/api/goals", UpsertGoalRequest{
		Name: "Emergency Fund", TargetAmount: 10000, SavedAmount: 2500, TargetDate: "2027-01-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[GoalWithProgress](t, rec)

	assert.InDelta(t, 25.0, created.Progress.Percent, 0.001)
	assert.Equal(t, 10, created.Progress.MonthsRemaining)
	assert.Equal(t, "750", created.Progress.RequiredMonthly.String())

	rec = doJSON(t, router, http.MethodGet, "/api/goals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[[]GoalWithProgress](t, rec)
	require.Len(t, listed, 1)
	assert.Equal(t, "Emergency Fund", listed[0].Name)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestScenarioLoadAndReset(t *testing.T) {
	_, router := newTestHandler(t)

	rec := doJSON(t, router, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]ScenarioDTO](t, rec), 4)

	rec = doJSON(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "fresh-graduate"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/debts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]DebtDTO](t, rec), 3)

	rec = doJSON(t, router, http.MethodGet, "/api/scenarios/current", nil)
	assert.JSONEq(t, `{"scenario_id":"fresh-graduate"}`, rec.Body.String())

	// WHEN resetting
	rec = doJSON(t, router, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/debts", nil)
	assert.Len(t, decode[[]DebtDTO](t, rec), 0)
}

func TestScenarioUnknownID(t *testing.T) {
	_, router := newTestHandler(t)

	rec := doJSON(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
