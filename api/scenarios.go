/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates records for the demo
	user that exercise a specific engine.

AVAILABLE SCENARIOS:

	fresh-graduate:  Student loan + credit card, shows strategy divergence
	side-hustler:    Salary plus freelance and rental income streams
	investor:        Mixed-class portfolio with gains and one loser
	roommates:       Shared expenses with an uneven settlement graph

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Insert records for the demo user
 3. Clients then call the compute endpoints against them

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "fresh-graduate"}

NOTE:

	Scenarios reset the database. Only use in development/demo
	environments.

SEE ALSO:
  - handlers.go: CRUD endpoints the scenarios feed
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/warp/finance-engine/expense"
	"github.com/warp/finance-engine/finance"
	"github.com/warp/finance-engine/goal"
	"github.com/warp/finance-engine/income"
	"github.com/warp/finance-engine/invest"
	"github.com/warp/finance-engine/payoff"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "fresh-graduate",
		Name:        "Fresh Graduate",
		Description: "Student loan, credit card, and car loan with distinct rates and balances",
	},
	{
		ID:          "side-hustler",
		Name:        "Side Hustler",
		Description: "Salary plus freelance, rental, and dividend income streams",
	},
	{
		ID:          "investor",
		Name:        "Investor",
		Description: "Mixed-class portfolio with long-held winners and one loser",
	},
	{
		ID:          "roommates",
		Name:        "Roommates",
		Description: "Shared household expenses with an uneven settlement graph",
	},
}

// ListScenarios returns the available demo scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the most recently loaded scenario id.
// GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": h.currentScenario})
}

// LoadScenario resets the database and loads the requested scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	var load func(context.Context, *Handler) error
	switch req.ScenarioID {
	case "fresh-graduate":
		load = loadFreshGraduateScenario
	case "side-hustler":
		load = loadSideHustlerScenario
	case "investor":
		load = loadInvestorScenario
	case "roommates":
		load = loadRoommatesScenario
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario: "+req.ScenarioID, nil)
		return
	}

	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	if err := load(ctx, h); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	h.Log.Info().Str("scenario", req.ScenarioID).Msg("scenario loaded")
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario_id": req.ScenarioID})
}

// ResetDatabase wipes all data.
// POST /api/scenarios/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// LOADERS
// =============================================================================

func loadFreshGraduateScenario(ctx context.Context, h *Handler) error {
	debts := []payoff.Debt{
		{
			ID: "debt-student-loan", UserID: defaultUser, Name: "Student Loan",
			Balance:        finance.MustDecimal("28000"),
			InterestRate:   finance.MustDecimal("5.5"),
			MinimumPayment: finance.MustDecimal("310"),
		},
		{
			ID: "debt-credit-card", UserID: defaultUser, Name: "Credit Card",
			Balance:        finance.MustDecimal("4200"),
			InterestRate:   finance.MustDecimal("22.9"),
			MinimumPayment: finance.MustDecimal("120"),
		},
		{
			ID: "debt-car-loan", UserID: defaultUser, Name: "Car Loan",
			Balance:        finance.MustDecimal("11500"),
			InterestRate:   finance.MustDecimal("7.1"),
			MinimumPayment: finance.MustDecimal("245"),
		},
	}
	for _, d := range debts {
		if err := h.Store.SaveDebt(ctx, d); err != nil {
			return err
		}
	}

	// A single salary so the diversification score shows its floor.
	return h.Store.SaveIncome(ctx, income.Record{
		ID: "income-salary", UserID: defaultUser, Name: "Salary",
		Amount:     finance.MustDecimal("4800"),
		Recurrence: income.RecurrenceMonthly,
		Category:   "Employment",
		Deductions: []finance.NamedAmount{
			{Name: "401k", Amount: finance.MustDecimal("300")},
			{Name: "Health insurance", Amount: finance.MustDecimal("180")},
		},
	})
}

func loadSideHustlerScenario(ctx context.Context, h *Handler) error {
	records := []income.Record{
		{
			ID: "income-salary", UserID: defaultUser, Name: "Salary",
			Amount:     finance.MustDecimal("5200"),
			Recurrence: income.RecurrenceMonthly,
			Category:   "Employment",
		},
		{
			ID: "income-freelance", UserID: defaultUser, Name: "Freelance Design",
			Amount:     finance.MustDecimal("900"),
			Recurrence: income.RecurrenceMonthly,
			Category:   "Freelance",
			SideHustles: []finance.NamedAmount{
				{Name: "Logo commissions", Amount: finance.MustDecimal("150")},
			},
		},
		{
			ID: "income-rental", UserID: defaultUser, Name: "Spare Room",
			Amount:     finance.MustDecimal("650"),
			Recurrence: income.RecurrenceMonthly,
			Category:   "Rental",
		},
		{
			ID: "income-dividends", UserID: defaultUser, Name: "Index Fund Dividends",
			Amount:     finance.MustDecimal("420"),
			Recurrence: income.RecurrenceQuarterly,
			Category:   "Investments",
		},
	}
	for _, rec := range records {
		if err := h.Store.SaveIncome(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func loadInvestorScenario(ctx context.Context, h *Handler) error {
	now := h.Clock.Now()
	positions := []invest.Investment{
		{
			ID: "inv-index-fund", UserID: defaultUser, Name: "Total Market Index",
			AssetClass:   invest.AssetStocks,
			CostBasis:    finance.MustDecimal("25000"),
			CurrentValue: finance.MustDecimal("34200"),
			PurchaseDate: now.AddDate(-3, 0, 0),
		},
		{
			ID: "inv-bond-fund", UserID: defaultUser, Name: "Aggregate Bond Fund",
			AssetClass:   invest.AssetBonds,
			CostBasis:    finance.MustDecimal("10000"),
			CurrentValue: finance.MustDecimal("10450"),
			PurchaseDate: now.AddDate(-2, 0, 0),
		},
		{
			ID: "inv-crypto", UserID: defaultUser, Name: "Crypto Basket",
			AssetClass:   invest.AssetAlternatives,
			CostBasis:    finance.MustDecimal("3000"),
			CurrentValue: finance.MustDecimal("1850"),
			PurchaseDate: now.AddDate(-1, -6, 0),
		},
		{
			ID: "inv-cash", UserID: defaultUser, Name: "High-Yield Savings",
			AssetClass:   invest.AssetCash,
			CostBasis:    finance.MustDecimal("8000"),
			CurrentValue: finance.MustDecimal("8320"),
			PurchaseDate: now.AddDate(-1, 0, 0),
		},
	}
	for _, inv := range positions {
		if err := h.Store.SaveInvestment(ctx, inv); err != nil {
			return err
		}
	}

	return h.Store.SaveGoal(ctx, goal.Goal{
		ID: "goal-house", UserID: defaultUser, Name: "House Down Payment",
		TargetAmount: finance.MustDecimal("60000"),
		SavedAmount:  finance.MustDecimal("22500"),
		TargetDate:   now.AddDate(2, 6, 0),
		CreatedAt:    now.AddDate(-1, 0, 0),
	})
}

func loadRoommatesScenario(ctx context.Context, h *Handler) error {
	now := h.Clock.Now()
	expenses := []expense.Expense{
		{
			ID: "exp-rent", UserID: defaultUser, Description: "October Rent",
			Amount: finance.MustDecimal("2400"), Category: "Housing",
			Date: now.AddDate(0, 0, -20), PaidBy: "ana",
			Participants: []string{"ana", "ben", "cho"},
		},
		{
			ID: "exp-groceries", UserID: defaultUser, Description: "Groceries",
			Amount: finance.MustDecimal("187.45"), Category: "Food",
			Date: now.AddDate(0, 0, -12), PaidBy: "ben",
			Participants: []string{"ana", "ben", "cho"},
		},
		{
			ID: "exp-internet", UserID: defaultUser, Description: "Internet",
			Amount: finance.MustDecimal("80"), Category: "Utilities",
			Date: now.AddDate(0, 0, -8), PaidBy: "cho",
			Participants: []string{"ana", "ben", "cho"},
		},
		{
			ID: "exp-dinner", UserID: defaultUser, Description: "Team Dinner",
			Amount: finance.MustDecimal("96"), Category: "Food",
			Date: now.AddDate(0, 0, -3), PaidBy: "ana",
			Participants: []string{"ana", "ben"},
		},
	}
	for _, e := range expenses {
		if err := h.Store.SaveExpense(ctx, e); err != nil {
			return err
		}
	}

	return h.Store.SaveGoal(ctx, goal.Goal{
		ID: "goal-vacation", UserID: defaultUser, Name: "Group Vacation",
		TargetAmount: finance.MustDecimal("3600"),
		SavedAmount:  finance.MustDecimal("1400"),
		TargetDate:   now.AddDate(0, 8, 0),
		CreatedAt:    now.AddDate(0, -2, 0),
	})
}
