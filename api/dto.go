/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

AMOUNTS:
  Request bodies carry amounts as JSON numbers (float64); handlers
  convert to decimal at the boundary. Responses render decimals through
  shopspring's marshaller (quoted strings), so no precision is lost on
  the way out.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/warp/finance-engine/expense"
	"github.com/warp/finance-engine/income"
	"github.com/warp/finance-engine/invest"
	"github.com/warp/finance-engine/payoff"
)

// =============================================================================
// DEBTS
// =============================================================================

// DebtDTO represents a debt in API responses.
type DebtDTO struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Balance        float64 `json:"balance"`
	InterestRate   float64 `json:"interest_rate"`
	MinimumPayment float64 `json:"minimum_payment"`
	CreatedAt      string  `json:"created_at,omitempty"`
}

// UpsertDebtRequest is the request to create or update a debt.
type UpsertDebtRequest struct {
	Name           string  `json:"name"`
	Balance        float64 `json:"balance"`
	InterestRate   float64 `json:"interest_rate"`
	MinimumPayment float64 `json:"minimum_payment"`
}

// SimulateRequest is the request to run payoff strategy simulations.
type SimulateRequest struct {
	ExtraPayment float64           `json:"extra_payment"`
	Strategies   []payoff.Strategy `json:"strategies,omitempty"` // empty = all
}

// SimulateResponse holds one result per strategy plus the recommendation.
type SimulateResponse struct {
	Results     []payoff.Result `json:"results"`
	Recommended payoff.Strategy `json:"recommended"`
	Cached      bool            `json:"cached"`
}

// =============================================================================
// INCOMES
// =============================================================================

// UpsertIncomeRequest is the request to create or update an income source.
type UpsertIncomeRequest struct {
	Name        string           `json:"name"`
	Amount      float64          `json:"amount"`
	Recurrence  string           `json:"recurrence"`
	Category    string           `json:"category,omitempty"`
	Deductions  []NamedAmountDTO `json:"deductions,omitempty"`
	SideHustles []NamedAmountDTO `json:"side_hustles,omitempty"`
}

// NamedAmountDTO is a labelled amount inside an income request.
type NamedAmountDTO struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// DiversificationResponse wraps the income diversification score.
type DiversificationResponse struct {
	Score  income.Score `json:"score"`
	Cached bool         `json:"cached"`
}

// =============================================================================
// INVESTMENTS
// =============================================================================

// UpsertInvestmentRequest is the request to create or update a position.
type UpsertInvestmentRequest struct {
	Name         string  `json:"name"`
	AssetClass   string  `json:"asset_class"`
	CostBasis    float64 `json:"cost_basis"`
	CurrentValue float64 `json:"current_value"`
	PurchaseDate string  `json:"purchase_date"` // YYYY-MM-DD
}

// InvestmentDTO pairs a position with its derived performance.
type InvestmentDTO struct {
	invest.Investment
	Performance invest.Snapshot `json:"performance"`
}

// PerformanceResponse wraps the portfolio aggregate.
type PerformanceResponse struct {
	Overall invest.Overall        `json:"overall"`
	History []invest.HistoryPoint `json:"history,omitempty"`
}

// =============================================================================
// EXPENSES
// =============================================================================

// UpsertExpenseRequest is the request to log a shared expense.
type UpsertExpenseRequest struct {
	Description  string   `json:"description"`
	Amount       float64  `json:"amount"`
	Category     string   `json:"category,omitempty"`
	Date         string   `json:"date"` // YYYY-MM-DD
	PaidBy       string   `json:"paid_by"`
	Participants []string `json:"participants"`
}

// SplitResponse is the per-person breakdown of one expense.
type SplitResponse struct {
	ExpenseID string          `json:"expense_id"`
	Shares    []expense.Share `json:"shares"`
}

// SettlementsResponse is the suggested transfer set for a user's expenses.
type SettlementsResponse struct {
	Transfers []expense.Transfer `json:"transfers"`
}

// =============================================================================
// GOALS
// =============================================================================

// UpsertGoalRequest is the request to create or update a savings goal.
type UpsertGoalRequest struct {
	Name         string  `json:"name"`
	TargetAmount float64 `json:"target_amount"`
	SavedAmount  float64 `json:"saved_amount"`
	TargetDate   string  `json:"target_date"` // YYYY-MM-DD
}

// =============================================================================
// SCENARIOS / ERRORS
// =============================================================================

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
