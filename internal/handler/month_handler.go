package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// MonthHandler handles budget ledger HTTP requests
type MonthHandler struct {
	ledgerService    *service.LedgerService
	dashboardService *service.DashboardService
}

// NewMonthHandler creates a new MonthHandler
func NewMonthHandler(ledgerService *service.LedgerService, dashboardService *service.DashboardService) *MonthHandler {
	return &MonthHandler{
		ledgerService:    ledgerService,
		dashboardService: dashboardService,
	}
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Month    string `json:"month"`
}

// MonthResponse represents one month of the ledger in API responses
type MonthResponse struct {
	Month           string            `json:"month"`
	Label           string            `json:"label"`
	Editable        bool              `json:"editable"`
	Budget          string            `json:"budget"`
	SavingsGoal     string            `json:"savingsGoal"`
	CategoryBudgets map[string]string `json:"categoryBudgets"`
	Expenses        []ExpenseResponse `json:"expenses"`
	TotalExpenses   string            `json:"totalExpenses"`
	RemainingBudget string            `json:"remainingBudget"`
	Savings         string            `json:"savings"`
}

// MonthListItem is one entry of GET /months
type MonthListItem struct {
	Month    string `json:"month"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
	Current  bool   `json:"current"`
}

// CategorySpendingResponse represents spending against one category budget
type CategorySpendingResponse struct {
	Category   string `json:"category"`
	Spent      string `json:"spent"`
	Budget     string `json:"budget"`
	Percentage int64  `json:"percentage"`
}

// MonthOverviewResponse represents the finance overview of the selected month
type MonthOverviewResponse struct {
	Month               string                     `json:"month"`
	Label               string                     `json:"label"`
	Editable            bool                       `json:"editable"`
	Budget              string                     `json:"budget"`
	TotalExpenses       string                     `json:"totalExpenses"`
	RemainingBudget     string                     `json:"remainingBudget"`
	Savings             string                     `json:"savings"`
	SavingsGoal         string                     `json:"savingsGoal"`
	SavingsGoalProgress int64                      `json:"savingsGoalProgress"`
	AllocatedBudget     string                     `json:"allocatedBudget"`
	UnallocatedBudget   string                     `json:"unallocatedBudget"`
	Categories          []CategorySpendingResponse `json:"categories"`
	Expenses            []ExpenseResponse          `json:"expenses"`
}

// SwitchMonthRequest represents the PUT /months/selected body
type SwitchMonthRequest struct {
	Month string `json:"month"`
}

// UpdateBudgetRequest represents the PUT /months/selected/budget body
type UpdateBudgetRequest struct {
	Budget decimal.Decimal `json:"budget"`
}

// UpdateSavingsGoalRequest represents the PUT /months/selected/savings-goal body
type UpdateSavingsGoalRequest struct {
	SavingsGoal decimal.Decimal `json:"savingsGoal"`
}

// UpdateCategoryBudgetsRequest represents the PUT /months/selected/category-budgets body
type UpdateCategoryBudgetsRequest struct {
	CategoryBudgets map[domain.ExpenseCategory]decimal.Decimal `json:"categoryBudgets"`
}

// UpdateBudgetPlanRequest represents the PUT /months/selected/plan body
type UpdateBudgetPlanRequest struct {
	Budget          decimal.Decimal                            `json:"budget"`
	CategoryBudgets map[domain.ExpenseCategory]decimal.Decimal `json:"categoryBudgets"`
}

// UpdateExpensesRequest represents the PUT /months/selected/expenses body
type UpdateExpensesRequest struct {
	Expenses []domain.Expense `json:"expenses"`
}

// ExpenseRequest represents the body for creating or updating an expense
type ExpenseRequest struct {
	Name     string                 `json:"name"`
	Amount   decimal.Decimal        `json:"amount"`
	Category domain.ExpenseCategory `json:"category"`
	Date     string                 `json:"date"`
}

// GetMonths handles GET /api/v1/months
func (h *MonthHandler) GetMonths(c echo.Context) error {
	selected := h.ledgerService.SelectedMonth()
	current := h.ledgerService.CurrentMonth()

	keys := h.ledgerService.Months()
	response := make([]MonthListItem, len(keys))
	for i, k := range keys {
		response[i] = MonthListItem{
			Month:    k.String(),
			Label:    k.Label(),
			Selected: k == selected,
			Current:  k == current,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// GetSelected handles GET /api/v1/months/selected
func (h *MonthHandler) GetSelected(c echo.Context) error {
	return c.JSON(http.StatusOK, h.selectedResponse())
}

// SwitchMonth handles PUT /api/v1/months/selected
func (h *MonthHandler) SwitchMonth(c echo.Context) error {
	var req SwitchMonthRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	key, err := domain.ParseMonthKey(req.Month)
	if err != nil {
		return serviceError(c, err, "switch month")
	}
	if err := h.ledgerService.SwitchMonth(key); err != nil {
		return serviceError(c, err, "switch month")
	}
	return c.JSON(http.StatusOK, h.selectedResponse())
}

// ResetSelected handles POST /api/v1/months/selected/reset
func (h *MonthHandler) ResetSelected(c echo.Context) error {
	h.ledgerService.ResetToCurrentMonth()
	return c.JSON(http.StatusOK, h.selectedResponse())
}

// GetCurrent handles GET /api/v1/months/current
func (h *MonthHandler) GetCurrent(c echo.Context) error {
	key := h.ledgerService.CurrentMonth()
	return c.JSON(http.StatusOK, toMonthResponse(key, h.ledgerService.CurrentMonthData(), true))
}

// GetPrevious handles GET /api/v1/months/previous
func (h *MonthHandler) GetPrevious(c echo.Context) error {
	record, ok := h.ledgerService.PreviousMonthData()
	if !ok {
		return NewNotFoundError(c, "No data for the previous month")
	}
	key := h.ledgerService.SelectedMonth().Previous()
	return c.JSON(http.StatusOK, toMonthResponse(key, record, false))
}

// GetOverview handles GET /api/v1/months/overview
func (h *MonthHandler) GetOverview(c echo.Context) error {
	return c.JSON(http.StatusOK, toMonthOverviewResponse(h.dashboardService.MonthOverview()))
}

// UpdateBudget handles PUT /api/v1/months/selected/budget
func (h *MonthHandler) UpdateBudget(c echo.Context) error {
	var req UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := h.ledgerService.UpdateBudget(req.Budget); err != nil {
		if errors.Is(err, domain.ErrCategoryBudgetsExceedBudget) {
			err = fmt.Errorf("%w; lower the category budgets with it through PUT /api/v1/months/selected/plan", err)
		}
		return serviceError(c, err, "update budget")
	}
	return c.JSON(http.StatusOK, h.selectedResponse())
}

// UpdateSavingsGoal handles PUT /api/v1/months/selected/savings-goal
func (h *MonthHandler) UpdateSavingsGoal(c echo.Context) error {
	var req UpdateSavingsGoalRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := h.ledgerService.UpdateSavingsGoal(req.SavingsGoal); err != nil {
		return serviceError(c, err, "update savings goal")
	}
	return c.JSON(http.StatusOK, h.selectedResponse())
}

// UpdateCategoryBudgets handles PUT /api/v1/months/selected/category-budgets
func (h *MonthHandler) UpdateCategoryBudgets(c echo.Context) error {
	var req UpdateCategoryBudgetsRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := h.ledgerService.UpdateCategoryBudgets(req.CategoryBudgets); err != nil {
		return serviceError(c, err, "update category budgets")
	}
	return c.JSON(http.StatusOK, h.selectedResponse())
}

// UpdateBudgetPlan handles PUT /api/v1/months/selected/plan
func (h *MonthHandler) UpdateBudgetPlan(c echo.Context) error {
	var req UpdateBudgetPlanRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := h.ledgerService.UpdateBudgetPlan(req.Budget, req.CategoryBudgets); err != nil {
		return serviceError(c, err, "update budget plan")
	}
	return c.JSON(http.StatusOK, h.selectedResponse())
}

// ReplaceExpenses handles PUT /api/v1/months/selected/expenses
func (h *MonthHandler) ReplaceExpenses(c echo.Context) error {
	var req UpdateExpensesRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if req.Expenses == nil {
		req.Expenses = []domain.Expense{}
	}
	if err := h.ledgerService.UpdateMonthlyExpenses(req.Expenses); err != nil {
		return serviceError(c, err, "update expenses")
	}
	return c.JSON(http.StatusOK, h.selectedResponse())
}

// AddExpense handles POST /api/v1/months/selected/expenses
func (h *MonthHandler) AddExpense(c echo.Context) error {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	expense, err := h.ledgerService.AddExpense(req.toExpense(""))
	if err != nil {
		return serviceError(c, err, "add expense")
	}
	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// UpdateExpense handles PUT /api/v1/months/selected/expenses/:id
func (h *MonthHandler) UpdateExpense(c echo.Context) error {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	expense, err := h.ledgerService.UpdateExpense(req.toExpense(c.Param("id")))
	if err != nil {
		return serviceError(c, err, "update expense")
	}
	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// DeleteExpense handles DELETE /api/v1/months/selected/expenses/:id
func (h *MonthHandler) DeleteExpense(c echo.Context) error {
	if err := h.ledgerService.DeleteExpense(c.Param("id")); err != nil {
		return serviceError(c, err, "delete expense")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MonthHandler) selectedResponse() MonthResponse {
	key, record, editable := h.ledgerService.SelectedSnapshot()
	return toMonthResponse(key, record, editable)
}

func (r ExpenseRequest) toExpense(id string) domain.Expense {
	return domain.Expense{
		ID:       id,
		Name:     r.Name,
		Amount:   r.Amount,
		Category: r.Category,
		Date:     r.Date,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toExpenseResponse(e domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:       e.ID,
		Name:     e.Name,
		Amount:   money(e.Amount),
		Category: string(e.Category),
		Date:     e.Date,
		Month:    e.Month.String(),
	}
}

func toExpenseResponses(expenses []domain.Expense) []ExpenseResponse {
	response := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		response[i] = toExpenseResponse(e)
	}
	return response
}

func toMonthResponse(key domain.MonthKey, r domain.MonthRecord, editable bool) MonthResponse {
	budgets := make(map[string]string, len(r.CategoryBudgets))
	for k, v := range r.CategoryBudgets {
		budgets[string(k)] = money(v)
	}
	return MonthResponse{
		Month:           key.String(),
		Label:           key.Label(),
		Editable:        editable,
		Budget:          money(r.Budget),
		SavingsGoal:     money(r.SavingsGoal),
		CategoryBudgets: budgets,
		Expenses:        toExpenseResponses(r.Expenses),
		TotalExpenses:   money(r.TotalExpenses()),
		RemainingBudget: money(r.RemainingBudget()),
		Savings:         money(r.Savings()),
	}
}

func toMonthOverviewResponse(o domain.MonthOverview) MonthOverviewResponse {
	categories := make([]CategorySpendingResponse, len(o.Categories))
	for i, cs := range o.Categories {
		categories[i] = CategorySpendingResponse{
			Category:   string(cs.Category),
			Spent:      money(cs.Spent),
			Budget:     money(cs.Budget),
			Percentage: cs.Percentage,
		}
	}
	return MonthOverviewResponse{
		Month:               o.Month.String(),
		Label:               o.Label,
		Editable:            o.Editable,
		Budget:              money(o.Budget),
		TotalExpenses:       money(o.TotalExpenses),
		RemainingBudget:     money(o.RemainingBudget),
		Savings:             money(o.Savings),
		SavingsGoal:         money(o.SavingsGoal),
		SavingsGoalProgress: o.SavingsGoalProgress,
		AllocatedBudget:     money(o.AllocatedBudget),
		UnallocatedBudget:   money(o.UnallocatedBudget),
		Categories:          categories,
		Expenses:            toExpenseResponses(o.Expenses),
	}
}
