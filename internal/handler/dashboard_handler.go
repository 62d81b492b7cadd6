package handler

import (
	"net/http"
	"strconv"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	billsService     *service.BillsService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService, billsService *service.BillsService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		billsService:     billsService,
	}
}

// ComparisonResponse represents the month-over-month spending comparison
type ComparisonResponse struct {
	PreviousMonth string `json:"previousMonth"`
	PreviousTotal string `json:"previousTotal"`
	Difference    string `json:"difference"`
	Percentage    string `json:"percentage"`
	IsIncrease    bool   `json:"isIncrease"`
}

// DashboardSummaryResponse represents the dashboard summary API response
type DashboardSummaryResponse struct {
	Month             string                 `json:"month"`
	Label             string                 `json:"label"`
	Budget            string                 `json:"budget"`
	TotalExpenses     string                 `json:"totalExpenses"`
	RemainingBudget   string                 `json:"remainingBudget"`
	Savings           string                 `json:"savings"`
	SavingsPercentage int64                  `json:"savingsPercentage"`
	ExpensePercentage int64                  `json:"expensePercentage"`
	Comparison        *ComparisonResponse    `json:"comparison,omitempty"`
	UpcomingBills     []UpcomingBillResponse `json:"upcomingBills"`
	Notifications     []NotificationResponse `json:"notifications"`
}

// PastMonthResponse represents one entry of the month history
type PastMonthResponse struct {
	Month          string `json:"month"`
	Label          string `json:"label"`
	HasData        bool   `json:"hasData"`
	Budget         string `json:"budget"`
	Expenses       string `json:"expenses"`
	Savings        string `json:"savings"`
	UsedPercentage int64  `json:"usedPercentage"`
}

// GetSummary handles GET /api/v1/dashboard/summary
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	summary := h.dashboardService.Summary()

	upcoming := make([]UpcomingBillResponse, len(summary.UpcomingBills))
	for i, u := range summary.UpcomingBills {
		upcoming[i] = UpcomingBillResponse{
			BillResponse: toBillResponse(u.Bill, h.billsService.NextDueDate(u.Bill)),
			DaysUntilDue: u.DaysUntilDue,
		}
	}

	response := DashboardSummaryResponse{
		Month:             summary.Month.String(),
		Label:             summary.Month.Label(),
		Budget:            money(summary.Budget),
		TotalExpenses:     money(summary.TotalExpenses),
		RemainingBudget:   money(summary.RemainingBudget),
		Savings:           money(summary.Savings),
		SavingsPercentage: summary.SavingsPercentage,
		ExpensePercentage: summary.ExpensePercentage,
		UpcomingBills:     upcoming,
		Notifications:     toNotificationResponses(summary.Notifications),
	}
	if cmp := summary.Comparison; cmp != nil {
		response.Comparison = &ComparisonResponse{
			PreviousMonth: cmp.PreviousMonth.String(),
			PreviousTotal: money(cmp.PreviousTotal),
			Difference:    money(cmp.Difference),
			Percentage:    cmp.Percentage.StringFixed(1),
			IsIncrease:    cmp.IsIncrease,
		}
	}

	return c.JSON(http.StatusOK, response)
}

// GetPastMonths handles GET /api/v1/dashboard/past-months?count=n
func (h *DashboardHandler) GetPastMonths(c echo.Context) error {
	count := domain.DefaultPastMonths
	if countStr := c.QueryParam("count"); countStr != "" {
		parsed, err := strconv.Atoi(countStr)
		if err != nil || parsed < 1 || parsed > service.MaxPastMonths {
			return NewValidationError(c, "Invalid count", []ValidationError{
				{Field: "count", Message: "Must be between 1 and " + strconv.Itoa(service.MaxPastMonths)},
			})
		}
		count = parsed
	}

	months := h.dashboardService.PastMonths(count)
	response := make([]PastMonthResponse, len(months))
	for i, m := range months {
		response[i] = PastMonthResponse{
			Month:          m.Month.String(),
			Label:          m.Label,
			HasData:        m.HasData,
			Budget:         money(m.Budget),
			Expenses:       money(m.Expenses),
			Savings:        money(m.Savings),
			UsedPercentage: m.UsedPercentage,
		}
	}
	return c.JSON(http.StatusOK, response)
}
