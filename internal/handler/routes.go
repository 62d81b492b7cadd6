package handler

import (
	"github.com/ebudgetmo/ebudgetmo-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers groups every API handler
type Handlers struct {
	Months        *MonthHandler
	Bills         *BillsHandler
	Notifications *NotificationHandler
	Dashboard     *DashboardHandler
	Profile       *ProfileHandler
	WebSocket     *WebSocketHandler
}

// RegisterRoutes sets up all API routes. A nil authMiddleware leaves routes open.
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	// Live updates authenticate with a query token, outside the API group
	if h.WebSocket != nil {
		e.GET("/ws", h.WebSocket.HandleWS)
	}

	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	if rateLimiter != nil {
		api.Use(middleware.RateLimitMiddleware(rateLimiter))
	}

	// Budget ledger
	months := api.Group("/months")
	months.GET("", h.Months.GetMonths)
	months.GET("/current", h.Months.GetCurrent)
	months.GET("/previous", h.Months.GetPrevious)
	months.GET("/overview", h.Months.GetOverview)
	months.GET("/selected", h.Months.GetSelected)
	months.PUT("/selected", h.Months.SwitchMonth)
	months.POST("/selected/reset", h.Months.ResetSelected)
	months.PUT("/selected/budget", h.Months.UpdateBudget)
	months.PUT("/selected/savings-goal", h.Months.UpdateSavingsGoal)
	months.PUT("/selected/category-budgets", h.Months.UpdateCategoryBudgets)
	months.PUT("/selected/plan", h.Months.UpdateBudgetPlan)
	months.PUT("/selected/expenses", h.Months.ReplaceExpenses)
	months.POST("/selected/expenses", h.Months.AddExpense)
	months.PUT("/selected/expenses/:id", h.Months.UpdateExpense)
	months.DELETE("/selected/expenses/:id", h.Months.DeleteExpense)

	// Bills register
	bills := api.Group("/bills")
	bills.GET("", h.Bills.GetBills)
	bills.POST("", h.Bills.CreateBill)
	bills.GET("/upcoming", h.Bills.GetUpcoming)
	bills.POST("/refresh", h.Bills.Refresh)
	bills.GET("/:id", h.Bills.GetBill)
	bills.PUT("/:id", h.Bills.UpdateBill)
	bills.DELETE("/:id", h.Bills.DeleteBill)

	// Notifications
	notifications := api.Group("/notifications")
	notifications.GET("", h.Notifications.GetNotifications)
	notifications.DELETE("", h.Notifications.ClearNotifications)
	notifications.DELETE("/:id", h.Notifications.DismissNotification)

	// Dashboard
	dashboard := api.Group("/dashboard")
	dashboard.GET("/summary", h.Dashboard.GetSummary)
	dashboard.GET("/past-months", h.Dashboard.GetPastMonths)

	// Onboarding and profile
	api.GET("/onboarding", h.Profile.GetOnboarding)
	api.POST("/onboarding", h.Profile.CompleteOnboarding)
	api.DELETE("/onboarding", h.Profile.ResetOnboarding)
	profile := api.Group("/profile")
	profile.GET("", h.Profile.GetProfile)
	profile.PUT("", h.Profile.UpdateProfile)
	profile.PUT("/avatar", h.Profile.UploadAvatar)
	profile.DELETE("/avatar", h.Profile.DeleteAvatar)
}
