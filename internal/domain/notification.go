package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotificationType distinguishes bill reminders from budget alerts
type NotificationType string

const (
	NotificationTypeBill   NotificationType = "bill"
	NotificationTypeBudget NotificationType = "budget"
)

// Fixed notification ids and thresholds
const (
	NotificationIDBudgetWarning  = "budget-warning"
	NotificationIDBudgetExceeded = "budget-exceeded"
	NotificationCategoryBudget   = "budget"

	BillReminderDays = 3
	UpcomingBillDays = 7
	UpcomingBillMax  = 3
)

// Budget usage thresholds in percent
var (
	BudgetWarningPercent  = decimal.NewFromInt(80)
	BudgetExceededPercent = decimal.NewFromInt(100)
)

// Notification is a derived, transient alert. It is never persisted.
type Notification struct {
	ID         string           `json:"id"`
	Type       NotificationType `json:"type"`
	Category   string           `json:"category"`
	Message    string           `json:"message"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	Read       bool             `json:"read"`
	Timestamp  time.Time        `json:"timestamp"`
}
