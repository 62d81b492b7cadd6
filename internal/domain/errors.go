package domain

import "errors"

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")

	// Persistence
	ErrKeyNotFound = errors.New("storage key not found")

	// Budget ledger
	ErrInvalidMonthKey             = errors.New("invalid month key, expected YYYY-MM")
	ErrInvalidBudget               = errors.New("budget must be a positive number")
	ErrInvalidSavingsGoal          = errors.New("savings goal must be a non-negative number")
	ErrInvalidCategoryBudgets      = errors.New("category budgets must contain exactly the six expense categories, each non-negative")
	ErrCategoryBudgetsExceedBudget = errors.New("category allocations exceed the budget")
	ErrInvalidMonthData            = errors.New("invalid month data structure")
	ErrInvalidExpense              = errors.New("invalid expense")
	ErrExpenseNotFound             = errors.New("expense not found")
	ErrHistoricalMonth             = errors.New("cannot modify expenses outside the current month")

	// Bills register
	ErrInvalidBill       = errors.New("invalid bill")
	ErrBillNotFound      = errors.New("bill not found")
	ErrBillAlreadyExists = errors.New("bill already exists")

	// Notifications
	ErrNotificationNotFound = errors.New("notification not found")

	// Profile
	ErrNameRequired = errors.New("name is required")
	ErrNameTooLong  = errors.New("name exceeds maximum length")
)

// Validation constants
const (
	MaxNameLength = 255
)
