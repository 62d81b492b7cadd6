package domain

import "github.com/shopspring/decimal"

// DefaultPastMonths is how many months the history strip shows
const DefaultPastMonths = 5

// MonthComparison compares the selected month's spending with the month before
type MonthComparison struct {
	PreviousMonth MonthKey        `json:"previousMonth"`
	PreviousTotal decimal.Decimal `json:"previousTotal"`
	Difference    decimal.Decimal `json:"difference"`
	Percentage    decimal.Decimal `json:"percentage"`
	IsIncrease    bool            `json:"isIncrease"`
}

// DashboardSummary contains the home screen metrics for the current month
type DashboardSummary struct {
	Month             MonthKey         `json:"month"`
	Budget            decimal.Decimal  `json:"budget"`
	TotalExpenses     decimal.Decimal  `json:"totalExpenses"`
	RemainingBudget   decimal.Decimal  `json:"remainingBudget"`
	Savings           decimal.Decimal  `json:"savings"`
	SavingsPercentage int64            `json:"savingsPercentage"`
	ExpensePercentage int64            `json:"expensePercentage"`
	Comparison        *MonthComparison `json:"comparison,omitempty"`
	UpcomingBills     []UpcomingBill   `json:"upcomingBills"`
	Notifications     []Notification   `json:"notifications"`
}

// PastMonthSummary is one entry of the history strip
type PastMonthSummary struct {
	Month          MonthKey        `json:"month"`
	Label          string          `json:"label"`
	HasData        bool            `json:"hasData"`
	Budget         decimal.Decimal `json:"budget"`
	Expenses       decimal.Decimal `json:"expenses"`
	Savings        decimal.Decimal `json:"savings"`
	UsedPercentage int64           `json:"usedPercentage"`
}

// CategorySpending is spending against one category sub-budget
type CategorySpending struct {
	Category   ExpenseCategory `json:"category"`
	Spent      decimal.Decimal `json:"spent"`
	Budget     decimal.Decimal `json:"budget"`
	Percentage int64           `json:"percentage"`
}

// MonthOverview is the finance screen view of the selected month
type MonthOverview struct {
	Month               MonthKey           `json:"month"`
	Label               string             `json:"label"`
	Budget              decimal.Decimal    `json:"budget"`
	TotalExpenses       decimal.Decimal    `json:"totalExpenses"`
	RemainingBudget     decimal.Decimal    `json:"remainingBudget"`
	Savings             decimal.Decimal    `json:"savings"`
	SavingsGoal         decimal.Decimal    `json:"savingsGoal"`
	SavingsGoalProgress int64              `json:"savingsGoalProgress"`
	AllocatedBudget     decimal.Decimal    `json:"allocatedBudget"`
	UnallocatedBudget   decimal.Decimal    `json:"unallocatedBudget"`
	Categories          []CategorySpending `json:"categories"`
	Expenses            []Expense          `json:"expenses"`
	Editable            bool               `json:"editable"`
}
