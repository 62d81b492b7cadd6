package service

import (
	"context"
	"testing"
	"time"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDashboard(t *testing.T) (*DashboardService, *LedgerService, *BillsService) {
	t.Helper()
	store := testutil.NewMockKVStore()
	clock := testutil.NewFixedClock(ledgerNow)
	ledger := NewLedgerService(store, clock, zerolog.Nop())
	ledger.Load(context.Background())
	bills := NewBillsService(store, clock, domain.BillRolloverMonthly, zerolog.Nop())
	bills.Load(context.Background())
	notifications := NewNotificationService(ledger, bills, clock)
	ledger.SetEventPublisher(notifications)
	bills.SetEventPublisher(notifications)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = ledger.Flush(ctx)
		_ = bills.Flush(ctx)
	})
	return NewDashboardService(ledger, bills, notifications), ledger, bills
}

func TestDashboardService_SummaryResetsToCurrentMonth(t *testing.T) {
	dash, ledger, _ := setupDashboard(t)
	require.NoError(t, ledger.SwitchMonth("2025-04"))

	summary := dash.Summary()

	assert.Equal(t, domain.MonthKey("2025-05"), summary.Month)
	assert.Equal(t, domain.MonthKey("2025-05"), ledger.SelectedMonth())
}

func TestDashboardService_SummaryTotals(t *testing.T) {
	dash, ledger, bills := setupDashboard(t)
	_, err := ledger.AddExpense(domain.Expense{Name: "Lunch", Amount: decimal.NewFromInt(250), Category: domain.ExpenseCategoryFood, Date: "2025-05-10"})
	require.NoError(t, err)
	_, err = bills.AddBill(newBill("rent", 16))
	require.NoError(t, err)

	summary := dash.Summary()

	assert.True(t, summary.Budget.Equal(decimal.NewFromInt(15000)))
	assert.True(t, summary.TotalExpenses.Equal(decimal.NewFromInt(250)))
	assert.True(t, summary.RemainingBudget.Equal(decimal.NewFromInt(14750)))
	assert.True(t, summary.Savings.Equal(decimal.NewFromInt(14750)))
	assert.Equal(t, int64(98), summary.SavingsPercentage)
	assert.Equal(t, int64(2), summary.ExpensePercentage)
	require.Len(t, summary.UpcomingBills, 1)
	assert.Equal(t, []string{"bill-rent"}, notificationIDs(summary.Notifications))

	// April seed spent 13300
	require.NotNil(t, summary.Comparison)
	assert.Equal(t, domain.MonthKey("2025-04"), summary.Comparison.PreviousMonth)
	assert.False(t, summary.Comparison.IsIncrease)
	assert.True(t, summary.Comparison.Percentage.Equal(decimal.RequireFromString("98.1")))
}

func TestDashboardService_SummaryOverspentSavingsFloor(t *testing.T) {
	dash, ledger, _ := setupDashboard(t)
	_, err := ledger.AddExpense(domain.Expense{Name: "Car repair", Amount: decimal.NewFromInt(16000), Category: domain.ExpenseCategoryTransportation, Date: "2025-05-02"})
	require.NoError(t, err)

	summary := dash.Summary()

	assert.True(t, summary.RemainingBudget.Equal(decimal.NewFromInt(-1000)))
	assert.True(t, summary.Savings.IsZero())
	assert.Equal(t, int64(107), summary.ExpensePercentage)
}

func TestCompareMonths(t *testing.T) {
	tests := []struct {
		name       string
		current    int64
		previous   int64
		percentage string
		increase   bool
	}{
		{"increase", 1500, 1000, "50", true},
		{"decrease", 750, 1000, "25", false},
		{"equal counts as increase", 1000, 1000, "0", true},
		{"no previous spending", 300, 0, "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareMonths("2025-04", decimal.NewFromInt(tt.current), decimal.NewFromInt(tt.previous))
			assert.True(t, got.Percentage.Equal(decimal.RequireFromString(tt.percentage)), "percentage = %s", got.Percentage)
			assert.Equal(t, tt.increase, got.IsIncrease)
		})
	}
}

func TestDashboardService_PastMonths(t *testing.T) {
	dash, _, _ := setupDashboard(t)

	months := dash.PastMonths(0)

	require.Len(t, months, domain.DefaultPastMonths)
	assert.Equal(t, domain.MonthKey("2025-04"), months[0].Month)
	assert.Equal(t, "April 2025", months[0].Label)
	assert.True(t, months[0].HasData)
	assert.True(t, months[0].Expenses.Equal(decimal.NewFromInt(13300)))
	assert.True(t, months[0].Savings.Equal(decimal.NewFromInt(1700)))
	assert.Equal(t, int64(89), months[0].UsedPercentage)

	assert.Equal(t, domain.MonthKey("2024-12"), months[4].Month)
	for _, m := range months[1:] {
		assert.False(t, m.HasData, m.Month)
		assert.True(t, m.Budget.IsZero())
	}
}

func TestDashboardService_PastMonthsCap(t *testing.T) {
	dash, _, _ := setupDashboard(t)
	assert.Len(t, dash.PastMonths(100), MaxPastMonths)
	assert.Len(t, dash.PastMonths(2), 2)
}

func TestDashboardService_MonthOverview(t *testing.T) {
	dash, ledger, _ := setupDashboard(t)
	require.NoError(t, ledger.SwitchMonth("2025-04"))

	overview := dash.MonthOverview()

	assert.Equal(t, domain.MonthKey("2025-04"), overview.Month)
	assert.False(t, overview.Editable)
	assert.True(t, overview.TotalExpenses.Equal(decimal.NewFromInt(13300)))
	assert.True(t, overview.Savings.Equal(decimal.NewFromInt(1700)))
	assert.Equal(t, int64(57), overview.SavingsGoalProgress)
	assert.True(t, overview.UnallocatedBudget.IsZero())
	require.Len(t, overview.Categories, 6)

	groceries := overview.Categories[0]
	assert.Equal(t, domain.ExpenseCategoryGroceries, groceries.Category)
	assert.True(t, groceries.Spent.Equal(decimal.NewFromInt(4500)))
	assert.Equal(t, int64(90), groceries.Percentage)
	assert.Len(t, overview.Expenses, 6)
}

func TestDashboardService_MonthOverviewOfIsReadOnly(t *testing.T) {
	dash, ledger, _ := setupDashboard(t)
	months := ledger.Months()

	overview, ok := dash.MonthOverviewOf("2025-04")
	require.True(t, ok)
	assert.False(t, overview.Editable)
	assert.True(t, overview.TotalExpenses.Equal(decimal.NewFromInt(13300)))
	assert.Equal(t, domain.MonthKey("2025-05"), ledger.SelectedMonth(), "selection must not move")

	current, ok := dash.MonthOverviewOf("2025-05")
	require.True(t, ok)
	assert.True(t, current.Editable)

	_, ok = dash.MonthOverviewOf("2019-01")
	assert.False(t, ok)
	assert.Equal(t, months, ledger.Months(), "lookups must not create months")
}

func TestDashboardService_MonthOverviewCapsCategoryPercentage(t *testing.T) {
	dash, ledger, _ := setupDashboard(t)
	require.NoError(t, ledger.UpdateBudgetPlan(decimal.NewFromInt(15000), categoryBudgets(0, 3000, 2000, 100, 1000, 1000)))
	_, err := ledger.AddExpense(domain.Expense{Name: "Feast", Amount: decimal.NewFromInt(500), Category: domain.ExpenseCategoryFood, Date: "2025-05-10"})
	require.NoError(t, err)
	_, err = ledger.AddExpense(domain.Expense{Name: "Rice", Amount: decimal.NewFromInt(50), Category: domain.ExpenseCategoryGroceries, Date: "2025-05-10"})
	require.NoError(t, err)

	overview := dash.MonthOverview()

	assert.True(t, overview.Editable)
	assert.Equal(t, int64(0), overview.Categories[0].Percentage, "zero category budget")
	assert.Equal(t, int64(100), overview.Categories[3].Percentage, "capped at 100")
	assert.True(t, overview.UnallocatedBudget.Equal(decimal.NewFromInt(7900)))
}
