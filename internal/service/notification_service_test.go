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

var notifyNow = time.Date(2025, 5, 14, 10, 0, 0, 0, time.UTC)

func upcomingBill(id, name string, days int) domain.UpcomingBill {
	b := newBill(id, 1)
	b.Name = name
	b.Amount = decimal.NewFromInt(500)
	b.Category = domain.BillCategoryInternet
	return domain.UpcomingBill{Bill: b, DaysUntilDue: days}
}

func notificationIDs(list []domain.Notification) []string {
	ids := make([]string, len(list))
	for i, n := range list {
		ids[i] = n.ID
	}
	return ids
}

func TestDeriveNotifications_BudgetMutualExclusion(t *testing.T) {
	budget := decimal.NewFromInt(1000)
	tests := []struct {
		name     string
		spent    int64
		expected []string
	}{
		{"half used", 500, []string{}},
		{"warning band", 850, []string{domain.NotificationIDBudgetWarning}},
		{"exactly eighty", 800, []string{domain.NotificationIDBudgetWarning}},
		{"exactly hundred", 1000, []string{domain.NotificationIDBudgetExceeded}},
		{"exceeded", 1050, []string{domain.NotificationIDBudgetExceeded}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveNotifications(nil, decimal.NewFromInt(tt.spent), budget, notifyNow)
			assert.Equal(t, tt.expected, notificationIDs(got))
		})
	}
}

func TestDeriveNotifications_WarningMessage(t *testing.T) {
	got := DeriveNotifications(nil, decimal.NewFromInt(850), decimal.NewFromInt(1000), notifyNow)

	require.Len(t, got, 1)
	assert.Equal(t, "You've used 85% of your monthly budget", got[0].Message)
	assert.Equal(t, domain.NotificationTypeBudget, got[0].Type)
	assert.Equal(t, "budget", got[0].Category)
	require.NotNil(t, got[0].Percentage)
	assert.True(t, got[0].Percentage.Equal(decimal.NewFromInt(85)))
	assert.False(t, got[0].Read)
	assert.Equal(t, notifyNow, got[0].Timestamp)
}

func TestDeriveNotifications_WarningRoundsPercent(t *testing.T) {
	got := DeriveNotifications(nil, decimal.RequireFromString("12345.67"), decimal.NewFromInt(15000), notifyNow)

	require.Len(t, got, 1)
	assert.Equal(t, "You've used 82% of your monthly budget", got[0].Message)
}

func TestDeriveNotifications_ExceededMessage(t *testing.T) {
	got := DeriveNotifications(nil, decimal.NewFromInt(1050), decimal.NewFromInt(1000), notifyNow)

	require.Len(t, got, 1)
	assert.Equal(t, "You have exceeded your monthly budget", got[0].Message)
}

func TestDeriveNotifications_ZeroBudget(t *testing.T) {
	got := DeriveNotifications(nil, decimal.NewFromInt(200), decimal.Zero, notifyNow)
	assert.Empty(t, got)
}

func TestDeriveNotifications_BillReminders(t *testing.T) {
	upcoming := []domain.UpcomingBill{
		upcomingBill("a", "Internet", 1),
		upcomingBill("b", "Rent", 3),
		upcomingBill("c", "Gym", 4),
		upcomingBill("d", "Water", 0),
	}

	got := DeriveNotifications(upcoming, decimal.Zero, decimal.NewFromInt(1000), notifyNow)

	assert.Equal(t, []string{"bill-a", "bill-b", "bill-d"}, notificationIDs(got))
	assert.Equal(t, "Internet payment due in 1 day", got[0].Message)
	assert.Equal(t, "Rent payment due in 3 days", got[1].Message)
	assert.Equal(t, "Water payment due in 0 days", got[2].Message)
	assert.Equal(t, "internet", got[0].Category)
	assert.Equal(t, domain.NotificationTypeBill, got[0].Type)
	require.NotNil(t, got[0].Amount)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(500)))
}

func TestDeriveNotifications_BillsBeforeBudget(t *testing.T) {
	upcoming := []domain.UpcomingBill{upcomingBill("a", "Internet", 2)}

	got := DeriveNotifications(upcoming, decimal.NewFromInt(900), decimal.NewFromInt(1000), notifyNow)

	assert.Equal(t, []string{"bill-a", domain.NotificationIDBudgetWarning}, notificationIDs(got))
}

func setupNotifications(t *testing.T) (*NotificationService, *LedgerService, *BillsService) {
	t.Helper()
	store := testutil.NewMockKVStore()
	clock := testutil.NewFixedClock(notifyNow)
	ledger := NewLedgerService(store, clock, zerolog.Nop())
	ledger.Load(context.Background())
	bills := NewBillsService(store, clock, domain.BillRolloverMonthly, zerolog.Nop())
	bills.Load(context.Background())
	svc := NewNotificationService(ledger, bills, clock)
	ledger.SetEventPublisher(svc)
	bills.SetEventPublisher(svc)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = ledger.Flush(ctx)
		_ = bills.Flush(ctx)
	})
	return svc, ledger, bills
}

func TestNotificationService_RecomputeFromState(t *testing.T) {
	svc, ledger, bills := setupNotifications(t)
	assert.Empty(t, svc.Recompute())

	_, err := bills.AddBill(newBill("rent", 16))
	require.NoError(t, err)
	_, err = ledger.AddExpense(domain.Expense{Name: "TV", Amount: decimal.NewFromInt(16000), Category: domain.ExpenseCategoryShopping, Date: "2025-05-12"})
	require.NoError(t, err)

	got := svc.Recompute()
	assert.Equal(t, []string{"bill-rent", domain.NotificationIDBudgetExceeded}, notificationIDs(got))
	assert.Equal(t, got, svc.List())
}

func TestNotificationService_UsesCurrentMonthNotSelected(t *testing.T) {
	svc, ledger, _ := setupNotifications(t)
	_, err := ledger.AddExpense(domain.Expense{Name: "TV", Amount: decimal.NewFromInt(13000), Category: domain.ExpenseCategoryShopping, Date: "2025-05-12"})
	require.NoError(t, err)

	require.NoError(t, ledger.SwitchMonth("2025-04"))

	assert.Equal(t, []string{domain.NotificationIDBudgetWarning}, notificationIDs(svc.Recompute()))
}

func TestNotificationService_DismissAndClear(t *testing.T) {
	svc, ledger, bills := setupNotifications(t)
	_, err := bills.AddBill(newBill("rent", 15))
	require.NoError(t, err)
	_, err = ledger.AddExpense(domain.Expense{Name: "TV", Amount: decimal.NewFromInt(20000), Category: domain.ExpenseCategoryShopping, Date: "2025-05-12"})
	require.NoError(t, err)
	require.Len(t, svc.Recompute(), 2)

	require.NoError(t, svc.Dismiss("bill-rent"))
	assert.Equal(t, []string{domain.NotificationIDBudgetExceeded}, notificationIDs(svc.List()))
	assert.ErrorIs(t, svc.Dismiss("bill-rent"), domain.ErrNotificationNotFound)

	svc.Clear()
	assert.Empty(t, svc.List())

	// Conditions still hold, so everything comes back
	assert.Len(t, svc.Recompute(), 2)
}

func TestNotificationService_ListBuildsOnFirstRead(t *testing.T) {
	svc, ledger, _ := setupNotifications(t)
	_, err := ledger.AddExpense(domain.Expense{Name: "TV", Amount: decimal.NewFromInt(16000), Category: domain.ExpenseCategoryShopping, Date: "2025-05-12"})
	require.NoError(t, err)

	assert.Equal(t, []string{domain.NotificationIDBudgetExceeded}, notificationIDs(svc.List()))
}

func TestNotificationService_DismissalsHoldAcrossReads(t *testing.T) {
	svc, ledger, bills := setupNotifications(t)
	_, err := bills.AddBill(newBill("rent", 15))
	require.NoError(t, err)
	_, err = ledger.AddExpense(domain.Expense{Name: "TV", Amount: decimal.NewFromInt(16000), Category: domain.ExpenseCategoryShopping, Date: "2025-05-12"})
	require.NoError(t, err)
	require.Len(t, svc.List(), 2)

	require.NoError(t, svc.Dismiss("bill-rent"))
	assert.Equal(t, []string{domain.NotificationIDBudgetExceeded}, notificationIDs(svc.List()))
	assert.Equal(t, []string{domain.NotificationIDBudgetExceeded}, notificationIDs(svc.List()))

	svc.Clear()
	assert.Empty(t, svc.List())

	// Switching the viewed month is not an input change
	require.NoError(t, ledger.SwitchMonth("2025-04"))
	assert.Empty(t, svc.List())
	ledger.ResetToCurrentMonth()

	// A ledger change rebuilds the list
	_, err = ledger.AddExpense(domain.Expense{Name: "Snack", Amount: decimal.NewFromInt(10), Category: domain.ExpenseCategoryFood, Date: "2025-05-13"})
	require.NoError(t, err)
	assert.Len(t, svc.List(), 2)
}

func TestNotificationService_BillChangeMarksStale(t *testing.T) {
	svc, _, bills := setupNotifications(t)
	assert.Empty(t, svc.List())

	_, err := bills.AddBill(newBill("rent", 15))
	require.NoError(t, err)
	assert.Equal(t, []string{"bill-rent"}, notificationIDs(svc.List()))

	svc.Clear()
	assert.Empty(t, svc.List())

	// The refresh tick rebuilds regardless of dismissals
	assert.Equal(t, []string{"bill-rent"}, notificationIDs(svc.Recompute()))
}
