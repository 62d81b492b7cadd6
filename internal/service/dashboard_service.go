package service

import (
	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxPastMonths caps the history strip
const MaxPastMonths = 24

// DashboardService derives the home and finance screen views
type DashboardService struct {
	ledger        *LedgerService
	bills         *BillsService
	notifications *NotificationService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(ledger *LedgerService, bills *BillsService, notifications *NotificationService) *DashboardService {
	return &DashboardService{
		ledger:        ledger,
		bills:         bills,
		notifications: notifications,
	}
}

// Summary returns the home screen metrics. Opening the home screen always
// moves the ledger back to the current month.
func (s *DashboardService) Summary() domain.DashboardSummary {
	s.ledger.ResetToCurrentMonth()
	s.bills.Refresh()

	current := s.ledger.CurrentMonth()
	record := s.ledger.CurrentMonthData()
	total := record.TotalExpenses()

	summary := domain.DashboardSummary{
		Month:             current,
		Budget:            record.Budget,
		TotalExpenses:     total,
		RemainingBudget:   record.RemainingBudget(),
		Savings:           record.Savings(),
		SavingsPercentage: roundedPercent(record.Savings(), record.Budget),
		ExpensePercentage: roundedPercent(total, record.Budget),
		UpcomingBills:     s.bills.Upcoming(),
		Notifications:     s.notifications.List(),
	}

	if prev, ok := s.ledger.MonthData(current.Previous()); ok {
		summary.Comparison = CompareMonths(current.Previous(), total, prev.TotalExpenses())
	}
	return summary
}

// CompareMonths measures the change in spending against the previous month
func CompareMonths(previousMonth domain.MonthKey, currentTotal, previousTotal decimal.Decimal) *domain.MonthComparison {
	diff := currentTotal.Sub(previousTotal)
	pct := decimal.Zero
	if !previousTotal.IsZero() {
		pct = diff.Div(previousTotal).Mul(hundred).Abs().Round(1)
	}
	return &domain.MonthComparison{
		PreviousMonth: previousMonth,
		PreviousTotal: previousTotal,
		Difference:    diff,
		Percentage:    pct,
		IsIncrease:    !diff.IsNegative(),
	}
}

// PastMonths summarizes the n months before the current one, most recent first
func (s *DashboardService) PastMonths(n int) []domain.PastMonthSummary {
	if n <= 0 {
		n = domain.DefaultPastMonths
	}
	if n > MaxPastMonths {
		n = MaxPastMonths
	}

	current := s.ledger.CurrentMonth()
	months := make([]domain.PastMonthSummary, 0, n)
	for i := 1; i <= n; i++ {
		key := current.AddMonths(-i)
		entry := domain.PastMonthSummary{
			Month:    key,
			Label:    key.Label(),
			Budget:   decimal.Zero,
			Expenses: decimal.Zero,
			Savings:  decimal.Zero,
		}
		if record, ok := s.ledger.MonthData(key); ok {
			entry.HasData = true
			entry.Budget = record.Budget
			entry.Expenses = record.TotalExpenses()
			entry.Savings = record.Savings()
			entry.UsedPercentage = roundedPercent(entry.Expenses, record.Budget)
		}
		months = append(months, entry)
	}
	return months
}

// MonthOverview returns the finance screen view of the selected month
func (s *DashboardService) MonthOverview() domain.MonthOverview {
	key, record, editable := s.ledger.SelectedSnapshot()
	return buildOverview(key, record, editable)
}

// MonthOverviewOf returns the overview of a stored month without moving the
// selection or creating a record. ok is false when nothing is stored for key.
func (s *DashboardService) MonthOverviewOf(key domain.MonthKey) (domain.MonthOverview, bool) {
	record, ok := s.ledger.MonthData(key)
	if !ok {
		return domain.MonthOverview{}, false
	}
	return buildOverview(key, record, key == s.ledger.CurrentMonth()), true
}

func buildOverview(key domain.MonthKey, record domain.MonthRecord, editable bool) domain.MonthOverview {
	spending := record.SpendingByCategory()
	allocated := record.AllocatedCategoryBudget()

	overview := domain.MonthOverview{
		Month:               key,
		Label:               key.Label(),
		Budget:              record.Budget,
		TotalExpenses:       record.TotalExpenses(),
		RemainingBudget:     record.RemainingBudget(),
		Savings:             record.Savings(),
		SavingsGoal:         record.SavingsGoal,
		SavingsGoalProgress: roundedPercent(record.Savings(), record.SavingsGoal),
		AllocatedBudget:     allocated,
		UnallocatedBudget:   record.Budget.Sub(allocated),
		Categories:          make([]domain.CategorySpending, 0, len(domain.ExpenseCategories)),
		Expenses:            record.Expenses,
		Editable:            editable,
	}

	for _, c := range domain.ExpenseCategories {
		spent := spending[c]
		budget := record.CategoryBudgets[c]
		pct := decimal.Min(hundred, BudgetUsagePercent(spent, budget))
		overview.Categories = append(overview.Categories, domain.CategorySpending{
			Category:   c,
			Spent:      spent,
			Budget:     budget,
			Percentage: pct.Round(0).IntPart(),
		})
	}
	return overview
}

func roundedPercent(part, whole decimal.Decimal) int64 {
	return BudgetUsagePercent(part, whole).Round(0).IntPart()
}
