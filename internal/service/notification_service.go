package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CurrentMonthSource provides the wall-clock month's budget record
type CurrentMonthSource interface {
	CurrentMonthData() domain.MonthRecord
}

// UpcomingBillsSource provides the upcoming bills projection
type UpcomingBillsSource interface {
	Upcoming() []domain.UpcomingBill
}

// BudgetUsagePercent returns spent as a percentage of budget, or zero when
// there is no positive budget to measure against
func BudgetUsagePercent(spent, budget decimal.Decimal) decimal.Decimal {
	if !budget.IsPositive() {
		return decimal.Zero
	}
	return spent.Div(budget).Mul(hundred)
}

// DeriveNotifications builds the alert list from upcoming bills and the month's totals
func DeriveNotifications(upcoming []domain.UpcomingBill, totalExpenses, budget decimal.Decimal, now time.Time) []domain.Notification {
	notifications := make([]domain.Notification, 0, len(upcoming)+1)

	for _, b := range upcoming {
		if b.DaysUntilDue > domain.BillReminderDays {
			continue
		}
		unit := "days"
		if b.DaysUntilDue == 1 {
			unit = "day"
		}
		amount := b.Amount
		notifications = append(notifications, domain.Notification{
			ID:        "bill-" + b.ID,
			Type:      domain.NotificationTypeBill,
			Category:  string(b.Category),
			Message:   fmt.Sprintf("%s payment due in %d %s", b.Name, b.DaysUntilDue, unit),
			Amount:    &amount,
			Timestamp: now,
		})
	}

	pct := BudgetUsagePercent(totalExpenses, budget)
	rounded := pct.Round(2)
	switch {
	case pct.GreaterThanOrEqual(domain.BudgetExceededPercent):
		notifications = append(notifications, domain.Notification{
			ID:         domain.NotificationIDBudgetExceeded,
			Type:       domain.NotificationTypeBudget,
			Category:   domain.NotificationCategoryBudget,
			Message:    "You have exceeded your monthly budget",
			Percentage: &rounded,
			Timestamp:  now,
		})
	case pct.GreaterThanOrEqual(domain.BudgetWarningPercent):
		notifications = append(notifications, domain.Notification{
			ID:         domain.NotificationIDBudgetWarning,
			Type:       domain.NotificationTypeBudget,
			Category:   domain.NotificationCategoryBudget,
			Message:    fmt.Sprintf("You've used %s%% of your monthly budget", pct.Round(0).String()),
			Percentage: &rounded,
			Timestamp:  now,
		})
	}

	return notifications
}

// NotificationService keeps the transient notification list. Nothing here is persisted.
// The list is rebuilt on Recompute, or lazily after a ledger or bills change
// is published to it. Reads alone never rebuild it, so dismissals hold until
// an input changes or the next refresh tick.
type NotificationService struct {
	ledger CurrentMonthSource
	bills  UpcomingBillsSource
	clock  Clock

	mu            sync.Mutex
	notifications []domain.Notification
	version       uint64
	computed      uint64
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(ledger CurrentMonthSource, bills UpcomingBillsSource, clock Clock) *NotificationService {
	return &NotificationService{
		ledger:        ledger,
		bills:         bills,
		clock:         clock,
		notifications: []domain.Notification{},
		version:       1,
	}
}

var _ websocket.EventPublisher = (*NotificationService)(nil)

// Publish marks the list stale when the event changes an input of the
// derivation. Month switches do not: notifications follow the current month.
func (s *NotificationService) Publish(event websocket.Event) {
	if event.Is(websocket.EntityTypeMonth, websocket.EventTypeSwitched) {
		return
	}
	s.mu.Lock()
	s.version++
	s.mu.Unlock()
}

// Recompute regenerates the list from the current month and upcoming bills
func (s *NotificationService) Recompute() []domain.Notification {
	s.mu.Lock()
	version := s.version
	s.mu.Unlock()

	record := s.ledger.CurrentMonthData()
	list := DeriveNotifications(s.bills.Upcoming(), record.TotalExpenses(), record.Budget, s.clock.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = list
	if version > s.computed {
		s.computed = version
	}
	return append([]domain.Notification{}, list...)
}

func (s *NotificationService) refreshIfStale() {
	s.mu.Lock()
	stale := s.version != s.computed
	s.mu.Unlock()
	if stale {
		s.Recompute()
	}
}

// List returns the current list, rebuilding it first if an input changed
func (s *NotificationService) List() []domain.Notification {
	s.refreshIfStale()

	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Notification{}, s.notifications...)
}

// Dismiss drops one notification until the next recompute
func (s *NotificationService) Dismiss(id string) error {
	s.refreshIfStale()

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i:i], s.notifications[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

// Clear empties the list until the next recompute
func (s *NotificationService) Clear() {
	s.refreshIfStale()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = []domain.Notification{}
}
