package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/util"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BillsService owns the recurring bills register and its upcoming projection
type BillsService struct {
	store  domain.KVStore
	writer *DocumentWriter
	clock  Clock
	policy domain.BillRolloverPolicy
	logger zerolog.Logger

	eventPublisher websocket.EventPublisher

	mu       sync.RWMutex
	bills    []domain.Bill
	upcoming []domain.UpcomingBill
}

// NewBillsService creates a new BillsService. Call Load before serving requests.
func NewBillsService(store domain.KVStore, clock Clock, policy domain.BillRolloverPolicy, logger zerolog.Logger) *BillsService {
	if policy == "" {
		policy = domain.BillRolloverMonthly
	}
	return &BillsService{
		store:    store,
		writer:   NewDocumentWriter(store, domain.KeyRecurringBills, logger),
		clock:    clock,
		policy:   policy,
		logger:   logger.With().Str("component", "bills").Logger(),
		bills:    []domain.Bill{},
		upcoming: []domain.UpcomingBill{},
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BillsService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *BillsService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// Load hydrates the register. Any failure leaves an empty list.
func (s *BillsService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bills = []domain.Bill{}
	raw, err := s.store.Get(ctx, domain.KeyRecurringBills)
	switch {
	case errors.Is(err, domain.ErrKeyNotFound):
	case err != nil:
		s.logger.Error().Err(err).Msg("Failed to read bills")
	default:
		var bills []domain.Bill
		if err := json.Unmarshal(raw, &bills); err != nil {
			s.logger.Warn().Err(err).Msg("Stored bills are invalid, starting with an empty list")
		} else if bills != nil {
			s.bills = bills
		}
	}
	s.recomputeLocked()
}

// Flush waits for pending writes of the bills document
func (s *BillsService) Flush(ctx context.Context) error {
	return s.writer.Flush(ctx)
}

// Policy returns the rollover policy in effect
func (s *BillsService) Policy() domain.BillRolloverPolicy {
	return s.policy
}

// Bills returns every bill in insertion order
func (s *BillsService) Bills() []domain.Bill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Bill{}, s.bills...)
}

// Bill returns one bill by id
func (s *BillsService) Bill(id string) (domain.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := indexOfBill(s.bills, id)
	if idx < 0 {
		return domain.Bill{}, domain.ErrBillNotFound
	}
	return s.bills[idx], nil
}

// Upcoming returns the last computed upcoming projection
func (s *BillsService) Upcoming() []domain.UpcomingBill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.UpcomingBill{}, s.upcoming...)
}

// AddBill appends a bill to the register
func (s *BillsService) AddBill(bill domain.Bill) (domain.Bill, error) {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	bill.ApplyDefaults()
	if bill.CreatedAt == nil {
		now := s.clock.Now().UTC()
		bill.CreatedAt = &now
	}
	if err := bill.Validate(); err != nil {
		return domain.Bill{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOfBill(s.bills, bill.ID) >= 0 {
		return domain.Bill{}, fmt.Errorf("%w: %s", domain.ErrBillAlreadyExists, bill.ID)
	}
	bills := append(append(make([]domain.Bill, 0, len(s.bills)+1), s.bills...), bill)
	s.commitLocked(bills)
	s.publishEvent(websocket.BillCreated(bill))
	return bill, nil
}

// UpdateBill replaces a bill, keeping its position and creation time
func (s *BillsService) UpdateBill(bill domain.Bill) (domain.Bill, error) {
	bill.ApplyDefaults()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOfBill(s.bills, bill.ID)
	if idx < 0 {
		return domain.Bill{}, domain.ErrBillNotFound
	}
	if bill.CreatedAt == nil {
		bill.CreatedAt = s.bills[idx].CreatedAt
	}
	if err := bill.Validate(); err != nil {
		return domain.Bill{}, err
	}

	bills := append([]domain.Bill{}, s.bills...)
	bills[idx] = bill
	s.commitLocked(bills)
	s.publishEvent(websocket.BillUpdated(bill))
	return bill, nil
}

// DeleteBill removes a bill
func (s *BillsService) DeleteBill(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOfBill(s.bills, id)
	if idx < 0 {
		return domain.ErrBillNotFound
	}
	bills := make([]domain.Bill, 0, len(s.bills)-1)
	bills = append(bills, s.bills[:idx]...)
	bills = append(bills, s.bills[idx+1:]...)
	s.commitLocked(bills)
	s.publishEvent(websocket.BillDeleted(map[string]interface{}{"id": id}))
	return nil
}

// Refresh recomputes the upcoming projection against the current date.
// Subscribers hear about it only when the projection changed.
func (s *BillsService) Refresh() []domain.UpcomingBill {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.upcoming
	s.recomputeLocked()
	upcoming := append([]domain.UpcomingBill{}, s.upcoming...)
	if !sameUpcoming(previous, upcoming) {
		s.publishEvent(websocket.UpcomingBillsRefreshed(upcoming))
	}
	return upcoming
}

func sameUpcoming(a, b []domain.UpcomingBill) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].DaysUntilDue != b[i].DaysUntilDue {
			return false
		}
	}
	return true
}

// NextDueDate returns the next due date of a bill under the service's policy
func (s *BillsService) NextDueDate(bill domain.Bill) time.Time {
	return NextDueDate(bill, s.clock.Now(), s.policy)
}

func (s *BillsService) commitLocked(bills []domain.Bill) {
	s.bills = bills
	raw, err := json.Marshal(bills)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode bills")
	} else {
		s.writer.Enqueue(raw)
	}
	s.recomputeLocked()
}

func (s *BillsService) recomputeLocked() {
	s.upcoming = ProjectUpcoming(s.bills, s.clock.Now(), s.policy)
}

func indexOfBill(bills []domain.Bill, id string) int {
	for i, b := range bills {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// NextDueDate places the bill's due day in the month of now. A day past the
// end of the month spills into the next one. Dates before today roll forward
// one month, or by the bill interval under BillRolloverInterval.
func NextDueDate(bill domain.Bill, now time.Time, policy domain.BillRolloverPolicy) time.Time {
	today := util.DateOnly(now)
	due := time.Date(today.Year(), today.Month(), bill.DueDate, 0, 0, 0, 0, time.UTC)
	if due.Before(today) {
		months := 1
		if policy == domain.BillRolloverInterval {
			months = bill.Interval.Months()
		}
		due = time.Date(today.Year(), today.Month()+time.Month(months), bill.DueDate, 0, 0, 0, 0, time.UTC)
	}
	return due
}

// DaysUntil counts calendar days from now to due, rounding up
func DaysUntil(due, now time.Time) int {
	return int(math.Ceil(due.Sub(util.DateOnly(now)).Hours() / 24))
}

// ProjectUpcoming returns the bills due within a week, nearest first, at most three
func ProjectUpcoming(bills []domain.Bill, now time.Time, policy domain.BillRolloverPolicy) []domain.UpcomingBill {
	upcoming := make([]domain.UpcomingBill, 0, len(bills))
	for _, b := range bills {
		days := DaysUntil(NextDueDate(b, now, policy), now)
		if days > domain.UpcomingBillDays {
			continue
		}
		upcoming = append(upcoming, domain.UpcomingBill{Bill: b, DaysUntilDue: days})
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DaysUntilDue < upcoming[j].DaysUntilDue
	})
	if len(upcoming) > domain.UpcomingBillMax {
		upcoming = upcoming[:domain.UpcomingBillMax]
	}
	return upcoming
}

// DueDateText formats a due day for display, e.g. "Due on the 21st"
func DueDateText(day int) string {
	return "Due on the " + util.Ordinal(day)
}
