package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerService owns the month-keyed budget document and the selected month cursor
type LedgerService struct {
	store  domain.KVStore
	writer *DocumentWriter
	clock  Clock
	logger zerolog.Logger

	eventPublisher websocket.EventPublisher

	mu       sync.Mutex
	data     domain.MonthlyData
	selected domain.MonthKey
}

// NewLedgerService creates a new LedgerService. Call Load before serving requests.
func NewLedgerService(store domain.KVStore, clock Clock, logger zerolog.Logger) *LedgerService {
	return &LedgerService{
		store:    store,
		writer:   NewDocumentWriter(store, domain.KeyBudgetData, logger),
		clock:    clock,
		logger:   logger.With().Str("component", "ledger").Logger(),
		data:     domain.MonthlyData{},
		selected: domain.MonthKeyOf(clock.Now()),
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *LedgerService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *LedgerService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

func monthPayload(key domain.MonthKey) map[string]interface{} {
	return map[string]interface{}{"month": key}
}

// Load hydrates the ledger from storage. Problems are logged, never returned:
// an absent or corrupt document is replaced by the seed data.
func (s *LedgerService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = s.currentKey()
	persist := true

	raw, err := s.store.Get(ctx, domain.KeyBudgetData)
	switch {
	case errors.Is(err, domain.ErrKeyNotFound):
		s.logger.Info().Msg("No budget data stored, writing seed data")
		s.data = domain.SeedMonthlyData()
		s.persistLocked()
	case err != nil:
		s.logger.Error().Err(err).Msg("Failed to read budget data, using seed data")
		s.data = domain.SeedMonthlyData()
		persist = false
	default:
		data, decodeErr := domain.DecodeMonthlyData(raw)
		if decodeErr != nil {
			s.logger.Warn().Err(decodeErr).Msg("Stored budget data is invalid, resetting to seed data")
			s.data = domain.SeedMonthlyData()
			s.persistLocked()
		} else {
			s.data = data
		}
	}

	if _, ok := s.data[s.selected]; !ok {
		s.data[s.selected] = domain.DefaultMonthRecord()
		if persist {
			s.persistLocked()
		}
	}
}

// Flush waits for pending writes of the budget document
func (s *LedgerService) Flush(ctx context.Context) error {
	return s.writer.Flush(ctx)
}

// SelectedMonth returns the month the user is viewing
func (s *LedgerService) SelectedMonth() domain.MonthKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// CurrentMonth returns the wall-clock month
func (s *LedgerService) CurrentMonth() domain.MonthKey {
	return s.currentKey()
}

// IsSelectedMonthEditable reports whether expenses of the selected month may change
func (s *LedgerService) IsSelectedMonthEditable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected == s.currentKey()
}

// SwitchMonth moves the cursor, synthesizing and persisting a default record for an unseen month
func (s *LedgerService) SwitchMonth(key domain.MonthKey) error {
	parsed, err := domain.ParseMonthKey(string(key))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if parsed == s.selected {
		return nil
	}
	s.ensureMonthLocked(parsed)
	s.selected = parsed
	s.publishEvent(websocket.MonthSwitched(monthPayload(parsed)))
	return nil
}

// ResetToCurrentMonth moves the cursor back to the wall-clock month
func (s *LedgerService) ResetToCurrentMonth() {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.currentKey()
	if s.selected == current {
		return
	}
	s.ensureMonthLocked(current)
	s.selected = current
	s.publishEvent(websocket.MonthSwitched(monthPayload(current)))
}

// SelectedMonthData returns the selected record, or an unpersisted default
func (s *LedgerService) SelectedMonthData() domain.MonthRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.data[s.selected]; ok {
		return r.Clone()
	}
	return domain.DefaultMonthRecord()
}

// SelectedSnapshot returns the selected key, its record and whether its
// expenses may change, all read under one lock
func (s *LedgerService) SelectedSnapshot() (domain.MonthKey, domain.MonthRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := domain.DefaultMonthRecord()
	if r, ok := s.data[s.selected]; ok {
		record = r.Clone()
	}
	return s.selected, record, s.selected == s.currentKey()
}

// CurrentMonthData returns the wall-clock month's record, creating it if needed
func (s *LedgerService) CurrentMonthData() domain.MonthRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureMonthLocked(s.currentKey()).Clone()
}

// PreviousMonthData returns the record of the month before the selected one
func (s *LedgerService) PreviousMonthData() (domain.MonthRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.data[s.selected.Previous()]
	if !ok {
		return domain.MonthRecord{}, false
	}
	return r.Clone(), true
}

// MonthData looks a month up without creating it
func (s *LedgerService) MonthData(key domain.MonthKey) (domain.MonthRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.data[key]
	if !ok {
		return domain.MonthRecord{}, false
	}
	return r.Clone(), true
}

// Months returns every stored month key, newest first
func (s *LedgerService) Months() []domain.MonthKey {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]domain.MonthKey, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })
	return keys
}

// UpdateBudget sets the selected month's budget
func (s *LedgerService) UpdateBudget(budget decimal.Decimal) error {
	if !budget.IsPositive() {
		s.logger.Warn().Str("budget", budget.String()).Msg("Rejected budget update")
		return domain.ErrInvalidBudget
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.ensureMonthLocked(s.selected)
	if record.Budget.Equal(budget) {
		return nil
	}
	if allocated := record.AllocatedCategoryBudget(); allocated.GreaterThan(budget) {
		return fmt.Errorf("%w: %s is already allocated to categories, budget %s is too low",
			domain.ErrCategoryBudgetsExceedBudget, allocated.StringFixed(2), budget.StringFixed(2))
	}

	record.Budget = budget
	s.data[s.selected] = record
	s.persistLocked()
	s.publishEvent(websocket.MonthUpdated(monthPayload(s.selected)))
	return nil
}

// UpdateSavingsGoal sets the selected month's savings goal
func (s *LedgerService) UpdateSavingsGoal(goal decimal.Decimal) error {
	if goal.IsNegative() {
		return domain.ErrInvalidSavingsGoal
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.ensureMonthLocked(s.selected)
	record.SavingsGoal = goal
	s.data[s.selected] = record
	s.persistLocked()
	s.publishEvent(websocket.MonthUpdated(monthPayload(s.selected)))
	return nil
}

// UpdateCategoryBudgets replaces the selected month's category allocation
func (s *LedgerService) UpdateCategoryBudgets(budgets map[domain.ExpenseCategory]decimal.Decimal) error {
	if err := domain.ValidateCategoryBudgets(budgets); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.ensureMonthLocked(s.selected)
	return s.commitPlanLocked(record, record.Budget, budgets)
}

// UpdateBudgetPlan changes the budget and the category allocation together.
// Either both are committed or neither.
func (s *LedgerService) UpdateBudgetPlan(budget decimal.Decimal, budgets map[domain.ExpenseCategory]decimal.Decimal) error {
	if !budget.IsPositive() {
		return domain.ErrInvalidBudget
	}
	if err := domain.ValidateCategoryBudgets(budgets); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.ensureMonthLocked(s.selected)
	return s.commitPlanLocked(record, budget, budgets)
}

func (s *LedgerService) commitPlanLocked(record domain.MonthRecord, budget decimal.Decimal, budgets map[domain.ExpenseCategory]decimal.Decimal) error {
	total := domain.SumCategoryBudgets(budgets)
	if total.GreaterThan(budget) {
		return fmt.Errorf("%w: allocated %s of %s",
			domain.ErrCategoryBudgetsExceedBudget, total.StringFixed(2), budget.StringFixed(2))
	}

	next := record.Clone()
	next.Budget = budget
	next.CategoryBudgets = make(map[domain.ExpenseCategory]decimal.Decimal, len(budgets))
	for k, v := range budgets {
		next.CategoryBudgets[k] = v
	}
	if err := domain.ValidateMonthData(next); err != nil {
		s.logger.Warn().Err(err).Str("month", s.selected.String()).Msg("Category budget update left the month invalid, keeping previous values")
		return err
	}

	s.data[s.selected] = next
	s.persistLocked()
	s.publishEvent(websocket.MonthUpdated(monthPayload(s.selected)))
	return nil
}

// UpdateMonthlyExpenses replaces the selected month's expense list
func (s *LedgerService) UpdateMonthlyExpenses(expenses []domain.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEditableLocked(); err != nil {
		return err
	}
	if err := s.replaceExpensesLocked(expenses); err != nil {
		return err
	}
	s.publishEvent(websocket.MonthUpdated(monthPayload(s.selected)))
	return nil
}

// AddExpense prepends an expense to the selected month
func (s *LedgerService) AddExpense(expense domain.Expense) (domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEditableLocked(); err != nil {
		return domain.Expense{}, err
	}
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.Month == "" {
		expense.Month = s.selected
	}

	record := s.ensureMonthLocked(s.selected)
	expenses := make([]domain.Expense, 0, len(record.Expenses)+1)
	expenses = append(expenses, expense)
	expenses = append(expenses, record.Expenses...)

	if err := s.replaceExpensesLocked(expenses); err != nil {
		return domain.Expense{}, err
	}
	s.publishEvent(websocket.ExpenseCreated(expense))
	return expense, nil
}

// UpdateExpense replaces an expense of the selected month, keeping its position
func (s *LedgerService) UpdateExpense(expense domain.Expense) (domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEditableLocked(); err != nil {
		return domain.Expense{}, err
	}
	if expense.Month == "" {
		expense.Month = s.selected
	}

	record := s.ensureMonthLocked(s.selected)
	idx := indexOfExpense(record.Expenses, expense.ID)
	if idx < 0 {
		return domain.Expense{}, domain.ErrExpenseNotFound
	}
	expenses := append([]domain.Expense(nil), record.Expenses...)
	expenses[idx] = expense

	if err := s.replaceExpensesLocked(expenses); err != nil {
		return domain.Expense{}, err
	}
	s.publishEvent(websocket.ExpenseUpdated(expense))
	return expense, nil
}

// DeleteExpense removes an expense from the selected month
func (s *LedgerService) DeleteExpense(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEditableLocked(); err != nil {
		return err
	}

	record := s.ensureMonthLocked(s.selected)
	idx := indexOfExpense(record.Expenses, id)
	if idx < 0 {
		return domain.ErrExpenseNotFound
	}
	expenses := make([]domain.Expense, 0, len(record.Expenses)-1)
	expenses = append(expenses, record.Expenses[:idx]...)
	expenses = append(expenses, record.Expenses[idx+1:]...)

	if err := s.replaceExpensesLocked(expenses); err != nil {
		return err
	}
	s.publishEvent(websocket.ExpenseDeleted(map[string]interface{}{"id": id, "month": s.selected}))
	return nil
}

func (s *LedgerService) checkEditableLocked() error {
	if s.selected != s.currentKey() {
		return fmt.Errorf("%w: %s is not the current month", domain.ErrHistoricalMonth, s.selected)
	}
	return nil
}

func (s *LedgerService) replaceExpensesLocked(expenses []domain.Expense) error {
	seen := make(map[string]struct{}, len(expenses))
	for _, e := range expenses {
		if err := e.Validate(s.selected); err != nil {
			return err
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", domain.ErrInvalidExpense, e.ID)
		}
		seen[e.ID] = struct{}{}
	}

	record := s.ensureMonthLocked(s.selected)
	record.Expenses = append(make([]domain.Expense, 0, len(expenses)), expenses...)
	s.data[s.selected] = record
	s.persistLocked()
	return nil
}

func indexOfExpense(expenses []domain.Expense, id string) int {
	for i, e := range expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// ensureMonthLocked returns the stored record for key, synthesizing and persisting a default
func (s *LedgerService) ensureMonthLocked(key domain.MonthKey) domain.MonthRecord {
	if r, ok := s.data[key]; ok {
		return r
	}
	r := domain.DefaultMonthRecord()
	s.data[key] = r
	s.persistLocked()
	return r
}

func (s *LedgerService) persistLocked() {
	raw, err := json.Marshal(s.data)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode budget data")
		return
	}
	s.writer.Enqueue(raw)
}

func (s *LedgerService) currentKey() domain.MonthKey {
	return domain.MonthKeyOf(s.clock.Now())
}
