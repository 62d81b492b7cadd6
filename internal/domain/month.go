package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/util"
	"github.com/shopspring/decimal"
)

// MonthKey identifies a calendar month as "YYYY-MM"
type MonthKey string

const monthKeyLayout = "2006-01"

// ParseMonthKey validates and normalizes a "YYYY-MM" string
func ParseMonthKey(s string) (MonthKey, error) {
	s = strings.TrimSpace(s)
	if len(s) != len(monthKeyLayout) {
		return "", ErrInvalidMonthKey
	}
	t, err := time.Parse(monthKeyLayout, s)
	if err != nil {
		return "", ErrInvalidMonthKey
	}
	return MonthKeyOf(t), nil
}

// MonthKeyOf returns the month key of t in t's location
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKeyFromYearMonth(t.Year(), int(t.Month()))
}

// MonthKeyFromYearMonth builds a month key from a year and month number
func MonthKeyFromYearMonth(year, month int) MonthKey {
	return MonthKey(fmt.Sprintf("%04d-%02d", year, month))
}

// YearMonth splits the key into year and month numbers. Invalid keys return (0, 0).
func (k MonthKey) YearMonth() (int, int) {
	t, err := time.Parse(monthKeyLayout, string(k))
	if err != nil {
		return 0, 0
	}
	return t.Year(), int(t.Month())
}

// AddMonths returns the key n calendar months away
func (k MonthKey) AddMonths(n int) MonthKey {
	year, month := k.YearMonth()
	year, month = util.AddMonths(year, month, n)
	return MonthKeyFromYearMonth(year, month)
}

// Previous returns the calendar month before k
func (k MonthKey) Previous() MonthKey {
	year, month := k.YearMonth()
	year, month = util.PreviousMonth(year, month)
	return MonthKeyFromYearMonth(year, month)
}

// Label formats the key for display, e.g. "May 2025"
func (k MonthKey) Label() string {
	t, err := time.Parse(monthKeyLayout, string(k))
	if err != nil {
		return string(k)
	}
	return t.Format("January 2006")
}

func (k MonthKey) String() string {
	return string(k)
}

// ExpenseCategory is one of the six fixed expense categories of the ledger
type ExpenseCategory string

const (
	ExpenseCategoryGroceries      ExpenseCategory = "groceries"
	ExpenseCategoryUtilities      ExpenseCategory = "utilities"
	ExpenseCategoryTransportation ExpenseCategory = "transportation"
	ExpenseCategoryFood           ExpenseCategory = "food"
	ExpenseCategoryEntertainment  ExpenseCategory = "entertainment"
	ExpenseCategoryShopping       ExpenseCategory = "shopping"
)

// ExpenseCategories lists every expense category in display order
var ExpenseCategories = []ExpenseCategory{
	ExpenseCategoryGroceries,
	ExpenseCategoryUtilities,
	ExpenseCategoryTransportation,
	ExpenseCategoryFood,
	ExpenseCategoryEntertainment,
	ExpenseCategoryShopping,
}

// IsValid reports whether c is a known expense category
func (c ExpenseCategory) IsValid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Expense is a single spending entry inside a month
type Expense struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Category ExpenseCategory `json:"category"`
	Date     string          `json:"date"`
	Month    MonthKey        `json:"month"`
}

// UnmarshalJSON accepts both string and numeric ids; older documents used numbers.
func (e *Expense) UnmarshalJSON(data []byte) error {
	type alias Expense
	aux := struct {
		ID json.RawMessage `json:"id"`
		*alias
	}{alias: (*alias)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.ID)
	switch {
	case len(raw) == 0 || string(raw) == "null":
		e.ID = ""
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		e.ID = s
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("expense id: %w", err)
		}
		e.ID = n.String()
	}
	return nil
}

// Validate checks the expense against the month it is stored in
func (e Expense) Validate(month MonthKey) error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidExpense)
	}
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidExpense)
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidExpense)
	}
	if !e.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidExpense, e.Category)
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidExpense)
	}
	if e.Month != month {
		return fmt.Errorf("%w: expense month %q does not match %q", ErrInvalidExpense, e.Month, month)
	}
	return nil
}

// Default month values
var (
	DefaultBudget      = decimal.NewFromInt(15000)
	DefaultSavingsGoal = decimal.NewFromInt(3000)
)

// DefaultCategoryBudgets returns the allocation every synthesized month starts with
func DefaultCategoryBudgets() map[ExpenseCategory]decimal.Decimal {
	return map[ExpenseCategory]decimal.Decimal{
		ExpenseCategoryGroceries:      decimal.NewFromInt(5000),
		ExpenseCategoryUtilities:      decimal.NewFromInt(3000),
		ExpenseCategoryTransportation: decimal.NewFromInt(2000),
		ExpenseCategoryFood:           decimal.NewFromInt(3000),
		ExpenseCategoryEntertainment:  decimal.NewFromInt(1000),
		ExpenseCategoryShopping:       decimal.NewFromInt(1000),
	}
}

// MonthRecord is the complete budget state of one month
type MonthRecord struct {
	Budget          decimal.Decimal                     `json:"budget"`
	Expenses        []Expense                           `json:"expenses"`
	CategoryBudgets map[ExpenseCategory]decimal.Decimal `json:"categoryBudgets"`
	SavingsGoal     decimal.Decimal                     `json:"savingsGoal"`
}

// DefaultMonthRecord returns a freshly synthesized month
func DefaultMonthRecord() MonthRecord {
	return MonthRecord{
		Budget:          DefaultBudget,
		Expenses:        []Expense{},
		CategoryBudgets: DefaultCategoryBudgets(),
		SavingsGoal:     DefaultSavingsGoal,
	}
}

// Clone returns a deep copy so callers cannot mutate ledger state
func (r MonthRecord) Clone() MonthRecord {
	out := MonthRecord{
		Budget:          r.Budget,
		Expenses:        make([]Expense, len(r.Expenses)),
		CategoryBudgets: make(map[ExpenseCategory]decimal.Decimal, len(r.CategoryBudgets)),
		SavingsGoal:     r.SavingsGoal,
	}
	copy(out.Expenses, r.Expenses)
	for k, v := range r.CategoryBudgets {
		out.CategoryBudgets[k] = v
	}
	return out
}

// TotalExpenses sums every expense amount
func (r MonthRecord) TotalExpenses() decimal.Decimal {
	total := decimal.Zero
	for _, e := range r.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// RemainingBudget is budget minus total expenses; negative when overspent
func (r MonthRecord) RemainingBudget() decimal.Decimal {
	return r.Budget.Sub(r.TotalExpenses())
}

// Savings is the unspent part of the budget, never below zero
func (r MonthRecord) Savings() decimal.Decimal {
	return decimal.Max(decimal.Zero, r.RemainingBudget())
}

// AllocatedCategoryBudget sums the category sub-budgets
func (r MonthRecord) AllocatedCategoryBudget() decimal.Decimal {
	return SumCategoryBudgets(r.CategoryBudgets)
}

// SpendingByCategory sums expense amounts per category
func (r MonthRecord) SpendingByCategory() map[ExpenseCategory]decimal.Decimal {
	spending := make(map[ExpenseCategory]decimal.Decimal)
	for _, e := range r.Expenses {
		if e.Category == "" || e.Amount.IsZero() {
			continue
		}
		spending[e.Category] = spending[e.Category].Add(e.Amount)
	}
	return spending
}

// SumCategoryBudgets sums a category allocation map
func SumCategoryBudgets(m map[ExpenseCategory]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range m {
		total = total.Add(v)
	}
	return total
}

// ValidateCategoryBudgets requires exactly the six categories, each non-negative
func ValidateCategoryBudgets(m map[ExpenseCategory]decimal.Decimal) error {
	if len(m) != len(ExpenseCategories) {
		return ErrInvalidCategoryBudgets
	}
	for _, c := range ExpenseCategories {
		v, ok := m[c]
		if !ok || v.IsNegative() {
			return ErrInvalidCategoryBudgets
		}
	}
	return nil
}

// ValidateMonthData checks the structural invariants of a month record
func ValidateMonthData(r MonthRecord) error {
	if !r.Budget.IsPositive() {
		return fmt.Errorf("%w: budget must be positive", ErrInvalidMonthData)
	}
	if r.Expenses == nil {
		return fmt.Errorf("%w: expenses missing", ErrInvalidMonthData)
	}
	if r.CategoryBudgets == nil {
		return fmt.Errorf("%w: categoryBudgets missing", ErrInvalidMonthData)
	}
	for _, c := range ExpenseCategories {
		v, ok := r.CategoryBudgets[c]
		if !ok {
			return fmt.Errorf("%w: category %q missing", ErrInvalidMonthData, c)
		}
		if v.IsNegative() {
			return fmt.Errorf("%w: category %q is negative", ErrInvalidMonthData, c)
		}
	}
	if r.SavingsGoal.IsNegative() {
		return fmt.Errorf("%w: savingsGoal is negative", ErrInvalidMonthData)
	}
	return nil
}

// MonthlyData is the whole ledger document keyed by month
type MonthlyData map[MonthKey]MonthRecord

// Clone deep-copies every month
func (d MonthlyData) Clone() MonthlyData {
	out := make(MonthlyData, len(d))
	for k, v := range d {
		out[k] = v.Clone()
	}
	return out
}

// storedMonthRecord tracks field presence so a missing field is not mistaken for zero
type storedMonthRecord struct {
	Budget          *decimal.Decimal            `json:"budget"`
	Expenses        *[]Expense                  `json:"expenses"`
	CategoryBudgets map[string]*decimal.Decimal `json:"categoryBudgets"`
	SavingsGoal     *decimal.Decimal            `json:"savingsGoal"`
}

// DecodeMonthlyData parses a stored ledger document. Any month that fails
// validation invalidates the whole document.
func DecodeMonthlyData(raw []byte) (MonthlyData, error) {
	var stored map[string]storedMonthRecord
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMonthData, err)
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: document is null", ErrInvalidMonthData)
	}

	data := make(MonthlyData, len(stored))
	for rawKey, s := range stored {
		key, err := ParseMonthKey(rawKey)
		if err != nil || string(key) != rawKey {
			return nil, fmt.Errorf("%w: bad month key %q", ErrInvalidMonthData, rawKey)
		}
		if s.Budget == nil || s.Expenses == nil || s.CategoryBudgets == nil || s.SavingsGoal == nil {
			return nil, fmt.Errorf("%w: month %s is missing required fields", ErrInvalidMonthData, key)
		}

		record := MonthRecord{
			Budget:          *s.Budget,
			Expenses:        *s.Expenses,
			CategoryBudgets: make(map[ExpenseCategory]decimal.Decimal, len(s.CategoryBudgets)),
			SavingsGoal:     *s.SavingsGoal,
		}
		for c, v := range s.CategoryBudgets {
			if v == nil {
				return nil, fmt.Errorf("%w: month %s category %q is null", ErrInvalidMonthData, key, c)
			}
			record.CategoryBudgets[ExpenseCategory(c)] = *v
		}
		if err := ValidateMonthData(record); err != nil {
			return nil, fmt.Errorf("month %s: %w", key, err)
		}
		data[key] = record
	}
	return data, nil
}

// SeedMonthlyData returns the document written on first run
func SeedMonthlyData() MonthlyData {
	april := DefaultMonthRecord()
	april.Expenses = []Expense{
		seedExpense("1", "Weekly Groceries", 4500, ExpenseCategoryGroceries, "2025-04-15"),
		seedExpense("2", "Electricity Bill", 2800, ExpenseCategoryUtilities, "2025-04-10"),
		seedExpense("3", "Bus Fare", 1500, ExpenseCategoryTransportation, "2025-04-20"),
		seedExpense("4", "Restaurant Dinner", 2500, ExpenseCategoryFood, "2025-04-25"),
		seedExpense("5", "Movie Night", 800, ExpenseCategoryEntertainment, "2025-04-18"),
		seedExpense("6", "New Clothes", 1200, ExpenseCategoryShopping, "2025-04-05"),
	}

	return MonthlyData{
		"2025-05": DefaultMonthRecord(),
		"2025-04": april,
	}
}

func seedExpense(id, name string, amount int64, category ExpenseCategory, date string) Expense {
	return Expense{
		ID:       id,
		Name:     name,
		Amount:   decimal.NewFromInt(amount),
		Category: category,
		Date:     date,
		Month:    MonthKey(date[:7]),
	}
}
