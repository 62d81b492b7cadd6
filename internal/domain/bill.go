package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BillInterval is how often a recurring bill repeats
type BillInterval string

const (
	BillIntervalMonthly    BillInterval = "monthly"
	BillIntervalBimonthly  BillInterval = "bimonthly"
	BillIntervalQuarterly  BillInterval = "quarterly"
	BillIntervalSemiannual BillInterval = "semiannual"
	BillIntervalAnnual     BillInterval = "annual"
)

// BillIntervals lists every interval in display order
var BillIntervals = []BillInterval{
	BillIntervalMonthly,
	BillIntervalBimonthly,
	BillIntervalQuarterly,
	BillIntervalSemiannual,
	BillIntervalAnnual,
}

// Months returns the length of the interval in calendar months
func (i BillInterval) Months() int {
	switch i {
	case BillIntervalBimonthly:
		return 2
	case BillIntervalQuarterly:
		return 3
	case BillIntervalSemiannual:
		return 6
	case BillIntervalAnnual:
		return 12
	default:
		return 1
	}
}

// IsValid reports whether i is a known interval
func (i BillInterval) IsValid() bool {
	for _, known := range BillIntervals {
		if i == known {
			return true
		}
	}
	return false
}

// BillDuration is either open-ended or a fixed number of occurrences
type BillDuration string

const (
	BillDurationIndefinite BillDuration = "indefinite"
	BillDurationFixed      BillDuration = "fixed"
)

// BillCategory is one of the nine bill categories. It is a separate
// taxonomy from ExpenseCategory even where names overlap.
type BillCategory string

const (
	BillCategoryUtilities    BillCategory = "utilities"
	BillCategoryRent         BillCategory = "rent"
	BillCategoryInternet     BillCategory = "internet"
	BillCategoryPhone        BillCategory = "phone"
	BillCategoryInsurance    BillCategory = "insurance"
	BillCategorySubscription BillCategory = "subscription"
	BillCategoryEducation    BillCategory = "education"
	BillCategoryHealthcare   BillCategory = "healthcare"
	BillCategoryOthers       BillCategory = "others"
)

// BillCategories lists every bill category in display order
var BillCategories = []BillCategory{
	BillCategoryUtilities,
	BillCategoryRent,
	BillCategoryInternet,
	BillCategoryPhone,
	BillCategoryInsurance,
	BillCategorySubscription,
	BillCategoryEducation,
	BillCategoryHealthcare,
	BillCategoryOthers,
}

// IsValid reports whether c is a known bill category
func (c BillCategory) IsValid() bool {
	for _, known := range BillCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Bill is a recurring bill definition
type Bill struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     int             `json:"dueDate"`
	Interval    BillInterval    `json:"interval"`
	Duration    BillDuration    `json:"duration"`
	Occurrences int             `json:"occurrences,omitempty"`
	Category    BillCategory    `json:"category"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
}

// UnmarshalJSON tolerates occurrences stored as a string, which is how the
// mobile entry form kept it.
func (b *Bill) UnmarshalJSON(data []byte) error {
	type alias Bill
	aux := struct {
		Occurrences json.RawMessage `json:"occurrences"`
		*alias
	}{alias: (*alias)(b)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.Occurrences)
	switch {
	case len(raw) == 0 || string(raw) == "null":
		b.Occurrences = 0
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			b.Occurrences = 0
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("bill occurrences: %w", err)
		}
		b.Occurrences = n
	default:
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("bill occurrences: %w", err)
		}
		b.Occurrences = n
	}
	return nil
}

// ApplyDefaults fills the optional fields the entry form preselects
func (b *Bill) ApplyDefaults() {
	b.Name = strings.TrimSpace(b.Name)
	if b.Interval == "" {
		b.Interval = BillIntervalMonthly
	}
	if b.Duration == "" {
		b.Duration = BillDurationIndefinite
	}
	if b.Category == "" {
		b.Category = BillCategoryUtilities
	}
	if b.Duration == BillDurationIndefinite {
		b.Occurrences = 0
	}
}

// Validate checks a bill before it is written to the register
func (b Bill) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidBill)
	}
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidBill)
	}
	if len(b.Name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidBill, MaxNameLength)
	}
	if !b.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidBill)
	}
	if b.DueDate < 1 || b.DueDate > 31 {
		return fmt.Errorf("%w: due date must be a day between 1 and 31", ErrInvalidBill)
	}
	if !b.Interval.IsValid() {
		return fmt.Errorf("%w: unknown interval %q", ErrInvalidBill, b.Interval)
	}
	switch b.Duration {
	case BillDurationIndefinite:
	case BillDurationFixed:
		if b.Occurrences <= 0 {
			return fmt.Errorf("%w: occurrences must be greater than zero", ErrInvalidBill)
		}
	default:
		return fmt.Errorf("%w: unknown duration %q", ErrInvalidBill, b.Duration)
	}
	if !b.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidBill, b.Category)
	}
	return nil
}

// UpcomingBill is a bill annotated with its projected distance to the next due date
type UpcomingBill struct {
	Bill
	DaysUntilDue int `json:"daysUntilDue"`
}

// UnmarshalJSON decodes the embedded bill and daysUntilDue separately;
// otherwise the promoted Bill.UnmarshalJSON would drop daysUntilDue.
func (u *UpcomingBill) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &u.Bill); err != nil {
		return err
	}
	var aux struct {
		DaysUntilDue int `json:"daysUntilDue"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.DaysUntilDue = aux.DaysUntilDue
	return nil
}

// BillRolloverPolicy decides how far a passed due date rolls forward
type BillRolloverPolicy string

const (
	// BillRolloverMonthly always advances one calendar month
	BillRolloverMonthly BillRolloverPolicy = "monthly"
	// BillRolloverInterval advances by the bill's own interval
	BillRolloverInterval BillRolloverPolicy = "interval"
)

// ParseBillRolloverPolicy maps a config value to a policy; empty means monthly
func ParseBillRolloverPolicy(s string) (BillRolloverPolicy, error) {
	switch BillRolloverPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", BillRolloverMonthly:
		return BillRolloverMonthly, nil
	case BillRolloverInterval:
		return BillRolloverInterval, nil
	default:
		return "", fmt.Errorf("%w: unknown bill rollover policy %q", ErrInvalidInput, s)
	}
}
