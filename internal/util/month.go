package util

import (
	"fmt"
	"time"
)

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// AddMonths shifts a year/month pair by n calendar months (n may be negative)
func AddMonths(year, month, n int) (int, int) {
	idx := year*12 + (month - 1) + n
	return idx / 12, idx%12 + 1
}

// IsCurrentMonth returns true if year/month is the calendar month of now
func IsCurrentMonth(year, month int, now time.Time) bool {
	return now.Year() == year && int(now.Month()) == month
}

// IsHistoricalMonth returns true if the given year/month is before the month of now
func IsHistoricalMonth(year, month int, now time.Time) bool {
	currentYear := now.Year()
	currentMonth := int(now.Month())

	if year < currentYear {
		return true
	}
	if year == currentYear && month < currentMonth {
		return true
	}
	return false
}

// DateOnly truncates t to midnight UTC of its local calendar date, so that
// day differences are not skewed by DST transitions
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// OrdinalSuffix returns the English ordinal suffix for a day of month
func OrdinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// Ordinal formats a day of month with its suffix, e.g. 21 -> "21st"
func Ordinal(day int) string {
	return fmt.Sprintf("%d%s", day, OrdinalSuffix(day))
}
