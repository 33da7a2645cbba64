package budget

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const DefaultThreshold = 0.8

var (
	ErrBudgetNotSet     = errors.New("budget for month not set")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidThreshold = errors.New("invalid threshold")
)

// Month is a calendar month key in YYYY-MM form.
type Month string

// ParseMonth accepts YYYY-MM or a full YYYY-MM-DD date and normalizes to YYYY-MM.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)

	layout := time.DateOnly
	if len(s) == len("2006-01") {
		layout = "2006-01"
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}

	return MonthOf(t), nil
}

func MonthOf(t time.Time) Month {
	return Month(t.Format("2006-01"))
}

// Range returns the first and last calendar day of the month.
func (m Month) Range() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", string(m))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, m)
	}

	return start, start.AddDate(0, 1, -1), nil
}

// Budget is the spending cap for one month.
type Budget struct {
	ID        int64
	Month     Month
	Total     int64 // cents
	Threshold float64
}

// Item allocates part of a month's budget to a category.
type Item struct {
	ID         int64
	BudgetID   int64
	CategoryID int64
	Amount     int64 // cents
}

// ClampThreshold holds t within [0, 1]. NaN falls back to DefaultThreshold.
func ClampThreshold(t float64) float64 {
	if math.IsNaN(t) {
		return DefaultThreshold
	}

	return min(max(t, 0), 1)
}
