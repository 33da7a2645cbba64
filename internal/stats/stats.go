// Package stats aggregates records into net outflow per day, category or
// payment method. Expenses count positive and income negative.
package stats

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/ledger/internal/record"
)

var (
	ErrInvalidDimension = errors.New("invalid stats dimension")
	ErrInvalidRange     = errors.New("start date is after end date")
)

const (
	UncategorizedLabel = "Uncategorized"
	UnknownMethodLabel = "Unknown"
)

type Dimension string

const (
	DimensionTime          Dimension = "time"
	DimensionCategory      Dimension = "category"
	DimensionPaymentMethod Dimension = "payment_method"
)

func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "time", "day", "date":
		return DimensionTime, nil
	case "category":
		return DimensionCategory, nil
	case "method", "payment_method", "payment-method":
		return DimensionPaymentMethod, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidDimension, s)
}

// Item is one group's net outflow in cents.
type Item struct {
	Label  string
	Amount int64
}

type Result struct {
	Dimension    Dimension
	Start        time.Time
	End          time.Time
	Items        []Item
	TotalIncome  int64
	TotalExpense int64
}

// ByTime groups by calendar date, oldest first.
func ByTime(records []*record.Record) ([]Item, int64, int64) {
	items, income, expense := group(records, func(r *record.Record) string {
		return r.Date.Format(time.DateOnly)
	})

	slices.SortFunc(items, func(a, b Item) int { return cmp.Compare(a.Label, b.Label) })

	return items, income, expense
}

// ByCategory groups by category name, largest magnitude first.
func ByCategory(records []*record.Record, names map[int64]string) ([]Item, int64, int64) {
	items, income, expense := group(records, func(r *record.Record) string {
		if r.CategoryID == nil {
			return UncategorizedLabel
		}

		if name, ok := names[*r.CategoryID]; ok {
			return name
		}

		return UncategorizedLabel
	})

	sortByMagnitude(items)

	return items, income, expense
}

// ByPaymentMethod groups by payment method name, largest magnitude first.
func ByPaymentMethod(records []*record.Record, names map[int64]string) ([]Item, int64, int64) {
	items, income, expense := group(records, func(r *record.Record) string {
		if name, ok := names[r.PaymentMethodID]; ok {
			return name
		}

		return UnknownMethodLabel
	})

	sortByMagnitude(items)

	return items, income, expense
}

func group(records []*record.Record, key func(*record.Record) string) ([]Item, int64, int64) {
	var income, expense int64

	sums := make(map[string]int64)
	order := make([]string, 0)

	for _, r := range records {
		k := key(r)
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}

		sums[k] += r.Signed()

		switch r.Type {
		case record.TypeIncome:
			income += r.Amount
		case record.TypeExpense:
			expense += r.Amount
		}
	}

	items := make([]Item, 0, len(order))
	for _, k := range order {
		items = append(items, Item{Label: k, Amount: sums[k]})
	}

	return items, income, expense
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}

func sortByMagnitude(items []Item) {
	slices.SortFunc(items, func(a, b Item) int {
		if c := cmp.Compare(abs(b.Amount), abs(a.Amount)); c != 0 {
			return c
		}

		return cmp.Compare(a.Label, b.Label)
	})
}
