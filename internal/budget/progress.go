package budget

import (
	"fmt"

	"github.com/MrJamesThe3rd/ledger/internal/record"
)

// Progress reports spending against a month's budget.
type Progress struct {
	Month      Month
	Total      int64
	Spent      int64
	UsageRatio float64
	Threshold  float64
	Categories []CategoryProgress
}

type CategoryProgress struct {
	CategoryID int64
	Name       string
	Budgeted   int64
	Spent      int64
}

// Warning reports whether spending reached the alert threshold.
func (p *Progress) Warning() bool {
	return p.Total > 0 && p.UsageRatio >= p.Threshold
}

// computeProgress sums expense records against the budget. Per-category
// spending is only reported for categories that have a budget item.
// A nil budget is treated as zero total with the default threshold.
func computeProgress(month Month, b *Budget, items []*Item, expenses []*record.Record, names map[int64]string) *Progress {
	p := &Progress{
		Month:     month,
		Threshold: DefaultThreshold,
	}

	if b != nil {
		p.Total = b.Total
		p.Threshold = b.Threshold
	}

	byCategory := make(map[int64]int64)

	for _, r := range expenses {
		if r.Type != record.TypeExpense {
			continue
		}

		p.Spent += r.Amount

		if r.CategoryID != nil {
			byCategory[*r.CategoryID] += r.Amount
		}
	}

	if p.Total > 0 {
		p.UsageRatio = float64(p.Spent) / float64(p.Total)
	}

	for _, item := range items {
		name, ok := names[item.CategoryID]
		if !ok {
			name = fmt.Sprintf("Category #%d", item.CategoryID)
		}

		p.Categories = append(p.Categories, CategoryProgress{
			CategoryID: item.CategoryID,
			Name:       name,
			Budgeted:   item.Amount,
			Spent:      byCategory[item.CategoryID],
		})
	}

	return p
}
