package budget

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/MrJamesThe3rd/ledger/internal/category"
	"github.com/MrJamesThe3rd/ledger/internal/record"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	Upsert(ctx context.Context, b *Budget) error
	GetByMonth(ctx context.Context, month Month) (*Budget, error)
	UpsertItem(ctx context.Context, item *Item) error
	ListItems(ctx context.Context, budgetID int64) ([]*Item, error)
}

type CategoryService interface {
	GetOrCreate(ctx context.Context, name string) (*category.Category, error)
	Names(ctx context.Context) (map[int64]string, error)
}

type RecordSearcher interface {
	Search(ctx context.Context, filter record.Filter) ([]*record.Record, error)
}

type Service struct {
	repo       Repository
	categories CategoryService
	records    RecordSearcher
}

func NewService(repo Repository, categories CategoryService, records RecordSearcher) *Service {
	return &Service{repo: repo, categories: categories, records: records}
}

// SetBudget creates or replaces the month's budget. The threshold is clamped to [0, 1].
func (s *Service) SetBudget(ctx context.Context, month Month, total int64, threshold float64) (*Budget, error) {
	if _, _, err := month.Range(); err != nil {
		return nil, err
	}

	if total < 0 {
		return nil, fmt.Errorf("%w: total %d is negative", record.ErrInvalidAmount, total)
	}

	if math.IsNaN(threshold) {
		return nil, fmt.Errorf("%w: NaN", ErrInvalidThreshold)
	}

	b := &Budget{
		Month:     month,
		Total:     total,
		Threshold: ClampThreshold(threshold),
	}

	if err := s.repo.Upsert(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// SetCategoryBudget allocates amount to a category within an existing month budget.
// It fails with ErrBudgetNotSet, without writing, when the month has no budget.
func (s *Service) SetCategoryBudget(ctx context.Context, month Month, categoryName string, amount int64) (*Item, error) {
	if _, _, err := month.Range(); err != nil {
		return nil, err
	}

	if amount < 0 {
		return nil, fmt.Errorf("%w: amount %d is negative", record.ErrInvalidAmount, amount)
	}

	b, err := s.repo.GetByMonth(ctx, month)
	if err != nil {
		if errors.Is(err, ErrBudgetNotSet) {
			return nil, fmt.Errorf("%w: %s, set the month budget first", ErrBudgetNotSet, month)
		}

		return nil, err
	}

	c, err := s.categories.GetOrCreate(ctx, categoryName)
	if err != nil {
		return nil, err
	}

	item := &Item{BudgetID: b.ID, CategoryID: c.ID, Amount: amount}
	if err := s.repo.UpsertItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// Progress sums the month's expenses against its budget. A month without a
// budget reports a zero total and the default threshold.
func (s *Service) Progress(ctx context.Context, month Month) (*Progress, error) {
	start, end, err := month.Range()
	if err != nil {
		return nil, err
	}

	b, err := s.repo.GetByMonth(ctx, month)
	if err != nil && !errors.Is(err, ErrBudgetNotSet) {
		return nil, err
	}

	var items []*Item

	if b != nil {
		if items, err = s.repo.ListItems(ctx, b.ID); err != nil {
			return nil, err
		}
	}

	expenses, err := s.records.Search(ctx, record.Filter{
		Type:  new(record.TypeExpense),
		Start: &start,
		End:   &end,
	})
	if err != nil {
		return nil, fmt.Errorf("loading month expenses: %w", err)
	}

	names, err := s.categories.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading category names: %w", err)
	}

	return computeProgress(month, b, items, expenses, names), nil
}
