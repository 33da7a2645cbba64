package budget_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/ledger/internal/budget"
	"github.com/MrJamesThe3rd/ledger/internal/category"
	"github.com/MrJamesThe3rd/ledger/internal/record"
)

type mocks struct {
	repo       *budget.MockRepository
	categories *budget.MockCategoryService
	records    *budget.MockRecordSearcher
}

func newService(t *testing.T) (*budget.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:       budget.NewMockRepository(ctrl),
		categories: budget.NewMockCategoryService(ctrl),
		records:    budget.NewMockRecordSearcher(ctrl),
	}

	return budget.NewService(m.repo, m.categories, m.records), m
}

func TestService_SetBudget(t *testing.T) {
	type testCase struct {
		name          string
		month         budget.Month
		total         int64
		threshold     float64
		wantThreshold float64
		wantErr       error
	}

	tests := []testCase{
		{name: "InRange", month: "2024-03", total: 300000, threshold: 0.8, wantThreshold: 0.8},
		{name: "ClampedHigh", month: "2024-03", total: 300000, threshold: 1.5, wantThreshold: 1},
		{name: "ClampedLow", month: "2024-03", total: 300000, threshold: -2, wantThreshold: 0},
		{name: "BadMonth", month: "2024-3x", total: 1, threshold: 0.5, wantErr: budget.ErrInvalidMonth},
		{name: "NegativeTotal", month: "2024-03", total: -1, threshold: 0.5, wantErr: record.ErrInvalidAmount},
		{name: "NaNThreshold", month: "2024-03", total: 1, threshold: math.NaN(), wantErr: budget.ErrInvalidThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			if tt.wantErr == nil {
				m.repo.EXPECT().Upsert(gomock.Any(), &budget.Budget{
					Month:     tt.month,
					Total:     tt.total,
					Threshold: tt.wantThreshold,
				}).Return(nil)
			}

			got, err := svc.SetBudget(context.Background(), tt.month, tt.total, tt.threshold)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantThreshold, got.Threshold)
		})
	}
}

func TestService_SetCategoryBudget(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().GetByMonth(gomock.Any(), budget.Month("2024-03")).Return(&budget.Budget{ID: 5}, nil)
		m.categories.EXPECT().GetOrCreate(gomock.Any(), "food").Return(&category.Category{ID: 2, Name: "food"}, nil)
		m.repo.EXPECT().UpsertItem(gomock.Any(), &budget.Item{BudgetID: 5, CategoryID: 2, Amount: 50000}).Return(nil)

		item, err := svc.SetCategoryBudget(context.Background(), "2024-03", "food", 50000)
		require.NoError(t, err)
		assert.Equal(t, int64(2), item.CategoryID)
	})

	t.Run("NoBudgetNoWrite", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().GetByMonth(gomock.Any(), budget.Month("2024-03")).Return(nil, budget.ErrBudgetNotSet)

		_, err := svc.SetCategoryBudget(context.Background(), "2024-03", "food", 50000)
		assert.ErrorIs(t, err, budget.ErrBudgetNotSet)
	})

	t.Run("RepoError", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().GetByMonth(gomock.Any(), budget.Month("2024-03")).Return(nil, errors.New("db down"))

		_, err := svc.SetCategoryBudget(context.Background(), "2024-03", "food", 50000)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, budget.ErrBudgetNotSet)
	})
}

func expense(amount int64, categoryID *int64) *record.Record {
	return &record.Record{Type: record.TypeExpense, Amount: amount, CategoryID: categoryID}
}

func TestService_Progress(t *testing.T) {
	food, rent, fun := int64(1), int64(2), int64(3)

	marchFilter := record.Filter{
		Type:  new(record.TypeExpense),
		Start: new(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		End:   new(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)),
	}

	t.Run("WithItems", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().GetByMonth(gomock.Any(), budget.Month("2024-03")).
			Return(&budget.Budget{ID: 9, Month: "2024-03", Total: 100000, Threshold: 0.8}, nil)
		m.repo.EXPECT().ListItems(gomock.Any(), int64(9)).Return([]*budget.Item{
			{BudgetID: 9, CategoryID: food, Amount: 40000},
			{BudgetID: 9, CategoryID: 42, Amount: 1000},
		}, nil)
		m.records.EXPECT().Search(gomock.Any(), marchFilter).Return([]*record.Record{
			expense(30000, &food),
			expense(20000, &food),
			expense(35000, &rent),
			expense(5000, &fun),
			expense(1000, nil),
		}, nil)
		m.categories.EXPECT().Names(gomock.Any()).Return(map[int64]string{food: "food", rent: "rent", fun: "fun"}, nil)

		p, err := svc.Progress(context.Background(), "2024-03")
		require.NoError(t, err)

		assert.Equal(t, int64(100000), p.Total)
		assert.Equal(t, int64(91000), p.Spent)
		assert.InDelta(t, 0.91, p.UsageRatio, 1e-9)
		assert.True(t, p.Warning())
		assert.Equal(t, []budget.CategoryProgress{
			{CategoryID: food, Name: "food", Budgeted: 40000, Spent: 50000},
			{CategoryID: 42, Name: "Category #42", Budgeted: 1000, Spent: 0},
		}, p.Categories)
	})

	t.Run("NoBudget", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().GetByMonth(gomock.Any(), budget.Month("2024-03")).Return(nil, budget.ErrBudgetNotSet)
		m.records.EXPECT().Search(gomock.Any(), marchFilter).Return([]*record.Record{expense(5000, nil)}, nil)
		m.categories.EXPECT().Names(gomock.Any()).Return(map[int64]string{}, nil)

		p, err := svc.Progress(context.Background(), "2024-03")
		require.NoError(t, err)

		assert.Equal(t, int64(0), p.Total)
		assert.Equal(t, int64(5000), p.Spent)
		assert.Equal(t, 0.0, p.UsageRatio)
		assert.Equal(t, budget.DefaultThreshold, p.Threshold)
		assert.False(t, p.Warning())
		assert.Empty(t, p.Categories)
	})

	t.Run("ZeroTotal", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().GetByMonth(gomock.Any(), budget.Month("2024-03")).
			Return(&budget.Budget{ID: 1, Month: "2024-03", Total: 0, Threshold: 0}, nil)
		m.repo.EXPECT().ListItems(gomock.Any(), int64(1)).Return(nil, nil)
		m.records.EXPECT().Search(gomock.Any(), marchFilter).Return([]*record.Record{expense(99999, nil)}, nil)
		m.categories.EXPECT().Names(gomock.Any()).Return(nil, nil)

		p, err := svc.Progress(context.Background(), "2024-03")
		require.NoError(t, err)
		assert.Equal(t, 0.0, p.UsageRatio)
		assert.False(t, p.Warning())
	})

	t.Run("FebruaryWindow", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().GetByMonth(gomock.Any(), budget.Month("2023-02")).Return(nil, budget.ErrBudgetNotSet)
		m.records.EXPECT().Search(gomock.Any(), record.Filter{
			Type:  new(record.TypeExpense),
			Start: new(time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)),
			End:   new(time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)),
		}).Return(nil, nil)
		m.categories.EXPECT().Names(gomock.Any()).Return(nil, nil)

		_, err := svc.Progress(context.Background(), "2023-02")
		require.NoError(t, err)
	})
}
