package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/ledger/internal/budget"
	"github.com/MrJamesThe3rd/ledger/internal/database"
)

type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

// Upsert creates or replaces the budget for b.Month and sets b.ID.
func (s *Store) Upsert(ctx context.Context, b *budget.Budget) error {
	query := `
		INSERT INTO budgets (month, total_cents, threshold)
		VALUES (?, ?, ?)
		ON CONFLICT (month) DO UPDATE SET total_cents = excluded.total_cents, threshold = excluded.threshold
		RETURNING id
	`

	if err := s.db.QueryRowContext(ctx, query, string(b.Month), b.Total, b.Threshold).Scan(&b.ID); err != nil {
		return fmt.Errorf("upserting budget: %w", err)
	}

	return nil
}

// GetByMonth returns budget.ErrBudgetNotSet when the month has no budget.
func (s *Store) GetByMonth(ctx context.Context, month budget.Month) (*budget.Budget, error) {
	var (
		b        budget.Budget
		monthStr string
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, month, total_cents, threshold FROM budgets WHERE month = ?`, string(month),
	).Scan(&b.ID, &monthStr, &b.Total, &b.Threshold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, budget.ErrBudgetNotSet
		}

		return nil, fmt.Errorf("getting budget: %w", err)
	}

	b.Month = budget.Month(monthStr)

	return &b, nil
}

// UpsertItem creates or replaces the allocation for (BudgetID, CategoryID) and sets item.ID.
func (s *Store) UpsertItem(ctx context.Context, item *budget.Item) error {
	query := `
		INSERT INTO budget_items (budget_id, category_id, amount_cents)
		VALUES (?, ?, ?)
		ON CONFLICT (budget_id, category_id) DO UPDATE SET amount_cents = excluded.amount_cents
		RETURNING id
	`

	if err := s.db.QueryRowContext(ctx, query, item.BudgetID, item.CategoryID, item.Amount).Scan(&item.ID); err != nil {
		return fmt.Errorf("upserting budget item: %w", err)
	}

	return nil
}

func (s *Store) ListItems(ctx context.Context, budgetID int64) ([]*budget.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, budget_id, category_id, amount_cents FROM budget_items WHERE budget_id = ? ORDER BY id ASC`, budgetID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing budget items: %w", err)
	}
	defer rows.Close()

	var items []*budget.Item

	for rows.Next() {
		var item budget.Item
		if err := rows.Scan(&item.ID, &item.BudgetID, &item.CategoryID, &item.Amount); err != nil {
			return nil, fmt.Errorf("scanning budget item: %w", err)
		}

		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget items: %w", err)
	}

	return items, nil
}
