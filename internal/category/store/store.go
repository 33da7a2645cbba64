package store

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/ledger/internal/category"
	"github.com/MrJamesThe3rd/ledger/internal/database"
)

type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

// GetOrCreate inserts the name if absent and then reads it back, so two
// callers with the same name always see the same row.
func (s *Store) GetOrCreate(ctx context.Context, name string) (*category.Category, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name,
	); err != nil {
		return nil, fmt.Errorf("inserting category: %w", err)
	}

	var c category.Category
	if err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE name = ?`, name,
	).Scan(&c.ID, &c.Name); err != nil {
		return nil, fmt.Errorf("fetching category: %w", err)
	}

	return &c, nil
}

func (s *Store) List(ctx context.Context) ([]*category.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cats []*category.Category

	for rows.Next() {
		var c category.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		cats = append(cats, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return cats, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	return nil
}
