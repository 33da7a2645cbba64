package store

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/ledger/internal/database"
	"github.com/MrJamesThe3rd/ledger/internal/payment"
)

type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetOrCreate(ctx context.Context, name string) (*payment.Method, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO payment_methods (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name,
	); err != nil {
		return nil, fmt.Errorf("inserting payment method: %w", err)
	}

	var m payment.Method
	if err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM payment_methods WHERE name = ?`, name,
	).Scan(&m.ID, &m.Name); err != nil {
		return nil, fmt.Errorf("fetching payment method: %w", err)
	}

	return &m, nil
}

func (s *Store) List(ctx context.Context) ([]*payment.Method, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM payment_methods ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing payment methods: %w", err)
	}
	defer rows.Close()

	var methods []*payment.Method

	for rows.Next() {
		var m payment.Method
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("scanning payment method: %w", err)
		}

		methods = append(methods, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payment methods: %w", err)
	}

	return methods, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete: %w", err)
	}
	defer tx.Rollback()

	var used int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM records WHERE payment_method_id = ?`, id,
	).Scan(&used); err != nil {
		return fmt.Errorf("counting records for payment method: %w", err)
	}

	if used > 0 {
		return fmt.Errorf("%w: %d record(s)", payment.ErrInUse, used)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM payment_methods WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting payment method: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	return nil
}
