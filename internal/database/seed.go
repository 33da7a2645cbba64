package database

import (
	"context"
	"fmt"
)

var DefaultPaymentMethods = []string{"WeChat", "Alipay", "Cash"}

// SeedPaymentMethods inserts names only when the payment_methods table is empty.
// The check is by count, so removing every method and bootstrapping again reseeds.
func SeedPaymentMethods(ctx context.Context, db *DB, names []string) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM payment_methods`).Scan(&count); err != nil {
		return fmt.Errorf("counting payment methods: %w", err)
	}

	if count > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed: %w", err)
	}
	defer tx.Rollback()

	for _, name := range names {
		if _, err := tx.ExecContext(ctx, `INSERT INTO payment_methods (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("seeding payment method %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}

	return nil
}
