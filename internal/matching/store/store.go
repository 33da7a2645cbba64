package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/ledger/internal/database"
	"github.com/MrJamesThe3rd/ledger/internal/matching"
)

type Store struct {
	db  *database.DB
	now func() time.Time
}

func New(db *database.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectRuleColumns = `r.id, r.pattern, r.category_id, c.name, r.created_at`

func scanRule(s scanner) (*matching.Rule, error) {
	var (
		r       matching.Rule
		created string
	)

	if err := s.Scan(&r.ID, &r.Pattern, &r.CategoryID, &r.CategoryName, &created); err != nil {
		return nil, err
	}

	t, err := database.ParseTimestamp(created)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	r.CreatedAt = t

	return &r, nil
}

// FindMatch returns the rule with the longest pattern contained in note,
// ignoring case, or nil when none matches. Patterns match literally: LIKE
// wildcards stored in a pattern are escaped.
func (s *Store) FindMatch(ctx context.Context, note string) (*matching.Rule, error) {
	query := `SELECT ` + selectRuleColumns + `
		FROM category_rules r
		JOIN categories c ON c.id = r.category_id
		WHERE LOWER(CAST(? AS TEXT)) LIKE '%' || ` + literalPattern + ` || '%' ESCAPE '\'
		ORDER BY LENGTH(r.pattern) DESC, r.id DESC
		LIMIT 1`

	rule, err := scanRule(s.db.QueryRowContext(ctx, query, note))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding rule: %w", err)
	}

	return rule, nil
}

// literalPattern is r.pattern lowered with the LIKE escape character and
// wildcards prefixed by a backslash.
const literalPattern = `REPLACE(REPLACE(REPLACE(LOWER(r.pattern), '\', '\\'), '%', '\%'), '_', '\_')`

func (s *Store) Save(ctx context.Context, pattern string, categoryID int64) (*matching.Rule, error) {
	query := `
		INSERT INTO category_rules (pattern, category_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (pattern) DO UPDATE SET category_id = excluded.category_id
		RETURNING id, created_at
	`

	r := matching.Rule{Pattern: pattern, CategoryID: categoryID}

	var created string
	if err := s.db.QueryRowContext(ctx, query, pattern, categoryID, database.FormatTimestamp(s.now())).Scan(&r.ID, &created); err != nil {
		return nil, fmt.Errorf("saving rule: %w", err)
	}

	t, err := database.ParseTimestamp(created)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	r.CreatedAt = t

	return &r, nil
}

func (s *Store) List(ctx context.Context) ([]*matching.Rule, error) {
	query := `SELECT ` + selectRuleColumns + `
		FROM category_rules r
		JOIN categories c ON c.id = r.category_id
		ORDER BY r.pattern ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []*matching.Rule

	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		rules = append(rules, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rules: %w", err)
	}

	return rules, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM category_rules WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}

	return nil
}
