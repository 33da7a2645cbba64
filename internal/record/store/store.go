package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/ledger/internal/database"
	"github.com/MrJamesThe3rd/ledger/internal/record"
)

type Store struct {
	db  *database.DB
	now func() time.Time
}

type Option func(*Store)

// WithClock overrides the time source used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(db *database.DB, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectRecordColumns = `
	id, type, amount_cents, occurred_on, payment_method_id, category_id, note, created_at, updated_at
`

// scanRecord reads a record row in selectRecordColumns order.
func scanRecord(s scanner) (*record.Record, error) {
	var (
		r                record.Record
		typeStr, date    string
		categoryID       sql.NullInt64
		created, updated string
	)

	if err := s.Scan(
		&r.ID, &typeStr, &r.Amount, &date, &r.PaymentMethodID, &categoryID, &r.Note, &created, &updated,
	); err != nil {
		return nil, err
	}

	r.Type = record.Type(typeStr)

	if categoryID.Valid {
		r.CategoryID = &categoryID.Int64
	}

	var err error

	if r.Date, err = database.ParseDate(date); err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", date, err)
	}

	if r.CreatedAt, err = database.ParseTimestamp(created); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	if r.UpdatedAt, err = database.ParseTimestamp(updated); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &r, nil
}

// execer lets inserts run against either the DB or an open transaction.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) insert(ctx context.Context, q execer, r *record.Record) error {
	now := s.now().UTC()
	stamp := database.FormatTimestamp(now)

	query := `
		INSERT INTO records (type, amount_cents, occurred_on, payment_method_id, category_id, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	err := q.QueryRowContext(ctx, query,
		string(r.Type),
		r.Amount,
		database.FormatDate(r.Date),
		r.PaymentMethodID,
		r.CategoryID,
		r.Note,
		stamp,
		stamp,
	).Scan(&r.ID)
	if err != nil {
		return err
	}

	r.CreatedAt = now
	r.UpdatedAt = now

	return nil
}

func (s *Store) Create(ctx context.Context, r *record.Record) error {
	if err := s.insert(ctx, s.db, r); err != nil {
		return fmt.Errorf("creating record: %w", err)
	}

	return nil
}

// CreateBatch inserts all records or none.
func (s *Store) CreateBatch(ctx context.Context, rs []*record.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning batch: %w", err)
	}
	defer tx.Rollback()

	for _, r := range rs {
		if err := s.insert(ctx, tx, r); err != nil {
			return fmt.Errorf("creating record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (*record.Record, error) {
	query := `SELECT ` + selectRecordColumns + ` FROM records WHERE id = ?`

	r, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, record.ErrNotFound
		}

		return nil, fmt.Errorf("getting record: %w", err)
	}

	return r, nil
}

// Update writes only the fields present in changes and refreshes updated_at.
// Empty changes write nothing.
func (s *Store) Update(ctx context.Context, id int64, changes record.Changes) error {
	if changes.IsZero() {
		return nil
	}

	var (
		sets []string
		args []any
	)

	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if changes.Type != nil {
		set("type", string(*changes.Type))
	}

	if changes.Amount != nil {
		set("amount_cents", *changes.Amount)
	}

	if changes.Date != nil {
		set("occurred_on", database.FormatDate(*changes.Date))
	}

	if changes.PaymentMethodID != nil {
		set("payment_method_id", *changes.PaymentMethodID)
	}

	switch {
	case changes.ClearCategory:
		sets = append(sets, "category_id = NULL")
	case changes.CategoryID != nil:
		set("category_id", *changes.CategoryID)
	}

	if changes.Note != nil {
		set("note", *changes.Note)
	}

	set("updated_at", database.FormatTimestamp(s.now()))

	args = append(args, id)
	query := `UPDATE records SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating record: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}

	return nil
}

var orderClauses = map[record.Order]string{
	record.OrderDateDesc:   "occurred_on DESC, id DESC",
	record.OrderDateAsc:    "occurred_on ASC, id ASC",
	record.OrderAmountDesc: "amount_cents DESC, id DESC",
	record.OrderAmountAsc:  "amount_cents ASC, id ASC",
}

func (s *Store) Search(ctx context.Context, filter record.Filter) ([]*record.Record, error) {
	var (
		where []string
		args  []any
	)

	add := func(cond string, value any) {
		where = append(where, cond)
		args = append(args, value)
	}

	if filter.MinAmount != nil {
		add("amount_cents >= ?", *filter.MinAmount)
	}

	if filter.MaxAmount != nil {
		add("amount_cents <= ?", *filter.MaxAmount)
	}

	if filter.Start != nil {
		add("occurred_on >= ?", database.FormatDate(*filter.Start))
	}

	if filter.End != nil {
		add("occurred_on <= ?", database.FormatDate(*filter.End))
	}

	if filter.CategoryID != nil {
		add("category_id = ?", *filter.CategoryID)
	}

	if filter.PaymentMethodID != nil {
		add("payment_method_id = ?", *filter.PaymentMethodID)
	}

	if filter.Keyword != "" {
		add("note LIKE ?", "%"+filter.Keyword+"%")
	}

	if filter.Type != nil && filter.Type.Valid() {
		add("type = ?", string(*filter.Type))
	}

	query := `SELECT ` + selectRecordColumns + ` FROM records`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	order, ok := orderClauses[filter.Order]
	if !ok {
		order = orderClauses[record.OrderDateDesc]
	}

	query += " ORDER BY " + order

	if filter.Limit > 0 {
		query += " LIMIT ?"

		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching records: %w", err)
	}
	defer rows.Close()

	var records []*record.Record

	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return records, nil
}
