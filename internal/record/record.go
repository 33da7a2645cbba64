package record

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/ledger/internal/money"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidType   = errors.New("invalid record type")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = money.ErrInvalidAmount
)

// Type represents the kind of record (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}

	return t, nil
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	return d, nil
}

// Record is a single income or expense entry.
type Record struct {
	ID              int64
	Type            Type
	Amount          int64 // Amount in cents, never negative
	Date            time.Time
	PaymentMethodID int64
	CategoryID      *int64 // nil means uncategorized
	Note            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Signed is the record's contribution to net outflow: expenses count
// positive and income negative.
func (r *Record) Signed() int64 {
	if r.Type == TypeIncome {
		return -r.Amount
	}

	return r.Amount
}

// Order selects the sort applied by Search.
type Order string

const (
	OrderDateDesc   Order = "date_desc"
	OrderDateAsc    Order = "date_asc"
	OrderAmountDesc Order = "amount_desc"
	OrderAmountAsc  Order = "amount_asc"
)

// Filter narrows a search. Every field is optional and set fields combine with AND.
type Filter struct {
	MinAmount       *int64
	MaxAmount       *int64
	Start           *time.Time
	End             *time.Time
	CategoryID      *int64
	PaymentMethodID *int64
	Keyword         string
	Type            *Type
	Limit           int // <= 0 means no cap
	Order           Order
}

// Changes describes a partial update. Nil fields are left untouched.
// ClearCategory makes the record uncategorized and wins over CategoryID.
type Changes struct {
	Type            *Type
	Amount          *int64
	Date            *time.Time
	PaymentMethodID *int64
	CategoryID      *int64
	ClearCategory   bool
	Note            *string
}

func (c Changes) IsZero() bool {
	return c.Type == nil &&
		c.Amount == nil &&
		c.Date == nil &&
		c.PaymentMethodID == nil &&
		c.CategoryID == nil &&
		!c.ClearCategory &&
		c.Note == nil
}
