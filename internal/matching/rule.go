package matching

import (
	"errors"
	"time"
)

var ErrEmptyPattern = errors.New("rule pattern is empty")

// Rule assigns a category to records whose note contains Pattern.
type Rule struct {
	ID           int64
	Pattern      string
	CategoryID   int64
	CategoryName string // Loaded via JOIN
	CreatedAt    time.Time
}
