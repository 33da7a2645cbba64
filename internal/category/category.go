package category

import "errors"

var ErrEmptyName = errors.New("category name is empty")

// Category groups records for budgets and statistics. Names are unique.
type Category struct {
	ID   int64
	Name string
}
