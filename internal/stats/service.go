package stats

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/ledger/internal/record"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=stats
type RecordSearcher interface {
	Search(ctx context.Context, filter record.Filter) ([]*record.Record, error)
}

// Namer maps ids to display names.
type Namer interface {
	Names(ctx context.Context) (map[int64]string, error)
}

type Service struct {
	records    RecordSearcher
	categories Namer
	methods    Namer
}

func NewService(records RecordSearcher, categories, methods Namer) *Service {
	return &Service{records: records, categories: categories, methods: methods}
}

// Compute aggregates every record dated within [start, end] along dim.
func (s *Service) Compute(ctx context.Context, dim Dimension, start, end time.Time) (*Result, error) {
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	var names Namer

	switch dim {
	case DimensionTime:
	case DimensionCategory:
		names = s.categories
	case DimensionPaymentMethod:
		names = s.methods
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDimension, dim)
	}

	var (
		records []*record.Record
		labels  map[int64]string
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		records, err = s.records.Search(gctx, record.Filter{Start: &start, End: &end, Order: record.OrderDateAsc})
		if err != nil {
			return fmt.Errorf("loading records: %w", err)
		}

		return nil
	})

	if names != nil {
		g.Go(func() error {
			var err error

			labels, err = names.Names(gctx)
			if err != nil {
				return fmt.Errorf("loading %s names: %w", dim, err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Dimension: dim, Start: start, End: end}

	switch dim {
	case DimensionTime:
		res.Items, res.TotalIncome, res.TotalExpense = ByTime(records)
	case DimensionCategory:
		res.Items, res.TotalIncome, res.TotalExpense = ByCategory(records, labels)
	case DimensionPaymentMethod:
		res.Items, res.TotalIncome, res.TotalExpense = ByPaymentMethod(records, labels)
	}

	return res, nil
}
