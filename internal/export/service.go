package export

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/ledger/internal/record"
)

type RecordSearcher interface {
	Search(ctx context.Context, filter record.Filter) ([]*record.Record, error)
}

type Namer interface {
	Names(ctx context.Context) (map[int64]string, error)
}

// Service exports filtered records with category and payment method names resolved.
type Service struct {
	records    RecordSearcher
	categories Namer
	methods    Namer
}

func NewService(records RecordSearcher, categories, methods Namer) *Service {
	return &Service{records: records, categories: categories, methods: methods}
}

// Rows loads the records matching filter, oldest first unless filter sets an order.
func (s *Service) Rows(ctx context.Context, filter record.Filter) ([]Row, error) {
	if filter.Order == "" {
		filter.Order = record.OrderDateAsc
	}

	var (
		records    []*record.Record
		categories map[int64]string
		methods    map[int64]string
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		records, err = s.records.Search(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.categories.Names(gctx)
		return err
	})
	g.Go(func() (err error) {
		methods, err = s.methods.Names(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading export data: %w", err)
	}

	rows := make([]Row, 0, len(records))

	for _, r := range records {
		row := Row{Record: r, PaymentMethod: methods[r.PaymentMethodID]}
		if r.CategoryID != nil {
			row.Category = categories[*r.CategoryID]
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// Export writes the matching records to w in the given format.
func (s *Service) Export(ctx context.Context, w io.Writer, format Format, filter record.Filter) (Summary, error) {
	rows, err := s.Rows(ctx, filter)
	if err != nil {
		return Summary{}, err
	}

	switch format {
	case FormatCSV:
		err = WriteCSV(w, rows)
	case FormatXLSX:
		err = WriteXLSX(w, rows)
	default:
		err = fmt.Errorf("unknown export format %q", format)
	}

	if err != nil {
		return Summary{}, err
	}

	return Summarize(rows), nil
}
