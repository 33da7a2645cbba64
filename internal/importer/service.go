package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/ledger/internal/importer/csvbill"
	"github.com/MrJamesThe3rd/ledger/internal/record"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type RecordAdder interface {
	AddBatch(ctx context.Context, params []record.CreateParams) ([]*record.Record, error)
}

type Suggester interface {
	Suggest(ctx context.Context, note string) (string, error)
}

type Service struct {
	parser  Parser
	records RecordAdder
	rules   Suggester
}

func NewService(records RecordAdder, rules Suggester) *Service {
	return &Service{
		parser:  csvbill.NewParser(),
		records: records,
		rules:   rules,
	}
}

type Result struct {
	Format    string
	Imported  []*record.Record
	Suggested int // entries whose category came from a rule
	Skipped   int
}

// Preview parses the bill and fills missing categories from rules without writing anything.
func (s *Service) Preview(ctx context.Context, r io.Reader) (*csvbill.Result, int, error) {
	parsed, err := s.parser.Parse(r)
	if err != nil {
		return nil, 0, err
	}

	suggested, err := s.suggest(ctx, parsed.Entries)
	if err != nil {
		return nil, 0, err
	}

	return parsed, suggested, nil
}

// Import parses the bill and stores every entry in one batch.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Result, error) {
	parsed, suggested, err := s.Preview(ctx, r)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Format:    parsed.Format,
		Suggested: suggested,
		Skipped:   parsed.Skipped,
	}

	if len(parsed.Entries) == 0 {
		return res, nil
	}

	imported, err := s.records.AddBatch(ctx, parsed.Entries)
	if err != nil {
		return nil, fmt.Errorf("importing %s bill: %w", parsed.Format, err)
	}

	res.Imported = imported

	return res, nil
}

func (s *Service) suggest(ctx context.Context, entries []record.CreateParams) (int, error) {
	if s.rules == nil {
		return 0, nil
	}

	n := 0

	for i := range entries {
		if entries[i].Category != "" {
			continue
		}

		name, err := s.rules.Suggest(ctx, entries[i].Note)
		if err != nil {
			return 0, fmt.Errorf("suggesting category: %w", err)
		}

		if name != "" {
			entries[i].Category = name
			n++
		}
	}

	return n, nil
}
