package csvbill

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/ledger/internal/encoding"
	"github.com/MrJamesThe3rd/ledger/internal/money"
	"github.com/MrJamesThe3rd/ledger/internal/record"
)

var dateLayouts = []string{
	time.DateTime,
	time.DateOnly,
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/1/2 15:04",
	"2006/01/02",
}

// Parser reads CSV bills and produces record params.
// It auto-detects the format by matching column headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Result is a parsed bill. Skipped counts data rows that were recognized but
// not imported (refunds, neutral transfers, unparseable amounts).
type Result struct {
	Format  string
	Entries []record.CreateParams
	Skipped int
}

func (p *Parser) Parse(r io.Reader) (*Result, error) {
	utf8r, err := enc.NewUTF8Reader(r, enc.Prefer(enc.GB18030))
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("%w: expected columns for %s", ErrUnknownFormat, strings.Join(Formats(), ", "))
	}

	res, err := parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	if err != nil {
		return nil, err
	}

	res.Format = profile.Name

	return res, nil
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts entries from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the input (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) (*Result, error) {
	res := &Result{}

	for i, row := range rows {
		rowNum := headerRowNum + i + 1 // 1-based

		date, ok := parseDate(cellValue(row, cols[p.DateCol]))
		if !ok {
			// Footer, separator or summary line.
			continue
		}

		if p.StatusCol != "" && p.SkipStatus[cellValue(row, cols[p.StatusCol])] {
			res.Skipped++
			continue
		}

		typ, ok := p.TypeValues[strings.ToLower(cellValue(row, cols[p.TypeCol]))]
		if !ok {
			res.Skipped++
			continue
		}

		amount, err := money.ParseCents(cellValue(row, cols[p.AmountCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		entry := record.CreateParams{
			Type:          typ,
			Amount:        amount,
			Date:          date,
			PaymentMethod: p.Method,
			Note:          joinNote(row, cols, p.NoteCols),
		}

		if p.MethodCol != "" {
			entry.PaymentMethod = cellValue(row, cols[p.MethodCol])
		}

		if p.CategoryCol != "" {
			entry.Category = cellValue(row, cols[p.CategoryCol])
		}

		res.Entries = append(res.Entries, entry)
	}

	return res, nil
}

// parseDate accepts the date and date-time layouts seen in bill exports and
// drops any time of day.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}

func joinNote(row []string, cols colIndex, names []string) string {
	parts := make([]string, 0, len(names))

	for _, name := range names {
		v := cellValue(row, cols[name])
		if v == "" || v == "/" {
			continue
		}

		parts = append(parts, v)
	}

	return strings.Join(parts, " ")
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
