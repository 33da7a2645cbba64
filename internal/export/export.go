package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/ledger/internal/money"
	"github.com/MrJamesThe3rd/ledger/internal/record"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	}

	return "", fmt.Errorf("unknown export format %q", s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	return "text/csv; charset=utf-8"
}

// Header is shared with the ledger CSV import profile so exports re-import as-is.
var Header = []string{"ID", "Date", "Type", "Amount", "Payment Method", "Category", "Note"}

const sheetName = "Records"

// Row is a record with its names resolved for display.
type Row struct {
	Record        *record.Record
	PaymentMethod string
	Category      string
}

func (r Row) cells() []string {
	return []string{
		strconv.FormatInt(r.Record.ID, 10),
		r.Record.Date.Format("2006-01-02"),
		string(r.Record.Type),
		money.Format(r.Record.Amount),
		r.PaymentMethod,
		r.Category,
		r.Record.Note,
	}
}

// WriteCSV writes rows as UTF-8 CSV with a BOM so spreadsheet apps detect the encoding.
func WriteCSV(w io.Writer, rows []Row) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("writing bom: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range rows {
		if err := cw.Write(r.cells()); err != nil {
			return fmt.Errorf("writing record %d: %w", r.Record.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteXLSX writes rows to a single-sheet workbook. Amounts are numeric cells.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		values := []any{
			r.Record.ID,
			r.Record.Date.Format("2006-01-02"),
			string(r.Record.Type),
			money.Float(r.Record.Amount),
			r.PaymentMethod,
			r.Category,
			r.Record.Note,
		}

		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("writing record %d: %w", r.Record.ID, err)
		}
	}

	widths := map[string]float64{"A": 8, "B": 12, "C": 10, "D": 12, "E": 16, "F": 16, "G": 40}
	for col, width := range widths {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("sizing column %s: %w", col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

// Summary totals an export.
type Summary struct {
	Count   int
	Income  int64
	Expense int64
}

func (s Summary) Net() int64 {
	return s.Income - s.Expense
}

func (s Summary) String() string {
	return fmt.Sprintf("%d record(s), income %s, expense %s, net %s",
		s.Count, money.Format(s.Income), money.Format(s.Expense), money.Format(s.Net()))
}

func Summarize(rows []Row) Summary {
	s := Summary{Count: len(rows)}

	for _, r := range rows {
		switch r.Record.Type {
		case record.TypeIncome:
			s.Income += r.Record.Amount
		case record.TypeExpense:
			s.Expense += r.Record.Amount
		}
	}

	return s
}
