package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/ledger/internal/record"
	"github.com/MrJamesThe3rd/ledger/internal/stats"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

func writeTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())

	return err
}

// writeRecords prints records with their category and payment method names resolved.
func writeRecords(ctx context.Context, e *env, records []*record.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(e.out, "No records.")
		return err
	}

	var categories, methods map[int64]string

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		categories, err = e.app.Categories.Names(gctx)

		return err
	})

	g.Go(func() error {
		var err error
		methods, err = e.app.Methods.Names(gctx)

		return err
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("loading names: %w", err)
	}

	rows := make([][]string, 0, len(records))

	for _, r := range records {
		category := stats.UncategorizedLabel
		if r.CategoryID != nil {
			if name, ok := categories[*r.CategoryID]; ok {
				category = name
			}
		}

		method, ok := methods[r.PaymentMethodID]
		if !ok {
			method = stats.UnknownMethodLabel
		}

		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Date.Format("2006-01-02"),
			string(r.Type),
			formatSigned(r),
			method,
			category,
			r.Note,
		})
	}

	return writeTable(e.out, []string{"ID", "Date", "Type", "Amount", "Method", "Category", "Note"}, rows)
}

func formatSigned(r *record.Record) string {
	if r.Type == record.TypeIncome {
		return "+" + formatCents(r.Amount)
	}

	return "-" + formatCents(r.Amount)
}
