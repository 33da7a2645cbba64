package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ledger/internal/money"
	"github.com/MrJamesThe3rd/ledger/internal/record"
)

const dbTimeout = 5 * time.Second

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	padded       = lipgloss.NewStyle().Padding(1)
)

// FormatAmount formats an amount stored as cents.
func FormatAmount(cents int64) string {
	return money.Format(cents)
}

// FormatSigned prefixes income with + and expense with -.
func FormatSigned(r *record.Record) string {
	if r.Type == record.TypeIncome {
		return "+" + money.Format(r.Amount)
	}

	return "-" + money.Format(r.Amount)
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func nameOr(names map[int64]string, id *int64, fallback string) string {
	if id == nil {
		return fallback
	}

	if name, ok := names[*id]; ok {
		return name
	}

	return fallback
}
