package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ledger/internal/budget"
	"github.com/MrJamesThe3rd/ledger/internal/money"
)

type budgetState int

const (
	budgetStateProgress budgetState = iota
	budgetStateMonth
	budgetStateSetTotal
	budgetStateSetCategory
)

type budgetForm struct {
	Month     string
	Total     string
	Threshold string
	Category  string
	Amount    string
}

type BudgetModel struct {
	CommonModel
	budgets          *budget.Service
	defaultThreshold float64

	state    budgetState
	month    budget.Month
	progress *budget.Progress
	bar      progress.Model
	table    table.Model
	form     *huh.Form
	values   *budgetForm

	status string
	err    error
}

func NewBudgetModel(budgets *budget.Service, defaultThreshold float64) BudgetModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Category", Width: 20},
			{Title: "Budgeted", Width: 12},
			{Title: "Spent", Width: 12},
			{Title: "Left", Width: 12},
		}),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	t.SetStyles(s)

	return BudgetModel{
		budgets:          budgets,
		defaultThreshold: defaultThreshold,
		month:            budget.MonthOf(time.Now()),
		bar:              progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		table:            t,
		values:           &budgetForm{},
	}
}

func (m BudgetModel) Title() string { return "Budget" }

func (m BudgetModel) ShortHelp() string {
	if m.state == budgetStateProgress {
		return "Esc: back | m: month | s: set budget | c: set category budget"
	}

	return "Esc: cancel | Enter/Tab: navigate form"
}

func (m BudgetModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BudgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case budgetProgressMsg:
		m.err = msg.err
		if msg.err == nil {
			m.progress = msg.progress
			m.refreshTable()
		}

		return m, nil

	case budgetSavedMsg:
		m.state = budgetStateProgress
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.status

		return m, m.loadCmd()
	}

	if m.state == budgetStateProgress {
		return m.updateProgress(msg)
	}

	return m.updateForm(msg)
}

func (m BudgetModel) updateProgress(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.status = ""

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "m":
		m.values.Month = string(m.month)
		m.form = huh.NewForm(huh.NewGroup(monthInput(&m.values.Month))).WithWidth(40).WithShowHelp(false)
		m.state = budgetStateMonth

		return m, m.form.Init()
	case "s":
		m.values.Total = ""
		m.values.Threshold = strconv.FormatFloat(m.defaultThreshold, 'f', -1, 64)

		if m.progress != nil && m.progress.Total > 0 {
			m.values.Total = money.Format(m.progress.Total)
			m.values.Threshold = strconv.FormatFloat(m.progress.Threshold, 'f', -1, 64)
		}

		m.form = huh.NewForm(
			huh.NewGroup(
				amountInput("Total for "+string(m.month), &m.values.Total),
				huh.NewInput().
					Key("threshold").
					Title("Alert threshold").
					Description("Fraction of the total, between 0 and 1").
					Value(&m.values.Threshold).
					Validate(func(s string) error {
						_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
						return err
					}),
			),
		).WithWidth(50).WithShowHelp(false)
		m.state = budgetStateSetTotal

		return m, m.form.Init()
	case "c":
		m.values.Category = ""
		m.values.Amount = ""
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Key("category").
					Title("Category").
					Value(&m.values.Category).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("category cannot be empty")
						}
						return nil
					}),
				amountInput("Amount", &m.values.Amount),
			),
		).WithWidth(50).WithShowHelp(false)
		m.state = budgetStateSetCategory

		return m, m.form.Init()
	}

	return m, nil
}

func (m BudgetModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = budgetStateProgress
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	switch m.state {
	case budgetStateMonth:
		month, err := budget.ParseMonth(m.values.Month)
		if err != nil {
			return m, func() tea.Msg { return budgetSavedMsg{err: err} }
		}

		m.month = month
		m.state = budgetStateProgress
		m.form = nil

		return m, m.loadCmd()
	case budgetStateSetTotal:
		return m, m.setTotalCmd(*m.values)
	case budgetStateSetCategory:
		return m, m.setCategoryCmd(*m.values)
	}

	return m, nil
}

func (m *BudgetModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.progress.Categories))
	for _, c := range m.progress.Categories {
		rows = append(rows, table.Row{
			c.Name,
			FormatAmount(c.Budgeted),
			FormatAmount(c.Spent),
			FormatAmount(c.Budgeted - c.Spent),
		})
	}

	m.table.SetRows(rows)
}

func (m BudgetModel) View() string {
	if m.state != budgetStateProgress && m.form != nil {
		return padded.Render(m.form.View())
	}

	if m.err != nil {
		return padded.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.progress == nil {
		return padded.Render("Loading budget...")
	}

	p := m.progress
	header := lipgloss.NewStyle().Bold(true).Render("Budget " + string(p.Month))

	var summary string

	if p.Total == 0 {
		summary = fmt.Sprintf("No budget set. Spent %s this month.\n\nPress s to set one.", FormatAmount(p.Spent))
	} else {
		summary = fmt.Sprintf("Spent %s of %s (%.1f%%), alert at %.0f%%\n%s",
			FormatAmount(p.Spent), FormatAmount(p.Total), p.UsageRatio*100, p.Threshold*100,
			m.bar.ViewAs(min(p.UsageRatio, 1)))

		if p.Warning() {
			summary += "\n" + warningStyle.Render("Warning: spending reached the alert threshold")
		}
	}

	parts := []string{header, "", summary}

	if len(p.Categories) > 0 {
		parts = append(parts, "", m.table.View())
	}

	if m.status != "" {
		parts = append(parts, "", faintStyle.Render(m.status))
	}

	return padded.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func monthInput(value *string) *huh.Input {
	return huh.NewInput().
		Key("month").
		Title("Month").
		Placeholder("YYYY-MM").
		Value(value).
		Validate(func(s string) error {
			_, err := budget.ParseMonth(s)
			return err
		})
}

func amountInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Key("amount").
		Title(title).
		Placeholder("0.00").
		Value(value).
		Validate(func(s string) error {
			_, err := money.ParseCents(s)
			return err
		})
}

// Messages

type budgetProgressMsg struct {
	progress *budget.Progress
	err      error
}

func (m BudgetModel) loadCmd() tea.Cmd {
	month := m.month
	budgets := m.budgets

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		p, err := budgets.Progress(ctx, month)

		return budgetProgressMsg{progress: p, err: err}
	}
}

type budgetSavedMsg struct {
	status string
	err    error
}

func (m BudgetModel) setTotalCmd(values budgetForm) tea.Cmd {
	month := m.month
	budgets := m.budgets

	return func() tea.Msg {
		total, err := money.ParseCents(values.Total)
		if err != nil {
			return budgetSavedMsg{err: err}
		}

		threshold, err := strconv.ParseFloat(strings.TrimSpace(values.Threshold), 64)
		if err != nil {
			return budgetSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		b, err := budgets.SetBudget(ctx, month, total, threshold)
		if err != nil {
			return budgetSavedMsg{err: err}
		}

		return budgetSavedMsg{status: fmt.Sprintf("Budget for %s set to %s.", b.Month, FormatAmount(b.Total))}
	}
}

func (m BudgetModel) setCategoryCmd(values budgetForm) tea.Cmd {
	month := m.month
	budgets := m.budgets

	return func() tea.Msg {
		amount, err := money.ParseCents(values.Amount)
		if err != nil {
			return budgetSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := budgets.SetCategoryBudget(ctx, month, values.Category, amount); err != nil {
			return budgetSavedMsg{err: err}
		}

		return budgetSavedMsg{status: fmt.Sprintf("%s budget set to %s.", strings.TrimSpace(values.Category), FormatAmount(amount))}
	}
}
