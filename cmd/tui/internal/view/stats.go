package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ledger/internal/stats"
)

type statsState int

const (
	statsStateTimeframe statsState = iota
	statsStateDimension
	statsStateResult
)

// StatsModel aggregates records over a timeframe along one dimension.
type StatsModel struct {
	CommonModel
	service *stats.Service

	state           statsState
	timeframePicker TimeframePicker
	selection       TimeframeSelectedMsg
	form            *huh.Form
	dimension       *stats.Dimension

	table  table.Model
	result *stats.Result
	err    error
}

func NewStatsModel(service *stats.Service) StatsModel {
	return StatsModel{
		service:         service,
		timeframePicker: NewTimeframePicker(TimeframeThisWeek),
		dimension:       new(stats.DimensionCategory),
	}
}

func (m StatsModel) Title() string { return "Statistics" }

func (m StatsModel) ShortHelp() string {
	if m.state == statsStateResult {
		return "Esc: change timeframe | d: change dimension"
	}

	return "Esc: back | Enter: select"
}

func (m StatsModel) Init() tea.Cmd {
	return nil
}

func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.selection = msg
		return m.chooseDimension()

	case statsResultMsg:
		m.state = statsStateResult
		m.err = msg.err
		m.result = msg.result

		if msg.result != nil {
			m.table = statsTable(msg.result)
		}

		return m, nil
	}

	switch m.state {
	case statsStateTimeframe:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd

	case statsStateDimension:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = statsStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State == huh.StateCompleted {
			return m, m.computeCmd(*m.dimension, m.selection)
		}

		return m, cmd

	case statsStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = statsStateTimeframe
				m.timeframePicker.Reset()

				return m, nil
			case "d":
				return m.chooseDimension()
			}
		}

		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m StatsModel) chooseDimension() (tea.Model, tea.Cmd) {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[stats.Dimension]().
				Key("dimension").
				Title("Group by").
				Options(
					huh.NewOption("Category", stats.DimensionCategory),
					huh.NewOption("Payment method", stats.DimensionPaymentMethod),
					huh.NewOption("Day", stats.DimensionTime),
				).
				Value(m.dimension),
		),
	).WithWidth(40).WithShowHelp(false)
	m.state = statsStateDimension

	return m, m.form.Init()
}

func statsTable(res *stats.Result) table.Model {
	label := "Category"

	switch res.Dimension {
	case stats.DimensionTime:
		label = "Date"
	case stats.DimensionPaymentMethod:
		label = "Payment Method"
	}

	rows := make([]table.Row, 0, len(res.Items))
	for _, item := range res.Items {
		rows = append(rows, table.Row{item.Label, FormatAmount(item.Amount)})
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: label, Width: 24},
			{Title: "Net Outflow", Width: 14},
		}),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, 15)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m StatsModel) View() string {
	switch m.state {
	case statsStateTimeframe:
		return padded.Render(m.timeframePicker.View())
	case statsStateDimension:
		return padded.Render(m.selection.Label() + "\n\n" + m.form.View())
	}

	if m.err != nil {
		return padded.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.result == nil {
		return padded.Render("Computing...")
	}

	if len(m.result.Items) == 0 {
		return padded.Render(m.selection.Label() + "\n\n" + faintStyle.Render("No records in this timeframe."))
	}

	totals := fmt.Sprintf("Income %s   Expense %s   Net %s",
		successStyle.Render(FormatAmount(m.result.TotalIncome)),
		errorStyle.Render(FormatAmount(m.result.TotalExpense)),
		FormatAmount(m.result.TotalIncome-m.result.TotalExpense),
	)

	return padded.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.selection.Label(),
		"",
		m.table.View(),
		"",
		totals,
	))
}

// Messages

type statsResultMsg struct {
	result *stats.Result
	err    error
}

// allTimeStart bounds an All Time selection, which stats needs as a closed range.
var allTimeStart = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

func (m StatsModel) computeCmd(dim stats.Dimension, sel TimeframeSelectedMsg) tea.Cmd {
	start, end := sel.Start, sel.End
	if sel.All {
		start, end = normalizeDateRange(allTimeStart, time.Now())
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.service.Compute(ctx, dim, start, end)

		return statsResultMsg{result: res, err: err}
	}
}
