package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/ledger/internal/category"
	"github.com/MrJamesThe3rd/ledger/internal/matching"
	"github.com/MrJamesThe3rd/ledger/internal/money"
	"github.com/MrJamesThe3rd/ledger/internal/payment"
	"github.com/MrJamesThe3rd/ledger/internal/record"
)

type addState int

const (
	addStateLoading addState = iota
	addStateForm
	addStateSaving
	addStateResult
)

// recordForm holds the values bound to a record form.
type recordForm struct {
	Type     string
	Amount   string
	Date     string
	Method   string
	Category string
	Note     string
}

func (f *recordForm) build(methods, categories []string) *huh.Form {
	methodOptions := huh.NewOptions(methods...)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", string(record.TypeExpense)),
					huh.NewOption("Income", string(record.TypeIncome)),
				).
				Value(&f.Type),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Value(&f.Amount).
				Validate(func(s string) error {
					_, err := money.ParseCents(s)
					return err
				}),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.Date).
				Validate(func(s string) error {
					_, err := record.ParseDate(s)
					return err
				}),

			huh.NewSelect[string]().
				Key("method").
				Title("Payment Method").
				Options(methodOptions...).
				Value(&f.Method),

			huh.NewInput().
				Key("note").
				Title("Note").
				Value(&f.Note),

			huh.NewInput().
				Key("category").
				Title("Category").
				Description("Leave empty to use a matching rule, if any").
				Suggestions(categories).
				Value(&f.Category),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (f *recordForm) createParams() (record.CreateParams, error) {
	amount, err := money.ParseCents(f.Amount)
	if err != nil {
		return record.CreateParams{}, err
	}

	date, err := record.ParseDate(f.Date)
	if err != nil {
		return record.CreateParams{}, err
	}

	return record.CreateParams{
		Type:          record.Type(f.Type),
		Amount:        amount,
		Date:          date,
		PaymentMethod: f.Method,
		Category:      strings.TrimSpace(f.Category),
		Note:          strings.TrimSpace(f.Note),
	}, nil
}

type AddModel struct {
	CommonModel
	records    *record.Service
	categories *category.Service
	methods    *payment.Service
	rules      *matching.Service

	state  addState
	form   *huh.Form
	values *recordForm
	status string
	err    error
}

func NewAddModel(records *record.Service, categories *category.Service, methods *payment.Service, rules *matching.Service) AddModel {
	return AddModel{
		records:    records,
		categories: categories,
		methods:    methods,
		rules:      rules,
	}
}

func (m AddModel) Title() string { return "Add Record" }

func (m AddModel) ShortHelp() string {
	if m.state == addStateResult {
		return "a: add another | Esc: back"
	}

	return "Esc: back | Enter/Tab: navigate form"
}

func (m AddModel) Init() tea.Cmd {
	return loadOptionsCmd(m.categories, m.methods)
}

func (m AddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case optionsMsg:
		if msg.err != nil {
			m.state = addStateResult
			m.err = msg.err

			return m, nil
		}

		m.values = &recordForm{
			Type: string(record.TypeExpense),
			Date: FormatDate(time.Now()),
		}
		if len(msg.methods) > 0 {
			m.values.Method = msg.methods[0]
		}

		m.form = m.values.build(msg.methods, msg.categories)
		m.state = addStateForm

		return m, m.form.Init()

	case addResultMsg:
		m.state = addStateResult
		m.err = msg.err

		if msg.err == nil {
			m.status = fmt.Sprintf("Saved %s %s on %s.", msg.record.Type, FormatAmount(msg.record.Amount), FormatDate(msg.record.Date))
			if msg.suggested != "" {
				m.status += fmt.Sprintf(" Category %q from rule.", msg.suggested)
			}
		}

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == addStateResult && msg.String() == "a" {
			m.err = nil
			m.status = ""
			m.state = addStateLoading

			return m, m.Init()
		}
	}

	if m.state != addStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = addStateSaving

	return m, m.saveCmd()
}

func (m AddModel) View() string {
	switch m.state {
	case addStateLoading:
		return padded.Render("Loading...")
	case addStateForm:
		return padded.Render(m.form.View())
	case addStateSaving:
		return padded.Render("Saving...")
	case addStateResult:
		if m.err != nil {
			return padded.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
		}

		return padded.Render(successStyle.Render(m.status) + "\n\n(a to add another, Esc to go back)")
	}

	return ""
}

// Messages

type optionsMsg struct {
	methods    []string
	categories []string
	err        error
}

func loadOptionsCmd(categories *category.Service, methods *payment.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ms, err := methods.List(ctx)
		if err != nil {
			return optionsMsg{err: err}
		}

		if len(ms) == 0 {
			return optionsMsg{err: errors.New("no payment methods, add one first")}
		}

		cs, err := categories.List(ctx)
		if err != nil {
			return optionsMsg{err: err}
		}

		msg := optionsMsg{}
		for _, pm := range ms {
			msg.methods = append(msg.methods, pm.Name)
		}

		for _, c := range cs {
			msg.categories = append(msg.categories, c.Name)
		}

		return msg
	}
}

type addResultMsg struct {
	record    *record.Record
	suggested string
	err       error
}

func (m AddModel) saveCmd() tea.Cmd {
	values := m.values
	records := m.records
	rules := m.rules

	return func() tea.Msg {
		params, err := values.createParams()
		if err != nil {
			return addResultMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		var suggested string

		if params.Category == "" && params.Note != "" {
			if suggested, err = rules.Suggest(ctx, params.Note); err != nil {
				return addResultMsg{err: err}
			}

			params.Category = suggested
		}

		rec, err := records.Add(ctx, params)

		return addResultMsg{record: rec, suggested: suggested, err: err}
	}
}
