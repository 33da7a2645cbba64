package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ledger/internal/category"
	"github.com/MrJamesThe3rd/ledger/internal/payment"
)

type catalogState int

const (
	catalogStateBrowse catalogState = iota
	catalogStateAdd
	catalogStateDelete
)

type catalogKind int

const (
	catalogCategories catalogKind = iota
	catalogMethods
)

func (k catalogKind) String() string {
	if k == catalogMethods {
		return "Payment Methods"
	}

	return "Categories"
}

type catalogEntry struct {
	id   int64
	name string
}

// CategoriesModel manages categories and payment methods in one table.
type CategoriesModel struct {
	CommonModel
	categories *category.Service
	methods    *payment.Service

	kind    catalogKind
	state   catalogState
	table   table.Model
	entries []catalogEntry
	form    *huh.Form
	name    *string
	confirm *bool

	err    error
	status string
}

func NewCategoriesModel(categories *category.Service, methods *payment.Service) CategoriesModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Name", Width: 30},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return CategoriesModel{
		categories: categories,
		methods:    methods,
		table:      t,
	}
}

func (m CategoriesModel) Title() string { return "Categories" }

func (m CategoriesModel) ShortHelp() string {
	if m.state != catalogStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | x: delete | tab: categories/methods | r: refresh"
}

func (m CategoriesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CategoriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCatalogMsg:
		if msg.kind != m.kind {
			return m, nil
		}

		m.err = msg.err
		m.entries = msg.entries
		m.refreshTable()

		return m, nil

	case catalogSavedMsg:
		m.state = catalogStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.status
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == catalogStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m CategoriesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "tab":
			m.kind = (m.kind + 1) % 2
			m.status = ""
			m.entries = nil
			m.refreshTable()

			return m, m.loadCmd()
		case "a":
			m.name = new("")
			m.form = huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Key("name").
						Title("New " + strings.ToLower(strings.TrimSuffix(m.kind.String(), "s"))).
						Value(m.name).
						Validate(func(s string) error {
							if strings.TrimSpace(s) == "" {
								return fmt.Errorf("name cannot be empty")
							}
							return nil
						}),
				),
			).WithWidth(45).WithShowHelp(false)
			m.state = catalogStateAdd
			m.table.Blur()

			return m, m.form.Init()
		case "x":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.entries) {
				return m, nil
			}

			title := fmt.Sprintf("Delete %q?", m.entries[idx].name)
			if m.kind == catalogCategories {
				title += " Its records become uncategorized."
			}

			m.confirm = new(false)
			m.form = huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Key("confirm").
						Title(title).
						Affirmative("Delete").
						Negative("Keep").
						Value(m.confirm),
				),
			).WithWidth(45).WithShowHelp(false)
			m.state = catalogStateDelete
			m.table.Blur()

			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CategoriesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = catalogStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == catalogStateAdd {
		return m, m.addCmd(*m.name)
	}

	if !*m.confirm {
		m.state = catalogStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	return m, m.deleteCmd(m.entries[m.table.Cursor()])
}

func (m *CategoriesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.entries))
	for _, e := range m.entries {
		rows = append(rows, table.Row{strconv.FormatInt(e.id, 10), e.name})
	}

	m.table.SetRows(rows)
}

func (m CategoriesModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("[tab] %s", activeStyle(m.kind.String()))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != catalogStateBrowse && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return padded.Render(content)
}

// Messages

type loadCatalogMsg struct {
	kind    catalogKind
	entries []catalogEntry
	err     error
}

func (m CategoriesModel) loadCmd() tea.Cmd {
	kind := m.kind

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		msg := loadCatalogMsg{kind: kind}

		if kind == catalogMethods {
			methods, err := m.methods.List(ctx)
			if err != nil {
				msg.err = err
				return msg
			}

			for _, pm := range methods {
				msg.entries = append(msg.entries, catalogEntry{id: pm.ID, name: pm.Name})
			}

			return msg
		}

		categories, err := m.categories.List(ctx)
		if err != nil {
			msg.err = err
			return msg
		}

		for _, c := range categories {
			msg.entries = append(msg.entries, catalogEntry{id: c.ID, name: c.Name})
		}

		return msg
	}
}

type catalogSavedMsg struct {
	status string
	err    error
}

func (m CategoriesModel) addCmd(name string) tea.Cmd {
	kind := m.kind

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var err error
		if kind == catalogMethods {
			_, err = m.methods.GetOrCreate(ctx, name)
		} else {
			_, err = m.categories.GetOrCreate(ctx, name)
		}

		return catalogSavedMsg{status: fmt.Sprintf("Added %q.", strings.TrimSpace(name)), err: err}
	}
}

func (m CategoriesModel) deleteCmd(e catalogEntry) tea.Cmd {
	kind := m.kind

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var err error
		if kind == catalogMethods {
			err = m.methods.Delete(ctx, e.id)
		} else {
			err = m.categories.Delete(ctx, e.id)
		}

		return catalogSavedMsg{status: fmt.Sprintf("Deleted %q.", e.name), err: err}
	}
}
