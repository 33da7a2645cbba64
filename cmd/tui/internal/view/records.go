package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ledger/internal/category"
	"github.com/MrJamesThe3rd/ledger/internal/payment"
	"github.com/MrJamesThe3rd/ledger/internal/record"
)

type recordsState int

const (
	recordsStateTimeframe recordsState = iota
	recordsStateList
	recordsStateEditing
	recordsStateConfirmDelete
)

// recordItem wraps a record with its resolved names to implement list.Item.
type recordItem struct {
	rec      *record.Record
	method   string
	category string
}

func (i recordItem) Title() string {
	amount := FormatSigned(i.rec)
	if i.rec.Type == record.TypeIncome {
		amount = successStyle.Render(amount)
	}

	return fmt.Sprintf("%s  %10s  %-14s %s", FormatDate(i.rec.Date), amount, i.category, i.rec.Note)
}

func (i recordItem) Description() string {
	return fmt.Sprintf("#%d via %s", i.rec.ID, i.method)
}

func (i recordItem) FilterValue() string {
	return i.rec.Note + " " + i.category + " " + i.method
}

type RecordsModel struct {
	CommonModel
	records    *record.Service
	categories *category.Service
	methods    *payment.Service

	state           recordsState
	timeframePicker TimeframePicker
	timeframe       TimeframeSelectedMsg
	list            list.Model
	form            *huh.Form
	values          *recordForm
	confirm         *bool
	selected        *recordItem

	loading bool
	status  string
}

func NewRecordsModel(records *record.Service, categories *category.Service, methods *payment.Service) RecordsModel {
	l := list.New([]list.Item{}, recordItemDelegate{}, 0, 0)
	l.Title = "Records"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return RecordsModel{
		records:         records,
		categories:      categories,
		methods:         methods,
		timeframePicker: NewTimeframePicker(TimeframeThisWeek),
		list:            l,
	}
}

func (m RecordsModel) Title() string { return "Records" }

func (m RecordsModel) ShortHelp() string {
	switch m.state {
	case recordsStateTimeframe:
		return "Esc: back | Enter: select"
	case recordsStateList:
		return "Esc: back | Enter: edit | x: delete | r: refresh | /: filter"
	case recordsStateEditing, recordsStateConfirmDelete:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m RecordsModel) Init() tea.Cmd {
	return nil
}

func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.timeframe = msg
		m.list.Title = "Records: " + msg.Label()
		m.loading = true
		m.state = recordsStateList

		return m, m.loadCmd()

	case loadRecordsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.list.SetItems(msg.items)

		if len(msg.items) == 0 {
			m.status = "No records found."
		}

		return m, nil

	case recordSavedMsg:
		m.state = recordsStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = msg.status

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case recordsStateTimeframe:
		return m.updateTimeframe(msg)
	case recordsStateList:
		return m.updateList(msg)
	case recordsStateEditing, recordsStateConfirmDelete:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m RecordsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m RecordsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}

			m.state = recordsStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		case "enter":
			return m.startEditing()
		case "x":
			return m.startDelete()
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m RecordsModel) startEditing() (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(recordItem)
	if !ok {
		return m, nil
	}

	// Options are loaded inline so the form opens with the current names.
	opts := loadOptionsCmd(m.categories, m.methods)().(optionsMsg)
	if opts.err != nil {
		m.status = fmt.Sprintf("Error: %v", opts.err)
		return m, nil
	}

	categoryName := item.category
	if item.rec.CategoryID == nil {
		categoryName = ""
	}

	m.selected = &item
	m.values = &recordForm{
		Type:     string(item.rec.Type),
		Amount:   FormatAmount(item.rec.Amount),
		Date:     FormatDate(item.rec.Date),
		Method:   item.method,
		Category: categoryName,
		Note:     item.rec.Note,
	}
	m.form = m.values.build(opts.methods, opts.categories)
	m.state = recordsStateEditing

	return m, m.form.Init()
}

func (m RecordsModel) startDelete() (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(recordItem)
	if !ok {
		return m, nil
	}

	m.selected = &item
	m.confirm = new(false)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete record #%d?", item.rec.ID)).
				Affirmative("Delete").
				Negative("Keep").
				Value(m.confirm),
		),
	).WithWidth(50).WithShowHelp(false)
	m.state = recordsStateConfirmDelete

	return m, m.form.Init()
}

func (m RecordsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = recordsStateList
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

	if m.state == recordsStateConfirmDelete {
		if !*m.confirm {
			m.state = recordsStateList
			m.form = nil

			return m, nil
		}

		return m, m.deleteCmd(m.selected.rec.ID)
	}

	return m, m.updateCmd(m.selected.rec.ID, m.values)
}

func (m RecordsModel) View() string {
	switch m.state {
	case recordsStateTimeframe:
		return padded.Render(m.timeframePicker.View())

	case recordsStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading records...")
		}

		statusLine := ""
		if m.status != "" {
			statusLine = faintStyle.Render(m.status) + "\n"
		}

		return padded.Render(statusLine + m.list.View())

	case recordsStateEditing, recordsStateConfirmDelete:
		if m.form == nil {
			return ""
		}

		return padded.Render(m.infoView() + "\n" + m.form.View())
	}

	return ""
}

func (m RecordsModel) infoView() string {
	if m.selected == nil {
		return ""
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf(
			"#%d  |  %s  |  %s %s  |  %s",
			m.selected.rec.ID,
			FormatDate(m.selected.rec.Date),
			m.selected.rec.Type,
			FormatAmount(m.selected.rec.Amount),
			m.selected.method,
		))
}

// Messages

type loadRecordsMsg struct {
	items []list.Item
	err   error
}

func (m RecordsModel) loadCmd() tea.Cmd {
	filter := m.timeframe.Filter(record.Filter{Order: record.OrderDateDesc})

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rs, err := m.records.Search(ctx, filter)
		if err != nil {
			return loadRecordsMsg{err: err}
		}

		categories, err := m.categories.Names(ctx)
		if err != nil {
			return loadRecordsMsg{err: err}
		}

		methods, err := m.methods.Names(ctx)
		if err != nil {
			return loadRecordsMsg{err: err}
		}

		items := make([]list.Item, len(rs))
		for i, r := range rs {
			items[i] = recordItem{
				rec:      r,
				method:   methods[r.PaymentMethodID],
				category: nameOr(categories, r.CategoryID, "-"),
			}
		}

		return loadRecordsMsg{items: items}
	}
}

type recordSavedMsg struct {
	status string
	err    error
}

// updateParams turns the edited form into a full update. A blank category
// makes the record uncategorized.
func (f *recordForm) updateParams() (record.UpdateParams, error) {
	params, err := f.createParams()
	if err != nil {
		return record.UpdateParams{}, err
	}

	update := record.UpdateParams{
		Type:          &params.Type,
		Amount:        &params.Amount,
		Date:          &params.Date,
		PaymentMethod: &params.PaymentMethod,
		Note:          &params.Note,
	}

	if strings.TrimSpace(params.Category) == "" {
		update.ClearCategory = true
	} else {
		update.Category = &params.Category
	}

	return update, nil
}

func (m RecordsModel) updateCmd(id int64, values *recordForm) tea.Cmd {
	records := m.records

	return func() tea.Msg {
		params, err := values.updateParams()
		if err != nil {
			return recordSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if err := records.Update(ctx, id, params); err != nil {
			return recordSavedMsg{err: err}
		}

		return recordSavedMsg{status: fmt.Sprintf("Record #%d saved.", id)}
	}
}

func (m RecordsModel) deleteCmd(id int64) tea.Cmd {
	records := m.records

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := records.Delete(ctx, id); err != nil {
			return recordSavedMsg{err: err}
		}

		return recordSavedMsg{status: fmt.Sprintf("Record #%d deleted.", id)}
	}
}

// recordItemDelegate renders items in the list.
type recordItemDelegate struct{}

func (d recordItemDelegate) Height() int                             { return 2 }
func (d recordItemDelegate) Spacing() int                            { return 0 }
func (d recordItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d recordItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(recordItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faintStyle.Render(i.Description()))
}
