package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/ledger/internal/importer"
	"github.com/MrJamesThe3rd/ledger/internal/record"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateParsing
	importStateReview
	importStateSaving
	importStateResult
)

// ImportModel previews a bill file and stores the entries the user keeps.
type ImportModel struct {
	CommonModel
	records  *record.Service
	importer *importer.Service

	state      importState
	filePicker filepicker.Model
	path       string

	format    string
	skipped   int
	suggested int
	entries   []record.CreateParams
	entryList list.Model
	selected  map[int]bool

	status string
	err    error
}

func NewImportModel(records *record.Service, imp *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		records:    records,
		importer:   imp,
		filePicker: fp,
		selected:   make(map[int]bool),
	}
}

func (m ImportModel) Title() string { return "Import Bill" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateReview {
		return "Space: toggle | a: all | n: none | Enter: import | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateReview {
			return m.updateReview(msg)
		}

	case previewResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.format = msg.format
		m.skipped = msg.skipped
		m.suggested = msg.suggested
		m.entries = msg.entries

		if len(m.entries) == 0 {
			m.state = importStateResult
			m.status = fmt.Sprintf("Nothing to import from %s bill (%d row(s) skipped).", m.format, m.skipped)

			return m, nil
		}

		m.selected = make(map[int]bool, len(m.entries))

		items := make([]list.Item, len(m.entries))
		for i, e := range m.entries {
			items[i] = entryItem{entry: e, index: i}
			m.selected[i] = true
		}

		m.entryList = list.New(items, entryDelegate{selected: m.selected}, 80, 20)
		m.entryList.Title = fmt.Sprintf("%s bill: %d entries, %d skipped, %d categorized by rules",
			m.format, len(m.entries), m.skipped, m.suggested)
		m.entryList.SetShowStatusBar(false)
		m.entryList.SetFilteringEnabled(false)
		m.entryList.SetShowHelp(false)
		m.state = importStateReview

		return m, nil

	case importSavedMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d record(s) from %s bill.", msg.count, m.format)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateParsing
		m.path = path
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.previewCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateResult, importStateReview:
		m.state = importStateFilePick
		m.err = nil
		m.status = ""
		m.entries = nil
		m.selected = make(map[int]bool)

		return m, m.filePicker.Init()
	case importStateParsing, importStateSaving:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.entryList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.entries {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		for i := range m.entries {
			m.selected[i] = false
		}

		return m, nil
	case "enter":
		m.state = importStateSaving
		m.status = "Saving..."

		return m, m.saveCmd()
	}

	var cmd tea.Cmd
	m.entryList, cmd = m.entryList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return padded.Render("Select a ledger, WeChat or Alipay CSV bill:\n\n" + m.filePicker.View())
	case importStateParsing, importStateSaving:
		return padded.Render(m.status)
	case importStateReview:
		return padded.Render(m.entryList.View())
	case importStateResult:
		style := successStyle
		if m.err != nil {
			style = errorStyle
		}

		return padded.Render(style.Render(m.status) + "\n\n(Esc to import another file)")
	}

	return ""
}

// Messages

type previewResultMsg struct {
	format    string
	entries   []record.CreateParams
	skipped   int
	suggested int
	err       error
}

type importSavedMsg struct {
	count int
	err   error
}

func (m ImportModel) previewCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return previewResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		parsed, suggested, err := m.importer.Preview(ctx, f)
		if err != nil {
			return previewResultMsg{err: err}
		}

		return previewResultMsg{
			format:    parsed.Format,
			entries:   parsed.Entries,
			skipped:   parsed.Skipped,
			suggested: suggested,
		}
	}
}

func (m ImportModel) saveCmd() tea.Cmd {
	var params []record.CreateParams

	for i, e := range m.entries {
		if m.selected[i] {
			params = append(params, e)
		}
	}

	return func() tea.Msg {
		if len(params) == 0 {
			return importSavedMsg{}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		saved, err := m.records.AddBatch(ctx, params)
		if err != nil {
			return importSavedMsg{err: err}
		}

		return importSavedMsg{count: len(saved)}
	}
}

// Entry list item

type entryItem struct {
	entry record.CreateParams
	index int
}

func (i entryItem) Title() string       { return i.entry.Note }
func (i entryItem) Description() string { return i.entry.Category }
func (i entryItem) FilterValue() string { return i.entry.Note }

// Entry list delegate

type entryDelegate struct {
	selected map[int]bool
}

func (d entryDelegate) Height() int                             { return 2 }
func (d entryDelegate) Spacing() int                            { return 0 }
func (d entryDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d entryDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(entryItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if d.selected[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	e := item.entry

	amount := "-" + FormatAmount(e.Amount)
	if e.Type == record.TypeIncome {
		amount = "+" + FormatAmount(e.Amount)
	}

	category := e.Category
	if category == "" {
		category = "Uncategorized"
	}

	method := e.PaymentMethod
	if method == "" {
		method = "default method"
	}

	line1 := fmt.Sprintf("%s%s %s  %12s  %s", cursor, checkbox, FormatDate(e.Date), amount, e.Note)
	line2 := faintStyle.Render(fmt.Sprintf("      %s · %s", category, method))

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
