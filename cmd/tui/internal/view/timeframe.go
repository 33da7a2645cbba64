package view

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ledger/internal/record"
)

// Timeframe is one entry of the picker menu. The order of the constants is
// the order of the menu.
type Timeframe int

const (
	TimeframeThisWeek Timeframe = iota
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeThisYear
	TimeframeAll
	TimeframeCustom
)

var timeframeLabels = [...]string{
	TimeframeThisWeek:  "This Week",
	TimeframeLastWeek:  "Last Week",
	TimeframeThisMonth: "This Month",
	TimeframeLastMonth: "Last Month",
	TimeframeThisYear:  "This Year",
	TimeframeAll:       "All Time",
	TimeframeCustom:    "Custom Range",
}

func (t Timeframe) String() string {
	if t < 0 || int(t) >= len(timeframeLabels) {
		return "Unknown"
	}

	return timeframeLabels[t]
}

// mondayOf returns the Monday of the week containing t. Weeks start on Monday.
func mondayOf(t time.Time) time.Time {
	back := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -back)
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// timeframeToDateRange resolves a preset against now. Running periods end
// today; closed periods end on their last day. All and Custom yield zero times.
func timeframeToDateRange(tf Timeframe, now time.Time) (start, end time.Time) {
	switch tf {
	case TimeframeThisWeek:
		return mondayOf(now), now
	case TimeframeLastWeek:
		start = mondayOf(now).AddDate(0, 0, -7)
		return start, start.AddDate(0, 0, 6)
	case TimeframeThisMonth:
		return firstOfMonth(now), now
	case TimeframeLastMonth:
		end = firstOfMonth(now).AddDate(0, 0, -1)
		return firstOfMonth(end), end
	case TimeframeThisYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), now
	}

	return time.Time{}, time.Time{}
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// normalizeDateRange drops the time of day, since records only carry a date.
func normalizeDateRange(start, end time.Time) (time.Time, time.Time) {
	return dayOf(start), dayOf(end)
}

// TimeframeSelectedMsg carries the range the user settled on. Start and End
// are zero when All is set.
type TimeframeSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

// Filter narrows f to the selected range. An All selection leaves it unbounded.
func (msg TimeframeSelectedMsg) Filter(f record.Filter) record.Filter {
	if msg.All {
		return f
	}

	f.Start, f.End = new(msg.Start), new(msg.End)

	return f
}

func (msg TimeframeSelectedMsg) Label() string {
	if msg.All {
		return TimeframeAll.String()
	}

	return FormatDate(msg.Start) + " to " + FormatDate(msg.End)
}

func selected(msg TimeframeSelectedMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

var cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)

// TimeframePicker lets the user choose a preset range or type one in.
// Presets before minFrame are hidden.
type TimeframePicker struct {
	minFrame Timeframe
	cursor   Timeframe

	// custom is true while the two date fields are shown.
	custom bool
	fields [2]textinput.Model
	active int

	err error
}

func newDateField(prompt string) textinput.Model {
	f := textinput.New()
	f.Prompt = prompt
	f.Placeholder = "YYYY-MM-DD"
	f.CharLimit = len("2006-01-02")
	f.Width = 12

	return f
}

func NewTimeframePicker(minFrame Timeframe) TimeframePicker {
	return TimeframePicker{
		minFrame: minFrame,
		cursor:   minFrame,
		fields:   [2]textinput.Model{newDateField("From: "), newDateField("To:   ")},
	}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)

	if !m.custom {
		if isKey {
			return m.moveOrPick(key)
		}

		return m, nil
	}

	if isKey {
		if next, cmd, handled := m.handleCustomKey(key); handled {
			return next, cmd
		}
	}

	var cmd tea.Cmd
	m.fields[m.active], cmd = m.fields[m.active].Update(msg)

	return m, cmd
}

func (m TimeframePicker) moveOrPick(key tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		m.cursor = max(m.cursor-1, m.minFrame)
	case "down", "j":
		m.cursor = min(m.cursor+1, TimeframeCustom)
	case "enter":
		switch m.cursor {
		case TimeframeCustom:
			m.custom = true
			return m, m.focus(0)
		case TimeframeAll:
			return m, selected(TimeframeSelectedMsg{All: true})
		}

		start, end := normalizeDateRange(timeframeToDateRange(m.cursor, time.Now()))
		return m, selected(TimeframeSelectedMsg{Start: start, End: end})
	}

	return m, nil
}

func (m *TimeframePicker) focus(i int) tea.Cmd {
	m.fields[m.active].Blur()
	m.active = i

	return m.fields[i].Focus()
}

// handleCustomKey reports whether key was consumed. Unconsumed keys go to the
// focused field.
func (m TimeframePicker) handleCustomKey(key tea.KeyMsg) (TimeframePicker, tea.Cmd, bool) {
	switch key.Type {
	case tea.KeyTab, tea.KeyShiftTab:
		cmd := m.focus(1 - m.active)
		return m, cmd, true
	case tea.KeyEsc:
		m.fields[m.active].Blur()
		m.custom, m.err = false, nil
		return m, nil, true
	case tea.KeyEnter:
		start, end, err := m.customRange()
		if err != nil {
			m.err = err
			return m, nil, true
		}

		m.err = nil
		return m, selected(TimeframeSelectedMsg{Start: start, End: end}), true
	}

	return m, nil, false
}

func (m TimeframePicker) customRange() (time.Time, time.Time, error) {
	start, err := record.ParseDate(m.fields[0].Value())
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("start date must be YYYY-MM-DD")
	}

	end, err := record.ParseDate(m.fields[1].Value())
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("end date must be YYYY-MM-DD")
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("start date is after end date")
	}

	start, end = normalizeDateRange(start, end)

	return start, end, nil
}

func (m TimeframePicker) View() string {
	var b strings.Builder

	if m.custom {
		b.WriteString("Custom range\n\n")
		b.WriteString(m.fields[0].View() + "\n")
		b.WriteString(m.fields[1].View() + "\n\n")
		b.WriteString(faintStyle.Render("enter confirm · tab switch field · esc back"))
	} else {
		b.WriteString("Timeframe\n\n")

		for tf := m.minFrame; tf <= TimeframeCustom; tf++ {
			if tf == m.cursor {
				b.WriteString(cursorStyle.Render("> "+tf.String()) + "\n")
				continue
			}

			b.WriteString("  " + tf.String() + "\n")
		}

		b.WriteString("\n" + faintStyle.Render("↑/↓ move · enter select · esc back"))
	}

	if m.err != nil {
		b.WriteString("\n\n" + errorStyle.Render(m.err.Error()))
	}

	return b.String()
}

// IsSelecting is true while the preset menu, not the date fields, is shown.
func (m TimeframePicker) IsSelecting() bool {
	return !m.custom
}

func (m *TimeframePicker) Reset() {
	*m = NewTimeframePicker(m.minFrame)
}
