package view

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ledger/internal/record"
)

func TestTimeframeToDateRange(t *testing.T) {
	// Wednesday.
	now := time.Date(2024, 3, 13, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		tf        Timeframe
		wantStart string
		wantEnd   string
	}{
		{tf: TimeframeThisWeek, wantStart: "2024-03-11", wantEnd: "2024-03-13"},
		{tf: TimeframeLastWeek, wantStart: "2024-03-04", wantEnd: "2024-03-10"},
		{tf: TimeframeThisMonth, wantStart: "2024-03-01", wantEnd: "2024-03-13"},
		{tf: TimeframeLastMonth, wantStart: "2024-02-01", wantEnd: "2024-02-29"},
		{tf: TimeframeThisYear, wantStart: "2024-01-01", wantEnd: "2024-03-13"},
	}

	for _, tt := range tests {
		t.Run(tt.tf.String(), func(t *testing.T) {
			start, end := normalizeDateRange(timeframeToDateRange(tt.tf, now))

			assert.Equal(t, tt.wantStart, FormatDate(start))
			assert.Equal(t, tt.wantEnd, FormatDate(end))
			assert.Zero(t, end.Hour())
		})
	}
}

func TestTimeframeSelectedMsg_Filter(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	f := TimeframeSelectedMsg{Start: start, End: end}.Filter(record.Filter{Keyword: "tea"})
	assert.Equal(t, "tea", f.Keyword)
	assert.Equal(t, start, *f.Start)
	assert.Equal(t, end, *f.End)

	all := TimeframeSelectedMsg{All: true}.Filter(record.Filter{})
	assert.Nil(t, all.Start)
	assert.Equal(t, "All Time", TimeframeSelectedMsg{All: true}.Label())
}

func typeText(m TimeframePicker, text string) TimeframePicker {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	return m
}

func TestTimeframePicker_Presets(t *testing.T) {
	m := NewTimeframePicker(TimeframeThisMonth)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, TimeframeThisMonth, m.cursor)

	for range 10 {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, TimeframeCustom, m.cursor)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, TimeframeSelectedMsg{All: true}, cmd())
}

func TestTimeframePicker_CustomRange(t *testing.T) {
	m := NewTimeframePicker(TimeframeAll)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.IsSelecting())

	m = typeText(m, "2024-03-31")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "2024-03-01")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.EqualError(t, m.err, "start date is after end date")
	assert.Contains(t, m.View(), "start date is after end date")

	m.fields[0].SetValue("2024-02-01")
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.NoError(t, m.err)

	got, ok := cmd().(TimeframeSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "2024-02-01 to 2024-03-01", got.Label())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.IsSelecting())

	m.Reset()
	assert.Equal(t, TimeframeAll, m.cursor)
	assert.Empty(t, m.fields[0].Value())
}
