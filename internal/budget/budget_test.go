package budget_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ledger/internal/budget"
)

func TestParseMonth(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    budget.Month
		wantErr bool
	}

	tests := []testCase{
		{name: "YearMonth", input: "2024-03", want: "2024-03"},
		{name: "FullDate", input: "2024-03-15", want: "2024-03"},
		{name: "Whitespace", input: " 2024-12 ", want: "2024-12"},
		{name: "BadMonth", input: "2024-13", wantErr: true},
		{name: "Garbage", input: "March", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := budget.ParseMonth(tt.input)

			if tt.wantErr {
				assert.ErrorIs(t, err, budget.ErrInvalidMonth)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonth_Range(t *testing.T) {
	type testCase struct {
		month   budget.Month
		wantEnd time.Time
	}

	tests := []testCase{
		{month: "2024-01", wantEnd: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
		{month: "2024-02", wantEnd: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{month: "2023-02", wantEnd: time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)},
		{month: "2024-04", wantEnd: time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)},
		{month: "2024-12", wantEnd: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.month), func(t *testing.T) {
			start, end, err := tt.month.Range()
			require.NoError(t, err)
			assert.Equal(t, 1, start.Day())
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestClampThreshold(t *testing.T) {
	assert.Equal(t, 0.0, budget.ClampThreshold(-0.5))
	assert.Equal(t, 1.0, budget.ClampThreshold(1.7))
	assert.Equal(t, 0.8, budget.ClampThreshold(0.8))
	assert.Equal(t, 0.0, budget.ClampThreshold(0))
	assert.Equal(t, 1.0, budget.ClampThreshold(1))
	assert.Equal(t, budget.DefaultThreshold, budget.ClampThreshold(math.NaN()))
}

func TestProgress_Warning(t *testing.T) {
	assert.True(t, (&budget.Progress{Total: 100, UsageRatio: 0.8, Threshold: 0.8}).Warning())
	assert.False(t, (&budget.Progress{Total: 100, UsageRatio: 0.79, Threshold: 0.8}).Warning())
	assert.False(t, (&budget.Progress{Total: 0, UsageRatio: 0, Threshold: 0}).Warning())
}
