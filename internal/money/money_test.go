package money_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ledger/internal/money"
)

func TestParseCents(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}

	tests := []testCase{
		{name: "Integer", input: "100", want: 10000},
		{name: "TwoDecimals", input: "12.34", want: 1234},
		{name: "OneDecimal", input: "12.5", want: 1250},
		{name: "RoundsHalfUp", input: "12.345", want: 1235},
		{name: "RoundsDown", input: "12.344", want: 1234},
		{name: "ThousandsSeparator", input: "1,234.56", want: 123456},
		{name: "CurrencySymbol", input: "¥30.00", want: 3000},
		{name: "Zero", input: "0", want: 0},
		{name: "Whitespace", input: "  7.10 ", want: 710},
		{name: "Empty", input: "", wantErr: true},
		{name: "Negative", input: "-5", wantErr: true},
		{name: "Garbage", input: "abc", wantErr: true},
		{name: "MaxInt64", input: "92233720368547758.07", want: 9223372036854775807},
		{name: "Overflow", input: "92233720368547758.08", wantErr: true},
		{name: "OverflowWraps", input: "184467440737095517.16", wantErr: true},
		{name: "OverflowExponent", input: "1e30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.ParseCents(tt.input)

			if tt.wantErr {
				assert.ErrorIs(t, err, money.ErrInvalidAmount)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromFloat(t *testing.T) {
	got, err := money.FromFloat(19.99)
	require.NoError(t, err)
	assert.Equal(t, int64(1999), got)

	_, err = money.FromFloat(-1)
	assert.ErrorIs(t, err, money.ErrInvalidAmount)

	for _, f := range []float64{1e30, math.NaN(), math.Inf(1)} {
		_, err = money.FromFloat(f)
		assert.ErrorIs(t, err, money.ErrInvalidAmount, "FromFloat(%v)", f)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "12.34", money.Format(1234))
	assert.Equal(t, "0.05", money.Format(5))
	assert.Equal(t, "-50.00", money.Format(-5000))
	assert.InDelta(t, 12.34, money.Float(1234), 1e-9)
}
