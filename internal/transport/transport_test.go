package transport

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("mario@ezwallet.io"))
	assert.False(t, ValidEmail("notAnEmail"))
	assert.False(t, ValidEmail(""))
	assert.False(t, ValidEmail("a@"))
}

func TestPresentBlank(t *testing.T) {
	s := "x"
	empty := "  "
	assert.True(t, Present(&s, &empty))
	assert.False(t, Present(&s, nil))
	assert.True(t, Blank("a", empty))
	assert.False(t, Blank("a", "b"))
}

func TestParseAmount(t *testing.T) {
	v, ok := ParseAmount(12.5)
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)

	v, ok = ParseAmount(" 7 ")
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)

	_, ok = ParseAmount("seven")
	assert.False(t, ok)
	_, ok = ParseAmount(nil)
	assert.False(t, ok)
	_, ok = ParseAmount(true)
	assert.False(t, ok)

	for _, raw := range []any{"NaN", "nan", "Inf", "-Inf", "Infinity", math.NaN(), math.Inf(1)} {
		_, ok = ParseAmount(raw)
		assert.False(t, ok, "%v", raw)
	}
}

func TestTransactionQuery_Filter(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }

	f, err := TransactionQuery{}.Filter()
	require.NoError(t, err)
	assert.Nil(t, f.From)
	assert.Nil(t, f.Before)
	assert.Nil(t, f.Min)

	f, err = TransactionQuery{Date: "2026-03-02"}.Filter()
	require.NoError(t, err)
	assert.Equal(t, day(2), *f.From)
	assert.Equal(t, day(3), *f.Before)

	f, err = TransactionQuery{From: "2026-03-01", UpTo: "2026-03-05", Min: "10", Max: "99.5"}.Filter()
	require.NoError(t, err)
	assert.Equal(t, day(1), *f.From)
	assert.Equal(t, day(6), *f.Before)
	assert.Equal(t, 10.0, *f.Min)
	assert.Equal(t, 99.5, *f.Max)

	tests := []struct {
		name string
		q    TransactionQuery
		want error
	}{
		{"date with from", TransactionQuery{Date: "2026-03-01", From: "2026-03-01"}, ErrDateConflict},
		{"date with upTo", TransactionQuery{Date: "2026-03-01", UpTo: "2026-03-01"}, ErrDateConflict},
		{"bad date", TransactionQuery{Date: "01/03/2026"}, ErrDateFormat},
		{"bad from", TransactionQuery{From: "yesterday"}, ErrDateFormat},
		{"bad min", TransactionQuery{Min: "ten"}, ErrAmountFormat},
		{"bad max", TransactionQuery{Max: "1e"}, ErrAmountFormat},
		{"NaN min", TransactionQuery{Min: "NaN"}, ErrAmountFormat},
		{"infinite max", TransactionQuery{Max: "Inf"}, ErrAmountFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.q.Filter()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
