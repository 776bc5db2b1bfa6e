package currency

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUSD(t *testing.T) {
	f, err := New("USD", 2)
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"1000", "$1,000.00"},
		{"1234567.891", "$1,234,567.89"},
		{"0.005", "$0.01"},
		{"-42.5", "-$42.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Format(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestFormatZeroDecimals(t *testing.T) {
	f := MustNew("USD", 0)
	assert.Equal(t, "$1,235", f.Format(decimal.RequireFromString("1234.5")))
}

func TestFormatBeyondInt64(t *testing.T) {
	f := MustNew("USD", 2)
	// 9.3e18 cents no longer fits in int64.
	assert.Equal(t, "USD 93000000000000000.00", f.Format(decimal.RequireFromString("93000000000000000")))
	assert.Equal(t, "USD -1000000000000000000.50", f.Format(decimal.RequireFromString("-1000000000000000000.5")))
	// math.MaxInt64 cents still goes through the currency template.
	assert.Equal(t, "$92,233,720,368,547,758.07", f.Format(decimal.RequireFromString("92233720368547758.07")))
}

func TestDefaultCurrency(t *testing.T) {
	f, err := New(Default, -1)
	require.NoError(t, err)
	assert.Equal(t, "EGP", f.Code())
	assert.True(t, strings.Contains(f.Format(decimal.NewFromInt(1000)), "1,000.00"))
}

func TestUnknownCurrency(t *testing.T) {
	_, err := New("XXZ", 2)
	assert.Error(t, err)
	assert.Panics(t, func() { MustNew("XXZ", 2) })
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "1000.50", Plain(2)(decimal.RequireFromString("1000.5")))
	assert.Equal(t, "-3", Plain(0)(decimal.NewFromInt(-3)))
}
