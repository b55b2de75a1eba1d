package money_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/finanzas-api/internal/domain"
	"github.com/jhoicas/finanzas-api/internal/domain/money"
)

func TestParseAmount_Validos(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"12.50", 1250},
		{"$1,234.56", 123456},
		{" € 3 ", 300},
		{"1", 100},
		{"0.01", 1},
		{"12.345", 1235}, // half-up
		{"12.344", 1234},
		{"0.005", 1},
		{".5", 50},
		{"+7.10", 710},
		{"1,000,000", 100000000},
	}
	for _, tc := range cases {
		got, err := money.ParseAmount(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseAmount_Invalidos(t *testing.T) {
	for _, in := range []string{"", "   ", "0", "0.00", "-5.00", "-$5", "0.004", "abc", "1.2.3", "1e3", "$", "12,50abc", "99999999999999999999"} {
		_, err := money.ParseAmount(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, domain.ErrValidation), "%q debe ser ValidationError, fue %v", in, err)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1234.56", money.Format(123456))
	assert.Equal(t, "0.05", money.Format(5))
	assert.Equal(t, "0.00", money.Format(0))
	assert.Equal(t, "-12.00", money.Format(-1200))
}

func TestFormatSigned(t *testing.T) {
	assert.Equal(t, "+1234.56", money.FormatSigned(123456))
	assert.Equal(t, "-0.99", money.FormatSigned(-99))
	assert.Equal(t, "+0.00", money.FormatSigned(0))
}

// format(parse(s)) es numéricamente igual al valor canónico de s (limpio y redondeado a 2 decimales).
func TestRoundTrip(t *testing.T) {
	cases := []struct{ in, canonical string }{
		{"12.5", "12.5"},
		{"$1,234.56", "1234.56"},
		{"0.10", "0.10"},
		{"7", "7"},
		{"3.999", "3.999"},
		{"2.345", "2.345"},
		{" € 1,000.004 ", "1000.004"},
	}
	for _, tc := range cases {
		minor, err := money.ParseAmount(tc.in)
		require.NoError(t, err, tc.in)
		want := decimal.RequireFromString(tc.canonical).Round(money.Scale)
		got := decimal.RequireFromString(money.Format(minor))
		assert.True(t, want.Equal(got), "%q: %s != %s", tc.in, got, want)
	}
}

func TestPercent(t *testing.T) {
	assert.True(t, decimal.RequireFromString("33.3").Equal(money.Percent(1, 3)))
	assert.True(t, decimal.RequireFromString("100").Equal(money.Percent(5, 5)))
	assert.True(t, money.Percent(1, 0).IsZero())
}
