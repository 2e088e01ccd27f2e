package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1000", " 1 000.00 ₽"},
		{"1234.56", " 1 234.56 ₽"},
		{"0", " 0.00 ₽"},
		{"1000000", " 1 000 000.00 ₽"},
		{"999.9", " 999.90 ₽"},
	}
	for _, tc := range cases {
		price, err := decimal.NewFromString(tc.in)
		require.NoError(t, err)

		got, err := FormatPrice(price)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "input %s", tc.in)
	}
}

func TestFormatPriceNegative(t *testing.T) {
	_, err := FormatPrice(decimal.NewFromInt(-100))
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestParsePrice(t *testing.T) {
	d, err := ParsePrice(" 199.90 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("199.90")))

	_, err = ParsePrice("x")
	assert.ErrorIs(t, err, ErrNotANumber)

	_, err = ParsePrice("-1")
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestParseQuantity(t *testing.T) {
	n, err := ParseQuantity("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	_, err = ParseQuantity("4.5")
	assert.ErrorIs(t, err, ErrNotANumber)

	_, err = ParseQuantity("-3")
	assert.ErrorIs(t, err, ErrNegativeQuantity)
}

func TestMultiply(t *testing.T) {
	got, err := Multiply(2, decimal.NewFromFloat(1000.0))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(2000)))

	got, err = Multiply(0, decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestMultiplyNegativeOperands(t *testing.T) {
	_, err := Multiply(-2, decimal.NewFromInt(10000))
	assert.ErrorIs(t, err, ErrNegativeQuantity)

	_, err = Multiply(2, decimal.NewFromInt(-10000))
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = Multiply(-100, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrBothNegative)
}
