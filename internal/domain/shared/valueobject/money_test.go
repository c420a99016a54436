package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(t *testing.T, amount string) Money {
	t.Helper()
	m, err := NewMoneyFromString(amount, USD)
	require.NoError(t, err)
	return m
}

func TestMoneyConstructors(t *testing.T) {
	t.Run("NewMoney keeps amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), ZWG)
		require.NoError(t, err)
		assert.Equal(t, ZWG, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("NewMoney rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(10), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})

	t.Run("NewMoney allows negative amounts", func(t *testing.T) {
		m, err := NewMoneyFromFloat(-42.10, USD)
		require.NoError(t, err)
		assert.True(t, m.IsNegative())
	})

	t.Run("NewMoneyFromInt", func(t *testing.T) {
		m, err := NewMoneyFromInt(1500, ZAR)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), m.Amount().IntPart())
	})

	t.Run("NewMoneyFromString rejects garbage", func(t *testing.T) {
		_, err := NewMoneyFromString("12,50", USD)
		assert.Error(t, err)
	})

	t.Run("USD shorthands", func(t *testing.T) {
		assert.Equal(t, USD, NewMoneyUSDFromFloat(75.50).Currency())

		m, err := NewMoneyUSDFromString("199.99")
		require.NoError(t, err)
		assert.Equal(t, "199.99", m.StringFixed(2))

		_, err = NewMoneyUSDFromString("")
		assert.Error(t, err)
	})

	t.Run("zero values", func(t *testing.T) {
		assert.True(t, Zero(ZWG).IsZero())
		assert.Equal(t, ZWG, Zero(ZWG).Currency())
		assert.True(t, ZeroUSD().IsZero())
	})
}

func TestMoneySignPredicates(t *testing.T) {
	cases := []struct {
		name                          string
		amount                        string
		positive, negative, zeroValue bool
	}{
		{"positive", "100.00", true, false, false},
		{"negative", "-100.00", false, true, false},
		{"zero", "0.00", false, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := usd(t, tc.amount)
			assert.Equal(t, tc.positive, m.IsPositive())
			assert.Equal(t, tc.negative, m.IsNegative())
			assert.Equal(t, tc.zeroValue, m.IsZero())
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		sum, err := usd(t, "100.50").Add(usd(t, "50.25"))
		require.NoError(t, err)
		assert.Equal(t, "150.75", sum.StringFixed(2))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := usd(t, "100.00").Subtract(usd(t, "15.00"))
		require.NoError(t, err)
		assert.Equal(t, "85.00", diff.StringFixed(2))
	})

	t.Run("subtracting below zero is allowed", func(t *testing.T) {
		diff, err := usd(t, "10.00").Subtract(usd(t, "25.00"))
		require.NoError(t, err)
		assert.True(t, diff.IsNegative())
	})

	t.Run("mixed currencies are rejected", func(t *testing.T) {
		zwg, err := NewMoneyFromString("50.00", ZWG)
		require.NoError(t, err)

		_, err = usd(t, "100.00").Add(zwg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot add USD and ZWG")

		_, err = usd(t, "100.00").Subtract(zwg)
		assert.Error(t, err)
	})

	t.Run("multiply", func(t *testing.T) {
		fee := usd(t, "200.00").Multiply(decimal.NewFromFloat(0.15))
		assert.Equal(t, "30.00", fee.StringFixed(2))
	})

	t.Run("negate and abs", func(t *testing.T) {
		m := usd(t, "64.00")
		assert.Equal(t, "-64.00", m.Negate().StringFixed(2))
		assert.Equal(t, "64.00", m.Negate().Abs().StringFixed(2))
		assert.Equal(t, USD, m.Negate().Currency())
	})

	t.Run("round", func(t *testing.T) {
		m := usd(t, "100.456")
		assert.Equal(t, "100.46", m.Round(2).StringFixed(2))
	})
}

func TestMoneyComparisons(t *testing.T) {
	small := usd(t, "50.00")
	big := usd(t, "100.00")

	t.Run("equals", func(t *testing.T) {
		assert.True(t, big.Equals(usd(t, "100.00")))
		assert.False(t, big.Equals(small))

		zwg, err := NewMoneyFromString("100.00", ZWG)
		require.NoError(t, err)
		assert.False(t, big.Equals(zwg))
	})

	t.Run("ordering", func(t *testing.T) {
		less, err := small.LessThan(big)
		require.NoError(t, err)
		assert.True(t, less)

		greater, err := big.GreaterThan(small)
		require.NoError(t, err)
		assert.True(t, greater)
	})

	t.Run("ordering across currencies fails", func(t *testing.T) {
		zwg, err := NewMoneyFromString("100.00", ZWG)
		require.NoError(t, err)

		_, err = big.LessThan(zwg)
		assert.Error(t, err)
		_, err = big.GreaterThan(zwg)
		assert.Error(t, err)
	})
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "123.45 USD", usd(t, "123.45").String())
	assert.Equal(t, "-5.00 USD", usd(t, "-5").String())
	assert.Equal(t, "123.5", usd(t, "123.45").StringFixed(1))
}
