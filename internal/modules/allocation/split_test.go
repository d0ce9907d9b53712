package allocation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	a := Allocation{Stocks: 60, Bonds: 30, Cash: 10}

	amounts, err := a.Split(decimal.NewFromInt(10000))
	require.NoError(t, err)
	assert.Equal(t, "6000", amounts.Stocks.String())
	assert.Equal(t, "3000", amounts.Bonds.String())
	assert.Equal(t, "1000", amounts.Cash.String())
}

func TestSplit_ResidueGoesToCash(t *testing.T) {
	a := Allocation{Stocks: 80, Bonds: 15, Cash: 5}

	amount := decimal.RequireFromString("100.01")
	amounts, err := a.Split(amount)
	require.NoError(t, err)

	sum := amounts.Stocks.Add(amounts.Bonds).Add(amounts.Cash)
	assert.True(t, sum.Equal(amount), "parts must sum to the amount, got %s", sum)
	assert.Equal(t, "80.01", amounts.Stocks.String())
	assert.Equal(t, "15", amounts.Bonds.String())
	assert.Equal(t, "5", amounts.Cash.String())
}

func TestSplit_Negative(t *testing.T) {
	_, err := Allocation{Stocks: 100}.Split(decimal.NewFromInt(-1))
	assert.Error(t, err)
}
