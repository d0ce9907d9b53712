package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleMovingAverage(t *testing.T) {
	sma := SimpleMovingAverage([]float64{1, 2, 3, 4, 5}, 5)
	require.NotNil(t, sma)
	assert.InDelta(t, 3.0, *sma, 1e-9)

	sma = SimpleMovingAverage([]float64{1, 2, 3, 4, 5, 6}, 3)
	require.NotNil(t, sma)
	assert.InDelta(t, 5.0, *sma, 1e-9)
}

func TestSimpleMovingAverage_InsufficientData(t *testing.T) {
	assert.Nil(t, SimpleMovingAverage([]float64{1, 2}, 5))
	assert.Nil(t, SimpleMovingAverage([]float64{1, 2}, 0))
}

func TestDistanceFromSMA(t *testing.T) {
	d := DistanceFromSMA([]float64{10, 10, 10, 13}, 4)
	require.NotNil(t, d)
	// SMA = 10.75, last = 13
	assert.InDelta(t, (13-10.75)/10.75, *d, 1e-9)

	assert.Nil(t, DistanceFromSMA([]float64{1}, 3))
}
