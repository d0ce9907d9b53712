package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// SimpleMovingAverage returns the latest simple moving average over length
// points, or nil if the series is too short.
func SimpleMovingAverage(closes []float64, length int) *float64 {
	if length <= 0 || len(closes) < length {
		return nil
	}

	sma := talib.Sma(closes, length)
	if len(sma) > 0 && !math.IsNaN(sma[len(sma)-1]) {
		result := sma[len(sma)-1]
		return &result
	}

	return nil
}

// DistanceFromSMA is the fractional distance of the last close from its SMA.
// Positive when the price is above the average.
func DistanceFromSMA(closes []float64, length int) *float64 {
	sma := SimpleMovingAverage(closes, length)
	if sma == nil || *sma == 0 {
		return nil
	}
	distance := (closes[len(closes)-1] - *sma) / *sma
	return &distance
}
