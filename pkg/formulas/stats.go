package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is used to annualise daily statistics.
const TradingDaysPerYear = 252

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// AnnualizedVolatility calculates annualized volatility from daily returns
// Formula: Std Dev of Daily Returns × sqrt(252 trading days)
// Returns 0 when the deviation overflows.
func AnnualizedVolatility(dailyReturns []float64) float64 {
	if len(dailyReturns) < 2 {
		return 0
	}
	vol := StdDev(dailyReturns) * math.Sqrt(TradingDaysPerYear)
	if isNonFinite(vol) {
		return 0
	}
	return vol
}

// PearsonCorrelation computes the Pearson correlation of the first n points
// of x and y, n = min(len(x), len(y)):
//
//	cov  = Σ(x_i - mean_x)(y_i - mean_y)
//	varX = Σ(x_i - mean_x)², varY analogous
//	corr = cov / (sqrt(varX) * sqrt(varY))
//
// Degenerate inputs have defined values instead of NaN: empty input and a
// constant series on either side (zero variance) both yield 0, and so do sums
// that overflow to a non-finite coefficient. The result is clamped to [-1, 1]
// to absorb floating-point overshoot.
func PearsonCorrelation(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n == 0 {
		return 0
	}
	x, y = x[:n], y[:n]

	meanX := Mean(x)
	meanY := Mean(y)

	var covariance, varianceX, varianceY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		covariance += dx * dy
		varianceX += dx * dx
		varianceY += dy * dy
	}

	if varianceX == 0 || varianceY == 0 {
		return 0
	}

	corr := covariance / (math.Sqrt(varianceX) * math.Sqrt(varianceY))
	if isNonFinite(corr) {
		return 0
	}
	return math.Max(-1, math.Min(1, corr))
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
