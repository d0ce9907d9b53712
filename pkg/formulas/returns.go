// Package formulas holds the pure numeric building blocks shared by the
// correlation engine, the portfolio assembler and the report.
package formulas

import (
	"fmt"
	"math"
)

// DivisionDegenerateError reports a price that cannot be used as the base of
// a simple return (zero or non-finite), or a pair of prices whose return
// overflows.
type DivisionDegenerateError struct {
	Index int     // position of the offending price in the input
	Price float64 // the offending value
}

func (e *DivisionDegenerateError) Error() string {
	return fmt.Sprintf("degenerate price %v at index %d: cannot derive simple return", e.Price, e.Index)
}

// BuildReturns converts a chronological price series into simple period returns.
//
//	r[i-1] = (p[i] - p[i-1]) / p[i-1]
//
// A series with fewer than 2 points yields an empty slice and no error.
// A zero or non-finite base price, or a return that overflows to ±Inf,
// rejects the whole series with a *DivisionDegenerateError; no return is
// substituted for it.
func BuildReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return []float64{}, nil
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if prev == 0 || isNonFinite(prev) {
			return nil, &DivisionDegenerateError{Index: i - 1, Price: prev}
		}
		cur := prices[i]
		if isNonFinite(cur) {
			return nil, &DivisionDegenerateError{Index: i, Price: cur}
		}
		r := (cur - prev) / prev
		if isNonFinite(r) {
			return nil, &DivisionDegenerateError{Index: i - 1, Price: prev}
		}
		returns[i-1] = r
	}

	return returns, nil
}

// PercentChange returns (last - first) / first * 100 for a chronological series.
// Series shorter than 2 points, a zero first price or an overflowing change
// yield 0.
func PercentChange(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}
	first := prices[0]
	if first == 0 {
		return 0
	}
	change := (prices[len(prices)-1] - first) / first * 100
	if isNonFinite(change) {
		return 0
	}
	return change
}

func isNonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
