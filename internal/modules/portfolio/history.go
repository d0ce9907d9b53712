package portfolio

import (
	"errors"
	"fmt"
	"math"

	"github.com/aristath/advisor/pkg/formulas"
)

// ErrEmptyHistory is returned when a provider yields no price points.
var ErrEmptyHistory = errors.New("empty price history")

// ValidateHistory checks that closes are oldest first with strictly
// increasing dates and that every close is finite and positive.
func ValidateHistory(history []DailyClose) error {
	if len(history) == 0 {
		return ErrEmptyHistory
	}
	for i, point := range history {
		if math.IsNaN(point.Close) || math.IsInf(point.Close, 0) || point.Close <= 0 {
			return fmt.Errorf("invalid close %v at index %d", point.Close, i)
		}
		if i > 0 && !point.Date.After(history[i-1].Date) {
			return fmt.Errorf("history not strictly increasing at index %d (%s after %s)",
				i, point.Date.Format("2006-01-02"), history[i-1].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Closes extracts the close prices of a history.
func Closes(history []DailyClose) []float64 {
	closes := make([]float64, len(history))
	for i, point := range history {
		closes[i] = point.Close
	}
	return closes
}

// DisplaySeries returns the most recent n closes, oldest first, as a copy.
func DisplaySeries(closes []float64, n int) []float64 {
	if len(closes) > n {
		closes = closes[len(closes)-n:]
	}
	out := make([]float64, len(closes))
	copy(out, closes)
	return out
}

// seriesVolatility is the annualised volatility of a price series, 0 when
// returns cannot be derived.
func seriesVolatility(prices []float64) float64 {
	returns, err := formulas.BuildReturns(prices)
	if err != nil {
		return 0
	}
	return formulas.RoundTo(formulas.AnnualizedVolatility(returns), 4)
}
