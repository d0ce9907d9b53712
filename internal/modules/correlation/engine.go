// Package correlation builds pairwise Pearson correlation matrices from
// instrument price series.
package correlation

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/pkg/formulas"
)

// Decimals is the precision off-diagonal coefficients are rounded to.
const Decimals = 2

// Series is one instrument's chronological (oldest first) close prices.
type Series struct {
	Symbol string
	Prices []float64
}

// Matrix is a square, symmetric correlation matrix indexed like Symbols.
type Matrix struct {
	Symbols  []string    `json:"symbols"`
	Values   [][]float64 `json:"values"`
	Fallback bool        `json:"fallback"`
	Reason   string      `json:"reason,omitempty"`
}

// Size returns the matrix dimension.
func (m Matrix) Size() int {
	return len(m.Values)
}

// At returns the coefficient for the pair (i, j).
func (m Matrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// DegenerateInputError explains why a real correlation could not be computed.
type DegenerateInputError struct {
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return "degenerate correlation input: " + e.Reason
}

// Identity returns an n×n identity matrix.
func Identity(n int) [][]float64 {
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		values[i][i] = 1
	}
	return values
}

// Engine computes correlation matrices. It holds no per-request state.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates a new correlation engine
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{
		log: log.With().Str("component", "correlation_engine").Logger(),
	}
}

// BuildMatrix returns the N×N correlation matrix of the given instruments,
// N = len(instruments), in input order.
//
// Instruments with an empty price series, or whose returns cannot be derived
// (zero base price), are excluded: their row and column are identity. When
// fewer than two instruments remain the whole matrix is the identity and
// Fallback is set. Included series are truncated to their common length,
// keeping the most recent points; alignment is positional, not by date.
//
// BuildMatrix never fails: any internal error, including a panic, degrades to
// the identity fallback.
func (e *Engine) BuildMatrix(instruments []Series) (m Matrix) {
	symbols := make([]string, len(instruments))
	for i, inst := range instruments {
		symbols[i] = inst.Symbol
	}

	defer func() {
		if r := recover(); r != nil {
			err := &DegenerateInputError{Reason: fmt.Sprintf("internal error: %v", r)}
			e.log.Error().Err(err).Msg("Correlation calculation failed, using identity matrix")
			m = fallback(symbols, err)
		}
	}()

	values, excluded, err := e.compute(instruments)
	if err != nil {
		e.log.Warn().
			Err(err).
			Int("instruments", len(instruments)).
			Msg("Insufficient data for correlation, using identity matrix")
		return fallback(symbols, err)
	}

	m = Matrix{Symbols: symbols, Values: values}
	if len(excluded) > 0 {
		m.Reason = "excluded without usable prices: " + strings.Join(excluded, ", ")
	}
	return m
}

func fallback(symbols []string, err *DegenerateInputError) Matrix {
	return Matrix{
		Symbols:  symbols,
		Values:   Identity(len(symbols)),
		Fallback: true,
		Reason:   err.Reason,
	}
}

func (e *Engine) compute(instruments []Series) ([][]float64, []string, *DegenerateInputError) {
	var excluded []string
	included := make([]int, 0, len(instruments))
	minLength := 0
	for i, inst := range instruments {
		if len(inst.Prices) == 0 {
			excluded = append(excluded, inst.Symbol)
			continue
		}
		if len(included) == 0 || len(inst.Prices) < minLength {
			minLength = len(inst.Prices)
		}
		included = append(included, i)
	}

	if len(included) < 2 {
		return nil, excluded, &DegenerateInputError{
			Reason: fmt.Sprintf("need at least 2 instruments with prices, got %d", len(included)),
		}
	}

	if minLength < 2 {
		return nil, excluded, &DegenerateInputError{
			Reason: fmt.Sprintf("need at least 2 common price points, got %d", minLength),
		}
	}

	returns := make(map[int][]float64, len(included))
	for _, idx := range included {
		prices := instruments[idx].Prices
		prices = prices[len(prices)-minLength:]

		r, err := formulas.BuildReturns(prices)
		if err != nil {
			e.log.Warn().
				Err(err).
				Str("symbol", instruments[idx].Symbol).
				Msg("Excluding instrument from correlation")
			excluded = append(excluded, instruments[idx].Symbol)
			continue
		}
		returns[idx] = r
	}

	if len(returns) < 2 {
		return nil, excluded, &DegenerateInputError{
			Reason: fmt.Sprintf("need at least 2 instruments with valid returns, got %d", len(returns)),
		}
	}

	n := len(instruments)
	values := Identity(n)
	for i := 0; i < n; i++ {
		ri, ok := returns[i]
		if !ok {
			continue
		}
		for j := i + 1; j < n; j++ {
			rj, ok := returns[j]
			if !ok {
				continue
			}
			c := formulas.RoundTo(formulas.PearsonCorrelation(ri, rj), Decimals)
			values[i][j] = c
			values[j][i] = c
		}
	}

	e.log.Debug().
		Int("instruments", n).
		Int("with_returns", len(returns)).
		Int("observations", minLength-1).
		Msg("Built correlation matrix")

	return values, excluded, nil
}
