package correlation

import "math"

// HighCorrelationThreshold is the absolute coefficient at or above which a
// pair is reported as highly correlated.
const HighCorrelationThreshold = 0.80

// Strength buckets a correlation coefficient for display.
type Strength string

const (
	StrengthStrongPositive   Strength = "strong_positive"
	StrengthModeratePositive Strength = "moderate_positive"
	StrengthWeakPositive     Strength = "weak_positive"
	StrengthNone             Strength = "none"
	StrengthWeakNegative     Strength = "weak_negative"
	StrengthModerateNegative Strength = "moderate_negative"
	StrengthStrongNegative   Strength = "strong_negative"
)

// Pair represents a pair of highly correlated instruments.
type Pair struct {
	Symbol1     string   `json:"symbol1"`
	Symbol2     string   `json:"symbol2"`
	Correlation float64  `json:"correlation"`
	Strength    Strength `json:"strength"`
}

// ClassifyStrength maps a coefficient to a display band. Positive bands
// start at 0.8, 0.5 and 0.2 inclusive; negative bands start strictly below
// -0.2, -0.5 and -0.8.
func ClassifyStrength(v float64) Strength {
	switch {
	case v >= 0.8:
		return StrengthStrongPositive
	case v >= 0.5:
		return StrengthModeratePositive
	case v >= 0.2:
		return StrengthWeakPositive
	case v >= -0.2:
		return StrengthNone
	case v >= -0.5:
		return StrengthWeakNegative
	case v >= -0.8:
		return StrengthModerateNegative
	default:
		return StrengthStrongNegative
	}
}

// HighCorrelationPairs extracts the off-diagonal pairs whose absolute
// coefficient is at least threshold. A fallback matrix has none.
func HighCorrelationPairs(m Matrix, threshold float64) []Pair {
	pairs := make([]Pair, 0)
	if m.Fallback {
		return pairs
	}

	for i := 0; i < m.Size(); i++ {
		for j := i + 1; j < m.Size(); j++ {
			c := m.At(i, j)
			if math.Abs(c) >= threshold {
				pairs = append(pairs, Pair{
					Symbol1:     m.Symbols[i],
					Symbol2:     m.Symbols[j],
					Correlation: c,
					Strength:    ClassifyStrength(c),
				})
			}
		}
	}

	return pairs
}
