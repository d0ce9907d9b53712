package correlation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStrength(t *testing.T) {
	tests := []struct {
		value    float64
		expected Strength
	}{
		{1.0, StrengthStrongPositive},
		{0.8, StrengthStrongPositive},
		{0.79, StrengthModeratePositive},
		{0.5, StrengthModeratePositive},
		{0.3, StrengthWeakPositive},
		{0.2, StrengthWeakPositive},
		{0.19, StrengthNone},
		{0, StrengthNone},
		{-0.2, StrengthNone},
		{-0.21, StrengthWeakNegative},
		{-0.5, StrengthWeakNegative},
		{-0.51, StrengthModerateNegative},
		{-0.8, StrengthModerateNegative},
		{-0.81, StrengthStrongNegative},
		{-1.0, StrengthStrongNegative},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClassifyStrength(tt.value), "value %v", tt.value)
	}
}

func TestHighCorrelationPairs(t *testing.T) {
	m := Matrix{
		Symbols: []string{"AAA", "BBB", "CCC"},
		Values: [][]float64{
			{1, 0.85, 0.1},
			{0.85, 1, -0.92},
			{0.1, -0.92, 1},
		},
	}

	pairs := HighCorrelationPairs(m, HighCorrelationThreshold)

	assert.Equal(t, []Pair{
		{Symbol1: "AAA", Symbol2: "BBB", Correlation: 0.85, Strength: StrengthStrongPositive},
		{Symbol1: "BBB", Symbol2: "CCC", Correlation: -0.92, Strength: StrengthStrongNegative},
	}, pairs)
}

func TestHighCorrelationPairs_FallbackHasNone(t *testing.T) {
	m := Matrix{
		Symbols:  []string{"AAA", "BBB"},
		Values:   Identity(2),
		Fallback: true,
	}

	pairs := HighCorrelationPairs(m, HighCorrelationThreshold)

	assert.NotNil(t, pairs)
	assert.Empty(t, pairs)
}
