package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_DecisionRules(t *testing.T) {
	tests := []struct {
		name    string
		metrics MetricsVector
		want    Vitality
	}{
		{
			// rule 1: frozen with entropy above the structure threshold
			"frozen with entropy is structured",
			MetricsVector{Activity: 0.001, Entropy: 0.9, StdU: 0.1, StdV: 0.1},
			VitalityStructured,
		},
		{
			// rule 1: frozen with high variation is structured even at low entropy
			"frozen with variation is structured",
			MetricsVector{Activity: 0.0, Entropy: 0.3, StdU: 0.2, StdV: 0.2},
			VitalityStructured,
		},
		{
			// rule 1: frozen, flat and low-entropy is dormant
			"frozen and flat is dormant",
			MetricsVector{Activity: 0.002, Entropy: 0.4, StdU: 0.05, StdV: 0.05},
			VitalityDormant,
		},
		{
			// rule 2: activity above 0.14 is chaotic regardless of entropy
			"high activity is chaotic",
			MetricsVector{Activity: 0.2, Entropy: 1.0, StdU: 0.05, StdV: 0.05},
			VitalityChaotic,
		},
		{
			// rule 2: extreme variation is chaotic
			"high std is chaotic",
			MetricsVector{Activity: 0.05, Entropy: 2.0, StdU: 0.35, StdV: 0.35},
			VitalityChaotic,
		},
		{
			// rule 2: extreme entropy is chaotic
			"high entropy is chaotic",
			MetricsVector{Activity: 0.05, Entropy: 4.5, StdU: 0.1, StdV: 0.1},
			VitalityChaotic,
		},
		{
			// rule 3: moving but featureless is dormant
			"moving but flat is dormant",
			MetricsVector{Activity: 0.05, Entropy: 2.0, StdU: 0.02, StdV: 0.02},
			VitalityDormant,
		},
		{
			// rule 3: moving but low-entropy is dormant
			"moving but low entropy is dormant",
			MetricsVector{Activity: 0.05, Entropy: 0.5, StdU: 0.1, StdV: 0.1},
			VitalityDormant,
		},
		{
			// rule 4: everything in the interesting middle is balanced
			"middle regime is balanced",
			MetricsVector{Activity: 0.05, Entropy: 2.4, StdU: 0.1, StdV: 0.1},
			VitalityBalanced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.metrics)
			assert.Equal(t, tt.want, got.Category)
			assert.GreaterOrEqual(t, got.Score, 0.0)
			assert.LessOrEqual(t, got.Score, 1.0)
		})
	}
}

func TestClassify_IsPure(t *testing.T) {
	// GIVEN one metrics vector
	m := MetricsVector{Activity: 0.03, Entropy: 2.1, StdU: 0.12, StdV: 0.09}

	// WHEN classified repeatedly
	first := Classify(m)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(m))
	}
}

func TestClassify_ScoreBounded_AcrossSweep(t *testing.T) {
	// GIVEN a coarse sweep over the metrics space
	for _, activity := range []float64{0, 0.005, 0.01, 0.1, 0.3, 1} {
		for _, entropy := range []float64{0, 0.7, 2.4, 4.4, 5, 8} {
			for _, std := range []float64{0, 0.03, 0.1, 0.32, 0.5} {
				m := MetricsVector{Activity: activity, Entropy: entropy, StdU: std, StdV: std}

				// WHEN classified
				got := Classify(m)

				// THEN the score is always inside [0,1]
				if got.Score < 0 || got.Score > 1 {
					t.Fatalf("score %v out of [0,1] for %+v", got.Score, m)
				}
			}
		}
	}
}

func TestClassify_StructuredScore_RewardsEntropyAndVariation(t *testing.T) {
	// GIVEN two structured patterns, one richer than the other
	low := Classify(MetricsVector{Activity: 0.001, Entropy: 0.9, StdU: 0.16, StdV: 0.16})
	high := Classify(MetricsVector{Activity: 0.001, Entropy: 2.5, StdU: 0.3, StdV: 0.3})

	assert.Equal(t, VitalityStructured, low.Category)
	assert.Equal(t, VitalityStructured, high.Category)
	assert.Greater(t, high.Score, low.Score)
}
