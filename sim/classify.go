package sim

import "math"

// Vitality is the qualitative category assigned to a simulated pattern.
type Vitality string

const (
	VitalityDormant    Vitality = "dormant"
	VitalityBalanced   Vitality = "balanced"
	VitalityChaotic    Vitality = "chaotic"
	VitalityStructured Vitality = "structured"
)

// Assessment pairs a vitality category with its composite score in [0,1].
type Assessment struct {
	Category Vitality `json:"category"`
	Score    float64  `json:"score"`
}

// Classifier decision thresholds. Empirically tuned constants; retuning any
// of them is a behavior change that needs new baseline scenarios.
const (
	frozenActivity    = 0.006 // below this the pattern has stopped moving
	chaoticActivity   = 0.14
	chaoticStd        = 0.32
	chaoticEntropy    = 4.4
	dormantStd        = 0.03
	dormantEntropy    = 0.7
	structuredStd     = 0.15 // a frozen pattern with this much variation is structure, not death
	structuredEntropy = 0.8
)

// Classify maps a metrics vector to a vitality category and composite
// score. Pure function; the decision rules apply in order, first match
// wins.
func Classify(m MetricsVector) Assessment {
	avgStd := (m.StdU + m.StdV) / 2

	var category Vitality
	switch {
	case m.Activity < frozenActivity:
		if avgStd > structuredStd || m.Entropy > structuredEntropy {
			category = VitalityStructured
		} else {
			category = VitalityDormant
		}
	case m.Activity > chaoticActivity || avgStd > chaoticStd || m.Entropy > chaoticEntropy:
		category = VitalityChaotic
	case avgStd < dormantStd || m.Entropy < dormantEntropy:
		category = VitalityDormant
	default:
		category = VitalityBalanced
	}

	return Assessment{Category: category, Score: vitalityScore(category, m, avgStd)}
}

// vitalityScore rewards structured patterns for entropy and spatial
// variation; every other category is scored on how close activity, entropy
// and variation sit to their empirically interesting midpoints.
func vitalityScore(category Vitality, m MetricsVector, avgStd float64) float64 {
	if category == VitalityStructured {
		return clamp01(0.65*clamp01((m.Entropy-0.6)/2.2) + 0.35*clamp01((avgStd-0.15)/0.25))
	}
	return clamp01(0.5*clamp01((m.Activity-0.006)/0.09) +
		0.3*(1-clamp01(math.Abs(m.Entropy-2.4)/2.0)) +
		0.2*(1-clamp01(math.Abs(avgStd-0.1)/0.08)))
}
