package sim

import (
	"fmt"
	"math"
)

// stdFloor protects standardization against degenerate (zero) feature
// spreads in the trained artifact.
const stdFloor = 1e-6

// SpecialModel is the trained special-likelihood artifact: a logistic
// regression over standardized features, authored by the offline training
// pipeline and consumed read-only. The core never retrains it.
type SpecialModel struct {
	Features  []string  `json:"features"`
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Means     []float64 `json:"means"`
	Stds      []float64 `json:"stds"`
	TrainedAt string    `json:"trainedAt"`
}

// Validate checks that the artifact is internally consistent: parallel
// slices of equal length and only recognized feature names.
func (m *SpecialModel) Validate() error {
	n := len(m.Features)
	if n == 0 {
		return fmt.Errorf("special model has no features")
	}
	if len(m.Weights) != n || len(m.Means) != n || len(m.Stds) != n {
		return fmt.Errorf("special model slices disagree: %d features, %d weights, %d means, %d stds",
			n, len(m.Weights), len(m.Means), len(m.Stds))
	}
	for _, f := range m.Features {
		if _, ok := featureValue(f, MetricsVector{}, Params{}); !ok {
			return fmt.Errorf("special model references unknown feature %q", f)
		}
	}
	return nil
}

// Score maps one candidate's metrics and parameters to the probability that
// a user would label it "special". Features are standardized with the
// artifact's training statistics, combined linearly, and squashed through a
// numerically stable logistic.
func (m *SpecialModel) Score(metrics MetricsVector, p Params) float64 {
	z := m.Bias
	for i, name := range m.Features {
		v, _ := featureValue(name, metrics, p)
		std := m.Stds[i]
		if std < stdFloor {
			std = stdFloor
		}
		z += m.Weights[i] * (v - m.Means[i]) / std
	}
	return clamp01(logistic(z))
}

// featureValue resolves a model feature name against the metrics vector and
// parameter set. Missing display parameters default the way the training
// pipeline defaults them: dt, contrast and gamma to 1, everything else to 0.
func featureValue(name string, m MetricsVector, p Params) (float64, bool) {
	switch name {
	case "activity":
		return m.Activity, true
	case "entropy":
		return m.Entropy, true
	case "stdU":
		return m.StdU, true
	case "stdV":
		return m.StdV, true
	case "feed":
		return p.Feed, true
	case "kill":
		return p.Kill, true
	case "threshold":
		return p.Threshold, true
	case "dt":
		if p.Dt == 0 {
			return 1, true
		}
		return p.Dt, true
	case "contrast":
		if p.Contrast == 0 {
			return 1, true
		}
		return p.Contrast, true
	case "gamma":
		if p.Gamma == 0 {
			return 1, true
		}
		return p.Gamma, true
	case "invert":
		if p.Invert {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// logistic is the sign-branched sigmoid; the branch avoids exp overflow for
// large |z|.
func logistic(z float64) float64 {
	if z >= 0 {
		ez := math.Exp(-z)
		return 1 / (1 + ez)
	}
	ez := math.Exp(z)
	return ez / (1 + ez)
}

// DefaultSpecialModel returns the compiled-in trained artifact. The
// standardization statistics come from the curated seed set the model was
// fitted on; cmd can substitute a newer artifact from disk.
func DefaultSpecialModel() *SpecialModel {
	return &SpecialModel{
		Features: []string{
			"activity", "entropy", "stdU", "stdV",
			"feed", "kill", "threshold", "dt", "contrast", "gamma", "invert",
		},
		Weights: []float64{
			-0.4183, 0.3127, 0.5841, 0.4463,
			0.1192, -0.0815, -0.0524, 0.2238, 0.3506, -0.2714, 0.0883,
		},
		Bias: 0.8474,
		Means: []float64{
			0, 0.88, 0.1983, 0.1339,
			0.0387, 0.0477, 0.1967, 1.5, 3.9389, 0.4222, 0.1111,
		},
		Stds: []float64{
			1, 0.7818, 0.1006, 0.1013,
			0.0432, 0.0213, 0.0141, 0.3536, 1.5975, 0.3734, 0.3333,
		},
		TrainedAt: "feedback-export.json",
	}
}
