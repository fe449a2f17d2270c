package sim

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// entropyBins is the histogram resolution for the entropy metric.
const entropyBins = 32

// activityScale converts the per-cell mean absolute field delta into the
// activity metric.
const activityScale = 0.5

// MetricsVector is the fixed-size statistical summary of one grid snapshot.
type MetricsVector struct {
	MeanU    float64 `json:"meanU"`
	MeanV    float64 `json:"meanV"`
	StdU     float64 `json:"stdU"`
	StdV     float64 `json:"stdV"`
	Activity float64 `json:"activity"`
	Entropy  float64 `json:"entropy"`
}

// Extract computes a MetricsVector from a snapshot. If previous is non-nil
// and has matching dimensions, activity is the mean per-cell |dU|+|dV|
// scaled by 0.5; a mismatched previous snapshot is treated as absent
// (activity 0), not as an error. The returned snapshot is the input itself,
// handed back so callers can feed it in as previous on the next call; the
// extractor keeps no state between calls.
func Extract(current *Snapshot, previous *Snapshot) (MetricsVector, *Snapshot) {
	m := MetricsVector{
		MeanU: stat.Mean(current.U, nil),
		MeanV: stat.Mean(current.V, nil),
		StdU:  stat.PopStdDev(current.U, nil),
		StdV:  stat.PopStdDev(current.V, nil),
	}

	if previous != nil && len(previous.U) == len(current.U) {
		sum := 0.0
		for i := range current.U {
			sum += math.Abs(current.U[i]-previous.U[i]) + math.Abs(current.V[i]-previous.V[i])
		}
		m.Activity = activityScale * sum / float64(len(current.U))
	}

	m.Entropy = luminanceEntropy(current)
	return m, current
}

// luminanceEntropy histograms the derived luminance clamp(V - 0.6*U, 0, 1)
// into 32 bins and returns the Shannon entropy of the empirical
// distribution, in bits. Empty bins contribute zero.
func luminanceEntropy(s *Snapshot) float64 {
	counts := make([]float64, entropyBins)
	for i := range s.U {
		lum := clamp01(s.V[i] - 0.6*s.U[i])
		bin := int(lum * float64(entropyBins))
		if bin >= entropyBins {
			bin = entropyBins - 1
		}
		counts[bin]++
	}

	total := float64(len(s.U))
	p := make([]float64, entropyBins)
	for i, c := range counts {
		p[i] = c / total
	}
	// stat.Entropy works in nats and skips zero-probability bins
	return stat.Entropy(p) / math.Ln2
}

// AverageMetrics is the field-by-field arithmetic mean of the given
// vectors. An empty input averages to the zero vector.
func AverageMetrics(samples []MetricsVector) MetricsVector {
	if len(samples) == 0 {
		return MetricsVector{}
	}
	var avg MetricsVector
	for _, s := range samples {
		avg.MeanU += s.MeanU
		avg.MeanV += s.MeanV
		avg.StdU += s.StdU
		avg.StdV += s.StdV
		avg.Activity += s.Activity
		avg.Entropy += s.Entropy
	}
	n := float64(len(samples))
	avg.MeanU /= n
	avg.MeanV /= n
	avg.StdU /= n
	avg.StdV /= n
	avg.Activity /= n
	avg.Entropy /= n
	return avg
}
