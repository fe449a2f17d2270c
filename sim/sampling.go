package sim

import "math/rand"

// Strategy names one of the three candidate sampling policies.
type Strategy string

const (
	// StrategyGoldilocks draws each parameter from a narrow empirically
	// interesting band with Gaussian jitter.
	StrategyGoldilocks Strategy = "goldilocks"
	// StrategyPerturb jitters every field of a known special candidate.
	StrategyPerturb Strategy = "perturb"
	// StrategyUniform draws each parameter uniformly over its full range.
	StrategyUniform Strategy = "uniform"
)

const (
	// goldilocksProb is the probability of the first coin choosing
	// goldilocks sampling.
	goldilocksProb = 0.5
	// perturbProb is the second coin: given enough special seeds, the
	// probability of perturbing one instead of sampling uniformly.
	perturbProb = 0.5
	// minSpecialsForPerturb gates perturbation sampling until the
	// feedback store holds enough confirmed specials to be worth mining.
	minSpecialsForPerturb = 5
	// perturbRangeFrac scales perturbation noise to each field's range.
	perturbRangeFrac = 0.12
	// invertFlipProb is the chance a perturbed candidate flips inversion.
	invertFlipProb = 0.3
	// goldilocksInvertProb is the chance a goldilocks candidate inverts.
	goldilocksInvertProb = 0.15
)

// fieldDomain is one parameter's global valid range plus its goldilocks
// band (center and jitter width). Band values are tuning constants carried
// over from the interactive explorer.
type fieldDomain struct {
	key      string
	min, max float64
	center   float64
	jitter   float64
}

// paramDomains covers every numeric field of Params in a fixed order so
// sampling with the same RNG state is reproducible.
var paramDomains = []fieldDomain{
	{key: "du", min: 0, max: 1, center: 0.21, jitter: 0.08},
	{key: "dv", min: 0, max: 1, center: 0.105, jitter: 0.04},
	{key: "feed", min: 0, max: 0.12, center: 0.037, jitter: 0.012},
	{key: "kill", min: 0, max: 0.08, center: 0.06, jitter: 0.008},
	{key: "dt", min: 0.2, max: 2, center: 1, jitter: 0.25},
	{key: "threshold", min: 0, max: 1, center: 0.2, jitter: 0.05},
	{key: "contrast", min: 0.2, max: 5, center: 1.8, jitter: 0.8},
	{key: "gamma", min: 0.1, max: 3, center: 0.9, jitter: 0.3},
}

// SampleGoldilocks draws each parameter near the center of its interesting
// band with Gaussian jitter, clamped to the field's global range.
func SampleGoldilocks(rng *rand.Rand) Params {
	var p Params
	for _, d := range paramDomains {
		v := d.center + rng.NormFloat64()*d.jitter
		p.setField(d.key, clampRange(v, d.min, d.max))
	}
	p.Invert = rng.Float64() < goldilocksInvertProb
	return p
}

// SamplePerturb jitters every field of base by Gaussian noise scaled to 12%
// of the field's valid range, clamped to range. Inversion flips with
// probability 0.3, otherwise keeps the base setting.
func SamplePerturb(rng *rand.Rand, base Params) Params {
	p := base
	for _, d := range paramDomains {
		v, _ := base.Field(d.key)
		v += rng.NormFloat64() * perturbRangeFrac * (d.max - d.min)
		p.setField(d.key, clampRange(v, d.min, d.max))
	}
	if rng.Float64() < invertFlipProb {
		p.Invert = !base.Invert
	}
	return p
}

// SampleUniform draws each parameter independently and uniformly over its
// full valid range.
func SampleUniform(rng *rand.Rand) Params {
	var p Params
	for _, d := range paramDomains {
		p.setField(d.key, d.min+rng.Float64()*(d.max-d.min))
	}
	p.Invert = rng.Float64() < 0.5
	return p
}

// SampleCandidate applies the three-way mixture policy: goldilocks with
// probability 0.5; otherwise, with enough known specials and a second coin,
// a perturbation of a uniformly chosen special; otherwise a uniform draw.
func SampleCandidate(rng *rand.Rand, specials []Params) (Params, Strategy) {
	if rng.Float64() < goldilocksProb {
		return SampleGoldilocks(rng), StrategyGoldilocks
	}
	if len(specials) >= minSpecialsForPerturb && rng.Float64() < perturbProb {
		base := specials[rng.Intn(len(specials))]
		return SamplePerturb(rng, base), StrategyPerturb
	}
	return SampleUniform(rng), StrategyUniform
}

func clampRange(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
