package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertInDomain(t *testing.T, p Params) {
	t.Helper()
	for _, d := range paramDomains {
		v, ok := p.Field(d.key)
		if !ok {
			t.Fatalf("unknown field %q", d.key)
		}
		if v < d.min || v > d.max {
			t.Fatalf("%s = %v outside [%v, %v]", d.key, v, d.min, d.max)
		}
	}
}

func TestSampleGoldilocks_StaysInGlobalRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		assertInDomain(t, SampleGoldilocks(rng))
	}
}

func TestSampleGoldilocks_ConcentratesNearBandCenters(t *testing.T) {
	// GIVEN many goldilocks draws
	rng := rand.New(rand.NewSource(2))
	sumFeed := 0.0
	n := 2000
	for i := 0; i < n; i++ {
		sumFeed += SampleGoldilocks(rng).Feed
	}

	// THEN the empirical mean sits near the band center, far from the
	// uniform-range midpoint
	mean := sumFeed / float64(n)
	assert.InDelta(t, 0.037, mean, 0.005)
}

func TestSampleUniform_CoversRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	sawHighFeed, sawLowFeed := false, false
	for i := 0; i < 500; i++ {
		p := SampleUniform(rng)
		assertInDomain(t, p)
		if p.Feed > 0.09 {
			sawHighFeed = true
		}
		if p.Feed < 0.03 {
			sawLowFeed = true
		}
	}
	assert.True(t, sawHighFeed, "uniform sampling never reached the upper feed range")
	assert.True(t, sawLowFeed, "uniform sampling never reached the lower feed range")
}

func TestSamplePerturb_JittersAroundBase(t *testing.T) {
	// GIVEN a base special candidate
	base := Params{Du: 0.5, Dv: 0.1, Feed: 0.04, Kill: 0.05, Dt: 1, Threshold: 0.2, Contrast: 2, Gamma: 0.5}
	rng := rand.New(rand.NewSource(4))

	for i := 0; i < 500; i++ {
		p := SamplePerturb(rng, base)
		assertInDomain(t, p)
		// noise is scaled to 12% of each range; 6 sigma from base is
		// effectively impossible
		assert.InDelta(t, base.Feed, p.Feed, 6*perturbRangeFrac*0.12)
	}
}

func TestSamplePerturb_InvertFlipRate(t *testing.T) {
	// GIVEN repeated perturbations of a non-inverted base
	base := Params{Du: 0.5, Dv: 0.1, Feed: 0.04, Kill: 0.05, Dt: 1}
	rng := rand.New(rand.NewSource(5))

	flips := 0
	n := 5000
	for i := 0; i < n; i++ {
		if SamplePerturb(rng, base).Invert {
			flips++
		}
	}

	// THEN inversion flips at roughly the configured 0.3 rate
	rate := float64(flips) / float64(n)
	assert.InDelta(t, invertFlipProb, rate, 0.03)
}

func TestSampleCandidate_PerturbRequiresEnoughSpecials(t *testing.T) {
	// GIVEN fewer known specials than the perturbation gate requires
	rng := rand.New(rand.NewSource(6))
	specials := []Params{{Feed: 0.01}, {Feed: 0.02}, {Feed: 0.03}, {Feed: 0.04}}

	// WHEN sampling many candidates
	for i := 0; i < 1000; i++ {
		_, strategy := SampleCandidate(rng, specials)

		// THEN perturbation is never chosen
		assert.NotEqual(t, StrategyPerturb, strategy)
	}
}

func TestSampleCandidate_MixtureProportions(t *testing.T) {
	// GIVEN enough specials to enable all three strategies
	rng := rand.New(rand.NewSource(7))
	specials := make([]Params, 6)
	for i := range specials {
		specials[i] = Params{Feed: 0.02 + float64(i)*0.01, Kill: 0.05, Dt: 1}
	}

	counts := map[Strategy]int{}
	n := 6000
	for i := 0; i < n; i++ {
		_, strategy := SampleCandidate(rng, specials)
		counts[strategy]++
	}

	// THEN the mixture approximates 50% goldilocks, 25% perturb, 25% uniform
	assert.InDelta(t, 0.5, float64(counts[StrategyGoldilocks])/float64(n), 0.04)
	assert.InDelta(t, 0.25, float64(counts[StrategyPerturb])/float64(n), 0.04)
	assert.InDelta(t, 0.25, float64(counts[StrategyUniform])/float64(n), 0.04)
}

func TestSampleCandidate_Deterministic_WithFixedSource(t *testing.T) {
	// GIVEN two identical random sources
	specials := []Params{{Feed: 0.01}, {Feed: 0.02}, {Feed: 0.03}, {Feed: 0.04}, {Feed: 0.05}}
	a := rand.New(rand.NewSource(8))
	b := rand.New(rand.NewSource(8))

	// THEN the sampled streams match exactly
	for i := 0; i < 100; i++ {
		pa, sa := SampleCandidate(a, specials)
		pb, sb := SampleCandidate(b, specials)
		assert.Equal(t, pa, pb)
		assert.Equal(t, sa, sb)
	}
}
