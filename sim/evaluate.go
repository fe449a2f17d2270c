package sim

import (
	"context"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// ProgressFunc reports evaluation progress as (processed, total) parameter
// sets. Invoked at least once per parameter set.
type ProgressFunc func(processed, total int)

// Evaluation is the result of one candidate parameter set: the time-sampled
// metrics series and their field-by-field average.
type Evaluation struct {
	Params  Params          `json:"params"`
	Samples []MetricsVector `json:"samples"`
	Average MetricsVector   `json:"average"`
}

// Evaluator runs short headless simulations for candidate parameter sets
// and summarizes each run as a metrics series. Each candidate gets a fresh
// grid for the duration of its run; nothing leaks into the next candidate.
type Evaluator struct {
	Resolution      int // grid edge length per run
	TotalIterations int // single steps per run
	SampleInterval  int // steps between metric samples

	seedRNG *rand.Rand
}

// NewEvaluator builds an Evaluator drawing its seeding noise from the given
// partitioned RNG.
func NewEvaluator(cfg EvalConfig, rng *PartitionedRNG) *Evaluator {
	return &Evaluator{
		Resolution:      cfg.Resolution,
		TotalIterations: cfg.TotalIterations,
		SampleInterval:  cfg.SampleInterval,
		seedRNG:         rng.ForSubsystem(SubsystemSeeding),
	}
}

// Evaluate runs every parameter set in list sequentially. Parameter
// validation happens up front, before any grid is allocated. Cancellation
// is observed between candidates: the in-flight candidate finishes, the
// completed evaluations are returned alongside ctx.Err().
//
// A failed snapshot read-back drops that sample only; the remaining samples
// and candidates still run, and the dropped sample is excluded from the
// average.
func (e *Evaluator) Evaluate(ctx context.Context, list []Params, onProgress ProgressFunc) ([]Evaluation, error) {
	for _, p := range list {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	results := make([]Evaluation, 0, len(list))
	for i, p := range list {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, e.evaluateOne(p))
		if onProgress != nil {
			onProgress(i+1, len(list))
		}
	}
	return results, nil
}

// evaluateOne owns one grid for exactly one run: seed, step, sample.
// A sample is taken every SampleInterval steps and unconditionally at the
// final step.
func (e *Evaluator) evaluateOne(p Params) Evaluation {
	grid := NewGrid(e.Resolution)
	grid.Seed(e.seedRNG)

	samples := make([]MetricsVector, 0, e.TotalIterations/max(e.SampleInterval, 1)+1)
	var prev *Snapshot

	for step := 1; step <= e.TotalIterations; step++ {
		grid.Step(p, 1)

		due := e.SampleInterval > 0 && step%e.SampleInterval == 0
		if !due && step != e.TotalIterations {
			continue
		}
		snap, err := grid.Snapshot()
		if err != nil {
			logrus.Warnf("dropping sample at step %d: %v", step, err)
			continue
		}
		m, taken := Extract(snap, prev)
		samples = append(samples, m)
		prev = taken
	}

	return Evaluation{Params: p, Samples: samples, Average: AverageMetrics(samples)}
}
