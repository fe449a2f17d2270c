// Package sim provides the headless reaction-diffusion core for grayscan.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - grid.go: the toroidal two-field grid, seeding and the Gray-Scott update
//   - metrics.go: the statistical summary extracted from one grid snapshot
//   - evaluate.go: running one candidate parameter set to a sampled metrics series
//
// # Architecture
//
// The analysis pipeline is layered strictly leaf-first:
//   - grid.go / params.go: numerical stepping, no dependencies
//   - metrics.go: snapshot → MetricsVector
//   - classify.go / special.go: MetricsVector → vitality category and
//     special-likelihood probability
//   - evaluate.go: stepper + extractor over many steps for one candidate
//   - scan.go: the bounded, feedback-biased search loop over candidates
//   - feedback.go / heatmap.go: the label store and its 2D projection
//   - session.go: the live-grid service consumed by the external render,
//     bookmark and canvas collaborators
//
// Decision tracing for the scan loop lives in sim/trace, which stores pure
// data types and has no dependency back on sim.
//
// # Determinism
//
// All randomness flows through PartitionedRNG (rng.go): seeding noise and
// candidate sampling draw from isolated, deterministically derived streams,
// so a scan with the same master seed and configuration reproduces exactly.
package sim
