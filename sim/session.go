package sim

import (
	"math/rand"
)

// Session is the stateful service behind one interactive simulation: it
// owns the live grid, the active parameter set and the previous snapshot
// used for activity computation. Constructed once per active session and
// torn down explicitly with Close; there is no implicit lifecycle.
type Session struct {
	grid   *Grid
	params Params
	rng    *rand.Rand
	prev   *Snapshot
}

// NewSession allocates and seeds a live grid at the given resolution.
func NewSession(resolution int, params Params, rng *PartitionedRNG) (*Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		grid:   NewGrid(resolution),
		params: params,
		rng:    rng.ForSubsystem(SubsystemSeeding),
	}
	s.grid.Seed(s.rng)
	return s, nil
}

// CurrentSnapshot returns the live grid's raw field buffers and dimensions
// for the render collaborator. The core never draws anything itself.
func (s *Session) CurrentSnapshot() (*Snapshot, error) {
	return s.grid.Snapshot()
}

// ApplyParameters swaps in a new parameter set for subsequent steps. The
// grid state is left untouched so the pattern keeps evolving under the new
// regime. Invalid parameters are rejected synchronously.
func (s *Session) ApplyParameters(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.params = p
	return nil
}

// Params returns the active parameter set.
func (s *Session) Params() Params {
	return s.params
}

// Resolution returns the live grid's edge length.
func (s *Session) Resolution() int {
	return s.grid.Size
}

// Step advances the live grid by n single updates.
func (s *Session) Step(n int) {
	s.grid.Step(s.params, n)
}

// CollectMetrics extracts a metrics vector from the live grid, using the
// snapshot retained from the previous call for the activity term.
func (s *Session) CollectMetrics() (MetricsVector, error) {
	snap, err := s.grid.Snapshot()
	if err != nil {
		return MetricsVector{}, err
	}
	m, taken := Extract(snap, s.prev)
	s.prev = taken
	return m, nil
}

// ResetState re-seeds the grid in place and clears the retained snapshot.
func (s *Session) ResetState() {
	s.grid.Reset(s.rng)
	s.prev = nil
}

// Load applies a bookmark-load event: new parameters, fresh pattern. When
// the requested resolution differs from the live grid, the grid footprint
// is reallocated; otherwise the existing buffers are reused.
func (s *Session) Load(p Params, resolution int) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.params = p
	if resolution != s.grid.Size {
		s.grid = NewGrid(resolution)
	}
	s.ResetState()
	return nil
}

// Close releases the grid resource. The session must not be used after.
func (s *Session) Close() {
	s.grid = &Grid{}
	s.prev = nil
}
