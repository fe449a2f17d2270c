package trace

// CandidateRecord captures one evaluated candidate's scan decision: which
// sampling strategy produced it, how it was classified and scored, and
// whether the auto-tag policy labeled it.
type CandidateRecord struct {
	CandidateID       string
	Batch             int
	Strategy          string
	Category          string
	VitalityScore     float64
	SpecialLikelihood float64
	BlendedScore      float64
	AutoLabel         string // "special", "normal", or "" when left undecided
}
