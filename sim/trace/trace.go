// Package trace provides decision-trace recording for scan-loop analysis.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every candidate decision in the scan loop.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// ScanTrace collects candidate decision records during an auto-scan.
type ScanTrace struct {
	Level      TraceLevel
	Candidates []CandidateRecord
}

// NewScanTrace creates a ScanTrace ready for recording.
func NewScanTrace(level TraceLevel) *ScanTrace {
	return &ScanTrace{
		Level:      level,
		Candidates: make([]CandidateRecord, 0),
	}
}

// RecordCandidate appends a candidate decision record. Safe to call on a
// nil trace or with tracing disabled; both are no-ops.
func (st *ScanTrace) RecordCandidate(record CandidateRecord) {
	if st == nil || st.Level != TraceLevelDecisions {
		return
	}
	st.Candidates = append(st.Candidates, record)
}
