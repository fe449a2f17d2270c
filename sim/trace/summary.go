package trace

// TraceSummary aggregates statistics from a ScanTrace.
type TraceSummary struct {
	TotalCandidates  int
	AutoSpecialCount int
	AutoNormalCount  int
	UndecidedCount   int
	MeanBlended      float64
	MaxBlended       float64
	ByCategory       map[string]int // vitality category → candidate count
	ByStrategy       map[string]int // sampling strategy → candidate count
}

// Summarize computes aggregate statistics from a ScanTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *ScanTrace) *TraceSummary {
	summary := &TraceSummary{
		ByCategory: make(map[string]int),
		ByStrategy: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalCandidates = len(st.Candidates)
	totalBlended := 0.0
	for _, c := range st.Candidates {
		summary.ByCategory[c.Category]++
		summary.ByStrategy[c.Strategy]++
		totalBlended += c.BlendedScore
		if c.BlendedScore > summary.MaxBlended {
			summary.MaxBlended = c.BlendedScore
		}
		switch c.AutoLabel {
		case "special":
			summary.AutoSpecialCount++
		case "normal":
			summary.AutoNormalCount++
		default:
			summary.UndecidedCount++
		}
	}
	if summary.TotalCandidates > 0 {
		summary.MeanBlended = totalBlended / float64(summary.TotalCandidates)
	}

	return summary
}
