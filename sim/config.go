package sim

// EvalConfig groups headless evaluation parameters.
type EvalConfig struct {
	Resolution      int // grid edge length per candidate run (default 96)
	TotalIterations int // single steps per candidate run (default 400)
	SampleInterval  int // steps between metric samples (default 40)
}

// ScanConfig groups candidate search loop parameters.
type ScanConfig struct {
	TargetVisible    int     // visible-queue size that finishes a scan (default 50)
	BatchSize        int     // candidates evaluated per batch (default 6)
	MaxBatches       int     // batch ceiling per scan request (default 12)
	MaxQueue         int     // ranked queue size bound (default 200)
	VisibleThreshold float64 // minimum blended score for the visibility filter (default 0.45)
	SpecialThreshold float64 // auto-tag "special" at or above this likelihood (default 0.22)
	NormalThreshold  float64 // auto-tag "normal" at or below this likelihood (default 0.05)
	AutoTag          bool    // enable threshold auto-tagging (default true)
}

// NewEvalConfig constructs an EvalConfig.
func NewEvalConfig(resolution, totalIterations, sampleInterval int) EvalConfig {
	return EvalConfig{
		Resolution:      resolution,
		TotalIterations: totalIterations,
		SampleInterval:  sampleInterval,
	}
}

// DefaultEvalConfig returns the evaluation defaults used by the scan loop.
func DefaultEvalConfig() EvalConfig {
	return NewEvalConfig(96, 400, 40)
}

// NewScanConfig constructs a ScanConfig with auto-tagging enabled.
func NewScanConfig(targetVisible, batchSize, maxBatches, maxQueue int, visibleThreshold, specialThreshold, normalThreshold float64) ScanConfig {
	return ScanConfig{
		TargetVisible:    targetVisible,
		BatchSize:        batchSize,
		MaxBatches:       maxBatches,
		MaxQueue:         maxQueue,
		VisibleThreshold: visibleThreshold,
		SpecialThreshold: specialThreshold,
		NormalThreshold:  normalThreshold,
		AutoTag:          true,
	}
}

// DefaultScanConfig returns the scan loop defaults.
func DefaultScanConfig() ScanConfig {
	return NewScanConfig(50, 6, 12, 200, 0.45, 0.22, 0.05)
}
