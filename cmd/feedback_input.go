package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/grayscan/grayscan/sim"
)

// loadFeedbackRecords reads a feedback export (flat JSON array of records)
// back into memory for aggregation.
func loadFeedbackRecords(path string) ([]sim.FeedbackRecord, error) {
	if path == "" {
		return nil, fmt.Errorf("no feedback file given (use --feedback)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []sim.FeedbackRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing feedback export %s: %w", path, err)
	}
	return records, nil
}

// parseAxisSpec parses a heatmap axis given as "key:min:max:bins".
func parseAxisSpec(spec string) (sim.HeatmapAxis, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 4 {
		return sim.HeatmapAxis{}, fmt.Errorf("want key:min:max:bins, got %q", spec)
	}
	min, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return sim.HeatmapAxis{}, fmt.Errorf("bad min in %q: %w", spec, err)
	}
	max, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return sim.HeatmapAxis{}, fmt.Errorf("bad max in %q: %w", spec, err)
	}
	bins, err := strconv.Atoi(parts[3])
	if err != nil {
		return sim.HeatmapAxis{}, fmt.Errorf("bad bin count in %q: %w", spec, err)
	}
	return sim.HeatmapAxis{Key: parts[0], Min: min, Max: max, Bins: bins}, nil
}
