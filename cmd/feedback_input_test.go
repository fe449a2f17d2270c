package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayscan/grayscan/sim"
)

func TestParseAxisSpec_Valid(t *testing.T) {
	axis, err := parseAxisSpec("feed:0:0.12:24")
	require.NoError(t, err)
	assert.Equal(t, sim.HeatmapAxis{Key: "feed", Min: 0, Max: 0.12, Bins: 24}, axis)
}

func TestParseAxisSpec_Invalid(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{"too few parts", "feed:0:0.12"},
		{"too many parts", "feed:0:0.12:24:extra"},
		{"bad min", "feed:x:0.12:24"},
		{"bad max", "feed:0:x:24"},
		{"bad bins", "feed:0:0.12:x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAxisSpec(tt.spec)
			assert.Error(t, err)
		})
	}
}

func TestLoadFeedbackRecords_RoundTripsExport(t *testing.T) {
	// GIVEN a feedback export produced by the store itself
	store := sim.NewFeedbackStore()
	data, err := store.ExportJSON()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "feedback.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	// WHEN read back
	records, err := loadFeedbackRecords(path)
	require.NoError(t, err)

	// THEN the curated seed records survive the round trip
	require.Len(t, records, 9)
	assert.Equal(t, "manual-1", records[0].ID)
	assert.Equal(t, sim.LabelSpecial, records[0].Label)
}

func TestLoadFeedbackRecords_EmptyPath(t *testing.T) {
	_, err := loadFeedbackRecords("")
	assert.Error(t, err)
}
