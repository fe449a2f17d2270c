package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSpecialModel_EmptyPath_UsesCompiledInDefault(t *testing.T) {
	model, err := loadSpecialModel("")
	require.NoError(t, err)
	assert.Len(t, model.Features, 11)
	assert.NoError(t, model.Validate())
}

func TestLoadSpecialModel_FromArtifactFile(t *testing.T) {
	// GIVEN a trained artifact as the offline pipeline writes it
	artifact := `{
		"features": ["activity", "entropy"],
		"weights": [-0.5, 0.4],
		"bias": 0.3,
		"means": [0.0, 1.2],
		"stds": [1.0, 0.8],
		"trainedAt": "feedback-2024.json"
	}`
	path := filepath.Join(t.TempDir(), "special-model.json")
	require.NoError(t, os.WriteFile(path, []byte(artifact), 0o644))

	// WHEN loaded
	model, err := loadSpecialModel(path)
	require.NoError(t, err)

	// THEN the artifact fields round-trip
	assert.Equal(t, []string{"activity", "entropy"}, model.Features)
	assert.Equal(t, []float64{-0.5, 0.4}, model.Weights)
	assert.Equal(t, 0.3, model.Bias)
	assert.Equal(t, "feedback-2024.json", model.TrainedAt)
}

func TestLoadSpecialModel_MissingFile(t *testing.T) {
	_, err := loadSpecialModel(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadSpecialModel_RejectsInvalidArtifacts(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"features": [`},
		{"length mismatch", `{"features": ["activity"], "weights": [1, 2], "means": [0], "stds": [1]}`},
		{"unknown feature", `{"features": ["sparkle"], "weights": [1], "means": [0], "stds": [1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "model.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := loadSpecialModel(path)
			assert.Error(t, err)
		})
	}
}
