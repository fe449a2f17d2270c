package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/grayscan/grayscan/sim"
)

// loadSpecialModel reads a trained special-likelihood artifact from disk,
// falling back to the compiled-in model when no path is given. The artifact
// is the JSON the offline training pipeline emits: features, weights, bias
// and per-feature standardization statistics.
func loadSpecialModel(path string) (*sim.SpecialModel, error) {
	if path == "" {
		return sim.DefaultSpecialModel(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var model sim.SpecialModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("parsing special model %s: %w", path, err)
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("special model %s: %w", path, err)
	}
	return &model, nil
}
