package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/grayscan/grayscan/sim"
)

// ScanTuning is the optional YAML override file for scan constants. Only
// fields present in the file replace the active configuration; zero-valued
// omissions keep their defaults.
type ScanTuning struct {
	TargetVisible    int     `yaml:"target_visible"`
	BatchSize        int     `yaml:"batch_size"`
	MaxBatches       int     `yaml:"max_batches"`
	MaxQueue         int     `yaml:"max_queue"`
	VisibleThreshold float64 `yaml:"visible_threshold"`
	SpecialThreshold float64 `yaml:"special_threshold"`
	NormalThreshold  float64 `yaml:"normal_threshold"`
}

// applyScanTuning overlays the tuning file onto cfg.
func applyScanTuning(cfg sim.ScanConfig, path string) (sim.ScanConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	var tuning ScanTuning
	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return cfg, fmt.Errorf("parsing scan tuning %s: %w", path, err)
	}

	if tuning.TargetVisible > 0 {
		cfg.TargetVisible = tuning.TargetVisible
	}
	if tuning.BatchSize > 0 {
		cfg.BatchSize = tuning.BatchSize
	}
	if tuning.MaxBatches > 0 {
		cfg.MaxBatches = tuning.MaxBatches
	}
	if tuning.MaxQueue > 0 {
		cfg.MaxQueue = tuning.MaxQueue
	}
	if tuning.VisibleThreshold > 0 {
		cfg.VisibleThreshold = tuning.VisibleThreshold
	}
	if tuning.SpecialThreshold > 0 {
		cfg.SpecialThreshold = tuning.SpecialThreshold
	}
	if tuning.NormalThreshold > 0 {
		cfg.NormalThreshold = tuning.NormalThreshold
	}
	return cfg, nil
}
