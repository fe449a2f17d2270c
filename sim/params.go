package sim

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter marks a parameter set rejected before any grid work starts.
var ErrInvalidParameter = errors.New("invalid simulation parameter")

// Params holds one Gray-Scott parameter set. The last four fields are
// display-oriented: the core carries them through unchanged (they feed the
// special-likelihood model and bookmark payloads) but never interprets them
// numerically during stepping.
type Params struct {
	Du        float64 `json:"du"`        // diffusion rate of the activator field U
	Dv        float64 `json:"dv"`        // diffusion rate of the inhibitor field V
	Feed      float64 `json:"feed"`      // feed rate of U
	Kill      float64 `json:"kill"`      // kill rate of V
	Dt        float64 `json:"dt"`        // integration timestep scale
	Threshold float64 `json:"threshold"` // display threshold (pass-through)
	Contrast  float64 `json:"contrast"`  // display contrast (pass-through)
	Gamma     float64 `json:"gamma"`     // display gamma (pass-through)
	Invert    bool    `json:"invert"`    // display inversion (pass-through)
}

// Validate rejects non-finite values and negative values on every numeric
// field. Called before any grid is touched so a bad candidate never costs
// simulation time.
func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"du", p.Du},
		{"dv", p.Dv},
		{"feed", p.Feed},
		{"kill", p.Kill},
		{"dt", p.Dt},
		{"threshold", p.Threshold},
		{"contrast", p.Contrast},
		{"gamma", p.Gamma},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidParameter, f.name)
		}
		if f.value < 0 {
			return fmt.Errorf("%w: %s is negative (%v)", ErrInvalidParameter, f.name, f.value)
		}
	}
	return nil
}

// Field returns the named numeric parameter. Invert is reported as 0/1 so the
// special-likelihood model and the heatmap aggregator can treat every
// parameter uniformly. The second return is false for unknown keys.
func (p Params) Field(key string) (float64, bool) {
	switch key {
	case "du":
		return p.Du, true
	case "dv":
		return p.Dv, true
	case "feed":
		return p.Feed, true
	case "kill":
		return p.Kill, true
	case "dt":
		return p.Dt, true
	case "threshold":
		return p.Threshold, true
	case "contrast":
		return p.Contrast, true
	case "gamma":
		return p.Gamma, true
	case "invert":
		if p.Invert {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// setField is the write-side counterpart of Field, used by the sampling
// strategies. Unknown keys are ignored.
func (p *Params) setField(key string, value float64) {
	switch key {
	case "du":
		p.Du = value
	case "dv":
		p.Dv = value
	case "feed":
		p.Feed = value
	case "kill":
		p.Kill = value
	case "dt":
		p.Dt = value
	case "threshold":
		p.Threshold = value
	case "gamma":
		p.Gamma = value
	case "contrast":
		p.Contrast = value
	}
}
