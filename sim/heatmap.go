package sim

import "fmt"

// HeatmapAxis configures one heatmap dimension: which parameter to bin,
// over what inclusive range, into how many fixed-width bins.
type HeatmapAxis struct {
	Key  string  `json:"key"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Bins int     `json:"bins"`
}

// Heatmap is a 2D occupancy grid of labeled candidates over two parameter
// axes. Counts are indexed [y][x]; Intensity is each cell's count
// normalized by the maximum cell count.
type Heatmap struct {
	AxisX     HeatmapAxis `json:"axisX"`
	AxisY     HeatmapAxis `json:"axisY"`
	Counts    [][]int     `json:"counts"`
	Intensity [][]float64 `json:"intensity"`
	Total     int         `json:"total"`
	MaxCount  int         `json:"maxCount"`
	TicksX    []string    `json:"ticksX"`
	TicksY    []string    `json:"ticksY"`
}

// BuildHeatmap bins the feedback records over the two axes. Returns nil for
// degenerate input — no records, zero bins, a non-positive axis range, or
// no record landing in range — so callers can distinguish "nothing to show"
// from an all-zero grid.
func BuildHeatmap(records []FeedbackRecord, axisX, axisY HeatmapAxis) *Heatmap {
	if len(records) == 0 || axisX.Bins <= 0 || axisY.Bins <= 0 {
		return nil
	}
	if axisX.Max-axisX.Min <= 0 || axisY.Max-axisY.Min <= 0 {
		return nil
	}

	counts := make([][]int, axisY.Bins)
	for y := range counts {
		counts[y] = make([]int, axisX.Bins)
	}

	total := 0
	maxCount := 0
	for _, r := range records {
		vx, okx := r.Params.Field(axisX.Key)
		vy, oky := r.Params.Field(axisY.Key)
		if !okx || !oky {
			continue
		}
		// both axis ranges are inclusive at both ends
		if vx < axisX.Min || vx > axisX.Max || vy < axisY.Min || vy > axisY.Max {
			continue
		}
		bx := binIndex(vx, axisX)
		by := binIndex(vy, axisY)
		counts[by][bx]++
		total++
		if counts[by][bx] > maxCount {
			maxCount = counts[by][bx]
		}
	}
	if total == 0 || maxCount == 0 {
		return nil
	}

	intensity := make([][]float64, axisY.Bins)
	for y := range intensity {
		intensity[y] = make([]float64, axisX.Bins)
		for x := range intensity[y] {
			intensity[y][x] = float64(counts[y][x]) / float64(maxCount)
		}
	}

	return &Heatmap{
		AxisX:     axisX,
		AxisY:     axisY,
		Counts:    counts,
		Intensity: intensity,
		Total:     total,
		MaxCount:  maxCount,
		TicksX:    axisTicks(axisX),
		TicksY:    axisTicks(axisY),
	}
}

// binIndex maps a value inside the axis range to a bin, clamped so the
// inclusive upper boundary lands in the last bin.
func binIndex(v float64, axis HeatmapAxis) int {
	idx := int(float64(axis.Bins) * (v - axis.Min) / (axis.Max - axis.Min))
	if idx < 0 {
		return 0
	}
	if idx >= axis.Bins {
		return axis.Bins - 1
	}
	return idx
}

// axisTicks formats the bin-center values to fixed precision.
func axisTicks(axis HeatmapAxis) []string {
	width := (axis.Max - axis.Min) / float64(axis.Bins)
	ticks := make([]string, axis.Bins)
	for i := range ticks {
		ticks[i] = fmt.Sprintf("%.3f", axis.Min+(float64(i)+0.5)*width)
	}
	return ticks
}
