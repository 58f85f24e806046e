// Package telemetry aggregates per-tick brain and agent state into
// windowed statistics and writes them to disk.
package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int     `csv:"-"`
	WindowEndTick   int     `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Hunting during the window
	Catches     int     `csv:"catches"`
	Strikes     int     `csv:"strikes"`
	SuccessRate float64 `csv:"success_rate"`

	// Agent energy over the window
	EnergyMean float64 `csv:"energy_mean"`
	EnergyMin  float64 `csv:"energy_min"`

	// Neuromodulation over the window
	DopamineMean float64 `csv:"dopamine_mean"`
	DopamineStd  float64 `csv:"dopamine_std"`
	DopamineP10  float64 `csv:"dopamine_p10"`
	DopamineP90  float64 `csv:"dopamine_p90"`

	ActivityMean float64 `csv:"activity_mean"`

	// Sampled at window end
	Fatigue    float64 `csv:"fatigue"`
	Glucose    float64 `csv:"glucose"`
	MeanWeight float64 `csv:"mean_weight"`
	Reinforced int     `csv:"reinforced"`
	Eliminated int     `csv:"eliminated"`
	Juvenile   bool    `csv:"juvenile"`
	BrainState string  `csv:"brain_state"`
}

// Percentile calculates the p-th percentile of a sorted slice by
// linear interpolation. p should be in [0, 1]. Returns 0 for an
// empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// summarize returns mean, standard deviation, and the 10th and 90th
// percentiles of a sample.
func summarize(values []float64) (mean, std, p10, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean = stat.Mean(values, nil)
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return mean, std, Percentile(sorted, 0.10), Percentile(sorted, 0.90)
}
