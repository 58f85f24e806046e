package telemetry

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/pond/brain"
)

// Collector accumulates per-tick samples within time windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int
	dt                  float64

	windowStartTick int

	catches int
	strikes int

	energySamples   []float64
	dopamineSamples []float64
	activitySamples []float64

	last brain.Snapshot
}

// NewCollector creates a stats collector.
// windowDurationSec is how long each window lasts in simulation
// seconds; dt is seconds per tick.
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordTick samples the brain snapshot and the agent's energy for
// the current window.
func (c *Collector) RecordTick(snap brain.Snapshot, energy float64) {
	c.last = snap
	c.energySamples = append(c.energySamples, energy)
	c.dopamineSamples = append(c.dopamineSamples, snap.Dopamine)
	c.activitySamples = append(c.activitySamples, snap.NeuralActivity)
}

// RecordStrike records a tongue strike.
func (c *Collector) RecordStrike() {
	c.strikes++
}

// RecordCatch records a caught fly.
func (c *Collector) RecordCatch() {
	c.catches++
}

// ShouldFlush returns true once enough ticks have passed to close
// the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters and samples for
// the next window.
func (c *Collector) Flush(currentTick int) WindowStats {
	var successRate float64
	if c.strikes > 0 {
		successRate = float64(c.catches) / float64(c.strikes)
	}

	dopMean, dopStd, dopP10, dopP90 := summarize(c.dopamineSamples)

	var energyMean, energyMin float64
	if len(c.energySamples) > 0 {
		energyMean = stat.Mean(c.energySamples, nil)
		energyMin = c.energySamples[0]
		for _, e := range c.energySamples {
			if e < energyMin {
				energyMin = e
			}
		}
	}

	var activityMean float64
	if len(c.activitySamples) > 0 {
		activityMean = stat.Mean(c.activitySamples, nil)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Catches:     c.catches,
		Strikes:     c.strikes,
		SuccessRate: successRate,

		EnergyMean: energyMean,
		EnergyMin:  energyMin,

		DopamineMean: dopMean,
		DopamineStd:  dopStd,
		DopamineP10:  dopP10,
		DopamineP90:  dopP90,

		ActivityMean: activityMean,

		Fatigue:    c.last.Fatigue,
		Glucose:    c.last.Glucose,
		MeanWeight: c.last.MeanSynapseWeight,
		Reinforced: c.last.ReinforcedSynapses,
		Eliminated: c.last.EliminatedSynapses,
		Juvenile:   c.last.Juvenile,
		BrainState: string(c.last.BrainState),
	}

	c.windowStartTick = currentTick
	c.catches = 0
	c.strikes = 0
	c.energySamples = c.energySamples[:0]
	c.dopamineSamples = c.dopamineSamples[:0]
	c.activitySamples = c.activitySamples[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int {
	return c.windowDurationTicks
}
