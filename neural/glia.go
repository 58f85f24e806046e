package neural

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// BrainState is the coarse arousal level read off the glial network.
type BrainState string

const (
	StateResting BrainState = "resting"
	StateActive  BrainState = "active"
	StateExcited BrainState = "excited"
)

// Astrocyte tracks intracellular calcium in response to nearby neural
// activity and releases gliotransmitters when calcium crosses
// threshold.
type Astrocyte struct {
	Position        Vec2
	InfluenceRadius float64

	Calcium         float64
	CalciumResting  float64
	CalciumPeak     float64
	CalciumDecayTau float64 // ms

	Release          float64 // gliotransmitter release, [0, 1]
	ReleaseThreshold float64
	Glutamate        float64
	ATP              float64

	ActivityHistory []float64

	activationThreshold float64
}

// NewAstrocyte creates an astrocyte at a position with the given reach.
func NewAstrocyte(pos Vec2, radius float64) *Astrocyte {
	return &Astrocyte{
		Position:            pos,
		InfluenceRadius:     radius,
		CalciumResting:      0.1,
		CalciumPeak:         2.0,
		CalciumDecayTau:     500.0,
		ReleaseThreshold:    0.3,
		activationThreshold: 0.1,
	}
}

// Respond advances the astrocyte by dt milliseconds given the spike
// outputs and positions of the monitored neurons. Activity within the
// influence radius drives calcium toward its peak; quiet periods let
// it relax back to rest.
func (a *Astrocyte) Respond(activity []float64, positions []Vec2, dt float64) {
	local := 0.0
	nearby := 0
	for i, pos := range positions {
		if pos.Sub(a.Position).Norm() < a.InfluenceRadius {
			local += activity[i]
			nearby++
		}
	}
	if nearby > 0 {
		local /= float64(nearby)
	}

	if local > a.activationThreshold {
		a.Calcium += (a.CalciumPeak - a.Calcium) * 0.1
	} else {
		decay := expDecay(dt, a.CalciumDecayTau)
		a.Calcium = a.CalciumResting + (a.Calcium-a.CalciumResting)*decay
	}

	if a.Calcium > a.ReleaseThreshold {
		a.Release = (a.Calcium - a.ReleaseThreshold) / (a.CalciumPeak - a.ReleaseThreshold)
		a.Glutamate = 0.3 * a.Release
		a.ATP = 0.5 * a.Release
	} else {
		a.Release = 0
		a.Glutamate *= expDecay(dt, 100.0)
		a.ATP *= expDecay(dt, 150.0)
	}

	a.ActivityHistory = append(a.ActivityHistory, local)
	if len(a.ActivityHistory) > HistoryCap {
		a.ActivityHistory = a.ActivityHistory[len(a.ActivityHistory)-HistoryCap:]
	}
}

// BoostSynapses raises the efficacy of in-range synapses in proportion
// to released ATP. Efficacy stays capped at 2.0.
func (a *Astrocyte) BoostSynapses(arena *Arena, weightModifier float64) {
	if a.Release <= 0 {
		return
	}
	boost := a.ATP * weightModifier
	arena.Each(func(i int, s *Synapse) {
		if arena.PositionAt(i).Sub(a.Position).Norm() < a.InfluenceRadius {
			s.Efficacy = math.Min(2.0, s.Efficacy+boost)
		}
	})
}

// GlialNetwork arranges astrocytes on a square grid spanning the brain
// area and aggregates their release into a coarse brain state.
type GlialNetwork struct {
	Astrocytes []*Astrocyte

	AverageRelease float64
	State          BrainState
}

// NewGlialNetwork tiles approximately count astrocytes over a width by
// height brain area. The grid is the largest square grid not exceeding
// count, matching reach to grid spacing.
func NewGlialNetwork(count int, width, height float64) *GlialNetwork {
	side := int(math.Sqrt(float64(count)))
	if side < 1 {
		side = 1
	}
	radius := width / (2 * float64(side))

	n := &GlialNetwork{State: StateResting}
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			pos := Vec2{
				X: (float64(i) + 0.5) * width / float64(side),
				Y: (float64(j) + 0.5) * height / float64(side),
			}
			n.Astrocytes = append(n.Astrocytes, NewAstrocyte(pos, radius))
		}
	}
	return n
}

// Update advances every astrocyte and reclassifies the brain state from
// the mean gliotransmitter release.
func (n *GlialNetwork) Update(activity []float64, positions []Vec2, dt float64) {
	releases := make([]float64, len(n.Astrocytes))
	for i, a := range n.Astrocytes {
		a.Respond(activity, positions, dt)
		releases[i] = a.Release
	}
	n.AverageRelease = stat.Mean(releases, nil)

	switch {
	case n.AverageRelease > 0.5:
		n.State = StateExcited
	case n.AverageRelease > 0.2:
		n.State = StateActive
	default:
		n.State = StateResting
	}
}

// ModulateSynapses lets every releasing astrocyte boost the synapses it
// can reach.
func (n *GlialNetwork) ModulateSynapses(arena *Arena) {
	for _, a := range n.Astrocytes {
		a.BoostSynapses(arena, 0.05)
	}
}

// LocalModulation returns the neuromodulator baseline at a position,
// with acetylcholine raised by nearby releasing astrocytes in
// proportion to proximity.
func (n *GlialNetwork) LocalModulation(pos Vec2) (dopamine, serotonin, acetylcholine float64) {
	dopamine, serotonin, acetylcholine = 0.5, 0.5, 0.3
	for _, a := range n.Astrocytes {
		d := pos.Sub(a.Position).Norm()
		if d < a.InfluenceRadius {
			acetylcholine += (1.0 - d/a.InfluenceRadius) * a.Release * 0.1
		}
	}
	return dopamine, serotonin, acetylcholine
}

// Reset returns every astrocyte to resting calcium with no release.
func (n *GlialNetwork) Reset() {
	for _, a := range n.Astrocytes {
		a.Calcium = a.CalciumResting
		a.Release = 0
		a.Glutamate = 0
		a.ATP = 0
		a.ActivityHistory = nil
	}
	n.AverageRelease = 0
	n.State = StateResting
}
