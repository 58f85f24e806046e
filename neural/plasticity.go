package neural

import "math/rand"

// Plasticity managers run on the slow timescale and take dt in
// seconds, unlike the millisecond neural dynamics.

// StructuralManager reinforces strong synapses and stochastically
// eliminates weights that have decayed to near zero.
type StructuralManager struct {
	ReinforcementThreshold float64
	EliminationThreshold   float64
	ReinforcementRate      float64 // per second
	EliminationRate        float64 // probability per second

	Reinforced int
	Eliminated int

	rng *rand.Rand
}

// NewStructuralManager creates a manager with the default thresholds.
func NewStructuralManager(rng *rand.Rand) *StructuralManager {
	return &StructuralManager{
		ReinforcementThreshold: 0.1,
		EliminationThreshold:   0.01,
		ReinforcementRate:      0.0001,
		EliminationRate:        0.00005,
		rng:                    rng,
	}
}

// UpdateStructure walks the synapse pool once. Synapses above the
// reinforcement threshold grow in proportion to their own weight;
// synapses below the elimination threshold are zeroed with a small
// probability per second. Indices in the pool stay stable either way.
func (m *StructuralManager) UpdateStructure(arena *Arena, dt float64) {
	arena.Each(func(_ int, s *Synapse) {
		switch {
		case s.Weight > m.ReinforcementThreshold:
			grown := s.Weight + m.ReinforcementRate*s.Weight*dt
			if grown > s.MaxWeight {
				grown = s.MaxWeight
			}
			s.Weight = grown
			m.Reinforced++
		case s.Weight > 0 && s.Weight < m.EliminationThreshold:
			if m.rng.Float64() < m.EliminationRate*dt {
				s.Weight = 0
				m.Eliminated++
			}
		}
	})
}

// Reset clears the reinforcement and elimination counters.
func (m *StructuralManager) Reset() {
	m.Reinforced = 0
	m.Eliminated = 0
}

// HomeostaticTarget pairs a neuron with the synapses feeding it so
// synaptic scaling can act on the incoming weights.
type HomeostaticTarget struct {
	Cell     *Neuron
	Incoming []*Synapse
}

// FunctionalManager keeps firing rates near a set point through
// synaptic scaling and intrinsic threshold adaptation.
type FunctionalManager struct {
	ActivityTarget float64
	LearningRate   float64 // per second

	ScalingEnabled   bool
	IntrinsicEnabled bool

	rateWindow int
}

// NewFunctionalManager creates a manager with the default set point.
func NewFunctionalManager() *FunctionalManager {
	return &FunctionalManager{
		ActivityTarget:   0.3,
		LearningRate:     0.0001,
		ScalingEnabled:   true,
		IntrinsicEnabled: true,
		rateWindow:       100,
	}
}

// ApplyHomeostaticScaling multiplicatively scales the incoming weights
// of each neuron whose recent firing rate sits outside the tolerance
// band around the target. Overactive cells get weaker inputs,
// underactive cells stronger ones.
func (m *FunctionalManager) ApplyHomeostaticScaling(targets []HomeostaticTarget, dt float64) {
	if !m.ScalingEnabled {
		return
	}
	for _, t := range targets {
		rate := t.Cell.RecentSpikeRate(m.rateWindow)

		factor := 1.0
		if rate > m.ActivityTarget*1.5 {
			factor = 1.0 - m.LearningRate*dt
		} else if rate < m.ActivityTarget*0.5 {
			factor = 1.0 + m.LearningRate*dt
		}
		if factor == 1.0 {
			continue
		}
		for _, s := range t.Incoming {
			s.Weight = clamp(s.Weight*factor, s.MinWeight, s.MaxWeight)
		}
	}
}

// ApplyIntrinsicPlasticity nudges each neuron's spike threshold toward
// the activity target: overactive cells become harder to fire,
// underactive cells easier.
func (m *FunctionalManager) ApplyIntrinsicPlasticity(neurons []*Neuron, dt float64) {
	if !m.IntrinsicEnabled {
		return
	}
	for _, n := range neurons {
		rate := n.RecentSpikeRate(m.rateWindow)
		if rate > m.ActivityTarget*1.5 {
			n.Threshold += m.LearningRate * dt
		} else if rate < m.ActivityTarget*0.5 {
			n.Threshold -= m.LearningRate * dt
		}
	}
}
