// Package metabolism models energy budgets on two scales: per-neuron
// ATP stores that gate excitability, and the organism-wide glucose,
// oxygen, lactate, and fatigue state. All rates are per second.
package metabolism

import "math"

// NeuronEnergy tracks the ATP store of a single neuron.
type NeuronEnergy struct {
	ATP      float64
	Baseline float64
	Max      float64

	SpikeCost    float64 // ATP per spike
	RestCost     float64 // ATP per second of upkeep
	RecoveryRate float64 // ATP per second at full oxygen and glucose

	Excitability   float64
	PumpEfficiency float64
}

// NewNeuronEnergy creates an energy store at its baseline.
func NewNeuronEnergy() *NeuronEnergy {
	return &NeuronEnergy{
		ATP:            1.0,
		Baseline:       1.0,
		Max:            2.0,
		SpikeCost:      0.1,
		RestCost:       0.01,
		RecoveryRate:   0.02,
		Excitability:   1.0,
		PumpEfficiency: 1.0,
	}
}

// Reset restores the store to its baseline level.
func (e *NeuronEnergy) Reset() {
	e.ATP = e.Baseline
	e.Excitability = 1.0
}

// Consume charges the store for dt seconds of upkeep, an optional
// spike, and a surcharge proportional to the recent firing rate.
func (e *NeuronEnergy) Consume(spiked bool, firingRate, dt float64) {
	if spiked {
		e.ATP -= e.SpikeCost
	}
	e.ATP -= e.RestCost * dt
	e.ATP -= firingRate * 0.01 * dt
	e.ATP = clamp(e.ATP, 0, e.Max)
}

// Recover replenishes ATP over dt seconds, scaled by oxygen and
// glucose availability and pump efficiency.
func (e *NeuronEnergy) Recover(dt, oxygen, glucose float64) {
	e.ATP = clamp(e.ATP+e.RecoveryRate*oxygen*glucose*e.PumpEfficiency*dt, 0, e.Max)
}

// ExcitabilityFactor maps the ATP level onto a multiplier for somatic
// drive. Below half baseline excitability collapses quickly; above
// baseline it rises modestly.
func (e *NeuronEnergy) ExcitabilityFactor() float64 {
	half := e.Baseline * 0.5
	var x float64
	if e.ATP < half {
		x = 0.3 + 0.7*(e.ATP/half)
	} else {
		x = 1.0 + 0.5*(e.ATP-e.Baseline)/e.Baseline
	}
	e.Excitability = clamp(x, 0.1, 2.0)
	return e.Excitability
}

// Systemic is the organism-wide metabolic state: circulating
// resources, lactate buildup, and fatigue driven by a slow circadian
// cycle.
type Systemic struct {
	Glucose float64
	Oxygen  float64
	Lactate float64

	GlucoseConsumption float64
	OxygenConsumption  float64
	GlucoseRecovery    float64
	OxygenRecovery     float64

	NeuralActivity   float64 // smoothed
	MovementActivity float64 // smoothed

	CircadianPhase float64
	Fatigue        float64
}

// NewSystemic creates a rested organism with full resources.
func NewSystemic() *Systemic {
	return &Systemic{
		Glucose:            1.0,
		Oxygen:             1.0,
		Lactate:            0.1,
		GlucoseConsumption: 0.001,
		OxygenConsumption:  0.0015,
		GlucoseRecovery:    0.0005,
		OxygenRecovery:     0.001,
	}
}

// Update advances the systemic state by dt seconds. Activity inputs
// are smoothed before use so single bursts do not whipsaw the
// resource levels. Fatigue combines the circadian phase, smoothed
// activity, and resource scarcity.
func (s *Systemic) Update(dt, movementIntensity, neuralActivity float64) {
	s.NeuralActivity = 0.9*s.NeuralActivity + 0.1*neuralActivity
	s.MovementActivity = 0.9*s.MovementActivity + 0.1*movementIntensity
	activity := s.NeuralActivity + s.MovementActivity

	s.Glucose -= s.GlucoseConsumption * (1.0 + activity) * dt
	s.Oxygen -= s.OxygenConsumption * (1.0 + activity) * dt

	recovery := 1.0 - 0.5*s.Fatigue
	s.Glucose += s.GlucoseRecovery * recovery * dt
	s.Oxygen += s.OxygenRecovery * recovery * dt

	s.Lactate += activity * 0.01 * dt
	s.Lactate *= math.Exp(-dt / 100.0)

	s.CircadianPhase = math.Mod(s.CircadianPhase+dt/10000.0, 2*math.Pi)

	circadian := 0.3 * (1.0 - math.Cos(s.CircadianPhase)) / 2.0
	active := 0.2 * activity
	scarcity := 0.3 * (1.0 - (s.Glucose+s.Oxygen)/2.0)
	s.Fatigue = clamp(circadian+active+scarcity, 0, 1)

	s.Glucose = clamp(s.Glucose, 0, 1.5)
	s.Oxygen = clamp(s.Oxygen, 0, 1.5)
}

// Reset restores the rested state.
func (s *Systemic) Reset() {
	s.Glucose = 1.0
	s.Oxygen = 1.0
	s.Lactate = 0.1
	s.Fatigue = 0
	s.CircadianPhase = 0
	s.NeuralActivity = 0
	s.MovementActivity = 0
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
