package neural

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Motor hierarchy sizes and gains. The executive gain is large because
// decoded movement commands carry small magnitudes (population output
// averaged over all columns).
const (
	executiveCount   = 4
	coordinationSize = 8
	effectorCount    = 12

	executiveGain    = 800.0
	coordinationGain = 80.0
	effectorGain     = 60.0
	proprioGain      = 5.0

	strikeMinDistance = 10.0
	strikeMaxDistance = 150.0
)

// MotorHierarchy turns decoded movement commands into muscle
// activation through three layers: direction-tuned executive cells,
// fast coordination interneurons, and effector motor neurons damped by
// proprioceptive feedback.
type MotorHierarchy struct {
	Executive    []*Neuron
	Coordination []*Neuron
	Effectors    []*Neuron

	MuscleActivation []float64
	CurrentCommand   Vec2
}

// NewMotorHierarchy creates the three-layer motor stack.
func NewMotorHierarchy() *MotorHierarchy {
	m := &MotorHierarchy{
		MuscleActivation: make([]float64, effectorCount),
	}
	for i := 0; i < executiveCount; i++ {
		m.Executive = append(m.Executive, NewNeuron(ModeDendritic))
	}
	for i := 0; i < coordinationSize; i++ {
		m.Coordination = append(m.Coordination, NewNeuron(ModeFastAdapting))
	}
	for i := 0; i < effectorCount; i++ {
		m.Effectors = append(m.Effectors, NewNeuron(ModeDendritic))
	}
	return m
}

// Execute advances the hierarchy one dt millisecond step for a
// movement command. Each executive cell is tuned to a cardinal
// direction and fires in proportion to how well the command matches.
// Proprioceptive feedback inhibits the matching effector, missing
// entries count as zero.
func (m *MotorHierarchy) Execute(command Vec2, proprio []float64, dt float64) []float64 {
	magnitude := command.Norm()
	if magnitude > 0.01 {
		angle := command.Angle()
		for i, n := range m.Executive {
			preferred := float64(i) / executiveCount * 2 * math.Pi
			diff := angularDistance(angle, preferred)
			selectivity := gaussian(diff, selectivitySigma)
			n.Integrate(dt, magnitude*selectivity*executiveGain)
		}
	} else {
		for _, n := range m.Executive {
			n.Integrate(dt, 0)
		}
	}

	execSpikes := make([]float64, len(m.Executive))
	for i, n := range m.Executive {
		execSpikes[i] = n.SpikeOut
	}
	execRate := stat.Mean(execSpikes, nil)

	coordSpikes := make([]float64, len(m.Coordination))
	for i, n := range m.Coordination {
		coordSpikes[i] = n.Integrate(dt, execRate*coordinationGain)
	}
	coordRate := stat.Mean(coordSpikes, nil)

	for i, n := range m.Effectors {
		inhibition := 0.0
		if i < len(proprio) {
			inhibition = proprio[i] * proprioGain
		}
		m.MuscleActivation[i] = n.Integrate(dt, coordRate*effectorGain-inhibition)
	}

	m.CurrentCommand = command
	return m.MuscleActivation
}

// ShouldStrike reports whether a target sits inside the tongue's
// effective band: far enough to extend, near enough to reach.
func (m *MotorHierarchy) ShouldStrike(target, current Vec2) bool {
	d := target.Sub(current).Norm()
	return d > strikeMinDistance && d < strikeMaxDistance
}

// Neurons returns every cell in the hierarchy, executive layer first.
func (m *MotorHierarchy) Neurons() []*Neuron {
	var out []*Neuron
	out = append(out, m.Executive...)
	out = append(out, m.Coordination...)
	out = append(out, m.Effectors...)
	return out
}

// Reset clears every layer and the activation vector.
func (m *MotorHierarchy) Reset() {
	for _, n := range m.Neurons() {
		n.Reset()
	}
	for i := range m.MuscleActivation {
		m.MuscleActivation[i] = 0
	}
	m.CurrentCommand = Vec2{}
}
