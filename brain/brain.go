// Package brain composes the neural stages, glial network,
// neuromodulator field, metabolism, and plasticity managers into one
// organism brain with a fixed per-tick update order.
package brain

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/pond/metabolism"
	"github.com/pthm-cable/pond/neural"
)

// SnapshotVersion tags the snapshot layout for downstream consumers.
const SnapshotVersion = 1

const historyCap = 1000

// Options selects the brain's dimensions and developmental mode.
type Options struct {
	Width, Height    float64 // visual field extent
	DT               float64 // simulation timestep, seconds
	Columns          int
	Astrocytes       int
	RetinaSide       int
	FieldCellSize    float64
	JuvenileMode     bool
	JuvenileDuration int
}

// Snapshot is the per-tick read-only view of the brain handed to the
// renderer, telemetry, and persistence.
type Snapshot struct {
	Version int

	Step             int
	Juvenile         bool
	JuvenileProgress float64

	Dopamine       float64
	Serotonin      float64
	NeuralActivity float64
	Excitability   float64

	Velocity          neural.Vec2
	DominantDirection float64
	MuscleActivation  []float64
	VisualOutput      []float64

	Glucose    float64
	Oxygen     float64
	Fatigue    float64
	BrainState neural.BrainState

	MeanSynapseWeight  float64
	ReinforcedSynapses int
	EliminatedSynapses int

	Reward float64
}

// Brain wires every subsystem together. Update is the only mutating
// entry point during simulation.
type Brain struct {
	Retina *neural.Retina
	Tectum *neural.Tectum
	Motor  *neural.MotorHierarchy
	Glia   *neural.GlialNetwork
	Field  *neural.Field
	Arena  *neural.Arena

	Systemic *metabolism.Systemic
	Energy   *metabolism.NeuronEnergy

	Structural *neural.StructuralManager
	Functional *neural.FunctionalManager

	Juvenile         bool
	JuvenileDuration int
	JuvenileAge      int
	Steps            int

	Dopamine         float64
	Serotonin        float64
	ExplorationBonus float64
	Excitability     float64

	dt   float64 // seconds
	dtMs float64
	opts Options

	relay            []int // synapse index per tectal column
	feedback         []int // one depressing synapse per effector
	feedbackResource []float64
	proprio          []float64

	gliaActivity  []float64
	gliaPositions []neural.Vec2

	clockMs float64

	activityHistory []float64
	dopamineHistory []float64
}

// New builds a brain from options. The RNG seeds the synapse pool and
// the structural plasticity roll.
func New(opts Options, rng *rand.Rand) *Brain {
	if opts.DT <= 0 {
		opts.DT = 0.01
	}
	b := &Brain{
		Retina: neural.NewRetina(opts.Width, opts.Height, opts.RetinaSide),
		Tectum: neural.NewTectum(opts.Columns),
		Motor:  neural.NewMotorHierarchy(),
		Field:  neural.NewField(opts.Width, opts.Height, opts.FieldCellSize),
		Arena:  neural.NewArena(),

		Systemic: metabolism.NewSystemic(),
		Energy:   metabolism.NewNeuronEnergy(),

		Functional: neural.NewFunctionalManager(),

		Juvenile:         opts.JuvenileMode,
		JuvenileDuration: opts.JuvenileDuration,
		Excitability:     1.0,

		dt:   opts.DT,
		dtMs: opts.DT * 1000,
		opts: opts,
	}
	b.Structural = neural.NewStructuralManager(rng)

	if b.Juvenile {
		b.Dopamine = 0.85
		b.Serotonin = 0.75
	} else {
		b.Dopamine = 0.5
		b.Serotonin = 0.5
	}

	// One relay synapse per column carries the retinal drive. The
	// initial weight is the same for every column so a fresh brain
	// decodes direction purely from selectivity.
	for _, c := range b.Tectum.Columns {
		s := neural.NewSynapseWeighted(0.5)
		b.relay = append(b.relay, b.Arena.Add(s, c.Position))
	}

	// Depressing feedback synapses dampen each effector through the
	// proprioceptive channel.
	for i := range b.Motor.Effectors {
		s := neural.NewDynamicSynapse(rng, neural.KindDepressing)
		pos := neural.Vec2{X: float64(i) * 30.0, Y: -50.0}
		b.feedback = append(b.feedback, b.Arena.Add(s, pos))
		b.feedbackResource = append(b.feedbackResource, 1.0)
	}
	b.proprio = make([]float64, len(b.Motor.Effectors))

	// The glial network spans the tectal grid and monitors every
	// column cell at its column's position.
	gridExtent := 400.0
	b.Glia = neural.NewGlialNetwork(opts.Astrocytes, gridExtent, gridExtent)
	for _, c := range b.Tectum.Columns {
		for range c.Neurons() {
			b.gliaPositions = append(b.gliaPositions, c.Position)
		}
	}
	b.gliaActivity = make([]float64, len(b.gliaPositions))

	return b
}

// Update runs one full brain tick and returns the resulting snapshot.
// The stage order is fixed: sensory, motion, motor, neuromodulation,
// metabolism, plasticity, glia.
func (b *Brain) Update(scene []neural.Stimulus, motions []neural.Vec2, reward float64) Snapshot {
	b.Steps++
	b.clockMs += b.dtMs

	b.JuvenileAge++
	if b.Juvenile && b.JuvenileAge >= b.JuvenileDuration {
		b.Juvenile = false
	}

	// 1. Sensory processing.
	retinal := b.Retina.Process(scene, b.dtMs)
	retinalSum := 0.0
	for _, v := range retinal {
		retinalSum += v
	}
	preSpike := retinalSum > 0

	// 2. Motion processing through the relay synapses.
	motion := aggregateMotion(motions)
	drive := make([]float64, len(b.relay))
	for i, idx := range b.relay {
		drive[i] = b.Arena.At(idx).Transmit(retinalSum) * b.Excitability
	}
	b.Tectum.Process(drive, motion, b.dtMs)
	command := b.Tectum.MovementCommand()

	// 3. Motor output. Proprioceptive feedback is last tick's muscle
	// activation passed through the depressing feedback synapses, each
	// drawing on a vesicle pool that spikes run down and quiet ticks
	// refill on the depression time constant.
	muscles := b.Motor.Execute(command, b.proprio, b.dtMs)
	for i, idx := range b.feedback {
		s := b.Arena.At(idx)
		spiked := muscles[i] > 0
		s.ApplyShortTermPlasticity(b.dtMs, spiked)
		b.feedbackResource[i] += (1.0 - b.feedbackResource[i]) * (b.dtMs / s.DepressionTau)
		b.proprio[i] = s.TransmitDynamic(muscles[i], b.feedbackResource[i])
		if spiked {
			b.feedbackResource[i] -= s.InitialRelease * b.feedbackResource[i]
		}
	}

	// 4. Neuromodulation.
	activity := stat.Mean(retinal, nil)
	b.updateNeuromodulation(reward, command)

	// 5. Metabolism.
	b.Systemic.Update(b.dt, command.Norm()/2.0, activity)
	b.Energy.Consume(preSpike, activity, b.dt)
	b.Energy.Recover(b.dt, b.Systemic.Oxygen, b.Systemic.Glucose)
	b.Excitability = b.Energy.ExcitabilityFactor()

	// 6. Plasticity. Modulator levels reach every synapse before the
	// timing rule runs.
	b.applyPlasticity(preSpike)

	// 7. Glial network.
	b.collectGliaActivity()
	b.Glia.Update(b.gliaActivity, b.gliaPositions, b.dtMs)
	b.Glia.ModulateSynapses(b.Arena)

	b.activityHistory = appendBounded(b.activityHistory, activity)
	b.dopamineHistory = appendBounded(b.dopamineHistory, b.Dopamine)

	return Snapshot{
		Version:            SnapshotVersion,
		Step:               b.Steps,
		Juvenile:           b.Juvenile,
		JuvenileProgress:   b.juvenileProgress(),
		Dopamine:           b.Dopamine,
		Serotonin:          b.Serotonin,
		NeuralActivity:     activity,
		Excitability:       b.Excitability,
		Velocity:           command,
		DominantDirection:  b.Tectum.DominantDirection,
		MuscleActivation:   append([]float64(nil), muscles...),
		VisualOutput:       append([]float64(nil), retinal...),
		Glucose:            b.Systemic.Glucose,
		Oxygen:             b.Systemic.Oxygen,
		Fatigue:            b.Systemic.Fatigue,
		BrainState:         b.Glia.State,
		MeanSynapseWeight:  b.Arena.MeanWeight(),
		ReinforcedSynapses: b.Structural.Reinforced,
		EliminatedSynapses: b.Structural.Eliminated,
		Reward:             reward,
	}
}

// updateNeuromodulation recomputes the global dopamine and serotonin
// levels and injects reward dopamine into the field at the arena
// center.
func (b *Brain) updateNeuromodulation(reward float64, command neural.Vec2) {
	// Exploration tracks smoothed movement so a wandering juvenile
	// keeps its dopamine slightly elevated.
	b.ExplorationBonus = 0.95*b.ExplorationBonus + 0.05*math.Min(command.Norm()*8, 1.0)

	base := 0.5
	if b.Juvenile {
		base = 0.85
	}
	b.Dopamine = clamp01(base + 0.3*reward + 0.2*b.ExplorationBonus)

	base = 0.5
	if b.Juvenile {
		base = 0.75
	}
	b.Serotonin = clamp01(base + 0.1*(b.Systemic.Glucose/2.0))

	if reward > 0 {
		center := neural.Vec2{X: b.opts.Width / 2, Y: b.opts.Height / 2}
		b.Field.Release(center, reward, neural.Dopamine)
	}
	b.Field.Diffuse(b.dtMs)
}

// applyPlasticity pushes modulators into the pool, runs the timing
// rule and short-term dynamics on the relay synapses, and applies the
// homeostatic and structural managers.
func (b *Brain) applyPlasticity(preSpike bool) {
	b.Arena.Each(func(i int, s *neural.Synapse) {
		_, _, ach := b.Field.Concentrations(b.Arena.PositionAt(i))
		s.UpdateModulators(b.Dopamine, b.Serotonin, ach)
	})

	for i, idx := range b.relay {
		s := b.Arena.At(idx)
		s.ApplyShortTermPlasticity(b.dtMs, preSpike)
		if preSpike {
			s.PreSpikeTime = b.clockMs
		}
		if b.Tectum.Output[i] > 0 {
			s.PostSpikeTime = b.clockMs
		}
		s.ApplyTimingRule(s.PreSpikeTime, s.PostSpikeTime)
	}

	targets := make([]neural.HomeostaticTarget, 0, len(b.relay))
	var cells []*neural.Neuron
	for i, c := range b.Tectum.Columns {
		relay := b.Arena.At(b.relay[i])
		for _, n := range c.Excitatory {
			targets = append(targets, neural.HomeostaticTarget{
				Cell:     n,
				Incoming: []*neural.Synapse{relay},
			})
		}
		cells = append(cells, c.Neurons()...)
	}
	cells = append(cells, b.Motor.Neurons()...)

	b.Functional.ApplyHomeostaticScaling(targets, b.dt)
	b.Functional.ApplyIntrinsicPlasticity(cells, b.dt)
	b.Structural.UpdateStructure(b.Arena, b.dt)
}

func (b *Brain) collectGliaActivity() {
	i := 0
	for _, c := range b.Tectum.Columns {
		for _, v := range c.SpikeOutputs() {
			b.gliaActivity[i] = v
			i++
		}
	}
}

func (b *Brain) juvenileProgress() float64 {
	if !b.Juvenile {
		return 1.0
	}
	return float64(b.JuvenileAge) / float64(b.JuvenileDuration)
}

// AverageDopamine returns the mean dopamine level over the recent
// history window.
func (b *Brain) AverageDopamine() float64 {
	if len(b.dopamineHistory) == 0 {
		return b.Dopamine
	}
	return stat.Mean(b.dopamineHistory, nil)
}

// AverageActivity returns the mean neural activity over the recent
// history window.
func (b *Brain) AverageActivity() float64 {
	if len(b.activityHistory) == 0 {
		return 0
	}
	return stat.Mean(b.activityHistory, nil)
}

// Reset restores every subsystem to its freshly built state without
// reallocating the network. The developmental clock restarts.
func (b *Brain) Reset() {
	b.Retina.Reset()
	b.Tectum.Reset()
	b.Motor.Reset()
	b.Glia.Reset()
	b.Field.Reset()
	b.Arena.Reset()
	b.Systemic.Reset()
	b.Energy.Reset()
	b.Structural.Reset()

	b.Juvenile = b.opts.JuvenileMode
	b.JuvenileAge = 0
	b.Steps = 0
	b.clockMs = 0
	b.Excitability = 1.0
	b.ExplorationBonus = 0
	if b.Juvenile {
		b.Dopamine, b.Serotonin = 0.85, 0.75
	} else {
		b.Dopamine, b.Serotonin = 0.5, 0.5
	}
	for i := range b.proprio {
		b.proprio[i] = 0
	}
	for i := range b.feedbackResource {
		b.feedbackResource[i] = 1.0
	}
	b.activityHistory = nil
	b.dopamineHistory = nil
}

func aggregateMotion(motions []neural.Vec2) neural.Vec2 {
	if len(motions) == 0 {
		return neural.Vec2{}
	}
	var sum neural.Vec2
	for _, m := range motions {
		sum = sum.Add(m)
	}
	return sum.Scale(1.0 / float64(len(motions)))
}

func appendBounded(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCap {
		s = s[len(s)-historyCap:]
	}
	return s
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
