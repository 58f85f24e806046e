package neural

import (
	"math"
	"math/rand"
)

// Kind tunes the short-term plasticity profile of a synapse.
type Kind int

const (
	// KindBalanced uses the default facilitation/depression balance.
	KindBalanced Kind = iota
	// KindDepressing releases strongly at first and runs down under
	// sustained firing.
	KindDepressing
	// KindFacilitating starts weak and builds up with repeated spikes.
	KindFacilitating
)

// Synapse carries signal between two neurons and learns through
// spike-timing plasticity, short-term facilitation/depression, and
// neuromodulator gating.
type Synapse struct {
	Weight    float64
	MinWeight float64
	MaxWeight float64

	TimingWindow    float64 // ms
	TimingAmplitude float64

	FacilitationTau float64 // ms
	DepressionTau   float64 // ms
	Efficacy        float64
	InitialRelease  float64

	Dopamine      float64
	Serotonin     float64
	Acetylcholine float64

	// Last observed spike times in ms; NaN until a spike is seen.
	PreSpikeTime  float64
	PostSpikeTime float64

	facilitation float64
	depression   float64

	initialWeight float64
}

// NewSynapse creates a balanced synapse with a weight drawn uniformly
// from [0.2, 0.8).
func NewSynapse(rng *rand.Rand) *Synapse {
	return NewSynapseWeighted(0.2 + 0.6*rng.Float64())
}

// NewSynapseWeighted creates a balanced synapse with a fixed initial
// weight.
func NewSynapseWeighted(weight float64) *Synapse {
	return &Synapse{
		Weight:          weight,
		initialWeight:   weight,
		MinWeight:       0.0,
		MaxWeight:       1.0,
		TimingWindow:    50.0,
		TimingAmplitude: 0.01,
		FacilitationTau: 50.0,
		DepressionTau:   200.0,
		Efficacy:        1.0,
		InitialRelease:  0.9,
		Dopamine:        0.5,
		Serotonin:       0.5,
		Acetylcholine:   0.3,
		PreSpikeTime:    math.NaN(),
		PostSpikeTime:   math.NaN(),
	}
}

// NewDynamicSynapse creates a synapse whose short-term dynamics are
// biased toward the given kind.
func NewDynamicSynapse(rng *rand.Rand, kind Kind) *Synapse {
	s := NewSynapse(rng)
	switch kind {
	case KindDepressing:
		s.FacilitationTau = 30.0
		s.DepressionTau = 800.0
		s.InitialRelease = 0.9
	case KindFacilitating:
		s.FacilitationTau = 200.0
		s.DepressionTau = 100.0
		s.InitialRelease = 0.3
	}
	return s
}

// ApplyTimingRule nudges the weight from the relative timing of the
// last pre- and postsynaptic spikes. Post-after-pre within the window
// potentiates, pre-after-post depresses, and either time being NaN
// (no spike seen yet) leaves the weight untouched. The change is
// scaled by the current dopamine/serotonin mix.
func (s *Synapse) ApplyTimingRule(preTime, postTime float64) {
	if math.IsNaN(preTime) || math.IsNaN(postTime) {
		return
	}
	deltaT := postTime - preTime
	if math.Abs(deltaT) >= s.TimingWindow {
		return
	}

	var change float64
	if deltaT > 0 {
		change = s.TimingAmplitude * math.Exp(-deltaT/s.TimingWindow)
	} else {
		change = -s.TimingAmplitude * math.Exp(deltaT/s.TimingWindow)
	}
	change *= 0.7*s.Dopamine + 0.3*s.Serotonin

	s.Weight = clamp(s.Weight+change, s.MinWeight, s.MaxWeight)
}

// ApplyShortTermPlasticity advances the facilitation and depression
// traces by dt milliseconds. A presynaptic spike sets both traces to
// full; otherwise they decay on their own time constants. The
// resulting efficacy multiplies every transmission.
func (s *Synapse) ApplyShortTermPlasticity(dt float64, spike bool) {
	if spike {
		s.facilitation = 1.0
		s.depression = 1.0
	} else {
		s.facilitation *= expDecay(dt, s.FacilitationTau)
		s.depression *= expDecay(dt, s.DepressionTau)
	}
	s.Efficacy = clamp(1.0+0.3*s.facilitation-0.5*s.depression, 0.1, 2.0)
}

// Transmit passes a presynaptic output through the synapse.
func (s *Synapse) Transmit(presynaptic float64) float64 {
	return presynaptic * s.Weight * s.Efficacy
}

// TransmitDynamic additionally scales by a pool of available release
// resources, modeling vesicle depletion.
func (s *Synapse) TransmitDynamic(presynaptic, available float64) float64 {
	return presynaptic * s.Efficacy * available
}

// Reset restores the synapse to its freshly constructed state: the
// initial weight, unit efficacy, cleared facilitation and depression
// traces, baseline modulators, and no spike history.
func (s *Synapse) Reset() {
	s.Weight = s.initialWeight
	s.Efficacy = 1.0
	s.facilitation = 0
	s.depression = 0
	s.Dopamine = 0.5
	s.Serotonin = 0.5
	s.Acetylcholine = 0.3
	s.PreSpikeTime = math.NaN()
	s.PostSpikeTime = math.NaN()
}

// UpdateModulators replaces the neuromodulator levels sampled at the
// synapse location.
func (s *Synapse) UpdateModulators(dopamine, serotonin, acetylcholine float64) {
	s.Dopamine = dopamine
	s.Serotonin = serotonin
	s.Acetylcholine = acetylcholine
}

// Arena is the brain-wide population of plastic synapses. Indices are
// stable for the lifetime of the arena so structural plasticity and
// glial modulation can address synapses by position in the pool.
type Arena struct {
	synapses  []*Synapse
	positions []Vec2
}

// NewArena creates an empty synapse pool.
func NewArena() *Arena {
	return &Arena{}
}

// Add registers a synapse at a spatial position and returns its stable
// index.
func (a *Arena) Add(s *Synapse, pos Vec2) int {
	a.synapses = append(a.synapses, s)
	a.positions = append(a.positions, pos)
	return len(a.synapses) - 1
}

// Len returns the number of synapses in the pool.
func (a *Arena) Len() int { return len(a.synapses) }

// At returns the synapse at index i.
func (a *Arena) At(i int) *Synapse { return a.synapses[i] }

// PositionAt returns the spatial position of the synapse at index i.
func (a *Arena) PositionAt(i int) Vec2 { return a.positions[i] }

// Each calls fn for every synapse in the pool.
func (a *Arena) Each(fn func(i int, s *Synapse)) {
	for i, s := range a.synapses {
		fn(i, s)
	}
}

// Reset restores every synapse in the pool to its freshly constructed
// state.
func (a *Arena) Reset() {
	for _, s := range a.synapses {
		s.Reset()
	}
}

// MeanWeight returns the average weight across the pool, or zero for
// an empty pool.
func (a *Arena) MeanWeight() float64 {
	if len(a.synapses) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range a.synapses {
		sum += s.Weight
	}
	return sum / float64(len(a.synapses))
}
