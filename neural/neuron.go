// Package neural provides the leaf models of the hunting brain: spiking
// neurons, plastic synapses, glial cells, the neuromodulator diffusion
// field, and the layered sensorimotor stages built from them.
//
// All neural time constants and dt arguments are in milliseconds; the
// orchestrator converts from the simulation timestep once per tick.
package neural

// HistoryCap bounds the membrane potential history buffer.
const HistoryCap = 1000

// Mode selects the integration strategy of a neuron. A single record
// with a tagged mode replaces per-variant subtypes; the shared
// refractory and history bookkeeping lives in Integrate.
type Mode int

const (
	// ModeBasic integrates a single scalar drive.
	ModeBasic Mode = iota
	// ModeDendritic integrates separate proximal and distal drive
	// channels with a plateau gate, giving an AND-like coincidence
	// response.
	ModeDendritic
	// ModeFastAdapting uses short time constants and an adaptation
	// current that grows with every spike, producing firing-rate
	// adaptation under sustained input.
	ModeFastAdapting
)

// Dendritic integration parameters.
const (
	dendriteEMAKeep     = 0.9  // low-pass filter: keep fraction of old value
	dendriteEMAMix      = 0.1  // low-pass filter: mix fraction of new drive
	plateauDistalGate   = 0.5  // distal drive needed to switch the plateau on
	plateauProximalGate = 0.3  // filtered proximal drive that must already be elevated
	plateauDecayTau     = 50.0 // ms
	distalCouplingGain  = 0.3  // fraction of distal drive passed to the soma
)

// Fast-adapting parameters.
const (
	adaptationTau       = 100.0 // ms
	adaptationIncrement = 5.0   // added to the adaptation current per spike
	adaptationCoupling  = 0.5   // fraction of the adaptation current subtracted from drive
)

// Neuron is a leaky integrate-and-fire unit. The zero value is not
// usable; construct with NewNeuron.
type Neuron struct {
	RestPotential float64
	Threshold     float64
	TauMembrane   float64 // ms
	TauRefractory float64 // ms

	Potential  float64
	SpikeOut   float64 // 0 or 1
	Refractory float64 // remaining refractory time, ms; never negative below zero handling
	SpikeAge   float64 // ms since the last spike

	History []float64 // bounded membrane potential trace

	mode Mode

	// dendritic state
	proximal float64 // low-pass filtered proximal drive
	distal   float64 // low-pass filtered distal drive
	plateau  float64

	// fast-adapting state
	adaptation float64
}

// NewNeuron creates a neuron with the default parameterization for the
// given integration mode.
func NewNeuron(mode Mode) *Neuron {
	n := &Neuron{
		RestPotential: -70.0,
		Threshold:     -40.0,
		TauMembrane:   20.0,
		TauRefractory: 2.0,
		mode:          mode,
		SpikeAge:      1000.0,
	}
	if mode == ModeFastAdapting {
		n.TauMembrane = 5.0
		n.TauRefractory = 1.0
	}
	n.Potential = n.RestPotential
	return n
}

// Mode returns the integration strategy this neuron was built with.
func (n *Neuron) Mode() Mode { return n.mode }

// Integrate advances the membrane by dt milliseconds and returns the
// spike output (0 or 1). The basic and fast-adapting modes read
// drive[0]; the dendritic mode reads drive[0] as the proximal channel
// and drive[1] as the distal channel. Missing drives default to zero.
//
// During the refractory period the potential is pinned to the resting
// value and no input is integrated.
func (n *Neuron) Integrate(dt float64, drive ...float64) float64 {
	n.SpikeAge += dt

	if n.Refractory > 0 {
		n.Refractory -= dt
		if n.Refractory < 0 {
			n.Refractory = 0
		}
		n.SpikeOut = 0
		n.Potential = n.RestPotential
		n.record()
		return 0
	}

	input := n.drive(dt, drive)

	// Leak toward rest, then accumulate input.
	decay := expDecay(dt, n.TauMembrane)
	n.Potential = n.RestPotential + (n.Potential-n.RestPotential)*decay
	n.Potential += input * dt / n.TauMembrane

	if n.Potential >= n.Threshold {
		n.SpikeOut = 1
		n.Refractory = n.TauRefractory
		n.SpikeAge = 0
		if n.mode == ModeFastAdapting {
			n.adaptation += adaptationIncrement
		}
	} else {
		n.SpikeOut = 0
	}

	n.record()
	return n.SpikeOut
}

// drive computes the somatic input current for the active mode.
func (n *Neuron) drive(dt float64, drive []float64) float64 {
	primary := 0.0
	if len(drive) > 0 {
		primary = drive[0]
	}

	switch n.mode {
	case ModeDendritic:
		distalIn := 0.0
		if len(drive) > 1 {
			distalIn = drive[1]
		}

		n.proximal = dendriteEMAKeep*n.proximal + dendriteEMAMix*primary
		n.distal = dendriteEMAKeep*n.distal + dendriteEMAMix*distalIn

		// Plateau gate: strong distal input coinciding with an already
		// elevated proximal channel latches the plateau on.
		if distalIn > plateauDistalGate && n.proximal > plateauProximalGate {
			n.plateau = 1.0
		} else {
			n.plateau *= expDecay(dt, plateauDecayTau)
		}

		return primary + distalCouplingGain*distalIn*n.plateau

	case ModeFastAdapting:
		n.adaptation *= expDecay(dt, adaptationTau)
		return primary - adaptationCoupling*n.adaptation

	default:
		return primary
	}
}

// record appends the membrane potential to the bounded history buffer.
func (n *Neuron) record() {
	n.History = append(n.History, n.Potential)
	if len(n.History) > HistoryCap {
		n.History = n.History[len(n.History)-HistoryCap:]
	}
}

// RecentSpikeRate returns the fraction of the last window history
// samples that were at or above threshold. Used by homeostatic
// plasticity as a cheap firing-rate estimate.
func (n *Neuron) RecentSpikeRate(window int) float64 {
	if len(n.History) == 0 || window <= 0 {
		return 0
	}
	start := len(n.History) - window
	if start < 0 {
		start = 0
	}
	spikes := 0
	for _, v := range n.History[start:] {
		if v >= n.Threshold {
			spikes++
		}
	}
	return float64(spikes) / float64(len(n.History)-start)
}

// Reset returns the neuron to its freshly constructed state.
func (n *Neuron) Reset() {
	n.Potential = n.RestPotential
	n.SpikeOut = 0
	n.Refractory = 0
	n.SpikeAge = 1000.0
	n.History = nil
	n.proximal = 0
	n.distal = 0
	n.plateau = 0
	n.adaptation = 0
}
