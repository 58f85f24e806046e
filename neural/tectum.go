package neural

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Tectal column wiring. Gains are calibrated to the 10ms tick so a
// well-matched column crosses spike threshold while its neighbors
// (22.5 degrees off) stay subthreshold.
const (
	columnExcitatory  = 8
	columnInhibitory  = 4
	columnOutputs     = 2
	selectivitySigma  = 0.5
	selectivityIdle   = 0.5 // used when the motion vector is negligible
	motionEpsilon     = 0.01
	visualGain        = 100.0
	interneuronGain   = 20.0
	outputExcitation  = 80.0
	outputInhibition  = 20.0
	columnGridPerRow  = 4
	columnGridSpacing = 100.0
)

// Column is a direction-selective micro-circuit: a bank of excitatory
// cells driving both fast inhibitory interneurons and a pair of output
// cells that integrate the excitation/inhibition balance.
type Column struct {
	Position           Vec2
	PreferredDirection float64 // radians

	Excitatory  []*Neuron
	Inhibitory  []*Neuron
	OutputCells []*Neuron

	Output      float64
	Selectivity float64
}

// NewColumn creates a column at a position tuned to a preferred motion
// direction.
func NewColumn(pos Vec2, preferred float64) *Column {
	c := &Column{
		Position:           pos,
		PreferredDirection: preferred,
		Selectivity:        1.0,
	}
	for i := 0; i < columnExcitatory; i++ {
		c.Excitatory = append(c.Excitatory, NewNeuron(ModeDendritic))
	}
	for i := 0; i < columnInhibitory; i++ {
		c.Inhibitory = append(c.Inhibitory, NewNeuron(ModeFastAdapting))
	}
	for i := 0; i < columnOutputs; i++ {
		c.OutputCells = append(c.OutputCells, NewNeuron(ModeDendritic))
	}
	return c
}

// Process runs one dt millisecond step of the micro-circuit. The
// visual drive is gated by how well the scene motion matches the
// column's preferred direction; a negligible motion vector falls back
// to half selectivity so stationary scenes still pass some drive.
func (c *Column) Process(visualDrive float64, motion Vec2, dt float64) float64 {
	if motion.Norm() > motionEpsilon {
		diff := angularDistance(motion.Angle(), c.PreferredDirection)
		c.Selectivity = gaussian(diff, selectivitySigma)
	} else {
		c.Selectivity = selectivityIdle
	}

	drive := visualDrive * visualGain * c.Selectivity
	excSpikes := make([]float64, len(c.Excitatory))
	for i, n := range c.Excitatory {
		excSpikes[i] = n.Integrate(dt, drive)
	}
	excRate := stat.Mean(excSpikes, nil)

	inhSpikes := make([]float64, len(c.Inhibitory))
	for i, n := range c.Inhibitory {
		inhSpikes[i] = n.Integrate(dt, excRate*interneuronGain)
	}
	inhRate := stat.Mean(inhSpikes, nil)

	outSpikes := make([]float64, len(c.OutputCells))
	net := excRate*outputExcitation - inhRate*outputInhibition
	for i, n := range c.OutputCells {
		outSpikes[i] = n.Integrate(dt, net)
	}
	c.Output = stat.Mean(outSpikes, nil)
	return c.Output
}

// SpikeOutputs returns the current spike outputs of every cell in the
// column, excitatory first.
func (c *Column) SpikeOutputs() []float64 {
	var out []float64
	for _, n := range c.Excitatory {
		out = append(out, n.SpikeOut)
	}
	for _, n := range c.Inhibitory {
		out = append(out, n.SpikeOut)
	}
	for _, n := range c.OutputCells {
		out = append(out, n.SpikeOut)
	}
	return out
}

// Neurons returns every cell in the column, excitatory first.
func (c *Column) Neurons() []*Neuron {
	var out []*Neuron
	out = append(out, c.Excitatory...)
	out = append(out, c.Inhibitory...)
	out = append(out, c.OutputCells...)
	return out
}

// Reset clears every cell in the column.
func (c *Column) Reset() {
	for _, n := range c.Neurons() {
		n.Reset()
	}
	c.Output = 0
	c.Selectivity = 1.0
}

// Tectum maps visual motion onto a movement command through a ring of
// direction-tuned columns laid out on a grid.
type Tectum struct {
	Columns []*Column

	Output            []float64
	DominantDirection float64
}

// NewTectum creates count columns with preferred directions spread
// evenly over the full circle.
func NewTectum(count int) *Tectum {
	t := &Tectum{Output: make([]float64, count)}
	for i := 0; i < count; i++ {
		pos := Vec2{
			X: float64(i%columnGridPerRow) * columnGridSpacing,
			Y: float64(i/columnGridPerRow) * columnGridSpacing,
		}
		preferred := float64(i) / float64(count) * 2 * math.Pi
		t.Columns = append(t.Columns, NewColumn(pos, preferred))
	}
	return t
}

// Process advances every column by one dt millisecond step. drive[i]
// is the visual input already routed to column i; the same aggregate
// motion vector gates all columns. The dominant direction updates only
// while at least one column is active, so brief quiet ticks keep the
// last decoded heading.
func (t *Tectum) Process(drive []float64, motion Vec2, dt float64) []float64 {
	total := 0.0
	for i, c := range t.Columns {
		d := 0.0
		if i < len(drive) {
			d = drive[i]
		}
		t.Output[i] = c.Process(d, motion, dt)
		total += t.Output[i]
	}

	if total > 0 {
		best := 0
		for i, v := range t.Output {
			if v > t.Output[best] {
				best = i
			}
		}
		t.DominantDirection = float64(best) / float64(len(t.Columns)) * 2 * math.Pi
	}
	return t.Output
}

// MovementCommand decodes the population activity into a velocity
// direction. A silent tectum yields no movement.
func (t *Tectum) MovementCommand() Vec2 {
	total := 0.0
	for _, v := range t.Output {
		total += v
	}
	if total == 0 {
		return Vec2{}
	}
	magnitude := total / float64(len(t.Columns))
	return Vec2{
		X: magnitude * math.Cos(t.DominantDirection),
		Y: magnitude * math.Sin(t.DominantDirection),
	}
}

// Reset clears every column and the decoded state.
func (t *Tectum) Reset() {
	for _, c := range t.Columns {
		c.Reset()
	}
	for i := range t.Output {
		t.Output[i] = 0
	}
	t.DominantDirection = 0
}
