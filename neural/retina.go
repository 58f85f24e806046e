package neural

// Stimulus is a point light source in the visual field.
type Stimulus struct {
	Pos        Vec2
	Brightness float64
}

// FilterType splits receptive fields into ON-center cells that fire
// for light in the center and OFF-center cells that fire for darkness.
type FilterType int

const (
	OnCenter FilterType = iota
	OffCenter
)

// retinaDriveGain scales the normalized center-surround response into
// a somatic current strong enough to reach spike threshold for
// well-centered stimuli.
const retinaDriveGain = 40.0

// ReceptiveField is a center-surround filter feeding a single spiking
// cell.
type ReceptiveField struct {
	Position     Vec2
	CenterSize   float64
	SurroundSize float64
	Type         FilterType

	Cell   *Neuron
	Output float64
}

// NewReceptiveField creates a field at a retinal position.
func NewReceptiveField(pos Vec2, ft FilterType) *ReceptiveField {
	return &ReceptiveField{
		Position:     pos,
		CenterSize:   10.0,
		SurroundSize: 30.0,
		Type:         ft,
		Cell:         NewNeuron(ModeBasic),
	}
}

// response is the normalized center-surround difference for a stimulus
// at distance d, clamped to [0, 1].
func (r *ReceptiveField) response(d float64) float64 {
	center := gaussian(d, r.CenterSize)
	surround := gaussian(d, r.SurroundSize)
	var diff float64
	if r.Type == OnCenter {
		diff = center - 0.3*surround
	} else {
		diff = surround - 0.3*center
	}
	return clamp01(diff)
}

// Process aggregates the brightness-weighted response over the whole
// scene into one somatic drive, integrates the cell once, and returns
// its spike output.
func (r *ReceptiveField) Process(scene []Stimulus, dt float64) float64 {
	drive := 0.0
	for _, s := range scene {
		d := s.Pos.Sub(r.Position).Norm()
		drive += s.Brightness * r.response(d)
	}
	r.Output = r.Cell.Integrate(dt, drive*retinaDriveGain)
	return r.Output
}

// Retina tiles the visual field with an alternating checkerboard of ON
// and OFF center-surround cells.
type Retina struct {
	Width, Height float64
	Side          int // fields per side

	Fields []*ReceptiveField
	Output []float64
}

// NewRetina creates a side x side retina covering a width by height
// visual field.
func NewRetina(width, height float64, side int) *Retina {
	r := &Retina{
		Width:  width,
		Height: height,
		Side:   side,
		Output: make([]float64, side*side),
	}
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			pos := Vec2{
				X: (float64(i) + 0.5) * width / float64(side),
				Y: (float64(j) + 0.5) * height / float64(side),
			}
			ft := OnCenter
			if (i+j)%2 == 1 {
				ft = OffCenter
			}
			r.Fields = append(r.Fields, NewReceptiveField(pos, ft))
		}
	}
	return r
}

// Process runs every receptive field against the scene for one dt
// millisecond step and returns the spike vector.
func (r *Retina) Process(scene []Stimulus, dt float64) []float64 {
	for i, f := range r.Fields {
		r.Output[i] = f.Process(scene, dt)
	}
	return r.Output
}

// AttentionMap returns the retinal output as a side x side map,
// clamped to [0, 1] and softened with two separable blur passes.
func (r *Retina) AttentionMap() [][]float64 {
	m := make([][]float64, r.Side)
	for i := range m {
		m[i] = make([]float64, r.Side)
		for j := range m[i] {
			m[i][j] = clamp01(r.Output[i*r.Side+j])
		}
	}
	for pass := 0; pass < 2; pass++ {
		m = blurRows(m)
		m = blurCols(m)
	}
	return m
}

func blurRows(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		for j := range row {
			v := 0.5 * row[j]
			if j > 0 {
				v += 0.25 * row[j-1]
			}
			if j < len(row)-1 {
				v += 0.25 * row[j+1]
			}
			out[i][j] = v
		}
	}
	return out
}

func blurCols(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i := range m {
		out[i] = make([]float64, len(m[i]))
		for j := range m[i] {
			v := 0.5 * m[i][j]
			if i > 0 {
				v += 0.25 * m[i-1][j]
			}
			if i < len(m)-1 {
				v += 0.25 * m[i+1][j]
			}
			out[i][j] = v
		}
	}
	return out
}

// Reset clears every cell and the output vector.
func (r *Retina) Reset() {
	for _, f := range r.Fields {
		f.Cell.Reset()
		f.Output = 0
	}
	for i := range r.Output {
		r.Output[i] = 0
	}
}
