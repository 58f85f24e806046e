package neural

import "math"

// Transmitter identifies a diffusing neuromodulator species.
type Transmitter int

const (
	Dopamine Transmitter = iota
	Serotonin
	Acetylcholine
	transmitterCount
)

func (t Transmitter) String() string {
	switch t {
	case Dopamine:
		return "dopamine"
	case Serotonin:
		return "serotonin"
	case Acetylcholine:
		return "acetylcholine"
	}
	return "unknown"
}

// Baseline returns the resting concentration the field relaxes toward.
func (t Transmitter) Baseline() float64 {
	if t == Acetylcholine {
		return 0.2
	}
	return 0.3
}

const fieldDecayTau = 500.0 // ms

// Field models spatial diffusion of neuromodulators over a coarse grid
// covering the brain area. Point releases spread to neighboring cells
// through a Gaussian kernel while every cell relaxes toward its
// species baseline.
type Field struct {
	Width, Height float64 // world units
	CellSize      float64
	GridW, GridH  int

	// Diffuse spreads through the kernel only when enabled; otherwise
	// releases stay put and just decay in place.
	DiffusionEnabled bool

	maps   [transmitterCount][]float64
	kernel [3][3]float64
}

// NewField creates a diffusion field over a width by height area with
// square cells of the given size. Concentrations start at baseline.
func NewField(width, height, cellSize float64) *Field {
	gw := int(width / cellSize)
	gh := int(height / cellSize)
	if gw < 1 {
		gw = 1
	}
	if gh < 1 {
		gh = 1
	}

	f := &Field{
		Width:            width,
		Height:           height,
		CellSize:         cellSize,
		GridW:            gw,
		GridH:            gh,
		DiffusionEnabled: true,
	}
	for t := Transmitter(0); t < transmitterCount; t++ {
		f.maps[t] = make([]float64, gw*gh)
	}
	f.Reset()

	// 3x3 Gaussian, sigma 1. Normalized here and renormalized over
	// in-bounds cells during convolution so diffusion conserves mass
	// at the boundary too.
	const sigma = 1.0
	sum := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			x := float64(i - 1)
			y := float64(j - 1)
			f.kernel[i][j] = math.Exp(-(x*x + y*y) / (2 * sigma * sigma))
			sum += f.kernel[i][j]
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			f.kernel[i][j] /= sum
		}
	}
	return f
}

func (f *Field) cellIndex(pos Vec2) int {
	x := int(pos.X / f.Width * float64(f.GridW))
	y := int(pos.Y / f.Height * float64(f.GridH))
	if x < 0 {
		x = 0
	}
	if x >= f.GridW {
		x = f.GridW - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= f.GridH {
		y = f.GridH - 1
	}
	return y*f.GridW + x
}

// Release injects amount of a transmitter at a world position. The
// cell concentration saturates at 1.0.
func (f *Field) Release(pos Vec2, amount float64, t Transmitter) {
	i := f.cellIndex(pos)
	f.maps[t][i] = math.Min(1.0, f.maps[t][i]+amount)
}

// Diffuse advances every concentration map by dt milliseconds: a
// Gaussian spread across neighbors followed by exponential relaxation
// toward the species baseline. Cells stay clamped to [0, 1].
func (f *Field) Diffuse(dt float64) {
	decay := expDecay(dt, fieldDecayTau)
	for t := Transmitter(0); t < transmitterCount; t++ {
		m := f.maps[t]
		spread := m
		if f.DiffusionEnabled {
			spread = f.convolve(m)
		}
		baseline := t.Baseline()
		for i := range m {
			m[i] = clamp01(baseline + (spread[i]-baseline)*decay)
		}
	}
}

// convolve applies the 3x3 kernel, renormalizing over in-bounds cells
// so edge cells do not bleed mass out of the grid.
func (f *Field) convolve(m []float64) []float64 {
	out := make([]float64, len(m))
	for y := 0; y < f.GridH; y++ {
		for x := 0; x < f.GridW; x++ {
			acc := 0.0
			weight := 0.0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= f.GridW || ny < 0 || ny >= f.GridH {
						continue
					}
					acc += m[ny*f.GridW+nx] * f.kernel[dy+1][dx+1]
					weight += f.kernel[dy+1][dx+1]
				}
			}
			out[y*f.GridW+x] = acc / weight
		}
	}
	return out
}

// Concentration samples a transmitter at a world position.
func (f *Field) Concentration(pos Vec2, t Transmitter) float64 {
	return f.maps[t][f.cellIndex(pos)]
}

// Concentrations samples all three transmitters at a world position.
func (f *Field) Concentrations(pos Vec2) (dopamine, serotonin, acetylcholine float64) {
	i := f.cellIndex(pos)
	return f.maps[Dopamine][i], f.maps[Serotonin][i], f.maps[Acetylcholine][i]
}

// Mean returns the average concentration of a transmitter over the
// whole grid.
func (f *Field) Mean(t Transmitter) float64 {
	sum := 0.0
	for _, v := range f.maps[t] {
		sum += v
	}
	return sum / float64(len(f.maps[t]))
}

// Reset fills every map with its species baseline.
func (f *Field) Reset() {
	for t := Transmitter(0); t < transmitterCount; t++ {
		baseline := t.Baseline()
		for i := range f.maps[t] {
			f.maps[t][i] = baseline
		}
	}
}
