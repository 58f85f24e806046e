package neural

import "math"

// Vec2 is a plain 2D vector in arena coordinates.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Norm returns the Euclidean length of v.
func (v Vec2) Norm() float64 { return math.Hypot(v.X, v.Y) }

// Angle returns the direction of v in radians. Callers must guard
// near-zero vectors before relying on the result.
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// clamp limits x to [lo, hi].
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// clamp01 limits x to [0, 1].
func clamp01(x float64) float64 {
	return clamp(x, 0, 1)
}

// expDecay returns the decay factor exp(-dt/tau). A non-positive tau
// would blow up the exponential, so it degrades to full decay instead.
func expDecay(dt, tau float64) float64 {
	if tau <= 0 {
		return 0
	}
	return math.Exp(-dt / tau)
}

// angularDistance returns the wrapped shortest-path distance between two
// angles, in [0, pi].
func angularDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	d = math.Mod(d, 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

// gaussian returns exp(-x^2 / (2 sigma^2)).
func gaussian(x, sigma float64) float64 {
	return math.Exp(-(x * x) / (2 * sigma * sigma))
}
