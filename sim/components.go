// Package sim runs the pond arena: one hunting agent and a population
// of flies, stepped together with the brain on a fixed timestep.
package sim

// Position is an entity's world position.
type Position struct {
	X, Y float64
}

// Velocity is an entity's velocity in units per second.
type Velocity struct {
	X, Y float64
}

// Fly marks a fly entity and tracks its catch/respawn cycle.
type Fly struct {
	Caught   bool
	CaughtAt int // tick the fly was caught, for respawn scheduling
}
