package sim

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/pond/brain"
	"github.com/pthm-cable/pond/config"
	"github.com/pthm-cable/pond/neural"
)

// World owns the ECS arena: the agent, the fly population, and the
// per-tick stepping order.
type World struct {
	Agent *Agent
	Tick  int

	// LastSnapshot is the brain state from the most recent step, read
	// by the renderer and telemetry.
	LastSnapshot brain.Snapshot

	world     *ecs.World
	rng       *rand.Rand
	cfg       *config.Config
	flyMapper *ecs.Map3[Position, Velocity, Fly]
	flyFilter *ecs.Filter3[Position, Velocity, Fly]
	flies     []ecs.Entity

	width, height, dt float64
}

// NewWorld builds the arena from the config: brain, agent at the
// center, and the initial fly population scattered uniformly.
func NewWorld(cfg *config.Config, rng *rand.Rand) *World {
	world := ecs.NewWorld()

	w := &World{
		world:     world,
		rng:       rng,
		cfg:       cfg,
		flyMapper: ecs.NewMap3[Position, Velocity, Fly](world),
		flyFilter: ecs.NewFilter3[Position, Velocity, Fly](world),
		width:     cfg.Arena.Width,
		height:    cfg.Arena.Height,
		dt:        cfg.Physics.DT,
	}

	b := brain.New(brain.Options{
		Width:            cfg.Arena.Width,
		Height:           cfg.Arena.Height,
		DT:               cfg.Physics.DT,
		Columns:          cfg.Brain.TectumColumns,
		Astrocytes:       cfg.Brain.Astrocytes,
		RetinaSide:       cfg.Brain.RetinaFields,
		FieldCellSize:    cfg.Brain.FieldCellSize,
		JuvenileMode:     cfg.Brain.JuvenileMode,
		JuvenileDuration: cfg.Brain.JuvenileDuration,
	}, rng)

	center := neural.Vec2{X: cfg.Arena.Width / 2, Y: cfg.Arena.Height / 2}
	w.Agent = NewAgent(center, b, cfg, rng)

	for i := 0; i < cfg.Flies.Count; i++ {
		w.spawnFly()
	}
	return w
}

func (w *World) spawnFly() {
	pos := Position{
		X: w.rng.Float64() * w.width,
		Y: w.rng.Float64() * w.height,
	}
	vel := w.randomVelocity()
	fly := Fly{}
	w.flies = append(w.flies, w.flyMapper.NewEntity(&pos, &vel, &fly))
}

func (w *World) randomVelocity() Velocity {
	max := w.cfg.Flies.MaxSpeed
	return Velocity{
		X: (w.rng.Float64()*2 - 1) * max,
		Y: (w.rng.Float64()*2 - 1) * max,
	}
}

// Step advances the world one tick: the agent perceives and acts, a
// caught fly is marked, the agent body moves, and the flies wander.
func (w *World) Step() brain.Snapshot {
	w.Tick++

	livePos, liveIdx := w.liveFlies()
	snap, caught := w.Agent.Update(w.dt, livePos)
	w.LastSnapshot = snap

	if caught >= 0 && caught < len(liveIdx) {
		_, _, fly := w.flyMapper.Get(w.flies[liveIdx[caught]])
		fly.Caught = true
		fly.CaughtAt = w.Tick
	}

	w.moveAgent()
	w.updateFlies()
	return snap
}

// liveFlies returns the positions of uncaught flies along with their
// slots in the fly list, so a catch index maps back to an entity.
func (w *World) liveFlies() ([]neural.Vec2, []int) {
	var pos []neural.Vec2
	var idx []int
	for i, e := range w.flies {
		p, _, fly := w.flyMapper.Get(e)
		if fly.Caught {
			continue
		}
		pos = append(pos, neural.Vec2{X: p.X, Y: p.Y})
		idx = append(idx, i)
	}
	return pos, idx
}

func (w *World) moveAgent() {
	a := w.Agent
	a.Pos = a.Pos.Add(a.Vel.Scale(w.dt))
	a.Pos.X = clampf(a.Pos.X, 0, w.width)
	a.Pos.Y = clampf(a.Pos.Y, 0, w.height)
}

// updateFlies wanders every live fly and respawns caught ones once
// their respawn interval has passed.
func (w *World) updateFlies() {
	query := w.flyFilter.Query()
	for query.Next() {
		pos, vel, fly := query.Get()

		if fly.Caught {
			if w.Tick-fly.CaughtAt >= w.cfg.Flies.RespawnInterval {
				pos.X = w.rng.Float64() * w.width
				pos.Y = w.rng.Float64() * w.height
				*vel = w.randomVelocity()
				fly.Caught = false
			}
			continue
		}

		if w.rng.Float64() < w.cfg.Flies.RekickChance {
			*vel = w.randomVelocity()
		}

		pos.X += vel.X * w.dt
		pos.Y += vel.Y * w.dt

		if pos.X < 0 || pos.X > w.width {
			vel.X = -vel.X
			pos.X = clampf(pos.X, 0, w.width)
		}
		if pos.Y < 0 || pos.Y > w.height {
			vel.Y = -vel.Y
			pos.Y = clampf(pos.Y, 0, w.height)
		}
	}
}

// FlyStates returns the position and caught flag of every fly, for
// rendering.
func (w *World) FlyStates() []struct {
	Pos    neural.Vec2
	Caught bool
} {
	out := make([]struct {
		Pos    neural.Vec2
		Caught bool
	}, 0, len(w.flies))
	for _, e := range w.flies {
		p, _, fly := w.flyMapper.Get(e)
		out = append(out, struct {
			Pos    neural.Vec2
			Caught bool
		}{neural.Vec2{X: p.X, Y: p.Y}, fly.Caught})
	}
	return out
}

func clampf(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
