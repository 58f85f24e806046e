package sim

import (
	"math/rand"

	"github.com/pthm-cable/pond/brain"
	"github.com/pthm-cable/pond/config"
	"github.com/pthm-cable/pond/neural"
)

// Target describes a fly as the agent perceives it.
type Target struct {
	Index      int // fly slot in the world
	Pos        neural.Vec2
	Distance   float64
	Brightness float64
}

// Agent is the hunting organism: a body in the arena driven by the
// brain, with a tongue state machine and an energy reserve.
type Agent struct {
	Pos   neural.Vec2
	Vel   neural.Vec2
	Brain *brain.Brain

	Energy      float64
	CaughtFlies int
	Strikes     int
	Steps       int

	TongueExtended bool
	TongueLength   float64
	TongueTarget   neural.Vec2

	visualRange   float64
	tongueSpeed   float64
	tongueMax     float64
	hitRadius     float64
	successProb   float64
	catchCooldown int
	lastCatchTick int

	pendingReward float64

	rng *rand.Rand
}

// NewAgent places an agent at a position with hunting parameters from
// the config. Training and instinct regimes use the strict strike
// parameters so the brain has to earn its catches.
func NewAgent(pos neural.Vec2, b *brain.Brain, cfg *config.Config, rng *rand.Rand) *Agent {
	a := &Agent{
		Pos:           pos,
		Brain:         b,
		Energy:        1.0,
		visualRange:   cfg.Hunting.VisualRange,
		tongueSpeed:   cfg.Hunting.TongueSpeed,
		tongueMax:     cfg.Hunting.TongueLength,
		catchCooldown: cfg.Hunting.CatchCooldown,
		lastCatchTick: -cfg.Hunting.CatchCooldown,
		rng:           rng,
	}
	if cfg.Hunting.TrainingMode || cfg.Hunting.InstinctMode {
		a.hitRadius = 25.0
		a.successProb = 0.25
	} else {
		a.hitRadius = 80.0
		a.successProb = 0.8
	}
	return a
}

// DetectFlies returns the in-range flies as perceived targets, sorted
// by nothing in particular. Brightness falls off linearly with
// distance.
func (a *Agent) DetectFlies(flies []neural.Vec2) []Target {
	var targets []Target
	for i, pos := range flies {
		d := pos.Sub(a.Pos).Norm()
		if d < a.visualRange {
			targets = append(targets, Target{
				Index:      i,
				Pos:        pos,
				Distance:   d,
				Brightness: 1.0 - d/a.visualRange,
			})
		}
	}
	return targets
}

// Update runs one agent tick: perceive, think, move, and work the
// tongue. It returns the brain snapshot and the index of the fly
// caught this tick, or -1.
func (a *Agent) Update(dt float64, flies []neural.Vec2) (brain.Snapshot, int) {
	a.Steps++

	targets := a.DetectFlies(flies)
	scene := make([]neural.Stimulus, len(targets))
	motions := make([]neural.Vec2, len(targets))
	for i, t := range targets {
		scene[i] = neural.Stimulus{Pos: t.Pos, Brightness: t.Brightness}
		motions[i] = t.Pos.Sub(a.Pos)
	}

	reward := a.pendingReward
	a.pendingReward = 0
	if reward > 0 {
		a.Energy = minf(1.0, a.Energy+0.5)
	}
	a.Energy = maxf(0, a.Energy-0.0001*dt)

	snap := a.Brain.Update(scene, motions, reward)

	// Movement scale matches the arena: the decoded command is a small
	// population average.
	a.Vel = snap.Velocity.Scale(100.0)

	caught := a.updateTongue(dt, targets)
	if caught >= 0 {
		a.CaughtFlies++
		a.lastCatchTick = a.Steps
		a.pendingReward = 1.0
	}
	return snap, caught
}

// updateTongue advances the tongue state machine and returns the index
// of a caught fly, or -1.
func (a *Agent) updateTongue(dt float64, targets []Target) int {
	if !a.TongueExtended {
		if nearest := nearestTarget(targets); nearest != nil &&
			a.Brain.Motor.ShouldStrike(nearest.Pos, a.Pos) {
			a.TongueExtended = true
			a.TongueTarget = nearest.Pos
			a.TongueLength = 0
			a.Strikes++
		}
		return -1
	}

	dir := a.TongueTarget.Sub(a.Pos)
	dist := dir.Norm()
	if dist > 0 {
		dir = dir.Scale(1.0 / dist)
	}

	a.TongueLength += a.tongueSpeed * dt
	if a.TongueLength >= a.tongueMax || dist < a.TongueLength {
		a.retractTongue()
		return -1
	}

	if a.Steps-a.lastCatchTick <= a.catchCooldown {
		return -1
	}

	tip := a.Pos.Add(dir.Scale(a.TongueLength))
	for _, t := range targets {
		if t.Pos.Sub(tip).Norm() < a.hitRadius {
			if a.rng.Float64() < a.successProb {
				a.retractTongue()
				return t.Index
			}
		}
	}
	return -1
}

func (a *Agent) retractTongue() {
	a.TongueExtended = false
	a.TongueLength = 0
}

func nearestTarget(targets []Target) *Target {
	var best *Target
	for i := range targets {
		if best == nil || targets[i].Distance < best.Distance {
			best = &targets[i]
		}
	}
	return best
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
