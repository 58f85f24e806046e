package sim

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/pond/brain"
	"github.com/pthm-cable/pond/config"
	"github.com/pthm-cable/pond/neural"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

func testAgent(t *testing.T, cfg *config.Config, seed int64) *Agent {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
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
	pos := neural.Vec2{X: cfg.Arena.Width / 2, Y: cfg.Arena.Height / 2}
	return NewAgent(pos, b, cfg, rng)
}

func TestDetectFliesRangeAndBrightness(t *testing.T) {
	cfg := testConfig(t)
	a := testAgent(t, cfg, 1)

	flies := []neural.Vec2{
		a.Pos.Add(neural.Vec2{X: 100}),  // in range
		a.Pos.Add(neural.Vec2{X: 500}),  // beyond visual range
		a.Pos.Add(neural.Vec2{Y: -150}), // in range
	}
	targets := a.DetectFlies(flies)
	if len(targets) != 2 {
		t.Fatalf("targets = %d, want 2", len(targets))
	}
	if targets[0].Index != 0 || targets[1].Index != 2 {
		t.Errorf("target indices = %d, %d; want 0, 2", targets[0].Index, targets[1].Index)
	}
	// Brightness falls off linearly with distance.
	want := 1.0 - 100.0/cfg.Hunting.VisualRange
	if diff := targets[0].Brightness - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("brightness = %g, want %g", targets[0].Brightness, want)
	}
	if targets[0].Brightness <= targets[1].Brightness {
		t.Errorf("nearer fly should be brighter: %g vs %g",
			targets[0].Brightness, targets[1].Brightness)
	}
}

func TestTongueExtendsOnlyInStrikeBand(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name     string
		distance float64
		extends  bool
	}{
		{"too close", 5, false},
		{"in band", 100, true},
		{"too far", 160, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testAgent(t, cfg, 2)
			targets := []Target{{
				Index:    0,
				Pos:      a.Pos.Add(neural.Vec2{X: tt.distance}),
				Distance: tt.distance,
			}}
			a.updateTongue(cfg.Physics.DT, targets)
			if a.TongueExtended != tt.extends {
				t.Errorf("extended = %v, want %v", a.TongueExtended, tt.extends)
			}
			wantStrikes := 0
			if tt.extends {
				wantStrikes = 1
			}
			if a.Strikes != wantStrikes {
				t.Errorf("strikes = %d, want %d", a.Strikes, wantStrikes)
			}
		})
	}
}

func TestCatchRewardsNextTick(t *testing.T) {
	cfg := testConfig(t)
	a := testAgent(t, cfg, 3)
	a.successProb = 1.0

	fly := []neural.Vec2{a.Pos.Add(neural.Vec2{X: 100})}

	caughtAt := -1
	for i := 0; i < 100; i++ {
		_, caught := a.Update(cfg.Physics.DT, fly)
		if caught == 0 {
			caughtAt = i
			break
		}
	}
	if caughtAt < 0 {
		t.Fatal("agent never caught a fly within strike range")
	}
	if a.CaughtFlies != 1 {
		t.Errorf("caught flies = %d, want 1", a.CaughtFlies)
	}
	if a.Strikes < 1 {
		t.Errorf("strikes = %d, want at least 1", a.Strikes)
	}
	if a.TongueExtended {
		t.Error("tongue should retract on a catch")
	}
	if a.pendingReward != 1.0 {
		t.Fatalf("pending reward = %g, want 1.0", a.pendingReward)
	}

	// The reward is consumed on the following tick: it reaches the
	// brain and refills energy.
	snap, _ := a.Update(cfg.Physics.DT, nil)
	if snap.Reward != 1.0 {
		t.Errorf("snapshot reward = %g, want 1.0", snap.Reward)
	}
	if a.pendingReward != 0 {
		t.Errorf("pending reward = %g after consumption, want 0", a.pendingReward)
	}
	if a.Energy < 0.99 {
		t.Errorf("energy = %g after catch, want near full", a.Energy)
	}
}

func TestCatchCooldownBlocksImmediateRecatch(t *testing.T) {
	cfg := testConfig(t)
	a := testAgent(t, cfg, 4)
	a.successProb = 1.0
	a.Steps = 100
	a.lastCatchTick = 100 // just caught

	a.TongueExtended = true
	a.TongueTarget = a.Pos.Add(neural.Vec2{X: 100})
	a.TongueLength = 90

	targets := []Target{{
		Index:    0,
		Pos:      a.TongueTarget,
		Distance: 100,
	}}
	if caught := a.updateTongue(cfg.Physics.DT, targets); caught != -1 {
		t.Fatalf("caught fly %d during cooldown, want none", caught)
	}

	a.Steps = 100 + cfg.Hunting.CatchCooldown + 1
	if caught := a.updateTongue(cfg.Physics.DT, targets); caught != 0 {
		t.Fatalf("caught = %d after cooldown, want 0", caught)
	}
}

func TestEnergyDrainsWithoutFood(t *testing.T) {
	cfg := testConfig(t)
	a := testAgent(t, cfg, 5)

	start := a.Energy
	for i := 0; i < 200; i++ {
		a.Update(cfg.Physics.DT, nil)
	}
	if a.Energy >= start {
		t.Errorf("energy = %g after fasting, want below %g", a.Energy, start)
	}
	if a.Energy < 0 {
		t.Errorf("energy = %g, want non-negative", a.Energy)
	}
}
