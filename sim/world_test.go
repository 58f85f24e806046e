package sim

import (
	"math/rand"
	"testing"
)

func testWorld(t *testing.T, seed int64) *World {
	t.Helper()
	cfg := testConfig(t)
	return NewWorld(cfg, rand.New(rand.NewSource(seed)))
}

func TestWorldSpawnsConfiguredFlies(t *testing.T) {
	w := testWorld(t, 1)
	if len(w.flies) != w.cfg.Flies.Count {
		t.Fatalf("flies = %d, want %d", len(w.flies), w.cfg.Flies.Count)
	}
	for i, e := range w.flies {
		pos, vel, fly := w.flyMapper.Get(e)
		if pos.X < 0 || pos.X > w.width || pos.Y < 0 || pos.Y > w.height {
			t.Errorf("fly %d spawned out of bounds at (%g, %g)", i, pos.X, pos.Y)
		}
		max := w.cfg.Flies.MaxSpeed
		if vel.X < -max || vel.X > max || vel.Y < -max || vel.Y > max {
			t.Errorf("fly %d velocity (%g, %g) exceeds max %g", i, vel.X, vel.Y, max)
		}
		if fly.Caught {
			t.Errorf("fly %d spawned caught", i)
		}
	}
}

func TestWorldStepKeepsEverythingInBounds(t *testing.T) {
	w := testWorld(t, 2)

	for i := 0; i < 200; i++ {
		snap := w.Step()
		if len(snap.MuscleActivation) != 12 {
			t.Fatalf("muscle activation has %d entries, want 12", len(snap.MuscleActivation))
		}
	}
	if w.Tick != 200 {
		t.Fatalf("tick = %d, want 200", w.Tick)
	}

	a := w.Agent
	if a.Pos.X < 0 || a.Pos.X > w.width || a.Pos.Y < 0 || a.Pos.Y > w.height {
		t.Errorf("agent out of bounds at (%g, %g)", a.Pos.X, a.Pos.Y)
	}
	for _, fs := range w.FlyStates() {
		if fs.Pos.X < 0 || fs.Pos.X > w.width || fs.Pos.Y < 0 || fs.Pos.Y > w.height {
			t.Errorf("fly out of bounds at (%g, %g)", fs.Pos.X, fs.Pos.Y)
		}
	}
}

func TestCaughtFlyRespawns(t *testing.T) {
	w := testWorld(t, 3)

	_, _, fly := w.flyMapper.Get(w.flies[0])
	fly.Caught = true
	fly.CaughtAt = w.Tick

	// Caught flies are invisible to the agent.
	pos, _ := w.liveFlies()
	if len(pos) != w.cfg.Flies.Count-1 {
		t.Fatalf("live flies = %d, want %d", len(pos), w.cfg.Flies.Count-1)
	}

	for i := 0; i <= w.cfg.Flies.RespawnInterval; i++ {
		w.Step()
	}

	_, _, fly = w.flyMapper.Get(w.flies[0])
	if fly.Caught {
		t.Fatal("fly still caught after the respawn interval")
	}
	pos, idx := w.liveFlies()
	found := false
	for _, i := range idx {
		if i == 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("respawned fly missing from %d live flies", len(pos))
	}
}

func TestStatisticsSummarizeRun(t *testing.T) {
	w := testWorld(t, 4)
	for i := 0; i < 100; i++ {
		w.Step()
	}

	s := w.Statistics()
	if s.TotalSteps != 100 {
		t.Errorf("total steps = %d, want 100", s.TotalSteps)
	}
	if s.FinalEnergy <= 0 || s.FinalEnergy > 1 {
		t.Errorf("final energy = %g, want in (0, 1]", s.FinalEnergy)
	}
	if s.AverageDopamine <= 0 {
		t.Errorf("average dopamine = %g, want positive", s.AverageDopamine)
	}
	if !s.Juvenile {
		t.Error("run shorter than the juvenile period should still report juvenile")
	}
	if s.Strikes == 0 && s.SuccessRate != 0 {
		t.Errorf("success rate = %g with no strikes, want 0", s.SuccessRate)
	}
	if s.CaughtFlies > s.Strikes {
		t.Errorf("caught %d flies with only %d strikes", s.CaughtFlies, s.Strikes)
	}
}
