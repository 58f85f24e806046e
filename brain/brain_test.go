package brain

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/pond/neural"
)

func testOptions(juvenile bool, duration int) Options {
	return Options{
		Width:            400,
		Height:           300,
		DT:               0.01,
		Columns:          16,
		Astrocytes:       4,
		RetinaSide:       10,
		FieldCellSize:    20,
		JuvenileMode:     juvenile,
		JuvenileDuration: duration,
	}
}

func TestJuvenileDopamineStaysElevated(t *testing.T) {
	b := New(testOptions(true, 5000), rand.New(rand.NewSource(1)))
	for i := 0; i < 100; i++ {
		snap := b.Update(nil, nil, 0)
		if snap.Dopamine < 0.85 || snap.Dopamine > 1.0 {
			t.Fatalf("tick %d: juvenile dopamine %v outside [0.85, 1.0]", i, snap.Dopamine)
		}
		if !snap.Juvenile {
			t.Fatalf("tick %d: left juvenile stage early", i)
		}
	}
}

func TestJuvenileTransitionBoundary(t *testing.T) {
	b := New(testOptions(true, 50), rand.New(rand.NewSource(1)))
	var last Snapshot
	for i := 0; i < 49; i++ {
		last = b.Update(nil, nil, 0)
	}
	if !last.Juvenile {
		t.Fatal("tick 49: should still be juvenile")
	}
	snap := b.Update(nil, nil, 0)
	if snap.Juvenile {
		t.Fatal("tick 50: juvenile stage should have ended")
	}
	if snap.Dopamine > 0.85 {
		t.Fatalf("adult dopamine baseline should drop, got %v", snap.Dopamine)
	}
	if snap.JuvenileProgress != 1.0 {
		t.Fatalf("adult progress = %v, want 1", snap.JuvenileProgress)
	}
}

func TestAdultBaselines(t *testing.T) {
	b := New(testOptions(false, 5000), rand.New(rand.NewSource(1)))
	snap := b.Update(nil, nil, 0)
	if snap.Juvenile {
		t.Fatal("adult brain reported juvenile")
	}
	if snap.Dopamine < 0.5 || snap.Dopamine > 0.7 {
		t.Fatalf("adult dopamine = %v, want near 0.5 baseline", snap.Dopamine)
	}
	if snap.Serotonin < 0.5 || snap.Serotonin > 0.6 {
		t.Fatalf("adult serotonin = %v", snap.Serotonin)
	}
}

func TestRewardReleasesDopamineIntoField(t *testing.T) {
	b := New(testOptions(false, 5000), rand.New(rand.NewSource(1)))
	center := neural.Vec2{X: 200, Y: 150}
	before := b.Field.Concentration(center, neural.Dopamine)
	snap := b.Update(nil, nil, 1.0)
	after := b.Field.Concentration(center, neural.Dopamine)
	if after <= before {
		t.Fatalf("reward should raise dopamine at the arena center: %v -> %v", before, after)
	}
	if snap.Reward != 1.0 {
		t.Fatalf("snapshot reward = %v", snap.Reward)
	}
	if snap.Dopamine <= 0.5 {
		t.Fatalf("reward should raise global dopamine above baseline, got %v", snap.Dopamine)
	}
}

func TestSnapshotVersionAndShape(t *testing.T) {
	b := New(testOptions(true, 5000), rand.New(rand.NewSource(1)))
	snap := b.Update(nil, nil, 0)
	if snap.Version != SnapshotVersion {
		t.Fatalf("snapshot version = %d, want %d", snap.Version, SnapshotVersion)
	}
	if snap.Step != 1 {
		t.Fatalf("step = %d", snap.Step)
	}
	if len(snap.MuscleActivation) != 12 {
		t.Fatalf("muscle vector length = %d", len(snap.MuscleActivation))
	}
	if snap.Excitability < 0.1 || snap.Excitability > 2.0 {
		t.Fatalf("excitability %v out of range", snap.Excitability)
	}
	if len(snap.VisualOutput) != 100 {
		t.Fatalf("visual output length = %d, want one entry per receptive field", len(snap.VisualOutput))
	}
}

func TestSynapsePoolInvariantsUnderLoad(t *testing.T) {
	b := New(testOptions(true, 5000), rand.New(rand.NewSource(3)))
	scene := []neural.Stimulus{{Pos: neural.Vec2{X: 220, Y: 140}, Brightness: 1.0}}
	motion := []neural.Vec2{{X: 80, Y: 60}}

	for i := 0; i < 300; i++ {
		b.Update(scene, motion, 0)
	}
	b.Arena.Each(func(_ int, s *neural.Synapse) {
		if s.Weight < s.MinWeight || s.Weight > s.MaxWeight {
			t.Fatalf("weight %v escaped [%v, %v]", s.Weight, s.MinWeight, s.MaxWeight)
		}
		if s.Efficacy < 0.1 || s.Efficacy > 2.0 {
			t.Fatalf("efficacy %v escaped [0.1, 2.0]", s.Efficacy)
		}
	})
}

func TestRelaySynapsesStartUniform(t *testing.T) {
	b := New(testOptions(true, 5000), rand.New(rand.NewSource(1)))
	for i, idx := range b.relay {
		if w := b.Arena.At(idx).Weight; math.Abs(w-0.5) > 1e-9 {
			t.Fatalf("relay synapse %d weight = %v, want uniform 0.5", i, w)
		}
	}
}

func TestBrainResetRestoresDevelopmentalClock(t *testing.T) {
	b := New(testOptions(true, 50), rand.New(rand.NewSource(1)))
	for i := 0; i < 80; i++ {
		b.Update(nil, nil, 0.5)
	}
	if b.Juvenile {
		t.Fatal("should be adult before reset")
	}
	b.Reset()
	if !b.Juvenile || b.JuvenileAge != 0 || b.Steps != 0 {
		t.Fatal("reset did not restart the developmental clock")
	}
	if b.Dopamine != 0.85 || b.Serotonin != 0.75 {
		t.Fatalf("reset modulators = %v/%v", b.Dopamine, b.Serotonin)
	}
	snap := b.Update(nil, nil, 0)
	if snap.Step != 1 || !snap.Juvenile {
		t.Fatal("first tick after reset should be juvenile step 1")
	}
}

func TestBrainResetRestoresSynapsePool(t *testing.T) {
	b := New(testOptions(true, 5000), rand.New(rand.NewSource(7)))
	birthMean := b.Arena.MeanWeight()

	scene := []neural.Stimulus{{Pos: neural.Vec2{X: 220, Y: 140}, Brightness: 1.0}}
	motion := []neural.Vec2{{X: 80, Y: 60}}
	var last Snapshot
	for i := 0; i < 400; i++ {
		last = b.Update(scene, motion, 0.5)
	}

	if last.ReinforcedSynapses == 0 {
		t.Fatal("load run should have reinforced synapses")
	}
	if b.Arena.MeanWeight() == birthMean {
		t.Fatal("load run should have moved the mean weight")
	}

	b.Reset()
	if got := b.Arena.MeanWeight(); got != birthMean {
		t.Fatalf("mean weight after reset = %v, want the at-birth %v", got, birthMean)
	}
	if b.Structural.Reinforced != 0 || b.Structural.Eliminated != 0 {
		t.Fatalf("structural counters after reset = %d/%d, want 0/0",
			b.Structural.Reinforced, b.Structural.Eliminated)
	}
	b.Arena.Each(func(i int, s *neural.Synapse) {
		if s.Efficacy != 1.0 {
			t.Fatalf("synapse %d efficacy after reset = %v, want 1", i, s.Efficacy)
		}
		if !math.IsNaN(s.PreSpikeTime) || !math.IsNaN(s.PostSpikeTime) {
			t.Fatalf("synapse %d kept spike times across reset", i)
		}
	})
}
