package neural

import (
	"math"
	"testing"
)

func TestExecuteDrivesMusclesForStrongCommand(t *testing.T) {
	m := NewMotorHierarchy()
	command := Vec2{X: 0.0625, Y: 0} // matches executive 0 exactly
	proprio := make([]float64, 12)

	active := false
	for i := 0; i < 100; i++ {
		for _, v := range m.Execute(command, proprio, 10.0) {
			if v > 0 {
				active = true
			}
		}
	}
	if !active {
		t.Fatal("sustained command never activated any muscle")
	}
}

func TestExecuteIgnoresNegligibleCommand(t *testing.T) {
	m := NewMotorHierarchy()
	proprio := make([]float64, 12)
	for i := 0; i < 100; i++ {
		for j, v := range m.Execute(Vec2{X: 0.001, Y: 0.001}, proprio, 10.0) {
			if v > 0 {
				t.Fatalf("muscle %d active on negligible command at step %d", j, i)
			}
		}
	}
}

func TestProprioceptiveFeedbackInhibits(t *testing.T) {
	command := Vec2{X: 0.0625, Y: 0}

	free := NewMotorHierarchy()
	damped := NewMotorHierarchy()
	noFeedback := make([]float64, 12)
	feedback := make([]float64, 12)
	for i := range feedback {
		feedback[i] = 10.0
	}

	freeTotal, dampedTotal := 0.0, 0.0
	for i := 0; i < 100; i++ {
		for _, v := range free.Execute(command, noFeedback, 10.0) {
			freeTotal += v
		}
		for _, v := range damped.Execute(command, feedback, 10.0) {
			dampedTotal += v
		}
	}
	if freeTotal == 0 {
		t.Fatal("undamped hierarchy never fired")
	}
	if dampedTotal >= freeTotal {
		t.Fatalf("feedback should suppress activation: free=%v damped=%v", freeTotal, dampedTotal)
	}
}

func TestExecuteToleratesShortProprioVector(t *testing.T) {
	m := NewMotorHierarchy()
	// Feedback for only 3 of 12 effectors; the rest default to zero.
	m.Execute(Vec2{X: 0.0625, Y: 0}, []float64{1, 1, 1}, 10.0)
}

func TestShouldStrikeBand(t *testing.T) {
	m := NewMotorHierarchy()
	cur := Vec2{X: 100, Y: 100}
	cases := []struct {
		name   string
		target Vec2
		want   bool
	}{
		{"too close", Vec2{X: 105, Y: 100}, false},
		{"in range", Vec2{X: 180, Y: 100}, true},
		{"too far", Vec2{X: 300, Y: 100}, false},
		{"lower edge", Vec2{X: 110, Y: 100}, false},
		{"upper edge", Vec2{X: 250, Y: 100}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.ShouldStrike(tc.target, cur); got != tc.want {
				t.Fatalf("ShouldStrike(%+v) = %v, want %v", tc.target, got, tc.want)
			}
		})
	}
}

func TestMotorResetSilences(t *testing.T) {
	m := NewMotorHierarchy()
	proprio := make([]float64, 12)
	for i := 0; i < 50; i++ {
		m.Execute(Vec2{X: 0.0625, Y: 0}, proprio, 10.0)
	}
	m.Reset()
	for i, v := range m.MuscleActivation {
		if v != 0 {
			t.Fatalf("muscle %d = %v after reset", i, v)
		}
	}
	if m.CurrentCommand.Norm() != 0 {
		t.Fatalf("command %+v survived reset", m.CurrentCommand)
	}
	if math.Abs(m.Executive[0].Potential-m.Executive[0].RestPotential) > eps {
		t.Fatal("executive potential survived reset")
	}
}
