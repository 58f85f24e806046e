// Package renderer draws the arena, the agent, and a brain HUD with
// raylib. Headless runs never touch this package.
package renderer

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pond/brain"
	"github.com/pthm-cable/pond/config"
	"github.com/pthm-cable/pond/sim"
)

const (
	agentRadius = 12
	flyRadius   = 4
	hudHeight   = 96
)

// Controls holds the interactive state the HUD edits each frame.
type Controls struct {
	Paused bool
	Speed  int // simulation ticks per frame
}

// Renderer draws the world into the raylib window.
type Renderer struct {
	screenW, screenH int32
	scaleX, scaleY   float32
	visualRange      float32
}

// New creates a renderer for the configured screen and arena sizes.
// The arena is mapped onto the screen area below the HUD strip.
func New(cfg *config.Config) *Renderer {
	w := int32(cfg.Screen.Width)
	h := int32(cfg.Screen.Height)
	return &Renderer{
		screenW:     w,
		screenH:     h,
		scaleX:      float32(w) / float32(cfg.Arena.Width),
		scaleY:      float32(h-hudHeight) / float32(cfg.Arena.Height),
		visualRange: float32(cfg.Hunting.VisualRange),
	}
}

// Draw renders one frame and returns the controls as edited by the
// HUD widgets.
func (r *Renderer) Draw(w *sim.World, snap brain.Snapshot, ctl Controls) Controls {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 18, G: 24, B: 32, A: 255})

	r.drawArena(w, snap)
	ctl = r.drawHUD(w, snap, ctl)

	rl.EndDrawing()
	return ctl
}

func (r *Renderer) toScreen(x, y float64) (int32, int32) {
	return int32(float32(x) * r.scaleX), hudHeight + int32(float32(y)*r.scaleY)
}

func (r *Renderer) drawArena(w *sim.World, snap brain.Snapshot) {
	rl.DrawRectangleLines(0, hudHeight, r.screenW, r.screenH-hudHeight,
		rl.Color{R: 60, G: 80, B: 100, A: 255})

	for _, fs := range w.FlyStates() {
		x, y := r.toScreen(fs.Pos.X, fs.Pos.Y)
		if fs.Caught {
			rl.DrawCircle(x, y, flyRadius, rl.Color{R: 70, G: 70, B: 70, A: 255})
		} else {
			rl.DrawCircle(x, y, flyRadius, rl.Gold)
		}
	}

	a := w.Agent
	ax, ay := r.toScreen(a.Pos.X, a.Pos.Y)

	if a.TongueExtended {
		dir := a.TongueTarget.Sub(a.Pos)
		if d := dir.Norm(); d > 0 {
			dir = dir.Scale(a.TongueLength / d)
		}
		tx, ty := r.toScreen(a.Pos.X+dir.X, a.Pos.Y+dir.Y)
		rl.DrawLineEx(
			rl.Vector2{X: float32(ax), Y: float32(ay)},
			rl.Vector2{X: float32(tx), Y: float32(ty)},
			3, rl.Pink)
	}

	// Visual range ring, then the body with a heading tick.
	rl.DrawCircleLines(ax, ay, r.visualRange*r.scaleX, rl.Color{R: 40, G: 60, B: 50, A: 255})
	body := rl.Color{R: 90, G: 180, B: 90, A: 255}
	if snap.Juvenile {
		body = rl.Color{R: 120, G: 160, B: 220, A: 255}
	}
	rl.DrawCircle(ax, ay, agentRadius, body)

	heading := rl.Vector2{
		X: float32(ax) + agentRadius*1.6*cosf(snap.DominantDirection),
		Y: float32(ay) + agentRadius*1.6*sinf(snap.DominantDirection),
	}
	rl.DrawLineEx(rl.Vector2{X: float32(ax), Y: float32(ay)}, heading, 2, rl.White)
}

func (r *Renderer) drawHUD(w *sim.World, snap brain.Snapshot, ctl Controls) Controls {
	rl.DrawRectangle(0, 0, r.screenW, hudHeight, rl.Color{R: 28, G: 34, B: 44, A: 255})

	stage := "adult"
	if snap.Juvenile {
		stage = fmt.Sprintf("juvenile %.0f%%", snap.JuvenileProgress*100)
	}
	rl.DrawText(fmt.Sprintf("Pond | %s | %s", stage, snap.BrainState), 10, 8, 20, rl.White)

	a := w.Agent
	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Catches: %d | Strikes: %d",
			w.Tick, rl.GetFPS(), a.CaughtFlies, a.Strikes),
		10, 32, 16, rl.LightGray)
	rl.DrawText(
		fmt.Sprintf("DA: %.2f | 5HT: %.2f | Activity: %.2f | Fatigue: %.2f",
			snap.Dopamine, snap.Serotonin, snap.NeuralActivity, snap.Fatigue),
		10, 52, 16, rl.LightGray)

	// Energy bar
	rl.DrawText("Energy", 10, 74, 14, rl.Gray)
	rl.DrawRectangle(70, 74, 150, 14, rl.Color{R: 50, G: 50, B: 50, A: 255})
	rl.DrawRectangle(70, 74, int32(150*a.Energy), 14, rl.Lime)

	// Controls
	label := "Pause"
	if ctl.Paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: float32(r.screenW) - 210, Y: 8, Width: 90, Height: 26}, label) {
		ctl.Paused = !ctl.Paused
	}

	speed := gui.SliderBar(
		rl.Rectangle{X: float32(r.screenW) - 210, Y: 44, Width: 160, Height: 20},
		"1x", "10x",
		float32(ctl.Speed), 1, 10,
	)
	ctl.Speed = int(speed)
	if ctl.Speed < 1 {
		ctl.Speed = 1
	}
	rl.DrawText(fmt.Sprintf("%dx", ctl.Speed), r.screenW-40, 46, 16, rl.LightGray)

	return ctl
}

func cosf(x float64) float32 { return float32(math.Cos(x)) }
func sinf(x float64) float32 { return float32(math.Sin(x)) }
