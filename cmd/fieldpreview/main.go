// Neuromodulator field preview tool - interactive diffusion visualization.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"image/color"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pond/neural"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30

	fieldExtent = 400.0
	cellSize    = 10.0
)

// tint maps a transmitter to its display color.
func tint(t neural.Transmitter) color.RGBA {
	switch t {
	case neural.Dopamine:
		return color.RGBA{R: 255, G: 140, B: 40, A: 255}
	case neural.Serotonin:
		return color.RGBA{R: 90, G: 160, B: 255, A: 255}
	default:
		return color.RGBA{R: 120, G: 255, B: 140, A: 255}
	}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Neuromodulator Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	field := neural.NewField(fieldExtent, fieldExtent, cellSize)
	gridW, gridH := field.GridW, field.GridH

	img := rl.GenImageColor(gridW, gridH, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	pixels := make([]color.RGBA, gridW*gridH)

	transmitter := neural.Dopamine
	var releaseAmount float32 = 0.5
	var stepMs float32 = 10
	animating := true

	for !rl.WindowShouldClose() {
		if animating {
			field.Diffuse(float64(stepMs))
		}

		// Click inside the preview to release at that point.
		if rl.IsMouseButtonDown(rl.MouseLeftButton) {
			mouse := rl.GetMousePosition()
			if mouse.X >= 10 && mouse.X < 10+previewSize && mouse.Y >= 10 && mouse.Y < 10+previewSize {
				pos := neural.Vec2{
					X: float64(mouse.X-10) / previewSize * fieldExtent,
					Y: float64(mouse.Y-10) / previewSize * fieldExtent,
				}
				field.Release(pos, float64(releaseAmount), transmitter)
			}
		}

		updateTexture(texture, pixels, field, transmitter)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(gridW), Height: float32(gridH)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("%s | mean: %.3f | baseline: %.3f",
			transmitter, field.Mean(transmitter), transmitter.Baseline()),
			15, statsY, 16, rl.DarkGray)
		rl.DrawText("Click and drag in the preview to release", 15, statsY+20, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Diffusion Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Release amount", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		releaseAmount = gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.05", "1.0",
			releaseAmount, 0.05, 1.0,
		)
		rl.DrawText(fmt.Sprintf("%.2f", releaseAmount), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		panelY += 35

		rl.DrawText("Step size (ms per frame)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		stepMs = gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "50",
			stepMs, 1, 50,
		)
		rl.DrawText(fmt.Sprintf("%.0f", stepMs), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, fmt.Sprintf("Show: %s", transmitter)) {
			transmitter = (transmitter + 1) % 3
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(field.DiffusionEnabled, "Diffusion: on", "Diffusion: off")) {
			field.DiffusionEnabled = !field.DiffusionEnabled
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Pulse center") {
			field.Release(neural.Vec2{X: fieldExtent / 2, Y: fieldExtent / 2}, float64(releaseAmount), transmitter)
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset") {
			field.Reset()
		}

		rl.EndDrawing()
	}
}

// updateTexture maps the selected transmitter's concentrations onto
// the preview texture.
func updateTexture(texture rl.Texture2D, pixels []color.RGBA, field *neural.Field, t neural.Transmitter) {
	c := tint(t)
	for j := 0; j < field.GridH; j++ {
		for i := 0; i < field.GridW; i++ {
			pos := neural.Vec2{
				X: (float64(i) + 0.5) * field.CellSize,
				Y: (float64(j) + 0.5) * field.CellSize,
			}
			v := field.Concentration(pos, t)
			pixels[j*field.GridW+i] = color.RGBA{
				R: uint8(float64(c.R) * v),
				G: uint8(float64(c.G) * v),
				B: uint8(float64(c.B) * v),
				A: 255,
			}
		}
	}
	rl.UpdateTexture(texture, pixels)
}

func toggleText(on bool, yes, no string) string {
	if on {
		return yes
	}
	return no
}
