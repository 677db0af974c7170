// Vector field preview tool - interactive visualization with sliders.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"image/color"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewW     = 640
	previewH     = 360
	panelWidth   = windowWidth - previewW - 30
)

// FieldParams holds the two constants that define the flow.
type FieldParams struct {
	Duration  float64
	BaseSpeed float64
}

func defaultParams() FieldParams {
	return FieldParams{Duration: 6.0, BaseSpeed: 0.5}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Vector Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()

	gridW, gridH := 320, 180
	speedGrid := make([]float64, gridW*gridH)
	img := rl.GenImageColor(gridW, gridH, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var t float32 = 0
	animating := true
	showArrows := true
	needsRegen := true

	for !rl.WindowShouldClose() {
		if animating {
			t += rl.GetFrameTime()
			needsRegen = true
		}

		field := systems.NewVectorField(params.Duration, params.BaseSpeed)
		if needsRegen {
			sampleSpeed(field, speedGrid, gridW, gridH, float64(t))
			updateTexture(texture, speedGrid, gridW, gridH)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(gridW), Height: float32(gridH)},
			rl.Rectangle{X: 10, Y: 10, Width: previewW, Height: previewH},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewW, previewH, rl.DarkGray)

		if showArrows {
			drawArrows(field, float64(t))
		}

		statsY := int32(previewH + 25)
		rl.DrawText(fmt.Sprintf("Max speed: %.3f", field.MaxSpeed(float64(t))), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Time: %.1f / phase %.2f", t, math.Mod(float64(t)/params.Duration, 1)), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewW + 20)
		panelY := float32(10)

		rl.DrawText("Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Duration (seconds per phase cycle)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newDuration := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "20",
			float32(params.Duration), 1, 20,
		)
		rl.DrawText(fmt.Sprintf("%.1f", params.Duration), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if float64(newDuration) != params.Duration {
			params.Duration = float64(newDuration)
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Base speed (downstream scale)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newBase := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.1", "2.0",
			float32(params.BaseSpeed), 0.1, 2.0,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.BaseSpeed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if float64(newBase) != params.BaseSpeed {
			params.BaseSpeed = float64(newBase)
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset Time") {
			t = 0
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(showArrows, "Hide Arrows", "Show Arrows")) {
			showArrows = !showArrows
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			t = 0
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yamlLines := []string{
			"field:",
			fmt.Sprintf("  duration: %.1f", params.Duration),
			fmt.Sprintf("  base_speed: %.2f", params.BaseSpeed),
		}
		for _, line := range yamlLines {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			yaml := fmt.Sprintf("field:\n  duration: %.1f\n  base_speed: %.2f",
				params.Duration, params.BaseSpeed)
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// sampleSpeed fills the grid with velocity magnitudes over the unit square.
func sampleSpeed(field *systems.VectorField, grid []float64, w, h int, t float64) {
	for gy := 0; gy < h; gy++ {
		y := (float64(gy) + 0.5) / float64(h)
		for gx := 0; gx < w; gx++ {
			x := (float64(gx) + 0.5) / float64(w)
			vx, vy := field.Velocity(x, y, t)
			grid[gy*w+gx] = math.Sqrt(vx*vx + vy*vy)
		}
	}
}

// drawArrows overlays direction arrows on a coarse grid.
func drawArrows(field *systems.VectorField, t float64) {
	const step = 16
	for gy := step / 2; gy < previewH; gy += step {
		for gx := step / 2; gx < previewW; gx += step {
			x := float64(gx) / previewW
			y := float64(gy) / previewH
			vx, vy := field.Velocity(x, y, t)

			mag := math.Sqrt(vx*vx + vy*vy)
			if mag < 1e-6 {
				continue
			}
			scale := 10 / mag
			x0 := float32(gx + 10)
			y0 := float32(gy + 10)
			x1 := x0 + float32(vx*scale)
			y1 := y0 + float32(vy*scale)
			rl.DrawLineEx(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, 1, rl.Color{R: 255, G: 255, B: 255, A: 140})
		}
	}
}

// updateTexture maps speeds onto a dark blue to white ramp.
func updateTexture(texture rl.Texture2D, grid []float64, w, h int) {
	var maxSpeed float64
	for _, v := range grid {
		if v > maxSpeed {
			maxSpeed = v
		}
	}
	if maxSpeed < 1e-9 {
		maxSpeed = 1
	}

	pixels := make([]color.RGBA, w*h)
	for i, v := range grid {
		n := v / maxSpeed
		pixels[i] = color.RGBA{
			R: uint8(10 + n*205),
			G: uint8(25 + n*215),
			B: uint8(55 + n*200),
			A: 255,
		}
	}
	rl.UpdateTexture(texture, pixels)
}
