package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds everything the HUD line displays per frame.
type HUDData struct {
	Mode          string
	Tick          int64
	FPS           int32
	ParticleCount int
	VisibleCount  int
	ActiveGroups  int
	SpeedMul      float64
	Ceiling       float64
	MeasuredSpeed float64
	MeasureLive   bool
	Paused        bool
}

// HUD renders the operator heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText("River Surface", 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Mode: %s | Particles: %d | Visible: %d | Groups: %d",
			data.Mode, data.ParticleCount, data.VisibleCount, data.ActiveGroups),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Speed: %.2fx | Ceiling: %.4f",
			data.Tick, data.FPS, data.SpeedMul, data.Ceiling),
		10, 55, 16, rl.LightGray,
	)

	if data.MeasureLive {
		rl.DrawText(
			fmt.Sprintf("Camera feed: %.2f m/s", data.MeasuredSpeed),
			10, 75, 16, h.renderer.Theme.AccentColor,
		)
	}

	if data.Paused {
		rl.DrawText("PAUSED", 10, 95, 16, rl.Yellow)
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
