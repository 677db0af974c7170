package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput processes keyboard and mouse input for the graphical mode.
func (g *Game) handleInput() {
	if g.cam == nil {
		return
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyM) {
		g.settings.Pulsed = !g.settings.Pulsed
		g.settings.ModeChanged = true
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.settings.ShowParticles = !g.settings.ShowParticles
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.cam.Reset()
	}

	// Projector alignment: arrows or right-drag pan, wheel zooms.
	const panSpeed = 4
	if rl.IsKeyDown(rl.KeyLeft) {
		g.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyRight) {
		g.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.cam.Pan(0, -panSpeed)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.cam.Pan(0, panSpeed)
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		g.cam.Pan(-delta.X, -delta.Y)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.cam.ZoomBy(1 + wheel*0.1)
	}

	if rl.IsWindowResized() {
		g.cam.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	}
}
