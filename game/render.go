package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/telemetry"
	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/ui"
)

const controlsLegend = "Space: pause | Tab: tuning | M: mode | P: particles | R: reset view | RMB: pan | Wheel: zoom"

// Draw renders the projected output and the operator overlays.
func (g *Game) Draw() {
	g.perf.RecordFrame()
	g.perf.StartPhase(telemetry.PhaseDraw)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.display.Upload(g.trail.Output())
	g.display.Draw(g.cam)

	if g.settings.ShowParticles {
		g.overlay.Draw(g.snapshot, g.cam)
	}

	g.hud.Draw(ui.HUDData{
		Mode:          g.sim.Mode().String(),
		Tick:          g.tick,
		FPS:           rl.GetFPS(),
		ParticleCount: g.sim.Count(),
		VisibleCount:  g.sim.VisibleCount(),
		ActiveGroups:  g.sim.ActiveGroups(),
		SpeedMul:      g.sim.SpeedMultiplier(),
		Ceiling:       float64(g.trail.Ceiling()),
		MeasuredSpeed: g.lastMeasured,
		MeasureLive:   g.measureLive,
		Paused:        g.paused,
	})
	g.controls.Draw(&g.settings)
	g.hud.DrawControls(int32(rl.GetScreenHeight()), controlsLegend)

	rl.EndDrawing()
	g.perf.EndTick()
}
