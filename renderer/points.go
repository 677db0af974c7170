package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/camera"
	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/systems"
)

// Group color palette for the debug overlay, cycled by group index.
var groupColors = []rl.Color{
	{R: 255, G: 120, B: 120, A: 200},
	{R: 120, G: 255, B: 140, A: 200},
	{R: 130, G: 160, B: 255, A: 200},
	{R: 255, G: 220, B: 110, A: 200},
	{R: 220, G: 130, B: 255, A: 200},
	{R: 120, G: 235, B: 235, A: 200},
}

// groupColor picks the palette entry for a wave group. Continuous-mode
// particles carry group -1 and share the first color.
func groupColor(group int) rl.Color {
	if group < 0 {
		return groupColors[0]
	}
	return groupColors[group%len(groupColors)]
}

// PointOverlay draws raw particle positions on top of the trail image.
// It exists for alignment and debugging, not for the projected output.
type PointOverlay struct {
	imageW float32
	imageH float32
}

// NewPointOverlay creates an overlay mapping unit-square particle positions
// onto a trail image of the given size.
func NewPointOverlay(imageW, imageH int) *PointOverlay {
	return &PointOverlay{imageW: float32(imageW), imageH: float32(imageH)}
}

// Draw renders every on-surface particle as a dot, colored by wave group.
// Hidden (parked) particles are skipped.
func (o *PointOverlay) Draw(particles []systems.Particle, cam *camera.Camera) {
	for i := range particles {
		p := &particles[i]
		if p.X < -1 || p.X > 1.5 {
			continue
		}

		wx := float32(p.X) * o.imageW
		wy := float32(p.Y) * o.imageH
		sx, sy := cam.WorldToScreen(wx, wy)

		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, 1.5, groupColor(p.Group))
	}
}
