package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/camera"
)

// Water tint ramp endpoints. Trail luminance 0 maps to deep water, 1 to foam.
var (
	deepColor = rl.Color{R: 6, G: 24, B: 48, A: 255}
	foamColor = rl.Color{R: 214, G: 236, B: 255, A: 255}
)

// TrailDisplay uploads the CPU trail image to a GPU texture and draws it
// through the alignment camera. The float image is tinted on the way up so
// the projected output reads as water rather than raw intensity.
type TrailDisplay struct {
	texture     rl.Texture2D
	pixels      []color.RGBA
	width       int
	height      int
	initialized bool
}

// NewTrailDisplay creates a display for a trail image of the given size.
func NewTrailDisplay(width, height int) *TrailDisplay {
	return &TrailDisplay{width: width, height: height}
}

// Init creates the GPU texture (must be called after the raylib window is
// created).
func (d *TrailDisplay) Init() {
	if d.initialized {
		return
	}

	img := rl.GenImageColor(d.width, d.height, rl.Black)
	d.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(d.texture, rl.FilterBilinear)

	d.pixels = make([]color.RGBA, d.width*d.height)
	d.initialized = true
}

// Resize replaces the texture and pixel buffer for a new trail image size.
func (d *TrailDisplay) Resize(width, height int) {
	if width == d.width && height == d.height {
		return
	}
	wasInit := d.initialized
	if wasInit {
		rl.UnloadTexture(d.texture)
		d.initialized = false
	}
	d.width = width
	d.height = height
	if wasInit {
		d.Init()
	}
}

// Upload tints the float RGBA trail image and pushes it to the GPU. The
// source buffer is interleaved RGBA with all channels already in [0, 1].
func (d *TrailDisplay) Upload(display []float32) {
	if !d.initialized {
		d.Init()
	}
	n := d.width * d.height
	if len(display) < n*4 {
		return
	}

	dr := float32(deepColor.R)
	dg := float32(deepColor.G)
	db := float32(deepColor.B)
	fr := float32(foamColor.R)
	fg := float32(foamColor.G)
	fb := float32(foamColor.B)

	for i := 0; i < n; i++ {
		v := display[i*4]
		d.pixels[i] = color.RGBA{
			R: uint8(dr + v*(fr-dr)),
			G: uint8(dg + v*(fg-dg)),
			B: uint8(db + v*(fb-db)),
			A: 255,
		}
	}

	rl.UpdateTexture(d.texture, d.pixels)
}

// Draw renders the trail texture through the alignment camera.
func (d *TrailDisplay) Draw(cam *camera.Camera) {
	if !d.initialized {
		return
	}
	sx, sy := cam.WorldToScreen(0, 0)
	rl.DrawTextureEx(d.texture, rl.Vector2{X: sx, Y: sy}, 0, cam.Zoom, rl.White)
}

// Width returns the trail image width in pixels.
func (d *TrailDisplay) Width() int { return d.width }

// Height returns the trail image height in pixels.
func (d *TrailDisplay) Height() int { return d.height }

// Unload frees the GPU texture.
func (d *TrailDisplay) Unload() {
	if d.initialized {
		rl.UnloadTexture(d.texture)
		d.initialized = false
	}
}
