// Package camera provides the projector alignment transform: a pan/zoom
// viewport used to register the rendered river onto the physical surface.
package camera

// Camera maps output-image coordinates to screen (projector) coordinates.
// Unlike a game camera it never wraps: the river image must project exactly
// once, so panning is clamped to keep the viewport inside the image with a
// small alignment margin.
type Camera struct {
	// Position is the camera center in image coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (projector output size)
	ViewportW, ViewportH float32

	// Image dimensions being projected
	ImageW, ImageH float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	// Margin is how far (in image units) the center may leave the image
	// during alignment.
	Margin float32
}

// New creates a camera centered on the image with 1:1 zoom.
func New(viewportW, viewportH, imageW, imageH float32) *Camera {
	return &Camera{
		X:         imageW / 2,
		Y:         imageH / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		ImageW:    imageW,
		ImageH:    imageH,
		MinZoom:   0.25,
		MaxZoom:   4.0,
		Margin:    imageW * 0.25,
	}
}

// WorldToScreen converts image coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to image coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// Pan moves the camera by the given delta in screen pixels, clamped so the
// image cannot be lost off the projection surface.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X+dx/c.Zoom, -c.Margin, c.ImageW+c.Margin)
	c.Y = clamp(c.Y+dy/c.Zoom, -c.Margin, c.ImageH+c.Margin)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Resize updates the viewport dimensions after a window resize.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Reset returns the camera to the centered default alignment.
func (c *Camera) Reset() {
	c.X = c.ImageW / 2
	c.Y = c.ImageH / 2
	c.Zoom = 1.0
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
