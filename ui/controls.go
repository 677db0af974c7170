package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Settings is the live tuning state shared with the game loop. The panel
// mutates it in place and sets the dirty flags so the owner knows which
// subsystem to poke.
type Settings struct {
	SpeedMultiplier float32
	WaveInterval    float32
	Undulation      float32
	DecayFactor     float32
	Gamma           float32

	Pulsed        bool
	Percentile    bool
	ShowParticles bool

	// Dirty flags, cleared by the consumer.
	SimChanged   bool
	TrailChanged bool
	ModeChanged  bool
}

// ControlsPanel renders the raygui tuning panel.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a tuning panel anchored at the given position.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggle switches panel visibility and returns the new state.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Draw renders the panel and applies slider changes to s.
func (c *ControlsPanel) Draw(s *Settings) {
	if !c.visible {
		return
	}

	r := c.renderer
	padding := r.Theme.Padding
	panelHeight := int32(26+5*46+38+28) + padding*2
	c.renderer.DrawPanel(c.x, c.y, c.width, panelHeight)

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	sliderW := float32(c.width - padding*2 - 50)

	rl.DrawText("Tuning", int32(x), int32(y), r.Theme.HeaderSize, r.Theme.AccentColor)
	y += 26

	if c.slider(x, &y, sliderW, "Speed", "%.2f", &s.SpeedMultiplier, 0, 3) {
		s.SimChanged = true
	}
	if c.slider(x, &y, sliderW, "Wave interval", "%.1fs", &s.WaveInterval, 0.5, 10) {
		s.SimChanged = true
	}
	if c.slider(x, &y, sliderW, "Undulation", "%.2f", &s.Undulation, 0, 1) {
		s.SimChanged = true
	}
	if c.slider(x, &y, sliderW, "Decay", "%.3f", &s.DecayFactor, 0.80, 0.995) {
		s.TrailChanged = true
	}
	if c.slider(x, &y, sliderW, "Gamma", "%.2f", &s.Gamma, 0.3, 1.5) {
		s.TrailChanged = true
	}

	buttonW := (sliderW + 50 - 10) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: buttonW, Height: 28}, modeLabel(s.Pulsed)) {
		s.Pulsed = !s.Pulsed
		s.ModeChanged = true
	}
	if gui.Button(rl.Rectangle{X: x + buttonW + 10, Y: y, Width: buttonW, Height: 28}, normalizeLabel(s.Percentile)) {
		s.Percentile = !s.Percentile
		s.TrailChanged = true
	}
	y += 38

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: buttonW, Height: 28}, particlesLabel(s.ShowParticles)) {
		s.ShowParticles = !s.ShowParticles
	}
}

// slider draws one labeled slider row and reports whether the value moved.
func (c *ControlsPanel) slider(x float32, y *float32, width float32, label, format string, value *float32, min, max float32) bool {
	r := c.renderer
	rl.DrawText(label, int32(x), int32(*y), r.Theme.FontSize, r.Theme.LabelColor)
	*y += 16

	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: width, Height: 18},
		"", "",
		*value, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, *value), int32(x+width+8), int32(*y+2), r.Theme.FontSize, r.Theme.ValueColor)
	*y += 30

	if next != *value {
		*value = next
		return true
	}
	return false
}

func modeLabel(pulsed bool) string {
	if pulsed {
		return "Mode: Pulsed"
	}
	return "Mode: Continuous"
}

func normalizeLabel(percentile bool) string {
	if percentile {
		return "Norm: Percentile"
	}
	return "Norm: Approx"
}

func particlesLabel(on bool) string {
	if on {
		return "Particles: ON"
	}
	return "Particles: OFF"
}
