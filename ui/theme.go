// Package ui renders the operator HUD and the live tuning panel. Everything
// here draws on top of the projected output and is hidden during shows.
package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg     rl.Color
	PanelBorder rl.Color
	LabelColor  rl.Color
	ValueColor  rl.Color
	AccentColor rl.Color
	Padding     int32
	LineHeight  int32
	LabelWidth  int32
	FontSize    int32
	HeaderSize  int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:     rl.Color{R: 16, G: 22, B: 30, A: 235},
		PanelBorder: rl.Color{R: 60, G: 80, B: 100, A: 255},
		LabelColor:  rl.LightGray,
		ValueColor:  rl.White,
		AccentColor: rl.Color{R: 120, G: 200, B: 255, A: 255},
		Padding:     10,
		LineHeight:  18,
		LabelWidth:  110,
		FontSize:    12,
		HeaderSize:  16,
	}
}

// Renderer handles panel and label drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderSize, r.Theme.AccentColor)
	return y + r.Theme.LineHeight + 4
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawLabelValuef formats a value and draws it next to its label.
func (r *Renderer) DrawLabelValuef(x, y int32, label, format string, args ...any) int32 {
	return r.DrawLabelValue(x, y, label, fmt.Sprintf(format, args...))
}
