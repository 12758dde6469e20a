// Package ui draws the HUD and the playback control over the scene.
package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg     rl.Color
	PanelBorder rl.Color
	TitleColor  rl.Color
	LabelColor  rl.Color
	ValueColor  rl.Color
	BarBg       rl.Color
	BarFill     rl.Color
	BarHot      rl.Color // Phases over HotPct of the frame
	HotPct      float64

	Padding    int32
	LineHeight int32
	LabelWidth int32
	BarHeight  int32
	FontSize   int32
	TitleSize  int32
}

// DefaultTheme returns a theme readable on the light page background.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:     rl.Color{R: 255, G: 255, B: 255, A: 200},
		PanelBorder: rl.Color{R: 200, G: 195, B: 185, A: 255},
		TitleColor:  rl.Color{R: 40, G: 40, B: 40, A: 255},
		LabelColor:  rl.Color{R: 90, G: 90, B: 90, A: 255},
		ValueColor:  rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarBg:       rl.Color{R: 225, G: 220, B: 210, A: 255},
		BarFill:     rl.Color{R: 120, G: 120, B: 120, A: 255},
		BarHot:      rl.Color{R: 220, G: 80, B: 50, A: 255},
		HotPct:      40,
		Padding:     10,
		LineHeight:  16,
		LabelWidth:  70,
		BarHeight:   10,
		FontSize:    12,
		TitleSize:   16,
	}
}

// Renderer handles all UI drawing with consistent styling.
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

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a labelled bar for a percentage.
func (r *Renderer) DrawBar(x, y int32, label string, pct float64, width int32) int32 {
	frac := clamp01(pct / 100)
	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	fill := r.Theme.BarFill
	if pct > r.Theme.HotPct {
		fill = r.Theme.BarHot
	}
	rl.DrawRectangle(barX, y+2, int32(float64(barWidth)*frac), r.Theme.BarHeight, fill)
	rl.DrawText(fmt.Sprintf("%.1f%%", pct), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
