package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glyphfield/field"
	"github.com/pthm-cable/glyphfield/telemetry"
)

// HUDData holds all the data needed to render the HUD.
type HUDData struct {
	Title         string
	Frame         int32
	FPS           int32
	Points        int
	Zones         field.ZoneCounts
	Proxies       int
	Scroll        float64
	PointerActive bool
}

// Lines returns the HUD text, one entry per row.
func (d HUDData) Lines() []string {
	pointer := "away"
	if d.PointerActive {
		pointer = "active"
	}
	return []string{
		fmt.Sprintf("Frame: %d | FPS: %d", d.Frame, d.FPS),
		fmt.Sprintf("Points: %d | Proxies: %d", d.Points, d.Proxies),
		fmt.Sprintf("Hold: %d | Falloff: %d | Ambient: %d", d.Zones.Hold, d.Zones.Falloff, d.Zones.Ambient),
		fmt.Sprintf("Scroll: %.0f | Pointer: %s", d.Scroll, pointer),
	}
}

// HUD renders the heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	t := h.renderer.Theme
	lines := data.Lines()
	height := t.TitleSize + int32(len(lines))*t.LineHeight + 3*t.Padding
	h.renderer.DrawPanel(t.Padding, t.Padding, 300, height)

	x, y := 2*t.Padding, 2*t.Padding
	rl.DrawText(data.Title, x, y, t.TitleSize, t.TitleColor)
	y += t.TitleSize + t.Padding/2
	for _, line := range lines {
		rl.DrawText(line, x, y, t.FontSize, t.ValueColor)
		y += t.LineHeight
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, h.renderer.Theme.LabelColor)
}

// PerfPanel renders frame phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	t := p.renderer.Theme
	width := int32(260)
	height := t.TitleSize + int32(len(telemetry.Phases)+1)*t.LineHeight + 3*t.Padding
	p.renderer.DrawPanel(p.x, p.y, width, height)

	x, y := p.x+t.Padding, p.y+t.Padding
	rl.DrawText("Frame Phases", x, y, t.TitleSize, t.TitleColor)
	y += t.TitleSize + t.Padding/2
	y = p.renderer.DrawLabelValue(x, y, "Frame", stats.AvgFrameDuration.Round(time.Microsecond).String())
	for _, phase := range telemetry.Phases {
		y = p.renderer.DrawBar(x, y, phase, stats.PhasePct[phase], width-2*t.Padding)
	}
}
