package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glyphfield/app"
	"github.com/pthm-cable/glyphfield/telemetry"
)

// PlayLabel returns the playback button text for the current state.
func PlayLabel(playing bool) string {
	if playing {
		return "Pause"
	}
	return "Play"
}

// PlayButton is the soundtrack's play/pause toggle, anchored bottom-right.
type PlayButton struct {
	Width, Height float32
	Margin        float32
}

// NewPlayButton creates the button.
func NewPlayButton() *PlayButton {
	return &PlayButton{Width: 96, Height: 32, Margin: 24}
}

// Bounds returns the button rectangle for a screen size.
func (b *PlayButton) Bounds(screenW, screenH float32) rl.Rectangle {
	return rl.Rectangle{
		X:      screenW - b.Width - b.Margin,
		Y:      screenH - b.Height - b.Margin,
		Width:  b.Width,
		Height: b.Height,
	}
}

// Draw draws the button and reports whether it was clicked. Nothing is drawn
// without a soundtrack.
func (b *PlayButton) Draw(st app.AudioState, screenW, screenH float32) bool {
	if !st.Available {
		return false
	}
	return gui.Button(b.Bounds(screenW, screenH), PlayLabel(st.Playing))
}

// Overlay draws the UI on top of each frame. It plugs into the raylib
// surface's overlay hook.
type Overlay struct {
	Title    string
	ShowHUD  bool
	OnToggle func()                     // Play/pause clicked
	Perf     func() telemetry.PerfStats // nil hides the perf panel

	hud  *HUD
	perf *PerfPanel
	play *PlayButton
}

// NewOverlay creates the overlay.
func NewOverlay(title string) *Overlay {
	return &Overlay{
		Title: title,
		hud:   NewHUD(),
		perf:  NewPerfPanel(10, 120),
		play:  NewPlayButton(),
	}
}

// Draw renders the overlay for a frame.
func (o *Overlay) Draw(f *app.Frame) {
	if rl.IsKeyPressed(rl.KeyH) {
		o.ShowHUD = !o.ShowHUD
	}
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())

	if o.play.Draw(f.Audio, w, h) && o.OnToggle != nil {
		o.OnToggle()
	}
	if !o.ShowHUD {
		return
	}

	visible := 0
	for _, p := range f.Proxies {
		if p.Visible {
			visible++
		}
	}
	o.hud.Draw(HUDData{
		Title:         o.Title,
		Frame:         f.Number,
		FPS:           rl.GetFPS(),
		Points:        f.Points.Count,
		Zones:         f.Zones,
		Proxies:       visible,
		Scroll:        f.Scroll,
		PointerActive: f.PointerActive,
	})
	if o.Perf != nil {
		o.perf.Draw(o.Perf())
	}
	o.hud.DrawControls(int32(h), "[H] HUD  [Space] Play/Pause  [F11] Fullscreen")
}
