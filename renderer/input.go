package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glyphfield/app"
	"github.com/pthm-cable/glyphfield/interaction"
)

// Input turns raylib's polled mouse, touch, wheel and window state into app
// events.
type Input struct {
	gesture   app.TouchGesture
	hovering  bool
	lastMouse rl.Vector2
	touches   []interaction.Touch
}

// NewInput creates an input adapter.
func NewInput() *Input {
	return &Input{}
}

// Poll implements app.InputSource.
func (in *Input) Poll(h app.Handler) {
	if rl.IsWindowResized() {
		h.RequestResize()
	}
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
		h.RequestResize()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		h.TogglePlayback()
	}

	in.pollTouch(h)
	if !in.gesture.Active() {
		in.pollMouse(h)
	}

	// raylib reports wheel-up as positive.
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		h.Wheel(-float64(wheel))
	}
}

func (in *Input) pollTouch(h app.Handler) {
	n := rl.GetTouchPointCount()
	in.touches = in.touches[:0]
	for i := int32(0); i < n; i++ {
		p := rl.GetTouchPosition(i)
		in.touches = append(in.touches, interaction.Touch{ID: int(rl.GetTouchPointId(i)), X: p.X, Y: p.Y})
	}
	in.gesture.Move(h, in.touches)
}

func (in *Input) pollMouse(h app.Handler) {
	if !rl.IsCursorOnScreen() {
		if in.hovering {
			in.hovering = false
			h.PointerLeave()
		}
		return
	}
	p := rl.GetMousePosition()
	if in.hovering && p == in.lastMouse {
		return
	}
	in.hovering = true
	in.lastMouse = p
	h.PointerMove(p.X, p.Y)
}
