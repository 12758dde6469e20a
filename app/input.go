package app

import (
	"math"

	"github.com/pthm-cable/glyphfield/interaction"
)

// Handler receives input events in client coordinates (top-left origin,
// +Y down, logical pixels).
type Handler interface {
	PointerMove(x, y float32)
	TouchMove(touches []interaction.Touch) (preventDefault bool)
	TouchEnd()
	PointerLeave()
	Wheel(notches float64)
	Drag(dy float64)
	RequestResize()
	TogglePlayback()
}

// InputSource delivers pending input events to a handler once per frame.
type InputSource interface {
	Poll(h Handler)
}

// OrbitInput moves a virtual pointer around the viewport center. Headless
// runs use it so every zone is exercised.
type OrbitInput struct {
	Radius float64 // Pixels from the center
	Period int     // Frames per revolution
	Leave  int     // Every Leave-th revolution the pointer leaves (0 = never)

	W, H  float64
	frame int
}

// Poll implements InputSource.
func (o *OrbitInput) Poll(h Handler) {
	period := max(o.Period, 1)
	rev := o.frame / period
	o.frame++
	if o.Leave > 0 && rev%o.Leave == o.Leave-1 {
		h.PointerLeave()
		return
	}
	a := 2 * math.Pi * float64(o.frame%period) / float64(period)
	x := o.W/2 + o.Radius*math.Cos(a)
	y := o.H/2 + o.Radius*math.Sin(a)
	h.PointerMove(float32(x), float32(y))
}

// TouchGesture follows one touch sequence across polls. A move goes to the
// handler first; the drag only reaches the scroll when the handler leaves
// the gesture to the page.
type TouchGesture struct {
	active bool
	lastY  float32
}

// Move reports the current touches. An empty slice ends the gesture.
func (g *TouchGesture) Move(h Handler, touches []interaction.Touch) {
	if len(touches) == 0 {
		g.End(h)
		return
	}
	y := touches[0].Y
	owned := h.TouchMove(touches)
	if g.active && !owned {
		// Dragging up scrolls down.
		h.Drag(float64(g.lastY - y))
	}
	g.active = true
	g.lastY = y
}

// End finishes the gesture if one is in progress.
func (g *TouchGesture) End(h Handler) {
	if !g.active {
		return
	}
	g.active = false
	h.TouchEnd()
}

// Active reports whether a touch is in progress.
func (g *TouchGesture) Active() bool {
	return g.active
}
