// Package interaction normalizes pointer and touch input into a single
// surface-local position.
package interaction

// Far is the sentinel coordinate used when no input is active. It sits far
// outside any outer radius so every point falls in the ambient zone.
const Far = -9999

// View maps surface pixels (top-left origin, +Y down) to the centered, Y-up
// scene. *camera.Camera implements it.
type View interface {
	ScreenToWorld(sx, sy float32) (wx, wy float32)
}

// Origin is the rendering surface's top-left corner in client coordinates.
type Origin struct {
	Left, Top float32
}

// Touch is one active touch point in client coordinates.
type Touch struct {
	ID   int
	X, Y float32
}

// Position is a surface-local point with the surface center as origin and +Y up.
type Position struct {
	X, Y float32
}

// Tracker holds the current interaction position.
type Tracker struct {
	view   View
	origin Origin
	pos    Position
	active bool
}

// NewTracker returns a tracker parked at the sentinel. The view must follow
// the surface size; the app passes its context camera.
func NewTracker(view View) *Tracker {
	return &Tracker{view: view, pos: Position{X: Far, Y: Far}}
}

// SetOrigin moves the surface within the client area.
func (t *Tracker) SetOrigin(o Origin) {
	t.origin = o
}

// Local converts client coordinates to the scene.
func (t *Tracker) Local(clientX, clientY float32) Position {
	x, y := t.view.ScreenToWorld(clientX-t.origin.Left, clientY-t.origin.Top)
	return Position{X: x, Y: y}
}

// PointerMove updates the position from a pointer event.
func (t *Tracker) PointerMove(clientX, clientY float32) {
	t.pos = t.Local(clientX, clientY)
	t.active = true
}

// TouchMove updates the position from a single-touch move. It always returns
// true: the caller must suppress the host's default scroll/zoom gesture while
// the touch is in progress. Multi-touch moves leave the position unchanged.
func (t *Tracker) TouchMove(touches []Touch) (preventDefault bool) {
	if len(touches) == 1 {
		t.pos = t.Local(touches[0].X, touches[0].Y)
		t.active = true
	}
	return true
}

// TouchEnd parks the position at the sentinel.
func (t *Tracker) TouchEnd() {
	t.park()
}

// PointerLeave parks the position at the sentinel when the pointer leaves the surface.
func (t *Tracker) PointerLeave() {
	t.park()
}

func (t *Tracker) park() {
	t.pos = Position{X: Far, Y: Far}
	t.active = false
}

// Position returns the current position.
func (t *Tracker) Position() Position {
	return t.pos
}

// Active reports whether a pointer or touch is currently driving the position.
func (t *Tracker) Active() bool {
	return t.active
}
