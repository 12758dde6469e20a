// Package camera provides the orthographic projection that maps the centered,
// Y-up scene onto the window.
package camera

// Default clip planes and camera distance.
const (
	DefaultNear = 0.1
	DefaultFar  = 1000
	DefaultZ    = 1
)

// Camera is an orthographic camera whose extents always match the viewport in
// pixels, so one scene unit is one CSS pixel.
type Camera struct {
	// Extents in scene units
	Left, Right, Top, Bottom float32

	Near, Far float32
	Z         float32

	// Viewport dimensions in logical pixels
	ViewportW, ViewportH float32

	// Device pixel ratio after capping
	PixelRatio float32

	// MaxPixelRatio bounds GPU cost on high-density displays
	MaxPixelRatio float32
}

// New creates a camera for the given viewport and device pixel ratio.
func New(viewportW, viewportH, devicePixelRatio, maxPixelRatio float32) *Camera {
	c := &Camera{
		Near:          DefaultNear,
		Far:           DefaultFar,
		Z:             DefaultZ,
		MaxPixelRatio: maxPixelRatio,
	}
	c.Resize(viewportW, viewportH, devicePixelRatio)
	return c
}

// CapPixelRatio clamps a device pixel ratio to [1, max].
func CapPixelRatio(dpr, maxRatio float32) float32 {
	if maxRatio <= 0 {
		maxRatio = 2
	}
	return clamp(dpr, 1, maxRatio)
}

// Resize updates the viewport, pixel ratio and projection extents.
func (c *Camera) Resize(viewportW, viewportH, devicePixelRatio float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.PixelRatio = CapPixelRatio(devicePixelRatio, c.MaxPixelRatio)
	c.Left = -viewportW / 2
	c.Right = viewportW / 2
	c.Top = viewportH / 2
	c.Bottom = -viewportH / 2
}

// WorldToScreen converts centered Y-up scene coordinates to top-left Y-down
// screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = wx - c.Left
	sy = c.Top - wy
	return sx, sy
}

// ScreenToWorld converts screen coordinates to scene coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = sx + c.Left
	wy = c.Top - sy
	return wx, wy
}

// IsVisible returns true if a rectangle centered at (wx, wy) with the given
// half extents overlaps the view (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, halfW, halfH float32) bool {
	return wx+halfW >= c.Left && wx-halfW <= c.Right &&
		wy+halfH >= c.Bottom && wy-halfH <= c.Top
}

// Projection returns the column-major orthographic projection matrix.
func (c *Camera) Projection() [16]float32 {
	rl := c.Right - c.Left
	tb := c.Top - c.Bottom
	fn := c.Far - c.Near
	return [16]float32{
		2 / rl, 0, 0, 0,
		0, 2 / tb, 0, 0,
		0, 0, -2 / fn, 0,
		-(c.Right + c.Left) / rl, -(c.Top + c.Bottom) / tb, -(c.Far + c.Near) / fn, 1,
	}
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
