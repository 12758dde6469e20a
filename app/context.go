// Package app runs the frame loop: it polls input, keeps the scene sized to
// the surface, displaces the particle field and draws every frame.
package app

import (
	"github.com/pthm-cable/glyphfield/camera"
	"github.com/pthm-cable/glyphfield/config"
	"github.com/pthm-cable/glyphfield/scroll"
)

// Context is the process-scoped state shared by the loop and its
// collaborators. It is created once and passed explicitly.
type Context struct {
	Camera *camera.Camera
	Scroll *scroll.Smoother

	// Viewport in logical pixels
	Width, Height float64
	PixelRatio    float64 // After capping

	Elapsed float64 // Seconds of loop time
	Delta   float64 // Seconds covered by the last step
	Frame   int32
}

// NewContext creates the context for a viewport.
func NewContext(w, h, dpr float64, cfg *config.Config) *Context {
	cam := camera.New(float32(w), float32(h), float32(dpr), float32(cfg.Screen.MaxPixelRatio))
	return &Context{
		Camera:     cam,
		Scroll:     scroll.NewSmoother(cfg.Scroll.Duration, cfg.Scroll.WheelMultiplier),
		Width:      w,
		Height:     h,
		PixelRatio: float64(cam.PixelRatio),
	}
}

// resize records new viewport dimensions and updates the projection.
func (c *Context) resize(w, h, dpr float64) {
	c.Camera.Resize(float32(w), float32(h), float32(dpr))
	c.Width = w
	c.Height = h
	c.PixelRatio = float64(c.Camera.PixelRatio)
}

// advance moves the clock forward by dt seconds.
func (c *Context) advance(dt float64) {
	c.Delta = dt
	c.Elapsed += dt
}
