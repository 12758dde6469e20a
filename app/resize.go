package app

import (
	"github.com/pthm-cable/glyphfield/page"
	"github.com/pthm-cable/glyphfield/textproxy"
)

// ResizeCoordinator brings every size-dependent piece in line with the
// viewport: projection, surface, particle raster, document flow and proxies.
type ResizeCoordinator struct {
	ctx       *Context
	surface   Surface
	particles *Particles
	doc       *page.Document
	proxies   *textproxy.Registry

	// Rebuilds counts particle field rebuilds.
	Rebuilds int
}

// NewResizeCoordinator wires the coordinator to the pieces it resizes.
func NewResizeCoordinator(ctx *Context, s Surface, p *Particles, doc *page.Document, proxies *textproxy.Registry) *ResizeCoordinator {
	return &ResizeCoordinator{ctx: ctx, surface: s, particles: p, doc: doc, proxies: proxies}
}

// Resize applies a viewport size. Repeating a call with the same arguments
// leaves the state unchanged.
func (rc *ResizeCoordinator) Resize(w, h, dpr float64) error {
	rc.ctx.resize(w, h, dpr)
	rc.surface.Configure(w, h, rc.ctx.PixelRatio, rc.ctx.Camera.Projection())

	// Skipping an unchanged font size only saves work. A forced rebuild
	// would produce the same field.
	rebuilt, err := rc.particles.Rebuild(w)
	if err != nil {
		return err
	}
	if rebuilt {
		rc.Rebuilds++
	}

	rc.doc.Reflow(w, h)
	rc.ctx.Scroll.SetLimit(rc.doc.ScrollLimit())
	rc.proxies.ResizeAll(rc.ctx.Scroll.Actual())
	return nil
}
