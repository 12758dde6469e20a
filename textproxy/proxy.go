// Package textproxy mirrors page text elements into the scene as shaped,
// rasterized meshes that track their element's layout position while the
// page scrolls.
package textproxy

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/pthm-cable/glyphfield/page"
	"github.com/pthm-cable/glyphfield/typeset"
)

// State is a proxy's lifecycle state.
type State int

const (
	Uninitialized State = iota
	Ready
	Skipped // Nothing to mirror; a valid terminal state
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Shaper builds meshes.
type Shaper interface {
	Shape(p typeset.Params) (*typeset.Mesh, error)
	ShapeAsync(p typeset.Params, done func(*typeset.Mesh, error))
}

// FamilyMapper resolves a CSS font-weight to a loaded family.
type FamilyMapper interface {
	FamilyForWeight(weight string) string
}

// ParamsFor derives shaping parameters from a style snapshot. Letter spacing
// and line height are normalized by the font size.
func ParamsFor(text string, s page.Style, family string, maxWidth float64) typeset.Params {
	p := typeset.Params{
		Text:       text,
		Family:     family,
		Size:       s.FontSize,
		MaxWidth:   maxWidth,
		Align:      s.TextAlign,
		WhiteSpace: s.WhiteSpace,
		Color:      s.Color,
	}
	if s.FontSize > 0 {
		p.LetterSpacing = s.LetterSpacing / s.FontSize
		p.LineHeight = s.LineHeight / s.FontSize
	}
	return p
}

// Proxy mirrors one page element.
type Proxy struct {
	el     *page.Element
	shaper Shaper
	fonts  FamilyMapper

	mu          sync.Mutex
	state       State
	style       page.Style
	bounds      page.Rect // Viewport-relative at capture time
	capturedTop float64   // Document offset of the element's top edge
	params      typeset.Params
	mesh        *typeset.Mesh
	version     uint64 // Bumped whenever mesh changes
	gen         uint64 // Latest shape request
	x, y        float64

	readyOnce sync.Once
	ready     chan struct{}
}

// New captures el's style and bounds at the given page scroll offset and
// starts shaping its text. The element's own glyphs are hidden once it is
// mirrored.
func New(el *page.Element, actualScroll float64, fonts FamilyMapper, shaper Shaper) *Proxy {
	p := &Proxy{
		el:     el,
		shaper: shaper,
		fonts:  fonts,
		ready:  make(chan struct{}),
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.capture(actualScroll)
	if el.Empty() {
		p.skip()
		return p
	}
	el.SetTransparent(true)
	p.requestShape()
	return p
}

// capture snapshots style, bounds and derived params. Caller holds mu.
func (p *Proxy) capture(actualScroll float64) {
	p.style = p.el.ComputedStyle()
	p.bounds = p.el.BoundingRect(actualScroll)
	p.capturedTop = p.bounds.Top + actualScroll
	family := p.fonts.FamilyForWeight(p.style.FontWeight)
	p.params = ParamsFor(p.el.Text(), p.style, family, p.bounds.Width)
}

// requestShape starts an async shape of the current params. Caller holds mu.
func (p *Proxy) requestShape() {
	p.gen++
	gen := p.gen
	params := p.params
	p.shaper.ShapeAsync(params, func(m *typeset.Mesh, err error) {
		p.onShaped(gen, m, err)
	})
}

func (p *Proxy) onShaped(gen uint64, m *typeset.Mesh, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return
	}
	if err != nil {
		if !errors.Is(err, typeset.ErrEmptyText) {
			slog.Warn("text proxy shaping failed", "element", p.el.ID, "error", err)
		}
		p.skip()
		return
	}
	p.mesh = m
	p.version++
	p.state = Ready
	p.markDone()
}

// skip drops the mesh. Caller holds mu.
func (p *Proxy) skip() {
	if p.mesh != nil {
		p.mesh = nil
		p.version++
	}
	p.state = Skipped
	p.markDone()
}

func (p *Proxy) markDone() {
	p.readyOnce.Do(func() { close(p.ready) })
}

// Done is closed once the first shape completes or the proxy is skipped.
func (p *Proxy) Done() <-chan struct{} {
	return p.ready
}

// Update positions the mesh for the current animated scroll offset and
// surface size. X is the element's left edge and Y its vertical centre, both
// in the surface's centered coordinate space. It reports false unless Ready.
func (p *Proxy) Update(animatedScroll, surfaceW, surfaceH float64) (x, y float64, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Ready {
		return 0, 0, false
	}
	p.y = -p.capturedTop + animatedScroll + surfaceH/2 - p.bounds.Height/2
	p.x = p.bounds.Left - surfaceW/2
	return p.x, p.y, true
}

// Resize re-captures style and bounds after a reflow. Text changes are
// reshaped asynchronously; layout-only changes are re-laid out in place from
// already shaped runs.
func (p *Proxy) Resize(actualScroll float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev := p.params
	p.capture(actualScroll)
	if p.el.Empty() {
		p.gen++ // Discard in-flight results
		p.skip()
		return
	}
	p.el.SetTransparent(true)

	switch {
	case p.mesh == nil || p.params.Text != prev.Text:
		p.requestShape()
	case p.params != p.mesh.Params:
		m, err := p.shaper.Shape(p.params)
		if err != nil {
			slog.Warn("text proxy relayout failed", "element", p.el.ID, "error", err)
			return
		}
		p.gen++
		p.mesh = m
		p.version++
		p.state = Ready
	}
}

// State returns the lifecycle state.
func (p *Proxy) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Mesh returns the current mesh and its version. The mesh is nil until Ready.
func (p *Proxy) Mesh() (*typeset.Mesh, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mesh, p.version
}

// Params returns the shaping parameters derived from the last capture.
func (p *Proxy) Params() typeset.Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params
}

// Bounds returns the element rectangle from the last capture.
func (p *Proxy) Bounds() page.Rect {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bounds
}

// Style returns the style snapshot from the last capture.
func (p *Proxy) Style() page.Style {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.style
}

// Element returns the mirrored element.
func (p *Proxy) Element() *page.Element {
	return p.el
}

// Measurer lays page elements out with the same parameters their proxies use,
// so document flow and mesh heights agree.
type Measurer struct {
	Shaper *typeset.Shaper
	Fonts  FamilyMapper
}

// MeasureHeight implements page.Measurer.
func (m Measurer) MeasureHeight(text string, s page.Style, maxWidth float64) float64 {
	family := m.Fonts.FamilyForWeight(s.FontWeight)
	return m.Shaper.MeasureHeight(ParamsFor(text, s, family, maxWidth))
}
