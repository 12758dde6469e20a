// Package page models the document of text elements that the scene mirrors:
// each element has authoritative text, a computed style and a layout box
// that reflows with the viewport width.
package page

import (
	"image/color"
	"strings"

	"github.com/pthm-cable/glyphfield/config"
)

// Style is a snapshot of an element's computed style. Spacing values are in pixels.
type Style struct {
	FontWeight    string
	FontSize      float64
	LetterSpacing float64
	LineHeight    float64
	WhiteSpace    string
	TextAlign     string
	Color         color.RGBA
}

// Rect is a layout rectangle.
type Rect struct {
	Left, Top, Width, Height float64
}

// Bottom returns Top + Height.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Measurer reports how tall a block of text lays out at the given width.
type Measurer interface {
	MeasureHeight(text string, style Style, maxWidth float64) float64
}

// Element is one text element of the document.
type Element struct {
	ID            string
	text          string
	style         Style
	widthFraction float64
	layout        Rect // Document coordinates
	transparent   bool
}

// NewElement creates an element with an authored style.
func NewElement(id, text string, style Style, widthFraction float64) *Element {
	if widthFraction <= 0 {
		widthFraction = 1
	}
	return &Element{ID: id, text: text, style: style, widthFraction: widthFraction}
}

// Text returns the element's text content.
func (e *Element) Text() string {
	return e.text
}

// SetText replaces the element's text content.
func (e *Element) SetText(text string) {
	e.text = text
}

// ComputedStyle returns a snapshot of the element's style.
func (e *Element) ComputedStyle() Style {
	return e.style
}

// SetStyle replaces the authored style; used when the page restyles an element.
func (e *Element) SetStyle(s Style) {
	e.style = s
}

// BoundingRect returns the element's box relative to the viewport for the
// given page scroll offset.
func (e *Element) BoundingRect(scroll float64) Rect {
	r := e.layout
	r.Top -= scroll
	return r
}

// DocumentRect returns the element's box in document coordinates.
func (e *Element) DocumentRect() Rect {
	return e.layout
}

// SetTransparent hides the element's own glyphs. The text stays in the
// document for selection and assistive technology.
func (e *Element) SetTransparent(v bool) {
	e.transparent = v
}

// Transparent reports whether the element's own glyphs are hidden.
func (e *Element) Transparent() bool {
	return e.transparent
}

// Empty reports whether the element has nothing visible to mirror.
func (e *Element) Empty() bool {
	return strings.TrimSpace(e.text) == "" || e.layout.Width <= 0 || e.style.FontSize <= 0
}

// Document lays out elements in a single vertical flow.
type Document struct {
	elements []*Element
	padding  float64
	gap      float64
	top      float64
	height   float64
	viewport Rect
	measurer Measurer
}

// NewDocument creates an empty document.
func NewDocument(padding, gap, top float64, m Measurer) *Document {
	return &Document{padding: padding, gap: gap, top: top, measurer: m}
}

// FromConfig builds a document from the page configuration.
func FromConfig(cfg config.PageConfig, colors []color.RGBA, m Measurer) *Document {
	d := NewDocument(cfg.Padding, cfg.Gap, cfg.Top, m)
	for i, el := range cfg.Elements {
		c := color.RGBA{A: 255}
		if i < len(colors) {
			c = colors[i]
		}
		d.Add(NewElement(el.ID, el.Text, Style{
			FontWeight:    el.FontWeight,
			FontSize:      el.FontSize,
			LetterSpacing: el.LetterSpacing,
			LineHeight:    el.LineHeight,
			WhiteSpace:    el.WhiteSpace,
			TextAlign:     el.TextAlign,
			Color:         c,
		}, el.WidthFraction))
	}
	return d
}

// Add appends an element to the flow. Call Reflow afterwards.
func (d *Document) Add(e *Element) {
	d.elements = append(d.elements, e)
}

// Elements returns the elements in document order.
func (d *Document) Elements() []*Element {
	return d.elements
}

// Element returns the element with the given ID, or nil.
func (d *Document) Element(id string) *Element {
	for _, e := range d.elements {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Reflow recomputes every element's box for a new viewport.
func (d *Document) Reflow(viewportW, viewportH float64) {
	d.viewport = Rect{Width: viewportW, Height: viewportH}
	content := viewportW - 2*d.padding
	if content < 0 {
		content = 0
	}

	y := d.top
	for _, e := range d.elements {
		w := content * e.widthFraction
		h := 0.0
		if d.measurer != nil && w > 0 {
			h = d.measurer.MeasureHeight(e.text, e.style, w)
		}
		e.layout = Rect{Left: d.padding, Top: y, Width: w, Height: h}
		y += h + d.gap
	}
	if len(d.elements) > 0 {
		y -= d.gap
	}
	d.height = y + d.padding
}

// Height returns the document height after the last reflow.
func (d *Document) Height() float64 {
	return d.height
}

// ScrollLimit returns the largest useful scroll offset.
func (d *Document) ScrollLimit() float64 {
	if limit := d.height - d.viewport.Height; limit > 0 {
		return limit
	}
	return 0
}
