// Package typeset lays out and rasterizes blocks of styled text.
//
// Advances come from HarfBuzz shaping (go-text/typesetting) so kerning
// matches what a browser would produce; glyph coverage is drawn with
// golang.org/x/image into an RGBA image ready for upload as a texture.
package typeset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

var (
	// ErrEmptyText is returned when there is nothing to lay out.
	ErrEmptyText = errors.New("typeset: empty text")
	// ErrInvalidSize is returned for non-positive font sizes.
	ErrInvalidSize = errors.New("typeset: invalid font size")
)

// White-space modes.
const (
	WhiteSpaceNormal  = "normal"
	WhiteSpaceNoWrap  = "nowrap"
	WhiteSpacePre     = "pre"
	WhiteSpacePreWrap = "pre-wrap"
)

// Params fully determines a mesh. Two equal Params produce identical meshes.
type Params struct {
	Text          string
	Family        string
	Size          float64 // Pixels
	MaxWidth      float64 // Wrap width in pixels (0 = unbounded)
	Align         string
	LetterSpacing float64 // Fraction of Size
	LineHeight    float64 // Multiple of Size
	WhiteSpace    string
	Color         color.RGBA
}

// Line is one laid-out line.
type Line struct {
	Text     string
	X        float64 // Offset from the box's left edge after alignment
	Width    float64
	Baseline float64 // Offset from the box's top edge
}

// Layout is the geometry of a block of text.
type Layout struct {
	Lines  []Line
	Width  float64 // Box width
	Height float64
}

// Mesh is the shaped, rasterized result of a Params.
type Mesh struct {
	Layout
	Image  *image.RGBA
	Params Params
}

// FontSource supplies raw font bytes for shaping and faces for drawing.
// *fonts.Library satisfies it.
type FontSource interface {
	Source(family string) ([]byte, error)
	Face(family string, size float64) (font.Face, error)
}

// Shaper lays out and draws text. Shaped runs are cached per word so that
// laying the same text out at a new width never shapes again. It is safe for
// concurrent use.
type Shaper struct {
	src  FontSource
	pool sync.Pool // *shaping.HarfbuzzShaper

	mu    sync.RWMutex
	fonts map[string]*gtfont.Font
	runs  map[runKey]*run

	shapeCalls atomic.Uint64
}

type runKey struct {
	family string
	size   float64
	text   string
}

// run is one shaped word.
type run struct {
	runes   []rune
	glyphs  []shaping.Glyph
	advance float64 // Sum of glyph advances, without letter spacing
}

func (r *run) width(spacing float64) float64 {
	return r.advance + spacing*float64(len(r.glyphs))
}

// NewShaper creates a shaper over a font source.
func NewShaper(src FontSource) *Shaper {
	return &Shaper{
		src: src,
		pool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
		fonts: make(map[string]*gtfont.Font),
		runs:  make(map[runKey]*run),
	}
}

// ShapeCalls returns how many runs have been shaped so far.
func (s *Shaper) ShapeCalls() uint64 {
	return s.shapeCalls.Load()
}

// ClearCache drops every cached run.
func (s *Shaper) ClearCache() {
	s.mu.Lock()
	s.runs = make(map[runKey]*run)
	s.mu.Unlock()
}

// Shape lays out and rasterizes p.
func (s *Shaper) Shape(p Params) (*Mesh, error) {
	l, err := s.Layout(p)
	if err != nil {
		return nil, err
	}
	img, err := s.draw(p, l)
	if err != nil {
		return nil, err
	}
	return &Mesh{Layout: *l, Image: img, Params: p}, nil
}

// ShapeAsync shapes p on a new goroutine and reports the result to done.
func (s *Shaper) ShapeAsync(p Params, done func(*Mesh, error)) {
	go func() {
		m, err := s.Shape(p)
		done(m, err)
	}()
}

// Layout breaks p's text into lines and aligns them without drawing.
func (s *Shaper) Layout(p Params) (*Layout, error) {
	if p.Size <= 0 {
		return nil, ErrInvalidSize
	}
	paras := paragraphs(p.Text, p.WhiteSpace)
	if len(paras) == 0 {
		return nil, ErrEmptyText
	}

	m := &measurer{s: s, family: p.Family, size: p.Size, spacing: p.LetterSpacing * p.Size}
	space, err := m.run(" ")
	if err != nil {
		return nil, err
	}
	m.space = space.width(m.spacing)

	wrap := p.MaxWidth > 0 && (p.WhiteSpace == "" || p.WhiteSpace == WhiteSpaceNormal || p.WhiteSpace == WhiteSpacePreWrap)
	var lines []Line
	for _, para := range paras {
		var ls []Line
		if wrap {
			ls, err = m.wrap(para, p.MaxWidth)
		} else {
			var w float64
			w, err = m.width(para)
			ls = []Line{{Text: para, Width: w}}
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, ls...)
	}

	widest := 0.0
	for _, ln := range lines {
		widest = math.Max(widest, ln.Width)
	}
	boxW := widest
	if p.MaxWidth > 0 {
		boxW = math.Max(p.MaxWidth, widest)
	}

	lh := lineHeight(p)
	ascent, descent, err := s.metrics(p.Family, p.Size)
	if err != nil {
		return nil, err
	}
	halfLeading := (lh - (ascent + descent)) / 2
	for i := range lines {
		lines[i].X = alignOffset(p.Align, boxW, lines[i].Width)
		lines[i].Baseline = float64(i)*lh + halfLeading + ascent
	}

	return &Layout{Lines: lines, Width: boxW, Height: lh * float64(len(lines))}, nil
}

// MeasureHeight returns the laid-out height of p, or 0 if it cannot be laid out.
func (s *Shaper) MeasureHeight(p Params) float64 {
	l, err := s.Layout(p)
	if err != nil {
		return 0
	}
	return l.Height
}

func (s *Shaper) font(family string) (*gtfont.Font, error) {
	s.mu.RLock()
	f, ok := s.fonts[family]
	s.mu.RUnlock()
	if ok {
		return f, nil
	}

	data, err := s.src.Source(family)
	if err != nil {
		return nil, err
	}
	face, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %q for shaping: %w", family, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.fonts[family]; ok {
		return f, nil
	}
	s.fonts[family] = face.Font
	return face.Font, nil
}

func (s *Shaper) metrics(family string, size float64) (ascent, descent float64, err error) {
	face, err := s.src.Face(family, size)
	if err != nil {
		return 0, 0, err
	}
	defer face.Close()
	m := face.Metrics()
	return fixedToFloat(m.Ascent), fixedToFloat(m.Descent), nil
}

// run returns the shaped run for one word, shaping it on first use.
func (s *Shaper) run(family string, size float64, text string) (*run, error) {
	key := runKey{family: family, size: size, text: text}
	s.mu.RLock()
	r, ok := s.runs[key]
	s.mu.RUnlock()
	if ok {
		return r, nil
	}

	f, err := s.font(family)
	if err != nil {
		return nil, err
	}
	r = &run{runes: []rune(text)}
	if len(r.runes) > 0 {
		in := shaping.Input{
			Text:      r.runes,
			RunStart:  0,
			RunEnd:    len(r.runes),
			Direction: di.DirectionLTR,
			Face:      gtfont.NewFace(f),
			Size:      floatToFixed(size),
			Script:    detectScript(r.runes),
			Language:  language.NewLanguage("en"),
		}
		hb := s.pool.Get().(*shaping.HarfbuzzShaper)
		out := hb.Shape(in)
		s.pool.Put(hb)
		s.shapeCalls.Add(1)

		r.glyphs = out.Glyphs
		for _, g := range r.glyphs {
			r.advance += fixedToFloat(g.Advance)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.runs[key]; ok {
		return existing, nil
	}
	s.runs[key] = r
	return r, nil
}

// draw rasterizes a layout into an RGBA image sized to the box.
func (s *Shaper) draw(p Params, l *Layout) (*image.RGBA, error) {
	w := int(math.Ceil(l.Width))
	h := int(math.Ceil(l.Height))
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))

	xface, err := s.src.Face(p.Family, p.Size)
	if err != nil {
		return nil, err
	}
	defer xface.Close()
	spacing := p.LetterSpacing * p.Size
	space, err := s.run(p.Family, p.Size, " ")
	if err != nil {
		return nil, err
	}
	src := image.NewUniform(p.Color)

	for _, ln := range l.Lines {
		pen := ln.X
		for i, word := range strings.Split(ln.Text, " ") {
			if i > 0 {
				pen += space.width(spacing)
			}
			r, err := s.run(p.Family, p.Size, word)
			if err != nil {
				return nil, err
			}
			for _, g := range r.glyphs {
				start := g.TextIndex()
				end := min(start+max(g.RunesCount(), 1), len(r.runes))
				// Clusters covering several runes (ligatures) are drawn rune
				// by rune inside the cluster's advance.
				sub := pen + fixedToFloat(g.XOffset)
				for _, c := range r.runes[start:end] {
					if unicode.IsSpace(c) {
						continue
					}
					dot := fixed.Point26_6{
						X: floatToFixed(sub),
						Y: floatToFixed(ln.Baseline - fixedToFloat(g.YOffset)),
					}
					dr, mask, mp, adv, ok := xface.Glyph(dot, c)
					if !ok {
						continue
					}
					draw.DrawMask(img, dr, src, image.Point{}, mask, mp, draw.Over)
					sub += fixedToFloat(adv)
				}
				pen += fixedToFloat(g.Advance) + spacing
			}
		}
	}
	return img, nil
}

// measurer accumulates word widths for one family and size.
type measurer struct {
	s       *Shaper
	family  string
	size    float64
	spacing float64
	space   float64
}

func (m *measurer) run(word string) (*run, error) {
	return m.s.run(m.family, m.size, word)
}

func (m *measurer) width(text string) (float64, error) {
	w := 0.0
	for i, word := range strings.Split(text, " ") {
		if i > 0 {
			w += m.space
		}
		r, err := m.run(word)
		if err != nil {
			return 0, err
		}
		w += r.width(m.spacing)
	}
	return w, nil
}

// wrap greedily fills lines up to maxWidth. Words wider than maxWidth get a
// line of their own and overflow.
func (m *measurer) wrap(para string, maxWidth float64) ([]Line, error) {
	words := strings.Split(para, " ")
	var lines []Line
	cur := Line{Text: words[0]}
	r, err := m.run(words[0])
	if err != nil {
		return nil, err
	}
	cur.Width = r.width(m.spacing)

	for _, word := range words[1:] {
		r, err := m.run(word)
		if err != nil {
			return nil, err
		}
		ww := r.width(m.spacing)
		if next := cur.Width + m.space + ww; next <= maxWidth {
			cur.Text += " " + word
			cur.Width = next
			continue
		}
		lines = append(lines, cur)
		cur = Line{Text: word, Width: ww}
	}
	return append(lines, cur), nil
}

// paragraphs applies white-space processing and splits hard line breaks.
func paragraphs(text, mode string) []string {
	switch mode {
	case WhiteSpacePre, WhiteSpacePreWrap:
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	default:
		collapsed := strings.Join(strings.Fields(text), " ")
		if collapsed == "" {
			return nil
		}
		return []string{collapsed}
	}
}

func lineHeight(p Params) float64 {
	if p.LineHeight <= 0 {
		return p.Size * 1.2
	}
	return p.LineHeight * p.Size
}

func alignOffset(align string, boxW, lineW float64) float64 {
	switch align {
	case "center":
		return (boxW - lineW) / 2
	case "right", "end":
		return boxW - lineW
	default:
		return 0
	}
}

func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if unicode.IsSpace(r) {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
