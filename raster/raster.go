// Package raster draws multi-line text into an offscreen alpha raster.
package raster

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ErrNoFace is returned when rasterizing without a font face.
var ErrNoFace = errors.New("raster: no font face")

// GlyphRaster is a width x height grid of alpha samples produced for one
// (text, font, size, color) tuple. It is never modified after creation.
type GlyphRaster struct {
	Width, Height int
	Alpha         []uint8 // Row-major, len = Width*Height
	FontSize      float64
	Lines         int
	Color         color.RGBA
}

// AlphaAt returns the alpha sample at (x, y), or 0 outside the raster.
func (r *GlyphRaster) AlphaAt(x, y int) uint8 {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return 0
	}
	return r.Alpha[y*r.Width+x]
}

// Image returns the raster as an *image.Alpha (shares no memory).
func (r *GlyphRaster) Image() *image.Alpha {
	img := image.NewAlpha(image.Rect(0, 0, r.Width, r.Height))
	copy(img.Pix, r.Alpha)
	return img
}

// Sizing controls the viewport-dependent font size.
type Sizing struct {
	SmallViewport     float64 // Breakpoint in pixels
	SmallFontFraction float64 // Fraction of viewport width below the breakpoint
	LargeFontFraction float64
}

// DefaultSizing matches the shipped configuration.
func DefaultSizing() Sizing {
	return Sizing{SmallViewport: 768, SmallFontFraction: 0.25, LargeFontFraction: 0.1}
}

// FontSize returns the font size for a viewport width. Narrow viewports devote
// a larger fraction of their width to the font to stay legible.
func (s Sizing) FontSize(viewportWidth float64) float64 {
	if viewportWidth < s.SmallViewport {
		return viewportWidth * s.SmallFontFraction
	}
	return viewportWidth * s.LargeFontFraction
}

// Rasterize draws text (lines split on '\n') top- and left-aligned, one
// fontSize per line. The raster is the tightest box covering every line:
// width is the widest measured line, height is fontSize x line count.
func Rasterize(text string, face font.Face, fontSize float64, fill color.RGBA) (*GlyphRaster, error) {
	if face == nil {
		return nil, ErrNoFace
	}

	lines := strings.Split(text, "\n")
	var maxW fixed.Int26_6
	for _, line := range lines {
		if w := font.MeasureString(face, line); w > maxW {
			maxW = w
		}
	}
	width := int(math.Ceil(fixedToFloat(maxW)))
	height := int(math.Ceil(fontSize * float64(len(lines))))

	r := &GlyphRaster{
		Width:    width,
		Height:   height,
		FontSize: fontSize,
		Lines:    len(lines),
		Color:    fill,
	}
	if width <= 0 || height <= 0 {
		r.Width, r.Height = max(width, 0), max(height, 0)
		r.Alpha = make([]uint8, r.Width*r.Height)
		return r, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)

	// Top baseline: the em box top of line i sits at i*fontSize.
	ascent := face.Metrics().Ascent
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fill),
		Face: face,
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		drawer.Dot = fixed.Point26_6{
			X: 0,
			Y: floatToFixed(float64(i)*fontSize) + ascent,
		}
		drawer.DrawString(line)
	}

	r.Alpha = make([]uint8, width*height)
	for y := 0; y < height; y++ {
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < width; x++ {
			r.Alpha[y*width+x] = row[x*4+3]
		}
	}
	return r, nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
