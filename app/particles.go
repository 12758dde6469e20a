package app

import (
	"fmt"
	"image/color"

	"github.com/pthm-cable/glyphfield/config"
	"github.com/pthm-cable/glyphfield/field"
	"github.com/pthm-cable/glyphfield/fonts"
	"github.com/pthm-cable/glyphfield/raster"
)

// Particles owns the particle text: its raster, rest positions and the
// per-frame render buffer.
type Particles struct {
	fonts     *fonts.Library
	text      string
	family    string
	color     color.RGBA
	sizing    raster.Sizing
	threshold uint8
	stride    int

	Raster *raster.GlyphRaster
	Field  field.PointField
	Buffer *field.RenderBuffer
}

// NewParticles creates the particle text from config. Nothing is rasterized
// until the first Rebuild.
func NewParticles(lib *fonts.Library, cfg *config.Config) *Particles {
	p := cfg.Particles
	return &Particles{
		fonts:  lib,
		text:   p.Text,
		family: p.FontFamily,
		color:  cfg.Derived.ParticleColor,
		sizing: raster.Sizing{
			SmallViewport:     p.SmallViewport,
			SmallFontFraction: p.SmallFontFraction,
			LargeFontFraction: p.LargeFontFraction,
		},
		threshold: uint8(p.AlphaThreshold),
		stride:    p.Stride,
	}
}

// Family returns the font family the text is drawn with.
func (p *Particles) Family() string {
	return p.family
}

// FontSize returns the size of the current raster, or 0 before the first build.
func (p *Particles) FontSize() float64 {
	if p.Raster == nil {
		return 0
	}
	return p.Raster.FontSize
}

// Rebuild rasterizes the text for a viewport width and regenerates the point
// field. It reports false without touching anything when the font size is
// unchanged, since the raster would come out identical.
func (p *Particles) Rebuild(viewportW float64) (bool, error) {
	size := p.sizing.FontSize(viewportW)
	if p.Raster != nil && p.Raster.FontSize == size {
		return false, nil
	}

	face, err := p.fonts.Face(p.family, size)
	if err != nil {
		return false, fmt.Errorf("particle face: %w", err)
	}
	defer face.Close()
	r, err := raster.Rasterize(p.text, face, size, p.color)
	if err != nil {
		return false, fmt.Errorf("rasterizing particle text: %w", err)
	}

	p.Raster = r
	p.Field = field.BuildPointField(r, p.threshold, p.stride)
	p.Buffer = field.NewRenderBuffer(p.Field)
	return true, nil
}
