package app

import (
	"image/color"

	"github.com/pthm-cable/glyphfield/field"
	"github.com/pthm-cable/glyphfield/interaction"
	"github.com/pthm-cable/glyphfield/typeset"
)

// Surface is where frames end up. Coordinates handed to it are scene units:
// centered on the viewport, +Y up, one unit per logical pixel.
type Surface interface {
	// Size returns the viewport in logical pixels.
	Size() (w, h float64)
	// PixelRatio returns the device pixel ratio before capping.
	PixelRatio() float64
	// Configure is called on every resize with the capped ratio and the
	// orthographic projection.
	Configure(w, h, dpr float64, projection [16]float32)
	// UploadPoints replaces the point positions (xyz triples). version
	// increases with every change.
	UploadPoints(positions []float32, version uint64)
	DrawFrame(f *Frame)
}

// PointStyle describes how the particle field is drawn.
type PointStyle struct {
	Count      int
	Size       float32 // Device pixels
	Color      color.RGBA
	TranslateY float32 // Added to every point's Y when drawing
}

// Extent returns the point size in logical pixels for a pixel ratio. A point
// never shrinks below one device pixel.
func (s PointStyle) Extent(pixelRatio float64) float32 {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	return max(s.Size, 1) / float32(pixelRatio)
}

// ProxyDraw is one text proxy ready to draw. X is the mesh's left edge and Y
// its vertical centre.
type ProxyDraw struct {
	ID      string
	Mesh    *typeset.Mesh
	Version uint64
	X, Y    float64
	Visible bool
}

// Frame is everything the surface needs for one frame.
type Frame struct {
	Number     int32
	Background color.RGBA
	Points     PointStyle
	Proxies    []ProxyDraw

	// Fill is the fraction of the viewport width covered by the progress
	// fill.
	Fill      float64
	FillColor color.RGBA

	Audio AudioState

	Zones         field.ZoneCounts
	Pointer       interaction.Position
	PointerActive bool
	Scroll        float64
}

// FillRect returns the progress fill for a w by h viewport. It spans the full
// height and grows left to right.
func (f Frame) FillRect(w, h float64) (x, y, fw, fh float64) {
	return 0, 0, min(max(f.Fill, 0), 1) * w, h
}

// AudioState drives the play/pause control.
type AudioState struct {
	Available bool
	Playing   bool
}
