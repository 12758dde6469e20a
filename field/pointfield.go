// Package field turns a glyph raster into a point cloud and displaces that
// cloud every frame relative to the interaction position.
package field

import "github.com/pthm-cable/glyphfield/raster"

// DefaultThreshold is the alpha a pixel must exceed to become a point.
const DefaultThreshold = 128

// PointField holds the rest positions of every particle as a flat xyz buffer.
// The field is centered on the origin with +Y up. It is never modified after
// BuildPointField returns.
type PointField struct {
	origins []float32
	width   int // Source raster size
	height  int
}

// BuildPointField scans the raster top-to-bottom, left-to-right at the given
// stride and emits (x - w/2, -(y - h/2), 0) for every pixel whose alpha
// exceeds threshold. The result is deterministic for a given raster.
func BuildPointField(r *raster.GlyphRaster, threshold uint8, stride int) PointField {
	if stride < 1 {
		stride = 1
	}
	pf := PointField{width: r.Width, height: r.Height}
	if r.Width == 0 || r.Height == 0 {
		return pf
	}

	halfW := float32(r.Width) / 2
	halfH := float32(r.Height) / 2
	pos := make([]float32, 0, 3*len(r.Alpha)/8)
	for y := 0; y < r.Height; y += stride {
		row := r.Alpha[y*r.Width : (y+1)*r.Width]
		for x := 0; x < r.Width; x += stride {
			if row[x] > threshold {
				pos = append(pos, float32(x)-halfW, -(float32(y) - halfH), 0)
			}
		}
	}
	pf.origins = pos
	return pf
}

// NewPointField wraps an existing xyz buffer. len(xyz) must be a multiple of 3.
func NewPointField(xyz []float32) PointField {
	return PointField{origins: xyz[:len(xyz)-len(xyz)%3]}
}

// Len returns the particle count.
func (p PointField) Len() int {
	return len(p.origins) / 3
}

// At returns the origin of particle i.
func (p PointField) At(i int) (x, y, z float32) {
	j := i * 3
	return p.origins[j], p.origins[j+1], p.origins[j+2]
}

// Origins exposes the flat buffer read-only by convention.
func (p PointField) Origins() []float32 {
	return p.origins
}

// RasterSize returns the dimensions of the raster the field came from.
func (p PointField) RasterSize() (w, h int) {
	return p.width, p.height
}

// Bounds returns the axis-aligned extent of the field.
func (p PointField) Bounds() (minX, minY, maxX, maxY float32) {
	if p.Len() == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = p.origins[0], p.origins[1]
	maxX, maxY = minX, minY
	for i := 3; i < len(p.origins); i += 3 {
		x, y := p.origins[i], p.origins[i+1]
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return
}

// Equal reports whether both fields hold identical origins in identical order.
func (p PointField) Equal(o PointField) bool {
	if len(p.origins) != len(o.origins) {
		return false
	}
	for i := range p.origins {
		if p.origins[i] != o.origins[i] {
			return false
		}
	}
	return true
}
