package field

import (
	"image/color"
	"math"
	"math/rand"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/glyphfield/raster"
)

func rasterize(t *testing.T, text string, size float64) *raster.GlyphRaster {
	t.Helper()
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		t.Fatal(err)
	}
	defer face.Close()
	r, err := raster.Rasterize(text, face, size, color.RGBA{R: 255, A: 255})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestBuildPointFieldConvention(t *testing.T) {
	// 4x2 raster with two opaque pixels.
	r := &raster.GlyphRaster{
		Width:  4,
		Height: 2,
		Alpha: []uint8{
			0, 200, 0, 0,
			0, 0, 0, 129,
		},
	}
	pf := BuildPointField(r, DefaultThreshold, 1)
	if pf.Len() != 2 {
		t.Fatalf("expected 2 points, got %d", pf.Len())
	}

	x, y, z := pf.At(0)
	if x != -1 || y != 1 || z != 0 {
		t.Errorf("point 0 = (%v,%v,%v), want (-1,1,0)", x, y, z)
	}
	x, y, _ = pf.At(1)
	if x != 1 || y != 0 {
		t.Errorf("point 1 = (%v,%v), want (1,0)", x, y)
	}
}

func TestBuildPointFieldThresholdIsExclusive(t *testing.T) {
	r := &raster.GlyphRaster{Width: 2, Height: 1, Alpha: []uint8{128, 255}}
	if n := BuildPointField(r, DefaultThreshold, 1).Len(); n != 1 {
		t.Errorf("alpha == threshold must be dropped, got %d points", n)
	}
}

func TestBuildPointFieldStride(t *testing.T) {
	r := &raster.GlyphRaster{Width: 4, Height: 4, Alpha: make([]uint8, 16)}
	for i := range r.Alpha {
		r.Alpha[i] = 255
	}
	if n := BuildPointField(r, DefaultThreshold, 2).Len(); n != 4 {
		t.Errorf("stride 2 over 4x4 should keep 4 points, got %d", n)
	}
}

func TestBuildPointFieldEmptyRaster(t *testing.T) {
	r := rasterize(t, "   ", 40)
	pf := BuildPointField(r, DefaultThreshold, 1)
	if pf.Len() != 0 {
		t.Fatalf("expected no points, got %d", pf.Len())
	}

	buf := NewRenderBuffer(pf)
	counts := Displace(pf, buf, DefaultInteraction(0, 0), 0, rand.New(rand.NewSource(1)))
	if counts.Total() != 0 || buf.Len() != 0 {
		t.Error("displacing an empty field should be a no-op")
	}
}

func TestEndToEndFieldWithinRasterBounds(t *testing.T) {
	r := rasterize(t, "A\nB", 100)
	if r.Height != 200 {
		t.Fatalf("expected 2-line raster of height 200, got %d", r.Height)
	}
	pf := BuildPointField(r, DefaultThreshold, 1)
	if pf.Len() == 0 {
		t.Fatal("expected a non-empty point field")
	}

	halfW, halfH := float32(r.Width)/2, float32(r.Height)/2
	minX, minY, maxX, maxY := pf.Bounds()
	if minX < -halfW || maxX > halfW || minY < -halfH || maxY > halfH {
		t.Errorf("bounds (%v,%v)-(%v,%v) exceed raster half-extents %v x %v",
			minX, minY, maxX, maxY, halfW, halfH)
	}
}

func TestRebuildIsIdempotent(t *testing.T) {
	a := BuildPointField(rasterize(t, "The words", 64), DefaultThreshold, 1)
	b := BuildPointField(rasterize(t, "The words", 64), DefaultThreshold, 1)
	if a.Len() != b.Len() {
		t.Fatalf("lengths differ: %d vs %d", a.Len(), b.Len())
	}
	if !a.Equal(b) {
		t.Error("rebuilt fields differ in origin coordinates or order")
	}
}

func TestHoldZoneSnapsToOrigin(t *testing.T) {
	pf := BuildPointField(rasterize(t, "AB", 80), DefaultThreshold, 1)
	buf := NewRenderBuffer(pf)
	rng := rand.New(rand.NewSource(7))

	// Interaction exactly at a point's origin.
	px, py, _ := pf.At(pf.Len() / 2)
	in := DefaultInteraction(px, py)
	for frame := 0; frame < 10; frame++ {
		Displace(pf, buf, in, 0, rng)

		pos := buf.Positions()
		for i := 0; i < pf.Len(); i++ {
			ox, oy, _ := pf.At(i)
			d := math.Hypot(float64(ox-in.X), float64(oy-in.Y))
			// Stay clear of the boundary where float32 and float64 distances may disagree.
			if d >= float64(in.Inner)-0.01 {
				continue
			}
			if pos[i*3] != ox || pos[i*3+1] != oy {
				t.Fatalf("frame %d: point %d at distance %.1f moved to (%v,%v) from (%v,%v)",
					frame, i, d, pos[i*3], pos[i*3+1], ox, oy)
			}
		}
	}
}

func TestAmbientJitterBounded(t *testing.T) {
	pf := BuildPointField(rasterize(t, "AB", 60), DefaultThreshold, 1)
	buf := NewRenderBuffer(pf)
	rng := rand.New(rand.NewSource(3))
	in := DefaultInteraction(-9999, -9999)

	var dxs []float64
	for frame := 0; frame < 50; frame++ {
		counts := Displace(pf, buf, in, 0, rng)
		if counts.Ambient != pf.Len() {
			t.Fatalf("sentinel interaction: expected all %d points ambient, got %+v", pf.Len(), counts)
		}
		pos := buf.Positions()
		for i := 0; i < pf.Len(); i++ {
			ox, oy, _ := pf.At(i)
			dx, dy := pos[i*3]-ox, pos[i*3+1]-oy
			if math.Abs(float64(dx)) > AmbientMagnitude/2 || math.Abs(float64(dy)) > AmbientMagnitude/2 {
				t.Fatalf("ambient displacement (%v,%v) exceeds %v", dx, dy, AmbientMagnitude/2)
			}
			dxs = append(dxs, float64(dx))
		}
	}

	// Uniform on [-5,5): mean ~0, stddev ~10/sqrt(12).
	mean, std := stat.MeanStdDev(dxs, nil)
	if math.Abs(mean) > 0.1 {
		t.Errorf("ambient jitter mean %.3f, expected ~0", mean)
	}
	if want := AmbientMagnitude / math.Sqrt(12); math.Abs(std-want) > 0.1 {
		t.Errorf("ambient jitter stddev %.3f, expected ~%.3f", std, want)
	}
}

func TestAxesDrawIndependently(t *testing.T) {
	pf := NewPointField([]float32{0, 0, 0})
	buf := NewRenderBuffer(pf)
	rng := rand.New(rand.NewSource(11))
	in := DefaultInteraction(-9999, -9999)

	same := 0
	for frame := 0; frame < 200; frame++ {
		Displace(pf, buf, in, 0, rng)
		if p := buf.Positions(); p[0] == p[1] {
			same++
		}
	}
	if same > 2 {
		t.Errorf("x and y displacements matched in %d/200 frames; axes share a draw", same)
	}
}

func TestFalloffZoneWithinEnvelope(t *testing.T) {
	pf := NewPointField([]float32{100, 0, 0})
	buf := NewRenderBuffer(pf)
	rng := rand.New(rand.NewSource(5))
	in := DefaultInteraction(0, 0) // d = 100, inside [55, 135)

	limit := Envelope(100, in.Inner, in.Outer)
	for frame := 0; frame < 200; frame++ {
		counts := Displace(pf, buf, in, 0, rng)
		if counts.Falloff != 1 {
			t.Fatalf("expected falloff zone, got %+v", counts)
		}
		p := buf.Positions()
		if math.Abs(float64(p[0]-100)) > float64(limit) || math.Abs(float64(p[1])) > float64(limit) {
			t.Fatalf("displacement (%v,%v) exceeds envelope %v", p[0]-100, p[1], limit)
		}
	}
}

func TestTranslationShiftsDistance(t *testing.T) {
	// Origin at y=0, field moved up by 100: world position is (0,100).
	pf := NewPointField([]float32{0, 0, 0})
	buf := NewRenderBuffer(pf)
	counts := Displace(pf, buf, DefaultInteraction(0, 100), 100, rand.New(rand.NewSource(1)))
	if counts.Hold != 1 {
		t.Fatalf("expected hold zone after translation, got %+v", counts)
	}
	if p := buf.Positions(); p[0] != 0 || p[1] != 0 {
		t.Errorf("held point should stay at its origin, got (%v,%v)", p[0], p[1])
	}
}

func TestSmoothstepMonotonic(t *testing.T) {
	inner, outer := float32(HoldRadius), float32(HoldRadius+FalloffWidth)
	prev := Envelope(inner, inner, outer)
	for d := inner + 1; d < outer; d++ {
		e := Envelope(d, inner, outer)
		if e < prev {
			t.Fatalf("envelope decreased from %v to %v at d=%v", prev, e, d)
		}
		prev = e
	}
}

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		x, want float32
	}{
		{-10, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{5, 1},
	}
	for _, tt := range tests {
		if got := Smoothstep(0, 1, tt.x); math.Abs(float64(got-tt.want)) > 1e-6 {
			t.Errorf("Smoothstep(0,1,%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestClassifyZone(t *testing.T) {
	tests := []struct {
		d    float32
		want Zone
	}{
		{0, ZoneHold},
		{54.9, ZoneHold},
		{55, ZoneFalloff},
		{134.9, ZoneFalloff},
		{135, ZoneAmbient},
		{1e6, ZoneAmbient},
	}
	for _, tt := range tests {
		if got := ClassifyZone(tt.d, HoldRadius, HoldRadius+FalloffWidth); got != tt.want {
			t.Errorf("ClassifyZone(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestRenderBufferDirtyFlag(t *testing.T) {
	pf := NewPointField([]float32{1, 2, 0, 3, 4, 0})
	buf := NewRenderBuffer(pf)
	if !buf.Dirty() {
		t.Error("fresh buffer should need an upload")
	}
	buf.MarkUploaded()
	if buf.Dirty() {
		t.Error("buffer should be clean after upload")
	}

	v := buf.Version()
	Displace(pf, buf, DefaultInteraction(-9999, -9999), 0, rand.New(rand.NewSource(1)))
	if buf.Version() != v+1 || !buf.Dirty() {
		t.Error("Displace should bump the version and mark the buffer dirty")
	}
	if buf.Len() != pf.Len() {
		t.Errorf("buffer length %d != field length %d", buf.Len(), pf.Len())
	}
}
