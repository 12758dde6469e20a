package raster

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var orange = color.RGBA{R: 0xff, G: 0x57, B: 0x33, A: 0xff}

func testFace(t *testing.T, size float64) font.Face {
	t.Helper()
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = face.Close() })
	return face
}

func TestFontSize(t *testing.T) {
	s := DefaultSizing()
	tests := []struct {
		name string
		vw   float64
		want float64
	}{
		{"small viewport", 400, 100},
		{"just below breakpoint", 767, 191.75},
		{"at breakpoint", 768, 76.8},
		{"desktop", 1280, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.FontSize(tt.vw); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("FontSize(%v) = %v, want %v", tt.vw, got, tt.want)
			}
		})
	}
}

func TestRasterizeDimensions(t *testing.T) {
	face := testFace(t, 100)
	r, err := Rasterize("A\nB", face, 100, orange)
	if err != nil {
		t.Fatal(err)
	}

	if r.Height != 200 {
		t.Errorf("expected height 200 for 2 lines at 100px, got %d", r.Height)
	}
	wA := font.MeasureString(face, "A").Ceil()
	wB := font.MeasureString(face, "B").Ceil()
	if want := max(wA, wB); r.Width != want && r.Width != want-1 {
		t.Errorf("expected width ~%d (widest line), got %d", want, r.Width)
	}
	if len(r.Alpha) != r.Width*r.Height {
		t.Errorf("alpha buffer length %d != %d", len(r.Alpha), r.Width*r.Height)
	}
	if r.Lines != 2 {
		t.Errorf("expected 2 lines, got %d", r.Lines)
	}
}

func TestRasterizeHasOpaquePixels(t *testing.T) {
	r, err := Rasterize("AB", testFace(t, 64), 64, orange)
	if err != nil {
		t.Fatal(err)
	}
	opaque := 0
	for _, a := range r.Alpha {
		if a > 128 {
			opaque++
		}
	}
	if opaque == 0 {
		t.Error("expected opaque glyph pixels")
	}
}

func TestRasterizeLinesAreTopAligned(t *testing.T) {
	// Second line only: first band must stay empty.
	r, err := Rasterize(" \nH", testFace(t, 50), 50, orange)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 50; y++ {
		for x := 0; x < r.Width; x++ {
			if r.AlphaAt(x, y) != 0 {
				t.Fatalf("unexpected ink at (%d,%d) in the blank first line", x, y)
			}
		}
	}
	ink := false
	for y := 50; y < 100 && !ink; y++ {
		for x := 0; x < r.Width; x++ {
			if r.AlphaAt(x, y) > 0 {
				ink = true
				break
			}
		}
	}
	if !ink {
		t.Error("expected ink in the second line band")
	}
}

func TestRasterizeWhitespaceOnly(t *testing.T) {
	r, err := Rasterize("   ", testFace(t, 40), 40, orange)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range r.Alpha {
		if a != 0 {
			t.Fatal("whitespace-only text should produce a transparent raster")
		}
	}
}

func TestRasterizeEmpty(t *testing.T) {
	r, err := Rasterize("", testFace(t, 40), 40, orange)
	if err != nil {
		t.Fatal(err)
	}
	if r.Width != 0 || len(r.Alpha) != 0 {
		t.Errorf("expected zero-width raster, got %dx%d", r.Width, r.Height)
	}
}

func TestRasterizeNoFace(t *testing.T) {
	if _, err := Rasterize("A", nil, 10, orange); !errors.Is(err, ErrNoFace) {
		t.Errorf("expected ErrNoFace, got %v", err)
	}
}

func TestAlphaAtOutOfBounds(t *testing.T) {
	r := &GlyphRaster{Width: 2, Height: 2, Alpha: []uint8{1, 2, 3, 4}}
	if r.AlphaAt(-1, 0) != 0 || r.AlphaAt(2, 0) != 0 || r.AlphaAt(0, 2) != 0 {
		t.Error("expected 0 outside the raster")
	}
	if r.AlphaAt(1, 1) != 4 {
		t.Errorf("expected 4 at (1,1), got %d", r.AlphaAt(1, 1))
	}
	if img := r.Image(); img.AlphaAt(1, 0).A != 2 {
		t.Error("Image() does not match the alpha buffer")
	}
}
