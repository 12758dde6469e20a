package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 1, 2)

	if cam.Left != -640 || cam.Right != 640 || cam.Top != 360 || cam.Bottom != -360 {
		t.Errorf("unexpected extents (%f,%f,%f,%f)", cam.Left, cam.Right, cam.Top, cam.Bottom)
	}
	if cam.Z != 1 || cam.Near != 0.1 || cam.Far != 1000 {
		t.Errorf("unexpected camera planes z=%f near=%f far=%f", cam.Z, cam.Near, cam.Far)
	}
}

func TestPixelRatioCapped(t *testing.T) {
	tests := []struct {
		dpr, want float32
	}{
		{1, 1},
		{1.5, 1.5},
		{2, 2},
		{3, 2},
		{0.5, 1},
	}
	for _, tt := range tests {
		cam := New(800, 600, tt.dpr, 2)
		if cam.PixelRatio != tt.want {
			t.Errorf("dpr %v: expected %v, got %v", tt.dpr, tt.want, cam.PixelRatio)
		}
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 1, 2)

	// Scene origin maps to screen center
	sx, sy := cam.WorldToScreen(0, 0)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}

	// +Y is up
	_, sy = cam.WorldToScreen(0, 100)
	if sy != 260 {
		t.Errorf("expected y=260 for scene y=100, got %f", sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 1, 2)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestResizeRoundTrip(t *testing.T) {
	cam := New(1280, 720, 1, 2)
	orig := *cam

	cam.Resize(375, 812, 3)
	if cam.Right != 187.5 || cam.PixelRatio != 2 {
		t.Errorf("unexpected state after resize: right=%f ratio=%f", cam.Right, cam.PixelRatio)
	}

	cam.Resize(1280, 720, 1)
	if *cam != orig {
		t.Errorf("resize A->B->A drifted: %+v vs %+v", *cam, orig)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 1, 2)

	if !cam.IsVisible(0, 0, 10, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(0, 2000, 10, 10) {
		t.Error("point far above should not be visible")
	}
	if !cam.IsVisible(700, 0, 100, 10) {
		t.Error("edge rectangle with large half-width should be visible")
	}
}

func TestProjectionMapsExtentsToClip(t *testing.T) {
	cam := New(800, 600, 1, 2)
	m := cam.Projection()

	// x' = m[0]*x + m[12]
	if got := m[0]*cam.Right + m[12]; math.Abs(float64(got-1)) > 1e-6 {
		t.Errorf("right edge maps to %f, want 1", got)
	}
	if got := m[5]*cam.Bottom + m[13]; math.Abs(float64(got+1)) > 1e-6 {
		t.Errorf("bottom edge maps to %f, want -1", got)
	}
}
