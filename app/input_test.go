package app

import (
	"testing"

	"github.com/pthm-cable/glyphfield/interaction"
)

func touchAt(y float32) []interaction.Touch {
	return []interaction.Touch{{ID: 0, X: 640, Y: y}}
}

func TestTouchDragDoesNotScroll(t *testing.T) {
	a, _ := newTestApp(t, 1280, 800, nil)
	before := a.Context().Scroll.Target()

	var g TouchGesture
	for _, y := range []float32{500, 300, 100} {
		g.Move(a, touchAt(y))
	}
	a.Step(1.0 / 60)

	if got := a.Context().Scroll.Target(); got != before {
		t.Errorf("touch drag scrolled the page: target %f -> %f", before, got)
	}
	if !a.tracker.Active() {
		t.Error("touch should drive the interaction position")
	}
	if got := a.tracker.Position(); got.Y != 300 {
		t.Errorf("expected position to follow the last touch, got %+v", got)
	}

	g.Move(a, nil)
	if g.Active() || a.tracker.Active() {
		t.Error("empty touch list should end the gesture and park the position")
	}

	// The page itself can scroll, so the assertion above is meaningful.
	a.Drag(200)
	if a.Context().Scroll.Target() == before {
		t.Fatal("expected a direct drag to scroll the page")
	}
}

// gestureRecorder leaves gestures to the page when owns is false.
type gestureRecorder struct {
	Handler
	owns  bool
	drags []float64
	moves int
	ends  int
}

func (r *gestureRecorder) TouchMove([]interaction.Touch) bool {
	r.moves++
	return r.owns
}

func (r *gestureRecorder) TouchEnd() { r.ends++ }

func (r *gestureRecorder) Drag(dy float64) { r.drags = append(r.drags, dy) }

func TestTouchGesture(t *testing.T) {
	tests := []struct {
		name  string
		owns  bool
		drags []float64
	}{
		{"owned", true, nil},
		{"unowned", false, []float64{200, 150}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &gestureRecorder{owns: tt.owns}
			var g TouchGesture
			for _, y := range []float32{500, 300, 150} {
				g.Move(r, touchAt(y))
			}
			g.End(r)
			g.End(r)

			if r.moves != 3 || r.ends != 1 {
				t.Errorf("expected 3 moves and 1 end, got %d and %d", r.moves, r.ends)
			}
			if len(r.drags) != len(tt.drags) {
				t.Fatalf("expected drags %v, got %v", tt.drags, r.drags)
			}
			for i := range tt.drags {
				if r.drags[i] != tt.drags[i] {
					t.Errorf("drag %d: got %f, want %f", i, r.drags[i], tt.drags[i])
				}
			}
		})
	}
}
