package scroll

import (
	"math"
	"testing"
)

func TestWheelClampsToLimit(t *testing.T) {
	s := NewSmoother(1.2, 60)
	s.SetLimit(500)

	s.Wheel(-3)
	if s.Target() != 0 {
		t.Errorf("expected target clamped to 0, got %f", s.Target())
	}
	s.Wheel(5)
	if s.Target() != 300 {
		t.Errorf("expected target 300, got %f", s.Target())
	}
	s.Wheel(100)
	if s.Target() != 500 {
		t.Errorf("expected target clamped to 500, got %f", s.Target())
	}
}

func TestTickEasesMonotonically(t *testing.T) {
	s := NewSmoother(1.2, 1)
	s.SetLimit(1000)
	s.ScrollTo(800)

	prev := s.Animated()
	for i := 0; i < 30; i++ {
		s.Tick(1.0 / 60)
		if s.Animated() < prev {
			t.Fatalf("animated offset went backwards: %f -> %f", prev, s.Animated())
		}
		if s.Animated() > s.Target() {
			t.Fatalf("animated offset overshot: %f > %f", s.Animated(), s.Target())
		}
		prev = s.Animated()
	}
	if s.Actual() != s.Animated() {
		t.Error("actual offset should follow the animated offset")
	}
}

func TestSettlesWithinDuration(t *testing.T) {
	s := NewSmoother(1.2, 1)
	s.SetLimit(1000)
	s.ScrollTo(1000)

	for elapsed := 0.0; elapsed < 1.2; elapsed += 1.0 / 60 {
		s.Tick(1.0 / 60)
	}
	if math.Abs(s.Animated()-1000) > 1.5 {
		t.Errorf("expected to be within 1.5px of target after duration, got %f", s.Animated())
	}
	for i := 0; i < 120; i++ {
		s.Tick(1.0 / 60)
	}
	if !s.Settled() {
		t.Errorf("expected settled, animated=%f target=%f", s.Animated(), s.Target())
	}
}

func TestJumpSkipsEasing(t *testing.T) {
	s := NewSmoother(1.2, 1)
	s.SetLimit(400)
	s.Jump(250)
	if s.Animated() != 250 || s.Actual() != 250 || !s.Settled() {
		t.Errorf("jump did not apply immediately: animated=%f actual=%f", s.Animated(), s.Actual())
	}
}

func TestShrinkingLimitClampsState(t *testing.T) {
	s := NewSmoother(1.2, 1)
	s.SetLimit(1000)
	s.Jump(900)
	s.SetLimit(300)
	if s.Target() != 300 || s.Animated() != 300 {
		t.Errorf("expected clamp to new limit, got target=%f animated=%f", s.Target(), s.Animated())
	}
}
