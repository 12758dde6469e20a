// Package scroll turns raw wheel and touch input into a smoothed scroll offset.
package scroll

import "math"

// settle is the fraction of the distance left when the duration has elapsed.
const settle = 0.001

// Smoother eases an animated scroll offset toward a raw target.
type Smoother struct {
	target   float64
	animated float64
	actual   float64 // Offset last applied to the page
	limit    float64
	lambda   float64 // Exponential decay rate
	wheelMul float64
}

// NewSmoother creates a smoother that settles on a new target in roughly
// duration seconds.
func NewSmoother(duration, wheelMultiplier float64) *Smoother {
	if duration <= 0 {
		duration = 1.2
	}
	if wheelMultiplier == 0 {
		wheelMultiplier = 1
	}
	return &Smoother{
		lambda:   -math.Log(settle) / duration,
		wheelMul: wheelMultiplier,
	}
}

// SetLimit sets the maximum scroll offset (document height minus viewport).
func (s *Smoother) SetLimit(limit float64) {
	s.limit = math.Max(limit, 0)
	s.target = s.clamp(s.target)
	s.animated = s.clamp(s.animated)
	s.actual = s.animated
}

// Limit returns the maximum scroll offset.
func (s *Smoother) Limit() float64 {
	return s.limit
}

// Wheel moves the target by a wheel delta in notches (positive scrolls down).
func (s *Smoother) Wheel(delta float64) {
	s.target = s.clamp(s.target + delta*s.wheelMul)
}

// Drag moves the target by a raw pixel delta, e.g. from a touch drag.
func (s *Smoother) Drag(dy float64) {
	s.target = s.clamp(s.target + dy)
}

// ScrollTo sets the target offset.
func (s *Smoother) ScrollTo(y float64) {
	s.target = s.clamp(y)
}

// Jump sets both target and animated offsets without easing.
func (s *Smoother) Jump(y float64) {
	s.target = s.clamp(y)
	s.animated = s.target
	s.actual = s.target
}

// Tick advances the animation by dt seconds.
func (s *Smoother) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	s.animated = s.target + (s.animated-s.target)*math.Exp(-s.lambda*dt)
	if math.Abs(s.animated-s.target) < 0.01 {
		s.animated = s.target
	}
	s.actual = s.animated
}

// Target returns the raw target offset.
func (s *Smoother) Target() float64 {
	return s.target
}

// Animated returns the smoothed offset for the current frame.
func (s *Smoother) Animated() float64 {
	return s.animated
}

// Actual returns the offset currently applied to the page layout.
func (s *Smoother) Actual() float64 {
	return s.actual
}

// Settled reports whether the animation has reached its target.
func (s *Smoother) Settled() bool {
	return s.animated == s.target
}

func (s *Smoother) clamp(y float64) float64 {
	if y < 0 {
		return 0
	}
	if y > s.limit {
		return s.limit
	}
	return y
}
