package app

import (
	"sync/atomic"
	"time"
)

// Scheduler drives a step function once per frame until stopped.
type Scheduler interface {
	// Run calls step repeatedly. The stop flag is checked before every
	// re-request so no step runs after Stop returns.
	Run(step func(dt float64))
	Stop()
}

// FrameScheduler runs steps back to back with a fixed timestep, for headless
// runs and tests.
type FrameScheduler struct {
	DT        float64 // Seconds per frame
	MaxFrames int     // 0 = until stopped

	frames  int
	stopped atomic.Bool
}

// NewFrameScheduler creates a scheduler that runs at most maxFrames steps.
func NewFrameScheduler(dt float64, maxFrames int) *FrameScheduler {
	return &FrameScheduler{DT: dt, MaxFrames: maxFrames}
}

// Run implements Scheduler.
func (s *FrameScheduler) Run(step func(dt float64)) {
	for !s.stopped.Load() {
		if s.MaxFrames > 0 && s.frames >= s.MaxFrames {
			return
		}
		step(s.DT)
		s.frames++
	}
}

// Stop implements Scheduler.
func (s *FrameScheduler) Stop() {
	s.stopped.Store(true)
}

// Frames returns how many steps have run.
func (s *FrameScheduler) Frames() int {
	return s.frames
}

// ClockScheduler runs steps using wall-clock deltas. The caller supplies
// wait, which blocks until the next frame is due and reports false when the
// host wants to exit.
type ClockScheduler struct {
	Wait     func() bool
	MaxDelta float64 // Clamp for long pauses, in seconds

	stopped atomic.Bool
}

// Run implements Scheduler.
func (s *ClockScheduler) Run(step func(dt float64)) {
	last := time.Now()
	for !s.stopped.Load() && s.Wait() {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now
		if s.MaxDelta > 0 && dt > s.MaxDelta {
			dt = s.MaxDelta
		}
		step(dt)
	}
}

// Stop implements Scheduler.
func (s *ClockScheduler) Stop() {
	s.stopped.Store(true)
}
