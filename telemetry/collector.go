// Package telemetry provides frame timing, field statistics and run output.
package telemetry

import (
	"math"

	"github.com/pthm-cable/glyphfield/field"
)

// Collector accumulates per-frame field state within time windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec    float64
	windowDurationFrames int32
	dt                   float32

	windowStartFrame int32

	// Counters for the current window
	frames        int
	hold          int
	falloff       int
	ambient       int
	pointerActive int
	resizes       int
	rebuilds      int
	reshapes      int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in seconds
// dt: nominal seconds per frame (used for frame-to-time conversion)
// The frame count is rounded: 1/60 is not exact in float32.
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	framesPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if framesPerWindow < 1 {
		framesPerWindow = 1
	}

	return &Collector{
		windowDurationSec:    windowDurationSec,
		windowDurationFrames: framesPerWindow,
		dt:                   dt,
	}
}

// RecordFrame records one frame's zone occupancy.
func (c *Collector) RecordFrame(zones field.ZoneCounts, pointerActive bool) {
	c.frames++
	c.hold += zones.Hold
	c.falloff += zones.Falloff
	c.ambient += zones.Ambient
	if pointerActive {
		c.pointerActive++
	}
}

// RecordResize records a viewport resize.
func (c *Collector) RecordResize() {
	c.resizes++
}

// RecordRebuild records a point field rebuild.
func (c *Collector) RecordRebuild() {
	c.rebuilds++
}

// RecordReshape records a text proxy mesh change.
func (c *Collector) RecordReshape() {
	c.reshapes++
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(currentFrame int32) bool {
	return currentFrame-c.windowStartFrame >= c.windowDurationFrames
}

// FieldState is the end-of-window state the caller samples for a flush.
type FieldState struct {
	Points         int
	FontSize       float64
	Offsets        []float64 // Per-point displacement magnitudes
	Scroll         float64
	VisibleProxies int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentFrame int32, st FieldState) WindowStats {
	var holdMean, falloffMean, ambientMean, activeFrac float64
	if c.frames > 0 {
		n := float64(c.frames)
		holdMean = float64(c.hold) / n
		falloffMean = float64(c.falloff) / n
		ambientMean = float64(c.ambient) / n
		activeFrac = float64(c.pointerActive) / n
	}

	mean, std, p50, p90, maxV := ComputeOffsetStats(st.Offsets)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   currentFrame,
		ElapsedSec:       float64(currentFrame) * float64(c.dt),

		Points:   st.Points,
		FontSize: st.FontSize,

		HoldMean:    holdMean,
		FalloffMean: falloffMean,
		AmbientMean: ambientMean,

		OffsetMean: mean,
		OffsetStd:  std,
		OffsetP50:  p50,
		OffsetP90:  p90,
		OffsetMax:  maxV,

		PointerActiveFrac: activeFrac,
		ScrollOffset:      st.Scroll,
		VisibleProxies:    st.VisibleProxies,

		Resizes:  c.resizes,
		Rebuilds: c.rebuilds,
		Reshapes: c.reshapes,
	}

	// Reset for next window
	c.windowStartFrame = currentFrame
	c.frames = 0
	c.hold = 0
	c.falloff = 0
	c.ambient = 0
	c.pointerActive = 0
	c.resizes = 0
	c.rebuilds = 0
	c.reshapes = 0

	return stats
}

// WindowDurationFrames returns the number of frames per window.
func (c *Collector) WindowDurationFrames() int32 {
	return c.windowDurationFrames
}
