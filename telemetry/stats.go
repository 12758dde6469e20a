package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated field statistics for a time window.
type WindowStats struct {
	WindowStartFrame int32   `csv:"-"`
	WindowEndFrame   int32   `csv:"window_end"`
	ElapsedSec       float64 `csv:"elapsed"`

	// Field size at window end
	Points   int     `csv:"points"`
	FontSize float64 `csv:"font_size"`

	// Mean per-frame zone occupancy
	HoldMean    float64 `csv:"hold_mean"`
	FalloffMean float64 `csv:"falloff_mean"`
	AmbientMean float64 `csv:"ambient_mean"`

	// Displacement magnitude from origin (sampled at window end)
	OffsetMean float64 `csv:"offset_mean"`
	OffsetStd  float64 `csv:"offset_std"`
	OffsetP50  float64 `csv:"offset_p50"`
	OffsetP90  float64 `csv:"offset_p90"`
	OffsetMax  float64 `csv:"offset_max"`

	// Interaction
	PointerActiveFrac float64 `csv:"pointer_active_frac"`
	ScrollOffset      float64 `csv:"scroll"`
	VisibleProxies    int     `csv:"visible_proxies"`

	// Events during window
	Resizes  int `csv:"resizes"`
	Rebuilds int `csv:"rebuilds"`
	Reshapes int `csv:"reshapes"`
}

// Offsets returns the per-point displacement magnitude between two flat
// xyz buffers of equal length.
func Offsets(origins, positions []float32) []float64 {
	n := min(len(origins), len(positions)) / 3
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		dx := float64(positions[3*i] - origins[3*i])
		dy := float64(positions[3*i+1] - origins[3*i+1])
		out[i] = math.Hypot(dx, dy)
	}
	return out
}

// ComputeOffsetStats calculates mean, std, percentiles and max of offsets.
func ComputeOffsetStats(values []float64) (mean, std, p50, p90, maxV float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	maxV = sorted[n-1]

	return mean, std, p50, p90, maxV
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartFrame)),
		slog.Int("window_end", int(s.WindowEndFrame)),
		slog.Float64("elapsed", s.ElapsedSec),
		slog.Int("points", s.Points),
		slog.Float64("font_size", s.FontSize),
		slog.Float64("hold_mean", s.HoldMean),
		slog.Float64("falloff_mean", s.FalloffMean),
		slog.Float64("ambient_mean", s.AmbientMean),
		slog.Float64("offset_mean", s.OffsetMean),
		slog.Float64("offset_std", s.OffsetStd),
		slog.Float64("offset_p50", s.OffsetP50),
		slog.Float64("offset_p90", s.OffsetP90),
		slog.Float64("offset_max", s.OffsetMax),
		slog.Float64("pointer_active_frac", s.PointerActiveFrac),
		slog.Float64("scroll", s.ScrollOffset),
		slog.Int("visible_proxies", s.VisibleProxies),
		slog.Int("resizes", s.Resizes),
		slog.Int("rebuilds", s.Rebuilds),
		slog.Int("reshapes", s.Reshapes),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"elapsed", s.ElapsedSec,
		"points", s.Points,
		"hold_mean", s.HoldMean,
		"falloff_mean", s.FalloffMean,
		"ambient_mean", s.AmbientMean,
		"offset_mean", s.OffsetMean,
		"offset_p90", s.OffsetP90,
		"offset_max", s.OffsetMax,
		"pointer_active_frac", s.PointerActiveFrac,
		"scroll", s.ScrollOffset,
		"visible_proxies", s.VisibleProxies,
		"resizes", s.Resizes,
		"rebuilds", s.Rebuilds,
	)
}
