package app

import (
	"log/slog"

	"github.com/pthm-cable/glyphfield/telemetry"
)

// flushTelemetry closes the stats window when it is due and writes it out.
func (a *App) flushTelemetry() {
	if !a.collector.ShouldFlush(a.ctx.Frame) {
		return
	}

	buf := a.particles.Buffer
	stats := a.collector.Flush(a.ctx.Frame, telemetry.FieldState{
		Points:         buf.Len(),
		FontSize:       a.particles.FontSize(),
		Offsets:        telemetry.Offsets(a.particles.Field.Origins(), buf.Positions()),
		Scroll:         a.ctx.Scroll.Animated(),
		VisibleProxies: a.visible,
	})
	perfStats := a.perf.Stats()

	if a.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if a.output != nil {
		if err := a.output.WriteStats(stats); err != nil {
			slog.Error("failed to write field stats", "error", err)
		}
		if err := a.output.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// Snapshot captures the current particle field.
func (a *App) Snapshot() *telemetry.Snapshot {
	pos := a.tracker.Position()
	s := &telemetry.Snapshot{
		Version:        telemetry.SnapshotVersion,
		RNGSeed:        a.seed,
		ViewportWidth:  a.ctx.Width,
		ViewportHeight: a.ctx.Height,
		PixelRatio:     a.ctx.PixelRatio,
		Text:           a.particles.text,
		FontFamily:     a.particles.family,
		FontSize:       a.particles.FontSize(),
		Frame:          a.ctx.Frame,
		Scroll:         a.ctx.Scroll.Animated(),
		PointerX:       pos.X,
		PointerY:       pos.Y,
	}
	if r := a.particles.Raster; r != nil {
		s.RasterWidth, s.RasterHeight = r.Width, r.Height
	}
	if buf := a.particles.Buffer; buf != nil {
		s.Points = telemetry.PointStates(a.particles.Field.Origins(), buf.Positions())
	}
	return s
}

// Unload writes a final snapshot and releases resources.
func (a *App) Unload() {
	if a.output != nil && a.started {
		if path, err := a.output.WriteSnapshot(a.Snapshot()); err != nil {
			slog.Error("failed to write snapshot", "error", err)
		} else {
			slog.Info("snapshot saved", "path", path)
		}
	}
	a.proxies.Clear()
	a.shaper.ClearCache()
}
