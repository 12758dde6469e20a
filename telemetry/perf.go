package telemetry

import (
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names, one per stage of App.Step.
const (
	PhaseInput    = "input"
	PhaseResize   = "resize"
	PhaseScroll   = "scroll"
	PhaseDisplace = "displace"
	PhaseUpload   = "upload"
	PhaseProxies  = "proxies"
	PhaseDraw     = "draw"
)

// Phases lists every frame phase in execution order.
var Phases = []string{
	PhaseInput, PhaseResize, PhaseScroll, PhaseDisplace,
	PhaseUpload, PhaseProxies, PhaseDraw,
}

// PerfSample is the work time of one Step, split by phase.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector keeps the last windowSize Step timings. Phases are
// contiguous: starting one ends the previous.
type PerfCollector struct {
	clock         func() time.Time
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string

	// Present-to-present, see RecordPresent
	lastFrameTime time.Time
	frameInterval time.Duration
}

// NewPerfCollector keeps windowSize frames (telemetry.perf_window).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		clock:         time.Now,
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame marks the start of Step, before input is polled.
func (p *PerfCollector) StartFrame() {
	p.frameStart = p.clock()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase ends the running phase and starts the named one.
func (p *PerfCollector) StartPhase(phase string) {
	now := p.clock()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame closes the draw phase and stores the sample, overwriting the
// oldest once the window is full.
func (p *PerfCollector) EndFrame() {
	now := p.clock()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordPresent notes when the surface finished a frame. The gap between
// calls includes vsync and scheduler sleep, unlike the Step work time.
func (p *PerfCollector) RecordPresent() {
	now := p.clock()
	if !p.lastFrameTime.IsZero() {
		p.frameInterval = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats summarizes the window.
type PerfStats struct {
	// Step work time: input through draw
	AvgFrameDuration time.Duration
	MinFrameDuration time.Duration
	MaxFrameDuration time.Duration
	Jitter           time.Duration // Standard deviation of frame work

	PhaseAvg map[string]time.Duration // Keyed by Phase* name
	PhasePct map[string]float64       // Share of AvgFrameDuration

	// Step rate if the loop never waited for the display
	FramesPerSecond float64

	// Present-to-present timing; zero until two frames reached the surface
	FrameInterval time.Duration
	FPS           float64
}

// Stats aggregates the samples currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.frameInterval > 0 {
		fps = float64(time.Second) / float64(p.frameInterval)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:      make(map[string]time.Duration),
			PhasePct:      make(map[string]float64),
			FrameInterval: p.frameInterval,
			FPS:           fps,
		}
	}

	durations := make([]float64, p.sampleCount)
	var minFrame, maxFrame time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		durations[i] = float64(s.FrameDuration)

		if i == 0 || s.FrameDuration < minFrame {
			minFrame = s.FrameDuration
		}
		if s.FrameDuration > maxFrame {
			maxFrame = s.FrameDuration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	mean, std := stat.MeanStdDev(durations, nil)
	if p.sampleCount < 2 {
		std = 0
	}
	avgFrame := time.Duration(mean)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgFrame > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgFrame) * 100
		}
	}

	var framesPerSec float64
	if avgFrame > 0 {
		framesPerSec = float64(time.Second) / float64(avgFrame)
	}

	return PerfStats{
		AvgFrameDuration: avgFrame,
		MinFrameDuration: minFrame,
		MaxFrameDuration: maxFrame,
		Jitter:           time.Duration(std),
		PhaseAvg:         phaseAvg,
		PhasePct:         phasePct,
		FramesPerSecond:  framesPerSec,
		FrameInterval:    p.frameInterval,
		FPS:              fps,
	}
}

// LogStats writes the window as one "perf" record at Info. Phases under
// 0.1% of the Step are left out.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrameDuration.Microseconds(),
		"min_frame_us", s.MinFrameDuration.Microseconds(),
		"max_frame_us", s.MaxFrameDuration.Microseconds(),
		"jitter_us", s.Jitter.Microseconds(),
		"frames_per_sec", int(s.FramesPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", math.Round(pct*10)/10)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer. Phases appear in Step order.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgFrameDuration.Microseconds()),
		slog.Int64("min_frame_us", s.MinFrameDuration.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrameDuration.Microseconds()),
		slog.Int64("jitter_us", s.Jitter.Microseconds()),
		slog.Float64("frames_per_sec", s.FramesPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row: a column per Step phase.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgFrameUS   int64   `csv:"avg_frame_us"`
	MinFrameUS   int64   `csv:"min_frame_us"`
	MaxFrameUS   int64   `csv:"max_frame_us"`
	JitterUS     int64   `csv:"jitter_us"`
	FramesPerSec float64 `csv:"frames_per_sec"`
	FPS          float64 `csv:"fps"`
	InputPct     float64 `csv:"input_pct"`
	ResizePct    float64 `csv:"resize_pct"`
	ScrollPct    float64 `csv:"scroll_pct"`
	DisplacePct  float64 `csv:"displace_pct"`
	UploadPct    float64 `csv:"upload_pct"`
	ProxiesPct   float64 `csv:"proxies_pct"`
	DrawPct      float64 `csv:"draw_pct"`
}

// ToCSV flattens the window ending at frame windowEnd. Missing phases are 0.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgFrameUS:   s.AvgFrameDuration.Microseconds(),
		MinFrameUS:   s.MinFrameDuration.Microseconds(),
		MaxFrameUS:   s.MaxFrameDuration.Microseconds(),
		JitterUS:     s.Jitter.Microseconds(),
		FramesPerSec: s.FramesPerSecond,
		FPS:          s.FPS,
		InputPct:     s.PhasePct[PhaseInput],
		ResizePct:    s.PhasePct[PhaseResize],
		ScrollPct:    s.PhasePct[PhaseScroll],
		DisplacePct:  s.PhasePct[PhaseDisplace],
		UploadPct:    s.PhasePct[PhaseUpload],
		ProxiesPct:   s.PhasePct[PhaseProxies],
		DrawPct:      s.PhasePct[PhaseDraw],
	}
}
