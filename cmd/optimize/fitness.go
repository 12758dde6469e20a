package main

import (
	"fmt"
	"math"
	"sync"

	"github.com/pthm-cable/glyphfield/config"
	"github.com/pthm-cable/glyphfield/field"
	"github.com/pthm-cable/glyphfield/fonts"
	"github.com/pthm-cable/glyphfield/raster"
)

// Viewport is one screen size the sizing is scored against.
type Viewport struct {
	Name string
	W, H float64
}

// DefaultViewports spans phones to desktop monitors on both sides of the
// breakpoint.
var DefaultViewports = []Viewport{
	{Name: "phone", W: 375, H: 812},
	{Name: "phone-wide", W: 430, H: 932},
	{Name: "tablet", W: 768, H: 1024},
	{Name: "laptop", W: 1280, H: 800},
	{Name: "desktop", W: 1920, H: 1080},
}

// Penalty weights.
const (
	overflowWeight = 10.0 // Per unit of raster exceeding the viewport
	limitWeight    = 1.0  // Per unit of points over the limit, relative
)

// Measurement is the particle field produced at one viewport.
type Measurement struct {
	Viewport  Viewport
	FontSize  float64
	FillW     float64 // Raster width / viewport width
	FillH     float64 // Raster height / viewport height
	Points    int
	Objective float64
}

// FitnessEvaluator rasterizes the particle text at every viewport and scores
// how well it fills the screen.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	fonts      *fonts.Library
	viewports  []Viewport
	targetFill float64 // Desired raster width as a fraction of the viewport
	maxPoints  int     // Point limit per viewport (0 = unlimited)

	mu   sync.Mutex
	last []Measurement
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, lib *fonts.Library, targetFill float64, maxPoints int) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		baseConfig: baseCfg,
		fonts:      lib,
		viewports:  DefaultViewports,
		targetFill: targetFill,
		maxPoints:  maxPoints,
	}
}

// Measure builds the field for one viewport with the given sizing.
func (fe *FitnessEvaluator) Measure(s raster.Sizing, vp Viewport) (Measurement, error) {
	p := fe.baseConfig.Particles
	size := s.FontSize(vp.W)
	face, err := fe.fonts.Face(p.FontFamily, size)
	if err != nil {
		return Measurement{}, err
	}
	defer face.Close()
	r, err := raster.Rasterize(p.Text, face, size, fe.baseConfig.Derived.ParticleColor)
	if err != nil {
		return Measurement{}, fmt.Errorf("%s: %w", vp.Name, err)
	}
	pf := field.BuildPointField(r, uint8(p.AlphaThreshold), p.Stride)

	m := Measurement{
		Viewport: vp,
		FontSize: size,
		FillW:    float64(r.Width) / vp.W,
		FillH:    float64(r.Height) / vp.H,
		Points:   pf.Len(),
	}
	m.Objective = fe.objective(m)
	return m, nil
}

// objective is the squared distance from the target fill plus penalties for
// overflowing the viewport or exceeding the point limit.
func (fe *FitnessEvaluator) objective(m Measurement) float64 {
	d := m.FillW - fe.targetFill
	obj := d * d
	obj += overflowWeight * math.Max(m.FillW-1, 0)
	obj += overflowWeight * math.Max(m.FillH-1, 0)
	if fe.maxPoints > 0 && m.Points > fe.maxPoints {
		obj += limitWeight * float64(m.Points-fe.maxPoints) / float64(fe.maxPoints)
	}
	return obj
}

// Evaluate returns the mean objective over every viewport for raw parameter
// values. Lower is better.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	v := fe.params.Clamp(raw)
	s := raster.Sizing{
		SmallViewport:     fe.baseConfig.Particles.SmallViewport,
		SmallFontFraction: v[0],
		LargeFontFraction: v[1],
	}

	ms := make([]Measurement, 0, len(fe.viewports))
	total := 0.0
	for _, vp := range fe.viewports {
		m, err := fe.Measure(s, vp)
		if err != nil {
			return math.Inf(1)
		}
		ms = append(ms, m)
		total += m.Objective
	}

	fe.mu.Lock()
	fe.last = ms
	fe.mu.Unlock()
	return total / float64(len(fe.viewports))
}

// LastMeasurements returns the per-viewport results of the most recent
// evaluation.
func (fe *FitnessEvaluator) LastMeasurements() []Measurement {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}
