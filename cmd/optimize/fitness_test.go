package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/glyphfield/config"
	"github.com/pthm-cable/glyphfield/fonts"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("%s: got %f, want %f", pv.Specs[i].Name, back[i], raw[i])
		}
	}

	clamped := pv.Clamp([]float64{-1, 10})
	if clamped[0] != pv.Specs[0].Min || clamped[1] != pv.Specs[1].Max {
		t.Errorf("clamp did not respect bounds: %v", clamped)
	}
}

func TestApplyToConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	pv.ApplyToConfig(cfg, []float64{0.3, 0.12})
	got := pv.ExtractFromConfig(cfg)
	if got[0] != 0.3 || got[1] != 0.12 {
		t.Errorf("expected [0.3 0.12], got %v", got)
	}
}

func TestObjective(t *testing.T) {
	fe := &FitnessEvaluator{targetFill: 0.8, maxPoints: 1000}

	tests := []struct {
		name string
		m    Measurement
		want float64
	}{
		{"on target", Measurement{FillW: 0.8, FillH: 0.2, Points: 500}, 0},
		{"under", Measurement{FillW: 0.6, FillH: 0.2, Points: 500}, 0.04},
		{"overflow", Measurement{FillW: 1.2, FillH: 0.2, Points: 500}, 0.16 + overflowWeight*0.2},
		{"over limit", Measurement{FillW: 0.8, FillH: 0.2, Points: 1500}, limitWeight * 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fe.objective(tt.m); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestEvaluateScoresEveryViewport(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Particles.FontFamily = fonts.FamilyRegular
	cfg.Particles.Stride = 4

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, cfg, fonts.NewLibrary(), 0.8, 0)

	score := fe.Evaluate(pv.DefaultVector())
	if math.IsInf(score, 0) || math.IsNaN(score) || score < 0 {
		t.Fatalf("unexpected score %f", score)
	}
	ms := fe.LastMeasurements()
	if len(ms) != len(DefaultViewports) {
		t.Fatalf("expected %d measurements, got %d", len(DefaultViewports), len(ms))
	}
	for _, m := range ms {
		if m.Points == 0 || m.FillW <= 0 {
			t.Errorf("%s: empty field (points=%d fill=%f)", m.Viewport.Name, m.Points, m.FillW)
		}
	}

	// Narrow viewports use the larger fraction.
	if ms[0].FontSize != DefaultViewports[0].W*0.25 {
		t.Errorf("phone font size %f, want %f", ms[0].FontSize, DefaultViewports[0].W*0.25)
	}
}
