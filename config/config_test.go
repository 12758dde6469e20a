package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Particles.AlphaThreshold != 128 {
		t.Errorf("expected alpha threshold 128, got %d", cfg.Particles.AlphaThreshold)
	}
	if cfg.Screen.MaxPixelRatio != 2 {
		t.Errorf("expected max pixel ratio 2, got %f", cfg.Screen.MaxPixelRatio)
	}
	want := color.RGBA{R: 0xff, G: 0x57, B: 0x33, A: 0xff}
	if cfg.Derived.ParticleColor != want {
		t.Errorf("expected particle color %v, got %v", want, cfg.Derived.ParticleColor)
	}
	if len(cfg.Derived.ElementColors) != len(cfg.Page.Elements) {
		t.Errorf("element colors not parallel to elements: %d vs %d",
			len(cfg.Derived.ElementColors), len(cfg.Page.Elements))
	}
}

func TestElementDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	// credits element omits weight, white-space and line height
	var credits *ElementConfig
	for i := range cfg.Page.Elements {
		if cfg.Page.Elements[i].ID == "credits" {
			credits = &cfg.Page.Elements[i]
		}
	}
	if credits == nil {
		t.Fatal("credits element missing from defaults")
	}
	if credits.FontWeight != "400" {
		t.Errorf("expected default weight 400, got %q", credits.FontWeight)
	}
	if credits.WhiteSpace != "normal" {
		t.Errorf("expected default white-space normal, got %q", credits.WhiteSpace)
	}
	if credits.LineHeight != credits.FontSize*1.2 {
		t.Errorf("expected line height %f, got %f", credits.FontSize*1.2, credits.LineHeight)
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("particles:\n  text: \"AB\"\n  color: \"#00ff00\"\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Particles.Text != "AB" {
		t.Errorf("expected overridden text, got %q", cfg.Particles.Text)
	}
	if cfg.Derived.ParticleColor != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("expected green, got %v", cfg.Derived.ParticleColor)
	}
	// Untouched fields keep their defaults
	if cfg.Particles.Stride != 1 {
		t.Errorf("expected default stride 1, got %d", cfg.Particles.Stride)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#ff5733", color.RGBA{0xff, 0x57, 0x33, 0xff}, false},
		{"fff", color.RGBA{0xff, 0xff, 0xff, 0xff}, false},
		{"#11223344", color.RGBA{0x11, 0x22, 0x33, 0x44}, false},
		{"", color.RGBA{A: 255}, false},
		{"#12345", color.RGBA{}, true},
		{"#zzzzzz", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Particles.Text != cfg.Particles.Text {
		t.Error("particle text did not survive the roundtrip")
	}
}
