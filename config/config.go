// Package config provides configuration loading and access for the application.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all application configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Particles  ParticlesConfig  `yaml:"particles"`
	Fonts      FontsConfig      `yaml:"fonts"`
	Scroll     ScrollConfig     `yaml:"scroll"`
	Page       PageConfig       `yaml:"page"`
	Audio      AudioConfig      `yaml:"audio"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Background string           `yaml:"background"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	TargetFPS     int     `yaml:"target_fps"`
	MaxPixelRatio float64 `yaml:"max_pixel_ratio"` // Device pixel ratio cap
	Title         string  `yaml:"title"`
}

// ParticlesConfig holds the particle text parameters.
type ParticlesConfig struct {
	Text              string  `yaml:"text"`
	FontFamily        string  `yaml:"font_family"`
	Color             string  `yaml:"color"`
	PointSize         float64 `yaml:"point_size"`          // Device pixels
	AlphaThreshold    int     `yaml:"alpha_threshold"`     // Pixels with alpha above this become points
	Stride            int     `yaml:"stride"`              // Scan step in pixels
	SmallViewport     float64 `yaml:"small_viewport"`      // Viewports narrower than this use SmallFontFraction
	SmallFontFraction float64 `yaml:"small_font_fraction"` // Font size as a fraction of viewport width
	LargeFontFraction float64 `yaml:"large_font_fraction"`
	TranslateY        float64 `yaml:"translate_y"` // Vertical placement of the whole field
}

// FontsConfig maps family names to font files and CSS weights to families.
type FontsConfig struct {
	Families      map[string]string `yaml:"families"` // name -> TTF/OTF path
	Weights       map[string]string `yaml:"weights"`  // CSS font-weight -> family
	DefaultFamily string            `yaml:"default_family"`
}

// ScrollConfig holds smooth scroll parameters.
type ScrollConfig struct {
	Duration        float64 `yaml:"duration"`         // Seconds to settle on a new target
	WheelMultiplier float64 `yaml:"wheel_multiplier"` // Pixels per wheel notch
}

// PageConfig describes the document of text elements mirrored into the scene.
type PageConfig struct {
	Padding  float64         `yaml:"padding"`
	Gap      float64         `yaml:"gap"`
	Top      float64         `yaml:"top"` // Document offset of the first element
	Elements []ElementConfig `yaml:"elements"`
}

// ElementConfig describes one text element and its computed style.
type ElementConfig struct {
	ID            string  `yaml:"id"`
	Text          string  `yaml:"text"`
	FontWeight    string  `yaml:"font_weight"`
	FontSize      float64 `yaml:"font_size"`
	LetterSpacing float64 `yaml:"letter_spacing"` // Pixels
	LineHeight    float64 `yaml:"line_height"`    // Pixels (0 = 1.2 x font size)
	WhiteSpace    string  `yaml:"white_space"`
	TextAlign     string  `yaml:"text_align"`
	Color         string  `yaml:"color"`
	WidthFraction float64 `yaml:"width_fraction"` // Fraction of the content width
}

// AudioConfig holds the optional audio subsystem settings.
type AudioConfig struct {
	Enabled       bool    `yaml:"enabled"`
	Track         string  `yaml:"track"` // WAV file
	Feedback      bool    `yaml:"feedback"`
	FeedbackDelay float64 `yaml:"feedback_delay"` // Seconds
	FeedbackGain  float64 `yaml:"feedback_gain"`
	FillColor     string  `yaml:"fill_color"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int     `yaml:"perf_window"`  // Frames per perf window
	StatsWindow float64 `yaml:"stats_window"` // Seconds between stats logs
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ParticleColor   color.RGBA
	BackgroundColor color.RGBA
	FillColor       color.RGBA
	ElementColors   []color.RGBA // Parallel to Page.Elements
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	if c.Screen.MaxPixelRatio <= 0 {
		c.Screen.MaxPixelRatio = 2
	}
	if c.Particles.Stride < 1 {
		c.Particles.Stride = 1
	}
	if c.Particles.AlphaThreshold < 0 || c.Particles.AlphaThreshold > 255 {
		return fmt.Errorf("particles.alpha_threshold %d out of range 0-255", c.Particles.AlphaThreshold)
	}
	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 60
	}

	var err error
	if c.Derived.ParticleColor, err = ParseColor(c.Particles.Color); err != nil {
		return fmt.Errorf("particles.color: %w", err)
	}
	if c.Derived.BackgroundColor, err = ParseColor(c.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if c.Derived.FillColor, err = ParseColor(c.Audio.FillColor); err != nil {
		return fmt.Errorf("audio.fill_color: %w", err)
	}

	c.Derived.ElementColors = make([]color.RGBA, len(c.Page.Elements))
	for i := range c.Page.Elements {
		el := &c.Page.Elements[i]
		if el.ID == "" {
			el.ID = fmt.Sprintf("element-%d", i)
		}
		if el.FontWeight == "" {
			el.FontWeight = "400"
		}
		if el.WhiteSpace == "" {
			el.WhiteSpace = "normal"
		}
		if el.TextAlign == "" {
			el.TextAlign = "left"
		}
		if el.WidthFraction <= 0 {
			el.WidthFraction = 1
		}
		if el.LineHeight <= 0 {
			el.LineHeight = el.FontSize * 1.2
		}
		if c.Derived.ElementColors[i], err = ParseColor(el.Color); err != nil {
			return fmt.Errorf("page.elements[%d].color: %w", i, err)
		}
	}
	return nil
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa" hex colors.
// An empty string yields opaque black.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return color.RGBA{A: 255}, nil
	}
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
