package app

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/glyphfield/config"
	"github.com/pthm-cable/glyphfield/field"
	"github.com/pthm-cable/glyphfield/fonts"
	"github.com/pthm-cable/glyphfield/interaction"
	"github.com/pthm-cable/glyphfield/page"
	"github.com/pthm-cable/glyphfield/telemetry"
	"github.com/pthm-cable/glyphfield/textproxy"
	"github.com/pthm-cable/glyphfield/typeset"
)

// ErrNoSurface is returned when the app is created without a surface.
var ErrNoSurface = errors.New("app: no rendering surface")

// Playback is the optional soundtrack. *audio.Player satisfies it.
type Playback interface {
	Toggle() bool
	Playing() bool
	Progress() float64
}

// Options configures a new App.
type Options struct {
	Config   *config.Config
	Surface  Surface
	Input    InputSource    // nil = no input
	Fonts    *fonts.Library // nil = built-in fonts only
	Playback Playback       // nil = no audio
	Output   *telemetry.OutputManager

	Seed     int64
	LogStats bool
}

// App holds the complete scene state.
type App struct {
	cfg     *config.Config
	ctx     *Context
	surface Surface
	input   InputSource
	rng     *rand.Rand
	seed    int64

	fonts     *fonts.Library
	shaper    *typeset.Shaper
	doc       *page.Document
	particles *Particles
	proxies   *textproxy.Registry
	resizer   *ResizeCoordinator
	tracker   *interaction.Tracker
	playback  Playback

	// Telemetry
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool

	// State
	started       bool
	resizePending bool
	rebuilds      int // Resizer rebuild count already reported
	zones         field.ZoneCounts
	visible       int
	meshVersions  map[*textproxy.Proxy]uint64
	frame         Frame
}

// New creates the app. Nothing is rasterized or shaped until Start.
func New(opts Options) (*App, error) {
	if opts.Surface == nil {
		return nil, ErrNoSurface
	}
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(""); err != nil {
			return nil, err
		}
	}
	lib := opts.Fonts
	if lib == nil {
		lib = fonts.NewLibrary()
	}

	w, h := opts.Surface.Size()
	ctx := NewContext(w, h, opts.Surface.PixelRatio(), cfg)
	shaper := typeset.NewShaper(lib)
	doc := page.FromConfig(cfg.Page, cfg.Derived.ElementColors, textproxy.Measurer{Shaper: shaper, Fonts: lib})
	particles := NewParticles(lib, cfg)
	proxies := textproxy.NewRegistry()

	dt := float32(1.0 / 60.0)
	if cfg.Screen.TargetFPS > 0 {
		dt = 1 / float32(cfg.Screen.TargetFPS)
	}

	a := &App{
		cfg:          cfg,
		ctx:          ctx,
		surface:      opts.Surface,
		input:        opts.Input,
		rng:          rand.New(rand.NewSource(opts.Seed)),
		seed:         opts.Seed,
		fonts:        lib,
		shaper:       shaper,
		doc:          doc,
		particles:    particles,
		proxies:      proxies,
		resizer:      NewResizeCoordinator(ctx, opts.Surface, particles, doc, proxies),
		tracker:      interaction.NewTracker(ctx.Camera),
		playback:     opts.Playback,
		perf:         telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:    telemetry.NewCollector(cfg.Telemetry.StatsWindow, dt),
		output:       opts.Output,
		logStats:     opts.LogStats,
		meshVersions: make(map[*textproxy.Proxy]uint64),
	}
	return a, nil
}

// LoadFonts starts loading the configured font files and applies the weight
// map. It does not wait; Start does.
func LoadFonts(ctx context.Context, lib *fonts.Library, cfg *config.Config) {
	for name, path := range cfg.Fonts.Families {
		lib.Load(ctx, name, path)
	}
	for weight, family := range cfg.Fonts.Weights {
		lib.MapWeight(weight, family)
	}
	lib.SetFallback(cfg.Fonts.DefaultFamily)
}

// Start waits for fonts, builds the first raster and creates a proxy for
// every element. A family that fails to load is replaced by the built-in
// regular face with a warning.
func (a *App) Start(ctx context.Context) error {
	if err := a.fonts.Ready(ctx, a.particles.family); err != nil {
		if ctx.Err() != nil {
			return err
		}
		slog.Warn("particle font unavailable, using default", "family", a.particles.family, "error", err)
		a.particles.family = fonts.FamilyRegular
	}
	for weight, family := range a.cfg.Fonts.Weights {
		if err := a.fonts.Ready(ctx, family); err != nil {
			if ctx.Err() != nil {
				return err
			}
			slog.Warn("font unavailable, using default", "weight", weight, "family", family, "error", err)
			a.fonts.MapWeight(weight, fonts.FamilyRegular)
		}
	}
	if fb := a.cfg.Fonts.DefaultFamily; fb != "" {
		if err := a.fonts.Ready(ctx, fb); err != nil {
			slog.Warn("default font unavailable", "family", fb, "error", err)
			a.fonts.SetFallback(fonts.FamilyRegular)
		}
	}

	w, h := a.surface.Size()
	if err := a.resizer.Resize(w, h, a.surface.PixelRatio()); err != nil {
		return err
	}
	for _, el := range a.doc.Elements() {
		a.proxies.Add(textproxy.New(el, a.ctx.Scroll.Actual(), a.fonts, a.shaper))
	}
	a.started = true

	slog.Info("scene ready",
		"points", a.particles.Field.Len(),
		"font_size", a.particles.FontSize(),
		"proxies", a.proxies.Len(),
		"viewport_w", w,
		"viewport_h", h,
	)
	return nil
}

// Run drives Step from a scheduler until it stops.
func (a *App) Run(s Scheduler) {
	s.Run(a.Step)
}

// Step advances one frame of dt seconds: input, resize, scroll, displacement,
// upload, proxy placement and draw, in that order.
func (a *App) Step(dt float64) {
	if !a.started {
		panic("app: Step called before Start")
	}
	a.perf.StartFrame()

	a.perf.StartPhase(telemetry.PhaseInput)
	if a.input != nil {
		a.input.Poll(a)
	}

	a.perf.StartPhase(telemetry.PhaseResize)
	if a.resizePending {
		a.resizePending = false
		a.applyResize()
	}

	a.perf.StartPhase(telemetry.PhaseScroll)
	a.ctx.advance(dt)
	a.ctx.Scroll.Tick(dt)

	a.perf.StartPhase(telemetry.PhaseDisplace)
	pos := a.tracker.Position()
	a.zones = field.Displace(
		a.particles.Field, a.particles.Buffer,
		field.DefaultInteraction(pos.X, pos.Y),
		float32(a.cfg.Particles.TranslateY),
		a.rng,
	)

	a.perf.StartPhase(telemetry.PhaseUpload)
	if buf := a.particles.Buffer; buf.Dirty() {
		a.surface.UploadPoints(buf.Positions(), buf.Version())
		buf.MarkUploaded()
	}

	a.perf.StartPhase(telemetry.PhaseProxies)
	a.proxies.UpdateAll(a.ctx.Scroll.Animated(), a.ctx.Width, a.ctx.Height)
	a.collectProxies()

	a.perf.StartPhase(telemetry.PhaseDraw)
	a.surface.DrawFrame(a.buildFrame())
	a.perf.EndFrame()
	a.perf.RecordPresent()

	a.collector.RecordFrame(a.zones, a.tracker.Active())
	a.ctx.Frame++
	a.flushTelemetry()
}

// applyResize reads the surface size and resizes everything. Failures keep
// the previous field.
func (a *App) applyResize() {
	w, h := a.surface.Size()
	if w <= 0 || h <= 0 {
		return
	}
	if err := a.resizer.Resize(w, h, a.surface.PixelRatio()); err != nil {
		slog.Error("resize failed", "width", w, "height", h, "error", err)
		return
	}
	a.collector.RecordResize()
	for ; a.rebuilds < a.resizer.Rebuilds; a.rebuilds++ {
		a.collector.RecordRebuild()
	}
}

// collectProxies gathers every shaped proxy for drawing, culls those outside
// the view and counts mesh changes.
func (a *App) collectProxies() {
	a.frame.Proxies = a.frame.Proxies[:0]
	a.visible = 0
	a.proxies.Each(func(p *textproxy.Proxy, pl textproxy.Placement) {
		mesh, version := p.Mesh()
		if mesh == nil {
			return
		}
		if prev, ok := a.meshVersions[p]; ok && prev != version {
			a.collector.RecordReshape()
		}
		a.meshVersions[p] = version

		// X is the left edge, Y the vertical centre.
		halfW, halfH := float32(mesh.Width/2), float32(mesh.Height/2)
		visible := pl.Visible && a.ctx.Camera.IsVisible(float32(pl.X)+halfW, float32(pl.Y), halfW, halfH)
		if visible {
			a.visible++
		}
		a.frame.Proxies = append(a.frame.Proxies, ProxyDraw{
			ID:      p.Element().ID,
			Mesh:    mesh,
			Version: version,
			X:       pl.X,
			Y:       pl.Y,
			Visible: visible,
		})
	})
}

func (a *App) buildFrame() *Frame {
	f := &a.frame
	f.Number = a.ctx.Frame
	f.Background = a.cfg.Derived.BackgroundColor
	f.Points = PointStyle{
		Count:      a.particles.Buffer.Len(),
		Size:       float32(a.cfg.Particles.PointSize),
		Color:      a.cfg.Derived.ParticleColor,
		TranslateY: float32(a.cfg.Particles.TranslateY),
	}
	f.FillColor = a.cfg.Derived.FillColor
	f.Fill = 0
	f.Audio = AudioState{}
	if a.playback != nil {
		f.Fill = a.playback.Progress()
		f.Audio = AudioState{Available: true, Playing: a.playback.Playing()}
	}
	f.Zones = a.zones
	f.Pointer = a.tracker.Position()
	f.PointerActive = a.tracker.Active()
	f.Scroll = a.ctx.Scroll.Animated()
	return f
}

// PointerMove implements Handler.
func (a *App) PointerMove(x, y float32) {
	a.tracker.PointerMove(x, y)
}

// TouchMove implements Handler.
func (a *App) TouchMove(touches []interaction.Touch) bool {
	return a.tracker.TouchMove(touches)
}

// TouchEnd implements Handler.
func (a *App) TouchEnd() {
	a.tracker.TouchEnd()
}

// PointerLeave implements Handler.
func (a *App) PointerLeave() {
	a.tracker.PointerLeave()
}

// Wheel implements Handler. Positive notches scroll down.
func (a *App) Wheel(notches float64) {
	a.ctx.Scroll.Wheel(notches)
}

// Drag implements Handler.
func (a *App) Drag(dy float64) {
	a.ctx.Scroll.Drag(dy)
}

// RequestResize implements Handler. The resize is applied at the start of
// the next step.
func (a *App) RequestResize() {
	a.resizePending = true
}

// TogglePlayback implements Handler.
func (a *App) TogglePlayback() {
	if a.playback == nil {
		return
	}
	playing := a.playback.Toggle()
	slog.Debug("playback toggled", "playing", playing)
}

// Context returns the process context.
func (a *App) Context() *Context {
	return a.ctx
}

// Particles returns the particle text.
func (a *App) Particles() *Particles {
	return a.particles
}

// Document returns the page.
func (a *App) Document() *page.Document {
	return a.doc
}

// Proxies returns the proxy registry.
func (a *App) Proxies() *textproxy.Registry {
	return a.proxies
}

// Resizer returns the resize coordinator.
func (a *App) Resizer() *ResizeCoordinator {
	return a.resizer
}

// Zones returns the last frame's zone counts.
func (a *App) Zones() field.ZoneCounts {
	return a.zones
}

// Frame returns the number of steps run.
func (a *App) Frame() int32 {
	return a.ctx.Frame
}

// Perf returns the frame timing collector.
func (a *App) Perf() *telemetry.PerfCollector {
	return a.perf
}
