package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glyphfield/app"
	"github.com/pthm-cable/glyphfield/audio"
	"github.com/pthm-cable/glyphfield/config"
	"github.com/pthm-cable/glyphfield/fonts"
	"github.com/pthm-cable/glyphfield/renderer"
	"github.com/pthm-cable/glyphfield/telemetry"
	"github.com/pthm-cable/glyphfield/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without a window")
	frames := flag.Int("frames", 0, "Stop after N frames (0 = unlimited)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and final snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	lib := fonts.NewLibrary()
	app.LoadFonts(ctx, lib, cfg)

	opts := app.Options{
		Config:   cfg,
		Fonts:    lib,
		Output:   output,
		Seed:     rngSeed,
		LogStats: *logStats,
	}

	if *headless {
		runHeadless(ctx, cfg, opts, *frames)
		return
	}
	runWindow(ctx, cfg, opts, *frames)
}

// runHeadless steps the scene with a fixed timestep and an orbiting pointer.
func runHeadless(ctx context.Context, cfg *config.Config, opts app.Options, frames int) {
	w, h := float64(cfg.Screen.Width), float64(cfg.Screen.Height)
	opts.Surface = app.NewHeadlessSurface(w, h, 1)
	opts.Input = &app.OrbitInput{Radius: w / 4, Period: 240, Leave: 4, W: w, H: h}

	a, err := app.New(opts)
	if err != nil {
		slog.Error("failed to create app", "error", err)
		return
	}
	if err := a.Start(ctx); err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer a.Unload()

	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	sched := app.NewFrameScheduler(1/float64(fps), frames)
	go func() {
		<-ctx.Done()
		sched.Stop()
	}()

	slog.Info("starting headless run",
		"seed", opts.Seed,
		"frames", frames,
		"viewport_w", w,
		"viewport_h", h,
	)
	a.Run(sched)
	slog.Info("headless run finished", "frames", a.Frame())
}

// runWindow opens the raylib window and runs until it closes.
func runWindow(ctx context.Context, cfg *config.Config, opts app.Options, frames int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	if player := openAudio(cfg); player != nil {
		defer player.Close()
		opts.Playback = player
	}

	surface := renderer.NewSurface()
	defer surface.Unload()
	opts.Surface = surface
	opts.Input = renderer.NewInput()

	a, err := app.New(opts)
	if err != nil {
		slog.Error("failed to create app", "error", err)
		return
	}
	if err := a.Start(ctx); err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer a.Unload()

	overlay := ui.NewOverlay(cfg.Screen.Title)
	overlay.OnToggle = a.TogglePlayback
	overlay.Perf = a.Perf().Stats
	surface.Overlay = overlay.Draw

	sched := &app.ClockScheduler{
		Wait:     func() bool { return !rl.WindowShouldClose() },
		MaxDelta: 0.1,
	}
	go func() {
		<-ctx.Done()
		sched.Stop()
	}()

	sched.Run(func(dt float64) {
		a.Step(dt)
		if frames > 0 && int(a.Frame()) >= frames {
			sched.Stop()
		}
	})
}

// openAudio loads the soundtrack. Any failure disables audio with a warning.
func openAudio(cfg *config.Config) *audio.Player {
	if !cfg.Audio.Enabled {
		return nil
	}
	p, err := audio.Open(cfg.Audio.Track)
	if err != nil {
		slog.Warn("audio disabled", "error", err)
		return nil
	}
	if cfg.Audio.Feedback {
		slog.Warn("microphone input unavailable, applying feedback delay to the track")
		delay := time.Duration(cfg.Audio.FeedbackDelay * float64(time.Second))
		p.EnableFeedback(delay, cfg.Audio.FeedbackGain)
	}
	if err := p.Init(); err != nil {
		slog.Warn("audio disabled", "error", err)
		p.Close()
		return nil
	}
	p.OnEnded(func() {
		slog.Info("track ended")
	})
	slog.Info("audio ready", "track", cfg.Audio.Track, "duration", p.Duration())
	return p
}
