// Command optimize searches the particle font fractions that make the text
// fill a target share of the screen across common viewport sizes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/glyphfield/app"
	"github.com/pthm-cable/glyphfield/config"
	"github.com/pthm-cable/glyphfield/fonts"
)

// EvalRecord is one row of the evaluation log.
type EvalRecord struct {
	Eval              int     `csv:"eval"`
	Fitness           float64 `csv:"fitness"`
	SmallFontFraction float64 `csv:"small_font_fraction"`
	LargeFontFraction float64 `csv:"large_font_fraction"`
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	targetFill := flag.Float64("target-fill", 0.8, "Desired text width as a fraction of the viewport")
	maxPoints := flag.Int("max-points", 0, "Point limit per viewport (0 = unlimited)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	ctx := context.Background()
	lib := fonts.NewLibrary()
	app.LoadFonts(ctx, lib, baseCfg)
	if err := lib.Ready(ctx, baseCfg.Particles.FontFamily); err != nil {
		log.Fatalf("particle font: %v", err)
	}

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, baseCfg, lib, *targetFill, *maxPoints)

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.Evaluate(params.Denormalize(x))
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	var records []EvalRecord
	startTime := time.Now()

	baseFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := baseFunc(x)
		evalCount++

		clamped := params.Clamp(params.Denormalize(x))
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = clamped
		}
		records = append(records, EvalRecord{
			Eval:              evalCount,
			Fitness:           fitness,
			SmallFontFraction: clamped[0],
			LargeFontFraction: clamped[1],
		})

		fmt.Printf("Eval %d/%d: fitness=%.5f small=%.4f large=%.4f (best=%.5f)\n",
			evalCount, *maxEvals, fitness, clamped[0], clamped[1], bestFitness)
		return fitness
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil {
		if result == nil {
			log.Fatal("no evaluations completed")
		}
		bestParams = params.Clamp(params.Denormalize(result.X))
	}

	if err := gocsv.MarshalFile(&records, logFile); err != nil {
		log.Printf("failed to write evaluation log: %v", err)
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, time.Since(startTime).Round(time.Millisecond))
	fmt.Printf("Best fitness: %.5f\n", bestFitness)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	// Re-measure so the printed table matches the best parameters.
	evaluator.Evaluate(bestParams)
	fmt.Println("\nPer viewport:")
	for _, m := range evaluator.LastMeasurements() {
		fmt.Printf("  %-10s %5.0fx%-5.0f font=%6.1f fill=%.2f points=%d\n",
			m.Viewport.Name, m.Viewport.W, m.Viewport.H, m.FontSize, m.FillW, m.Points)
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
