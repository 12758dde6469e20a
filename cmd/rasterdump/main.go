// Raster dump tool - rasterizes the particle text for a viewport and writes
// the glyph raster to a PNG and the sampled rest positions to a CSV file.
//
// Usage: go run ./cmd/rasterdump -width 1280 -out dump.png -points points.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/glyphfield/app"
	"github.com/pthm-cable/glyphfield/config"
	"github.com/pthm-cable/glyphfield/field"
	"github.com/pthm-cable/glyphfield/fonts"
	"github.com/pthm-cable/glyphfield/raster"
)

// PointRow is one rest position in the CSV output.
type PointRow struct {
	Index int     `csv:"index"`
	X     float32 `csv:"x"`
	Y     float32 `csv:"y"`
	Z     float32 `csv:"z"`
}

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	text := flag.String("text", "", "Override the particle text")
	width := flag.Float64("width", 1280, "Viewport width the font size is derived from")
	outPath := flag.String("out", "raster.png", "Output PNG path (empty = skip)")
	pointsPath := flag.String("points", "", "Output CSV path for rest positions (empty = skip)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *text != "" {
		cfg.Particles.Text = *text
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	lib := fonts.NewLibrary()
	app.LoadFonts(ctx, lib, cfg)

	p := app.NewParticles(lib, cfg)
	if err := lib.Ready(ctx, p.Family()); err != nil {
		fmt.Fprintf(os.Stderr, "Font %q unavailable: %v\n", p.Family(), err)
		os.Exit(1)
	}
	if _, err := p.Rebuild(*width); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to rasterize: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Rasterized %q at %.1fpx: %dx%d, %d points\n",
		cfg.Particles.Text, p.FontSize(), p.Raster.Width, p.Raster.Height, p.Field.Len())

	if *outPath != "" {
		if err := exportPNG(p.Raster, *outPath); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Raster written to: %s\n", *outPath)
	}

	if *pointsPath != "" {
		if err := exportPoints(p.Field, *pointsPath); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Points written to: %s\n", *pointsPath)
	}
}

// exportPNG writes the raster tinted with its fill color.
func exportPNG(r *raster.GlyphRaster, path string) error {
	alpha := r.Image()
	tinted := image.NewNRGBA(alpha.Rect)
	for i, a := range alpha.Pix {
		tinted.Pix[4*i] = r.Color.R
		tinted.Pix[4*i+1] = r.Color.G
		tinted.Pix[4*i+2] = r.Color.B
		tinted.Pix[4*i+3] = a
	}

	img := rl.NewImageFromImage(tinted)
	defer rl.UnloadImage(img)
	if !rl.ExportImage(*img, path) {
		return fmt.Errorf("failed to export image: %s", path)
	}
	return nil
}

func exportPoints(pf field.PointField, path string) error {
	rows := make([]PointRow, pf.Len())
	for i := range rows {
		x, y, z := pf.At(i)
		rows[i] = PointRow{Index: i, X: x, Y: y, Z: z}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create points file: %w", err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("write points: %w", err)
	}
	return nil
}
