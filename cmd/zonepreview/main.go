// Zone preview tool - interactive visualization of the pointer response bands.
//
// Usage: go run ./cmd/zonepreview
package main

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/glyphfield/camera"
	"github.com/pthm-cable/glyphfield/field"
	"github.com/pthm-cable/glyphfield/interaction"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 256
	pointStep    = 8 // Spacing of the sample particle grid in preview pixels
)

// view maps the centered preview scene to preview pixels.
var view = camera.New(previewSize, previewSize, 1, 1)

// ZoneParams holds the radii being previewed.
type ZoneParams struct {
	Inner   float32
	Falloff float32
	Seed    int64
}

func defaultParams() ZoneParams {
	return ZoneParams{Inner: field.HoldRadius, Falloff: field.FalloffWidth, Seed: 1}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Zone Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	rng := rand.New(rand.NewSource(params.Seed))

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	// Sample particles on a regular grid, preview-local and centered.
	var xyz []float32
	half := float32(previewSize) / 2
	for y := float32(-half); y < half; y += pointStep {
		for x := float32(-half); x < half; x += pointStep {
			xyz = append(xyz, x, y, 0)
		}
	}
	points := field.NewPointField(xyz)
	buf := field.NewRenderBuffer(points)

	showHeat := true
	needsRegen := true

	for !rl.WindowShouldClose() {
		in := pointerInteraction(params)

		if needsRegen {
			updateTexture(texture, params)
			needsRegen = false
		}
		counts := field.Displace(points, buf, in, 0, rng)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawRectangle(10, 10, previewSize, previewSize, rl.Black)
		if showHeat {
			rl.DrawTexturePro(
				texture,
				rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
				rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
				rl.Vector2{},
				0,
				rl.White,
			)
		}
		drawPoints(buf.Positions())
		if in.X != interaction.Far {
			cx, cy := toScreen(in.X, in.Y)
			rl.DrawCircleLines(int32(cx), int32(cy), in.Inner, rl.Green)
			rl.DrawCircleLines(int32(cx), int32(cy), in.Outer, rl.Orange)
		}
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Hold: %d  Falloff: %d  Ambient: %d", counts.Hold, counts.Falloff, counts.Ambient), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Peak falloff jitter: %.1f  Ambient jitter: %.1f", float32(field.FalloffMagnitude)/2, float32(field.AmbientMagnitude)/2), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Response Bands", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Hold radius (points stay at rest)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newInner := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "200",
			params.Inner, 0, 200,
		)
		rl.DrawText(fmt.Sprintf("%.0f", params.Inner), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newInner != params.Inner {
			params.Inner = newInner
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Falloff width (smoothstep band)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newFalloff := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "250",
			params.Falloff, 1, 250,
		)
		rl.DrawText(fmt.Sprintf("%.0f", params.Falloff), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newFalloff != params.Falloff {
			params.Falloff = newFalloff
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(showHeat, "Hide Heat", "Show Heat")) {
			showHeat = !showHeat
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			rng.Seed(params.Seed)
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("Constants:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		lines := []string{
			fmt.Sprintf("HoldRadius   = %.0f", params.Inner),
			fmt.Sprintf("FalloffWidth = %.0f", params.Falloff),
		}
		for _, line := range lines {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy constants to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(fmt.Sprintf("HoldRadius = %.0f\nFalloffWidth = %.0f", params.Inner, params.Falloff))
		}

		rl.EndDrawing()
	}
}

// pointerInteraction places the interaction under the mouse, or at the
// sentinel when the mouse is outside the preview.
func pointerInteraction(p ZoneParams) field.Interaction {
	in := field.Interaction{X: interaction.Far, Y: interaction.Far, Inner: p.Inner, Outer: p.Inner + p.Falloff}
	m := rl.GetMousePosition()
	if m.X < 10 || m.Y < 10 || m.X > 10+previewSize || m.Y > 10+previewSize {
		return in
	}
	in.X, in.Y = view.ScreenToWorld(m.X-10, m.Y-10)
	return in
}

// toScreen maps centered Y-up preview coordinates to window pixels.
func toScreen(x, y float32) (float32, float32) {
	sx, sy := view.WorldToScreen(x, y)
	return sx + 10, sy + 10
}

func drawPoints(pos []float32) {
	for i := 0; i+2 < len(pos); i += 3 {
		sx, sy := toScreen(pos[i], pos[i+1])
		rl.DrawPixelV(rl.Vector2{X: sx, Y: sy}, rl.White)
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// updateTexture renders the displacement envelope around the preview centre.
func updateTexture(texture rl.Texture2D, p ZoneParams) {
	peak := float32(max(field.FalloffMagnitude, field.AmbientMagnitude)) / 2
	scale := float32(previewSize) / gridSize
	pixels := make([]color.RGBA, gridSize*gridSize)
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			dx := (float32(x) + 0.5 - gridSize/2) * scale
			dy := (float32(y) + 0.5 - gridSize/2) * scale
			d := float32(math.Hypot(float64(dx), float64(dy)))
			v := field.Envelope(d, p.Inner, p.Inner+p.Falloff) / peak

			var c color.RGBA
			switch field.ClassifyZone(d, p.Inner, p.Inner+p.Falloff) {
			case field.ZoneHold:
				c = color.RGBA{R: 10, G: 40, B: 20, A: 255}
			case field.ZoneFalloff:
				c = color.RGBA{R: uint8(40 + v*160), G: uint8(60 + v*100), B: 40, A: 255}
			default:
				c = color.RGBA{R: 30, G: 30, B: uint8(60 + v*60), A: 255}
			}
			pixels[y*gridSize+x] = c
		}
	}
	rl.UpdateTexture(texture, pixels)
}
