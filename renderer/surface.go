// Package renderer draws app frames with raylib and feeds raylib input back
// into the app.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glyphfield/app"
)

// proxyTexture is one text proxy's mesh on the GPU.
type proxyTexture struct {
	tex     rl.Texture2D
	version uint64
	w, h    float32
}

// Surface draws frames into the raylib window. It must be created after
// rl.InitWindow.
type Surface struct {
	camera rl.Camera2D
	w, h   float64
	dpr    float64

	points        []float32
	pointsVersion uint64
	textures      map[string]*proxyTexture

	// Overlay runs after the scene, in screen space, before the frame ends.
	Overlay func(f *app.Frame)
}

// NewSurface creates a surface for the current window.
func NewSurface() *Surface {
	s := &Surface{
		camera:   rl.Camera2D{Zoom: 1},
		dpr:      1,
		textures: make(map[string]*proxyTexture),
	}
	w, h := s.Size()
	s.resize(w, h)
	return s
}

// Size implements app.Surface.
func (s *Surface) Size() (w, h float64) {
	return float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
}

// PixelRatio implements app.Surface.
func (s *Surface) PixelRatio() float64 {
	scale := rl.GetWindowScaleDPI()
	if scale.X <= 0 {
		return 1
	}
	return float64(scale.X)
}

// Configure implements app.Surface. raylib sizes the framebuffer and
// Camera2D projects in logical pixels, so the projection matrix is not
// needed; the pixel ratio scales point sizes.
func (s *Surface) Configure(w, h, dpr float64, _ [16]float32) {
	s.resize(w, h)
	if dpr > 0 {
		s.dpr = dpr
	}
}

func (s *Surface) resize(w, h float64) {
	s.w, s.h = w, h
	// Scene origin at the window centre.
	s.camera.Offset = rl.Vector2{X: float32(w / 2), Y: float32(h / 2)}
}

// UploadPoints implements app.Surface.
func (s *Surface) UploadPoints(positions []float32, version uint64) {
	s.points = append(s.points[:0], positions...)
	s.pointsVersion = version
}

// DrawFrame implements app.Surface.
func (s *Surface) DrawFrame(f *app.Frame) {
	rl.BeginDrawing()
	rl.ClearBackground(f.Background)

	// Playback progress fills the width left to right.
	if f.Fill > 0 {
		x, y, fw, fh := f.FillRect(s.w, s.h)
		rl.DrawRectangle(int32(x), int32(y), int32(fw), int32(fh), f.FillColor)
	}

	rl.BeginMode2D(s.camera)
	s.drawProxies(f.Proxies)
	s.drawPoints(f.Points)
	rl.EndMode2D()

	if s.Overlay != nil {
		s.Overlay(f)
	}
	rl.EndDrawing()
}

// drawPoints draws the uploaded positions. Scene Y is up, screen Y is down.
// Point size is in device pixels, so it shrinks in logical pixels as the
// pixel ratio grows.
func (s *Surface) drawPoints(style app.PointStyle) {
	n := min(style.Count, len(s.points)/3)
	px := style.Extent(s.dpr)
	if px <= 1 && s.dpr <= 1 {
		for i := 0; i < n; i++ {
			j := i * 3
			rl.DrawPixelV(rl.Vector2{X: s.points[j], Y: -(s.points[j+1] + style.TranslateY)}, style.Color)
		}
		return
	}
	half := px / 2
	size := rl.Vector2{X: px, Y: px}
	for i := 0; i < n; i++ {
		j := i * 3
		pos := rl.Vector2{X: s.points[j] - half, Y: -(s.points[j+1] + style.TranslateY) - half}
		rl.DrawRectangleV(pos, size, style.Color)
	}
}

// drawProxies uploads changed meshes and draws every visible proxy.
// Textures of proxies that no longer have a mesh are released.
func (s *Surface) drawProxies(proxies []app.ProxyDraw) {
	seen := make(map[string]bool, len(proxies))
	rl.BeginBlendMode(rl.BlendAlphaPremultiply)
	for _, p := range proxies {
		seen[p.ID] = true
		pt := s.texture(p)
		if pt == nil || !p.Visible {
			continue
		}
		// X is the left edge, Y the vertical centre.
		pos := rl.Vector2{X: float32(p.X), Y: -float32(p.Y) - pt.h/2}
		rl.DrawTextureV(pt.tex, pos, rl.White)
	}
	rl.EndBlendMode()

	for id, pt := range s.textures {
		if !seen[id] {
			rl.UnloadTexture(pt.tex)
			delete(s.textures, id)
		}
	}
}

// texture returns the GPU texture for a proxy, re-uploading it when the mesh
// version changed.
func (s *Surface) texture(p app.ProxyDraw) *proxyTexture {
	pt := s.textures[p.ID]
	if pt != nil && pt.version == p.Version {
		return pt
	}
	if p.Mesh == nil || p.Mesh.Image == nil {
		return nil
	}
	if pt != nil {
		rl.UnloadTexture(pt.tex)
	}

	img := rl.NewImageFromImage(p.Mesh.Image)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(tex, rl.FilterBilinear)

	b := p.Mesh.Image.Bounds()
	pt = &proxyTexture{tex: tex, version: p.Version, w: float32(b.Dx()), h: float32(b.Dy())}
	s.textures[p.ID] = pt
	return pt
}

// Unload frees GPU resources.
func (s *Surface) Unload() {
	for id, pt := range s.textures {
		rl.UnloadTexture(pt.tex)
		delete(s.textures, id)
	}
}
