package fonts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/goregular"
)

func TestBuiltinFamiliesReady(t *testing.T) {
	lib := NewLibrary()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := lib.Ready(ctx, FamilyRegular, FamilyBold, FamilyItalic); err != nil {
		t.Fatalf("builtin families not ready: %v", err)
	}

	face, err := lib.Face(FamilyRegular, 24)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	again, err := lib.Face(FamilyRegular, 24)
	if err != nil {
		t.Fatal(err)
	}
	if face == again {
		t.Error("expected a distinct face per call")
	}
}

func TestFacesUsableConcurrently(t *testing.T) {
	lib := NewLibrary()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			face, err := lib.Face(FamilyRegular, 32)
			if err != nil {
				t.Error(err)
				return
			}
			defer face.Close()
			for _, r := range "glyphfield" {
				if _, ok := face.GlyphAdvance(r); !ok {
					t.Errorf("no advance for %q", r)
				}
			}
		}()
	}
	wg.Wait()
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeless.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}

	lib := NewLibrary()
	lib.Load(context.Background(), "Timeless", path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := lib.Ready(ctx, "Timeless"); err != nil {
		t.Fatalf("Ready: %v", err)
	}
	if _, err := lib.Face("Timeless", 40); err != nil {
		t.Errorf("Face after Ready: %v", err)
	}
	src, err := lib.Source("Timeless")
	if err != nil || len(src) != len(goregular.TTF) {
		t.Errorf("Source returned %d bytes, err %v", len(src), err)
	}
}

func TestLoadMissingFileFailsReady(t *testing.T) {
	lib := NewLibrary()
	lib.Load(context.Background(), "Missing", filepath.Join(t.TempDir(), "missing.ttf"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := lib.Ready(ctx, "Missing"); err == nil {
		t.Fatal("expected load error from Ready")
	}
	if _, err := lib.Face("Missing", 12); !errors.Is(err, ErrFontNotReady) {
		t.Errorf("expected ErrFontNotReady, got %v", err)
	}
}

func TestFaceBeforeLoadIsNotReady(t *testing.T) {
	lib := NewLibrary()
	if _, err := lib.Face("Timeless", 12); !errors.Is(err, ErrFontNotReady) {
		t.Errorf("expected ErrFontNotReady, got %v", err)
	}
}

func TestReadyUnknownFamily(t *testing.T) {
	lib := NewLibrary()
	if err := lib.Ready(context.Background(), "Nope"); !errors.Is(err, ErrUnknownFamily) {
		t.Errorf("expected ErrUnknownFamily, got %v", err)
	}
}

func TestFamilyForWeight(t *testing.T) {
	lib := NewLibrary()
	lib.MapWeight("700", FamilyBold)

	if got := lib.FamilyForWeight("700"); got != FamilyBold {
		t.Errorf("weight 700 -> %q, want %q", got, FamilyBold)
	}
	if got := lib.FamilyForWeight("300"); got != FamilyRegular {
		t.Errorf("unmapped weight -> %q, want fallback %q", got, FamilyRegular)
	}

	lib.SetFallback(FamilyItalic)
	if got := lib.FamilyForWeight("300"); got != FamilyItalic {
		t.Errorf("unmapped weight after SetFallback -> %q, want %q", got, FamilyItalic)
	}
}
