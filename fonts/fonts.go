// Package fonts owns font loading and the readiness gate that must be passed
// before any text is rasterized or shaped.
package fonts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Built-in family names, always loaded.
const (
	FamilyRegular = "Go"
	FamilyBold    = "Go Bold"
	FamilyItalic  = "Go Italic"
)

var (
	// ErrFontNotReady is returned when a family is used before it finished loading.
	ErrFontNotReady = errors.New("fonts: family not loaded")
	// ErrUnknownFamily is returned when waiting on a family that was never requested.
	ErrUnknownFamily = errors.New("fonts: unknown family")
)

// entry is one family's load state.
type entry struct {
	done chan struct{}
	data []byte
	font *opentype.Font
	err  error
}

// Library is the registry of font families.
type Library struct {
	mu       sync.RWMutex
	families map[string]*entry
	weights  map[string]string
	fallback string
}

// NewLibrary creates a library with the built-in Go fonts already loaded.
func NewLibrary() *Library {
	l := &Library{
		families: make(map[string]*entry),
		weights:  make(map[string]string),
		fallback: FamilyRegular,
	}
	l.addBuiltin(FamilyRegular, goregular.TTF)
	l.addBuiltin(FamilyBold, gobold.TTF)
	l.addBuiltin(FamilyItalic, goitalic.TTF)
	return l
}

func (l *Library) addBuiltin(name string, data []byte) {
	e := &entry{done: make(chan struct{}), data: data}
	e.font, e.err = opentype.Parse(data)
	close(e.done)
	l.families[name] = e
}

// Load starts loading a font file in the background. Calling Load again for a
// family that is already loading or loaded is a no-op.
func (l *Library) Load(ctx context.Context, name, path string) {
	l.mu.Lock()
	if _, ok := l.families[name]; ok {
		l.mu.Unlock()
		return
	}
	e := &entry{done: make(chan struct{})}
	l.families[name] = e
	l.mu.Unlock()

	go func() {
		defer close(e.done)
		if err := ctx.Err(); err != nil {
			e.err = err
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			e.err = fmt.Errorf("reading font %q: %w", name, err)
			return
		}
		f, err := opentype.Parse(data)
		if err != nil {
			e.err = fmt.Errorf("parsing font %q: %w", name, err)
			return
		}
		e.data, e.font = data, f
	}()
}

// Ready blocks until every named family has finished loading. It returns the
// first load error, or ctx's error if the context ends first.
func (l *Library) Ready(ctx context.Context, names ...string) error {
	for _, name := range names {
		l.mu.RLock()
		e, ok := l.families[name]
		l.mu.RUnlock()
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownFamily, name)
		}
		select {
		case <-e.done:
			if e.err != nil {
				return e.err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// loaded returns the entry for a family only if it finished loading successfully.
func (l *Library) loaded(name string) (*entry, error) {
	l.mu.RLock()
	e, ok := l.families[name]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFontNotReady, name)
	}
	select {
	case <-e.done:
	default:
		return nil, fmt.Errorf("%w: %q", ErrFontNotReady, name)
	}
	if e.err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrFontNotReady, name, e.err)
	}
	return e, nil
}

// Face returns a new face for the family at the given pixel size. Faces are
// not safe for concurrent use, so each caller gets its own and closes it.
func (l *Library) Face(name string, size float64) (font.Face, error) {
	e, err := l.loaded(name)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(e.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face %q@%.1f: %w", name, size, err)
	}
	return face, nil
}

// Source returns the raw font bytes of a loaded family.
func (l *Library) Source(name string) ([]byte, error) {
	e, err := l.loaded(name)
	if err != nil {
		return nil, err
	}
	return e.data, nil
}

// MapWeight associates a CSS font-weight with a family.
func (l *Library) MapWeight(weight, family string) {
	l.mu.Lock()
	l.weights[weight] = family
	l.mu.Unlock()
}

// SetFallback sets the family used for unmapped weights.
func (l *Library) SetFallback(family string) {
	if family == "" {
		return
	}
	l.mu.Lock()
	l.fallback = family
	l.mu.Unlock()
}

// FamilyForWeight maps a CSS font-weight to a family, falling back to the
// default family when the weight is unmapped.
func (l *Library) FamilyForWeight(weight string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if f, ok := l.weights[weight]; ok {
		return f
	}
	return l.fallback
}

// Families returns every registered family name.
func (l *Library) Families() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.families))
	for name := range l.families {
		names = append(names, name)
	}
	return names
}
