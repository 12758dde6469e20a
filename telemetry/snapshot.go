package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the particle field state of one frame so it can be
// inspected or compared across runs.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	ViewportWidth  float64 `json:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height"`
	PixelRatio     float64 `json:"pixel_ratio"`

	Text         string  `json:"text"`
	FontFamily   string  `json:"font_family"`
	FontSize     float64 `json:"font_size"`
	RasterWidth  int     `json:"raster_width"`
	RasterHeight int     `json:"raster_height"`

	Frame    int32   `json:"frame"`
	Scroll   float64 `json:"scroll"`
	PointerX float32 `json:"pointer_x"`
	PointerY float32 `json:"pointer_y"`

	Points []PointState `json:"points"`
}

// PointState holds one particle's rest and displaced position.
type PointState struct {
	OX float32 `json:"ox"`
	OY float32 `json:"oy"`
	X  float32 `json:"x"`
	Y  float32 `json:"y"`
}

// PointStates pairs flat xyz origin and position buffers.
func PointStates(origins, positions []float32) []PointState {
	n := min(len(origins), len(positions)) / 3
	out := make([]PointState, n)
	for i := range out {
		out[i] = PointState{
			OX: origins[3*i],
			OY: origins[3*i+1],
			X:  positions[3*i],
			Y:  positions[3*i+1],
		}
	}
	return out
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Frame))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
