package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:        SnapshotVersion,
		RNGSeed:        42,
		ViewportWidth:  1280,
		ViewportHeight: 720,
		PixelRatio:     2,
		Text:           "A\nB",
		FontFamily:     "Go",
		FontSize:       128,
		RasterWidth:    80,
		RasterHeight:   256,
		Frame:          1000,
		Scroll:         12.5,
		PointerX:       -9999,
		PointerY:       -9999,
		Points: PointStates(
			[]float32{1, 2, 0, 3, 4, 0},
			[]float32{1.5, 2.5, 0, 3, 4, 0},
		),
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.RNGSeed != snapshot.RNGSeed {
		t.Errorf("RNGSeed mismatch: got %d, want %d", loaded.RNGSeed, snapshot.RNGSeed)
	}
	if loaded.Frame != snapshot.Frame || loaded.Text != snapshot.Text {
		t.Errorf("header mismatch: got frame %d text %q", loaded.Frame, loaded.Text)
	}
	if len(loaded.Points) != 2 {
		t.Fatalf("Points count mismatch: got %d, want 2", len(loaded.Points))
	}
	if loaded.Points[0] != (PointState{OX: 1, OY: 2, X: 1.5, Y: 2.5}) {
		t.Errorf("point mismatch: %+v", loaded.Points[0])
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion, Frame: 3000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected := filepath.Join(tmpDir, "snapshot_3000.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestLoadSnapshotRejectsOtherVersions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadSnapshot(path)
	if err == nil || !strings.Contains(err.Error(), "version") {
		t.Errorf("expected version error, got %v", err)
	}
}
