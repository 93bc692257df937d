package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileStore(t *testing.T) {
	t.Run("SaveAndLoad", func(t *testing.T) {
		dir := t.TempDir()
		store := NewFileStore(filepath.Join(dir, "nested", "features.json"))

		snap := &Snapshot{
			ModelName:  "DemoCam",
			VendorName: "Example Devices",
			Features: []Feature{
				{Name: "Width", Value: "320"},
				{Name: "PixelFormat", Value: "Mono16"},
			},
		}
		if err := store.Save(snap); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if snap.Version != FormatVersion {
			t.Errorf("Version = %d, want %d", snap.Version, FormatVersion)
		}
		if snap.SavedAt.IsZero() {
			t.Error("SavedAt not set")
		}

		got, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got.ModelName != "DemoCam" {
			t.Errorf("ModelName = %q, want %q", got.ModelName, "DemoCam")
		}
		if len(got.Features) != 2 {
			t.Fatalf("len(Features) = %d, want 2", len(got.Features))
		}
		if v, ok := got.Value("PixelFormat"); !ok || v != "Mono16" {
			t.Errorf("Value(PixelFormat) = %q, %v, want Mono16", v, ok)
		}
		if _, ok := got.Value("Height"); ok {
			t.Error("Value(Height) found, want missing")
		}
	})

	t.Run("LoadNonExistent", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))

		got, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got != nil {
			t.Errorf("Load() = %v, want nil for non-existent file", got)
		}
	})

	t.Run("KeepsSavedAt", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "features.json"))
		at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		if err := store.Save(&Snapshot{ModelName: "DemoCam", SavedAt: at}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		got, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !got.SavedAt.Equal(at) {
			t.Errorf("SavedAt = %v, want %v", got.SavedAt, at)
		}
	})

	t.Run("RejectsOtherVersions", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "features.json")
		if err := os.WriteFile(path, []byte(`{"version": 7, "model_name": "DemoCam"}`), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := NewFileStore(path).Load()
		if !errors.Is(err, ErrUnsupportedVersion) {
			t.Errorf("Load() error = %v, want ErrUnsupportedVersion", err)
		}
	})

	t.Run("RejectsGarbage", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "features.json")
		if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewFileStore(path).Load(); err == nil {
			t.Error("Load() succeeded on invalid JSON")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "features.json"))
		if err := store.Save(&Snapshot{ModelName: "DemoCam"}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := store.Clear(); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
			t.Error("state file still exists after Clear()")
		}
		// Clearing twice is fine.
		if err := store.Clear(); err != nil {
			t.Errorf("second Clear() error = %v", err)
		}
	})
}
