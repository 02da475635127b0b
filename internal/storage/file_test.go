package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/entnt-dental/clinic-service/internal/store"
)

func tempBackend(t *testing.T) *FileBackend {
	t.Helper()
	return NewFileBackend(filepath.Join(t.TempDir(), "clinic-data.json"))
}

func TestFileBackend_LoadAbsentYieldsSeedAndPersistsIt(t *testing.T) {
	backend := tempBackend(t)
	ctx := context.Background()

	data, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(data.Users) != 3 || len(data.Patients) != 2 || len(data.Incidents) != 4 {
		t.Errorf("Expected seed shape 3/2/4, got %d/%d/%d",
			len(data.Users), len(data.Patients), len(data.Incidents))
	}

	// The seed must have been written immediately.
	if _, err := os.Stat(backend.path); err != nil {
		t.Fatalf("Expected seed to be persisted: %v", err)
	}

	again, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("Second Load failed: %v", err)
	}
	if len(again.Patients) != 2 {
		t.Errorf("Persisted seed does not round-trip: %d patients", len(again.Patients))
	}
}

func TestFileBackend_LoadCorruptYieldsSeed(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "{{{nope"},
		{name: "wrong shape", raw: `"just a string"`},
		{name: "missing collections", raw: `{"users": []}`},
		{name: "empty object", raw: `{}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			backend := tempBackend(t)
			if err := os.WriteFile(backend.path, []byte(tc.raw), 0o644); err != nil {
				t.Fatalf("Failed to write fixture: %v", err)
			}

			data, err := backend.Load(context.Background())
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(data.Users) != 3 || len(data.Patients) != 2 || len(data.Incidents) != 4 {
				t.Errorf("Expected seed dataset, got %d/%d/%d",
					len(data.Users), len(data.Patients), len(data.Incidents))
			}
		})
	}
}

func TestFileBackend_SaveLoadIsIdempotent(t *testing.T) {
	backend := tempBackend(t)
	ctx := context.Background()

	if err := backend.Save(ctx, store.Seed()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	first, err := os.ReadFile(backend.path)
	if err != nil {
		t.Fatalf("Failed to read data file: %v", err)
	}

	loaded, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := backend.Save(ctx, loaded); err != nil {
		t.Fatalf("Re-save failed: %v", err)
	}
	second, err := os.ReadFile(backend.path)
	if err != nil {
		t.Fatalf("Failed to read data file: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("save(load()) produced a different document")
	}
}

func TestFileBackend_SaveOverwrites(t *testing.T) {
	backend := tempBackend(t)
	ctx := context.Background()

	data := store.Seed()
	if err := backend.Save(ctx, data); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data.Patients = append(data.Patients, store.Patient{ID: "p3", Name: "New Patient"})
	if err := backend.Save(ctx, data); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	loaded, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Patients) != 3 {
		t.Errorf("Expected 3 patients after overwrite, got %d", len(loaded.Patients))
	}
}

func TestMemoryBackend_CorruptRawYieldsSeed(t *testing.T) {
	backend := NewMemoryBackend()
	backend.SetRaw([]byte("garbage"))

	data, err := backend.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(data.Users) != 3 {
		t.Errorf("Expected seed users, got %d", len(data.Users))
	}
	// Degrading must also repair the stored document.
	if backend.Raw() == nil || string(backend.Raw()) == "garbage" {
		t.Error("Expected corrupt document to be replaced by the seed")
	}
}

func TestDisabledBackend(t *testing.T) {
	backend := DisabledBackend{}
	ctx := context.Background()

	data, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(data.Patients) != 2 {
		t.Errorf("Expected seed dataset, got %d patients", len(data.Patients))
	}
	if err := backend.Save(ctx, data); err != nil {
		t.Errorf("Save must be a no-op, got %v", err)
	}
}
