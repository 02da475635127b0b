// Package storage provides persistence backends for the clinic dataset.
// Each backend stores the entire AppData as a single JSON document under
// a fixed key. There is no cross-process locking: concurrent writers to
// the same slot overwrite each other and the last writer wins.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/entnt-dental/clinic-service/internal/store"
)

// SeedFunc supplies the default dataset used when nothing usable is stored.
type SeedFunc func() store.AppData

// DefaultFilePath is used when CLINIC_DATA_FILE is not set.
const DefaultFilePath = "clinic-data.json"

// FileBackend persists the dataset to one JSON file on disk.
type FileBackend struct {
	path string
	seed SeedFunc
}

// NewFileBackend creates a file backend. An empty path falls back to the
// CLINIC_DATA_FILE environment variable, then to DefaultFilePath.
func NewFileBackend(path string) *FileBackend {
	if path == "" {
		path = os.Getenv("CLINIC_DATA_FILE")
	}
	if path == "" {
		path = DefaultFilePath
	}
	return &FileBackend{path: path, seed: store.Seed}
}

// Load reads the persisted dataset. A missing, unreadable or structurally
// invalid file degrades to the seed dataset, which is persisted
// immediately so the next Load sees it.
func (b *FileBackend) Load(ctx context.Context) (store.AppData, error) {
	raw, err := os.ReadFile(b.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("[ERROR] Failed to read %s, falling back to seed data: %v", b.path, err)
		}
		return b.reseed(ctx), nil
	}

	var data store.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Printf("[ERROR] Corrupt data file %s, falling back to seed data: %v", b.path, err)
		return b.reseed(ctx), nil
	}
	if !data.Valid() {
		log.Printf("[ERROR] Data file %s is missing collections, falling back to seed data", b.path)
		return b.reseed(ctx), nil
	}
	return data, nil
}

// Save serializes and overwrites the data file.
func (b *FileBackend) Save(ctx context.Context, data store.AppData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal app data: %w", err)
	}
	if dir := filepath.Dir(b.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	if err := os.WriteFile(b.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", b.path, err)
	}
	return nil
}

func (b *FileBackend) reseed(ctx context.Context) store.AppData {
	data := b.seed()
	if err := b.Save(ctx, data); err != nil {
		log.Printf("[ERROR] Failed to persist seed data: %v", err)
	}
	return data
}
