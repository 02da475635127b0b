package storage

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/entnt-dental/clinic-service/internal/store"
)

// MemoryBackend keeps the serialized document in process memory. It
// mirrors the durable backends exactly (including degrade-to-seed on
// corrupt content) and is used by tests and ephemeral deployments.
type MemoryBackend struct {
	mu   sync.Mutex
	raw  []byte
	seed SeedFunc
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{seed: store.Seed}
}

// SetRaw replaces the stored document with arbitrary bytes. Tests use it
// to simulate corrupt persisted state.
func (b *MemoryBackend) SetRaw(raw []byte) {
	b.mu.Lock()
	b.raw = raw
	b.mu.Unlock()
}

// Raw returns the currently stored document.
func (b *MemoryBackend) Raw() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.raw
}

// Load returns the stored dataset, degrading to the seed on absent or
// invalid content.
func (b *MemoryBackend) Load(ctx context.Context) (store.AppData, error) {
	b.mu.Lock()
	raw := b.raw
	b.mu.Unlock()

	if raw == nil {
		return b.reseed(ctx), nil
	}
	var data store.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Printf("[ERROR] Corrupt in-memory data, falling back to seed data: %v", err)
		return b.reseed(ctx), nil
	}
	if !data.Valid() {
		return b.reseed(ctx), nil
	}
	return data, nil
}

// Save serializes and overwrites the stored document.
func (b *MemoryBackend) Save(ctx context.Context, data store.AppData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.raw = raw
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) reseed(ctx context.Context) store.AppData {
	data := b.seed()
	if err := b.Save(ctx, data); err != nil {
		log.Printf("[ERROR] Failed to persist seed data: %v", err)
	}
	return data
}

// DisabledBackend is used where no durable storage is available: Load
// returns the seed dataset without attempting I/O and Save is a no-op.
type DisabledBackend struct{}

func (DisabledBackend) Load(ctx context.Context) (store.AppData, error) {
	return store.Seed(), nil
}

func (DisabledBackend) Save(ctx context.Context, data store.AppData) error {
	return nil
}
