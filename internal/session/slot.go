package session

import "sync"

// Slot is the ephemeral per-session storage for the serialized Principal.
// The contract is session-scoped browser storage: the value survives a
// reload within the same session and is cleared on logout. The stored
// value is an opaque serialized document; a consumer that cannot parse it
// must discard it and treat the session as absent.
type Slot interface {
	Put(raw []byte) error
	Get() ([]byte, bool)
	Clear()
}

// MemorySlot holds the serialized Principal in process memory.
type MemorySlot struct {
	mu  sync.Mutex
	raw []byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Put(raw []byte) error {
	s.mu.Lock()
	s.raw = append([]byte(nil), raw...)
	s.mu.Unlock()
	return nil
}

func (s *MemorySlot) Get() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.raw == nil {
		return nil, false
	}
	return append([]byte(nil), s.raw...), true
}

func (s *MemorySlot) Clear() {
	s.mu.Lock()
	s.raw = nil
	s.mu.Unlock()
}
