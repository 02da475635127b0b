package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/entnt-dental/clinic-service/internal/store"
)

// mockSource implements DataSource for testing
type mockSource struct {
	data store.AppData
}

func (m *mockSource) Snapshot() store.AppData { return m.data }

func seededManager() (*Manager, *MemorySlot) {
	slot := NewMemorySlot()
	m := NewManager(&mockSource{data: store.Seed()}, slot)
	return m, slot
}

func TestLogin_Success(t *testing.T) {
	m, slot := seededManager()

	principal, err := m.Login(context.Background(), "john@entnt.in", "patient123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if principal.Role != store.RolePatient {
		t.Errorf("Expected Patient role, got %s", principal.Role)
	}
	if principal.PatientID != "p1" {
		t.Errorf("Expected patient link p1, got %q", principal.PatientID)
	}
	if m.State() != StateAuthenticated {
		t.Errorf("Expected StateAuthenticated, got %v", m.State())
	}

	// The slot must hold the Principal with the secret stripped.
	raw, ok := slot.Get()
	if !ok {
		t.Fatal("Expected slot to hold the session")
	}
	var stored map[string]interface{}
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("Slot content is not JSON: %v", err)
	}
	if _, has := stored["password"]; has {
		t.Error("Stored principal must not contain the password")
	}
}

func TestLogin_Failures(t *testing.T) {
	m, _ := seededManager()

	testCases := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "admin@entnt.in", password: "nope"},
		{name: "unknown email", email: "ghost@entnt.in", password: "admin123"},
		{name: "right password wrong account", email: "john@entnt.in", password: "admin123"},
		{name: "empty credentials", email: "", password: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			principal, err := m.Login(context.Background(), tc.email, tc.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("Expected ErrInvalidCredentials, got %v", err)
			}
			if principal != nil {
				t.Error("Expected no principal on failed login")
			}
		})
	}
}

func TestLogout_ClearsSessionAndSlot(t *testing.T) {
	m, slot := seededManager()

	if _, err := m.Login(context.Background(), "admin@entnt.in", "admin123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	m.Logout()

	if _, ok := m.Current(); ok {
		t.Error("Expected no current principal after logout")
	}
	if _, ok := slot.Get(); ok {
		t.Error("Expected slot to be cleared after logout")
	}
	if m.State() != StateUnauthenticated {
		t.Errorf("Expected StateUnauthenticated, got %v", m.State())
	}
}

func TestRestore_StateMachine(t *testing.T) {
	m, slot := seededManager()

	if !m.Loading() {
		t.Error("Expected manager to start in the loading state")
	}

	// Empty slot: restore lands in Unauthenticated.
	if _, ok := m.Restore(); ok {
		t.Error("Expected no session from an empty slot")
	}
	if m.State() != StateUnauthenticated {
		t.Errorf("Expected StateUnauthenticated, got %v", m.State())
	}

	// Valid slot content: restore rehydrates the principal.
	raw, _ := json.Marshal(Principal{UserID: "1", Role: store.RoleAdmin, Email: "admin@entnt.in"})
	slot.Put(raw)
	principal, ok := m.Restore()
	if !ok {
		t.Fatal("Expected restore to succeed")
	}
	if principal.Email != "admin@entnt.in" {
		t.Errorf("Unexpected principal: %+v", principal)
	}
	if m.State() != StateAuthenticated {
		t.Errorf("Expected StateAuthenticated, got %v", m.State())
	}
}

func TestRestore_CorruptSlotIsDiscarded(t *testing.T) {
	m, slot := seededManager()
	slot.Put([]byte("not json at all"))

	if _, ok := m.Restore(); ok {
		t.Fatal("Expected restore to fail on corrupt slot content")
	}
	if m.State() != StateUnauthenticated {
		t.Errorf("Expected StateUnauthenticated, got %v", m.State())
	}
	if _, ok := slot.Get(); ok {
		t.Error("Expected corrupt slot content to be cleared")
	}
}
