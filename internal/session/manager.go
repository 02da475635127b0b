package session

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/entnt-dental/clinic-service/internal/messaging"
	"github.com/entnt-dental/clinic-service/internal/store"
)

// Principal holds the authenticated user's public identity. It is the
// User record with the password stripped; the secret never leaves the
// manager.
type Principal struct {
	UserID    string     `json:"id"`
	Role      store.Role `json:"role"`
	Email     string     `json:"email"`
	PatientID string     `json:"patientId,omitempty"`
}

// IsAdmin reports whether the principal may access administrative views.
func (p Principal) IsAdmin() bool { return p.Role == store.RoleAdmin }

// State of the session lifecycle. The manager starts in StateLoading
// until the ephemeral slot has been checked once.
type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

// DataSource supplies the current user collection for credential checks.
// *store.Store satisfies it.
type DataSource interface {
	Snapshot() store.AppData
}

// Manager validates credentials against the dataset's users and keeps the
// active Principal in an ephemeral slot so it survives a reload within
// the same session.
type Manager struct {
	mu      sync.Mutex
	source  DataSource
	slot    Slot
	events  messaging.PublisherInterface
	state   State
	current *Principal
}

// NewManager creates a session manager. Call Restore once at startup to
// leave the loading state.
func NewManager(source DataSource, slot Slot) *Manager {
	return &Manager{
		source: source,
		slot:   slot,
		state:  StateLoading,
	}
}

// WithPublisher wires a login event publisher. Nil disables events.
func (m *Manager) WithPublisher(p messaging.PublisherInterface) *Manager {
	m.events = p
	return m
}

// Login scans the user collection for an exact email/password match. On a
// match the Principal (password stripped) becomes the active session and
// is written to the ephemeral slot. No match is a regular outcome, not an
// exception: ErrInvalidCredentials is returned for the caller to surface.
func (m *Manager) Login(ctx context.Context, email, password string) (*Principal, error) {
	var matched *store.User
	for _, u := range m.source.Snapshot().Users {
		if u.Email == email && u.Password == password {
			user := u
			matched = &user
			break
		}
	}
	if matched == nil {
		return nil, ErrInvalidCredentials
	}

	principal := Principal{
		UserID:    matched.ID,
		Role:      matched.Role,
		Email:     matched.Email,
		PatientID: matched.PatientID,
	}

	raw, err := json.Marshal(principal)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if err := m.slot.Put(raw); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.current = &principal
	m.state = StateAuthenticated
	m.mu.Unlock()

	if m.events != nil {
		ev := messaging.NewLoginEvent(principal.UserID, principal.Email, string(principal.Role))
		if err := m.events.Publish(ctx, messaging.EventUserLoggedIn, ev); err != nil {
			log.Printf("[ERROR] Failed to publish login event: %v", err)
		}
	}

	return &principal, nil
}

// Logout clears the active Principal and the ephemeral slot.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.slot.Clear()
	m.current = nil
	m.state = StateUnauthenticated
	m.mu.Unlock()
}

// Restore rehydrates the active Principal from the ephemeral slot. An
// unparseable stored value is discarded and treated as no session. After
// Restore the manager is never in the loading state.
func (m *Manager) Restore() (*Principal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.slot.Get()
	if !ok {
		m.current = nil
		m.state = StateUnauthenticated
		return nil, false
	}

	var principal Principal
	if err := json.Unmarshal(raw, &principal); err != nil {
		log.Printf("[ERROR] Failed to parse stored session, discarding: %v", err)
		m.slot.Clear()
		m.current = nil
		m.state = StateUnauthenticated
		return nil, false
	}

	m.current = &principal
	m.state = StateAuthenticated
	return &principal, true
}

// Current returns the active Principal, if any.
func (m *Manager) Current() (*Principal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, false
	}
	p := *m.current
	return &p, true
}

// State returns the session lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Loading reports whether the ephemeral slot has not been checked yet.
func (m *Manager) Loading() bool {
	return m.State() == StateLoading
}
