package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/entnt-dental/clinic-service/internal/messaging"
)

// Backend persists the entire dataset as one document. Load degrades to
// the seed dataset instead of failing on missing or corrupt data; Save
// overwrites the previous document.
type Backend interface {
	Load(ctx context.Context) (AppData, error)
	Save(ctx context.Context, data AppData) error
}

// Store owns the in-memory dataset. All mutations go through the command
// apply function, every successful mutation is synchronized to the
// backend, and readers only ever see full snapshots. Persistence is
// best-effort: a failed Save is logged and the in-memory state stays
// authoritative for the running session.
//
// There is no cross-process coordination. Two processes pointed at the
// same backend overwrite each other, last writer wins.
type Store struct {
	mu      sync.RWMutex
	data    AppData
	backend Backend
	events  messaging.PublisherInterface
	ids     *idGenerator
}

// New creates a store bound to a backend. Call Load before serving.
func New(backend Backend) *Store {
	return &Store{
		backend: backend,
		ids:     newIDGenerator(),
	}
}

// WithPublisher wires a domain event publisher. Events are best-effort;
// a nil publisher disables them.
func (s *Store) WithPublisher(p messaging.PublisherInterface) *Store {
	s.events = p
	return s
}

// Load pulls the persisted dataset into memory. Backends return the seed
// dataset when nothing usable is stored, so after a successful Load the
// store always holds a structurally valid AppData.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.backend.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Snapshot returns a deep copy of the current dataset.
func (s *Store) Snapshot() AppData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// AddPatient assigns a fresh id and appends the patient.
func (s *Store) AddPatient(ctx context.Context, p Patient) (Patient, error) {
	p.ID = s.ids.next("p")
	if err := s.dispatch(ctx, Command{Op: OpAddPatient, Patient: p}); err != nil {
		return Patient{}, err
	}
	s.publish(ctx, messaging.EventPatientCreated, messaging.NewPatientEvent(messaging.EventPatientCreated, p.ID, p.Name))
	return p, nil
}

// UpdatePatient replaces the patient with the matching id.
func (s *Store) UpdatePatient(ctx context.Context, p Patient) error {
	if err := s.dispatch(ctx, Command{Op: OpUpdatePatient, Patient: p}); err != nil {
		return err
	}
	s.publish(ctx, messaging.EventPatientUpdated, messaging.NewPatientEvent(messaging.EventPatientUpdated, p.ID, p.Name))
	return nil
}

// DeletePatient removes the patient and, in the same state transition,
// every incident referencing it.
func (s *Store) DeletePatient(ctx context.Context, id string) error {
	if err := s.dispatch(ctx, Command{Op: OpDeletePatient, ID: id}); err != nil {
		return err
	}
	s.publish(ctx, messaging.EventPatientDeleted, messaging.NewPatientEvent(messaging.EventPatientDeleted, id, ""))
	return nil
}

// AddIncident assigns a fresh id and appends the incident. The caller is
// responsible for supplying a PatientID that exists; the container trusts
// the invariant to hold by construction.
func (s *Store) AddIncident(ctx context.Context, inc Incident) (Incident, error) {
	inc.ID = s.ids.next("i")
	if err := s.dispatch(ctx, Command{Op: OpAddIncident, Incident: inc}); err != nil {
		return Incident{}, err
	}
	s.publish(ctx, messaging.EventIncidentCreated, messaging.NewIncidentEvent(messaging.EventIncidentCreated, inc.ID, inc.PatientID, string(inc.Status)))
	return inc, nil
}

// UpdateIncident replaces the incident with the matching id.
func (s *Store) UpdateIncident(ctx context.Context, inc Incident) error {
	if err := s.dispatch(ctx, Command{Op: OpUpdateIncident, Incident: inc}); err != nil {
		return err
	}
	s.publish(ctx, messaging.EventIncidentUpdated, messaging.NewIncidentEvent(messaging.EventIncidentUpdated, inc.ID, inc.PatientID, string(inc.Status)))
	return nil
}

// DeleteIncident removes the incident with the matching id.
func (s *Store) DeleteIncident(ctx context.Context, id string) error {
	s.mu.RLock()
	var patientID string
	for _, inc := range s.data.Incidents {
		if inc.ID == id {
			patientID = inc.PatientID
			break
		}
	}
	s.mu.RUnlock()

	if err := s.dispatch(ctx, Command{Op: OpDeleteIncident, ID: id}); err != nil {
		return err
	}
	s.publish(ctx, messaging.EventIncidentDeleted, messaging.NewIncidentEvent(messaging.EventIncidentDeleted, id, patientID, ""))
	return nil
}

// FindPatient returns the patient with the given id from the current state.
func (s *Store) FindPatient(id string) (Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.data.Patients {
		if p.ID == id {
			return p, true
		}
	}
	return Patient{}, false
}

// FindIncident returns the incident with the given id from the current state.
func (s *Store) FindIncident(id string) (Incident, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inc := range s.data.Incidents {
		if inc.ID == id {
			return inc.Clone(), true
		}
	}
	return Incident{}, false
}

// IncidentsForPatient returns all incidents referencing the patient.
func (s *Store) IncidentsForPatient(patientID string) []Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Incident{}
	for _, inc := range s.data.Incidents {
		if inc.PatientID == patientID {
			out = append(out, inc.Clone())
		}
	}
	return out
}

// dispatch applies one command and synchronizes the new state to the
// backend. On apply error the state is untouched and nothing is saved.
func (s *Store) dispatch(ctx context.Context, cmd Command) error {
	s.mu.Lock()
	next, err := apply(s.data, cmd)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.data = next
	s.mu.Unlock()

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.backend.Save(saveCtx, next); err != nil {
		log.Printf("[ERROR] Failed to persist state after %s: %v", cmd.Op, err)
	}
	return nil
}

func (s *Store) publish(ctx context.Context, routingKey string, event interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, routingKey, event); err != nil {
		log.Printf("[ERROR] Failed to publish %s event: %v", routingKey, err)
	}
}
