package httpapi

import (
	"context"

	"github.com/entnt-dental/clinic-service/internal/store"
)

// StoreService is the surface of the domain state container the handlers
// dispatch through. *store.Store satisfies it; tests substitute mocks.
type StoreService interface {
	Snapshot() store.AppData
	AddPatient(ctx context.Context, p store.Patient) (store.Patient, error)
	UpdatePatient(ctx context.Context, p store.Patient) error
	DeletePatient(ctx context.Context, id string) error
	AddIncident(ctx context.Context, inc store.Incident) (store.Incident, error)
	UpdateIncident(ctx context.Context, inc store.Incident) error
	DeleteIncident(ctx context.Context, id string) error
	FindPatient(id string) (store.Patient, bool)
	FindIncident(id string) (store.Incident, bool)
	IncidentsForPatient(patientID string) []store.Incident
}

var _ StoreService = (*store.Store)(nil)
