package httpapi

import (
	"context"
	"errors"

	"github.com/entnt-dental/clinic-service/internal/store"
)

// mockService implements StoreService for testing
type mockService struct {
	snapshotFunc            func() store.AppData
	addPatientFunc          func(ctx context.Context, p store.Patient) (store.Patient, error)
	updatePatientFunc       func(ctx context.Context, p store.Patient) error
	deletePatientFunc       func(ctx context.Context, id string) error
	addIncidentFunc         func(ctx context.Context, inc store.Incident) (store.Incident, error)
	updateIncidentFunc      func(ctx context.Context, inc store.Incident) error
	deleteIncidentFunc      func(ctx context.Context, id string) error
	findPatientFunc         func(id string) (store.Patient, bool)
	findIncidentFunc        func(id string) (store.Incident, bool)
	incidentsForPatientFunc func(patientID string) []store.Incident
}

func (m *mockService) Snapshot() store.AppData {
	if m.snapshotFunc != nil {
		return m.snapshotFunc()
	}
	return store.AppData{Users: []store.User{}, Patients: []store.Patient{}, Incidents: []store.Incident{}}
}

func (m *mockService) AddPatient(ctx context.Context, p store.Patient) (store.Patient, error) {
	if m.addPatientFunc != nil {
		return m.addPatientFunc(ctx, p)
	}
	return store.Patient{}, errors.New("not implemented")
}

func (m *mockService) UpdatePatient(ctx context.Context, p store.Patient) error {
	if m.updatePatientFunc != nil {
		return m.updatePatientFunc(ctx, p)
	}
	return errors.New("not implemented")
}

func (m *mockService) DeletePatient(ctx context.Context, id string) error {
	if m.deletePatientFunc != nil {
		return m.deletePatientFunc(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockService) AddIncident(ctx context.Context, inc store.Incident) (store.Incident, error) {
	if m.addIncidentFunc != nil {
		return m.addIncidentFunc(ctx, inc)
	}
	return store.Incident{}, errors.New("not implemented")
}

func (m *mockService) UpdateIncident(ctx context.Context, inc store.Incident) error {
	if m.updateIncidentFunc != nil {
		return m.updateIncidentFunc(ctx, inc)
	}
	return errors.New("not implemented")
}

func (m *mockService) DeleteIncident(ctx context.Context, id string) error {
	if m.deleteIncidentFunc != nil {
		return m.deleteIncidentFunc(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockService) FindPatient(id string) (store.Patient, bool) {
	if m.findPatientFunc != nil {
		return m.findPatientFunc(id)
	}
	return store.Patient{}, false
}

func (m *mockService) FindIncident(id string) (store.Incident, bool) {
	if m.findIncidentFunc != nil {
		return m.findIncidentFunc(id)
	}
	return store.Incident{}, false
}

func (m *mockService) IncidentsForPatient(patientID string) []store.Incident {
	if m.incidentsForPatientFunc != nil {
		return m.incidentsForPatientFunc(patientID)
	}
	return []store.Incident{}
}
