package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/entnt-dental/clinic-service/internal/store"
)

// PatientMetricsRecorder records patient operation metrics.
type PatientMetricsRecorder interface {
	RecordPatientOperation(ctx context.Context, operation string)
}

// PatientsHandler serves the patient CRUD routes.
type PatientsHandler struct {
	service StoreService
	metrics PatientMetricsRecorder
}

func NewPatientsHandler(service StoreService, metrics PatientMetricsRecorder) *PatientsHandler {
	return &PatientsHandler{service: service, metrics: metrics}
}

// PatientRequest carries the editable patient fields.
type PatientRequest struct {
	Name          string `json:"name"`
	DateOfBirth   string `json:"dateOfBirth"` // Format: YYYY-MM-DD
	ContactNumber string `json:"contactNumber"`
	HealthInfo    string `json:"healthInfo"`
}

func (r PatientRequest) validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.DateOfBirth != "" {
		if _, err := time.Parse("2006-01-02", r.DateOfBirth); err != nil {
			return errors.New("dateOfBirth must be in YYYY-MM-DD format")
		}
	}
	return nil
}

type PatientResponse struct {
	Success bool           `json:"success"`
	Patient *store.Patient `json:"patient,omitempty"`
}

type PatientListResponse struct {
	Success  bool            `json:"success"`
	Patients []store.Patient `json:"patients"`
	Total    int             `json:"total"`
}

// ListPatients returns all patients. Admin only by route permission.
func (h *PatientsHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	pr, ok := FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	data := h.service.Snapshot()
	patients := data.Patients

	// Patient-role callers only ever see their own record.
	if !pr.IsAdmin() {
		patients = []store.Patient{}
		for _, p := range data.Patients {
			if p.ID == pr.PatientID {
				patients = append(patients, p)
			}
		}
	}

	respondJSON(w, http.StatusOK, PatientListResponse{
		Success:  true,
		Patients: patients,
		Total:    len(patients),
	})
}

// CreatePatient adds a new patient record.
func (h *PatientsHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	patient, err := h.service.AddPatient(r.Context(), store.Patient{
		Name:          req.Name,
		DateOfBirth:   req.DateOfBirth,
		ContactNumber: req.ContactNumber,
		HealthInfo:    req.HealthInfo,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "creation_failed", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPatientOperation(r.Context(), "create")
	}
	respondJSON(w, http.StatusCreated, PatientResponse{Success: true, Patient: &patient})
}

// GetPatient returns one patient. Patient-role callers may only fetch
// their own record.
func (h *PatientsHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	pr, ok := FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	id := mux.Vars(r)["id"]
	if !pr.IsAdmin() && pr.PatientID != id {
		respondError(w, http.StatusForbidden, "forbidden", "You may only view your own record")
		return
	}

	patient, found := h.service.FindPatient(id)
	if !found {
		respondError(w, http.StatusNotFound, "not_found", "Patient not found")
		return
	}
	respondJSON(w, http.StatusOK, PatientResponse{Success: true, Patient: &patient})
}

// UpdatePatient replaces the patient with the matching id.
func (h *PatientsHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	patient := store.Patient{
		ID:            id,
		Name:          req.Name,
		DateOfBirth:   req.DateOfBirth,
		ContactNumber: req.ContactNumber,
		HealthInfo:    req.HealthInfo,
	}
	if err := h.service.UpdatePatient(r.Context(), patient); err != nil {
		if errors.Is(err, store.ErrPatientNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Patient not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "update_failed", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPatientOperation(r.Context(), "update")
	}
	respondJSON(w, http.StatusOK, PatientResponse{Success: true, Patient: &patient})
}

// DeletePatient removes the patient and cascades to its incidents.
func (h *PatientsHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.DeletePatient(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrPatientNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Patient not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "deletion_failed", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPatientOperation(r.Context(), "delete")
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Patient and related incidents deleted",
	})
}

// ListPatientIncidents returns all incidents for one patient.
// Patient-role callers may only fetch their own.
func (h *PatientsHandler) ListPatientIncidents(w http.ResponseWriter, r *http.Request) {
	pr, ok := FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	id := mux.Vars(r)["id"]
	if !pr.IsAdmin() && pr.PatientID != id {
		respondError(w, http.StatusForbidden, "forbidden", "You may only view your own appointments")
		return
	}
	if _, found := h.service.FindPatient(id); !found {
		respondError(w, http.StatusNotFound, "not_found", "Patient not found")
		return
	}

	incidents := h.service.IncidentsForPatient(id)
	respondJSON(w, http.StatusOK, IncidentListResponse{
		Success:   true,
		Incidents: incidents,
		Total:     len(incidents),
	})
}
