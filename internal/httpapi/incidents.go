package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/entnt-dental/clinic-service/internal/store"
)

// IncidentMetricsRecorder records incident operation metrics.
type IncidentMetricsRecorder interface {
	RecordIncidentOperation(ctx context.Context, operation string)
}

// IncidentsHandler serves the appointment/treatment routes.
type IncidentsHandler struct {
	service StoreService
	metrics IncidentMetricsRecorder
}

func NewIncidentsHandler(service StoreService, metrics IncidentMetricsRecorder) *IncidentsHandler {
	return &IncidentsHandler{service: service, metrics: metrics}
}

// IncidentRequest carries the editable incident fields. Dates are
// ISO-8601 strings on the wire.
type IncidentRequest struct {
	PatientID            string                 `json:"patientId"`
	Title                string                 `json:"title"`
	Description          string                 `json:"description"`
	Comments             string                 `json:"comments"`
	AppointmentDate      time.Time              `json:"appointmentDate"`
	Status               store.IncidentStatus   `json:"status"`
	TreatmentDescription string                 `json:"treatmentDescription,omitempty"`
	Cost                 float64                `json:"cost,omitempty"`
	NextAppointmentDate  *time.Time             `json:"nextAppointmentDate,omitempty"`
	Files                []store.FileAttachment `json:"files,omitempty"`
}

func (r *IncidentRequest) validate() error {
	if r.PatientID == "" {
		return errors.New("patientId is required")
	}
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.AppointmentDate.IsZero() {
		return errors.New("appointmentDate is required")
	}
	if r.Status == "" {
		r.Status = store.StatusScheduled
	}
	switch r.Status {
	case store.StatusScheduled, store.StatusCompleted, store.StatusCancelled:
	default:
		return fmt.Errorf("invalid status %q", r.Status)
	}
	return nil
}

func (r IncidentRequest) toIncident(id string) store.Incident {
	inc := store.Incident{
		ID:                   id,
		PatientID:            r.PatientID,
		Title:                r.Title,
		Description:          r.Description,
		Comments:             r.Comments,
		AppointmentDate:      r.AppointmentDate,
		Status:               r.Status,
		TreatmentDescription: r.TreatmentDescription,
		Cost:                 r.Cost,
		NextAppointmentDate:  r.NextAppointmentDate,
	}
	// Route attachments through AppendFiles so duplicate names are
	// skipped even on create.
	inc.AppendFiles(r.Files...)
	return inc
}

type IncidentResponse struct {
	Success  bool            `json:"success"`
	Incident *store.Incident `json:"incident,omitempty"`
}

type IncidentListResponse struct {
	Success   bool             `json:"success"`
	Incidents []store.Incident `json:"incidents"`
	Total     int              `json:"total"`
}

// ListIncidents returns every incident for admins and only the caller's
// own incidents for patient-role users.
func (h *IncidentsHandler) ListIncidents(w http.ResponseWriter, r *http.Request) {
	pr, ok := FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var incidents []store.Incident
	if pr.IsAdmin() {
		incidents = h.service.Snapshot().Incidents
	} else {
		incidents = h.service.IncidentsForPatient(pr.PatientID)
	}

	respondJSON(w, http.StatusOK, IncidentListResponse{
		Success:   true,
		Incidents: incidents,
		Total:     len(incidents),
	})
}

// CreateIncident adds a new appointment. The referenced patient must
// exist; this is the form-level validation that keeps the referential
// invariant intact by construction.
func (h *IncidentsHandler) CreateIncident(w http.ResponseWriter, r *http.Request) {
	var req IncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if _, found := h.service.FindPatient(req.PatientID); !found {
		respondError(w, http.StatusBadRequest, "validation_error", "Referenced patient does not exist")
		return
	}

	incident, err := h.service.AddIncident(r.Context(), req.toIncident(""))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "creation_failed", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.RecordIncidentOperation(r.Context(), "create")
	}
	respondJSON(w, http.StatusCreated, IncidentResponse{Success: true, Incident: &incident})
}

// GetIncident returns one incident. Patient-role callers may only fetch
// incidents referencing their own patient record.
func (h *IncidentsHandler) GetIncident(w http.ResponseWriter, r *http.Request) {
	pr, ok := FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	id := mux.Vars(r)["id"]
	incident, found := h.service.FindIncident(id)
	if !found {
		respondError(w, http.StatusNotFound, "not_found", "Incident not found")
		return
	}
	if !pr.IsAdmin() && incident.PatientID != pr.PatientID {
		respondError(w, http.StatusForbidden, "forbidden", "You may only view your own appointments")
		return
	}
	respondJSON(w, http.StatusOK, IncidentResponse{Success: true, Incident: &incident})
}

// UpdateIncident replaces the incident with the matching id.
func (h *IncidentsHandler) UpdateIncident(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req IncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if _, found := h.service.FindPatient(req.PatientID); !found {
		respondError(w, http.StatusBadRequest, "validation_error", "Referenced patient does not exist")
		return
	}

	incident := req.toIncident(id)
	if err := h.service.UpdateIncident(r.Context(), incident); err != nil {
		if errors.Is(err, store.ErrIncidentNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Incident not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "update_failed", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.RecordIncidentOperation(r.Context(), "update")
	}
	respondJSON(w, http.StatusOK, IncidentResponse{Success: true, Incident: &incident})
}

// DeleteIncident removes the incident with the matching id.
func (h *IncidentsHandler) DeleteIncident(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.DeleteIncident(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrIncidentNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Incident not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "deletion_failed", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.RecordIncidentOperation(r.Context(), "delete")
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Incident deleted",
	})
}

// AttachFilesRequest carries inline-encoded attachments.
type AttachFilesRequest struct {
	Files []store.FileAttachment `json:"files"`
}

type AttachFilesResponse struct {
	Success  bool            `json:"success"`
	Added    int             `json:"added"`
	Skipped  int             `json:"skipped"`
	Incident *store.Incident `json:"incident"`
}

// AttachFiles adds attachments to an incident. Files whose name already
// exists on the incident are skipped, not replaced.
func (h *IncidentsHandler) AttachFiles(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req AttachFilesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}
	if len(req.Files) == 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "At least one file is required")
		return
	}
	for _, f := range req.Files {
		if f.Name == "" {
			respondError(w, http.StatusBadRequest, "validation_error", "Every file needs a name")
			return
		}
	}

	incident, found := h.service.FindIncident(id)
	if !found {
		respondError(w, http.StatusNotFound, "not_found", "Incident not found")
		return
	}

	added := incident.AppendFiles(req.Files...)
	if err := h.service.UpdateIncident(r.Context(), incident); err != nil {
		respondError(w, http.StatusInternalServerError, "update_failed", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.RecordIncidentOperation(r.Context(), "attach_files")
	}
	respondJSON(w, http.StatusOK, AttachFilesResponse{
		Success:  true,
		Added:    added,
		Skipped:  len(req.Files) - added,
		Incident: &incident,
	})
}

// RemoveFile drops one attachment from an incident by name.
func (h *IncidentsHandler) RemoveFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	name := vars["name"]

	incident, found := h.service.FindIncident(id)
	if !found {
		respondError(w, http.StatusNotFound, "not_found", "Incident not found")
		return
	}
	if !incident.RemoveFile(name) {
		respondError(w, http.StatusNotFound, "not_found", "Attachment not found")
		return
	}
	if err := h.service.UpdateIncident(r.Context(), incident); err != nil {
		respondError(w, http.StatusInternalServerError, "update_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, IncidentResponse{Success: true, Incident: &incident})
}
