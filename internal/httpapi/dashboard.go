package httpapi

import (
	"net/http"
	"time"

	"github.com/entnt-dental/clinic-service/internal/analytics"
)

// DashboardHandler serves the admin KPI view and the patient portal view.
type DashboardHandler struct {
	service StoreService
	now     func() time.Time
}

func NewDashboardHandler(service StoreService) *DashboardHandler {
	return &DashboardHandler{service: service, now: time.Now}
}

type DashboardResponse struct {
	Success bool                     `json:"success"`
	Stats   analytics.DashboardStats `json:"stats"`
}

// GetStats returns the admin dashboard aggregates.
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := analytics.ComputeDashboard(h.service.Snapshot(), h.now())
	respondJSON(w, http.StatusOK, DashboardResponse{Success: true, Stats: stats})
}

type PortalResponse struct {
	Success      bool                          `json:"success"`
	Appointments analytics.PatientAppointments `json:"appointments"`
}

// GetPortalAppointments returns the caller's own appointments split into
// upcoming and history. Admins may inspect any patient via ?patientId=.
func (h *DashboardHandler) GetPortalAppointments(w http.ResponseWriter, r *http.Request) {
	pr, ok := FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	patientID := pr.PatientID
	if pr.IsAdmin() {
		patientID = r.URL.Query().Get("patientId")
	}
	if patientID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "No patient record linked to this user")
		return
	}

	incidents := h.service.IncidentsForPatient(patientID)
	respondJSON(w, http.StatusOK, PortalResponse{
		Success:      true,
		Appointments: analytics.SplitAppointments(incidents, h.now()),
	})
}
