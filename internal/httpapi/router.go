package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/entnt-dental/clinic-service/internal/session"
	"github.com/entnt-dental/clinic-service/internal/telemetry"
)

// SetupRouter initializes all routes for the application
func SetupRouter(service StoreService, sessions *session.Manager, codec *session.Codec, perms Permissions, metrics *telemetry.Metrics) *mux.Router {
	authHandler := NewAuthHandler(sessions, codec, nilIfNoMetrics(metrics))
	patientsHandler := NewPatientsHandler(service, patientMetrics(metrics))
	incidentsHandler := NewIncidentsHandler(service, incidentMetrics(metrics))
	dashboardHandler := NewDashboardHandler(service)

	authn := MiddlewareWithMetrics(codec, nilIfNoMetrics(metrics))

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("dental-clinic-service"))

	// Public health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"dental-clinic-service"}`))
	}).Methods("GET")

	// Auth routes (no session required)
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	r.HandleFunc("/auth/session", authHandler.Session).Methods("GET")

	// Patient routes (ADMIN manages, PATIENT can view own)
	r.Handle("/patients",
		authn(RequirePermission("patient:view", perms)(
			http.HandlerFunc(patientsHandler.ListPatients),
		)),
	).Methods("GET")

	r.Handle("/patients",
		authn(RequirePermission("patient:manage", perms)(
			http.HandlerFunc(patientsHandler.CreatePatient),
		)),
	).Methods("POST")

	r.Handle("/patients/{id}",
		authn(RequirePermission("patient:view", perms)(
			http.HandlerFunc(patientsHandler.GetPatient),
		)),
	).Methods("GET")

	r.Handle("/patients/{id}",
		authn(RequirePermission("patient:manage", perms)(
			http.HandlerFunc(patientsHandler.UpdatePatient),
		)),
	).Methods("PUT")

	r.Handle("/patients/{id}",
		authn(RequirePermission("patient:manage", perms)(
			http.HandlerFunc(patientsHandler.DeletePatient),
		)),
	).Methods("DELETE")

	r.Handle("/patients/{id}/incidents",
		authn(RequirePermission("incident:view", perms)(
			http.HandlerFunc(patientsHandler.ListPatientIncidents),
		)),
	).Methods("GET")

	// Incident routes
	r.Handle("/incidents",
		authn(RequirePermission("incident:view", perms)(
			http.HandlerFunc(incidentsHandler.ListIncidents),
		)),
	).Methods("GET")

	r.Handle("/incidents",
		authn(RequirePermission("incident:manage", perms)(
			http.HandlerFunc(incidentsHandler.CreateIncident),
		)),
	).Methods("POST")

	r.Handle("/incidents/{id}",
		authn(RequirePermission("incident:view", perms)(
			http.HandlerFunc(incidentsHandler.GetIncident),
		)),
	).Methods("GET")

	r.Handle("/incidents/{id}",
		authn(RequirePermission("incident:manage", perms)(
			http.HandlerFunc(incidentsHandler.UpdateIncident),
		)),
	).Methods("PUT")

	r.Handle("/incidents/{id}",
		authn(RequirePermission("incident:manage", perms)(
			http.HandlerFunc(incidentsHandler.DeleteIncident),
		)),
	).Methods("DELETE")

	r.Handle("/incidents/{id}/files",
		authn(RequirePermission("incident:manage", perms)(
			http.HandlerFunc(incidentsHandler.AttachFiles),
		)),
	).Methods("POST")

	r.Handle("/incidents/{id}/files/{name}",
		authn(RequirePermission("incident:manage", perms)(
			http.HandlerFunc(incidentsHandler.RemoveFile),
		)),
	).Methods("DELETE")

	// Dashboard routes
	r.Handle("/dashboard/stats",
		authn(RequirePermission("dashboard:view", perms)(
			http.HandlerFunc(dashboardHandler.GetStats),
		)),
	).Methods("GET")

	r.Handle("/portal/appointments",
		authn(RequirePermission("incident:view", perms)(
			http.HandlerFunc(dashboardHandler.GetPortalAppointments),
		)),
	).Methods("GET")

	return r
}

// The telemetry metrics struct is optional; main passes nil when metric
// init fails. Handlers take narrow recorder interfaces, and a typed nil
// *telemetry.Metrics stored in an interface would dodge the handlers'
// nil checks, so the conversions below keep nil nil.

func nilIfNoMetrics(m *telemetry.Metrics) MetricsRecorder {
	if m == nil {
		return nil
	}
	return m
}

func patientMetrics(m *telemetry.Metrics) PatientMetricsRecorder {
	if m == nil {
		return nil
	}
	return m
}

func incidentMetrics(m *telemetry.Metrics) IncidentMetricsRecorder {
	if m == nil {
		return nil
	}
	return m
}
