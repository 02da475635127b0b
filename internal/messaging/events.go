package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Event routing keys as constants
const (
	EventPatientCreated = "patient.created"
	EventPatientUpdated = "patient.updated"
	EventPatientDeleted = "patient.deleted"

	EventIncidentCreated = "incident.created"
	EventIncidentUpdated = "incident.updated"
	EventIncidentDeleted = "incident.deleted"

	EventUserLoggedIn = "user.logged_in"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// PatientEvent covers patient lifecycle changes.
type PatientEvent struct {
	BaseEvent
	Data PatientEventData `json:"data"`
}

type PatientEventData struct {
	PatientID string `json:"patient_id"`
	Name      string `json:"name,omitempty"`
}

// IncidentEvent covers appointment/treatment lifecycle changes.
type IncidentEvent struct {
	BaseEvent
	Data IncidentEventData `json:"data"`
}

type IncidentEventData struct {
	IncidentID string `json:"incident_id"`
	PatientID  string `json:"patient_id"`
	Status     string `json:"status,omitempty"`
}

// LoginEvent is published on successful authentication.
type LoginEvent struct {
	BaseEvent
	Data LoginEventData `json:"data"`
}

type LoginEventData struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		ServiceName: "dental-clinic-service",
	}
}

// NewPatientEvent builds a patient lifecycle event.
func NewPatientEvent(eventType, patientID, name string) PatientEvent {
	return PatientEvent{
		BaseEvent: NewBaseEvent(eventType),
		Data: PatientEventData{
			PatientID: patientID,
			Name:      name,
		},
	}
}

// NewIncidentEvent builds an incident lifecycle event.
func NewIncidentEvent(eventType, incidentID, patientID, status string) IncidentEvent {
	return IncidentEvent{
		BaseEvent: NewBaseEvent(eventType),
		Data: IncidentEventData{
			IncidentID: incidentID,
			PatientID:  patientID,
			Status:     status,
		},
	}
}

// NewLoginEvent builds an authentication event.
func NewLoginEvent(userID, email, role string) LoginEvent {
	return LoginEvent{
		BaseEvent: NewBaseEvent(EventUserLoggedIn),
		Data: LoginEventData{
			UserID: userID,
			Email:  email,
			Role:   role,
		},
	}
}
