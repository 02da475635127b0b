package store

import "time"

// Role determines which views a user may access.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RolePatient Role = "Patient"
)

// IncidentStatus tracks an appointment through its lifecycle.
type IncidentStatus string

const (
	StatusScheduled IncidentStatus = "Scheduled"
	StatusCompleted IncidentStatus = "Completed"
	StatusCancelled IncidentStatus = "Cancelled"
)

// User is a login identity. Patient-role users link to exactly one
// Patient record via PatientID.
type User struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	PatientID string `json:"patientId,omitempty"`
}

// Patient is a clinic patient record.
type Patient struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DateOfBirth   string `json:"dateOfBirth"` // Format: YYYY-MM-DD
	ContactNumber string `json:"contactNumber"`
	HealthInfo    string `json:"healthInfo"`
}

// FileAttachment is a file stored inline as a base64 data URL.
type FileAttachment struct {
	Name       string `json:"name"`
	MimeType   string `json:"mimeType"`
	SizeBytes  int64  `json:"sizeBytes"`
	ContentURL string `json:"contentUrl"`
}

// Incident is a single appointment/treatment record tied to one patient,
// covering both pre-visit scheduling and post-visit treatment notes.
type Incident struct {
	ID                   string           `json:"id"`
	PatientID            string           `json:"patientId"`
	Title                string           `json:"title"`
	Description          string           `json:"description"`
	Comments             string           `json:"comments"`
	AppointmentDate      time.Time        `json:"appointmentDate"`
	Status               IncidentStatus   `json:"status"`
	TreatmentDescription string           `json:"treatmentDescription,omitempty"`
	Cost                 float64          `json:"cost,omitempty"`
	NextAppointmentDate  *time.Time       `json:"nextAppointmentDate,omitempty"`
	Files                []FileAttachment `json:"files,omitempty"`
}

// AppData is the aggregate root: the entire persisted dataset.
type AppData struct {
	Users     []User     `json:"users"`
	Patients  []Patient  `json:"patients"`
	Incidents []Incident `json:"incidents"`
}

// Clone returns a deep copy so callers can hold a snapshot without
// observing later mutations.
func (d AppData) Clone() AppData {
	out := AppData{
		Users:     make([]User, len(d.Users)),
		Patients:  make([]Patient, len(d.Patients)),
		Incidents: make([]Incident, len(d.Incidents)),
	}
	copy(out.Users, d.Users)
	copy(out.Patients, d.Patients)
	for i, inc := range d.Incidents {
		out.Incidents[i] = inc.Clone()
	}
	return out
}

// Clone deep-copies the incident, including its attachment list.
func (i Incident) Clone() Incident {
	out := i
	if i.NextAppointmentDate != nil {
		next := *i.NextAppointmentDate
		out.NextAppointmentDate = &next
	}
	if i.Files != nil {
		out.Files = make([]FileAttachment, len(i.Files))
		copy(out.Files, i.Files)
	}
	return out
}

// Valid reports whether the dataset is structurally usable: all three
// top-level collections must be present. Anything else is treated as a
// corrupt persisted document and replaced by the seed.
func (d AppData) Valid() bool {
	return d.Users != nil && d.Patients != nil && d.Incidents != nil
}

// AppendFiles adds attachments to the incident, skipping any whose name
// already exists in the attachment list. Names are unique per incident.
func (i *Incident) AppendFiles(files ...FileAttachment) (added int) {
	for _, f := range files {
		if i.hasFile(f.Name) {
			continue
		}
		i.Files = append(i.Files, f)
		added++
	}
	return added
}

// RemoveFile drops the attachment with the given name, if present.
func (i *Incident) RemoveFile(name string) bool {
	for idx, f := range i.Files {
		if f.Name == name {
			i.Files = append(i.Files[:idx:idx], i.Files[idx+1:]...)
			return true
		}
	}
	return false
}

func (i *Incident) hasFile(name string) bool {
	for _, f := range i.Files {
		if f.Name == name {
			return true
		}
	}
	return false
}
