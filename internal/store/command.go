package store

// Op names a state transition. The command set is closed: every change to
// AppData goes through one of these six operations.
type Op string

const (
	OpAddPatient     Op = "ADD_PATIENT"
	OpUpdatePatient  Op = "UPDATE_PATIENT"
	OpDeletePatient  Op = "DELETE_PATIENT"
	OpAddIncident    Op = "ADD_INCIDENT"
	OpUpdateIncident Op = "UPDATE_INCIDENT"
	OpDeleteIncident Op = "DELETE_INCIDENT"
)

// Command is a tagged mutation. Exactly one payload field is meaningful
// for a given Op: Patient for patient add/update, Incident for incident
// add/update, ID for deletes.
type Command struct {
	Op       Op
	Patient  Patient
	Incident Incident
	ID       string
}

// apply produces the next state from the current one. It never mutates
// its input: collections are rebuilt, so a snapshot taken before a
// mutation stays consistent. An error means the state is unchanged.
func apply(state AppData, cmd Command) (AppData, error) {
	switch cmd.Op {
	case OpAddPatient:
		next := state
		next.Patients = append(append([]Patient{}, state.Patients...), cmd.Patient)
		return next, nil

	case OpUpdatePatient:
		patients := make([]Patient, len(state.Patients))
		found := false
		for i, p := range state.Patients {
			if p.ID == cmd.Patient.ID {
				patients[i] = cmd.Patient
				found = true
				continue
			}
			patients[i] = p
		}
		if !found {
			return state, ErrPatientNotFound
		}
		next := state
		next.Patients = patients
		return next, nil

	case OpDeletePatient:
		patients := make([]Patient, 0, len(state.Patients))
		found := false
		for _, p := range state.Patients {
			if p.ID == cmd.ID {
				found = true
				continue
			}
			patients = append(patients, p)
		}
		if !found {
			return state, ErrPatientNotFound
		}
		// Cascade: an incident never outlives its patient. One transition
		// removes the patient and every incident referencing it.
		incidents := make([]Incident, 0, len(state.Incidents))
		for _, inc := range state.Incidents {
			if inc.PatientID == cmd.ID {
				continue
			}
			incidents = append(incidents, inc)
		}
		next := state
		next.Patients = patients
		next.Incidents = incidents
		return next, nil

	case OpAddIncident:
		next := state
		next.Incidents = append(append([]Incident{}, state.Incidents...), cmd.Incident)
		return next, nil

	case OpUpdateIncident:
		incidents := make([]Incident, len(state.Incidents))
		found := false
		for i, inc := range state.Incidents {
			if inc.ID == cmd.Incident.ID {
				incidents[i] = cmd.Incident
				found = true
				continue
			}
			incidents[i] = inc
		}
		if !found {
			return state, ErrIncidentNotFound
		}
		next := state
		next.Incidents = incidents
		return next, nil

	case OpDeleteIncident:
		incidents := make([]Incident, 0, len(state.Incidents))
		found := false
		for _, inc := range state.Incidents {
			if inc.ID == cmd.ID {
				found = true
				continue
			}
			incidents = append(incidents, inc)
		}
		if !found {
			return state, ErrIncidentNotFound
		}
		next := state
		next.Incidents = incidents
		return next, nil
	}

	return state, ErrUnknownCommand
}
