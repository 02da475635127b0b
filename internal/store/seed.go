package store

import "time"

// Seed returns the fixed default dataset used to bootstrap an empty or
// corrupted persisted store: 3 users, 2 patients, 4 incidents. Appointment
// dates are placed relative to now so the dashboard always has both
// upcoming and historical entries to show.
func Seed() AppData {
	now := time.Now()
	day := 24 * time.Hour
	nextVisit := now.Add(20 * day)

	return AppData{
		Users: []User{
			{
				ID:       "1",
				Role:     RoleAdmin,
				Email:    "admin@entnt.in",
				Password: "admin123",
			},
			{
				ID:        "2",
				Role:      RolePatient,
				Email:     "john@entnt.in",
				Password:  "patient123",
				PatientID: "p1",
			},
			{
				ID:        "3",
				Role:      RolePatient,
				Email:     "jane@entnt.in",
				Password:  "patient123",
				PatientID: "p2",
			},
		},
		Patients: []Patient{
			{
				ID:            "p1",
				Name:          "John Doe",
				DateOfBirth:   "1990-05-10",
				ContactNumber: "1234567890",
				HealthInfo:    "No known allergies.",
			},
			{
				ID:            "p2",
				Name:          "Jane Smith",
				DateOfBirth:   "1985-08-22",
				ContactNumber: "0987654321",
				HealthInfo:    "Allergic to penicillin.",
			},
		},
		Incidents: []Incident{
			{
				ID:              "i1",
				PatientID:       "p1",
				Title:           "Annual Checkup",
				Description:     "Routine annual dental checkup and cleaning.",
				Comments:        "Patient reports no issues.",
				AppointmentDate: now.Add(5 * day),
				Status:          StatusScheduled,
			},
			{
				ID:                   "i2",
				PatientID:            "p2",
				Title:                "Toothache",
				Description:          "Pain in the upper right molar.",
				Comments:             "Sensitive to cold drinks.",
				AppointmentDate:      now.Add(-10 * day),
				Status:               StatusCompleted,
				TreatmentDescription: "Root canal treatment performed.",
				Cost:                 550,
				NextAppointmentDate:  &nextVisit,
				Files:                []FileAttachment{},
			},
			{
				ID:              "i3",
				PatientID:       "p1",
				Title:           "Wisdom Tooth Removal Consult",
				Description:     "Consultation for wisdom tooth extraction.",
				Comments:        "",
				AppointmentDate: now.Add(15 * day),
				Status:          StatusScheduled,
			},
			{
				ID:              "i4",
				PatientID:       "p2",
				Title:           "Teeth Whitening",
				Description:     "Cosmetic teeth whitening procedure.",
				Comments:        "Patient wants a brighter smile.",
				AppointmentDate: now.Add(2 * day),
				Status:          StatusScheduled,
				Cost:            300,
			},
		},
	}
}
