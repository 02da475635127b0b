// Package analytics computes the dashboard aggregates from a dataset
// snapshot. Everything here is a pure function of AppData and a clock.
package analytics

import (
	"sort"
	"time"

	"github.com/entnt-dental/clinic-service/internal/store"
)

// StatusCount is one bar of the treatment status chart.
type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// DashboardStats are the admin dashboard KPIs.
type DashboardStats struct {
	TotalPatients        int              `json:"totalPatients"`
	UpcomingAppointments int              `json:"upcomingAppointments"`
	Revenue              float64          `json:"revenue"`
	NextAppointments     []store.Incident `json:"nextAppointments"`
	TreatmentStatus      []StatusCount    `json:"treatmentStatus"`
}

// maxNextAppointments caps the "next appointments" dashboard table.
const maxNextAppointments = 10

// ComputeDashboard aggregates the admin KPIs: total revenue from
// completed treatments with a cost, scheduled-vs-completed counts, and
// the next appointments ordered soonest first.
func ComputeDashboard(data store.AppData, now time.Time) DashboardStats {
	upcoming := []store.Incident{}
	var revenue float64
	var pending, completed int

	for _, inc := range data.Incidents {
		switch inc.Status {
		case store.StatusScheduled:
			pending++
			if inc.AppointmentDate.After(now) {
				upcoming = append(upcoming, inc.Clone())
			}
		case store.StatusCompleted:
			completed++
			if inc.Cost > 0 {
				revenue += inc.Cost
			}
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].AppointmentDate.Before(upcoming[j].AppointmentDate)
	})

	next := upcoming
	if len(next) > maxNextAppointments {
		next = next[:maxNextAppointments]
	}

	return DashboardStats{
		TotalPatients:        len(data.Patients),
		UpcomingAppointments: len(upcoming),
		Revenue:              revenue,
		NextAppointments:     next,
		TreatmentStatus: []StatusCount{
			{Name: "Pending", Value: pending},
			{Name: "Completed", Value: completed},
		},
	}
}

// PatientAppointments is the patient portal view of one patient's
// incidents, split into upcoming appointments and visit history.
type PatientAppointments struct {
	Upcoming []store.Incident `json:"upcoming"`
	History  []store.Incident `json:"history"`
}

// SplitAppointments partitions a patient's incidents: scheduled future
// appointments (soonest first) versus everything already past, completed
// or cancelled (most recent first).
func SplitAppointments(incidents []store.Incident, now time.Time) PatientAppointments {
	out := PatientAppointments{
		Upcoming: []store.Incident{},
		History:  []store.Incident{},
	}
	for _, inc := range incidents {
		if inc.Status == store.StatusScheduled && inc.AppointmentDate.After(now) {
			out.Upcoming = append(out.Upcoming, inc.Clone())
		} else {
			out.History = append(out.History, inc.Clone())
		}
	}
	sort.Slice(out.Upcoming, func(i, j int) bool {
		return out.Upcoming[i].AppointmentDate.Before(out.Upcoming[j].AppointmentDate)
	})
	sort.Slice(out.History, func(i, j int) bool {
		return out.History[i].AppointmentDate.After(out.History[j].AppointmentDate)
	})
	return out
}
