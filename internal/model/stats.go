package model

// SystemStats is the admin dashboard headline view.
type SystemStats struct {
	TotalPatients        int64 `json:"total_patients"`
	ActiveDoctors        int64 `json:"active_doctors"`
	AppointmentsToday    int64 `json:"appointments_today"`
	PendingRegistrations int64 `json:"pending_registrations"`
}
