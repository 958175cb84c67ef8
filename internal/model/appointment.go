package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// appointmentTransitions is the full lifecycle: pending may be confirmed
// or cancelled, confirmed may be completed or cancelled, completed and
// cancelled are terminal.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusCompleted: {},
	AppointmentStatusCancelled: {},
}

func (s AppointmentStatus) Valid() bool {
	_, ok := appointmentTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle step.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s AppointmentStatus) Terminal() bool {
	return len(appointmentTransitions[s]) == 0
}

// Appointment links one patient and one doctor. Status changes go through
// the lifecycle service only; Revision guards against lost concurrent
// updates.
type Appointment struct {
	Base
	PatientID uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID  uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	Date      time.Time         `db:"date" json:"date"`
	Status    AppointmentStatus `db:"status" json:"status"`
	Reason    string            `db:"reason" json:"reason,omitempty"`
	Revision  int64             `db:"revision" json:"revision"`
}

// UpdateAppointmentRequest is a partial update: nil fields are left
// untouched. When Revision is set the update only applies if the row still
// carries that revision; when nil the freshly read revision is used.
type UpdateAppointmentRequest struct {
	Date     *time.Time         `json:"date"`
	Status   *AppointmentStatus `json:"status"`
	Revision *int64             `json:"revision"`
}

type CreateAppointmentRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
	Date     time.Time `json:"date" validate:"required"`
	Reason   string    `json:"reason" validate:"max=1000"`
}
