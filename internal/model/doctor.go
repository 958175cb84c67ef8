package model

import (
	"strings"
)

type DoctorStatus string

const (
	DoctorStatusActive   DoctorStatus = "active"
	DoctorStatusInactive DoctorStatus = "inactive"
)

func (s DoctorStatus) Valid() bool {
	return s == DoctorStatusActive || s == DoctorStatusInactive
}

// Doctor is an identity-linked staff record. UserID is unique across the
// doctor set; rows are created only by the registration pipeline on
// approval, or seeded out of band.
type Doctor struct {
	Base
	UserID       string       `db:"user_id" json:"user_id"`
	Name         string       `db:"name" json:"name"`
	Email        string       `db:"email" json:"email"`
	Specialty    string       `db:"specialty" json:"specialty"`
	Role         Role         `db:"role" json:"role"`
	Status       DoctorStatus `db:"status" json:"status"`
	PasswordHash string       `db:"password_hash" json:"-"`
	Revision     int64        `db:"revision" json:"revision"`
}

// Surname returns the last whitespace-delimited token of the doctor's
// name, used for the "Dr. <surname>" message sender display.
func (d *Doctor) Surname() string {
	fields := strings.Fields(d.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

type UpdateDoctorStatusRequest struct {
	Status   DoctorStatus `json:"status" validate:"required,oneof=active inactive"`
	Revision *int64       `json:"revision"`
}
