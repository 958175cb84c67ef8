package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "pending"
	RegistrationStatusApproved RegistrationStatus = "approved"
	RegistrationStatusRejected RegistrationStatus = "rejected"
)

// RegistrationDetails carries the applicant's credential claims. Stored as
// a JSONB column.
type RegistrationDetails struct {
	PrimarySpecialty string `json:"primary_specialty" validate:"required"`
	LicenseNumber    string `json:"license_number" validate:"required"`
	YearsExperience  int    `json:"years_experience" validate:"gte=0"`
	Qualifications   string `json:"qualifications,omitempty"`
}

func (d RegistrationDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *RegistrationDetails) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = RegistrationDetails{}
		return nil
	}
	return fmt.Errorf("unsupported type %T for registration details", src)
}

// DoctorRegistration is a pending application to join the staff. Status
// leaves pending exactly once: approval provisions a doctor record,
// rejection is terminal with no side effects beyond the audit trail.
type DoctorRegistration struct {
	Base
	UserID   string              `db:"user_id" json:"user_id"`
	Name     string              `db:"name" json:"name"`
	Email    string              `db:"email" json:"email"`
	Phone    string              `db:"phone" json:"phone,omitempty"`
	Status   RegistrationStatus  `db:"status" json:"status"`
	Details  RegistrationDetails `db:"details" json:"details"`
	Revision int64               `db:"revision" json:"revision"`
}

type CreateRegistrationRequest struct {
	Name    string              `json:"name" validate:"required"`
	Email   string              `json:"email" validate:"required,email"`
	Phone   string              `json:"phone"`
	Details RegistrationDetails `json:"details" validate:"required"`
}
