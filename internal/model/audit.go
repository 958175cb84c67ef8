package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLog is the append-only ledger of privileged mutations. Entries ride
// the mutating transaction: a mutation that fails leaves no entry, a
// mutation that commits leaves exactly one. No update or delete API
// exists.
type AuditLog struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	ActorID   string          `json:"actor_id" db:"actor_id"`
	Action    string          `json:"action" db:"action"`
	TargetID  *uuid.UUID      `json:"target_id,omitempty" db:"target_id"`
	Details   json.RawMessage `json:"details,omitempty" db:"details"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// Audit action vocabulary
const (
	AuditActionApproveDoctor      = "APPROVE_DOCTOR"
	AuditActionRejectRegistration = "REJECT_REGISTRATION"
	AuditActionUpdateDoctorStatus = "UPDATE_DOCTOR_STATUS"
	AuditActionDeletePatient      = "DELETE_PATIENT"
	AuditActionUpdateAppointment  = "UPDATE_APPOINTMENT"
)

// NewAuditLog builds an entry with the timestamp assigned at append time.
func NewAuditLog(actorID, action string, targetID *uuid.UUID, details interface{}) *AuditLog {
	entry := &AuditLog{
		ID:        uuid.New(),
		ActorID:   actorID,
		Action:    action,
		TargetID:  targetID,
		CreatedAt: time.Now(),
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = raw
		}
	}
	return entry
}
