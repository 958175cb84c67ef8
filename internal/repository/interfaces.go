package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/careops/clinic-api/internal/model"
)

// All repository interfaces in one file. Mutations that the audit ledger
// must cover take the entry alongside the change and commit both in one
// transaction.
type (
	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByUserID(ctx context.Context, userID string) (*model.Doctor, error)
		List(ctx context.Context) ([]*model.Doctor, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.DoctorStatus, revision int64, entry *model.AuditLog) error
		CountByStatus(ctx context.Context, status model.DoctorStatus) (int64, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByUserID(ctx context.Context, userID string) (*model.Patient, error)
		List(ctx context.Context) ([]*model.Patient, error)
		Count(ctx context.Context) (int64, error)
		// DeleteCascade removes the patient and every appointment
		// referencing it, and appends the audit entry, atomically.
		// Messages and audit history referencing the patient survive.
		DeleteCascade(ctx context.Context, id uuid.UUID, entry *model.AuditLog) error
	}

	RegistrationRepository interface {
		Create(ctx context.Context, reg *model.DoctorRegistration) error
		Get(ctx context.Context, id uuid.UUID) (*model.DoctorRegistration, error)
		ListPending(ctx context.Context) ([]*model.DoctorRegistration, error)
		CountPending(ctx context.Context) (int64, error)
		// Approve flips the registration to approved, inserts the
		// provisioned doctor, the audit entry and the outbox event in one
		// transaction.
		Approve(ctx context.Context, reg *model.DoctorRegistration, doctor *model.Doctor, entry *model.AuditLog, event *model.OutboxEvent) error
		// Reject flips the registration to rejected with the audit entry
		// and outbox event; no doctor row is created.
		Reject(ctx context.Context, reg *model.DoctorRegistration, entry *model.AuditLog, event *model.OutboxEvent) error
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		List(ctx context.Context) ([]*model.Appointment, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
		CountOnDay(ctx context.Context, day time.Time) (int64, error)
		// Update patches the row matching the given revision and appends
		// the audit entry in one transaction.
		Update(ctx context.Context, appointment *model.Appointment, entry *model.AuditLog) error
	}

	MessageRepository interface {
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Message, error)
		// Insert writes the message, maintains the conversation summary
		// row and enqueues the outbox event in one transaction.
		Insert(ctx context.Context, msg *model.Message, event *model.OutboxEvent) error
		ListConversations(ctx context.Context) ([]*model.Conversation, error)
		// MarkConversationRead flips unread patient-authored messages and
		// resets the summary counter; returns the number flipped.
		MarkConversationRead(ctx context.Context, patientID uuid.UUID) (int64, error)
	}

	AuditRepository interface {
		Append(ctx context.Context, entry *model.AuditLog) error
		ListRecent(ctx context.Context, limit int) ([]*model.AuditLog, error)
	}

	OutboxRepository interface {
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
	}
)
