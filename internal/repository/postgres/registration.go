package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
	apperrors "github.com/careops/clinic-api/pkg/errors"
)

type registrationRepository struct {
	BaseRepository
}

func NewRegistrationRepository(base BaseRepository) repository.RegistrationRepository {
	return &registrationRepository{base}
}

func (r *registrationRepository) Create(ctx context.Context, reg *model.DoctorRegistration) error {
	query := `
		INSERT INTO doctor_registrations (id, user_id, name, email, phone, status, details, revision, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	reg.CreatedAt = time.Now()
	reg.UpdatedAt = reg.CreatedAt

	_, err := r.GetDB().ExecContext(ctx, query,
		reg.ID,
		reg.UserID,
		reg.Name,
		reg.Email,
		reg.Phone,
		reg.Status,
		reg.Details,
		reg.Revision,
		reg.CreatedAt,
		reg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (r *registrationRepository) Get(ctx context.Context, id uuid.UUID) (*model.DoctorRegistration, error) {
	query := `SELECT * FROM doctor_registrations WHERE id = $1`
	var reg model.DoctorRegistration
	if err := r.GetDB().GetContext(ctx, &reg, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("registration", err)
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return &reg, nil
}

func (r *registrationRepository) ListPending(ctx context.Context) ([]*model.DoctorRegistration, error) {
	query := `SELECT * FROM doctor_registrations WHERE status = $1 ORDER BY created_at ASC`
	var regs []*model.DoctorRegistration
	if err := r.GetDB().SelectContext(ctx, &regs, query, model.RegistrationStatusPending); err != nil {
		return nil, fmt.Errorf("failed to list pending registrations: %w", err)
	}
	return regs, nil
}

func (r *registrationRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM doctor_registrations WHERE status = $1`
	if err := r.GetDB().GetContext(ctx, &count, query, model.RegistrationStatusPending); err != nil {
		return 0, fmt.Errorf("failed to count pending registrations: %w", err)
	}
	return count, nil
}

// transition flips a registration away from pending. The WHERE clause on
// status and revision makes the once-only rule hold even under concurrent
// approvals of the same row.
func (r *registrationRepository) transition(ctx context.Context, tx *sqlx.Tx, reg *model.DoctorRegistration, to model.RegistrationStatus) error {
	query := `
		UPDATE doctor_registrations
		SET status = $1, revision = revision + 1, updated_at = $2
		WHERE id = $3 AND status = $4 AND revision = $5
	`
	result, err := tx.ExecContext(ctx, query, to, time.Now(), reg.ID, model.RegistrationStatusPending, reg.Revision)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.InvalidTransition("registration is not pending", nil)
	}
	return nil
}

func (r *registrationRepository) Approve(ctx context.Context, reg *model.DoctorRegistration, doctor *model.Doctor, entry *model.AuditLog, event *model.OutboxEvent) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.transition(ctx, tx, reg, model.RegistrationStatusApproved); err != nil {
			return err
		}

		doctor.CreatedAt = time.Now()
		doctor.UpdatedAt = doctor.CreatedAt
		query := `
			INSERT INTO doctors (id, user_id, name, email, specialty, role, status, password_hash, revision, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		if _, err := tx.ExecContext(ctx, query,
			doctor.ID,
			doctor.UserID,
			doctor.Name,
			doctor.Email,
			doctor.Specialty,
			doctor.Role,
			doctor.Status,
			doctor.PasswordHash,
			doctor.Revision,
			doctor.CreatedAt,
			doctor.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to provision doctor: %w", err)
		}

		if err := appendAuditTx(ctx, tx, entry); err != nil {
			return err
		}
		return insertOutboxTx(ctx, tx, event)
	})
}

func (r *registrationRepository) Reject(ctx context.Context, reg *model.DoctorRegistration, entry *model.AuditLog, event *model.OutboxEvent) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.transition(ctx, tx, reg, model.RegistrationStatusRejected); err != nil {
			return err
		}
		if err := appendAuditTx(ctx, tx, entry); err != nil {
			return err
		}
		return insertOutboxTx(ctx, tx, event)
	})
}
