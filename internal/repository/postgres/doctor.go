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

type doctorRepository struct {
	BaseRepository
}

func NewDoctorRepository(base BaseRepository) repository.DoctorRepository {
	return &doctorRepository{base}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (id, user_id, name, email, specialty, role, status, password_hash, revision, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = doctor.CreatedAt

	_, err := r.GetDB().ExecContext(ctx, query,
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
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `SELECT * FROM doctors WHERE id = $1`
	var doctor model.Doctor
	if err := r.GetDB().GetContext(ctx, &doctor, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID string) (*model.Doctor, error) {
	query := `SELECT * FROM doctors WHERE user_id = $1`
	var doctor model.Doctor
	if err := r.GetDB().GetContext(ctx, &doctor, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get doctor by user id: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	query := `SELECT * FROM doctors ORDER BY created_at DESC`
	var doctors []*model.Doctor
	if err := r.GetDB().SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.DoctorStatus, revision int64, entry *model.AuditLog) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE doctors
			SET status = $1, revision = revision + 1, updated_at = $2
			WHERE id = $3 AND revision = $4
		`
		result, err := tx.ExecContext(ctx, query, status, time.Now(), id, revision)
		if err != nil {
			return fmt.Errorf("failed to update doctor status: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			var exists bool
			if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM doctors WHERE id = $1)`, id); err != nil {
				return err
			}
			if !exists {
				return apperrors.NotFound("doctor", nil)
			}
			return apperrors.Conflict("doctor was modified concurrently", nil)
		}

		return appendAuditTx(ctx, tx, entry)
	})
}

func (r *doctorRepository) CountByStatus(ctx context.Context, status model.DoctorStatus) (int64, error) {
	var count int64
	if err := r.GetDB().GetContext(ctx, &count, `SELECT COUNT(*) FROM doctors WHERE status = $1`, status); err != nil {
		return 0, fmt.Errorf("failed to count doctors: %w", err)
	}
	return count, nil
}
