package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
	"github.com/careops/clinic-api/internal/service/access"
	"github.com/careops/clinic-api/internal/service/identity"
	apperrors "github.com/careops/clinic-api/pkg/errors"
)

// Service owns the appointment status lifecycle. Status only moves along
// the transition table in the model package; completed and cancelled rows
// never move again.
type Service struct {
	guard    *access.Guard
	resolver *identity.Service
	repo     repository.AppointmentRepository
}

func NewService(guard *access.Guard, resolver *identity.Service, repo repository.AppointmentRepository) *Service {
	return &Service{
		guard:    guard,
		resolver: resolver,
		repo:     repo,
	}
}

// Book creates a pending appointment for the calling patient. Booking is
// the only lifecycle entry point; everything after creation goes through
// Update.
func (s *Service) Book(ctx context.Context, subject string, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if subject == "" {
		return nil, apperrors.Unauthenticated(nil)
	}
	ident, err := s.resolver.Resolve(ctx, subject)
	if err != nil {
		return nil, err
	}
	if ident.Patient == nil {
		return nil, apperrors.Forbidden("patient account required", nil)
	}

	appointment := &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		PatientID: ident.Patient.ID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Status:    model.AppointmentStatusPending,
		Reason:    req.Reason,
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to book appointment: %w", err)
	}
	return appointment, nil
}

// ListOwn returns the calling patient's appointments.
func (s *Service) ListOwn(ctx context.Context, subject string) ([]*model.Appointment, error) {
	if subject == "" {
		return nil, apperrors.Unauthenticated(nil)
	}
	ident, err := s.resolver.Resolve(ctx, subject)
	if err != nil {
		return nil, err
	}
	if ident.Patient == nil {
		return []*model.Appointment{}, nil
	}
	return s.repo.ListByPatient(ctx, ident.Patient.ID)
}

// Update applies a partial update (date and/or status) to an appointment.
// Admin only. Status moves are checked against the transition table before
// anything is written; the audit entry commits with the update.
func (s *Service) Update(ctx context.Context, subject string, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	admin, err := s.guard.RequireAdmin(ctx, subject)
	if err != nil {
		return nil, err
	}
	if req.Date == nil && req.Status == nil {
		return nil, apperrors.Validation("nothing to update", nil)
	}

	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applied := model.JSONMap{}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, apperrors.Validation(fmt.Sprintf("unknown appointment status %q", *req.Status), nil)
		}
		// The table has no self-loops: re-requesting the current status is
		// rejected like any other illegal move.
		if !appointment.Status.CanTransitionTo(*req.Status) {
			return nil, apperrors.InvalidTransition(
				fmt.Sprintf("cannot move appointment from %s to %s", appointment.Status, *req.Status), nil)
		}
		appointment.Status = *req.Status
		applied["status"] = *req.Status
	}
	if req.Date != nil {
		appointment.Date = *req.Date
		applied["date"] = req.Date.Format(time.RFC3339)
	}
	if req.Revision != nil {
		appointment.Revision = *req.Revision
	}

	entry := model.NewAuditLog(admin.UserID, model.AuditActionUpdateAppointment, &appointment.ID, applied)
	if err := s.repo.Update(ctx, appointment, entry); err != nil {
		return nil, err
	}
	appointment.Revision++
	return appointment, nil
}
