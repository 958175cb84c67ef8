package registration

import (
	"context"

	"github.com/google/uuid"

	"github.com/careops/clinic-api/internal/email"
	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
	"github.com/careops/clinic-api/internal/service/access"
	apperrors "github.com/careops/clinic-api/pkg/errors"
	"github.com/careops/clinic-api/pkg/logger"
	"github.com/careops/clinic-api/pkg/security"
	"github.com/careops/clinic-api/pkg/validator"
)

// Service is the doctor onboarding pipeline: applications start pending
// and leave that state exactly once, either approved (which provisions the
// doctor record) or rejected.
type Service struct {
	guard    *access.Guard
	repo     repository.RegistrationRepository
	hasher   security.PasswordHasher
	mailer   email.Service
	validate *validator.Validator
	logger   *logger.Logger
}

func NewService(
	guard *access.Guard,
	repo repository.RegistrationRepository,
	hasher security.PasswordHasher,
	mailer email.Service,
	validate *validator.Validator,
	logger *logger.Logger,
) *Service {
	return &Service{
		guard:    guard,
		repo:     repo,
		hasher:   hasher,
		mailer:   mailer,
		validate: validate,
		logger:   logger,
	}
}

// Apply files a new pending application for the calling subject.
func (s *Service) Apply(ctx context.Context, subject string, req *model.CreateRegistrationRequest) (*model.DoctorRegistration, error) {
	if subject == "" {
		return nil, apperrors.Unauthenticated(nil)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	reg := &model.DoctorRegistration{
		Base:    model.Base{ID: uuid.New()},
		UserID:  subject,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Status:  model.RegistrationStatusPending,
		Details: req.Details,
	}
	if err := s.repo.Create(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// ApproveDoctor moves a pending registration to approved and provisions
// the doctor record in the same transaction, together with the audit entry
// and the outbox event. Returns the new doctor id.
func (s *Service) ApproveDoctor(ctx context.Context, subject string, registrationID uuid.UUID) (uuid.UUID, error) {
	admin, err := s.guard.RequireAdmin(ctx, subject)
	if err != nil {
		return uuid.Nil, err
	}

	reg, err := s.repo.Get(ctx, registrationID)
	if err != nil {
		return uuid.Nil, err
	}
	if reg.Status != model.RegistrationStatusPending {
		return uuid.Nil, apperrors.InvalidTransition("registration is not pending", nil)
	}

	tempPassword, err := security.GenerateTemporaryPassword()
	if err != nil {
		return uuid.Nil, err
	}
	hash, err := s.hasher.Hash(tempPassword)
	if err != nil {
		return uuid.Nil, err
	}

	doctor := &model.Doctor{
		Base:         model.Base{ID: uuid.New()},
		UserID:       reg.UserID,
		Name:         reg.Name,
		Email:        reg.Email,
		Specialty:    reg.Details.PrimarySpecialty,
		Role:         model.RoleDoctor,
		Status:       model.DoctorStatusActive,
		PasswordHash: hash,
	}

	entry := model.NewAuditLog(admin.UserID, model.AuditActionApproveDoctor, &doctor.ID, model.JSONMap{
		"registration_id": reg.ID,
		"specialty":       doctor.Specialty,
	})
	event, err := model.NewOutboxEvent(model.EventRegistrationApproved, model.JSONMap{
		"registration_id": reg.ID,
		"doctor_id":       doctor.ID,
	})
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.repo.Approve(ctx, reg, doctor, entry, event); err != nil {
		return uuid.Nil, err
	}

	go s.notifyApproved(reg, tempPassword)
	return doctor.ID, nil
}

// RejectRegistration moves a pending registration to rejected. No doctor
// record is created; the status change and the audit entry are the only
// effects.
func (s *Service) RejectRegistration(ctx context.Context, subject string, registrationID uuid.UUID) error {
	admin, err := s.guard.RequireAdmin(ctx, subject)
	if err != nil {
		return err
	}

	reg, err := s.repo.Get(ctx, registrationID)
	if err != nil {
		return err
	}
	if reg.Status != model.RegistrationStatusPending {
		return apperrors.InvalidTransition("registration is not pending", nil)
	}

	entry := model.NewAuditLog(admin.UserID, model.AuditActionRejectRegistration, &reg.ID, nil)
	event, err := model.NewOutboxEvent(model.EventRegistrationRejected, model.JSONMap{
		"registration_id": reg.ID,
	})
	if err != nil {
		return err
	}

	if err := s.repo.Reject(ctx, reg, entry, event); err != nil {
		return err
	}

	go s.notifyRejected(reg)
	return nil
}

func (s *Service) notifyApproved(reg *model.DoctorRegistration, tempPassword string) {
	if err := s.mailer.SendRegistrationApproved(context.Background(), reg.Email, reg.Name, tempPassword); err != nil {
		s.logger.Error(err, "failed to send approval email", "registration_id", reg.ID.String())
	}
}

func (s *Service) notifyRejected(reg *model.DoctorRegistration) {
	if err := s.mailer.SendRegistrationRejected(context.Background(), reg.Email, reg.Name); err != nil {
		s.logger.Error(err, "failed to send rejection email", "registration_id", reg.ID.String())
	}
}
