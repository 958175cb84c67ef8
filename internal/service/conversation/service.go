package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
	"github.com/careops/clinic-api/internal/service/access"
	"github.com/careops/clinic-api/internal/service/identity"
	apperrors "github.com/careops/clinic-api/pkg/errors"
	"github.com/careops/clinic-api/pkg/validator"
)

// Service is the message threading layer: per-patient conversations,
// unread tracking and role-aware sender resolution.
type Service struct {
	resolver *identity.Service
	guard    *access.Guard
	messages repository.MessageRepository
	validate *validator.Validator
}

func NewService(resolver *identity.Service, guard *access.Guard, messages repository.MessageRepository, validate *validator.Validator) *Service {
	return &Service{
		resolver: resolver,
		guard:    guard,
		messages: messages,
		validate: validate,
	}
}

// GetMessages returns one conversation, oldest first. A patient caller
// without an explicit target reads their own thread; when no patient
// context can be established at all the result is empty rather than an
// error. Reading someone else's thread requires a staff role.
func (s *Service) GetMessages(ctx context.Context, subject string, patientID *uuid.UUID) ([]*model.Message, error) {
	ident, err := s.resolver.Resolve(ctx, subject)
	if err != nil {
		return nil, err
	}

	target := patientID
	if target == nil {
		if ident.Patient == nil {
			return []*model.Message{}, nil
		}
		target = &ident.Patient.ID
	} else if !ident.IsStaff() && (ident.Patient == nil || ident.Patient.ID != *target) {
		return nil, apperrors.Forbidden("cannot read another patient's conversation", nil)
	}

	return s.messages.ListByPatient(ctx, *target)
}

// SendMessage resolves the effective conversation and sender persona with
// a fixed priority order:
//
//  1. explicit patient target + doctor record   → staff message to that thread
//  2. patient record                            → patient message to own thread
//  3. doctor record without a target            → validation error
//  4. no record at all                          → not found
//
// Branch 2 deliberately fires before branch 3: a staff member who is also
// a patient and gave no target is writing as a patient.
func (s *Service) SendMessage(ctx context.Context, subject string, req *model.SendMessageRequest) (*model.Message, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	ident, err := s.resolver.Resolve(ctx, subject)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		ID:        uuid.New(),
		SenderID:  subject,
		Body:      req.Body,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	switch {
	case req.PatientID != nil && ident.IsStaff():
		msg.PatientID = *req.PatientID
		msg.Role = model.RoleDoctor
		msg.SenderName = "Dr. " + ident.Doctor.Surname()
	case ident.IsPatient():
		msg.PatientID = ident.Patient.ID
		msg.Role = model.RolePatient
		msg.SenderName = ident.Patient.Name
	case ident.IsStaff():
		return nil, apperrors.Validation("doctor must supply a patient id", nil)
	default:
		return nil, apperrors.NotFound("user", nil)
	}

	event, err := model.NewOutboxEvent(model.EventMessageCreated, msg)
	if err != nil {
		return nil, err
	}
	if err := s.messages.Insert(ctx, msg, event); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetDoctorConversations lists every patient thread with its latest
// message and unread count, most recently active first. Staff only.
func (s *Service) GetDoctorConversations(ctx context.Context, subject string) ([]*model.Conversation, error) {
	if _, err := s.guard.RequireStaff(ctx, subject, model.StaffRoles...); err != nil {
		return nil, err
	}
	return s.messages.ListConversations(ctx)
}

// MarkMessagesAsRead flips every unread patient-authored message in the
// conversation. Calling it again is a no-op, not an error.
func (s *Service) MarkMessagesAsRead(ctx context.Context, subject string, patientID uuid.UUID) error {
	if _, err := s.guard.RequireStaff(ctx, subject, model.StaffRoles...); err != nil {
		return err
	}
	_, err := s.messages.MarkConversationRead(ctx, patientID)
	return err
}
