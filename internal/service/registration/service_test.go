package registration

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/careops/clinic-api/internal/email"
	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository/repositorytest"
	"github.com/careops/clinic-api/internal/service/access"
	"github.com/careops/clinic-api/internal/service/identity"
	apperrors "github.com/careops/clinic-api/pkg/errors"
	"github.com/careops/clinic-api/pkg/logger"
	"github.com/careops/clinic-api/pkg/security"
	"github.com/careops/clinic-api/pkg/validator"
)

func newService(store *repositorytest.Store) *Service {
	resolver := identity.NewService(store.DoctorRepo(), store.PatientRepo())
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	return NewService(
		access.NewGuard(resolver),
		store.RegistrationRepo(),
		security.NewBcryptHasher(bcrypt.MinCost),
		email.NewNoop(),
		validator.New(),
		log,
	)
}

func validRequest() *model.CreateRegistrationRequest {
	return &model.CreateRegistrationRequest{
		Name:  "New Doctor",
		Email: "new.doctor@example.com",
		Details: model.RegistrationDetails{
			PrimarySpecialty: "dermatology",
			LicenseNumber:    "LIC-42",
			YearsExperience:  3,
		},
	}
}

func TestApplyRequiresAuthentication(t *testing.T) {
	svc := newService(repositorytest.NewStore())

	_, err := svc.Apply(context.Background(), "", validRequest())
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))
}

func TestApplyValidatesRequest(t *testing.T) {
	svc := newService(repositorytest.NewStore())

	req := validRequest()
	req.Email = "not-an-email"
	_, err := svc.Apply(context.Background(), "auth0|applicant", req)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestApplyCreatesPendingRegistration(t *testing.T) {
	store := repositorytest.NewStore()
	svc := newService(store)

	reg, err := svc.Apply(context.Background(), "auth0|applicant", validRequest())
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusPending, reg.Status)
	assert.Equal(t, "auth0|applicant", reg.UserID)

	pending, err := store.RegistrationRepo().ListPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestApproveRequiresAdmin(t *testing.T) {
	store := repositorytest.NewStore()
	store.SeedDoctor("auth0|doc", "Dr. Who", model.RoleDoctor)
	reg := store.SeedRegistration("auth0|applicant", "New Doctor", "new@example.com", model.RegistrationStatusPending)
	svc := newService(store)

	_, err := svc.ApproveDoctor(context.Background(), "auth0|doc", reg.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	stored, getErr := store.RegistrationRepo().Get(context.Background(), reg.ID)
	require.NoError(t, getErr)
	assert.Equal(t, model.RegistrationStatusPending, stored.Status)
	assert.Empty(t, store.AuditActions())
}

func TestApproveProvisionsDoctor(t *testing.T) {
	store := repositorytest.NewStore()
	admin := store.SeedDoctor("auth0|adm", "Ada Admin", model.RoleAdmin)
	reg := store.SeedRegistration("auth0|applicant", "New Doctor", "new@example.com", model.RegistrationStatusPending)
	svc := newService(store)

	doctorID, err := svc.ApproveDoctor(context.Background(), "auth0|adm", reg.ID)
	require.NoError(t, err)

	doctor, err := store.DoctorRepo().Get(context.Background(), doctorID)
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, doctor.UserID)
	assert.Equal(t, model.RoleDoctor, doctor.Role)
	assert.Equal(t, model.DoctorStatusActive, doctor.Status)
	assert.Equal(t, "cardiology", doctor.Specialty)
	assert.NotEmpty(t, doctor.PasswordHash)

	stored, err := store.RegistrationRepo().Get(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusApproved, stored.Status)

	actions := store.AuditActions()
	require.Len(t, actions, 1)
	assert.Equal(t, model.AuditActionApproveDoctor, actions[0])
	assert.Equal(t, admin.UserID, store.AuditEntries[0].ActorID)

	require.Len(t, store.OutboxEvents, 1)
	assert.Equal(t, model.EventRegistrationApproved, store.OutboxEvents[0].EventType)
}

func TestApproveTwiceFails(t *testing.T) {
	store := repositorytest.NewStore()
	store.SeedDoctor("auth0|adm", "Ada Admin", model.RoleAdmin)
	reg := store.SeedRegistration("auth0|applicant", "New Doctor", "new@example.com", model.RegistrationStatusPending)
	svc := newService(store)

	_, err := svc.ApproveDoctor(context.Background(), "auth0|adm", reg.ID)
	require.NoError(t, err)

	_, err = svc.ApproveDoctor(context.Background(), "auth0|adm", reg.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidTransition))
	assert.Len(t, store.AuditActions(), 1)
}

func TestRejectAfterApproveFails(t *testing.T) {
	store := repositorytest.NewStore()
	store.SeedDoctor("auth0|adm", "Ada Admin", model.RoleAdmin)
	reg := store.SeedRegistration("auth0|applicant", "New Doctor", "new@example.com", model.RegistrationStatusPending)
	svc := newService(store)

	_, err := svc.ApproveDoctor(context.Background(), "auth0|adm", reg.ID)
	require.NoError(t, err)

	err = svc.RejectRegistration(context.Background(), "auth0|adm", reg.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidTransition))
}

func TestRejectLeavesNoDoctor(t *testing.T) {
	store := repositorytest.NewStore()
	store.SeedDoctor("auth0|adm", "Ada Admin", model.RoleAdmin)
	reg := store.SeedRegistration("auth0|applicant", "New Doctor", "new@example.com", model.RegistrationStatusPending)
	svc := newService(store)

	require.NoError(t, svc.RejectRegistration(context.Background(), "auth0|adm", reg.ID))

	stored, err := store.RegistrationRepo().Get(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusRejected, stored.Status)

	doctor, err := store.DoctorRepo().GetByUserID(context.Background(), reg.UserID)
	require.NoError(t, err)
	assert.Nil(t, doctor)

	actions := store.AuditActions()
	require.Len(t, actions, 1)
	assert.Equal(t, model.AuditActionRejectRegistration, actions[0])

	require.Len(t, store.OutboxEvents, 1)
	assert.Equal(t, model.EventRegistrationRejected, store.OutboxEvents[0].EventType)
}

func TestApproveUnknownRegistration(t *testing.T) {
	store := repositorytest.NewStore()
	store.SeedDoctor("auth0|adm", "Ada Admin", model.RoleAdmin)
	svc := newService(store)

	_, err := svc.ApproveDoctor(context.Background(), "auth0|adm", uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
