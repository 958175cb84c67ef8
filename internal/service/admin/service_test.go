package admin

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository/repositorytest"
	"github.com/careops/clinic-api/internal/service/access"
	"github.com/careops/clinic-api/internal/service/audit"
	"github.com/careops/clinic-api/internal/service/identity"
	apperrors "github.com/careops/clinic-api/pkg/errors"
	"github.com/careops/clinic-api/pkg/validator"
)

func newService(store *repositorytest.Store) *Service {
	resolver := identity.NewService(store.DoctorRepo(), store.PatientRepo())
	return NewService(
		access.NewGuard(resolver),
		store.DoctorRepo(),
		store.PatientRepo(),
		store.AppointmentRepo(),
		store.RegistrationRepo(),
		audit.NewService(store.AuditRepo()),
		validator.New(),
	)
}

func TestAdminSurfaceIsGated(t *testing.T) {
	store := repositorytest.NewStore()
	store.SeedDoctor("auth0|doc", "Dr. Who", model.RoleDoctor)
	store.SeedPatient("auth0|pat", "Pat Jones")
	svc := newService(store)
	ctx := context.Background()

	for _, subject := range []string{"auth0|doc", "auth0|pat"} {
		_, err := svc.GetStats(ctx, subject)
		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden), "stats as %s", subject)
		_, err = svc.GetAllDoctors(ctx, subject)
		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
		_, err = svc.GetAllPatients(ctx, subject)
		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
		_, err = svc.GetAllAppointments(ctx, subject)
		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
		_, err = svc.GetPendingRegistrations(ctx, subject)
		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
		_, err = svc.GetSystemLogs(ctx, subject)
		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
	}

	_, err := svc.GetStats(ctx, "")
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))
}

func TestGetStatsCounts(t *testing.T) {
	store := repositorytest.NewStore()
	store.SeedDoctor("auth0|adm", "Ada Admin", model.RoleAdmin)
	store.SeedDoctor("auth0|doc", "Dr. Who", model.RoleDoctor)
	patient := store.SeedPatient("auth0|pat", "Pat Jones")
	store.SeedRegistration("auth0|new", "New Doctor", "new@example.com", model.RegistrationStatusPending)
	store.SeedRegistration("auth0|old", "Old Doctor", "old@example.com", model.RegistrationStatusRejected)

	appt := &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		PatientID: patient.ID,
		DoctorID:  uuid.New(),
		Date:      time.Now(),
		Status:    model.AppointmentStatusPending,
	}
	require.NoError(t, store.AppointmentRepo().Create(context.Background(), appt))

	svc := newService(store)
	stats, err := svc.GetStats(context.Background(), "auth0|adm")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalPatients)
	assert.Equal(t, int64(2), stats.ActiveDoctors)
	assert.Equal(t, int64(1), stats.AppointmentsToday)
	assert.Equal(t, int64(1), stats.PendingRegistrations)
}

func TestGetStatsCachedUntilMutation(t *testing.T) {
	store := repositorytest.NewStore()
	store.SeedDoctor("auth0|adm", "Ada Admin", model.RoleAdmin)
	store.SeedPatient("auth0|pat", "Pat Jones")
	svc := newService(store)
	ctx := context.Background()

	first, err := svc.GetStats(ctx, "auth0|adm")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.TotalPatients)

	// A seed behind the cache's back is not visible...
	store.SeedPatient("auth0|pat2", "Sam Jones")
	cached, err := svc.GetStats(ctx, "auth0|adm")
	require.NoError(t, err)
	assert.Equal(t, int64(1), cached.TotalPatients)

	// ...but a mutation through the service invalidates it.
	var victim *model.Patient
	for _, p := range store.Patients {
		if p.UserID == "auth0|pat2" {
			victim = p
		}
	}
	require.NotNil(t, victim)
	require.NoError(t, svc.DeletePatient(ctx, "auth0|adm", victim.ID))

	fresh, err := svc.GetStats(ctx, "auth0|adm")
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh.TotalPatients)
}

func TestUpdateDoctorStatus(t *testing.T) {
	store := repositorytest.NewStore()
	admin := store.SeedDoctor("auth0|adm", "Ada Admin", model.RoleAdmin)
	doctor := store.SeedDoctor("auth0|doc", "Dr. Who", model.RoleDoctor)
	svc := newService(store)

	err := svc.UpdateDoctorStatus(context.Background(), "auth0|adm", doctor.ID, &model.UpdateDoctorStatusRequest{
		Status: model.DoctorStatusInactive,
	})
	require.NoError(t, err)

	updated, err := store.DoctorRepo().Get(context.Background(), doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DoctorStatusInactive, updated.Status)
	assert.Equal(t, int64(1), updated.Revision)

	actions := store.AuditActions()
	require.Len(t, actions, 1)
	assert.Equal(t, model.AuditActionUpdateDoctorStatus, actions[0])
	assert.Equal(t, admin.UserID, store.AuditEntries[0].ActorID)
}

func TestUpdateDoctorStatusValidation(t *testing.T) {
	store := repositorytest.NewStore()
	store.SeedDoctor("auth0|adm", "Ada Admin", model.RoleAdmin)
	doctor := store.SeedDoctor("auth0|doc", "Dr. Who", model.RoleDoctor)
	svc := newService(store)

	err := svc.UpdateDoctorStatus(context.Background(), "auth0|adm", doctor.ID, &model.UpdateDoctorStatusRequest{
		Status: model.DoctorStatus("suspended"),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
	assert.Empty(t, store.AuditActions())
}

func TestUpdateDoctorStatusStaleRevision(t *testing.T) {
	store := repositorytest.NewStore()
	store.SeedDoctor("auth0|adm", "Ada Admin", model.RoleAdmin)
	doctor := store.SeedDoctor("auth0|doc", "Dr. Who", model.RoleDoctor)
	svc := newService(store)

	stale := int64(9)
	err := svc.UpdateDoctorStatus(context.Background(), "auth0|adm", doctor.ID, &model.UpdateDoctorStatusRequest{
		Status:   model.DoctorStatusInactive,
		Revision: &stale,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestDeletePatientCascadesAppointmentsOnly(t *testing.T) {
	store := repositorytest.NewStore()
	store.SeedDoctor("auth0|adm", "Ada Admin", model.RoleAdmin)
	patient := store.SeedPatient("auth0|pat", "Pat Jones")
	other := store.SeedPatient("auth0|other", "Fox Mulder")
	svc := newService(store)
	ctx := context.Background()

	for _, pid := range []uuid.UUID{patient.ID, patient.ID, other.ID} {
		appt := &model.Appointment{
			Base:      model.Base{ID: uuid.New()},
			PatientID: pid,
			DoctorID:  uuid.New(),
			Date:      time.Now(),
			Status:    model.AppointmentStatusPending,
		}
		require.NoError(t, store.AppointmentRepo().Create(ctx, appt))
	}
	msg := &model.Message{ID: uuid.New(), PatientID: patient.ID, SenderID: "auth0|pat", Role: model.RolePatient, Body: "hi", CreatedAt: time.Now()}
	require.NoError(t, store.MessageRepo().Insert(ctx, msg, nil))

	require.NoError(t, svc.DeletePatient(ctx, "auth0|adm", patient.ID))

	_, err := store.PatientRepo().Get(ctx, patient.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	remaining, err := store.AppointmentRepo().List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, other.ID, remaining[0].PatientID)

	// Messages and the audit trail survive the deletion.
	msgs, err := store.MessageRepo().ListByPatient(ctx, patient.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	actions := store.AuditActions()
	require.Len(t, actions, 1)
	assert.Equal(t, model.AuditActionDeletePatient, actions[0])
}

func TestDeleteUnknownPatient(t *testing.T) {
	store := repositorytest.NewStore()
	store.SeedDoctor("auth0|adm", "Ada Admin", model.RoleAdmin)
	svc := newService(store)

	err := svc.DeletePatient(context.Background(), "auth0|adm", uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.Empty(t, store.AuditActions())
}

func TestGetSystemLogsNewestFirstCapped(t *testing.T) {
	store := repositorytest.NewStore()
	store.SeedDoctor("auth0|adm", "Ada Admin", model.RoleAdmin)
	svc := newService(store)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		entry := model.NewAuditLog("auth0|adm", model.AuditActionUpdateAppointment, nil, nil)
		entry.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.AuditRepo().Append(ctx, entry))
	}

	logs, err := svc.GetSystemLogs(ctx, "auth0|adm")
	require.NoError(t, err)
	require.Len(t, logs, audit.RecentLimit)
	for i := 1; i < len(logs); i++ {
		assert.False(t, logs[i].CreatedAt.After(logs[i-1].CreatedAt))
	}
	assert.Equal(t, base.Add(24*time.Minute).Unix(), logs[0].CreatedAt.Unix())
}
