package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository/repositorytest"
)

func TestResolveEmptySubject(t *testing.T) {
	store := repositorytest.NewStore()
	svc := NewService(store.DoctorRepo(), store.PatientRepo())

	ident, err := svc.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, model.RoleNone, ident.Role)
	assert.False(t, ident.Authenticated())
	assert.Nil(t, ident.Doctor)
	assert.Nil(t, ident.Patient)
}

func TestResolveUnknownSubject(t *testing.T) {
	store := repositorytest.NewStore()
	svc := NewService(store.DoctorRepo(), store.PatientRepo())

	ident, err := svc.Resolve(context.Background(), "auth0|nobody")
	require.NoError(t, err)
	assert.Equal(t, model.RoleNone, ident.Role)
	assert.True(t, ident.Authenticated())
	assert.Nil(t, ident.Doctor)
	assert.Nil(t, ident.Patient)
}

func TestResolvePatient(t *testing.T) {
	store := repositorytest.NewStore()
	patient := store.SeedPatient("auth0|pat", "Pat Jones")
	svc := NewService(store.DoctorRepo(), store.PatientRepo())

	ident, err := svc.Resolve(context.Background(), "auth0|pat")
	require.NoError(t, err)
	assert.Equal(t, model.RolePatient, ident.Role)
	require.NotNil(t, ident.Patient)
	assert.Equal(t, patient.ID, ident.Patient.ID)
	assert.Nil(t, ident.Doctor)
}

func TestResolveDoctorRoleFromRecord(t *testing.T) {
	store := repositorytest.NewStore()
	store.SeedDoctor("auth0|adm", "Ada Admin", model.RoleAdmin)
	svc := NewService(store.DoctorRepo(), store.PatientRepo())

	ident, err := svc.Resolve(context.Background(), "auth0|adm")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, ident.Role)
	assert.True(t, ident.IsStaff())
	assert.False(t, ident.IsPatient())
}

// A subject matching both records resolves to the doctor's role, but the
// patient record is kept for messaging.
func TestResolveDoctorWinsOverPatient(t *testing.T) {
	store := repositorytest.NewStore()
	doctor := store.SeedDoctor("auth0|both", "Dr. Both", model.RoleDoctor)
	patient := store.SeedPatient("auth0|both", "Dr. Both")
	svc := NewService(store.DoctorRepo(), store.PatientRepo())

	ident, err := svc.Resolve(context.Background(), "auth0|both")
	require.NoError(t, err)
	assert.Equal(t, model.RoleDoctor, ident.Role)
	require.NotNil(t, ident.Doctor)
	require.NotNil(t, ident.Patient)
	assert.Equal(t, doctor.ID, ident.Doctor.ID)
	assert.Equal(t, patient.ID, ident.Patient.ID)
}
