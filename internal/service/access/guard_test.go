package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository/repositorytest"
	"github.com/careops/clinic-api/internal/service/identity"
	apperrors "github.com/careops/clinic-api/pkg/errors"
)

func newGuard(store *repositorytest.Store) *Guard {
	return NewGuard(identity.NewService(store.DoctorRepo(), store.PatientRepo()))
}

func TestRequireStaffEmptySubject(t *testing.T) {
	guard := newGuard(repositorytest.NewStore())

	_, err := guard.RequireStaff(context.Background(), "", model.StaffRoles...)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))
}

func TestRequireStaffUnknownSubject(t *testing.T) {
	guard := newGuard(repositorytest.NewStore())

	_, err := guard.RequireStaff(context.Background(), "auth0|nobody", model.StaffRoles...)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestRequireStaffPatientForbidden(t *testing.T) {
	store := repositorytest.NewStore()
	store.SeedPatient("auth0|pat", "Pat Jones")
	guard := newGuard(store)

	_, err := guard.RequireStaff(context.Background(), "auth0|pat", model.StaffRoles...)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestRequireStaffDoctorAllowed(t *testing.T) {
	store := repositorytest.NewStore()
	seeded := store.SeedDoctor("auth0|doc", "Dr. Who", model.RoleDoctor)
	guard := newGuard(store)

	doctor, err := guard.RequireStaff(context.Background(), "auth0|doc", model.StaffRoles...)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, doctor.ID)
}

func TestRequireAdminRejectsDoctor(t *testing.T) {
	store := repositorytest.NewStore()
	store.SeedDoctor("auth0|doc", "Dr. Who", model.RoleDoctor)
	guard := newGuard(store)

	_, err := guard.RequireAdmin(context.Background(), "auth0|doc")
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestRequireAdminAllowsAdminRoles(t *testing.T) {
	store := repositorytest.NewStore()
	store.SeedDoctor("auth0|adm", "Ada Admin", model.RoleAdmin)
	store.SeedDoctor("auth0|root", "Sam Super", model.RoleSuperadmin)
	guard := newGuard(store)

	_, err := guard.RequireAdmin(context.Background(), "auth0|adm")
	assert.NoError(t, err)
	_, err = guard.RequireAdmin(context.Background(), "auth0|root")
	assert.NoError(t, err)
}
