package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDoctorSurname(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Jane Smith", "Smith"},
		{"Maria de la Cruz", "Cruz"},
		{"Prince", "Prince"},
		{"  padded   name  ", "name"},
		{"", ""},
	}

	for _, tt := range tests {
		doctor := &Doctor{Name: tt.name}
		assert.Equal(t, tt.expected, doctor.Surname(), "name %q", tt.name)
	}
}

func TestRolePredicates(t *testing.T) {
	assert.True(t, RoleDoctor.IsStaff())
	assert.True(t, RoleAdmin.IsStaff())
	assert.True(t, RoleSuperadmin.IsStaff())
	assert.False(t, RolePatient.IsStaff())
	assert.False(t, RoleNone.IsStaff())

	assert.True(t, RoleAdmin.IsAdmin())
	assert.True(t, RoleSuperadmin.IsAdmin())
	assert.False(t, RoleDoctor.IsAdmin())
	assert.False(t, RolePatient.IsAdmin())

	assert.True(t, RoleDoctor.In(StaffRoles...))
	assert.False(t, RoleDoctor.In(AdminRoles...))
}
