package model

// Role is the access level a resolved identity carries. Patients resolve
// from patient records; staff roles come from the doctor record matching
// the same subject id.
type Role string

const (
	RoleNone       Role = "none"
	RolePatient    Role = "patient"
	RoleDoctor     Role = "doctor"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// StaffRoles are the roles a doctor record may carry.
var StaffRoles = []Role{RoleDoctor, RoleAdmin, RoleSuperadmin}

// AdminRoles gate the back-office operation surface.
var AdminRoles = []Role{RoleAdmin, RoleSuperadmin}

func (r Role) Valid() bool {
	switch r {
	case RoleNone, RolePatient, RoleDoctor, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// IsStaff reports whether the role belongs to a doctor record.
func (r Role) IsStaff() bool {
	return r == RoleDoctor || r == RoleAdmin || r == RoleSuperadmin
}

// IsAdmin reports whether the role may invoke admin-gated operations.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// In reports whether the role is one of the given roles.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}
