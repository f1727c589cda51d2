package domain

import "fmt"

// Role is the capability tag carried by every user. Roles are independent;
// none implies another.
type Role string

const (
	RoleStudent   Role = "student"
	RoleTeacher   Role = "teacher"
	RoleHOD       Role = "hod"
	RoleSuperuser Role = "superuser"
)

// Roles lists every known role.
func Roles() []Role {
	return []Role{RoleStudent, RoleTeacher, RoleHOD, RoleSuperuser}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleHOD, RoleSuperuser:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts raw input into a Role, rejecting anything outside the set.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
	return role, nil
}
