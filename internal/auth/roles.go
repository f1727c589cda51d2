package auth

import "github.com/campusworks/college-portal/internal/domain"

// RoleSet is a fixed set of roles allowed to perform an action.
type RoleSet uint8

func roleBit(role domain.Role) RoleSet {
	switch role {
	case domain.RoleStudent:
		return 1 << 0
	case domain.RoleTeacher:
		return 1 << 1
	case domain.RoleHOD:
		return 1 << 2
	case domain.RoleSuperuser:
		return 1 << 3
	default:
		return 0
	}
}

// NewRoleSet builds a set from roles. Unknown roles are dropped.
func NewRoleSet(roles ...domain.Role) RoleSet {
	var set RoleSet
	for _, role := range roles {
		set |= roleBit(role)
	}
	return set
}

// Contains reports whether role is a member of s.
func (s RoleSet) Contains(role domain.Role) bool {
	bit := roleBit(role)
	return bit != 0 && s&bit != 0
}

// Roles lists the members of s in declaration order.
func (s RoleSet) Roles() []domain.Role {
	out := make([]domain.Role, 0, 4)
	for _, role := range domain.Roles() {
		if s.Contains(role) {
			out = append(out, role)
		}
	}
	return out
}

// Authorize accepts identity iff its role is in allowed.
func Authorize(identity domain.Identity, allowed RoleSet) (domain.Identity, error) {
	if !allowed.Contains(identity.Role) {
		return domain.Identity{}, ErrForbidden
	}
	return identity, nil
}
