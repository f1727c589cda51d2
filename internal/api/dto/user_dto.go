package dto

import "github.com/campusworks/college-portal/internal/domain"

// CreateUserRequest payload for privileged account creation.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=student teacher hod superuser"`
}

// UpdateRoleRequest payload.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student teacher hod superuser"`
}

// DashboardResponse summarises the user base for superusers.
type DashboardResponse struct {
	Message     string              `json:"message"`
	User        domain.Identity     `json:"user"`
	TotalUsers  int                 `json:"total_users"`
	UsersByRole map[domain.Role]int `json:"users_by_role"`
}
