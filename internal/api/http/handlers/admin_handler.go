package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campusworks/college-portal/internal/api/dto"
	"github.com/campusworks/college-portal/internal/domain"
	"github.com/campusworks/college-portal/internal/service"
)

// AdminHandler manages superuser endpoints.
type AdminHandler struct {
	accounts *service.AccountService
	validate *Validator
}

// NewAdminHandler constructs handler.
func NewAdminHandler(accounts *service.AccountService, validate *Validator) *AdminHandler {
	return &AdminHandler{accounts: accounts, validate: validate}
}

// Dashboard GET /admin/dashboard-data.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	users, err := h.accounts.ListUsers(c.UserContext())
	if err != nil {
		return err
	}

	byRole := make(map[domain.Role]int, len(domain.Roles()))
	for _, role := range domain.Roles() {
		byRole[role] = 0
	}
	for _, user := range users {
		byRole[user.Role]++
	}
	return c.JSON(dto.DashboardResponse{
		Message:     "Welcome to the admin dashboard, " + identity.DisplayName,
		User:        identity,
		TotalUsers:  len(users),
		UsersByRole: byRole,
	})
}

// CreateUser POST /admin/create-user.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}

	identity, err := h.accounts.AdminCreateUser(c.UserContext(), req.Name, req.Email, req.Password, role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(identity)
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.accounts.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// UpdateRole PUT /admin/users/:id/role.
func (h *AdminHandler) UpdateRole(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateRoleRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}

	identity, err := h.accounts.UpdateRole(c.UserContext(), id, role)
	if err != nil {
		return err
	}
	return c.JSON(identity)
}
