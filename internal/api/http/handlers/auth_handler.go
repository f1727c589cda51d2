package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campusworks/college-portal/internal/api/dto"
	"github.com/campusworks/college-portal/internal/service"
)

// AuthHandler exposes signup and token issuance.
type AuthHandler struct {
	accounts *service.AccountService
	validate *Validator
}

// NewAuthHandler constructs handler.
func NewAuthHandler(accounts *service.AccountService, validate *Validator) *AuthHandler {
	return &AuthHandler{accounts: accounts, validate: validate}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	identity, err := h.accounts.Signup(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(identity)
}

// Token handles POST /auth/token.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	session, err := h.accounts.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(dto.TokenResponse{
		AccessToken: session.AccessToken,
		TokenType:   session.TokenType,
		ExpiresAt:   session.ExpiresAt,
	})
}

// Me handles GET /users/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	return c.JSON(identity)
}
