package handler

import (
	"errors"
	"strings"

	"podstore/internal/core/web"
	"podstore/internal/features/auth/ports"
	"podstore/internal/features/auth/service"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles registration, login and the current-user endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} web.Response
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return web.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return web.Fail(c, fiber.StatusBadRequest, "valid email is required")
	}
	if len(req.Password) < 6 {
		return web.Fail(c, fiber.StatusBadRequest, "password must be at least 6 characters")
	}

	user, token, err := h.auth.Register(c.Context(), req.Email, req.Name, req.Password)
	if errors.Is(err, ports.ErrEmailTaken) {
		return web.Fail(c, fiber.StatusBadRequest, "user already exists")
	}
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "registration failed")
	}

	return web.OK(c, fiber.Map{"user": user, "token": token})
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} web.Response
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return web.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, token, err := h.auth.Login(c.Context(), strings.ToLower(req.Email), req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return web.Fail(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "login failed")
	}

	return web.OK(c, fiber.Map{"user": user, "token": token})
}

// Me godoc
// @Summary Get the current authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} web.Response
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, _ := ClaimsFromCtx(c)

	user, err := h.auth.Me(c.Context(), claims.UserID)
	if errors.Is(err, ports.ErrUserNotFound) {
		return web.Fail(c, fiber.StatusNotFound, "user not found")
	}
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to load user")
	}

	return web.OK(c, fiber.Map{"user": user})
}
