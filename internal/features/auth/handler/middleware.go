package handler

import (
	"strings"

	"podstore/internal/core/web"
	"podstore/internal/features/auth/domain"
	"podstore/internal/features/auth/service"

	"github.com/gofiber/fiber/v2"
)

// claimsKey is the Locals key under which middleware stores the caller's
// identity.
const claimsKey = "user"

// ClaimsFromCtx returns the authenticated caller's claims, if any.
func ClaimsFromCtx(c *fiber.Ctx) (domain.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(domain.Claims)
	return claims, ok
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return web.Fail(c, fiber.StatusUnauthorized, "authentication required")
		}

		claims, err := auth.ParseToken(token)
		if err != nil {
			return web.Fail(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// OptionalAuth attaches claims when a valid token is present but lets
// anonymous requests through (guest checkout).
func OptionalAuth(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			if claims, err := auth.ParseToken(token); err == nil {
				c.Locals(claimsKey, claims)
			}
		}
		return c.Next()
	}
}

// RequireAdmin rejects callers without the admin role. Must run after
// RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromCtx(c)
		if !ok || !claims.IsAdmin() {
			return web.Fail(c, fiber.StatusForbidden, "admin access required")
		}
		return c.Next()
	}
}
