package handler

import (
	"errors"

	"podstore/internal/core/web"
	authhandler "podstore/internal/features/auth/handler"
	"podstore/internal/features/cart/domain"
	"podstore/internal/features/cart/service"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles the per-user cart endpoints. All routes require
// authentication; guest carts live client-side.
type CartHandler struct {
	cart *service.CartService
}

// NewCartHandler creates a CartHandler.
func NewCartHandler(cart *service.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

// Get godoc
// @Summary Get the caller's cart with current prices
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} web.Response
// @Router /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	claims, _ := authhandler.ClaimsFromCtx(c)

	cart, err := h.cart.Get(c.Context(), claims.UserID)
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to load cart")
	}
	return web.OK(c, cart)
}

// Put godoc
// @Summary Replace the caller's cart
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} web.Response
// @Router /api/cart [put]
func (h *CartHandler) Put(c *fiber.Ctx) error {
	claims, _ := authhandler.ClaimsFromCtx(c)

	var cart domain.Cart
	if err := c.BodyParser(&cart); err != nil {
		return web.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	hydrated, err := h.cart.Save(c.Context(), claims.UserID, &cart)
	if errors.Is(err, service.ErrInvalidCart) {
		return web.Fail(c, fiber.StatusBadRequest, "invalid cart")
	}
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to save cart")
	}
	return web.OK(c, hydrated)
}

// Clear godoc
// @Summary Empty the caller's cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} web.Response
// @Router /api/cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	claims, _ := authhandler.ClaimsFromCtx(c)

	if err := h.cart.Clear(c.Context(), claims.UserID); err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to clear cart")
	}
	return web.Msg(c, "cart cleared")
}
