package handler

import (
	"errors"

	"podstore/internal/core/web"
	adminports "podstore/internal/features/admin/ports"
	"podstore/internal/features/admin/service"
	catalogdomain "podstore/internal/features/catalog/domain"
	offersdomain "podstore/internal/features/offers/domain"
	offersports "podstore/internal/features/offers/ports"
	offersservice "podstore/internal/features/offers/service"
	ordersdomain "podstore/internal/features/orders/domain"
	orderports "podstore/internal/features/orders/ports"
	providers "podstore/internal/features/providers/domain"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the admin panel endpoints. All routes are mounted
// behind RequireAuth and RequireAdmin.
type AdminHandler struct {
	admin  *service.AdminService
	offers *offersservice.OfferService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(admin *service.AdminService, offers *offersservice.OfferService) *AdminHandler {
	return &AdminHandler{admin: admin, offers: offers}
}

// Dashboard godoc
// @Summary Admin dashboard aggregates
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} web.Response
// @Router /api/admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.admin.Dashboard(c.Context())
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}
	return web.OK(c, dashboard)
}

// ListOrders godoc
// @Summary List all orders
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} web.Response
// @Router /api/admin/orders [get]
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	params := orderports.ListParams{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 20),
		Status: ordersdomain.OrderStatus(c.Query("status")),
	}

	orders, total, err := h.admin.ListOrders(c.Context(), params)
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to list orders")
	}
	return web.OK(c, fiber.Map{"orders": orders, "total": total})
}

type updateOrderStatusRequest struct {
	Status ordersdomain.OrderStatus `json:"status"`
}

// UpdateOrderStatus godoc
// @Summary Transition an order's status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} web.Response
// @Router /api/admin/orders/{id}/status [patch]
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return web.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	err := h.admin.UpdateOrderStatus(c.Context(), c.Params("id"), req.Status)
	if errors.Is(err, orderports.ErrOrderNotFound) {
		return web.Fail(c, fiber.StatusNotFound, "order not found")
	}
	if errors.Is(err, orderports.ErrInvalidTransition) {
		return web.Fail(c, fiber.StatusConflict, "invalid status transition")
	}
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to update order")
	}
	return web.Msg(c, "order updated")
}

// ListProducts godoc
// @Summary List all products including inactive ones
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} web.Response
// @Router /api/admin/products [get]
func (h *AdminHandler) ListProducts(c *fiber.Ctx) error {
	products, total, err := h.admin.ListProducts(c.Context(),
		c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to list products")
	}
	return web.OK(c, fiber.Map{"products": products, "total": total})
}

// SaveProduct godoc
// @Summary Create or replace a product with its provider mappings
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} web.Response
// @Router /api/admin/products [post]
func (h *AdminHandler) SaveProduct(c *fiber.Ctx) error {
	var product catalogdomain.Product
	if err := c.BodyParser(&product); err != nil {
		return web.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if product.Title == "" {
		return web.Fail(c, fiber.StatusBadRequest, "title is required")
	}

	if err := h.admin.SaveProduct(c.Context(), &product); err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to save product")
	}
	return web.OK(c, fiber.Map{"product": product})
}

// ListOffers godoc
// @Summary List all offers
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} web.Response
// @Router /api/admin/offers [get]
func (h *AdminHandler) ListOffers(c *fiber.Ctx) error {
	offers, err := h.offers.ListAll(c.Context())
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to list offers")
	}
	return web.OK(c, fiber.Map{"offers": offers})
}

// SaveOffer godoc
// @Summary Create or replace an offer
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} web.Response
// @Router /api/admin/offers [post]
func (h *AdminHandler) SaveOffer(c *fiber.Ctx) error {
	var offer offersdomain.Offer
	if err := c.BodyParser(&offer); err != nil {
		return web.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	err := h.offers.Save(c.Context(), &offer)
	if errors.Is(err, offersservice.ErrInvalidOffer) {
		return web.Fail(c, fiber.StatusBadRequest, "invalid offer")
	}
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to save offer")
	}
	return web.OK(c, fiber.Map{"offer": offer})
}

// DeleteOffer godoc
// @Summary Delete an offer
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} web.Response
// @Router /api/admin/offers/{id} [delete]
func (h *AdminHandler) DeleteOffer(c *fiber.Ctx) error {
	err := h.offers.Delete(c.Context(), c.Params("id"))
	if errors.Is(err, offersports.ErrOfferNotFound) {
		return web.Fail(c, fiber.StatusNotFound, "offer not found")
	}
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to delete offer")
	}
	return web.Msg(c, "offer deleted")
}

type triggerSyncRequest struct {
	Provider providers.ProviderType `json:"provider,omitempty"`
}

// TriggerSync godoc
// @Summary Enqueue catalog sync jobs
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} web.Response
// @Router /api/admin/sync [post]
func (h *AdminHandler) TriggerSync(c *fiber.Ctx) error {
	var req triggerSyncRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return web.Fail(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	if err := h.admin.TriggerSync(c.Context(), req.Provider); err != nil {
		return web.Fail(c, fiber.StatusBadRequest, err.Error())
	}
	return web.Msg(c, "sync enqueued")
}

// ListSettings godoc
// @Summary List settings with encrypted values redacted
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} web.Response
// @Router /api/admin/settings [get]
func (h *AdminHandler) ListSettings(c *fiber.Ctx) error {
	settings, err := h.admin.ListSettings(c.Context())
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to list settings")
	}
	return web.OK(c, fiber.Map{"settings": settings})
}

// GetSetting godoc
// @Summary Get one setting with its decrypted value
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} web.Response
// @Router /api/admin/settings/{key} [get]
func (h *AdminHandler) GetSetting(c *fiber.Ctx) error {
	setting, err := h.admin.GetSetting(c.Context(), c.Params("key"))
	if errors.Is(err, adminports.ErrSettingNotFound) {
		return web.Fail(c, fiber.StatusNotFound, "setting not found")
	}
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to load setting")
	}
	return web.OK(c, fiber.Map{"setting": setting})
}

type setSettingRequest struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	Encrypted bool   `json:"encrypted"`
}

// SetSetting godoc
// @Summary Store a setting, optionally encrypted
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} web.Response
// @Router /api/admin/settings [put]
func (h *AdminHandler) SetSetting(c *fiber.Ctx) error {
	var req setSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return web.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Key == "" {
		return web.Fail(c, fiber.StatusBadRequest, "key is required")
	}

	if err := h.admin.SetSetting(c.Context(), req.Key, req.Value, req.Encrypted); err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to store setting")
	}
	return web.Msg(c, "setting stored")
}
