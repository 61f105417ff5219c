package handler

import (
	"errors"

	"podstore/internal/core/web"
	"podstore/internal/features/offers/ports"
	"podstore/internal/features/offers/service"

	"github.com/gofiber/fiber/v2"
)

// OfferHandler handles the public offer endpoints.
type OfferHandler struct {
	offers *service.OfferService
}

// NewOfferHandler creates an OfferHandler.
func NewOfferHandler(offers *service.OfferService) *OfferHandler {
	return &OfferHandler{offers: offers}
}

// List godoc
// @Summary List currently redeemable offers
// @Tags offers
// @Produce json
// @Success 200 {object} web.Response
// @Router /api/offers [get]
func (h *OfferHandler) List(c *fiber.Ctx) error {
	offers, err := h.offers.ListActive(c.Context())
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to list offers")
	}
	return web.OK(c, fiber.Map{"offers": offers})
}

// Get godoc
// @Summary Get one offer by id
// @Tags offers
// @Produce json
// @Success 200 {object} web.Response
// @Router /api/offers/{id} [get]
func (h *OfferHandler) Get(c *fiber.Ctx) error {
	offer, err := h.offers.Get(c.Context(), c.Params("id"))
	if errors.Is(err, ports.ErrOfferNotFound) {
		return web.Fail(c, fiber.StatusNotFound, "offer not found")
	}
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to load offer")
	}
	return web.OK(c, fiber.Map{"offer": offer})
}

type applyOfferRequest struct {
	OfferID string             `json:"offerId"`
	Items   []service.CartLine `json:"items"`
}

// Apply godoc
// @Summary Apply an offer to a cart and preview the discount
// @Tags offers
// @Accept json
// @Produce json
// @Success 200 {object} web.Response
// @Router /api/offers/apply [post]
func (h *OfferHandler) Apply(c *fiber.Ctx) error {
	var req applyOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return web.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.OfferID == "" || len(req.Items) == 0 {
		return web.Fail(c, fiber.StatusBadRequest, "offerId and items are required")
	}

	application, err := h.offers.Apply(c.Context(), req.OfferID, req.Items)
	if errors.Is(err, ports.ErrOfferNotFound) {
		return web.Fail(c, fiber.StatusNotFound, "offer not found")
	}
	if errors.Is(err, service.ErrOfferNotApplicable) {
		return web.Fail(c, fiber.StatusBadRequest, "offer not applicable to this cart")
	}
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to apply offer")
	}

	return web.OK(c, application)
}
