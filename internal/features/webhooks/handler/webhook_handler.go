package handler

import (
	"errors"
	"strings"

	"podstore/internal/core/web"
	providers "podstore/internal/features/providers/domain"
	"podstore/internal/features/providers/registry"
	"podstore/internal/features/webhooks/service"

	"github.com/gofiber/fiber/v2"
)

// signatureHeaders maps each provider to the header its deliveries sign.
var signatureHeaders = map[providers.ProviderType]string{
	providers.ProviderPrintrove: "X-Printrove-Signature",
	providers.ProviderPrintful:  "X-Printful-Signature",
	providers.ProviderPrintify:  "X-Printify-Signature",
}

// WebhookHandler receives provider fulfillment webhooks.
type WebhookHandler struct {
	processor *service.Processor
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(processor *service.Processor) *WebhookHandler {
	return &WebhookHandler{processor: processor}
}

// Receive godoc
// @Summary Receive a provider fulfillment webhook
// @Tags webhooks
// @Accept json
// @Produce json
// @Param provider path string true "Provider key (printrove, printful, printify)"
// @Success 200 {object} web.Response
// @Router /api/webhooks/{provider} [post]
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	provider := providers.ProviderType(strings.ToUpper(c.Params("provider")))
	if !provider.Valid() {
		return web.Fail(c, fiber.StatusNotFound, "unknown provider")
	}

	signature := c.Get(signatureHeaders[provider])
	// BodyRaw is reused by fiber after the handler returns; copy before
	// handing it to async-capable code.
	payload := make([]byte, len(c.Body()))
	copy(payload, c.Body())

	err := h.processor.Process(c.Context(), provider, payload, signature)
	if errors.Is(err, registry.ErrUnknownProvider) {
		return web.Fail(c, fiber.StatusNotFound, "unknown provider")
	}
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to process webhook")
	}

	return web.OK(c, fiber.Map{"received": true})
}
