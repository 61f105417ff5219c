package handler

import (
	"errors"
	"strings"

	"podstore/internal/core/web"
	authhandler "podstore/internal/features/auth/handler"
	"podstore/internal/features/catalog/ports"
	"podstore/internal/features/catalog/service"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles the public catalog endpoints.
type ProductHandler struct {
	products *service.ProductService
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List godoc
// @Summary List purchasable products
// @Tags products
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param category query string false "Filter by category"
// @Param search query string false "Title/description substring"
// @Param tags query string false "Comma-separated tags"
// @Success 200 {object} web.Response
// @Router /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	filter := ports.ListFilter{
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 20),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if tags := c.Query("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}

	products, total, err := h.products.List(c.Context(), filter)
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to list products")
	}
	return web.OK(c, fiber.Map{
		"products": products,
		"total":    total,
		"page":     filter.Page,
	})
}

// Get godoc
// @Summary Get one product by id
// @Tags products
// @Produce json
// @Param id path string true "Product id"
// @Success 200 {object} web.Response
// @Router /api/products/{id} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	product, err := h.products.Get(c.Context(), c.Params("id"))
	if errors.Is(err, ports.ErrProductNotFound) {
		return web.Fail(c, fiber.StatusNotFound, "product not found")
	}
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to load product")
	}
	return web.OK(c, fiber.Map{"product": product})
}

// Related godoc
// @Summary List products related by category or tag
// @Tags products
// @Produce json
// @Param id path string true "Product id"
// @Success 200 {object} web.Response
// @Router /api/products/{id}/related [get]
func (h *ProductHandler) Related(c *fiber.Ctx) error {
	products, err := h.products.Related(c.Context(), c.Params("id"))
	if errors.Is(err, ports.ErrProductNotFound) {
		return web.Fail(c, fiber.StatusNotFound, "product not found")
	}
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to load related products")
	}
	return web.OK(c, fiber.Map{"products": products})
}

// Categories godoc
// @Summary List the distinct active categories
// @Tags products
// @Produce json
// @Success 200 {object} web.Response
// @Router /api/products/categories [get]
func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.products.Categories(c.Context())
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to list categories")
	}
	return web.OK(c, fiber.Map{"categories": categories})
}

// ToggleLike godoc
// @Summary Toggle the caller's like on a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product id"
// @Success 200 {object} web.Response
// @Router /api/products/{id}/like [post]
func (h *ProductHandler) ToggleLike(c *fiber.Ctx) error {
	claims, _ := authhandler.ClaimsFromCtx(c)

	liked, err := h.products.ToggleLike(c.Context(), claims.UserID, c.Params("id"))
	if errors.Is(err, ports.ErrProductNotFound) {
		return web.Fail(c, fiber.StatusNotFound, "product not found")
	}
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to toggle like")
	}
	return web.OK(c, fiber.Map{"liked": liked})
}
