package handler

import (
	"errors"
	"strings"

	"podstore/internal/core/web"
	authhandler "podstore/internal/features/auth/handler"
	offerports "podstore/internal/features/offers/ports"
	offersservice "podstore/internal/features/offers/service"
	"podstore/internal/features/orders/domain"
	"podstore/internal/features/orders/ports"
	"podstore/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles checkout and order read endpoints.
type OrderHandler struct {
	orders *service.OrderService
	// paymentKeyID is the public gateway key the storefront client needs
	// to open the payment widget.
	paymentKeyID string
}

// NewOrderHandler creates an OrderHandler.
func NewOrderHandler(orders *service.OrderService, paymentKeyID string) *OrderHandler {
	return &OrderHandler{orders: orders, paymentKeyID: paymentKeyID}
}

type createOrderRequest struct {
	Email    string                    `json:"email"`
	Phone    string                    `json:"phone"`
	Items    []service.CreateOrderItem `json:"items"`
	Shipping domain.ShippingAddress    `json:"shippingAddress"`
	OfferID  string                    `json:"offerId"`
}

type verifyPaymentRequest struct {
	OrderID          string `json:"orderId"`
	RazorpayOrderID  string `json:"razorpayOrderId"`
	RazorpayPayment  string `json:"razorpayPaymentId"`
	PaymentSignature string `json:"razorpaySignature"`
}

// Create godoc
// @Summary Create an order and a payment gateway order
// @Tags orders
// @Accept json
// @Produce json
// @Success 200 {object} web.Response
// @Router /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return web.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	input := service.CreateOrderInput{
		Email:    strings.TrimSpace(strings.ToLower(req.Email)),
		Phone:    req.Phone,
		Items:    req.Items,
		Shipping: req.Shipping,
		OfferID:  req.OfferID,
	}
	if claims, ok := authhandler.ClaimsFromCtx(c); ok {
		input.UserID = claims.UserID
		if input.Email == "" {
			input.Email = claims.Email
		}
	}
	if input.Email == "" {
		return web.Fail(c, fiber.StatusBadRequest, "email is required")
	}

	result, err := h.orders.Create(c.Context(), input)
	if errors.Is(err, service.ErrEmptyOrder) || errors.Is(err, service.ErrProductUnavailable) ||
		errors.Is(err, offersservice.ErrOfferNotApplicable) || errors.Is(err, offerports.ErrOfferNotFound) {
		return web.Fail(c, fiber.StatusBadRequest, err.Error())
	}
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to create order")
	}

	return web.OK(c, fiber.Map{
		"order":        result.Order,
		"gatewayOrder": result.GatewayOrder,
		"keyId":        h.paymentKeyID,
	})
}

// VerifyPayment godoc
// @Summary Verify a payment callback and start fulfillment
// @Tags orders
// @Accept json
// @Produce json
// @Success 200 {object} web.Response
// @Router /api/orders/verify-payment [post]
func (h *OrderHandler) VerifyPayment(c *fiber.Ctx) error {
	var req verifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return web.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.OrderID == "" || req.RazorpayOrderID == "" || req.RazorpayPayment == "" {
		return web.Fail(c, fiber.StatusBadRequest, "orderId, razorpayOrderId and razorpayPaymentId are required")
	}

	order, err := h.orders.VerifyPayment(c.Context(),
		req.OrderID, req.RazorpayOrderID, req.RazorpayPayment, req.PaymentSignature)
	if errors.Is(err, service.ErrPaymentVerification) {
		return web.Fail(c, fiber.StatusBadRequest, "payment verification failed")
	}
	if errors.Is(err, ports.ErrOrderNotFound) {
		return web.Fail(c, fiber.StatusNotFound, "order not found")
	}
	if errors.Is(err, ports.ErrInvalidTransition) {
		return web.Fail(c, fiber.StatusConflict, "order is not awaiting payment")
	}
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to verify payment")
	}

	return web.OK(c, fiber.Map{"order": order})
}

// GatewayWebhook godoc
// @Summary Receive a payment gateway webhook
// @Tags orders
// @Accept json
// @Produce json
// @Success 200 {object} web.Response
// @Router /api/webhooks/razorpay [post]
func (h *OrderHandler) GatewayWebhook(c *fiber.Ctx) error {
	signature := c.Get("X-Razorpay-Signature")
	// The body buffer is reused by fiber after the handler returns; copy
	// before handing it on.
	payload := make([]byte, len(c.Body()))
	copy(payload, c.Body())

	if err := h.orders.HandleGatewayWebhook(c.Context(), payload, signature); err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to process webhook")
	}
	return web.OK(c, fiber.Map{"received": true})
}

// MyOrders godoc
// @Summary List the caller's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} web.Response
// @Router /api/orders/my [get]
func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	claims, _ := authhandler.ClaimsFromCtx(c)

	orders, err := h.orders.MyOrders(c.Context(), claims.UserID)
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to list orders")
	}
	return web.OK(c, fiber.Map{"orders": orders})
}

// Get godoc
// @Summary Get one order by id
// @Tags orders
// @Produce json
// @Success 200 {object} web.Response
// @Router /api/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	claims, _ := authhandler.ClaimsFromCtx(c)

	order, err := h.orders.Get(c.Context(), c.Params("id"), claims.UserID, claims.IsAdmin())
	if errors.Is(err, ports.ErrOrderNotFound) {
		return web.Fail(c, fiber.StatusNotFound, "order not found")
	}
	if errors.Is(err, service.ErrForbidden) {
		return web.Fail(c, fiber.StatusForbidden, "not allowed")
	}
	if err != nil {
		return web.Fail(c, fiber.StatusInternalServerError, "failed to load order")
	}
	return web.OK(c, fiber.Map{"order": order})
}
