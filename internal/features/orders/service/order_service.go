package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"podstore/internal/core/logger"
	"podstore/internal/core/queue"
	catalogdomain "podstore/internal/features/catalog/domain"
	catalog "podstore/internal/features/catalog/ports"
	offersservice "podstore/internal/features/offers/service"
	"podstore/internal/features/orders/domain"
	"podstore/internal/features/orders/ports"
	providers "podstore/internal/features/providers/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrEmptyOrder is returned when checkout is attempted with no items.
	ErrEmptyOrder = errors.New("order has no items")
	// ErrProductUnavailable is returned when an item's product is inactive
	// or has no active provider mapping.
	ErrProductUnavailable = errors.New("product unavailable")
	// ErrPaymentVerification is returned when the gateway signature does
	// not match.
	ErrPaymentVerification = errors.New("payment verification failed")
	// ErrForbidden is returned when a caller reads an order they do not own.
	ErrForbidden = errors.New("not allowed to access this order")
)

// Shipping is free above the threshold, flat below it. Tax is GST.
const (
	freeShippingThreshold = 500.0
	flatShippingFee       = 50.0
	taxRate               = 0.18
)

// OrderJob is the queue payload that triggers provider fan-out for a paid
// order.
type OrderJob struct {
	OrderID string `json:"orderId"`
}

// CreateOrderItem is one requested line of a checkout.
type CreateOrderItem struct {
	ProductID string                 `json:"productId"`
	Quantity  int                    `json:"quantity"`
	Provider  providers.ProviderType `json:"provider,omitempty"`
}

// CreateOrderInput is the checkout request.
type CreateOrderInput struct {
	UserID   string
	Email    string
	Phone    string
	Items    []CreateOrderItem
	Shipping domain.ShippingAddress
	// OfferID redeems an offer against this order, if set.
	OfferID string
}

// OfferApplier is the slice of the offers feature checkout needs: evaluate
// an offer against priced lines and consume a redemption once the order is
// stored.
type OfferApplier interface {
	Apply(ctx context.Context, offerID string, lines []offersservice.CartLine) (*offersservice.Application, error)
	RecordUsage(ctx context.Context, offerID string) error
}

// CheckoutResult pairs the stored order with the gateway order the client
// pays against.
type CheckoutResult struct {
	Order        *domain.Order       `json:"order"`
	GatewayOrder *ports.GatewayOrder `json:"gatewayOrder"`
}

// OrderService handles checkout, payment verification and order reads.
type OrderService struct {
	orders   ports.OrderRepository
	products catalog.ProductRepository
	gateway  ports.PaymentGateway
	offers   OfferApplier
	queue    queue.Queue
	logger   *zap.Logger
}

// NewOrderService creates an OrderService.
func NewOrderService(orders ports.OrderRepository, products catalog.ProductRepository, gateway ports.PaymentGateway, offers OfferApplier, q queue.Queue) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		gateway:  gateway,
		offers:   offers,
		queue:    q,
		logger:   logger.Get(),
	}
}

// Create prices the requested items from current catalog data, snapshots
// them into a PENDING order and registers the total with the payment
// gateway. Totals are fixed here and never recomputed.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*CheckoutResult, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	ids := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrEmptyOrder)
		}
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*catalogdomain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	order := &domain.Order{
		ID:              uuid.NewString(),
		UserID:          input.UserID,
		Email:           input.Email,
		Phone:           input.Phone,
		Status:          domain.OrderStatusPending,
		ShippingAddress: input.Shipping,
	}

	for _, item := range input.Items {
		product, ok := byID[item.ProductID]
		if !ok || !product.IsActive {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, item.ProductID)
		}
		mapping, ok := product.MappingFor(item.Provider)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, item.ProductID)
		}

		order.Items = append(order.Items, domain.OrderItem{
			ProductID:         product.ID,
			Quantity:          item.Quantity,
			Price:             mapping.Price,
			Provider:          mapping.Provider,
			ProviderProductID: mapping.ProviderProductID,
			ProviderVariantID: mapping.ProviderVariantID,
		})
		order.Subtotal += mapping.Price * float64(item.Quantity)
	}

	if input.OfferID != "" {
		lines := make([]offersservice.CartLine, len(order.Items))
		for i, item := range order.Items {
			lines[i] = offersservice.CartLine{
				ProductID: item.ProductID,
				Price:     item.Price,
				Quantity:  item.Quantity,
			}
		}
		application, err := s.offers.Apply(ctx, input.OfferID, lines)
		if err != nil {
			return nil, err
		}
		order.OfferID = input.OfferID
		order.Discount = application.Discount
	}

	discounted := order.Subtotal - order.Discount
	order.Shipping = flatShippingFee
	if discounted > freeShippingThreshold {
		order.Shipping = 0
	}
	order.Tax = discounted * taxRate
	order.Total = discounted + order.Shipping + order.Tax

	gatewayOrder, err := s.gateway.CreateOrder(ctx, order.Total, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if order.OfferID != "" {
		if err := s.offers.RecordUsage(ctx, order.OfferID); err != nil {
			// The order stands; usage counts are advisory.
			s.logger.Warn("Failed to record offer usage",
				zap.String("order_id", order.ID),
				zap.String("offer_id", order.OfferID),
				zap.Error(err))
		}
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.Float64("total", order.Total),
		zap.Int("items", len(order.Items)),
	)

	return &CheckoutResult{Order: order, GatewayOrder: gatewayOrder}, nil
}

// VerifyPayment checks the gateway callback signature, marks the order
// PAID and enqueues the provider fan-out job.
func (s *OrderService) VerifyPayment(ctx context.Context, orderID, gatewayOrderID, paymentID, signature string) (*domain.Order, error) {
	if !s.gateway.VerifySignature(gatewayOrderID, paymentID, signature) {
		s.logger.Warn("Payment signature mismatch", zap.String("order_id", orderID))
		return nil, ErrPaymentVerification
	}

	if err := s.ConfirmPayment(ctx, orderID, paymentID); err != nil {
		return nil, err
	}

	s.logger.Info("Payment verified", zap.String("order_id", orderID))
	return s.orders.GetByID(ctx, orderID)
}

// ConfirmPayment marks the order PAID and enqueues the provider fan-out
// job. Both the checkout callback and the gateway webhook land here.
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID, paymentID string) error {
	if err := s.orders.MarkPaid(ctx, orderID, paymentID); err != nil {
		return err
	}

	payload, err := json.Marshal(OrderJob{OrderID: orderID})
	if err != nil {
		return fmt.Errorf("failed to marshal order job: %w", err)
	}
	err = s.queue.Enqueue(ctx, queue.OrderQueue, queue.Job{Type: "order.fanout", Payload: payload})
	if err != nil {
		// The payment is captured; fan-out can be retriggered from the
		// admin panel, so surface but do not roll back.
		s.logger.Error("Failed to enqueue order fan-out",
			zap.String("order_id", orderID), zap.Error(err))
	}
	return nil
}

// HandleGatewayWebhook applies a payment gateway webhook delivery. A
// captured payment moves the order to PAID and starts fan-out, covering
// payments that complete after the client callback is lost. Deliveries
// that fail verification or cannot be applied are logged and acknowledged;
// the gateway retries on its own schedule only for transport errors.
func (s *OrderService) HandleGatewayWebhook(ctx context.Context, payload []byte, signature string) error {
	if !s.gateway.VerifyWebhook(payload, signature) {
		s.logger.Warn("Gateway webhook signature rejected")
		return nil
	}

	event, err := s.gateway.ParseWebhookEvent(payload)
	if err != nil {
		s.logger.Warn("Malformed gateway webhook", zap.Error(err))
		return nil
	}
	if event.Name != "payment.captured" {
		s.logger.Info("Gateway webhook ignored", zap.String("event", event.Name))
		return nil
	}
	if event.OrderID == "" {
		s.logger.Warn("Gateway webhook without order reference",
			zap.String("payment_id", event.PaymentID))
		return nil
	}

	err = s.ConfirmPayment(ctx, event.OrderID, event.PaymentID)
	switch {
	case err == nil:
		s.logger.Info("Gateway webhook applied",
			zap.String("order_id", event.OrderID),
			zap.String("payment_id", event.PaymentID))
	case errors.Is(err, ports.ErrOrderNotFound), errors.Is(err, ports.ErrInvalidTransition):
		// Unknown orders and already-paid orders are acknowledged; the
		// delivery carries no work left to do.
		s.logger.Warn("Gateway webhook acknowledged without status change",
			zap.String("order_id", event.OrderID), zap.Error(err))
	default:
		return err
	}
	return nil
}

// Get returns an order, restricted to its owner. Guest orders (no user id)
// are only reachable through this lookup by id.
func (s *OrderService) Get(ctx context.Context, orderID, userID string, isAdmin bool) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != "" && order.UserID != userID {
		return nil, ErrForbidden
	}
	return order, nil
}

// MyOrders returns the caller's orders, newest first.
func (s *OrderService) MyOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}
