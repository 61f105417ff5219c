package ports

import (
	"context"
	"errors"

	"podstore/internal/features/orders/domain"
)

var (
	// ErrOrderNotFound is returned when no order matches the lookup.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidTransition is returned when a status update would move the
	// order backward or out of a terminal state.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// ListParams filters an admin order listing.
type ListParams struct {
	Page   int
	Limit  int
	Status domain.OrderStatus
}

// OrderRepository persists orders, their items and sub-orders.
type OrderRepository interface {
	// Create inserts the order with its item snapshots in one transaction.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID returns the order with items and sub-orders attached.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// ListByUser returns a user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)

	// List returns orders for the admin panel, newest first.
	List(ctx context.Context, params ListParams) ([]domain.Order, int, error)

	// UpdateStatus transitions the order, enforcing the status state machine.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error

	// MarkPaid records the gateway payment id and transitions to PAID.
	MarkPaid(ctx context.Context, id, paymentID string) error

	// SetProviderOrderID stores the legacy primary provider order id.
	SetProviderOrderID(ctx context.Context, id, providerOrderID string) error

	// AddSubOrder records one provider's share of a fanned-out order.
	AddSubOrder(ctx context.Context, sub *domain.SubOrder) error

	// CountAll returns the total number of orders.
	CountAll(ctx context.Context) (int, error)

	// DeliveredRevenue sums the totals of delivered orders.
	DeliveredRevenue(ctx context.Context) (float64, error)

	// Recent returns the most recent orders for the admin dashboard.
	Recent(ctx context.Context, limit int) ([]domain.Order, error)
}

// GatewayOrder is the payment gateway's handle for a checkout attempt.
type GatewayOrder struct {
	// ID is the gateway-assigned order id the storefront client pays against.
	ID string `json:"id"`
	// Amount is in the currency's smallest unit (paise for INR).
	Amount int64 `json:"amount"`
	// Currency is the ISO code, e.g. "INR".
	Currency string `json:"currency"`
}

// GatewayEvent is one parsed gateway webhook delivery.
type GatewayEvent struct {
	// Name is the gateway's event name, e.g. "payment.captured".
	Name string
	// OrderID is the internal order id carried in the payment notes; empty
	// when the gateway delivers a payment this system did not initiate.
	OrderID string
	// PaymentID is the gateway's payment id.
	PaymentID string
}

// PaymentGateway creates gateway orders and verifies payment callbacks and
// webhook deliveries.
type PaymentGateway interface {
	// CreateOrder registers the amount with the gateway and returns the
	// gateway order the client completes payment against.
	CreateOrder(ctx context.Context, amount float64, receipt string) (*GatewayOrder, error)

	// VerifySignature checks the callback signature over the gateway order
	// id and payment id. It must return false on any mismatch.
	VerifySignature(gatewayOrderID, paymentID, signature string) bool

	// VerifyWebhook checks the webhook signature over the raw delivery
	// body. It must return false on any mismatch.
	VerifyWebhook(payload []byte, signature string) bool

	// ParseWebhookEvent extracts the event name and payment identifiers
	// from a webhook delivery body.
	ParseWebhookEvent(payload []byte) (GatewayEvent, error)
}

// PurchaseTracker reports completed purchases to the analytics backend.
// Implementations must never fail the order flow.
type PurchaseTracker interface {
	TrackPurchase(ctx context.Context, order *domain.Order)
}
