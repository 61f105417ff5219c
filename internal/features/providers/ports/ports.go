package ports

import (
	"context"
	"errors"

	"podstore/internal/features/providers/domain"
)

var (
	// ErrProviderUnavailable is returned when the remote provider call fails.
	// The caller decides the retry policy.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrProductNotFound is returned when the provider does not know the
	// requested product.
	ErrProductNotFound = errors.New("provider product not found")
)

// ProviderAdapter translates generic catalog and order operations into
// provider-specific calls. All provider request/response shape knowledge
// lives behind this seam; fan-out and sync logic stay provider-agnostic.
type ProviderAdapter interface {
	// Key returns the provider identifier this adapter serves.
	Key() domain.ProviderType

	// ListProducts fetches the provider's full catalog.
	ListProducts(ctx context.Context) ([]domain.RawProduct, error)

	// GetProduct fetches a single raw product by provider product id.
	GetProduct(ctx context.Context, id string) (*domain.RawProduct, error)

	// CreateOrder submits a sub-order to the provider. The provider begins
	// fulfillment as a side effect; the adapter does not de-duplicate.
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error)

	// GetOrder queries a submitted sub-order's status.
	GetOrder(ctx context.Context, id string) (*domain.OrderResult, error)

	// ListOrders queries submitted sub-orders.
	ListOrders(ctx context.Context, params domain.ListOrdersParams) ([]domain.OrderResult, error)

	// VerifyWebhook checks the provider's signature over the raw payload.
	// It must return false when the signature does not match.
	VerifyWebhook(payload []byte, signature string) bool

	// ParseWebhookMeta extracts the event name and idempotency key from a
	// raw payload without processing it.
	ParseWebhookMeta(payload []byte) domain.WebhookMeta

	// ProcessWebhook maps the provider's event taxonomy to an internal
	// order-status transition and writes it through the status writer.
	ProcessWebhook(ctx context.Context, payload []byte) error
}

// OrderStatusWriter is the slice of order storage that webhook processing
// needs. Implementations enforce the order status state machine.
type OrderStatusWriter interface {
	// UpdateStatusByProviderOrderID transitions the order owning the given
	// provider order id.
	UpdateStatusByProviderOrderID(ctx context.Context, providerOrderID, status string) error

	// UpdateStatusByOrderID transitions the order with the given internal id.
	UpdateStatusByOrderID(ctx context.Context, orderID, status string) error
}
