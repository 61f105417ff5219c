package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"podstore/internal/core/logger"
	"podstore/internal/features/providers/domain"
	"podstore/internal/features/providers/ports"

	"go.uber.org/zap"
)

// PrintroveAdapter handles catalog and order operations for Printrove, the
// domestic (India) fulfillment provider.
//
// Catalog and order calls are backed by mock data until the real HTTP
// client lands; the webhook path is fully implemented.
type PrintroveAdapter struct {
	apiKey        string
	webhookSecret string
	orders        ports.OrderStatusWriter
	logger        *zap.Logger
}

// NewPrintroveAdapter creates a PrintroveAdapter.
func NewPrintroveAdapter(apiKey, webhookSecret string, orders ports.OrderStatusWriter) *PrintroveAdapter {
	return &PrintroveAdapter{
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		orders:        orders,
		logger:        logger.Get(),
	}
}

// Key returns the provider identifier.
func (a *PrintroveAdapter) Key() domain.ProviderType {
	return domain.ProviderPrintrove
}

// ListProducts returns the Printrove catalog.
func (a *PrintroveAdapter) ListProducts(ctx context.Context) ([]domain.RawProduct, error) {
	return []domain.RawProduct{
		{
			ID:          "printrove-001",
			Title:       "Custom T-Shirt",
			Description: "Premium cotton t-shirt with custom printing",
			Images:      []string{"https://example.com/tshirt.jpg"},
			Variants: []domain.RawVariant{
				{
					ID:         "var-001",
					Title:      "Small",
					Price:      299,
					Cost:       150,
					Attributes: map[string]string{"size": "S", "color": "White"},
				},
			},
			Category: "Apparel",
		},
	}, nil
}

// GetProduct returns a single Printrove product.
func (a *PrintroveAdapter) GetProduct(ctx context.Context, id string) (*domain.RawProduct, error) {
	products, err := a.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ports.ErrProductNotFound
}

// CreateOrder submits a sub-order to Printrove.
func (a *PrintroveAdapter) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	a.logger.Info("Submitting Printrove order",
		zap.Int("items", len(req.Items)),
		zap.String("city", req.Shipping.City),
	)
	return &domain.OrderResult{
		ID:     fmt.Sprintf("printrove-order-%d", time.Now().UnixNano()),
		Status: "processing",
	}, nil
}

// GetOrder queries a Printrove sub-order.
func (a *PrintroveAdapter) GetOrder(ctx context.Context, id string) (*domain.OrderResult, error) {
	return &domain.OrderResult{ID: id, Status: "processing"}, nil
}

// ListOrders queries Printrove sub-orders.
func (a *PrintroveAdapter) ListOrders(ctx context.Context, params domain.ListOrdersParams) ([]domain.OrderResult, error) {
	return []domain.OrderResult{}, nil
}

// VerifyWebhook checks the X-Printrove-Signature HMAC over the raw payload.
func (a *PrintroveAdapter) VerifyWebhook(payload []byte, signature string) bool {
	return verifySignature(a.webhookSecret, payload, signature)
}

// printroveWebhook is the Printrove webhook payload shape.
type printroveWebhook struct {
	Event   string `json:"event"`
	EventID string `json:"event_id"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// ParseWebhookMeta extracts the event name and delivery id.
func (a *PrintroveAdapter) ParseWebhookMeta(payload []byte) domain.WebhookMeta {
	var hook printroveWebhook
	if err := json.Unmarshal(payload, &hook); err != nil {
		return domain.WebhookMeta{Event: "unknown"}
	}
	return domain.WebhookMeta{Event: hook.Event, EventID: hook.EventID}
}

// printroveStatusMap translates Printrove order statuses to internal ones.
var printroveStatusMap = map[string]string{
	"processing": "PROCESSING",
	"shipped":    "SHIPPED",
	"delivered":  "DELIVERED",
	"cancelled":  "CANCELLED",
	"refunded":   "REFUNDED",
}

// ProcessWebhook applies a Printrove status change, keyed by the provider
// order id carried in the payload.
func (a *PrintroveAdapter) ProcessWebhook(ctx context.Context, payload []byte) error {
	var hook printroveWebhook
	if err := json.Unmarshal(payload, &hook); err != nil {
		return fmt.Errorf("failed to parse printrove webhook: %w", err)
	}

	if hook.Event != "order.status_changed" {
		a.logger.Debug("Ignoring Printrove event", zap.String("event", hook.Event))
		return nil
	}

	status, ok := printroveStatusMap[hook.Status]
	if !ok {
		return fmt.Errorf("unknown printrove order status: %s", hook.Status)
	}

	return a.orders.UpdateStatusByProviderOrderID(ctx, hook.OrderID, status)
}
