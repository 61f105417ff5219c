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

// PrintifyAdapter handles catalog and order operations for Printify
// (international fulfillment). Catalog and order calls are mock-backed
// pending the real HTTP client.
type PrintifyAdapter struct {
	apiKey        string
	shopID        string
	webhookSecret string
	orders        ports.OrderStatusWriter
	logger        *zap.Logger
}

// NewPrintifyAdapter creates a PrintifyAdapter.
func NewPrintifyAdapter(apiKey, shopID, webhookSecret string, orders ports.OrderStatusWriter) *PrintifyAdapter {
	return &PrintifyAdapter{
		apiKey:        apiKey,
		shopID:        shopID,
		webhookSecret: webhookSecret,
		orders:        orders,
		logger:        logger.Get(),
	}
}

// Key returns the provider identifier.
func (a *PrintifyAdapter) Key() domain.ProviderType {
	return domain.ProviderPrintify
}

// ListProducts returns the Printify catalog.
func (a *PrintifyAdapter) ListProducts(ctx context.Context) ([]domain.RawProduct, error) {
	return []domain.RawProduct{
		{
			ID:          "printify-001",
			Title:       "International Mug",
			Description: "Custom printed mug available globally",
			Images:      []string{"https://example.com/mug.jpg"},
			Variants: []domain.RawVariant{
				{
					ID:         "var-printify-001",
					Title:      "11oz",
					Price:      799,
					Cost:       400,
					Attributes: map[string]string{"size": "11oz", "color": "White"},
				},
			},
			Category: "Home & Living",
		},
	}, nil
}

// GetProduct returns a single Printify product.
func (a *PrintifyAdapter) GetProduct(ctx context.Context, id string) (*domain.RawProduct, error) {
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

// CreateOrder submits a sub-order to Printify.
func (a *PrintifyAdapter) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	a.logger.Info("Submitting Printify order",
		zap.String("shop_id", a.shopID),
		zap.Int("items", len(req.Items)),
	)
	return &domain.OrderResult{
		ID:     fmt.Sprintf("printify-order-%d", time.Now().UnixNano()),
		Status: "on-hold",
	}, nil
}

// GetOrder queries a Printify sub-order.
func (a *PrintifyAdapter) GetOrder(ctx context.Context, id string) (*domain.OrderResult, error) {
	return &domain.OrderResult{ID: id, Status: "shipped"}, nil
}

// ListOrders queries Printify sub-orders.
func (a *PrintifyAdapter) ListOrders(ctx context.Context, params domain.ListOrdersParams) ([]domain.OrderResult, error) {
	return []domain.OrderResult{}, nil
}

// VerifyWebhook checks the X-Printify-Signature HMAC over the raw payload.
func (a *PrintifyAdapter) VerifyWebhook(payload []byte, signature string) bool {
	return verifySignature(a.webhookSecret, payload, signature)
}

// printifyWebhook is the Printify webhook payload shape. Resource.ID is the
// Printify order id.
type printifyWebhook struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Resource struct {
		ID string `json:"id"`
	} `json:"resource"`
}

// ParseWebhookMeta extracts the event name and delivery id.
func (a *PrintifyAdapter) ParseWebhookMeta(payload []byte) domain.WebhookMeta {
	var hook printifyWebhook
	if err := json.Unmarshal(payload, &hook); err != nil {
		return domain.WebhookMeta{Event: "unknown"}
	}
	return domain.WebhookMeta{Event: hook.Type, EventID: hook.ID}
}

// printifyEventMap translates Printify event names directly to internal
// order statuses; Printify encodes the transition in the event type rather
// than a status field.
var printifyEventMap = map[string]string{
	"order:sent-to-production": "PROCESSING",
	"order:shipment:created":   "SHIPPED",
	"order:shipment:delivered": "DELIVERED",
	"order:canceled":           "CANCELLED",
}

// ProcessWebhook applies a Printify status change, keyed by the provider
// order id in the resource block.
func (a *PrintifyAdapter) ProcessWebhook(ctx context.Context, payload []byte) error {
	var hook printifyWebhook
	if err := json.Unmarshal(payload, &hook); err != nil {
		return fmt.Errorf("failed to parse printify webhook: %w", err)
	}

	status, ok := printifyEventMap[hook.Type]
	if !ok {
		a.logger.Debug("Ignoring Printify event", zap.String("event", hook.Type))
		return nil
	}

	return a.orders.UpdateStatusByProviderOrderID(ctx, hook.Resource.ID, status)
}
