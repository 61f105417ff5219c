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

// PrintfulAdapter handles catalog and order operations for Printful
// (international fulfillment). Catalog and order calls are mock-backed
// pending the real HTTP client.
type PrintfulAdapter struct {
	apiKey        string
	webhookSecret string
	orders        ports.OrderStatusWriter
	logger        *zap.Logger
}

// NewPrintfulAdapter creates a PrintfulAdapter.
func NewPrintfulAdapter(apiKey, webhookSecret string, orders ports.OrderStatusWriter) *PrintfulAdapter {
	return &PrintfulAdapter{
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		orders:        orders,
		logger:        logger.Get(),
	}
}

// Key returns the provider identifier.
func (a *PrintfulAdapter) Key() domain.ProviderType {
	return domain.ProviderPrintful
}

// ListProducts returns the Printful catalog.
func (a *PrintfulAdapter) ListProducts(ctx context.Context) ([]domain.RawProduct, error) {
	return []domain.RawProduct{
		{
			ID:          "printful-001",
			Title:       "International Hoodie",
			Description: "Premium hoodie available worldwide",
			Images:      []string{"https://example.com/hoodie.jpg"},
			Variants: []domain.RawVariant{
				{
					ID:         "var-printful-001",
					Title:      "Medium",
					Price:      1299,
					Cost:       800,
					Attributes: map[string]string{"size": "M", "color": "Black"},
				},
			},
			Category: "Apparel",
		},
	}, nil
}

// GetProduct returns a single Printful product.
func (a *PrintfulAdapter) GetProduct(ctx context.Context, id string) (*domain.RawProduct, error) {
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

// CreateOrder submits a sub-order to Printful.
func (a *PrintfulAdapter) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	a.logger.Info("Submitting Printful order",
		zap.Int("items", len(req.Items)),
		zap.String("country", req.Shipping.Country),
	)
	return &domain.OrderResult{
		ID:     fmt.Sprintf("printful-order-%d", time.Now().UnixNano()),
		Status: "draft",
	}, nil
}

// GetOrder queries a Printful sub-order.
func (a *PrintfulAdapter) GetOrder(ctx context.Context, id string) (*domain.OrderResult, error) {
	return &domain.OrderResult{ID: id, Status: "fulfilled"}, nil
}

// ListOrders queries Printful sub-orders.
func (a *PrintfulAdapter) ListOrders(ctx context.Context, params domain.ListOrdersParams) ([]domain.OrderResult, error) {
	return []domain.OrderResult{}, nil
}

// VerifyWebhook checks the X-Printful-Signature HMAC over the raw payload.
func (a *PrintfulAdapter) VerifyWebhook(payload []byte, signature string) bool {
	return verifySignature(a.webhookSecret, payload, signature)
}

// printfulWebhook is the Printful webhook payload shape. Printful reports
// the storefront's own order id in external_id.
type printfulWebhook struct {
	Type    string `json:"type"`
	EventID string `json:"event_id"`
	Data    struct {
		Order struct {
			ExternalID string `json:"external_id"`
			Status     string `json:"status"`
		} `json:"order"`
	} `json:"data"`
}

// ParseWebhookMeta extracts the event name and delivery id.
func (a *PrintfulAdapter) ParseWebhookMeta(payload []byte) domain.WebhookMeta {
	var hook printfulWebhook
	if err := json.Unmarshal(payload, &hook); err != nil {
		return domain.WebhookMeta{Event: "unknown"}
	}
	return domain.WebhookMeta{Event: hook.Type, EventID: hook.EventID}
}

// printfulStatusMap translates Printful order statuses to internal ones.
var printfulStatusMap = map[string]string{
	"draft":     "PROCESSING",
	"pending":   "PROCESSING",
	"fulfilled": "SHIPPED",
	"shipped":   "SHIPPED",
	"delivered": "DELIVERED",
	"canceled":  "CANCELLED",
}

// ProcessWebhook applies a Printful status change, keyed by the internal
// order id Printful echoes back as external_id.
func (a *PrintfulAdapter) ProcessWebhook(ctx context.Context, payload []byte) error {
	var hook printfulWebhook
	if err := json.Unmarshal(payload, &hook); err != nil {
		return fmt.Errorf("failed to parse printful webhook: %w", err)
	}

	if hook.Type != "order_updated" {
		a.logger.Debug("Ignoring Printful event", zap.String("event", hook.Type))
		return nil
	}

	status, ok := printfulStatusMap[hook.Data.Order.Status]
	if !ok {
		return fmt.Errorf("unknown printful order status: %s", hook.Data.Order.Status)
	}

	return a.orders.UpdateStatusByOrderID(ctx, hook.Data.Order.ExternalID, status)
}
