package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"podstore/internal/core/config"
	"podstore/internal/core/httpclient"
	"podstore/internal/core/logger"
	"podstore/internal/features/orders/domain"

	"go.uber.org/zap"
)

const (
	gaEndpoint = "https://www.google-analytics.com/mp/collect"
	gaTimeout  = 10 * time.Second
	gaCurrency = "INR"
)

// GATracker reports purchases through the GA4 Measurement Protocol. It is
// best-effort: failures are logged and never surfaced to the order flow.
// With empty credentials the tracker is a no-op.
type GATracker struct {
	measurementID string
	apiSecret     string
	client        *http.Client
	logger        *zap.Logger
}

// NewGATracker creates a GATracker.
func NewGATracker(cfg config.AnalyticsConfig) *GATracker {
	return &GATracker{
		measurementID: cfg.MeasurementID,
		apiSecret:     cfg.APISecret,
		client:        httpclient.NewClient(gaTimeout),
		logger:        logger.Get(),
	}
}

// Enabled reports whether credentials are configured.
func (t *GATracker) Enabled() bool {
	return t.measurementID != "" && t.apiSecret != ""
}

type gaItem struct {
	ItemID   string  `json:"item_id"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type gaEvent struct {
	Name   string                 `json:"name"`
	Params map[string]interface{} `json:"params"`
}

type gaPayload struct {
	ClientID string    `json:"client_id"`
	Events   []gaEvent `json:"events"`
}

// TrackPurchase sends a GA4 purchase event for the order.
func (t *GATracker) TrackPurchase(ctx context.Context, order *domain.Order) {
	if !t.Enabled() {
		return
	}

	items := make([]gaItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, gaItem{
			ItemID:   item.ProductID,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	clientID := order.UserID
	if clientID == "" {
		clientID = order.ID
	}

	body, err := json.Marshal(gaPayload{
		ClientID: clientID,
		Events: []gaEvent{{
			Name: "purchase",
			Params: map[string]interface{}{
				"transaction_id": order.ID,
				"currency":       gaCurrency,
				"value":          order.Total,
				"shipping":       order.Shipping,
				"tax":            order.Tax,
				"items":          items,
			},
		}},
	})
	if err != nil {
		t.logger.Warn("Failed to build analytics payload", zap.Error(err))
		return
	}

	endpoint := gaEndpoint + "?" + url.Values{
		"measurement_id": {t.measurementID},
		"api_secret":     {t.apiSecret},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		t.logger.Warn("Failed to build analytics request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Warn("Analytics request failed",
			zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	resp.Body.Close()

	t.logger.Debug("Purchase tracked",
		zap.String("order_id", order.ID),
		zap.Int("status_code", resp.StatusCode),
	)
}
