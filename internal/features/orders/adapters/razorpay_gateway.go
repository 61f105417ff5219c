package adapters

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"podstore/internal/core/config"
	"podstore/internal/core/httpclient"
	"podstore/internal/features/orders/ports"
)

const gatewayTimeout = 15 * time.Second

// RazorpayGateway implements ports.PaymentGateway against the Razorpay
// Orders API. Amounts are converted to paise on the wire.
type RazorpayGateway struct {
	baseURL       string
	keyID         string
	keySecret     string
	webhookSecret string
	client        *http.Client
}

// NewRazorpayGateway creates a RazorpayGateway.
func NewRazorpayGateway(cfg config.PaymentConfig) *RazorpayGateway {
	return &RazorpayGateway{
		baseURL:       cfg.BaseURL,
		keyID:         cfg.KeyID,
		keySecret:     cfg.KeySecret,
		webhookSecret: cfg.WebhookSecret,
		client:        httpclient.NewClient(gatewayTimeout),
	}
}

type createOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// CreateOrder registers the amount with Razorpay and returns the gateway
// order the client completes payment against.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount float64, receipt string) (*ports.GatewayOrder, error) {
	// The receipt is the internal order id; carrying it in the notes lets
	// webhook deliveries be correlated back, since the payment entity does
	// not echo the receipt.
	body, err := json.Marshal(createOrderRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: "INR",
		Receipt:  receipt,
		Notes:    map[string]string{"orderId": receipt},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gateway order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway order creation failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway order creation failed with status %d", resp.StatusCode)
	}

	var order ports.GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode gateway order: %w", err)
	}
	return &order, nil
}

// VerifySignature checks the checkout callback signature:
// HMAC-SHA256(gatewayOrderID + "|" + paymentID, keySecret), hex encoded.
func (g *RazorpayGateway) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	if g.keySecret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhook checks the webhook signature: HMAC-SHA256 of the raw
// delivery body with the webhook secret, hex encoded.
func (g *RazorpayGateway) VerifyWebhook(payload []byte, signature string) bool {
	if g.webhookSecret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

type razorpayWebhook struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string            `json:"id"`
				OrderID string            `json:"order_id"`
				Notes   map[string]string `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ParseWebhookEvent extracts the event name and payment identifiers from a
// webhook delivery. The internal order id comes from the notes set at order
// creation.
func (g *RazorpayGateway) ParseWebhookEvent(payload []byte) (ports.GatewayEvent, error) {
	var hook razorpayWebhook
	if err := json.Unmarshal(payload, &hook); err != nil {
		return ports.GatewayEvent{}, fmt.Errorf("failed to parse gateway webhook: %w", err)
	}

	entity := hook.Payload.Payment.Entity
	return ports.GatewayEvent{
		Name:      hook.Event,
		OrderID:   entity.Notes["orderId"],
		PaymentID: entity.ID,
	}, nil
}
