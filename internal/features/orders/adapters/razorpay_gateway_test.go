package adapters

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"podstore/internal/core/config"

	"github.com/stretchr/testify/assert"
)

func razorpaySign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRazorpayGateway_VerifySignature(t *testing.T) {
	gateway := NewRazorpayGateway(config.PaymentConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_test_secret",
	})

	t.Run("Valid", func(t *testing.T) {
		signature := razorpaySign("rzp_test_secret", "order_abc", "pay_xyz")
		assert.True(t, gateway.VerifySignature("order_abc", "pay_xyz", signature))
	})

	t.Run("WrongPaymentID", func(t *testing.T) {
		signature := razorpaySign("rzp_test_secret", "order_abc", "pay_xyz")
		assert.False(t, gateway.VerifySignature("order_abc", "pay_other", signature))
	})

	t.Run("WrongSecret", func(t *testing.T) {
		signature := razorpaySign("leaked_secret", "order_abc", "pay_xyz")
		assert.False(t, gateway.VerifySignature("order_abc", "pay_xyz", signature))
	})

	t.Run("EmptySignature", func(t *testing.T) {
		assert.False(t, gateway.VerifySignature("order_abc", "pay_xyz", ""))
	})

	t.Run("UnconfiguredSecret", func(t *testing.T) {
		unconfigured := NewRazorpayGateway(config.PaymentConfig{KeyID: "k"})
		signature := razorpaySign("", "order_abc", "pay_xyz")
		assert.False(t, unconfigured.VerifySignature("order_abc", "pay_xyz", signature))
	})
}

func razorpaySignBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRazorpayGateway_VerifyWebhook(t *testing.T) {
	gateway := NewRazorpayGateway(config.PaymentConfig{
		KeyID:         "rzp_test_key",
		KeySecret:     "rzp_test_secret",
		WebhookSecret: "rzp_webhook_secret",
	})
	body := []byte(`{"event":"payment.captured"}`)

	t.Run("Valid", func(t *testing.T) {
		assert.True(t, gateway.VerifyWebhook(body, razorpaySignBody("rzp_webhook_secret", body)))
	})

	t.Run("TamperedBody", func(t *testing.T) {
		signature := razorpaySignBody("rzp_webhook_secret", body)
		assert.False(t, gateway.VerifyWebhook([]byte(`{"event":"payment.failed"}`), signature))
	})

	t.Run("EmptySignature", func(t *testing.T) {
		assert.False(t, gateway.VerifyWebhook(body, ""))
	})

	t.Run("UnconfiguredSecret", func(t *testing.T) {
		unconfigured := NewRazorpayGateway(config.PaymentConfig{KeyID: "k"})
		assert.False(t, unconfigured.VerifyWebhook(body, razorpaySignBody("", body)))
	})
}

func TestRazorpayGateway_ParseWebhookEvent(t *testing.T) {
	gateway := NewRazorpayGateway(config.PaymentConfig{KeyID: "k", KeySecret: "s"})

	t.Run("CapturedPayment", func(t *testing.T) {
		body := []byte(`{
			"event": "payment.captured",
			"payload": {"payment": {"entity": {
				"id": "pay_xyz",
				"order_id": "order_abc",
				"notes": {"orderId": "internal-1"}
			}}}
		}`)

		event, err := gateway.ParseWebhookEvent(body)
		assert.NoError(t, err)
		assert.Equal(t, "payment.captured", event.Name)
		assert.Equal(t, "internal-1", event.OrderID)
		assert.Equal(t, "pay_xyz", event.PaymentID)
	})

	t.Run("MissingNotes", func(t *testing.T) {
		body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_xyz"}}}}`)

		event, err := gateway.ParseWebhookEvent(body)
		assert.NoError(t, err)
		assert.Empty(t, event.OrderID)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		_, err := gateway.ParseWebhookEvent([]byte("not json"))
		assert.Error(t, err)
	})
}
