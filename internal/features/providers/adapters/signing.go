package adapters

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// signPayload computes the hex HMAC-SHA256 of a raw webhook payload. All
// three providers sign with this scheme, each under its own secret and
// header.
func signPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// verifySignature compares an inbound signature against the expected HMAC
// in constant time. An empty secret rejects everything: an unconfigured
// provider must not accept webhooks.
func verifySignature(secret string, payload []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := signPayload(secret, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
