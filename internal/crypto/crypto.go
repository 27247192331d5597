package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// PaymentSignature computes the hex-encoded HMAC-SHA256 the gateway produces
// for a completed checkout: HMAC(secret, orderID + "|" + paymentID).
func PaymentSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature reports whether signature matches the expected
// checkout signature for (orderID, paymentID). Comparison is constant-time.
// A payment must never be marked active unless this returns true.
func VerifyPaymentSignature(secret, orderID, paymentID, signature string) bool {
	expected := PaymentSignature(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// WebhookSignature computes the hex-encoded HMAC-SHA256 of a raw webhook
// body under the webhook secret.
func WebhookSignature(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature reports whether signature matches the raw webhook
// body under the webhook secret. The webhook secret is distinct from the
// checkout key secret. Comparison is constant-time.
func VerifyWebhookSignature(secret string, body []byte, signature string) bool {
	expected := WebhookSignature(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
