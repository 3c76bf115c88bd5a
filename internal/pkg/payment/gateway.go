package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Order is the gateway-side order created before checkout.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Gateway abstracts the payment processor. Two implementations exist: the
// Razorpay-style HTTP client for live mode and the deterministic simulated
// gateway for test mode, selected once at startup.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// Sign computes the checkout signature: HMAC-SHA256 over "orderID|paymentID".
func Sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// verify compares an expected signature in constant time.
func verify(orderID, paymentID, signature, secret string) bool {
	expected := Sign(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
