package dto

import (
	"github.com/sahaaya/sahaaya_server/internal/model"
)

type CreateOrderRequest struct {
	PlanID       int64  `json:"plan_id" binding:"required"`
	BillingCycle string `json:"billing_cycle" binding:"required,oneof=monthly yearly"`
}

type CreateOrderResponse struct {
	TransactionID int64   `json:"transaction_id"`
	OrderID       string  `json:"order_id"`
	AmountPaise   int64   `json:"amount"` // minor units, authoritative charge
	Currency      string  `json:"currency"`
	KeyID         string  `json:"key_id"`
	Subtotal      float64 `json:"subtotal"`
	GSTAmount     float64 `json:"gst_amount"`
	Total         float64 `json:"total"`
}

type VerifyPaymentRequest struct {
	TransactionID    int64  `json:"transaction_id" binding:"required"`
	GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	GatewaySignature string `json:"gateway_signature" binding:"required"`
}

type VerifyPaymentResponse struct {
	Transaction  *model.Transaction  `json:"transaction"`
	Subscription *model.Subscription `json:"subscription"`
	Plan         *model.Plan         `json:"plan"`
}

type PaymentFailureRequest struct {
	TransactionID int64  `json:"transaction_id" binding:"required"`
	Reason        string `json:"reason"`
}

// TestCompleteRequest asks the simulated gateway for matching payment
// credentials of a pending order. Available in test mode only.
type TestCompleteRequest struct {
	TransactionID int64 `json:"transaction_id" binding:"required"`
}

type TestCompleteResponse struct {
	TransactionID    int64  `json:"transaction_id"`
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	GatewaySignature string `json:"gateway_signature"`
}
