package model

import (
	"time"
)

const (
	TxnStatusPending   = "pending"
	TxnStatusCompleted = "completed"
	TxnStatusFailed    = "failed"
	TxnStatusRefunded  = "refunded"
)

const (
	TxnTypeSubscription = "subscription"
	TxnTypeUpgrade      = "upgrade"
	TxnTypeRenewal      = "renewal"
)

// Transaction is one ledger entry for a monetary event. Rows are append-mostly:
// after creation only the status (forward-only), gateway confirmation fields,
// billing period and refund block may change. The plan snapshot and invoice
// amounts are immutable history of what was purchased.
type Transaction struct {
	ID             int64  `gorm:"primaryKey" json:"id"`
	UserID         int64  `gorm:"not null;index" json:"user_id"`
	SubscriptionID *int64 `gorm:"index" json:"subscription_id,omitempty"`
	Type           string `gorm:"size:20;not null" json:"type"`

	Amount   float64 `gorm:"type:decimal(10,2)" json:"amount"`
	Currency string  `gorm:"size:3;default:INR" json:"currency"`

	GatewayOrderID   string  `gorm:"size:100;uniqueIndex;not null" json:"gateway_order_id"`
	GatewayPaymentID *string `gorm:"size:100" json:"gateway_payment_id,omitempty"`
	GatewaySignature *string `gorm:"size:255" json:"-"`

	Status string `gorm:"size:20;default:pending;index" json:"status"`

	PeriodStart *time.Time `json:"period_start,omitempty"`
	PeriodEnd   *time.Time `json:"period_end,omitempty"`

	// Plan snapshot captured at order creation.
	PlanTier     int    `gorm:"not null" json:"plan_tier"`
	PlanName     string `gorm:"size:20" json:"plan_name"`
	BillingCycle string `gorm:"size:10" json:"billing_cycle"`

	// Invoice breakdown: total = subtotal + gst_amount.
	Subtotal      float64 `gorm:"type:decimal(10,2)" json:"subtotal"`
	GSTAmount     float64 `gorm:"type:decimal(10,2)" json:"gst_amount"`
	Total         float64 `gorm:"type:decimal(10,2)" json:"total"`
	InvoiceNumber string  `gorm:"size:40" json:"invoice_number"`
	InvoiceURL    string  `gorm:"size:500" json:"invoice_url,omitempty"`

	RefundAmount    *float64   `gorm:"type:decimal(10,2)" json:"refund_amount,omitempty"`
	RefundReason    string     `gorm:"type:text" json:"refund_reason,omitempty"`
	RefundedAt      *time.Time `json:"refunded_at,omitempty"`
	RefundedBy      *int64     `json:"refunded_by,omitempty"`
	GatewayRefundID string     `gorm:"size:100" json:"gateway_refund_id,omitempty"`

	FailureReason string `gorm:"type:text" json:"failure_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// CanTransition reports whether a status move is allowed. Transitions only run
// forward: pending→completed, pending→failed, completed→refunded.
func CanTransition(from, to string) bool {
	switch from {
	case TxnStatusPending:
		return to == TxnStatusCompleted || to == TxnStatusFailed
	case TxnStatusCompleted:
		return to == TxnStatusRefunded
	default:
		return false
	}
}
