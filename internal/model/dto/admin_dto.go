package dto

type AdminCancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type AdminChangeTierRequest struct {
	NewTier int    `json:"new_tier" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
}

type AdminRefundRequest struct {
	Reason       string   `json:"reason" binding:"required"`
	RefundAmount *float64 `json:"refund_amount"`
}
