package model

import (
	"time"
)

const (
	FundingStatusPending  = "pending"
	FundingStatusApproved = "approved"
	FundingStatusRejected = "rejected"
)

// FundingRequest is an NGO's request for financial aid from the platform pool.
// Approved amounts count as an expense against revenue in the reports.
type FundingRequest struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	NGOID          int64      `gorm:"column:ngo_id;not null;index" json:"ngo_id"`
	Title          string     `gorm:"size:200;not null" json:"title"`
	Amount         float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status         string     `gorm:"size:20;default:pending;index" json:"status"`
	ApprovedAmount *float64   `gorm:"type:decimal(12,2)" json:"approved_amount,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (FundingRequest) TableName() string {
	return "funding_requests"
}
