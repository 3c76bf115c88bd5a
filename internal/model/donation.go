package model

import (
	"time"
)

const (
	DonationStatusCompleted = "completed"
	DonationStatusRefunded  = "refunded"
)

// Donation is one financial donation from a donor to an NGO. It is a parallel
// ledger to transactions, scanned by the financial reports.
type Donation struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	DonorID   int64     `gorm:"not null;index" json:"donor_id"`
	NGOID     int64     `gorm:"column:ngo_id;not null;index" json:"ngo_id"`
	Amount    float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency  string    `gorm:"size:3;default:INR" json:"currency"`
	Status    string    `gorm:"size:20;default:completed;index" json:"status"`
	Message   string    `gorm:"type:text" json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Donation) TableName() string {
	return "donations"
}
