package model

import (
	"time"
)

const (
	SubStatusTrial     = "trial"
	SubStatusActive    = "active"
	SubStatusCancelled = "cancelled"
	SubStatusExpired   = "expired"
)

const (
	CycleMonthly = "monthly"
	CycleYearly  = "yearly"
)

// Subscription is the contractual state for one NGO. Each NGO holds at most one
// current row (pointed at by users.subscription_id); ordinary tier changes
// mutate the row in place, history lives in tier_changes.
type Subscription struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	UserID       int64  `gorm:"not null;index" json:"user_id"`
	PlanID       int64  `gorm:"not null" json:"plan_id"`
	Tier         int    `gorm:"not null" json:"tier"`
	Status       string `gorm:"size:20;default:active;index" json:"status"`
	BillingCycle string `gorm:"size:10;default:monthly" json:"billing_cycle"`

	StartDate       time.Time  `gorm:"not null" json:"start_date"`
	EndDate         time.Time  `gorm:"not null;index" json:"end_date"`
	NextBillingDate *time.Time `json:"next_billing_date,omitempty"`
	AutoRenew       bool       `gorm:"default:true" json:"auto_renew"`

	IsTrial     bool       `gorm:"default:false" json:"is_trial"`
	TrialEndsAt *time.Time `json:"trial_ends_at,omitempty"`

	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason string     `gorm:"type:text" json:"cancel_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// TierChange is one entry of the append-only tier history for a subscription.
type TierChange struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	SubscriptionID int64     `gorm:"not null;index" json:"subscription_id"`
	UserID         int64     `gorm:"not null;index" json:"user_id"`
	FromTier       int       `json:"from_tier"`
	ToTier         int       `json:"to_tier"`
	ChangedBy      string    `gorm:"size:50" json:"changed_by"` // "user" or "[ADMIN] <id>"
	Reason         string    `gorm:"type:text" json:"reason"`
	CreatedAt      time.Time `json:"created_at"`
}

func (TierChange) TableName() string {
	return "tier_changes"
}
