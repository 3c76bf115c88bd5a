package model

import (
	"time"
)

const (
	RoleDonor = "donor"
	RoleNGO   = "ngo"
	RoleAdmin = "admin"
)

type User struct {
	ID           int64   `gorm:"primaryKey" json:"id"`
	Name         string  `gorm:"size:100;not null" json:"name"`
	Email        string  `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"size:255;not null" json:"-"`
	Role         string  `gorm:"size:20;default:donor;index" json:"role"`

	// Denormalized subscription summary, kept in sync with the current
	// Subscription row inside the same DB transaction on every mutation.
	SubscriptionID        *int64     `json:"subscription_id,omitempty"`
	SubscriptionTier      int        `gorm:"default:1" json:"subscription_tier"`
	SubscriptionTierName  string     `gorm:"size:20;default:FREE" json:"subscription_tier_name"`
	SubscriptionStatus    string     `gorm:"size:20;default:active" json:"subscription_status"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
	TrialUsed             bool       `gorm:"default:false" json:"trial_used"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
