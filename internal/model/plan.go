package model

import (
	"time"
)

// Tier ordinals. Ordering is total: FREE < BRONZE < SILVER < GOLD, and every
// limit is expected to be monotone non-decreasing with the tier.
const (
	TierFree   = 1
	TierBronze = 2
	TierSilver = 3
	TierGold   = 4
)

// Unlimited is the sentinel for limits without a cap.
const Unlimited = -1

type Plan struct {
	ID           int64   `gorm:"primaryKey" json:"id"`
	Tier         int     `gorm:"uniqueIndex;not null" json:"tier"`
	Name         string  `gorm:"size:20;not null" json:"name"`
	MonthlyPrice float64 `gorm:"type:decimal(10,2)" json:"monthly_price"`
	YearlyPrice  float64 `gorm:"type:decimal(10,2)" json:"yearly_price"`

	// Entitlement limits. Unlimited (-1) means no cap.
	MaxActiveRequests int     `json:"max_active_requests"`
	MaxItemValue      float64 `gorm:"type:decimal(10,2)" json:"max_item_value"`
	MonthlyItemLimit  int     `json:"monthly_item_limit"`
	DonationCeiling   float64 `gorm:"type:decimal(12,2)" json:"donation_ceiling"`

	Features               string `gorm:"type:text" json:"features"` // comma separated display list
	CanRequestFinancialAid bool   `gorm:"default:false" json:"can_request_financial_aid"`
	IsActive               bool   `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}

// TierName maps an ordinal to its display name.
func TierName(tier int) string {
	switch tier {
	case TierFree:
		return "FREE"
	case TierBronze:
		return "BRONZE"
	case TierSilver:
		return "SILVER"
	case TierGold:
		return "GOLD"
	default:
		return "UNKNOWN"
	}
}

// ValidTier reports whether tier is inside the catalog range.
func ValidTier(tier int) bool {
	return tier >= TierFree && tier <= TierGold
}

// PriceFor returns the plan price for a billing cycle.
func (p *Plan) PriceFor(cycle string) float64 {
	if cycle == CycleYearly {
		return p.YearlyPrice
	}
	return p.MonthlyPrice
}
