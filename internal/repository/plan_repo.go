package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sahaaya/sahaaya_server/internal/model"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) ListActive() ([]model.Plan, error) {
	var plans []model.Plan
	err := r.db.Where("is_active = ?", true).Order("tier ASC").Find(&plans).Error
	return plans, err
}

func (r *PlanRepository) GetByID(id int64) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.Where("id = ?", id).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) GetByTier(tier int) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.Where("tier = ? AND is_active = ?", tier, true).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// EnsureDefaults seeds the four catalog tiers if they are missing. Idempotent,
// safe to call on every startup. Existing rows are never touched, so manual
// pricing adjustments survive restarts.
func (r *PlanRepository) EnsureDefaults() error {
	for _, plan := range DefaultPlans() {
		var existing model.Plan
		err := r.db.Where("tier = ?", plan.Tier).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		p := plan
		if err := r.db.Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}

// DefaultPlans is the seed catalog. Yearly price is ten months' worth (two
// months free on annual billing). Limits grow monotonically with the tier.
func DefaultPlans() []model.Plan {
	return []model.Plan{
		{
			Tier:              model.TierFree,
			Name:              "FREE",
			MonthlyPrice:      0,
			YearlyPrice:       0,
			MaxActiveRequests: 3,
			MaxItemValue:      5000,
			MonthlyItemLimit:  10,
			DonationCeiling:   0,
			Features:          "Item donations,Basic profile",
		},
		{
			Tier:                   model.TierBronze,
			Name:                   "BRONZE",
			MonthlyPrice:           499,
			YearlyPrice:            4990,
			MaxActiveRequests:      10,
			MaxItemValue:           25000,
			MonthlyItemLimit:       50,
			DonationCeiling:        100000,
			Features:               "Item donations,Priority listing,Email support",
			CanRequestFinancialAid: false,
		},
		{
			Tier:                   model.TierSilver,
			Name:                   "SILVER",
			MonthlyPrice:           999,
			YearlyPrice:            9990,
			MaxActiveRequests:      30,
			MaxItemValue:           100000,
			MonthlyItemLimit:       200,
			DonationCeiling:        500000,
			Features:               "Financial aid requests,Priority listing,Phone support",
			CanRequestFinancialAid: true,
		},
		{
			Tier:                   model.TierGold,
			Name:                   "GOLD",
			MonthlyPrice:           1999,
			YearlyPrice:            19990,
			MaxActiveRequests:      model.Unlimited,
			MaxItemValue:           model.Unlimited,
			MonthlyItemLimit:       model.Unlimited,
			DonationCeiling:        model.Unlimited,
			Features:               "Financial aid requests,Unlimited requests,Dedicated support",
			CanRequestFinancialAid: true,
		},
	}
}
