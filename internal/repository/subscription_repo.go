package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/sahaaya/sahaaya_server/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// WithTx returns a copy bound to the given transaction.
func (r *SubscriptionRepository) WithTx(tx *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: tx}
}

func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) GetByID(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) Update(sub *model.Subscription) error {
	return r.db.Save(sub).Error
}

func (r *SubscriptionRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Subscription{}).Where("id = ?", id).Updates(fields).Error
}

// AppendTierChange records one entry of the tier history log.
func (r *SubscriptionRepository) AppendTierChange(change *model.TierChange) error {
	return r.db.Create(change).Error
}

func (r *SubscriptionRepository) ListTierChanges(subscriptionID int64) ([]model.TierChange, error) {
	var changes []model.TierChange
	err := r.db.Where("subscription_id = ?", subscriptionID).
		Order("created_at ASC").Find(&changes).Error
	return changes, err
}

// ListLapsed returns subscriptions whose end date has passed, for the expiry
// sweep. Cancelled rows are included: cancellation keeps access until period
// end, after which the row lapses like any other.
func (r *SubscriptionRepository) ListLapsed(now time.Time) ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.Where("status IN ? AND end_date < ?",
		[]string{model.SubStatusTrial, model.SubStatusActive, model.SubStatusCancelled}, now).
		Find(&subs).Error
	return subs, err
}
