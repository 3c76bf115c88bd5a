package repository

import (
	"gorm.io/gorm"

	"github.com/sahaaya/sahaaya_server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy bound to the given transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// UpdateSubscriptionSummary rewrites the denormalized summary on the user row.
func (r *UserRepository) UpdateSubscriptionSummary(id int64, summary map[string]interface{}) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(summary).Error
}

// MarkTrialUsed sets trial_used permanently; never cleared afterwards.
func (r *UserRepository) MarkTrialUsed(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("trial_used", true).Error
}
