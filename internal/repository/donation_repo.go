package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/sahaaya/sahaaya_server/internal/model"
)

type DonationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) Create(donation *model.Donation) error {
	return r.db.Create(donation).Error
}

func (r *DonationRepository) ListByNGO(ngoID int64) ([]model.Donation, error) {
	var donations []model.Donation
	err := r.db.Where("ngo_id = ?", ngoID).Order("created_at DESC").Find(&donations).Error
	return donations, err
}

// SumCompleted totals completed donations. A nil since means all time.
func (r *DonationRepository) SumCompleted(since *time.Time) (float64, error) {
	var out struct{ Total float64 }
	q := r.db.Model(&model.Donation{}).
		Select("COALESCE(SUM(amount),0) AS total").
		Where("status = ?", model.DonationStatusCompleted)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	err := q.Scan(&out).Error
	return out.Total, err
}

// ListCompletedSince returns completed donations for trend bucketing.
func (r *DonationRepository) ListCompletedSince(since time.Time) ([]model.Donation, error) {
	var donations []model.Donation
	err := r.db.Where("status = ? AND created_at >= ?",
		model.DonationStatusCompleted, since).
		Find(&donations).Error
	return donations, err
}
