package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/sahaaya/sahaaya_server/internal/model"
)

type FundingRequestRepository struct {
	db *gorm.DB
}

func NewFundingRequestRepository(db *gorm.DB) *FundingRequestRepository {
	return &FundingRequestRepository{db: db}
}

func (r *FundingRequestRepository) Create(req *model.FundingRequest) error {
	return r.db.Create(req).Error
}

func (r *FundingRequestRepository) GetByID(id int64) (*model.FundingRequest, error) {
	var req model.FundingRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// SumApproved totals approved amounts; these count as an expense against
// revenue. A nil since means all time.
func (r *FundingRequestRepository) SumApproved(since *time.Time) (float64, error) {
	var out struct{ Total float64 }
	q := r.db.Model(&model.FundingRequest{}).
		Select("COALESCE(SUM(approved_amount),0) AS total").
		Where("status = ?", model.FundingStatusApproved)
	if since != nil {
		q = q.Where("approved_at >= ?", *since)
	}
	err := q.Scan(&out).Error
	return out.Total, err
}

// ListApprovedSince returns approved requests for trend bucketing.
func (r *FundingRequestRepository) ListApprovedSince(since time.Time) ([]model.FundingRequest, error) {
	var reqs []model.FundingRequest
	err := r.db.Where("status = ? AND approved_at >= ?",
		model.FundingStatusApproved, since).
		Find(&reqs).Error
	return reqs, err
}
