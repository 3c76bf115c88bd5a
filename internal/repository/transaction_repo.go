package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/sahaaya/sahaaya_server/internal/model"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a copy bound to the given transaction.
func (r *TransactionRepository) WithTx(tx *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

func (r *TransactionRepository) Create(txn *model.Transaction) error {
	return r.db.Create(txn).Error
}

func (r *TransactionRepository) GetByID(id int64) (*model.Transaction, error) {
	var txn model.Transaction
	err := r.db.Where("id = ?", id).First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *TransactionRepository) GetByOrderID(orderID string) (*model.Transaction, error) {
	var txn model.Transaction
	err := r.db.Where("gateway_order_id = ?", orderID).First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *TransactionRepository) Update(txn *model.Transaction) error {
	return r.db.Save(txn).Error
}

func (r *TransactionRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Transaction{}).Where("id = ?", id).Updates(fields).Error
}

func (r *TransactionRepository) ListByUser(userID int64) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&txns).Error
	return txns, err
}

// ListPendingOlderThan returns pending transactions created before the cutoff,
// for the abandoned-checkout sweep.
func (r *TransactionRepository) ListPendingOlderThan(cutoff time.Time) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := r.db.Where("status = ? AND created_at < ?", model.TxnStatusPending, cutoff).
		Find(&txns).Error
	return txns, err
}

// revenueSums carries one SUM scan over completed rows.
type revenueSums struct {
	Subtotal  float64
	GSTAmount float64
	Total     float64
}

// SumCompleted totals completed and refunded rows (revenue is recognized at
// completion; refunds are subtracted separately by SumRefunds). A nil since
// means all time.
func (r *TransactionRepository) SumCompleted(since *time.Time) (subtotal, gst, total float64, err error) {
	var sums revenueSums
	q := r.db.Model(&model.Transaction{}).
		Select("COALESCE(SUM(subtotal),0) AS subtotal, COALESCE(SUM(gst_amount),0) AS gst_amount, COALESCE(SUM(total),0) AS total").
		Where("status IN ?", []string{model.TxnStatusCompleted, model.TxnStatusRefunded})
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	err = q.Scan(&sums).Error
	return sums.Subtotal, sums.GSTAmount, sums.Total, err
}

// SumRefunds totals the refunded amounts across the ledger.
func (r *TransactionRepository) SumRefunds() (float64, error) {
	var out struct{ Total float64 }
	err := r.db.Model(&model.Transaction{}).
		Select("COALESCE(SUM(refund_amount),0) AS total").
		Where("status = ?", model.TxnStatusRefunded).
		Scan(&out).Error
	return out.Total, err
}

// RevenueByTier groups completed revenue by the immutable plan snapshot tier.
func (r *TransactionRepository) RevenueByTier() ([]struct {
	PlanTier int
	Total    float64
	Count    int64
}, error) {
	var rows []struct {
		PlanTier int
		Total    float64
		Count    int64
	}
	err := r.db.Model(&model.Transaction{}).
		Select("plan_tier, COALESCE(SUM(total),0) AS total, COUNT(*) AS count").
		Where("status IN ?", []string{model.TxnStatusCompleted, model.TxnStatusRefunded}).
		Group("plan_tier").
		Order("plan_tier ASC").
		Scan(&rows).Error
	return rows, err
}

// ListCompletedSince returns completed/refunded rows for trend bucketing.
func (r *TransactionRepository) ListCompletedSince(since time.Time) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := r.db.Where("status IN ? AND created_at >= ?",
		[]string{model.TxnStatusCompleted, model.TxnStatusRefunded}, since).
		Find(&txns).Error
	return txns, err
}
