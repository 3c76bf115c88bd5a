package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahaaya/sahaaya_server/config"
	"github.com/sahaaya/sahaaya_server/internal/model"
	"github.com/sahaaya/sahaaya_server/internal/pkg/queue"
	"github.com/sahaaya/sahaaya_server/internal/repository"
)

var (
	ErrReasonTooShort     = errors.New("reason must be at least 10 characters")
	ErrSameTier           = errors.New("subscription is already on this tier")
	ErrTierOutOfRange     = errors.New("tier out of range")
	ErrNotRefundable      = errors.New("only completed transactions can be refunded")
	ErrRefundExceedsTotal = errors.New("refund amount exceeds transaction total")
	ErrInvalidRefund      = errors.New("refund amount must be positive")
)

// Admin actions require an audit reason of at least this length. A guardrail
// against accountability-free overrides.
const minReasonLen = 10

// AdminService holds the privileged overrides. Every operation validates
// before mutating, keeps the subscription row and the user summary in one
// transaction, and fires a best-effort notification after commit.
type AdminService struct {
	db         *gorm.DB
	userRepo   *repository.UserRepository
	subRepo    *repository.SubscriptionRepository
	planRepo   *repository.PlanRepository
	txnRepo    *repository.TransactionRepository
	subService *SubscriptionService
	notifier   *Notifier
	cfg        *config.Config
}

func NewAdminService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	subRepo *repository.SubscriptionRepository,
	planRepo *repository.PlanRepository,
	txnRepo *repository.TransactionRepository,
	subService *SubscriptionService,
	notifier *Notifier,
	cfg *config.Config,
) *AdminService {
	return &AdminService{
		db:         db,
		userRepo:   userRepo,
		subRepo:    subRepo,
		planRepo:   planRepo,
		txnRepo:    txnRepo,
		subService: subService,
		notifier:   notifier,
		cfg:        cfg,
	}
}

func checkReason(reason string) error {
	if len(strings.TrimSpace(reason)) < minReasonLen {
		return ErrReasonTooShort
	}
	return nil
}

// Cancel force-cancels a subscription. FREE is the floor state and is never
// cancellable. End date stays put: access continues until period end.
func (s *AdminService) Cancel(adminID, subscriptionID int64, reason string) (*model.Subscription, error) {
	if err := checkReason(reason); err != nil {
		return nil, err
	}

	sub, err := s.subRepo.GetByID(subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	if sub.Tier == model.TierFree {
		return nil, ErrFreeNotCancellable
	}
	if sub.Status == model.SubStatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	user, err := s.userRepo.GetByID(sub.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.subService.cancelTx(sub, sub.UserID, reason); err != nil {
		return nil, err
	}

	s.notifier.Notify(&queue.NotificationJob{
		Kind:      queue.KindCancellation,
		Recipient: user.Email,
		Name:      user.Name,
		Payload: map[string]string{
			"tier_name":    model.TierName(sub.Tier),
			"reason":       reason,
			"access_until": sub.EndDate.Format("02 Jan 2006"),
		},
	})

	return sub, nil
}

// ChangeTier force-moves a subscription to another tier, appending an [ADMIN]
// entry to the tier history and syncing the user summary in the same
// transaction. Dates and status are left alone: this changes entitlements,
// not the billing period.
func (s *AdminService) ChangeTier(adminID, subscriptionID int64, newTier int, reason string) (*model.Subscription, error) {
	if err := checkReason(reason); err != nil {
		return nil, err
	}
	if !model.ValidTier(newTier) {
		return nil, ErrTierOutOfRange
	}

	sub, err := s.subRepo.GetByID(subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	if sub.Tier == newTier {
		return nil, ErrSameTier
	}

	plan, err := s.planRepo.GetByTier(newTier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(sub.UserID)
	if err != nil {
		return nil, err
	}

	oldTier := sub.Tier
	now := time.Now()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		subRepo := s.subRepo.WithTx(tx)

		sub.PlanID = plan.ID
		sub.Tier = plan.Tier
		if txErr := subRepo.Update(sub); txErr != nil {
			return txErr
		}

		change := &model.TierChange{
			SubscriptionID: sub.ID,
			UserID:         sub.UserID,
			FromTier:       oldTier,
			ToTier:         newTier,
			ChangedBy:      fmt.Sprintf("[ADMIN] %d", adminID),
			Reason:         reason,
			CreatedAt:      now,
		}
		if txErr := subRepo.AppendTierChange(change); txErr != nil {
			return txErr
		}

		return s.userRepo.WithTx(tx).UpdateSubscriptionSummary(sub.UserID, map[string]interface{}{
			"subscription_tier":      plan.Tier,
			"subscription_tier_name": plan.Name,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(&queue.NotificationJob{
		Kind:      queue.KindTierChange,
		Recipient: user.Email,
		Name:      user.Name,
		Payload: map[string]string{
			"old_tier": model.TierName(oldTier),
			"new_tier": model.TierName(newTier),
			"reason":   reason,
		},
	})

	return sub, nil
}

// Refund marks a completed transaction refunded. The amount defaults to the
// invoice total and may not exceed it. The subscription is deliberately left
// untouched: refunding money and revoking access are independent admin
// decisions.
func (s *AdminService) Refund(adminID, transactionID int64, reason string, amount *float64) (*model.Transaction, error) {
	if err := checkReason(reason); err != nil {
		return nil, err
	}

	txn, err := s.txnRepo.GetByID(transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if !model.CanTransition(txn.Status, model.TxnStatusRefunded) {
		return nil, ErrNotRefundable
	}

	refundAmount := txn.Total
	if amount != nil {
		refundAmount = *amount
	}
	if refundAmount <= 0 {
		return nil, ErrInvalidRefund
	}
	if refundAmount > txn.Total {
		return nil, ErrRefundExceedsTotal
	}

	user, err := s.userRepo.GetByID(txn.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	txn.Status = model.TxnStatusRefunded
	txn.RefundAmount = &refundAmount
	txn.RefundReason = reason
	txn.RefundedAt = &now
	txn.RefundedBy = &adminID
	txn.GatewayRefundID = "rfnd_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:14]
	if err := s.txnRepo.Update(txn); err != nil {
		return nil, err
	}

	s.notifier.Notify(&queue.NotificationJob{
		Kind:      queue.KindRefund,
		Recipient: user.Email,
		Name:      user.Name,
		Payload: map[string]string{
			"invoice_number": txn.InvoiceNumber,
			"amount":         fmt.Sprintf("%.2f", refundAmount),
			"reason":         reason,
		},
	})

	return txn, nil
}
