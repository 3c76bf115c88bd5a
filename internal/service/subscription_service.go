package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sahaaya/sahaaya_server/config"
	"github.com/sahaaya/sahaaya_server/internal/model"
	"github.com/sahaaya/sahaaya_server/internal/model/dto"
	"github.com/sahaaya/sahaaya_server/internal/pkg/queue"
	"github.com/sahaaya/sahaaya_server/internal/repository"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrTrialAlreadyUsed     = errors.New("trial already used")
	ErrTrialNotAvailable    = errors.New("trial not available for this plan")
	ErrPaymentRequired      = errors.New("paid plans must be activated through checkout")
	ErrFreeNotCancellable   = errors.New("free tier cannot be cancelled")
	ErrAlreadyCancelled     = errors.New("subscription already cancelled")
)

// Trial lengths: the cheapest paid tier gets the long trial to drive
// entry-level conversion, everything above gets a week.
const (
	entryTrialDays = 14
	upperTrialDays = 7
)

type SubscriptionService struct {
	db       *gorm.DB
	userRepo *repository.UserRepository
	subRepo  *repository.SubscriptionRepository
	planRepo *repository.PlanRepository
	notifier *Notifier
	cfg      *config.Config
}

func NewSubscriptionService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	subRepo *repository.SubscriptionRepository,
	planRepo *repository.PlanRepository,
	notifier *Notifier,
	cfg *config.Config,
) *SubscriptionService {
	return &SubscriptionService{
		db:       db,
		userRepo: userRepo,
		subRepo:  subRepo,
		planRepo: planRepo,
		notifier: notifier,
		cfg:      cfg,
	}
}

// GetCurrent builds the read model for one NGO. A user without a subscription
// pointer gets the synthesized FREE floor view, not an error.
func (s *SubscriptionService) GetCurrent(userID int64) (*dto.CurrentSubscriptionView, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.SubscriptionID == nil {
		return &dto.CurrentSubscriptionView{
			Tier:      model.TierFree,
			TierName:  model.TierName(model.TierFree),
			Status:    model.SubStatusActive,
			TrialUsed: user.TrialUsed,
		}, nil
	}

	sub, err := s.subRepo.GetByID(*user.SubscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	expires := sub.EndDate.Format(time.RFC3339)
	return &dto.CurrentSubscriptionView{
		Tier:         sub.Tier,
		TierName:     model.TierName(sub.Tier),
		Status:       sub.Status,
		ExpiresAt:    &expires,
		TrialUsed:    user.TrialUsed,
		Subscription: sub,
	}, nil
}

// Create handles the non-payment activations: FREE selection or a trial on a
// paid plan. Paid activations must go through the billing orchestrator and are
// rejected here.
func (s *SubscriptionService) Create(userID int64, req *dto.CreateSubscriptionRequest) (*model.Subscription, error) {
	plan, err := s.planRepo.GetByID(req.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	if plan.Tier == model.TierFree {
		return s.DowngradeToFree(userID, "user", "Downgraded to FREE tier")
	}

	if req.IsTrial {
		cycle := req.BillingCycle
		if cycle == "" {
			cycle = model.CycleMonthly
		}
		return s.StartTrial(userID, plan, cycle)
	}

	return nil, ErrPaymentRequired
}

// StartTrial activates a time-boxed trial. One trial per NGO ever: the flag is
// set the moment the trial starts and never cleared, regardless of outcome.
// No ledger entry is written (trials are free).
func (s *SubscriptionService) StartTrial(userID int64, plan *model.Plan, cycle string) (*model.Subscription, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.TrialUsed {
		return nil, ErrTrialAlreadyUsed
	}
	if plan.Tier == model.TierFree {
		return nil, ErrTrialNotAvailable
	}

	var sub *model.Subscription
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		sub, txErr = s.CreateOrReuseTx(tx, user, plan, cycle, true, time.Now())
		if txErr != nil {
			return txErr
		}
		return s.userRepo.WithTx(tx).MarkTrialUsed(userID)
	})
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// CreateOrReuseTx applies the one-slot rule: an NGO that already holds a
// subscription row gets that same row mutated (plan pointer swapped, dates
// recomputed), otherwise a fresh row is created. The user's denormalized
// summary is rewritten in the same transaction. Caller supplies the tx.
func (s *SubscriptionService) CreateOrReuseTx(tx *gorm.DB, user *model.User, plan *model.Plan, cycle string, isTrial bool, now time.Time) (*model.Subscription, error) {
	subRepo := s.subRepo.WithTx(tx)
	userRepo := s.userRepo.WithTx(tx)

	start := now
	end := periodEnd(start, cycle)
	status := model.SubStatusActive
	var trialEnds *time.Time
	if isTrial {
		status = model.SubStatusTrial
		t := start.AddDate(0, 0, trialDays(plan.Tier))
		trialEnds = &t
		end = t
	}

	var sub *model.Subscription
	if user.SubscriptionID != nil {
		existing, err := subRepo.GetByID(*user.SubscriptionID)
		if err != nil {
			return nil, err
		}

		if existing.Tier != plan.Tier {
			change := &model.TierChange{
				SubscriptionID: existing.ID,
				UserID:         user.ID,
				FromTier:       existing.Tier,
				ToTier:         plan.Tier,
				ChangedBy:      "user",
				Reason:         "plan change",
				CreatedAt:      now,
			}
			if err := subRepo.AppendTierChange(change); err != nil {
				return nil, err
			}
		}

		existing.PlanID = plan.ID
		existing.Tier = plan.Tier
		existing.Status = status
		existing.BillingCycle = cycle
		existing.StartDate = start
		existing.EndDate = end
		existing.AutoRenew = !isTrial
		existing.IsTrial = isTrial
		existing.TrialEndsAt = trialEnds
		existing.CancelledAt = nil
		existing.CancelReason = ""
		if isTrial {
			existing.NextBillingDate = nil
		} else {
			existing.NextBillingDate = &end
		}
		if err := subRepo.Update(existing); err != nil {
			return nil, err
		}
		sub = existing
	} else {
		sub = &model.Subscription{
			UserID:       user.ID,
			PlanID:       plan.ID,
			Tier:         plan.Tier,
			Status:       status,
			BillingCycle: cycle,
			StartDate:    start,
			EndDate:      end,
			AutoRenew:    !isTrial,
			IsTrial:      isTrial,
			TrialEndsAt:  trialEnds,
		}
		if !isTrial {
			sub.NextBillingDate = &end
		}
		if err := subRepo.Create(sub); err != nil {
			return nil, err
		}
	}

	summary := map[string]interface{}{
		"subscription_id":         sub.ID,
		"subscription_tier":       plan.Tier,
		"subscription_tier_name":  model.TierName(plan.Tier),
		"subscription_status":     status,
		"subscription_expires_at": end,
	}
	if err := userRepo.UpdateSubscriptionSummary(user.ID, summary); err != nil {
		return nil, err
	}

	return sub, nil
}

// SelfCancel cancels the NGO's own paid subscription. Access runs until the
// already-scheduled end date; only renewal stops.
func (s *SubscriptionService) SelfCancel(userID int64, reason string) (*model.Subscription, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.SubscriptionID == nil {
		return nil, ErrFreeNotCancellable
	}

	sub, err := s.subRepo.GetByID(*user.SubscriptionID)
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

	if reason == "" {
		reason = "Cancelled by user"
	}

	if err := s.cancelTx(sub, user.ID, reason); err != nil {
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

// cancelTx flips one subscription to cancelled and syncs the user summary in
// a single transaction. End date is left untouched: cancellation is effective
// at period end by construction.
func (s *SubscriptionService) cancelTx(sub *model.Subscription, userID int64, reason string) error {
	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		sub.Status = model.SubStatusCancelled
		sub.AutoRenew = false
		sub.CancelledAt = &now
		sub.CancelReason = reason
		sub.NextBillingDate = nil
		if err := s.subRepo.WithTx(tx).Update(sub); err != nil {
			return err
		}

		return s.userRepo.WithTx(tx).UpdateSubscriptionSummary(userID, map[string]interface{}{
			"subscription_status": model.SubStatusCancelled,
		})
	})
}

// DowngradeToFree cancels any existing paid subscription and creates a fresh
// FREE-tier row. This is the one path that creates a new row instead of
// reusing the slot: the cancelled paid row stays behind as history.
func (s *SubscriptionService) DowngradeToFree(userID int64, changedBy, reason string) (*model.Subscription, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	freePlan, err := s.planRepo.GetByTier(model.TierFree)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var freeSub *model.Subscription
	var oldTier int

	err = s.db.Transaction(func(tx *gorm.DB) error {
		subRepo := s.subRepo.WithTx(tx)
		userRepo := s.userRepo.WithTx(tx)

		if user.SubscriptionID != nil {
			existing, txErr := subRepo.GetByID(*user.SubscriptionID)
			if txErr != nil {
				return txErr
			}
			oldTier = existing.Tier
			if existing.Status != model.SubStatusCancelled && existing.Tier != model.TierFree {
				existing.Status = model.SubStatusCancelled
				existing.AutoRenew = false
				existing.CancelledAt = &now
				existing.CancelReason = reason
				existing.NextBillingDate = nil
				if txErr := subRepo.Update(existing); txErr != nil {
					return txErr
				}
			}
		}

		// FREE is the floor: no expiry in practice, the row carries a far
		// future end date to satisfy the schema.
		freeSub = &model.Subscription{
			UserID:       userID,
			PlanID:       freePlan.ID,
			Tier:         model.TierFree,
			Status:       model.SubStatusActive,
			BillingCycle: model.CycleMonthly,
			StartDate:    now,
			EndDate:      now.AddDate(100, 0, 0),
			AutoRenew:    false,
		}
		if txErr := subRepo.Create(freeSub); txErr != nil {
			return txErr
		}

		if oldTier != 0 && oldTier != model.TierFree {
			change := &model.TierChange{
				SubscriptionID: freeSub.ID,
				UserID:         userID,
				FromTier:       oldTier,
				ToTier:         model.TierFree,
				ChangedBy:      changedBy,
				Reason:         reason,
				CreatedAt:      now,
			}
			if txErr := subRepo.AppendTierChange(change); txErr != nil {
				return txErr
			}
		}

		return userRepo.UpdateSubscriptionSummary(userID, map[string]interface{}{
			"subscription_id":         freeSub.ID,
			"subscription_tier":       model.TierFree,
			"subscription_tier_name":  model.TierName(model.TierFree),
			"subscription_status":     model.SubStatusActive,
			"subscription_expires_at": nil,
		})
	})
	if err != nil {
		return nil, err
	}

	if oldTier != 0 && oldTier != model.TierFree {
		s.notifier.Notify(&queue.NotificationJob{
			Kind:      queue.KindTierChange,
			Recipient: user.Email,
			Name:      user.Name,
			Payload: map[string]string{
				"old_tier": model.TierName(oldTier),
				"new_tier": model.TierName(model.TierFree),
				"reason":   reason,
			},
		})
	}

	return freeSub, nil
}

// ExpireLapsed transitions subscriptions past their end date (trial, active or
// cancelled-with-remaining-access) to expired and resets the owner's summary to
// the FREE floor. Called by the background sweep; returns the number of rows
// expired.
func (s *SubscriptionService) ExpireLapsed(now time.Time) (int, error) {
	lapsed, err := s.subRepo.ListLapsed(now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range lapsed {
		sub := &lapsed[i]
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if txErr := s.subRepo.WithTx(tx).UpdateFields(sub.ID, map[string]interface{}{
				"status": model.SubStatusExpired,
			}); txErr != nil {
				return txErr
			}
			return s.userRepo.WithTx(tx).UpdateSubscriptionSummary(sub.UserID, map[string]interface{}{
				"subscription_id":         nil,
				"subscription_tier":       model.TierFree,
				"subscription_tier_name":  model.TierName(model.TierFree),
				"subscription_status":     model.SubStatusActive,
				"subscription_expires_at": nil,
			})
		})
		if err != nil {
			return expired, err
		}
		expired++
	}

	return expired, nil
}

// periodEnd computes the paid billing period end.
func periodEnd(start time.Time, cycle string) time.Time {
	if cycle == model.CycleYearly {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}

// trialDays returns the trial length for a target tier.
func trialDays(tier int) int {
	if tier == model.TierBronze {
		return entryTrialDays
	}
	return upperTrialDays
}
