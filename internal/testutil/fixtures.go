package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/sahaaya/sahaaya_server/internal/model"
	"github.com/sahaaya/sahaaya_server/internal/repository"
)

var fixtureSeq int64

func nextSeq() int64 {
	fixtureSeq++
	return fixtureSeq
}

// SeedPlans writes the default catalog and returns the plans keyed by tier.
func SeedPlans(t *testing.T, db *gorm.DB) map[int]*model.Plan {
	t.Helper()

	planRepo := repository.NewPlanRepository(db)
	if err := planRepo.EnsureDefaults(); err != nil {
		t.Fatalf("Failed to seed plans: %v", err)
	}

	plans, err := planRepo.ListActive()
	if err != nil {
		t.Fatalf("Failed to list seeded plans: %v", err)
	}

	byTier := make(map[int]*model.Plan, len(plans))
	for i := range plans {
		byTier[plans[i].Tier] = &plans[i]
	}
	return byTier
}

// TestUser creates an NGO user on the FREE floor.
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	user := &model.User{
		Name:                 fmt.Sprintf("Test NGO %d", seq),
		Email:                fmt.Sprintf("ngo_%d_%d@example.com", seq, time.Now().UnixNano()),
		PasswordHash:         "$2a$10$abcdefghijklmnopqrstuvwxyz123456",
		Role:                 model.RoleNGO,
		SubscriptionTier:     model.TierFree,
		SubscriptionTierName: "FREE",
		SubscriptionStatus:   model.SubStatusActive,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = email
	}
}

func WithTrialUsed() func(*model.User) {
	return func(u *model.User) {
		u.TrialUsed = true
	}
}

// TestSubscription creates a subscription row and points the user at it.
func TestSubscription(t *testing.T, db *gorm.DB, user *model.User, plan *model.Plan, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	now := time.Now()
	end := now.AddDate(0, 1, 0)
	sub := &model.Subscription{
		UserID:          user.ID,
		PlanID:          plan.ID,
		Tier:            plan.Tier,
		Status:          model.SubStatusActive,
		BillingCycle:    model.CycleMonthly,
		StartDate:       now,
		EndDate:         end,
		NextBillingDate: &end,
		AutoRenew:       true,
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	updates := map[string]interface{}{
		"subscription_id":         sub.ID,
		"subscription_tier":       sub.Tier,
		"subscription_tier_name":  model.TierName(sub.Tier),
		"subscription_status":     sub.Status,
		"subscription_expires_at": sub.EndDate,
	}
	if err := db.Model(user).Updates(updates).Error; err != nil {
		t.Fatalf("Failed to link test subscription: %v", err)
	}
	user.SubscriptionID = &sub.ID
	user.SubscriptionTier = sub.Tier
	user.SubscriptionTierName = model.TierName(sub.Tier)
	user.SubscriptionStatus = sub.Status
	user.SubscriptionExpiresAt = &sub.EndDate

	return sub
}

func WithSubStatus(status string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Status = status
	}
}

func WithBillingCycle(cycle string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.BillingCycle = cycle
	}
}

func WithEndDate(end time.Time) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.EndDate = end
	}
}

// TestTransaction creates a ledger entry with the plan snapshot filled in.
func TestTransaction(t *testing.T, db *gorm.DB, user *model.User, plan *model.Plan, opts ...func(*model.Transaction)) *model.Transaction {
	t.Helper()

	subtotal := plan.MonthlyPrice
	gst := subtotal * 0.18
	txn := &model.Transaction{
		UserID:         user.ID,
		Type:           model.TxnTypeSubscription,
		Amount:         subtotal,
		Currency:       "INR",
		GatewayOrderID: fmt.Sprintf("order_fix_%d_%d", nextSeq(), time.Now().UnixNano()),
		Status:         model.TxnStatusPending,
		PlanTier:       plan.Tier,
		PlanName:       plan.Name,
		BillingCycle:   model.CycleMonthly,
		Subtotal:       subtotal,
		GSTAmount:      gst,
		Total:          subtotal + gst,
		InvoiceNumber:  fmt.Sprintf("INV-TEST-%d", nextSeq()),
	}

	for _, opt := range opts {
		opt(txn)
	}

	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return txn
}

func WithTxnStatus(status string) func(*model.Transaction) {
	return func(txn *model.Transaction) {
		txn.Status = status
	}
}

func WithTxnTotal(subtotal, gst, total float64) func(*model.Transaction) {
	return func(txn *model.Transaction) {
		txn.Amount = subtotal
		txn.Subtotal = subtotal
		txn.GSTAmount = gst
		txn.Total = total
	}
}

// TestDonation writes a completed donation.
func TestDonation(t *testing.T, db *gorm.DB, donorID, ngoID int64, amount float64) *model.Donation {
	t.Helper()

	donation := &model.Donation{
		DonorID:  donorID,
		NGOID:    ngoID,
		Amount:   amount,
		Currency: "INR",
		Status:   model.DonationStatusCompleted,
	}
	if err := db.Create(donation).Error; err != nil {
		t.Fatalf("Failed to create test donation: %v", err)
	}
	return donation
}

// TestFundingRequest writes an approved funding request.
func TestFundingRequest(t *testing.T, db *gorm.DB, ngoID int64, amount float64) *model.FundingRequest {
	t.Helper()

	now := time.Now()
	req := &model.FundingRequest{
		NGOID:          ngoID,
		Title:          fmt.Sprintf("Funding request %d", nextSeq()),
		Amount:         amount,
		Status:         model.FundingStatusApproved,
		ApprovedAmount: &amount,
		ApprovedAt:     &now,
	}
	if err := db.Create(req).Error; err != nil {
		t.Fatalf("Failed to create test funding request: %v", err)
	}
	return req
}
