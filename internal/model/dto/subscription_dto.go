package dto

import (
	"github.com/sahaaya/sahaaya_server/internal/model"
)

// CurrentSubscriptionView is the read model for GET /subscriptions/current.
// When the NGO has no subscription pointer it carries the synthesized FREE
// floor state instead of an error.
type CurrentSubscriptionView struct {
	Tier         int                 `json:"tier"`
	TierName     string              `json:"tier_name"`
	Status       string              `json:"status"`
	ExpiresAt    *string             `json:"expires_at,omitempty"`
	TrialUsed    bool                `json:"trial_used"`
	Subscription *model.Subscription `json:"subscription,omitempty"`
}

// CreateSubscriptionRequest covers the non-payment activations: a trial on a
// paid plan, or an explicit FREE selection. Paid activations go through the
// payment order flow instead.
type CreateSubscriptionRequest struct {
	PlanID       int64  `json:"plan_id" binding:"required"`
	BillingCycle string `json:"billing_cycle" binding:"omitempty,oneof=monthly yearly"`
	IsTrial      bool   `json:"is_trial"`
}

type CancelSubscriptionRequest struct {
	Reason string `json:"reason"`
}
