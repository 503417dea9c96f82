package models

import "time"

// SubscriptionTier is the plan level a user is entitled to.
type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierPremium SubscriptionTier = "premium"
	TierPro     SubscriptionTier = "pro"
)

// SubscriptionStatus mirrors the Stripe subscription lifecycle states we
// care about. Only StatusActive grants paid entitlements.
type SubscriptionStatus string

const (
	StatusActive     SubscriptionStatus = "active"
	StatusPastDue    SubscriptionStatus = "past_due"
	StatusCanceled   SubscriptionStatus = "canceled"
	StatusUnpaid     SubscriptionStatus = "unpaid"
	StatusIncomplete SubscriptionStatus = "incomplete"
)

// SubscriptionRecord is the billing-provider-linked subscription row.
// It is written only by the Stripe webhook handler or an admin override;
// everything else reads it.
type SubscriptionRecord struct {
	ID                   string             `json:"id"`
	UserID               string             `json:"user_id"`
	Tier                 SubscriptionTier   `json:"tier"`
	Status               SubscriptionStatus `json:"status"`
	StripeCustomerID     *string            `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string            `json:"stripe_subscription_id,omitempty"`
	CurrentPeriodStart   *time.Time         `json:"current_period_start,omitempty"`
	CurrentPeriodEnd     *time.Time         `json:"current_period_end,omitempty"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

// EffectiveTier derives the tier used for entitlement checks. This is the
// single place that rule lives: a missing record or any non-active status
// resolves to free.
func EffectiveTier(record *SubscriptionRecord) SubscriptionTier {
	if record == nil || record.Status != StatusActive {
		return TierFree
	}
	switch record.Tier {
	case TierPremium, TierPro:
		return record.Tier
	default:
		return TierFree
	}
}
