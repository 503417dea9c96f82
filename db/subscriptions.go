package db

import (
	"database/sql"
	"fmt"
	"time"

	"shyftcut/api/models"
)

// GetSubscriptionByUserID returns the user's subscription row, or nil when
// the user has never checked out. Callers derive the effective tier with
// models.EffectiveTier; a nil record means free.
func GetSubscriptionByUserID(userID string) (*models.SubscriptionRecord, error) {
	query := `
		SELECT id, user_id, tier, status, stripe_customer_id, stripe_subscription_id,
		       current_period_start, current_period_end, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
	`
	record := &models.SubscriptionRecord{}
	err := DB.QueryRow(query, userID).Scan(
		&record.ID,
		&record.UserID,
		&record.Tier,
		&record.Status,
		&record.StripeCustomerID,
		&record.StripeSubscriptionID,
		&record.CurrentPeriodStart,
		&record.CurrentPeriodEnd,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting subscription for user %s: %v", userID, err)
	}
	return record, nil
}

// UpsertSubscription creates or replaces the user's subscription row.
// Called from the Stripe webhook handler on checkout completion and plan
// changes. Rows are never deleted; cancellation is a status transition.
func UpsertSubscription(userID string, tier models.SubscriptionTier, status models.SubscriptionStatus,
	stripeCustomerID, stripeSubscriptionID string, periodStart, periodEnd time.Time) error {
	query := `
		INSERT INTO subscriptions (user_id, tier, status, stripe_customer_id, stripe_subscription_id,
		                           current_period_start, current_period_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (user_id) DO UPDATE SET
			tier = EXCLUDED.tier,
			status = EXCLUDED.status,
			stripe_customer_id = EXCLUDED.stripe_customer_id,
			stripe_subscription_id = EXCLUDED.stripe_subscription_id,
			current_period_start = EXCLUDED.current_period_start,
			current_period_end = EXCLUDED.current_period_end,
			updated_at = now()
	`
	_, err := DB.Exec(query, userID, tier, status, stripeCustomerID, stripeSubscriptionID, periodStart, periodEnd)
	if err != nil {
		return fmt.Errorf("error upserting subscription for user %s: %v", userID, err)
	}
	return nil
}

// UpdateSubscriptionStatusByStripeID transitions the status of the row
// matching a Stripe subscription ID. Used for renewal, payment failure and
// cancellation events, which identify the customer by Stripe IDs only.
func UpdateSubscriptionStatusByStripeID(stripeSubscriptionID string, status models.SubscriptionStatus,
	periodStart, periodEnd *time.Time) error {

	var err error
	if periodStart == nil || periodEnd == nil {
		query := `
			UPDATE subscriptions
			SET status = $1, updated_at = now()
			WHERE stripe_subscription_id = $2
		`
		_, err = DB.Exec(query, status, stripeSubscriptionID)
	} else {
		query := `
			UPDATE subscriptions
			SET status = $1, current_period_start = $2, current_period_end = $3, updated_at = now()
			WHERE stripe_subscription_id = $4
		`
		_, err = DB.Exec(query, status, *periodStart, *periodEnd, stripeSubscriptionID)
	}
	if err != nil {
		return fmt.Errorf("error updating subscription status for %s: %v", stripeSubscriptionID, err)
	}
	return nil
}

// OverrideSubscription force-sets a user's tier and status, bypassing
// Stripe. Reached only through the internal API-key-guarded route.
func OverrideSubscription(userID string, tier models.SubscriptionTier, status models.SubscriptionStatus) error {
	query := `
		INSERT INTO subscriptions (user_id, tier, status, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (user_id) DO UPDATE SET
			tier = EXCLUDED.tier,
			status = EXCLUDED.status,
			updated_at = now()
	`
	_, err := DB.Exec(query, userID, tier, status)
	if err != nil {
		return fmt.Errorf("error overriding subscription for user %s: %v", userID, err)
	}
	return nil
}
