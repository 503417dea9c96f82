package entitlements

import "shyftcut/api/models"

// Evaluator answers "can this user do X right now" and "how many remain".
// It is built once per request from a freshly resolved tier and usage
// snapshot and does no I/O, so limit arithmetic is testable without a
// database. Checking never mutates counters; the store increments only
// after the underlying action succeeds.
type Evaluator struct {
	tier     models.SubscriptionTier
	usage    models.UsageSnapshot
	features FeatureEntitlements
}

// NewEvaluator builds an evaluator for a resolved tier and snapshot.
func NewEvaluator(tier models.SubscriptionTier, usage models.UsageSnapshot) Evaluator {
	return Evaluator{
		tier:     tier,
		usage:    usage,
		features: ForTier(tier),
	}
}

// Tier returns the tier the evaluator was built from.
func (ev Evaluator) Tier() models.SubscriptionTier {
	return ev.tier
}

// Usage returns the snapshot the evaluator was built from.
func (ev Evaluator) Usage() models.UsageSnapshot {
	return ev.usage
}

// CanUse reports whether one more use of a feature is allowed. For boolean
// features this is the entitlement flag. For countable features the check
// is strict: a user sitting exactly at the limit is not allowed one more.
func (ev Evaluator) CanUse(feature Feature) bool {
	counter, countable := FeatureCounter[feature]
	if !countable {
		return ev.features.Flag(feature)
	}
	limit := ev.features.Limit(feature)
	if limit == Unlimited {
		return true
	}
	return ev.usage.Get(counter) < limit
}

// Remaining returns how many uses are left, or Unlimited for uncapped
// features. Never negative for capped features, even if usage has drifted
// past the limit.
func (ev Evaluator) Remaining(feature Feature) int {
	counter, countable := FeatureCounter[feature]
	if !countable {
		return 0
	}
	limit := ev.features.Limit(feature)
	if limit == Unlimited {
		return Unlimited
	}
	left := limit - ev.usage.Get(counter)
	if left < 0 {
		return 0
	}
	return left
}

// IsUnlimited reports whether a countable feature has no cap at this tier,
// used to decide whether remaining counts should be displayed at all.
func (ev Evaluator) IsUnlimited(feature Feature) bool {
	if _, countable := FeatureCounter[feature]; !countable {
		return false
	}
	return ev.features.Limit(feature) == Unlimited
}

// CanGenerateAvatar enforces the flat cross-tier avatar cap.
func (ev Evaluator) CanGenerateAvatar() bool {
	return ev.usage.AvatarGenerationsThisMonth < AvatarGenerationsPerMonth
}

// AvatarGenerationsRemaining returns the avatar uses left this month.
func (ev Evaluator) AvatarGenerationsRemaining() int {
	left := AvatarGenerationsPerMonth - ev.usage.AvatarGenerationsThisMonth
	if left < 0 {
		return 0
	}
	return left
}
