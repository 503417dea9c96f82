package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shyftcut/api/models"
)

func TestTableTotal(t *testing.T) {
	for _, tier := range []models.SubscriptionTier{models.TierFree, models.TierPremium, models.TierPro} {
		_, ok := tierFeatures[tier]
		assert.True(t, ok, "tier %s must have an entry", tier)
	}
}

func TestUnknownTierFallsBackToFree(t *testing.T) {
	assert.Equal(t, ForTier(models.TierFree), ForTier(models.SubscriptionTier("enterprise")))
	assert.Equal(t, ForTier(models.TierFree), ForTier(models.SubscriptionTier("")))
}

func TestPaidTiersNeverMoreRestrictiveThanFree(t *testing.T) {
	free := ForTier(models.TierFree)
	for _, tier := range []models.SubscriptionTier{models.TierPremium, models.TierPro} {
		paid := ForTier(tier)
		for _, feature := range countableFeatures {
			if paid.Limit(feature) == Unlimited {
				continue
			}
			assert.GreaterOrEqual(t, paid.Limit(feature), free.Limit(feature),
				"tier %s feature %s", tier, feature)
		}
	}
}

func TestPremiumAndProIdentical(t *testing.T) {
	assert.Equal(t, ForTier(models.TierPremium), ForTier(models.TierPro),
		"the premium/pro distinction is reserved, entitlements are the same today")
}

func TestEveryCountableFeatureHasACounter(t *testing.T) {
	for _, feature := range countableFeatures {
		counter, ok := FeatureCounter[feature]
		assert.True(t, ok, "feature %s", feature)
		_, ok = models.CounterCadence[counter]
		assert.True(t, ok, "counter %s must have a cadence", counter)
	}
}
