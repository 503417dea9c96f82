package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveTierFailsClosed(t *testing.T) {
	tests := []struct {
		name   string
		record *SubscriptionRecord
		want   SubscriptionTier
	}{
		{"no record", nil, TierFree},
		{"active premium", &SubscriptionRecord{Tier: TierPremium, Status: StatusActive}, TierPremium},
		{"active pro", &SubscriptionRecord{Tier: TierPro, Status: StatusActive}, TierPro},
		{"canceled premium", &SubscriptionRecord{Tier: TierPremium, Status: StatusCanceled}, TierFree},
		{"past due premium", &SubscriptionRecord{Tier: TierPremium, Status: StatusPastDue}, TierFree},
		{"unpaid pro", &SubscriptionRecord{Tier: TierPro, Status: StatusUnpaid}, TierFree},
		{"incomplete", &SubscriptionRecord{Tier: TierPremium, Status: StatusIncomplete}, TierFree},
		{"active but bogus tier", &SubscriptionRecord{Tier: SubscriptionTier("gold"), Status: StatusActive}, TierFree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveTier(tt.record))
		})
	}
}
