package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shyftcut/api/models"
)

var countableFeatures = []Feature{
	FeatureRoadmaps,
	FeatureChat,
	FeatureQuizzes,
	FeatureNotes,
	FeatureTasks,
	FeatureAISuggestions,
}

func TestFreeRoadmapLimit(t *testing.T) {
	ev := NewEvaluator(models.TierFree, models.UsageSnapshot{RoadmapsCreated: 0})
	assert.True(t, ev.CanUse(FeatureRoadmaps))
	assert.Equal(t, 1, ev.Remaining(FeatureRoadmaps))

	ev = NewEvaluator(models.TierFree, models.UsageSnapshot{RoadmapsCreated: 1})
	assert.False(t, ev.CanUse(FeatureRoadmaps), "free tier allows exactly one roadmap per month")
	assert.Equal(t, 0, ev.Remaining(FeatureRoadmaps))
}

func TestFreeChatBoundary(t *testing.T) {
	ev := NewEvaluator(models.TierFree, models.UsageSnapshot{ChatMessagesThisMonth: 9})
	assert.True(t, ev.CanUse(FeatureChat))
	assert.Equal(t, 1, ev.Remaining(FeatureChat))

	ev = NewEvaluator(models.TierFree, models.UsageSnapshot{ChatMessagesThisMonth: 10})
	assert.False(t, ev.CanUse(FeatureChat), "at the limit means no more, the check is strict")
	assert.Equal(t, 0, ev.Remaining(FeatureChat))
}

func TestPremiumUnlimitedChat(t *testing.T) {
	ev := NewEvaluator(models.TierPremium, models.UsageSnapshot{ChatMessagesThisMonth: 500})
	assert.True(t, ev.CanUse(FeatureChat))
	assert.Equal(t, Unlimited, ev.Remaining(FeatureChat))
	assert.True(t, ev.IsUnlimited(FeatureChat))
}

func TestNotesFreeOnDelete(t *testing.T) {
	ev := NewEvaluator(models.TierFree, models.UsageSnapshot{NotesCount: 20})
	assert.False(t, ev.CanUse(FeatureNotes))

	ev = NewEvaluator(models.TierFree, models.UsageSnapshot{NotesCount: 19})
	assert.True(t, ev.CanUse(FeatureNotes), "deleting a note frees a slot")
}

func TestUnlimitedSentinelConsistency(t *testing.T) {
	for _, feature := range countableFeatures {
		for _, usage := range []int{0, 1, 100, 1 << 20} {
			snapshot := snapshotWith(feature, usage)
			ev := NewEvaluator(models.TierPremium, snapshot)
			assert.True(t, ev.CanUse(feature), "feature %s usage %d", feature, usage)
			assert.Equal(t, Unlimited, ev.Remaining(feature), "feature %s usage %d", feature, usage)
		}
	}
}

func TestStrictBoundaryAllFeatures(t *testing.T) {
	free := ForTier(models.TierFree)
	for _, feature := range countableFeatures {
		limit := free.Limit(feature)
		for usage := 0; usage < limit; usage++ {
			ev := NewEvaluator(models.TierFree, snapshotWith(feature, usage))
			assert.True(t, ev.CanUse(feature), "feature %s usage %d limit %d", feature, usage, limit)
		}
		for _, usage := range []int{limit, limit + 1, limit * 10} {
			ev := NewEvaluator(models.TierFree, snapshotWith(feature, usage))
			assert.False(t, ev.CanUse(feature), "feature %s usage %d limit %d", feature, usage, limit)
		}
	}
}

func TestRemainingNeverNegative(t *testing.T) {
	free := ForTier(models.TierFree)
	for _, feature := range countableFeatures {
		limit := free.Limit(feature)
		for _, usage := range []int{0, limit, limit + 1, limit + 1000} {
			ev := NewEvaluator(models.TierFree, snapshotWith(feature, usage))
			assert.GreaterOrEqual(t, ev.Remaining(feature), 0,
				"feature %s usage %d", feature, usage)
		}
	}
}

func TestBooleanFeatures(t *testing.T) {
	free := NewEvaluator(models.TierFree, models.UsageSnapshot{})
	premium := NewEvaluator(models.TierPremium, models.UsageSnapshot{})

	for _, feature := range []Feature{
		FeatureFullCourseRecommendations,
		FeatureProgressTracking,
		FeatureCVAnalysis,
		FeatureJobRecommendations,
	} {
		assert.False(t, free.CanUse(feature), "feature %s", feature)
		assert.True(t, premium.CanUse(feature), "feature %s", feature)
		assert.False(t, premium.IsUnlimited(feature), "boolean features have no count to be unlimited")
	}
}

func TestAvatarCapIgnoresTier(t *testing.T) {
	for _, tier := range []models.SubscriptionTier{models.TierFree, models.TierPremium, models.TierPro} {
		ev := NewEvaluator(tier, models.UsageSnapshot{AvatarGenerationsThisMonth: 2})
		assert.True(t, ev.CanGenerateAvatar(), "tier %s", tier)
		assert.Equal(t, 1, ev.AvatarGenerationsRemaining())

		ev = NewEvaluator(tier, models.UsageSnapshot{AvatarGenerationsThisMonth: 3})
		assert.False(t, ev.CanGenerateAvatar(), "the avatar cap applies to paying users too, tier %s", tier)
		assert.Equal(t, 0, ev.AvatarGenerationsRemaining())

		ev = NewEvaluator(tier, models.UsageSnapshot{AvatarGenerationsThisMonth: 5})
		assert.Equal(t, 0, ev.AvatarGenerationsRemaining())
	}
}

func snapshotWith(feature Feature, usage int) models.UsageSnapshot {
	s := models.UsageSnapshot{}
	switch feature {
	case FeatureRoadmaps:
		s.RoadmapsCreated = usage
	case FeatureChat:
		s.ChatMessagesThisMonth = usage
	case FeatureQuizzes:
		s.QuizzesTakenThisMonth = usage
	case FeatureNotes:
		s.NotesCount = usage
	case FeatureTasks:
		s.TasksCount = usage
	case FeatureAISuggestions:
		s.AISuggestionsToday = usage
	}
	return s
}
