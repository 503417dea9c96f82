// Package entitlements holds the tier feature table and the pure evaluator
// that decides whether a user may perform a gated action right now.
package entitlements

import "shyftcut/api/models"

// Unlimited is the sentinel meaning "no numeric cap". It is served to
// clients verbatim in remaining-count fields.
const Unlimited = -1

// AvatarGenerationsPerMonth caps avatar generation for every tier,
// including paid ones. It deliberately bypasses the tier table because the
// image API is metered per call upstream.
const AvatarGenerationsPerMonth = 3

// Feature identifies one gated capability.
type Feature string

const (
	FeatureRoadmaps      Feature = "roadmaps"
	FeatureChat          Feature = "chat"
	FeatureQuizzes       Feature = "quizzes"
	FeatureNotes         Feature = "notes"
	FeatureTasks         Feature = "tasks"
	FeatureAISuggestions Feature = "ai_suggestions"

	FeatureFullCourseRecommendations Feature = "full_course_recommendations"
	FeatureProgressTracking          Feature = "progress_tracking"
	FeatureCVAnalysis                Feature = "cv_analysis"
	FeatureJobRecommendations        Feature = "job_recommendations"
)

// FeatureCounter maps each countable feature to the usage counter it is
// enforced against.
var FeatureCounter = map[Feature]models.Counter{
	FeatureRoadmaps:      models.CounterRoadmapsCreated,
	FeatureChat:          models.CounterChatMessages,
	FeatureQuizzes:       models.CounterQuizzesTaken,
	FeatureNotes:         models.CounterNotes,
	FeatureTasks:         models.CounterTasks,
	FeatureAISuggestions: models.CounterAISuggestions,
}

// FeatureEntitlements is what a tier grants. Counts use the Unlimited
// sentinel; booleans are flags.
type FeatureEntitlements struct {
	RoadmapsPerMonth      int
	ChatQuestionsPerMonth int
	QuizzesPerMonth       int
	NotesLimit            int
	TasksLimit            int
	AISuggestionsPerDay   int

	FullCourseRecommendations bool
	ProgressTracking          bool
	CVAnalysis                bool
	JobRecommendations        bool
}

// tierFeatures is the single source of truth for per-tier limits. Pricing
// changes land here and nowhere else. Premium and pro are currently
// identical; the distinction is reserved for future plans.
var tierFeatures = map[models.SubscriptionTier]FeatureEntitlements{
	models.TierFree: {
		RoadmapsPerMonth:      1,
		ChatQuestionsPerMonth: 10,
		QuizzesPerMonth:       3,
		NotesLimit:            20,
		TasksLimit:            30,
		AISuggestionsPerDay:   5,
	},
	models.TierPremium: {
		RoadmapsPerMonth:          Unlimited,
		ChatQuestionsPerMonth:     Unlimited,
		QuizzesPerMonth:           Unlimited,
		NotesLimit:                Unlimited,
		TasksLimit:                Unlimited,
		AISuggestionsPerDay:       Unlimited,
		FullCourseRecommendations: true,
		ProgressTracking:          true,
		CVAnalysis:                true,
		JobRecommendations:        true,
	},
	models.TierPro: {
		RoadmapsPerMonth:          Unlimited,
		ChatQuestionsPerMonth:     Unlimited,
		QuizzesPerMonth:           Unlimited,
		NotesLimit:                Unlimited,
		TasksLimit:                Unlimited,
		AISuggestionsPerDay:       Unlimited,
		FullCourseRecommendations: true,
		ProgressTracking:          true,
		CVAnalysis:                true,
		JobRecommendations:        true,
	},
}

// ForTier returns the entitlements of a tier, defaulting unknown tiers to
// free so a bad tier value can never widen access.
func ForTier(tier models.SubscriptionTier) FeatureEntitlements {
	if e, ok := tierFeatures[tier]; ok {
		return e
	}
	return tierFeatures[models.TierFree]
}

// Limit returns the numeric cap for a countable feature.
func (e FeatureEntitlements) Limit(feature Feature) int {
	switch feature {
	case FeatureRoadmaps:
		return e.RoadmapsPerMonth
	case FeatureChat:
		return e.ChatQuestionsPerMonth
	case FeatureQuizzes:
		return e.QuizzesPerMonth
	case FeatureNotes:
		return e.NotesLimit
	case FeatureTasks:
		return e.TasksLimit
	case FeatureAISuggestions:
		return e.AISuggestionsPerDay
	default:
		return 0
	}
}

// Flag returns the boolean entitlement for a non-countable feature.
func (e FeatureEntitlements) Flag(feature Feature) bool {
	switch feature {
	case FeatureFullCourseRecommendations:
		return e.FullCourseRecommendations
	case FeatureProgressTracking:
		return e.ProgressTracking
	case FeatureCVAnalysis:
		return e.CVAnalysis
	case FeatureJobRecommendations:
		return e.JobRecommendations
	default:
		return false
	}
}
