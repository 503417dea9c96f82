package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shyftcut/api/entitlements"
)

// HandleGetUsage serves GET /api/usage: current counters plus per-feature
// remaining counts (-1 meaning unlimited, passed through verbatim).
func HandleGetUsage(c *gin.Context) {
	_, evaluator, ok := loadEvaluator(c)
	if !ok {
		return
	}

	remaining := gin.H{}
	for _, feature := range []entitlements.Feature{
		entitlements.FeatureRoadmaps,
		entitlements.FeatureChat,
		entitlements.FeatureQuizzes,
		entitlements.FeatureNotes,
		entitlements.FeatureTasks,
		entitlements.FeatureAISuggestions,
	} {
		remaining[string(feature)] = evaluator.Remaining(feature)
	}
	remaining["avatar"] = evaluator.AvatarGenerationsRemaining()

	c.JSON(http.StatusOK, gin.H{
		"tier":      evaluator.Tier(),
		"usage":     evaluator.Usage(),
		"remaining": remaining,
	})
}
