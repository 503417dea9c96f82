package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shyftcut/api/entitlements"
	"shyftcut/api/llm"
	"shyftcut/api/logger"
	"shyftcut/api/models"
)

type SuggestionRequest struct {
	RoadmapTitle    string `json:"roadmap_title" binding:"required"`
	ProgressSummary string `json:"progress_summary"`
}

// HandleCreateSuggestion serves the daily-capped AI next-step suggestion.
// The counter increments only after the model call succeeds; a failed
// call costs the user nothing.
func HandleCreateSuggestion(c *gin.Context) {
	claims, evaluator, ok := loadEvaluator(c)
	if !ok {
		return
	}

	if !evaluator.CanUse(entitlements.FeatureAISuggestions) {
		limitReached(c, entitlements.FeatureAISuggestions)
		return
	}

	var req SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestion, err := llm.GenerateSuggestion(req.RoadmapTitle, req.ProgressSummary)
	if err != nil {
		logger.Get().Error("suggestion generation failed",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Suggestion failed, please try again"})
		return
	}

	recordUsage(claims.Sub, models.CounterAISuggestions, evaluator.Tier())
	c.JSON(http.StatusOK, gin.H{"suggestion": suggestion})
}
