package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shyftcut/api/db"
	"shyftcut/api/entitlements"
	"shyftcut/api/kafka"
	"shyftcut/api/logger"
	"shyftcut/api/models"
)

type SubmitQuizRequest struct {
	RoadmapID *string         `json:"roadmap_id"`
	Topic     string          `json:"topic" binding:"required"`
	Score     int             `json:"score"`
	Answers   json.RawMessage `json:"answers" binding:"required"`
}

// HandleSubmitQuiz persists a quiz submission; the monthly quiz counter
// increments in the insert transaction.
func HandleSubmitQuiz(c *gin.Context) {
	claims, evaluator, ok := loadEvaluator(c)
	if !ok {
		return
	}

	if !evaluator.CanUse(entitlements.FeatureQuizzes) {
		limitReached(c, entitlements.FeatureQuizzes)
		return
	}

	var req SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := db.CreateQuizSubmission(claims.Sub, req.RoadmapID, req.Topic, req.Score, req.Answers)
	if err != nil {
		logger.Get().Error("failed to store quiz submission",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	kafka.PublishUsageEvent(claims.Sub, models.CounterQuizzesTaken, evaluator.Tier())
	c.JSON(http.StatusOK, submission)
}
