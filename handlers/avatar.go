package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shyftcut/api/db"
	"shyftcut/api/entitlements"
	"shyftcut/api/kafka"
	"shyftcut/api/llm"
	"shyftcut/api/logger"
	"shyftcut/api/models"
)

type GenerateAvatarRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// HandleGenerateAvatar is capped at a flat monthly count for every tier,
// premium included; the image API bills per call. The slot is reserved
// atomically before the call so concurrent requests cannot both squeeze
// past the cap, and released if generation fails.
func HandleGenerateAvatar(c *gin.Context) {
	claims, evaluator, ok := loadEvaluator(c)
	if !ok {
		return
	}

	var req GenerateAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reserved, err := db.IncrementCounterWithinLimit(claims.Sub, models.CounterAvatarGenerations, entitlements.AvatarGenerationsPerMonth)
	if err != nil {
		logger.Get().Error("failed to reserve avatar generation",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not verify usage, please try again"})
		return
	}
	if !reserved {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "limit_reached",
			"feature": "avatar",
			"limit":   entitlements.AvatarGenerationsPerMonth,
		})
		return
	}

	url, err := llm.GenerateAvatar(req.Prompt)
	if err != nil {
		logger.Get().Error("avatar generation failed",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		if releaseErr := db.DecrementCounter(claims.Sub, models.CounterAvatarGenerations); releaseErr != nil {
			logger.Get().Error("failed to release avatar generation slot",
				zap.String("user_id", claims.Sub),
				zap.Error(releaseErr))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Avatar generation failed, please try again"})
		return
	}

	kafka.PublishUsageEvent(claims.Sub, models.CounterAvatarGenerations, evaluator.Tier())
	c.JSON(http.StatusOK, gin.H{"url": url})
}
