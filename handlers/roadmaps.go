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

type CreateRoadmapRequest struct {
	Goal string `json:"goal" binding:"required"`
}

// HandleCreateRoadmap generates and persists a learning roadmap. The
// entitlement check happens before the (slow, billed) generation call; the
// counter increment is part of the insert transaction, so the row and its
// bookkeeping land together.
func HandleCreateRoadmap(c *gin.Context) {
	claims, evaluator, ok := loadEvaluator(c)
	if !ok {
		return
	}

	if !evaluator.CanUse(entitlements.FeatureRoadmaps) {
		limitReached(c, entitlements.FeatureRoadmaps)
		return
	}

	var req CreateRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, content, err := llm.GenerateRoadmap(req.Goal)
	if err != nil {
		logger.Get().Error("roadmap generation failed",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Roadmap generation failed, please try again"})
		return
	}

	roadmap, err := db.CreateRoadmap(claims.Sub, title, req.Goal, content)
	if err != nil {
		logger.Get().Error("failed to persist roadmap",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	kafka.PublishUsageEvent(claims.Sub, models.CounterRoadmapsCreated, evaluator.Tier())
	c.JSON(http.StatusOK, roadmap)
}

func HandleListRoadmaps(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	roadmaps, err := db.GetRoadmapsByUserID(claims.Sub)
	if err != nil {
		logger.Get().Error("failed to list roadmaps",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roadmaps": roadmaps})
}

func HandleGetRoadmap(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	roadmap, err := db.GetRoadmapByID(claims.Sub, c.Param("id"))
	if err != nil {
		logger.Get().Error("failed to fetch roadmap",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if roadmap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Roadmap not found"})
		return
	}
	c.JSON(http.StatusOK, roadmap)
}
