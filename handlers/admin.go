package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shyftcut/api/db"
	"shyftcut/api/logger"
	"shyftcut/api/models"
)

type OverrideSubscriptionRequest struct {
	UserID string                    `json:"user_id" binding:"required"`
	Tier   models.SubscriptionTier   `json:"tier" binding:"required"`
	Status models.SubscriptionStatus `json:"status" binding:"required"`
}

// HandleOverrideSubscription force-sets a user's tier and status. Guarded
// by the internal API key; used for support interventions and comped
// accounts.
func HandleOverrideSubscription(c *gin.Context) {
	var req OverrideSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Tier {
	case models.TierFree, models.TierPremium, models.TierPro:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown tier"})
		return
	}

	if err := db.OverrideSubscription(req.UserID, req.Tier, req.Status); err != nil {
		logger.Get().Error("failed to override subscription",
			zap.String("user_id", req.UserID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logger.Get().Info("subscription overridden",
		zap.String("user_id", req.UserID),
		zap.String("tier", string(req.Tier)),
		zap.String("status", string(req.Status)))
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// HandleWorkerMetrics exposes worker pool counters on the internal group.
func HandleWorkerMetrics(c *gin.Context) {
	if Pool == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Worker pool not running"})
		return
	}
	c.JSON(http.StatusOK, Pool.Metrics())
}
