package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shyftcut/api/db"
	"shyftcut/api/logger"
	"shyftcut/api/middleware"
	"shyftcut/api/models"
)

// HandleGetSubscription serves GET /api/subscription: the caller's
// subscription record (or null) plus the derived effective tier.
func HandleGetSubscription(c *gin.Context) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	record, err := db.GetSubscriptionByUserID(claims.Sub)
	if err != nil {
		logger.Get().Error("failed to fetch subscription",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not load subscription, please try again"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription":   record,
		"effective_tier": models.EffectiveTier(record),
	})
}
