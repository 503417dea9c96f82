package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shyftcut/api/db"
	"shyftcut/api/entitlements"
	"shyftcut/api/kafka"
	"shyftcut/api/logger"
	"shyftcut/api/middleware"
	"shyftcut/api/models"
	"shyftcut/api/worker"
)

// Pool is the shared worker pool, set from main. Handlers use it to queue
// retries for counter increments that failed after the action succeeded.
var Pool *worker.WorkerPool

// currentClaims fetches the verified claims or writes the 401.
func currentClaims(c *gin.Context) (*models.SupabaseClaims, bool) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}
	return claims, true
}

// loadEvaluator resolves the caller's subscription and usage snapshot and
// builds a fresh evaluator for this request. Storage failures return an
// error response to the client and never fall through to a paid tier: a
// tier we cannot determine grants nothing.
func loadEvaluator(c *gin.Context) (*models.SupabaseClaims, entitlements.Evaluator, bool) {
	claims, ok := currentClaims(c)
	if !ok {
		return nil, entitlements.Evaluator{}, false
	}

	record, err := db.GetSubscriptionByUserID(claims.Sub)
	if err != nil {
		logger.Get().Error("failed to resolve subscription",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not verify subscription, please try again"})
		return nil, entitlements.Evaluator{}, false
	}

	snapshot, err := db.GetUsageSnapshot(claims.Sub)
	if err != nil {
		logger.Get().Error("failed to read usage snapshot",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not verify usage, please try again"})
		return nil, entitlements.Evaluator{}, false
	}

	return claims, entitlements.NewEvaluator(models.EffectiveTier(record), snapshot), true
}

// limitReached is the normal business outcome for a capped-out feature,
// not an error. The client maps it to a feature-scoped upgrade prompt.
func limitReached(c *gin.Context, feature entitlements.Feature) {
	c.JSON(http.StatusForbidden, gin.H{
		"error":   "limit_reached",
		"feature": string(feature),
		"upgrade": true,
	})
}

// recordUsage increments a counter after its action has been persisted
// outside Postgres (chat messages live in Mongo, AI calls are external).
// A failed increment never fails the user's action; it is queued for
// async retry. The analytics event is emitted regardless.
func recordUsage(userID string, counter models.Counter, tier models.SubscriptionTier) {
	if err := db.IncrementCounter(userID, counter); err != nil {
		logger.Get().Error("usage increment failed, queuing retry",
			zap.String("user_id", userID),
			zap.String("counter", string(counter)),
			zap.Error(err))
		if Pool != nil {
			Pool.RetryIncrement(userID, counter)
		}
	}
	kafka.PublishUsageEvent(userID, counter, tier)
}
