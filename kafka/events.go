package kafka

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"shyftcut/api/logger"
	"shyftcut/api/models"
)

// PublishUsageEvent emits one engagement-analytics event per successful
// gated action. Best-effort: a publish failure is logged, never surfaced
// to the user.
func PublishUsageEvent(userID string, counter models.Counter, tier models.SubscriptionTier) {
	event := models.UsageEvent{
		UserID:    userID,
		Counter:   counter,
		Tier:      string(tier),
		Timestamp: time.Now().Unix(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Get().Error("failed to marshal usage event",
			zap.String("user_id", userID),
			zap.Error(err))
		return
	}

	if err := ProduceMessage(UsageEventTopic, payload); err != nil {
		logger.Get().Warn("usage event not published",
			zap.String("user_id", userID),
			zap.String("counter", string(counter)),
			zap.Error(err))
	}
}
