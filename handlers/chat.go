package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shyftcut/api/entitlements"
	"shyftcut/api/kafka"
	"shyftcut/api/logger"
	"shyftcut/api/models"
	"shyftcut/api/mongodb"
)

type SendChatMessageRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Text      string `json:"text" binding:"required"`
}

// HandleSendChatMessage stores the user's message and forwards it to the
// AI service over Kafka. The chat counter increments only after the
// message is persisted; a failed increment is retried in the background
// and never fails the send.
func HandleSendChatMessage(c *gin.Context) {
	claims, evaluator, ok := loadEvaluator(c)
	if !ok {
		return
	}

	if !evaluator.CanUse(entitlements.FeatureChat) {
		limitReached(c, entitlements.FeatureChat)
		return
	}

	var req SendChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := &models.ChatMessage{
		SessionID: req.SessionID,
		UserID:    claims.Sub,
		Sender:    "user",
		Text:      req.Text,
		Timestamp: time.Now().Unix(),
	}
	if err := mongodb.CreateMessage(c.Request.Context(), msg); err != nil {
		logger.Get().Error("failed to store chat message",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := kafka.ProduceMessage(kafka.ChatMessageTopic, payload); err != nil {
		logger.Get().Error("failed to forward chat message",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Message stored but not delivered, please retry"})
		return
	}

	recordUsage(claims.Sub, models.CounterChatMessages, evaluator.Tier())

	// The evaluator snapshot predates the increment we just recorded.
	remaining := evaluator.Remaining(entitlements.FeatureChat)
	if remaining > 0 {
		remaining--
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": req.SessionID,
		"remaining":  remaining,
	})
}

func HandleGetChatMessages(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	messages, err := mongodb.GetMessagesBySessionID(c.Request.Context(), claims.Sub, c.Param("sessionID"))
	if err != nil {
		logger.Get().Error("failed to fetch chat messages",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
