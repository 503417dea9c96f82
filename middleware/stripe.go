package middleware

import (
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"

	"shyftcut/api/logger"
)

const StripeEventKey = "stripe_event"

// StripeWebhookVerifier checks the webhook signature before the handler
// ever sees the payload. The verified event is stashed in the context.
func StripeWebhookVerifier(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		c.Abort()
		return
	}
	b, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.Get().Error("failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	event, err := webhook.ConstructEvent(b, c.Request.Header.Get("Stripe-Signature"), os.Getenv("STRIPE_WEBHOOK_SECRET"))
	if err != nil {
		logger.Get().Error("webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	c.Set(StripeEventKey, event)
	c.Next()
}
