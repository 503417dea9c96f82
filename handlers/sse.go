package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shyftcut/api/logger"
	"shyftcut/api/middleware"
	"shyftcut/api/sse"
)

// HandleChatStream serves GET /api/chat/stream/:sessionID as an SSE
// stream of AI response chunks. EventSource cannot set headers, so the
// token rides in a query parameter.
func HandleChatStream(c *gin.Context) {
	tokenString := c.DefaultQuery("token", "")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid token"})
		return
	}
	claims, err := middleware.ParseSupabaseToken(tokenString)
	if err != nil {
		logger.Get().Warn("SSE authentication failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
		return
	}

	sessionID := c.Param("sessionID")

	stream := &sse.ClientStream{
		Messages: make(chan string, 100),
		Done:     make(chan struct{}),
	}
	sse.Register(sessionID, stream)
	defer sse.Unregister(sessionID)

	logger.Get().Debug("SSE stream opened",
		zap.String("user_id", claims.Sub),
		zap.String("session_id", sessionID))

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.String(http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-stream.Messages:
			if !ok {
				return false
			}
			c.Writer.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()
			return true
		case <-c.Request.Context().Done():
			return false
		case <-stream.Done:
			return false
		}
	})
}
