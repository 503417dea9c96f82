package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shyftcut/api/entitlements"
)

// Without verified claims in the context no handler may touch storage or
// fall through to a tier: the response is a 401, full stop.
func TestHandlersRejectUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handlersUnderTest := map[string]gin.HandlerFunc{
		"subscription": HandleGetSubscription,
		"usage":        HandleGetUsage,
		"roadmaps":     HandleCreateRoadmap,
		"chat":         HandleSendChatMessage,
		"notes":        HandleCreateNote,
		"tasks":        HandleCreateTask,
		"quizzes":      HandleSubmitQuiz,
		"suggestions":  HandleCreateSuggestion,
		"avatar":       HandleGenerateAvatar,
		"checkout":     HandleCreateCheckoutSession,
	}

	for name, handler := range handlersUnderTest {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

			handler(c)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestLimitReachedResponseShape(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	limitReached(c, entitlements.FeatureChat)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "limit_reached", body["error"])
	assert.Equal(t, "chat", body["feature"])
	assert.Equal(t, true, body["upgrade"])
}
