package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shyftcut/api/db"
	"shyftcut/api/entitlements"
	"shyftcut/api/kafka"
	"shyftcut/api/logger"
	"shyftcut/api/models"
)

type CreateNoteRequest struct {
	RoadmapID *string `json:"roadmap_id"`
	Title     string  `json:"title" binding:"required"`
	Body      string  `json:"body"`
}

// HandleCreateNote creates a note if the user is under their live-note
// cap. The cap tracks existing rows, so deleting a note frees a slot.
func HandleCreateNote(c *gin.Context) {
	claims, evaluator, ok := loadEvaluator(c)
	if !ok {
		return
	}

	if !evaluator.CanUse(entitlements.FeatureNotes) {
		limitReached(c, entitlements.FeatureNotes)
		return
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := db.CreateNote(claims.Sub, req.RoadmapID, req.Title, req.Body)
	if err != nil {
		logger.Get().Error("failed to create note",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	kafka.PublishUsageEvent(claims.Sub, models.CounterNotes, evaluator.Tier())
	c.JSON(http.StatusOK, note)
}

func HandleListNotes(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	notes, err := db.GetNotesByUserID(claims.Sub)
	if err != nil {
		logger.Get().Error("failed to list notes",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// HandleDeleteNote removes a note; the cumulative counter decrements in
// the same transaction as the delete.
func HandleDeleteNote(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	deleted, err := db.DeleteNote(claims.Sub, c.Param("id"))
	if err != nil {
		logger.Get().Error("failed to delete note",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
