package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shyftcut/api/db"
	"shyftcut/api/entitlements"
	"shyftcut/api/kafka"
	"shyftcut/api/logger"
	"shyftcut/api/models"
)

type CreateTaskRequest struct {
	RoadmapID *string    `json:"roadmap_id"`
	Title     string     `json:"title" binding:"required"`
	DueDate   *time.Time `json:"due_date"`
}

type UpdateTaskRequest struct {
	Completed bool `json:"completed"`
}

func HandleCreateTask(c *gin.Context) {
	claims, evaluator, ok := loadEvaluator(c)
	if !ok {
		return
	}

	if !evaluator.CanUse(entitlements.FeatureTasks) {
		limitReached(c, entitlements.FeatureTasks)
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := db.CreateTask(claims.Sub, req.RoadmapID, req.Title, req.DueDate)
	if err != nil {
		logger.Get().Error("failed to create task",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	kafka.PublishUsageEvent(claims.Sub, models.CounterTasks, evaluator.Tier())
	c.JSON(http.StatusOK, task)
}

func HandleListTasks(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	tasks, err := db.GetTasksByUserID(claims.Sub)
	if err != nil {
		logger.Get().Error("failed to list tasks",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// HandleUpdateTask toggles completion. No counter involved: the task
// still exists either way.
func HandleUpdateTask(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := db.SetTaskCompleted(claims.Sub, c.Param("id"), req.Completed)
	if err != nil {
		logger.Get().Error("failed to update task",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func HandleDeleteTask(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	deleted, err := db.DeleteTask(claims.Sub, c.Param("id"))
	if err != nil {
		logger.Get().Error("failed to delete task",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
