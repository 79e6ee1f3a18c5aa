package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/tomfrance/sacha/internal/tasks"
)

// TasksController handles task queue management endpoints.
type TasksController struct {
	queue              TaskQueue
	uploadRetention    time.Duration
	auditRetentionDays int
}

// NewTasksController creates a new TasksController. The retentions are
// used for cleanup tasks triggered by hand.
func NewTasksController(queue TaskQueue, uploadRetention time.Duration, auditRetentionDays int) *TasksController {
	return &TasksController{
		queue:              queue,
		uploadRetention:    uploadRetention,
		auditRetentionDays: auditRetentionDays,
	}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
	Manual      bool   `json:"manual"`
}

// ListTaskTypes handles GET /api/tasks/types
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	types := []TaskTypeInfo{
		{
			Type:        "import_archive",
			Description: "Import an uploaded level bundle",
			Queue:       tasks.ImportArchiveTask{}.Config().Name,
		},
		{
			Type:        "cleanup_uploads",
			Description: "Remove uploaded archives past their retention",
			Queue:       tasks.CleanupUploadsTask{}.Config().Name,
			Manual:      true,
		},
		{
			Type:        "cleanup_audit_events",
			Description: "Remove audit events past their retention",
			Queue:       tasks.CleanupAuditEventsTask{}.Config().Name,
			Manual:      true,
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"task_types": types,
	})
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": tasks.StatusString(status),
	})
}

// RunTask handles POST /api/tasks/:type/run
// Only cleanup tasks can be triggered by hand; imports go through /api/imports.
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	var task backlite.Task
	switch taskType {
	case "cleanup_uploads":
		task = tasks.CleanupUploadsTask{RetentionHours: int(tc.uploadRetention / time.Hour)}
	case "cleanup_audit_events":
		task = tasks.CleanupAuditEventsTask{RetentionDays: tc.auditRetentionDays}
	default:
		respondBadRequest(c, fmt.Sprintf("unknown task type: %s", taskType))
		return
	}

	taskID, err := tc.queue.Enqueue(c.Request.Context(), task)
	if err != nil {
		respondInternalError(c, err, "enqueue "+taskType)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"task_id": taskID,
		"type":    taskType,
		"message": "task enqueued",
	})
}
