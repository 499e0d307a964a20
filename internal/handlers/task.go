package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-dev/taskboard/internal/logger"
	"github.com/taskboard-dev/taskboard/internal/models"
	"github.com/taskboard-dev/taskboard/internal/utils"
	"gorm.io/gorm"
)

type TaskHandler struct {
	DB  *gorm.DB
	Hub *Hub
}

func NewTaskHandler(db *gorm.DB, hub *Hub) *TaskHandler {
	return &TaskHandler{DB: db, Hub: hub}
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=150"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"dueDate"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=todo in_progress done archived"`
}

// List returns the tasks of a project, newest first. Listing is authorized
// through the project row: the caller must own the project. Absent and
// un-owned projects look the same to the caller.
func (h *TaskHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	projectID, err := utils.ParseIDParam(ctx, "projectId")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project ID"})
		return
	}

	var project models.Project

	if err := h.DB.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Project not found or unauthorized"})
		} else {
			logger.Error("Failed to retrieve project", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	tasks := []models.Task{}

	if err := h.DB.Where("project_id = ?", projectID).Order("created_at DESC").Find(&tasks).Error; err != nil {
		logger.Error("Failed to retrieve tasks", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

// Create inserts a task under the given project with the caller as owner.
// The project itself is not checked; the task belongs to whoever created it.
func (h *TaskHandler) Create(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	projectID, err := utils.ParseIDParam(ctx, "projectId")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project ID"})
		return
	}

	var req CreateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortBindingError(ctx, err)
		return
	}

	if req.Priority == "" {
		req.Priority = models.TaskPriorityMedium
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatusTodo,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		UserID:      &userID,
		ProjectID:   &projectID,
	}

	if err := h.DB.Create(&task).Error; err != nil {
		logger.Error("Failed to create task", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating task"})
		return
	}

	h.Hub.BroadcastRefresh(strconv.FormatUint(uint64(projectID), 10))

	ctx.JSON(http.StatusCreated, task)
}

// UpdateStatus overwrites a task's status. Any of the four states is
// reachable from any other; there is no transition ordering. Authorization
// filters on the task's own user_id, not the project's.
func (h *TaskHandler) UpdateStatus(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	taskID, err := utils.ParseIDParam(ctx, "taskId")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID"})
		return
	}

	var req UpdateTaskStatusRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortBindingError(ctx, err)
		return
	}

	var task models.Task

	if err := h.DB.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Task not found or unauthorized"})
		} else {
			logger.Error("Failed to retrieve task", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	task.Status = req.Status

	if req.Status == models.TaskStatusDone {
		if task.CompletedAt == nil {
			now := time.Now()
			task.CompletedAt = &now
		}
	} else {
		task.CompletedAt = nil
	}

	if err := h.DB.Save(&task).Error; err != nil {
		logger.Error("Failed to update task status", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating task status"})
		return
	}

	if task.ProjectID != nil {
		h.Hub.BroadcastRefresh(strconv.FormatUint(uint64(*task.ProjectID), 10))
	}

	ctx.JSON(http.StatusOK, task)
}

// Delete removes a task in a single conditional statement filtered by id
// and owner. Zero rows affected means absent or not owned; both are 404.
func (h *TaskHandler) Delete(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	taskID, err := utils.ParseIDParam(ctx, "taskId")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID"})
		return
	}

	// Best-effort read for the broadcast channel; authorization happens in
	// the conditional delete below.
	var task models.Task
	_ = h.DB.Select("project_id").Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error

	result := h.DB.Where("id = ? AND user_id = ?", taskID, userID).Delete(&models.Task{})

	if result.Error != nil {
		logger.Error("Failed to delete task", result.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Task not found or unauthorized"})
		return
	}

	if task.ProjectID != nil {
		h.Hub.BroadcastRefresh(strconv.FormatUint(uint64(*task.ProjectID), 10))
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
