package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-dev/taskboard/internal/logger"
	"github.com/taskboard-dev/taskboard/internal/models"
	"github.com/taskboard-dev/taskboard/internal/utils"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	DB *gorm.DB
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{DB: db}
}

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required,max=150"`
	Description string `json:"description"`
}

func (h *ProjectHandler) Create(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req CreateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortBindingError(ctx, err)
		return
	}

	project := models.Project{
		Name:        req.Title,
		Description: req.Description,
		Status:      models.ProjectStatusActive,
		UserID:      userID,
	}

	if err := h.DB.Create(&project).Error; err != nil {
		logger.Error("Failed to create project", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	projects := []models.Project{}

	if err := h.DB.Where("user_id = ?", userID).Find(&projects).Error; err != nil {
		logger.Error("Failed to retrieve projects", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, projects)
}
