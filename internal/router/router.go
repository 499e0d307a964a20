package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskboard-dev/taskboard/internal/handlers"
	"github.com/taskboard-dev/taskboard/internal/middleware"
	"github.com/taskboard-dev/taskboard/internal/types"
	"gorm.io/gorm"
)

// NewRouter wires the route table around an injected database handle.
//
// Task routes live under two shapes on purpose: project-scoped reads and
// creates (/project/:projectId/tasks) and task-scoped mutations
// (/project/tasks/:taskId). Gin keeps per-method routing trees, which is
// what lets the static "tasks" segment coexist with :projectId.
func NewRouter(database *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	hub := handlers.NewHub()

	authHandler := handlers.NewAuthHandler(database)
	projectHandler := handlers.NewProjectHandler(database)
	taskHandler := handlers.NewTaskHandler(database, hub)
	wsHandler := handlers.NewWSHandler(database, hub)

	r.GET("/health", handlers.HealthCheck)
	r.GET("/ws/:projectId", middleware.AuthMiddleware(), wsHandler.Serve)

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.AuthMiddleware(), authHandler.Me)
	}

	project := r.Group("/project", middleware.AuthMiddleware())
	{
		project.POST("", projectHandler.Create)
		project.GET("", projectHandler.List)

		project.GET("/:projectId/tasks", taskHandler.List)
		project.POST("/:projectId/tasks", taskHandler.Create)
		project.PATCH("/tasks/:taskId", taskHandler.UpdateStatus)
		project.DELETE("/tasks/:taskId", taskHandler.Delete)
	}

	return r
}
