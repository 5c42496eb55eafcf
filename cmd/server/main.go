package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/earn-your-wings-api/internal/auth"
	"github.com/yukikurage/earn-your-wings-api/internal/config"
	"github.com/yukikurage/earn-your-wings-api/internal/database"
	"github.com/yukikurage/earn-your-wings-api/internal/handlers"
	"github.com/yukikurage/earn-your-wings-api/internal/logger"
	"github.com/yukikurage/earn-your-wings-api/internal/middleware"
	"github.com/yukikurage/earn-your-wings-api/internal/models"
	"github.com/yukikurage/earn-your-wings-api/internal/repository"
	"github.com/yukikurage/earn-your-wings-api/internal/services"
	"github.com/yukikurage/earn-your-wings-api/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	appLog, err := logger.New(cfg.GinMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(database.GetDB()); err != nil {
			log.Fatalf("Failed to add indexes: %v", err)
		}
	}

	// Token verification against the identity provider
	verifier, err := auth.NewVerifier(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize token verifier: %v", err)
	}
	if !verifier.Enabled() {
		appLog.Warn("token verification disabled; do not run this configuration in production")
	}

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	completionRepo := repository.NewCompletionRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)

	// File storage
	store := storage.New(cfg.UploadRoot, appLog)

	// Services
	progressService := services.NewProgressService(taskRepo, completionRepo, progressRepo, appLog)
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo, completionRepo, userRepo, progressService, store)
	portfolioService := services.NewPortfolioService(portfolioRepo, userRepo, progressService, store, appLog)
	adminService := services.NewAdminService(userRepo, taskRepo, completionRepo, portfolioRepo, progressRepo, store)

	// Handlers
	competencyHandler := handlers.NewCompetencyHandler(userService, progressService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	fileHandler := handlers.NewFileHandler(portfolioRepo, completionRepo, store)
	adminHandler := handlers.NewAdminHandler(taskService, adminService)

	// Initialize Gin router
	r := gin.Default()
	r.Use(cors.Default())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Earn Your Wings API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	api.Use(middleware.RequireAuth(verifier))
	{
		api.GET("/competencies", competencyHandler.ListCompetencies)

		users := api.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.GET("/:id/competencies", competencyHandler.GetUserCompetencies)

			users.POST("/:id/task-completions", taskHandler.CompleteTask)
			users.GET("/:id/task-completions", taskHandler.ListCompletions)
			// Retained alias for clients still on the old route
			users.POST("/:id/tasks/complete", taskHandler.CompleteTask)

			users.POST("/:id/portfolio", portfolioHandler.CreateItem)
			users.GET("/:id/portfolio", portfolioHandler.ListItems)
			users.GET("/:id/portfolio/:item_id", portfolioHandler.GetItem)
			users.DELETE("/:id/portfolio/:item_id", portfolioHandler.DeleteItem)
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/:area/:sub", taskHandler.ListTasksForLeaf)
		}

		api.GET("/files/:category/:id", fileHandler.ServeFile)

		admin := api.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/tasks", adminHandler.CreateTask)
			admin.GET("/tasks", adminHandler.ListTasks)
			admin.GET("/tasks/:task_id", adminHandler.GetTask)
			admin.PUT("/tasks/:task_id", adminHandler.UpdateTask)
			admin.DELETE("/tasks/:task_id", adminHandler.DeleteTask)
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/storage/stats", adminHandler.StorageStats)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
