package routes

import (
	"time"

	"github.com/taikikob/teamup-sub000/internal/accesscode"
	"github.com/taikikob/teamup-sub000/internal/api/handlers"
	"github.com/taikikob/teamup-sub000/internal/api/middleware"
	"github.com/taikikob/teamup-sub000/internal/auth"
	"github.com/taikikob/teamup-sub000/internal/config"
	"github.com/taikikob/teamup-sub000/internal/media"
	"github.com/taikikob/teamup-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(db *gorm.DB, cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg))

	validate := validator.New()

	// Media collaborators: disabled stubs locally, HTTP clients in deployment
	var mediaStore media.Store
	var mediaCache media.CacheInvalidator
	if cfg.MediaDisabled {
		mediaStore = media.NewDisabledStore()
		mediaCache = media.NewDisabledInvalidator()
	} else {
		mediaStore = media.NewHTTPStore(cfg.MediaStoreURL)
		mediaCache = media.NewHTTPInvalidator(cfg.MediaCacheURL)
	}

	// Services
	notificationService := service.NewNotificationService(db)
	graphService := service.NewGraphService(db, validate)
	taskService := service.NewTaskService(db, validate, mediaStore, mediaCache)
	lifecycleService := service.NewLifecycleService(db, notificationService)
	teamService := service.NewTeamService(db, validate)
	commentService := service.NewCommentService(db, validate, notificationService)
	membershipService := service.NewMembershipService(
		db,
		validate,
		notificationService,
		mediaStore,
		mediaCache,
		time.Duration(cfg.AccessCodeTTLHours)*time.Hour,
		accesscode.Generate,
	)

	// Auth
	authService := auth.NewService(cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(authService)

	// Handlers
	access := handlers.NewAccess(db)
	healthHandler := handlers.NewHealthHandler(db)
	teamHandler := handlers.NewTeamHandler(teamService, access)
	membershipHandler := handlers.NewMembershipHandler(membershipService, access)
	graphHandler := handlers.NewGraphHandler(graphService, access)
	taskHandler := handlers.NewTaskHandler(taskService, access)
	lifecycleHandler := handlers.NewLifecycleHandler(lifecycleService, access)
	commentHandler := handlers.NewCommentHandler(commentService, access)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes, all behind bearer authentication
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		// Team routes
		teams := v1.Group("/teams")
		{
			teams.GET("", teamHandler.MyTeams)
			teams.POST("", membershipHandler.CreateTeam)
			teams.POST("/join", membershipHandler.Join)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.PATCH("/:id", teamHandler.UpdateTeam)
			teams.DELETE("/:id", membershipHandler.DeleteTeam)
			teams.POST("/:id/leave", membershipHandler.Leave)
			teams.GET("/:id/codes", membershipHandler.GetCodes)
			teams.POST("/:id/codes/rotate", membershipHandler.RotateCodes)
			teams.DELETE("/:id/players/:playerId", membershipHandler.RemovePlayer)

			// Graph routes
			teams.GET("/:id/graph", graphHandler.GetGraph)
			teams.PUT("/:id/graph", graphHandler.ReplaceGraph)

			// Node task routes
			teams.GET("/:id/nodes/:nodeId/tasks", taskHandler.ListTasks)
			teams.POST("/:id/nodes/:nodeId/tasks", taskHandler.CreateTask)
			teams.PUT("/:id/nodes/:nodeId/tasks/order", taskHandler.ReorderTasks)
			teams.PATCH("/:id/tasks/:taskId", taskHandler.EditDescription)
			teams.DELETE("/:id/tasks/:taskId", taskHandler.DeleteTask)
			teams.POST("/:id/tasks/:taskId/media", taskHandler.AddMedia)

			// Team feed routes
			teams.GET("/:id/posts", teamHandler.ListPosts)
			teams.POST("/:id/posts", teamHandler.CreatePost)
		}

		// Lifecycle and comment routes, addressed by task
		tasks := v1.Group("/tasks")
		{
			tasks.POST("/:taskId/submit", lifecycleHandler.Submit)
			tasks.DELETE("/:taskId/submit", lifecycleHandler.Unsubmit)
			tasks.POST("/:taskId/players/:playerId/approve", lifecycleHandler.Approve)
			tasks.DELETE("/:taskId/players/:playerId/approve", lifecycleHandler.Unapprove)
			tasks.GET("/:taskId/players/:playerId/state", lifecycleHandler.State)
			tasks.GET("/:taskId/players/:playerId/comments", commentHandler.GetThread)
			tasks.POST("/:taskId/players/:playerId/comments", commentHandler.AddComment)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
		}
	}

	// Catch-all route for undefined endpoints
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":      "Endpoint not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString("request_id"),
		})
	})

	return router
}

// SetupHealthRoutes sets up only health check routes (useful for testing)
func SetupHealthRoutes(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	return router
}
