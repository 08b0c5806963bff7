package main

import (
	"github.com/Angelouange12/construction-site-sub001/internal/config"
	"github.com/Angelouange12/construction-site-sub001/internal/database"
	"github.com/Angelouange12/construction-site-sub001/internal/handlers"
	"github.com/Angelouange12/construction-site-sub001/internal/middleware"
	"github.com/Angelouange12/construction-site-sub001/internal/repository"
	"github.com/Angelouange12/construction-site-sub001/internal/services"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	siteRepo := repository.NewSiteRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	notifier := services.NewLogNotifier(logrus.StandardLogger())
	assignmentService := services.NewAssignmentService(assignmentRepo, siteRepo, resourceRepo, notifier)

	var plannerAI *services.PlannerAIService
	if cfg.OpenAIAPIKey != "" {
		plannerAI = services.NewPlannerAIService(cfg.OpenAIAPIKey)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		logrus.Fatalf("Failed to create Redis store: %v", err)
	}

	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions("site_session", store))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	siteHandler := handlers.NewSiteHandler(siteRepo)
	resourceHandler := handlers.NewResourceHandler(resourceRepo)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService, plannerAI)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Construction Site API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Site routes (protected)
		sites := api.Group("/sites")
		sites.Use(middleware.RequireAuth())
		{
			sites.GET("", siteHandler.ListSites)
			sites.POST("", siteHandler.CreateSite)
			sites.GET("/:id", siteHandler.GetSite)
			sites.PATCH("/:id", siteHandler.UpdateSite)
			sites.DELETE("/:id", siteHandler.DeleteSite)
			sites.GET("/:id/tasks", siteHandler.ListSiteTasks)
			sites.POST("/:id/tasks", siteHandler.CreateSiteTask)
		}

		// Worker routes (protected)
		workers := api.Group("/workers")
		workers.Use(middleware.RequireAuth())
		{
			workers.GET("", resourceHandler.ListWorkers)
			workers.POST("", resourceHandler.CreateWorker)
			workers.GET("/:id", resourceHandler.GetWorker)
			workers.DELETE("/:id", resourceHandler.DeleteWorker)
		}

		// Material routes (protected)
		materials := api.Group("/materials")
		materials.Use(middleware.RequireAuth())
		{
			materials.GET("", resourceHandler.ListMaterials)
			materials.POST("", resourceHandler.CreateMaterial)
			materials.GET("/:id", resourceHandler.GetMaterial)
			materials.DELETE("/:id", resourceHandler.DeleteMaterial)
		}

		// Assignment routes (protected)
		assignments := api.Group("/assignments")
		assignments.Use(middleware.RequireAuth())
		{
			assignments.GET("", assignmentHandler.ListAssignments)
			assignments.POST("", assignmentHandler.CreateAssignment)
			assignments.GET("/timeline", assignmentHandler.GetTimeline)
			assignments.POST("/suggest", assignmentHandler.SuggestAssignments)
			assignments.GET("/:id", assignmentHandler.GetAssignment)
			assignments.PATCH("/:id", assignmentHandler.UpdateAssignment)
			assignments.POST("/:id/complete", assignmentHandler.CompleteAssignment)
			assignments.POST("/:id/cancel", assignmentHandler.CancelAssignment)
			assignments.POST("/:id/reassign", assignmentHandler.ReassignAssignment)
			assignments.GET("/:id/history", assignmentHandler.GetHistory)
		}

		// Absence handling (protected)
		api.POST("/absences", middleware.RequireAuth(), assignmentHandler.HandleAbsence)
	}

	// Start server
	logrus.Info("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
