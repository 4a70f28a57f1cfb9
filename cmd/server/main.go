package main

import (
	"context"
	"log"
	"time"

	"bricks-studio/internal/config"
	"bricks-studio/internal/controller"
	"bricks-studio/internal/dataprovider"
	"bricks-studio/internal/middleware"
	"bricks-studio/internal/model"
	"bricks-studio/internal/repository"
	"bricks-studio/internal/security"
	"bricks-studio/internal/service"
	"bricks-studio/internal/session"
	"bricks-studio/internal/storage"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database connection
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Auto migrate database schema
	if err := db.AutoMigrate(&model.Project{}, &model.CollectionRow{}, &model.Deployment{}, &model.LastOpened{}); err != nil {
		log.Printf("Warning: Database migration failed: %v", err)
		log.Println("Continuing with existing database schema...")
	}

	// Initialize metrics
	middleware.InitMetrics()

	// Initialize repositories
	projectRepo := repository.NewProjectRepository(db)
	rowRepo := repository.NewRowRepository(db)
	deploymentRepo := repository.NewDeploymentRepository(db)

	// Initialize snapshot storage
	snapshots, err := initSnapshotStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize snapshot store:", err)
	}

	// Initialize data providers
	resolver := dataprovider.NewResolver(dataprovider.NewStoreProvider(rowRepo))
	for _, src := range cfg.Sources {
		provider, err := dataprovider.NewSQLProvider(dataprovider.SQLSource{
			Driver:      src.Driver,
			DSN:         src.DSN,
			Table:       src.Table,
			MaxPoolSize: src.MaxPoolSize,
		})
		if err != nil {
			log.Fatalf("Failed to configure external source for collection %s: %v", src.CollectionID, err)
		}
		resolver.Bind(src.CollectionID, provider)
	}

	// Initialize security
	jwtManager := security.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTExpiration)
	authMiddleware := security.NewAuthMiddleware(jwtManager)

	// Initialize rate limiting
	rateLimitConfig := middleware.RateLimiterConfig{
		RPM:             cfg.Security.RateLimitPerMinute,
		Burst:           cfg.Security.RateLimitBurst,
		CleanupInterval: 5 * time.Minute,
	}
	rateLimiter := middleware.NewRateLimiter(rateLimitConfig)

	// Initialize services
	projectService := service.NewProjectService(projectRepo)
	dataService := service.NewDataService(rowRepo)
	deployService := service.NewDeployService(projectRepo, deploymentRepo, snapshots)
	renderService := service.NewRenderService(projectRepo, deployService, resolver)

	// Initialize the session manager
	sessionManager := session.NewManager(projectRepo)
	defer sessionManager.CloseAll()

	// Initialize controllers
	authController := controller.NewAuthController(jwtManager)
	projectController := controller.NewProjectController(projectService)
	sessionController := controller.NewSessionController(sessionManager)
	dataController := controller.NewDataController(dataService)
	deployController := controller.NewDeployController(deployService)
	renderController := controller.NewRenderController(renderService, sessionManager)
	healthController := controller.NewHealthController(db)

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.Cors())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.PrometheusMiddleware())

	// Add rate limiting if enabled
	if cfg.Security.EnableRateLimit {
		router.Use(rateLimiter.RateLimit())
	}

	// Health check and metrics endpoints (always available)
	router.GET("/health", healthController.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 group
	api := router.Group("/api/v1")

	// Public endpoints (no authentication required)
	public := api.Group("")
	{
		public.GET("/health", healthController.HealthCheck)
		public.POST("/auth/token", authController.IssueToken)

		// End-user app surfaces are public
		public.GET("/projects/:id/render", renderController.Live)
		public.GET("/projects/:id/deploy", renderController.DeployedLatest)
		public.GET("/deployments/:id/render", renderController.Deployed)
	}

	// Auth endpoints (authentication required)
	auth := api.Group("")
	if cfg.Security.EnableAuth {
		auth.Use(authMiddleware.RequireAuth())
	}
	{
		auth.POST("/auth/refresh", authController.RefreshToken)

		// Project endpoints
		projects := auth.Group("/projects")
		{
			projects.GET("", projectController.ListProjects)
			projects.GET("/last-opened", projectController.GetLastOpened)
			projects.GET("/:id", projectController.GetProject)
			projects.DELETE("/:id", projectController.DeleteProject)
			projects.POST("/:id/deployments", deployController.Deploy)
			projects.GET("/:id/deployments", deployController.ListDeployments)
		}

		// Editing session endpoints
		sessions := auth.Group("/sessions")
		{
			sessions.POST("", sessionController.OpenSession)
			sessions.GET("/:id", sessionController.GetState)
			sessions.DELETE("/:id", sessionController.CloseSession)

			sessions.POST("/:id/project", sessionController.CreateProject)
			sessions.PUT("/:id/project", sessionController.LoadProject)
			sessions.POST("/:id/save", sessionController.SaveProject)

			sessions.POST("/:id/blocks", sessionController.AddBlock)
			sessions.PUT("/:id/blocks/order", sessionController.MoveBlocks)
			sessions.POST("/:id/blocks/reorder", sessionController.ReorderBlocks)
			sessions.PATCH("/:id/blocks/:blockId", sessionController.UpdateBlock)
			sessions.DELETE("/:id/blocks/:blockId", sessionController.RemoveBlock)
			sessions.PUT("/:id/selection", sessionController.SelectBlock)

			sessions.POST("/:id/collections", sessionController.CreateCollection)
			sessions.POST("/:id/collections/:collectionId/fields", sessionController.AddField)
			sessions.DELETE("/:id/collections/:collectionId", sessionController.RemoveCollection)

			sessions.GET("/:id/canvas", sessionController.GetCanvas)
			sessions.GET("/:id/config", sessionController.GetConfigForm)
			sessions.GET("/:id/schema", sessionController.GetSchemaView)
			sessions.GET("/:id/preview", renderController.Preview)
		}

		// Collection data endpoints
		collections := auth.Group("/collections")
		{
			collections.GET("/:collectionId/rows", dataController.ListRows)
			collections.POST("/:collectionId/rows", dataController.InsertRow)
			collections.DELETE("/:collectionId/rows", dataController.DeleteRows)
			collections.POST("/:collectionId/rows/import", dataController.ImportCSV)
		}

		// Deployment endpoints
		deployments := auth.Group("/deployments")
		{
			deployments.GET("/:id", deployController.GetDeployment)
		}
	}

	// Start server
	log.Printf("Starting server on port %s", cfg.Server.Port)
	log.Printf("Health check available at: http://localhost:%s/health", cfg.Server.Port)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func initSnapshotStore(cfg *config.Config) (storage.SnapshotStore, error) {
	if cfg.Snapshots.Backend == "s3" {
		return storage.NewS3SnapshotStore(context.Background(), &storage.S3Config{
			Region:         cfg.Snapshots.Region,
			Bucket:         cfg.Snapshots.Bucket,
			AccessKey:      cfg.Snapshots.AccessKey,
			SecretKey:      cfg.Snapshots.SecretKey,
			EndpointURL:    cfg.Snapshots.EndpointURL,
			ForcePathStyle: cfg.Snapshots.ForcePathStyle,
		})
	}
	return storage.NewFileSnapshotStore(cfg.Snapshots.Dir)
}
