package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Divy2003/realstate/config"
	"github.com/Divy2003/realstate/db"
	"github.com/Divy2003/realstate/handler"
	"github.com/Divy2003/realstate/middleware"
	"github.com/Divy2003/realstate/pkg/logger"
	"github.com/Divy2003/realstate/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Open the database and run migrations
	database, err := db.Open(cfg.DB.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Seed the bootstrap admin account
	if err := database.SeedAdmin(context.Background(), &cfg.Admin); err != nil {
		slog.Error("failed to seed admin account", "error", err)
		os.Exit(1)
	}

	// Initialize object storage for uploaded assets
	assets, err := service.NewAssetService(&cfg.Minio)
	if err != nil {
		slog.Error("failed to initialize asset storage", "error", err)
		os.Exit(1)
	}
	if err := assets.EnsureBucket(context.Background()); err != nil {
		slog.Error("failed to ensure asset bucket", "error", err)
		os.Exit(1)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(database, cfg)
	projectHandler := handler.NewProjectHandler(database)
	leadHandler := handler.NewLeadHandler(database)
	settingsHandler := handler.NewSettingsHandler(database)
	uploadHandler := handler.NewUploadHandler(assets, &cfg.Upload)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins, cfg.IsProduction()))
	router.Use(middleware.RateLimit(cfg.Server.RateLimit, time.Minute))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Server is running",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Uploaded assets
	router.GET("/uploads/*object", uploadHandler.Serve)

	api := router.Group("/api")

	// Public routes
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)

		api.GET("/projects", projectHandler.List)
		api.GET("/projects/:idOrSlug", projectHandler.Get)

		api.POST("/leads", leadHandler.Submit)
		api.POST("/leads/brochure-download", leadHandler.BrochureDownload)

		api.GET("/settings", settingsHandler.Get)
	}

	// Authenticated routes
	authed := api.Group("/")
	authed.Use(middleware.Auth(&cfg.Auth))
	{
		authed.GET("/auth/me", authHandler.Me)
		authed.PUT("/auth/change-password", authHandler.ChangePassword)
	}

	// Admin routes
	admin := api.Group("/")
	admin.Use(middleware.Auth(&cfg.Auth), middleware.RequireAdmin())
	{
		admin.POST("/projects", projectHandler.Create)
		admin.PUT("/projects/:id", projectHandler.Update)
		admin.DELETE("/projects/:id", projectHandler.Delete)
		admin.PATCH("/projects/:id/featured", projectHandler.ToggleFeatured)
		admin.GET("/projects/admin/stats/overview", projectHandler.Stats)

		admin.GET("/leads", leadHandler.List)
		admin.GET("/leads/stats", leadHandler.Stats)
		admin.GET("/leads/export", leadHandler.Export)
		admin.GET("/leads/:id", leadHandler.Get)
		admin.PUT("/leads/:id", leadHandler.Update)
		admin.DELETE("/leads/:id", leadHandler.Delete)
		admin.PATCH("/leads/:id/status", leadHandler.SetStatus)
		admin.POST("/leads/:id/contact", leadHandler.AddContact)
		admin.POST("/leads/:id/notes", leadHandler.AddNote)
		admin.PATCH("/leads/:id/follow-up", leadHandler.ScheduleFollowUp)

		admin.GET("/settings/admin", settingsHandler.GetAdmin)
		admin.PUT("/settings", settingsHandler.Update)
		admin.PUT("/settings/company", settingsHandler.UpdateCompany)

		admin.POST("/upload/project-images", uploadHandler.ProjectImages)
		admin.POST("/upload/site-images", uploadHandler.SiteImages)
		admin.POST("/upload/floor-plans", uploadHandler.FloorPlans)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}
