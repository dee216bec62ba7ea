package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/internal/config"
	"github.com/temcen/closetmood/internal/database"
	"github.com/temcen/closetmood/internal/docs"
	"github.com/temcen/closetmood/internal/handlers"
	"github.com/temcen/closetmood/internal/middleware"
	"github.com/temcen/closetmood/internal/services"
	"github.com/temcen/closetmood/internal/validation"
)

type App struct {
	config    *config.Config
	logger    *logrus.Logger
	db        *database.Database
	services  *services.Services
	handlers  *handlers.Handlers
	validator *validation.SchemaValidator
	docs      *docs.Handler
	router    *gin.Engine
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: SetupLogger(cfg),
	}

	// Initialize database connections
	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to prepare schema: %w", err)
		}
	}

	svc, err := services.New(cfg, app.logger, db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.services = svc

	schemaValidator, err := validation.NewSchemaValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to load request schemas: %w", err)
	}
	app.validator = schemaValidator

	apiDocs, err := docs.NewHandler()
	if err != nil {
		return nil, err
	}
	app.docs = apiDocs

	app.handlers = handlers.New(app.logger, svc)
	app.setupRouter()

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Logger() *logrus.Logger {
	return a.logger
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	if err := a.services.Close(); err != nil {
		a.logger.WithError(err).Warn("Error closing feedback producer")
	}

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		return err
	}

	return nil
}

// SetupLogger builds the process logger from the logging section.
func SetupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter() {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(a.config))

	validate := middleware.NewValidationMiddleware(a.validator)

	// Health and metrics (no auth required)
	router.GET("/health", a.handlers.Health.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	a.docs.RegisterRoutes(router)

	// Token exchange (API key -> session token)
	router.POST("/auth/token", validate.ValidateTokenRequest(), a.handlers.Auth.Token)

	api := router.Group("/api/v1")
	{
		api.Use(middleware.Auth(a.services.Auth, a.logger))
		api.Use(middleware.RateLimit(a.services.RateLimit, a.logger))

		api.POST("/outfits/recommendations", validate.ValidateRecommendationRequest(), a.handlers.Outfit.Recommend)

		garments := api.Group("/garments")
		{
			garments.GET("", a.handlers.Garment.List)
			garments.POST("", validate.ValidateGarment(), a.handlers.Garment.Create)
			garments.GET("/:id", a.handlers.Garment.Get)
			garments.PUT("/:id", validate.ValidateGarment(), a.handlers.Garment.Update)
			garments.DELETE("/:id", a.handlers.Garment.Delete)
			garments.GET("/:id/pairings", a.handlers.Garment.Pairings)
		}

		api.POST("/feedback", validate.ValidateFeedback(), a.handlers.Feedback.Record)
	}

	a.router = router
}
