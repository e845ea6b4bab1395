package api

import (
	"github.com/Conceptual-Machines/melody-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/melody-api/internal/api/middleware"
	"github.com/Conceptual-Machines/melody-api/internal/config"
	"github.com/Conceptual-Machines/melody-api/internal/genre"
	"github.com/Conceptual-Machines/melody-api/internal/metrics"
	webhandlers "github.com/Conceptual-Machines/melody-api/internal/web/handlers"
	"github.com/gin-gonic/gin"
)

func SetupRouter(cfg *config.Config, registry *genre.Registry, recorder metrics.Recorder, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(recorder))

	// CORS middleware
	router.Use(apimiddleware.CORS(cfg.CORSAllowedOrigins))

	if cfg.StaticDir != "" {
		router.Static("/static", cfg.StaticDir)
	}

	// Health check
	router.GET("/health", handlers.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, registry)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	// Web pages
	webHandler := webhandlers.NewWebHandler(registry, version)
	router.GET("/", webHandler.Home)

	genresHandler := handlers.NewGenresHandler(registry)
	router.GET("/genres", genresHandler.List)

	// Generation
	melodyHandler := handlers.NewMelodyHandler(cfg, registry, recorder)
	router.POST("/generate-melody/", melodyHandler.Generate)
	router.GET("/download-midi/", melodyHandler.Download)

	progressionHandler := handlers.NewProgressionHandler(registry, recorder)
	router.POST("/generate-progression/", progressionHandler.Generate)
	router.GET("/download-progression-midi/", progressionHandler.Download)

	return router
}
