package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/paulo1403/ehr-solutions-renewed/internal/handler"
	"github.com/paulo1403/ehr-solutions-renewed/internal/middleware"
	"github.com/paulo1403/ehr-solutions-renewed/pkg/config"
	"github.com/paulo1403/ehr-solutions-renewed/pkg/database"
	"github.com/paulo1403/ehr-solutions-renewed/pkg/jwtutil"
	"github.com/paulo1403/ehr-solutions-renewed/pkg/logger"
	"github.com/paulo1403/ehr-solutions-renewed/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables. Missing
	// signing secrets abort startup here.
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting clinic auth service...", cfg.LogFields()...)

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	if err := jwtutil.Initialize(&cfg.JWT); err != nil {
		log.Fatal("Failed to initialize JWT utility", zap.Error(err))
	}
	log.Info("JWT utility initialized")

	// Handler settings (cookie flags follow the environment)
	handler.Initialize(cfg)

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters. The access gate runs last so
	// every request is already logged and measured before it can be denied.
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())
	e.Use(middleware.AuthMiddleware)

	// Public infrastructure routes
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/api/auth")
	auth.POST("/login", handler.Login)
	auth.POST("/register", handler.Register)
	auth.POST("/logout", handler.Logout)
	auth.POST("/refresh", handler.Refresh)
	auth.GET("/me", handler.Me)

	// Clinic administration - authorization checked per handler
	clinics := e.Group("/api/clinics")
	clinics.GET("", handler.ListClinics)
	clinics.POST("", handler.CreateClinic)
	clinics.GET("/:id", handler.GetClinic)
	clinics.PUT("/:id", handler.UpdateClinic)
	clinics.DELETE("/:id", handler.DeleteClinic)

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
