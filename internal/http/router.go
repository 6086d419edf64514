package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/KlausJCB/MaterialPassportTool/internal/http/handlers"
	httpMW "github.com/KlausJCB/MaterialPassportTool/internal/http/middleware"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler

	PassportHandler  *httpH.PassportHandler
	ComponentHandler *httpH.ComponentHandler
	ImportHandler    *httpH.ImportHandler
	DashboardHandler *httpH.DashboardHandler

	HealthHandler *httpH.HealthHandler

	// ServiceName enables otelgin tracing when non-empty.
	ServiceName string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.CORS())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// User (current account)
		if cfg.UserHandler != nil {
			protected.GET("/auth/user", cfg.UserHandler.GetMe)
		}

		// Material passports
		if cfg.PassportHandler != nil {
			protected.GET("/passports", cfg.PassportHandler.List)
			protected.GET("/passports/:id", cfg.PassportHandler.Get)
			protected.POST("/passports", cfg.PassportHandler.Create)
			protected.PUT("/passports/:id", cfg.PassportHandler.Update)
			protected.DELETE("/passports/:id", cfg.PassportHandler.Delete)
			protected.GET("/passports/:id/export/json", cfg.PassportHandler.ExportBamb)
		}

		// Components
		if cfg.ComponentHandler != nil {
			protected.GET("/components", cfg.ComponentHandler.List)
			protected.POST("/components", cfg.ComponentHandler.Create)
		}

		// Imports
		if cfg.ImportHandler != nil {
			protected.POST("/import/excel", cfg.ImportHandler.ImportExcel)
			protected.POST("/import/csv", cfg.ImportHandler.ImportCSV)
			protected.POST("/import/ifc", cfg.ImportHandler.ImportIFC)
			protected.GET("/import/:jobId", cfg.ImportHandler.GetJob)
			protected.POST("/import/:jobId/components", cfg.ImportHandler.PromoteComponents)
		}

		// Dashboard
		if cfg.DashboardHandler != nil {
			protected.GET("/dashboard/stats", cfg.DashboardHandler.Stats)
		}
	}

	return r
}
