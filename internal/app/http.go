package app

import (
	"github.com/KlausJCB/MaterialPassportTool/internal/http"
	httpH "github.com/KlausJCB/MaterialPassportTool/internal/http/handlers"
	httpMW "github.com/KlausJCB/MaterialPassportTool/internal/http/middleware"
	"github.com/KlausJCB/MaterialPassportTool/internal/observability"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Auth      *httpH.AuthHandler
	User      *httpH.UserHandler
	Passport  *httpH.PassportHandler
	Component *httpH.ComponentHandler
	Import    *httpH.ImportHandler
	Dashboard *httpH.DashboardHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(),
		Auth:      httpH.NewAuthHandler(services.Auth),
		User:      httpH.NewUserHandler(services.User),
		Passport:  httpH.NewPassportHandler(services.Passport),
		Component: httpH.NewComponentHandler(services.Component),
		Import:    httpH.NewImportHandler(log, services.Import, cfg.MaxUploadBytes),
		Dashboard: httpH.NewDashboardHandler(services.Stats),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	serviceName := ""
	if observability.Enabled() {
		serviceName = cfg.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:              log,
		HealthHandler:    handlers.Health,
		AuthHandler:      handlers.Auth,
		AuthMiddleware:   middleware.Auth,
		UserHandler:      handlers.User,
		PassportHandler:  handlers.Passport,
		ComponentHandler: handlers.Component,
		ImportHandler:    handlers.Import,
		DashboardHandler: handlers.Dashboard,
		ServiceName:      serviceName,
	})
}
