package app

import (
	"gorm.io/gorm"

	"github.com/KlausJCB/MaterialPassportTool/internal/ingestion"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/logger"
	"github.com/KlausJCB/MaterialPassportTool/internal/services"
)

type Services struct {
	Auth      services.AuthService
	User      services.UserService
	Passport  services.PassportService
	Component services.ComponentService
	Import    services.ImportService
	Stats     services.StatsService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")
	return Services{
		Auth: services.NewAuthService(
			db, log, r.User, r.UserToken,
			cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
		),
		User:      services.NewUserService(db, log, r.User),
		Passport:  services.NewPassportService(db, log, r.Passport),
		Component: services.NewComponentService(db, log, r.Component),
		Import: services.NewImportService(
			db, log, r.ImportJob, r.Component,
			&ingestion.StubIFCParser{}, cfg.IFCTimeout,
		),
		Stats: services.NewStatsService(db, log, r.Passport, r.Component),
	}
}
