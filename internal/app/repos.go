package app

import (
	"gorm.io/gorm"

	"github.com/KlausJCB/MaterialPassportTool/internal/data/repos"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/logger"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo
	Passport  repos.PassportRepo
	Component repos.ComponentRepo
	ImportJob repos.ImportJobRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),
		Passport:  repos.NewPassportRepo(db, log),
		Component: repos.NewComponentRepo(db, log),
		ImportJob: repos.NewImportJobRepo(db, log),
	}
}
