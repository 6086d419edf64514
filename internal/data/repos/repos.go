package repos

import (
	"gorm.io/gorm"

	"github.com/KlausJCB/MaterialPassportTool/internal/data/repos/auth"
	"github.com/KlausJCB/MaterialPassportTool/internal/data/repos/components"
	"github.com/KlausJCB/MaterialPassportTool/internal/data/repos/imports"
	"github.com/KlausJCB/MaterialPassportTool/internal/data/repos/passports"
	"github.com/KlausJCB/MaterialPassportTool/internal/data/repos/user"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo
type PassportRepo = passports.PassportRepo
type PassportStatusCounts = passports.StatusCounts
type ComponentRepo = components.ComponentRepo
type ImportJobRepo = imports.ImportJobRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}
func NewPassportRepo(db *gorm.DB, baseLog *logger.Logger) PassportRepo {
	return passports.NewPassportRepo(db, baseLog)
}
func NewComponentRepo(db *gorm.DB, baseLog *logger.Logger) ComponentRepo {
	return components.NewComponentRepo(db, baseLog)
}
func NewImportJobRepo(db *gorm.DB, baseLog *logger.Logger) ImportJobRepo {
	return imports.NewImportJobRepo(db, baseLog)
}
