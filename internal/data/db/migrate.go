package db

import (
	"gorm.io/gorm"

	types "github.com/KlausJCB/MaterialPassportTool/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity + auth
		&types.User{},
		&types.UserToken{},

		// Passports + components
		&types.MaterialPassport{},
		&types.Component{},

		// Imports
		&types.ImportJob{},
	)
}
