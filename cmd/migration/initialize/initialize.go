package initialize

import (
	"formbuilder/config"
	"formbuilder/internal/database"
	"formbuilder/internal/logger"

	"gorm.io/gorm"
)

// InitializeTables applies pending migrations. It is safe to run repeatedly.
func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing submission tables", "path", config.DatabaseDbPath)

	applied, err := database.MigrateCount(db)
	if err != nil {
		return log.Err("failed to apply migrations", err)
	}

	log.Info("Table initialization complete", "applied", applied)
	return nil
}
