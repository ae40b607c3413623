package database

import (
	logg "formbuilder/internal/logger"

	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/gorm"
)

var migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "0001_create_submissions",
			Up: []string{
				`CREATE TABLE IF NOT EXISTS submissions (
					id VARCHAR(64) PRIMARY KEY,
					created_at DATETIME NOT NULL,
					data TEXT NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions (created_at)`,
			},
			Down: []string{
				`DROP INDEX IF EXISTS idx_submissions_created_at`,
				`DROP TABLE IF EXISTS submissions`,
			},
		},
	},
}

// Migrate applies every pending migration.
func Migrate(db *gorm.DB) error {
	_, err := MigrateCount(db)
	return err
}

// MigrateCount is Migrate that also reports how many migrations ran.
func MigrateCount(db *gorm.DB) (int, error) {
	log := logg.New("database").Function("Migrate")

	sqlDB, err := db.DB()
	if err != nil {
		return 0, log.Err("failed to get database from GORM", err)
	}

	applied, err := migrate.Exec(sqlDB, "sqlite3", migrations, migrate.Up)
	if err != nil {
		return 0, log.Err("failed to apply migrations", err)
	}

	log.Info("Applied migrations", "count", applied)
	return applied, nil
}
