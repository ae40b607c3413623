package main

import (
	"context"
	"formbuilder/cmd/migration/initialize"
	"formbuilder/cmd/migration/seed"
	"formbuilder/config"
	"formbuilder/internal/database"
	"formbuilder/internal/logger"
	"formbuilder/internal/repositories"
	"formbuilder/internal/schema"
	"formbuilder/internal/validation"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "migration",
		Short:         "Manage the sqlite submission store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newUpCmd(), newSeedCmd())

	if err := root.Execute(); err != nil {
		logger.New("migration").Function("main").Er("migration failed", err)
		os.Exit(1)
	}
}

func openSQLite() (config.Config, database.DB, error) {
	log := logger.New("migration").Function("openSQLite")

	cfg, err := config.InitConfig()
	if err != nil {
		return cfg, database.DB{}, err
	}
	if cfg.StorageDriver != config.StorageSQLite {
		return cfg, database.DB{}, log.Error("migrations need STORAGE_DRIVER=sqlite", "storage", cfg.StorageDriver)
	}

	db, err := database.New(cfg)
	return cfg, db, err
}

func newUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openSQLite()
			if err != nil {
				return err
			}
			defer db.Close()

			return initialize.InitializeTables(db.SQL, cfg, logger.New("migration"))
		},
	}
}

func newSeedCmd() *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo submissions into an empty store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openSQLite()
			if err != nil {
				return err
			}
			defer db.Close()

			if schemaPath == "" {
				schemaPath = cfg.FormSchemaPath
			}
			provider, err := loadSchema(schemaPath)
			if err != nil {
				return err
			}
			validator, err := validation.New(provider.Form(), provider.DependentOptions())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			repo := repositories.NewSQL(db, time.Duration(cfg.DatabaseCacheTTLMinutes)*time.Minute)
			_, err = seed.Seed(ctx, repo, validator, logger.New("migration"))
			return err
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "form schema YAML file (defaults to FORM_SCHEMA_PATH or the built-in form)")
	return cmd
}

func loadSchema(path string) (*schema.Provider, error) {
	if path != "" {
		return schema.LoadFile(path, time.Now())
	}
	return schema.Default(time.Now())
}
