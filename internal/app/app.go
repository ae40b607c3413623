package app

import (
	"formbuilder/config"
	"formbuilder/internal/database"
	"formbuilder/internal/events"
	"formbuilder/internal/logger"
	"formbuilder/internal/repositories"
	"formbuilder/internal/schema"
	"formbuilder/internal/validation"
	"formbuilder/internal/websockets"
	"time"

	submissionController "formbuilder/internal/controllers/submissions"
)

type App struct {
	Database  database.DB
	Websocket *websockets.Manager
	EventBus  *events.EventBus
	Config    config.Config

	Schema    *schema.Provider
	Validator *validation.Validator

	// Repositories
	SubmissionRepo repositories.SubmissionRepository

	// Controllers
	SubmissionController *submissionController.SubmissionController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	return NewWithConfig(config)
}

func NewWithConfig(cfg config.Config) (*App, error) {
	log := logger.New("app").Function("NewWithConfig")

	provider, err := loadSchema(cfg)
	if err != nil {
		return &App{}, log.Err("failed to load form schema", err)
	}

	validator, err := validation.New(provider.Form(), provider.DependentOptions())
	if err != nil {
		return &App{}, log.Err("failed to build validator", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache)

	// Initialize repositories
	var submissionRepo repositories.SubmissionRepository
	switch cfg.StorageDriver {
	case config.StorageSQLite:
		ttl := time.Duration(cfg.DatabaseCacheTTLMinutes) * time.Minute
		submissionRepo = repositories.NewSQL(db, ttl)
	default:
		submissionRepo = repositories.NewMemory()
	}

	// Initialize controllers with repositories and services
	controller := submissionController.New(submissionRepo, validator, eventBus)
	websocket := websockets.New(validator, eventBus)

	app := &App{
		Database:             db,
		Config:               cfg,
		Schema:               provider,
		Validator:            validator,
		SubmissionRepo:       submissionRepo,
		SubmissionController: controller,
		Websocket:            websocket,
		EventBus:             eventBus,
	}

	if err := app.validate(); err != nil {
		_ = app.Close()
		return &App{}, log.Err("failed to validate app", err)
	}

	log.Info("App initialized",
		"storage", cfg.StorageDriver,
		"cache", db.Cache != nil,
		"form", provider.Form().Title,
		"fields", len(provider.Form().Fields))

	return app, nil
}

func loadSchema(cfg config.Config) (*schema.Provider, error) {
	if cfg.FormSchemaPath != "" {
		return schema.LoadFile(cfg.FormSchemaPath, time.Now())
	}
	return schema.Default(time.Now())
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Config.StorageDriver == config.StorageSQLite && a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Schema,
		a.Validator,
		a.SubmissionController,
		a.SubmissionRepo,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
