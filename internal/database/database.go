package database

import (
	"context"
	"fmt"
	"formbuilder/config"
	logg "formbuilder/internal/logger"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type CacheClient valkey.Client

// DB bundles the optional durable store and the optional cache. Either may be
// nil: SQL is only opened for sqlite storage and Cache only when an address is set.
type DB struct {
	SQL   *gorm.DB
	Cache CacheClient
	log   logg.Logger
}

func New(config config.Config) (DB, error) {
	log := logg.New("database").Function("New")

	log.Info("Initializing database", "storage", config.StorageDriver)
	db := &DB{log: log}

	err := db.initializeDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize database", err)
	}

	if config.DatabaseCacheAddress != "" {
		err = db.initializeCacheDB(config)
		if err != nil {
			_ = db.Close()
			return DB{}, log.Err("failed to initialize cache database", err)
		}
	}

	return *db, nil
}

func (s *DB) initializeDB(cfg config.Config) error {
	if cfg.StorageDriver != config.StorageSQLite {
		return nil
	}

	gormLogger := logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo),
		logger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	gormConfig := &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	}

	if err := s.initializeSQLiteDB(gormConfig, cfg); err != nil {
		return err
	}

	return Migrate(s.SQL)
}

func (s *DB) initializeSQLiteDB(gormConfig *gorm.Config, config config.Config) error {
	log := s.log.Function("initializeSQLiteDB")

	dbPath := config.DatabaseDbPath
	if dbPath == "" {
		return log.Error("database path is empty", "dbPath", dbPath)
	}

	inMemory := dbPath == ":memory:"
	if !inMemory {
		dir := filepath.Dir(dbPath)
		log.Info("Creating database directory", "dir", dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return log.Err("failed to create database directory", err, "dir", dir)
		}
	}

	log.Info("Connecting with GORM", "dbPath", dbPath)
	db, err := gorm.Open(sqlite.Open(dbPath), gormConfig)
	if err != nil {
		return log.Err("failed to open database with GORM", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return log.Err("failed to ping database through GORM", err)
	}

	log.Info("Successfully connected with GORM")
	if inMemory {
		// every connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.SQL = db

	return nil
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")

	if config.DatabaseCacheAddress == "" || config.DatabaseCachePort == 0 {
		return log.Error("cache address or port is empty",
			"address", config.DatabaseCacheAddress,
			"port", config.DatabaseCachePort)
	}

	address := fmt.Sprintf("%s:%d", config.DatabaseCacheAddress, config.DatabaseCachePort)
	log.Info("Connecting to cache", "address", address)

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{address},
		SelectDB:    0,
	})
	if err != nil {
		return log.Err("failed to connect to cache", err, "address", address)
	}

	s.Cache = client
	return nil
}

func (s *DB) Close() (err error) {
	if s.SQL != nil {
		sqlDB, dbErr := s.SQL.DB()
		if dbErr == nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				err = s.log.Err("failed to close database", closeErr)
			}
		}
	}

	if s.Cache != nil {
		s.Cache.Close()
	}

	return err
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx)
}

func (s *DB) FlushCache(ctx context.Context) error {
	log := s.log.Function("FlushCache")
	if s.Cache == nil {
		return nil
	}

	if err := s.Cache.Do(ctx, s.Cache.B().Flushdb().Build()).Error(); err != nil {
		return log.Err("failed to flush cache database", err)
	}

	log.Info("Flushed cache database")
	return nil
}
