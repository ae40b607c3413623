package config

import (
	"errors"
	"formbuilder/internal/logger"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

type Config struct {
	GeneralVersion          string `mapstructure:"GENERAL_VERSION"`
	Environment             string `mapstructure:"ENVIRONMENT"`
	ServerPort              int    `mapstructure:"SERVER_PORT"`
	CorsAllowOrigins        string `mapstructure:"CORS_ALLOW_ORIGINS"`
	StorageDriver           string `mapstructure:"STORAGE_DRIVER"`
	DatabaseDbPath          string `mapstructure:"DATABASE_DB_PATH"`
	DatabaseCacheAddress    string `mapstructure:"DATABASE_CACHE_ADDRESS"`
	DatabaseCachePort       int    `mapstructure:"DATABASE_CACHE_PORT"`
	DatabaseCacheTTLMinutes int    `mapstructure:"DATABASE_CACHE_TTL_MINUTES"`
	FormSchemaPath          string `mapstructure:"FORM_SCHEMA_PATH"`
	SeedSubmissions         bool   `mapstructure:"SEED_SUBMISSIONS"`
}

var keys = []string{
	"GENERAL_VERSION",
	"ENVIRONMENT",
	"SERVER_PORT",
	"CORS_ALLOW_ORIGINS",
	"STORAGE_DRIVER",
	"DATABASE_DB_PATH",
	"DATABASE_CACHE_ADDRESS",
	"DATABASE_CACHE_PORT",
	"DATABASE_CACHE_TTL_MINUTES",
	"FORM_SCHEMA_PATH",
	"SEED_SUBMISSIONS",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GENERAL_VERSION", "1.0.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("SERVER_PORT", 3001)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("DATABASE_DB_PATH", "data/submissions.db")
	v.SetDefault("DATABASE_CACHE_ADDRESS", "")
	v.SetDefault("DATABASE_CACHE_PORT", 6379)
	v.SetDefault("DATABASE_CACHE_TTL_MINUTES", 60)
	v.SetDefault("FORM_SCHEMA_PATH", "")
	v.SetDefault("SEED_SUBMISSIONS", false)
}

// InitConfig reads .env (when present) and the process environment. Environment
// variables win over the file.
func InitConfig() (Config, error) {
	return load(".env")
}

func load(envFile string) (Config, error) {
	log := logger.New("config").Function("InitConfig")

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, log.Err("failed to read config file", err, "file", envFile)
		}
		log.Debug("no config file found, using environment only", "file", envFile)
	}

	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, log.Err("failed to bind env", err, "key", key)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, log.Err("failed to unmarshal config", err)
	}

	config.StorageDriver = strings.ToLower(strings.TrimSpace(config.StorageDriver))
	if err := config.validate(); err != nil {
		return Config{}, log.Err("invalid config", err)
	}

	return config, nil
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StorageSQLite:
		if c.DatabaseDbPath == "" {
			return errors.New("DATABASE_DB_PATH is required for sqlite storage")
		}
	default:
		return errors.New("STORAGE_DRIVER must be one of memory, sqlite")
	}

	if c.ServerPort <= 0 {
		return errors.New("SERVER_PORT must be positive")
	}

	return nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
