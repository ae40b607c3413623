package database

import (
	"context"
	"path/filepath"
	"testing"

	"formbuilder/config"
	"formbuilder/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sqliteConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		StorageDriver:  config.StorageSQLite,
		DatabaseDbPath: filepath.Join(t.TempDir(), "nested", "submissions.db"),
	}
}

func TestNew_MemoryStorageOpensNothing(t *testing.T) {
	db, err := New(config.Config{StorageDriver: config.StorageMemory})
	require.NoError(t, err)

	assert.Nil(t, db.SQL)
	assert.Nil(t, db.Cache)
	assert.NoError(t, db.Close())
}

func TestNew_SQLiteAppliesMigrations(t *testing.T) {
	cfg := sqliteConfig(t)

	db, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.FileExists(t, cfg.DatabaseDbPath)
	assert.True(t, db.SQL.Migrator().HasTable("submissions"))
	assert.True(t, db.SQL.Migrator().HasIndex("submissions", "idx_submissions_created_at"))
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(config.Config{StorageDriver: config.StorageSQLite, DatabaseDbPath: ""})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database path is empty")
}

func TestMigrateCount_Idempotent(t *testing.T) {
	db, err := New(sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	applied, err := MigrateCount(db.SQL)
	require.NoError(t, err)
	assert.Equal(t, 0, applied)
}

func TestInitializeSQLiteDB_InMemory(t *testing.T) {
	db := &DB{log: logger.New("test")}

	err := db.initializeSQLiteDB(&gorm.Config{}, config.Config{DatabaseDbPath: ":memory:"})
	require.NoError(t, err)

	sqlDB, err := db.SQL.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	applied, err := MigrateCount(db.SQL)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	assert.NoError(t, db.Close())
}

func TestSQLWithContext(t *testing.T) {
	db, err := New(sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB := db.SQLWithContext(context.Background())
	assert.NotNil(t, gormDB)
	assert.NotEqual(t, db.SQL, gormDB)
}

func TestClose_WithNilSQL(t *testing.T) {
	db := &DB{log: logger.New("test")}
	assert.NoError(t, db.Close())
	assert.NoError(t, db.FlushCache(context.Background()))
}

func TestInitializeCacheDB_MissingConfig(t *testing.T) {
	db := &DB{log: logger.New("test")}

	err := db.initializeCacheDB(config.Config{DatabaseCacheAddress: "", DatabaseCachePort: 6379})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "address or port is empty")

	err = db.initializeCacheDB(config.Config{DatabaseCacheAddress: "localhost", DatabaseCachePort: 0})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "address or port is empty")
}

func TestInitializeCacheDB_Unreachable(t *testing.T) {
	db := &DB{log: logger.New("test")}

	err := db.initializeCacheDB(config.Config{DatabaseCacheAddress: "127.0.0.1", DatabaseCachePort: 1})
	assert.Error(t, err)
	assert.Nil(t, db.Cache)
}

func TestCacheBuilder_NilClient(t *testing.T) {
	builder := NewCacheBuilder(nil, "abc").WithPrefix("submission:").WithStruct(map[string]int{"a": 1})

	assert.Equal(t, "submission:abc", builder.Key())
	assert.Error(t, builder.Set())
	assert.Error(t, builder.Delete())

	var dest map[string]int
	found, err := builder.Get(&dest)
	assert.Error(t, err)
	assert.False(t, found)
}
