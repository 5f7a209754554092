package infra

import (
	"fmt"
	"strings"

	"recommendations/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite://"

// PoolConfig bounds the database/sql connection pool.
type PoolConfig struct {
	MaxOpenConns int
	MaxIdleConns int
}

// NewDatabase opens a GORM connection and brings the schema up to date.
// DSNs starting with sqlite:// use the SQLite driver (local runs and tests),
// everything else is handed to the PostgreSQL driver.
func NewDatabase(dsn string, pool PoolConfig) (*gorm.DB, error) {
	dialector, inMemory := openDialector(dsn)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if inMemory {
		// Each SQLite :memory: connection is its own database.
		sqlDB.SetMaxOpenConns(1)
	} else {
		if pool.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
		}
		if pool.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
		}
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

func openDialector(dsn string) (gorm.Dialector, bool) {
	if strings.HasPrefix(dsn, sqlitePrefix) {
		path := strings.TrimPrefix(dsn, sqlitePrefix)
		return sqlite.Open(path), path == ":memory:"
	}
	return postgres.Open(dsn), false
}

// RunMigrations creates or updates the recommendations table, then applies
// idempotent index patches that AutoMigrate does not express.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Recommendation{}); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs DDL that is valid on both PostgreSQL and SQLite.
// Each statement uses IF NOT EXISTS so re-running on a patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// default listing order: newest first, id as tie-breaker
		`CREATE INDEX IF NOT EXISTS idx_recommendations_created_id
		    ON recommendations (created_at DESC, id DESC)`,
		// combined product + status lookups from the storefront
		`CREATE INDEX IF NOT EXISTS idx_recommendations_product_status
		    ON recommendations (product_id, status)`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
