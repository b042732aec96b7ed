// Package testdb opens throwaway migrated databases for package tests.
package testdb

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"backoffice.GO/config"
)

// Open returns a migrated, seeded SQLite database in a temp dir that is
// removed when the test ends. A file is used rather than :memory: so that
// every pooled connection sees the same data.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := config.OpenSQLite(path, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := config.SeedAccounts(context.Background(), db); err != nil {
		t.Fatalf("seed accounts: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
