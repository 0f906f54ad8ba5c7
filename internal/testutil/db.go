package testutil

import (
	"testing"

	"dailybrush/internal/bootstrap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB returns a migrated in-memory database for tests. A single connection
// keeps the shared :memory: store alive, and the foreign_keys pragma makes the
// ON DELETE CASCADE constraints effective under sqlite.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := bootstrap.Migrate(db); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}
