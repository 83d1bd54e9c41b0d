// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"testing"

	"gorm.io/gorm"

	"boardshop/internal/db"
	"boardshop/internal/models"
)

// New returns a fresh, migrated in-memory SQLite database closed at test cleanup.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.Open("sqlite:file::memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// Seed inserts products and fails the test on error.
func Seed(t testing.TB, gdb *gorm.DB, products ...*models.Product) {
	t.Helper()
	for _, p := range products {
		if err := gdb.Create(p).Error; err != nil {
			t.Fatalf("seed product %q: %v", p.Name, err)
		}
	}
}
