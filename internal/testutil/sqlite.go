// Package testutil provides database fixtures for tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adanyl0v/todo-app/internal/config"
	"github.com/adanyl0v/todo-app/internal/database"
)

// NewSQLiteDB opens a file-backed SQLite database in a temporary
// directory with every table created. It is closed when the test ends.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "todo.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: database.NewGormLogger(zerolog.Nop(), config.EnvProd),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = database.CreateTables(db)
	if err != nil {
		t.Fatalf("failed to create tables: %v", err)
	}
	return db
}
