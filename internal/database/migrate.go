package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/adanyl0v/todo-app/internal/models"
)

// CreateTables creates every missing table. Existing tables are left
// as they are: no columns are added or altered.
func CreateTables(db *gorm.DB) error {
	for _, model := range []any{&models.Todo{}} {
		if db.Migrator().HasTable(model) {
			continue
		}
		err := db.Migrator().CreateTable(model)
		if err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
	}
	return nil
}
