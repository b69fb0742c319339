package db

import (
	"fmt"

	"github.com/zulandar/taskdeck/internal/models"
	"gorm.io/gorm"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Task{},
		&models.Activity{},
	}
}

// AutoMigrate creates or updates the tasks and activities tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
