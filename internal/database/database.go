// Package database manages the optional Postgres connection used for
// usage logging. The service runs fine without it.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/augmented-canvas/canvas-api/internal/models"
)

// Connect opens a Postgres connection from a DSN.
func Connect(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate runs schema migrations.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.UsageLog{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
