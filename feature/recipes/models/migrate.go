package models

import (
	"fmt"
	"strings"

	"rainbow-recipes/core/database"

	"gorm.io/gorm"
)

// Migrate creates or updates every table and checks the association tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	missing, err := database.VerifySchema(db, JoinColumns())
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}
