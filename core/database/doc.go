// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure MySQL (production) or SQLite (local runs and tests)
// from the application's configuration. One handle is opened per process and
// injected into every feature; no call site opens its own connection.
//
// # Schema Inspection
//
// GetTableColumns and VerifySchema confirm after migration that the tables backing
// the many-to-many associations (recipe_ingredients, recipe_tags) carry the expected
// join columns.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.VerifySchema(db, map[string][]string{"recipe_tags": {"recipe_id", "tag_id"}})
package database
