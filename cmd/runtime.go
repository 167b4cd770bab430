package cmd

import (
	"fmt"

	"rainbow-recipes/core/config"
	"rainbow-recipes/core/database"
	"rainbow-recipes/core/logger"
	"rainbow-recipes/feature/recipes/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles what every command needs.
type runtime struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

// bootstrap loads configuration, builds the logger and opens the migrated database.
func bootstrap(path string) (*runtime, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := openDatabase(cfg.Database, models.Migrate)
	if err != nil {
		return nil, err
	}
	l.Info("Connected to database",
		zap.String("driver", cfg.Database.Driver),
		zap.String("name", cfg.Database.Name))

	return &runtime{cfg: cfg, log: l, db: db}, nil
}

// openDatabase connects and runs migrate, closing the connection when migrate fails.
func openDatabase(cfg database.Config, migrate func(*gorm.DB) error) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	return db, nil
}

func (r *runtime) close() {
	_ = r.log.Sync()
	if sqlDB, err := r.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
