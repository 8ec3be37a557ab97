package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billgen-api/internal/config"
	"github.com/sangkips/billgen-api/internal/infrastructure/database"
	"github.com/sangkips/billgen-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billgen-api/pkg/logger"
	"gorm.io/gorm"
)

// bootstrap loads config, sets up logging and opens the database
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()

	if err := logger.Setup(cfg.LoggerConfig()); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := request.RegisterValidators(); err != nil {
		return nil, nil, fmt.Errorf("failed to register validators: %w", err)
	}

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug && !cfg.IsProduction())
	if err != nil {
		return nil, nil, err
	}

	return cfg, db, nil
}

// migrate applies the schema and seeds the optional admin account
func migrate(cfg *config.Config, db *gorm.DB) error {
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	return database.SeedAdminUser(db, cfg.Admin)
}
