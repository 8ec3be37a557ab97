package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sangkips/billgen-api/internal/config"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	applog "github.com/sangkips/billgen-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log := applog.WithComponent("database")
	log.Info().Str("host", cfg.Host).Str("db", cfg.Name).Msg("connected to PostgreSQL")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log := applog.WithComponent("database")
	log.Info().Msg("running database migrations")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.UserSettings{},

		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.Receipt{},
		&entity.ReceiptItem{},

		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("database migrations completed")
	return nil
}

// SeedAdminUser creates the configured admin account if it does not exist yet.
// It is a no-op when no admin email is configured.
func SeedAdminUser(db *gorm.DB, admin config.AdminConfig) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" {
		return nil
	}
	if admin.Password == "" {
		return errors.New("ADMIN_PASSWORD must be set when ADMIN_EMAIL is configured")
	}

	var existing entity.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user := &entity.User{
		Name:     admin.Name,
		Email:    email,
		Password: string(hash),
		Provider: entity.ProviderLocal,
	}
	if err := db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	if err := db.Create(entity.DefaultUserSettings(user.ID)).Error; err != nil {
		return fmt.Errorf("failed to create admin settings: %w", err)
	}

	log := applog.WithComponent("database")
	log.Info().Str("email", email).Msg("seeded admin user")
	return nil
}
