package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/sangkips/billgen-api/internal/domain/repository"
	"gorm.io/gorm"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

// GetByUserID returns the user's billing defaults, or nil when none were saved
func (r *settingsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserSettings, error) {
	var settings entity.UserSettings
	err := conn(ctx, r.db).Scopes(OwnerScope(userID)).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Create(ctx context.Context, settings *entity.UserSettings) error {
	return conn(ctx, r.db).Create(settings).Error
}

func (r *settingsRepository) Update(ctx context.Context, settings *entity.UserSettings) error {
	return conn(ctx, r.db).Save(settings).Error
}
