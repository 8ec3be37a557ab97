package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/sangkips/billgen-api/internal/domain/repository"
	"github.com/sangkips/billgen-api/pkg/apperror"
	"github.com/sangkips/billgen-api/pkg/money"
	"github.com/shopspring/decimal"
)

// SettingsService manages the per-user billing defaults
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
	}
}

// GetSettings retrieves user settings, creating defaults if not exists
func (s *SettingsService) GetSettings(ctx context.Context, userID uuid.UUID) (*entity.UserSettings, error) {
	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if settings == nil {
		settings = entity.DefaultUserSettings(userID)
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// UpdateSettingsInput represents the input for updating settings
type UpdateSettingsInput struct {
	UserID               uuid.UUID
	Company              entity.Company
	DefaultTaxPercentage decimal.Decimal
	DefaultTemplate      int
	DefaultNotes         string
	ReceiptFooter        string
	LogoURL              string
	PrimaryColor         string
	SecondaryColor       string
	CurrencySymbol       string
	DateFormat           string
}

// UpdateSettings replaces the user's defaults
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.UserSettings, error) {
	if input.DefaultTaxPercentage.IsNegative() {
		return nil, apperror.NewFieldError("default_tax_percentage", "Tax percentage must not be negative")
	}

	settings, err := s.settingsRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = entity.DefaultUserSettings(input.UserID)
	}

	settings.Company = input.Company
	settings.DefaultTaxPercentage = money.ToStored(input.DefaultTaxPercentage)
	settings.DefaultTemplate = normalizeTemplate(input.DefaultTemplate)
	settings.DefaultNotes = input.DefaultNotes
	settings.ReceiptFooter = input.ReceiptFooter
	settings.LogoURL = input.LogoURL
	if input.PrimaryColor != "" {
		settings.PrimaryColor = input.PrimaryColor
	}
	if input.SecondaryColor != "" {
		settings.SecondaryColor = input.SecondaryColor
	}
	if input.CurrencySymbol != "" {
		settings.CurrencySymbol = input.CurrencySymbol
	}
	if input.DateFormat != "" {
		settings.DateFormat = input.DateFormat
	}

	if settings.ID == uuid.Nil {
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, err
		}
	} else {
		if err := s.settingsRepo.Update(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}
