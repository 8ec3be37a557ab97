package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/sangkips/billgen-api/internal/domain/repository"
	"github.com/sangkips/billgen-api/pkg/apperror"
	"github.com/sangkips/billgen-api/pkg/logger"
	"github.com/sangkips/billgen-api/pkg/oauth"
	"github.com/sangkips/billgen-api/pkg/utils"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo     repository.UserRepository
	settingsRepo repository.SettingsRepository
	jwtManager   *utils.JWTManager
	google       *oauth.GoogleOAuthService
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	settingsRepo repository.SettingsRepository,
	jwtManager *utils.JWTManager,
	google *oauth.GoogleOAuthService,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		jwtManager:   jwtManager,
		google:       google,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.HasPassword() {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// RegisterInput represents the registration input
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user account together with default billing settings
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	existingUser, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    input.Email,
		Password: hashedPassword,
		Provider: entity.ProviderLocal,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.ensureSettings(ctx, user.ID)
	return user, nil
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken
	}

	return s.issueTokens(user)
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.GetCurrentUser(ctx, input.UserID)
	if err != nil {
		return err
	}

	if user.HasPassword() && !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.NewBadRequestError("Current password is incorrect")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

// UpdateProfileInput represents the update profile input
type UpdateProfileInput struct {
	UserID uuid.UUID
	Name   string
	Photo  *string
}

// UpdateProfile updates the user's display details
func (s *AuthService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.User, error) {
	user, err := s.GetCurrentUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	if input.Photo != nil {
		user.Photo = input.Photo
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GoogleAuthURL returns the consent URL for the given state
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil || !s.google.IsConfigured() {
		return "", apperror.ErrOAuthUnavailable
	}
	return s.google.GetAuthURL(state), nil
}

// GoogleLogin exchanges an authorization code and signs the matching user in,
// creating the account on first login. Accounts are matched by email.
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (*LoginOutput, error) {
	if s.google == nil || !s.google.IsConfigured() {
		return nil, apperror.ErrOAuthUnavailable
	}

	info, err := s.google.Authenticate(ctx, code)
	if err != nil {
		if errors.Is(err, oauth.ErrInvalidCode) {
			return nil, apperror.NewBadRequestError("Invalid authorization code")
		}
		return nil, err
	}
	if info.Email == "" || !info.VerifiedEmail {
		return nil, apperror.NewBadRequestError("Google account email is not verified")
	}

	user, err := s.userRepo.GetByEmail(ctx, info.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		providerID := info.ID
		user = &entity.User{
			Name:       info.Name,
			Email:      info.Email,
			Provider:   entity.ProviderGoogle,
			ProviderID: &providerID,
		}
		if info.Picture != "" {
			user.Photo = &info.Picture
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		s.ensureSettings(ctx, user.ID)
	} else if user.ProviderID == nil {
		providerID := info.ID
		user.ProviderID = &providerID
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	return s.issueTokens(user)
}

// GoogleRedirectURLs returns the frontend success and error URLs
func (s *AuthService) GoogleRedirectURLs() (success, failure string) {
	if s.google == nil {
		return "", ""
	}
	return s.google.GetFrontendSuccessURL(), s.google.GetFrontendErrorURL()
}

func (s *AuthService) issueTokens(user *entity.User) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ensureSettings creates default billing settings; failure only loses defaults
func (s *AuthService) ensureSettings(ctx context.Context, userID uuid.UUID) {
	if s.settingsRepo == nil {
		return
	}
	if err := s.settingsRepo.Create(ctx, entity.DefaultUserSettings(userID)); err != nil {
		log := logger.WithComponent("auth")
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to create default settings")
	}
}
