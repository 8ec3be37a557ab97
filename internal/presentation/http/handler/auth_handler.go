package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billgen-api/internal/application/service"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/sangkips/billgen-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billgen-api/internal/presentation/http/dto/response"
	"github.com/sangkips/billgen-api/pkg/apperror"
	"github.com/sangkips/billgen-api/pkg/logger"
	"github.com/sangkips/billgen-api/pkg/oauth"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 600
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService  *service.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new auth handler. secureCookie marks the OAuth
// state cookie Secure and should be set outside local development.
func NewAuthHandler(authService *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

func userPayload(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"photo":      u.Photo,
		"provider":   u.Provider,
		"created_at": u.CreatedAt,
	}
}

func tokenPayload(out *service.LoginOutput) gin.H {
	return gin.H{
		"user":          userPayload(out.User),
		"access_token":  out.AccessToken,
		"refresh_token": out.RefreshToken,
		"token_type":    "Bearer",
	}
}

// Login handles user login
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", tokenPayload(output))
}

// Register handles user registration
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RegisterRequest true "Registration data"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Registration successful", gin.H{
		"user": userPayload(user),
	})
}

// RefreshToken handles token refresh
// @Summary Refresh Token
// @Tags auth
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	output, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Token refreshed successfully", gin.H{
		"access_token":  output.AccessToken,
		"refresh_token": output.RefreshToken,
		"token_type":    "Bearer",
	})
}

// Logout handles user logout
// @Summary Logout
// @Tags auth
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// tokens are stateless; the client discards them
	response.OK(c, "Logged out successfully", nil)
}

// GetProfile handles fetching current user profile
// @Summary Get Profile
// @Tags auth
// @Security BearerAuth
// @Router /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile retrieved successfully", gin.H{
		"user": userPayload(user),
	})
}

// UpdateProfile handles updating user profile
// @Summary Update Profile
// @Tags auth
// @Security BearerAuth
// @Router /profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), &service.UpdateProfileInput{
		UserID: userID,
		Name:   req.Name,
		Photo:  req.Photo,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile updated successfully", gin.H{
		"user": userPayload(user),
	})
}

// ChangePassword handles password change
// @Summary Change Password
// @Tags auth
// @Security BearerAuth
// @Router /profile/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), &service.ChangePasswordInput{
		UserID:          userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Password changed successfully", nil)
}

// GoogleAuth redirects to the Google consent page. The state is kept in a
// short-lived cookie and checked again on the callback.
// @Summary Google login
// @Tags auth
// @Router /auth/google [get]
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	state, err := oauth.NewState()
	if err != nil {
		response.Error(c, err)
		return
	}

	authURL, err := h.authService.GoogleAuthURL(state)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback finishes the Google login and hands the tokens to the
// frontend. Without frontend URLs the tokens are returned as JSON.
// @Summary Google login callback
// @Tags auth
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	successURL, errorURL := h.authService.GoogleRedirectURLs()

	fail := func(err error) {
		log := logger.WithComponent("auth")
		log.Warn().Err(err).Msg("google login failed")
		if errorURL == "" {
			response.Error(c, err)
			return
		}
		appErr := apperror.GetAppError(err)
		c.Redirect(http.StatusTemporaryRedirect, withQuery(errorURL, url.Values{"error": {appErr.Message}}))
	}

	if msg := c.Query("error"); msg != "" {
		fail(apperror.NewBadRequestError("Google login was cancelled: " + msg))
		return
	}

	state, err := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secureCookie, true)
	if err != nil || state == "" || state != c.Query("state") {
		fail(apperror.NewBadRequestError("Invalid OAuth state"))
		return
	}

	code := c.Query("code")
	if code == "" {
		fail(apperror.NewBadRequestError("Missing authorization code"))
		return
	}

	output, err := h.authService.GoogleLogin(c.Request.Context(), code)
	if err != nil {
		fail(err)
		return
	}

	if successURL == "" {
		response.OK(c, "Login successful", tokenPayload(output))
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, withQuery(successURL, url.Values{
		"access_token":  {output.AccessToken},
		"refresh_token": {output.RefreshToken},
	}))
}

func withQuery(base string, values url.Values) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	for k, v := range values {
		q[k] = v
	}
	u.RawQuery = q.Encode()
	return u.String()
}
