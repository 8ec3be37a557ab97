package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-123",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(GoogleUserInfo{
			ID:            "g-1",
			Email:         "jane@example.com",
			VerifiedEmail: true,
			Name:          "Jane",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestService(srv *httptest.Server) *GoogleOAuthService {
	return NewGoogleOAuthService(GoogleOAuthConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/callback",
		Endpoint: &oauth2.Endpoint{
			AuthURL:   srv.URL + "/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		UserInfoURL: srv.URL + "/userinfo",
	})
}

func TestGoogleOAuthService_IsConfigured(t *testing.T) {
	assert.False(t, NewGoogleOAuthService(GoogleOAuthConfig{}).IsConfigured())
	assert.False(t, NewGoogleOAuthService(GoogleOAuthConfig{ClientID: "id"}).IsConfigured())
	assert.True(t, NewGoogleOAuthService(GoogleOAuthConfig{ClientID: "id", ClientSecret: "s"}).IsConfigured())
}

func TestGoogleOAuthService_GetAuthURL(t *testing.T) {
	srv := newTestServer(t)
	svc := newTestService(srv)

	raw := svc.GetAuthURL("state-xyz")
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "state-xyz", u.Query().Get("state"))
	assert.Equal(t, "client", u.Query().Get("client_id"))
}

func TestGoogleOAuthService_Authenticate(t *testing.T) {
	srv := newTestServer(t)
	svc := newTestService(srv)

	info, err := svc.Authenticate(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", info.Email)
	assert.True(t, info.VerifiedEmail)
}

func TestGoogleOAuthService_Authenticate_BadCode(t *testing.T) {
	srv := newTestServer(t)
	svc := newTestService(srv)

	_, err := svc.Authenticate(context.Background(), "bad-code")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestGoogleOAuthService_Authenticate_NotConfigured(t *testing.T) {
	_, err := NewGoogleOAuthService(GoogleOAuthConfig{}).Authenticate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrOAuthNotConfigured)
}

func TestNewState(t *testing.T) {
	a, err := NewState()
	require.NoError(t, err)
	b, err := NewState()
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
