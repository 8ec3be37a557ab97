package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billgen-api/internal/config"
	"github.com/sangkips/billgen-api/internal/presentation/http/handler"
	"github.com/sangkips/billgen-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &Handlers{
		Auth:      handler.NewAuthHandler(nil, false),
		Dashboard: handler.NewDashboardHandler(nil),
		Settings:  handler.NewSettingsHandler(nil),
		Invoice:   handler.NewInvoiceHandler(nil, nil),
		Receipt:   handler.NewReceiptHandler(nil, nil),
		Printer:   handler.NewPrinterHandler(nil),
	}
	var router *gin.Engine
	require.NotPanics(t, func() {
		router = Setup(h, &Deps{
			JWTManager: utils.NewJWTManager("secret", 0, 0),
			Cfg:        &config.Config{App: config.AppConfig{Name: "billgen-api"}},
		})
	})
	return router
}

func TestSetup_Health(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"billgen-api"}`, w.Body.String())
}

func TestSetup_ProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	for _, rt := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/profile"},
		{http.MethodGet, "/api/v1/dashboard"},
		{http.MethodGet, "/api/v1/invoices"},
		{http.MethodGet, "/api/v1/invoices/search"},
		{http.MethodGet, "/api/v1/invoices/export"},
		{http.MethodPost, "/api/v1/invoices"},
		{http.MethodPut, "/api/v1/invoices/abc/status"},
		{http.MethodPost, "/api/v1/invoices/abc/send-email"},
		{http.MethodGet, "/api/v1/receipts/new"},
		{http.MethodPost, "/api/v1/receipts/abc/print"},
		{http.MethodGet, "/api/v1/printer/status"},
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", rt.method, rt.path)
	}
}

func TestSetup_UnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
