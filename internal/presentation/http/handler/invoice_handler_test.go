package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceHandler_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewInvoiceHandler(nil, nil)
	router := gin.New()
	router.PUT("/invoices/:id/status", func(c *gin.Context) {
		c.Set("user_id", uuid.New())
		c.Next()
	}, h.UpdateStatus)

	req := httptest.NewRequest(http.MethodPut, "/invoices/"+uuid.NewString()+"/status", strings.NewReader(`{"status":"settled"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Invalid invoice status, expected one of PENDING, PAID, OVERDUE", body.Message)
}
