package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sangkips/billgen-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var body APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestError_UsesAppErrorCode(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-Request-ID", "req-1")

	Error(c, apperror.NewNotFoundError("Invoice"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "Invoice not found", body.Message)
	require.NotNil(t, body.Meta)
	assert.Equal(t, "req-1", body.Meta.RequestID)
}

func TestError_PlainErrorIs500(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestBindError(t *testing.T) {
	type payload struct {
		Email string `json:"email" validate:"required,email"`
	}
	v := validator.New()
	err := v.Struct(payload{Email: "nope"})
	require.Error(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	BindError(c, err)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Errors []apperror.FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "Must be a valid email address", body.Errors[0].Message)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	BindError(c, errors.New("unexpected EOF"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFile(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	File(c, "invoice-AB12.pdf", "application/pdf", []byte("%PDF-1.3"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="invoice-AB12.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", w.Body.String())
}
