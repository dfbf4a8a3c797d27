package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jordanlanch/landing/pkg/domain"
	"github.com/jordanlanch/landing/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newContext creates an echo.Context backed by an httptest.NewRecorder for the
// given HTTP method and path. It returns both the context and the recorder so
// callers can inspect the written response.
func newContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// parseBody is a small helper that unmarshals the recorder body into an
// ErrorResponse, failing the test on any JSON error.
func parseBody(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// captureLog redirects the standard logger to a buffer for the duration of fn
// and returns everything that was logged.
func captureLog(fn func()) string {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)
	fn()
	return buf.String()
}

// ---------- ValidationError ----------

func TestValidationError(t *testing.T) {
	internalMsg := "Key: 'QuoteRequest.TeamCount' Error:Field validation for 'TeamCount' failed on the 'min' tag"
	var rec *httptest.ResponseRecorder
	logged := captureLog(func() {
		var c echo.Context
		c, rec = newContext(http.MethodPost, "/api/v1/pricing/quote")
		assert.NoError(t, ValidationError(c, errors.New(internalMsg)))
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	resp := parseBody(t, rec)
	assert.Equal(t, "validation_error", resp.Error)
	assert.NotEmpty(t, resp.Message)
	assert.NotContains(t, rec.Body.String(), "TeamCount")

	assert.Contains(t, logged, "[VALIDATION ERROR]")
	assert.Contains(t, logged, internalMsg)
	assert.Contains(t, logged, "/api/v1/pricing/quote")
}

// ---------- InternalError ----------

func TestInternalError(t *testing.T) {
	internalMsg := "goroutine 1 [running]: main.go:42 panic: nil pointer"
	var rec *httptest.ResponseRecorder
	logged := captureLog(func() {
		var c echo.Context
		c, rec = newContext(http.MethodGet, "/api/v1/pricing/sheet")
		assert.NoError(t, InternalError(c, errors.New(internalMsg)))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", parseBody(t, rec).Error)
	assert.NotContains(t, rec.Body.String(), "goroutine")
	assert.Contains(t, logged, "[INTERNAL ERROR]")
	assert.Contains(t, logged, internalMsg)
}

// ---------- NotFoundError / BadRequestError ----------

func TestNotFoundError(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/v1/widgets/nope")
	assert.NoError(t, NotFoundError(c, "widget"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := parseBody(t, rec)
	assert.Equal(t, "not_found", resp.Error)
	assert.Equal(t, "The requested widget was not found.", resp.Message)
}

func TestBadRequestError(t *testing.T) {
	c, rec := newContext(http.MethodPut, "/api/v1/widgets/workflow/measure")
	assert.NoError(t, BadRequestError(c, "widget workflow has no scroll panel"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := parseBody(t, rec)
	assert.Equal(t, "bad_request", resp.Error)
	assert.Equal(t, "widget workflow has no scroll panel", resp.Message)
}

func TestUnavailableError(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/v1/widgets")
	assert.NoError(t, UnavailableError(c, "too many widget sessions"))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "unavailable", parseBody(t, rec).Error)
}

// ---------- FromDomain ----------

func TestFromDomain(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domain.NewValidationError("billing_cycle must be monthly or yearly"), http.StatusBadRequest, "validation_error"},
		{"not found", domain.NewNotFoundError("widget"), http.StatusNotFound, "not_found"},
		{"bad request", domain.NewBadRequestError("no scroll panel"), http.StatusBadRequest, "bad_request"},
		{"conflict", domain.NewConflictError("dup"), http.StatusConflict, "conflict"},
		{"unavailable", domain.NewUnavailableError("too many widget sessions"), http.StatusServiceUnavailable, "unavailable"},
		{"internal", domain.NewInternalError(errors.New("boom")), http.StatusInternalServerError, "internal_error"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
		{"wrapped", fmt.Errorf("quote: %w", domain.NewValidationError("bad")), http.StatusBadRequest, "validation_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			captureLog(func() {
				var c echo.Context
				c, rec = newContext(http.MethodGet, "/api/v1/test")
				assert.NoError(t, FromDomain(c, tt.err))
			})

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, parseBody(t, rec).Error)
		})
	}
}
