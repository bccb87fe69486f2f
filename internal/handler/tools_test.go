package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpai/corp-agent-backend/internal/apperr"
	"github.com/corpai/corp-agent-backend/internal/middleware"
	"github.com/corpai/corp-agent-backend/internal/utils"
)

func callTool(h echo.HandlerFunc, token, secret string) *httptest.ResponseRecorder {
	e := echo.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler
	if secret != "" {
		e.GET("/tool", h, middleware.JWTAuth(secret))
	} else {
		e.GET("/tool", h)
	}

	req := httptest.NewRequest(http.MethodGet, "/tool", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestToolHandlersEchoCaller(t *testing.T) {
	const secret = "tools-test-secret"
	access, err := utils.NewAccessToken(secret, "ops@example.com", "finance", false, "professional", 60)
	require.NoError(t, err)

	rec := callTool(SocialMediaTools, access.Token, secret)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ops@example.com")

	rec = callTool(FinanceReports, access.Token, secret)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "quarterly_summary")
}

func TestToolHandlersWithoutClaims(t *testing.T) {
	// Routes mounted without the JWT middleware must refuse, not panic.
	for _, h := range []echo.HandlerFunc{SocialMediaTools, FinanceReports} {
		rec := callTool(h, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Could not validate credentials")
	}
}
