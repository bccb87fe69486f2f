package middleware

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpai/corp-agent-backend/internal/apperr"
	"github.com/corpai/corp-agent-backend/internal/utils"
)

func newGatedEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler

	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	e.GET("/plan-gated", ok, JWTAuth(testSecret),
		RequirePlan("professional", "enterprise"))
	e.GET("/role-gated", ok, JWTAuth(testSecret),
		RequireRole("admin", "finance"))
	return e
}

func tokenFor(t *testing.T, role string, isAdmin bool, plan string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, "someone@example.com", role, isAdmin, plan, 60)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func TestRequirePlanDeniesBasic(t *testing.T) {
	e := newGatedEcho()

	rec := doGet(e, "/plan-gated", tokenFor(t, "user", false, "basic"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Requires Professional or Enterprise subscription")
}

func TestRequirePlanDeniesNoPlan(t *testing.T) {
	e := newGatedEcho()

	rec := doGet(e, "/plan-gated", tokenFor(t, "user", false, ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePlanAllowsListedPlans(t *testing.T) {
	e := newGatedEcho()

	for _, plan := range []string{"professional", "enterprise"} {
		rec := doGet(e, "/plan-gated", tokenFor(t, "user", false, plan))
		assert.Equal(t, http.StatusOK, rec.Code, "plan %s should pass", plan)
	}
}

func TestRequirePlanAdminBypass(t *testing.T) {
	e := newGatedEcho()

	// An admin on the free tier still reaches plan-gated tools.
	rec := doGet(e, "/plan-gated", tokenFor(t, "admin", true, "basic"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := newGatedEcho()

	rec := doGet(e, "/role-gated", tokenFor(t, "finance", false, ""))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doGet(e, "/role-gated", tokenFor(t, "user", false, "enterprise"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Requires admin or finance role")
}

func TestGatesRequireAuthentication(t *testing.T) {
	e := newGatedEcho()

	for _, path := range []string{"/plan-gated", "/role-gated"} {
		rec := doGet(e, path, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}
