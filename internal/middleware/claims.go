// Package middleware provides the request-processing chain shared by the
// protected routes: bearer-token authentication, role and plan gates, the
// Redis token-bucket limiter on credential endpoints, a response cache for
// the plan catalogue, and request logging.
package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/corpai/corp-agent-backend/internal/utils"
)

// claimsKey is the context key under which JWTAuth stores the verified
// token claims for downstream gates and handlers.
const claimsKey = "auth_claims"

// SetClaims stores verified claims on the request context.
func SetClaims(c echo.Context, claims *utils.Claims) {
	c.Set(claimsKey, claims)
}

// GetClaims returns the verified claims placed by JWTAuth, or false when
// the route was not authenticated.
func GetClaims(c echo.Context) (*utils.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*utils.Claims)
	return claims, ok && claims != nil
}
