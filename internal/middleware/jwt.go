package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/corpai/corp-agent-backend/internal/apperr"
	"github.com/corpai/corp-agent-backend/internal/utils"
)

// JWTAuth returns a middleware that validates a Bearer access token and
// injects the typed claims into the request context. A missing header, a
// bad signature, an expired token and a token without a subject all yield
// the same generic 401 so callers learn nothing about which check failed.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return apperr.ErrUnauthenticated
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return apperr.ErrUnauthenticated.WithErr(err)
			}

			SetClaims(c, claims)
			return next(c)
		}
	}
}
