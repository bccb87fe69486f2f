package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/corpai/corp-agent-backend/internal/apperr"
)

// RequireRole returns a middleware that allows only the listed roles
// through. The role comes from the verified token claims, so the check
// costs no database access. Admins are not special here: a route that
// should admit admins lists "admin" explicitly.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	denied := apperr.ErrForbidden.WithMessage("Requires " + orList(roles) + " role")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := GetClaims(c)
			if !ok {
				return apperr.ErrUnauthenticated
			}
			if !allowed[claims.Role] {
				return denied
			}
			return next(c)
		}
	}
}

// RequirePlan returns a middleware that admits only users whose token
// carries one of the listed subscription plans. Admin tokens bypass the
// plan check entirely. The denial names the missing tier, which is safe to
// reveal once identity is established.
func RequirePlan(plans ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(plans))
	titled := make([]string, len(plans))
	for i, p := range plans {
		allowed[p] = true
		titled[i] = titleWord(p)
	}
	denied := apperr.ErrForbidden.WithMessage("Requires " + orList(titled) + " subscription")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := GetClaims(c)
			if !ok {
				return apperr.ErrUnauthenticated
			}
			if claims.IsAdmin {
				return next(c)
			}
			if !allowed[claims.Plan] {
				return denied
			}
			return next(c)
		}
	}
}

// orList joins names as "a", "a or b", "a, b or c".
func orList(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
	}
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
