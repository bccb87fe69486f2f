package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corpai/corp-agent-backend/internal/apperr"
	"github.com/corpai/corp-agent-backend/internal/middleware"
)

// Tool endpoints gated by plan or role. The gates run as middleware, so by
// the time these handlers execute the caller is already entitled; they just
// answer with the tool payload.

// SocialMediaTools is available to professional and enterprise plans.
func SocialMediaTools(c echo.Context) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}
	return c.JSON(http.StatusOK, echo.Map{
		"tool": "social-media",
		"user": claims.Email(),
		"capabilities": []string{
			"post_scheduler", "engagement_analytics", "brand_monitoring",
		},
	})
}

// FinanceReports is restricted to the admin and finance roles.
func FinanceReports(c echo.Context) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}
	return c.JSON(http.StatusOK, echo.Map{
		"tool": "finance-reports",
		"user": claims.Email(),
		"reports": []string{
			"quarterly_summary", "expense_breakdown", "revenue_forecast",
		},
	})
}
