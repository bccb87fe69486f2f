// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/corpai/corp-agent-backend/internal/config"
	"github.com/corpai/corp-agent-backend/internal/handler"
	"github.com/corpai/corp-agent-backend/internal/middleware"
	"github.com/corpai/corp-agent-backend/internal/model"
)

// RegisterRoutes registers routes that carry no middleware at all.
// Currently that is only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the account endpoints under /auth. Credential
// endpoints get the token-bucket limiter; the plan catalogue gets the
// response cache; /auth/me and /auth/subscribe require a valid token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, o *handler.OAuthHandler, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	g := e.Group("/auth")
	g.POST("/register", a.Register, limiter)
	g.POST("/login", a.Login, limiter)
	g.GET("/subscription-plans", a.SubscriptionPlans, cache)

	g.GET("/google/login", o.Login("google"), limiter)
	g.GET("/google/callback", o.Callback("google"), limiter)
	g.GET("/github/login", o.Login("github"), limiter)
	g.GET("/github/callback", o.Callback("github"), limiter)

	auth := g.Group("", middleware.JWTAuth(a.Cfg.JWTSecret))
	auth.GET("/me", a.Me)
	auth.POST("/subscribe", a.Subscribe)
}

// RegisterTools registers the gated tool endpoints. Every tool route
// requires a token; each then adds its own role or plan gate.
func RegisterTools(e *echo.Echo, jwtSecret string) {
	tools := e.Group("/tools", middleware.JWTAuth(jwtSecret))

	tools.GET("/social-media", handler.SocialMediaTools,
		middleware.RequirePlan(model.PlanProfessional, model.PlanEnterprise))
	tools.GET("/finance/reports", handler.FinanceReports,
		middleware.RequireRole(model.RoleAdmin, model.RoleFinance))
}
