package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/corpai/corp-agent-backend/internal/apperr"
	"github.com/corpai/corp-agent-backend/internal/config"
	"github.com/corpai/corp-agent-backend/internal/database"
	"github.com/corpai/corp-agent-backend/internal/handler"
	appmw "github.com/corpai/corp-agent-backend/internal/middleware"
	"github.com/corpai/corp-agent-backend/internal/model"
	"github.com/corpai/corp-agent-backend/internal/oauth"
	"github.com/corpai/corp-agent-backend/internal/repository"
	"github.com/corpai/corp-agent-backend/internal/router"
	"github.com/corpai/corp-agent-backend/internal/utils"
)

func main() {
	// A missing .env is fine in containerized deployments where the
	// environment is injected directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}

	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	subs := repository.NewSubscriptionRepo(db)

	if err := bootstrapAdmin(ctx, cfg, users, roles, subs); err != nil {
		cancel()
		log.Fatalf("bootstrap admin: %v", err)
	}
	cancel()

	// Redis backs the rate limiter, the plan-catalogue cache and the OAuth
	// state store. Without it the limiter and cache become pass-throughs and
	// states fall back to process memory.
	rdb := config.NewRedisClient()

	stateTTL := time.Duration(cfg.OAuthStateTTLMin) * time.Minute
	var states oauth.StateStore
	if rdb != nil {
		states = oauth.NewRedisStateStore(rdb, stateTTL)
	} else {
		log.Printf("redis unavailable: OAuth states held in process memory")
		states = oauth.NewMemoryStateStore(stateTTL)
	}

	var providers []oauth.Provider
	if cfg.GoogleClientID != "" {
		providers = append(providers, oauth.NewGoogleProvider(
			cfg.GoogleClientID, cfg.GoogleClientSecret,
			cfg.FrontendURL+"/auth/google/callback"))
	}
	if cfg.GithubClientID != "" {
		providers = append(providers, oauth.NewGithubProvider(
			cfg.GithubClientID, cfg.GithubClientSecret,
			cfg.FrontendURL+"/auth/github/callback"))
	}

	authHandler := handler.NewAuthHandler(cfg, users, roles, subs)
	oauthHandler := handler.NewOAuthHandler(cfg, users, roles, subs, states, providers...)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler
	e.Use(apperr.RequestID())
	e.Use(appmw.RequestLogger())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, oauthHandler, rdb)
	router.RegisterTools(e, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// bootstrapAdmin creates the operator account named by ADMIN_EMAIL and
// ADMIN_PASSWORD with the admin role and a year of the enterprise plan.
// It is a no-op when the variables are unset or the account already exists,
// so it can run on every start.
func bootstrapAdmin(ctx context.Context, cfg config.Config, users repository.UserStore, roles repository.RoleStore, subs repository.SubscriptionStore) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	if _, err := users.GetByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	role, err := roles.GetByName(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}

	u := model.User{
		Email:        cfg.AdminEmail,
		PasswordHash: &hash,
		FullName:     "Administrator",
		RoleID:       role.ID,
		IsActive:     true,
		IsVerified:   true,
	}
	uid, err := users.Create(ctx, &u)
	if err != nil {
		return err
	}

	plan, err := subs.GetPlanByName(ctx, model.PlanEnterprise)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = subs.Create(ctx, &model.UserSubscription{
		UserID:    uid,
		PlanID:    plan.ID,
		StartDate: now,
		EndDate:   now.AddDate(1, 0, 0),
		Active:    true,
	})
	if err != nil {
		return err
	}
	log.Printf("bootstrapped admin account %s", u.Email)
	return nil
}
