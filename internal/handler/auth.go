// Package handler contains the HTTP handlers. Handlers orchestrate the
// stores directly and return apperr values; all HTTP error formatting
// happens in the central error handler.
package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/corpai/corp-agent-backend/internal/apperr"
	"github.com/corpai/corp-agent-backend/internal/config"
	"github.com/corpai/corp-agent-backend/internal/middleware"
	"github.com/corpai/corp-agent-backend/internal/model"
	"github.com/corpai/corp-agent-backend/internal/queue"
	"github.com/corpai/corp-agent-backend/internal/repository"
	queue_publisher "github.com/corpai/corp-agent-backend/internal/service"
	"github.com/corpai/corp-agent-backend/internal/utils"
)

// AuthHandler bundles dependencies for the credential and account
// endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users repository.UserStore
	Roles repository.RoleStore
	Subs  repository.SubscriptionStore
}

func NewAuthHandler(cfg config.Config, u repository.UserStore, r repository.RoleStore, s repository.SubscriptionStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Roles: r, Subs: s}
}

// ----- DTOs -----

type registerReq struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	CompanyName     string `json:"company_name"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type subscribeReq struct {
	PlanID uint64 `json:"plan_id"`
}

// authResp is the token envelope shared by register, login and me. Me
// returns it with an empty access_token since the caller already holds one.
type authResp struct {
	AccessToken         string     `json:"access_token"`
	TokenType           string     `json:"token_type"`
	UserID              uint64     `json:"user_id"`
	Email               string     `json:"email"`
	Role                string     `json:"role"`
	SubscriptionPlan    string     `json:"subscription_plan,omitempty"`
	SubscriptionEndDate *time.Time `json:"subscription_end_date,omitempty"`
}

type subscribeResp struct {
	Plan    string    `json:"plan"`
	Active  bool      `json:"active"`
	EndDate time.Time `json:"end_date"`
}

type planResp struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"duration_days"`
	Features     string  `json:"features"`
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Register creates a password account, grants the free basic plan and
// returns a token so the client is signed in immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	req.Email = repository.NormalizeEmail(req.Email)
	if !emailRe.MatchString(req.Email) {
		return apperr.Validation("A valid email is required")
	}
	if ok, reason := utils.ValidatePassword(req.Password); !ok {
		return apperr.Validation(reason)
	}
	if req.Password != req.ConfirmPassword {
		return apperr.Validation("Passwords do not match")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	role, err := h.Roles.GetByName(ctx, model.RoleUser)
	if err != nil {
		// The default role is seeded at startup; losing it is a deployment
		// fault, not a user error.
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrRoleConfiguration
		}
		return apperr.Internal(err)
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return apperr.Internal(err)
	}

	u := model.User{
		Email:        req.Email,
		PasswordHash: &hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		CompanyName:  strings.TrimSpace(req.CompanyName),
		RoleID:       role.ID,
		IsActive:     true,
	}
	u.FullName = strings.TrimSpace(u.FirstName + " " + u.LastName)

	uid, err := h.Users.Create(ctx, &u)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return apperr.ErrEmailExists
		}
		return apperr.Internal(err)
	}

	// The free tier is granted best effort. An account without it can still
	// sign in and subscribe, so a missing basic plan only gets a log line.
	planName, endDate := h.grantBasicPlan(ctx, uid)

	_ = queue_publisher.PublishUserRegistered(ctx, queue.UserRegisteredEvent{
		UserID:       uid,
		Email:        u.Email,
		Role:         role.Name,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	})

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.Email, role.Name,
		role.Name == model.RoleAdmin, planName, h.Cfg.AccessTTLMin)
	if err != nil {
		return apperr.Internal(err)
	}

	return c.JSON(http.StatusOK, authResp{
		AccessToken:         access.Token,
		TokenType:           "bearer",
		UserID:              uid,
		Email:               u.Email,
		Role:                role.Name,
		SubscriptionPlan:    planName,
		SubscriptionEndDate: endDate,
	})
}

// grantBasicPlan creates the free-tier grant for a new account. Returns the
// plan name and end date when granted, zero values otherwise.
func (h *AuthHandler) grantBasicPlan(ctx context.Context, userID uint64) (string, *time.Time) {
	plan, err := h.Subs.GetPlanByName(ctx, model.PlanBasic)
	if err != nil {
		log.Printf("register: basic plan unavailable for user %d: %v", userID, err)
		return "", nil
	}
	now := time.Now().UTC()
	sub := model.UserSubscription{
		UserID:    userID,
		PlanID:    plan.ID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, plan.DurationDays),
		Active:    true,
	}
	if _, err := h.Subs.Create(ctx, &sub); err != nil {
		log.Printf("register: granting basic plan to user %d failed: %v", userID, err)
		return "", nil
	}
	return plan.Name, &sub.EndDate
}

// Login verifies credentials and issues a fresh token. A missing account, a
// passwordless account and a wrong password all cost one bcrypt comparison
// and collapse into the same generic 401, so responses reveal nothing about
// which emails exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	req.Email = repository.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return apperr.Validation("Email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return apperr.Internal(err)
	}

	var storedHash string
	if err == nil && u.HasPassword() {
		storedHash = *u.PasswordHash
	}
	if !utils.VerifyPasswordOrDummy(storedHash, req.Password) {
		return apperr.ErrInvalidCredentials
	}
	if !u.IsActive {
		return apperr.ErrAccountInactive
	}

	return h.issueFor(c, ctx, &u, http.StatusOK)
}

// Me returns the authenticated user's profile and current entitlement. The
// access_token field is intentionally blank: the caller already holds the
// token it authenticated with.
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, claims.Email())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Account deleted after the token was issued.
			return apperr.ErrUnauthenticated
		}
		return apperr.Internal(err)
	}
	if !u.IsActive {
		return apperr.ErrAccountInactive
	}

	role, err := h.Roles.GetByID(ctx, u.RoleID)
	if err != nil {
		return apperr.Internal(err)
	}

	resp := authResp{
		TokenType: "bearer",
		UserID:    u.ID,
		Email:     u.Email,
		Role:      role.Name,
	}
	if sub, plan, err := h.Subs.ActiveForUser(ctx, u.ID, time.Now().UTC()); err == nil {
		resp.SubscriptionPlan = plan.Name
		resp.SubscriptionEndDate = &sub.EndDate
	} else if !errors.Is(err, sql.ErrNoRows) {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Subscribe grants the authenticated user a plan. Subscribing again to a
// plan that is already active returns the existing grant unchanged, so
// retries and double-clicks cannot stack grants.
func (h *AuthHandler) Subscribe(c echo.Context) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}

	var req subscribeReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if req.PlanID == 0 {
		return apperr.ErrMissingPlanID
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, claims.Email())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrUnauthenticated
		}
		return apperr.Internal(err)
	}

	plan, err := h.Subs.GetPlanByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrPlanNotFound
		}
		return apperr.Internal(err)
	}

	now := time.Now().UTC()
	if existing, err := h.Subs.ActiveForUserAndPlan(ctx, u.ID, plan.ID, now); err == nil {
		return c.JSON(http.StatusOK, subscribeResp{
			Plan: plan.Name, Active: true, EndDate: existing.EndDate,
		})
	} else if !errors.Is(err, sql.ErrNoRows) {
		return apperr.Internal(err)
	}

	sub := model.UserSubscription{
		UserID:    u.ID,
		PlanID:    plan.ID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, plan.DurationDays),
		Active:    true,
	}
	if _, err := h.Subs.Create(ctx, &sub); err != nil {
		return apperr.Internal(err)
	}

	_ = queue_publisher.PublishSubscriptionActivated(ctx, queue.SubscriptionActivatedEvent{
		UserID:      u.ID,
		Email:       u.Email,
		Plan:        plan.Name,
		EndDate:     sub.EndDate.Format(time.RFC3339),
		ActivatedAt: now.Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, subscribeResp{
		Plan: plan.Name, Active: true, EndDate: sub.EndDate,
	})
}

// SubscriptionPlans returns the public plan catalogue.
func (h *AuthHandler) SubscriptionPlans(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	plans, err := h.Subs.ListPlans(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	out := make([]planResp, 0, len(plans))
	for _, p := range plans {
		out = append(out, planResp{
			ID: p.ID, Name: p.Name, Price: p.Price,
			DurationDays: p.DurationDays, Features: p.Features,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// issueFor signs a token for the user and writes the auth envelope. The
// plan claim reflects the grant active at issue time; entitlement changes
// after that take effect on the next login.
func (h *AuthHandler) issueFor(c echo.Context, ctx context.Context, u *model.User, status int) error {
	role, err := h.Roles.GetByID(ctx, u.RoleID)
	if err != nil {
		return apperr.Internal(err)
	}

	var planName string
	var endDate *time.Time
	if sub, plan, err := h.Subs.ActiveForUser(ctx, u.ID, time.Now().UTC()); err == nil {
		planName = plan.Name
		endDate = &sub.EndDate
	} else if !errors.Is(err, sql.ErrNoRows) {
		return apperr.Internal(err)
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.Email, role.Name,
		role.Name == model.RoleAdmin, planName, h.Cfg.AccessTTLMin)
	if err != nil {
		return apperr.Internal(err)
	}

	return c.JSON(status, authResp{
		AccessToken:         access.Token,
		TokenType:           "bearer",
		UserID:              u.ID,
		Email:               u.Email,
		Role:                role.Name,
		SubscriptionPlan:    planName,
		SubscriptionEndDate: endDate,
	})
}
