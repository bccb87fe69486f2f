package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/corpai/corp-agent-backend/internal/apperr"
	"github.com/corpai/corp-agent-backend/internal/config"
	"github.com/corpai/corp-agent-backend/internal/model"
	"github.com/corpai/corp-agent-backend/internal/oauth"
	"github.com/corpai/corp-agent-backend/internal/queue"
	"github.com/corpai/corp-agent-backend/internal/repository"
	queue_publisher "github.com/corpai/corp-agent-backend/internal/service"
	"github.com/corpai/corp-agent-backend/internal/utils"
)

// OAuthHandler implements the social sign-in flows: the authorize redirect
// that mints a state token, and the callback that exchanges the code,
// resolves or creates the account and hands the browser a session cookie.
type OAuthHandler struct {
	Cfg       config.Config
	Users     repository.UserStore
	Roles     repository.RoleStore
	Subs      repository.SubscriptionStore
	States    oauth.StateStore
	Providers map[string]oauth.Provider
}

func NewOAuthHandler(cfg config.Config, u repository.UserStore, r repository.RoleStore, s repository.SubscriptionStore, states oauth.StateStore, providers ...oauth.Provider) *OAuthHandler {
	byName := make(map[string]oauth.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &OAuthHandler{Cfg: cfg, Users: u, Roles: r, Subs: s, States: states, Providers: byName}
}

// Login issues a state token and redirects the browser to the provider's
// consent page.
func (h *OAuthHandler) Login(providerName string) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := h.Providers[providerName]
		if !ok {
			return echo.ErrNotFound
		}
		state, err := h.States.Issue(c.Request().Context(), p.Name())
		if err != nil {
			return apperr.Internal(err)
		}
		return c.Redirect(http.StatusTemporaryRedirect, p.AuthorizeURL(state))
	}
}

// Callback completes the handshake: it consumes the state token, exchanges
// the code for a profile and signs the resolved account in. Provider-side
// failures all collapse into one generic 400 so the response leaks nothing
// about which step broke; the cause goes to the log under the request id.
func (h *OAuthHandler) Callback(providerName string) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := h.Providers[providerName]
		if !ok {
			return echo.ErrNotFound
		}

		state := c.QueryParam("state")
		code := c.QueryParam("code")
		if state == "" || code == "" {
			return apperr.ErrOAuthStateInvalid
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
		defer cancel()

		valid, err := h.States.Verify(ctx, p.Name(), state)
		if err != nil {
			return apperr.Internal(err)
		}
		if !valid {
			return apperr.ErrOAuthStateInvalid
		}

		profile, err := p.FetchProfile(ctx, code)
		if err != nil {
			return apperr.ErrOAuthFailed.WithErr(err)
		}

		u, err := h.resolveAccount(ctx, p.Name(), profile)
		if err != nil {
			return err
		}
		if !u.IsActive {
			return apperr.ErrAccountInactive
		}

		role, err := h.Roles.GetByID(ctx, u.RoleID)
		if err != nil {
			return apperr.Internal(err)
		}

		var planName string
		if _, plan, err := h.Subs.ActiveForUser(ctx, u.ID, time.Now().UTC()); err == nil {
			planName = plan.Name
		} else if !errors.Is(err, sql.ErrNoRows) {
			return apperr.Internal(err)
		}

		access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.Email, role.Name,
			role.Name == model.RoleAdmin, planName, h.Cfg.AccessTTLMin)
		if err != nil {
			return apperr.Internal(err)
		}

		// The browser lands back on the app with the session in an HTTP-only
		// cookie; the token never appears in a URL.
		c.SetCookie(&http.Cookie{
			Name:     "access_token",
			Value:    "Bearer " + access.Token,
			Path:     "/",
			MaxAge:   3600,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		return c.Redirect(http.StatusSeeOther, h.Cfg.FrontendURL+"/dashboard")
	}
}

// resolveAccount maps a provider profile onto a local account. Order
// matters: a returning identity wins, then an email match links the
// provider to the existing account, and only then is a fresh passwordless
// account created.
func (h *OAuthHandler) resolveAccount(ctx context.Context, provider string, profile oauth.Profile) (model.User, error) {
	var name, picture *string
	if profile.Name != "" {
		name = &profile.Name
	}
	if profile.Picture != "" {
		picture = &profile.Picture
	}

	u, err := h.Users.GetByOAuth(ctx, provider, profile.ExternalID)
	if err == nil {
		if err := h.Users.RefreshOAuthProfile(ctx, u.ID, name, picture); err != nil {
			log.Printf("oauth: refreshing profile for user %d failed: %v", u.ID, err)
		}
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperr.Internal(err)
	}

	u, err = h.Users.GetByEmail(ctx, profile.Email)
	if err == nil {
		if err := h.Users.LinkOAuth(ctx, u.ID, provider, profile.ExternalID, name, picture); err != nil {
			return model.User{}, apperr.Internal(err)
		}
		return h.Users.GetByID(ctx, u.ID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperr.Internal(err)
	}

	role, err := h.Roles.GetByName(ctx, model.RoleUser)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, apperr.ErrRoleConfiguration
		}
		return model.User{}, apperr.Internal(err)
	}

	prov := provider
	ext := profile.ExternalID
	nu := model.User{
		Email:             repository.NormalizeEmail(profile.Email),
		FullName:          profile.Name,
		RoleID:            role.ID,
		OAuthProvider:     &prov,
		OAuthID:           &ext,
		ProfilePictureURL: picture,
		IsActive:          true,
		// The provider attested the email, so the account starts verified.
		IsVerified: true,
	}
	uid, err := h.Users.Create(ctx, &nu)
	if err != nil {
		return model.User{}, apperr.Internal(err)
	}

	h.grantBasicPlanFor(ctx, uid)

	_ = queue_publisher.PublishUserRegistered(ctx, queue.UserRegisteredEvent{
		UserID:       uid,
		Email:        nu.Email,
		Role:         role.Name,
		Provider:     provider,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return h.Users.GetByID(ctx, uid)
}

// grantBasicPlanFor mirrors the free-tier grant of password registration.
func (h *OAuthHandler) grantBasicPlanFor(ctx context.Context, userID uint64) {
	plan, err := h.Subs.GetPlanByName(ctx, model.PlanBasic)
	if err != nil {
		log.Printf("oauth: basic plan unavailable for user %d: %v", userID, err)
		return
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
		log.Printf("oauth: granting basic plan to user %d failed: %v", userID, err)
	}
}
