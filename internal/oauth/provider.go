// Package oauth implements the provider-facing half of social sign-in: the
// state handshake that ties an authorize redirect to its callback, and the
// Google/GitHub adapters that turn an authorization code into a normalized
// profile. Account resolution stays out of this package; handlers own it.
package oauth

import (
	"context"
	"errors"
)

// Provider names as stored in users.oauth_provider.
const (
	ProviderGoogle = "google"
	ProviderGithub = "github"
)

// Profile is the normalized identity a provider attests after a successful
// code exchange. ExternalID is the provider-scoped stable id; Name and
// Picture may be empty.
type Profile struct {
	ExternalID string
	Email      string
	Name       string
	Picture    string
}

var (
	// ErrExchangeFailed covers a rejected or expired authorization code.
	ErrExchangeFailed = errors.New("oauth code exchange failed")
	// ErrNoEmail is returned when the provider yields no usable email.
	// Without an email the account cannot be resolved or created.
	ErrNoEmail = errors.New("oauth provider returned no usable email")
)

// Provider is one configured OAuth identity provider.
type Provider interface {
	// Name returns the provider key ("google", "github").
	Name() string
	// AuthorizeURL builds the provider's authorization redirect carrying
	// the given state token.
	AuthorizeURL(state string) string
	// FetchProfile exchanges the authorization code and fetches the
	// signed-in user's profile.
	FetchProfile(ctx context.Context, code string) (Profile, error)
}
