package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGithubAuthorizeURL(t *testing.T) {
	p := NewGithubProvider("client-id", "client-secret", "https://app.example.com/auth/github/callback")

	raw := p.AuthorizeURL("state-token")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "https://app.example.com/auth/github/callback", q.Get("redirect_uri"))
	assert.Equal(t, "read:user user:email", q.Get("scope"))
	assert.Equal(t, "state-token", q.Get("state"))
	// GitHub's authorize endpoint takes no response_type.
	assert.False(t, q.Has("response_type"))
}

func newGithubTestServer(t *testing.T, emailsJSON string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			_, _ = w.Write([]byte(`{"access_token":"at-456","token_type":"bearer"}`))
		case "/user":
			assert.Equal(t, "Bearer at-456", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"id":7,"name":"Bob","avatar_url":"https://img.example.com/b.png"}`))
		case "/user/emails":
			_, _ = w.Write([]byte(emailsJSON))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestGithubFetchProfilePublicEmail(t *testing.T) {
	// A public profile email wins outright; /user/emails is never needed,
	// so the sign-in survives even when that endpoint errors.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			_, _ = w.Write([]byte(`{"access_token":"at-456","token_type":"bearer"}`))
		case "/user":
			_, _ = w.Write([]byte(`{"id":7,"email":"bob@example.com","name":"Bob","avatar_url":"https://img.example.com/b.png"}`))
		case "/user/emails":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := NewGithubProvider("client-id", "client-secret", "https://app.example.com/auth/github/callback")
	p.conf.Endpoint.TokenURL = srv.URL + "/token"
	p.apiBase = srv.URL

	profile, err := p.FetchProfile(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", profile.Email)
	assert.Equal(t, "Bob", profile.Name)
}

func TestGithubFetchProfilePrimaryEmail(t *testing.T) {
	srv := newGithubTestServer(t, `[
		{"email":"spare@example.com","primary":false},
		{"email":"bob@example.com","primary":true}
	]`)
	defer srv.Close()

	p := NewGithubProvider("client-id", "client-secret", "https://app.example.com/auth/github/callback")
	p.conf.Endpoint.TokenURL = srv.URL + "/token"
	p.apiBase = srv.URL

	profile, err := p.FetchProfile(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "7", profile.ExternalID)
	assert.Equal(t, "bob@example.com", profile.Email)
	assert.Equal(t, "Bob", profile.Name)
	assert.Equal(t, "https://img.example.com/b.png", profile.Picture)
}

func TestGithubFetchProfileNoPrimaryEmail(t *testing.T) {
	srv := newGithubTestServer(t, `[
		{"email":"spare@example.com","primary":false}
	]`)
	defer srv.Close()

	p := NewGithubProvider("client-id", "client-secret", "https://app.example.com/auth/github/callback")
	p.conf.Endpoint.TokenURL = srv.URL + "/token"
	p.apiBase = srv.URL

	_, err := p.FetchProfile(context.Background(), "auth-code")
	assert.ErrorIs(t, err, ErrNoEmail)
}

func TestGithubFetchProfileExchangeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad_verification_code"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewGithubProvider("client-id", "client-secret", "https://app.example.com/auth/github/callback")
	p.conf.Endpoint.TokenURL = srv.URL + "/token"

	_, err := p.FetchProfile(context.Background(), "bad-code")
	assert.ErrorIs(t, err, ErrExchangeFailed)
}
