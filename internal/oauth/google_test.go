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

func TestGoogleAuthorizeURL(t *testing.T) {
	p := NewGoogleProvider("client-id", "client-secret", "https://app.example.com/auth/google/callback")

	raw := p.AuthorizeURL("state-token")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "https://app.example.com/auth/google/callback", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "state-token", q.Get("state"))
}

func TestGoogleFetchProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"at-123","token_type":"bearer"}`))
		case "/userinfo":
			assert.Equal(t, "Bearer at-123", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"sub":"g-42","email":"alice@example.com","name":"Alice","picture":"https://img.example.com/a.png"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := NewGoogleProvider("client-id", "client-secret", "https://app.example.com/auth/google/callback")
	p.conf.Endpoint.TokenURL = srv.URL + "/token"
	p.userinfoURL = srv.URL + "/userinfo"

	profile, err := p.FetchProfile(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "g-42", profile.ExternalID)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, "https://img.example.com/a.png", profile.Picture)
}

func TestGoogleFetchProfileExchangeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewGoogleProvider("client-id", "client-secret", "https://app.example.com/auth/google/callback")
	p.conf.Endpoint.TokenURL = srv.URL + "/token"

	_, err := p.FetchProfile(context.Background(), "bad-code")
	assert.ErrorIs(t, err, ErrExchangeFailed)
}

func TestGoogleFetchProfileMissingEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/token" {
			_, _ = w.Write([]byte(`{"access_token":"at-123","token_type":"bearer"}`))
			return
		}
		_, _ = w.Write([]byte(`{"sub":"g-42","name":"Alice"}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider("client-id", "client-secret", "https://app.example.com/auth/google/callback")
	p.conf.Endpoint.TokenURL = srv.URL + "/token"
	p.userinfoURL = srv.URL + "/userinfo"

	_, err := p.FetchProfile(context.Background(), "auth-code")
	assert.ErrorIs(t, err, ErrNoEmail)
}
