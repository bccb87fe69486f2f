package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubAPIBase = "https://api.github.com"

// GithubProvider signs users in through GitHub. GitHub may hide the email
// on the /user resource; when it does, the adapter falls back to
// /user/emails and accepts only the address marked primary.
type GithubProvider struct {
	conf       *oauth2.Config
	apiBase    string
	httpClient *http.Client
}

// NewGithubProvider builds the GitHub adapter.
func NewGithubProvider(clientID, clientSecret, redirectURL string) *GithubProvider {
	return &GithubProvider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiBase:    githubAPIBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *GithubProvider) Name() string { return ProviderGithub }

// AuthorizeURL builds the consent redirect. GitHub's authorize endpoint
// takes no response_type parameter, so unlike Google the URL carries only
// client_id, redirect_uri, scope and state.
func (p *GithubProvider) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", p.conf.ClientID)
	q.Set("redirect_uri", p.conf.RedirectURL)
	q.Set("scope", "read:user user:email")
	q.Set("state", state)
	return p.conf.Endpoint.AuthURL + "?" + q.Encode()
}

type githubUser struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email   string `json:"email"`
	Primary bool   `json:"primary"`
}

// FetchProfile exchanges the code and reads /user. When the profile hides
// its email, the primary address from /user/emails stands in.
func (p *GithubProvider) FetchProfile(ctx context.Context, code string) (Profile, error) {
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	var u githubUser
	if err := p.getJSON(ctx, tok.AccessToken, "/user", &u); err != nil {
		return Profile{}, fmt.Errorf("fetch github user: %w", err)
	}

	email := u.Email
	if email == "" {
		var emails []githubEmail
		if err := p.getJSON(ctx, tok.AccessToken, "/user/emails", &emails); err != nil {
			return Profile{}, fmt.Errorf("fetch github emails: %w", err)
		}
		for _, e := range emails {
			if e.Primary {
				email = e.Email
				break
			}
		}
	}
	if email == "" {
		return Profile{}, ErrNoEmail
	}

	return Profile{
		ExternalID: strconv.FormatInt(u.ID, 10),
		Email:      email,
		Name:       u.Name,
		Picture:    u.AvatarURL,
	}, nil
}

func (p *GithubProvider) getJSON(ctx context.Context, accessToken, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ Provider = (*GithubProvider)(nil)
