package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const ProviderGitHub = "github"

type GitHub struct {
	oauth   *oauth2.Config
	apiBase string
}

func NewGitHub(clientID, clientSecret, redirectURL string) *GitHub {
	return NewGitHubWithEndpoint(&oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"read:user", "user:email"},
		Endpoint:     github.Endpoint,
	}, "https://api.github.com")
}

// NewGitHubWithEndpoint allows pointing the user API elsewhere (GitHub
// Enterprise, tests).
func NewGitHubWithEndpoint(cfg *oauth2.Config, apiBase string) *GitHub {
	return &GitHub{oauth: cfg, apiBase: strings.TrimRight(apiBase, "/")}
}

func (g *GitHub) Name() string { return ProviderGitHub }

func (g *GitHub) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state)
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (g *GitHub) Identify(ctx context.Context, code string) (*Identity, error) {
	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchange, err)
	}
	client := g.oauth.Client(ctx, tok)

	var u githubUser
	if err := g.get(ctx, client, "/user", &u); err != nil {
		return nil, err
	}
	if u.ID == 0 {
		return nil, fmt.Errorf("%w: github user without id", ErrIdentity)
	}

	email := u.Email
	if email == "" {
		var emails []githubEmail
		if err := g.get(ctx, client, "/user/emails", &emails); err == nil {
			for _, e := range emails {
				if e.Primary && e.Verified {
					email = e.Email
					break
				}
			}
		}
	}

	name := u.Name
	if name == "" {
		name = u.Login
	}
	return &Identity{
		Provider:       ProviderGitHub,
		ProviderUserID: strconv.FormatInt(u.ID, 10),
		Email:          email,
		Name:           name,
		AvatarURL:      u.AvatarURL,
	}, nil
}

func (g *GitHub) get(ctx context.Context, client *http.Client, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiBase+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIdentity, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIdentity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: github %s returned %d", ErrIdentity, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode github %s: %v", ErrIdentity, path, err)
	}
	return nil
}
