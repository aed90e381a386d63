package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
)

var (
	ErrUnknownProvider = errors.New("auth: unknown provider")
	ErrExchange        = errors.New("auth: code exchange failed")
	ErrIdentity        = errors.New("auth: could not resolve identity")
)

// Identity is what a provider tells us about the signed-in account.
type Identity struct {
	Provider       string
	ProviderUserID string
	Email          string
	Name           string
	AvatarURL      string
}

// Provider is one OAuth sign-in option.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Identify(ctx context.Context, code string) (*Identity, error)
}

// Providers indexes the configured sign-in options by name.
type Providers map[string]Provider

func (p Providers) Get(name string) (Provider, error) {
	if prov, ok := p[name]; ok {
		return prov, nil
	}
	return nil, ErrUnknownProvider
}

// IsValidProvider reports whether name is a sign-in option we support at all,
// configured or not.
func IsValidProvider(name string) bool {
	return name == ProviderGitHub || name == ProviderGoogle
}

func RandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// SafeRedirect keeps only same-site relative paths, so the login flow cannot
// be used as an open redirect.
func SafeRedirect(target string) string {
	target = strings.TrimSpace(target)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return "/"
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return target
}
