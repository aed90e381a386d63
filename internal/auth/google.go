package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const ProviderGoogle = "google"

type GoogleClaims struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// ClaimsVerifier checks a raw ID token and returns its claims.
type ClaimsVerifier interface {
	VerifyClaims(ctx context.Context, rawIDToken string) (*GoogleClaims, error)
}

type oidcVerifier struct {
	verifier *oidc.IDTokenVerifier
}

func (v oidcVerifier) VerifyClaims(ctx context.Context, raw string) (*GoogleClaims, error) {
	tok, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	var claims GoogleClaims
	if err := tok.Claims(&claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

type Google struct {
	oauth    *oauth2.Config
	verifier ClaimsVerifier
}

// NewGoogle discovers Google's OIDC configuration. It needs network access.
func NewGoogle(ctx context.Context, clientID, clientSecret, redirectURL string) (*Google, error) {
	provider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, fmt.Errorf("auth: google oidc discovery: %w", err)
	}
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		Endpoint:     google.Endpoint,
	}
	return NewGoogleWithVerifier(cfg, oidcVerifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}), nil
}

func NewGoogleWithVerifier(cfg *oauth2.Config, verifier ClaimsVerifier) *Google {
	return &Google{oauth: cfg, verifier: verifier}
}

func (g *Google) Name() string { return ProviderGoogle }

// AuthCodeURL asks for offline access and always shows the consent screen.
func (g *Google) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

func (g *Google) Identify(ctx context.Context, code string) (*Identity, error) {
	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchange, err)
	}
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, fmt.Errorf("%w: missing id_token", ErrIdentity)
	}
	claims, err := g.verifier.VerifyClaims(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentity, err)
	}
	if claims.Sub == "" {
		return nil, fmt.Errorf("%w: token missing subject", ErrIdentity)
	}
	return &Identity{
		Provider:       ProviderGoogle,
		ProviderUserID: claims.Sub,
		Email:          claims.Email,
		Name:           claims.Name,
		AvatarURL:      claims.Picture,
	}, nil
}
