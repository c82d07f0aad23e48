// Package oidc authenticates jobops users against an OpenID Connect provider.
package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/ports"
	"golang.org/x/oauth2"
)

// ClaimMapping lists, per identity field, the claim names consulted in order.
// The first non-empty value wins.
type ClaimMapping struct {
	Username   []string
	Email      []string
	GivenName  []string
	FamilyName []string
	Groups     []string
}

// DefaultClaimMapping covers both the AD/ADFS claim shape and standard OIDC claims.
func DefaultClaimMapping() ClaimMapping {
	return ClaimMapping{
		Username:   []string{"samaccountname", "preferred_username", "sub"},
		Email:      []string{"mail", "email"},
		GivenName:  []string{"firstname", "given_name"},
		FamilyName: []string{"lastname", "family_name"},
		Groups:     []string{"memberof", "groups"},
	}
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	LogoutURL    string
	Claims       *ClaimMapping // optional, defaults to DefaultClaimMapping
	HTTPClient   *http.Client  // optional, defaults to a client with a 30s timeout
}

// DiscoveryDocument is the subset of the OIDC discovery document the provider reads.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

// Provider implements ports.AuthProvider using the authorization code flow.
type Provider struct {
	config     *oauth2.Config
	logoutURL  string
	claims     ClaimMapping
	httpClient *http.Client

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

var _ ports.AuthProvider = (*Provider)(nil)

// NewProvider runs discovery against cfg.DiscoveryURL and returns a ready provider.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	switch {
	case cfg.ClientID == "":
		return nil, errors.New("client ID is required")
	case cfg.ClientSecret == "":
		return nil, errors.New("client secret is required")
	case cfg.RedirectURL == "":
		return nil, errors.New("redirect URL is required")
	case cfg.DiscoveryURL == "":
		return nil, errors.New("discovery URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	claims := DefaultClaimMapping()
	if cfg.Claims != nil {
		claims = *cfg.Claims
	}

	ctx := gooidc.ClientContext(context.Background(), httpClient)
	op, err := gooidc.NewProvider(ctx, issuerFromDiscoveryURL(cfg.DiscoveryURL))
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint:     op.Endpoint(),
		},
		logoutURL:    cfg.LogoutURL,
		claims:       claims,
		httpClient:   httpClient,
		oidcProvider: op,
		verifier:     op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// LogoutURL returns the IdP end-session URL, or "" when none is configured.
func (p *Provider) LogoutURL() string { return p.logoutURL }

func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}
	state, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	// redirect_uri stays the configured one; the IdP matches it exactly.
	authURL := p.config.AuthCodeURL(state,
		gooidc.Nonce(nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return authURL, state, nonce, nil
}

func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	switch {
	case in.Code == "":
		return domainauth.Identity{}, errors.New("authorization code is required")
	case in.State == "":
		return domainauth.Identity{}, errors.New("state is required")
	case in.Nonce == "":
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	ctx = gooidc.ClientContext(ctx, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	id := domainauth.Identity{ExpiresAt: time.Now().Add(time.Hour)}
	if !token.Expiry.IsZero() {
		id.ExpiresAt = token.Expiry
	}

	if p.hasOpenIDScope() {
		claims, verifyErr := p.idTokenClaims(ctx, token, in.Nonce)
		if verifyErr != nil {
			return domainauth.Identity{}, fmt.Errorf("extract id_token: %w", verifyErr)
		}
		p.claims.apply(&id, claims)
	}

	if id.UserID == "" || id.Email == "" {
		claims, uiErr := p.userInfoClaims(ctx, token)
		if uiErr != nil {
			return domainauth.Identity{}, fmt.Errorf("get user info: %w", uiErr)
		}
		p.claims.apply(&id, claims)
	}

	if id.UserID == "" {
		return domainauth.Identity{}, errors.New("identity has no username claim")
	}
	return id, nil
}

func (p *Provider) idTokenClaims(ctx context.Context, tok *oauth2.Token, expectedNonce string) (map[string]any, error) {
	rawID, err := getIDTokenFromToken(tok)
	if err != nil {
		return nil, err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return nil, fmt.Errorf("verify id_token: %w", err)
	}
	if idTok.Nonce != expectedNonce {
		return nil, errors.New("invalid nonce")
	}
	claims := map[string]any{}
	if err := idTok.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parse id_token claims: %w", err)
	}
	return claims, nil
}

func (p *Provider) userInfoClaims(ctx context.Context, tok *oauth2.Token) (map[string]any, error) {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	claims := map[string]any{}
	if err := ui.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return claims, nil
}

// apply fills the empty fields of id from claims.
func (m ClaimMapping) apply(id *domainauth.Identity, claims map[string]any) {
	fill := func(dst *string, names []string) {
		if *dst == "" {
			*dst = firstString(claims, names)
		}
	}
	fill(&id.UserID, m.Username)
	fill(&id.Email, m.Email)
	fill(&id.FirstName, m.GivenName)
	fill(&id.LastName, m.FamilyName)
	if len(id.Groups) == 0 {
		id.Groups = firstStrings(claims, m.Groups)
	}
}

func firstString(claims map[string]any, names []string) string {
	for _, n := range names {
		if s, ok := claims[n].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// firstStrings reads a list claim. Some IdPs send a single group as a bare string.
func firstStrings(claims map[string]any, names []string) []string {
	for _, n := range names {
		switch v := claims[n].(type) {
		case string:
			if v != "" {
				return []string{v}
			}
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok && s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func issuerFromDiscoveryURL(u string) string {
	u = strings.TrimSuffix(u, "/")
	return strings.TrimSuffix(strings.TrimSuffix(u, "/.well-known/openid-configuration"), ".well-known/openid-configuration")
}

// generateRandomString returns a URL-safe random string of exactly length characters.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length], nil
}

func (p *Provider) hasOpenIDScope() bool {
	return slices.Contains(p.config.Scopes, "openid")
}

func getIDTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	s, ok := tok.Extra("id_token").(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
