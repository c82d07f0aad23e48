// Package devauth provides a config-driven AuthProvider for local development.
// It signs in every browser as one fixed identity whose groups drive the role mapper.
package devauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/ports"
)

// Config describes the dev identity. Username and Email are required.
type Config struct {
	Username        string
	FirstName       string
	LastName        string
	Email           string
	Groups          []string
	SessionDuration time.Duration // default 8h when zero
	Now             func() time.Time
}

// Provider implements ports.AuthProvider without an IdP round trip.
// Begin redirects straight to our own callback; Exchange returns the configured identity.
type Provider struct {
	mu       sync.Mutex
	identity domainauth.Identity
	ttl      time.Duration
	now      func() time.Time
}

var _ ports.AuthProvider = (*Provider)(nil)

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Username == "" {
		return nil, errors.New("dev auth: username is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: email is required")
	}
	ttl := cfg.SessionDuration
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Provider{
		identity: domainauth.Identity{
			UserID:    cfg.Username,
			FirstName: cfg.FirstName,
			LastName:  cfg.LastName,
			Email:     cfg.Email,
			Groups:    append([]string(nil), cfg.Groups...),
		},
		ttl: ttl,
		now: now,
	}, nil
}

// Begin returns the local callback URL along with fresh state and nonce values.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	q := url.Values{"code": {"dev"}, "state": {state}}
	return "/auth/callback?" + q.Encode(), state, nonce, nil
}

// Exchange returns the dev identity with an expiry of now plus the session duration.
// The callback handler has already validated state.
func (p *Provider) Exchange(_ context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.identity
	id.Groups = append([]string(nil), p.identity.Groups...)
	id.ExpiresAt = p.now().Add(p.ttl)
	return id, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
