// Package tokens issues and verifies HS256 API bearer tokens.
//
// A token carries the same caller identity as a browser session so that
// scripts and integrations can call the API without the OIDC flow.
package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/ports"
)

const (
	// DefaultIssuer is the iss claim used when none is configured.
	DefaultIssuer = "jobops-api"
	// DefaultTTL is applied when Issue is called with a non-positive ttl.
	DefaultTTL   = 24 * time.Hour
	minSecretLen = 32
)

// ErrInvalidToken is returned for any token that fails parsing or validation.
var ErrInvalidToken = errors.New("invalid token")

// Config configures a JWT codec.
type Config struct {
	Secret string
	Issuer string
	Now    func() time.Time
}

// Claims is the JWT body. Subject is the users.id.
type Claims struct {
	jwt.RegisteredClaims

	Username  string          `json:"username"`
	Email     string          `json:"email,omitempty"`
	FirstName string          `json:"given_name,omitempty"`
	LastName  string          `json:"family_name,omitempty"`
	Role      domainauth.Role `json:"role"`
}

// JWT implements ports.TokenIssuer and ports.TokenVerifier.
type JWT struct {
	secret []byte
	issuer string
	now    func() time.Time
}

var (
	_ ports.TokenIssuer   = (*JWT)(nil)
	_ ports.TokenVerifier = (*JWT)(nil)
)

// New creates a codec. The secret must be at least 32 bytes.
func New(cfg Config) (*JWT, error) {
	if len(cfg.Secret) < minSecretLen {
		return nil, fmt.Errorf("token secret must be at least %d bytes", minSecretLen)
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &JWT{secret: []byte(cfg.Secret), issuer: cfg.Issuer, now: cfg.Now}, nil
}

// Issue signs a token for sess valid for ttl. The session id becomes the jti;
// a new one is generated when sess has none.
func (j *JWT) Issue(sess domainauth.Session, ttl time.Duration) (string, error) {
	if sess.UserID == "" {
		return "", errors.New("session user id is required")
	}
	if !sess.Role.Valid() {
		return "", fmt.Errorf("session role %q is not valid", sess.Role)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	id := sess.ID
	if id == "" {
		id = uuid.NewString()
	}

	now := j.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Issuer:    j.issuer,
			Subject:   sess.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username:  sess.Username,
		Email:     sess.Email,
		FirstName: sess.FirstName,
		LastName:  sess.LastName,
		Role:      sess.Role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses raw and returns the session it carries.
func (j *JWT) Verify(_ context.Context, raw string) (domainauth.Session, error) {
	if raw == "" {
		return domainauth.Session{}, ErrInvalidToken
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return domainauth.Session{}, fmt.Errorf("%w: missing subject or role", ErrInvalidToken)
	}

	return domainauth.Session{
		ID:        claims.ID,
		UserID:    claims.Subject,
		Username:  claims.Username,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
