package ports

import (
	"context"
	"time"

	domainauth "github.com/target/jobops-api/internal/domain/auth"
)

// TokenVerifier resolves an API bearer token into the session it stands for.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (domainauth.Session, error)
}

// TokenIssuer mints API bearer tokens for an existing user.
type TokenIssuer interface {
	Issue(sess domainauth.Session, ttl time.Duration) (string, error)
}
