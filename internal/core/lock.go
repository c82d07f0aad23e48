// Package core defines the repository ports the jobops services depend on.
package core

import (
	"context"
	"time"
)

// LockRepository provides short-lived distributed locks across replicas.
type LockRepository interface {
	// TryLock atomically takes key for ttl. It returns false when another holder owns it.
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Unlock releases key. Releasing a lock that already expired is not an error.
	Unlock(ctx context.Context, key string) error

	// Health checks the health of the lock backend.
	Health(ctx context.Context) error
}
