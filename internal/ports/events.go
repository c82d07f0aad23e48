package ports

import (
	"context"

	"github.com/target/jobops-api/internal/domain/model"
)

// EventPublisher delivers lifecycle events to downstream consumers.
// Publishing is best effort; callers log failures and carry on.
type EventPublisher interface {
	Publish(ctx context.Context, evt model.DomainEvent) error
}
