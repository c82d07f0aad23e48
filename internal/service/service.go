// Package service implements the jobops use cases on top of the repository ports in
// internal/core. Services never import internal/data, internal/adapters or internal/http.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
	"github.com/target/jobops-api/internal/ports"
)

// Clock returns the current time. A nil Clock means time.Now in UTC.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// componentLogger returns base tagged with component, or a discarding logger when base is nil.
func componentLogger(base *slog.Logger, component string) *slog.Logger {
	if base == nil {
		return slog.New(slog.DiscardHandler)
	}
	return base.With("component", component)
}

// eventPublisher publishes best-effort domain events through an optional ports.EventPublisher.
type eventPublisher struct {
	pub    ports.EventPublisher
	logger *slog.Logger
	clock  Clock
}

func (p eventPublisher) publish(ctx context.Context, typ model.DomainEventType, actorID string, payload any) {
	if p.pub == nil {
		return
	}
	evt := model.DomainEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		OccurredAt: p.clock.now(),
		ActorID:    actorID,
		Payload:    payload,
	}
	// A broker outage must not fail a committed transition.
	if err := p.pub.Publish(ctx, evt); err != nil {
		p.logger.WarnContext(ctx, "publish domain event failed",
			"event_type", string(typ),
			"event_id", evt.ID,
			"error", err,
		)
	}
}

func requireJobManager(caller domainauth.Principal) error {
	if !domainauth.CanManageJobs(caller.Role) {
		return apperrors.Forbidden("Only admins and sales agents can manage jobs")
	}
	return nil
}

func requireAdmin(caller domainauth.Principal) error {
	if !domainauth.CanManageUsers(caller.Role) {
		return apperrors.Forbidden("Only admins can perform this action")
	}
	return nil
}

// validationErr converts a request Validate error into a validation AppError.
func validationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperrors.GetCode(err) != "" {
		return err
	}
	return apperrors.Validation(err.Error())
}
