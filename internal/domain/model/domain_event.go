package model

import "time"

// DomainEventType names a published lifecycle event. It doubles as the routing key.
type DomainEventType string

const (
	EventTaskStatusChanged DomainEventType = "task.status_changed"
	EventJobStatusChanged  DomainEventType = "job.status_changed"
	EventSweepCompleted    DomainEventType = "sweep.completed"
)

// DomainEvent is the envelope published to the event exchange.
type DomainEvent struct {
	ID         string          `json:"id"`
	Type       DomainEventType `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	ActorID    string          `json:"actor_id,omitempty"`
	Payload    any             `json:"payload"`
}
