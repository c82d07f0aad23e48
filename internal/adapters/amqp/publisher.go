// Package amqp publishes lifecycle events to a RabbitMQ topic exchange.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rabbitmq/amqp091-go"
	"github.com/target/jobops-api/internal/domain/model"
	"github.com/target/jobops-api/internal/ports"
)

// DefaultExchange is the durable topic exchange events are routed through.
const DefaultExchange = "jobops.events"

// Channel is the subset of *amqp091.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Options configures a Publisher.
type Options struct {
	Exchange string
	AppID    string
	Logger   *slog.Logger
}

// Publisher writes each DomainEvent as a persistent JSON message whose routing
// key is the event type, so consumers can bind on patterns like "job.*".
type Publisher struct {
	mu       sync.Mutex
	ch       Channel
	conn     *amqp091.Connection
	exchange string
	appID    string
	logger   *slog.Logger
}

var _ ports.EventPublisher = (*Publisher)(nil)

// Dial connects to url, opens a channel and declares the exchange.
func Dial(url string, opts Options) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := NewPublisher(ch, opts)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewPublisher declares the exchange on ch and returns a publisher bound to it.
func NewPublisher(ch Channel, opts Options) (*Publisher, error) {
	if ch == nil {
		return nil, errors.New("amqp channel is required")
	}
	if opts.Exchange == "" {
		opts.Exchange = DefaultExchange
	}
	if opts.AppID == "" {
		opts.AppID = "jobops-api"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if err := ch.ExchangeDeclare(opts.Exchange, amqp091.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", opts.Exchange, err)
	}
	return &Publisher{
		ch:       ch,
		exchange: opts.Exchange,
		appID:    opts.AppID,
		logger:   opts.Logger.With("component", "amqp_publisher"),
	}, nil
}

// Publish sends evt to the exchange. Channels are not safe for concurrent
// publishing, so calls are serialized.
func (p *Publisher) Publish(ctx context.Context, evt model.DomainEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", evt.Type, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return errors.New("publisher is closed")
	}
	err = p.ch.PublishWithContext(ctx, p.exchange, string(evt.Type), false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    evt.ID,
		Timestamp:    evt.OccurredAt,
		Type:         string(evt.Type),
		AppId:        p.appID,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}
	p.logger.DebugContext(ctx, "event published", "event_type", string(evt.Type), "event_id", evt.ID)
	return nil
}

// IsConnected reports whether the underlying connection is still open.
// Publishers built from a bare channel report true until closed.
func (p *Publisher) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return false
	}
	return p.conn == nil || !p.conn.IsClosed()
}

// Close closes the channel and, when Dial opened it, the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return nil
	}
	err := p.ch.Close()
	p.ch = nil
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
		p.conn = nil
	}
	return err
}

// Noop discards events. It is used when no broker is configured.
type Noop struct{}

var _ ports.EventPublisher = Noop{}

func (Noop) Publish(context.Context, model.DomainEvent) error { return nil }
