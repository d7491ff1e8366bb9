// Package events publishes build lifecycle notifications over NATS.
// Publishing is optional: without an events configuration callers use the
// no-op publisher and nothing leaves the process.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/eightytwo/idspispopd/internal/config"
	"github.com/eightytwo/idspispopd/internal/logfields"
)

// BuildEvent is the wire form of one completed build.
type BuildEvent struct {
	BuildID    string    `json:"build_id"`
	Outcome    string    `json:"outcome"`
	Pages      int       `json:"pages"`
	Items      int       `json:"items"`
	Warnings   int       `json:"warnings"`
	Errors     int       `json:"errors"`
	DurationMS int64     `json:"duration_ms"`
	Trigger    string    `json:"trigger"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher delivers build events.
type Publisher interface {
	PublishBuild(ctx context.Context, event *BuildEvent) error
	Close() error
}

// NoopPublisher drops everything.
type NoopPublisher struct{}

func (NoopPublisher) PublishBuild(context.Context, *BuildEvent) error { return nil }
func (NoopPublisher) Close() error                                    { return nil }

// NATSPublisher sends build events to one subject on a NATS server.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to the configured server.
func NewNATSPublisher(cfg config.EventsConfig) (*NATSPublisher, error) {
	if !cfg.PublishingEnabled() {
		return nil, fmt.Errorf("event publishing is not configured")
	}

	conn, err := nats.Connect(cfg.URL, nats.Name("idspispopd"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	slog.Info("event publisher connected", logfields.Addr(cfg.URL), logfields.Subject(cfg.Subject))
	return &NATSPublisher{conn: conn, subject: cfg.Subject}, nil
}

// PublishBuild marshals and sends one event. Core NATS publishes are fire
// and forget, so the connection is flushed to keep shutdown from dropping
// the final event.
func (p *NATSPublisher) PublishBuild(ctx context.Context, event *BuildEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal build event: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish build event: %w", err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush build event: %w", err)
	}

	slog.Debug("published build event", logfields.BuildID(event.BuildID), logfields.Subject(p.subject))
	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
