// Package events publishes domain events (field added, loan decided, alert
// resolved, demo reset) to the application log or to an SQS queue.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Kind names a domain event.
type Kind string

const (
	KindSessionStarted  Kind = "session.started"
	KindSessionEnded    Kind = "session.ended"
	KindFieldAdded      Kind = "field.added"
	KindLoanDecided     Kind = "loan.decided"
	KindAlertResolved   Kind = "alert.resolved"
	KindSettingsUpdated Kind = "settings.updated"
	KindDemoReset       Kind = "demo.reset"
)

// Event is one domain occurrence.
type Event struct {
	ID         string         `json:"id"`
	Kind       Kind           `json:"kind"`
	SessionID  string         `json:"session_id"`
	ResourceID string         `json:"resource_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

// New builds an event with a time-ordered id.
func New(kind Kind, sessionID, resourceID string, occurredAt time.Time, data map[string]any) Event {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return Event{
		ID:         "evt_" + id.String(),
		Kind:       kind,
		SessionID:  sessionID,
		ResourceID: resourceID,
		OccurredAt: occurredAt.UTC(),
		Data:       data,
	}
}

// Publisher delivers events. Publishing is best effort: callers log failures
// and never roll back the state change that produced the event.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// LogPublisher writes events to the structured log.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher. A nil logger uses slog.Default().
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the event at info level.
func (p *LogPublisher) Publish(ctx context.Context, e Event) error {
	p.logger.InfoContext(ctx, "domain event",
		"event_id", e.ID,
		"kind", string(e.Kind),
		"session_id", e.SessionID,
		"resource_id", e.ResourceID,
		"data", e.Data,
	)
	return nil
}

// Emit publishes e and logs a warning on failure.
func Emit(ctx context.Context, p Publisher, logger *slog.Logger, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.WarnContext(ctx, "failed to publish event",
			"kind", string(e.Kind),
			"event_id", e.ID,
			"error", err,
		)
	}
}
