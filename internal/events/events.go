// Package events defines the domain events published after successful writes
// and the Publisher contract implemented by the AMQP client and the
// websocket notification hub.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cofrinho/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Type string

const (
	WeekSaved      Type = "week_saved"
	GoalCreated    Type = "goal_created"
	GoalUpdated    Type = "goal_updated"
	GoalAchieved   Type = "goal_achieved"
	QuizCompleted  Type = "quiz_completed"
	ProfileUpdated Type = "profile_updated"
)

// Event is the envelope sent over every transport.
type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	UserID     string          `json:"user_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

type WeekSavedPayload struct {
	WeekStart core.Date       `json:"week_start"`
	Category  core.Category   `json:"category"`
	Count     int             `json:"count"`
	Total     decimal.Decimal `json:"total"`
	Discarded []core.Category `json:"discarded,omitempty"`
}

type GoalPayload struct {
	Goal core.Goal `json:"goal"`
}

type QuizCompletedPayload struct {
	ContentType string `json:"content_type"`
	Score       int    `json:"score"`
	Total       int    `json:"total"`
	Awarded     int    `json:"awarded"`
	Points      int    `json:"points"`
}

type ProfileUpdatedPayload struct {
	Points int    `json:"points"`
	Level  string `json:"level"`
}

func New(t Type, userID string, payload any) (Event, error) {
	e := Event{
		ID:         uuid.NewString(),
		Type:       t,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("marshal %s payload: %w", t, err)
		}
		e.Payload = b
	}
	return e, nil
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("event %s has no payload", e.ID)
	}
	return json.Unmarshal(e.Payload, v)
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func FromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	if e.Type == "" || e.UserID == "" {
		return Event{}, errors.New("event missing type or user id")
	}
	return e, nil
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// HandlerFunc adapts an event handler to Publisher, delivering in-process.
type HandlerFunc func(ctx context.Context, e Event) error

func (f HandlerFunc) Publish(ctx context.Context, e Event) error { return f(ctx, e) }

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Emit builds and publishes an event. The write that produced it has already
// succeeded, so failures are logged and swallowed.
func Emit(ctx context.Context, p Publisher, t Type, userID string, payload any) {
	if p == nil {
		return
	}
	e, err := New(t, userID, payload)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build event", "type", t, "error", err)
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		slog.WarnContext(ctx, "Failed to publish event",
			"type", t,
			"event_id", e.ID,
			"user_id", userID,
			"error", err)
	}
}
