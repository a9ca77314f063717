// Package events defines the observability events emitted by the crisis
// screening pipeline and the sink they are delivered to.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Name identifies an event type.
type Name string

const (
	// CrisisDetected fires for every admitted crisis response.
	CrisisDetected Name = "crisis_detected"
	// CrisisFallback fires when location resolution degraded to the
	// offline default.
	CrisisFallback Name = "crisis_fallback"
	// CrisisError fires when the pipeline failed and the safe fallback
	// response was returned.
	CrisisError Name = "crisis_error"
	// ThirdPartyDetected fires when the message expressed concern for
	// someone else.
	ThirdPartyDetected Name = "third_party_detected"
)

// Event is the envelope delivered to the sink.
type Event struct {
	EventID    uuid.UUID      `json:"event_id"`
	Name       Name           `json:"name"`
	Timestamp  time.Time      `json:"timestamp"`
	Properties map[string]any `json:"properties,omitempty"`
}

// New stamps a fresh envelope.
func New(name Name, properties map[string]any) Event {
	return Event{
		EventID:    uuid.New(),
		Name:       name,
		Timestamp:  time.Now().UTC(),
		Properties: properties,
	}
}

// Emitter accepts pipeline events. Implementations must not block request
// handling and must never fail the caller.
type Emitter interface {
	Emit(ctx context.Context, event Event)
}
