package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is the envelope delivered to every listener.
// Events are immutable once constructed.
type Event struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Type is the event type from the closed set in types.go.
	Type Type

	// Payload is the type-specific payload struct owned by the emitting
	// package. Listeners assert it back to the concrete type.
	Payload any

	// Meta carries standard information attached to every event.
	Meta Meta
}

// Meta is the standard metadata block on an event.
type Meta struct {
	// Timestamp is when the event was constructed.
	Timestamp time.Time

	// Category is assigned from the type table at construction time.
	Category Category

	// Extra holds optional emitter-supplied annotations (source tags,
	// correlation hints). Nil for most events.
	Extra map[string]any
}

// New constructs an event envelope for the given type and payload.
func New(t Type, payload any) Event {
	return Event{
		ID:      uuid.New().String(),
		Type:    t,
		Payload: payload,
		Meta: Meta{
			Timestamp: time.Now(),
			Category:  CategoryOf(t),
		},
	}
}

// NewWithExtra constructs an event with emitter-supplied annotations.
func NewWithExtra(t Type, payload any, extra map[string]any) Event {
	e := New(t, payload)
	e.Meta.Extra = extra
	return e
}
