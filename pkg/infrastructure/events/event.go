// Package events provides the lifecycle event stream. Every Bom state
// transition appends an event to its order's stream, so the full approval
// history of an order can be replayed after the fact.
package events

import (
	"context"
	"time"
)

// Event is a single immutable fact on a stream. Version is the event's
// 1-based position within its stream and is assigned by the store on
// append.
type Event interface {
	Type() string
	StreamID() string
	Data() any
	Timestamp() time.Time
	Version() int
}

// EventHandler receives events it subscribed to. Handle is invoked
// asynchronously after the append has been persisted.
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventStore appends and reads ordered event streams
type EventStore interface {
	AppendEvent(ctx context.Context, streamID string, event Event) error
	ReadEvents(ctx context.Context, streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(ctx context.Context, fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

// BaseEvent is the concrete event envelope shared by all event
// constructors in this package.
type BaseEvent struct {
	EventType    string
	Stream       string
	EventData    any
	EventTime    time.Time
	EventVersion int
}

func (e BaseEvent) Type() string { return e.EventType }

func (e BaseEvent) StreamID() string { return e.Stream }

func (e BaseEvent) Data() any { return e.EventData }

func (e BaseEvent) Timestamp() time.Time { return e.EventTime }

func (e BaseEvent) Version() int { return e.EventVersion }

// NewEvent wraps a payload in an envelope stamped with the current time.
// The version is provisional until the store appends the event.
func NewEvent(eventType, streamID string, data any) Event {
	return BaseEvent{
		EventType:    eventType,
		Stream:       streamID,
		EventData:    data,
		EventTime:    time.Now(),
		EventVersion: 1,
	}
}
