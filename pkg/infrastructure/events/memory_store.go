package events

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryEventStore keeps per-stream event logs under a single RW lock.
// Subscribers are notified asynchronously, so an append never blocks on a
// slow handler.
type InMemoryEventStore struct {
	mu          sync.RWMutex
	streams     map[string][]Event
	subscribers map[string][]EventHandler
	allEvents   []Event
}

// NewInMemoryEventStore creates an empty in-memory event store
func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
	}
}

// Verify interface compliance
var _ EventStore = (*InMemoryEventStore)(nil)

// AppendEvent appends an event to its stream, stamping it with the next
// version number for that stream.
func (s *InMemoryEventStore) AppendEvent(ctx context.Context, streamID string, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stamped := BaseEvent{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: len(s.streams[streamID]) + 1,
	}

	s.streams[streamID] = append(s.streams[streamID], stamped)
	s.allEvents = append(s.allEvents, stamped)

	go s.notifySubscribers(stamped)

	return nil
}

// ReadEvents returns a stream's events starting at fromVersion. Versions
// below 1 are clamped, and an unknown stream reads as empty.
func (s *InMemoryEventStore) ReadEvents(ctx context.Context, streamID string, fromVersion int) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[streamID]
	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(stream) {
		return []Event{}, nil
	}

	return stream[fromVersion-1:], nil
}

// ReadAllEvents returns events across all streams in global append order,
// starting at fromPosition.
func (s *InMemoryEventStore) ReadAllEvents(ctx context.Context, fromPosition int) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}
	if fromPosition >= len(s.allEvents) {
		return []Event{}, nil
	}

	return s.allEvents[fromPosition:], nil
}

// Subscribe registers a handler for the given event types
func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}

	return nil
}

// Unsubscribe removes a handler from every event type it subscribed to
func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for eventType, handlers := range s.subscribers {
		kept := handlers[:0:0]
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		s.subscribers[eventType] = kept
	}

	return nil
}

func (s *InMemoryEventStore) notifySubscribers(event Event) {
	s.mu.RLock()
	handlers := s.subscribers[event.Type()]
	s.mu.RUnlock()

	for _, handler := range handlers {
		if !handler.CanHandle(event.Type()) {
			continue
		}
		go func(h EventHandler) {
			if err := h.Handle(event); err != nil {
				fmt.Printf("Error handling event %s: %v\n", event.Type(), err)
			}
		}(handler)
	}
}
