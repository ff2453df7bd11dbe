package events

import (
	"context"
	"testing"
	"time"

	"github.com/vsinha/bomgen/pkg/domain/entities"
)

func lifecycleBom(version int) *entities.Bom {
	return &entities.Bom{
		ID:        "bom-1",
		OrderID:   "ORD-1001",
		Version:   version,
		CreatedBy: "alice",
	}
}

func TestInMemoryEventStore_AppendAndRead(t *testing.T) {
	store := NewInMemoryEventStore()

	if err := store.AppendEvent(context.Background(), "ORD-1001", NewBomDraftCreatedEvent(lifecycleBom(1))); err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}
	if err := store.AppendEvent(context.Background(), "ORD-1001", NewBomSubmittedEvent(lifecycleBom(1), "alice")); err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}
	if err := store.AppendEvent(context.Background(), "ORD-1001", NewBomApprovedEvent(lifecycleBom(1))); err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}

	stream, err := store.ReadEvents(context.Background(), "ORD-1001", 0)
	if err != nil {
		t.Fatalf("Failed to read events: %v", err)
	}
	if len(stream) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(stream))
	}

	// Stream versions are assigned sequentially on append.
	for i, e := range stream {
		if e.Version() != i+1 {
			t.Errorf("Expected version %d, got %d", i+1, e.Version())
		}
		if e.StreamID() != "ORD-1001" {
			t.Errorf("Expected stream ORD-1001, got %s", e.StreamID())
		}
	}
	if stream[0].Type() != BomDraftCreatedEvent || stream[2].Type() != BomApprovedEvent {
		t.Errorf("Unexpected event ordering: %s .. %s", stream[0].Type(), stream[2].Type())
	}

	payload, ok := stream[0].Data().(BomDraftCreated)
	if !ok {
		t.Fatalf("Expected BomDraftCreated payload, got %T", stream[0].Data())
	}
	if payload.OrderID != "ORD-1001" || payload.CreatedBy != "alice" {
		t.Errorf("Unexpected payload: %+v", payload)
	}
}

func TestInMemoryEventStore_ReadFromVersion(t *testing.T) {
	store := NewInMemoryEventStore()
	for i := 1; i <= 3; i++ {
		if err := store.AppendEvent(context.Background(), "ORD-1001", NewBomDraftCreatedEvent(lifecycleBom(i))); err != nil {
			t.Fatalf("Failed to append event: %v", err)
		}
	}

	tail, err := store.ReadEvents(context.Background(), "ORD-1001", 3)
	if err != nil {
		t.Fatalf("Failed to read events: %v", err)
	}
	if len(tail) != 1 || tail[0].Version() != 3 {
		t.Errorf("Expected only version 3, got %v", tail)
	}

	past, err := store.ReadEvents(context.Background(), "ORD-1001", 9)
	if err != nil || len(past) != 0 {
		t.Errorf("Expected empty read past the stream end, got %v err=%v", past, err)
	}

	missing, err := store.ReadEvents(context.Background(), "ORD-9999", 0)
	if err != nil || len(missing) != 0 {
		t.Errorf("Expected empty read for unknown stream, got %v err=%v", missing, err)
	}
}

func TestInMemoryEventStore_ReadAllEvents(t *testing.T) {
	store := NewInMemoryEventStore()
	if err := store.AppendEvent(context.Background(), "ORD-1001", NewBomDraftCreatedEvent(lifecycleBom(1))); err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}
	if err := store.AppendEvent(context.Background(), "ORD-2002", NewBomDraftCreatedEvent(lifecycleBom(1))); err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}

	all, err := store.ReadAllEvents(context.Background(), 0)
	if err != nil {
		t.Fatalf("Failed to read all events: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 events across streams, got %d", len(all))
	}

	rest, err := store.ReadAllEvents(context.Background(), 1)
	if err != nil || len(rest) != 1 {
		t.Errorf("Expected 1 event from position 1, got %v err=%v", rest, err)
	}
}

type capturingHandler struct {
	got chan Event
}

func (h *capturingHandler) Handle(event Event) error {
	h.got <- event
	return nil
}

func (h *capturingHandler) CanHandle(eventType string) bool {
	return eventType == BomApprovedEvent
}

func TestInMemoryEventStore_Subscribe(t *testing.T) {
	store := NewInMemoryEventStore()
	handler := &capturingHandler{got: make(chan Event, 1)}

	if err := store.Subscribe([]string{BomApprovedEvent}, handler); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	// Not subscribed to drafts; must not be delivered.
	if err := store.AppendEvent(context.Background(), "ORD-1001", NewBomDraftCreatedEvent(lifecycleBom(1))); err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}
	if err := store.AppendEvent(context.Background(), "ORD-1001", NewBomApprovedEvent(lifecycleBom(1))); err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}

	select {
	case e := <-handler.got:
		if e.Type() != BomApprovedEvent {
			t.Errorf("Expected approval event, got %s", e.Type())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for subscribed event")
	}

	if err := store.Unsubscribe(handler); err != nil {
		t.Fatalf("Failed to unsubscribe: %v", err)
	}
	if err := store.AppendEvent(context.Background(), "ORD-1001", NewBomApprovedEvent(lifecycleBom(2))); err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}
	select {
	case e := <-handler.got:
		t.Errorf("Expected no delivery after unsubscribe, got %s", e.Type())
	case <-time.After(100 * time.Millisecond):
	}
}
