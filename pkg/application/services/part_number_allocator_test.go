package services

import (
	"context"
	"sync"
	"testing"

	"github.com/vsinha/bomgen/pkg/infrastructure/events"
	"github.com/vsinha/bomgen/pkg/infrastructure/sequence"
)

func TestPartNumberAllocator_SequentialPerPrefix(t *testing.T) {
	allocator := NewPartNumberAllocator(sequence.NewMemoryStore(), nil)
	ctx := context.Background()

	first, err := allocator.Allocate(ctx, "710")
	if err != nil {
		t.Fatalf("Expected allocation to succeed: %v", err)
	}
	if first != "710-0001" {
		t.Errorf("Expected 710-0001, got %s", first)
	}

	second, err := allocator.Allocate(ctx, "710")
	if err != nil {
		t.Fatalf("Expected allocation to succeed: %v", err)
	}
	if second != "710-0002" {
		t.Errorf("Expected 710-0002, got %s", second)
	}

	// Categories count independently.
	other, err := allocator.Allocate(ctx, "720")
	if err != nil {
		t.Fatalf("Expected allocation to succeed: %v", err)
	}
	if other != "720-0001" {
		t.Errorf("Expected 720-0001, got %s", other)
	}
}

func TestPartNumberAllocator_EmptyPrefix(t *testing.T) {
	allocator := NewPartNumberAllocator(sequence.NewMemoryStore(), nil)
	if _, err := allocator.Allocate(context.Background(), ""); err == nil {
		t.Fatal("Expected error for empty prefix")
	}
}

func TestPartNumberAllocator_GrowsPastPadding(t *testing.T) {
	store := sequence.NewMemoryStore()
	store.Seed("710", 9999)
	allocator := NewPartNumberAllocator(store, nil)

	pn, err := allocator.Allocate(context.Background(), "710")
	if err != nil {
		t.Fatalf("Expected allocation to succeed: %v", err)
	}
	if pn != "710-10000" {
		t.Errorf("Expected numbers to grow past the padding, got %s", pn)
	}
}

func TestPartNumberAllocator_RecordsAllocationEvents(t *testing.T) {
	store := events.NewInMemoryEventStore()
	allocator := NewPartNumberAllocator(sequence.NewMemoryStore(), store)
	ctx := context.Background()

	pn, err := allocator.Allocate(ctx, "710")
	if err != nil {
		t.Fatalf("Expected allocation to succeed: %v", err)
	}

	// The category prefix is the stream id.
	stream, err := store.ReadEvents(ctx, "710", 0)
	if err != nil {
		t.Fatalf("Expected event read to succeed: %v", err)
	}
	if len(stream) != 1 {
		t.Fatalf("Expected 1 allocation event, got %d", len(stream))
	}
	if stream[0].Type() != events.PartNumberAllocatedEvent {
		t.Errorf("Expected %s event, got %s", events.PartNumberAllocatedEvent, stream[0].Type())
	}
	payload, ok := stream[0].Data().(events.PartNumberAllocated)
	if !ok {
		t.Fatalf("Expected PartNumberAllocated payload, got %T", stream[0].Data())
	}
	if payload.PartNumber != pn || payload.Category != "710" {
		t.Errorf("Expected payload for %s in category 710, got %+v", pn, payload)
	}
}

func TestPartNumberAllocator_ConcurrentUnique(t *testing.T) {
	allocator := NewPartNumberAllocator(sequence.NewMemoryStore(), nil)
	ctx := context.Background()

	const workers = 20
	const perWorker = 50

	var mu sync.Mutex
	seen := make(map[string]bool, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				pn, err := allocator.Allocate(ctx, "710")
				if err != nil {
					t.Errorf("Allocation failed: %v", err)
					return
				}
				mu.Lock()
				if seen[string(pn)] {
					t.Errorf("Duplicate part number %s", pn)
				}
				seen[string(pn)] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Errorf("Expected %d unique numbers, got %d", workers*perWorker, len(seen))
	}
}
