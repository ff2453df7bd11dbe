package services

import (
	"context"
	"fmt"

	"github.com/vsinha/bomgen/pkg/domain/entities"
	"github.com/vsinha/bomgen/pkg/domain/repositories"
	"github.com/vsinha/bomgen/pkg/infrastructure/events"
)

// PartNumberAllocator issues unique sequential part numbers for newly
// created custom parts under the 700-series scheme ("710-0001"). The
// allocator owns no counter state itself; atomicity per category prefix is
// delegated to the injected SequenceStore. Each allocation is recorded on
// the category's event stream when an event store is provided.
type PartNumberAllocator struct {
	store  repositories.SequenceStore
	events events.EventStore
}

// NewPartNumberAllocator creates an allocator over a sequence store. The
// event store may be nil, in which case allocations are not recorded.
func NewPartNumberAllocator(store repositories.SequenceStore, eventStore events.EventStore) *PartNumberAllocator {
	return &PartNumberAllocator{store: store, events: eventStore}
}

// Allocate issues the next part number for a category prefix. Numbers are
// zero-padded to four digits and grow naturally past 9999.
func (a *PartNumberAllocator) Allocate(ctx context.Context, prefix string) (entities.PartNumber, error) {
	if prefix == "" {
		return "", fmt.Errorf("category prefix cannot be empty")
	}
	n, err := a.store.Next(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to allocate part number for %s: %w", prefix, err)
	}
	pn := entities.PartNumber(fmt.Sprintf("%s-%04d", prefix, n))

	if a.events != nil {
		// Best effort; the sequence has already advanced, so the number
		// stays allocated whether or not the event lands.
		_ = a.events.AppendEvent(ctx, prefix, events.NewPartNumberAllocatedEvent(pn, prefix))
	}
	return pn, nil
}
