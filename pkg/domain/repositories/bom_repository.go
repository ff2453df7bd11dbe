package repositories

import (
	"context"

	"github.com/vsinha/bomgen/pkg/domain/entities"
)

// BomRepository persists generated Bom versions. A Bom exclusively owns
// its item tree; deleting a Bom cascades to its items.
type BomRepository interface {
	// NextVersion atomically allocates the next version number for an
	// order. Concurrent callers for the same order never receive the same
	// number.
	NextVersion(ctx context.Context, orderID string) (int, error)

	// Create persists a new Bom with its items. A (orderID, version)
	// collision is entities.ErrVersionConflict.
	Create(ctx context.Context, bom *entities.Bom) error

	// UpdateStatus persists a lifecycle transition on the header. Items
	// are immutable and never rewritten.
	UpdateStatus(ctx context.Context, bom *entities.Bom) error

	// GetByID returns a Bom or entities.ErrBomNotFound.
	GetByID(ctx context.Context, id string) (*entities.Bom, error)

	// GetByOrderVersion returns one version of an order's Bom or
	// entities.ErrBomNotFound.
	GetByOrderVersion(ctx context.Context, orderID string, version int) (*entities.Bom, error)

	// GetApproved returns the currently approved Bom for an order, or
	// entities.ErrBomNotFound when none is approved.
	GetApproved(ctx context.Context, orderID string) (*entities.Bom, error)

	// ListVersions returns all Bom versions for an order, newest first.
	ListVersions(ctx context.Context, orderID string) ([]*entities.Bom, error)
}
