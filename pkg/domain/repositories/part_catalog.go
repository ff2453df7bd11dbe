package repositories

import (
	"context"

	"github.com/vsinha/bomgen/pkg/domain/entities"
)

// PartCatalog provides read-only access to the shared part catalog. The
// catalog is owned by an external subsystem; the engine references parts
// by number only. Lookups may block on external I/O, so implementations
// must honor context cancellation.
type PartCatalog interface {
	// GetPart returns the catalog record for a part number, or
	// entities.ErrPartNotFound.
	GetPart(ctx context.Context, partNumber entities.PartNumber) (*entities.Part, error)
	GetAllParts(ctx context.Context) ([]*entities.Part, error)
	LoadParts(ctx context.Context, parts []*entities.Part) error
}
