package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/bomgen/pkg/domain/entities"
	"github.com/vsinha/bomgen/pkg/domain/repositories"
)

// PartCatalog provides an in-memory part catalog implementation. It is
// safe for concurrent readers; in production the catalog is owned by an
// external subsystem and this implementation backs the CLI and tests.
type PartCatalog struct {
	mu    sync.RWMutex
	parts map[entities.PartNumber]entities.Part
}

// NewPartCatalog creates an in-memory part catalog
func NewPartCatalog(expectedParts int) *PartCatalog {
	return &PartCatalog{
		parts: make(map[entities.PartNumber]entities.Part, expectedParts),
	}
}

// Verify interface compliance
var _ repositories.PartCatalog = (*PartCatalog)(nil)

// GetPart returns the catalog record for a part number
func (c *PartCatalog) GetPart(ctx context.Context, partNumber entities.PartNumber) (*entities.Part, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	part, exists := c.parts[partNumber]
	c.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrPartNotFound, partNumber)
	}
	// Return a copy so callers cannot mutate shared catalog state.
	return &part, nil
}

// GetAllParts returns all catalog records
func (c *PartCatalog) GetAllParts(ctx context.Context) ([]*entities.Part, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	parts := make([]*entities.Part, 0, len(c.parts))
	for _, part := range c.parts {
		p := part
		parts = append(parts, &p)
	}
	return parts, nil
}

// LoadParts loads catalog records into the repository
func (c *PartCatalog) LoadParts(ctx context.Context, parts []*entities.Part) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, part := range parts {
		c.parts[part.PartNumber] = *part
	}
	return nil
}

// AddPart adds a single catalog record (test convenience)
func (c *PartCatalog) AddPart(part entities.Part) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parts[part.PartNumber] = part
}
