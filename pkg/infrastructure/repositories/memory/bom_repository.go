package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/bomgen/pkg/domain/entities"
	"github.com/vsinha/bomgen/pkg/domain/repositories"
)

// BomRepository provides an in-memory Bom store. Version allocation is
// serialized under the repository lock, so concurrent generate calls for
// the same order never receive duplicate version numbers.
type BomRepository struct {
	mu       sync.Mutex
	byID     map[string]*entities.Bom
	byOrder  map[string][]*entities.Bom
	versions map[string]int
}

// NewBomRepository creates an in-memory Bom repository
func NewBomRepository() *BomRepository {
	return &BomRepository{
		byID:     make(map[string]*entities.Bom),
		byOrder:  make(map[string][]*entities.Bom),
		versions: make(map[string]int),
	}
}

// Verify interface compliance
var _ repositories.BomRepository = (*BomRepository)(nil)

// NextVersion atomically allocates the next version number for an order
func (r *BomRepository) NextVersion(ctx context.Context, orderID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.versions[orderID]++
	return r.versions[orderID], nil
}

// Create persists a new Bom with its items
func (r *BomRepository) Create(ctx context.Context, bom *entities.Bom) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byOrder[bom.OrderID] {
		if existing.Version == bom.Version {
			return fmt.Errorf("order %s version %d: %w", bom.OrderID, bom.Version, entities.ErrVersionConflict)
		}
	}

	r.byID[bom.ID] = bom
	r.byOrder[bom.OrderID] = append(r.byOrder[bom.OrderID], bom)
	// Keep the allocator ahead of any version inserted directly.
	if bom.Version > r.versions[bom.OrderID] {
		r.versions[bom.OrderID] = bom.Version
	}
	return nil
}

// UpdateStatus persists a lifecycle transition on the header
func (r *BomRepository) UpdateStatus(ctx context.Context, bom *entities.Bom) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.byID[bom.ID]
	if !exists {
		return fmt.Errorf("%w: %s", entities.ErrBomNotFound, bom.ID)
	}
	stored.Status = bom.Status
	stored.ApprovedBy = bom.ApprovedBy
	stored.ApprovedAt = bom.ApprovedAt
	stored.RejectReason = bom.RejectReason
	return nil
}

// GetByID returns a Bom by id
func (r *BomRepository) GetByID(ctx context.Context, id string) (*entities.Bom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bom, exists := r.byID[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrBomNotFound, id)
	}
	// Return a copy so callers cannot mutate stored state; status
	// changes go through UpdateStatus.
	result := *bom
	return &result, nil
}

// GetByOrderVersion returns one version of an order's Bom
func (r *BomRepository) GetByOrderVersion(ctx context.Context, orderID string, version int) (*entities.Bom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, bom := range r.byOrder[orderID] {
		if bom.Version == version {
			result := *bom
			return &result, nil
		}
	}
	return nil, fmt.Errorf("%w: order %s version %d", entities.ErrBomNotFound, orderID, version)
}

// GetApproved returns the currently approved Bom for an order
func (r *BomRepository) GetApproved(ctx context.Context, orderID string) (*entities.Bom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, bom := range r.byOrder[orderID] {
		if bom.Status == entities.StatusApproved {
			result := *bom
			return &result, nil
		}
	}
	return nil, fmt.Errorf("%w: no approved bom for order %s", entities.ErrBomNotFound, orderID)
}

// ListVersions returns all Bom versions for an order, newest first
func (r *BomRepository) ListVersions(ctx context.Context, orderID string) ([]*entities.Bom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	boms := make([]*entities.Bom, 0, len(r.byOrder[orderID]))
	for _, bom := range r.byOrder[orderID] {
		result := *bom
		boms = append(boms, &result)
	}
	sort.Slice(boms, func(i, j int) bool {
		return boms[i].Version > boms[j].Version
	})
	return boms, nil
}
