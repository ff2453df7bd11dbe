package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/bomgen/pkg/domain/entities"
	"github.com/vsinha/bomgen/pkg/domain/repositories"
)

// TemplateRepository provides an in-memory BOM template store
type TemplateRepository struct {
	mu       sync.RWMutex
	byID     map[string]*entities.BomTemplate
	byFamily map[string][]*entities.BomTemplate
}

// NewTemplateRepository creates an in-memory template repository
func NewTemplateRepository() *TemplateRepository {
	return &TemplateRepository{
		byID:     make(map[string]*entities.BomTemplate),
		byFamily: make(map[string][]*entities.BomTemplate),
	}
}

// Verify interface compliance
var _ repositories.TemplateRepository = (*TemplateRepository)(nil)

// GetByFamily returns all templates for a product family
func (r *TemplateRepository) GetByFamily(ctx context.Context, family string) ([]*entities.BomTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	templates := r.byFamily[family]
	out := make([]*entities.BomTemplate, len(templates))
	copy(out, templates)
	return out, nil
}

// GetByID returns a template by id
func (r *TemplateRepository) GetByID(ctx context.Context, id string) (*entities.BomTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	tmpl, exists := r.byID[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrTemplateNotFound, id)
	}
	return tmpl, nil
}

// LoadTemplates loads templates into the repository
func (r *TemplateRepository) LoadTemplates(ctx context.Context, templates []*entities.BomTemplate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tmpl := range templates {
		if _, exists := r.byID[tmpl.ID]; exists {
			return fmt.Errorf("duplicate template id %s", tmpl.ID)
		}
		r.byID[tmpl.ID] = tmpl
		r.byFamily[tmpl.Family] = append(r.byFamily[tmpl.Family], tmpl)
	}
	return nil
}
