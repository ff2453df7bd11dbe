package repositories

import (
	"context"

	"github.com/vsinha/bomgen/pkg/domain/entities"
)

// TemplateRepository stores BOM templates per product family. Templates
// are authored out of band and are read-only inputs to generation.
type TemplateRepository interface {
	// GetByFamily returns all templates for a product family (candidates
	// for matching), in no particular order.
	GetByFamily(ctx context.Context, family string) ([]*entities.BomTemplate, error)
	// GetByID returns a template or entities.ErrTemplateNotFound.
	GetByID(ctx context.Context, id string) (*entities.BomTemplate, error)
	LoadTemplates(ctx context.Context, templates []*entities.BomTemplate) error
}
