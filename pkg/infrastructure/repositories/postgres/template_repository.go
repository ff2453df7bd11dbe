package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vsinha/bomgen/pkg/domain/entities"
	"github.com/vsinha/bomgen/pkg/domain/repositories"
)

// TemplateRepository implements the template store on PostgreSQL
type TemplateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a PostgreSQL-backed template repository
func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Verify interface compliance
var _ repositories.TemplateRepository = (*TemplateRepository)(nil)

// GetByFamily returns all templates for a product family
func (r *TemplateRepository) GetByFamily(ctx context.Context, family string) ([]*entities.BomTemplate, error) {
	var rows []templateRow
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		Where("family = ?", family).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load templates for family %s: %w", family, err)
	}
	templates := make([]*entities.BomTemplate, 0, len(rows))
	for i := range rows {
		templates = append(templates, toTemplateEntity(&rows[i]))
	}
	return templates, nil
}

// GetByID returns a template by id
func (r *TemplateRepository) GetByID(ctx context.Context, id string) (*entities.BomTemplate, error) {
	var row templateRow
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", entities.ErrTemplateNotFound, id)
		}
		return nil, fmt.Errorf("failed to load template %s: %w", id, err)
	}
	return toTemplateEntity(&row), nil
}

// LoadTemplates persists templates with their items
func (r *TemplateRepository) LoadTemplates(ctx context.Context, templates []*entities.BomTemplate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, tmpl := range templates {
			if err := tx.Create(fromTemplateEntity(tmpl)).Error; err != nil {
				return fmt.Errorf("failed to save template %s: %w", tmpl.ID, err)
			}
		}
		return nil
	})
}
