package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vsinha/bomgen/pkg/domain/entities"
	"github.com/vsinha/bomgen/pkg/domain/repositories"
)

// PartCatalog implements the part catalog on PostgreSQL
type PartCatalog struct {
	db *gorm.DB
}

// NewPartCatalog creates a PostgreSQL-backed part catalog
func NewPartCatalog(db *gorm.DB) *PartCatalog {
	return &PartCatalog{db: db}
}

// Verify interface compliance
var _ repositories.PartCatalog = (*PartCatalog)(nil)

// GetPart returns the catalog record for a part number
func (c *PartCatalog) GetPart(ctx context.Context, partNumber entities.PartNumber) (*entities.Part, error) {
	var row partRow
	err := c.db.WithContext(ctx).
		Preload("Substitutes", func(db *gorm.DB) *gorm.DB {
			return db.Order("tier ASC, id ASC")
		}).
		Where("part_number = ?", string(partNumber)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", entities.ErrPartNotFound, partNumber)
		}
		return nil, fmt.Errorf("failed to load part %s: %w", partNumber, err)
	}
	return toPartEntity(&row), nil
}

// GetAllParts returns all catalog records
func (c *PartCatalog) GetAllParts(ctx context.Context) ([]*entities.Part, error) {
	var rows []partRow
	err := c.db.WithContext(ctx).
		Preload("Substitutes", func(db *gorm.DB) *gorm.DB {
			return db.Order("tier ASC, id ASC")
		}).
		Order("part_number ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load parts: %w", err)
	}
	parts := make([]*entities.Part, 0, len(rows))
	for i := range rows {
		parts = append(parts, toPartEntity(&rows[i]))
	}
	return parts, nil
}

// LoadParts upserts catalog records. The catalog is normally owned by an
// external subsystem; this supports seeding and the CLI.
func (c *PartCatalog) LoadParts(ctx context.Context, parts []*entities.Part) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, part := range parts {
			row := fromPartEntity(part)
			if err := tx.Where("part_number = ?", row.PartNumber).Delete(&substituteRow{}).Error; err != nil {
				return err
			}
			if err := tx.Save(row).Error; err != nil {
				return fmt.Errorf("failed to save part %s: %w", part.PartNumber, err)
			}
		}
		return nil
	})
}
