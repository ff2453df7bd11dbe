package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vsinha/bomgen/pkg/domain/entities"
	"github.com/vsinha/bomgen/pkg/domain/repositories"
)

// BomRepository implements Bom persistence on PostgreSQL. Version
// allocation takes a row lock on a per-order counter, and the unique
// (order_id, version) index backstops it: a duplicate insert surfaces as
// entities.ErrVersionConflict for the caller to retry.
type BomRepository struct {
	db *gorm.DB
}

// NewBomRepository creates a PostgreSQL-backed Bom repository
func NewBomRepository(db *gorm.DB) *BomRepository {
	return &BomRepository{db: db}
}

// Verify interface compliance
var _ repositories.BomRepository = (*BomRepository)(nil)

// NextVersion atomically allocates the next version number for an order
func (r *BomRepository) NextVersion(ctx context.Context, orderID string) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter versionCounterRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ?", orderID).
			First(&counter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			counter = versionCounterRow{OrderID: orderID}
			if err := tx.Create(&counter).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		counter.Version++
		next = counter.Version
		return tx.Save(&counter).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, fmt.Errorf("order %s: %w", orderID, entities.ErrVersionConflict)
		}
		return 0, fmt.Errorf("failed to allocate version for order %s: %w", orderID, err)
	}
	return next, nil
}

// Create persists a new Bom with its items
func (r *BomRepository) Create(ctx context.Context, bom *entities.Bom) error {
	row, err := fromBomEntity(bom)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Create(row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("order %s version %d: %w", bom.OrderID, bom.Version, entities.ErrVersionConflict)
		}
		return fmt.Errorf("failed to create bom %s: %w", bom.ID, err)
	}
	return nil
}

// UpdateStatus persists a lifecycle transition on the header
func (r *BomRepository) UpdateStatus(ctx context.Context, bom *entities.Bom) error {
	result := r.db.WithContext(ctx).
		Model(&bomRow{}).
		Where("id = ?", bom.ID).
		Updates(map[string]any{
			"status":        int(bom.Status),
			"approved_by":   bom.ApprovedBy,
			"approved_at":   bom.ApprovedAt,
			"reject_reason": bom.RejectReason,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update bom %s: %w", bom.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", entities.ErrBomNotFound, bom.ID)
	}
	return nil
}

// GetByID returns a Bom by id
func (r *BomRepository) GetByID(ctx context.Context, id string) (*entities.Bom, error) {
	var row bomRow
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", entities.ErrBomNotFound, id)
		}
		return nil, fmt.Errorf("failed to load bom %s: %w", id, err)
	}
	return toBomEntity(&row)
}

// GetByOrderVersion returns one version of an order's Bom
func (r *BomRepository) GetByOrderVersion(ctx context.Context, orderID string, version int) (*entities.Bom, error) {
	var row bomRow
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		Where("order_id = ? AND version = ?", orderID, version).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s version %d", entities.ErrBomNotFound, orderID, version)
		}
		return nil, fmt.Errorf("failed to load bom for order %s: %w", orderID, err)
	}
	return toBomEntity(&row)
}

// GetApproved returns the currently approved Bom for an order
func (r *BomRepository) GetApproved(ctx context.Context, orderID string) (*entities.Bom, error) {
	var row bomRow
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		Where("order_id = ? AND status = ?", orderID, int(entities.StatusApproved)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no approved bom for order %s", entities.ErrBomNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to load approved bom for order %s: %w", orderID, err)
	}
	return toBomEntity(&row)
}

// ListVersions returns all Bom versions for an order, newest first
func (r *BomRepository) ListVersions(ctx context.Context, orderID string) ([]*entities.Bom, error) {
	var rows []bomRow
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		Where("order_id = ?", orderID).
		Order("version DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list boms for order %s: %w", orderID, err)
	}
	boms := make([]*entities.Bom, 0, len(rows))
	for i := range rows {
		bom, err := toBomEntity(&rows[i])
		if err != nil {
			return nil, err
		}
		boms = append(boms, bom)
	}
	return boms, nil
}

func fromBomEntity(bom *entities.Bom) (*bomRow, error) {
	snapshot, err := json.Marshal(bom.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot for bom %s: %w", bom.ID, err)
	}
	warnings, err := json.Marshal(bom.Warnings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode warnings for bom %s: %w", bom.ID, err)
	}

	row := &bomRow{
		ID:              bom.ID,
		OrderID:         bom.OrderID,
		Version:         bom.Version,
		Family:          bom.Family,
		TemplateID:      bom.TemplateID,
		Status:          int(bom.Status),
		Snapshot:        snapshot,
		Warnings:        warnings,
		TotalCost:       bom.TotalCost,
		TotalWeight:     bom.TotalWeight,
		TotalPartsCount: bom.TotalPartsCount,
		CreatedBy:       bom.CreatedBy,
		CreatedAt:       bom.CreatedAt,
		ApprovedBy:      bom.ApprovedBy,
		ApprovedAt:      bom.ApprovedAt,
		RejectReason:    bom.RejectReason,
	}
	for i := range bom.Items {
		item := &bom.Items[i]
		row.Items = append(row.Items, bomItemRow{
			ID:               item.ID,
			BomID:            bom.ID,
			LineNumber:       item.LineNumber,
			PartNumber:       string(item.PartNumber),
			Description:      item.Description,
			QuantityRequired: item.QuantityRequired,
			ScrapFactor:      item.ScrapFactor,
			TotalQuantity:    item.TotalQuantity,
			UnitCost:         item.UnitCost,
			ExtendedCost:     item.ExtendedCost,
			UnitWeight:       item.UnitWeight,
			ParentItemID:     item.ParentItemID,
			Level:            item.Level,
			IsPhantom:        item.IsPhantom,
			IsSubstitute:     item.IsSubstitute,
			OriginalPart:     string(item.OriginalPart),
		})
	}
	return row, nil
}

func toBomEntity(row *bomRow) (*entities.Bom, error) {
	snapshot, err := entities.ParseConfigurationSnapshot(row.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot for bom %s: %w", row.ID, err)
	}
	var warnings []entities.Warning
	if len(row.Warnings) > 0 {
		if err := json.Unmarshal(row.Warnings, &warnings); err != nil {
			return nil, fmt.Errorf("failed to decode warnings for bom %s: %w", row.ID, err)
		}
	}

	bom := &entities.Bom{
		ID:              row.ID,
		OrderID:         row.OrderID,
		Version:         row.Version,
		Family:          row.Family,
		TemplateID:      row.TemplateID,
		Status:          entities.BomStatus(row.Status),
		Snapshot:        snapshot,
		Warnings:        warnings,
		TotalCost:       row.TotalCost,
		TotalWeight:     row.TotalWeight,
		TotalPartsCount: row.TotalPartsCount,
		CreatedBy:       row.CreatedBy,
		CreatedAt:       row.CreatedAt,
		ApprovedBy:      row.ApprovedBy,
		ApprovedAt:      row.ApprovedAt,
		RejectReason:    row.RejectReason,
	}
	for i := range row.Items {
		item := &row.Items[i]
		bom.Items = append(bom.Items, entities.BomItem{
			ID:               item.ID,
			LineNumber:       item.LineNumber,
			PartNumber:       entities.PartNumber(item.PartNumber),
			Description:      item.Description,
			QuantityRequired: item.QuantityRequired,
			ScrapFactor:      item.ScrapFactor,
			TotalQuantity:    item.TotalQuantity,
			UnitCost:         item.UnitCost,
			ExtendedCost:     item.ExtendedCost,
			UnitWeight:       item.UnitWeight,
			ParentItemID:     item.ParentItemID,
			Level:            item.Level,
			IsPhantom:        item.IsPhantom,
			IsSubstitute:     item.IsSubstitute,
			OriginalPart:     entities.PartNumber(item.OriginalPart),
		})
	}
	return bom, nil
}
