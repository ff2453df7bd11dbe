package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/bomgen/pkg/domain/entities"
	"github.com/vsinha/bomgen/pkg/domain/repositories"
	"github.com/vsinha/bomgen/pkg/domain/services"
	"github.com/vsinha/bomgen/pkg/domain/services/expr"
)

// DefaultCatalogTimeout bounds a single part catalog lookup so a slow
// catalog cannot stall the whole expansion.
const DefaultCatalogTimeout = 2 * time.Second

// TreeExpander materializes a BOM item tree from a template and a
// configuration snapshot. Expansion is deterministic: the same template,
// snapshot, and catalog state always produce the same tree.
type TreeExpander struct {
	catalog        repositories.PartCatalog
	logger         *zap.Logger
	catalogTimeout time.Duration
}

// NewTreeExpander creates a tree expander. A nil logger disables warning
// logs; a zero timeout falls back to DefaultCatalogTimeout.
func NewTreeExpander(catalog repositories.PartCatalog, logger *zap.Logger, catalogTimeout time.Duration) *TreeExpander {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalogTimeout <= 0 {
		catalogTimeout = DefaultCatalogTimeout
	}
	return &TreeExpander{
		catalog:        catalog,
		logger:         logger,
		catalogTimeout: catalogTimeout,
	}
}

// Expand walks the template items in line order and emits resolved BOM
// items. Recovery policy per line:
//   - include condition false: line and all its descendants are skipped
//   - include condition malformed: line is included (fail-open) + warning
//   - quantity formula malformed: base quantity is used (fail-closed) + warning
//   - part missing from catalog: zero cost + warning, line still emitted
//
// Structural template errors (orphan parents, level inversions) are fatal
// and reported before any item is emitted.
func (e *TreeExpander) Expand(ctx context.Context, tmpl *entities.BomTemplate, snapshot *entities.ConfigurationSnapshot) ([]entities.BomItem, []entities.Warning, error) {
	if err := services.ValidateTemplateStructure(tmpl); err != nil {
		return nil, nil, err
	}

	vars := expr.Bind(snapshot.Flatten())
	one := decimal.NewFromInt(1)

	// idByLine remaps template parent lines to generated item ids. The
	// pre-order guarantee means a parent's id is always present before
	// its children are emitted.
	idByLine := make(map[int]string, len(tmpl.Items))
	skipped := make(map[int]bool)

	var items []entities.BomItem
	var warnings []entities.Warning

	for i := range tmpl.Items {
		ti := &tmpl.Items[i]

		if !ti.IsRoot() && skipped[ti.ParentLine] {
			// Children of a skipped item are skipped too, regardless of
			// their own conditions.
			skipped[ti.LineNumber] = true
			continue
		}

		if ti.IncludeCondition != "" {
			include, err := expr.EvaluateCondition(ti.IncludeCondition, vars)
			if err != nil {
				warnings = append(warnings, entities.Warning{
					Code:       entities.WarningConditionFailed,
					LineNumber: ti.LineNumber,
					PartNumber: ti.PartNumber,
					Message:    err.Error(),
				})
				e.logger.Warn("include condition failed, including item",
					zap.Int("line", ti.LineNumber),
					zap.String("part", string(ti.PartNumber)),
					zap.Error(err))
			} else if !include {
				skipped[ti.LineNumber] = true
				continue
			}
		}

		quantity := ti.BaseQuantity
		if ti.QuantityFormula != "" {
			result, err := expr.EvaluateFormula(ti.QuantityFormula, vars)
			if err != nil {
				warnings = append(warnings, entities.Warning{
					Code:       entities.WarningFormulaFailed,
					LineNumber: ti.LineNumber,
					PartNumber: ti.PartNumber,
					Message:    err.Error(),
				})
				e.logger.Warn("quantity formula failed, using base quantity",
					zap.Int("line", ti.LineNumber),
					zap.String("part", string(ti.PartNumber)),
					zap.Error(err))
			} else {
				quantity = result
			}
		}

		unitCost := decimal.Zero
		unitWeight := decimal.Zero
		description := ""
		isPhantom := ti.IsPhantom

		part, err := e.lookupPart(ctx, ti.PartNumber)
		switch {
		case err == nil:
			unitCost = part.UnitCost()
			unitWeight = part.Weight
			description = part.Description
			if part.Type == entities.PartTypePhantom {
				isPhantom = true
			}
		case errors.Is(err, entities.ErrPartNotFound):
			warnings = append(warnings, entities.Warning{
				Code:       entities.WarningPartNotFound,
				LineNumber: ti.LineNumber,
				PartNumber: ti.PartNumber,
				Message:    fmt.Sprintf("part %s not in catalog, cost defaulted to zero", ti.PartNumber),
			})
			e.logger.Warn("part not found in catalog",
				zap.Int("line", ti.LineNumber),
				zap.String("part", string(ti.PartNumber)))
		default:
			return nil, nil, fmt.Errorf("catalog lookup for %s: %w", ti.PartNumber, err)
		}

		totalQuantity := quantity.Mul(one.Add(ti.ScrapFactor))

		item := entities.BomItem{
			ID:               uuid.NewString(),
			LineNumber:       ti.LineNumber,
			PartNumber:       ti.PartNumber,
			Description:      description,
			QuantityRequired: quantity,
			ScrapFactor:      ti.ScrapFactor,
			TotalQuantity:    totalQuantity,
			UnitCost:         unitCost,
			ExtendedCost:     totalQuantity.Mul(unitCost),
			UnitWeight:       unitWeight,
			Level:            ti.Level,
			IsPhantom:        isPhantom,
		}
		if !ti.IsRoot() {
			item.ParentItemID = idByLine[ti.ParentLine]
		}

		idByLine[ti.LineNumber] = item.ID
		items = append(items, item)
	}

	return items, warnings, nil
}

func (e *TreeExpander) lookupPart(ctx context.Context, pn entities.PartNumber) (*entities.Part, error) {
	ctx, cancel := context.WithTimeout(ctx, e.catalogTimeout)
	defer cancel()
	return e.catalog.GetPart(ctx, pn)
}
