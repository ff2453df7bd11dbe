package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/bomgen/pkg/domain/entities"
	"github.com/vsinha/bomgen/pkg/domain/repositories"
)

// SubstitutionResolver replaces unavailable parts on expanded BOM items
// with configured alternates, in preference tier order. Availability is
// advisory: when nothing can substitute, the item keeps its original part
// and the shortage is recorded as a warning, never as a failure.
type SubstitutionResolver struct {
	catalog        repositories.PartCatalog
	logger         *zap.Logger
	catalogTimeout time.Duration
}

// NewSubstitutionResolver creates a substitution resolver
func NewSubstitutionResolver(catalog repositories.PartCatalog, logger *zap.Logger, catalogTimeout time.Duration) *SubstitutionResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalogTimeout <= 0 {
		catalogTimeout = DefaultCatalogTimeout
	}
	return &SubstitutionResolver{
		catalog:        catalog,
		logger:         logger,
		catalogTimeout: catalogTimeout,
	}
}

// Resolve patches unavailable leaves in place. The threshold is the
// on-hand reserve the caller wants preserved when judging availability.
func (r *SubstitutionResolver) Resolve(ctx context.Context, items []entities.BomItem, threshold decimal.Decimal) ([]entities.Warning, error) {
	var warnings []entities.Warning
	one := decimal.NewFromInt(1)

	for i := range items {
		item := &items[i]
		if item.IsPhantom {
			continue
		}

		part, err := r.lookupPart(ctx, item.PartNumber)
		if err != nil {
			if errors.Is(err, entities.ErrPartNotFound) {
				// Already warned during expansion; nothing to substitute
				// against.
				continue
			}
			return nil, fmt.Errorf("catalog lookup for %s: %w", item.PartNumber, err)
		}

		if part.IsAvailable(item.TotalQuantity, threshold) {
			continue
		}

		substitute, subPart, err := r.findSubstitute(ctx, part, item.TotalQuantity, threshold)
		if err != nil {
			return nil, err
		}
		if substitute == nil {
			warnings = append(warnings, entities.Warning{
				Code:       entities.WarningNoSubstitute,
				LineNumber: item.LineNumber,
				PartNumber: item.PartNumber,
				Message:    fmt.Sprintf("part %s unavailable and no substitute available", item.PartNumber),
			})
			r.logger.Warn("no substitute available",
				zap.Int("line", item.LineNumber),
				zap.String("part", string(item.PartNumber)))
			continue
		}

		r.logger.Info("substituted part",
			zap.Int("line", item.LineNumber),
			zap.String("original", string(item.PartNumber)),
			zap.String("substitute", string(substitute.SubstitutePN)),
			zap.String("tier", substitute.Tier.String()))

		item.OriginalPart = item.PartNumber
		item.IsSubstitute = true
		item.PartNumber = substitute.SubstitutePN
		item.Description = subPart.Description
		item.QuantityRequired = item.QuantityRequired.Mul(substitute.ConversionFactor)
		item.TotalQuantity = item.QuantityRequired.Mul(one.Add(item.ScrapFactor))
		item.UnitCost = subPart.UnitCost()
		item.UnitWeight = subPart.Weight
		item.ExtendedCost = item.TotalQuantity.Mul(item.UnitCost)
	}

	return warnings, nil
}

// findSubstitute returns the first available substitute in tier order, or
// nil when none qualifies.
func (r *SubstitutionResolver) findSubstitute(ctx context.Context, part *entities.Part, required decimal.Decimal, threshold decimal.Decimal) (*entities.Substitute, *entities.Part, error) {
	if len(part.Substitutes) == 0 {
		return nil, nil, nil
	}

	ordered := make([]entities.Substitute, len(part.Substitutes))
	copy(ordered, part.Substitutes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Tier < ordered[j].Tier
	})

	for i := range ordered {
		sub := &ordered[i]
		subPart, err := r.lookupPart(ctx, sub.SubstitutePN)
		if err != nil {
			if errors.Is(err, entities.ErrPartNotFound) {
				continue
			}
			return nil, nil, fmt.Errorf("catalog lookup for substitute %s: %w", sub.SubstitutePN, err)
		}
		if subPart.IsAvailable(required.Mul(sub.ConversionFactor), threshold) {
			return sub, subPart, nil
		}
	}
	return nil, nil, nil
}

func (r *SubstitutionResolver) lookupPart(ctx context.Context, pn entities.PartNumber) (*entities.Part, error) {
	ctx, cancel := context.WithTimeout(ctx, r.catalogTimeout)
	defer cancel()
	return r.catalog.GetPart(ctx, pn)
}
