package services

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/bomgen/pkg/domain/entities"
)

// Rollup holds the aggregate totals stored on a Bom header for O(1)
// retrieval.
type Rollup struct {
	TotalCost       decimal.Decimal
	TotalWeight     decimal.Decimal
	TotalPartsCount int
}

// CalculateRollup aggregates totals over all items. The sums are flat:
// each item's extended cost and quantity already reflect its own level
// (template quantities are per parent unit, not compounded), so no
// level-aware weighting is applied. Phantom items group children only and
// are excluded from the parts count.
func CalculateRollup(items []entities.BomItem) Rollup {
	r := Rollup{
		TotalCost:   decimal.Zero,
		TotalWeight: decimal.Zero,
	}
	for i := range items {
		item := &items[i]
		r.TotalCost = r.TotalCost.Add(item.ExtendedCost)
		r.TotalWeight = r.TotalWeight.Add(item.UnitWeight.Mul(item.TotalQuantity))
		if !item.IsPhantom {
			r.TotalPartsCount++
		}
	}
	return r
}
