package services

import (
	"context"

	"github.com/vsinha/bomgen/pkg/domain/entities"
)

// BomCompareResult lists the line-level differences between two versions
// of an order's Bom. Lines are matched by template line number, which is
// stable across regenerations of the same family.
type BomCompareResult struct {
	OrderID  string
	VersionA int
	VersionB int
	Added    []entities.BomItem // present only in B
	Removed  []entities.BomItem // present only in A
	Modified []BomItemChange    // same line, different part, quantity, or cost
}

// BomItemChange pairs the two sides of a modified line
type BomItemChange struct {
	Before entities.BomItem
	After  entities.BomItem
}

// CompareVersions diffs two persisted versions of an order's Bom.
func (m *LifecycleManager) CompareVersions(ctx context.Context, orderID string, versionA, versionB int) (*BomCompareResult, error) {
	a, err := m.boms.GetByOrderVersion(ctx, orderID, versionA)
	if err != nil {
		return nil, err
	}
	b, err := m.boms.GetByOrderVersion(ctx, orderID, versionB)
	if err != nil {
		return nil, err
	}

	result := &BomCompareResult{
		OrderID:  orderID,
		VersionA: versionA,
		VersionB: versionB,
	}

	aByLine := make(map[int]*entities.BomItem, len(a.Items))
	for i := range a.Items {
		aByLine[a.Items[i].LineNumber] = &a.Items[i]
	}

	seen := make(map[int]bool, len(b.Items))
	for i := range b.Items {
		itemB := &b.Items[i]
		seen[itemB.LineNumber] = true
		itemA, ok := aByLine[itemB.LineNumber]
		if !ok {
			result.Added = append(result.Added, *itemB)
			continue
		}
		if itemA.PartNumber != itemB.PartNumber ||
			!itemA.QuantityRequired.Equal(itemB.QuantityRequired) ||
			!itemA.UnitCost.Equal(itemB.UnitCost) {
			result.Modified = append(result.Modified, BomItemChange{Before: *itemA, After: *itemB})
		}
	}

	for i := range a.Items {
		if !seen[a.Items[i].LineNumber] {
			result.Removed = append(result.Removed, a.Items[i])
		}
	}

	return result, nil
}
