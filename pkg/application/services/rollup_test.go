package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomgen/pkg/domain/entities"
)

func TestCalculateRollup(t *testing.T) {
	dec := decimal.NewFromFloat

	items := []entities.BomItem{
		{
			PartNumber:    "SINK-FRAME",
			TotalQuantity: dec(1),
			UnitCost:      dec(120.00),
			ExtendedCost:  dec(120.00),
			UnitWeight:    dec(18.5),
		},
		{
			PartNumber:    "SINK-BASIN-01",
			TotalQuantity: dec(2.04),
			UnitCost:      dec(45.00),
			ExtendedCost:  dec(2.04).Mul(dec(45.00)),
			UnitWeight:    dec(3.2),
		},
		{
			PartNumber:    "SINK-HW-KIT",
			TotalQuantity: dec(1),
			IsPhantom:     true,
		},
		{
			PartNumber:    "SINK-BOLT-M8",
			TotalQuantity: dec(16),
			UnitCost:      dec(0.12),
			ExtendedCost:  dec(16).Mul(dec(0.12)),
			UnitWeight:    dec(0.02),
		},
	}

	rollup := CalculateRollup(items)

	wantCost := dec(120.00).Add(dec(2.04).Mul(dec(45.00))).Add(dec(16).Mul(dec(0.12)))
	if !rollup.TotalCost.Equal(wantCost) {
		t.Errorf("Expected total cost %s, got %s", wantCost, rollup.TotalCost)
	}

	wantWeight := dec(18.5).Add(dec(3.2).Mul(dec(2.04))).Add(dec(0.02).Mul(dec(16)))
	if !rollup.TotalWeight.Equal(wantWeight) {
		t.Errorf("Expected total weight %s, got %s", wantWeight, rollup.TotalWeight)
	}

	// Phantom grouping items never count as parts.
	if rollup.TotalPartsCount != 3 {
		t.Errorf("Expected 3 countable parts, got %d", rollup.TotalPartsCount)
	}
}

func TestCalculateRollup_Empty(t *testing.T) {
	rollup := CalculateRollup(nil)
	if !rollup.TotalCost.IsZero() || !rollup.TotalWeight.IsZero() || rollup.TotalPartsCount != 0 {
		t.Errorf("Expected zero rollup for empty items, got %+v", rollup)
	}
}
