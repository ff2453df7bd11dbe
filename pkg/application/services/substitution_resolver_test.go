package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomgen/pkg/domain/entities"
	"github.com/vsinha/bomgen/pkg/infrastructure/repositories/memory"
	bomtesting "github.com/vsinha/bomgen/pkg/infrastructure/testing"
)

func expandSink(t *testing.T, catalog *memory.PartCatalog) []entities.BomItem {
	t.Helper()
	expander := NewTreeExpander(catalog, nil, 0)
	items, warnings, err := expander.Expand(context.Background(), bomtesting.SinkTemplate(), bomtesting.SinkSnapshot())
	if err != nil {
		t.Fatalf("Expected expansion to succeed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("Expected no expansion warnings, got %v", warnings)
	}
	return items
}

func TestSubstitutionResolver_PreferredSubstituteApplied(t *testing.T) {
	catalog, _, _ := bomtesting.BuildSinkTestData()
	items := expandSink(t, catalog)
	resolver := NewSubstitutionResolver(catalog, nil, 0)

	// SINK-BASIN-01 has 1 on hand but 2.04 are needed, so the preferred
	// alternate takes over.
	warnings, err := resolver.Resolve(context.Background(), items, decimal.Zero)
	if err != nil {
		t.Fatalf("Expected resolution to succeed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("Expected no warnings, got %v", warnings)
	}

	basin := itemByLine(items, 20)
	if basin == nil {
		t.Fatal("Expected basin line 20 to be present")
	}
	if !basin.IsSubstitute {
		t.Fatal("Expected basin to be substituted")
	}
	if basin.PartNumber != "SINK-BASIN-02" {
		t.Errorf("Expected preferred substitute SINK-BASIN-02, got %s", basin.PartNumber)
	}
	if basin.OriginalPart != "SINK-BASIN-01" {
		t.Errorf("Expected original part to be preserved, got %s", basin.OriginalPart)
	}
	if basin.Description != "Stainless Basin (alternate)" {
		t.Errorf("Expected substitute description, got %q", basin.Description)
	}

	// Conversion factor 1 keeps the quantities, costs follow the new part.
	if !basin.QuantityRequired.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Expected quantity 2, got %s", basin.QuantityRequired)
	}
	if !basin.TotalQuantity.Equal(decimal.NewFromFloat(2.04)) {
		t.Errorf("Expected total quantity 2.04, got %s", basin.TotalQuantity)
	}
	if !basin.UnitCost.Equal(decimal.NewFromFloat(48.50)) {
		t.Errorf("Expected substitute unit cost 48.50, got %s", basin.UnitCost)
	}
	if !basin.ExtendedCost.Equal(decimal.NewFromFloat(2.04).Mul(decimal.NewFromFloat(48.50))) {
		t.Errorf("Unexpected extended cost %s", basin.ExtendedCost)
	}

	// Other lines stay untouched.
	if faucet := itemByLine(items, 30); faucet.IsSubstitute {
		t.Error("Expected faucet to keep its original part")
	}
}

func TestSubstitutionResolver_FallsBackToEmergencyTier(t *testing.T) {
	catalog, _, _ := bomtesting.BuildSinkTestData()

	// Take the preferred alternate out of circulation so tier order has
	// to reach the emergency half-size basin.
	catalog.AddPart(entities.Part{
		PartNumber:  "SINK-BASIN-02",
		Description: "Stainless Basin (alternate)",
		Type:        entities.PartTypeComponent,
		CurrentCost: decimal.NewFromFloat(48.50),
		Status:      entities.StatusInactive,
		OnHand:      decimal.NewFromInt(500),
	})

	items := expandSink(t, catalog)
	resolver := NewSubstitutionResolver(catalog, nil, 0)

	warnings, err := resolver.Resolve(context.Background(), items, decimal.Zero)
	if err != nil {
		t.Fatalf("Expected resolution to succeed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("Expected no warnings, got %v", warnings)
	}

	basin := itemByLine(items, 20)
	if basin.PartNumber != "SINK-BASIN-03" {
		t.Fatalf("Expected emergency substitute SINK-BASIN-03, got %s", basin.PartNumber)
	}

	// Half-size basins convert 2:1, so quantities double.
	if !basin.QuantityRequired.Equal(decimal.NewFromInt(4)) {
		t.Errorf("Expected converted quantity 4, got %s", basin.QuantityRequired)
	}
	if !basin.TotalQuantity.Equal(decimal.NewFromFloat(4.08)) {
		t.Errorf("Expected total quantity 4.08 after conversion, got %s", basin.TotalQuantity)
	}
	if !basin.UnitCost.Equal(decimal.NewFromFloat(30.00)) {
		t.Errorf("Expected half-size basin cost 30.00, got %s", basin.UnitCost)
	}
}

func TestSubstitutionResolver_NoSubstituteWarns(t *testing.T) {
	catalog, _, _ := bomtesting.BuildSinkTestData()
	items := expandSink(t, catalog)
	resolver := NewSubstitutionResolver(catalog, nil, 0)

	// A 199-unit reserve leaves the faucet short, and faucets have no
	// configured substitutes.
	warnings, err := resolver.Resolve(context.Background(), items, decimal.NewFromInt(199))
	if err != nil {
		t.Fatalf("Expected resolution to succeed: %v", err)
	}

	var faucetWarning *entities.Warning
	for i := range warnings {
		if warnings[i].PartNumber == "SINK-FAUCET" {
			faucetWarning = &warnings[i]
		}
	}
	if faucetWarning == nil || faucetWarning.Code != entities.WarningNoSubstitute {
		t.Fatalf("Expected NO_SUBSTITUTE_AVAILABLE warning for the faucet, got %v", warnings)
	}

	faucet := itemByLine(items, 30)
	if faucet.IsSubstitute || faucet.PartNumber != "SINK-FAUCET" {
		t.Errorf("Expected faucet to keep its original part, got %+v", faucet)
	}
}

func TestSubstitutionResolver_SkipsPhantoms(t *testing.T) {
	catalog, _, _ := bomtesting.BuildSinkTestData()
	items := expandSink(t, catalog)
	resolver := NewSubstitutionResolver(catalog, nil, 0)

	// The hardware kit phantom has no stock and no substitutes, but
	// phantoms are never judged for availability.
	warnings, err := resolver.Resolve(context.Background(), items, decimal.Zero)
	if err != nil {
		t.Fatalf("Expected resolution to succeed: %v", err)
	}
	for _, w := range warnings {
		if w.PartNumber == "SINK-HW-KIT" {
			t.Errorf("Expected no warning for phantom kit, got %v", w)
		}
	}
	kit := itemByLine(items, 40)
	if kit.IsSubstitute {
		t.Error("Expected phantom kit to never be substituted")
	}
}

func TestSubstitutionResolver_AvailablePartUntouched(t *testing.T) {
	catalog, _, _ := bomtesting.BuildSinkTestData()
	items := expandSink(t, catalog)
	resolver := NewSubstitutionResolver(catalog, nil, 0)

	before := *itemByLine(items, 10)
	if _, err := resolver.Resolve(context.Background(), items, decimal.Zero); err != nil {
		t.Fatalf("Expected resolution to succeed: %v", err)
	}
	after := itemByLine(items, 10)
	if after.PartNumber != before.PartNumber || !after.ExtendedCost.Equal(before.ExtendedCost) {
		t.Errorf("Expected frame line to be untouched, before=%+v after=%+v", before, after)
	}
}
