package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPart_UnitCost(t *testing.T) {
	dec := decimal.NewFromFloat

	testCases := []struct {
		name     string
		current  decimal.Decimal
		standard decimal.Decimal
		expect   decimal.Decimal
	}{
		{"current wins", dec(45.00), dec(42.00), dec(45.00)},
		{"falls back to standard", decimal.Zero, dec(42.00), dec(42.00)},
		{"both unset", decimal.Zero, decimal.Zero, decimal.Zero},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			part := Part{CurrentCost: tc.current, StandardCost: tc.standard}
			if got := part.UnitCost(); !got.Equal(tc.expect) {
				t.Errorf("Expected unit cost %s, got %s", tc.expect, got)
			}
		})
	}
}

func TestPart_IsAvailable(t *testing.T) {
	dec := decimal.NewFromFloat

	part := Part{
		PartNumber: "SINK-BASIN-01",
		Status:     StatusActive,
		OnHand:     dec(10),
	}

	testCases := []struct {
		name      string
		status    InventoryStatus
		required  decimal.Decimal
		threshold decimal.Decimal
		expect    bool
	}{
		{"plenty on hand", StatusActive, dec(5), decimal.Zero, true},
		{"exactly on hand", StatusActive, dec(10), decimal.Zero, true},
		{"short", StatusActive, dec(11), decimal.Zero, false},
		{"reserve eats the stock", StatusActive, dec(8), dec(3), false},
		{"reserve leaves enough", StatusActive, dec(7), dec(3), true},
		{"inactive part never available", StatusInactive, dec(1), decimal.Zero, false},
		{"discontinued part never available", StatusDiscontinued, dec(1), decimal.Zero, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := part
			p.Status = tc.status
			if got := p.IsAvailable(tc.required, tc.threshold); got != tc.expect {
				t.Errorf("Expected IsAvailable(%s, %s)=%v, got %v", tc.required, tc.threshold, tc.expect, got)
			}
		})
	}
}

func TestNewSubstitute_Validation(t *testing.T) {
	one := decimal.NewFromInt(1)

	sub, err := NewSubstitute("SINK-BASIN-02", TierPreferred, one)
	if err != nil {
		t.Fatalf("Expected valid substitute creation to succeed: %v", err)
	}
	if sub.SubstitutePN != "SINK-BASIN-02" {
		t.Errorf("Expected substitute part SINK-BASIN-02, got %s", sub.SubstitutePN)
	}

	if _, err := NewSubstitute("", TierPreferred, one); err == nil {
		t.Error("Expected error for empty substitute part number")
	}
	if _, err := NewSubstitute("SINK-BASIN-02", TierPreferred, decimal.Zero); err == nil {
		t.Error("Expected error for zero conversion factor")
	}
	if _, err := NewSubstitute("SINK-BASIN-02", TierPreferred, decimal.NewFromInt(-1)); err == nil {
		t.Error("Expected error for negative conversion factor")
	}
}

func TestSubstituteTier_Ordering(t *testing.T) {
	if !(TierPreferred < TierAcceptable && TierAcceptable < TierEmergency) {
		t.Error("Expected tier constants to order preferred < acceptable < emergency")
	}
}
