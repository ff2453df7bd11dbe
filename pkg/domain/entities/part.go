package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PartNumber represents a unique part identifier
type PartNumber string

// PartType classifies a catalog record
type PartType int

const (
	PartTypeComponent PartType = iota
	PartTypeAssembly
	PartTypeSubAssembly
	PartTypePhantom
)

func (t PartType) String() string {
	switch t {
	case PartTypeComponent:
		return "Component"
	case PartTypeAssembly:
		return "Assembly"
	case PartTypeSubAssembly:
		return "SubAssembly"
	case PartTypePhantom:
		return "Phantom"
	default:
		return "Unknown"
	}
}

// InventoryStatus represents the availability status of a catalog part
type InventoryStatus int

const (
	StatusActive InventoryStatus = iota
	StatusInactive
	StatusDiscontinued
)

func (s InventoryStatus) String() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusInactive:
		return "Inactive"
	case StatusDiscontinued:
		return "Discontinued"
	default:
		return "Unknown"
	}
}

// SubstituteTier orders substitutes by preference. Lower values are
// preferred.
type SubstituteTier int

const (
	TierPreferred SubstituteTier = iota
	TierAcceptable
	TierEmergency
)

func (t SubstituteTier) String() string {
	switch t {
	case TierPreferred:
		return "Preferred"
	case TierAcceptable:
		return "Acceptable"
	case TierEmergency:
		return "Emergency"
	default:
		return "Unknown"
	}
}

// Substitute represents an alternate part usable in place of a primary
// part when the primary is unavailable
type Substitute struct {
	SubstitutePN     PartNumber
	Tier             SubstituteTier
	ConversionFactor decimal.Decimal
}

// NewSubstitute creates a validated Substitute
func NewSubstitute(substitutePN PartNumber, tier SubstituteTier, conversionFactor decimal.Decimal) (*Substitute, error) {
	if substitutePN == "" {
		return nil, fmt.Errorf("substitute part number cannot be empty")
	}
	if conversionFactor.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("conversion factor must be positive, got %s", conversionFactor)
	}
	return &Substitute{
		SubstitutePN:     substitutePN,
		Tier:             tier,
		ConversionFactor: conversionFactor,
	}, nil
}

// Part represents a part catalog record. The catalog is shared, read-only
// state from the engine's perspective; parts are referenced by number only.
type Part struct {
	PartNumber    PartNumber
	Description   string
	Type          PartType
	CurrentCost   decimal.Decimal
	StandardCost  decimal.Decimal
	Weight        decimal.Decimal
	Status        InventoryStatus
	OnHand        decimal.Decimal
	UnitOfMeasure string
	Substitutes   []Substitute
}

// UnitCost returns the cost used during expansion: current cost when set,
// otherwise standard cost, otherwise zero.
func (p *Part) UnitCost() decimal.Decimal {
	if p.CurrentCost.IsPositive() {
		return p.CurrentCost
	}
	if p.StandardCost.IsPositive() {
		return p.StandardCost
	}
	return decimal.Zero
}

// IsAvailable reports whether the part can satisfy the required quantity.
// The threshold is a reserve the caller wants left on hand after
// consumption; availability is advisory and never blocks generation.
func (p *Part) IsAvailable(required decimal.Decimal, threshold decimal.Decimal) bool {
	if p.Status != StatusActive {
		return false
	}
	return p.OnHand.Sub(threshold).GreaterThanOrEqual(required)
}
