package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BomStatus represents the lifecycle state of a Bom version
type BomStatus int

const (
	StatusDraft BomStatus = iota
	StatusPendingApproval
	StatusApproved
	StatusObsolete
)

func (s BomStatus) String() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusPendingApproval:
		return "PendingApproval"
	case StatusApproved:
		return "Approved"
	case StatusObsolete:
		return "Obsolete"
	default:
		return "Unknown"
	}
}

// CanTransitionTo reports whether the state machine permits moving from
// this status to the target. OBSOLETE is terminal and no transition may
// skip states.
func (s BomStatus) CanTransitionTo(target BomStatus) bool {
	switch s {
	case StatusDraft:
		return target == StatusPendingApproval
	case StatusPendingApproval:
		return target == StatusApproved || target == StatusDraft
	case StatusApproved:
		return target == StatusObsolete
	default:
		return false
	}
}

// WarningCode classifies a non-fatal problem recorded during generation
type WarningCode string

const (
	WarningFormulaFailed   WarningCode = "FORMULA_EVALUATION_FAILURE"
	WarningConditionFailed WarningCode = "CONDITION_EVALUATION_FAILURE"
	WarningPartNotFound    WarningCode = "PART_NOT_FOUND"
	WarningNoSubstitute    WarningCode = "NO_SUBSTITUTE_AVAILABLE"
	WarningRuleFailed      WarningCode = "MATCHING_RULE_FAILURE"
)

// Warning represents a recovered, non-fatal problem visible on the Bom
type Warning struct {
	Code       WarningCode
	LineNumber int
	PartNumber PartNumber
	Message    string
}

func (w Warning) String() string {
	if w.LineNumber > 0 {
		return fmt.Sprintf("[%s] line %d (%s): %s", w.Code, w.LineNumber, w.PartNumber, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}

// BomItem represents one resolved line of a generated Bom. Items are
// created once during expansion and are immutable thereafter; corrections
// require a new Bom version.
type BomItem struct {
	ID               string
	LineNumber       int
	PartNumber       PartNumber
	Description      string
	QuantityRequired decimal.Decimal
	ScrapFactor      decimal.Decimal
	TotalQuantity    decimal.Decimal
	UnitCost         decimal.Decimal
	ExtendedCost     decimal.Decimal
	UnitWeight       decimal.Decimal
	ParentItemID     string // empty = root
	Level            int
	IsPhantom        bool
	IsSubstitute     bool
	OriginalPart     PartNumber // set iff substituted
}

// IsRoot reports whether the item has no parent within its Bom
func (i *BomItem) IsRoot() bool {
	return i.ParentItemID == ""
}

// Bom represents one generated, versioned bill of materials for an order.
// Versions are strictly increasing per order; at most one non-obsolete
// version is active at a time.
type Bom struct {
	ID              string
	OrderID         string
	Version         int
	Family          string
	TemplateID      string
	Status          BomStatus
	Snapshot        *ConfigurationSnapshot
	Items           []BomItem
	Warnings        []Warning
	TotalCost       decimal.Decimal
	TotalWeight     decimal.Decimal
	TotalPartsCount int
	CreatedBy       string
	CreatedAt       time.Time
	ApprovedBy      string
	ApprovedAt      *time.Time
	RejectReason    string
}

// ItemByID returns the item with the given id, or nil.
func (b *Bom) ItemByID(id string) *BomItem {
	for i := range b.Items {
		if b.Items[i].ID == id {
			return &b.Items[i]
		}
	}
	return nil
}

// Validate checks the tree invariants: every non-root item's parent exists
// in the same Bom, levels strictly increase from parent to child, and the
// parent linkage forms a forest.
func (b *Bom) Validate() error {
	byID := make(map[string]*BomItem, len(b.Items))
	for i := range b.Items {
		item := &b.Items[i]
		if item.ID == "" {
			return fmt.Errorf("bom item at line %d has no id", item.LineNumber)
		}
		if _, dup := byID[item.ID]; dup {
			return fmt.Errorf("duplicate bom item id %s", item.ID)
		}
		byID[item.ID] = item
	}
	for i := range b.Items {
		item := &b.Items[i]
		if item.IsRoot() {
			if item.Level != 1 {
				return fmt.Errorf("root item %s has level %d, want 1", item.PartNumber, item.Level)
			}
			continue
		}
		parent, ok := byID[item.ParentItemID]
		if !ok {
			return fmt.Errorf("item %s references missing parent %s", item.PartNumber, item.ParentItemID)
		}
		if item.Level <= parent.Level {
			return fmt.Errorf("item %s level %d not greater than parent level %d",
				item.PartNumber, item.Level, parent.Level)
		}
		// Walk to the root to detect cycles. Parent levels strictly
		// decrease on the way up, so the walk is bounded by MaxBomLevel.
		seen := 0
		for cur := parent; cur != nil && !cur.IsRoot(); cur = byID[cur.ParentItemID] {
			seen++
			if seen > MaxBomLevel {
				return fmt.Errorf("cycle detected at item %s", item.PartNumber)
			}
		}
	}
	return nil
}
