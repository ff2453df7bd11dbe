package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TemplateItem represents one line of a BOM template. Items are ordered by
// LineNumber and must be pre-order: a parent's line number is always lower
// than its children's.
type TemplateItem struct {
	LineNumber       int
	PartNumber       PartNumber
	BaseQuantity     decimal.Decimal
	QuantityFormula  string
	IncludeCondition string
	ParentLine       int // 0 = root item
	Level            int // 1..10, strictly greater than the parent's level
	ScrapFactor      decimal.Decimal
	IsPhantom        bool
}

// NewTemplateItem creates a validated TemplateItem
func NewTemplateItem(lineNumber int, partNumber PartNumber, baseQuantity decimal.Decimal, level int) (*TemplateItem, error) {
	if lineNumber <= 0 {
		return nil, fmt.Errorf("line number must be positive, got %d", lineNumber)
	}
	if partNumber == "" {
		return nil, fmt.Errorf("part number cannot be empty")
	}
	if baseQuantity.IsNegative() {
		return nil, fmt.Errorf("base quantity cannot be negative, got %s", baseQuantity)
	}
	if level < 1 || level > MaxBomLevel {
		return nil, fmt.Errorf("level must be between 1 and %d, got %d", MaxBomLevel, level)
	}
	return &TemplateItem{
		LineNumber:   lineNumber,
		PartNumber:   partNumber,
		BaseQuantity: baseQuantity,
		Level:        level,
	}, nil
}

// IsRoot reports whether the item has no parent
func (i *TemplateItem) IsRoot() bool {
	return i.ParentLine == 0
}

// MaxBomLevel is the deepest level a template or BOM item may occupy
const MaxBomLevel = 10

// BomTemplate represents an authoring-time pattern describing which parts
// a product family needs, parameterized by configuration variables.
// Templates and their items are read-only inputs to generation.
type BomTemplate struct {
	ID           string
	Family       string
	Description  string
	MatchingRule string
	CreatedAt    time.Time
	Items        []TemplateItem
}

// NewBomTemplate creates a validated BomTemplate
func NewBomTemplate(id, family, matchingRule string, createdAt time.Time, items []TemplateItem) (*BomTemplate, error) {
	if id == "" {
		return nil, fmt.Errorf("template id cannot be empty")
	}
	if family == "" {
		return nil, fmt.Errorf("template family cannot be empty")
	}
	if matchingRule == "" {
		return nil, fmt.Errorf("template matching rule cannot be empty")
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("template must have at least one item")
	}
	return &BomTemplate{
		ID:           id,
		Family:       family,
		MatchingRule: matchingRule,
		CreatedAt:    createdAt,
		Items:        items,
	}, nil
}

// ItemByLine returns the template item with the given line number, or nil.
func (t *BomTemplate) ItemByLine(line int) *TemplateItem {
	for i := range t.Items {
		if t.Items[i].LineNumber == line {
			return &t.Items[i]
		}
	}
	return nil
}
