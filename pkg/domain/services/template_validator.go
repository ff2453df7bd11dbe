package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomgen/pkg/domain/entities"
)

// ValidateTemplateStructure checks the structural preconditions the tree
// expander relies on: items sorted by line number are pre-order (every
// parent line precedes and exists before its children), levels fit the
// 1..MaxBomLevel range, root items sit at level 1, child levels are
// strictly greater than their parent's, and scrap factors fall in
// [0, 1). Violations indicate template authoring errors and fail fast
// with the offending line number.
func ValidateTemplateStructure(tmpl *entities.BomTemplate) error {
	one := decimal.NewFromInt(1)
	seen := make(map[int]*entities.TemplateItem, len(tmpl.Items))
	lastLine := 0
	for i := range tmpl.Items {
		item := &tmpl.Items[i]
		if item.LineNumber <= lastLine {
			return fmt.Errorf("template %s: line numbers not strictly increasing at line %d",
				tmpl.ID, item.LineNumber)
		}
		lastLine = item.LineNumber

		if item.Level < 1 || item.Level > entities.MaxBomLevel {
			return fmt.Errorf("template %s: line %d has level %d outside 1..%d",
				tmpl.ID, item.LineNumber, item.Level, entities.MaxBomLevel)
		}

		if item.ScrapFactor.IsNegative() || item.ScrapFactor.GreaterThanOrEqual(one) {
			return fmt.Errorf("template %s: line %d has scrap factor %s outside [0, 1)",
				tmpl.ID, item.LineNumber, item.ScrapFactor)
		}

		if item.IsRoot() {
			if item.Level != 1 {
				return fmt.Errorf("template %s: root line %d has level %d, want 1",
					tmpl.ID, item.LineNumber, item.Level)
			}
		} else {
			parent, ok := seen[item.ParentLine]
			if !ok {
				// Either the parent line does not exist or it appears
				// after the child; both break the pre-order guarantee.
				return fmt.Errorf("template %s: %w",
					tmpl.ID, entities.OrphanReferenceError(item.LineNumber, item.ParentLine))
			}
			if item.Level <= parent.Level {
				return fmt.Errorf("template %s: line %d level %d not greater than parent line %d level %d",
					tmpl.ID, item.LineNumber, item.Level, parent.LineNumber, parent.Level)
			}
		}

		seen[item.LineNumber] = item
	}
	return nil
}
