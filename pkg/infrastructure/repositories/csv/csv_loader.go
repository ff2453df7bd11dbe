// Package csv loads part catalog and BOM template data from CSV files
// for the CLI and for scenario-based tests.
package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomgen/pkg/domain/entities"
)

// Loader handles loading engine data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadParts loads catalog parts from a CSV file
func (l *Loader) LoadParts(filename string) ([]*entities.Part, error) {
	records, err := readAll(filename)
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"part_number", "description", "type", "current_cost", "standard_cost", "weight", "status", "on_hand", "unit_of_measure"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("parts CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var parts []*entities.Part
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("parts CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		part, err := parsePart(record)
		if err != nil {
			return nil, fmt.Errorf("parts CSV row %d: %w", i+2, err)
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// LoadSubstitutes loads substitute relationships from a CSV file and
// attaches them to the matching parts in place.
func (l *Loader) LoadSubstitutes(filename string, parts []*entities.Part) error {
	records, err := readAll(filename)
	if err != nil {
		return err
	}

	expectedHeader := []string{"part_number", "substitute_pn", "tier", "conversion_factor"}
	if !validateHeader(records[0], expectedHeader) {
		return fmt.Errorf("substitutes CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	byPN := make(map[entities.PartNumber]*entities.Part, len(parts))
	for _, part := range parts {
		byPN[part.PartNumber] = part
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return fmt.Errorf("substitutes CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		part, ok := byPN[entities.PartNumber(record[0])]
		if !ok {
			return fmt.Errorf("substitutes CSV row %d: unknown part %s", i+2, record[0])
		}
		tier, err := parseTier(record[2])
		if err != nil {
			return fmt.Errorf("substitutes CSV row %d: %w", i+2, err)
		}
		factor, err := decimal.NewFromString(record[3])
		if err != nil {
			return fmt.Errorf("substitutes CSV row %d: invalid conversion_factor: %s", i+2, record[3])
		}
		sub, err := entities.NewSubstitute(entities.PartNumber(record[1]), tier, factor)
		if err != nil {
			return fmt.Errorf("substitutes CSV row %d: %w", i+2, err)
		}
		part.Substitutes = append(part.Substitutes, *sub)
	}
	return nil
}

// LoadTemplates loads templates and their items from two CSV files
func (l *Loader) LoadTemplates(templatesFile, itemsFile string) ([]*entities.BomTemplate, error) {
	headerRecords, err := readAll(templatesFile)
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"template_id", "family", "description", "matching_rule", "created_at"}
	if !validateHeader(headerRecords[0], expectedHeader) {
		return nil, fmt.Errorf("templates CSV header mismatch. Expected: %v, Got: %v", expectedHeader, headerRecords[0])
	}

	byID := make(map[string]*entities.BomTemplate)
	var templates []*entities.BomTemplate
	for i, record := range headerRecords[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("templates CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		createdAt, err := time.Parse("2006-01-02", record[4])
		if err != nil {
			return nil, fmt.Errorf("templates CSV row %d: invalid created_at: %s (expected YYYY-MM-DD)", i+2, record[4])
		}
		tmpl := &entities.BomTemplate{
			ID:           record[0],
			Family:       record[1],
			Description:  record[2],
			MatchingRule: record[3],
			CreatedAt:    createdAt,
		}
		byID[tmpl.ID] = tmpl
		templates = append(templates, tmpl)
	}

	itemRecords, err := readAll(itemsFile)
	if err != nil {
		return nil, err
	}

	expectedItemHeader := []string{"template_id", "line_number", "part_number", "base_quantity", "quantity_formula", "include_condition", "parent_line", "level", "scrap_factor", "is_phantom"}
	if !validateHeader(itemRecords[0], expectedItemHeader) {
		return nil, fmt.Errorf("template items CSV header mismatch. Expected: %v, Got: %v", expectedItemHeader, itemRecords[0])
	}

	for i, record := range itemRecords[1:] {
		if len(record) != len(expectedItemHeader) {
			return nil, fmt.Errorf("template items CSV row %d: expected %d columns, got %d", i+2, len(expectedItemHeader), len(record))
		}
		tmpl, ok := byID[record[0]]
		if !ok {
			return nil, fmt.Errorf("template items CSV row %d: unknown template %s", i+2, record[0])
		}
		item, err := parseTemplateItem(record)
		if err != nil {
			return nil, fmt.Errorf("template items CSV row %d: %w", i+2, err)
		}
		tmpl.Items = append(tmpl.Items, item)
	}

	return templates, nil
}

func readAll(filename string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s must have header and at least one data row", filename)
	}
	return records, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}
	return true
}

func parsePart(record []string) (*entities.Part, error) {
	partType, err := parsePartType(record[2])
	if err != nil {
		return nil, err
	}
	currentCost, err := decimal.NewFromString(record[3])
	if err != nil {
		return nil, fmt.Errorf("invalid current_cost: %s", record[3])
	}
	standardCost, err := decimal.NewFromString(record[4])
	if err != nil {
		return nil, fmt.Errorf("invalid standard_cost: %s", record[4])
	}
	weight, err := decimal.NewFromString(record[5])
	if err != nil {
		return nil, fmt.Errorf("invalid weight: %s", record[5])
	}
	status, err := parseInventoryStatus(record[6])
	if err != nil {
		return nil, err
	}
	onHand, err := decimal.NewFromString(record[7])
	if err != nil {
		return nil, fmt.Errorf("invalid on_hand: %s", record[7])
	}

	return &entities.Part{
		PartNumber:    entities.PartNumber(record[0]),
		Description:   record[1],
		Type:          partType,
		CurrentCost:   currentCost,
		StandardCost:  standardCost,
		Weight:        weight,
		Status:        status,
		OnHand:        onHand,
		UnitOfMeasure: record[8],
	}, nil
}

func parseTemplateItem(record []string) (entities.TemplateItem, error) {
	lineNumber, err := strconv.Atoi(record[1])
	if err != nil {
		return entities.TemplateItem{}, fmt.Errorf("invalid line_number: %s", record[1])
	}
	baseQuantity, err := decimal.NewFromString(record[3])
	if err != nil {
		return entities.TemplateItem{}, fmt.Errorf("invalid base_quantity: %s", record[3])
	}
	parentLine := 0
	if record[6] != "" {
		parentLine, err = strconv.Atoi(record[6])
		if err != nil {
			return entities.TemplateItem{}, fmt.Errorf("invalid parent_line: %s", record[6])
		}
	}
	level, err := strconv.Atoi(record[7])
	if err != nil {
		return entities.TemplateItem{}, fmt.Errorf("invalid level: %s", record[7])
	}
	scrapFactor := decimal.Zero
	if record[8] != "" {
		scrapFactor, err = decimal.NewFromString(record[8])
		if err != nil {
			return entities.TemplateItem{}, fmt.Errorf("invalid scrap_factor: %s", record[8])
		}
	}
	if scrapFactor.IsNegative() || scrapFactor.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return entities.TemplateItem{}, fmt.Errorf("scrap_factor %s outside [0, 1)", scrapFactor)
	}
	isPhantom := strings.EqualFold(record[9], "true")

	return entities.TemplateItem{
		LineNumber:       lineNumber,
		PartNumber:       entities.PartNumber(record[2]),
		BaseQuantity:     baseQuantity,
		QuantityFormula:  record[4],
		IncludeCondition: record[5],
		ParentLine:       parentLine,
		Level:            level,
		ScrapFactor:      scrapFactor,
		IsPhantom:        isPhantom,
	}, nil
}

func parsePartType(s string) (entities.PartType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "component", "part":
		return entities.PartTypeComponent, nil
	case "assembly":
		return entities.PartTypeAssembly, nil
	case "subassembly", "sub_assembly":
		return entities.PartTypeSubAssembly, nil
	case "phantom":
		return entities.PartTypePhantom, nil
	default:
		return 0, fmt.Errorf("invalid part type: %s", s)
	}
}

func parseInventoryStatus(s string) (entities.InventoryStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return entities.StatusActive, nil
	case "inactive":
		return entities.StatusInactive, nil
	case "discontinued":
		return entities.StatusDiscontinued, nil
	default:
		return 0, fmt.Errorf("invalid inventory status: %s", s)
	}
}

func parseTier(s string) (entities.SubstituteTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "preferred":
		return entities.TierPreferred, nil
	case "acceptable":
		return entities.TierAcceptable, nil
	case "emergency":
		return entities.TierEmergency, nil
	default:
		return 0, fmt.Errorf("invalid substitute tier: %s", s)
	}
}
