package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vsinha/bomgen/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format         string
	OutputDir      string
	Verbose        bool
	GenerationTime time.Duration
}

// Generate creates output in the specified format
func Generate(bom *entities.Bom, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(bom, config)
	case "json":
		return generateJSONOutput(bom, config)
	case "xlsx":
		return generateExcelOutput(bom, config)
	case "html":
		return generateHTMLOutput(bom, config)
	case "svg":
		return generateSVGOutput(bom, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(bom *entities.Bom, config Config) error {
	fmt.Printf("📊 BOM %s v%d (%s)\n", bom.OrderID, bom.Version, bom.Status)
	fmt.Printf("================================\n\n")

	fmt.Printf("Family: %s\n", bom.Family)
	fmt.Printf("Template: %s\n", bom.TemplateID)
	fmt.Printf("Parts: %d\n", bom.TotalPartsCount)
	fmt.Printf("Total Cost: %s\n", bom.TotalCost.StringFixed(2))
	fmt.Printf("Total Weight: %s\n", bom.TotalWeight.StringFixed(3))
	if config.GenerationTime > 0 {
		fmt.Printf("Generation Time: %v\n", config.GenerationTime)
	}
	fmt.Println()

	if len(bom.Items) > 0 {
		fmt.Printf("📋 Items:\n")
		fmt.Printf("%-6s %-18s %-28s %-10s %-10s %-12s\n",
			"Line", "Part Number", "Description", "Qty", "Unit Cost", "Ext. Cost")
		fmt.Printf("%-6s %-18s %-28s %-10s %-10s %-12s\n",
			"------", "------------------", "----------------------------", "----------", "----------", "------------")

		for _, item := range bom.Items {
			indent := ""
			for l := 1; l < item.Level; l++ {
				indent += "  "
			}
			marker := ""
			if item.IsSubstitute {
				marker = fmt.Sprintf(" (sub for %s)", item.OriginalPart)
			}
			if item.IsPhantom {
				marker += " [phantom]"
			}
			fmt.Printf("%-6d %-18s %-28s %-10s %-10s %-12s\n",
				item.LineNumber,
				indent+string(item.PartNumber),
				item.Description+marker,
				item.TotalQuantity.String(),
				item.UnitCost.StringFixed(2),
				item.ExtendedCost.StringFixed(2))
		}
		fmt.Println()
	}

	if len(bom.Warnings) > 0 {
		fmt.Printf("⚠️  Warnings:\n")
		for _, w := range bom.Warnings {
			fmt.Printf("  %s\n", w)
		}
		fmt.Println()
	}

	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(bom *entities.Bom, config Config) error {
	jsonData, err := json.MarshalIndent(newBomReport(bom), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Println(string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, reportFilename(bom, "json"))
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Printf("💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateSVGOutput writes the cost breakdown chart
func generateSVGOutput(bom *entities.Bom, config Config) error {
	svg := NewCostChart().GenerateSVG(bom)

	if config.OutputDir == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(config.OutputDir, reportFilename(bom, "svg"))
	if err := os.WriteFile(filename, []byte(svg), 0644); err != nil {
		return fmt.Errorf("failed to write SVG file: %w", err)
	}
	if config.Verbose {
		fmt.Printf("📈 Cost chart saved to: %s\n", filename)
	}
	return nil
}

func reportFilename(bom *entities.Bom, ext string) string {
	return fmt.Sprintf("bom_%s_v%d.%s", bom.OrderID, bom.Version, ext)
}

// bomReport is the serialized shape of a generated BOM. Decimals render
// as strings so downstream consumers keep exact values.
type bomReport struct {
	ID              string           `json:"id"`
	OrderID         string           `json:"order_id"`
	Version         int              `json:"version"`
	Family          string           `json:"family"`
	TemplateID      string           `json:"template_id"`
	Status          string           `json:"status"`
	TotalCost       string           `json:"total_cost"`
	TotalWeight     string           `json:"total_weight"`
	TotalPartsCount int              `json:"total_parts_count"`
	CreatedBy       string           `json:"created_by,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	Items           []bomItemReport  `json:"items"`
	Warnings        []warningReport  `json:"warnings,omitempty"`
	Snapshot        map[string]any   `json:"snapshot,omitempty"`
}

type bomItemReport struct {
	ID               string `json:"id"`
	LineNumber       int    `json:"line_number"`
	PartNumber       string `json:"part_number"`
	Description      string `json:"description,omitempty"`
	QuantityRequired string `json:"quantity_required"`
	ScrapFactor      string `json:"scrap_factor"`
	TotalQuantity    string `json:"total_quantity"`
	UnitCost         string `json:"unit_cost"`
	ExtendedCost     string `json:"extended_cost"`
	UnitWeight       string `json:"unit_weight"`
	ParentItemID     string `json:"parent_item_id,omitempty"`
	Level            int    `json:"level"`
	IsPhantom        bool   `json:"is_phantom,omitempty"`
	IsSubstitute     bool   `json:"is_substitute,omitempty"`
	OriginalPart     string `json:"original_part,omitempty"`
}

type warningReport struct {
	Code       string `json:"code"`
	LineNumber int    `json:"line_number,omitempty"`
	PartNumber string `json:"part_number,omitempty"`
	Message    string `json:"message"`
}

func newBomReport(bom *entities.Bom) bomReport {
	report := bomReport{
		ID:              bom.ID,
		OrderID:         bom.OrderID,
		Version:         bom.Version,
		Family:          bom.Family,
		TemplateID:      bom.TemplateID,
		Status:          bom.Status.String(),
		TotalCost:       bom.TotalCost.String(),
		TotalWeight:     bom.TotalWeight.String(),
		TotalPartsCount: bom.TotalPartsCount,
		CreatedBy:       bom.CreatedBy,
		CreatedAt:       bom.CreatedAt,
	}
	if bom.Snapshot != nil {
		report.Snapshot = bom.Snapshot.Values()
	}
	for _, item := range bom.Items {
		report.Items = append(report.Items, bomItemReport{
			ID:               item.ID,
			LineNumber:       item.LineNumber,
			PartNumber:       string(item.PartNumber),
			Description:      item.Description,
			QuantityRequired: item.QuantityRequired.String(),
			ScrapFactor:      item.ScrapFactor.String(),
			TotalQuantity:    item.TotalQuantity.String(),
			UnitCost:         item.UnitCost.String(),
			ExtendedCost:     item.ExtendedCost.String(),
			UnitWeight:       item.UnitWeight.String(),
			ParentItemID:     item.ParentItemID,
			Level:            item.Level,
			IsPhantom:        item.IsPhantom,
			IsSubstitute:     item.IsSubstitute,
			OriginalPart:     string(item.OriginalPart),
		})
	}
	for _, w := range bom.Warnings {
		report.Warnings = append(report.Warnings, warningReport{
			Code:       string(w.Code),
			LineNumber: w.LineNumber,
			PartNumber: string(w.PartNumber),
			Message:    w.Message,
		})
	}
	return report
}
