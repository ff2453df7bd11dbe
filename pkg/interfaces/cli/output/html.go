package output

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vsinha/bomgen/pkg/domain/entities"
)

//go:embed templates/*.html
var templateFS embed.FS

// htmlRow is one rendered item row in the HTML report
type htmlRow struct {
	LineNumber       int
	Indent           string
	PartNumber       string
	Description      string
	QuantityRequired string
	ScrapFactor      string
	TotalQuantity    string
	UnitCost         string
	ExtendedCost     string
	IsPhantom        bool
	IsSubstitute     bool
	OriginalPart     string
}

// htmlReportData contains all data for rendering the HTML template
type htmlReportData struct {
	OrderID         string
	Version         int
	Family          string
	TemplateID      string
	Status          string
	GeneratedAt     string
	Rows            []htmlRow
	Warnings        []string
	TotalCost       string
	TotalWeight     string
	TotalPartsCount int
}

// renderHTML produces a standalone HTML report for a generated BOM
func renderHTML(bom *entities.Bom) (string, error) {
	data := htmlReportData{
		OrderID:         bom.OrderID,
		Version:         bom.Version,
		Family:          bom.Family,
		TemplateID:      bom.TemplateID,
		Status:          bom.Status.String(),
		GeneratedAt:     time.Now().Format("2006-01-02 15:04:05"),
		TotalCost:       bom.TotalCost.StringFixed(2),
		TotalWeight:     bom.TotalWeight.String(),
		TotalPartsCount: bom.TotalPartsCount,
	}

	for _, item := range bom.Items {
		data.Rows = append(data.Rows, htmlRow{
			LineNumber:       item.LineNumber,
			Indent:           strings.Repeat("   ", item.Level-1),
			PartNumber:       string(item.PartNumber),
			Description:      item.Description,
			QuantityRequired: item.QuantityRequired.String(),
			ScrapFactor:      item.ScrapFactor.String(),
			TotalQuantity:    item.TotalQuantity.String(),
			UnitCost:         item.UnitCost.StringFixed(2),
			ExtendedCost:     item.ExtendedCost.StringFixed(2),
			IsPhantom:        item.IsPhantom,
			IsSubstitute:     item.IsSubstitute,
			OriginalPart:     string(item.OriginalPart),
		})
	}
	for _, w := range bom.Warnings {
		data.Warnings = append(data.Warnings, w.String())
	}

	tmpl, err := template.ParseFS(templateFS, "templates/bom_report.html")
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// generateHTMLOutput creates HTML output file
func generateHTMLOutput(bom *entities.Bom, config Config) error {
	html, err := renderHTML(bom)
	if err != nil {
		return fmt.Errorf("failed to generate HTML report: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Println(html)
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(config.OutputDir, reportFilename(bom, "html"))
	if err := os.WriteFile(filename, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}

	if config.Verbose {
		fmt.Printf("🌐 HTML report saved to: %s\n", filename)
	}
	return nil
}
