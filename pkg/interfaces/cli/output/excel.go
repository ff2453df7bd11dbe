package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/bomgen/pkg/domain/entities"
)

var excelHeaders = []string{
	"Line", "Level", "Part Number", "Description", "Qty Required",
	"Scrap Factor", "Total Qty", "Unit Cost", "Extended Cost",
	"Unit Weight", "Phantom", "Substitute For",
}

// generateExcelOutput writes the BOM as a styled xlsx workbook
func generateExcelOutput(bom *entities.Bom, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for xlsx format")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "BOM"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range excelHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, item := range bom.Items {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.LineNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.Level)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), string(item.PartNumber))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.Description)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.QuantityRequired.String())
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), item.ScrapFactor.String())
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), item.TotalQuantity.String())
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), item.UnitCost.StringFixed(2))
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), item.ExtendedCost.StringFixed(2))
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), item.UnitWeight.String())
		if item.IsPhantom {
			f.SetCellValue(sheet, fmt.Sprintf("K%d", row), "yes")
		}
		if item.IsSubstitute {
			f.SetCellValue(sheet, fmt.Sprintf("L%d", row), string(item.OriginalPart))
		}
	}

	summaryRow := len(bom.Items) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", summaryRow), fmt.Sprintf("%d parts", bom.TotalPartsCount))
	f.SetCellValue(sheet, fmt.Sprintf("I%d", summaryRow), bom.TotalCost.StringFixed(2))
	f.SetCellValue(sheet, fmt.Sprintf("J%d", summaryRow), bom.TotalWeight.String())
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("L%d", summaryRow), summaryStyle)

	colWidths := []float64{6, 6, 18, 28, 12, 12, 12, 10, 12, 10, 8, 16}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(config.OutputDir, reportFilename(bom, "xlsx"))
	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to write xlsx file: %w", err)
	}

	if config.Verbose {
		fmt.Printf("💾 Excel report saved to: %s\n", filename)
	}
	return nil
}
