package testing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomgen/pkg/domain/entities"
	"github.com/vsinha/bomgen/pkg/infrastructure/repositories/memory"
)

// BuildSinkTestData builds the sink workstation scenario used across the
// service tests: a seven-part catalog with one short basin that has a
// preferred substitute, and a single SinkModelA template whose lines
// exercise formulas, conditions, scrap, and a phantom kit.
func BuildSinkTestData() (*memory.PartCatalog, *memory.TemplateRepository, *memory.BomRepository) {
	catalog := memory.NewPartCatalog(8)
	templateRepo := memory.NewTemplateRepository()
	bomRepo := memory.NewBomRepository()

	dec := decimal.NewFromFloat

	parts := []entities.Part{
		{
			PartNumber:    "SINK-FRAME",
			Description:   "Workstation Frame",
			Type:          entities.PartTypeAssembly,
			CurrentCost:   dec(120.00),
			Weight:        dec(18.5),
			Status:        entities.StatusActive,
			OnHand:        dec(40),
			UnitOfMeasure: "EA",
		},
		{
			PartNumber:    "SINK-BASIN-01",
			Description:   "Stainless Basin",
			Type:          entities.PartTypeComponent,
			CurrentCost:   dec(45.00),
			StandardCost:  dec(42.00),
			Weight:        dec(3.2),
			Status:        entities.StatusActive,
			OnHand:        dec(1),
			UnitOfMeasure: "EA",
			Substitutes: []entities.Substitute{
				{SubstitutePN: "SINK-BASIN-02", Tier: entities.TierPreferred, ConversionFactor: decimal.NewFromInt(1)},
				{SubstitutePN: "SINK-BASIN-03", Tier: entities.TierEmergency, ConversionFactor: decimal.NewFromInt(2)},
			},
		},
		{
			PartNumber:    "SINK-BASIN-02",
			Description:   "Stainless Basin (alternate)",
			Type:          entities.PartTypeComponent,
			CurrentCost:   dec(48.50),
			Weight:        dec(3.4),
			Status:        entities.StatusActive,
			OnHand:        dec(500),
			UnitOfMeasure: "EA",
		},
		{
			PartNumber:    "SINK-BASIN-03",
			Description:   "Half-Size Basin",
			Type:          entities.PartTypeComponent,
			CurrentCost:   dec(30.00),
			Weight:        dec(1.9),
			Status:        entities.StatusActive,
			OnHand:        dec(500),
			UnitOfMeasure: "EA",
		},
		{
			PartNumber:    "SINK-FAUCET",
			Description:   "Single-Lever Faucet",
			Type:          entities.PartTypeComponent,
			CurrentCost:   dec(32.75),
			Weight:        dec(1.1),
			Status:        entities.StatusActive,
			OnHand:        dec(200),
			UnitOfMeasure: "EA",
		},
		{
			PartNumber:    "SINK-HW-KIT",
			Description:   "Mounting Hardware Kit",
			Type:          entities.PartTypePhantom,
			Status:        entities.StatusActive,
			UnitOfMeasure: "EA",
		},
		{
			PartNumber:    "SINK-BOLT-M8",
			Description:   "M8 Bolt",
			Type:          entities.PartTypeComponent,
			CurrentCost:   dec(0.12),
			Weight:        dec(0.02),
			Status:        entities.StatusActive,
			OnHand:        dec(10000),
			UnitOfMeasure: "EA",
		},
		{
			PartNumber:    "SINK-PEGBOARD",
			Description:   "Backsplash Pegboard",
			Type:          entities.PartTypeComponent,
			CurrentCost:   dec(26.00),
			Weight:        dec(4.8),
			Status:        entities.StatusActive,
			OnHand:        dec(75),
			UnitOfMeasure: "EA",
		},
	}
	for _, part := range parts {
		catalog.AddPart(part)
	}

	tmpl := SinkTemplate()
	if err := templateRepo.LoadTemplates(context.Background(), []*entities.BomTemplate{tmpl}); err != nil {
		panic(err)
	}

	return catalog, templateRepo, bomRepo
}

// SinkTemplate returns the standard SinkModelA template
func SinkTemplate() *entities.BomTemplate {
	one := decimal.NewFromInt(1)

	items := []entities.TemplateItem{
		{LineNumber: 10, PartNumber: "SINK-FRAME", BaseQuantity: one, Level: 1},
		{
			LineNumber:       20,
			PartNumber:       "SINK-BASIN-01",
			BaseQuantity:     one,
			QuantityFormula:  "basin_count",
			IncludeCondition: "basin_count > 0",
			ParentLine:       10,
			Level:            2,
			ScrapFactor:      decimal.NewFromFloat(0.02),
		},
		{
			LineNumber:      30,
			PartNumber:      "SINK-FAUCET",
			BaseQuantity:    one,
			QuantityFormula: "basin_count",
			ParentLine:      10,
			Level:           2,
		},
		{
			LineNumber:   40,
			PartNumber:   "SINK-HW-KIT",
			BaseQuantity: one,
			ParentLine:   10,
			Level:        2,
			IsPhantom:    true,
		},
		{
			LineNumber:      50,
			PartNumber:      "SINK-BOLT-M8",
			BaseQuantity:    decimal.NewFromInt(8),
			QuantityFormula: "basin_count * 4 + 8",
			ParentLine:      40,
			Level:           3,
		},
		{
			LineNumber:       60,
			PartNumber:       "SINK-PEGBOARD",
			BaseQuantity:     one,
			IncludeCondition: "has_pegboard",
			ParentLine:       10,
			Level:            2,
		},
	}

	tmpl, err := entities.NewBomTemplate(
		"TPL-SINK-A",
		"SinkModelA",
		"family = 'SinkModelA'",
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		items,
	)
	if err != nil {
		panic(err)
	}
	tmpl.Description = "Standard sink workstation"
	return tmpl
}

// SinkSnapshot returns a double-basin snapshot without a pegboard
func SinkSnapshot() *entities.ConfigurationSnapshot {
	return entities.NewConfigurationSnapshot(map[string]any{
		"family":       "SinkModelA",
		"basin_count":  2,
		"has_pegboard": false,
	})
}
