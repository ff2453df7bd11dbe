package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/bomgen/pkg/application/services"
	"github.com/vsinha/bomgen/pkg/domain/entities"
	domainservices "github.com/vsinha/bomgen/pkg/domain/services"
	"github.com/vsinha/bomgen/pkg/infrastructure/events"
	"github.com/vsinha/bomgen/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()
	logger := zap.NewNop()

	// Create repositories
	catalog := memory.NewPartCatalog(16)
	templateRepo := memory.NewTemplateRepository()
	bomRepo := memory.NewBomRepository()
	eventStore := events.NewInMemoryEventStore()

	// Set up a sink workstation catalog and template
	setupSinkCatalog(catalog)
	setupSinkTemplates(ctx, templateRepo)

	matcher := domainservices.NewTemplateMatcher(logger)
	expander := services.NewTreeExpander(catalog, logger, services.DefaultCatalogTimeout)
	resolver := services.NewSubstitutionResolver(catalog, logger, services.DefaultCatalogTimeout)
	manager := services.NewLifecycleManager(bomRepo, templateRepo, matcher, expander, resolver, eventStore, logger)

	// Configure a double-basin sink, no pegboard
	snapshot := entities.NewConfigurationSnapshot(map[string]any{
		"family":       "SinkModelA",
		"basin_count":  2,
		"has_pegboard": false,
	})

	fmt.Println("🚿 Generating BOM for sink workstation order SO-1001...")
	bom, err := manager.Generate(ctx, "SO-1001", "SinkModelA", snapshot, services.GenerateOptions{
		CreatedBy: "alice",
	})
	if err != nil {
		fmt.Printf("❌ Generation failed: %v\n", err)
		return
	}
	printBom(bom)

	// Walk the approval lifecycle: draft -> pending -> approved.
	if _, err := manager.SubmitForApproval(ctx, bom.ID, "alice"); err != nil {
		fmt.Printf("❌ Submit failed: %v\n", err)
		return
	}
	approved, err := manager.Approve(ctx, bom.ID, "bob")
	if err != nil {
		fmt.Printf("❌ Approve failed: %v\n", err)
		return
	}
	fmt.Printf("✅ v%d approved by %s\n\n", approved.Version, approved.ApprovedBy)

	// The customer adds a pegboard; regenerate and approve a new version.
	snapshot2 := entities.NewConfigurationSnapshot(map[string]any{
		"family":       "SinkModelA",
		"basin_count":  2,
		"has_pegboard": true,
		"pegboard":     map[string]any{"width": 1.2, "height": 0.8},
	})

	fmt.Println("🔧 Customer added a pegboard; generating v2...")
	bom2, err := manager.Generate(ctx, "SO-1001", "SinkModelA", snapshot2, services.GenerateOptions{
		CreatedBy: "alice",
	})
	if err != nil {
		fmt.Printf("❌ Generation failed: %v\n", err)
		return
	}
	printBom(bom2)

	if _, err := manager.SubmitForApproval(ctx, bom2.ID, "alice"); err != nil {
		fmt.Printf("❌ Submit failed: %v\n", err)
		return
	}
	if _, err := manager.Approve(ctx, bom2.ID, "bob"); err != nil {
		fmt.Printf("❌ Approve failed: %v\n", err)
		return
	}

	// Approving v2 obsoletes v1 automatically.
	versions, err := manager.ListVersions(ctx, "SO-1001")
	if err != nil {
		fmt.Printf("❌ List failed: %v\n", err)
		return
	}
	fmt.Println("📜 Version history for SO-1001:")
	for _, v := range versions {
		fmt.Printf("  v%d: %s (%d parts, cost %s)\n",
			v.Version, v.Status, v.TotalPartsCount, v.TotalCost.StringFixed(2))
	}
	fmt.Println()

	diff, err := manager.CompareVersions(ctx, "SO-1001", 1, 2)
	if err != nil {
		fmt.Printf("❌ Compare failed: %v\n", err)
		return
	}
	fmt.Printf("🔍 v1 -> v2: %d added, %d removed, %d modified\n",
		len(diff.Added), len(diff.Removed), len(diff.Modified))
	for _, item := range diff.Added {
		fmt.Printf("  + %s (%s)\n", item.PartNumber, item.Description)
	}

	fmt.Println("\n✅ BOM lifecycle walkthrough complete!")
}

func printBom(bom *entities.Bom) {
	fmt.Printf("📊 %s v%d: %d parts, cost %s, weight %s\n",
		bom.OrderID, bom.Version, bom.TotalPartsCount,
		bom.TotalCost.StringFixed(2), bom.TotalWeight.StringFixed(2))
	for _, item := range bom.Items {
		indent := ""
		for l := 1; l < item.Level; l++ {
			indent += "  "
		}
		fmt.Printf("  %s%s x%s (%s)\n", indent, item.PartNumber, item.TotalQuantity, item.Description)
	}
	for _, w := range bom.Warnings {
		fmt.Printf("  ⚠️  %s\n", w)
	}
	fmt.Println()
}

func setupSinkCatalog(catalog *memory.PartCatalog) {
	dec := decimal.NewFromFloat

	catalog.AddPart(entities.Part{
		PartNumber:    "SINK-FRAME",
		Description:   "Workstation Frame",
		Type:          entities.PartTypeAssembly,
		CurrentCost:   dec(120.00),
		Weight:        dec(18.5),
		Status:        entities.StatusActive,
		OnHand:        dec(40),
		UnitOfMeasure: "EA",
	})
	catalog.AddPart(entities.Part{
		PartNumber:    "SINK-BASIN-01",
		Description:   "Stainless Basin",
		Type:          entities.PartTypeComponent,
		CurrentCost:   dec(45.00),
		StandardCost:  dec(42.00),
		Weight:        dec(3.2),
		Status:        entities.StatusActive,
		OnHand:        dec(1), // shortage: forces a substitution for qty 2
		UnitOfMeasure: "EA",
		Substitutes: []entities.Substitute{
			{SubstitutePN: "SINK-BASIN-02", Tier: entities.TierPreferred, ConversionFactor: decimal.NewFromInt(1)},
		},
	})
	catalog.AddPart(entities.Part{
		PartNumber:    "SINK-BASIN-02",
		Description:   "Stainless Basin (alternate)",
		Type:          entities.PartTypeComponent,
		CurrentCost:   dec(48.50),
		Weight:        dec(3.4),
		Status:        entities.StatusActive,
		OnHand:        dec(500),
		UnitOfMeasure: "EA",
	})
	catalog.AddPart(entities.Part{
		PartNumber:    "SINK-FAUCET",
		Description:   "Single-Lever Faucet",
		Type:          entities.PartTypeComponent,
		CurrentCost:   dec(32.75),
		Weight:        dec(1.1),
		Status:        entities.StatusActive,
		OnHand:        dec(200),
		UnitOfMeasure: "EA",
	})
	catalog.AddPart(entities.Part{
		PartNumber:    "SINK-HW-KIT",
		Description:   "Mounting Hardware Kit",
		Type:          entities.PartTypePhantom,
		Status:        entities.StatusActive,
		OnHand:        dec(0),
		UnitOfMeasure: "EA",
	})
	catalog.AddPart(entities.Part{
		PartNumber:    "SINK-BOLT-M8",
		Description:   "M8 Bolt",
		Type:          entities.PartTypeComponent,
		CurrentCost:   dec(0.12),
		Weight:        dec(0.02),
		Status:        entities.StatusActive,
		OnHand:        dec(10000),
		UnitOfMeasure: "EA",
	})
	catalog.AddPart(entities.Part{
		PartNumber:    "SINK-PEGBOARD",
		Description:   "Backsplash Pegboard",
		Type:          entities.PartTypeComponent,
		CurrentCost:   dec(26.00),
		Weight:        dec(4.8),
		Status:        entities.StatusActive,
		OnHand:        dec(75),
		UnitOfMeasure: "EA",
	})
}

func setupSinkTemplates(ctx context.Context, repo *memory.TemplateRepository) {
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

	if err := repo.LoadTemplates(ctx, []*entities.BomTemplate{tmpl}); err != nil {
		panic(err)
	}
}
