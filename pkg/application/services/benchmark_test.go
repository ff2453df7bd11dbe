package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomgen/pkg/domain/entities"
	domainservices "github.com/vsinha/bomgen/pkg/domain/services"
	"github.com/vsinha/bomgen/pkg/infrastructure/repositories/memory"
)

// buildLargeScenario builds a wide template with the given number of
// lines under a single root, alternating plain, formula, and conditional
// lines, with a fully stocked catalog behind it.
func buildLargeScenario(lines int) (*memory.PartCatalog, *entities.BomTemplate) {
	catalog := memory.NewPartCatalog(lines + 1)
	one := decimal.NewFromInt(1)

	catalog.AddPart(entities.Part{
		PartNumber:  "ROOT-ASSY",
		Description: "Root Assembly",
		Type:        entities.PartTypeAssembly,
		CurrentCost: decimal.NewFromInt(100),
		Status:      entities.StatusActive,
		OnHand:      decimal.NewFromInt(1000),
	})

	items := make([]entities.TemplateItem, 0, lines+1)
	items = append(items, entities.TemplateItem{
		LineNumber: 10, PartNumber: "ROOT-ASSY", BaseQuantity: one, Level: 1,
	})

	for i := 0; i < lines; i++ {
		pn := entities.PartNumber(fmt.Sprintf("PN-%05d", i))
		catalog.AddPart(entities.Part{
			PartNumber:  pn,
			Description: fmt.Sprintf("Component %d", i),
			Type:        entities.PartTypeComponent,
			CurrentCost: decimal.NewFromFloat(2.50),
			Weight:      decimal.NewFromFloat(0.1),
			Status:      entities.StatusActive,
			OnHand:      decimal.NewFromInt(100000),
		})

		item := entities.TemplateItem{
			LineNumber:   20 + i*10,
			PartNumber:   pn,
			BaseQuantity: one,
			ParentLine:   10,
			Level:        2,
		}
		switch i % 3 {
		case 1:
			item.QuantityFormula = "unit_count * 2 + 1"
		case 2:
			item.IncludeCondition = "unit_count > 0"
		}
		items = append(items, item)
	}

	tmpl := &entities.BomTemplate{
		ID:           "TPL-BENCH",
		Family:       "BenchFamily",
		MatchingRule: "family = 'BenchFamily'",
		CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Items:        items,
	}
	return catalog, tmpl
}

func benchSnapshot() *entities.ConfigurationSnapshot {
	return entities.NewConfigurationSnapshot(map[string]any{
		"family":     "BenchFamily",
		"unit_count": 3,
	})
}

func BenchmarkTreeExpander_Expand(b *testing.B) {
	for _, lines := range []int{100, 1000, 5000} {
		b.Run(fmt.Sprintf("lines_%d", lines), func(b *testing.B) {
			catalog, tmpl := buildLargeScenario(lines)
			expander := NewTreeExpander(catalog, nil, 0)
			snapshot := benchSnapshot()
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				items, _, err := expander.Expand(ctx, tmpl, snapshot)
				if err != nil {
					b.Fatalf("Expansion failed: %v", err)
				}
				if len(items) != lines+1 {
					b.Fatalf("Expected %d items, got %d", lines+1, len(items))
				}
			}
		})
	}
}

func BenchmarkSubstitutionResolver_Resolve(b *testing.B) {
	catalog, tmpl := buildLargeScenario(1000)
	expander := NewTreeExpander(catalog, nil, 0)
	resolver := NewSubstitutionResolver(catalog, nil, 0)
	ctx := context.Background()

	items, _, err := expander.Expand(ctx, tmpl, benchSnapshot())
	if err != nil {
		b.Fatalf("Expansion failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		work := make([]entities.BomItem, len(items))
		copy(work, items)
		if _, err := resolver.Resolve(ctx, work, decimal.Zero); err != nil {
			b.Fatalf("Resolution failed: %v", err)
		}
	}
}

func BenchmarkLifecycleManager_Generate(b *testing.B) {
	catalog, tmpl := buildLargeScenario(1000)
	templates := memory.NewTemplateRepository()
	if err := templates.LoadTemplates(context.Background(), []*entities.BomTemplate{tmpl}); err != nil {
		b.Fatalf("Failed to load templates: %v", err)
	}

	manager := NewLifecycleManager(
		memory.NewBomRepository(),
		templates,
		domainservices.NewTemplateMatcher(nil),
		NewTreeExpander(catalog, nil, 0),
		NewSubstitutionResolver(catalog, nil, 0),
		nil,
		nil,
	)
	snapshot := benchSnapshot()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := manager.Generate(ctx, "ORD-BENCH", "BenchFamily", snapshot, GenerateOptions{CreatedBy: "bench"}); err != nil {
			b.Fatalf("Generation failed: %v", err)
		}
	}
}
