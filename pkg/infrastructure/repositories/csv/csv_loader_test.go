package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomgen/pkg/domain/entities"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoader_LoadParts(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "parts.csv",
		"part_number,description,type,current_cost,standard_cost,weight,status,on_hand,unit_of_measure\n"+
			"SINK-FRAME,Workstation Frame,assembly,120.00,115.00,18.5,active,40,EA\n"+
			"SINK-BASIN-01,Stainless Basin,component,45.00,42.00,3.2,active,1,EA\n"+
			"SINK-HW-KIT,Mounting Hardware Kit,phantom,0,0,0,active,0,EA\n")

	loader := NewLoader()
	parts, err := loader.LoadParts(path)
	if err != nil {
		t.Fatalf("Failed to load parts: %v", err)
	}
	if len(parts) != 3 {
		t.Fatalf("Expected 3 parts, got %d", len(parts))
	}

	frame := parts[0]
	if frame.PartNumber != "SINK-FRAME" || frame.Type != entities.PartTypeAssembly {
		t.Errorf("Unexpected frame part: %+v", frame)
	}
	if !frame.CurrentCost.Equal(decimal.NewFromFloat(120.00)) {
		t.Errorf("Expected current cost 120.00, got %s", frame.CurrentCost)
	}
	if !frame.OnHand.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Expected 40 on hand, got %s", frame.OnHand)
	}

	if parts[2].Type != entities.PartTypePhantom {
		t.Errorf("Expected phantom type, got %v", parts[2].Type)
	}
}

func TestLoader_LoadParts_Errors(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader()

	testCases := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "wrong header",
			content: "pn,description\nSINK-FRAME,Frame\n",
			wantMsg: "header mismatch",
		},
		{
			name: "bad cost",
			content: "part_number,description,type,current_cost,standard_cost,weight,status,on_hand,unit_of_measure\n" +
				"SINK-FRAME,Frame,assembly,abc,0,0,active,1,EA\n",
			wantMsg: "row 2: invalid current_cost",
		},
		{
			name: "bad type",
			content: "part_number,description,type,current_cost,standard_cost,weight,status,on_hand,unit_of_measure\n" +
				"SINK-FRAME,Frame,widget,1,0,0,active,1,EA\n",
			wantMsg: "invalid part type",
		},
		{
			name: "bad status",
			content: "part_number,description,type,current_cost,standard_cost,weight,status,on_hand,unit_of_measure\n" +
				"SINK-FRAME,Frame,assembly,1,0,0,retired,1,EA\n",
			wantMsg: "invalid inventory status",
		},
		{
			name:    "header only",
			content: "part_number,description,type,current_cost,standard_cost,weight,status,on_hand,unit_of_measure\n",
			wantMsg: "at least one data row",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, dir, strings.ReplaceAll(tc.name, " ", "_")+".csv", tc.content)
			_, err := loader.LoadParts(path)
			if err == nil {
				t.Fatalf("Expected error for %s", tc.name)
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("Expected error containing %q, got %q", tc.wantMsg, err.Error())
			}
		})
	}

	if _, err := loader.LoadParts(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoader_LoadSubstitutes(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader()

	basin := &entities.Part{PartNumber: "SINK-BASIN-01"}
	parts := []*entities.Part{basin}

	path := writeFile(t, dir, "substitutes.csv",
		"part_number,substitute_pn,tier,conversion_factor\n"+
			"SINK-BASIN-01,SINK-BASIN-02,preferred,1\n"+
			"SINK-BASIN-01,SINK-BASIN-03,emergency,2\n")

	if err := loader.LoadSubstitutes(path, parts); err != nil {
		t.Fatalf("Failed to load substitutes: %v", err)
	}
	if len(basin.Substitutes) != 2 {
		t.Fatalf("Expected 2 substitutes, got %d", len(basin.Substitutes))
	}
	if basin.Substitutes[0].SubstitutePN != "SINK-BASIN-02" || basin.Substitutes[0].Tier != entities.TierPreferred {
		t.Errorf("Unexpected preferred substitute: %+v", basin.Substitutes[0])
	}
	if !basin.Substitutes[1].ConversionFactor.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Expected conversion factor 2, got %s", basin.Substitutes[1].ConversionFactor)
	}

	unknown := writeFile(t, dir, "unknown.csv",
		"part_number,substitute_pn,tier,conversion_factor\n"+
			"SINK-DRAIN,SINK-BASIN-02,preferred,1\n")
	err := loader.LoadSubstitutes(unknown, parts)
	if err == nil || !strings.Contains(err.Error(), "unknown part") {
		t.Errorf("Expected unknown part error, got %v", err)
	}

	badTier := writeFile(t, dir, "bad_tier.csv",
		"part_number,substitute_pn,tier,conversion_factor\n"+
			"SINK-BASIN-01,SINK-BASIN-02,gold,1\n")
	err = loader.LoadSubstitutes(badTier, parts)
	if err == nil || !strings.Contains(err.Error(), "invalid substitute tier") {
		t.Errorf("Expected tier error, got %v", err)
	}
}

func TestLoader_LoadTemplates(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader()

	templatesPath := writeFile(t, dir, "templates.csv",
		"template_id,family,description,matching_rule,created_at\n"+
			"TPL-SINK-A,SinkModelA,Standard sink workstation,family = 'SinkModelA',2025-01-15\n")
	itemsPath := writeFile(t, dir, "template_items.csv",
		"template_id,line_number,part_number,base_quantity,quantity_formula,include_condition,parent_line,level,scrap_factor,is_phantom\n"+
			"TPL-SINK-A,10,SINK-FRAME,1,,,,1,,false\n"+
			"TPL-SINK-A,20,SINK-BASIN-01,1,basin_count,basin_count > 0,10,2,0.02,false\n"+
			"TPL-SINK-A,40,SINK-HW-KIT,1,,,10,2,,true\n")

	templates, err := loader.LoadTemplates(templatesPath, itemsPath)
	if err != nil {
		t.Fatalf("Failed to load templates: %v", err)
	}
	if len(templates) != 1 {
		t.Fatalf("Expected 1 template, got %d", len(templates))
	}

	tmpl := templates[0]
	if tmpl.ID != "TPL-SINK-A" || tmpl.Family != "SinkModelA" {
		t.Errorf("Unexpected template header: %+v", tmpl)
	}
	if tmpl.MatchingRule != "family = 'SinkModelA'" {
		t.Errorf("Unexpected matching rule: %q", tmpl.MatchingRule)
	}
	if tmpl.CreatedAt.Year() != 2025 || tmpl.CreatedAt.Month() != 1 {
		t.Errorf("Unexpected created_at: %v", tmpl.CreatedAt)
	}
	if len(tmpl.Items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(tmpl.Items))
	}

	frame := tmpl.Items[0]
	if frame.ParentLine != 0 || !frame.IsRoot() || frame.Level != 1 {
		t.Errorf("Unexpected root item: %+v", frame)
	}
	basin := tmpl.Items[1]
	if basin.QuantityFormula != "basin_count" || basin.IncludeCondition != "basin_count > 0" {
		t.Errorf("Unexpected basin expressions: %+v", basin)
	}
	if !basin.ScrapFactor.Equal(decimal.NewFromFloat(0.02)) {
		t.Errorf("Expected scrap factor 0.02, got %s", basin.ScrapFactor)
	}
	if !tmpl.Items[2].IsPhantom {
		t.Errorf("Expected phantom kit item, got %+v", tmpl.Items[2])
	}
}

func TestLoader_LoadTemplates_Errors(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader()

	templatesPath := writeFile(t, dir, "templates.csv",
		"template_id,family,description,matching_rule,created_at\n"+
			"TPL-SINK-A,SinkModelA,Standard,family = 'SinkModelA',2025-01-15\n")

	orphanItems := writeFile(t, dir, "orphan_items.csv",
		"template_id,line_number,part_number,base_quantity,quantity_formula,include_condition,parent_line,level,scrap_factor,is_phantom\n"+
			"TPL-OTHER,10,SINK-FRAME,1,,,,1,,false\n")
	_, err := loader.LoadTemplates(templatesPath, orphanItems)
	if err == nil || !strings.Contains(err.Error(), "unknown template") {
		t.Errorf("Expected unknown template error, got %v", err)
	}

	badDate := writeFile(t, dir, "bad_date.csv",
		"template_id,family,description,matching_rule,created_at\n"+
			"TPL-SINK-A,SinkModelA,Standard,family = 'SinkModelA',01/15/2025\n")
	goodItems := writeFile(t, dir, "items.csv",
		"template_id,line_number,part_number,base_quantity,quantity_formula,include_condition,parent_line,level,scrap_factor,is_phantom\n"+
			"TPL-SINK-A,10,SINK-FRAME,1,,,,1,,false\n")
	_, err = loader.LoadTemplates(badDate, goodItems)
	if err == nil || !strings.Contains(err.Error(), "invalid created_at") {
		t.Errorf("Expected date error, got %v", err)
	}

	badScrap := writeFile(t, dir, "bad_scrap_items.csv",
		"template_id,line_number,part_number,base_quantity,quantity_formula,include_condition,parent_line,level,scrap_factor,is_phantom\n"+
			"TPL-SINK-A,10,SINK-FRAME,1,,,,1,-0.5,false\n")
	_, err = loader.LoadTemplates(templatesPath, badScrap)
	if err == nil || !strings.Contains(err.Error(), "scrap_factor -0.5 outside [0, 1)") {
		t.Errorf("Expected scrap factor range error, got %v", err)
	}
}
