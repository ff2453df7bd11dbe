package commands

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

// ScenarioConfig holds configuration for scenario generation
type ScenarioConfig struct {
	Families    int     // Number of product families to generate
	Items       int     // Template items per family
	MaxDepth    int     // Maximum depth of template trees
	Substitutes float64 // Fraction of parts that get a substitute
	OutputDir   string  // Output directory for generated files
	Seed        int64   // Random seed for reproducible generation
	Help        bool    // Show help
	Verbose     bool    // Verbose output
}

// ScenarioCommand generates synthetic catalog and template scenarios
type ScenarioCommand struct {
	config ScenarioConfig
	rand   *rand.Rand
}

// NewScenarioCommand creates a new scenario command
func NewScenarioCommand(config ScenarioConfig) *ScenarioCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &ScenarioCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

// templateNode is one generated template line
type templateNode struct {
	LineNumber int
	PartNumber string
	ParentLine int
	Level      int
	Formula    string
	Condition  string
	IsPhantom  bool
}

// Execute runs the scenario command
func (cmd *ScenarioCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}

	if cmd.config.Verbose {
		fmt.Printf("🔧 Generating scenario with %d families, %d items each, max depth %d\n",
			cmd.config.Families, cmd.config.Items, cmd.config.MaxDepth)
		fmt.Printf("📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Printf("🎲 Random seed: %d\n", cmd.config.Seed)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Println("🌳 Generating template trees...")
	}
	trees := make(map[string][]templateNode, cmd.config.Families)
	for f := 0; f < cmd.config.Families; f++ {
		family := fmt.Sprintf("Family%c", 'A'+f)
		trees[family] = cmd.generateTree(family)
	}

	if cmd.config.Verbose {
		fmt.Println("📦 Generating parts.csv and substitutes.csv...")
	}
	if err := cmd.generateParts(trees); err != nil {
		return fmt.Errorf("failed to generate parts: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Println("📋 Generating templates.csv and template_items.csv...")
	}
	if err := cmd.generateTemplates(trees); err != nil {
		return fmt.Errorf("failed to generate templates: %w", err)
	}

	if err := cmd.generateSnapshot(); err != nil {
		return fmt.Errorf("failed to generate snapshot: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Printf("✅ Scenario generated successfully in %s\n", cmd.config.OutputDir)
	}

	return nil
}

// generateTree builds one family's template items in pre-order with
// strictly increasing line numbers.
func (cmd *ScenarioCommand) generateTree(family string) []templateNode {
	var nodes []templateNode
	line := 0
	nextLine := func() int {
		line += 10
		return line
	}

	root := templateNode{
		LineNumber: nextLine(),
		PartNumber: fmt.Sprintf("%s-ASSY", family),
		Level:      1,
	}
	nodes = append(nodes, root)

	// Stack of open parents, most recent last.
	parents := []templateNode{root}

	for len(nodes) < cmd.config.Items {
		parent := parents[len(parents)-1]
		node := templateNode{
			LineNumber: nextLine(),
			PartNumber: fmt.Sprintf("%s-P%04d", family, len(nodes)),
			ParentLine: parent.LineNumber,
			Level:      parent.Level + 1,
		}

		// A third of items get a formula, a fifth a condition.
		switch cmd.rand.Intn(6) {
		case 0:
			node.Formula = "unit_count"
		case 1:
			node.Formula = "unit_count * 2 + 1"
		}
		if cmd.rand.Intn(5) == 0 {
			node.Condition = "has_option"
		}
		if node.Level > 1 && node.Level < cmd.config.MaxDepth && cmd.rand.Intn(10) == 0 {
			node.IsPhantom = true
		}

		nodes = append(nodes, node)

		// Descend under phantoms and occasionally otherwise; pop back up
		// at the depth limit or at random.
		switch {
		case node.Level >= cmd.config.MaxDepth:
			if len(parents) > 1 {
				parents = parents[:len(parents)-1]
			}
		case node.IsPhantom || cmd.rand.Intn(3) == 0:
			parents = append(parents, node)
		case cmd.rand.Intn(4) == 0 && len(parents) > 1:
			parents = parents[:len(parents)-1]
		}
	}

	return nodes
}

// generateParts creates parts.csv and substitutes.csv for every part the
// templates reference.
func (cmd *ScenarioCommand) generateParts(trees map[string][]templateNode) error {
	partsFile, err := os.Create(filepath.Join(cmd.config.OutputDir, "parts.csv"))
	if err != nil {
		return err
	}
	defer partsFile.Close()

	subsFile, err := os.Create(filepath.Join(cmd.config.OutputDir, "substitutes.csv"))
	if err != nil {
		return err
	}
	defer subsFile.Close()

	fmt.Fprintln(partsFile, "part_number,description,type,current_cost,standard_cost,weight,status,on_hand,unit_of_measure")
	fmt.Fprintln(subsFile, "part_number,substitute_pn,tier,conversion_factor")

	tiers := []string{"preferred", "acceptable", "emergency"}

	for _, nodes := range trees {
		for _, node := range nodes {
			partType := "component"
			switch {
			case node.IsPhantom:
				partType = "phantom"
			case node.Level == 1:
				partType = "assembly"
			case node.Level == 2:
				partType = "subassembly"
			}
			cost := float64(1+cmd.rand.Intn(200)) + cmd.rand.Float64()
			weight := cmd.rand.Float64() * 10
			onHand := cmd.rand.Intn(1000)

			fmt.Fprintf(partsFile, "%s,%s,%s,%.2f,%.2f,%.3f,active,%d,EA\n",
				node.PartNumber, cmd.describe(node), partType, cost, cost*0.95, weight, onHand)

			if !node.IsPhantom && node.Level > 1 && cmd.rand.Float64() < cmd.config.Substitutes {
				subPN := node.PartNumber + "-ALT"
				fmt.Fprintf(partsFile, "%s,%s (alternate),%s,%.2f,%.2f,%.3f,active,%d,EA\n",
					subPN, cmd.describe(node), partType, cost*1.1, cost, weight, 200+cmd.rand.Intn(2000))
				fmt.Fprintf(subsFile, "%s,%s,%s,1\n",
					node.PartNumber, subPN, tiers[cmd.rand.Intn(len(tiers))])
			}
		}
	}

	return nil
}

func (cmd *ScenarioCommand) describe(node templateNode) string {
	if node.Level == 1 {
		return fmt.Sprintf("%s Complete Assembly", node.PartNumber)
	}
	if node.IsPhantom {
		return fmt.Sprintf("%s Phantom Group", node.PartNumber)
	}
	kinds := []string{"Component", "Module", "Unit", "Bracket", "Fitting", "Panel"}
	return fmt.Sprintf("%s %s", node.PartNumber, kinds[cmd.rand.Intn(len(kinds))])
}

// generateTemplates creates templates.csv and template_items.csv
func (cmd *ScenarioCommand) generateTemplates(trees map[string][]templateNode) error {
	tmplFile, err := os.Create(filepath.Join(cmd.config.OutputDir, "templates.csv"))
	if err != nil {
		return err
	}
	defer tmplFile.Close()

	itemsFile, err := os.Create(filepath.Join(cmd.config.OutputDir, "template_items.csv"))
	if err != nil {
		return err
	}
	defer itemsFile.Close()

	fmt.Fprintln(tmplFile, "template_id,family,description,matching_rule,created_at")
	fmt.Fprintln(itemsFile, "template_id,line_number,part_number,base_quantity,quantity_formula,include_condition,parent_line,level,scrap_factor,is_phantom")

	for family, nodes := range trees {
		templateID := fmt.Sprintf("TPL-%s", family)
		fmt.Fprintf(tmplFile, "%s,%s,Generated %s template,family = '%s',%s\n",
			templateID, family, family, family, time.Now().Format("2006-01-02"))

		for _, node := range nodes {
			scrap := ""
			if node.Level > 1 && cmd.rand.Intn(4) == 0 {
				scrap = fmt.Sprintf("%.2f", 0.01+cmd.rand.Float64()*0.05)
			}
			fmt.Fprintf(itemsFile, "%s,%d,%s,%d,%s,%s,%d,%d,%s,%t\n",
				templateID, node.LineNumber, node.PartNumber, 1+cmd.rand.Intn(4),
				node.Formula, node.Condition, node.ParentLine, node.Level, scrap, node.IsPhantom)
		}
	}

	return nil
}

// generateSnapshot writes a sample configuration snapshot exercising the
// variables the generated formulas and conditions reference.
func (cmd *ScenarioCommand) generateSnapshot() error {
	path := filepath.Join(cmd.config.OutputDir, "snapshot.json")
	snapshot := fmt.Sprintf("{\n  \"family\": \"FamilyA\",\n  \"unit_count\": %d,\n  \"has_option\": %t\n}\n",
		1+cmd.rand.Intn(5), cmd.rand.Intn(2) == 0)
	return os.WriteFile(path, []byte(snapshot), 0644)
}

// printHelp displays help for the scenario command
func (cmd *ScenarioCommand) printHelp() {
	fmt.Printf(`Scenario Generator - Create synthetic BOM generation scenarios

USAGE:
    bomgen scenario -output <directory> [options]

OPTIONS:
    -families <n>      Number of product families to generate (default: 1)
    -items <n>         Template items per family (default: 25)
    -depth <n>         Maximum template tree depth (default: 4)
    -substitutes <f>   Fraction of parts with a substitute (default: 0.2)
    -output <dir>      Output directory for generated files
    -seed <n>          Random seed for reproducible generation
    -verbose           Enable verbose output
    -help              Show this help message

The generated directory is loadable with: bomgen -scenario <dir> -order SO-1 -family FamilyA
`)
}
