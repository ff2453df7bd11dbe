package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vsinha/bomgen/pkg/interfaces/cli/commands"
)

func main() {
	args := os.Args[1:]
	subcommand := "generate"
	if len(args) > 0 && (args[0] == "generate" || args[0] == "scenario" || args[0] == "lifecycle") {
		subcommand = args[0]
		args = args[1:]
	}

	ctx := context.Background()

	var err error
	switch subcommand {
	case "scenario":
		err = runScenario(ctx, args)
	case "lifecycle":
		err = runLifecycle(ctx, args)
	default:
		err = runGenerate(ctx, args)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runGenerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var (
		scenarioDir = fs.String(
			"scenario",
			"",
			"Path to scenario directory containing input files",
		)
		partsFile         = fs.String("parts", "", "Path to parts catalog CSV file")
		substitutesFile   = fs.String("substitutes", "", "Path to substitutes CSV file (optional)")
		templatesFile     = fs.String("templates", "", "Path to templates CSV file")
		templateItemsFile = fs.String("template-items", "", "Path to template items CSV file")
		snapshotFile      = fs.String("snapshot", "", "Path to configuration snapshot JSON file")
		orderID           = fs.String("order", "", "Sales order identifier")
		family            = fs.String("family", "", "Product family to match templates against")
		createdBy         = fs.String("created-by", "cli", "User recorded on the draft BOM")
		threshold         = fs.String("threshold", "", "On-hand reserve for substitution availability")
		backend           = fs.String("backend", "", "Storage backend: memory or postgres")
		noSubstitution    = fs.Bool("no-substitution", false, "Disable the substitution pass")
		outputDir         = fs.String("output", "", "Output directory for results (optional)")
		format            = fs.String("format", "text", "Output format: text, json, xlsx, html, svg")
		verbose           = fs.Bool("verbose", false, "Enable verbose output")
		help              = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	config := commands.Config{
		ScenarioDir:       *scenarioDir,
		PartsFile:         *partsFile,
		SubstitutesFile:   *substitutesFile,
		TemplatesFile:     *templatesFile,
		TemplateItemsFile: *templateItemsFile,
		SnapshotFile:      *snapshotFile,
		OrderID:           *orderID,
		Family:            *family,
		CreatedBy:         *createdBy,
		Threshold:         *threshold,
		Backend:           *backend,
		NoSubstitution:    *noSubstitution,
		OutputDir:         *outputDir,
		Format:            *format,
		Verbose:           *verbose,
		Help:              *help,
	}

	return commands.NewGenerateCommand(config).Execute(ctx)
}

func runScenario(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("scenario", flag.ExitOnError)
	var (
		families    = fs.Int("families", 1, "Number of product families to generate")
		items       = fs.Int("items", 25, "Template items per family")
		depth       = fs.Int("depth", 4, "Maximum template tree depth")
		substitutes = fs.Float64("substitutes", 0.2, "Fraction of parts with a substitute")
		outputDir   = fs.String("output", "", "Output directory for generated files")
		seed        = fs.Int64("seed", 0, "Random seed for reproducible generation")
		verbose     = fs.Bool("verbose", false, "Enable verbose output")
		help        = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *outputDir == "" && !*help {
		return fmt.Errorf("must specify -output directory")
	}

	config := commands.ScenarioConfig{
		Families:    *families,
		Items:       *items,
		MaxDepth:    *depth,
		Substitutes: *substitutes,
		OutputDir:   *outputDir,
		Seed:        *seed,
		Verbose:     *verbose,
		Help:        *help,
	}

	return commands.NewScenarioCommand(config).Execute(ctx)
}

func runLifecycle(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("lifecycle", flag.ExitOnError)
	var (
		scenarioDir = fs.String("scenario", "", "Path to scenario directory containing input files")
		actor       = fs.String("actor", "cli", "User recorded on lifecycle actions")
		backend     = fs.String("backend", "", "Storage backend: memory or postgres")
		verbose     = fs.Bool("verbose", false, "Enable verbose output")
		help        = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	config := commands.LifecycleConfig{
		ScenarioDir: *scenarioDir,
		Actor:       *actor,
		Backend:     *backend,
		Verbose:     *verbose,
		Help:        *help,
	}

	return commands.NewLifecycleCommand(config).Execute(ctx)
}
