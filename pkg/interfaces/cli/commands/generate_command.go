package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/bomgen/pkg/application/services"
	"github.com/vsinha/bomgen/pkg/domain/entities"
	"github.com/vsinha/bomgen/pkg/domain/repositories"
	domainservices "github.com/vsinha/bomgen/pkg/domain/services"
	"github.com/vsinha/bomgen/pkg/infrastructure/config"
	"github.com/vsinha/bomgen/pkg/infrastructure/events"
	"github.com/vsinha/bomgen/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/bomgen/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/bomgen/pkg/infrastructure/repositories/postgres"
	"github.com/vsinha/bomgen/pkg/infrastructure/sequence"
	"github.com/vsinha/bomgen/pkg/interfaces/cli/output"
)

// Config holds configuration for the generate command
type Config struct {
	ScenarioDir       string
	PartsFile         string
	SubstitutesFile   string
	TemplatesFile     string
	TemplateItemsFile string
	SnapshotFile      string
	OrderID           string
	Family            string
	CreatedBy         string
	Threshold         string
	Backend           string
	NoSubstitution    bool
	OutputDir         string
	Format            string
	Verbose           bool
	Help              bool
}

// GenerateCommand handles the main BOM generation logic
type GenerateCommand struct {
	config Config
}

// NewGenerateCommand creates a new generate command with the given configuration
func NewGenerateCommand(config Config) *GenerateCommand {
	return &GenerateCommand{
		config: config,
	}
}

// Execute runs the generate command
func (c *GenerateCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	if c.config.Verbose {
		c.printHeader(files)
	}

	// Flags win over the config file.
	rawThreshold := c.config.Threshold
	if rawThreshold == "" {
		rawThreshold = cfg.Engine.AvailabilityThreshold
	}
	threshold := decimal.Zero
	if rawThreshold != "" {
		threshold, err = decimal.NewFromString(rawThreshold)
		if err != nil {
			return fmt.Errorf("invalid threshold %q: %w", rawThreshold, err)
		}
	}

	if c.config.Verbose {
		fmt.Println("📂 Loading data from CSV files...")
	}

	manager, _, counts, err := c.buildEngine(ctx, cfg, files)
	if err != nil {
		return err
	}

	if c.config.Verbose {
		fmt.Printf("✅ Data loaded successfully:\n")
		fmt.Printf("  Parts: %d\n", counts.parts)
		fmt.Printf("  Templates: %d\n", counts.templates)
		fmt.Println()
	}

	snapshotData, err := os.ReadFile(files["Snapshot"])
	if err != nil {
		return fmt.Errorf("error reading snapshot: %w", err)
	}
	snapshot, err := entities.ParseConfigurationSnapshot(snapshotData)
	if err != nil {
		return fmt.Errorf("error parsing snapshot: %w", err)
	}

	if c.config.Verbose {
		fmt.Println("🔄 Generating BOM...")
	}

	startTime := time.Now()
	bom, err := manager.Generate(ctx, c.config.OrderID, c.config.Family, snapshot, services.GenerateOptions{
		CreatedBy:             c.config.CreatedBy,
		AvailabilityThreshold: threshold,
		DisableSubstitution:   c.config.NoSubstitution,
	})
	generationTime := time.Since(startTime)

	if err != nil {
		return fmt.Errorf("error generating BOM: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Generation completed in %v\n\n", generationTime)
	}

	outputConfig := output.Config{
		Format:         c.config.Format,
		OutputDir:      c.config.OutputDir,
		Verbose:        c.config.Verbose,
		GenerationTime: generationTime,
	}

	if err := output.Generate(bom, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		fmt.Println("🏁 BOM generation complete!")
	}

	return nil
}

type loadCounts struct {
	parts     int
	templates int
}

// buildEngine loads the scenario data into the configured backend and
// wires up the lifecycle manager and part number allocator.
func (c *GenerateCommand) buildEngine(ctx context.Context, cfg *config.Config, files map[string]string) (*services.LifecycleManager, *services.PartNumberAllocator, loadCounts, error) {
	var counts loadCounts

	csvLoader := csv.NewLoader()

	parts, err := csvLoader.LoadParts(files["Parts"])
	if err != nil {
		return nil, nil, counts, fmt.Errorf("error loading parts: %w", err)
	}
	if sub := files["Substitutes"]; sub != "" {
		if err := csvLoader.LoadSubstitutes(sub, parts); err != nil {
			return nil, nil, counts, fmt.Errorf("error loading substitutes: %w", err)
		}
	}

	templates, err := csvLoader.LoadTemplates(files["Templates"], files["TemplateItems"])
	if err != nil {
		return nil, nil, counts, fmt.Errorf("error loading templates: %w", err)
	}
	counts.parts = len(parts)
	counts.templates = len(templates)

	var (
		catalog      repositories.PartCatalog
		templateRepo repositories.TemplateRepository
		bomRepo      repositories.BomRepository
		seqStore     repositories.SequenceStore
	)
	switch c.config.Backend {
	case "", "memory":
		catalog = memory.NewPartCatalog(len(parts))
		templateRepo = memory.NewTemplateRepository()
		bomRepo = memory.NewBomRepository()
		seqStore = sequence.NewMemoryStore()
	case "postgres":
		db, err := postgres.Open(cfg.Database.DSN())
		if err != nil {
			return nil, nil, counts, err
		}
		if err := postgres.AutoMigrate(db); err != nil {
			return nil, nil, counts, fmt.Errorf("failed to migrate schema: %w", err)
		}
		catalog = postgres.NewPartCatalog(db)
		templateRepo = postgres.NewTemplateRepository(db)
		bomRepo = postgres.NewBomRepository(db)
		seqStore = sequence.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}), "")
	default:
		return nil, nil, counts, fmt.Errorf("unknown backend %q (want memory or postgres)", c.config.Backend)
	}

	if err := catalog.LoadParts(ctx, parts); err != nil {
		return nil, nil, counts, fmt.Errorf("failed to load parts into catalog: %w", err)
	}
	if err := templateRepo.LoadTemplates(ctx, templates); err != nil {
		return nil, nil, counts, fmt.Errorf("failed to load templates into repository: %w", err)
	}

	logger := zap.NewNop()
	if c.config.Verbose {
		if dev, err := zap.NewDevelopment(); err == nil {
			logger = dev
		}
	}

	catalogTimeout := cfg.Engine.CatalogTimeout
	if catalogTimeout <= 0 {
		catalogTimeout = services.DefaultCatalogTimeout
	}

	matcher := domainservices.NewTemplateMatcher(logger)
	expander := services.NewTreeExpander(catalog, logger, catalogTimeout)
	resolver := services.NewSubstitutionResolver(catalog, logger, catalogTimeout)
	eventStore := events.NewInMemoryEventStore()

	manager := services.NewLifecycleManager(bomRepo, templateRepo, matcher, expander, resolver, eventStore, logger)
	allocator := services.NewPartNumberAllocator(seqStore, eventStore)
	return manager, allocator, counts, nil
}

// validateInputs validates the command configuration
func (c *GenerateCommand) validateInputs() error {
	if c.config.ScenarioDir == "" &&
		(c.config.PartsFile == "" || c.config.TemplatesFile == "" ||
			c.config.TemplateItemsFile == "" || c.config.SnapshotFile == "") {
		return fmt.Errorf("must specify either -scenario directory or individual input files")
	}
	if c.config.OrderID == "" {
		return fmt.Errorf("must specify -order")
	}
	if c.config.Family == "" {
		return fmt.Errorf("must specify -family")
	}
	return nil
}

// resolveInputFiles determines the actual file paths to use
func (c *GenerateCommand) resolveInputFiles() (map[string]string, error) {
	var partsPath, substitutesPath, templatesPath, itemsPath, snapshotPath string

	if c.config.ScenarioDir != "" {
		partsPath = filepath.Join(c.config.ScenarioDir, "parts.csv")
		substitutesPath = filepath.Join(c.config.ScenarioDir, "substitutes.csv")
		templatesPath = filepath.Join(c.config.ScenarioDir, "templates.csv")
		itemsPath = filepath.Join(c.config.ScenarioDir, "template_items.csv")
		snapshotPath = filepath.Join(c.config.ScenarioDir, "snapshot.json")
	} else {
		partsPath = c.config.PartsFile
		substitutesPath = c.config.SubstitutesFile
		templatesPath = c.config.TemplatesFile
		itemsPath = c.config.TemplateItemsFile
		snapshotPath = c.config.SnapshotFile
	}

	files := map[string]string{
		"Parts":         partsPath,
		"Substitutes":   substitutesPath,
		"Templates":     templatesPath,
		"TemplateItems": itemsPath,
		"Snapshot":      snapshotPath,
	}

	for name, path := range files {
		if name == "Substitutes" {
			// Optional; drop it when missing.
			if _, err := os.Stat(path); err != nil {
				files[name] = ""
			}
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", name, path)
		}
	}

	return files, nil
}

// printHeader prints the command header information
func (c *GenerateCommand) printHeader(files map[string]string) {
	fmt.Printf("🚀 BOM Generation Engine CLI\n")
	fmt.Printf("Input files:\n")
	fmt.Printf("  Parts: %s\n", files["Parts"])
	if files["Substitutes"] != "" {
		fmt.Printf("  Substitutes: %s\n", files["Substitutes"])
	}
	fmt.Printf("  Templates: %s\n", files["Templates"])
	fmt.Printf("  Template Items: %s\n", files["TemplateItems"])
	fmt.Printf("  Snapshot: %s\n", files["Snapshot"])
	fmt.Printf("Order: %s  Family: %s\n", c.config.OrderID, c.config.Family)
	fmt.Printf("Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Printf("Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Println()
}

// showHelp displays the help message
func (c *GenerateCommand) showHelp() {
	fmt.Printf(`BOM Generation Engine CLI - Dynamic Bill of Materials from Configuration

USAGE:
    bomgen -scenario <directory> -order <id> -family <name>
    bomgen -parts <file> -templates <file> -template-items <file> -snapshot <file> -order <id> -family <name>

OPTIONS:
    -scenario <dir>        Path to scenario directory containing input files
    -parts <file>          Path to parts catalog CSV file
    -substitutes <file>    Path to substitutes CSV file (optional)
    -templates <file>      Path to templates CSV file
    -template-items <file> Path to template items CSV file
    -snapshot <file>       Path to configuration snapshot JSON file
    -order <id>            Sales order identifier
    -family <name>         Product family to match templates against
    -created-by <user>     User recorded on the draft BOM
    -threshold <n>         On-hand reserve for substitution availability (default: 0)
    -backend <name>        Storage backend: memory or postgres (default: memory)
    -no-substitution       Disable the substitution pass
    -output <dir>          Output directory for results (optional)
    -format <fmt>          Output format: text, json, xlsx, html, svg (default: text)
    -verbose               Enable verbose output
    -help                  Show this help message

CONFIGURATION:
    Defaults (catalog timeout, availability threshold, database and Redis
    settings) are read from configs/config.yaml or ./config.yaml, with
    environment variable overrides (DB_HOST, DB_PORT, REDIS_HOST, ...).
    The postgres backend stores parts, templates and BOM versions in
    PostgreSQL and allocates part numbers through Redis.

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── parts.csv            # Part catalog
    ├── substitutes.csv      # Substitute relationships (optional)
    ├── templates.csv        # BOM templates
    ├── template_items.csv   # Template line items
    └── snapshot.json        # Configuration snapshot

CSV FILE FORMATS:

parts.csv:
    part_number,description,type,current_cost,standard_cost,weight,status,on_hand,unit_of_measure
    SINK-BASIN-01,Stainless Basin,component,45.00,42.00,3.2,active,500,EA

substitutes.csv:
    part_number,substitute_pn,tier,conversion_factor
    SINK-BASIN-01,SINK-BASIN-02,preferred,1

templates.csv:
    template_id,family,description,matching_rule,created_at
    TPL-SINK-A,SinkModelA,Standard sink,family = 'SinkModelA',2025-01-15

template_items.csv:
    template_id,line_number,part_number,base_quantity,quantity_formula,include_condition,parent_line,level,scrap_factor,is_phantom
    TPL-SINK-A,10,SINK-FRAME,1,,,0,1,0,false
    TPL-SINK-A,20,SINK-BASIN-01,1,basin_count,basin_count > 0,10,2,0.02,false

snapshot.json:
    {"basin_count": 2, "has_pegboard": false}

EXAMPLES:
    # Run sink scenario
    bomgen -scenario examples/sink_basic -order SO-1001 -family SinkModelA -verbose

    # Generate JSON output
    bomgen -scenario examples/sink_basic -order SO-1001 -family SinkModelA -format json -output results/

    # Excel report without substitution
    bomgen -scenario examples/sink_basic -order SO-1001 -family SinkModelA -format xlsx -output results/ -no-substitution
`)
}
