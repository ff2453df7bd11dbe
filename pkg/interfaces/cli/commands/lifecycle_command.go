package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomgen/pkg/application/services"
	"github.com/vsinha/bomgen/pkg/domain/entities"
	"github.com/vsinha/bomgen/pkg/infrastructure/config"
	"github.com/vsinha/bomgen/pkg/interfaces/cli/output"
)

// LifecycleConfig holds configuration for the interactive lifecycle command
type LifecycleConfig struct {
	ScenarioDir string
	Actor       string
	Backend     string
	Verbose     bool
	Help        bool
}

// LifecycleCommand handles the interactive BOM lifecycle session
type LifecycleCommand struct {
	config       LifecycleConfig
	manager      *services.LifecycleManager
	allocator    *services.PartNumberAllocator
	partCategory string
	scanner      *bufio.Scanner
}

// NewLifecycleCommand creates a new lifecycle command with the given configuration
func NewLifecycleCommand(config LifecycleConfig) *LifecycleCommand {
	return &LifecycleCommand{
		config:  config,
		scanner: bufio.NewScanner(os.Stdin),
	}
}

// Execute runs the interactive lifecycle command
func (c *LifecycleCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.printHelp()
		return nil
	}

	if c.config.ScenarioDir == "" {
		return fmt.Errorf("must specify -scenario directory")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	gen := NewGenerateCommand(Config{ScenarioDir: c.config.ScenarioDir, Backend: c.config.Backend})
	files, err := gen.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	manager, allocator, _, err := gen.buildEngine(ctx, cfg, files)
	if err != nil {
		return fmt.Errorf("failed to load repositories: %w", err)
	}
	c.manager = manager
	c.allocator = allocator
	c.partCategory = cfg.Engine.PartNumberPrefix

	return c.runInteractiveSession(ctx)
}

func (c *LifecycleCommand) runInteractiveSession(ctx context.Context) error {
	fmt.Println("=== BOM Lifecycle Session ===")
	fmt.Println("Type 'help' for available commands")
	fmt.Println()

	for {
		fmt.Print("bomgen> ")
		if !c.scanner.Scan() {
			break
		}

		line := strings.TrimSpace(c.scanner.Text())
		if line == "" {
			continue
		}

		if err := c.processCommand(ctx, line); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
		fmt.Println()
	}

	return nil
}

func (c *LifecycleCommand) processCommand(ctx context.Context, line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	command := parts[0]
	args := parts[1:]

	switch command {
	case "help", "h":
		c.printInteractiveHelp()
	case "generate", "gen":
		return c.handleGenerate(ctx, args)
	case "submit":
		return c.handleSubmit(ctx, args)
	case "approve":
		return c.handleApprove(ctx, args)
	case "reject":
		return c.handleReject(ctx, args)
	case "obsolete":
		return c.handleObsolete(ctx, args)
	case "show":
		return c.handleShow(ctx, args)
	case "versions":
		return c.handleVersions(ctx, args)
	case "compare", "diff":
		return c.handleCompare(ctx, args)
	case "allocate", "alloc":
		return c.handleAllocate(ctx, args)
	case "quit", "q", "exit":
		fmt.Println("Goodbye!")
		os.Exit(0)
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", command)
	}

	return nil
}

func (c *LifecycleCommand) handleGenerate(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: generate <order-id> <family> <snapshot-json> [threshold]")
	}

	snapshot, err := entities.ParseConfigurationSnapshot([]byte(args[2]))
	if err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	threshold := decimal.Zero
	if len(args) > 3 {
		threshold, err = decimal.NewFromString(args[3])
		if err != nil {
			return fmt.Errorf("invalid threshold: %s", args[3])
		}
	}

	bom, err := c.manager.Generate(ctx, args[0], args[1], snapshot, services.GenerateOptions{
		CreatedBy:             c.config.Actor,
		AvailabilityThreshold: threshold,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Generated %s v%d (%s): %d parts, cost %s\n",
		bom.OrderID, bom.Version, bom.ID, bom.TotalPartsCount, bom.TotalCost.StringFixed(2))
	for _, w := range bom.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	return nil
}

func (c *LifecycleCommand) handleSubmit(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: submit <bom-id>")
	}
	bom, err := c.manager.SubmitForApproval(ctx, args[0], c.config.Actor)
	if err != nil {
		return err
	}
	fmt.Printf("Submitted %s v%d: now %s\n", bom.OrderID, bom.Version, bom.Status)
	return nil
}

func (c *LifecycleCommand) handleApprove(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: approve <bom-id> [approver]")
	}
	approver := c.config.Actor
	if len(args) > 1 {
		approver = args[1]
	}
	bom, err := c.manager.Approve(ctx, args[0], approver)
	if err != nil {
		if errors.Is(err, entities.ErrSelfApproval) {
			return fmt.Errorf("%w (use 'approve <bom-id> <approver>' with a different user)", err)
		}
		return err
	}
	fmt.Printf("Approved %s v%d by %s\n", bom.OrderID, bom.Version, bom.ApprovedBy)
	return nil
}

func (c *LifecycleCommand) handleReject(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: reject <bom-id> <reason...>")
	}
	bom, err := c.manager.Reject(ctx, args[0], c.config.Actor, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Printf("Rejected %s v%d back to %s: %s\n", bom.OrderID, bom.Version, bom.Status, bom.RejectReason)
	return nil
}

func (c *LifecycleCommand) handleObsolete(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: obsolete <bom-id>")
	}
	bom, err := c.manager.MarkObsolete(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Marked %s v%d obsolete\n", bom.OrderID, bom.Version)
	return nil
}

func (c *LifecycleCommand) handleShow(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: show <bom-id>")
	}
	bom, err := c.manager.Get(ctx, args[0])
	if err != nil {
		return err
	}
	return output.Generate(bom, output.Config{Format: "text", Verbose: c.config.Verbose})
}

func (c *LifecycleCommand) handleVersions(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: versions <order-id>")
	}
	boms, err := c.manager.ListVersions(ctx, args[0])
	if err != nil {
		return err
	}
	if len(boms) == 0 {
		fmt.Printf("No versions for order %s\n", args[0])
		return nil
	}
	fmt.Printf("%-4s %-38s %-16s %-8s %-12s\n", "Ver", "BOM ID", "Status", "Parts", "Cost")
	for _, bom := range boms {
		fmt.Printf("%-4d %-38s %-16s %-8d %-12s\n",
			bom.Version, bom.ID, bom.Status, bom.TotalPartsCount, bom.TotalCost.StringFixed(2))
	}
	return nil
}

func (c *LifecycleCommand) handleCompare(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: compare <order-id> <version-a> <version-b>")
	}
	versionA, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid version: %s", args[1])
	}
	versionB, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid version: %s", args[2])
	}

	result, err := c.manager.CompareVersions(ctx, args[0], versionA, versionB)
	if err != nil {
		return err
	}

	for _, item := range result.Added {
		fmt.Printf("+ line %d %s qty %s\n", item.LineNumber, item.PartNumber, item.TotalQuantity)
	}
	for _, item := range result.Removed {
		fmt.Printf("- line %d %s qty %s\n", item.LineNumber, item.PartNumber, item.TotalQuantity)
	}
	for _, change := range result.Modified {
		fmt.Printf("~ line %d %s -> %s qty %s -> %s\n",
			change.Before.LineNumber, change.Before.PartNumber, change.After.PartNumber,
			change.Before.QuantityRequired, change.After.QuantityRequired)
	}
	if len(result.Added)+len(result.Removed)+len(result.Modified) == 0 {
		fmt.Println("No differences")
	}
	return nil
}

func (c *LifecycleCommand) handleAllocate(ctx context.Context, args []string) error {
	category := c.partCategory
	if len(args) > 0 {
		category = args[0]
	}
	pn, err := c.allocator.Allocate(ctx, category)
	if err != nil {
		return err
	}
	fmt.Printf("Allocated part number %s\n", pn)
	return nil
}

func (c *LifecycleCommand) printHelp() {
	fmt.Printf(`BOM Lifecycle CLI - Interactive approval workflow

USAGE:
    bomgen lifecycle -scenario <directory> [-actor <user>]

OPTIONS:
    -scenario <dir>   Path to scenario directory containing input files
    -actor <user>     User recorded on lifecycle actions (default: cli)
    -backend <name>   Storage backend: memory or postgres (default: memory)
    -verbose          Enable verbose output
    -help             Show this help message
`)
}

func (c *LifecycleCommand) printInteractiveHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  generate <order-id> <family> <snapshot-json> [threshold]")
	fmt.Println("      Generate a new draft BOM version, e.g.")
	fmt.Println("      generate SO-1001 SinkModelA {\"basin_count\":2}")
	fmt.Println("  submit <bom-id>                      Submit a draft for approval")
	fmt.Println("  approve <bom-id> [approver]          Approve a pending BOM")
	fmt.Println("  reject <bom-id> <reason...>          Reject a pending BOM back to draft")
	fmt.Println("  obsolete <bom-id>                    Mark an approved BOM obsolete")
	fmt.Println("  show <bom-id>                        Print a BOM")
	fmt.Println("  versions <order-id>                  List all versions for an order")
	fmt.Println("  compare <order-id> <a> <b>           Diff two versions")
	fmt.Println("  allocate [category]                  Issue the next custom part number")
	fmt.Println("  quit                                 Exit the session")
}
