package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vsinha/qadash/pkg/domain/entities"
	"github.com/vsinha/qadash/pkg/infrastructure/generator"
	"github.com/vsinha/qadash/pkg/infrastructure/repositories/csv"
)

// GenerateConfig holds configuration for synthetic batch generation
type GenerateConfig struct {
	Days      int     // Number of days to generate, ending at Today
	Today     string  // Last generated day, YYYY-MM-DD; empty means today
	SpikeRate float64 // Probability of a spike per measurement
	OutputDir string  // Output directory for the generated file
	Seed      int64   // Random seed for reproducible generation
	Help      bool    // Show help
	Verbose   bool    // Verbose output
	Stdout    io.Writer
}

// GenerateCommand writes a synthetic batch CSV
type GenerateCommand struct {
	config GenerateConfig
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	if config.Stdout == nil {
		config.Stdout = os.Stdout
	}
	return &GenerateCommand{config: config}
}

// BatchesFile is the name of the generated batch CSV
const BatchesFile = "batches.csv"

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}
	if cmd.config.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}

	today := time.Now()
	if cmd.config.Today != "" {
		day, err := entities.ParseDay(cmd.config.Today)
		if err != nil {
			return err
		}
		today = day
	}

	genConfig := generator.DefaultConfig()
	genConfig.Seed = cmd.config.Seed
	genConfig.Today = today
	if cmd.config.Days > 0 {
		genConfig.HistoryDays = cmd.config.Days
	}
	if cmd.config.SpikeRate > 0 {
		genConfig.SpikeRate = cmd.config.SpikeRate
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.config.Stdout, "🔧 Generating %d days ending %s\n", genConfig.HistoryDays, entities.Day(today).Format(entities.DateLayout))
		fmt.Fprintf(cmd.config.Stdout, "📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Fprintf(cmd.config.Stdout, "🎲 Random seed: %d\n", cmd.config.Seed)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	batches, err := generator.NewGenerator(genConfig).Generate()
	if err != nil {
		return fmt.Errorf("failed to generate batches: %w", err)
	}

	filename := filepath.Join(cmd.config.OutputDir, BatchesFile)
	rows, err := csv.WriteBatches(filename, batches)
	if err != nil {
		return fmt.Errorf("failed to write batches: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.config.Stdout, "✅ Wrote %d rows to %s\n", rows, filename)
	}
	return nil
}

// printHelp shows usage information
func (cmd *GenerateCommand) printHelp() {
	fmt.Fprintln(cmd.config.Stdout, `QA Batch Generator

USAGE:
    qadash generate [OPTIONS]

OPTIONS:
    -output <DIR>       Output directory for batches.csv (required)
    -days <N>           Number of days to generate (default: 200)
    -today <DATE>       Last generated day, YYYY-MM-DD (default: today)
    -spike-rate <F>     Probability of a spike per measurement (default: 0.02)
    -seed <N>           Random seed for reproducible generation (optional)
    -verbose            Enable verbose output
    -help               Show this help message

EXAMPLES:
    # Generate the default history
    qadash generate -output ./data

    # Reproducible 90-day dataset
    qadash generate -output ./data -days 90 -today 2026-06-30 -seed 12345`)
}
