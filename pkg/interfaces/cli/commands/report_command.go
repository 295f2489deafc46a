package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/vsinha/qadash/pkg/interfaces/cli/output"
)

// ReportConfig holds configuration for the report command
type ReportConfig struct {
	ConfigPath string
	DataFile   string
	OutputDir  string
	Format     string
	Seed       int64
	Today      string
	Filters    FilterFlags
	Verbose    bool
	Help       bool
	Stdout     io.Writer
}

// ReportCommand computes a dashboard snapshot and renders it
type ReportCommand struct {
	config ReportConfig
}

// NewReportCommand creates a new report command with the given configuration
func NewReportCommand(config ReportConfig) *ReportCommand {
	if config.Stdout == nil {
		config.Stdout = os.Stdout
	}
	return &ReportCommand{
		config: config,
	}
}

// Execute runs the report command
func (c *ReportCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	env, err := NewEnvironment(EnvironmentOptions{
		ConfigPath: c.config.ConfigPath,
		DataFile:   c.config.DataFile,
		Seed:       c.config.Seed,
		Today:      c.config.Today,
		Verbose:    c.config.Verbose,
		LogLevel:   slog.LevelWarn,
	})
	if err != nil {
		return err
	}

	format := c.config.Format
	if format == "" {
		format = env.Config.Output.Format
	}
	outputDir := c.config.OutputDir
	if outputDir == "" && format != "text" && format != "json" {
		outputDir = env.Config.Output.Dir
	}

	if c.config.Verbose {
		fmt.Fprintf(c.config.Stdout, "🚀 QA Dashboard CLI\n")
		fmt.Fprintf(c.config.Stdout, "Records: %d across %d series\n", env.Repo.Count(), len(env.Repo.GetSeriesNames()))
		fmt.Fprintf(c.config.Stdout, "Today: %s\n", env.Today.Format("2006-01-02"))
		fmt.Fprintf(c.config.Stdout, "Output format: %s\n\n", format)
	}

	if err := c.config.Filters.Apply(env.Filters); err != nil {
		return fmt.Errorf("invalid filters: %w", err)
	}

	start := time.Now()
	snapshot := env.Dashboard.Snapshot()
	computeTime := time.Since(start)

	return output.Generate(snapshot, output.Config{
		Format:      format,
		OutputDir:   outputDir,
		Verbose:     c.config.Verbose,
		ComputeTime: computeTime,
		Stdout:      c.config.Stdout,
	})
}

// showHelp displays the help message
func (c *ReportCommand) showHelp() {
	fmt.Fprintf(c.config.Stdout, `QA Dashboard CLI - biscuit production quality monitoring

USAGE:
    qadash [report] [OPTIONS]
    qadash serve [OPTIONS]
    qadash generate [OPTIONS]

REPORT OPTIONS:
    -config <file>       Path to config.toml (default: config.toml)
    -data <file>         Batch CSV to load instead of generating synthetic data
    -seed <n>            Synthetic data seed
    -today <date>        Pin "today" (YYYY-MM-DD)
    -format <fmt>        Output format: text, json, csv, xlsx, html
    -output <dir>        Output directory for results
    -vendors <list>      Comma-separated vendors, e.g. "Vendor A,Vendor C" or "All Vendors"
    -shifts <list>       Comma-separated shifts (morning, afternoon, night) or "none"
    -categories <list>   Comma-separated categories, e.g. "Baking,Raw Materials"
    -date-option <opt>   last-6-months, last-3-months, last-month, custom
    -start <date>        Custom range start (switches to custom)
    -end <date>          Custom range end (switches to custom)
    -drilldown <date>    Break one day down per batch
    -verbose             Enable verbose output
    -help                Show this help message

EXAMPLES:
    # Default six-month report
    qadash

    # Vendor comparison for the morning shift over the last month
    qadash -vendors "Vendor A,Vendor B" -shifts morning -date-option last-month

    # Per-batch outliers for one day as an xlsx workbook
    qadash -drilldown 2026-06-10 -format xlsx -output reports/

    # Reproducible data for a pinned day
    qadash -seed 42 -today 2026-06-30 -format json
`)
}
