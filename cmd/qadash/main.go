package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vsinha/qadash/pkg/interfaces/cli/commands"
)

// Command is a runnable CLI mode
type Command interface {
	Execute(ctx context.Context) error
}

func main() {
	mode := "report"
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "report", "serve", "generate":
			mode, args = args[0], args[1:]
		}
	}

	cmd, err := parseCommand(mode, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseCommand(mode string, args []string) (Command, error) {
	fs := flag.NewFlagSet("qadash "+mode, flag.ContinueOnError)

	switch mode {
	case "serve":
		var config commands.ServeConfig
		fs.StringVar(&config.ConfigPath, "config", "", "Path to config.toml")
		fs.StringVar(&config.DataFile, "data", "", "Batch CSV to load instead of generating data")
		fs.Int64Var(&config.Seed, "seed", 0, "Synthetic data seed")
		fs.StringVar(&config.Today, "today", "", "Pin today (YYYY-MM-DD)")
		fs.IntVar(&config.Port, "port", 0, "HTTP port (overrides config)")
		fs.BoolVar(&config.Verbose, "verbose", false, "Enable verbose logging")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return commands.NewServeCommand(config), nil

	case "generate":
		var config commands.GenerateConfig
		fs.StringVar(&config.OutputDir, "output", "", "Output directory for batches.csv")
		fs.IntVar(&config.Days, "days", 0, "Number of days to generate")
		fs.StringVar(&config.Today, "today", "", "Last generated day (YYYY-MM-DD)")
		fs.Float64Var(&config.SpikeRate, "spike-rate", 0, "Probability of a spike per measurement")
		fs.Int64Var(&config.Seed, "seed", 0, "Random seed for reproducible generation")
		fs.BoolVar(&config.Verbose, "verbose", false, "Enable verbose output")
		fs.BoolVar(&config.Help, "help", false, "Show help message")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return commands.NewGenerateCommand(config), nil

	default:
		var config commands.ReportConfig
		fs.StringVar(&config.ConfigPath, "config", "", "Path to config.toml")
		fs.StringVar(&config.DataFile, "data", "", "Batch CSV to load instead of generating data")
		fs.StringVar(&config.OutputDir, "output", "", "Output directory for results")
		fs.StringVar(&config.Format, "format", "", "Output format: text, json, csv, xlsx, html")
		fs.Int64Var(&config.Seed, "seed", 0, "Synthetic data seed")
		fs.StringVar(&config.Today, "today", "", "Pin today (YYYY-MM-DD)")
		fs.StringVar(&config.Filters.Vendors, "vendors", "", "Comma-separated vendors")
		fs.StringVar(&config.Filters.Shifts, "shifts", "", "Comma-separated shifts or \"none\"")
		fs.StringVar(&config.Filters.Categories, "categories", "", "Comma-separated categories")
		fs.StringVar(&config.Filters.DateOption, "date-option", "", "last-6-months, last-3-months, last-month, custom")
		fs.StringVar(&config.Filters.Start, "start", "", "Custom range start (YYYY-MM-DD)")
		fs.StringVar(&config.Filters.End, "end", "", "Custom range end (YYYY-MM-DD)")
		fs.StringVar(&config.Filters.Drilldown, "drilldown", "", "Drill-down day (YYYY-MM-DD)")
		fs.BoolVar(&config.Verbose, "verbose", false, "Enable verbose output")
		fs.BoolVar(&config.Help, "help", false, "Show help message")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return commands.NewReportCommand(config), nil
	}
}
