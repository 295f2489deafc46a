package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/vsinha/qadash/pkg/application/services/dashboard"
	"github.com/vsinha/qadash/pkg/application/services/filter"
	"github.com/vsinha/qadash/pkg/domain/entities"
	"github.com/vsinha/qadash/pkg/infrastructure/config"
	"github.com/vsinha/qadash/pkg/infrastructure/events"
	"github.com/vsinha/qadash/pkg/infrastructure/generator"
	"github.com/vsinha/qadash/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/qadash/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/qadash/pkg/interfaces/cli/output"
)

// EnvironmentOptions selects configuration and data for a command run
type EnvironmentOptions struct {
	ConfigPath string
	DataFile   string // batch CSV; empty generates synthetic data
	Seed       int64  // overrides the configured seed when non-zero
	Today      string // overrides the configured day when set
	Verbose    bool
	LogLevel   slog.Level
	LogOutput  io.Writer
}

// Environment is the wired dashboard shared by the report and serve commands
type Environment struct {
	Config    *config.AppConfig
	Logger    *slog.Logger
	Repo      *memory.BatchRepository
	Filters   *filter.Controller
	Dashboard *dashboard.Service
	Today     time.Time
}

// NewEnvironment loads configuration, fills the record store and starts the filters
func NewEnvironment(opts EnvironmentOptions) (*Environment, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Seed != 0 {
		cfg.Data.Seed = opts.Seed
	}
	if opts.Today != "" {
		cfg.Data.Today = opts.Today
	}

	logger := newLogger(cfg, opts)

	today, err := cfg.TodayOr(time.Now())
	if err != nil {
		return nil, err
	}
	clock := time.Now
	if cfg.Data.Today != "" {
		clock = func() time.Time { return today }
	}

	repo := memory.NewBatchRepository()
	if opts.DataFile != "" {
		if err := csv.NewLoader().LoadInto(opts.DataFile, repo); err != nil {
			return nil, fmt.Errorf("failed to load batches: %w", err)
		}
		logger.Info("batches loaded", "file", opts.DataFile, "records", repo.Count())
	} else {
		gen := generator.NewGenerator(generator.Config{
			Seed:        cfg.Data.Seed,
			Today:       today,
			HistoryDays: cfg.Data.HistoryDays,
			SpikeRate:   generator.DefaultConfig().SpikeRate,
		})
		if err := gen.Populate(repo); err != nil {
			return nil, fmt.Errorf("failed to generate batches: %w", err)
		}
		logger.Info("batches generated", "seed", cfg.Data.Seed, "days", cfg.Data.HistoryDays, "records", repo.Count())
	}

	controller := filter.NewController(
		filter.WithClock(clock),
		filter.WithLogger(logger),
		filter.WithEventStore(events.NewInMemoryEventStore(logger)),
	)
	if _, err := controller.Subscribe(func(state entities.FilterState) {
		logger.Debug("filters updated", "filters", output.DescribeFilters(state))
	}); err != nil {
		return nil, fmt.Errorf("failed to subscribe to filter changes: %w", err)
	}
	controller.Start()

	return &Environment{
		Config:    cfg,
		Logger:    logger,
		Repo:      repo,
		Filters:   controller,
		Dashboard: dashboard.NewService(repo, controller, logger),
		Today:     today,
	}, nil
}

// newLogger logs text in dev mode or when verbose, JSON otherwise
func newLogger(cfg *config.AppConfig, opts EnvironmentOptions) *slog.Logger {
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	level := opts.LogLevel
	if opts.Verbose {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Server.DevMode || opts.Verbose {
		return slog.New(slog.NewTextHandler(out, handlerOpts))
	}
	return slog.New(slog.NewJSONHandler(out, handlerOpts))
}
