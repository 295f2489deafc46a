package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vsinha/qadash/pkg/interfaces/api"
)

// ServeConfig holds configuration for the serve command
type ServeConfig struct {
	ConfigPath string
	DataFile   string
	Seed       int64
	Today      string
	Port       int // overrides the configured port when non-zero
	Verbose    bool
}

// ServeCommand runs the HTTP API until the context is cancelled
type ServeCommand struct {
	config ServeConfig
}

// NewServeCommand creates a new serve command
func NewServeCommand(config ServeConfig) *ServeCommand {
	return &ServeCommand{config: config}
}

// Execute runs the serve command
func (c *ServeCommand) Execute(ctx context.Context) error {
	env, err := NewEnvironment(EnvironmentOptions{
		ConfigPath: c.config.ConfigPath,
		DataFile:   c.config.DataFile,
		Seed:       c.config.Seed,
		Today:      c.config.Today,
		Verbose:    c.config.Verbose,
		LogLevel:   slog.LevelInfo,
	})
	if err != nil {
		return err
	}

	if c.config.Port != 0 {
		env.Config.Server.Port = c.config.Port
	}
	if err := env.Config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	server := api.NewServer(env.Dashboard, env.Repo, env.Logger, env.Config.Server.DevMode)
	return server.Run(ctx, env.Config.Addr())
}
