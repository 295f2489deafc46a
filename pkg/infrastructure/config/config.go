package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/vsinha/qadash/pkg/domain/entities"
)

// Environment variables that override the file
const (
	EnvPort = "QADASH_PORT"
	EnvSeed = "QADASH_SEED"
)

// DefaultPath is where Load looks when no path is given
const DefaultPath = "config.toml"

// AppConfig is the application configuration
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Output OutputConfig `toml:"output"`
}

// ServerConfig configures the HTTP adapter
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig configures the synthetic dataset
type DataConfig struct {
	Seed        int64  `toml:"seed"`
	HistoryDays int    `toml:"history_days"`
	Today       string `toml:"today"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Format string `toml:"format"`
	Dir    string `toml:"dir"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    8080,
			DevMode: false,
		},
		Data: DataConfig{
			Seed:        42,
			HistoryDays: 200,
		},
		Output: OutputConfig{
			Format: "text",
			Dir:    ".",
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (*AppConfig, error) {
	config := DefaultConfig()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func applyEnv(config *AppConfig) error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		config.Server.Port = port
	}
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSeed, v, err)
		}
		config.Data.Seed = seed
	}
	return nil
}

// Validate checks value ranges
func (c *AppConfig) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Data.HistoryDays <= 0 {
		return fmt.Errorf("history_days must be positive, got %d", c.Data.HistoryDays)
	}
	if _, err := c.TodayOr(time.Now()); err != nil {
		return err
	}
	return nil
}

// TodayOr returns the configured "today" or fallback when unset
func (c *AppConfig) TodayOr(fallback time.Time) (time.Time, error) {
	if c.Data.Today == "" {
		return entities.Day(fallback), nil
	}
	today, err := entities.ParseDay(c.Data.Today)
	if err != nil {
		return time.Time{}, fmt.Errorf("data.today: %w", err)
	}
	return today, nil
}

// Addr returns the listen address for the HTTP adapter
func (c *AppConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Save writes the configuration to path
func Save(config *AppConfig, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
