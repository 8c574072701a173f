// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	verrors "viscolab/internal/errors"
	"viscolab/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Table controls the default viscosity-temperature table
	Table TableConfig `json:"table"`

	// Solver contains linear-program solver settings
	Solver SolverConfig `json:"solver"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// ReadTimeoutSeconds bounds reading a request
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`

	// WriteTimeoutSeconds bounds writing a response
	WriteTimeoutSeconds int `json:"write_timeout_seconds"`

	// MaxBodyBytes caps request bodies
	MaxBodyBytes int64 `json:"max_body_bytes"`

	// AllowedOrigins lists the CORS origins echoed back to browsers; "*" allows
	// any origin and empty disables CORS headers
	AllowedOrigins []string `json:"allowed_origins"`

	// EnableMetrics exposes GET /metrics
	EnableMetrics bool `json:"enable_metrics"`
}

// TableConfig is the temperature range (°C) of generated tables
type TableConfig struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
	Step float64 `json:"step"`
}

// SolverConfig contains solver settings
type SolverConfig struct {
	// Tolerance is the simplex optimality tolerance
	Tolerance float64 `json:"tolerance"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default CLI output format (cli, json)
	DefaultFormat string `json:"default_format"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr:                ":8080",
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 30,
			MaxBodyBytes:        1 << 20,
			AllowedOrigins:      []string{"*"},
			EnableMetrics:       true,
		},
		Table: TableConfig{
			From: -20,
			To:   100,
			Step: 10,
		},
		Solver: SolverConfig{
			Tolerance: 1e-10,
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Validate checks the values that the engine cannot work around
func (c *Config) Validate() error {
	if c.Table.Step <= 0 {
		return verrors.Config("table.step must be positive")
	}
	if c.Table.From > c.Table.To {
		return verrors.Config("table.from must not exceed table.to")
	}
	if c.Solver.Tolerance <= 0 {
		return verrors.Config("solver.tolerance must be positive")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return verrors.Config("server.max_body_bytes must be positive")
	}
	return nil
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, verrors.Wrap(verrors.TypeConfig, "invalid configuration file "+path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
