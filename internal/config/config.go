package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all aspforge configuration.
type Config struct {
	// Model enumeration backend
	Solver SolverConfig `yaml:"solver"`

	// Dataset generation defaults
	Generation GenerationConfig `yaml:"generation"`

	// Input program handling
	Program ProgramConfig `yaml:"program"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ProgramConfig configures how program files are read.
type ProgramConfig struct {
	Dialect string `yaml:"dialect" validate:"oneof=asp mangle"` // asp, mangle
}

var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Solver: SolverConfig{
			Backend:    "builtin",
			ClingoPath: "clingo",
			Timeout:    "60s",
		},
		Generation: GenerationConfig{
			Rows:      100,
			Uniform:   true,
			Hidden:    0,
			Seed:      0,
			OutputDir: ".",
		},
		Program: ProgramConfig{
			Dialect: "asp",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Categories: map[string]bool{
				"boot":    true,
				"solver":  true,
				"forge":   true,
				"dataset": true,
				"watch":   true,
			},
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides. A clingo path
// selects the clingo backend unless FORGE_SOLVER names one.
func (c *Config) applyEnvOverrides() {
	backend := os.Getenv("FORGE_SOLVER")
	if path := os.Getenv("FORGE_CLINGO_PATH"); path != "" {
		c.Solver.ClingoPath = path
		if backend == "" {
			c.Solver.Backend = "clingo"
		}
	}
	if backend != "" {
		c.Solver.Backend = backend
	}
	if dir := os.Getenv("FORGE_OUTPUT_DIR"); dir != "" {
		c.Generation.OutputDir = dir
	}
	if s := os.Getenv("FORGE_SEED"); s != "" {
		if seed, err := strconv.ParseUint(s, 10, 64); err == nil {
			c.Generation.Seed = seed
		}
	}
}

// GetSolverTimeout returns the solver timeout as a duration.
func (c *Config) GetSolverTimeout() time.Duration {
	d, err := time.ParseDuration(c.Solver.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Solver.Timeout != "" {
		if _, err := time.ParseDuration(c.Solver.Timeout); err != nil {
			return fmt.Errorf("invalid solver timeout %q: %w", c.Solver.Timeout, err)
		}
	}
	if c.Solver.Backend == "clingo" && c.Solver.ClingoPath == "" {
		return fmt.Errorf("clingo backend selected but clingo_path is empty")
	}
	return nil
}
