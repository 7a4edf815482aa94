// Package config provides configuration loading and management for ttinterp.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"ttinterp/pkg/sweep"
	"ttinterp/pkg/traveltime"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Range is an evenly spaced grid axis.
type Range struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Count int     `yaml:"count"`
}

// Values expands the range into its grid points.
func (r Range) Values() []float64 {
	return sweep.Grid(r.Min, r.Max, r.Count)
}

// Config represents the application configuration loaded from YAML
type Config struct {
	// Engine parameters applied to every lookup
	Engine struct {
		// AllowExtrapolation permits values outside the table and in holes
		AllowExtrapolation bool `yaml:"allowExtrapolation"`

		// NeedDepthDerivatives controls the depth-direction derivatives
		NeedDepthDerivatives bool `yaml:"needDepthDerivatives"`
	} `yaml:"engine"`

	// Sweep parameters
	Sweep struct {
		// NumWorkers specifies how many goroutines evaluate the grid
		NumWorkers int `yaml:"numWorkers"`

		// Distance is the grid along epicentral distance in degrees
		Distance Range `yaml:"distance"`

		// Depth is the grid along source depth in kilometres
		Depth Range `yaml:"depth"`
	} `yaml:"sweep"`

	// Output parameters
	Output struct {
		// Verbose prints every grid point of a sweep
		Verbose bool `yaml:"verbose"`

		// LogLevel is a logrus level name
		LogLevel string `yaml:"logLevel"`

		// LogFormat is "text" or "json"
		LogFormat string `yaml:"logFormat"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Engine.AllowExtrapolation = false
	cfg.Engine.NeedDepthDerivatives = true

	cfg.Sweep.NumWorkers = runtime.NumCPU()
	cfg.Sweep.Distance = Range{Min: 0, Max: 10, Count: 21}
	cfg.Sweep.Depth = Range{Min: 0, Max: 100, Count: 11}

	cfg.Output.Verbose = false
	cfg.Output.LogLevel = "info"
	cfg.Output.LogFormat = "text"

	return cfg
}

// Validate checks the configuration for values the engine cannot use.
func (c *Config) Validate() error {
	if c.Sweep.NumWorkers < 0 {
		return fmt.Errorf("%w: sweep.numWorkers must not be negative, got %d", ErrInvalid, c.Sweep.NumWorkers)
	}
	for name, r := range map[string]Range{"sweep.distance": c.Sweep.Distance, "sweep.depth": c.Sweep.Depth} {
		if r.Count < 1 {
			return fmt.Errorf("%w: %s.count must be positive, got %d", ErrInvalid, name, r.Count)
		}
		if r.Count > 1 && r.Min == r.Max {
			return fmt.Errorf("%w: %s spans a single point with %d samples", ErrInvalid, name, r.Count)
		}
	}
	if _, err := logrus.ParseLevel(c.Output.LogLevel); err != nil {
		return fmt.Errorf("%w: output.logLevel: %v", ErrInvalid, err)
	}
	switch c.Output.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: output.logFormat must be text or json, got %q", ErrInvalid, c.Output.LogFormat)
	}
	return nil
}

// DepthDerivs translates the engine setting into a lookup option.
func (c *Config) DepthDerivs() traveltime.DerivNeed {
	if c.Engine.NeedDepthDerivatives {
		return traveltime.DerivCompute
	}
	return traveltime.DerivSkip
}

// SweepParams builds sweep parameters from the configuration.
func (c *Config) SweepParams() *sweep.Params {
	return &sweep.Params{
		Distances:          c.Sweep.Distance.Values(),
		Depths:             c.Sweep.Depth.Values(),
		NumWorkers:         c.Sweep.NumWorkers,
		AllowExtrapolation: c.Engine.AllowExtrapolation,
		DepthDerivs:        c.DepthDerivs(),
	}
}

// NewLogger builds a logger from the output section. The configuration must
// be valid.
func (c *Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	if level, err := logrus.ParseLevel(c.Output.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if c.Output.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
