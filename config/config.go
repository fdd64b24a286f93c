// Package config holds the settings shared by the pipesim command line tools.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/akita/v4/sim"
	"go.yaml.in/yaml/v3"

	"github.com/sarchlab/pipesim/timing/pipeline"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds simulation and report settings.
type Config struct {
	// ClockFrequency is the core clock used to convert cycles into time.
	// Default: 1 GHz.
	ClockFrequency sim.Freq `json:"clock_frequency_hz" yaml:"clock_frequency_hz"`

	// CellWidth is the number of columns per cycle slot in the stage chart.
	// Default: 5.
	CellWidth int `json:"cell_width" yaml:"cell_width"`

	// Color selects colored output: auto, always or never. Default: auto.
	Color string `json:"color" yaml:"color"`

	// ShowChart prints the stage chart. Default: true.
	ShowChart bool `json:"show_chart" yaml:"show_chart"`

	// ShowCycles prints the total cycle count. Default: true.
	ShowCycles bool `json:"show_cycles" yaml:"show_cycles"`

	// Annotate prints each instruction next to its chart row. Default: false.
	Annotate bool `json:"annotate" yaml:"annotate"`

	// Verbosity is the log level. 1 dumps every decoded instruction and
	// hazard. Default: 0.
	Verbosity int `json:"verbosity" yaml:"verbosity"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		ClockFrequency: 1 * sim.GHz,
		CellWidth:      pipeline.DefaultCellWidth,
		Color:          ColorAuto,
		ShowChart:      true,
		ShowCycles:     true,
		Annotate:       false,
		Verbosity:      0,
	}
}

// isYAML reports whether path names a YAML file.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadConfig loads a Config from a JSON or YAML file, chosen by extension.
// Fields missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON or YAML file, chosen by extension.
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if c.ClockFrequency <= 0 {
		return fmt.Errorf("clock_frequency_hz must be > 0")
	}
	if c.CellWidth < 3 {
		return fmt.Errorf("cell_width must be >= 3")
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be one of auto, always, never (got %q)", c.Color)
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity must be >= 0")
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
