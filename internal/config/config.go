// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"calcengine/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" toml:"version"`

	// Catalog controls where calculator definitions come from
	Catalog CatalogConfig `json:"catalog" toml:"catalog"`

	// Output contains output configuration
	Output OutputConfig `json:"output" toml:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" toml:"logging"`
}

// CatalogConfig contains calculator catalog settings
type CatalogConfig struct {
	// Paths are definition files or directories loaded after the builtin set
	Paths []string `json:"paths,omitempty" toml:"paths"`

	// IncludeBuiltin loads the calculators bundled with the binary
	IncludeBuiltin bool `json:"include_builtin" toml:"include_builtin"`

	// Strict turns load-time warnings into errors
	Strict bool `json:"strict" toml:"strict"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// Format is the default output format (table, json)
	Format string `json:"format" toml:"format"`

	// Precision is the number of decimal places shown
	Precision int32 `json:"precision" toml:"precision"`

	// ShowFailures lists outputs that fell back to zero
	ShowFailures bool `json:"show_failures" toml:"show_failures"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Catalog: CatalogConfig{
			IncludeBuiltin: true,
			Strict:         false,
		},
		Output: OutputConfig{
			Format:       "table",
			Precision:    2,
			ShowFailures: true,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a JSON or TOML file. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), config); err != nil {
			return nil, err
		}
		return config, nil
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if isTOML(path) {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return toml.NewEncoder(f).Encode(c)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
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
