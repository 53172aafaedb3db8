// Package config loads the tool settings from a YAML or TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/tosih/edc15p-tool/pkg/models"
)

// Config is the full tool configuration
type Config struct {
	Engine      models.Engine     `yaml:"engine" toml:"engine"`
	Store       StoreConfig       `yaml:"store" toml:"store"`
	Server      ServerConfig      `yaml:"server" toml:"server"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
	Calibration CalibrationConfig `yaml:"calibration" toml:"calibration"`
}

// StoreConfig selects where grid cells are persisted
type StoreConfig struct {
	Backend string `yaml:"backend" toml:"backend" validate:"oneof=memory pebble sqlite"`
	Path    string `yaml:"path" toml:"path" validate:"required_unless=Backend memory"`
}

// ServerConfig configures the web viewer
type ServerConfig struct {
	Port int `yaml:"port" toml:"port" validate:"min=1,max=65535"`
}

// LoggingConfig configures the structured logger
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" toml:"format" validate:"oneof=text json"`
}

// CalibrationConfig points at an optional calibration tables file. An empty
// path selects the built-in EDC15P ASZ tables.
type CalibrationConfig struct {
	TablesFile string `yaml:"tables_file" toml:"tables_file"`
}

var validate = validator.New()

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Engine: models.ASZ,
		Store: StoreConfig{
			Backend: "pebble",
			Path:    "edc15p.db",
		},
		Server:  ServerConfig{Port: 8080},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. The format follows the file extension:
// .toml is TOML, anything else YAML. A missing file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Calibration.TablesFile != "" && !filepath.IsAbs(cfg.Calibration.TablesFile) {
		cfg.Calibration.TablesFile = filepath.Join(filepath.Dir(path), cfg.Calibration.TablesFile)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field constraint
func (c *Config) Validate() error {
	return validate.Struct(c)
}
