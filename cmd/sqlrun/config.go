package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/loykin/sqlrun"
	"github.com/loykin/sqlrun/internal/common"
	"gopkg.in/yaml.v3"
)

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // error, warn, info, debug
	Format string `mapstructure:"format" yaml:"format"` // text, json
}

type ConfigDoc struct {
	Store      sqlrun.StoreConfig `mapstructure:"store" yaml:"store"`
	MigrateDir string             `mapstructure:"migrate_dir" yaml:"migrate_dir"`
	Logging    LoggingConfig      `mapstructure:"logging" yaml:"logging"`
}

// Load reads and parses a YAML config document.
func (c *ConfigDoc) Load(path string) error {
	clean := filepath.Clean(path)
	// #nosec G304 -- path supplied by the operator via flag or env
	b, err := os.ReadFile(clean)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// ConfigureLogging installs the global logger described by the document.
func (c *ConfigDoc) ConfigureLogging() {
	level := common.ParseLogLevel(c.Logging.Level)
	if c.Logging.Format == "json" {
		common.SetDefaultLogger(common.NewJSONLogger(level))
		return
	}
	common.SetDefaultLogger(common.NewLogger(level))
}
