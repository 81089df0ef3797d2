package config

import "matrixterm/internal/logging"

// LoggingConfig configures logging.
type LoggingConfig struct {
	DebugMode   bool            `yaml:"debug_mode" json:"debug_mode,omitempty"`     // Master toggle - false = no logging (production)
	Level       string          `yaml:"level" json:"level,omitempty"`               // debug, info, warn, error
	Format      string          `yaml:"format" json:"format,omitempty"`             // json, console
	OutputPaths []string        `yaml:"output_paths" json:"output_paths,omitempty"` // zap sinks: "stderr" or file paths
	Categories  map[string]bool `yaml:"categories" json:"categories,omitempty"`     // Per-category toggles
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Returns false if debug_mode is false (production mode).
// Returns true if debug_mode is true and category is enabled (or not specified).
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}

// Options converts the config section into logging.Options.
func (c *LoggingConfig) Options() logging.Options {
	return logging.Options{
		DebugMode:   c.DebugMode,
		Level:       c.Level,
		Format:      c.Format,
		OutputPaths: c.OutputPaths,
		Categories:  c.Categories,
	}
}
