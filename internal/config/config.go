package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all matrixterm configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Interactive session (output buffer, history ledger, prompt)
	Session SessionConfig `yaml:"session"`

	// Background rain effect
	Effects EffectsConfig `yaml:"effects"`

	// External command execution
	Execution ExecutionConfig `yaml:"execution"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "matrixterm",
		Version: "0.1.0",

		Session: SessionConfig{
			HistorySize:    100,
			RecallSize:     100,
			MaxOutputLines: 1000,
			PromptSuffix:   ":~$ ",
		},

		Effects: EffectsConfig{
			Enabled:            true,
			TickInterval:       "16ms",
			FadeIn:             "200ms",
			SpawnProbability:   0.3,
			FlickerProbability: 0.1,
			MaxDrops:           20,
			MinLength:          5,
			MaxLength:          15,
			MinSpeed:           50,
			MaxSpeed:           150,
			MaxIntensity:       4,
			Width:              1200,
			Height:             800,
			GlyphHeight:        20,
		},

		Execution: ExecutionConfig{
			WorkingDirectory: "",
			DefaultTimeout:   "",
			MaxOutputBytes:   10 * 1024 * 1024,
		},

		Logging: LoggingConfig{
			DebugMode:   false,
			Level:       "info",
			Format:      "json",
			OutputPaths: []string{"stderr"},
		},
	}
}

// DefaultConfigPath returns ~/.config/matrixterm/config.yaml, falling back
// to a path relative to the working directory.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".matrixterm", "config.yaml")
	}
	return filepath.Join(dir, "matrixterm", "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Missing file: defaults plus environment
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
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

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MATRIXTERM_HISTORY_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Session.HistorySize = n
		}
	}
	if v := os.Getenv("MATRIXTERM_OUTPUT_LINES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Session.MaxOutputLines = n
		}
	}
	if v := os.Getenv("MATRIXTERM_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = b
		}
	}
	if v := os.Getenv("MATRIXTERM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("MATRIXTERM_NO_EFFECTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Effects.Enabled = false
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Session.HistorySize <= 0 {
		return fmt.Errorf("session.history_size must be positive, got %d", c.Session.HistorySize)
	}
	if c.Session.MaxOutputLines <= 0 {
		return fmt.Errorf("session.max_output_lines must be positive, got %d", c.Session.MaxOutputLines)
	}
	if c.Session.RecallSize < 0 {
		return fmt.Errorf("session.recall_size must not be negative, got %d", c.Session.RecallSize)
	}
	return c.Effects.validate()
}

// GetTickInterval returns the rain scheduler period as a duration.
func (c *Config) GetTickInterval() time.Duration {
	d, err := time.ParseDuration(c.Effects.TickInterval)
	if err != nil || d <= 0 {
		return 16 * time.Millisecond
	}
	return d
}

// GetFadeIn returns the keystroke fade-in window as a duration.
func (c *Config) GetFadeIn() time.Duration {
	d, err := time.ParseDuration(c.Effects.FadeIn)
	if err != nil || d < 0 {
		return 200 * time.Millisecond
	}
	return d
}

// GetCommandTimeout returns the external command timeout.
// Zero means commands run until they exit.
func (c *Config) GetCommandTimeout() time.Duration {
	if c.Execution.DefaultTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Execution.DefaultTimeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
