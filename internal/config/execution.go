package config

// ExecutionConfig configures the tactile interface.
type ExecutionConfig struct {
	// Working directory for spawned commands ("" = the session's cwd)
	WorkingDirectory string `yaml:"working_directory" json:"working_directory,omitempty"`

	// Environment variables to pass (empty = inherit the full environment)
	AllowedEnvVars []string `yaml:"allowed_env_vars" json:"allowed_env_vars,omitempty"`

	// Timeout for external commands ("" = none, like an interactive shell)
	DefaultTimeout string `yaml:"default_timeout" json:"default_timeout,omitempty"`

	// Cap on captured stdout/stderr bytes per stream
	MaxOutputBytes int64 `yaml:"max_output_bytes" json:"max_output_bytes,omitempty"`
}
