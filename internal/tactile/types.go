// Package tactile is the process-spawning layer of the session.
// It runs external commands on the host, captures their output and exit
// status, and reports spawn failures as typed errors.
//
// Design Principles:
//   - Minimal logic: parsing and dispatch happen in the shell package, not here
//   - Structured output: one ExecutionResult per run
//   - Cross-platform: Windows and Unix support
package tactile

import (
	"strings"
	"time"
)

// Command represents a command to be executed.
type Command struct {
	// Binary is the executable to run (e.g., "git", "grep").
	Binary string `json:"binary"`

	// Arguments are the command-line arguments.
	Arguments []string `json:"arguments"`

	// WorkingDirectory is the directory to execute in.
	// If empty, uses the executor's default working directory.
	WorkingDirectory string `json:"working_directory,omitempty"`

	// Environment variables to set (in KEY=VALUE format).
	// These are appended to the executor's environment.
	Environment []string `json:"environment,omitempty"`

	// Stdin provides input to the command's standard input.
	Stdin string `json:"stdin,omitempty"`

	// Limits specifies resource constraints for execution.
	Limits *ResourceLimits `json:"limits,omitempty"`

	// SessionID links this execution to a session (for audit).
	SessionID string `json:"session_id,omitempty"`
}

// CommandString returns the full command as a string (for display/logging).
func (c Command) CommandString() string {
	if len(c.Arguments) == 0 {
		return c.Binary
	}
	return c.Binary + " " + strings.Join(c.Arguments, " ")
}

// ResourceLimits defines constraints on command execution.
type ResourceLimits struct {
	// TimeoutMs is the maximum execution time in milliseconds.
	// Zero means use the executor's default timeout.
	TimeoutMs int64 `json:"timeout_ms,omitempty"`

	// MaxOutputBytes limits captured bytes per stream.
	// Zero means use the executor's default.
	MaxOutputBytes int64 `json:"max_output_bytes,omitempty"`
}

// ExecutionResult is the comprehensive output of command execution.
type ExecutionResult struct {
	// Success indicates whether the command completed without error.
	// Note: A command that runs but returns non-zero exit code has Success=true.
	// Success=false means the process could not be spawned.
	Success bool `json:"success"`

	// ExitCode is the command's exit code (-1 if not available).
	ExitCode int `json:"exit_code"`

	// Stdout is the captured standard output.
	Stdout string `json:"stdout"`

	// Stderr is the captured standard error.
	Stderr string `json:"stderr"`

	// Combined is stdout and stderr interleaved in arrival order.
	Combined string `json:"combined"`

	Duration   time.Duration `json:"duration"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`

	// Killed indicates the command was forcibly terminated.
	Killed     bool   `json:"killed"`
	KillReason string `json:"kill_reason,omitempty"`

	// Truncated indicates output was truncated due to size limits.
	Truncated      bool  `json:"truncated"`
	TruncatedBytes int64 `json:"truncated_bytes,omitempty"`

	// ResourceUsage contains resource consumption metrics (if available).
	ResourceUsage *ResourceUsage `json:"resource_usage,omitempty"`

	// Error contains the spawn failure message, if any.
	Error string `json:"error,omitempty"`

	// Command is a copy of the command that was executed (for audit).
	Command *Command `json:"command,omitempty"`
}

// IsError returns true if the execution failed (infrastructure error).
func (r *ExecutionResult) IsError() bool {
	return !r.Success || r.Error != ""
}

// IsNonZeroExit returns true if the command ran but returned non-zero.
func (r *ExecutionResult) IsNonZeroExit() bool {
	return r.Success && r.ExitCode != 0
}

// Output returns Combined if available, otherwise Stdout+Stderr.
func (r *ExecutionResult) Output() string {
	if r.Combined != "" {
		return r.Combined
	}
	if r.Stderr == "" {
		return r.Stdout
	}
	if r.Stdout == "" {
		return r.Stderr
	}
	return r.Stdout + "\n" + r.Stderr
}

// ResourceUsage contains metrics about resource consumption.
type ResourceUsage struct {
	UserTimeMs   int64 `json:"user_time_ms"`
	SystemTimeMs int64 `json:"system_time_ms"`

	// MaxRSSBytes is peak resident set size in bytes.
	MaxRSSBytes int64 `json:"max_rss_bytes"`
}

// TotalCPUTimeMs returns total CPU time (user + system).
func (r *ResourceUsage) TotalCPUTimeMs() int64 {
	return r.UserTimeMs + r.SystemTimeMs
}

// ExecutorCapabilities describes what an executor can do.
type ExecutorCapabilities struct {
	Name     string `json:"name"`
	Platform string `json:"platform"`

	// SupportsResourceUsage indicates resource usage metrics are available.
	SupportsResourceUsage bool `json:"supports_resource_usage"`

	SupportsStdin bool `json:"supports_stdin"`

	// DefaultTimeout is used when no timeout is specified (0 = none).
	DefaultTimeout time.Duration `json:"default_timeout"`
}

// AuditEventType categorizes audit events.
type AuditEventType string

const (
	AuditEventStart    AuditEventType = "start"
	AuditEventComplete AuditEventType = "complete"
	AuditEventKilled   AuditEventType = "killed"
	AuditEventError    AuditEventType = "error"
)

// AuditEvent represents one execution lifecycle event.
type AuditEvent struct {
	Type      AuditEventType   `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Command   Command          `json:"command"`
	Result    *ExecutionResult `json:"result,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
}

// ExecutorConfig is the configuration for creating executors.
type ExecutorConfig struct {
	// DefaultWorkingDir is used when Command.WorkingDirectory is empty.
	DefaultWorkingDir string `json:"default_working_dir"`

	// DefaultTimeout is used when no timeout is specified.
	// Zero lets commands run until they exit, like an interactive shell.
	DefaultTimeout time.Duration `json:"default_timeout"`

	// AllowedEnvironment lists environment variables to pass through.
	// Empty means the full parent environment is inherited.
	AllowedEnvironment []string `json:"allowed_environment"`

	// MaxOutputBytes caps output capture per stream (default 10MB).
	MaxOutputBytes int64 `json:"max_output_bytes"`

	// EnableResourceUsage enables collection of resource metrics.
	EnableResourceUsage bool `json:"enable_resource_usage"`
}

// DefaultExecutorConfig returns sensible defaults.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		DefaultWorkingDir:   "",
		DefaultTimeout:      0,
		MaxOutputBytes:      10 * 1024 * 1024, // 10MB
		EnableResourceUsage: true,
	}
}

// Merge combines this config with command-specific settings.
// Command settings override config defaults.
func (c ExecutorConfig) Merge(cmd Command) Command {
	result := cmd

	if result.WorkingDirectory == "" {
		result.WorkingDirectory = c.DefaultWorkingDir
	}

	limits := ResourceLimits{}
	if cmd.Limits != nil {
		limits = *cmd.Limits
	}
	if limits.TimeoutMs == 0 {
		limits.TimeoutMs = int64(c.DefaultTimeout / time.Millisecond)
	}
	if limits.MaxOutputBytes == 0 {
		limits.MaxOutputBytes = c.MaxOutputBytes
	}
	result.Limits = &limits

	return result
}
