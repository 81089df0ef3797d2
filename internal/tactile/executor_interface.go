package tactile

import (
	"context"
)

// Executor is the interface for command execution.
type Executor interface {
	// Execute runs a command and returns a comprehensive result.
	// The context can be used for cancellation.
	// A process that cannot be started yields a *SpawnError.
	Execute(ctx context.Context, cmd Command) (*ExecutionResult, error)

	// Capabilities returns what this executor supports.
	Capabilities() ExecutorCapabilities

	// Validate checks if a command can be executed by this executor.
	// Returns nil if valid, or an error explaining why not.
	Validate(cmd Command) error
}

// AuditedExecutor wraps an executor to provide audit event generation.
type AuditedExecutor interface {
	Executor

	// SetAuditCallback sets the callback for audit events.
	SetAuditCallback(callback func(AuditEvent))
}
