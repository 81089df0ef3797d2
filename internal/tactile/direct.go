package tactile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"matrixterm/internal/logging"
)

// DirectExecutor executes commands directly on the host using os/exec.
type DirectExecutor struct {
	mu     sync.RWMutex
	config ExecutorConfig

	// auditCallback is called for execution events
	auditCallback func(AuditEvent)
}

// NewDirectExecutor creates a new direct executor with default config.
func NewDirectExecutor() *DirectExecutor {
	logging.TactileDebug("Creating new DirectExecutor with default config")
	return NewDirectExecutorWithConfig(DefaultExecutorConfig())
}

// NewDirectExecutorWithConfig creates a new direct executor with custom config.
func NewDirectExecutorWithConfig(config ExecutorConfig) *DirectExecutor {
	if config.MaxOutputBytes <= 0 {
		config.MaxOutputBytes = DefaultExecutorConfig().MaxOutputBytes
	}
	logging.TactileDebug("Creating DirectExecutor with config: timeout=%s, maxOutput=%d bytes",
		config.DefaultTimeout, config.MaxOutputBytes)
	return &DirectExecutor{
		config: config,
	}
}

// SetAuditCallback sets the callback for audit events.
func (e *DirectExecutor) SetAuditCallback(callback func(AuditEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.auditCallback = callback
}

// emitAudit emits an audit event if a callback is registered.
func (e *DirectExecutor) emitAudit(eventType AuditEventType, cmd Command, result *ExecutionResult) {
	e.mu.RLock()
	callback := e.auditCallback
	e.mu.RUnlock()

	if callback != nil {
		callback(AuditEvent{
			Type:      eventType,
			Timestamp: time.Now(),
			Command:   cmd,
			Result:    result,
			SessionID: cmd.SessionID,
		})
	}
}

// Capabilities returns what this executor supports.
func (e *DirectExecutor) Capabilities() ExecutorCapabilities {
	return ExecutorCapabilities{
		Name:                  "direct",
		Platform:              runtime.GOOS,
		SupportsResourceUsage: e.config.EnableResourceUsage,
		SupportsStdin:         true,
		DefaultTimeout:        e.config.DefaultTimeout,
	}
}

// Validate checks if a command can be executed.
func (e *DirectExecutor) Validate(cmd Command) error {
	if strings.TrimSpace(cmd.Binary) == "" {
		return ErrEmptyBinary
	}
	if cmd.Limits != nil && cmd.Limits.TimeoutMs < 0 {
		return fmt.Errorf("timeout cannot be negative: %dms", cmd.Limits.TimeoutMs)
	}
	return nil
}

// Execute runs a command directly on the host.
func (e *DirectExecutor) Execute(ctx context.Context, cmd Command) (*ExecutionResult, error) {
	timer := logging.StartTimer(logging.CategoryTactile, "Direct command execution")
	defer timer.Stop()

	logging.Tactile("Executing command: %s", cmd.CommandString())

	if err := e.Validate(cmd); err != nil {
		logging.TactileWarn("Command validation failed: %q - %v", cmd.Binary, err)
		return nil, err
	}

	cmd = e.config.Merge(cmd)

	result := &ExecutionResult{
		ExitCode: -1,
		Command:  &cmd,
	}

	e.emitAudit(AuditEventStart, cmd, nil)

	execCtx := ctx
	var cancel context.CancelFunc
	timeout := time.Duration(cmd.Limits.TimeoutMs) * time.Millisecond
	if timeout > 0 {
		execCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		execCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	execCmd := exec.CommandContext(execCtx, cmd.Binary, cmd.Arguments...)
	execCmd.Dir = cmd.WorkingDirectory
	execCmd.Env = e.buildEnvironment(cmd.Environment)

	if cmd.Stdin != "" {
		logging.TactileDebug("Providing stdin input (%d bytes)", len(cmd.Stdin))
		execCmd.Stdin = strings.NewReader(cmd.Stdin)
	}

	// Each stream is capped separately; the combined view is
	// interleaved in arrival order.
	var stdoutBuf, stderrBuf bytes.Buffer
	combined := &combinedBuffer{}
	stdoutLimited := &limitedWriter{w: io.MultiWriter(&stdoutBuf, combined), max: cmd.Limits.MaxOutputBytes}
	stderrLimited := &limitedWriter{w: io.MultiWriter(&stderrBuf, combined), max: cmd.Limits.MaxOutputBytes}
	execCmd.Stdout = stdoutLimited
	execCmd.Stderr = stderrLimited

	result.StartedAt = time.Now()
	logging.TactileDebug("Starting process: %s (dir=%s)", cmd.Binary, cmd.WorkingDirectory)

	err := execCmd.Run()

	result.FinishedAt = time.Now()
	result.Duration = result.FinishedAt.Sub(result.StartedAt)

	result.Stdout = stdoutBuf.String()
	result.Stderr = stderrBuf.String()
	result.Combined = combined.String()

	if stdoutLimited.truncated || stderrLimited.truncated {
		result.Truncated = true
		result.TruncatedBytes = stdoutLimited.discarded + stderrLimited.discarded
		logging.TactileWarn("Command output truncated: %d bytes discarded", result.TruncatedBytes)
	}

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.Is(execCtx.Err(), context.DeadlineExceeded):
			result.Killed = true
			result.KillReason = fmt.Sprintf("timeout after %s", timeout)
			result.Success = true // Process ran, then was killed
			logging.TactileWarn("Command killed (timeout): %s after %s", cmd.Binary, timeout)
			e.emitAudit(AuditEventKilled, cmd, result)
			return result, nil
		case errors.Is(execCtx.Err(), context.Canceled) && execCmd.ProcessState != nil:
			result.Killed = true
			result.KillReason = "context canceled"
			result.Success = true
			logging.TactileDebug("Command canceled: %s", cmd.Binary)
			e.emitAudit(AuditEventKilled, cmd, result)
			return result, nil
		case errors.As(err, &exitErr):
			result.Success = true // Command ran, just returned non-zero
			result.ExitCode = exitErr.ExitCode()
			logging.TactileDebug("Command exited non-zero: %s -> %d", cmd.Binary, result.ExitCode)
		default:
			spawnErr := newSpawnError(cmd.Binary, err)
			result.Success = false
			result.Error = spawnErr.Error()
			logging.TactileError("Command failed to start: %s - %v", cmd.Binary, err)
			e.emitAudit(AuditEventError, cmd, result)
			return result, spawnErr
		}
	} else {
		result.Success = true
		result.ExitCode = 0
	}

	if e.config.EnableResourceUsage {
		result.ResourceUsage = getProcessResourceUsage(execCmd)
	}

	e.emitAudit(AuditEventComplete, cmd, result)

	logging.Tactile("Command completed: %s -> exit=%d, duration=%s, output=%d bytes",
		cmd.Binary, result.ExitCode, result.Duration, len(result.Combined))

	return result, nil
}

// buildEnvironment creates the environment variable list.
func (e *DirectExecutor) buildEnvironment(cmdEnv []string) []string {
	var env []string
	if len(e.config.AllowedEnvironment) == 0 {
		env = os.Environ()
	} else {
		for _, key := range e.config.AllowedEnvironment {
			if val, ok := os.LookupEnv(key); ok {
				env = append(env, key+"="+val)
			}
		}
	}
	return append(env, cmdEnv...)
}

// combinedBuffer is shared by the stdout and stderr copiers.
type combinedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *combinedBuffer) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *combinedBuffer) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// limitedWriter is an io.Writer that limits total bytes written.
type limitedWriter struct {
	w         io.Writer
	max       int64
	written   int64
	truncated bool
	discarded int64
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)

	if lw.written >= lw.max {
		lw.truncated = true
		lw.discarded += int64(n)
		return n, nil // Pretend we wrote it
	}

	remaining := lw.max - lw.written
	if int64(n) > remaining {
		lw.truncated = true
		lw.discarded += int64(n) - remaining
		written, err := lw.w.Write(p[:remaining])
		lw.written += int64(written)
		return n, err // Return original length to avoid "short write" errors
	}

	written, err := lw.w.Write(p)
	lw.written += int64(written)
	return written, err
}
