//go:build windows

package tactile

import (
	"os/exec"
)

// getProcessResourceUsage extracts resource usage on Windows.
// Only CPU times are available once the process has exited.
func getProcessResourceUsage(cmd *exec.Cmd) *ResourceUsage {
	if cmd.ProcessState == nil {
		return nil
	}

	return &ResourceUsage{
		UserTimeMs:   cmd.ProcessState.UserTime().Milliseconds(),
		SystemTimeMs: cmd.ProcessState.SystemTime().Milliseconds(),
	}
}
