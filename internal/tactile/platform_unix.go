//go:build !windows

package tactile

import (
	"os/exec"
	"runtime"
	"syscall"
)

// getProcessResourceUsage extracts resource usage on Unix systems.
func getProcessResourceUsage(cmd *exec.Cmd) *ResourceUsage {
	if cmd.ProcessState == nil {
		return nil
	}

	rusage, ok := cmd.ProcessState.SysUsage().(*syscall.Rusage)
	if !ok || rusage == nil {
		return nil
	}

	return &ResourceUsage{
		UserTimeMs:   int64(rusage.Utime.Sec)*1000 + int64(rusage.Utime.Usec)/1000,
		SystemTimeMs: int64(rusage.Stime.Sec)*1000 + int64(rusage.Stime.Usec)/1000,
		MaxRSSBytes:  maxRSSBytes(rusage),
	}
}

// maxRSSBytes normalizes ru_maxrss: kilobytes on Linux, bytes on Darwin.
func maxRSSBytes(rusage *syscall.Rusage) int64 {
	if runtime.GOOS == "darwin" {
		return int64(rusage.Maxrss)
	}
	return int64(rusage.Maxrss) * 1024
}
