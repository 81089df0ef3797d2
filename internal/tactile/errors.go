package tactile

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
)

// ErrEmptyBinary is returned by Validate for a command without a binary.
var ErrEmptyBinary = errors.New("command binary cannot be empty")

// SpawnError reports a process that could not be started.
type SpawnError struct {
	Binary   string
	NotFound bool
	Err      error
}

func (e *SpawnError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("command not found: %s", e.Binary)
	}
	return fmt.Sprintf("failed to start %s: %v", e.Binary, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// newSpawnError classifies a start failure from os/exec.
func newSpawnError(binary string, err error) *SpawnError {
	notFound := errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)

	// A missing working directory is not a missing binary
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && pathErr.Op == "chdir" {
		notFound = false
	}
	return &SpawnError{Binary: binary, NotFound: notFound, Err: err}
}

// IsNotFound reports whether err is a SpawnError for a missing binary.
func IsNotFound(err error) bool {
	var se *SpawnError
	return errors.As(err, &se) && se.NotFound
}
