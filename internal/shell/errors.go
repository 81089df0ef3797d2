package shell

import (
	"errors"
	"fmt"

	"matrixterm/internal/tactile"
)

// ErrorKind classifies pipeline failures.
type ErrorKind int

const (
	// InvalidPath: a path argument does not exist or is the wrong type.
	InvalidPath ErrorKind = iota + 1
	// ProcessSpawnFailed: an external command could not be started.
	ProcessSpawnFailed
	// IoFailure: reading the filesystem failed for another reason.
	IoFailure
	// InvalidCommandSyntax: bad flags or too many operands.
	InvalidCommandSyntax
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidPath:
		return "invalid_path"
	case ProcessSpawnFailed:
		return "process_spawn_failed"
	case IoFailure:
		return "io_failure"
	case InvalidCommandSyntax:
		return "invalid_command_syntax"
	default:
		return "unknown"
	}
}

// Error is the typed failure of one command.
type Error struct {
	Kind ErrorKind
	Name string // command name
	Path string // offending path, if any
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == ProcessSpawnFailed && e.Err != nil:
		return e.Err.Error()
	case e.Path != "":
		return fmt.Sprintf("%s: %s: %v", e.Name, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports whether the command binary could not be found.
func (e *Error) NotFound() bool {
	return e.Kind == ProcessSpawnFailed && tactile.IsNotFound(e.Err)
}

func syntaxError(name, format string, args ...interface{}) *Error {
	return &Error{Kind: InvalidCommandSyntax, Name: name, Err: fmt.Errorf(format, args...)}
}

// IsKind reports whether err is a shell Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

// asError folds any handler error into a *Error for the given command.
func asError(name string, err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	var spawn *tactile.SpawnError
	if errors.As(err, &spawn) {
		return &Error{Kind: ProcessSpawnFailed, Name: name, Err: err}
	}
	return &Error{Kind: IoFailure, Name: name, Err: err}
}
