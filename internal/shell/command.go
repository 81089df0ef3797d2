// Package shell turns a submitted line into a Command, dispatches it to a
// builtin or to an external process, and records the outcome in the
// history ledger.
package shell

import (
	"strings"
)

// Kind is the dispatch target of a command, resolved once at parse time.
type Kind int

const (
	KindNone     Kind = iota // empty input
	KindList                 // ls, dir
	KindChangeDir            // cd
	KindPrintDir             // pwd
	KindClear                // clear
	KindHelp                 // help
	KindExit                 // exit, quit
	KindHistory              // history, hist
	KindExternal             // anything else
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindList:
		return "list"
	case KindChangeDir:
		return "cd"
	case KindPrintDir:
		return "pwd"
	case KindClear:
		return "clear"
	case KindHelp:
		return "help"
	case KindExit:
		return "exit"
	case KindHistory:
		return "history"
	default:
		return "external"
	}
}

// IsBuiltin reports whether the kind is handled in-process.
func (k Kind) IsBuiltin() bool {
	return k != KindNone && k != KindExternal
}

// Command is one parsed line. Output and ExitCode are filled by execution.
type Command struct {
	Name     string   `json:"name"`
	Args     []string `json:"args"`
	Kind     Kind     `json:"kind"`
	Output   string   `json:"output"`
	ExitCode int      `json:"exit_code"`

	// Line is the trimmed input, as recorded in history.
	Line string `json:"line"`
}

// IsEmpty reports whether the command is the empty-input sentinel.
func (c Command) IsEmpty() bool {
	return c.Name == ""
}

// Split breaks a line into name and arguments on whitespace.
// Quoting is not interpreted.
func Split(raw string) (string, []string) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

// Parse parses raw against the default builtin registry.
func Parse(raw string) Command {
	return defaultRegistry.Parse(raw)
}
