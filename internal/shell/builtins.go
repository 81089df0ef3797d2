package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"matrixterm/internal/history"
	"matrixterm/internal/world"
)

// Env is what builtins may touch.
type Env struct {
	FS       world.FileSystem
	Lister   *world.Lister
	Ledger   *history.Ledger
	Registry *Registry
}

func standardBuiltins() []*Builtin {
	return []*Builtin{
		{
			Kind:        KindList,
			Name:        "ls",
			Aliases:     []string{"dir"},
			Usage:       "ls [-adfhlSt] [path]",
			Description: "List directory contents",
			Run:         runList,
		},
		{
			Kind:        KindChangeDir,
			Name:        "cd",
			Usage:       "cd [dir]",
			Description: "Change the working directory",
			Run:         runChangeDir,
		},
		{
			Kind:        KindPrintDir,
			Name:        "pwd",
			Usage:       "pwd",
			Description: "Print the working directory",
			Run:         runPrintDir,
		},
		{
			Kind:        KindClear,
			Name:        "clear",
			Usage:       "clear",
			Description: "Clear the screen",
			Run:         runClear,
		},
		{
			Kind:        KindHistory,
			Name:        "history",
			Aliases:     []string{"hist"},
			Usage:       "history [-n N | -c | -s | -g PATTERN]",
			Description: "Show, search or clear the command history",
			Run:         runHistory,
		},
		{
			Kind:        KindHelp,
			Name:        "help",
			Usage:       "help",
			Description: "Show this help",
			Run:         runHelp,
		},
		{
			Kind:        KindExit,
			Name:        "exit",
			Aliases:     []string{"quit"},
			Usage:       "exit [--help]",
			Description: "Close the terminal",
			Run:         runExit,
		},
	}
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// pathError maps world errors onto shell error kinds.
func pathError(name, path string, err error) *Error {
	switch {
	case errors.Is(err, world.ErrNotFound):
		return &Error{Kind: InvalidPath, Name: name, Path: path, Err: world.ErrNotFound}
	case errors.Is(err, world.ErrNotDirectory):
		return &Error{Kind: InvalidPath, Name: name, Path: path, Err: world.ErrNotDirectory}
	default:
		return &Error{Kind: IoFailure, Name: name, Path: path, Err: err}
	}
}

func runChangeDir(_ context.Context, env *Env, args []string) (Output, error) {
	if len(args) > 1 {
		return Output{}, syntaxError("cd", "too many arguments")
	}
	target := "."
	if len(args) == 1 {
		target = expandHome(args[0])
	}
	if err := env.FS.Chdir(target); err != nil {
		return Output{}, pathError("cd", target, err)
	}
	return Output{}, nil
}

func runPrintDir(_ context.Context, env *Env, args []string) (Output, error) {
	if len(args) > 0 {
		return Output{}, syntaxError("pwd", "too many arguments")
	}
	wd, err := env.FS.Getwd()
	if err != nil {
		return Output{}, &Error{Kind: IoFailure, Name: "pwd", Err: err}
	}
	return Output{Lines: []string{wd}}, nil
}

func runClear(context.Context, *Env, []string) (Output, error) {
	return Output{Clear: true}, nil
}

func runHelp(_ context.Context, env *Env, _ []string) (Output, error) {
	lines := []string{"Available commands:"}

	width := 0
	for _, b := range env.Registry.Builtins() {
		if n := len(strings.Join(b.Names(), ", ")); n > width {
			width = n
		}
	}
	for _, b := range env.Registry.Builtins() {
		names := strings.Join(b.Names(), ", ")
		lines = append(lines, fmt.Sprintf("  %-*s  %s", width, names, b.Description))
		lines = append(lines, fmt.Sprintf("  %-*s  usage: %s", width, "", b.Usage))
	}

	lines = append(lines, "", "ls options:")
	lines = append(lines, listFlagHelp...)
	lines = append(lines, "", "Any other command is run as an external program.")
	return Output{Lines: lines}, nil
}

var farewellLines = []string{
	"Closing matrixterm...",
	"Stopping the rain...",
	"Goodbye!",
}

var exitHelpLines = []string{
	"exit - close the terminal",
	"aliases: quit",
	"usage:",
	"  exit          close the terminal",
	"  exit --help   show this help",
	"  quit          same as exit",
}

func runExit(_ context.Context, _ *Env, args []string) (Output, error) {
	if len(args) == 0 {
		return Output{Lines: append([]string(nil), farewellLines...), Exit: true}, nil
	}
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h") {
		return Output{Lines: append([]string(nil), exitHelpLines...)}, nil
	}
	return Output{}, syntaxError("exit", "unexpected argument %q (usage: exit [--help])", args[0])
}
