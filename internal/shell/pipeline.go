package shell

import (
	"context"
	"fmt"
	"strings"
	"time"

	"matrixterm/internal/history"
	"matrixterm/internal/logging"
	"matrixterm/internal/tactile"
	"matrixterm/internal/world"
)

// Result is the outcome of executing one command.
type Result struct {
	// Command carries Output and ExitCode.
	Command Command

	// Lines is what the command printed, one entry per line.
	Lines []string

	Clear bool
	Exit  bool

	// Entry is the history record written for this execution.
	Entry history.Entry

	Duration time.Duration
}

// Success reports whether the command ran and exited zero.
func (r Result) Success() bool {
	return r.Command.ExitCode == 0
}

// Options configures a Pipeline.
type Options struct {
	FS       world.FileSystem
	Executor tactile.Executor
	Ledger   *history.Ledger
	Registry *Registry // nil = standard builtins
	Lister   *world.Lister

	// CommandTimeout bounds external commands (0 = none).
	CommandTimeout time.Duration

	// SessionID tags external executions for audit.
	SessionID string
}

// Pipeline executes parsed commands and records them in the ledger.
type Pipeline struct {
	env       *Env
	executor  tactile.Executor
	timeout   time.Duration
	sessionID string
}

// NewPipeline creates a pipeline. FS and Executor are required.
func NewPipeline(opts Options) *Pipeline {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Ledger == nil {
		opts.Ledger = history.NewLedger(history.DefaultCapacity)
	}
	if opts.Lister == nil {
		opts.Lister = world.NewLister(opts.FS)
	}
	return &Pipeline{
		env: &Env{
			FS:       opts.FS,
			Lister:   opts.Lister,
			Ledger:   opts.Ledger,
			Registry: opts.Registry,
		},
		executor:  opts.Executor,
		timeout:   opts.CommandTimeout,
		sessionID: opts.SessionID,
	}
}

// Registry returns the builtin registry.
func (p *Pipeline) Registry() *Registry {
	return p.env.Registry
}

// Ledger returns the history ledger.
func (p *Pipeline) Ledger() *history.Ledger {
	return p.env.Ledger
}

// Parse parses raw against this pipeline's registry.
func (p *Pipeline) Parse(raw string) Command {
	return p.env.Registry.Parse(raw)
}

// Execute runs cmd and records exactly one history entry for it.
//
// Failures never abort the session: the returned Result is always usable.
// A builtin or spawn failure yields exit code 1, the error text as output,
// an unsuccessful entry, and the same failure as a non-nil *Error.
// An empty command is returned unchanged with no entry.
func (p *Pipeline) Execute(ctx context.Context, cmd Command) (Result, error) {
	if cmd.IsEmpty() {
		return Result{Command: cmd}, nil
	}
	if cmd.Kind == KindNone {
		cmd.Kind = p.env.Registry.Resolve(cmd.Name)
	}
	if cmd.Line == "" {
		cmd.Line = strings.TrimSpace(strings.Join(append([]string{cmd.Name}, cmd.Args...), " "))
	}

	timer := logging.StartTimer(logging.CategoryShell, "Execute "+cmd.Name)
	start := time.Now()

	var (
		out      Output
		err      error
		exitCode int
		errMsg   string
	)

	switch cmd.Kind {
	case KindExternal:
		out, exitCode, errMsg, err = p.spawn(ctx, cmd)
	default:
		b, ok := p.env.Registry.ForKind(cmd.Kind)
		if !ok {
			err = syntaxError(cmd.Name, "no handler for %s", cmd.Kind)
			break
		}
		logging.ShellDebug("Dispatching builtin %s (%s) args=%v", cmd.Name, cmd.Kind, cmd.Args)
		out, err = b.Run(ctx, p.env, cmd.Args)
	}

	res := Result{
		Command: cmd,
		Lines:   out.Lines,
		Clear:   out.Clear,
		Exit:    out.Exit,
	}

	var shellErr *Error
	if err != nil {
		shellErr = asError(cmd.Name, err)
		msg := shellErr.Error()
		res.Command.ExitCode = 1
		res.Command.Output = msg
		res.Lines = append(res.Lines, "Error: "+msg)
		res.Clear, res.Exit = false, false
		res.Entry = history.NewEntry(cmd.Line, out.Lines, false, msg)
		logging.ShellWarn("Command %q failed (%s): %s", cmd.Line, shellErr.Kind, msg)
	} else {
		res.Command.ExitCode = exitCode
		res.Command.Output = strings.Join(out.Lines, "\n")
		recorded := out.Lines
		success := exitCode == 0
		if success && len(recorded) == 0 {
			recorded = []string{cmd.Line + " - executed successfully"}
		}
		res.Entry = history.NewEntry(cmd.Line, recorded, success, errMsg)
	}

	p.env.Ledger.Add(res.Entry)
	res.Duration = time.Since(start)
	timer.Stop()

	logging.Shell("Executed %q kind=%s exit=%d success=%v duration=%s",
		cmd.Line, cmd.Kind, res.Command.ExitCode, res.Entry.Success, res.Duration)

	if shellErr != nil {
		return res, shellErr
	}
	return res, nil
}

// Run parses and executes one line.
func (p *Pipeline) Run(ctx context.Context, raw string) (Result, error) {
	return p.Execute(ctx, p.Parse(raw))
}

// spawn runs an external command. A non-zero exit is not an error; it is
// reported through exitCode and errMsg.
func (p *Pipeline) spawn(ctx context.Context, cmd Command) (Output, int, string, error) {
	if p.executor == nil {
		return Output{}, 0, "", &Error{Kind: ProcessSpawnFailed, Name: cmd.Name, Err: fmt.Errorf("no process executor configured")}
	}

	wd, err := p.env.FS.Getwd()
	if err != nil {
		return Output{}, 0, "", &Error{Kind: IoFailure, Name: cmd.Name, Err: err}
	}

	tc := tactile.Command{
		Binary:           cmd.Name,
		Arguments:        cmd.Args,
		WorkingDirectory: wd,
		SessionID:        p.sessionID,
	}
	if p.timeout > 0 {
		tc.Limits = &tactile.ResourceLimits{TimeoutMs: p.timeout.Milliseconds()}
	}

	result, err := p.executor.Execute(ctx, tc)
	if err != nil {
		return Output{}, 0, "", &Error{Kind: ProcessSpawnFailed, Name: cmd.Name, Err: err}
	}

	out := Output{Lines: splitLines(result.Output())}
	if result.Truncated {
		out.Lines = append(out.Lines, fmt.Sprintf("[output truncated: %d bytes discarded]", result.TruncatedBytes))
	}

	switch {
	case result.Killed:
		return out, -1, result.KillReason, nil
	case result.ExitCode != 0:
		return out, result.ExitCode, fmt.Sprintf("exit status %d", result.ExitCode), nil
	default:
		return out, 0, "", nil
	}
}

// splitLines splits process output into lines, dropping the final newline
// and carriage returns.
func splitLines(s string) []string {
	s = strings.TrimRight(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
