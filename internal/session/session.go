// Package session owns the interactive terminal state: the line editor, the
// recall ring, the output log and the command pipeline.
//
// The host pushes key events through the intake methods (Insert, Backspace,
// Submit, ...) and pulls a Snapshot every frame to render. Command execution
// is synchronous on the caller's goroutine.
//
// State machine:
//
//	Editing → Dispatching → Editing
//	Editing → Dispatching → Terminating   (exit / quit)
//
// Terminating is absorbing: Submit is rejected and edits are ignored.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"matrixterm/internal/config"
	"matrixterm/internal/editor"
	"matrixterm/internal/effects"
	"matrixterm/internal/history"
	"matrixterm/internal/logging"
	"matrixterm/internal/shell"
	"matrixterm/internal/tactile"
	"matrixterm/internal/world"
)

// State is the session lifecycle state.
type State int

const (
	StateEditing State = iota
	StateDispatching
	StateTerminating
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateDispatching:
		return "dispatching"
	case StateTerminating:
		return "terminating"
	default:
		return "unknown"
	}
}

var (
	// ErrTerminating is returned by Submit once exit has been requested.
	ErrTerminating = errors.New("session is terminating")

	// ErrBusy is returned by Submit while another command is dispatching.
	ErrBusy = errors.New("a command is already running")
)

// Options configures a Session. Zero values take defaults.
type Options struct {
	Config   config.SessionConfig
	FS       world.FileSystem // nil = OSFS at the process working directory
	Executor tactile.Executor // nil = DirectExecutor
	Effects  *effects.Engine  // nil = no rain in snapshots
	Clock    effects.Clock    // nil = wall clock

	// CommandTimeout bounds external commands (0 = none).
	CommandTimeout time.Duration
}

// Session is the single owner of the terminal state.
type Session struct {
	id string

	mu        sync.Mutex
	state     State
	line      *editor.Line
	recall    *history.Recall
	output    []string
	maxOutput int
	farewell  []string
	lastInput time.Time

	suffix   string
	fs       world.FileSystem
	pipeline *shell.Pipeline
	effects  *effects.Engine
	clock    effects.Clock
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// New creates a session in the Editing state.
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	defaults := config.DefaultConfig().Session
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = defaults.HistorySize
	}
	if cfg.RecallSize <= 0 {
		cfg.RecallSize = defaults.RecallSize
	}
	if cfg.MaxOutputLines <= 0 {
		cfg.MaxOutputLines = defaults.MaxOutputLines
	}
	if cfg.PromptSuffix == "" {
		cfg.PromptSuffix = defaults.PromptSuffix
	}

	fsys := opts.FS
	if fsys == nil {
		osfs, err := world.NewOSFS("")
		if err != nil {
			return nil, err
		}
		fsys = osfs
	}
	exec := opts.Executor
	if exec == nil {
		exec = tactile.NewDirectExecutor()
	}
	clock := opts.Clock
	if clock == nil {
		clock = wallClock{}
	}

	id := uuid.New().String()
	s := &Session{
		id:        id,
		state:     StateEditing,
		line:      editor.New(),
		recall:    history.NewRecall(cfg.RecallSize),
		maxOutput: cfg.MaxOutputLines,
		suffix:    cfg.PromptSuffix,
		fs:        fsys,
		effects:   opts.Effects,
		clock:     clock,
		lastInput: clock.Now(),
		pipeline: shell.NewPipeline(shell.Options{
			FS:             fsys,
			Executor:       exec,
			Ledger:         history.NewLedger(cfg.HistorySize),
			CommandTimeout: opts.CommandTimeout,
			SessionID:      id,
		}),
	}

	logging.Session("Session %s created (history=%d, recall=%d, output=%d)",
		id, cfg.HistorySize, cfg.RecallSize, cfg.MaxOutputLines)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Pipeline returns the command pipeline.
func (s *Session) Pipeline() *shell.Pipeline {
	return s.pipeline
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ShouldExit reports whether exit has been requested.
func (s *Session) ShouldExit() bool {
	return s.State() == StateTerminating
}

// Farewell returns the lines printed by exit, for the host to show after
// it tears down the screen.
func (s *Session) Farewell() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.farewell...)
}

// Prompt returns "<cwd><suffix>".
func (s *Session) Prompt() string {
	wd, err := s.fs.Getwd()
	if err != nil {
		wd = "?"
	}
	return wd + s.suffix
}

// =============================================================================
// INTAKE
// =============================================================================

// edit applies fn to the line editor unless the session is terminating.
func (s *Session) edit(fn func(l *editor.Line)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateTerminating {
		return
	}
	s.lastInput = s.clock.Now()
	fn(s.line)
}

// Insert types r at the cursor.
func (s *Session) Insert(r rune) { s.edit(func(l *editor.Line) { l.Insert(r) }) }

// InsertString types every rune of str (paste).
func (s *Session) InsertString(str string) { s.edit(func(l *editor.Line) { l.InsertString(str) }) }

func (s *Session) Backspace() { s.edit((*editor.Line).Backspace) }
func (s *Session) Delete()    { s.edit((*editor.Line).Delete) }
func (s *Session) Left()      { s.edit((*editor.Line).Left) }
func (s *Session) Right()     { s.edit((*editor.Line).Right) }
func (s *Session) Home()      { s.edit((*editor.Line).Home) }
func (s *Session) End()       { s.edit((*editor.Line).End) }

// HistoryPrev replaces the buffer with the previous submitted line.
func (s *Session) HistoryPrev() {
	s.edit(func(l *editor.Line) {
		if prev, ok := s.recall.Prev(l.Value()); ok {
			l.SetValue(prev)
		}
	})
}

// HistoryNext moves forward through the recall ring, restoring the draft
// after the newest line.
func (s *Session) HistoryNext() {
	s.edit(func(l *editor.Line) {
		if next, ok := s.recall.Next(); ok {
			l.SetValue(next)
		}
	})
}

// Submit echoes the prompt and buffer, runs the line through the pipeline
// and folds the result into the output log. The buffer is cleared.
//
// The returned error is ErrTerminating or ErrBusy when nothing was
// dispatched, or the *shell.Error of a failed command (whose message is
// already in the output log).
func (s *Session) Submit(ctx context.Context) (shell.Result, error) {
	s.mu.Lock()
	switch s.state {
	case StateTerminating:
		s.mu.Unlock()
		logging.SessionWarn("Submit rejected: session %s is terminating", s.id)
		return shell.Result{}, ErrTerminating
	case StateDispatching:
		s.mu.Unlock()
		return shell.Result{}, ErrBusy
	}

	input := s.line.Value()
	s.line.Clear()
	s.recall.Push(strings.TrimSpace(input))
	s.lastInput = s.clock.Now()
	s.appendOutput(s.Prompt() + input)
	s.state = StateDispatching
	s.mu.Unlock()

	logging.SessionDebug("Dispatching %q", input)
	res, err := s.pipeline.Run(ctx, input)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case res.Exit:
		s.state = StateTerminating
		s.farewell = append([]string(nil), res.Lines...)
		logging.Session("Session %s terminating", s.id)
	case res.Clear:
		s.output = nil
		s.state = StateEditing
	default:
		s.appendOutput(res.Lines...)
		s.state = StateEditing
	}
	return res, err
}

// appendOutput adds lines, evicting the oldest beyond the cap. Caller holds s.mu.
func (s *Session) appendOutput(lines ...string) {
	s.output = append(s.output, lines...)
	if over := len(s.output) - s.maxOutput; over > 0 {
		s.output = append(s.output[:0], s.output[over:]...)
	}
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is a read-only copy of everything the host renders.
type Snapshot struct {
	SessionID  string
	State      State
	Prompt     string
	Buffer     string
	Cursor     int // in runes
	Output     []string
	Stats      history.Stats
	ShouldExit bool

	// Rain is nil when no effect engine is attached.
	Rain *effects.Frame
}

// Snapshot copies the current state. The rain opacity follows the time
// since the last keystroke.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		SessionID:  s.id,
		State:      s.state,
		Prompt:     s.Prompt(),
		Buffer:     s.line.Value(),
		Cursor:     s.line.Cursor(),
		Output:     append([]string(nil), s.output...),
		ShouldExit: s.state == StateTerminating,
	}
	idle := s.clock.Now().Sub(s.lastInput)
	s.mu.Unlock()

	snap.Stats = s.pipeline.Ledger().Stats()
	if s.effects != nil {
		frame := s.effects.Snapshot(idle)
		snap.Rain = &frame
	}
	return snap
}
