package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matrixterm/internal/config"
	"matrixterm/internal/effects"
	"matrixterm/internal/shell"
	"matrixterm/internal/tactile"
	"matrixterm/internal/world"
)

type echoExecutor struct{}

func (echoExecutor) Execute(_ context.Context, cmd tactile.Command) (*tactile.ExecutionResult, error) {
	if cmd.Binary != "echo" {
		return &tactile.ExecutionResult{ExitCode: -1}, &tactile.SpawnError{Binary: cmd.Binary, NotFound: true, Err: errors.New("executable file not found in $PATH")}
	}
	out := ""
	for i, a := range cmd.Arguments {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return &tactile.ExecutionResult{Success: true, Stdout: out + "\n", Combined: out + "\n"}, nil
}

func (echoExecutor) Capabilities() tactile.ExecutorCapabilities {
	return tactile.ExecutorCapabilities{Name: "echo"}
}

func (echoExecutor) Validate(tactile.Command) error { return nil }

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestSession(t *testing.T, cfg config.SessionConfig) (*Session, string) {
	t.Helper()
	dir := t.TempDir()
	fsys, err := world.NewOSFS(dir)
	require.NoError(t, err)
	wd, err := fsys.Getwd()
	require.NoError(t, err)

	s, err := New(Options{Config: cfg, FS: fsys, Executor: echoExecutor{}})
	require.NoError(t, err)
	return s, wd
}

func typeLine(s *Session, line string) {
	for _, r := range line {
		s.Insert(r)
	}
}

func TestSession_SubmitEchoesPromptAndOutput(t *testing.T) {
	s, wd := newTestSession(t, config.SessionConfig{})

	typeLine(s, "echo hello world")
	res, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success())

	snap := s.Snapshot()
	assert.Equal(t, []string{wd + ":~$ echo hello world", "hello world"}, snap.Output)
	assert.Equal(t, "", snap.Buffer)
	assert.Equal(t, 0, snap.Cursor)
	assert.Equal(t, StateEditing, snap.State)
	assert.Equal(t, 1, snap.Stats.Total)
	assert.Equal(t, wd+":~$ ", snap.Prompt)
	assert.Nil(t, snap.Rain)
}

func TestSession_Exit(t *testing.T) {
	s, _ := newTestSession(t, config.SessionConfig{})

	typeLine(s, "exit")
	res, err := s.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "exit", res.Command.Name)
	assert.True(t, s.ShouldExit())
	assert.Equal(t, StateTerminating, s.State())
	assert.NotEmpty(t, s.Farewell())

	entries := s.Pipeline().Ledger().All()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Success)

	snap := s.Snapshot()
	assert.True(t, snap.ShouldExit)
	assert.Len(t, snap.Output, 1, "farewell is not written to the output log")
}

func TestSession_TerminatingRejectsSubmit(t *testing.T) {
	s, _ := newTestSession(t, config.SessionConfig{})

	typeLine(s, "quit")
	_, err := s.Submit(context.Background())
	require.NoError(t, err)

	typeLine(s, "echo again")
	assert.Equal(t, "", s.Snapshot().Buffer, "edits are ignored after exit")

	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrTerminating)
	assert.Equal(t, 1, s.Pipeline().Ledger().Len(), "nothing dispatched")
}

func TestSession_UnknownCommand(t *testing.T) {
	s, _ := newTestSession(t, config.SessionConfig{})

	typeLine(s, "zzzznotacommand")
	res, err := s.Submit(context.Background())
	require.Error(t, err)

	var shellErr *shell.Error
	require.ErrorAs(t, err, &shellErr)
	assert.True(t, shellErr.NotFound())
	assert.Equal(t, 1, res.Command.ExitCode)

	entries := s.Pipeline().Ledger().All()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	assert.Contains(t, entries[0].ErrorMessage, "zzzznotacommand")

	snap := s.Snapshot()
	assert.Equal(t, StateEditing, snap.State)
	require.Len(t, snap.Output, 2)
	assert.Contains(t, snap.Output[1], "Error: ")
	assert.Contains(t, snap.Output[1], "zzzznotacommand")
}

func TestSession_ClearWipesOutput(t *testing.T) {
	s, _ := newTestSession(t, config.SessionConfig{})

	typeLine(s, "echo one")
	_, err := s.Submit(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, s.Snapshot().Output)

	typeLine(s, "clear")
	_, err = s.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, s.Snapshot().Output)
}

func TestSession_OutputCap(t *testing.T) {
	s, _ := newTestSession(t, config.SessionConfig{MaxOutputLines: 5})

	for i := 0; i < 10; i++ {
		typeLine(s, fmt.Sprintf("echo line%d", i))
		_, err := s.Submit(context.Background())
		require.NoError(t, err)
		assert.LessOrEqual(t, len(s.Snapshot().Output), 5)
	}

	out := s.Snapshot().Output
	require.Len(t, out, 5)
	assert.Equal(t, "line9", out[4])
}

func TestSession_EmptySubmit(t *testing.T) {
	s, wd := newTestSession(t, config.SessionConfig{})

	res, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Command.IsEmpty())
	assert.Equal(t, []string{wd + ":~$ "}, s.Snapshot().Output)
	assert.Equal(t, 0, s.Pipeline().Ledger().Len())
}

func TestSession_HistoryRecall(t *testing.T) {
	s, _ := newTestSession(t, config.SessionConfig{})

	for _, line := range []string{"echo a", "echo b"} {
		typeLine(s, line)
		_, err := s.Submit(context.Background())
		require.NoError(t, err)
	}

	typeLine(s, "dra")
	s.HistoryPrev()
	assert.Equal(t, "echo b", s.Snapshot().Buffer)
	s.HistoryPrev()
	assert.Equal(t, "echo a", s.Snapshot().Buffer)
	s.HistoryPrev()
	assert.Equal(t, "echo a", s.Snapshot().Buffer, "stays at the oldest")

	s.HistoryNext()
	assert.Equal(t, "echo b", s.Snapshot().Buffer)
	s.HistoryNext()
	snap := s.Snapshot()
	assert.Equal(t, "dra", snap.Buffer, "draft restored")
	assert.Equal(t, 3, snap.Cursor)
}

func TestSession_EditingIntake(t *testing.T) {
	s, _ := newTestSession(t, config.SessionConfig{})

	typeLine(s, "ls")
	s.Home()
	s.Insert('x')
	s.End()
	s.Left()
	s.Delete()
	s.Right()
	s.Backspace()
	snap := s.Snapshot()
	assert.Equal(t, "x", snap.Buffer)
	assert.Equal(t, 1, snap.Cursor)

	s.InsertString("ßü")
	snap = s.Snapshot()
	assert.Equal(t, "xßü", snap.Buffer)
	assert.Equal(t, 3, snap.Cursor)
}

func TestSession_ChangeDirUpdatesPrompt(t *testing.T) {
	s, wd := newTestSession(t, config.SessionConfig{PromptSuffix: "$ "})
	require.NoError(t, os.Mkdir(filepath.Join(wd, "sub"), 0o755))

	typeLine(s, "cd sub")
	_, err := s.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(wd, "sub")+"$ ", s.Prompt())
}

func TestSession_RainOpacityFollowsKeystrokes(t *testing.T) {
	clock := &stepClock{now: time.Unix(100, 0)}
	cfg := effects.DefaultConfig()
	cfg.SpawnProbability = 0
	engine := effects.NewEngine(cfg)

	s, err := New(Options{
		FS:       mustOSFS(t),
		Executor: echoExecutor{},
		Effects:  engine,
		Clock:    clock,
	})
	require.NoError(t, err)

	clock.Advance(time.Second)
	snap := s.Snapshot()
	require.NotNil(t, snap.Rain)
	assert.Equal(t, 1.0, snap.Rain.Opacity)

	s.Insert('a')
	assert.Equal(t, 0.0, s.Snapshot().Rain.Opacity, "keystroke hides the rain")

	clock.Advance(100 * time.Millisecond)
	assert.InDelta(t, 0.5, s.Snapshot().Rain.Opacity, 1e-9)
}

func mustOSFS(t *testing.T) world.FileSystem {
	t.Helper()
	fsys, err := world.NewOSFS(t.TempDir())
	require.NoError(t, err)
	return fsys
}
