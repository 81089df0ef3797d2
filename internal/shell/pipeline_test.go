package shell

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matrixterm/internal/history"
	"matrixterm/internal/tactile"
	"matrixterm/internal/world"
)

// fakeExecutor answers external commands from a table.
type fakeExecutor struct {
	results map[string]*tactile.ExecutionResult
	calls   []tactile.Command
}

func (f *fakeExecutor) Execute(_ context.Context, cmd tactile.Command) (*tactile.ExecutionResult, error) {
	f.calls = append(f.calls, cmd)
	if r, ok := f.results[cmd.Binary]; ok {
		return r, nil
	}
	return &tactile.ExecutionResult{ExitCode: -1}, &tactile.SpawnError{Binary: cmd.Binary, NotFound: true, Err: errors.New("executable file not found in $PATH")}
}

func (f *fakeExecutor) Capabilities() tactile.ExecutorCapabilities {
	return tactile.ExecutorCapabilities{Name: "fake"}
}

func (f *fakeExecutor) Validate(tactile.Command) error { return nil }

func newTestPipeline(t *testing.T, exec tactile.Executor) (*Pipeline, string) {
	t.Helper()
	dir := t.TempDir()
	fsys, err := world.NewOSFS(dir)
	require.NoError(t, err)
	if exec == nil {
		exec = &fakeExecutor{}
	}
	return NewPipeline(Options{FS: fsys, Executor: exec, Ledger: history.NewLedger(10)}), dir
}

func TestExecute_EmptyCommand(t *testing.T) {
	p, _ := newTestPipeline(t, nil)

	res, err := p.Run(context.Background(), "   ")
	require.NoError(t, err)
	assert.True(t, res.Command.IsEmpty())
	assert.Equal(t, 0, p.Ledger().Len(), "empty input records nothing")
}

func TestExecute_Exit(t *testing.T) {
	p, _ := newTestPipeline(t, nil)

	res, err := p.Run(context.Background(), "exit")
	require.NoError(t, err)

	assert.Equal(t, "exit", res.Command.Name)
	assert.True(t, res.Exit)
	assert.Equal(t, farewellLines, res.Lines)
	require.Equal(t, 1, p.Ledger().Len())
	assert.True(t, p.Ledger().All()[0].Success)
}

func TestExecute_CommandBuiltWithoutParse(t *testing.T) {
	p, dir := newTestPipeline(t, nil)
	ctx := context.Background()

	res, err := p.Execute(ctx, Command{Name: "exit"})
	require.NoError(t, err)
	assert.True(t, res.Exit)
	assert.Equal(t, KindExit, res.Command.Kind)
	assert.Equal(t, 0, res.Command.ExitCode)

	res, err = p.Execute(ctx, Command{Name: "pwd"})
	require.NoError(t, err)
	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{abs}, res.Lines)

	res, err = p.Execute(ctx, Command{Name: "quit"})
	require.NoError(t, err)
	assert.True(t, res.Exit, "aliases resolve too")

	res, err = p.Execute(ctx, Command{Name: "zzzznotacommand"})
	require.Error(t, err)
	assert.Equal(t, KindExternal, res.Command.Kind)
	assert.True(t, IsKind(err, ProcessSpawnFailed))

	entries := p.Ledger().All()
	require.Len(t, entries, 4)
	assert.True(t, entries[0].Success)
	assert.True(t, entries[1].Success)
	assert.Equal(t, "exit", entries[0].Command)
}

func TestExecute_ExitHelpDoesNotExit(t *testing.T) {
	p, _ := newTestPipeline(t, nil)

	res, err := p.Run(context.Background(), "exit --help")
	require.NoError(t, err)
	assert.False(t, res.Exit)
	assert.Contains(t, res.Lines[0], "exit")

	res, err = p.Run(context.Background(), "quit now")
	assert.True(t, IsKind(err, InvalidCommandSyntax))
	assert.False(t, res.Exit)
}

func TestExecute_NotFound(t *testing.T) {
	p, _ := newTestPipeline(t, nil)

	res, err := p.Run(context.Background(), "zzzznotacommand --flag")
	require.Error(t, err)

	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ProcessSpawnFailed, se.Kind)
	assert.True(t, se.NotFound())

	assert.Equal(t, 1, res.Command.ExitCode)
	assert.Contains(t, res.Command.Output, "zzzznotacommand")
	assert.False(t, res.Success())

	entries := p.Ledger().All()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	assert.Contains(t, entries[0].ErrorMessage, "zzzznotacommand")
	assert.Equal(t, "zzzznotacommand --flag", entries[0].Command)
}

func TestExecute_ExternalCommand(t *testing.T) {
	exec := &fakeExecutor{results: map[string]*tactile.ExecutionResult{
		"echo":  {Success: true, ExitCode: 0, Combined: "hello\r\nworld\n"},
		"false": {Success: true, ExitCode: 1},
		"true":  {Success: true, ExitCode: 0},
	}}
	p, dir := newTestPipeline(t, exec)

	res, err := p.Run(context.Background(), "echo hello world")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "world"}, res.Lines)
	assert.Equal(t, "hello\nworld", res.Command.Output)
	assert.Equal(t, dir, exec.calls[0].WorkingDirectory)
	assert.Equal(t, []string{"hello", "world"}, exec.calls[0].Arguments)

	res, err = p.Run(context.Background(), "false")
	require.NoError(t, err, "non-zero exit is not a pipeline error")
	assert.Equal(t, 1, res.Command.ExitCode)
	assert.False(t, res.Entry.Success)
	assert.Equal(t, "exit status 1", res.Entry.ErrorMessage)

	res, err = p.Run(context.Background(), "true")
	require.NoError(t, err)
	assert.Empty(t, res.Lines)
	assert.Equal(t, []string{"true - executed successfully"}, res.Entry.Output)

	stats := p.Ledger().Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Failed)
}

func TestExecute_CommandTimeoutPropagates(t *testing.T) {
	exec := &fakeExecutor{results: map[string]*tactile.ExecutionResult{
		"sleep": {Success: true, Killed: true, KillReason: "timeout after 1s", ExitCode: -1},
	}}
	dir := t.TempDir()
	fsys, err := world.NewOSFS(dir)
	require.NoError(t, err)
	p := NewPipeline(Options{FS: fsys, Executor: exec, CommandTimeout: 1500 * time.Millisecond, SessionID: "s1"})

	res, err := p.Run(context.Background(), "sleep 5")
	require.NoError(t, err)
	require.NotNil(t, exec.calls[0].Limits)
	assert.Equal(t, int64(1500), exec.calls[0].Limits.TimeoutMs)
	assert.Equal(t, "s1", exec.calls[0].SessionID)
	assert.False(t, res.Entry.Success)
	assert.Equal(t, "timeout after 1s", res.Entry.ErrorMessage)
}

func TestExecute_ChangeAndPrintDir(t *testing.T) {
	p, dir := newTestPipeline(t, nil)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	res, err := p.Run(context.Background(), "cd sub")
	require.NoError(t, err)
	assert.Empty(t, res.Lines)
	assert.Equal(t, []string{"cd sub - executed successfully"}, res.Entry.Output)

	res, err = p.Run(context.Background(), "pwd")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "sub")}, res.Lines)

	res, err = p.Run(context.Background(), "cd nowhere")
	require.Error(t, err)
	assert.True(t, IsKind(err, InvalidPath))
	assert.Equal(t, 1, res.Command.ExitCode)
	assert.Contains(t, res.Lines[len(res.Lines)-1], "nowhere")

	_, err = p.Run(context.Background(), "cd a b")
	assert.True(t, IsKind(err, InvalidCommandSyntax))
}

func TestExecute_List(t *testing.T) {
	p, dir := newTestPipeline(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), make([]byte, 10), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), make([]byte, 1000), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	res, err := p.Run(context.Background(), "ls")
	require.NoError(t, err)
	assert.Equal(t, []string{"Directory: " + dir, "", "a.txt  b.txt  sub/"}, res.Lines)

	res, err = p.Run(context.Background(), "dir -lS")
	require.NoError(t, err)
	assert.Equal(t, "Files: 2", res.Lines[4])
	assert.Equal(t, "Total size: 1010 B", res.Lines[5])
	assert.Contains(t, res.Lines[9], "b.txt", "largest file first")

	res, err = p.Run(context.Background(), "ls sub")
	require.NoError(t, err)
	assert.Equal(t, "empty directory", res.Lines[2])

	_, err = p.Run(context.Background(), "ls -z")
	assert.True(t, IsKind(err, InvalidCommandSyntax))

	_, err = p.Run(context.Background(), "ls a.txt")
	assert.True(t, IsKind(err, InvalidPath))

	_, err = p.Run(context.Background(), "ls missing")
	assert.True(t, IsKind(err, InvalidPath))
}

func TestExecute_ClearAndHelp(t *testing.T) {
	p, _ := newTestPipeline(t, nil)

	res, err := p.Run(context.Background(), "clear")
	require.NoError(t, err)
	assert.True(t, res.Clear)
	assert.Empty(t, res.Lines)

	res, err = p.Run(context.Background(), "help")
	require.NoError(t, err)
	assert.Equal(t, "Available commands:", res.Lines[0])
	joined := ""
	for _, l := range res.Lines {
		joined += l + "\n"
	}
	for _, name := range []string{"ls, dir", "cd", "pwd", "clear", "history, hist", "exit, quit", "-S"} {
		assert.Contains(t, joined, name)
	}
}

func TestExecute_RealProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	p, _ := newTestPipeline(t, tactile.NewDirectExecutor())

	res, err := p.Run(context.Background(), "sh -c pwd")
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.True(t, res.Success())
}
