package shell

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryBuiltin(t *testing.T) {
	p, _ := newTestPipeline(t, nil)
	ctx := context.Background()

	res, err := p.Run(ctx, "history")
	require.NoError(t, err)
	assert.Equal(t, []string{"No commands in history"}, res.Lines)

	_, _ = p.Run(ctx, "pwd")
	_, _ = p.Run(ctx, "zzzznotacommand")
	_, _ = p.Run(ctx, "PWD")

	res, err = p.Run(ctx, "hist -n 2")
	require.NoError(t, err)
	require.Len(t, res.Lines, 5) // title, zzzz, its error, PWD, its error
	assert.Contains(t, res.Lines[1], "err zzzznotacommand")
	assert.Contains(t, res.Lines[3], "PWD")

	res, err = p.Run(ctx, "history -g pwd")
	require.NoError(t, err)
	assert.Equal(t, "Results for 'pwd':", res.Lines[0])
	assert.Len(t, res.Lines, 4) // title, pwd, PWD, its error

	res, err = p.Run(ctx, "history -g")
	require.NoError(t, err)
	assert.Equal(t, []string{"Usage: history -g <pattern>"}, res.Lines)

	res, err = p.Run(ctx, "history -g nothing-like-this")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Lines[0], "No commands matching"))

	res, err = p.Run(ctx, "history -s")
	require.NoError(t, err)
	assert.Equal(t, "History statistics:", res.Lines[0])
	assert.Contains(t, strings.Join(res.Lines, "\n"), "Total commands: 8")
}

func TestHistoryBuiltin_ClearIsRecordedAfterwards(t *testing.T) {
	p, _ := newTestPipeline(t, nil)
	ctx := context.Background()

	_, _ = p.Run(ctx, "pwd")
	res, err := p.Run(ctx, "history -c")
	require.NoError(t, err)
	assert.Equal(t, []string{"History cleared"}, res.Lines)

	entries := p.Ledger().All()
	require.Len(t, entries, 1)
	assert.Equal(t, "history -c", entries[0].Command)
}

func TestHistoryBuiltin_Syntax(t *testing.T) {
	p, _ := newTestPipeline(t, nil)

	for _, line := range []string{"history -n", "history -n x", "history -n -1", "history -q", "history -c now", "history -s x"} {
		t.Run(line, func(t *testing.T) {
			_, err := p.Run(context.Background(), line)
			assert.True(t, IsKind(err, InvalidCommandSyntax), "got %v", err)
		})
	}
}
