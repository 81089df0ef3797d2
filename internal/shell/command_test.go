package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw      string
		wantName string
		wantArgs []string
		wantKind Kind
	}{
		{"", "", nil, KindNone},
		{"   \t ", "", nil, KindNone},
		{"ls", "ls", []string{}, KindList},
		{"  dir   -la  /tmp ", "dir", []string{"-la", "/tmp"}, KindList},
		{"cd ..", "cd", []string{".."}, KindChangeDir},
		{"pwd", "pwd", []string{}, KindPrintDir},
		{"clear", "clear", []string{}, KindClear},
		{"help", "help", []string{}, KindHelp},
		{"quit", "quit", []string{}, KindExit},
		{"hist -n 3", "hist", []string{"-n", "3"}, KindHistory},
		{"git status", "git", []string{"status"}, KindExternal},
		{"LS", "LS", []string{}, KindExternal},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			cmd := Parse(tt.raw)
			assert.Equal(t, tt.wantName, cmd.Name)
			assert.Equal(t, tt.wantKind, cmd.Kind)
			if tt.wantArgs == nil {
				assert.Empty(t, cmd.Args)
			} else {
				assert.Equal(t, tt.wantArgs, cmd.Args)
			}
			assert.Equal(t, 0, cmd.ExitCode)
			assert.Empty(t, cmd.Output)
		})
	}
}

func TestParse_EmptySentinel(t *testing.T) {
	cmd := Parse("")
	assert.True(t, cmd.IsEmpty())
	assert.False(t, cmd.Kind.IsBuiltin())
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	b, ok := r.Lookup("dir")
	require.True(t, ok)
	assert.Equal(t, "ls", b.Name)
	assert.Equal(t, []string{"ls", "dir"}, b.Names())

	err := r.Register(&Builtin{Kind: KindList, Name: "list"})
	assert.Error(t, err, "kind already taken")

	empty := NewEmptyRegistry()
	assert.Error(t, empty.Register(&Builtin{Kind: KindExternal, Name: "x"}))
	require.NoError(t, empty.Register(&Builtin{Kind: KindPrintDir, Name: "where", Aliases: []string{"pwd"}}))
	assert.Error(t, empty.Register(&Builtin{Kind: KindHelp, Name: "pwd"}), "alias already taken")
	assert.Equal(t, KindPrintDir, empty.Resolve("pwd"))
	assert.Equal(t, KindExternal, empty.Resolve("ls"))
}

func TestRegistry_BuiltinsInOrder(t *testing.T) {
	var names []string
	for _, b := range NewRegistry().Builtins() {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"ls", "cd", "pwd", "clear", "history", "help", "exit"}, names)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "list", KindList.String())
	assert.Equal(t, "external", KindExternal.String())
	assert.True(t, KindExit.IsBuiltin())
	assert.False(t, KindExternal.IsBuiltin())
}
