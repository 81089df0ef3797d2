package shell

import (
	"context"
	"fmt"
	"strings"
)

// HandlerFunc runs a builtin. Lines is what the command prints.
type HandlerFunc func(ctx context.Context, env *Env, args []string) (Output, error)

// Output is what a builtin produced.
type Output struct {
	Lines []string
	Clear bool // wipe the output log
	Exit  bool // end the session
}

// Builtin describes one in-process command.
type Builtin struct {
	Kind        Kind
	Name        string
	Aliases     []string
	Usage       string
	Description string
	Run         HandlerFunc
}

// Names returns the canonical name followed by its aliases.
func (b *Builtin) Names() []string {
	return append([]string{b.Name}, b.Aliases...)
}

// Registry maps command names and aliases to builtins.
type Registry struct {
	byName map[string]*Builtin
	byKind map[Kind]*Builtin
	order  []*Builtin
}

var defaultRegistry = NewRegistry()

// NewRegistry creates a registry holding the standard builtins.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, b := range standardBuiltins() {
		if err := r.Register(b); err != nil {
			panic(err) // standard table is static
		}
	}
	return r
}

// NewEmptyRegistry creates a registry without builtins.
func NewEmptyRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Builtin),
		byKind: make(map[Kind]*Builtin),
	}
}

// Register adds a builtin. Names and kinds must be unique.
func (r *Registry) Register(b *Builtin) error {
	if !b.Kind.IsBuiltin() {
		return fmt.Errorf("builtin %q has non-builtin kind %s", b.Name, b.Kind)
	}
	if _, exists := r.byKind[b.Kind]; exists {
		return fmt.Errorf("kind %s already registered", b.Kind)
	}
	for _, name := range b.Names() {
		if _, exists := r.byName[name]; exists {
			return fmt.Errorf("command %q already registered", name)
		}
	}
	for _, name := range b.Names() {
		r.byName[name] = b
	}
	r.byKind[b.Kind] = b
	r.order = append(r.order, b)
	return nil
}

// Lookup finds a builtin by name or alias.
func (r *Registry) Lookup(name string) (*Builtin, bool) {
	b, ok := r.byName[name]
	return b, ok
}

// ForKind returns the builtin registered for kind.
func (r *Registry) ForKind(kind Kind) (*Builtin, bool) {
	b, ok := r.byKind[kind]
	return b, ok
}

// Resolve maps a command name to its dispatch kind.
func (r *Registry) Resolve(name string) Kind {
	if name == "" {
		return KindNone
	}
	if b, ok := r.byName[name]; ok {
		return b.Kind
	}
	return KindExternal
}

// Builtins returns the builtins in registration order.
func (r *Registry) Builtins() []*Builtin {
	out := make([]*Builtin, len(r.order))
	copy(out, r.order)
	return out
}

// Parse splits raw and resolves its kind. It never fails; blank input
// yields the empty sentinel.
func (r *Registry) Parse(raw string) Command {
	name, args := Split(raw)
	return Command{
		Name: name,
		Args: args,
		Kind: r.Resolve(name),
		Line: strings.TrimSpace(raw),
	}
}
