// Package registry implements the command protocol of spec §4.3: a
// Command's declared signature, its output-type contract, and the
// argument-vector validation ("signature binding") every invocation goes
// through before the command body runs.
package registry

import (
	"github.com/phillarmonic/crush/internal/cmdctx"
	"github.com/phillarmonic/crush/internal/value"
)

// OutputKind tags a command's declared output contract.
type OutputKind int

const (
	OutputKnown OutputKind = iota
	OutputPassthrough
	OutputUnknown
)

// OutputType describes what a command promises to emit; Type is only
// meaningful when Kind == OutputKnown.
type OutputType struct {
	Kind OutputKind
	Type value.ValueType
}

func Known(t value.ValueType) OutputType { return OutputType{Kind: OutputKnown, Type: t} }
func Passthrough() OutputType            { return OutputType{Kind: OutputPassthrough} }
func Unknown() OutputType                { return OutputType{Kind: OutputUnknown} }

// Parameter describes one declared argument slot (spec §4.3).
type Parameter struct {
	Name     string
	Type     value.ValueType
	Optional bool
	// Rest marks the "unnamed rest" parameter that collects all trailing
	// unnamed arguments (spec §4.3).
	Rest bool
}

// Command is a leaf command: a name, a textual help signature, a
// description, a declared output type, a can_block flag, a declared
// parameter list, and an invoker (spec §4.3). Command satisfies
// value.Command so it can be carried as a Value{Kind: KindCommand}.
type Command struct {
	Name_    string
	Help     string
	Short    string
	Long     string
	Output   OutputType
	CanBlock bool
	Params   []Parameter
	Invoke   func(ctx *cmdctx.CommandContext) error
}

func (c *Command) Name() string   { return c.Name_ }
func (c *Command) CanBlock() bool { return c.CanBlock }

// Registry is a process-wide (but never truly global — always injected,
// per spec §9) map of dotted command names to Command definitions.
type Registry struct {
	commands map[string]*Command
}

func NewRegistry() *Registry { return &Registry{commands: make(map[string]*Command)} }

func (r *Registry) Register(c *Command) { r.commands[c.Name_] = c }

func (r *Registry) Lookup(name string) (*Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

func (r *Registry) All() []*Command {
	out := make([]*Command, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	return out
}
