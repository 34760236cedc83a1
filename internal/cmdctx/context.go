// Package cmdctx bundles the per-invocation Context objects of spec §4.9:
// scope + I/O + printer + thread store, handed to every command invoker.
// Kept as its own low-level package (rather than folded into engine) so
// that registry.Command's Invoke signature can reference it without a
// registry<->engine import cycle.
package cmdctx

import (
	"io"

	"github.com/phillarmonic/crush/internal/scope"
	"github.com/phillarmonic/crush/internal/stream"
	"github.com/phillarmonic/crush/internal/value"
)

// Printer is the terminal/REPL sink every command writes user-visible
// output through (spec §1: "a sink receiving formatted lines"). Never a
// global logger — always injected, per spec §9's "inject through context
// objects" design note.
type Printer interface {
	Println(args ...any)
	Printf(format string, args ...any)
	Errorln(args ...any)
}

// ThreadStore is the minimal surface §4.8 worker tracking exposes to a
// running command (e.g. a command that itself fans out sub-jobs).
type ThreadStore interface {
	Spawn(description string, fn func() error)
}

// Input is the command's upstream endpoint: exactly one of the three
// fields is non-nil, matching whichever of the three stream.* variants
// (spec §4.6) the previous command in the pipeline produces. All three
// nil means "no input" (the first command in a job).
type Input struct {
	Table  *stream.TableReceiver
	Value  *stream.ValueReceiver
	Binary io.ReadCloser
}

// Output is the command's downstream endpoint, set up by the executor
// before invocation based on the command's declared output type.
type Output struct {
	Table  *stream.TableSender
	Value  *stream.ValueSender
	Binary io.WriteCloser
}

// CloseAll drops whichever endpoints are set, the de facto cancellation
// path of spec §5.
func (o Output) CloseAll() {
	if o.Table != nil {
		_ = o.Table.Close()
	}
	if o.Value != nil {
		_ = o.Value.Close()
	}
	if o.Binary != nil {
		_ = o.Binary.Close()
	}
}

func (i Input) CloseAll() {
	if i.Table != nil {
		_ = i.Table.Close()
	}
	if i.Value != nil {
		_ = i.Value.Close()
	}
	if i.Binary != nil {
		_ = i.Binary.Close()
	}
}

// CommandContext is constructed fresh for every command invocation (spec
// §4.5 step 2): "CommandContext { input, output, arguments, scope, this,
// printer, threads }".
type CommandContext struct {
	Input     Input
	Output    Output
	Arguments []value.Argument
	Scope     *scope.Scope
	This      *value.Value
	Printer   Printer
	Threads   ThreadStore
}

// Arg returns the first argument bound to name, if any.
func (c *CommandContext) Arg(name string) (value.Value, bool) {
	for _, a := range c.Arguments {
		if a.Name == name {
			return a.Value, true
		}
	}
	return value.Value{}, false
}

// Positional returns the unnamed arguments in call order.
func (c *CommandContext) Positional() []value.Argument {
	var out []value.Argument
	for _, a := range c.Arguments {
		if a.Name == "" {
			out = append(out, a)
		}
	}
	return out
}
