package engine

import (
	"io"
	"strings"

	"github.com/phillarmonic/crush/internal/ast"
	"github.com/phillarmonic/crush/internal/cmdctx"
	"github.com/phillarmonic/crush/internal/compiler"
	"github.com/phillarmonic/crush/internal/crusherrors"
	"github.com/phillarmonic/crush/internal/lexer"
	"github.com/phillarmonic/crush/internal/registry"
	"github.com/phillarmonic/crush/internal/scope"
	"github.com/phillarmonic/crush/internal/stream"
	"github.com/phillarmonic/crush/internal/value"
)

// Executor runs Jobs against a Registry (spec §4.5). It owns the Compiler
// it hands to callers, supplying RunJob/InvokeValue back into it so the
// mutual Compiler<->Executor recursion the spec describes closes without
// a real Go import cycle (compiler depends only on the two function
// types it declares; engine is the only package that implements them).
type Executor struct {
	Registry *registry.Registry
	Compiler *compiler.Compiler
	Printer  cmdctx.Printer
}

// NewExecutor builds an Executor wired against reg, printing user-visible
// command output through printer (nil is fine: commands that never print
// still work, they just have no sink).
func NewExecutor(reg *registry.Registry, printer cmdctx.Printer) *Executor {
	e := &Executor{Registry: reg, Printer: printer}
	e.Compiler = compiler.New(reg, e.RunJob, e.InvokeValue)
	return e
}

type stage struct {
	call       *ast.CallDefinition
	cmd        value.Command
	owner      *value.Value
	args       []value.Argument
	outputType registry.OutputType
}

// ExecuteJob runs job's pipeline against input, wiring each command's
// declared output straight into the next command's input (spec §4.5:
// "a pipe connects command i's output to command i+1's input"). It
// returns the Input endpoint that carries the last command's output,
// plus the ThreadStore tracking every spawned stage, so the caller
// decides how to drain the result (materialize a single value, stream
// rows to a terminal, or just await side effects).
func (e *Executor) ExecuteJob(job *ast.Job, sc *scope.Scope, input cmdctx.Input) (cmdctx.Input, *ThreadStore, error) {
	if len(job.Calls) == 0 {
		return cmdctx.Input{}, nil, errNoWorkers
	}
	stages, err := e.buildStages(job, sc)
	if err != nil {
		return cmdctx.Input{}, nil, err
	}

	ts := NewThreadStore()
	inputs := make([]cmdctx.Input, len(stages)+1)
	inputs[0] = input

	for i, st := range stages {
		curIn := inputs[i]
		curOut, next := allocateOutput(st.outputType, curIn)
		inputs[i+1] = next

		ts.Spawn(strings.Join(st.call.Path, "."), func() error {
			ctx := &cmdctx.CommandContext{
				Input:     curIn,
				Output:    curOut,
				Arguments: st.args,
				Scope:     sc,
				This:      st.owner,
				Printer:   e.Printer,
				Threads:   ts,
			}
			err := e.invoke(st.cmd, ctx)
			ctx.Output.CloseAll()
			if err != nil {
				ctx.Input.CloseAll()
			}
			return err
		})
	}

	return inputs[len(stages)], ts, nil
}

func (e *Executor) buildStages(job *ast.Job, sc *scope.Scope) ([]*stage, error) {
	stages := make([]*stage, 0, len(job.Calls))
	for _, call := range job.Calls {
		cmd, owner, err := e.resolveCommand(call.Path, sc)
		if err != nil {
			return nil, err
		}

		args := make([]value.Argument, 0, len(call.Args))
		for _, a := range call.Args {
			_, v, err := e.Compiler.Compile(a.Value, sc, true)
			if err != nil {
				return nil, err
			}
			args = append(args, value.Argument{Name: a.Name, Value: v, Pos: call.Pos})
		}

		stages = append(stages, &stage{
			call:       call,
			cmd:        cmd,
			owner:      owner,
			args:       args,
			outputType: outputKindOf(cmd),
		})
	}
	return stages, nil
}

// resolveCommand resolves a dotted call path to a command (spec §4.5
// step 1): the joined path is tried against the registry first (handles
// multi-segment builtin names like "secret.get"); failing that, the
// first segment is resolved against sc and any remaining segments walk
// as attribute access, binding the second-to-last resolved value as the
// command's owner ("this") the way compile_bound does for expressions.
func (e *Executor) resolveCommand(path []string, sc *scope.Scope) (value.Command, *value.Value, error) {
	joined := strings.Join(path, ".")
	if cmd, ok := e.Registry.Lookup(joined); ok {
		return cmd, nil, nil
	}

	owner, ok := sc.Get(path[0])
	if !ok {
		return nil, nil, crusherrors.NewArgumentError("Unknown variable %s", path[0])
	}

	var prevOwner value.Value
	hasPrev := false
	for _, entry := range path[1:] {
		next, err := compiler.LookupField(owner, entry, lexer.Position{})
		if err != nil {
			return nil, nil, err
		}
		prevOwner = owner
		hasPrev = true
		owner = next
	}

	if owner.Kind != value.KindCommand {
		return nil, nil, crusherrors.NewTypeError("%s is not a command", joined)
	}
	if hasPrev {
		return owner.AsCommand(), &prevOwner, nil
	}
	return owner.AsCommand(), nil, nil
}

// invoke dispatches to the concrete Command implementation (spec §9,
// "command polymorphism"): a registry leaf binds its declared signature
// and runs its native Invoke func; a closure binds positional parameters
// into a fresh child scope and runs its body jobs in sequence; a bound
// command sets ctx.This and recurses on its inner command.
func (e *Executor) invoke(cmd value.Command, ctx *cmdctx.CommandContext) error {
	switch c := cmd.(type) {
	case *registry.Command:
		bound, err := c.Bind(ctx.Arguments)
		if err != nil {
			return err
		}
		ctx.Arguments = argsFromBound(bound)
		return c.Invoke(ctx)

	case *compiler.ClosureCommand:
		return e.invokeClosure(c, ctx)

	case *value.BoundCommand:
		this := c.This
		ctx.This = &this
		return e.invoke(c.Inner, ctx)

	default:
		return crusherrors.NewGeneric("unsupported command value %T", cmd)
	}
}

func (e *Executor) invokeClosure(c *compiler.ClosureCommand, ctx *cmdctx.CommandContext) error {
	child := c.Captured.ChildWithCalling(c.Captured)
	positional := ctx.Positional()
	for i, name := range c.Params {
		if i >= len(positional) {
			break
		}
		if err := child.Declare(name, positional[i].Value); err != nil {
			return err
		}
	}

	var last value.Value
	for _, job := range c.Body {
		v, err := e.RunJob(job, child)
		if err != nil {
			return err
		}
		last = v
	}
	return deliver(ctx.Output, last)
}

// RunJob executes job to completion with no input and materializes its
// final output as a single value (spec §4.4, "job definition"). Supplied
// to the Compiler as its RunJob callback.
func (e *Executor) RunJob(job *ast.Job, sc *scope.Scope) (value.Value, error) {
	finalInput, ts, err := e.ExecuteJob(job, sc, cmdctx.Input{})
	if err != nil {
		return value.Value{}, err
	}
	return e.await(finalInput, ts)
}

// InvokeValue invokes a single already-resolved command value with no
// arguments, binding `this` to owner when present, and awaits its one
// output value (spec §4.4, "get_attr ... invoke it with no arguments").
// Supplied to the Compiler as its InvokeValue callback.
func (e *Executor) InvokeValue(cmd value.Value, this *value.Value, sc *scope.Scope) (value.Value, error) {
	if cmd.Kind != value.KindCommand {
		return value.Value{}, crusherrors.NewTypeError("cannot invoke a %s", cmd.Type())
	}
	c := cmd.AsCommand()
	if this != nil {
		c = &value.BoundCommand{Inner: c, This: *this}
	}

	out, finalIn := allocateOutput(outputKindOf(c), cmdctx.Input{})
	ts := NewThreadStore()
	ts.Spawn(c.Name(), func() error {
		ctx := &cmdctx.CommandContext{Scope: sc, Printer: e.Printer, Threads: ts, Output: out}
		err := e.invoke(c, ctx)
		ctx.Output.CloseAll()
		return err
	})
	return e.await(finalIn, ts)
}

// await drains in concurrently with waiting for ts, since the stage(s)
// feeding in may be blocked on a send until something reads from it
// (spec §5: workers run concurrently, streams rendezvous).
func (e *Executor) await(in cmdctx.Input, ts *ThreadStore) (value.Value, error) {
	type result struct {
		v   value.Value
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := materialize(in)
		done <- result{v, err}
	}()

	waitErr := ts.Wait()
	r := <-done
	if waitErr != nil {
		return value.Value{}, waitErr
	}
	return r.v, r.err
}

func materialize(in cmdctx.Input) (value.Value, error) {
	switch {
	case in.Value != nil:
		v, err := in.Value.Recv()
		if err == io.EOF {
			return value.Empty(), nil
		}
		return v, err
	case in.Table != nil:
		cols := in.Table.Columns()
		rows, err := stream.Drain(in.Table)
		if err != nil {
			return value.Value{}, err
		}
		// A single-row, single-column table (e.g. `echo hello` used as a
		// job value) collapses to that one cell rather than a 1x1 table,
		// matching spec §8 scenario 4 ("( echo hello ) resolves to the
		// single value "hello"").
		if len(cols) == 1 && len(rows) == 1 {
			return rows[0].Cells[0], nil
		}
		t := value.NewTable(cols)
		for _, r := range rows {
			if err := t.Append(r); err != nil {
				return value.Value{}, err
			}
		}
		return value.TableValue(t), nil
	case in.Binary != nil:
		data, err := io.ReadAll(in.Binary)
		if err != nil {
			return value.Value{}, err
		}
		return value.Binary(data), nil
	default:
		return value.Empty(), nil
	}
}

func deliver(out cmdctx.Output, v value.Value) error {
	switch {
	case out.Value != nil:
		return out.Value.Send(v)
	case out.Table != nil:
		if v.Kind != value.KindTable {
			return crusherrors.NewTypeError("closure body produced a %s, expected a table", v.Type())
		}
		for _, row := range v.AsTable().Snapshot() {
			if err := out.Table.Send(row); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

// outputKindOf reports cmd's declared output contract, unwrapping bound
// commands and treating a closure's body as runtime-determined (spec
// §4.3 only declares output types for registry commands).
func outputKindOf(cmd value.Command) registry.OutputType {
	switch c := cmd.(type) {
	case *registry.Command:
		return c.Output
	case *value.BoundCommand:
		return outputKindOf(c.Inner)
	default:
		return registry.Unknown()
	}
}

// allocateOutput builds the Output/Input pair for one stage given its
// declared output contract. Passthrough inherits the shape of inherited
// (the stage's own input); Unknown materializes into a single
// value.Value rather than attempting a deferred-schema table handshake.
func allocateOutput(kind registry.OutputType, inherited cmdctx.Input) (cmdctx.Output, cmdctx.Input) {
	switch kind.Kind {
	case registry.OutputKnown:
		if kind.Type.Kind == value.KindTableStream || kind.Type.Kind == value.KindTable {
			s, r := stream.NewTableStream(kind.Type.Columns)
			return cmdctx.Output{Table: s}, cmdctx.Input{Table: r}
		}
		s, r := stream.NewValueChannel()
		return cmdctx.Output{Value: s}, cmdctx.Input{Value: r}

	case registry.OutputPassthrough:
		if inherited.Table != nil {
			s, r := stream.NewTableStream(inherited.Table.Columns())
			return cmdctx.Output{Table: s}, cmdctx.Input{Table: r}
		}
		s, r := stream.NewValueChannel()
		return cmdctx.Output{Value: s}, cmdctx.Input{Value: r}

	default:
		s, r := stream.NewValueChannel()
		return cmdctx.Output{Value: s}, cmdctx.Input{Value: r}
	}
}

func argsFromBound(bound map[string]value.Value) []value.Argument {
	args := make([]value.Argument, 0, len(bound))
	for name, v := range bound {
		args = append(args, value.Argument{Name: name, Value: v})
	}
	return args
}
