// Package compiler implements name resolution (spec §4.4): turning an
// ast.ValueDefinition into a resolved value.Value against a scope.Scope,
// binding closures to their defining scope, and resolving attribute/path
// access.
package compiler

import (
	"os"
	"path/filepath"

	"github.com/phillarmonic/crush/internal/ast"
	"github.com/phillarmonic/crush/internal/crusherrors"
	"github.com/phillarmonic/crush/internal/registry"
	"github.com/phillarmonic/crush/internal/scope"
	"github.com/phillarmonic/crush/internal/value"
)

// RunJob executes a sub-job with an empty input and a single-element
// output channel, returning its one emitted value (spec §4.4, "Job
// definition"). Supplied by the engine package, which owns the executor;
// injecting it here (rather than importing engine) avoids a
// compiler<->engine import cycle, since the executor itself calls back
// into the compiler to resolve each command's arguments.
type RunJob func(job *ast.Job, sc *scope.Scope) (value.Value, error)

// InvokeValue invokes a single command value with no arguments, binding
// `this` to the supplied owner, and returns its one output value (spec
// §4.4, "GetAttr ... invoke it with no arguments ... and await one output
// value"). Also engine-supplied for the same reason as RunJob.
type InvokeValue func(cmd value.Value, this *value.Value, sc *scope.Scope) (value.Value, error)

// Compiler resolves ValueDefinitions against a Registry and an
// engine-supplied job/invocation runner.
type Compiler struct {
	Registry    *registry.Registry
	RunJob      RunJob
	InvokeValue InvokeValue
}

func New(reg *registry.Registry, runJob RunJob, invoke InvokeValue) *Compiler {
	return &Compiler{Registry: reg, RunJob: runJob, InvokeValue: invoke}
}

// Compile resolves def against sc. blockingAllowed gates whether a Job
// literal or an attribute-triggered command invocation may run (spec
// §4.4: "A command marked can_block=false raised during a non-blocking
// compilation context yields a block error" — generalized here to: any
// compilation step that itself must invoke/await a command checks this
// flag first). It returns the resolved owner ("this" binding for
// subsequent attribute resolution) alongside the value.
func (c *Compiler) Compile(def *ast.ValueDefinition, sc *scope.Scope, blockingAllowed bool) (*value.Value, value.Value, error) {
	switch def.Kind {
	case ast.DefLiteral:
		return nil, def.Literal, nil

	case ast.DefLabel:
		v, ok := sc.Get(def.Label)
		if ok {
			return nil, v, nil
		}
		if st, err := os.Stat(def.Label); err == nil {
			_ = st
			return nil, value.File(def.Label), nil
		}
		return nil, value.Value{}, crusherrors.NewArgumentErrorAt(def.Pos, "Unknown variable %s", def.Label)

	case ast.DefClosure:
		cl := &ClosureCommand{
			NameField: def.Closure.Name,
			Params:    def.Closure.Params,
			Body:      def.Closure.Body,
			Captured:  sc,
		}
		return nil, value.CommandValue(cl), nil

	case ast.DefJob:
		if !blockingAllowed {
			return nil, value.Value{}, crusherrors.NewBlockError("sub-job %v would block in a non-blocking context", def.Pos)
		}
		v, err := c.RunJob(def.Job, sc)
		if err != nil {
			return nil, value.Value{}, err
		}
		return nil, v, nil

	case ast.DefAttribute:
		return c.compileAttribute(def, sc, blockingAllowed)

	case ast.DefPath:
		return c.compilePath(def, sc, blockingAllowed)

	case ast.DefSubscript:
		return c.compileSubscript(def, sc, blockingAllowed)
	}
	return nil, value.Value{}, crusherrors.NewGeneric("compiler: unhandled definition kind %d", def.Kind)
}

// CompileBound additionally binds a resolved command value to its owner,
// producing a value callable with implicit `this` (spec §4.4,
// "compile_bound").
func (c *Compiler) CompileBound(def *ast.ValueDefinition, sc *scope.Scope, blockingAllowed bool) (value.Value, error) {
	owner, v, err := c.Compile(def, sc, blockingAllowed)
	if err != nil {
		return value.Value{}, err
	}
	if owner == nil || v.Kind != value.KindCommand {
		return v, nil
	}
	return value.CommandValue(&value.BoundCommand{Inner: v.AsCommand(), This: *owner}), nil
}

func (c *Compiler) compileAttribute(def *ast.ValueDefinition, sc *scope.Scope, blockingAllowed bool) (*value.Value, value.Value, error) {
	_, parentVal, err := c.Compile(def.Parent, sc, blockingAllowed)
	if err != nil {
		return nil, value.Value{}, err
	}

	owner := parentVal
	if parentVal.Kind == value.KindCommand {
		if !blockingAllowed {
			return nil, value.Value{}, crusherrors.NewBlockError("attribute access on %v would invoke a command in a non-blocking context", def.Pos)
		}
		result, err := c.InvokeValue(parentVal, nil, sc)
		if err != nil {
			return nil, value.Value{}, err
		}
		owner = result
	}

	field, err := LookupField(owner, def.Entry, def.Pos)
	if err != nil {
		return nil, value.Value{}, err
	}
	return &owner, field, nil
}

func (c *Compiler) compilePath(def *ast.ValueDefinition, sc *scope.Scope, blockingAllowed bool) (*value.Value, value.Value, error) {
	_, parentVal, err := c.Compile(def.Parent, sc, blockingAllowed)
	if err != nil {
		return nil, value.Value{}, err
	}
	switch parentVal.Kind {
	case value.KindFile:
		return nil, value.File(filepath.Join(parentVal.AsString(), def.Entry)), nil
	case value.KindDict:
		v, ok := parentVal.AsDict().Get(value.String(def.Entry))
		if !ok {
			return nil, value.Value{}, crusherrors.NewGeneric("no entry %q in dict", def.Entry)
		}
		return nil, v, nil
	default:
		return nil, value.Value{}, crusherrors.NewTypeError("cannot path-access %q on a %s", def.Entry, parentVal.Type())
	}
}

func (c *Compiler) compileSubscript(def *ast.ValueDefinition, sc *scope.Scope, blockingAllowed bool) (*value.Value, value.Value, error) {
	_, baseVal, err := c.Compile(def.Parent, sc, blockingAllowed)
	if err != nil {
		return nil, value.Value{}, err
	}
	_, idxVal, err := c.Compile(def.Index, sc, blockingAllowed)
	if err != nil {
		return nil, value.Value{}, err
	}

	switch baseVal.Kind {
	case value.KindList:
		if idxVal.Kind != value.KindInt {
			return nil, value.Value{}, crusherrors.NewTypeError("list subscript requires an integer index, got %s", idxVal.Type())
		}
		i := int(idxVal.AsInt().Int64())
		v, ok := baseVal.AsList().Get(i)
		if !ok {
			return nil, value.Value{}, crusherrors.NewGeneric("index %d out of range", i)
		}
		return nil, v, nil
	case value.KindDict:
		v, ok := baseVal.AsDict().Get(idxVal)
		if !ok {
			return nil, value.Value{}, crusherrors.NewGeneric("no such key %s in dict", idxVal)
		}
		return nil, v, nil
	case value.KindTable:
		if idxVal.Kind != value.KindInt {
			return nil, value.Value{}, crusherrors.NewTypeError("table subscript requires an integer index, got %s", idxVal.Type())
		}
		i := int(idxVal.AsInt().Int64())
		rows := baseVal.AsTable().Snapshot()
		if i < 0 || i >= len(rows) {
			return nil, value.Value{}, crusherrors.NewGeneric("row index %d out of range", i)
		}
		cols := baseVal.AsTable().Columns
		return nil, value.StructValue(rowToStruct(cols, rows[i])), nil
	default:
		return nil, value.Value{}, crusherrors.NewTypeError("cannot subscript a %s", baseVal.Type())
	}
}

func rowToStruct(cols []value.ColumnType, row value.Row) *value.Struct {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return value.NewStruct(names, row.Cells, nil)
}

// LookupField resolves entry against owner's members: struct fields, dict
// entries, or scope variables (spec §4.4, "get_attr"). Exported so the
// engine can reuse it when resolving a dotted command path against a
// scope variable rather than the registry.
func LookupField(owner value.Value, entry string, pos any) (value.Value, error) {
	switch owner.Kind {
	case value.KindStruct:
		v, ok := owner.AsStruct().Get(entry)
		if !ok {
			return value.Value{}, crusherrors.NewGeneric("no field %q on struct", entry)
		}
		return v, nil
	case value.KindDict:
		v, ok := owner.AsDict().Get(value.String(entry))
		if !ok {
			return value.Value{}, crusherrors.NewGeneric("no entry %q in dict", entry)
		}
		return v, nil
	case value.KindScope:
		v, ok := owner.AsScope().Get(entry)
		if !ok {
			return value.Value{}, crusherrors.NewGeneric("no variable %q in scope", entry)
		}
		return v, nil
	default:
		return value.Value{}, crusherrors.NewTypeError("cannot access attribute %q on a %s", entry, owner.Type())
	}
}
