package engine

import (
	"io"
	"testing"

	"github.com/phillarmonic/crush/internal/ast"
	"github.com/phillarmonic/crush/internal/cmdctx"
	"github.com/phillarmonic/crush/internal/crusherrors"
	"github.com/phillarmonic/crush/internal/lexer"
	"github.com/phillarmonic/crush/internal/registry"
	"github.com/phillarmonic/crush/internal/scope"
	"github.com/phillarmonic/crush/internal/value"
)

func nameCol() []value.ColumnType {
	return []value.ColumnType{{Name: "name", Type: value.Simple(value.KindString)}}
}

// sourceTable emits the given names as single-column rows, ignoring input.
func sourceTable(names ...string) *registry.Command {
	return &registry.Command{
		Name_:  "source",
		Output: registry.Known(value.TableType(nameCol())),
		Invoke: func(ctx *cmdctx.CommandContext) error {
			for _, n := range names {
				if err := ctx.Output.Table.Send(value.NewRow(value.String(n))); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// reverseRows reads every input row and emits them in reverse order.
func reverseRows() *registry.Command {
	return &registry.Command{
		Name_:  "reverse",
		Output: registry.Passthrough(),
		Invoke: func(ctx *cmdctx.CommandContext) error {
			var rows []value.Row
			for {
				r, err := ctx.Input.Table.Read()
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
				rows = append(rows, r)
			}
			for i := len(rows) - 1; i >= 0; i-- {
				if err := ctx.Output.Table.Send(rows[i]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func failingCommand(msg string) *registry.Command {
	return &registry.Command{
		Name_:  "fail",
		Output: registry.Unknown(),
		Invoke: func(ctx *cmdctx.CommandContext) error {
			return crusherrors.NewGeneric("%s", msg)
		},
	}
}

func call(path string, args ...*ast.ArgumentDefinition) *ast.CallDefinition {
	return &ast.CallDefinition{Path: []string{path}, Args: args}
}

func TestExecutor_PipelineReversesRows(t *testing.T) {
	reg := registry.NewRegistry()
	reg.Register(sourceTable("a", "b", "c"))
	reg.Register(reverseRows())

	e := NewExecutor(reg, nil)
	job := &ast.Job{Calls: []*ast.CallDefinition{call("source"), call("reverse")}}

	finalInput, ts, err := e.ExecuteJob(job, scope.New(), cmdctx.Input{})
	if err != nil {
		t.Fatalf("ExecuteJob: %v", err)
	}

	var got []string
	for {
		r, err := finalInput.Table.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		got = append(got, r.Cells[0].AsString())
	}
	if err := ts.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	want := []string{"c", "b", "a"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestExecutor_ErrorPropagatesFromStage(t *testing.T) {
	reg := registry.NewRegistry()
	reg.Register(failingCommand("boom"))

	e := NewExecutor(reg, nil)
	job := &ast.Job{Calls: []*ast.CallDefinition{call("fail")}}

	finalInput, ts, err := e.ExecuteJob(job, scope.New(), cmdctx.Input{})
	if err != nil {
		t.Fatalf("ExecuteJob: %v", err)
	}
	_, _ = finalInput.Value.Recv()
	if err := ts.Wait(); err == nil {
		t.Fatal("expected the failing stage's error to surface from Wait")
	}
}

func TestExecutor_UnknownCommandNameErrors(t *testing.T) {
	e := NewExecutor(registry.NewRegistry(), nil)
	job := &ast.Job{Calls: []*ast.CallDefinition{call("nonexistent")}}

	_, _, err := e.ExecuteJob(job, scope.New(), cmdctx.Input{})
	if err == nil {
		t.Fatal("expected unknown-command error")
	}
}

func TestExecutor_RunJobMaterializesSingleValue(t *testing.T) {
	reg := registry.NewRegistry()
	reg.Register(&registry.Command{
		Name_:  "one",
		Output: registry.Known(value.Simple(value.KindInt)),
		Invoke: func(ctx *cmdctx.CommandContext) error {
			return ctx.Output.Value.Send(value.Int(42))
		},
	})

	e := NewExecutor(reg, nil)
	job := &ast.Job{Calls: []*ast.CallDefinition{call("one")}}

	v, err := e.RunJob(job, scope.New())
	if err != nil {
		t.Fatalf("RunJob: %v", err)
	}
	if v.AsInt().Int64() != 42 {
		t.Fatalf("got %v", v)
	}
}

func TestExecutor_ClosureInvocationBindsParametersAndReturnsLastJobValue(t *testing.T) {
	reg := registry.NewRegistry()
	reg.Register(&registry.Command{
		Name_:  "double",
		Params: []registry.Parameter{{Name: "x", Type: value.Simple(value.KindInt)}},
		Output: registry.Known(value.Simple(value.KindInt)),
		Invoke: func(ctx *cmdctx.CommandContext) error {
			x, _ := ctx.Arg("x")
			return ctx.Output.Value.Send(value.Int(2 * x.AsInt().Int64()))
		},
	})

	e := NewExecutor(reg, nil)
	sc := scope.New()

	closureDef := ast.Closure(lexer.Position{}, &ast.ClosureDef{
		Params: []string{"n"},
		Body: []*ast.Job{
			{Calls: []*ast.CallDefinition{
				{Path: []string{"double"}, Args: []*ast.ArgumentDefinition{
					{Value: ast.Label(lexer.Position{}, "n")},
				}},
			}},
		},
	})
	_, closureVal, err := e.Compiler.Compile(closureDef, sc, true)
	if err != nil {
		t.Fatalf("Compile closure: %v", err)
	}
	_ = sc.Declare("twice", closureVal)

	job := &ast.Job{Calls: []*ast.CallDefinition{
		{Path: []string{"twice"}, Args: []*ast.ArgumentDefinition{
			{Value: ast.Literal(lexer.Position{}, value.Int(21))},
		}},
	}}

	v, err := e.RunJob(job, sc)
	if err != nil {
		t.Fatalf("RunJob: %v", err)
	}
	if v.AsInt().Int64() != 42 {
		t.Fatalf("got %v", v)
	}
}
