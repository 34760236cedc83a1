package compiler

import (
	"testing"

	"github.com/phillarmonic/crush/internal/ast"
	"github.com/phillarmonic/crush/internal/lexer"
	"github.com/phillarmonic/crush/internal/registry"
	"github.com/phillarmonic/crush/internal/scope"
	"github.com/phillarmonic/crush/internal/value"
)

func noRunJob(*ast.Job, *scope.Scope) (value.Value, error) {
	panic("RunJob should not be called in this test")
}

func noInvoke(value.Value, *value.Value, *scope.Scope) (value.Value, error) {
	panic("InvokeValue should not be called in this test")
}

func TestCompile_Literal(t *testing.T) {
	c := New(registry.NewRegistry(), noRunJob, noInvoke)
	sc := scope.New()
	_, v, err := c.Compile(ast.Literal(lexer.Position{}, value.Int(7)), sc, true)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if v.AsInt().Int64() != 7 {
		t.Fatalf("got %v", v)
	}
}

func TestCompile_LabelFromScope(t *testing.T) {
	c := New(registry.NewRegistry(), noRunJob, noInvoke)
	sc := scope.New()
	_ = sc.Declare("x", value.String("hi"))
	_, v, err := c.Compile(ast.Label(lexer.Position{}, "x"), sc, true)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if v.AsString() != "hi" {
		t.Fatalf("got %v", v)
	}
}

func TestCompile_UnknownLabelErrors(t *testing.T) {
	c := New(registry.NewRegistry(), noRunJob, noInvoke)
	sc := scope.New()
	_, _, err := c.Compile(ast.Label(lexer.Position{}, "definitely_not_a_path_or_var"), sc, true)
	if err == nil {
		t.Fatal("expected unknown variable error")
	}
}

func TestCompile_ClosureCapturesScope(t *testing.T) {
	c := New(registry.NewRegistry(), noRunJob, noInvoke)
	sc := scope.New()
	_ = sc.Declare("captured", value.Int(1))

	def := ast.Closure(lexer.Position{}, &ast.ClosureDef{})
	_, v, err := c.Compile(def, sc, true)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	cl, ok := v.AsCommand().(*ClosureCommand)
	if !ok {
		t.Fatalf("expected *ClosureCommand, got %T", v.AsCommand())
	}
	captured, ok := cl.Captured.Get("captured")
	if !ok || captured.AsInt().Int64() != 1 {
		t.Fatalf("closure did not capture scope correctly: %v %v", captured, ok)
	}
}

func TestCompile_SubscriptOnList(t *testing.T) {
	c := New(registry.NewRegistry(), noRunJob, noInvoke)
	sc := scope.New()
	list := value.NewList(value.Simple(value.KindString), value.String("a"), value.String("b"))
	_ = sc.Declare("list", value.ListValue(list))

	def := ast.Subscript(lexer.Position{}, ast.Label(lexer.Position{}, "list"), ast.Literal(lexer.Position{}, value.Int(1)))
	_, v, err := c.Compile(def, sc, true)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if v.AsString() != "b" {
		t.Fatalf("got %v", v)
	}
}

func TestCompile_JobLiteralBlockedInNonBlockingContext(t *testing.T) {
	c := New(registry.NewRegistry(), noRunJob, noInvoke)
	sc := scope.New()
	def := ast.JobDef(lexer.Position{}, &ast.Job{Calls: []*ast.CallDefinition{{Path: []string{"echo"}}}})
	_, _, err := c.Compile(def, sc, false)
	if err == nil {
		t.Fatal("expected BlockError in non-blocking context")
	}
}
