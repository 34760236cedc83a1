package registry

import (
	"testing"

	"github.com/phillarmonic/crush/internal/value"
)

func strCmd() *Command {
	return &Command{
		Name_: "greet",
		Params: []Parameter{
			{Name: "name", Type: value.Simple(value.KindString)},
			{Name: "loud", Type: value.Simple(value.KindBool), Optional: true},
		},
	}
}

func TestBind_PositionalAndNamed(t *testing.T) {
	c := strCmd()
	bound, err := c.Bind([]value.Argument{
		{Value: value.String("world")},
	})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if bound["name"].AsString() != "world" {
		t.Fatalf("name = %v", bound["name"])
	}
	if _, ok := bound["loud"]; ok {
		t.Fatal("optional absent parameter should not be bound")
	}
}

func TestBind_NamedOverridesPosition(t *testing.T) {
	c := strCmd()
	bound, err := c.Bind([]value.Argument{
		{Name: "loud", Value: value.Bool(true)},
		{Value: value.String("world")},
	})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if !bound["loud"].AsBool() {
		t.Fatal("expected loud=true")
	}
	if bound["name"].AsString() != "world" {
		t.Fatalf("name = %v", bound["name"])
	}
}

func TestBind_TypeMismatch(t *testing.T) {
	c := strCmd()
	_, err := c.Bind([]value.Argument{{Value: value.Int(1)}})
	if err == nil {
		t.Fatal("expected type mismatch error")
	}
}

func TestBind_MissingRequired(t *testing.T) {
	c := strCmd()
	_, err := c.Bind(nil)
	if err == nil {
		t.Fatal("expected missing-required error")
	}
}

func TestBind_RestParameterCollectsTrailing(t *testing.T) {
	c := &Command{
		Name_: "echo",
		Params: []Parameter{
			{Name: "args", Rest: true},
		},
	}
	bound, err := c.Bind([]value.Argument{
		{Value: value.String("a")},
		{Value: value.String("b")},
		{Value: value.String("c")},
	})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	list := bound["args"].AsList()
	if list.Len() != 3 {
		t.Fatalf("rest len = %d", list.Len())
	}
}

func TestBind_UnknownNamedParameter(t *testing.T) {
	c := strCmd()
	_, err := c.Bind([]value.Argument{{Name: "bogus", Value: value.String("x")}})
	if err == nil {
		t.Fatal("expected unknown-parameter error")
	}
}
