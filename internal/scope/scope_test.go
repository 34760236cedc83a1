package scope

import (
	"testing"

	"github.com/phillarmonic/crush/internal/value"
)

func TestScope_DeclareAndGet(t *testing.T) {
	s := New()
	if err := s.Declare("x", value.Int(1)); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	v, ok := s.Get("x")
	if !ok || v.AsInt().Int64() != 1 {
		t.Fatalf("Get(x) = %v, %v", v, ok)
	}
}

func TestScope_RedeclareFails(t *testing.T) {
	s := New()
	_ = s.Declare("x", value.Int(1))
	if err := s.Declare("x", value.Int(2)); err == nil {
		t.Fatal("expected redeclare error")
	}
}

func TestScope_ChildSeesParentNotViceVersa(t *testing.T) {
	parent := New()
	_ = parent.Declare("x", value.Int(1))
	child := parent.Child()

	if _, ok := child.Get("x"); !ok {
		t.Fatal("child should see parent binding")
	}
	_ = child.Declare("y", value.Int(2))
	if _, ok := parent.Get("y"); ok {
		t.Fatal("parent should not see child binding")
	}
}

func TestScope_SealBlocksMutation(t *testing.T) {
	s := New()
	_ = s.Declare("x", value.Int(1))
	s.Seal()
	if err := s.Declare("y", value.Int(2)); err == nil {
		t.Fatal("expected declare-after-seal error")
	}
	if err := s.Set("x", value.Int(9)); err == nil {
		t.Fatal("expected set-after-seal error")
	}
}

func TestScope_UseResolvesMembers(t *testing.T) {
	lib := New()
	_ = lib.Declare("helper", value.Int(42))

	main := New()
	main.Use(lib)

	v, ok := main.Get("helper")
	if !ok || v.AsInt().Int64() != 42 {
		t.Fatalf("Get via used scope = %v, %v", v, ok)
	}
}

func TestScope_SetWalksParentChain(t *testing.T) {
	parent := New()
	_ = parent.Declare("x", value.Int(1))
	child := parent.Child()

	if err := child.Set("x", value.Int(5)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, _ := parent.Get("x")
	if v.AsInt().Int64() != 5 {
		t.Fatalf("parent x = %v, want 5", v)
	}
}

func TestScope_SetUnknownFails(t *testing.T) {
	s := New()
	if err := s.Set("nope", value.Int(1)); err == nil {
		t.Fatal("expected error setting unknown name")
	}
}
