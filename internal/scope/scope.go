// Package scope implements the lexically nested, thread-safe name
// environment of spec §4.7: a node with an optional parent, a local
// name→value map, a set of "used" scopes for import-like lookup, a
// readonly flag, and an optional calling-scope back-reference for
// closures. Grounded on the teacher's mutex-guarded shared-state pattern
// (internal/builtins stateMutex sync.RWMutex) generalized from a flat
// global map to a parent-chained tree.
package scope

import (
	"sync"

	"github.com/phillarmonic/crush/internal/crusherrors"
	"github.com/phillarmonic/crush/internal/value"
)

// Scope is shared by reference across threads; every operation takes an
// internal lock (spec §4.7, §5).
type Scope struct {
	mu sync.RWMutex

	parent   *Scope
	used     []*Scope
	vars     map[string]value.Value
	readonly bool

	// calling is the lexical environment a closure captured; it is a
	// non-owning back-edge (spec §9: "not strongly owning") so that a
	// scope holding a closure which in turn holds `calling` never forms a
	// reference cycle that the Go GC cannot already collect — Go's GC is
	// cycle-safe, so this is purely documentation of intent, not a weak
	// pointer in the Rust sense.
	calling *Scope
}

// New creates a root scope with no parent.
func New() *Scope { return &Scope{vars: make(map[string]value.Value)} }

// Child creates a new scope nested under parent.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, vars: make(map[string]value.Value)}
}

// ChildWithCalling creates a child scope that additionally remembers the
// scope a closure was defined in, so closure bodies resolve free
// variables against their lexical (not dynamic) environment.
func (s *Scope) ChildWithCalling(calling *Scope) *Scope {
	c := s.Child()
	c.calling = calling
	return c
}

// Calling returns the lexical environment this scope's closure captured,
// or nil for a scope that isn't a closure invocation frame.
func (s *Scope) Calling() *Scope { return s.calling }

// Declare inserts a new binding; it errors if the name already exists in
// this scope or if the scope is sealed (spec §4.7).
func (s *Scope) Declare(name string, v value.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readonly {
		return crusherrors.NewGeneric("cannot declare %q: scope is sealed", name)
	}
	if _, exists := s.vars[name]; exists {
		return crusherrors.NewGeneric("cannot redeclare %q in the same scope", name)
	}
	s.vars[name] = v
	return nil
}

// Set walks the parent chain to find an existing slot and overwrites it;
// it errors if no such binding exists anywhere in the chain.
func (s *Scope) Set(name string, v value.Value) error {
	s.mu.Lock()
	if !s.readonly {
		if _, exists := s.vars[name]; exists {
			s.vars[name] = v
			s.mu.Unlock()
			return nil
		}
	}
	parent := s.parent
	s.mu.Unlock()
	if parent != nil {
		return parent.Set(name, v)
	}
	return crusherrors.NewGeneric("cannot set %q: no such variable", name)
}

// Get resolves name: local, then each used scope in insertion order, then
// the parent chain (spec §4.7). Values obtained here are returned as-is;
// Value's container variants are reference-counted handles so this is
// always a cheap copy (spec §4.7: "values obtained via get are cloned —
// cheap for most variants").
func (s *Scope) Get(name string) (value.Value, bool) {
	s.mu.RLock()
	v, ok := s.vars[name]
	used := append([]*Scope(nil), s.used...)
	parent := s.parent
	s.mu.RUnlock()

	if ok {
		return v, true
	}
	for _, u := range used {
		if v, ok := u.Get(name); ok {
			return v, true
		}
	}
	if parent != nil {
		return parent.Get(name)
	}
	return value.Value{}, false
}

// Use adds other to this scope's used-scopes set for member lookup.
func (s *Scope) Use(other *Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.used = append(s.used, other)
}

// Seal marks the scope readonly; subsequent Declare/Set on it fail.
func (s *Scope) Seal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readonly = true
}

// IsReadonly reports whether the scope has been sealed.
func (s *Scope) IsReadonly() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readonly
}
