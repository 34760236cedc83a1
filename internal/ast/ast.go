// Package ast defines the unresolved job graph the parser produces: a
// ValueDefinition/ArgumentDefinition/CallDefinition/Job tree (spec §3,
// §4.2), grounded on the teacher's internal/ast package shape (one file
// per concern, plain structs, no interface hierarchy per spec §9).
package ast

import (
	"github.com/phillarmonic/crush/internal/lexer"
	"github.com/phillarmonic/crush/internal/value"
)

// DefKind tags the variant of a ValueDefinition.
type DefKind int

const (
	DefLiteral DefKind = iota
	DefLabel
	DefAttribute // parent:entry
	DefPath      // parent/entry
	DefClosure
	DefJob
	DefSubscript
)

// ValueDefinition is an unresolved expression; Compile (package compiler)
// turns it into a value.Value against a scope.
type ValueDefinition struct {
	Kind DefKind
	Pos  lexer.Position

	Literal value.Value // DefLiteral

	Label string // DefLabel: a $name variable reference, never a bareword

	Parent *ValueDefinition // DefAttribute / DefPath / DefSubscript
	Entry  string           // DefAttribute / DefPath

	Closure *ClosureDef // DefClosure
	Job     *Job        // DefJob

	Index *ValueDefinition // DefSubscript
}

// ClosureDef is a closure literal: an optional name, an optional
// parameter list, and a body of jobs executed in its own child scope.
type ClosureDef struct {
	Name   string // empty if anonymous
	Params []string
	Body   []*Job
}

// ArgumentDefinition is (optional_name, ValueDefinition) per spec §3.
type ArgumentDefinition struct {
	Name  string // empty means unnamed/positional
	Value *ValueDefinition
}

// CallDefinition is (command_name_path, argument_definitions).
type CallDefinition struct {
	Pos     lexer.Position
	Path    []string // dot-split command name
	Args    []*ArgumentDefinition
}

// Job is an ordered, non-empty sequence of CallDefinitions: the pipeline.
type Job struct {
	Calls []*CallDefinition
}

func Literal(pos lexer.Position, v value.Value) *ValueDefinition {
	return &ValueDefinition{Kind: DefLiteral, Pos: pos, Literal: v}
}

func Label(pos lexer.Position, name string) *ValueDefinition {
	return &ValueDefinition{Kind: DefLabel, Pos: pos, Label: name}
}

func Attribute(pos lexer.Position, parent *ValueDefinition, entry string) *ValueDefinition {
	return &ValueDefinition{Kind: DefAttribute, Pos: pos, Parent: parent, Entry: entry}
}

func Path(pos lexer.Position, parent *ValueDefinition, entry string) *ValueDefinition {
	return &ValueDefinition{Kind: DefPath, Pos: pos, Parent: parent, Entry: entry}
}

func Closure(pos lexer.Position, c *ClosureDef) *ValueDefinition {
	return &ValueDefinition{Kind: DefClosure, Pos: pos, Closure: c}
}

func JobDef(pos lexer.Position, j *Job) *ValueDefinition {
	return &ValueDefinition{Kind: DefJob, Pos: pos, Job: j}
}

func Subscript(pos lexer.Position, base, index *ValueDefinition) *ValueDefinition {
	return &ValueDefinition{Kind: DefSubscript, Pos: pos, Parent: base, Index: index}
}
