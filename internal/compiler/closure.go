package compiler

import (
	"github.com/phillarmonic/crush/internal/ast"
	"github.com/phillarmonic/crush/internal/scope"
	"github.com/phillarmonic/crush/internal/value"
)

// ClosureCommand is the runtime representation of a closure literal: it
// captures its defining scope by reference (spec §4.4, §9). It satisfies
// value.Command so it can travel as a Value{Kind: KindCommand} through
// the rest of the pipeline exactly like a native command. Captured is the
// concrete *scope.Scope (not the narrower value.ScopeHandle) so the
// engine can derive a child invocation frame from it via
// ChildWithCalling.
type ClosureCommand struct {
	NameField string
	Params    []string
	Body      []*ast.Job
	Captured  *scope.Scope
}

func (c *ClosureCommand) Name() string {
	if c.NameField != "" {
		return c.NameField
	}
	return "closure"
}

// CanBlock is always true: a closure body is itself a sequence of jobs,
// and running a job always involves spawning workers and awaiting output
// (spec §4.4: "Job definition ... Requires can_block").
func (c *ClosureCommand) CanBlock() bool { return true }
