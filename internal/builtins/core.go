// Package builtins implements the leaf commands of the shell: the
// concrete registry.Command values that give jobs something to pipe
// through. Grounded on the teacher's internal/builtins package shape —
// one function per built-in, collected into a single Register — but
// rebuilt against registry.Command/cmdctx.CommandContext instead of the
// teacher's (Context, ...string)->(string, error) calling convention,
// since crush's built-ins move typed Values and Rows, not strings.
package builtins

import (
	"github.com/phillarmonic/crush/internal/registry"
)

// Register installs every built-in command into reg.
func Register(reg *registry.Registry) {
	registerCore(reg)
	registerData(reg)
	registerFile(reg)
	registerSystem(reg)
	registerSecret(reg)
	registerArchive(reg)
	registerHistory(reg)
}
