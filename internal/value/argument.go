package value

import "github.com/phillarmonic/crush/internal/lexer"

// Argument is (optional_name, Value, source_location) per spec §3: an
// already-compiled command argument. Unnamed arguments carry an empty
// Name.
type Argument struct {
	Name string
	Value Value
	Pos   lexer.Position
}
