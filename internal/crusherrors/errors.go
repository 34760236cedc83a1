// Package crusherrors implements the seven-kind error taxonomy of spec §7,
// grounded on the teacher's internal/errors package: the same
// file:line:column-with-caret formatting, generalized from a single
// ParseError to every kind the execution core can raise.
package crusherrors

import (
	"fmt"
	"strings"

	"github.com/phillarmonic/crush/internal/lexer"
)

// Kind is one of the seven error classes of spec §7.
type Kind int

const (
	ParseError Kind = iota
	ArgumentError
	TypeError
	BlockError
	InvalidData
	IOError
	Generic
)

var kindNames = [...]string{
	"ParseError", "ArgumentError", "TypeError", "BlockError",
	"InvalidData", "IOError", "Error",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Error"
}

// Error is the single concrete error type for every kind: a tag, a
// message, and an optional source position (spec §7: "Error taxonomy
// (kind + message + optional source location)").
type Error struct {
	Kind     Kind
	Message  string
	HasPos   bool
	Pos      lexer.Position
	Filename string
	Source   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// FormatError renders a colorized file:line:column view with a caret,
// mirroring the teacher's ParseError.FormatError.
func (e *Error) FormatError() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("\033[31m%s\033[0m: %s\n", e.Kind, e.Message))
	if !e.HasPos {
		return b.String()
	}
	b.WriteString(fmt.Sprintf("  \033[36m--> %s:%d:%d\033[0m\n", e.Filename, e.Pos.Line, e.Pos.Column))

	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line > 0 && e.Pos.Line <= len(lines) {
		sourceLine := lines[e.Pos.Line-1]
		lineNumStr := fmt.Sprintf("%d", e.Pos.Line)
		b.WriteString(fmt.Sprintf("   \033[34m%s\033[0m | %s\n", lineNumStr, sourceLine))
		col := e.Pos.Column
		if col < 1 {
			col = 1
		}
		spaces := strings.Repeat(" ", len(lineNumStr)) + " | " + strings.Repeat(" ", col-1)
		b.WriteString(fmt.Sprintf("   %s\033[31m^\033[0m\n", spaces))
	}
	return b.String()
}

func newAt(k Kind, pos lexer.Position, hasPos bool, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...), HasPos: hasPos, Pos: pos}
}

func NewParseError(pos lexer.Position, format string, args ...any) *Error {
	return newAt(ParseError, pos, true, format, args...)
}

func NewArgumentError(format string, args ...any) *Error {
	return newAt(ArgumentError, lexer.Position{}, false, format, args...)
}

func NewArgumentErrorAt(pos lexer.Position, format string, args ...any) *Error {
	return newAt(ArgumentError, pos, true, format, args...)
}

func NewTypeError(format string, args ...any) *Error {
	return newAt(TypeError, lexer.Position{}, false, format, args...)
}

func NewBlockError(format string, args ...any) *Error {
	return newAt(BlockError, lexer.Position{}, false, format, args...)
}

func NewInvalidData(format string, args ...any) *Error {
	return newAt(InvalidData, lexer.Position{}, false, format, args...)
}

func NewIOError(format string, args ...any) *Error {
	return newAt(IOError, lexer.Position{}, false, format, args...)
}

func NewGeneric(format string, args ...any) *Error {
	return newAt(Generic, lexer.Position{}, false, format, args...)
}

// WithSource attaches filename/source text, used right before FormatError
// is called at the top level (the lexer/parser/compiler don't carry these
// around themselves).
func (e *Error) WithSource(filename, source string) *Error {
	e.Filename = filename
	e.Source = source
	return e
}

// As reports whether err is a *Error of the given kind.
func As(err error, k Kind) bool {
	ce, ok := err.(*Error)
	return ok && ce.Kind == k
}
