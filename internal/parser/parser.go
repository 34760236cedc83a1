// Package parser is a recursive-descent parser turning a lexer.Lexer's
// token stream into the ast.Job graph of spec §3/§4.2. Grounded on the
// teacher's curToken/peekToken/nextToken recursive-descent shape
// (internal/v2/parser/parser.go), adapted to a pipe-and-job grammar
// instead of drun's line-statement grammar.
package parser

import (
	"strings"

	"github.com/phillarmonic/crush/internal/ast"
	"github.com/phillarmonic/crush/internal/crusherrors"
	"github.com/phillarmonic/crush/internal/lexer"
	"github.com/phillarmonic/crush/internal/value"
)

// Parser holds a two-token lookahead window over the lexer's output.
type Parser struct {
	l *lexer.Lexer

	curToken  lexer.Token
	peekToken lexer.Token
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) skipSeparators() {
	for p.curIs(lexer.SEPARATOR) {
		p.nextToken()
	}
}

// Parse implements the top-level grammar rule: zero or more jobs
// separated by Separator, ending at EOF (spec §4.2, "parse").
func Parse(source string) ([]*ast.Job, error) {
	p := New(lexer.New(source))
	return p.parseProgram()
}

func (p *Parser) parseProgram() ([]*ast.Job, error) {
	var jobs []*ast.Job
	p.skipSeparators()
	for !p.curIs(lexer.EOF) {
		job, err := p.parseJob()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
		p.skipSeparators()
	}
	return jobs, nil
}

// parseJob parses one or more commands joined by Pipe; Separator tokens
// between a pipe and the next command are skipped (spec §4.2).
func (p *Parser) parseJob() (*ast.Job, error) {
	job := &ast.Job{}
	for {
		call, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		job.Calls = append(job.Calls, call)

		if p.curIs(lexer.PIPE) {
			p.nextToken()
			for p.curIs(lexer.SEPARATOR) {
				p.nextToken()
			}
			continue
		}
		break
	}
	if len(job.Calls) == 0 {
		return nil, p.errf("empty job")
	}
	return job, nil
}

// parseCommand parses a command name followed by arguments until
// Separator|EOF|Pipe|ModeEnd (spec §4.2, "parse_command").
func (p *Parser) parseCommand() (*ast.CallDefinition, error) {
	if !p.curIs(lexer.STRING) {
		return nil, p.errf("expected command name, got %s", p.curToken.Type)
	}
	pos := p.curToken.Pos
	path := strings.Split(p.curToken.Literal, ".")
	for _, seg := range path {
		if seg == "" {
			return nil, p.errf("command name has an empty path segment")
		}
	}
	p.nextToken()

	call := &ast.CallDefinition{Pos: pos, Path: path}
	for !p.atArgStop() {
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	return call, nil
}

func (p *Parser) atArgStop() bool {
	switch p.curToken.Type {
	case lexer.SEPARATOR, lexer.EOF, lexer.PIPE, lexer.MODEEND:
		return true
	}
	return false
}

// parseArgument parses a leading String optionally followed by Assign as a
// named argument, else an unnamed value expression (spec §4.2).
func (p *Parser) parseArgument() (*ast.ArgumentDefinition, error) {
	if p.curIs(lexer.STRING) && p.peekIs(lexer.ASSIGN) {
		name := p.curToken.Literal
		p.nextToken() // consume name
		p.nextToken() // consume '='
		val, err := p.parseUnnamedArgument()
		if err != nil {
			return nil, err
		}
		return &ast.ArgumentDefinition{Name: name, Value: val}, nil
	}
	val, err := p.parseUnnamedArgument()
	if err != nil {
		return nil, err
	}
	return &ast.ArgumentDefinition{Value: val}, nil
}

// parseUnnamedArgument parses a base value expression then zero or more
// subscript suffixes (spec §4.2).
func (p *Parser) parseUnnamedArgument() (*ast.ValueDefinition, error) {
	base, err := p.parseBaseExpression()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.SUBSCRIPTSTART) {
		pos := p.curToken.Pos
		p.nextToken()
		idx, err := p.parseUnnamedArgument()
		if err != nil {
			return nil, err
		}
		if !p.curIs(lexer.SUBSCRIPTEND) {
			return nil, p.errf("expected ']', got %s", p.curToken.Type)
		}
		p.nextToken()
		base = ast.Subscript(pos, base, idx)
	}
	for p.curIs(lexer.COLON) || p.curIs(lexer.SLASH) {
		kind := p.curToken.Type
		pos := p.curToken.Pos
		p.nextToken()
		if !p.curIs(lexer.STRING) {
			return nil, p.errf("expected identifier after '%s'", map[lexer.TokenType]string{lexer.COLON: ":", lexer.SLASH: "/"}[kind])
		}
		entry := p.curToken.Literal
		p.nextToken()
		if kind == lexer.COLON {
			base = ast.Attribute(pos, base, entry)
		} else {
			base = ast.Path(pos, base, entry)
		}
	}
	return base, nil
}

// parseBaseExpression parses literal tokens, grouped jobs, closures, glob
// literals, field references and label references (spec §4.2).
func (p *Parser) parseBaseExpression() (*ast.ValueDefinition, error) {
	tok := p.curToken
	switch tok.Type {
	case lexer.INTEGER:
		p.nextToken()
		bi, ok := parseBigInt(tok.Literal)
		if !ok {
			return nil, crusherrors.NewParseError(tok.Pos, "invalid integer literal %q", tok.Literal)
		}
		return ast.Literal(tok.Pos, value.BigInt(bi)), nil
	case lexer.FLOAT:
		p.nextToken()
		f, ok := parseFloat(tok.Literal)
		if !ok {
			return nil, crusherrors.NewParseError(tok.Pos, "invalid float literal %q", tok.Literal)
		}
		return ast.Literal(tok.Pos, value.Float(f)), nil
	case lexer.QUOTEDSTRING:
		p.nextToken()
		return ast.Literal(tok.Pos, value.String(tok.Literal)), nil
	case lexer.GLOB:
		p.nextToken()
		return ast.Literal(tok.Pos, value.Glob(tok.Literal)), nil
	case lexer.REGEX:
		p.nextToken()
		rv, err := value.Regex(tok.Literal)
		if err != nil {
			return nil, crusherrors.NewParseError(tok.Pos, "invalid regex literal %q: %v", tok.Literal, err)
		}
		return ast.Literal(tok.Pos, rv), nil
	case lexer.FIELD:
		p.nextToken()
		return ast.Literal(tok.Pos, value.Field(strings.Split(tok.Literal, "."))), nil
	case lexer.VARIABLE:
		p.nextToken()
		return ast.Label(tok.Pos, tok.Literal), nil
	case lexer.STRING:
		// A bareword argument is text, not a variable reference — only
		// $name (VARIABLE) resolves against scope. Matches the Rust
		// parser's parse_unnamed_argument_without_subscript, where
		// TokenType::String becomes ValueDefinition::text.
		p.nextToken()
		return ast.Literal(tok.Pos, value.String(tok.Literal)), nil
	case lexer.MODESTART:
		switch tok.Sigil {
		case "(":
			p.nextToken()
			job, err := p.parseJob()
			if err != nil {
				return nil, err
			}
			if !p.curIs(lexer.MODEEND) {
				return nil, p.errf("expected ')', got %s", p.curToken.Type)
			}
			p.nextToken()
			return ast.JobDef(tok.Pos, job), nil
		case "{":
			p.nextToken()
			closure, err := p.parseClosureBody()
			if err != nil {
				return nil, err
			}
			return ast.Closure(tok.Pos, closure), nil
		case "*{":
			p.nextToken()
			if !p.curIs(lexer.STRING) && !p.curIs(lexer.GLOB) {
				return nil, p.errf("expected glob pattern inside '*{...}'")
			}
			pattern := p.curToken.Literal
			p.nextToken()
			if !p.curIs(lexer.MODEEND) {
				return nil, p.errf("expected '}', got %s", p.curToken.Type)
			}
			p.nextToken()
			return ast.Literal(tok.Pos, value.Glob(pattern)), nil
		}
	}
	return nil, p.errf("unexpected token %s %q", tok.Type, tok.Literal)
}

// parseClosureBody parses `{ jobs }`: zero or more jobs separated by
// Separator, ending at ModeEnd ('}').
func (p *Parser) parseClosureBody() (*ast.ClosureDef, error) {
	closure := &ast.ClosureDef{}
	p.skipSeparators()
	for !p.curIs(lexer.MODEEND) {
		if p.curIs(lexer.EOF) {
			return nil, p.errf("unterminated closure literal")
		}
		job, err := p.parseJob()
		if err != nil {
			return nil, err
		}
		closure.Body = append(closure.Body, job)
		p.skipSeparators()
	}
	p.nextToken() // consume '}'
	return closure, nil
}

func (p *Parser) errf(format string, args ...any) error {
	return crusherrors.NewParseError(p.curToken.Pos, format, args...)
}
