// Package parser implements the recursive-descent, precedence-climbing
// parser described in spec.md §4.2: token stream to AST, reporting syntax
// errors with expected-token-set help notes. Its structure follows the
// teacher's lexer/parser split (gql/lex.go feeding a goyacc grammar) in
// spirit — a hand-written recursive-descent parser is used instead of a
// generated one because spec.md §4.2 specifies precedence-climbing
// explicitly, and goyacc's generated state-machine output (gql/y.go) isn't
// something a human author would hand-adapt to a new grammar; the
// one-struct-per-node AST shape and total, error-tolerant parsing loop are
// still grounded on the teacher (gql/ast.go, gql/gql.go's Parse entrypoint).
package parser

import (
	"fmt"

	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/diag"
	"github.com/Microindole/beryl/internal/xlog"
	"github.com/Microindole/beryl/lexer"
	"github.com/Microindole/beryl/token"
)

// Parser holds the token buffer, diagnostic sink, and node-ID counter for
// one parse of one source file.
type Parser struct {
	lex    *lexer.Lexer
	sink   *diag.Sink
	file   string

	toks []token.Token // lookahead buffer, filled lazily
	pos  int

	nextID int32

	// noStructLit suppresses struct-literal parsing of a bare `Name{...}`
	// atom, used while parsing a match expression's scrutinee so its
	// trailing `{` is always read as the start of the match's case list
	// rather than a struct literal (spec.md §9's disambiguation rule; `if`/
	// `while`/`for` conditions don't need this because their mandatory
	// parens already remove the ambiguity).
	noStructLit bool
}

// New creates a Parser over src, reporting diagnostics tagged with file
// into sink.
func New(src []byte, file string, sink *diag.Sink) *Parser {
	return &Parser{lex: lexer.New(src), sink: sink, file: file}
}

func (p *Parser) newID() ast.NodeID {
	id := ast.NodeID(p.nextID)
	p.nextID++
	return id
}

func (p *Parser) fill(n int) {
	for len(p.toks) <= p.pos+n {
		p.toks = append(p.toks, p.lex.Next())
	}
}

func (p *Parser) peek() token.Token { return p.peekAt(0) }

func (p *Parser) peekAt(n int) token.Token {
	p.fill(n)
	return p.toks[p.pos+n]
}

func (p *Parser) advance() token.Token {
	t := p.peek()
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of kind k, or reports UnexpectedToken naming the
// single expected kind and returns a zero Token so callers can keep going.
func (p *Parser) expect(k token.Kind) token.Token {
	if p.check(k) {
		return p.advance()
	}
	p.expectedOneOf(k)
	return token.Token{Kind: token.Error, Span: p.peek().Span}
}

// expectedOneOf reports "unexpected token" with a "help: expected one of
// ..." note, per spec.md §4.2's expected-set diagnostics.
func (p *Parser) expectedOneOf(kinds ...token.Kind) {
	got := p.peek()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	msg := fmt.Sprintf("unexpected token %s", got.Kind)
	d := diag.New(diag.UnexpectedToken, msg).WithSpan(got.Span).WithFile(p.file)
	d = d.WithSuggestion(fmt.Sprintf("expected one of: %s", joinNames(names)), "")
	p.sink.Report(d)
}

func joinNames(names []string) string {
	s := ""
	for i, n := range names {
		if i > 0 {
			s += ", "
		}
		s += n
	}
	return s
}

func (p *Parser) errorAt(kind diag.Kind, span token.Span, format string, args ...interface{}) {
	p.sink.Report(diag.New(kind, fmt.Sprintf(format, args...)).WithSpan(span).WithFile(p.file))
}

// synchronize skips tokens until a likely statement/declaration boundary,
// used for error recovery after a malformed construct so the parser keeps
// producing further diagnostics (spec.md §4.2, "parser is total" §8).
func (p *Parser) synchronize() {
	for !p.check(token.EOF) {
		if p.peek().Kind == token.Semi {
			p.advance()
			return
		}
		if isTypeStart(p.peek().Kind) {
			return
		}
		switch p.peek().Kind {
		case token.KwExtern, token.KwStruct, token.KwEnum,
			token.KwTrait, token.KwImpl, token.KwVar, token.KwImport,
			token.RBrace:
			return
		}
		p.advance()
	}
}

// ParseFile parses a complete translation unit, per spec.md §4.2's
// declaration grammar. It never aborts early: malformed declarations are
// skipped via synchronize() and the sink accumulates a diagnostic, so the
// caller always gets a File (possibly with fewer decls than the input had)
// alongside whatever diagnostics were produced — the "parser is total"
// property from spec.md §8.
func (p *Parser) ParseFile() *ast.File {
	xlog.Debugf(xlog.Unknown, "parser: starting %s", p.file)
	f := &ast.File{}
	for !p.check(token.EOF) {
		before := p.pos
		d := p.parseDecl()
		if d != nil {
			f.Decls = append(f.Decls, d)
		}
		if p.pos == before {
			// parseDecl made no progress; force it so we don't loop forever.
			stuck := p.peek()
			xlog.Debugf(xlog.At(stuck.Span), "parser: %s made no progress at %q, forcing advance", p.file, stuck.Lexeme)
			p.advance()
		}
	}
	xlog.Debugf(xlog.Unknown, "parser: %s produced %d top-level decl(s)", p.file, len(f.Decls))
	return f
}
