package parser

import (
	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/diag"
	"github.com/Microindole/beryl/token"
)

func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.expect(token.LBrace).Span
	id := p.newID()
	var stmts []ast.Stmt
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		before := p.pos
		s := p.parseStmt()
		if s != nil {
			stmts = append(stmts, s)
		}
		if p.pos == before {
			p.advance()
		}
	}
	end := p.expect(token.RBrace).Span
	return &ast.BlockStmt{StmtBase: ast.NewStmtBase(id, token.Join(start, end)), Stmts: stmts}
}

// parseCond parses a mandatory-parenthesized condition expression, per
// spec.md §9's struct-literal-vs-block disambiguation: inside the parens a
// bare `Name{...}` is read as a struct literal, since the parens already
// resolve the ambiguity. Struct literals are suppressed (noStructLit) only
// for a match scrutinee, which has no such parens.
func (p *Parser) parseCond() ast.Expr {
	p.expect(token.LParen)
	e := p.parseExpr()
	p.expect(token.RParen)
	return e
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.peek().Kind {
	case token.KwVar:
		return p.parseVarDecl()
	case token.LBrace:
		return p.parseBlock()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwBreak:
		start := p.advance().Span
		id := p.newID()
		end := p.expect(token.Semi).Span
		return &ast.BreakStmt{StmtBase: ast.NewStmtBase(id, token.Join(start, end))}
	case token.KwContinue:
		start := p.advance().Span
		id := p.newID()
		end := p.expect(token.Semi).Span
		return &ast.ContinueStmt{StmtBase: ast.NewStmtBase(id, token.Join(start, end))}
	case token.KwReturn:
		return p.parseReturn()
	default:
		return p.parseAssignOrExprStmt()
	}
}

func (p *Parser) parseVarDecl() *ast.VarDeclStmt {
	start := p.advance().Span // 'var'
	id := p.newID()
	name := p.expect(token.Ident).Lexeme
	var annotation ast.Type
	if p.match(token.Colon) {
		annotation = p.parseType()
	}
	var init ast.Expr
	end := p.peek().Span
	if p.match(token.Assign) {
		init = p.parseExpr()
		end = init.Span()
	}
	endSemi := p.expect(token.Semi).Span
	return &ast.VarDeclStmt{
		StmtBase:   ast.NewStmtBase(id, token.Join(start, token.Join(end, endSemi))),
		Name:       name,
		Annotation: annotation,
		Init:       init,
	}
}

// parseAssignOrExprStmt parses an L-value assignment or a bare expression
// statement, disambiguated by parsing the expression first and checking
// whether it is an assignable form followed by `=` (spec.md §3: assignment
// targets are variable / field get / index expressions).
func (p *Parser) parseAssignOrExprStmt() ast.Stmt {
	start := p.peek().Span
	id := p.newID()
	e := p.parseExpr()
	if p.check(token.Assign) {
		if lv, ok := e.(ast.LValue); ok {
			p.advance()
			value := p.parseExpr()
			end := p.expect(token.Semi).Span
			return &ast.AssignStmt{
				StmtBase: ast.NewStmtBase(id, token.Join(start, end)),
				Target:   lv,
				Value:    value,
			}
		}
		p.errorAtCurrentExpr(e)
		p.advance() // consume stray '='
		p.parseExpr()
	}
	end := p.expect(token.Semi).Span
	return &ast.ExprStmt{StmtBase: ast.NewStmtBase(id, token.Join(start, end)), Expr: e}
}

func (p *Parser) parseIf() *ast.IfStmt {
	start := p.advance().Span // 'if'
	id := p.newID()
	cond := p.parseCond()
	then := p.parseBlock()
	end := then.Span()
	var elseStmt ast.Stmt
	if p.match(token.KwElse) {
		if p.check(token.KwIf) {
			elseStmt = p.parseIf()
		} else {
			elseStmt = p.parseBlock()
		}
		end = elseStmt.Span()
	}
	return &ast.IfStmt{
		StmtBase: ast.NewStmtBase(id, token.Join(start, end)),
		Cond:     cond,
		Then:     then,
		Else:     elseStmt,
	}
}

func (p *Parser) parseWhile() *ast.WhileStmt {
	start := p.advance().Span // 'while'
	id := p.newID()
	cond := p.parseCond()
	body := p.parseBlock()
	return &ast.WhileStmt{
		StmtBase: ast.NewStmtBase(id, token.Join(start, body.Span())),
		Cond:     cond,
		Body:     body,
	}
}

// parseFor parses either the C-style `for (init; cond; post) body` or
// `for (name in iterable) body`, disambiguated by one-token lookahead for
// `in` after the first identifier inside the parens.
func (p *Parser) parseFor() ast.Stmt {
	start := p.advance().Span // 'for'
	p.expect(token.LParen)

	if p.check(token.Ident) && p.peekAt(1).Kind == token.KwIn {
		id := p.newID()
		name := p.advance().Lexeme
		p.advance() // 'in'
		iterable := p.parseExpr()
		p.expect(token.RParen)
		body := p.parseBlock()
		return &ast.ForInStmt{
			StmtBase: ast.NewStmtBase(id, token.Join(start, body.Span())),
			Name:     name,
			Iterable: iterable,
			Body:     body,
		}
	}

	id := p.newID()
	var init ast.Stmt
	if !p.check(token.Semi) {
		init = p.parseForClauseInit()
	} else {
		p.advance()
	}
	var cond ast.Expr
	if !p.check(token.Semi) {
		cond = p.parseExpr()
	}
	p.expect(token.Semi)
	var post ast.Stmt
	if !p.check(token.RParen) {
		post = p.parseForClausePost()
	}
	p.expect(token.RParen)
	body := p.parseBlock()
	return &ast.ForStmt{
		StmtBase: ast.NewStmtBase(id, token.Join(start, body.Span())),
		Init:     init,
		Cond:     cond,
		Post:     post,
		Body:     body,
	}
}

// parseForClauseInit parses the for-loop init clause (a var decl or an
// assignment/expression), consuming its trailing semicolon.
func (p *Parser) parseForClauseInit() ast.Stmt {
	if p.check(token.KwVar) {
		return p.parseVarDecl()
	}
	return p.parseAssignOrExprStmt()
}

// parseForClausePost parses the for-loop post clause (assignment or
// expression) with no trailing semicolon or terminator consumed beyond the
// expression itself.
func (p *Parser) parseForClausePost() ast.Stmt {
	start := p.peek().Span
	id := p.newID()
	e := p.parseExpr()
	if p.check(token.Assign) {
		if lv, ok := e.(ast.LValue); ok {
			p.advance()
			value := p.parseExpr()
			return &ast.AssignStmt{
				StmtBase: ast.NewStmtBase(id, token.Join(start, value.Span())),
				Target:   lv,
				Value:    value,
			}
		}
	}
	return &ast.ExprStmt{StmtBase: ast.NewStmtBase(id, token.Join(start, e.Span())), Expr: e}
}

func (p *Parser) parseReturn() *ast.ReturnStmt {
	start := p.advance().Span // 'return'
	id := p.newID()
	var value ast.Expr
	end := start
	if !p.check(token.Semi) {
		value = p.parseExpr()
		end = value.Span()
	}
	endSemi := p.expect(token.Semi).Span
	return &ast.ReturnStmt{
		StmtBase: ast.NewStmtBase(id, token.Join(start, token.Join(end, endSemi))),
		Value:    value,
	}
}

func (p *Parser) errorAtCurrentExpr(e ast.Expr) {
	p.errorAt(diag.UnexpectedToken, e.Span(), "expression is not assignable")
}
