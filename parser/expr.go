package parser

import (
	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/token"
)

// parseExpr parses a full expression at the lowest precedence level (`??`),
// per spec.md §4.2's precedence table.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseElvis()
}

func (p *Parser) parseElvis() ast.Expr {
	left := p.parseOr()
	for p.check(token.QuestionQuestion) {
		p.advance()
		right := p.parseElvis() // right-associative
		left = &ast.BinaryExpr{
			ExprBase: ast.NewExprBase(p.newID(), token.Join(left.Span(), right.Span())),
			Op:       ast.OpElvis, Left: left, Right: right,
		}
	}
	return left
}

func (p *Parser) binaryLevel(next func() ast.Expr, ops map[token.Kind]ast.BinaryOp) func() ast.Expr {
	return func() ast.Expr {
		left := next()
		for {
			op, ok := ops[p.peek().Kind]
			if !ok {
				break
			}
			p.advance()
			right := next()
			left = &ast.BinaryExpr{
				ExprBase: ast.NewExprBase(p.newID(), token.Join(left.Span(), right.Span())),
				Op:       op, Left: left, Right: right,
			}
		}
		return left
	}
}

func (p *Parser) parseOr() ast.Expr {
	return p.binaryLevel(p.parseAnd, map[token.Kind]ast.BinaryOp{token.OrOr: ast.OpOr})()
}

func (p *Parser) parseAnd() ast.Expr {
	return p.binaryLevel(p.parseEquality, map[token.Kind]ast.BinaryOp{token.AndAnd: ast.OpAnd})()
}

func (p *Parser) parseEquality() ast.Expr {
	return p.binaryLevel(p.parseComparison, map[token.Kind]ast.BinaryOp{
		token.EqEq: ast.OpEq, token.NotEq: ast.OpNe,
	})()
}

func (p *Parser) parseComparison() ast.Expr {
	return p.binaryLevel(p.parseAdditive, map[token.Kind]ast.BinaryOp{
		token.Lt: ast.OpLt, token.LtEq: ast.OpLe, token.Gt: ast.OpGt, token.GtEq: ast.OpGe,
	})()
}

func (p *Parser) parseAdditive() ast.Expr {
	return p.binaryLevel(p.parseMultiplicative, map[token.Kind]ast.BinaryOp{
		token.Plus: ast.OpAdd, token.Minus: ast.OpSub,
	})()
}

func (p *Parser) parseMultiplicative() ast.Expr {
	return p.binaryLevel(p.parseUnary, map[token.Kind]ast.BinaryOp{
		token.Star: ast.OpMul, token.Slash: ast.OpDiv, token.Percent: ast.OpMod,
	})()
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.peek().Kind {
	case token.Bang:
		start := p.advance().Span
		operand := p.parseUnary()
		return &ast.UnaryExpr{
			ExprBase: ast.NewExprBase(p.newID(), token.Join(start, operand.Span())),
			Op:       ast.OpNot, Operand: operand,
		}
	case token.Minus:
		start := p.advance().Span
		operand := p.parseUnary()
		return &ast.UnaryExpr{
			ExprBase: ast.NewExprBase(p.newID(), token.Join(start, operand.Span())),
			Op:       ast.OpNeg, Operand: operand,
		}
	case token.KwAs:
		// 'as' binds as a cast applied to a unary operand's result; handled
		// as a postfix-level operator instead (see parsePostfix) since it
		// appears after the operand, not before.
	}
	return p.parsePostfix()
}

// parsePostfix parses call/index/get/safe-get/generic-instantiation/try/cast
// suffixes, all left-associative and binding tighter than unary, per
// spec.md §4.2.
func (p *Parser) parsePostfix() ast.Expr {
	e := p.parseAtom()
	for {
		switch p.peek().Kind {
		case token.LParen:
			p.advance()
			var args []ast.Expr
			for !p.check(token.RParen) && !p.check(token.EOF) {
				args = append(args, p.parseExpr())
				if !p.match(token.Comma) {
					break
				}
			}
			end := p.expect(token.RParen).Span
			e = &ast.CallExpr{
				ExprBase: ast.NewExprBase(p.newID(), token.Join(e.Span(), end)),
				Callee:   e, Args: args,
			}
		case token.LBracket:
			p.advance()
			idx := p.parseExpr()
			end := p.expect(token.RBracket).Span
			e = &ast.IndexExpr{
				ExprBase: ast.NewExprBase(p.newID(), token.Join(e.Span(), end)),
				Object:   e, Index: idx,
			}
		case token.Dot:
			p.advance()
			name := p.expect(token.Ident)
			e = &ast.GetExpr{
				ExprBase: ast.NewExprBase(p.newID(), token.Join(e.Span(), name.Span)),
				Object:   e, Field: name.Lexeme,
			}
		case token.QuestionDot:
			p.advance()
			name := p.expect(token.Ident)
			e = &ast.SafeGetExpr{
				ExprBase: ast.NewExprBase(p.newID(), token.Join(e.Span(), name.Span)),
				Object:   e, Field: name.Lexeme,
			}
		case token.Question:
			span := p.advance().Span
			e = &ast.TryExpr{
				ExprBase: ast.NewExprBase(p.newID(), token.Join(e.Span(), span)),
				Operand:  e,
			}
		case token.ColonColon:
			args := p.parseGenericArgs()
			e = &ast.GenericInstExpr{
				ExprBase: ast.NewExprBase(p.newID(), e.Span()),
				Callee:   e, Args: args,
			}
		case token.KwAs:
			p.advance()
			target := p.parseType()
			e = &ast.CastExpr{
				ExprBase: ast.NewExprBase(p.newID(), token.Join(e.Span(), target.Span())),
				Operand:  e, Target: target,
			}
		default:
			return e
		}
	}
}

// canStartStructLiteral reports whether an identifier at the current
// position may begin a struct-literal head, consulted only when deciding
// whether `Ident {` should be read as a struct literal.
func (p *Parser) canStartStructLiteral() bool {
	return p.check(token.Ident) && !p.noStructLit
}

func (p *Parser) parseAtom() ast.Expr {
	start := p.peek().Span
	switch p.peek().Kind {
	case token.Int:
		t := p.advance()
		return &ast.LiteralExpr{ExprBase: ast.NewExprBase(p.newID(), t.Span), Kind: ast.LitInt, Int: t.IntValue}
	case token.Float:
		t := p.advance()
		return &ast.LiteralExpr{ExprBase: ast.NewExprBase(p.newID(), t.Span), Kind: ast.LitFloat, Float: t.Lexeme}
	case token.String:
		t := p.advance()
		return &ast.LiteralExpr{ExprBase: ast.NewExprBase(p.newID(), t.Span), Kind: ast.LitString, String: t.StringValue}
	case token.KwTrue:
		t := p.advance()
		return &ast.LiteralExpr{ExprBase: ast.NewExprBase(p.newID(), t.Span), Kind: ast.LitBool, Bool: true}
	case token.KwFalse:
		t := p.advance()
		return &ast.LiteralExpr{ExprBase: ast.NewExprBase(p.newID(), t.Span), Kind: ast.LitBool, Bool: false}
	case token.KwNull:
		t := p.advance()
		return &ast.LiteralExpr{ExprBase: ast.NewExprBase(p.newID(), t.Span), Kind: ast.LitNull}
	case token.LParen:
		p.advance()
		if p.check(token.RParen) {
			end := p.advance().Span
			return &ast.UnitExpr{ExprBase: ast.NewExprBase(p.newID(), token.Join(start, end))}
		}
		e := p.parseExpr()
		p.expect(token.RParen)
		return e
	case token.LBracket:
		return p.parseArrayLit()
	case token.KwVec:
		return p.parseVecLit()
	case token.Pipe:
		return p.parseClosure()
	case token.KwMatch:
		return p.parseMatch()
	case token.KwOk:
		return p.parseWrap(ast.LitInt, func(id ast.NodeID, span token.Span, v ast.Expr) ast.Expr {
			return &ast.OkExpr{ExprBase: ast.NewExprBase(id, span), Value: v}
		})
	case token.KwErr:
		return p.parseWrap(ast.LitInt, func(id ast.NodeID, span token.Span, v ast.Expr) ast.Expr {
			return &ast.ErrExpr{ExprBase: ast.NewExprBase(id, span), Value: v}
		})
	case token.KwSome:
		return p.parseWrap(ast.LitInt, func(id ast.NodeID, span token.Span, v ast.Expr) ast.Expr {
			return &ast.SomeExpr{ExprBase: ast.NewExprBase(id, span), Value: v}
		})
	case token.KwNone:
		t := p.advance()
		return &ast.NoneExpr{ExprBase: ast.NewExprBase(p.newID(), t.Span)}
	case token.KwPrint:
		p.advance()
		p.expect(token.LParen)
		v := p.parseExpr()
		end := p.expect(token.RParen).Span
		return &ast.PrintExpr{ExprBase: ast.NewExprBase(p.newID(), token.Join(start, end)), Value: v}
	case token.KwReadFile:
		return p.parseFileBuiltin(ast.BuiltinReadFile, 1)
	case token.KwWriteFile:
		return p.parseFileBuiltin(ast.BuiltinWriteFile, 2)
	case token.KwLen:
		return p.parseStringBuiltin(ast.BuiltinLen, 1)
	case token.KwTrim:
		return p.parseStringBuiltin(ast.BuiltinTrim, 1)
	case token.KwSplit:
		return p.parseStringBuiltin(ast.BuiltinSplit, 2)
	case token.KwJoin:
		return p.parseStringBuiltin(ast.BuiltinJoin, 2)
	case token.KwSubstr:
		return p.parseStringBuiltin(ast.BuiltinSubstr, 3)
	case token.KwCharToString:
		return p.parseStringBuiltin(ast.BuiltinCharToString, 1)
	case token.KwFormat:
		return p.parseStringBuiltinVariadic(ast.BuiltinFormat)
	case token.KwPanic:
		return p.parseStringBuiltinVariadic(ast.BuiltinPanic)
	case token.Ident:
		if p.canStartStructLiteral() {
			if sl, ok := p.tryParseStructLit(); ok {
				return sl
			}
		}
		t := p.advance()
		return &ast.VarExpr{ExprBase: ast.NewExprBase(p.newID(), t.Span), Name: t.Lexeme}
	default:
		p.expectedOneOf(token.Int, token.Float, token.String, token.Ident, token.LParen)
		t := p.advance()
		return &ast.LiteralExpr{ExprBase: ast.NewExprBase(p.newID(), t.Span), Kind: ast.LitNull}
	}
}

// tryParseStructLit attempts `Name(<Args>)?{field: expr, ...}`, returning
// ok=false (and not consuming anything beyond the identifier it already
// needed to look past) if no `{` follows — in which case the caller treats
// the identifier as a plain VarExpr. Since the parser buffers tokens, a
// single save/restore of p.pos is enough to backtrack.
func (p *Parser) tryParseStructLit() (ast.Expr, bool) {
	save := p.pos
	start := p.peek().Span
	name := p.advance().Lexeme
	var generics []ast.Type
	if p.check(token.Lt) {
		// Find the matching `>` and require `{` after it before parsing any
		// type argument, so a comparison like `i < n` reports nothing.
		depth, i := 0, 0
		for ; depth > 0 || i == 0; i++ {
			switch k := p.peekAt(i).Kind; k {
			case token.Lt:
				depth++
			case token.Gt:
				depth--
			case token.EOF, token.LBrace, token.RBrace, token.Assign:
				p.pos = save
				return nil, false
			}
		}
		if p.peekAt(i).Kind != token.LBrace {
			p.pos = save
			return nil, false
		}
		p.advance()
		for !p.check(token.Gt) && !p.check(token.EOF) {
			generics = append(generics, p.parseType())
			if !p.match(token.Comma) {
				break
			}
		}
		p.expect(token.Gt)
	}
	if !p.check(token.LBrace) {
		p.pos = save
		return nil, false
	}
	p.advance()
	var fields []ast.StructLitField
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		fname := p.expect(token.Ident).Lexeme
		p.expect(token.Colon)
		fv := p.parseExpr()
		fields = append(fields, ast.StructLitField{Name: fname, Expr: fv})
		if !p.match(token.Comma) {
			break
		}
	}
	end := p.expect(token.RBrace).Span
	return &ast.StructLitExpr{
		ExprBase:    ast.NewExprBase(p.newID(), token.Join(start, end)),
		TypeName:    name,
		GenericArgs: generics,
		Fields:      fields,
	}, true
}

func (p *Parser) parseArrayLit() ast.Expr {
	start := p.advance().Span
	var elems []ast.Expr
	for !p.check(token.RBracket) && !p.check(token.EOF) {
		elems = append(elems, p.parseExpr())
		if !p.match(token.Comma) {
			break
		}
	}
	end := p.expect(token.RBracket).Span
	return &ast.ArrayLitExpr{ExprBase: ast.NewExprBase(p.newID(), token.Join(start, end)), Elems: elems}
}

func (p *Parser) parseVecLit() ast.Expr {
	start := p.advance().Span // 'vec'
	p.expect(token.Bang)
	p.expect(token.LBracket)
	var elems []ast.Expr
	for !p.check(token.RBracket) && !p.check(token.EOF) {
		elems = append(elems, p.parseExpr())
		if !p.match(token.Comma) {
			break
		}
	}
	end := p.expect(token.RBracket).Span
	return &ast.VecLitExpr{ExprBase: ast.NewExprBase(p.newID(), token.Join(start, end)), Elems: elems}
}

func (p *Parser) parseClosure() ast.Expr {
	start := p.advance().Span // '|'
	var params []ast.Param
	for !p.check(token.Pipe) && !p.check(token.EOF) {
		ty := p.parseType()
		name := p.expect(token.Ident).Lexeme
		params = append(params, ast.Param{Name: name, Type: ty})
		if !p.match(token.Comma) {
			break
		}
	}
	p.expect(token.Pipe)
	p.expect(token.Arrow)
	body := p.parseExpr()
	return &ast.ClosureExpr{
		ExprBase: ast.NewExprBase(p.newID(), token.Join(start, body.Span())),
		Params:   params, Body: body,
	}
}

func (p *Parser) parseMatch() ast.Expr {
	start := p.advance().Span // 'match'

	saved := p.noStructLit
	p.noStructLit = true
	value := p.parseExpr()
	p.noStructLit = saved

	p.expect(token.LBrace)
	var cases []ast.MatchCase
	var def ast.Expr
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		if p.match(token.KwDefault) {
			p.expect(token.Arrow)
			def = p.parseExpr()
		} else {
			p.expect(token.KwCase)
			pat := p.parsePattern()
			p.expect(token.Arrow)
			body := p.parseExpr()
			cases = append(cases, ast.MatchCase{Pattern: pat, Body: body})
		}
		if !p.match(token.Comma) {
			break
		}
	}
	end := p.expect(token.RBrace).Span
	return &ast.MatchExpr{
		ExprBase: ast.NewExprBase(p.newID(), token.Join(start, end)),
		Value:    value, Cases: cases, Default: def,
	}
}

// parsePattern parses one `case` pattern: an integer literal, `_`
// (wildcard), or `EnumName.Variant[(bindings...)]`.
func (p *Parser) parsePattern() ast.Pattern {
	start := p.peek().Span
	if p.check(token.Ident) && p.peek().Lexeme == "_" {
		end := p.advance().Span
		return ast.Pattern{Kind: ast.PatternWildcard, Span: token.Join(start, end)}
	}
	if p.check(token.Int) {
		t := p.advance()
		return ast.Pattern{Kind: ast.PatternLiteral, Span: t.Span, IntValue: t.IntValue}
	}
	enumName := p.expect(token.Ident).Lexeme
	p.expect(token.Dot)
	variant := p.expect(token.Ident).Lexeme
	end := token.Span{Start: start.Start, End: p.toks[p.pos-1].Span.End}
	if !p.check(token.LParen) {
		return ast.Pattern{Kind: ast.PatternEnumUnit, Span: end, EnumName: enumName, Variant: variant}
	}
	p.advance()
	var bindings []string
	for !p.check(token.RParen) && !p.check(token.EOF) {
		bindings = append(bindings, p.expect(token.Ident).Lexeme)
		if !p.match(token.Comma) {
			break
		}
	}
	closeSpan := p.expect(token.RParen).Span
	return ast.Pattern{
		Kind: ast.PatternEnumTuple, Span: token.Join(start, closeSpan),
		EnumName: enumName, Variant: variant, Bindings: bindings,
	}
}

// parseWrap parses `Kw(expr)` forms shared by Ok/Err/Some.
func (p *Parser) parseWrap(_ ast.LiteralKind, build func(ast.NodeID, token.Span, ast.Expr) ast.Expr) ast.Expr {
	start := p.advance().Span
	p.expect(token.LParen)
	v := p.parseExpr()
	end := p.expect(token.RParen).Span
	return build(p.newID(), token.Join(start, end), v)
}

func (p *Parser) parseFileBuiltin(kind ast.FileBuiltin, arity int) ast.Expr {
	start := p.advance().Span
	p.expect(token.LParen)
	args := p.parseFixedArgs(arity)
	end := p.expect(token.RParen).Span
	return &ast.FileBuiltinExpr{
		ExprBase: ast.NewExprBase(p.newID(), token.Join(start, end)),
		Builtin:  kind, Args: args,
	}
}

func (p *Parser) parseStringBuiltin(kind ast.StringBuiltin, arity int) ast.Expr {
	start := p.advance().Span
	p.expect(token.LParen)
	args := p.parseFixedArgs(arity)
	end := p.expect(token.RParen).Span
	return &ast.StringBuiltinExpr{
		ExprBase: ast.NewExprBase(p.newID(), token.Join(start, end)),
		Builtin:  kind, Args: args,
	}
}

// parseStringBuiltinVariadic parses `format(args...)`/`panic(args...)`,
// SPEC_FULL §8 additions to the fixed-arity builtins above.
func (p *Parser) parseStringBuiltinVariadic(kind ast.StringBuiltin) ast.Expr {
	start := p.advance().Span
	p.expect(token.LParen)
	var args []ast.Expr
	for !p.check(token.RParen) && !p.check(token.EOF) {
		args = append(args, p.parseExpr())
		if !p.match(token.Comma) {
			break
		}
	}
	end := p.expect(token.RParen).Span
	return &ast.StringBuiltinExpr{
		ExprBase: ast.NewExprBase(p.newID(), token.Join(start, end)),
		Builtin:  kind, Args: args,
	}
}

func (p *Parser) parseFixedArgs(arity int) []ast.Expr {
	args := make([]ast.Expr, 0, arity)
	for i := 0; i < arity; i++ {
		args = append(args, p.parseExpr())
		if i < arity-1 {
			p.expect(token.Comma)
		}
	}
	return args
}
