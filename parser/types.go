package parser

import (
	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/token"
)

// parseType parses one type expression: primitives, `T?`, `[T; N]`,
// `Vec<T>`, `Map<K,V>`, `Result<T,E>`, `Option<T>`, a bare struct/generic-
// param name, or a generic instantiation `Name<Args...>` (spec.md §3).
func (p *Parser) parseType() ast.Type {
	start := p.peek().Span
	var base ast.Type

	switch p.peek().Kind {
	case token.KwInt:
		p.advance()
		base = ast.NewIntType(start)
	case token.KwFloat:
		p.advance()
		base = ast.NewFloatType(start)
	case token.KwBool:
		p.advance()
		base = ast.NewBoolType(start)
	case token.KwString:
		p.advance()
		base = ast.NewStringType(start)
	case token.KwVoid:
		p.advance()
		base = ast.NewVoidType(start)
	case token.LParen:
		p.advance()
		end := p.expect(token.RParen).Span
		base = ast.NewUnitType(token.Join(start, end))
	case token.LBracket:
		p.advance()
		elem := p.parseType()
		p.expect(token.Semi)
		sizeTok := p.expect(token.Int)
		end := p.expect(token.RBracket).Span
		base = ast.NewArrayType(token.Join(start, end), elem, sizeTok.IntValue)
	case token.Ident:
		name := p.advance().Lexeme
		switch name {
		case "Vec":
			p.expect(token.Lt)
			elem := p.parseType()
			end := p.expect(token.Gt).Span
			base = ast.NewVecType(token.Join(start, end), elem)
		case "Map":
			p.expect(token.Lt)
			key := p.parseType()
			p.expect(token.Comma)
			val := p.parseType()
			end := p.expect(token.Gt).Span
			base = ast.NewMapType(token.Join(start, end), key, val)
		case "Result":
			p.expect(token.Lt)
			ok := p.parseType()
			p.expect(token.Comma)
			errT := p.parseType()
			end := p.expect(token.Gt).Span
			base = ast.NewResultType(token.Join(start, end), ok, errT)
		case "Option":
			p.expect(token.Lt)
			elem := p.parseType()
			end := p.expect(token.Gt).Span
			base = ast.NewOptionType(token.Join(start, end), elem)
		default:
			if p.check(token.Lt) {
				p.advance()
				var args []ast.Type
				for !p.check(token.Gt) && !p.check(token.EOF) {
					args = append(args, p.parseType())
					if !p.match(token.Comma) {
						break
					}
				}
				end := p.expect(token.Gt).Span
				base = ast.NewGenericType(token.Join(start, end), name, args)
			} else {
				base = ast.NewStructType(start, name)
			}
		}
	default:
		p.expectedOneOf(token.Ident, token.KwInt, token.KwFloat, token.KwBool, token.KwString, token.KwVoid)
		base = ast.NewErrorType(start)
	}

	for p.check(token.Question) {
		end := p.advance().Span
		base = ast.NewNullableType(token.Join(base.Span(), end), base)
	}
	return base
}

// parseGenericParams parses an optional `<T, U: Bound, ...>` list.
func (p *Parser) parseGenericParams() []ast.GenericParam {
	if !p.check(token.Lt) {
		return nil
	}
	p.advance()
	var params []ast.GenericParam
	for !p.check(token.Gt) && !p.check(token.EOF) {
		name := p.expect(token.Ident).Lexeme
		bound := ""
		if p.match(token.Colon) {
			bound = p.expect(token.Ident).Lexeme
		}
		params = append(params, ast.GenericParam{Name: name, Bound: bound})
		if !p.match(token.Comma) {
			break
		}
	}
	p.expect(token.Gt)
	return params
}

// parseGenericArgs parses `::<T0, T1, ...>`, used at call/expression sites.
func (p *Parser) parseGenericArgs() []ast.Type {
	p.expect(token.ColonColon)
	p.expect(token.Lt)
	var args []ast.Type
	for !p.check(token.Gt) && !p.check(token.EOF) {
		args = append(args, p.parseType())
		if !p.match(token.Comma) {
			break
		}
	}
	p.expect(token.Gt)
	return args
}

// parseParams parses a parenthesized `(Type name, ...)` parameter list,
// C-style like the function declarations they belong to (grounded on
// original_source/crates/beryl_syntax/src/parser.rs's
// `type_parser().then(ident_parser())` and lency's identical closure-param
// grammar). Consumes both parens itself.
func (p *Parser) parseParams() []ast.Param {
	p.expect(token.LParen)
	var params []ast.Param
	for !p.check(token.RParen) && !p.check(token.EOF) {
		ty := p.parseType()
		name := p.expect(token.Ident).Lexeme
		params = append(params, ast.Param{Name: name, Type: ty})
		if !p.match(token.Comma) {
			break
		}
	}
	p.expect(token.RParen)
	return params
}
