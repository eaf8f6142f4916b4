package parser

import (
	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/diag"
	"github.com/Microindole/beryl/token"
)

func isTypeStart(k token.Kind) bool {
	switch k {
	case token.KwInt, token.KwFloat, token.KwBool, token.KwString, token.KwVoid, token.Ident, token.LParen, token.LBracket:
		return true
	default:
		return false
	}
}

// parseDecl dispatches on the leading keyword, falling back to the
// function-declaration form `ReturnType Ident GenericParams? (Params) {
// Body }` per spec.md §4.2. On a malformed declaration it reports a
// MalformedDeclaration diagnostic and synchronizes to the next boundary.
func (p *Parser) parseDecl() ast.Decl {
	switch p.peek().Kind {
	case token.KwExtern:
		return p.parseExternDecl()
	case token.KwStruct:
		return p.parseStructDecl()
	case token.KwEnum:
		return p.parseEnumDecl()
	case token.KwTrait:
		return p.parseTraitDecl()
	case token.KwImpl:
		return p.parseImplDecl()
	case token.KwVar:
		return p.parseGlobalVarDecl()
	case token.KwImport:
		return p.parseImportDecl()
	default:
		if isTypeStart(p.peek().Kind) {
			return p.parseFuncDecl()
		}
		start := p.peek().Span
		p.errorAt(diag.MalformedDeclaration, start, "malformed declaration")
		p.synchronize()
		return nil
	}
}

func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	start := p.peek().Span
	id := p.newID()
	ret := p.parseType()
	name := p.expect(token.Ident).Lexeme
	generics := p.parseGenericParams()
	params := p.parseParams()
	body := p.parseBlock()
	return &ast.FuncDecl{
		DeclBase: ast.NewDeclBase(id, token.Join(start, body.Span())),
		Name:     name,
		Generics: generics,
		Params:   params,
		Ret:      ret,
		Body:     body,
	}
}

func (p *Parser) parseExternDecl() *ast.ExternFuncDecl {
	start := p.advance().Span // 'extern'
	id := p.newID()
	ret := p.parseType()
	name := p.expect(token.Ident).Lexeme
	params := p.parseParams()
	end := p.expect(token.Semi).Span
	return &ast.ExternFuncDecl{
		DeclBase: ast.NewDeclBase(id, token.Join(start, end)),
		Name:     name,
		Params:   params,
		Ret:      ret,
	}
}

func (p *Parser) parseStructDecl() *ast.StructDecl {
	start := p.advance().Span // 'struct'
	id := p.newID()
	name := p.expect(token.Ident).Lexeme
	generics := p.parseGenericParams()
	p.expect(token.LBrace)
	var fields []ast.FieldDecl
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		ty := p.parseType()
		fname := p.expect(token.Ident).Lexeme
		p.match(token.Semi)
		fields = append(fields, ast.FieldDecl{Name: fname, Type: ty})
	}
	end := p.expect(token.RBrace).Span
	return &ast.StructDecl{
		DeclBase: ast.NewDeclBase(id, token.Join(start, end)),
		Name:     name,
		Generics: generics,
		Fields:   fields,
	}
}

func (p *Parser) parseEnumDecl() *ast.EnumDecl {
	start := p.advance().Span // 'enum'
	id := p.newID()
	name := p.expect(token.Ident).Lexeme
	generics := p.parseGenericParams()
	p.expect(token.LBrace)
	var variants []ast.EnumVariant
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		vname := p.expect(token.Ident).Lexeme
		v := ast.EnumVariant{Name: vname, Kind: ast.VariantUnit}
		if p.match(token.LParen) {
			v.Kind = ast.VariantTuple
			for !p.check(token.RParen) && !p.check(token.EOF) {
				v.Payload = append(v.Payload, p.parseType())
				if !p.match(token.Comma) {
					break
				}
			}
			p.expect(token.RParen)
		}
		variants = append(variants, v)
		if !p.match(token.Comma) {
			continue
		}
	}
	end := p.expect(token.RBrace).Span
	return &ast.EnumDecl{
		DeclBase: ast.NewDeclBase(id, token.Join(start, end)),
		Name:     name,
		Generics: generics,
		Variants: variants,
	}
}

func (p *Parser) parseTraitDecl() *ast.TraitDecl {
	start := p.advance().Span // 'trait'
	id := p.newID()
	name := p.expect(token.Ident).Lexeme
	p.expect(token.LBrace)
	var methods []ast.TraitMethod
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		ret := p.parseType()
		mname := p.expect(token.Ident).Lexeme
		params := p.parseParams()
		p.expect(token.Semi)
		methods = append(methods, ast.TraitMethod{Name: mname, Params: params, Ret: ret})
	}
	end := p.expect(token.RBrace).Span
	return &ast.TraitDecl{
		DeclBase: ast.NewDeclBase(id, token.Join(start, end)),
		Name:     name,
		Methods:  methods,
	}
}

// parseImplDecl parses `impl GenericParams? (Trait for)? TypeName { Methods
// }`. The `Trait for` prefix is detected with one identifier of lookahead:
// an Ident immediately followed by KwFor (reusing the loop keyword, per
// spec.md §4.2's grammar note that impl's "for" is the same token).
func (p *Parser) parseImplDecl() *ast.ImplDecl {
	start := p.advance().Span // 'impl'
	id := p.newID()
	p.parseGenericParams() // impl-level generics, not yet threaded into methods

	var traitName, structName string
	first := p.expect(token.Ident).Lexeme
	if p.check(token.KwFor) {
		p.advance()
		traitName = first
		structName = p.expect(token.Ident).Lexeme
	} else {
		structName = first
	}

	p.expect(token.LBrace)
	var methods []*ast.FuncDecl
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		m := p.parseFuncDecl()
		m.Receiver = structName
		methods = append(methods, m)
	}
	end := p.expect(token.RBrace).Span
	return &ast.ImplDecl{
		DeclBase: ast.NewDeclBase(id, token.Join(start, end)),
		Trait:    traitName,
		Struct:   structName,
		Methods:  methods,
	}
}

func (p *Parser) parseGlobalVarDecl() *ast.GlobalVarDecl {
	start := p.advance().Span // 'var'
	id := p.newID()
	name := p.expect(token.Ident).Lexeme
	var annotation ast.Type
	if p.match(token.Colon) {
		annotation = p.parseType()
	}
	p.expect(token.Assign)
	init := p.parseExpr()
	end := p.expect(token.Semi).Span
	return &ast.GlobalVarDecl{
		DeclBase:   ast.NewDeclBase(id, token.Join(start, end)),
		Name:       name,
		Annotation: annotation,
		Init:       init,
	}
}

func (p *Parser) parseImportDecl() *ast.ImportDecl {
	start := p.advance().Span // 'import'
	id := p.newID()
	pathTok := p.expect(token.String)
	end := p.expect(token.Semi).Span
	return &ast.ImportDecl{
		DeclBase: ast.NewDeclBase(id, token.Join(start, end)),
		Path:     pathTok.StringValue,
	}
}
