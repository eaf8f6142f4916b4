package types

import (
	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/diag"
	"github.com/Microindole/beryl/internal/xlog"
)

// checkFile walks f.Decls in the same order resolve.resolveBodies did,
// consuming exactly the scopes it pushed via NextChild.
func (c *Checker) checkFile(f *ast.File) {
	for _, d := range f.Decls {
		switch decl := d.(type) {
		case *ast.FuncDecl:
			c.checkFunc(decl, "")
		case *ast.GlobalVarDecl:
			c.checkGlobal(decl)
		case *ast.ImplDecl:
			for _, m := range decl.Methods {
				c.checkFunc(m, decl.Struct)
			}
		}
	}
}

func (c *Checker) checkGlobal(g *ast.GlobalVarDecl) {
	if g.Init == nil {
		return
	}
	got := c.checkExpr(g.Init, c.res.Global)
	if g.Annotation != nil {
		c.checkAssignable(g.Init, got, FromAST(g.Annotation))
	}
}

func (c *Checker) checkFunc(fn *ast.FuncDecl, receiver string) {
	xlog.Debugf(xlog.At(fn.Span()), "types: checking func %q (receiver %q)", fn.Name, receiver)
	fnScope := c.tree.NextChild(c.res.Global)

	prevReturn, prevHas := c.curReturn, c.hasCurReturn
	c.curReturn, c.hasCurReturn = FromAST(fn.Ret), true
	defer func() { c.curReturn, c.hasCurReturn = prevReturn, prevHas }()

	prevBounds := c.curGenericBounds
	c.curGenericBounds = genericBounds(fn.Generics)
	if receiver != "" {
		if decl, ok := c.res.Structs[receiver]; ok {
			for _, g := range decl.Generics {
				c.curGenericBounds[g.Name] = g.Bound
			}
		}
	}
	defer func() { c.curGenericBounds = prevBounds }()

	c.checkBlockIn(fn.Body, fnScope)

	ret := FromAST(fn.Ret)
	if ret.Kind != KVoid && ret.Kind != KUnit && !returnsOnAllPaths(fn.Body) {
		c.err(diag.MissingReturn, fn.Span(), "function %q does not return on all paths", fn.Name)
	}
}

// returnsOnAllPaths implements spec.md §4.4's structural return-completeness
// predicate: a block returns iff any statement in it does; an if returns
// iff both branches return; a bare return returns; everything else doesn't.
func returnsOnAllPaths(b *ast.BlockStmt) bool {
	for _, s := range b.Stmts {
		if stmtReturns(s) {
			return true
		}
	}
	return false
}

func stmtReturns(s ast.Stmt) bool {
	switch st := s.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.BlockStmt:
		return returnsOnAllPaths(st)
	case *ast.IfStmt:
		if st.Else == nil {
			return false
		}
		return returnsOnAllPaths(st.Then) && stmtReturns(st.Else)
	default:
		return false
	}
}
