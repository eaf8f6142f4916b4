package types

import (
	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/diag"
	"github.com/Microindole/beryl/scope"
)

func (c *Checker) checkBlockIn(b *ast.BlockStmt, scopeID scope.ID) {
	mark := c.narrowMark()
	for _, s := range b.Stmts {
		c.checkStmt(s, scopeID)
	}
	c.narrowRestore(mark)
}

func (c *Checker) checkBlock(b *ast.BlockStmt, parent scope.ID) {
	child := c.tree.NextChild(parent)
	c.checkBlockIn(b, child)
}

func (c *Checker) checkStmt(s ast.Stmt, cur scope.ID) {
	switch st := s.(type) {
	case *ast.VarDeclStmt:
		c.checkVarDecl(st, cur)
	case *ast.AssignStmt:
		c.checkAssign(st, cur)
	case *ast.ExprStmt:
		c.checkExpr(st.Expr, cur)
	case *ast.BlockStmt:
		c.checkBlock(st, cur)
	case *ast.IfStmt:
		c.checkIf(st, cur)
	case *ast.WhileStmt:
		c.checkExpr(st.Cond, cur)
		loopScope := c.tree.NextChild(cur)
		c.loopDepth++
		c.checkBlockIn(st.Body, loopScope)
		c.loopDepth--
	case *ast.ForStmt:
		loopScope := c.tree.NextChild(cur)
		if st.Init != nil {
			c.checkStmt(st.Init, loopScope)
		}
		if st.Cond != nil {
			c.checkExpr(st.Cond, loopScope)
		}
		if st.Post != nil {
			c.checkStmt(st.Post, loopScope)
		}
		c.loopDepth++
		c.checkBlockIn(st.Body, loopScope)
		c.loopDepth--
	case *ast.ForInStmt:
		iterT := c.checkExpr(st.Iterable, cur)
		loopScope := c.tree.NextChild(cur)
		var elem Type = Error
		switch iterT.Kind {
		case KArray, KVec:
			elem = *iterT.Elem
		default:
			if !iterT.IsError() {
				c.err(diag.TypeMismatch, st.Iterable.Span(), "cannot iterate over %s", iterT.String())
			}
		}
		if sym, ok := c.lookupVar(loopScope, st.Name); ok {
			sym.Type = ToAST(elem)
		}
		c.loopDepth++
		c.checkBlockIn(st.Body, loopScope)
		c.loopDepth--
	case *ast.BreakStmt:
		if c.loopDepth == 0 {
			c.err(diag.BreakOutsideLoop, st.Span(), "break outside a loop")
		}
	case *ast.ContinueStmt:
		if c.loopDepth == 0 {
			c.err(diag.ContinueOutsideLoop, st.Span(), "continue outside a loop")
		}
	case *ast.ReturnStmt:
		c.checkReturn(st, cur)
	}
}

func (c *Checker) checkVarDecl(st *ast.VarDeclStmt, cur scope.ID) {
	var got Type
	if st.Init != nil {
		got = c.checkExpr(st.Init, cur)
	} else {
		got = Error
	}
	declared := got
	if st.Annotation != nil {
		declared = FromAST(st.Annotation)
		if st.Init != nil {
			c.checkAssignable(st.Init, got, declared)
		}
	} else if st.Init == nil {
		c.err(diag.CannotInferType, st.Span(), "cannot infer type of %q without an initializer or annotation", st.Name)
	}
	if sym, ok := c.lookupVar(cur, st.Name); ok {
		sym.Type = ToAST(declared)
	}
}

func (c *Checker) checkAssign(st *ast.AssignStmt, cur scope.ID) {
	targetT := c.checkExpr(st.Target, cur)
	valT := c.checkExpr(st.Value, cur)
	c.checkAssignable(st.Value, valT, targetT)

	// An assignment to a narrowed variable invalidates the narrowing for
	// the remainder of its scope (spec.md §4.4).
	if v, ok := st.Target.(*ast.VarExpr); ok {
		if sym, found := c.lookupVar(cur, v.Name); found {
			for i := len(c.narrowStack) - 1; i >= 0; i-- {
				if c.narrowStack[i].sym == sym {
					sym.Type = ToAST(valT)
					c.narrowStack = append(c.narrowStack[:i], c.narrowStack[i+1:]...)
					break
				}
			}
		}
	}
}

func (c *Checker) checkReturn(st *ast.ReturnStmt, cur scope.ID) {
	if st.Value == nil {
		if c.hasCurReturn && c.curReturn.Kind != KVoid && c.curReturn.Kind != KUnit {
			c.err(diag.TypeMismatch, st.Span(), "expected return value of type %s", c.curReturn.String())
		}
		return
	}
	got := c.checkExpr(st.Value, cur)
	if c.hasCurReturn {
		c.checkAssignable(st.Value, got, c.curReturn)
	}
}

// checkIf applies spec.md §4.4's flow-sensitive null-narrowing rule to the
// `then` branch of guards shaped `x != null` / `null != x`, and to the rest
// of the enclosing block after an early-return guard `if x == null {
// return ...; }`.
func (c *Checker) checkIf(st *ast.IfStmt, cur scope.ID) {
	c.checkExpr(st.Cond, cur)

	narrowVar, narrows, negated := narrowTarget(st.Cond)

	thenChild := c.tree.NextChild(cur)
	if narrows && !negated {
		if sym, ok := c.lookupVar(thenChild, narrowVar); ok && symbolType(sym).Kind == KNullable {
			mark := c.narrowMark()
			c.narrow(sym, *symbolType(sym).Elem)
			c.checkBlockIn(st.Then, thenChild)
			c.narrowRestore(mark)
		} else {
			c.checkBlockIn(st.Then, thenChild)
		}
	} else {
		c.checkBlockIn(st.Then, thenChild)
	}

	if st.Else != nil {
		c.checkStmt(st.Else, cur)
	}

	// Early-return guard: `if x == null { return ...; }` narrows x to
	// non-null for the remainder of the caller's block. The caller
	// (checkBlockIn) owns the enclosing scope and restore point; this
	// function only performs the narrow itself when the then-branch
	// unconditionally returns and the guard tests for null.
	if narrows && negated && st.Else == nil && returnsOnAllPaths(st.Then) {
		if sym, ok := c.lookupVar(cur, narrowVar); ok && symbolType(sym).Kind == KNullable {
			c.narrow(sym, *symbolType(sym).Elem)
		}
	}
}

// narrowTarget inspects a condition for the `x != null` / `null != x`
// (negated=false) or `x == null` / `null == x` (negated=true) shapes,
// returning the narrowed variable's name.
func narrowTarget(cond ast.Expr) (name string, ok bool, negated bool) {
	bin, isBin := cond.(*ast.BinaryExpr)
	if !isBin || (bin.Op != ast.OpEq && bin.Op != ast.OpNe) {
		return "", false, false
	}
	negated = bin.Op == ast.OpEq
	if v, isVar := bin.Left.(*ast.VarExpr); isVar {
		if isNullLit(bin.Right) {
			return v.Name, true, negated
		}
	}
	if v, isVar := bin.Right.(*ast.VarExpr); isVar {
		if isNullLit(bin.Left) {
			return v.Name, true, negated
		}
	}
	return "", false, false
}

func isNullLit(e ast.Expr) bool {
	lit, ok := e.(*ast.LiteralExpr)
	return ok && lit.Kind == ast.LitNull
}
