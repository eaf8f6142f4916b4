package resolve

import (
	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/diag"
	"github.com/Microindole/beryl/scope"
	"github.com/Microindole/beryl/symbol"
)

// resolveBodies is pass 2 (spec.md §4.3): walk every function/method body
// and global initializer in program order, pushing scopes and resolving
// identifiers. The order in which Push is called here is the order the
// checker's NextChild replay must later consume.
func (r *resolver) resolveBodies(f *ast.File) {
	for _, d := range f.Decls {
		switch decl := d.(type) {
		case *ast.FuncDecl:
			r.resolveFunc(decl, "")
		case *ast.GlobalVarDecl:
			if decl.Init != nil {
				r.resolveExpr(decl.Init, r.res.Global)
			}
		case *ast.ImplDecl:
			for _, m := range decl.Methods {
				r.resolveFunc(m, decl.Struct)
			}
		}
	}
}

// resolveFunc pushes the function's Function scope, binds its parameters
// (and an implicit `this` for methods, per spec.md §4.3), then resolves the
// body.
func (r *resolver) resolveFunc(fn *ast.FuncDecl, receiver string) {
	fnScope := r.tree.Push(r.res.Global, scope.Function)

	if receiver != "" {
		r.define(fnScope, "this", scope.SymParameter, ast.NewStructType(fn.Span(), receiver), fn, fn.Span())
	}
	for _, p := range fn.Params {
		r.define(fnScope, p.Name, scope.SymParameter, p.Type, fn, fn.Span())
	}
	for _, g := range fn.Generics {
		r.define(fnScope, g.Name, scope.SymGenericParam, ast.NewGenericParamType(fn.Span(), g.Name), fn, fn.Span())
	}

	r.resolveBlockIn(fn.Body, fnScope)
}

// resolveBlockIn resolves stmts's block contents directly in scopeID,
// without pushing a further Block scope of its own — used for a function
// or loop's immediate body, which already owns the scope it runs in.
func (r *resolver) resolveBlockIn(b *ast.BlockStmt, scopeID scope.ID) {
	for _, s := range b.Stmts {
		r.resolveStmt(s, scopeID)
	}
}

// resolveBlock pushes a fresh Block scope as a child of parent and resolves
// b's statements inside it, for blocks that introduce their own lexical
// scope (if/else bodies, bare blocks).
func (r *resolver) resolveBlock(b *ast.BlockStmt, parent scope.ID) {
	blockScope := r.tree.Push(parent, scope.Block)
	r.resolveBlockIn(b, blockScope)
}

func (r *resolver) resolveStmt(s ast.Stmt, cur scope.ID) {
	switch st := s.(type) {
	case *ast.VarDeclStmt:
		if st.Init != nil {
			r.resolveExpr(st.Init, cur)
		}
		typ := st.Annotation
		if typ == nil {
			typ = ast.NewErrorType(st.Span()) // checker fills in the inferred type
		}
		r.define(cur, st.Name, scope.SymVariable, typ, nil, st.Span())
	case *ast.AssignStmt:
		r.resolveExpr(st.Target, cur)
		r.resolveExpr(st.Value, cur)
	case *ast.ExprStmt:
		r.resolveExpr(st.Expr, cur)
	case *ast.BlockStmt:
		r.resolveBlock(st, cur)
	case *ast.IfStmt:
		r.resolveExpr(st.Cond, cur)
		r.resolveBlock(st.Then, cur)
		if st.Else != nil {
			r.resolveStmt(st.Else, cur)
		}
	case *ast.WhileStmt:
		r.resolveExpr(st.Cond, cur)
		loopScope := r.tree.Push(cur, scope.Loop)
		r.resolveBlockIn(st.Body, loopScope)
	case *ast.ForStmt:
		forScope := r.tree.Push(cur, scope.Loop)
		if st.Init != nil {
			r.resolveStmt(st.Init, forScope)
		}
		if st.Cond != nil {
			r.resolveExpr(st.Cond, forScope)
		}
		if st.Post != nil {
			r.resolveStmt(st.Post, forScope)
		}
		r.resolveBlockIn(st.Body, forScope)
	case *ast.ForInStmt:
		r.resolveExpr(st.Iterable, cur)
		loopScope := r.tree.Push(cur, scope.Loop)
		r.define(loopScope, st.Name, scope.SymVariable, ast.NewErrorType(st.Span()), nil, st.Span())
		r.resolveBlockIn(st.Body, loopScope)
	case *ast.BreakStmt, *ast.ContinueStmt:
		// loop-nesting validity is re-checked by the type checker, which
		// tracks loop_depth alongside current_return_type (spec.md §4.4).
	case *ast.ReturnStmt:
		if st.Value != nil {
			r.resolveExpr(st.Value, cur)
		}
	}
}

func (r *resolver) resolveExpr(e ast.Expr, cur scope.ID) {
	switch ex := e.(type) {
	case *ast.VarExpr:
		id := symbol.Intern(ex.Name)
		if _, sym := r.tree.Lookup(cur, id); sym == nil {
			r.err(diag.UndefinedVariable, ex.Span(), "undefined variable %q", ex.Name)
		}
	case *ast.BinaryExpr:
		r.resolveExpr(ex.Left, cur)
		r.resolveExpr(ex.Right, cur)
	case *ast.UnaryExpr:
		r.resolveExpr(ex.Operand, cur)
	case *ast.CallExpr:
		r.resolveExpr(ex.Callee, cur)
		for _, a := range ex.Args {
			r.resolveExpr(a, cur)
		}
	case *ast.GetExpr:
		r.resolveExpr(ex.Object, cur)
	case *ast.SafeGetExpr:
		r.resolveExpr(ex.Object, cur)
	case *ast.IndexExpr:
		r.resolveExpr(ex.Object, cur)
		r.resolveExpr(ex.Index, cur)
	case *ast.ArrayLitExpr:
		for _, el := range ex.Elems {
			r.resolveExpr(el, cur)
		}
	case *ast.VecLitExpr:
		for _, el := range ex.Elems {
			r.resolveExpr(el, cur)
		}
	case *ast.StructLitExpr:
		if _, ok := r.res.Structs[ex.TypeName]; !ok {
			r.err(diag.UndefinedType, ex.Span(), "undefined type %q", ex.TypeName)
		}
		for _, f := range ex.Fields {
			r.resolveExpr(f.Expr, cur)
		}
	case *ast.GenericInstExpr:
		r.resolveExpr(ex.Callee, cur)
	case *ast.ClosureExpr:
		closureScope := r.tree.Push(cur, scope.Function)
		for _, p := range ex.Params {
			r.define(closureScope, p.Name, scope.SymParameter, p.Type, nil, ex.Span())
		}
		r.resolveExpr(ex.Body, closureScope)
	case *ast.MatchExpr:
		r.resolveExpr(ex.Value, cur)
		for _, c := range ex.Cases {
			armScope := r.tree.Push(cur, scope.MatchArm)
			for _, b := range c.Pattern.Bindings {
				r.define(armScope, b, scope.SymVariable, ast.NewErrorType(c.Pattern.Span), nil, c.Pattern.Span)
			}
			r.resolveExprIn(c.Body, armScope)
		}
		if ex.Default != nil {
			defScope := r.tree.Push(cur, scope.MatchArm)
			r.resolveExprIn(ex.Default, defScope)
		}
	case *ast.TryExpr:
		r.resolveExpr(ex.Operand, cur)
	case *ast.OkExpr:
		r.resolveExpr(ex.Value, cur)
	case *ast.ErrExpr:
		r.resolveExpr(ex.Value, cur)
	case *ast.SomeExpr:
		r.resolveExpr(ex.Value, cur)
	case *ast.PrintExpr:
		r.resolveExpr(ex.Value, cur)
	case *ast.StringBuiltinExpr:
		for _, a := range ex.Args {
			r.resolveExpr(a, cur)
		}
	case *ast.FileBuiltinExpr:
		for _, a := range ex.Args {
			r.resolveExpr(a, cur)
		}
	case *ast.CastExpr:
		r.resolveExpr(ex.Operand, cur)
	case *ast.LiteralExpr, *ast.UnitExpr, *ast.NoneExpr:
		// no sub-expressions, no type references to resolve here.
	}
}

// resolveExprIn is resolveExpr for an expression that is itself the body
// of a freshly pushed scope (a match arm), kept distinct for readability at
// call sites.
func (r *resolver) resolveExprIn(e ast.Expr, scopeID scope.ID) {
	r.resolveExpr(e, scopeID)
}
