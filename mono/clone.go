package mono

import (
	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/types"
)

func (m *Monomorphizer) specializeBlock(b *ast.BlockStmt, sub map[string]ast.Type) *ast.BlockStmt {
	if b == nil {
		return nil
	}
	stmts := make([]ast.Stmt, len(b.Stmts))
	for i, s := range b.Stmts {
		stmts[i] = m.specializeStmt(s, sub)
	}
	return &ast.BlockStmt{StmtBase: ast.NewStmtBase(m.newID(), b.Span()), Stmts: stmts}
}

func (m *Monomorphizer) specializeLValue(e ast.LValue, sub map[string]ast.Type) ast.LValue {
	cloned := m.specializeExpr(e, sub)
	lv, _ := cloned.(ast.LValue)
	return lv
}

func (m *Monomorphizer) specializeStmt(s ast.Stmt, sub map[string]ast.Type) ast.Stmt {
	switch st := s.(type) {
	case *ast.VarDeclStmt:
		var ann ast.Type
		if st.Annotation != nil {
			ann = substType(st.Annotation, sub)
		}
		var init ast.Expr
		if st.Init != nil {
			init = m.specializeExpr(st.Init, sub)
		}
		return &ast.VarDeclStmt{StmtBase: ast.NewStmtBase(m.newID(), st.Span()), Name: st.Name, Annotation: ann, Init: init}
	case *ast.AssignStmt:
		return &ast.AssignStmt{
			StmtBase: ast.NewStmtBase(m.newID(), st.Span()),
			Target:   m.specializeLValue(st.Target, sub),
			Value:    m.specializeExpr(st.Value, sub),
		}
	case *ast.ExprStmt:
		return &ast.ExprStmt{StmtBase: ast.NewStmtBase(m.newID(), st.Span()), Expr: m.specializeExpr(st.Expr, sub)}
	case *ast.BlockStmt:
		return m.specializeBlock(st, sub)
	case *ast.IfStmt:
		var elseStmt ast.Stmt
		if st.Else != nil {
			elseStmt = m.specializeStmt(st.Else, sub)
		}
		return &ast.IfStmt{
			StmtBase: ast.NewStmtBase(m.newID(), st.Span()),
			Cond:     m.specializeExpr(st.Cond, sub),
			Then:     m.specializeBlock(st.Then, sub),
			Else:     elseStmt,
		}
	case *ast.WhileStmt:
		return &ast.WhileStmt{
			StmtBase: ast.NewStmtBase(m.newID(), st.Span()),
			Cond:     m.specializeExpr(st.Cond, sub),
			Body:     m.specializeBlock(st.Body, sub),
		}
	case *ast.ForStmt:
		var init, post ast.Stmt
		var cond ast.Expr
		if st.Init != nil {
			init = m.specializeStmt(st.Init, sub)
		}
		if st.Cond != nil {
			cond = m.specializeExpr(st.Cond, sub)
		}
		if st.Post != nil {
			post = m.specializeStmt(st.Post, sub)
		}
		return &ast.ForStmt{StmtBase: ast.NewStmtBase(m.newID(), st.Span()), Init: init, Cond: cond, Post: post, Body: m.specializeBlock(st.Body, sub)}
	case *ast.ForInStmt:
		return &ast.ForInStmt{
			StmtBase: ast.NewStmtBase(m.newID(), st.Span()),
			Name:     st.Name,
			Iterable: m.specializeExpr(st.Iterable, sub),
			Body:     m.specializeBlock(st.Body, sub),
		}
	case *ast.BreakStmt:
		return &ast.BreakStmt{StmtBase: ast.NewStmtBase(m.newID(), st.Span())}
	case *ast.ContinueStmt:
		return &ast.ContinueStmt{StmtBase: ast.NewStmtBase(m.newID(), st.Span())}
	case *ast.ReturnStmt:
		var v ast.Expr
		if st.Value != nil {
			v = m.specializeExpr(st.Value, sub)
		}
		return &ast.ReturnStmt{StmtBase: ast.NewStmtBase(m.newID(), st.Span()), Value: v}
	default:
		return s
	}
}

func (m *Monomorphizer) specializeExprs(es []ast.Expr, sub map[string]ast.Type) []ast.Expr {
	out := make([]ast.Expr, len(es))
	for i, e := range es {
		out[i] = m.specializeExpr(e, sub)
	}
	return out
}

// specializeExpr deep-clones e, substituting generic-parameter types via
// sub and, at every generic-function call or generic-struct literal site it
// encounters, enqueuing a specialization job (with its own type arguments
// substituted through sub first, so nested generic usage inside an
// already-generic body resolves to concrete types once the outer job is
// itself concrete) and rewriting the site to reference the mangled
// specialization directly. Each clone carries the checker's type of e,
// substituted through sub.
func (m *Monomorphizer) specializeExpr(e ast.Expr, sub map[string]ast.Type) (out ast.Expr) {
	defer func() {
		if out == nil || out == e {
			return
		}
		if t, ok := e.ResolvedType().(types.Type); ok {
			st := make(map[string]types.Type, len(sub))
			for k, v := range sub {
				st[k] = types.FromAST(v)
			}
			out.SetResolvedType(types.Substitute(t, st))
		}
	}()
	switch ex := e.(type) {
	case *ast.LiteralExpr:
		clone := *ex
		clone.ExprBase = ast.NewExprBase(m.newID(), ex.Span())
		return &clone
	case *ast.UnitExpr:
		return &ast.UnitExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span())}
	case *ast.NoneExpr:
		return &ast.NoneExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span())}
	case *ast.VarExpr:
		return &ast.VarExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Name: ex.Name}
	case *ast.BinaryExpr:
		return &ast.BinaryExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Op: ex.Op, Left: m.specializeExpr(ex.Left, sub), Right: m.specializeExpr(ex.Right, sub)}
	case *ast.UnaryExpr:
		return &ast.UnaryExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Op: ex.Op, Operand: m.specializeExpr(ex.Operand, sub)}
	case *ast.GenericInstExpr:
		// A bare generic reference not wrapped in a call (spec.md's grammar
		// allows `f::<T>` standalone as a first-class function value).
		args := make([]ast.Type, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = substType(a, sub)
		}
		if v, ok := ex.Callee.(*ast.VarExpr); ok {
			mangled := m.enqueue(jobFunc, v.Name, args)
			return &ast.VarExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Name: mangled}
		}
		return &ast.GenericInstExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Callee: m.specializeExpr(ex.Callee, sub), Args: args}
	case *ast.CallExpr:
		if inst, ok := ex.Callee.(*ast.GenericInstExpr); ok {
			if v, ok := inst.Callee.(*ast.VarExpr); ok {
				args := make([]ast.Type, len(inst.Args))
				for i, a := range inst.Args {
					args[i] = substType(a, sub)
				}
				mangled := m.enqueue(jobFunc, v.Name, args)
				callee := &ast.VarExpr{ExprBase: ast.NewExprBase(m.newID(), inst.Span()), Name: mangled}
				return &ast.CallExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Callee: callee, Args: m.specializeExprs(ex.Args, sub)}
			}
		}
		return &ast.CallExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Callee: m.specializeExpr(ex.Callee, sub), Args: m.specializeExprs(ex.Args, sub)}
	case *ast.GetExpr:
		return &ast.GetExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Object: m.specializeExpr(ex.Object, sub), Field: ex.Field}
	case *ast.SafeGetExpr:
		return &ast.SafeGetExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Object: m.specializeExpr(ex.Object, sub), Field: ex.Field}
	case *ast.IndexExpr:
		return &ast.IndexExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Object: m.specializeExpr(ex.Object, sub), Index: m.specializeExpr(ex.Index, sub)}
	case *ast.ArrayLitExpr:
		return &ast.ArrayLitExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Elems: m.specializeExprs(ex.Elems, sub)}
	case *ast.VecLitExpr:
		return &ast.VecLitExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Elems: m.specializeExprs(ex.Elems, sub)}
	case *ast.StructLitExpr:
		fields := make([]ast.StructLitField, len(ex.Fields))
		for i, f := range ex.Fields {
			fields[i] = ast.StructLitField{Name: f.Name, Expr: m.specializeExpr(f.Expr, sub)}
		}
		if len(ex.GenericArgs) > 0 {
			args := make([]ast.Type, len(ex.GenericArgs))
			for i, a := range ex.GenericArgs {
				args[i] = substType(a, sub)
			}
			mangled := m.enqueue(jobStruct, ex.TypeName, args)
			return &ast.StructLitExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), TypeName: mangled, Fields: fields}
		}
		return &ast.StructLitExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), TypeName: ex.TypeName, Fields: fields}
	case *ast.ClosureExpr:
		return &ast.ClosureExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Params: substParams(ex.Params, sub), Body: m.specializeExpr(ex.Body, sub)}
	case *ast.MatchExpr:
		cases := make([]ast.MatchCase, len(ex.Cases))
		for i, c := range ex.Cases {
			cases[i] = ast.MatchCase{Pattern: c.Pattern, Body: m.specializeExpr(c.Body, sub)}
		}
		var def ast.Expr
		if ex.Default != nil {
			def = m.specializeExpr(ex.Default, sub)
		}
		return &ast.MatchExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Value: m.specializeExpr(ex.Value, sub), Cases: cases, Default: def}
	case *ast.TryExpr:
		return &ast.TryExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Operand: m.specializeExpr(ex.Operand, sub)}
	case *ast.OkExpr:
		return &ast.OkExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Value: m.specializeExpr(ex.Value, sub)}
	case *ast.ErrExpr:
		return &ast.ErrExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Value: m.specializeExpr(ex.Value, sub)}
	case *ast.SomeExpr:
		return &ast.SomeExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Value: m.specializeExpr(ex.Value, sub)}
	case *ast.PrintExpr:
		return &ast.PrintExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Value: m.specializeExpr(ex.Value, sub)}
	case *ast.StringBuiltinExpr:
		return &ast.StringBuiltinExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Builtin: ex.Builtin, Args: m.specializeExprs(ex.Args, sub)}
	case *ast.FileBuiltinExpr:
		return &ast.FileBuiltinExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Builtin: ex.Builtin, Args: m.specializeExprs(ex.Args, sub)}
	case *ast.CastExpr:
		return &ast.CastExpr{ExprBase: ast.NewExprBase(m.newID(), ex.Span()), Operand: m.specializeExpr(ex.Operand, sub), Target: substType(ex.Target, sub)}
	default:
		return e
	}
}
