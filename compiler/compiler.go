// Package compiler wires the frontend, resolver, checker, and
// monomorphizer into the single entrypoint spec.md §1 describes as "source
// text in, emitter-facing contract out, diagnostics alongside". It is the
// ambient orchestration layer SPEC_FULL §6 calls for: options, panic
// recovery, and a thin error-wrapping boundary, grounded on the teacher's
// gql.go top-level Parse/Eval driver and gql/panic.go's Recover idiom.
package compiler

import (
	"github.com/pkg/errors"

	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/diag"
	"github.com/Microindole/beryl/emitcontract"
	"github.com/Microindole/beryl/internal/xlog"
	"github.com/Microindole/beryl/mono"
	"github.com/Microindole/beryl/parser"
	"github.com/Microindole/beryl/resolve"
	"github.com/Microindole/beryl/types"
)

// Options configures one compilation. There is no dedicated config library
// in this repo, matching the teacher, which binds its own flags directly to
// plain structs; cmd/berylc binds these fields to cobra flags.
type Options struct {
	// File is the diagnostic-facing path recorded on every reported
	// diagnostic (spec.md §4.6's `file:line:col` header).
	File string
	// MaxErrors caps the number of LevelError diagnostics returned in
	// Result.Diagnostics; 0 means unlimited. Every phase still runs to
	// completion (spec.md §7's collect-and-continue contract doesn't stop
	// early), this only trims the report handed back to the caller.
	MaxErrors int
}

// Result is everything one Compile call produces.
type Result struct {
	Diagnostics []diag.Diagnostic
	Unit        emitcontract.Unit
}

// HasErrors reports whether any reported diagnostic is error-level (spec.md
// §7's "collect and continue" contract: warnings never block Unit
// construction, errors don't either, but callers typically check this
// before trusting Unit for codegen).
func (r Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Level == diag.LevelError {
			return true
		}
	}
	return false
}

// Compile runs the full pipeline — lex, parse, resolve, type-check,
// monomorphize — over src and returns every diagnostic collected plus the
// emitter-facing Unit. It never returns a non-nil error for a user's
// malformed program; errors are reserved for genuinely unexpected internal
// failures (caught via xlog.Recover, mirroring gql/panic.go), which the
// caller should treat as a compiler bug report, not a diagnostic to show
// the user.
func Compile(src []byte, opts Options) (res Result, err error) {
	sink := diag.NewSink()

	err = xlog.Recover(func() {
		xlog.Debugf(xlog.Unknown, "compiler: compiling %s (%d byte(s))", opts.File, len(src))

		p := parser.New(src, opts.File, sink)
		file := p.ParseFile()

		resolved := resolve.Resolve(file, sink, opts.File)
		types.Check(file, resolved, sink, opts.File)
		specialized := mono.Specialize(file, resolved)

		typeTable := collectTypes(specialized)
		res.Diagnostics = capErrors(sink.Diagnostics(), opts.MaxErrors)
		res.Unit = emitcontract.Build(specialized, resolved, typeTable, res.Diagnostics)

		xlog.Debugf(xlog.Unknown, "compiler: %s done, %d diagnostic(s) reported", opts.File, len(res.Diagnostics))
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "compiler: internal failure")
	}
	return res, nil
}

// capErrors trims ds to at most max LevelError diagnostics, keeping every
// warning/note regardless; max <= 0 means unlimited.
func capErrors(ds []diag.Diagnostic, max int) []diag.Diagnostic {
	if max <= 0 {
		return ds
	}
	out := make([]diag.Diagnostic, 0, len(ds))
	errs := 0
	for _, d := range ds {
		if d.Level == diag.LevelError {
			errs++
			if errs > max {
				continue
			}
		}
		out = append(out, d)
	}
	return out
}

// collectTypes walks the monomorphized program gathering the checker-assigned
// Type that mono carried onto each cloned expression into the NodeID-keyed
// table emitcontract.Unit
// carries, bridging ast.Expr's opaque ResolvedType() slot (see
// ast/expr.go's doc comment on why it can't hold types.Type directly).
func collectTypes(f *ast.File) map[ast.NodeID]types.Type {
	table := map[ast.NodeID]types.Type{}
	var walkExpr func(ast.Expr)
	var walkStmt func(ast.Stmt)

	record := func(e ast.Expr) {
		if t, ok := e.ResolvedType().(types.Type); ok {
			table[e.ID()] = t
		}
	}

	walkExpr = func(e ast.Expr) {
		if e == nil {
			return
		}
		record(e)
		switch ex := e.(type) {
		case *ast.BinaryExpr:
			walkExpr(ex.Left)
			walkExpr(ex.Right)
		case *ast.UnaryExpr:
			walkExpr(ex.Operand)
		case *ast.CallExpr:
			walkExpr(ex.Callee)
			for _, a := range ex.Args {
				walkExpr(a)
			}
		case *ast.GetExpr:
			walkExpr(ex.Object)
		case *ast.SafeGetExpr:
			walkExpr(ex.Object)
		case *ast.IndexExpr:
			walkExpr(ex.Object)
			walkExpr(ex.Index)
		case *ast.ArrayLitExpr:
			for _, el := range ex.Elems {
				walkExpr(el)
			}
		case *ast.VecLitExpr:
			for _, el := range ex.Elems {
				walkExpr(el)
			}
		case *ast.StructLitExpr:
			for _, f := range ex.Fields {
				walkExpr(f.Expr)
			}
		case *ast.GenericInstExpr:
			walkExpr(ex.Callee)
		case *ast.ClosureExpr:
			walkExpr(ex.Body)
		case *ast.MatchExpr:
			walkExpr(ex.Value)
			for _, c := range ex.Cases {
				walkExpr(c.Body)
			}
			walkExpr(ex.Default)
		case *ast.TryExpr:
			walkExpr(ex.Operand)
		case *ast.OkExpr:
			walkExpr(ex.Value)
		case *ast.ErrExpr:
			walkExpr(ex.Value)
		case *ast.SomeExpr:
			walkExpr(ex.Value)
		case *ast.PrintExpr:
			walkExpr(ex.Value)
		case *ast.StringBuiltinExpr:
			for _, a := range ex.Args {
				walkExpr(a)
			}
		case *ast.FileBuiltinExpr:
			for _, a := range ex.Args {
				walkExpr(a)
			}
		case *ast.CastExpr:
			walkExpr(ex.Operand)
		}
	}

	walkStmt = func(s ast.Stmt) {
		if s == nil {
			return
		}
		switch st := s.(type) {
		case *ast.VarDeclStmt:
			walkExpr(st.Init)
		case *ast.AssignStmt:
			walkExpr(st.Target)
			walkExpr(st.Value)
		case *ast.ExprStmt:
			walkExpr(st.Expr)
		case *ast.BlockStmt:
			for _, inner := range st.Stmts {
				walkStmt(inner)
			}
		case *ast.IfStmt:
			walkExpr(st.Cond)
			walkStmt(st.Then)
			walkStmt(st.Else)
		case *ast.WhileStmt:
			walkExpr(st.Cond)
			walkStmt(st.Body)
		case *ast.ForStmt:
			walkStmt(st.Init)
			walkExpr(st.Cond)
			walkStmt(st.Post)
			walkStmt(st.Body)
		case *ast.ForInStmt:
			walkExpr(st.Iterable)
			walkStmt(st.Body)
		case *ast.ReturnStmt:
			walkExpr(st.Value)
		}
	}

	for _, d := range f.Decls {
		switch decl := d.(type) {
		case *ast.FuncDecl:
			walkStmt(decl.Body)
		case *ast.GlobalVarDecl:
			walkExpr(decl.Init)
		}
	}
	return table
}
