// Package resolve implements the two-pass name resolver described in
// spec.md §4.3: pass 1 collects top-level declarations into the global
// scope (making forward references possible), pass 2 walks every body
// depth-first, pushing scopes and binding identifiers as it goes. The
// scope tree it builds is later re-walked by the type checker via
// scope.Tree's cursor-synchronized NextChild, so both passes must visit
// function/block/loop/match-arm constructs in the same structural order
// used here.
package resolve

import (
	"fmt"

	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/diag"
	"github.com/Microindole/beryl/internal/xlog"
	"github.com/Microindole/beryl/scope"
	"github.com/Microindole/beryl/symbol"
	"github.com/Microindole/beryl/token"
)

// FuncInfo unifies a resolved FuncDecl/ExternFuncDecl/impl-method signature
// for call-site lookup by the type checker, independent of which concrete
// Decl node the signature lives on.
type FuncInfo struct {
	Name     string
	Params   []ast.Param
	Ret      ast.Type
	Generics []ast.GenericParam
	Receiver string // struct name for impl methods, empty for free functions
	Extern   bool
	Decl     ast.Decl // *ast.FuncDecl or *ast.ExternFuncDecl
}

// Result is the resolver's output: the scope tree plus side tables the
// checker and monomorphizer consult by name (spec.md §4.3's "scope tree is
// the resolver's public output alongside the diagnostic sink").
type Result struct {
	Tree   *scope.Tree
	Global scope.ID

	Structs map[string]*ast.StructDecl
	Enums   map[string]*ast.EnumDecl
	Traits  map[string]*ast.TraitDecl

	// Funcs is keyed by call-site name: the plain name for free
	// functions/externs, and the mangled `Struct_method` form for impl
	// methods (spec.md §4.4's "TypeName_m" lookup, §6's mangling
	// guarantee), so the checker performs exactly one map lookup either way.
	Funcs map[string]*FuncInfo

	// StructMethods lists, in declaration order, the methods attached to
	// each struct by its impl blocks (receiver-unqualified names), used by
	// mono when specializing a generic struct's methods alongside its
	// fields. The checker resolves `obj.m(...)` through Funcs instead.
	StructMethods map[string][]*ast.FuncDecl

	Globals map[string]*ast.GlobalVarDecl
}

type resolver struct {
	file string
	sink *diag.Sink
	tree *scope.Tree
	res  *Result
}

// Resolve runs both passes over f, reporting diagnostics into sink tagged
// with file, and returns the resulting scope tree and side tables.
func Resolve(f *ast.File, sink *diag.Sink, file string) *Result {
	tree, global := scope.NewTree()
	r := &resolver{
		file: file,
		sink: sink,
		tree: tree,
		res: &Result{
			Tree:          tree,
			Global:        global,
			Structs:       map[string]*ast.StructDecl{},
			Enums:         map[string]*ast.EnumDecl{},
			Traits:        map[string]*ast.TraitDecl{},
			Funcs:         map[string]*FuncInfo{},
			StructMethods: map[string][]*ast.FuncDecl{},
			Globals:       map[string]*ast.GlobalVarDecl{},
		},
	}
	xlog.Debugf(xlog.Unknown, "resolve: %s starting, %d top-level decl(s)", file, len(f.Decls))
	r.collectDecls(f)
	r.resolveBodies(f)
	xlog.Debugf(xlog.Unknown, "resolve: %s done, %d func(s), %d struct(s), %d enum(s)", file, len(r.res.Funcs), len(r.res.Structs), len(r.res.Enums))
	return r.res
}

func (r *resolver) err(kind diag.Kind, span token.Span, format string, args ...interface{}) {
	r.sink.Report(diag.New(kind, fmt.Sprintf(format, args...)).WithSpan(span).WithFile(r.file))
}

// define interns name, builds its Symbol, and binds it in scopeID, reporting
// DuplicateDefinition at span if the name is already bound there.
func (r *resolver) define(scopeID scope.ID, name string, kind scope.SymbolKind, typ ast.Type, decl ast.Decl, span token.Span) {
	id := symbol.Intern(name)
	sym := &scope.Symbol{Name: id, Kind: kind, Type: typ, Decl: decl, OwnerScope: scopeID}
	if !r.tree.Define(scopeID, id, sym) {
		r.err(diag.DuplicateDefinition, span, "duplicate definition of %q", name)
		return
	}
	xlog.Debugf(xlog.At(span), "resolve: defined %s %q", kind, name)
}

func funcType(params []ast.Param, ret ast.Type) ast.Type {
	ptypes := make([]ast.Type, len(params))
	for i, p := range params {
		ptypes[i] = p.Type
	}
	return ast.NewFunctionType(ret.Span(), ptypes, ret)
}

func MangleMethod(structName, method string) string {
	return fmt.Sprintf("%s_%s", structName, method)
}
