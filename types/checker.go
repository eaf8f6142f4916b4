package types

import (
	"fmt"

	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/diag"
	"github.com/Microindole/beryl/internal/xlog"
	"github.com/Microindole/beryl/resolve"
	"github.com/Microindole/beryl/scope"
	"github.com/Microindole/beryl/symbol"
	"github.com/Microindole/beryl/token"
)

// narrowEntry is one entry of the checker's smart-cast restore stack
// (spec.md §9: "a stack of (symbol_id, previous_type) works well").
type narrowEntry struct {
	sym  *scope.Symbol
	prev ast.Type
}

// Checker re-walks the scope tree resolve.Resolve built, consuming
// scope.Tree's NextChild cursor to stay synchronized with the resolver's
// traversal (spec.md §4.4), and annotates every ast.Expr with its inferred
// Type.
type Checker struct {
	sink *diag.Sink
	file string
	res  *resolve.Result
	tree *scope.Tree

	curReturn    Type
	hasCurReturn bool
	loopDepth    int

	// curGenericBounds maps the enclosing function's (or its receiver
	// struct's) generic parameter names to their declared trait bound, so
	// checkBinary can consult genericBoundAllows for a GenericParam operand
	// instead of accepting every operator optimistically.
	curGenericBounds map[string]string

	narrowStack []narrowEntry
}

// Check type-checks f against the resolver's output, reporting diagnostics
// into sink.
func Check(f *ast.File, res *resolve.Result, sink *diag.Sink, file string) {
	c := &Checker{sink: sink, file: file, res: res, tree: res.Tree}
	xlog.Debugf(xlog.Unknown, "types: checking %s, %d top-level decl(s)", file, len(f.Decls))
	c.checkFile(f)
	xlog.Debugf(xlog.Unknown, "types: %s done, sink has %d diagnostic(s)", file, sink.Len())
}

func (c *Checker) err(kind diag.Kind, span token.Span, format string, args ...interface{}) {
	c.sink.Report(diag.New(kind, fmt.Sprintf(format, args...)).WithSpan(span).WithFile(c.file))
}

// exprType/setType read and write an Expr's annotation through the
// interface{} slot ast.Expr carries (spec.md §3's "every expression has a
// known Type or Type::Error").
func exprType(e ast.Expr) Type {
	if t, ok := e.ResolvedType().(Type); ok {
		return t
	}
	return Error
}

func setType(e ast.Expr, t Type) Type {
	e.SetResolvedType(t)
	return t
}

// checkAssignable reports TypeMismatch at e's span when got, e's already
// checked type, is not assignable to want.
func (c *Checker) checkAssignable(e ast.Expr, got, want Type) {
	if !AssignableTo(got, want) {
		c.err(diag.TypeMismatch, e.Span(), "type mismatch: expected %s, found %s", want.String(), got.String())
	}
}

// symbolType reads a symbol's current (possibly narrowed) type.
func symbolType(sym *scope.Symbol) Type {
	if sym.Type == nil {
		return Error
	}
	return FromAST(sym.Type)
}

// narrow overwrites sym's Type for the duration of the enclosing scope,
// recording the previous value so it can be restored (spec.md §4.4's smart
// casts, §9's restore-stack design).
func (c *Checker) narrow(sym *scope.Symbol, t Type) {
	c.narrowStack = append(c.narrowStack, narrowEntry{sym: sym, prev: sym.Type})
	sym.Type = ToAST(t)
}

func (c *Checker) narrowMark() int { return len(c.narrowStack) }

func (c *Checker) narrowRestore(mark int) {
	for i := len(c.narrowStack) - 1; i >= mark; i-- {
		e := c.narrowStack[i]
		e.sym.Type = e.prev
	}
	c.narrowStack = c.narrowStack[:mark]
}

func (c *Checker) lookupVar(scopeID scope.ID, name string) (*scope.Symbol, bool) {
	id := symbol.Intern(name)
	_, sym := c.tree.Lookup(scopeID, id)
	return sym, sym != nil
}
