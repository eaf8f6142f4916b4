// Package mono implements monomorphization (spec.md §4.5): a worklist/
// fixed-point pass over the type-checked AST that replaces every concrete
// instantiation of a generic function or struct with a freshly cloned,
// fully-substituted declaration, deterministically named per the mangling
// rules in spec.md §4.5/§9 (`Name__arg1_arg2`). The monomorphized AST is
// what the emitter-facing contract (emitcontract) hands to a future code
// generator — no generic types survive this pass, matching an AOT
// compiler's requirement that every emitted declaration be fully concrete.
package mono

import (
	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/internal/xhash"
	"github.com/Microindole/beryl/internal/xlog"
	"github.com/Microindole/beryl/resolve"
)

// jobKind distinguishes a generic-function instantiation from a
// generic-struct instantiation; both share the same worklist and dedup set,
// keyed by their mangled name's hash (spec.md §9: "a set keyed by
// (decl_id, concrete_args) prevents duplicate specialization" — here the
// mangled name already encodes both, so hashing it is sufficient).
type jobKind int

const (
	jobFunc jobKind = iota
	jobStruct
)

type job struct {
	kind jobKind
	name string
	args []ast.Type
}

// Monomorphizer drives the worklist. nextID allocates NodeIDs for the
// synthetic nodes mono creates (specialized decls, rewritten call sites);
// it starts well above any ID the parser could have produced for a single
// source file, avoiding a second pass over the input to find a watermark.
type Monomorphizer struct {
	res    *resolve.Result
	nextID ast.NodeID
	done   map[string]bool
	queue  []job
	out    []ast.Decl
}

const nodeIDWatermark = ast.NodeID(1 << 20)

func (m *Monomorphizer) newID() ast.NodeID {
	m.nextID++
	return m.nextID
}

// enqueue registers a specialization job if it hasn't been seen before and
// returns the instantiation's mangled name.
func (m *Monomorphizer) enqueue(kind jobKind, name string, args []ast.Type) string {
	mangled := mangleInstantiation(name, args)
	key := xhash.String(mangled).Key()
	if !m.done[key] {
		m.done[key] = true
		m.queue = append(m.queue, job{kind: kind, name: name, args: args})
	}
	return mangled
}

// Specialize runs monomorphization over f (already resolved and
// type-checked against res) and returns a new File containing every
// non-generic declaration plus one cloned, concrete declaration per
// distinct instantiation reachable from them. Generic templates themselves are
// dropped from the output, per spec.md §4.5: nothing generic survives to
// the emitter.
func Specialize(f *ast.File, res *resolve.Result) *ast.File {
	m := &Monomorphizer{res: res, nextID: nodeIDWatermark, done: map[string]bool{}}

	for _, d := range f.Decls {
		switch decl := d.(type) {
		case *ast.FuncDecl:
			if len(decl.Generics) > 0 {
				continue
			}
			m.out = append(m.out, m.specializeFuncDecl(decl, nil))
		case *ast.ImplDecl:
			if sdecl, ok := res.Structs[decl.Struct]; ok && len(sdecl.Generics) > 0 {
				continue // methods on a generic struct are specialized per-instantiation
			}
			for _, meth := range decl.Methods {
				m.out = append(m.out, m.specializeFuncDecl(meth, nil))
			}
		case *ast.StructDecl:
			if len(decl.Generics) > 0 {
				continue
			}
			m.out = append(m.out, decl)
		case *ast.GlobalVarDecl:
			clone := *decl
			if decl.Init != nil {
				clone.Init = m.specializeExpr(decl.Init, nil)
			}
			m.out = append(m.out, &clone)
		case *ast.EnumDecl, *ast.TraitDecl, *ast.ExternFuncDecl, *ast.ImportDecl:
			m.out = append(m.out, decl)
		}
	}

	xlog.Debugf(xlog.Unknown, "mono: %d non-generic decl(s) cloned, %d job(s) queued", len(m.out), len(m.queue))
	for len(m.queue) > 0 {
		j := m.queue[0]
		m.queue = m.queue[1:]
		switch j.kind {
		case jobFunc:
			m.specializeFuncJob(j)
		case jobStruct:
			m.specializeStructJob(j)
		}
	}
	xlog.Debugf(xlog.Unknown, "mono: done, %d decl(s) in specialized output", len(m.out))

	return &ast.File{Decls: m.out}
}

func (m *Monomorphizer) specializeFuncJob(j job) {
	fn, ok := m.res.Funcs[j.name]
	if !ok {
		// No function of this name exists; the call site has already been
		// diagnosed by the resolver or the checker (spec.md §7's
		// collect-and-continue); nothing to specialize.
		return
	}
	decl, ok := fn.Decl.(*ast.FuncDecl)
	if !ok {
		// A generic instantiation job can only be enqueued for a name the
		// grammar lets carry <T> generics, and extern declarations never
		// do (resolve.FuncInfo.Extern functions have no Generics per the
		// parser's extern-decl grammar) — FuncInfo.Decl not being a
		// *ast.FuncDecl here means resolve produced a FuncInfo the rest of
		// the compiler's own invariants say can't exist.
		xlog.Panicf(xlog.Unknown, "mono: generic job %q resolved to a non-FuncDecl %T", j.name, fn.Decl)
	}
	mangled := mangleInstantiation(j.name, j.args)
	sub := genericSub(decl.Generics, j.args)
	m.out = append(m.out, m.specializeFuncDecl(decl, sub))
	// The last appended decl still carries decl's original Name; rename it
	// to the mangled specialization name.
	m.out[len(m.out)-1].(*ast.FuncDecl).Name = mangled
}

func (m *Monomorphizer) specializeStructJob(j job) {
	decl, ok := m.res.Structs[j.name]
	if !ok {
		return
	}
	mangled := mangleInstantiation(j.name, j.args)
	sub := genericSub(decl.Generics, j.args)

	fields := make([]ast.FieldDecl, len(decl.Fields))
	for i, f := range decl.Fields {
		fields[i] = ast.FieldDecl{Name: f.Name, Type: substType(f.Type, sub)}
	}
	m.out = append(m.out, &ast.StructDecl{
		DeclBase: ast.NewDeclBase(m.newID(), decl.Span()),
		Name:     mangled,
		Fields:   fields,
	})

	for _, meth := range m.res.StructMethods[j.name] {
		specialized := m.specializeFuncDecl(meth, sub)
		specialized.Name = resolve.MangleMethod(mangled, meth.Name)
		specialized.Receiver = mangled
		m.out = append(m.out, specialized)
	}
}

func (m *Monomorphizer) specializeFuncDecl(decl *ast.FuncDecl, sub map[string]ast.Type) *ast.FuncDecl {
	return &ast.FuncDecl{
		DeclBase: ast.NewDeclBase(m.newID(), decl.Span()),
		Name:     decl.Name,
		Params:   substParams(decl.Params, sub),
		Ret:      substType(decl.Ret, sub),
		Body:     m.specializeBlock(decl.Body, sub),
		Receiver: decl.Receiver,
	}
}
