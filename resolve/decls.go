package resolve

import (
	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/diag"
	"github.com/Microindole/beryl/scope"
	"github.com/Microindole/beryl/token"
)

// collectDecls is pass 1 (spec.md §4.3): define every top-level
// declaration's symbol in the global scope in program order, so later
// references (including forward ones) can resolve. Impls are attached to
// their target struct here too, since that attachment does not depend on
// any body having been walked yet.
func (r *resolver) collectDecls(f *ast.File) {
	for _, d := range f.Decls {
		switch decl := d.(type) {
		case *ast.FuncDecl:
			r.defineFunc(decl.Name, decl.Params, decl.Ret, decl.Generics, "", false, decl, decl.Span())
		case *ast.ExternFuncDecl:
			r.defineFunc(decl.Name, decl.Params, decl.Ret, nil, "", true, decl, decl.Span())
		case *ast.StructDecl:
			if _, exists := r.res.Structs[decl.Name]; exists {
				r.err(diag.DuplicateDefinition, decl.Span(), "duplicate definition of struct %q", decl.Name)
			} else {
				r.res.Structs[decl.Name] = decl
			}
			r.define(r.res.Global, decl.Name, scope.SymStruct, ast.NewStructType(decl.Span(), decl.Name), decl, decl.Span())
		case *ast.EnumDecl:
			if _, exists := r.res.Enums[decl.Name]; exists {
				r.err(diag.DuplicateDefinition, decl.Span(), "duplicate definition of enum %q", decl.Name)
			} else {
				r.res.Enums[decl.Name] = decl
			}
			r.define(r.res.Global, decl.Name, scope.SymEnum, ast.NewStructType(decl.Span(), decl.Name), decl, decl.Span())
		case *ast.TraitDecl:
			if _, exists := r.res.Traits[decl.Name]; exists {
				r.err(diag.DuplicateDefinition, decl.Span(), "duplicate definition of trait %q", decl.Name)
			} else {
				r.res.Traits[decl.Name] = decl
			}
			r.define(r.res.Global, decl.Name, scope.SymTrait, ast.NewStructType(decl.Span(), decl.Name), decl, decl.Span())
		case *ast.GlobalVarDecl:
			if _, exists := r.res.Globals[decl.Name]; exists {
				r.err(diag.DuplicateDefinition, decl.Span(), "duplicate definition of %q", decl.Name)
			} else {
				r.res.Globals[decl.Name] = decl
			}
			typ := decl.Annotation
			if typ == nil {
				typ = ast.NewErrorType(decl.Span()) // filled in properly by the checker
			}
			r.define(r.res.Global, decl.Name, scope.SymVariable, typ, decl, decl.Span())
		case *ast.ImportDecl:
			// spec.md §1's Non-goals exclude cross-file module resolution;
			// the import is recorded nowhere beyond the parsed AST itself.
		}
	}

	// Impls are processed after every struct has had a chance to be
	// defined, so an impl appearing before its struct's declaration still
	// attaches correctly (spec.md §4.3's "this pass makes forward
	// references possible").
	for _, d := range f.Decls {
		impl, ok := d.(*ast.ImplDecl)
		if !ok {
			continue
		}
		r.collectImpl(impl)
	}
}

func (r *resolver) collectImpl(impl *ast.ImplDecl) {
	if _, ok := r.res.Structs[impl.Struct]; !ok {
		if _, isEnum := r.res.Enums[impl.Struct]; isEnum {
			// enums may also carry impls (trait conformance); spec.md §4.3
			// only names NotAStruct for the struct case, so enum impls are
			// accepted without a struct-method table entry of their own.
		} else if _, isTrait := r.res.Traits[impl.Struct]; isTrait {
			r.err(diag.NotAStruct, impl.Span(), "%q is a trait, not a struct", impl.Struct)
			return
		} else {
			r.err(diag.UndefinedType, impl.Span(), "undefined type %q", impl.Struct)
			return
		}
	}

	r.res.StructMethods[impl.Struct] = append(r.res.StructMethods[impl.Struct], impl.Methods...)
	for _, m := range impl.Methods {
		mangled := MangleMethod(impl.Struct, m.Name)
		r.defineFunc(mangled, m.Params, m.Ret, m.Generics, impl.Struct, false, m, m.Span())
	}
}

func (r *resolver) defineFunc(name string, params []ast.Param, ret ast.Type, generics []ast.GenericParam, receiver string, extern bool, decl ast.Decl, span token.Span) {
	if _, exists := r.res.Funcs[name]; exists {
		r.err(diag.DuplicateDefinition, span, "duplicate definition of %q", name)
		return
	}
	r.res.Funcs[name] = &FuncInfo{
		Name: name, Params: params, Ret: ret, Generics: generics,
		Receiver: receiver, Extern: extern, Decl: decl,
	}
	r.define(r.res.Global, name, scope.SymFunction, funcType(params, ret), decl, span)
}
