// Package emitcontract documents and concretely types the handoff boundary
// between this compiler core and an external code generator, per spec.md
// §1's explicit exclusion of SSA/LLVM generation and §6's emitter-facing
// notes. Nothing here produces machine code or an IR; Unit is the value a
// future emitter package would consume, and MangleMethod/MangleConstructor
// are the pure naming functions spec.md §4.5 guarantees an emitter can rely
// on without re-deriving them from the AST.
package emitcontract

import (
	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/diag"
	"github.com/Microindole/beryl/resolve"
	"github.com/Microindole/beryl/scope"
	"github.com/Microindole/beryl/types"
)

// Field is one struct field's emitted layout: name, type, and its index
// within declaration order (the ABI's field-offset basis, per spec.md §6's
// note that layout is declaration-order and emitter-computed, not specified
// here beyond the ordering itself).
type Field struct {
	Name  string
	Type  types.Type
	Index int
}

// Variant is one enum variant's emitted payload shape.
type Variant struct {
	Name    string
	Tag     int // declaration-order discriminant
	Payload []types.Type
}

// StructLayout is the emitter-facing shape of one monomorphized struct.
type StructLayout struct {
	Name   string
	Fields []Field
}

// EnumLayout is the emitter-facing shape of one enum (enums are not
// monomorphized on their own — spec.md only mangles generic struct/function
// instantiations — but its variant payload types still need a fixed order
// for tag dispatch).
type EnumLayout struct {
	Name     string
	Variants []Variant
}

// Unit is the complete payload handed to an external code generator: the
// monomorphized program, the scope tree it resolved against (for symbol
// provenance), a type-annotation table keyed by NodeID (since ast.Expr
// stores its Type behind an opaque interface{} to avoid an ast->types
// import cycle, per ast/expr.go's doc comment), and per-declaration layouts.
type Unit struct {
	Program  *ast.File
	Tree     *scope.Tree
	Types    map[ast.NodeID]types.Type
	Structs  []StructLayout
	Enums    []EnumLayout
	Diagnostics []diag.Diagnostic
}

// Build assembles a Unit from a monomorphized file and the resolver result
// it was checked against. It does not re-run resolution or type checking;
// callers run the full compiler.Compile pipeline first.
func Build(program *ast.File, res *resolve.Result, typeTable map[ast.NodeID]types.Type, diags []diag.Diagnostic) Unit {
	u := Unit{Program: program, Tree: res.Tree, Types: typeTable, Diagnostics: diags}

	for _, d := range program.Decls {
		switch decl := d.(type) {
		case *ast.StructDecl:
			layout := StructLayout{Name: decl.Name}
			for i, f := range decl.Fields {
				layout.Fields = append(layout.Fields, Field{Name: f.Name, Type: types.FromAST(f.Type), Index: i})
			}
			u.Structs = append(u.Structs, layout)
		case *ast.EnumDecl:
			layout := EnumLayout{Name: decl.Name}
			for i, v := range decl.Variants {
				variant := Variant{Name: v.Name, Tag: i}
				for _, p := range v.Payload {
					variant.Payload = append(variant.Payload, types.FromAST(p))
				}
				layout.Variants = append(layout.Variants, variant)
			}
			u.Enums = append(u.Enums, layout)
		}
	}
	return u
}

// MangleMethod reproduces spec.md §4.5's `TypeName_method` rule for a
// struct/enum method, matching resolve.MangleMethod exactly — re-exported
// here so an emitter depends only on this package, not on resolve's larger
// surface.
func MangleMethod(typeName, method string) string {
	return resolve.MangleMethod(typeName, method)
}

// MangleConstructor reproduces spec.md §4.5's `EnumName_Variant` rule for an
// enum variant constructor symbol.
func MangleConstructor(enumName, variant string) string {
	return enumName + "_" + variant
}
