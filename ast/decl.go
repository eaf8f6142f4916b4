package ast

import "github.com/Microindole/beryl/token"

// Decl is any top-level or impl-scoped declaration, per spec.md §3's
// Declarations section.
type Decl interface {
	ID() NodeID
	Span() token.Span
}

// DeclBase is the common embedded header every concrete Decl carries.
type DeclBase struct {
	id   NodeID
	span token.Span
}

// NewDeclBase builds a DeclBase for a freshly parsed node.
func NewDeclBase(id NodeID, span token.Span) DeclBase {
	return DeclBase{id: id, span: span}
}

func (d *DeclBase) ID() NodeID       { return d.id }
func (d *DeclBase) Span() token.Span { return d.span }

// GenericParam is one entry of a `<T, U: Bound>` generic parameter list.
// Bound is empty when the parameter is unconstrained.
type GenericParam struct {
	Name  string
	Bound string
}

// Param is one function parameter, `Type name`.
type Param struct {
	Name string
	Type Type
}

// FuncDecl is `Ret name<generics>(Type p, ...) { body }`. A method
// declared inside an ImplDecl reuses the same shape; Receiver is empty for
// free functions and holds the struct name for methods (spec.md §3).
type FuncDecl struct {
	DeclBase
	Name     string
	Generics []GenericParam
	Params   []Param
	Ret      Type
	Body     *BlockStmt
	Receiver string // struct name, set by the parser when parsing inside ImplDecl
}

// ExternFuncDecl is `extern Ret name(Type p, ...);` — a runtime-ABI
// import with no body (spec.md §6).
type ExternFuncDecl struct {
	DeclBase
	Name   string
	Params []Param
	Ret    Type
}

// FieldDecl is one `Type name` struct field.
type FieldDecl struct {
	Name string
	Type Type
}

// StructDecl is `struct Name<generics> { fields }`.
type StructDecl struct {
	DeclBase
	Name     string
	Generics []GenericParam
	Fields   []FieldDecl
}

// EnumVariantKind distinguishes a unit variant (`Red`) from a tuple variant
// carrying a payload (`Circle(float)`), per spec.md §3.
type EnumVariantKind int

const (
	VariantUnit EnumVariantKind = iota
	VariantTuple
)

// EnumVariant is one variant of an EnumDecl.
type EnumVariant struct {
	Name    string
	Kind    EnumVariantKind
	Payload []Type // non-empty only when Kind == VariantTuple
}

// EnumDecl is `enum Name<generics> { variants }`.
type EnumDecl struct {
	DeclBase
	Name     string
	Generics []GenericParam
	Variants []EnumVariant
}

// TraitMethod is one method signature required by a TraitDecl (no body).
type TraitMethod struct {
	Name   string
	Params []Param
	Ret    Type
}

// TraitDecl is `trait Name { method signatures }`.
type TraitDecl struct {
	DeclBase
	Name    string
	Methods []TraitMethod
}

// ImplDecl is `impl [Trait for] StructName { methods }`. Trait is empty for
// an inherent impl block.
type ImplDecl struct {
	DeclBase
	Trait   string
	Struct  string
	Methods []*FuncDecl
}

// GlobalVarDecl is a top-level `var name[: Type] = init;`.
type GlobalVarDecl struct {
	DeclBase
	Name       string
	Annotation Type
	Init       Expr
}

// ImportDecl is `import "path";`. The import is kept in the AST only: the
// resolver does not act on it and no file is read for it.
type ImportDecl struct {
	DeclBase
	Path string
}

// File is the root node of one parsed source file: an ordered sequence of
// top-level declarations.
type File struct {
	Decls []Decl
}

var (
	_ Decl = (*FuncDecl)(nil)
	_ Decl = (*ExternFuncDecl)(nil)
	_ Decl = (*StructDecl)(nil)
	_ Decl = (*EnumDecl)(nil)
	_ Decl = (*TraitDecl)(nil)
	_ Decl = (*ImplDecl)(nil)
	_ Decl = (*GlobalVarDecl)(nil)
	_ Decl = (*ImportDecl)(nil)
)
