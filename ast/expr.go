package ast

import "github.com/Microindole/beryl/token"

// Expr is any expression node. Every concrete type embeds ExprBase, which
// carries the node's span and its resolved Type (filled in by the type
// checker, per spec.md §3's lifecycle: "the AST is ... mutated in place by
// the type checker"). Type is stored as `interface{}` here rather than as
// types.Type to avoid an import cycle (ast is a leaf package that types
// depends on); the checker package defines the concrete accessor.
type Expr interface {
	ID() NodeID
	Span() token.Span
	// ResolvedType returns the type annotation the checker wrote, or nil if
	// the node has not been type-checked yet.
	ResolvedType() interface{}
	SetResolvedType(interface{})
}

// ExprBase is the common embedded header every concrete Expr carries.
// Construct it with NewExprBase; its fields are otherwise unexported so
// that node identity (id) can't be reassigned after construction.
type ExprBase struct {
	id   NodeID
	span token.Span
	typ  interface{}
}

// NewExprBase builds an ExprBase for a freshly parsed node.
func NewExprBase(id NodeID, span token.Span) ExprBase {
	return ExprBase{id: id, span: span}
}

func (e *ExprBase) ID() NodeID                    { return e.id }
func (e *ExprBase) Span() token.Span              { return e.span }
func (e *ExprBase) ResolvedType() interface{}     { return e.typ }
func (e *ExprBase) SetResolvedType(t interface{}) { e.typ = t }

// LiteralKind distinguishes the literal forms in spec.md §3.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitBool
	LitString
	LitNull
)

// LiteralExpr is an int/float/bool/string/null literal.
type LiteralExpr struct {
	ExprBase
	Kind   LiteralKind
	Int    int64
	Float  string // lexeme; parsed to float64 lazily by the checker
	Bool   bool
	String string
}

// UnitExpr is the `()` literal.
type UnitExpr struct{ ExprBase }

// VarExpr references an identifier.
type VarExpr struct {
	ExprBase
	Name string
}

// BinaryOp enumerates the binary operators in spec.md §4.2.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpElvis // ??
)

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	ExprBase
	Op          BinaryOp
	Left, Right Expr
}

// UnaryOp enumerates the unary operators.
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNeg
)

// UnaryExpr is a unary operator application.
type UnaryExpr struct {
	ExprBase
	Op      UnaryOp
	Operand Expr
}

// CallExpr is `callee(args...)`; arguments are always positional.
type CallExpr struct {
	ExprBase
	Callee Expr
	Args   []Expr
}

// GetExpr is `obj.field`.
type GetExpr struct {
	ExprBase
	Object Expr
	Field  string
}

// SafeGetExpr is `obj?.field`.
type SafeGetExpr struct {
	ExprBase
	Object Expr
	Field  string
}

// IndexExpr is `arr[index]`.
type IndexExpr struct {
	ExprBase
	Object Expr
	Index  Expr
}

// ArrayLitExpr is a fixed-size array literal `[e0, e1, ...]`.
type ArrayLitExpr struct {
	ExprBase
	Elems []Expr
}

// VecLitExpr is `vec![e0, e1, ...]`.
type VecLitExpr struct {
	ExprBase
	Elems []Expr
}

// StructLitField is one `name: expr` field of a struct literal.
type StructLitField struct {
	Name string
	Expr Expr
}

// StructLitExpr is `TypeName{f0: v0, ...}`, optionally generic
// (`Box<int>{v: 3}`).
type StructLitExpr struct {
	ExprBase
	TypeName   string
	GenericArgs []Type
	Fields     []StructLitField
}

// GenericInstExpr is `f::<T0,T1,...>`, a bare generic instantiation used
// either standalone or as the callee of a CallExpr.
type GenericInstExpr struct {
	ExprBase
	Callee Expr
	Args   []Type
}

// ClosureExpr is `|Type name, ...| => body`: closure parameters carry
// explicit types like function parameters do, per the original grammar.
type ClosureExpr struct {
	ExprBase
	Params []Param
	Body   Expr
}

// PatternKind distinguishes match-case pattern forms.
type PatternKind int

const (
	// PatternLiteral matches an integer literal scrutinee.
	PatternLiteral PatternKind = iota
	// PatternEnumUnit matches a unit enum variant, e.g. `case Color.Red`.
	PatternEnumUnit
	// PatternEnumTuple matches a payload enum variant, binding its payload
	// fields, e.g. `case Shape.Circle(r)`.
	PatternEnumTuple
	// PatternWildcard matches anything (`case _`).
	PatternWildcard
)

// Pattern is one match-case pattern.
type Pattern struct {
	Kind      PatternKind
	Span      token.Span
	IntValue  int64    // PatternLiteral
	EnumName  string   // PatternEnumUnit / PatternEnumTuple
	Variant   string   // PatternEnumUnit / PatternEnumTuple
	Bindings  []string // PatternEnumTuple: names bound to the payload, in order
}

// MatchCase is one `case pattern => expr` arm.
type MatchCase struct {
	Pattern Pattern
	Body    Expr
}

// MatchExpr is `match value { case p => e, ... }`. Default, if non-nil, is
// the explicit `default => expr` arm; a wildcard `_` arm stays in Cases as
// a PatternWildcard case.
type MatchExpr struct {
	ExprBase
	Value   Expr
	Cases   []MatchCase
	Default Expr
}

// TryExpr is the postfix `expr?` operator.
type TryExpr struct {
	ExprBase
	Operand Expr
}

// OkExpr is `Ok(e)`.
type OkExpr struct {
	ExprBase
	Value Expr
}

// ErrExpr is `Err(e)`.
type ErrExpr struct {
	ExprBase
	Value Expr
}

// SomeExpr is `Some(e)` (SPEC_FULL §8 addition alongside Ok/Err).
type SomeExpr struct {
	ExprBase
	Value Expr
}

// NoneExpr is `None`.
type NoneExpr struct{ ExprBase }

// PrintExpr is the `print(expr)` builtin: exactly one argument.
type PrintExpr struct {
	ExprBase
	Value Expr
}

// StringBuiltin enumerates the string intrinsics in spec.md §3 / SPEC_FULL §8.
type StringBuiltin int

const (
	BuiltinLen StringBuiltin = iota
	BuiltinTrim
	BuiltinSplit
	BuiltinJoin
	BuiltinSubstr
	BuiltinCharToString
	BuiltinFormat
	BuiltinPanic
)

// StringBuiltinExpr is a call to one of the keyworded string intrinsics.
type StringBuiltinExpr struct {
	ExprBase
	Builtin StringBuiltin
	Args    []Expr
}

// FileBuiltin enumerates the file intrinsics.
type FileBuiltin int

const (
	BuiltinReadFile FileBuiltin = iota
	BuiltinWriteFile
)

// FileBuiltinExpr is a call to `read_file`/`write_file`.
type FileBuiltinExpr struct {
	ExprBase
	Builtin FileBuiltin
	Args    []Expr
}

// CastExpr is `expr as TypeName` (SPEC_FULL §8 addition resolving spec.md
// §9's numeric-promotion open question).
type CastExpr struct {
	ExprBase
	Operand Expr
	Target  Type
}

var (
	_ Expr = (*LiteralExpr)(nil)
	_ Expr = (*UnitExpr)(nil)
	_ Expr = (*VarExpr)(nil)
	_ Expr = (*BinaryExpr)(nil)
	_ Expr = (*UnaryExpr)(nil)
	_ Expr = (*CallExpr)(nil)
	_ Expr = (*GetExpr)(nil)
	_ Expr = (*SafeGetExpr)(nil)
	_ Expr = (*IndexExpr)(nil)
	_ Expr = (*ArrayLitExpr)(nil)
	_ Expr = (*VecLitExpr)(nil)
	_ Expr = (*StructLitExpr)(nil)
	_ Expr = (*GenericInstExpr)(nil)
	_ Expr = (*ClosureExpr)(nil)
	_ Expr = (*MatchExpr)(nil)
	_ Expr = (*TryExpr)(nil)
	_ Expr = (*OkExpr)(nil)
	_ Expr = (*ErrExpr)(nil)
	_ Expr = (*SomeExpr)(nil)
	_ Expr = (*NoneExpr)(nil)
	_ Expr = (*PrintExpr)(nil)
	_ Expr = (*StringBuiltinExpr)(nil)
	_ Expr = (*FileBuiltinExpr)(nil)
	_ Expr = (*CastExpr)(nil)
)
