// Package ast defines the algebraic data model for beryl programs:
// declarations, statements, expressions, and types, each carrying a source
// span (spec.md §3). The node shapes follow the teacher's gql/ast.go
// pattern of one Go struct per AST alternative rather than a single
// discriminated-union struct with unused fields: ASTFuncall, ASTLogicalOp,
// etc. in the teacher become CallExpr, BinaryExpr here. Unlike the teacher, nodes here do not carry an eval() method — this
// compiler has no interpreter, only a resolve/typecheck/monomorphize
// pipeline that hands off to an external code generator (spec.md §1).
package ast

import "github.com/Microindole/beryl/token"

// NodeID uniquely identifies an AST node within one compilation for use as
// a key into side tables (types.Type annotations, scope-tree back
// references) without threading extra fields through every node variant.
// Assigned by the parser in construction order.
type NodeID int32

// Type is a tagged union of the type-expression forms in spec.md §3.
type Type interface {
	isType()
	Span() token.Span
}

type baseType struct{ span token.Span }

func (baseType) isType()              {}
func (t baseType) Span() token.Span   { return t.span }

// IntType, FloatType, BoolType, StringType, VoidType, and UnitType are the
// primitive type forms.
type IntType struct{ baseType }
type FloatType struct{ baseType }
type BoolType struct{ baseType }
type StringType struct{ baseType }
type VoidType struct{ baseType }
type UnitType struct{ baseType }

// ErrorType is the poison type: assignment-compatible with everything, used
// to suppress cascading diagnostics after a type error (spec.md §3, §4.4).
type ErrorType struct{ baseType }

// NullableType is `T?`.
type NullableType struct {
	baseType
	Elem Type
}

// ArrayType is a fixed-size array `[T; N]`.
type ArrayType struct {
	baseType
	Elem Type
	Size int64
}

// VecType is a dynamic vector `Vec<T>`.
type VecType struct {
	baseType
	Elem Type
}

// MapType is a hash map `Map<K,V>` — a SPEC_FULL addition (§8) giving the
// runtime ABI's hashmap_* symbols (spec.md §6) a surface type.
type MapType struct {
	baseType
	Key, Value Type
}

// StructType names a (possibly not-yet-resolved) struct type.
type StructType struct {
	baseType
	Name string
}

// GenericType is an instantiated generic type `Name<Args...>`.
type GenericType struct {
	baseType
	Name string
	Args []Type
}

// GenericParamType is a reference to a generic parameter within a generic
// declaration's own signature (e.g. `T` inside `T identity<T>(T x)`).
type GenericParamType struct {
	baseType
	Name string
}

// FunctionType is a first-class function type (used for closures).
type FunctionType struct {
	baseType
	Params []Type
	Ret    Type
}

// ResultType is `Result<Ok,Err>`.
type ResultType struct {
	baseType
	Ok, Err Type
}

// OptionType is `Option<T>` (SPEC_FULL §8 addition alongside Result).
type OptionType struct {
	baseType
	Elem Type
}

// NewSpanned constructors, used by the parser.

func NewIntType(s token.Span) Type      { return IntType{baseType{s}} }
func NewFloatType(s token.Span) Type    { return FloatType{baseType{s}} }
func NewBoolType(s token.Span) Type     { return BoolType{baseType{s}} }
func NewStringType(s token.Span) Type   { return StringType{baseType{s}} }
func NewVoidType(s token.Span) Type     { return VoidType{baseType{s}} }
func NewUnitType(s token.Span) Type     { return UnitType{baseType{s}} }
func NewErrorType(s token.Span) Type    { return ErrorType{baseType{s}} }

func NewNullableType(s token.Span, elem Type) Type { return NullableType{baseType{s}, elem} }
func NewArrayType(s token.Span, elem Type, size int64) Type {
	return ArrayType{baseType{s}, elem, size}
}
func NewVecType(s token.Span, elem Type) Type { return VecType{baseType{s}, elem} }
func NewMapType(s token.Span, key, value Type) Type {
	return MapType{baseType{s}, key, value}
}
func NewStructType(s token.Span, name string) Type { return StructType{baseType{s}, name} }
func NewGenericType(s token.Span, name string, args []Type) Type {
	return GenericType{baseType{s}, name, args}
}
func NewGenericParamType(s token.Span, name string) Type {
	return GenericParamType{baseType{s}, name}
}
func NewFunctionType(s token.Span, params []Type, ret Type) Type {
	return FunctionType{baseType{s}, params, ret}
}
func NewResultType(s token.Span, ok, err Type) Type { return ResultType{baseType{s}, ok, err} }
func NewOptionType(s token.Span, elem Type) Type    { return OptionType{baseType{s}, elem} }

// TypeString renders a type the way diagnostics quote it. It is
// independent of types.Type's richer String method so that ast stays free
// of a dependency on the types package (the checker depends on ast, not
// the reverse).
func TypeString(t Type) string {
	switch n := t.(type) {
	case IntType:
		return "int"
	case FloatType:
		return "float"
	case BoolType:
		return "bool"
	case StringType:
		return "string"
	case VoidType:
		return "void"
	case UnitType:
		return "()"
	case ErrorType:
		return "<error>"
	case NullableType:
		return TypeString(n.Elem) + "?"
	case ArrayType:
		return "[" + TypeString(n.Elem) + "]"
	case VecType:
		return "Vec<" + TypeString(n.Elem) + ">"
	case MapType:
		return "Map<" + TypeString(n.Key) + "," + TypeString(n.Value) + ">"
	case StructType:
		return n.Name
	case GenericType:
		s := n.Name + "<"
		for i, a := range n.Args {
			if i > 0 {
				s += ","
			}
			s += TypeString(a)
		}
		return s + ">"
	case GenericParamType:
		return n.Name
	case FunctionType:
		s := "("
		for i, p := range n.Params {
			if i > 0 {
				s += ","
			}
			s += TypeString(p)
		}
		return s + ")->" + TypeString(n.Ret)
	case ResultType:
		return "Result<" + TypeString(n.Ok) + "," + TypeString(n.Err) + ">"
	case OptionType:
		return "Option<" + TypeString(n.Elem) + ">"
	default:
		return "?"
	}
}
