// Package types implements the bidirectional type checker described in
// spec.md §4.4: it re-walks the scope tree the resolve package built,
// consuming scope.Tree's cursor-synchronized NextChild in exactly the
// structural order the resolver used, and mutates each ast.Expr in place
// via SetResolvedType. Type compatibility and the checker's generic
// substitution key off the Type representation defined here rather than
// ast.Type directly (mono substitutes and mangles ast.Type itself), since
// the checker needs a canonical, comparable form to hash and compare types
// (ast.Type's struct-per-variant shape is good for parsing but awkward for
// equality).
package types

import (
	"fmt"

	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/token"
)

// Kind is the checker's canonical type tag, a flattened counterpart to
// ast.Type's variant structs.
type Kind int

const (
	KInt Kind = iota
	KFloat
	KBool
	KString
	KVoid
	KUnit
	KError // poison type, spec.md §3/§9
	KNullable
	KArray
	KVec
	KMap
	KStruct
	KGeneric
	KGenericParam
	KFunction
	KResult
	KOption
)

// Type is the checker's internal type representation. Only the fields
// relevant to Kind are populated; zero values elsewhere.
type Type struct {
	Kind Kind

	Name string // KStruct, KGeneric, KGenericParam
	Elem *Type  // KNullable, KArray, KVec, KOption
	Size int64  // KArray

	Key, Value *Type // KMap

	Args []Type // KGeneric

	Params []Type // KFunction
	Ret    *Type  // KFunction

	Ok, Err *Type // KResult
}

var (
	Int    = Type{Kind: KInt}
	Float  = Type{Kind: KFloat}
	Bool   = Type{Kind: KBool}
	String = Type{Kind: KString}
	Void   = Type{Kind: KVoid}
	Unit   = Type{Kind: KUnit}
	Error  = Type{Kind: KError}
)

func Nullable(t Type) Type { return Type{Kind: KNullable, Elem: &t} }
func Array(t Type, n int64) Type { return Type{Kind: KArray, Elem: &t, Size: n} }
func Vec(t Type) Type      { return Type{Kind: KVec, Elem: &t} }
func MapOf(k, v Type) Type { return Type{Kind: KMap, Key: &k, Value: &v} }
func Struct(name string) Type { return Type{Kind: KStruct, Name: name} }
func Generic(name string, args []Type) Type { return Type{Kind: KGeneric, Name: name, Args: args} }
func GenericParam(name string) Type { return Type{Kind: KGenericParam, Name: name} }
func Function(params []Type, ret Type) Type { return Type{Kind: KFunction, Params: params, Ret: &ret} }
func Result(ok, err Type) Type { return Type{Kind: KResult, Ok: &ok, Err: &err} }
func Option(t Type) Type   { return Type{Kind: KOption, Elem: &t} }

// IsError reports whether t is the poison type.
func (t Type) IsError() bool { return t.Kind == KError }

// String renders t the way diagnostics quote it, matching ast.TypeString's
// surface syntax except that arrays include their size (`[int; 2]`).
func (t Type) String() string {
	switch t.Kind {
	case KInt:
		return "int"
	case KFloat:
		return "float"
	case KBool:
		return "bool"
	case KString:
		return "string"
	case KVoid:
		return "void"
	case KUnit:
		return "()"
	case KError:
		return "<error>"
	case KNullable:
		return t.Elem.String() + "?"
	case KArray:
		return fmt.Sprintf("[%s; %d]", t.Elem.String(), t.Size)
	case KVec:
		return "Vec<" + t.Elem.String() + ">"
	case KMap:
		return "Map<" + t.Key.String() + "," + t.Value.String() + ">"
	case KStruct:
		return t.Name
	case KGeneric:
		s := t.Name + "<"
		for i, a := range t.Args {
			if i > 0 {
				s += ","
			}
			s += a.String()
		}
		return s + ">"
	case KGenericParam:
		return t.Name
	case KFunction:
		s := "("
		for i, p := range t.Params {
			if i > 0 {
				s += ","
			}
			s += p.String()
		}
		return s + ")->" + t.Ret.String()
	case KResult:
		return "Result<" + t.Ok.String() + "," + t.Err.String() + ">"
	case KOption:
		return "Option<" + t.Elem.String() + ">"
	default:
		return "?"
	}
}

// Equal reports structural equality, ignoring spans (ast.Type carries
// spans; Type deliberately does not, so two occurrences of `int` anywhere
// in the program compare equal).
func Equal(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KStruct, KGenericParam:
		return a.Name == b.Name
	case KGeneric:
		if a.Name != b.Name || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case KNullable, KVec, KOption:
		return Equal(*a.Elem, *b.Elem)
	case KArray:
		return a.Size == b.Size && Equal(*a.Elem, *b.Elem)
	case KMap:
		return Equal(*a.Key, *b.Key) && Equal(*a.Value, *b.Value)
	case KFunction:
		if len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return Equal(*a.Ret, *b.Ret)
	case KResult:
		return Equal(*a.Ok, *b.Ok) && Equal(*a.Err, *b.Err)
	default:
		return true
	}
}

// IsNumeric reports whether t is int or float.
func IsNumeric(t Type) bool { return t.Kind == KInt || t.Kind == KFloat }

// AssignableTo reports whether a value of type from may be used where to is
// expected, per spec.md §3's poison-type rule ("Error is compatible with
// any type") and §4.4's promotion rules (int promotes to float; T is
// assignable to T?).
func AssignableTo(from, to Type) bool {
	if from.IsError() || to.IsError() {
		return true
	}
	if Equal(from, to) {
		return true
	}
	if to.Kind == KNullable {
		if from.Kind == KNullable {
			return AssignableTo(*from.Elem, *to.Elem)
		}
		return AssignableTo(from, *to.Elem)
	}
	if to.Kind == KFloat && from.Kind == KInt {
		return true
	}
	return false
}

// FromAST converts a parsed ast.Type into the checker's Type. Every bare
// identifier becomes Struct(name) without any lookup (generic parameter
// names included); the caller is responsible for reporting UndefinedType if
// that struct was never declared.
func FromAST(t ast.Type) Type {
	switch n := t.(type) {
	case ast.IntType:
		return Int
	case ast.FloatType:
		return Float
	case ast.BoolType:
		return Bool
	case ast.StringType:
		return String
	case ast.VoidType:
		return Void
	case ast.UnitType:
		return Unit
	case ast.ErrorType:
		return Error
	case ast.NullableType:
		return Nullable(FromAST(n.Elem))
	case ast.ArrayType:
		return Array(FromAST(n.Elem), n.Size)
	case ast.VecType:
		return Vec(FromAST(n.Elem))
	case ast.MapType:
		return MapOf(FromAST(n.Key), FromAST(n.Value))
	case ast.StructType:
		return Struct(n.Name)
	case ast.GenericType:
		args := make([]Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = FromAST(a)
		}
		return Generic(n.Name, args)
	case ast.GenericParamType:
		return GenericParam(n.Name)
	case ast.FunctionType:
		params := make([]Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = FromAST(p)
		}
		return Function(params, FromAST(n.Ret))
	case ast.ResultType:
		return Result(FromAST(n.Ok), FromAST(n.Err))
	case ast.OptionType:
		return Option(FromAST(n.Elem))
	default:
		return Error
	}
}

// ToAST converts a checker Type back into an ast.Type with a zero span, for
// the slot the checker writes Types into: scope.Symbol.Type, both during
// flow-sensitive narrowing (spec.md §4.4/§9) and when it records a
// variable's inferred type. The
// span is irrelevant there since symbol types are never themselves the
// primary span of a diagnostic.
func ToAST(t Type) ast.Type {
	var z token.Span
	switch t.Kind {
	case KInt:
		return ast.NewIntType(z)
	case KFloat:
		return ast.NewFloatType(z)
	case KBool:
		return ast.NewBoolType(z)
	case KString:
		return ast.NewStringType(z)
	case KVoid:
		return ast.NewVoidType(z)
	case KUnit:
		return ast.NewUnitType(z)
	case KNullable:
		return ast.NewNullableType(z, ToAST(*t.Elem))
	case KArray:
		return ast.NewArrayType(z, ToAST(*t.Elem), t.Size)
	case KVec:
		return ast.NewVecType(z, ToAST(*t.Elem))
	case KMap:
		return ast.NewMapType(z, ToAST(*t.Key), ToAST(*t.Value))
	case KStruct:
		return ast.NewStructType(z, t.Name)
	case KGeneric:
		args := make([]ast.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = ToAST(a)
		}
		return ast.NewGenericType(z, t.Name, args)
	case KGenericParam:
		return ast.NewGenericParamType(z, t.Name)
	case KFunction:
		params := make([]ast.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = ToAST(p)
		}
		return ast.NewFunctionType(z, params, ToAST(*t.Ret))
	case KResult:
		return ast.NewResultType(z, ToAST(*t.Ok), ToAST(*t.Err))
	case KOption:
		return ast.NewOptionType(z, ToAST(*t.Elem))
	default:
		return ast.NewErrorType(z)
	}
}

// Substitute implements spec.md §4.4's `substitute(Type, map) → Type`: it
// walks t replacing GenericParam(n) and bare Struct(n) (when n is a key of
// m) with the mapped type, recursing into nested generic types.
func Substitute(t Type, m map[string]Type) Type {
	switch t.Kind {
	case KGenericParam:
		if repl, ok := m[t.Name]; ok {
			return repl
		}
		return t
	case KStruct:
		if repl, ok := m[t.Name]; ok {
			return repl
		}
		return t
	case KNullable:
		return Nullable(Substitute(*t.Elem, m))
	case KArray:
		return Array(Substitute(*t.Elem, m), t.Size)
	case KVec:
		return Vec(Substitute(*t.Elem, m))
	case KOption:
		return Option(Substitute(*t.Elem, m))
	case KMap:
		return MapOf(Substitute(*t.Key, m), Substitute(*t.Value, m))
	case KGeneric:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = Substitute(a, m)
		}
		return Generic(t.Name, args)
	case KFunction:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = Substitute(p, m)
		}
		return Function(params, Substitute(*t.Ret, m))
	case KResult:
		return Result(Substitute(*t.Ok, m), Substitute(*t.Err, m))
	default:
		return t
	}
}

// Mangle implements spec.md §4.5's name-mangling table for checker Types.
// Nothing in the compiler calls it; the monomorphizer names specializations
// with its ast.Type counterpart, mono's mangleType, which renders the same.
func Mangle(t Type) string {
	switch t.Kind {
	case KInt:
		return "int"
	case KFloat:
		return "float"
	case KBool:
		return "bool"
	case KString:
		return "string"
	case KVoid:
		return "void"
	case KStruct:
		return t.Name
	case KGeneric:
		s := t.Name
		for _, a := range t.Args {
			s += "_" + Mangle(a)
		}
		return s
	case KArray:
		return fmt.Sprintf("Arr_%s_%d", Mangle(*t.Elem), t.Size)
	case KVec:
		return "Vec_" + Mangle(*t.Elem)
	case KNullable:
		return "Opt_" + Mangle(*t.Elem)
	case KResult:
		return "Result__" + Mangle(*t.Ok) + "_" + Mangle(*t.Err)
	default:
		return t.String()
	}
}

// MangleInstantiation joins a generic declaration's base name with its
// concrete argument list per spec.md §4.5/§9: `Name__arg1_arg2…`.
func MangleInstantiation(name string, args []Type) string {
	s := name + "__"
	for i, a := range args {
		if i > 0 {
			s += "_"
		}
		s += Mangle(a)
	}
	return s
}
