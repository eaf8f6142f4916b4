package mono

import (
	"strconv"

	"github.com/Microindole/beryl/ast"
)

// substType implements spec.md §4.5's `substitute(Type, map) → Type` at the
// ast.Type level: it replaces a bare GenericParamType(n) or StructType(n)
// (the parser's form for a bare generic name) with the mapped concrete type
// wherever n is a key of sub, recursing into compound types.
// Mirrors types.Substitute but operates on the parser's tagged-union Type
// representation directly, since mono clones un-checked declaration
// signatures rather than the checker's canonical Type.
func substType(t ast.Type, sub map[string]ast.Type) ast.Type {
	switch n := t.(type) {
	case ast.GenericParamType:
		if repl, ok := sub[n.Name]; ok {
			return repl
		}
		return t
	case ast.StructType:
		if repl, ok := sub[n.Name]; ok {
			return repl
		}
		return t
	case ast.NullableType:
		return ast.NewNullableType(n.Span(), substType(n.Elem, sub))
	case ast.ArrayType:
		return ast.NewArrayType(n.Span(), substType(n.Elem, sub), n.Size)
	case ast.VecType:
		return ast.NewVecType(n.Span(), substType(n.Elem, sub))
	case ast.MapType:
		return ast.NewMapType(n.Span(), substType(n.Key, sub), substType(n.Value, sub))
	case ast.GenericType:
		args := make([]ast.Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = substType(a, sub)
		}
		return ast.NewGenericType(n.Span(), n.Name, args)
	case ast.FunctionType:
		params := make([]ast.Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = substType(p, sub)
		}
		return ast.NewFunctionType(n.Span(), params, substType(n.Ret, sub))
	case ast.ResultType:
		return ast.NewResultType(n.Span(), substType(n.Ok, sub), substType(n.Err, sub))
	case ast.OptionType:
		return ast.NewOptionType(n.Span(), substType(n.Elem, sub))
	default:
		return t
	}
}

func substParams(params []ast.Param, sub map[string]ast.Type) []ast.Param {
	out := make([]ast.Param, len(params))
	for i, p := range params {
		out[i] = ast.Param{Name: p.Name, Type: substType(p.Type, sub)}
	}
	return out
}

func genericSub(names []ast.GenericParam, args []ast.Type) map[string]ast.Type {
	m := make(map[string]ast.Type, len(names))
	for i, p := range names {
		if i < len(args) {
			m[p.Name] = args[i]
		}
	}
	return m
}

// mangleType renders a concrete ast.Type the way types.Mangle renders a
// checker Type, so call sites and specialized declaration names agree
// without mono depending on a type-checked annotation being present.
func mangleType(t ast.Type) string {
	switch n := t.(type) {
	case ast.IntType:
		return "int"
	case ast.FloatType:
		return "float"
	case ast.BoolType:
		return "bool"
	case ast.StringType:
		return "string"
	case ast.VoidType:
		return "void"
	case ast.StructType:
		return n.Name
	case ast.GenericType:
		s := n.Name
		for _, a := range n.Args {
			s += "_" + mangleType(a)
		}
		return s
	case ast.VecType:
		return "Vec_" + mangleType(n.Elem)
	case ast.NullableType:
		return "Opt_" + mangleType(n.Elem)
	case ast.ArrayType:
		return "Arr_" + mangleType(n.Elem) + "_" + strconv.FormatInt(n.Size, 10)
	case ast.ResultType:
		return "Result__" + mangleType(n.Ok) + "_" + mangleType(n.Err)
	default:
		return ast.TypeString(t)
	}
}

func mangleInstantiation(name string, args []ast.Type) string {
	s := name + "__"
	for i, a := range args {
		if i > 0 {
			s += "_"
		}
		s += mangleType(a)
	}
	return s
}
