package scope

import (
	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/symbol"
)

// SymbolKind distinguishes the symbol variants named in spec.md §3.
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymParameter
	SymFunction
	SymStruct
	SymEnum
	SymTrait
	SymGenericParam
)

func (k SymbolKind) String() string {
	switch k {
	case SymVariable:
		return "variable"
	case SymParameter:
		return "parameter"
	case SymFunction:
		return "function"
	case SymStruct:
		return "struct"
	case SymEnum:
		return "enum"
	case SymTrait:
		return "trait"
	case SymGenericParam:
		return "generic parameter"
	default:
		return "unknown"
	}
}

// Symbol is one name bound in a Scope. Type holds the declared/inferred
// type of a Variable/Parameter; for Function it's the FunctionType; for
// Struct/Enum/Trait it is a StructType naming the declaration (their shape
// lives in Decl).
//
// Type is mutated in place by the checker when it records a variable's
// inferred type and during flow-sensitive null narrowing (spec.md §4.4):
// for narrowing, the checker temporarily overwrites a Variable
// symbol's Type when entering a narrowed branch, and restores it via a
// stack of (symbol, previous type) on scope exit. The resolver never
// mutates Type after Define.
type Symbol struct {
	Name  symbol.ID
	Kind  SymbolKind
	Type  ast.Type
	Decl  ast.Decl // the declaring node, nil for builtins/implicit `this`

	// OwnerScope is the scope this symbol was defined in, set by the
	// resolver at Define time.
	OwnerScope ID
}
