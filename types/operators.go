package types

import "github.com/Microindole/beryl/ast"

// binaryResult implements spec.md §4.4's `(op, lhs, rhs) → result-or-error`
// operator table. ok is false when the combination has no defined result,
// in which case the caller reports TypeMismatch.
func binaryResult(op ast.BinaryOp, lhs, rhs Type) (Type, bool) {
	if lhs.IsError() || rhs.IsError() {
		return Error, true
	}
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		if !IsNumeric(lhs) || !IsNumeric(rhs) {
			return Error, false
		}
		if lhs.Kind == KFloat || rhs.Kind == KFloat {
			return Float, true // mixed int/float arithmetic promotes to float
		}
		return Int, true
	case ast.OpEq, ast.OpNe:
		// spec.md §9: equality/ordering require a single numeric type; no
		// implicit int/float promotion here (arithmetic promotes, equality
		// does not). Structs compare pointer-equal, i.e. by declared type.
		if Equal(lhs, rhs) {
			return Bool, true
		}
		return Error, false
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		if Equal(lhs, rhs) && IsNumeric(lhs) {
			return Bool, true
		}
		return Error, false
	case ast.OpAnd, ast.OpOr:
		if lhs.Kind == KBool && rhs.Kind == KBool {
			return Bool, true
		}
		return Error, false
	case ast.OpElvis:
		if lhs.Kind == KNullable {
			if AssignableTo(rhs, *lhs.Elem) {
				return *lhs.Elem, true
			}
			return Error, false
		}
		// left not nullable: result is the left type, and no diagnostic is
		// reported (spec.md §4.4 allows this without error).
		return lhs, true
	}
	return Error, false
}

// unaryResult implements the unary operator table: `!` on bool, `-` on a
// numeric type.
func unaryResult(op ast.UnaryOp, operand Type) (Type, bool) {
	if operand.IsError() {
		return Error, true
	}
	switch op {
	case ast.OpNot:
		if operand.Kind == KBool {
			return Bool, true
		}
		return Error, false
	case ast.OpNeg:
		if IsNumeric(operand) {
			return operand, true
		}
		return Error, false
	}
	return Error, false
}

// genericBounds collects a function's own generic parameters into a
// name->bound map for genericBoundAllows lookups.
func genericBounds(params []ast.GenericParam) map[string]string {
	bounds := make(map[string]string, len(params))
	for _, p := range params {
		bounds[p.Name] = p.Bound
	}
	return bounds
}

// genericBoundAllows reports whether a generic parameter's declared trait
// bound permits op, per spec.md §4.4: `Eq` allows `==`/`!=`, `Comparable`
// allows ordering.
func genericBoundAllows(bound string, op ast.BinaryOp) bool {
	switch op {
	case ast.OpEq, ast.OpNe:
		return bound == "Eq" || bound == "Comparable"
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		return bound == "Comparable"
	default:
		return false
	}
}
